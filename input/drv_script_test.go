package input

import (
	"os"
	"testing"
	"time"
)

func writeScript(t *testing.T, contents string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "script-*.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString(contents); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return f.Name()
}

func TestScriptDriverPlaysBackDownThenUp(t *testing.T) {
	t.Setenv("INPUT_SCRIPT", writeScript(t, "KeyA\nEnter\n"))

	sd := &ScriptDriver{}
	if err := sd.Setup(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ev := sd.Poll()
	if len(ev) != 1 || ev[0].Code != "KeyA" || !ev[0].Down {
		t.Fatalf("expected KeyA down first, got %+v", ev)
	}

	time.Sleep(holdDelay + time.Millisecond)
	ev = sd.Poll()
	if len(ev) != 1 || ev[0].Code != "KeyA" || ev[0].Down {
		t.Fatalf("expected KeyA up second, got %+v", ev)
	}
}

func TestScriptDriverSkipsBlankAndCommentLines(t *testing.T) {
	t.Setenv("INPUT_SCRIPT", writeScript(t, "\n# a comment\nEnter\n"))

	sd := &ScriptDriver{}
	if err := sd.Setup(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sd.codes) != 1 || sd.codes[0] != "Enter" {
		t.Fatalf("expected only the Enter line to survive, got %v", sd.codes)
	}
}

func TestScriptDriverReturnsNothingAfterExhaustion(t *testing.T) {
	t.Setenv("INPUT_SCRIPT", writeScript(t, "Enter\n"))

	sd := &ScriptDriver{}
	if err := sd.Setup(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sd.Poll()
	time.Sleep(holdDelay + time.Millisecond)
	sd.Poll()

	if ev := sd.Poll(); ev != nil {
		t.Fatalf("expected no more events once the script is exhausted, got %+v", ev)
	}
}
