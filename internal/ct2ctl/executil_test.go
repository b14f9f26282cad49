package ct2ctl

import (
	"context"
	"testing"
)

func TestRunCmdSuccess(t *testing.T) {
	if err := runCmdVerbose(context.Background(), "true"); err != nil {
		t.Fatalf("true: %v", err)
	}
}

func TestRunCmdFailure(t *testing.T) {
	if err := runCmdVerbose(context.Background(), "false"); err == nil {
		t.Fatalf("expected non-zero exit from false")
	}
}

func TestRunCmdStreaming(t *testing.T) {
	if err := runCmdStreaming(context.Background(), "sh", "-c", "echo line1; echo line2"); err != nil {
		t.Fatalf("streaming: %v", err)
	}
}

func TestRunCmdInDir(t *testing.T) {
	dir := t.TempDir()
	if err := runCmdInDir(context.Background(), dir, "sh", "-c", "test \"$(pwd)\" = \""+dir+"\""); err != nil {
		t.Fatalf("working directory not applied: %v", err)
	}
}

func TestRunCmdEnv(t *testing.T) {
	err := RunCmd(context.Background(), Cmd{
		Path: "sh",
		Args: []string{"-c", "test \"$CT2CTL_TEST_VAR\" = \"on\""},
		Env:  map[string]string{"CT2CTL_TEST_VAR": "on"},
	})
	if err != nil {
		t.Fatalf("env var not applied: %v", err)
	}
}
