package logging

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetup_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tagger_eval.log")

	closer, err := Setup(path)
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	log.Printf("Info: hello from the test")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "Info: hello from the test") {
		t.Errorf("log file content = %q, want the logged line", string(data))
	}
}

func TestSetup_StderrOnly(t *testing.T) {
	closer, err := Setup("")
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if err := closer.Close(); err != nil {
		t.Errorf("Close of stderr-only setup returned %v", err)
	}
}
