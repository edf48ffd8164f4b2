package qimachine

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCorrupt(machineDir string) error {
	if err := os.MkdirAll(machineDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(machineDir, "machine_id"), []byte("not-a-uuid"), 0o644)
}

func TestIDGeneratesAndPersists(t *testing.T) {
	dir := t.TempDir()

	first, err := ID(dir)
	if err != nil {
		t.Fatalf("ID: %v", err)
	}
	if first.String() == "" {
		t.Fatal("expected a non-empty UUID")
	}

	second, err := ID(dir)
	if err != nil {
		t.Fatalf("ID (second run): %v", err)
	}
	if first != second {
		t.Fatalf("expected stable id across runs, got %v then %v", first, second)
	}
}

func TestIDRegeneratesOnCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/qimessaging"
	if err := writeCorrupt(path); err != nil {
		t.Fatalf("writeCorrupt: %v", err)
	}

	id, err := ID(dir)
	if err != nil {
		t.Fatalf("ID: %v", err)
	}
	if id.String() == "" {
		t.Fatal("expected a valid UUID after regeneration")
	}
}
