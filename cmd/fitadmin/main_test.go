package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"schoolfit/internal/models"
	"schoolfit/internal/repository"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func seedStore(t *testing.T, path string, usernames ...string) {
	t.Helper()
	users := repository.NewUserRepository(repository.NewJSONFileStore(path))
	if err := users.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	for _, username := range usernames {
		record := models.NewUserRecord(username+"@school.edu", "secret1", username, models.RoleStudent, time.Now())
		if err := users.Put(username, record); err != nil {
			t.Fatal(err)
		}
	}
	if err := users.Save(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestRootHelp(t *testing.T) {
	out, err := run(t, "--help")
	if err != nil {
		t.Fatalf("execute root help: %v", err)
	}
	for _, want := range []string{"export", "import", "grade", "standings"} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q", want)
		}
	}
}

func TestGradeCommand(t *testing.T) {
	out, err := run(t, "grade", "--age", "14", "--gender", "m",
		"--sit-ups", "60", "--broad-jump", "260", "--sit-reach", "50",
		"--pull-ups", "20", "--shuttle-run", "9.0", "--run", "9.0")
	if err != nil {
		t.Fatalf("grade failed: %v", err)
	}
	if !strings.Contains(out, "Medal: Gold") {
		t.Errorf("output missing gold medal:\n%s", out)
	}
	if !strings.Contains(out, "30") {
		t.Errorf("output missing total of 30:\n%s", out)
	}
}

func TestGradeCommandRejectsAge(t *testing.T) {
	if _, err := run(t, "grade", "--age", "9", "--gender", "m"); err == nil {
		t.Fatal("expected an error for age 9")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.json")
	target := filepath.Join(dir, "target.json")
	backup := filepath.Join(dir, "backups", "users.json")
	seedStore(t, source, "alice", "bob")
	seedStore(t, target, "carol")

	if _, err := run(t, "--store", "json", "--data-file", source, "export", "--output", backup); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	out, err := run(t, "--store", "json", "--data-file", target, "import", "--input", backup, "--force")
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(out, "Imported 2 users") {
		t.Errorf("unexpected import output: %s", out)
	}

	users := repository.NewUserRepository(repository.NewJSONFileStore(target))
	if err := users.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if users.Len() != 2 || !users.Exists("alice") || users.Exists("carol") {
		t.Fatalf("target store was not replaced by the backup")
	}
}

func TestImportNeedsConfirmation(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.json")
	backup := filepath.Join(dir, "backup.json")
	seedStore(t, filepath.Join(dir, "source.json"), "alice")
	seedStore(t, target, "carol")

	importForce = false
	if _, err := run(t, "--store", "json", "--data-file", filepath.Join(dir, "source.json"), "export", "--output", backup); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	out, err := run(t, "--store", "json", "--data-file", target, "import", "--input", backup)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(out, "Import cancelled") {
		t.Errorf("expected cancellation, got %s", out)
	}
}

func TestStandingsCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	seedStore(t, path, "alice")

	out, err := run(t, "--store", "json", "--data-file", path, "standings")
	if err != nil {
		t.Fatalf("standings failed: %v", err)
	}
	for _, house := range models.Houses {
		if !strings.Contains(out, string(house)) {
			t.Errorf("standings missing %s:\n%s", house, out)
		}
	}
}
