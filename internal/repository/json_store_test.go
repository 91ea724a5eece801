package repository

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestJSONFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	store := NewJSONFileStore(path)
	ctx := context.Background()

	teacher := fullRecord("tan@school.edu")
	teacher.Role = "teacher"
	teacher.House = nil
	teacher.Students = append(teacher.Students, "jane_doe")

	doc := Document{
		"jane_doe": fullRecord("jane.doe@school.edu"),
		"tan":      teacher,
	}
	if err := store.Save(ctx, doc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(doc, loaded) {
		t.Errorf("round trip mismatch\nsaved:  %+v\nloaded: %+v", doc["jane_doe"], loaded["jane_doe"])
	}
	if loaded["tan"].House != nil {
		t.Errorf("House = %v, want nil", *loaded["tan"].House)
	}

	leftovers, _ := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}

func TestJSONFileStoreMissingFile(t *testing.T) {
	store := NewJSONFileStore(filepath.Join(t.TempDir(), "absent.json"))
	doc, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v, want empty store", err)
	}
	if len(doc) != 0 {
		t.Errorf("Load() returned %d records, want 0", len(doc))
	}
}

func TestJSONFileStoreCorruptFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{name: "truncated", content: `{"jane": {"email": "jane@school.edu"`, wantErr: true},
		{name: "wrong shape", content: `["jane"]`, wantErr: true},
		{name: "null record", content: `{"jane": null}`, wantErr: true},
		{name: "empty file", content: "", wantErr: false},
		{name: "empty object", content: "{}\n", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "users.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatalf("write fixture: %v", err)
			}
			_, err := NewJSONFileStore(path).Load(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecodeLegacyRecord(t *testing.T) {
	legacy := `{"jane": {"email": "jane@school.edu", "password": "secret1", "role": "student",
		"name": "Jane", "house": "red", "badges": [{"name": "Fitness Tested", "points": 10}]}}`

	doc, err := DecodeDocument([]byte(legacy))
	if err != nil {
		t.Fatalf("DecodeDocument() error = %v", err)
	}
	record := doc["jane"]
	if record.HouseName() != "red" {
		t.Errorf("HouseName() = %q, want red", record.HouseName())
	}
	if !record.HasBadge("napfa_first_test", "Fitness Tested") {
		t.Error("legacy badge should match by name")
	}
	record.Normalize()
	if record.Exercises == nil || record.Students == nil {
		t.Error("Normalize() should fill missing sequences")
	}
}
