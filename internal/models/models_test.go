package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestEnumValidity(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
		want  bool
	}{
		{name: "student", valid: RoleStudent.Valid(), want: true},
		{name: "teacher", valid: RoleTeacher.Valid(), want: true},
		{name: "admin role", valid: Role("admin").Valid(), want: false},
		{name: "male", valid: GenderMale.Valid(), want: true},
		{name: "female", valid: GenderFemale.Valid(), want: true},
		{name: "long gender", valid: Gender("male").Valid(), want: false},
		{name: "black house", valid: HouseBlack.Valid(), want: true},
		{name: "purple house", valid: House("purple").Valid(), want: false},
		{name: "capitalised house", valid: House("Red").Valid(), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.valid != tt.want {
				t.Errorf("Valid() = %v, want %v", tt.valid, tt.want)
			}
		})
	}
}

func TestNewUserRecordSerialisesEmptyLists(t *testing.T) {
	record := NewUserRecord("a@school.edu", "hash", "Alice", RoleStudent, time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC))
	if record.CreatedAt != "2024-03-14" {
		t.Errorf("CreatedAt = %q, want 2024-03-14", record.CreatedAt)
	}

	data, err := json.Marshal(record)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"bmi_history", "napfa_history", "exercises", "badges", "friends", "students"} {
		if string(raw[key]) != "[]" {
			t.Errorf("%s = %s, want []", key, raw[key])
		}
	}
	if string(raw["house"]) != "null" {
		t.Errorf("house = %s, want null", raw["house"])
	}
}

func TestNormalizeFillsMissingLists(t *testing.T) {
	var record UserRecord
	if err := json.Unmarshal([]byte(`{"email":"old@school.edu","name":"Old"}`), &record); err != nil {
		t.Fatal(err)
	}
	record.Normalize()

	if record.Exercises == nil || record.GroupInvites == nil || record.HydrationLog == nil || record.Students == nil {
		t.Fatalf("Normalize left nil slices: %+v", record)
	}
}

func TestCloneIsDeep(t *testing.T) {
	house := HouseGreen
	record := NewUserRecord("a@school.edu", "hash", "Alice", RoleStudent, time.Now())
	record.House = &house
	record.Friends = append(record.Friends, "bob")

	clone, err := record.Clone()
	if err != nil {
		t.Fatal(err)
	}
	clone.Friends[0] = "carol"
	*clone.House = HouseRed

	if record.Friends[0] != "bob" {
		t.Errorf("original friends changed to %v", record.Friends)
	}
	if record.HouseName() != "green" {
		t.Errorf("original house changed to %q", record.HouseName())
	}
}

func TestHasBadge(t *testing.T) {
	record := &UserRecord{Badges: []Badge{
		{Key: "napfa_first_test", Name: "First Steps"},
		{Name: "Legacy Badge"},
	}}

	tests := []struct {
		name     string
		key      string
		badge    string
		expected bool
	}{
		{name: "by key", key: "napfa_first_test", badge: "Renamed", expected: true},
		{name: "legacy by name", key: "legacy", badge: "Legacy Badge", expected: true},
		{name: "keyed badge not matched by name", key: "other", badge: "First Steps", expected: false},
		{name: "missing", key: "workouts_10", badge: "Ten Workouts", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := record.HasBadge(tt.key, tt.badge); got != tt.expected {
				t.Errorf("HasBadge(%q, %q) = %v, want %v", tt.key, tt.badge, got, tt.expected)
			}
		})
	}
}

func TestNapfaGrades(t *testing.T) {
	var grades NapfaGrades
	for i, station := range Stations {
		grades.Set(station, i%5+1)
	}

	if grades.Get(StationSitUps) != 1 || grades.Get(StationRun) != 1 {
		t.Errorf("grades = %+v", grades)
	}
	if got := grades.Sum(); got != 1+2+3+4+5+1 {
		t.Errorf("Sum() = %d, want 16", got)
	}
	if got := grades.Min(); got != 1 {
		t.Errorf("Min() = %d, want 1", got)
	}
}

func TestNapfaScoresJSONUsesStationCodes(t *testing.T) {
	data, err := json.Marshal(NapfaScores{SitUps: 40, Run: 12.5})
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if raw["SU"] != 40 || raw["RUN"] != 12.5 {
		t.Errorf("scores JSON = %s", data)
	}
}
