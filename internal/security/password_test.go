package security

import "testing"

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !IsHashed(hash) {
		t.Errorf("IsHashed(%q) = false", hash)
	}
	if hash == "secret1" {
		t.Error("HashPassword() returned the plaintext")
	}

	other, _ := HashPassword("secret1")
	if other == hash {
		t.Error("HashPassword() should salt each hash")
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	tests := []struct {
		name        string
		stored      string
		candidate   string
		wantMatch   bool
		wantUpgrade bool
	}{
		{name: "hash matches", stored: hash, candidate: "secret1", wantMatch: true},
		{name: "hash mismatch", stored: hash, candidate: "secret2"},
		{name: "legacy plaintext matches", stored: "secret1", candidate: "secret1", wantMatch: true, wantUpgrade: true},
		{name: "legacy plaintext mismatch", stored: "secret1", candidate: "Secret1"},
		{name: "empty candidate", stored: "secret1", candidate: ""},
		{name: "empty stored", stored: "", candidate: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, upgrade := CheckPassword(tt.stored, tt.candidate)
			if match != tt.wantMatch || upgrade != tt.wantUpgrade {
				t.Errorf("CheckPassword() = (%v, %v), want (%v, %v)", match, upgrade, tt.wantMatch, tt.wantUpgrade)
			}
		})
	}
}
