package security

import "testing"

func TestCSRFSigner(t *testing.T) {
	signer := NewCSRFSigner("secret")

	token := signer.Token("session-1")
	if token == "" {
		t.Fatal("Token() returned empty string")
	}
	if token != signer.Token("session-1") {
		t.Error("Token() should be deterministic per session")
	}

	tests := []struct {
		name      string
		sessionID string
		token     string
		want      bool
	}{
		{name: "valid", sessionID: "session-1", token: token, want: true},
		{name: "other session", sessionID: "session-2", token: token, want: false},
		{name: "empty token", sessionID: "session-1", token: "", want: false},
		{name: "empty session", sessionID: "", token: token, want: false},
		{name: "garbage", sessionID: "session-1", token: "abc", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := signer.Verify(tt.sessionID, tt.token); got != tt.want {
				t.Errorf("Verify() = %v, want %v", got, tt.want)
			}
		})
	}

	if NewCSRFSigner("other").Verify("session-1", token) {
		t.Error("token verified under a different secret")
	}
}
