package security

import "testing"

func TestCsrfGuard_IssueLengthAndUniqueness(t *testing.T) {
	guard := NewCsrfGuard()

	token, err := guard.Issue()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// 32 bytes raw-url encoded is 43 characters.
	if len(token) < 43 {
		t.Errorf("expected at least 43 characters, got %d", len(token))
	}

	second, err := guard.Issue()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if token == second {
		t.Error("expected distinct tokens per issue")
	}
}

func TestCsrfGuard_Verify(t *testing.T) {
	guard := NewCsrfGuard()
	token, err := guard.Issue()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !guard.Verify(token, token) {
		t.Error("expected exact match to verify")
	}
	if guard.Verify("", token) {
		t.Error("expected empty presented token to fail")
	}
	if guard.Verify(token, "") {
		t.Error("expected empty cookie token to fail")
	}
	if guard.Verify(token[:len(token)-1], token) {
		t.Error("expected truncated token to fail")
	}

	// Flip one byte.
	mutated := []byte(token)
	if mutated[0] == 'A' {
		mutated[0] = 'B'
	} else {
		mutated[0] = 'A'
	}
	if guard.Verify(string(mutated), token) {
		t.Error("expected single-byte mismatch to fail")
	}
}
