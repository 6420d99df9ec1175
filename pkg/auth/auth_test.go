package auth

import (
	"strings"
	"testing"
	"time"
)

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid bearer", "Bearer abc123", "abc123", false},
		{"case insensitive scheme", "bearer abc123", "abc123", false},
		{"empty header", "", "", true},
		{"missing token", "Bearer ", "", true},
		{"wrong scheme", "Basic abc123", "", true},
		{"no scheme", "abc123", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractToken(tt.header)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractToken(%q) error = %v, wantErr %v", tt.header, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtractToken(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestJWTRoundTrip(t *testing.T) {
	jwtAuth, err := NewJWTAuth("test-secret", 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	access, refresh, err := jwtAuth.GenerateTokens("user-1", "user@example.com")
	if err != nil {
		t.Fatalf("failed to generate tokens: %v", err)
	}
	if access == "" || refresh == "" || access == refresh {
		t.Fatal("expected two distinct non-empty tokens")
	}

	identity, err := jwtAuth.VerifyToken(access)
	if err != nil {
		t.Fatalf("failed to verify access token: %v", err)
	}
	if identity.ID != "user-1" || identity.Email != "user@example.com" {
		t.Errorf("identity = %+v, want user-1/user@example.com", identity)
	}

	if _, err := jwtAuth.VerifyToken(refresh); err != nil {
		t.Errorf("failed to verify refresh token: %v", err)
	}
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	signer, _ := NewJWTAuth("secret-one", 0, 0)
	verifier, _ := NewJWTAuth("secret-two", 0, 0)

	token, _, err := signer.GenerateTokens("user-1", "user@example.com")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := verifier.VerifyToken(token); err == nil {
		t.Error("token signed with a different secret verified")
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	jwtAuth, _ := NewJWTAuth("test-secret", time.Millisecond, time.Millisecond)

	token, _, err := jwtAuth.GenerateTokens("user-1", "user@example.com")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if _, err := jwtAuth.VerifyToken(token); err == nil {
		t.Error("expired token verified")
	}
}

func TestNewJWTAuthRequiresSecret(t *testing.T) {
	if _, err := NewJWTAuth("", 0, 0); err == nil {
		t.Error("expected error for empty secret")
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse 1")
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}
	if !strings.HasPrefix(hash, "argon2id$") {
		t.Errorf("hash %q missing argon2id prefix", hash)
	}

	ok, err := VerifyPassword(hash, "correct horse 1")
	if err != nil || !ok {
		t.Errorf("correct password rejected: ok=%v err=%v", ok, err)
	}

	ok, err = VerifyPassword(hash, "wrong password 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordSalts(t *testing.T) {
	h1, _ := HashPassword("same password 1")
	h2, _ := HashPassword("same password 1")
	if h1 == h2 {
		t.Error("two hashes of the same password are identical; salt is not random")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	for _, hash := range []string{"", "argon2id$onlyone", "bcrypt$a$b", "a$b$c$d"} {
		if _, err := VerifyPassword(hash, "whatever"); err == nil {
			t.Errorf("VerifyPassword accepted malformed hash %q", hash)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "password1", false},
		{"too short", "pass1", true},
		{"no number", "passwords", true},
		{"no letter", "12345678", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
		})
	}
}
