package services

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestGenerateKey(t *testing.T) {
	key, prefix, err := GenerateKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(key, APIKeyPrefixLabel) {
		t.Errorf("key %q missing %q label", key, APIKeyPrefixLabel)
	}
	if len(key) != len(APIKeyPrefixLabel)+apiKeyRandomBytes*2 {
		t.Errorf("key length = %d, want %d", len(key), len(APIKeyPrefixLabel)+apiKeyRandomBytes*2)
	}
	if prefix != key[:apiKeyLookupLen] {
		t.Errorf("prefix %q is not the first %d characters of the key", prefix, apiKeyLookupLen)
	}

	key2, _, err := GenerateKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key == key2 {
		t.Error("two generated keys are identical")
	}
}

func TestGeneratedKeyVerifiesAgainstHash(t *testing.T) {
	key, _, err := GenerateKey()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash key: %v", err)
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(key)); err != nil {
		t.Errorf("key does not verify against its own hash: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(key+"x")); err == nil {
		t.Error("tampered key verified against the hash")
	}
}
