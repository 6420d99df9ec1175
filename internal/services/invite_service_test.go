package services

import (
	"strings"
	"testing"
)

func TestNewCode(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		code := NewCode()

		if len(code) != inviteCodeLength {
			t.Fatalf("code %q has length %d, want %d", code, len(code), inviteCodeLength)
		}
		if code != strings.ToUpper(code) {
			t.Errorf("code %q is not uppercase", code)
		}
		for _, r := range code {
			if !strings.ContainsRune("0123456789ABCDEF", r) {
				t.Errorf("code %q contains non-hex character %q", code, r)
			}
		}
		seen[code] = true
	}

	// 100 draws from a 16^8 space colliding down to a handful would
	// mean the generator is broken, not unlucky.
	if len(seen) < 95 {
		t.Errorf("expected near-unique codes, got %d distinct of 100", len(seen))
	}
}
