package utils

import (
	"strings"
	"testing"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash := HashPassword("correct horse battery staple")

	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}
	if !VerifyPassword("correct horse battery staple", hash) {
		t.Error("correct password rejected")
	}
	if VerifyPassword("correct horse battery stable", hash) {
		t.Error("wrong password accepted")
	}
	if VerifyPassword("", hash) {
		t.Error("empty password accepted")
	}
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	first := HashPassword("pw123")
	second := HashPassword("pw123")

	if first == second {
		t.Error("two hashes of the same password share a salt")
	}
	if !VerifyPassword("pw123", first) || !VerifyPassword("pw123", second) {
		t.Error("hash does not verify against its own password")
	}
}

func TestVerifyPasswordMalformed(t *testing.T) {
	testCases := []string{
		"",
		"plaintext",
		"$argon2id$",
		"$argon2i$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$m=65536,t=1,p=4$!!!$aGFzaA",
	}

	for _, hash := range testCases {
		if VerifyPassword("pw123", hash) {
			t.Errorf("malformed hash %q accepted", hash)
		}
	}
}

func TestLegacyPasswordRoundTrip(t *testing.T) {
	hash := HashLegacyPassword("legacy secret")

	if !VerifyLegacyPassword("legacy secret", hash) {
		t.Error("correct password rejected")
	}
	if VerifyLegacyPassword("legacy Secret", hash) {
		t.Error("wrong password accepted")
	}
	if VerifyLegacyPassword("legacy secret", "not base64!") {
		t.Error("malformed hash accepted")
	}
}

func TestGenerateRandomString(t *testing.T) {
	s := GenerateRandomString(32)
	if len(s) != 32 {
		t.Errorf("len = %d; want 32", len(s))
	}
	if s == GenerateRandomString(32) {
		t.Error("two generated strings are identical")
	}
}
