package auth

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash must not equal plaintext")
	}

	if !CheckPassword(hash, "correct horse battery staple") {
		t.Error("CheckPassword rejected the correct password")
	}
	if CheckPassword(hash, "wrong password") {
		t.Error("CheckPassword accepted a wrong password")
	}
	if CheckPassword("not-a-bcrypt-hash", "whatever") {
		t.Error("CheckPassword accepted a malformed hash")
	}
}

func TestHashPasswordLength(t *testing.T) {
	if _, err := HashPassword("short"); err == nil {
		t.Error("expected error for password shorter than 8 characters")
	}
	if _, err := HashPassword(strings.Repeat("a", 73)); err == nil {
		t.Error("expected error for password longer than 72 bytes")
	}
	if _, err := HashPassword(strings.Repeat("a", 72)); err != nil {
		t.Errorf("72-byte password should be accepted, got %v", err)
	}
}

func TestGenerateAndParseJWT(t *testing.T) {
	const secret = "test-secret"

	userID := uuid.New()
	token, err := GenerateJWT(secret, userID, "owner@example.com", "pro", 0)
	if err != nil {
		t.Fatalf("GenerateJWT returned error: %v", err)
	}

	claims, err := ParseJWT(secret, token)
	if err != nil {
		t.Fatalf("ParseJWT returned error: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("UserID = %s, want %s", claims.UserID, userID)
	}
	if claims.Email != "owner@example.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "owner@example.com")
	}
	if claims.Plan != "pro" {
		t.Errorf("Plan = %q, want %q", claims.Plan, "pro")
	}

	if _, err := ParseJWT("wrong-secret", token); err == nil {
		t.Error("ParseJWT accepted token signed with a different secret")
	}
}
