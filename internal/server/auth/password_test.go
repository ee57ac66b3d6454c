package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("expected bcrypt hash, got %q", hash)
	}
	if cost, _ := bcrypt.Cost([]byte(hash)); cost != PasswordCost {
		t.Fatalf("cost = %d, want %d", cost, PasswordCost)
	}
	if !CheckPassword(hash, "correct horse") {
		t.Fatal("expected password to match")
	}
	if CheckPassword(hash, "wrong horse") {
		t.Fatal("expected mismatch")
	}
}

func TestCheckPassword_EmptyHash(t *testing.T) {
	t.Parallel()

	if CheckPassword("", "") {
		t.Fatal("empty hash must never match")
	}
}
