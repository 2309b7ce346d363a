package auth

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name string
		pw   string
		ok   bool
	}{
		{"valid", "Str0ngpass", true},
		{"too short", "Ab1", false},
		{"no uppercase", "weakpass1", false},
		{"no lowercase", "WEAKPASS1", false},
		{"no digit", "Weakpassword", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.pw)
			if tt.ok && err != nil {
				t.Fatalf("ValidatePassword(%q): %v", tt.pw, err)
			}
			if !tt.ok && !errors.Is(err, ErrWeakPassword) {
				t.Fatalf("ValidatePassword(%q): got %v, want ErrWeakPassword", tt.pw, err)
			}
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Str0ngpass", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "Str0ngpass" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPassword(hash, "Str0ngpass") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "WrongPass1") {
		t.Fatal("wrong password accepted")
	}
	if CheckPassword("not-a-hash", "Str0ngpass") {
		t.Fatal("bogus digest accepted")
	}
}

func TestTokenIssuer_MintVerify(t *testing.T) {
	ti := NewTokenIssuer("unit-secret", time.Hour)

	tok, err := ti.Mint("user-1", "alice")
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	claims, err := ti.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("Subject = %q, want user-1", claims.Subject)
	}
	if claims.Username != "alice" {
		t.Errorf("Username = %q, want alice", claims.Username)
	}
}

func TestTokenIssuer_RejectsGarbage(t *testing.T) {
	ti := NewTokenIssuer("unit-secret", time.Hour)
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := ti.Verify(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q): got %v, want ErrInvalidToken", tok, err)
		}
	}
}

func TestTokenIssuer_RejectsWrongSecret(t *testing.T) {
	good := NewTokenIssuer("secret-a", time.Hour)
	evil := NewTokenIssuer("secret-b", time.Hour)

	tok, err := evil.Mint("user-1", "mallory")
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if _, err := good.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("token signed with other secret verified: %v", err)
	}
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	ti := NewTokenIssuer("unit-secret", -time.Minute) // already expired at mint
	tok, err := ti.Mint("user-1", "alice")
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if _, err := ti.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token verified: %v", err)
	}
}
