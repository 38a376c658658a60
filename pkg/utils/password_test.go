package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	t.Run("hashes password and validates original password", func(t *testing.T) {
		password := "super-secret-password"

		hash, err := HashPassword(password)
		if err != nil {
			t.Fatalf("expected hashing to succeed, got error: %v", err)
		}
		if hash == "" {
			t.Fatal("expected non-empty hash, got empty string")
		}
		if hash == password {
			t.Fatal("expected hash to differ from raw password")
		}

		if !CheckPassword(password, hash) {
			t.Fatal("expected password check to succeed for matching password and hash")
		}
	})

	t.Run("salts every hash", func(t *testing.T) {
		first, err := HashPassword("same-password")
		if err != nil {
			t.Fatalf("failed to hash password for test: %v", err)
		}
		second, err := HashPassword("same-password")
		if err != nil {
			t.Fatalf("failed to hash password for test: %v", err)
		}
		if first == second {
			t.Fatal("expected two hashes of the same password to differ")
		}
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		hash, err := HashPassword("correct-password")
		if err != nil {
			t.Fatalf("failed to hash password for test: %v", err)
		}

		if CheckPassword("wrong-password", hash) {
			t.Fatal("expected password check to fail for wrong password")
		}
	})

	t.Run("returns false for malformed hash", func(t *testing.T) {
		if CheckPassword("anything", "not-a-valid-bcrypt-hash") {
			t.Fatal("expected malformed hash comparison to return false")
		}
	})
}
