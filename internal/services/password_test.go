package services

import "testing"

func TestHashAndVerify(t *testing.T) {
	s := NewPasswordService(4)

	digest, err := s.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if digest == "secret1" {
		t.Fatal("Digest must not equal the plaintext password")
	}

	if !s.Verify("secret1", digest) {
		t.Error("Expected correct password to verify")
	}
	if s.Verify("wrong", digest) {
		t.Error("Expected wrong password to fail verification")
	}
}

func TestHashIsSalted(t *testing.T) {
	s := NewPasswordService(4)

	first, err := s.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	second, err := s.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if first == second {
		t.Error("Expected salted digests to differ")
	}
}

func TestOutOfRangeCostFallsBack(t *testing.T) {
	s := NewPasswordService(1000)

	digest, err := s.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !s.Verify("secret1", digest) {
		t.Error("Expected digest from fallback cost to verify")
	}
}
