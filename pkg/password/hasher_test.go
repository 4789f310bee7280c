package password

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndCheck(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret!" {
		t.Fatalf("expected password to be hashed")
	}
	if !h.Check("s3cret!", hash) {
		t.Fatalf("expected matching password to check")
	}
	if h.Check("wrong", hash) {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestHasher_SaltsEachHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	a, _ := h.Hash("same")
	b, _ := h.Hash("same")
	if a == b {
		t.Fatalf("expected distinct salts")
	}
}

func TestHasher_CostFallback(t *testing.T) {
	h := NewHasher(99)
	hash, err := h.Hash("pw")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil || cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d (%v)", cost, err)
	}
	if h.CheckDummy("pw") {
		t.Fatalf("dummy check must never succeed")
	}
}
