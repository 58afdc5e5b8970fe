package uuid

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	id := New()
	if !IsValid(id) {
		t.Fatalf("expected valid UUID, got %q", id)
	}
	// Version nibble is the first character of the third group.
	if parts := strings.Split(id, "-"); parts[2][0] != '7' {
		t.Errorf("expected version 7 UUID, got %q", id)
	}
	if New() == id {
		t.Error("expected consecutive IDs to differ")
	}
}

func TestParse(t *testing.T) {
	got, err := Parse("0190A5E4-7B2C-7D3E-8F40-123456789ABC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "0190a5e4-7b2c-7d3e-8f40-123456789abc" {
		t.Errorf("expected canonical lowercase form, got %q", got)
	}

	if _, err := Parse("not-a-uuid"); err == nil {
		t.Error("expected error for malformed input")
	}
	if IsValid("123") {
		t.Error("expected 123 to be invalid")
	}
}
