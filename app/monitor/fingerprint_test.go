package monitor

import (
	"testing"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello World", "hello world"},
		{"  Hello   World  ", "hello world"},
		{"Hello\tWorld\n", "hello world"},
		{"ＡｃｍｅＴｅｃｈ", "acmetech"}, // fullwidth folds to ASCII
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeText(tt.input); got != tt.expected {
			t.Errorf("NormalizeText(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestFingerprint_StableAcrossFormatting(t *testing.T) {
	a := Fingerprint("AcmeTech releases   new phone")
	b := Fingerprint("acmetech RELEASES new\tphone")

	if a != b {
		t.Error("Expected identical fingerprints for formatting variants of the same text")
	}
}

func TestFingerprint_DistinctContent(t *testing.T) {
	a := Fingerprint("AcmeTech releases new phone")
	b := Fingerprint("AcmeTech recalls new phone")

	if a == b {
		t.Error("Expected different fingerprints for different content")
	}
}

func TestFingerprint_HexLength(t *testing.T) {
	if got := len(Fingerprint("any text")); got != 64 {
		t.Errorf("Expected 64 hex characters, got %d", got)
	}
}
