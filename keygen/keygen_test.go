package main

import (
	"testing"
)

func TestGenerateProducesValidKey(t *testing.T) {
	key := generate()

	if err := validate(key); err != nil {
		t.Errorf("generated key failed validation: %v", err)
	}
}

func TestGenerateIsRandom(t *testing.T) {
	if generate() == generate() {
		t.Error("two generated keys are identical")
	}
}

func TestValidateRejectsBadBase64(t *testing.T) {
	if err := validate("not_base64!"); err == nil {
		t.Error("expected an error for malformed base64")
	}
}

func TestValidateRejectsWrongLength(t *testing.T) {
	if err := validate("c2hvcnQ="); err == nil {
		t.Error("expected an error for a short key")
	}
}
