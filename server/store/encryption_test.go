package store

import (
	"encoding/json"
	"testing"
)

func testCipher(t *testing.T, size int) *contentCipher {
	key := make([]byte, size)
	for i := range key {
		key[i] = byte(i)
	}
	c, err := newContentCipher(key)
	if err != nil {
		t.Fatalf("failed to create cipher with %d-byte key: %v", size, err)
	}
	if c == nil {
		t.Fatal("cipher should be enabled")
	}
	return c
}

func TestNewContentCipher(t *testing.T) {
	// No key disables encryption.
	c, err := newContentCipher(nil)
	if err != nil {
		t.Fatal(err)
	}
	if c != nil {
		t.Error("cipher should be nil without a key")
	}

	for _, size := range []int{16, 24, 32} {
		testCipher(t, size)
	}

	if _, err = newContentCipher(make([]byte, 20)); err == nil {
		t.Error("a 20-byte key should be rejected")
	}
}

func TestSealOpenRoundTrip(t *testing.T) {
	c := testCipher(t, 32)

	content := map[string]interface{}{"msgtype": "text", "body": "secret"}
	sealed, err := c.seal(content)
	if err != nil {
		t.Fatal("seal failed:", err)
	}

	sc, ok := sealed.(*sealedContent)
	if !ok || !sc.Encrypted {
		t.Fatal("sealed content has the wrong shape")
	}

	opened, err := c.open(sealed)
	if err != nil {
		t.Fatal("open failed:", err)
	}
	got, ok := opened.(map[string]interface{})
	if !ok || got["body"] != "secret" {
		t.Error("round trip mismatch:", opened)
	}
}

func TestOpenAfterStorageRoundTrip(t *testing.T) {
	c := testCipher(t, 16)

	sealed, err := c.seal("hello")
	if err != nil {
		t.Fatal("seal failed:", err)
	}

	// Adapters return content as a generic JSON value, not *sealedContent.
	raw, _ := json.Marshal(sealed)
	var stored interface{}
	json.Unmarshal(raw, &stored)

	opened, err := c.open(stored)
	if err != nil {
		t.Fatal("open failed:", err)
	}
	if opened != "hello" {
		t.Error("round trip mismatch:", opened)
	}
}

func TestOpenPassesPlaintextThrough(t *testing.T) {
	c := testCipher(t, 32)

	// Content written before encryption was enabled comes back untouched.
	for _, content := range []interface{}{
		"plain string",
		map[string]interface{}{"body": "plain"},
		nil,
	} {
		opened, err := c.open(content)
		if err != nil {
			t.Fatal("open of plaintext failed:", err)
		}
		switch want := content.(type) {
		case map[string]interface{}:
			got, ok := opened.(map[string]interface{})
			if !ok || got["body"] != want["body"] {
				t.Error("plaintext mangled:", opened)
			}
		default:
			if opened != content {
				t.Error("plaintext mangled:", opened)
			}
		}
	}
}

func TestNilCipherPassthrough(t *testing.T) {
	var c *contentCipher

	sealed, err := c.seal("hello")
	if err != nil || sealed != "hello" {
		t.Error("nil cipher must pass content through on seal:", sealed, err)
	}
	opened, err := c.open("hello")
	if err != nil || opened != "hello" {
		t.Error("nil cipher must pass content through on open:", opened, err)
	}
}

func TestSealIsRandomized(t *testing.T) {
	c := testCipher(t, 32)

	a, _ := c.seal("same")
	b, _ := c.seal("same")
	if string(a.(*sealedContent).Nonce) == string(b.(*sealedContent).Nonce) {
		t.Error("two seals reused a nonce")
	}
}

func TestOpenWrongKey(t *testing.T) {
	c1 := testCipher(t, 32)
	c2 := testCipher(t, 16)

	sealed, err := c1.seal("secret")
	if err != nil {
		t.Fatal("seal failed:", err)
	}
	if _, err = c2.open(sealed); err == nil {
		t.Error("open with the wrong key should fail")
	}
}
