package types

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestIdGeneratorInit(t *testing.T) {
	ig := &IdGenerator{}
	key := []byte("testkey1testkey2") // 16 bytes for XTEA

	if err := ig.Init(1, key); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ig.seq == nil {
		t.Error("Snowflake generator should be initialized")
	}
	if ig.cipher == nil {
		t.Error("Cipher should be initialized")
	}

	// A second Init must not replace the live generator state.
	oldSeq := ig.seq
	oldCipher := ig.cipher
	if err := ig.Init(3, key); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ig.seq != oldSeq {
		t.Error("Snowflake generator should not be reinitialized")
	}
	if ig.cipher != oldCipher {
		t.Error("Cipher should not be reinitialized")
	}
}

func TestIdGeneratorInitWithInvalidKey(t *testing.T) {
	for _, key := range [][]byte{nil, {}, []byte("short"), []byte("testkey1testkey")} {
		ig := &IdGenerator{}
		if err := ig.Init(1, key); err == nil {
			t.Errorf("Expected error for %d-byte key", len(key))
		}
	}
}

func TestIdGeneratorGetStr(t *testing.T) {
	ig := &IdGenerator{}
	if err := ig.Init(1, []byte("testkey1testkey2")); err != nil {
		t.Fatalf("Failed to initialize generator: %v", err)
	}

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := ig.GetStr()
		if id == "" {
			t.Fatal("Generated id should not be empty")
		}
		if seen[id] {
			t.Fatalf("Duplicate id generated: %s", id)
		}
		seen[id] = true

		decoded, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(id)
		if err != nil {
			t.Fatalf("Generated id should be valid base64: %v", err)
		}
		if len(decoded) != 8 {
			t.Fatalf("Decoded id should be 8 bytes, got %d", len(decoded))
		}
	}
}

func TestIdGeneratorRoomId(t *testing.T) {
	ig := &IdGenerator{}
	if err := ig.Init(1, []byte("testkey1testkey2")); err != nil {
		t.Fatalf("Failed to initialize generator: %v", err)
	}

	id := ig.RoomId()
	if !strings.HasPrefix(id, "!") {
		t.Errorf("Room id should start with '!', got %s", id)
	}
	if len(id) != 12 {
		t.Errorf("Room id should be 12 characters, got %d", len(id))
	}
	if id == ig.RoomId() {
		t.Error("Generated room ids should be unique")
	}
}

func TestIdGeneratorUninitialized(t *testing.T) {
	ig := &IdGenerator{}
	if id := ig.GetStr(); id != "" {
		t.Errorf("Expected empty string from uninitialized generator, got %s", id)
	}
	if id := ig.RoomId(); id != "" {
		t.Errorf("Expected empty room id from uninitialized generator, got %s", id)
	}
}

func TestIdGeneratorConcurrency(t *testing.T) {
	ig := &IdGenerator{}
	if err := ig.Init(1, []byte("testkey1testkey2")); err != nil {
		t.Fatalf("Failed to initialize generator: %v", err)
	}

	const numGoroutines = 10
	const idsPerGoroutine = 100

	idChan := make(chan string, numGoroutines*idsPerGoroutine)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			for j := 0; j < idsPerGoroutine; j++ {
				idChan <- ig.GetStr()
			}
		}()
	}

	ids := make(map[string]bool)
	for i := 0; i < numGoroutines*idsPerGoroutine; i++ {
		id := <-idChan
		if id == "" {
			t.Error("Generated id should not be empty")
		}
		if ids[id] {
			t.Errorf("Duplicate id generated in concurrent test: %s", id)
		}
		ids[id] = true
	}
}

func BenchmarkIdGeneratorGetStr(b *testing.B) {
	ig := &IdGenerator{}
	if err := ig.Init(1, []byte("testkey1testkey2")); err != nil {
		b.Fatalf("Failed to initialize generator: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ig.GetStr()
	}
}
