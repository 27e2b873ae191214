package store

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
)

// contentCipher encrypts message content at rest with AES-GCM. A nil
// cipher passes content through untouched.
type contentCipher struct {
	aead cipher.AEAD
}

// sealedContent is the stored form of encrypted content. Data and Nonce
// travel through the adapters as base64 strings.
type sealedContent struct {
	Data      []byte `json:"data"`
	Nonce     []byte `json:"nonce"`
	Encrypted bool   `json:"encrypted"`
}

// newContentCipher creates a cipher from a 16, 24 or 32 byte key. An empty
// key disables encryption.
func newContentCipher(key []byte) (*contentCipher, error) {
	if len(key) == 0 {
		return nil, nil
	}

	if len(key) != 16 && len(key) != 24 && len(key) != 32 {
		return nil, fmt.Errorf("content key must be 16, 24, or 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &contentCipher{aead: aead}, nil
}

// seal encrypts content for storage. Nil content stays nil.
func (c *contentCipher) seal(content interface{}) (interface{}, error) {
	if c == nil || content == nil {
		return content, nil
	}

	plain, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return &sealedContent{
		Data:      c.aead.Seal(nil, nonce, plain, nil),
		Nonce:     nonce,
		Encrypted: true,
	}, nil
}

// open decrypts content read back from storage. Content which does not
// carry the sealed markers, including anything written before encryption
// was enabled, is returned as is.
func (c *contentCipher) open(content interface{}) (interface{}, error) {
	if c == nil || content == nil {
		return content, nil
	}

	sc, ok := content.(*sealedContent)
	if !ok {
		// After a database round trip the sealed form comes back as a
		// generic JSON value.
		raw, err := json.Marshal(content)
		if err != nil {
			return content, nil
		}
		var dec sealedContent
		if err := json.Unmarshal(raw, &dec); err != nil || !dec.Encrypted {
			return content, nil
		}
		sc = &dec
	}

	plain, err := c.aead.Open(nil, sc.Nonce, sc.Data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt content: %w", err)
	}

	var out interface{}
	if err := json.Unmarshal(plain, &out); err != nil {
		return string(plain), nil
	}
	return out, nil
}
