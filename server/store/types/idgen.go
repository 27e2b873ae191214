package types

import (
	"encoding/base64"
	"encoding/binary"

	sf "github.com/tinode/snowflake"
	"golang.org/x/crypto/xtea"
)

// IdGenerator produces unique random-looking ids for server-assigned
// objects, currently room ids. Snowflake output is sequential; it's run
// through XTEA so ids don't leak creation order.
type IdGenerator struct {
	seq    *sf.SnowFlake
	cipher *xtea.Cipher
}

// Init initialises the id generator. The key must be 16 bytes long.
func (ig *IdGenerator) Init(workerID uint, key []byte) error {
	var err error

	if ig.seq == nil {
		ig.seq, err = sf.NewSnowFlake(uint32(workerID))
	}
	if ig.cipher == nil {
		ig.cipher, err = xtea.NewCipher(key)
	}

	return err
}

// GetStr returns the next id as an 11-character URL-safe base64 string.
// Returns an empty string if the generator is not initialized.
func (ig *IdGenerator) GetStr() string {
	buf, err := ig.nextIdBuffer()
	if err != nil {
		return ""
	}
	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(buf)
}

// RoomId returns a fresh room id, e.g. "!VJJemJp3RCY".
func (ig *IdGenerator) RoomId() string {
	id := ig.GetStr()
	if id == "" {
		return ""
	}
	return "!" + id
}

// nextIdBuffer returns the next encrypted id as an 8-byte buffer.
func (ig *IdGenerator) nextIdBuffer() ([]byte, error) {
	if ig.seq == nil || ig.cipher == nil {
		return nil, ErrNotInitialized
	}

	id, err := ig.seq.Next()
	if err != nil {
		return nil, err
	}

	var src = make([]byte, 8)
	var dst = make([]byte, 8)
	binary.LittleEndian.PutUint64(src, id)
	ig.cipher.Encrypt(dst, src)

	return dst, nil
}
