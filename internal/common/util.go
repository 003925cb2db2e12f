package common

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"time"
)

// MakeRandHexString generates a random hexadecimal string from size random
// bytes, so the result is 2*size characters long.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// NewObjectID returns a 24-character lowercase hex identifier: a 4-byte
// big-endian unix-seconds prefix followed by 8 random bytes. IDs created later
// sort after earlier ones at second granularity.
func NewObjectID() (string, error) {
	var b [12]byte
	binary.BigEndian.PutUint32(b[:4], uint32(time.Now().Unix()))
	if _, err := rand.Read(b[4:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
