// Package passhash hashes passwords with argon2id and encodes the result in
// the standard PHC string format, so every hash carries its own salt and cost
// parameters and verification needs no external state.
package passhash

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// maxVerifyMemoryKB caps the memory cost Verify will honor from a stored
// hash: 4 GiB, far above any cost this service ever writes.
const maxVerifyMemoryKB = 4 * 1024 * 1024

type Params struct {
	Time     uint32
	MemoryKB uint32
	Threads  uint8
	SaltLen  uint32
	KeyLen   uint32
}

func DefaultParams() Params {
	return Params{
		Time:     1,
		MemoryKB: 64 * 1024,
		Threads:  4,
		SaltLen:  16,
		KeyLen:   32,
	}
}

type Hasher struct {
	params Params
}

func New(params Params) *Hasher {
	if params.Time == 0 {
		params.Time = 1
	}
	if params.MemoryKB == 0 {
		params.MemoryKB = 64 * 1024
	}
	if params.Threads == 0 {
		params.Threads = 4
	}
	if params.SaltLen == 0 {
		params.SaltLen = 16
	}
	if params.KeyLen == 0 {
		params.KeyLen = 32
	}
	return &Hasher{params: params}
}

// Hash returns a PHC-encoded argon2id hash of the plaintext:
// $argon2id$v=19$m=...,t=...,p=...$<salt>$<key>
func (h *Hasher) Hash(plaintext string) (string, error) {
	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt failed: %w", err)
	}

	key := argon2.IDKey([]byte(plaintext), salt, h.params.Time, h.params.MemoryKB, h.params.Threads, h.params.KeyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.MemoryKB,
		h.params.Time,
		h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return encoded, nil
}

// Verify reports whether plaintext matches the encoded hash. A mismatch and a
// malformed hash are both just "false"; callers never need to tell them apart.
func (h *Hasher) Verify(plaintext, encoded string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var memoryKB, timeCost uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memoryKB, &timeCost, &threads); err != nil {
		return false
	}
	// Zero cost parameters make argon2.IDKey panic, and an oversized memory
	// value would turn a corrupted row into a multi-gigabyte allocation.
	if timeCost == 0 || threads == 0 || memoryKB == 0 || memoryKB > maxVerifyMemoryKB {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false
	}

	got := argon2.IDKey([]byte(plaintext), salt, timeCost, memoryKB, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1
}
