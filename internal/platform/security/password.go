package security

import "golang.org/x/crypto/argon2"

const saltLen = 16

// Hasher derives password digests with Argon2id. The salt is stored
// alongside the hash, so the digest is deterministic for a given
// (password, salt) pair and can be recomputed at verification time.
type Hasher struct {
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
}

func NewHasher() *Hasher {
	return &Hasher{time: 1, memory: 64 * 1024, threads: 4, keyLen: 32}
}

func (h *Hasher) GenerateSalt() ([]byte, error) {
	return RandomBytes(saltLen)
}

func (h *Hasher) Hash(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, h.time, h.memory, h.threads, h.keyLen)
}
