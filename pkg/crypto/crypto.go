// Package crypto obscures the locally persisted session record. The
// cipher is deliberately opaque to callers: a blob either decrypts to a
// record or it does not, and a blob that does not is simply "no session".
package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// Cipher seals and opens JSON records with ChaCha20-Poly1305. The random
// nonce is prepended to the ciphertext.
type Cipher struct {
	key []byte
}

// NewCipher expects a hex-encoded 256-bit key.
func NewCipher(hexKey string) (*Cipher, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("record key is not valid hex: %w", err)
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("record key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	return &Cipher{key: key}, nil
}

// Encrypt marshals record to JSON and seals it.
func (c *Cipher) Encrypt(record any) ([]byte, error) {
	plaintext, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(c.key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens blob into record. Returns false on any tamper, truncation
// or parse failure; the caller treats false as a missing session, never as
// an error to surface.
func (c *Cipher) Decrypt(blob []byte, record any) bool {
	aead, err := chacha20poly1305.New(c.key)
	if err != nil {
		return false
	}
	if len(blob) < aead.NonceSize() {
		return false
	}
	nonce, ciphertext := blob[:aead.NonceSize()], blob[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return false
	}
	return json.Unmarshal(plaintext, record) == nil
}
