package encryption

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const naclSecretboxKeySize = 32
const naclSecretboxNonceSize = 24

// naclSecretbox implements the `nacl-secretbox` algorithm (XSalsa20 +
// Poly1305), grounded on the same construction moby-moby's swarmkit
// manager uses for at-rest encryption.
type naclSecretbox struct{}

func (naclSecretbox) Encrypt(key, plaintext []byte, _ int) ([]byte, []byte, error) {
	if len(key) != naclSecretboxKeySize {
		return nil, nil, fmt.Errorf("Invalid key length")
	}
	var naclKey [naclSecretboxKeySize]byte
	copy(naclKey[:], key)

	var nonce [naclSecretboxNonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, nil, err
	}

	ciphertext := secretbox.Seal(nil, plaintext, &nonce, &naclKey)
	return ciphertext, nonce[:], nil
}

func (naclSecretbox) Decrypt(key, ciphertext, iv []byte) ([]byte, error) {
	if len(key) != naclSecretboxKeySize {
		return nil, fmt.Errorf("Invalid key length")
	}
	if len(iv) != naclSecretboxNonceSize {
		return nil, fmt.Errorf("invalid nonce size for nacl-secretbox: require %d, got %d", naclSecretboxNonceSize, len(iv))
	}
	var naclKey [naclSecretboxKeySize]byte
	copy(naclKey[:], key)
	var nonce [naclSecretboxNonceSize]byte
	copy(nonce[:], iv)

	plaintext, ok := secretbox.Open(nil, ciphertext, &nonce, &naclKey)
	if !ok {
		return nil, fmt.Errorf("no decryption key for record encrypted with nacl-secretbox")
	}
	return plaintext, nil
}
