// Package encryption implements the encryption profiles described in §6
// and §8 scenario S5: a named symmetric-cipher profile { name, key
// (hex-encoded), ivLength, algorithm } that the broker applies to a
// publication's payload before it goes on the wire, and reverses on the
// subscription side.
package encryption

import "fmt"

// Cipher is a single algorithm's encrypt/decrypt pair. Implementations
// are keyed by the profile's `algorithm` string in the Registry below.
type Cipher interface {
	// Encrypt returns ciphertext and the IV/nonce it generated.
	Encrypt(key, plaintext []byte, ivLength int) (ciphertext, iv []byte, err error)
	// Decrypt reverses Encrypt given the same key and IV.
	Decrypt(key, ciphertext, iv []byte) (plaintext []byte, err error)
}

// Registry maps an EncryptionProfile's `algorithm` field to the Cipher
// that implements it.
var Registry = map[string]Cipher{
	"aes-128-cbc":    aesCBC{},
	"aes-192-cbc":    aesCBC{},
	"aes-256-cbc":    aesCBC{},
	"aes-256-gcm":    aesGCM{},
	"nacl-secretbox": naclSecretbox{},
}

// Lookup resolves an algorithm name to its Cipher, or an error naming the
// unsupported algorithm.
func Lookup(algorithm string) (Cipher, error) {
	c, ok := Registry[algorithm]
	if !ok {
		return nil, fmt.Errorf("unsupported encryption algorithm: %s", algorithm)
	}
	return c, nil
}
