package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
)

// aesCBC implements aes-128/192/256-cbc, selected by the hex-decoded key's
// length (16/24/32 bytes per AES-128/192/256). Plaintext is PKCS#7 padded
// to the block size before encryption.
type aesCBC struct{}

func (aesCBC) Encrypt(key, plaintext []byte, ivLength int) ([]byte, []byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, fmt.Errorf("Invalid key length")
	}
	if ivLength <= 0 {
		ivLength = block.BlockSize()
	}
	iv := make([]byte, ivLength)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, nil, err
	}

	padded := pkcs7Pad(plaintext, block.BlockSize())
	ciphertext := make([]byte, len(padded))
	mode := cipher.NewCBCEncrypter(block, iv[:block.BlockSize()])
	mode.CryptBlocks(ciphertext, padded)
	return ciphertext, iv, nil
}

func (aesCBC) Decrypt(key, ciphertext, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("Invalid key length")
	}
	if len(iv) < block.BlockSize() {
		return nil, fmt.Errorf("invalid iv length for aes-cbc: need at least %d, got %d", block.BlockSize(), len(iv))
	}
	if len(ciphertext)%block.BlockSize() != 0 {
		return nil, fmt.Errorf("ciphertext is not a multiple of the block size")
	}
	plaintext := make([]byte, len(ciphertext))
	mode := cipher.NewCBCDecrypter(block, iv[:block.BlockSize()])
	mode.CryptBlocks(plaintext, ciphertext)
	return pkcs7Unpad(plaintext)
}

// aesGCM implements aes-256-gcm; the IV doubles as the GCM nonce.
type aesGCM struct{}

func (aesGCM) Encrypt(key, plaintext []byte, ivLength int) ([]byte, []byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, fmt.Errorf("Invalid key length")
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}
	if ivLength <= 0 {
		ivLength = gcm.NonceSize()
	}
	iv := make([]byte, ivLength)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, nil, err
	}
	ciphertext := gcm.Seal(nil, iv[:gcm.NonceSize()], plaintext, nil)
	return ciphertext, iv, nil
}

func (aesGCM) Decrypt(key, ciphertext, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("Invalid key length")
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(iv) < gcm.NonceSize() {
		return nil, fmt.Errorf("invalid iv length for aes-gcm: need at least %d, got %d", gcm.NonceSize(), len(iv))
	}
	return gcm.Open(nil, iv[:gcm.NonceSize()], ciphertext, nil)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padding := make([]byte, padLen)
	for i := range padding {
		padding[i] = byte(padLen)
	}
	return append(append([]byte{}, data...), padding...)
}

func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot unpad empty data")
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > len(data) {
		return nil, fmt.Errorf("invalid padding")
	}
	return data[:len(data)-padLen], nil
}
