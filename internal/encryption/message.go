package encryption

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/andrelcunha/rascal-go/topology"
)

// Header names stamped on an encrypted message, per §4.3's publishing
// contract and scenario S5.
const (
	HeaderName                = "rascal.encryption.name"
	HeaderOriginalContentType = "rascal.encryption.originalContentType"
	HeaderIV                  = "rascal.encryption.iv"
)

// OctetStreamContentType is the outgoing contentType an encrypted message
// always carries (§4.3).
const OctetStreamContentType = "application/octet-stream"

// Encrypt implements the encryption half of §4.3's publishing contract: the
// payload is encrypted under profile, the original contentType is stashed
// in a header, and a base64 IV is recorded. Encrypt does not set the
// outgoing contentType; the broker sets it to OctetStreamContentType.
func Encrypt(profile *topology.EncryptionProfile, contentType string, body []byte) ([]byte, map[string]any, error) {
	cipher, err := Lookup(profile.Algorithm)
	if err != nil {
		return nil, nil, err
	}
	key, err := hex.DecodeString(profile.Key)
	if err != nil {
		return nil, nil, fmt.Errorf("Invalid key length")
	}

	ciphertext, iv, err := cipher.Encrypt(key, body, profile.IVLength)
	if err != nil {
		return nil, nil, err
	}

	headers := map[string]any{
		HeaderName:                profile.Name,
		HeaderOriginalContentType: contentType,
		HeaderIV:                  base64.StdEncoding.EncodeToString(iv),
	}
	return ciphertext, headers, nil
}

// Decrypt implements the subscription-side reversal: it picks the profile
// named by the rascal.encryption.name header out of the subscription's
// known profile set (see the Open Question decision in DESIGN.md), decodes
// the IV, and returns the original contentType and plaintext.
func Decrypt(profiles map[string]*topology.EncryptionProfile, headers map[string]any, body []byte) (string, []byte, error) {
	name, _ := headers[HeaderName].(string)
	profile, ok := profiles[name]
	if !ok {
		return "", nil, fmt.Errorf("no decryption profile named %s", name)
	}
	cipher, err := Lookup(profile.Algorithm)
	if err != nil {
		return "", nil, err
	}
	key, err := hex.DecodeString(profile.Key)
	if err != nil {
		return "", nil, fmt.Errorf("Invalid key length")
	}
	ivB64, _ := headers[HeaderIV].(string)
	iv, err := base64.StdEncoding.DecodeString(ivB64)
	if err != nil {
		return "", nil, fmt.Errorf("invalid iv encoding: %w", err)
	}

	plaintext, err := cipher.Decrypt(key, body, iv)
	if err != nil {
		return "", nil, err
	}
	originalContentType, _ := headers[HeaderOriginalContentType].(string)
	return originalContentType, plaintext, nil
}
