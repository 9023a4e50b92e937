package qrcodec

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

const ivLength = 16 // AES block size

// ErrDecryption classifies every failure mode of Decrypt: malformed token,
// bad IV, cipher/padding failure, unparseable plaintext. Callers treat it as
// a benign "invalid QR" business outcome, never a server error.
type ErrDecryption struct {
	Reason string
}

func (e *ErrDecryption) Error() string {
	return fmt.Sprintf("qr decryption failed: %s", e.Reason)
}

// Payload is the plaintext carried inside an encrypted QR token.
// ID is the only required field.
type Payload struct {
	ID       string `json:"id"`
	PassType string `json:"passType,omitempty"`
	Name     string `json:"name,omitempty"`
	Event    string `json:"event,omitempty"`
}

// Codec en/decrypts QR tokens under a fixed 32-byte AES-256 key.
// Pure; safe for concurrent use.
type Codec struct {
	key []byte
}

func New(key string) (*Codec, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("qr key must be exactly 32 bytes (256 bits), got %d", len(key))
	}
	return &Codec{key: []byte(key)}, nil
}

// IsEncrypted reports whether token has the encrypted wire shape:
// exactly two ":"-separated components, both non-empty hex strings.
func IsEncrypted(token string) bool {
	parts := strings.Split(token, ":")
	if len(parts) != 2 {
		return false
	}
	return isHex(parts[0]) && isHex(parts[1])
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// Decrypt parses "ivHex:cipherHex", decrypts AES-256-CBC, strips PKCS#7
// padding and unmarshals the plaintext JSON payload.
func (c *Codec) Decrypt(token string) (*Payload, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 2 {
		return nil, &ErrDecryption{Reason: `expected "IV:DATA" format`}
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil {
		return nil, &ErrDecryption{Reason: "IV is not valid hex"}
	}
	if len(iv) != ivLength {
		return nil, &ErrDecryption{Reason: fmt.Sprintf("IV must be %d bytes, got %d", ivLength, len(iv))}
	}

	ciphertext, err := hex.DecodeString(parts[1])
	if err != nil {
		return nil, &ErrDecryption{Reason: "ciphertext is not valid hex"}
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, &ErrDecryption{Reason: "ciphertext length is not a multiple of the block size"}
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, &ErrDecryption{Reason: err.Error()}
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	plaintext, err = pkcs7Unpad(plaintext)
	if err != nil {
		return nil, &ErrDecryption{Reason: err.Error()}
	}

	var p Payload
	if err := json.Unmarshal(plaintext, &p); err != nil {
		return nil, &ErrDecryption{Reason: "plaintext is not valid JSON"}
	}
	if p.ID == "" {
		return nil, &ErrDecryption{Reason: "payload is missing id"}
	}
	return &p, nil
}

// Encrypt is the inverse of Decrypt. Used by the test QR generator.
func (c *Codec) Encrypt(p *Payload) (string, error) {
	plaintext, err := json.Marshal(p)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	iv := make([]byte, ivLength)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ciphertext), nil
}

func pkcs7Pad(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("empty plaintext")
	}
	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize || n > len(b) {
		return nil, fmt.Errorf("invalid padding")
	}
	for _, v := range b[len(b)-n:] {
		if int(v) != n {
			return nil, fmt.Errorf("invalid padding")
		}
	}
	return b[:len(b)-n], nil
}
