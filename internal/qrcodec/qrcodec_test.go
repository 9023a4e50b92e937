package qrcodec

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "c82a64c06c982ee1d50863aca97856cc"

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := New(testKey)
	require.NoError(t, err)
	return c
}

func TestNewRejectsShortKey(t *testing.T) {
	_, err := New("too-short")
	assert.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	c := newTestCodec(t)

	in := &Payload{ID: "pass_123", PassType: "VIP", Name: "Jordan Reyes"}
	token, err := c.Encrypt(in)
	require.NoError(t, err)
	require.True(t, IsEncrypted(token), "encrypted token must match the wire shape")

	out, err := c.Decrypt(token)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestIsEncrypted(t *testing.T) {
	cases := []struct {
		token string
		want  bool
	}{
		{"a3f5b2c8:deadbeef", true},
		{"A3F5B2C8:DEADBEEF", true},
		{"pass_abc123", false},
		{"a3f5b2c8:deadbeef:extra", false},
		{":deadbeef", false},
		{"a3f5b2c8:", false},
		{"nothex!:deadbeef", false},
		{"a3f5b2c8:nothex!", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsEncrypted(tc.token), "token %q", tc.token)
	}
}

func TestDecryptMalformedSplit(t *testing.T) {
	c := newTestCodec(t)
	_, err := c.Decrypt("no-separator-here")
	var de *ErrDecryption
	require.ErrorAs(t, err, &de)
}

func TestDecryptWrongIVLength(t *testing.T) {
	c := newTestCodec(t)
	// 8-byte IV instead of 16
	_, err := c.Decrypt(hex.EncodeToString(make([]byte, 8)) + ":" + hex.EncodeToString(make([]byte, 32)))
	var de *ErrDecryption
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Reason, "IV must be 16 bytes")
}

func TestDecryptCorruptedCiphertext(t *testing.T) {
	c := newTestCodec(t)
	token, err := c.Encrypt(&Payload{ID: "pass_123"})
	require.NoError(t, err)

	// Flip bits in the last ciphertext byte; padding check must fail.
	last := token[len(token)-2:]
	corrupted := token[:len(token)-2]
	if last == "00" {
		corrupted += "ff"
	} else {
		corrupted += "00"
	}
	_, err = c.Decrypt(corrupted)
	var de *ErrDecryption
	require.ErrorAs(t, err, &de)
}

func TestDecryptTruncatedCiphertext(t *testing.T) {
	c := newTestCodec(t)
	token, err := c.Encrypt(&Payload{ID: "pass_123"})
	require.NoError(t, err)

	parts := strings.SplitN(token, ":", 2)
	// Drop two hex chars: no longer a whole number of blocks.
	_, err = c.Decrypt(parts[0] + ":" + parts[1][:len(parts[1])-2])
	var de *ErrDecryption
	require.ErrorAs(t, err, &de)
}

func TestDecryptMissingID(t *testing.T) {
	c := newTestCodec(t)
	token, err := c.Encrypt(&Payload{Name: "nobody"})
	require.NoError(t, err)

	_, err = c.Decrypt(token)
	var de *ErrDecryption
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Reason, "missing id")
}
