package cryptography

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePKCS8(t *testing.T, key any) []byte {
	keyBytes, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyBytes})
}

func TestParseRSAPrivateKey(t *testing.T) {
	{
		// Valid RSA key
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)

		parsed, err := ParseRSAPrivateKey(encodePKCS8(t, key))
		assert.NoError(t, err)
		assert.True(t, key.Equal(parsed))
	}
	{
		// Not PEM
		_, err := ParseRSAPrivateKey([]byte("hello"))
		assert.ErrorContains(t, err, "failed to decode PEM block")
	}
	{
		// Not an RSA key
		key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		require.NoError(t, err)

		_, err = ParseRSAPrivateKey(encodePKCS8(t, key))
		assert.ErrorContains(t, err, "expected *rsa.PrivateKey")
	}
}

func TestLoadRSAKey(t *testing.T) {
	{
		// Missing file
		_, err := LoadRSAKey(filepath.Join(t.TempDir(), "missing.p8"))
		assert.ErrorContains(t, err, "failed to read file")
	}
	{
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)

		fp := filepath.Join(t.TempDir(), "rsa_key.p8")
		require.NoError(t, os.WriteFile(fp, encodePKCS8(t, key), 0o600))

		parsed, err := LoadRSAKey(fp)
		assert.NoError(t, err)
		assert.True(t, key.Equal(parsed))
	}
}
