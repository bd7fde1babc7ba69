package config

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/snowflakedb/gosnowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnowflake_String(t *testing.T) {
	sf := Snowflake{AccountID: "account", Username: "user", Password: "hunter2", Warehouse: "wh"}
	assert.Equal(t, "account=account, username=user, warehouse=wh, role=, pass_set=true, key_set=false", sf.String())
	assert.NotContains(t, sf.String(), "hunter2")
}

func TestSnowflake_ToConfig(t *testing.T) {
	{
		// Password auth
		sf := Snowflake{AccountID: "account", Username: "user", Password: "pass", Warehouse: "wh", Region: "us-east-1", Application: "csvload"}
		cfg, err := sf.ToConfig("csvload:123")
		assert.NoError(t, err)
		assert.Equal(t, "account", cfg.Account)
		assert.Equal(t, "user", cfg.User)
		assert.Equal(t, "pass", cfg.Password)
		assert.Equal(t, "wh", cfg.Warehouse)
		assert.Equal(t, "us-east-1", cfg.Region)
		assert.Equal(t, "csvload", cfg.Application)
		assert.Equal(t, "true", *cfg.Params["ABORT_DETACHED_QUERY"])
		assert.Equal(t, "true", *cfg.Params["CLIENT_SESSION_KEEP_ALIVE"])
		assert.Equal(t, "csvload:123", *cfg.Params["QUERY_TAG"])
		assert.Nil(t, cfg.PrivateKey)
	}
	{
		// Host overrides region, no query tag
		sf := Snowflake{AccountID: "account", Username: "user", Password: "pass", Warehouse: "wh", Region: "us-east-1", Host: "localhost"}
		cfg, err := sf.ToConfig("")
		assert.NoError(t, err)
		assert.Equal(t, "localhost", cfg.Host)
		assert.Empty(t, cfg.Region)
		assert.NotContains(t, cfg.Params, "QUERY_TAG")
	}
	{
		// Key-pair auth
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)
		keyBytes, err := x509.MarshalPKCS8PrivateKey(key)
		require.NoError(t, err)

		fp := filepath.Join(t.TempDir(), "rsa_key.p8")
		require.NoError(t, os.WriteFile(fp, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyBytes}), 0o600))

		sf := Snowflake{AccountID: "account", Username: "user", Warehouse: "wh", PathToPrivateKey: fp}
		cfg, err := sf.ToConfig("")
		assert.NoError(t, err)
		assert.Equal(t, gosnowflake.AuthTypeJwt, cfg.Authenticator)
		assert.True(t, key.Equal(cfg.PrivateKey))
		assert.Empty(t, cfg.Password)
	}
	{
		// Bad key path
		sf := Snowflake{AccountID: "account", Username: "user", Warehouse: "wh", PathToPrivateKey: filepath.Join(t.TempDir(), "missing.p8")}
		_, err := sf.ToConfig("")
		assert.ErrorContains(t, err, "failed to load private key")
	}
}
