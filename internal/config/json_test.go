package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_AllSections(t *testing.T) {
	raw := `{
		"auth": {
			"token_sign_key": "sign",
			"token_issuer": "issuer",
			"token_duration": "24h",
			"password_hash_cost": 10,
			"reset_token_hash_key": "reset",
			"reset_token_ttl": "15m",
			"expose_reset_token": true,
			"secure_cookies": true,
			"version": "0.9.0"
		},
		"storage": {"db": {"dsn": "file:certs.db"}},
		"server": {"http_address": ":8088", "request_timeout": "45s"},
		"adapter": {"http_address": "http://srv:8088", "request_timeout": "10s", "token_file": "tok"},
		"workers": {"reset_token_purge_interval": "1h"},
		"seed": {
			"hod": {"name": "HOD", "email": "hod@c.edu", "password": "pw1234", "department": "ECE"},
			"principal": {"name": "P", "email": "p@c.edu", "password": "pw5678"}
		}
	}`
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, "sign", cfg.App.TokenSignKey)
	assert.Equal(t, "issuer", cfg.App.TokenIssuer)
	assert.Equal(t, 24*time.Hour, cfg.App.TokenDuration)
	assert.Equal(t, 10, cfg.App.PasswordHashCost)
	assert.Equal(t, "reset", cfg.App.ResetTokenHashKey)
	assert.Equal(t, 15*time.Minute, cfg.App.ResetTokenTTL)
	assert.True(t, cfg.App.ExposeResetToken)
	assert.True(t, cfg.App.SecureCookies)
	assert.Equal(t, "0.9.0", cfg.App.Version)
	assert.Equal(t, "file:certs.db", cfg.Storage.DB.DSN)
	assert.Equal(t, ":8088", cfg.Server.HTTPAddress)
	assert.Equal(t, 45*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "http://srv:8088", cfg.Adapter.HTTPAddress)
	assert.Equal(t, 10*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, "tok", cfg.Adapter.TokenFile)
	assert.Equal(t, time.Hour, cfg.Workers.ResetTokenPurgeInterval)
	assert.Equal(t, "ECE", cfg.Seed.HOD.Department)
	assert.Equal(t, "p@c.edu", cfg.Seed.Principal.Email)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseJSON_FileNotFound(t *testing.T) {
	_, err := parseJSON(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestParseJSON_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := parseJSON(path)
	assert.Error(t, err)
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "string", input: `"90s"`, want: 90 * time.Second},
		{name: "nanoseconds", input: `1000000000`, want: time.Second},
		{name: "bad string", input: `"soon"`, wantErr: true},
		{name: "bool", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, time.Duration(d))
		})
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Duration(2 * time.Minute))
	require.NoError(t, err)
	assert.Equal(t, `"2m0s"`, string(data))
}
