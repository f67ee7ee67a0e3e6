package core

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), mode))
	// Umask may have stripped bits at creation; force the exact mode.
	require.NoError(t, os.Chmod(path, mode))
	return path
}

const validConfig = `tokens:
  - key_ring: "projects/p/locations/l/keyRings/kr"
    label: "foo"
kms_endpoint: "kms.example.com:443"
generate_certs: true
use_insecure_grpc_channel_credentials: true
log_file: "/tmp/kmsp11.log"
`

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, validConfig, 0o600)
	config, err := LoadConfig(path)
	require.NoError(t, err)
	require.Len(t, config.Tokens, 1)
	require.Equal(t, "projects/p/locations/l/keyRings/kr", config.Tokens[0].KeyRing)
	require.Equal(t, "foo", config.Tokens[0].Label)
	require.Equal(t, "kms.example.com:443", config.KMSEndpoint)
	require.True(t, config.GenerateCerts)
	require.True(t, config.UseInsecureGRPCChannelCredentials)
	require.Equal(t, "/tmp/kmsp11.log", config.LogFile)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `tokens:
  - key_ring: "projects/p/locations/l/keyRings/kr"
    label: "foo"
`, 0o600)
	config, err := LoadConfig(path)
	require.NoError(t, err)
	require.False(t, config.GenerateCerts)
	require.False(t, config.UseInsecureGRPCChannelCredentials)
	require.Empty(t, config.KMSEndpoint)
}

func TestLoadConfigFailsMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.Error(t, err)
}

func TestLoadConfigFailsNoTokens(t *testing.T) {
	path := writeConfig(t, "kms_endpoint: \"kms.example.com:443\"\n", 0o600)
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigFailsMissingKeyRing(t *testing.T) {
	path := writeConfig(t, "tokens:\n  - label: \"foo\"\n", 0o600)
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigFailsLongLabel(t *testing.T) {
	path := writeConfig(t, `tokens:
  - key_ring: "projects/p/locations/l/keyRings/kr"
    label: "0123456789012345678901234567890123456789"
`, 0o600)
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigFailsGroupWritable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX permission bits only")
	}
	path := writeConfig(t, validConfig, 0o664)
	_, err := LoadConfig(path)
	require.ErrorContains(t, err, "write permission")

	path = writeConfig(t, validConfig, 0o646)
	_, err = LoadConfig(path)
	require.ErrorContains(t, err, "write permission")
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv(ConfigPathEnv, "")

	_, err := ResolveConfigPath("")
	require.ErrorIs(t, err, ErrNoConfig)

	path, err := ResolveConfigPath("/etc/kmsp11.yaml")
	require.NoError(t, err)
	require.Equal(t, "/etc/kmsp11.yaml", path)

	t.Setenv(ConfigPathEnv, "/env/config.yaml")
	path, err = ResolveConfigPath("")
	require.NoError(t, err)
	require.Equal(t, "/env/config.yaml", path)

	// The argument wins over the environment.
	path, err = ResolveConfigPath("/etc/kmsp11.yaml")
	require.NoError(t, err)
	require.Equal(t, "/etc/kmsp11.yaml", path)
}
