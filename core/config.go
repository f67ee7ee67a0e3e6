package core

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/viper"
)

// ConfigPathEnv names the environment variable consulted when C_Initialize
// does not receive a configuration path through pReserved.
const ConfigPathEnv = "KMS_PKCS11_CONFIG"

// ErrNoConfig is returned when neither the initialize arguments nor the
// environment name a configuration file.
var ErrNoConfig = errors.New("no configuration path: pass it through pReserved or set " + ConfigPathEnv)

type Config struct {
	Tokens                            []TokenConfig `mapstructure:"tokens"`
	KMSEndpoint                       string        `mapstructure:"kms_endpoint"`
	GenerateCerts                     bool          `mapstructure:"generate_certs"`
	UseInsecureGRPCChannelCredentials bool          `mapstructure:"use_insecure_grpc_channel_credentials"`
	LogFile                           string        `mapstructure:"log_file"`
}

type TokenConfig struct {
	KeyRing string `mapstructure:"key_ring"`
	Label   string `mapstructure:"label"`
}

// ResolveConfigPath picks the configuration file location: the path handed
// through the initialize arguments wins, then ConfigPathEnv.
func ResolveConfigPath(reserved string) (string, error) {
	if reserved != "" {
		return reserved, nil
	}
	if path := os.Getenv(ConfigPathEnv); path != "" {
		return path, nil
	}
	return "", ErrNoConfig
}

func LoadConfig(path string) (*Config, error) {
	if err := checkConfigFileMode(path); err != nil {
		return nil, err
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("cannot read config file %q: %w", path, err)
	}
	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("cannot parse config file %q: %w", path, err)
	}
	if len(conf.Tokens) == 0 {
		return nil, fmt.Errorf("config file %q declares no tokens", path)
	}
	for i, token := range conf.Tokens {
		if token.KeyRing == "" {
			return nil, fmt.Errorf("tokens[%d] is missing key_ring", i)
		}
		if token.Label == "" {
			return nil, fmt.Errorf("tokens[%d] is missing label", i)
		}
		if len(token.Label) > 32 {
			return nil, fmt.Errorf("tokens[%d] label %q is longer than 32 characters", i, token.Label)
		}
	}
	return &conf, nil
}

// checkConfigFileMode refuses configuration files that other users could
// rewrite. Windows file modes do not carry POSIX permission bits, so the
// check only runs where they exist.
func checkConfigFileMode(path string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot stat config file %q: %w", path, err)
	}
	if mode := info.Mode().Perm(); mode&0o022 != 0 {
		return fmt.Errorf("config file %q has mode %04o: group or other write permission is not allowed", path, mode)
	}
	return nil
}
