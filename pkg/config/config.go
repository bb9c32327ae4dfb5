package config

import (
	"crypto/ed25519"
	"os"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/code-payments/sutils/pkg/solana/binary"
)

const (
	DefaultRpcURL      = "https://api.mainnet-beta.solana.com"
	DefaultLogLevel    = "info"
	DefaultProgramID   = "LedgSxt5UQ2s5H6tqPVqb5r4U2Mmdt9XDo4Nfc6B2nw"
	DefaultLockStripes = 64
	DefaultAppName     = "sutils"
)

// Configuration is the CLI configuration file. Every field can be overridden
// with the matching SUTILS_ prefixed environment variable.
type Configuration struct {
	RpcURL    string `mapstructure:"rpc_url" yaml:"rpc_url"`
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	ProgramID string `mapstructure:"program_id" yaml:"program_id"`

	// Number of account lock stripes in the local runtime
	LockStripes uint `mapstructure:"lock_stripes" yaml:"lock_stripes"`

	// Metrics are only reported when a license key is set
	AppName            string `mapstructure:"app_name" yaml:"app_name"`
	NewRelicLicenseKey string `mapstructure:"new_relic_license_key" yaml:"new_relic_license_key,omitempty"`
}

var envBindings = map[string]string{
	"rpc_url":               "SUTILS_RPC_URL",
	"log_level":             "SUTILS_LOG_LEVEL",
	"program_id":            "SUTILS_PROGRAM_ID",
	"lock_stripes":          "SUTILS_LOCK_STRIPES",
	"app_name":              "SUTILS_APP_NAME",
	"new_relic_license_key": "SUTILS_NEW_RELIC_LICENSE_KEY",
}

// Default returns the configuration written by config-init.
func Default() *Configuration {
	return &Configuration{
		RpcURL:      DefaultRpcURL,
		LogLevel:    DefaultLogLevel,
		ProgramID:   DefaultProgramID,
		LockStripes: DefaultLockStripes,
		AppName:     DefaultAppName,
	}
}

// Load reads the YAML configuration at path on top of the defaults, then
// applies environment overrides.
func Load(path string) (*Configuration, error) {
	v := viper.New()
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "failed to read configuration file")
	}

	config := Default()
	if err := v.Unmarshal(config); err != nil {
		return nil, errors.Wrap(err, "failed to deserialize configuration file")
	}
	return config, nil
}

// Save writes the configuration to path as YAML.
func (c *Configuration) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to serialize configuration")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write configuration file")
	}
	return nil
}

// ProgramKey decodes ProgramID.
func (c *Configuration) ProgramKey() (ed25519.PublicKey, error) {
	decoded, err := base58.Decode(c.ProgramID)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid program id %q", c.ProgramID)
	}
	key, err := binary.ParsePublicKey(decoded)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid program id %q", c.ProgramID)
	}
	return key, nil
}
