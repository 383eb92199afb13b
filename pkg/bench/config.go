/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package bench

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
	"gopkg.in/yaml.v3"
)

// Variant selectors accepted by Config.Variant.
const (
	VariantProposed = "proposed"
	VariantPJV      = "pjv"
	VariantBoth     = "both"
)

// EnvPrefix is the prefix of environment variables overriding config fields,
// e.g. BENCH_TRIALS=500.
const EnvPrefix = "BENCH_"

// Config holds a full benchmark run description. It is passed explicitly
// into the harness rather than read from ambient state, so parallel trial
// execution is safe by construction.
type Config struct {
	// Variant selects the protocol under measurement: proposed, pjv or both.
	Variant string `yaml:"variant" mapstructure:"variant"`

	// Depth is the delegation chain length, root credential included.
	Depth int `yaml:"depth" mapstructure:"depth"`

	// Trials is the number of measured pipeline runs per variant.
	Trials int `yaml:"trials" mapstructure:"trials"`

	// Actions is the number of permission atoms in the root scope.
	Actions int `yaml:"actions" mapstructure:"actions"`

	// RetainPerHop is how many atoms each hop drops from its parent's scope,
	// exercising narrowing. Zero keeps the full action set down the chain.
	RetainPerHop int `yaml:"retainPerHop" mapstructure:"retain_per_hop"`

	// KeyType selects the identity key algorithm. Only ed25519 is supported.
	KeyType string `yaml:"keyType" mapstructure:"key_type"`

	// Validity is the credential validity window from issuance.
	Validity time.Duration `yaml:"validity" mapstructure:"validity"`

	// Workers is the number of concurrent trial workers per variant.
	Workers int `yaml:"workers" mapstructure:"workers"`

	// Mnemonic, when set, derives all trial key material deterministically.
	Mnemonic string `yaml:"mnemonic" mapstructure:"mnemonic"`

	// OutDir, when set, receives one CSV file per metric.
	OutDir string `yaml:"outDir" mapstructure:"out_dir"`
}

// DefaultConfig returns the configuration used when no file or flags are
// given.
func DefaultConfig() Config {
	return Config{
		Variant:  VariantBoth,
		Depth:    4,
		Trials:   100,
		Actions:  10,
		KeyType:  "ed25519",
		Validity: time.Hour,
		Workers:  1,
	}
}

// LoadConfig reads a YAML config file over the defaults. An empty path
// returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path) //nolint:gosec // config path is operator-supplied
	if err != nil {
		return Config{}, errors.Wrap(err, "read config file")
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse config file")
	}

	return cfg, nil
}

// ApplyEnv overlays BENCH_* environment variables onto cfg. Variable names
// map to mapstructure keys: BENCH_RETAIN_PER_HOP sets retain_per_hop.
func ApplyEnv(cfg *Config, environ []string) error {
	overrides := make(map[string]interface{})

	for _, kv := range environ {
		if !strings.HasPrefix(kv, EnvPrefix) {
			continue
		}

		key, value, ok := strings.Cut(strings.TrimPrefix(kv, EnvPrefix), "=")
		if !ok {
			continue
		}

		overrides[strings.ToLower(key)] = value
	}

	if len(overrides) == 0 {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           cfg,
	})
	if err != nil {
		return errors.Wrap(err, "build env decoder")
	}

	if err := decoder.Decode(overrides); err != nil {
		return errors.Wrap(err, "apply env overrides")
	}

	return nil
}

// Validate rejects configurations the harness cannot run.
func (c Config) Validate() error {
	switch c.Variant {
	case VariantProposed, VariantPJV, VariantBoth:
	default:
		return fmt.Errorf("unknown variant %q", c.Variant)
	}

	if c.Depth < 1 {
		return fmt.Errorf("depth must be positive, got %d", c.Depth)
	}

	if c.Trials < 1 {
		return fmt.Errorf("trials must be positive, got %d", c.Trials)
	}

	if c.Actions < 1 {
		return fmt.Errorf("actions must be positive, got %d", c.Actions)
	}

	if c.RetainPerHop < 0 {
		return fmt.Errorf("retain-per-hop must not be negative, got %d", c.RetainPerHop)
	}

	// Every hop must keep at least one action.
	if c.Actions-(c.Depth-1)*c.RetainPerHop < 1 {
		return fmt.Errorf("retain-per-hop %d leaves no actions at depth %d", c.RetainPerHop, c.Depth)
	}

	if c.KeyType != "ed25519" {
		return fmt.Errorf("unsupported key type %q", c.KeyType)
	}

	if c.Validity <= 0 {
		return fmt.Errorf("validity must be positive, got %s", c.Validity)
	}

	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}

	if c.Mnemonic != "" && !bip39.IsMnemonicValid(c.Mnemonic) {
		return fmt.Errorf("invalid mnemonic")
	}

	return nil
}
