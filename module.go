package strata

import (
	"errors"
	"fmt"

	"go.uber.org/fx"
)

// ErrEmptyName is returned when an Fx module is created without a name.
var ErrEmptyName = errors.New("module name must not be empty")

// NewModule creates an Fx module that loads a configuration file and
// provides the *Config under the given DI name. Call multiple times with
// different names to load several configurations side by side.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func NewModule(name, file string, opts ...Option) fx.Option {
	if name == "" {
		return fx.Error(ErrEmptyName)
	}

	return fx.Module(name,
		fx.Provide(
			fx.Annotate(
				func() (*Config, error) {
					return Load(file, opts...)
				},
				fx.ResultTags(fmt.Sprintf(`name:"%s"`, name)),
			),
		),
	)
}

// Provide returns a constructor decoding the subtree at the given path
// into a fresh T, for use with fx.Provide. The target's SetDefaults and
// Validate are honored, see Decode.
func Provide[T any](path string) func(*Config) (*T, error) {
	return func(cfg *Config) (*T, error) {
		target := new(T)

		if err := cfg.Decode(path, target); err != nil {
			return nil, fmt.Errorf("failed to provide %q: %w", path, err)
		}

		return target, nil
	}
}
