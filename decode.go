package strata

import (
	"fmt"
	"log/slog"

	"github.com/goccy/go-yaml"

	"github.com/0xalexb/strata/cfgpath"
	"github.com/0xalexb/strata/tree"
)

// Validator defines an interface for validating decoded configuration
// structures.
type Validator interface {
	Validate() error
}

// Defaulter defines an interface for setting default values in decoded
// configuration structures.
type Defaulter interface {
	SetDefaults() (changed bool)
}

// Decode resolves the subtree at the given path and unmarshals it into
// target. After decoding, SetDefaults and Validate are invoked when the
// target implements them.
func (c *Config) Decode(path any, target any) error {
	if c == nil || c.root == nil {
		return errNotInitialized
	}

	parsed, err := cfgpath.New(path)
	if err != nil {
		return err
	}

	exported, err := c.exportSubtree(parsed)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(exported)
	if err != nil {
		return fmt.Errorf("failed to marshal subtree: %w", err)
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to decode %q: %w", parsed, err)
	}

	if defaulter, ok := target.(Defaulter); ok {
		if defaulter.SetDefaults() {
			c.logger.Debug("defaults applied", slog.String("path", parsed.String()))
		}
	}

	if validator, ok := target.(Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("failed to validate %q: %w", parsed, err)
		}
	}

	return nil
}

// exportSubtree resolves the value at the path and exports it as plain Go
// values. Containers are expanded recursively; scalars pass through.
func (c *Config) exportSubtree(path cfgpath.Path) (any, error) {
	ctx := c.context()

	if path.Empty() {
		return c.walker.Export(ctx, true)
	}

	value, err := c.walker.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	if node, ok := value.(*tree.Node); ok && node.IsContainer() {
		// Get left the context inside this container.
		return c.walker.Export(ctx, true)
	}

	return value, nil
}
