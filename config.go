package strata

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/goccy/go-yaml"

	"github.com/0xalexb/strata/access"
	"github.com/0xalexb/strata/cfgpath"
	"github.com/0xalexb/strata/loader"
	"github.com/0xalexb/strata/placeholder"
	"github.com/0xalexb/strata/tree"
)

var errNotInitialized = errors.New("config not initialized")

// Config is one loaded configuration. It is not safe for concurrent use;
// load and mutate it during startup, or guard it externally.
type Config struct {
	root     *tree.Node
	registry *placeholder.Registry
	parser   *placeholder.Parser
	walker   *access.Walker
	loader   *loader.Loader
	env      string
	logger   *slog.Logger
}

// New creates an empty configuration. Values can be added with Set and
// DeepUpdate.
func New(opts ...Option) *Config {
	var options Options

	for _, apply := range opts {
		apply(&options)
	}

	return newConfig(tree.NewMapping(), &options)
}

// Load reads the main configuration file and returns a Config around it.
// With an environment set, a sibling "<name>-<env>.yaml" overlay is merged
// over the file, and over every imported file as well.
func Load(file string, opts ...Option) (*Config, error) {
	var options Options

	for _, apply := range opts {
		apply(&options)
	}

	cfg := newConfig(nil, &options)

	root, err := cfg.loader.Load(file, cfg.env)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.root = root
	cfg.logger.Debug("config loaded",
		slog.String("file", file), slog.String("env", cfg.env))

	return cfg, nil
}

func newConfig(root *tree.Node, options *Options) *Config {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	registry := placeholder.NewRegistry()

	var parserOpts []placeholder.ParserOption
	if options.Separator != 0 {
		parserOpts = append(parserOpts, placeholder.WithSeparator(options.Separator))
	}

	parser := placeholder.NewParser(registry, parserOpts...)

	return &Config{
		root:     root,
		registry: registry,
		parser:   parser,
		walker: access.New(
			access.WithSearch(),
			access.WithResolver(parser),
			access.WithLogger(logger),
		),
		loader: loader.New(
			loader.WithDir(options.ConfigDir),
			loader.WithLogger(logger),
		),
		env:    options.Env,
		logger: logger,
	}
}

func (c *Config) context() *access.Context {
	return access.NewContext(c.root,
		access.WithLoader(c.loader),
		access.WithEnv(c.env),
		access.WithContextLogger(c.logger),
	)
}

// Get returns the value at the given path, with placeholders resolved.
// Containers are returned as *tree.Node. The path may be a string such as
// "a.b[2].c", possibly with search patterns, or any form cfgpath.New
// accepts.
func (c *Config) Get(path any, opts ...access.GetOption) (any, error) {
	if c == nil || c.root == nil {
		return nil, errNotInitialized
	}

	parsed, err := cfgpath.New(path)
	if err != nil {
		return nil, err
	}

	return c.walker.Get(c.context(), parsed, opts...)
}

// GetDefault is Get with a default returned when the path does not exist.
// Resolution failures, e.g. a missing mandatory value, still propagate.
func (c *Config) GetDefault(path any, def any) (any, error) {
	return c.Get(path, access.WithDefault(def))
}

// MustGet is Get but panics on error. Intended for values the program
// cannot start without.
func (c *Config) MustGet(path any) any {
	value, err := c.Get(path)
	if err != nil {
		panic(err)
	}

	return value
}

// GetPath returns the concrete path a value was found at, with every
// search pattern replaced by the keys it matched.
func (c *Config) GetPath(path any) (cfgpath.Path, error) {
	if c == nil || c.root == nil {
		return cfgpath.Path{}, errNotInitialized
	}

	parsed, err := cfgpath.New(path)
	if err != nil {
		return cfgpath.Path{}, err
	}

	return c.walker.GetPath(c.context(), parsed)
}

// Set writes a value at the given path and returns the previous value, if
// any. Intermediate containers are created as needed; existing values of
// the wrong kind on the way are replaced.
func (c *Config) Set(path any, value any) (any, error) {
	if c == nil || c.root == nil {
		return nil, errNotInitialized
	}

	parsed, err := cfgpath.New(path)
	if err != nil {
		return nil, err
	}

	return c.walker.Set(c.context(), parsed, value,
		access.WithCreateMissing(), access.WithReplacePath())
}

// Delete removes the value at the given path and returns it. With tolerant
// set, deleting a missing path is not an error.
func (c *Config) Delete(path any, tolerant bool) (any, error) {
	if c == nil || c.root == nil {
		return nil, errNotInitialized
	}

	parsed, err := cfgpath.New(path)
	if err != nil {
		return nil, err
	}

	return c.walker.Delete(c.context(), parsed, tolerant)
}

// DeepUpdate merges updates into the configuration, leaf-wise: mappings
// merge key by key, sequences and scalars replace. Updates may be a
// map[string]any or a *tree.Node.
func (c *Config) DeepUpdate(updates any) error {
	if c == nil || c.root == nil {
		return errNotInitialized
	}

	return access.DeepUpdate(c.root, tree.FromAny(updates))
}

// ToMap exports the configuration as plain nested Go values. With resolve
// set, every placeholder is resolved and imported subtrees are expanded in
// place; without, values are exported exactly as loaded.
func (c *Config) ToMap(resolve bool) (map[string]any, error) {
	if c == nil || c.root == nil {
		return nil, errNotInitialized
	}

	exported, err := c.walker.Export(c.context(), resolve)
	if err != nil {
		return nil, err
	}

	out, ok := exported.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("config root is not a mapping: %T", exported)
	}

	return out, nil
}

// ToYAML writes the configuration as a YAML document.
func (c *Config) ToYAML(w io.Writer, resolve bool) error {
	out, err := c.ToMap(resolve)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Walk invokes fn for every leaf of the configuration, resolved. Leaves
// are visited depth-first, keys sorted at each level.
func (c *Config) Walk(fn func(path cfgpath.Path, value any) error) error {
	out, err := c.ToMap(true)
	if err != nil {
		return err
	}

	return tree.WalkLeaves(tree.FromAny(out), func(path cfgpath.Path, node *tree.Node) error {
		return fn(path, node.Value())
	})
}

// RegisterPlaceholder adds a custom placeholder kind, available to this
// configuration only.
func (c *Config) RegisterPlaceholder(name string, factory placeholder.Factory) {
	c.registry.Register(name, factory)
}

// FilesLoaded returns the files read for this configuration, in load
// order, imports and overlays included.
func (c *Config) FilesLoaded() []string {
	if c == nil || c.loader == nil {
		return nil
	}

	return c.loader.Loaded()
}

// Env returns the deployment environment the configuration was loaded for.
func (c *Config) Env() string {
	return c.env
}

// Root returns the underlying tree, for advanced inspection such as value
// provenance via tree.Origin.
func (c *Config) Root() *tree.Node {
	return c.root
}
