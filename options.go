package strata

import "log/slog"

// Options holds settings for loading a configuration.
type Options struct {
	// ConfigDir is the directory relative file names, including imports,
	// are resolved against. Default: the current working directory.
	ConfigDir string
	// Env is the deployment environment, e.g. "dev". When set, a
	// "<name>-<env>.yaml" overlay is merged over every loaded file.
	Env string
	// Separator separates placeholder arguments. Default: ','.
	Separator byte
	// Logger receives load and resolution diagnostics.
	Logger *slog.Logger
}

// Option defines a function type for applying configuration options.
type Option func(*Options)

// WithConfigDir sets the directory config files are resolved against.
func WithConfigDir(dir string) Option {
	return func(opts *Options) {
		opts.ConfigDir = dir
	}
}

// WithEnv sets the deployment environment.
func WithEnv(env string) Option {
	return func(opts *Options) {
		opts.Env = env
	}
}

// WithArgSeparator overrides the placeholder argument separator, for
// values whose literals contain many commas.
func WithArgSeparator(sep byte) Option {
	return func(opts *Options) {
		opts.Separator = sep
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}
