// Command `strata` inspects layered YAML configurations from the shell.
//
// Usage:
//
//	strata get <path>       - Print the resolved value at a deep path
//	strata export           - Print the whole configuration as YAML
//	strata files            - List the files a configuration pulls in
//	strata version          - Show version information
//
// Examples:
//
//	strata -f config.yaml get database.host
//	strata -f config.yaml -e dev get 'logging.**.level'
//	strata -f config.yaml export --raw
//
// Paths use the same syntax the library accepts: "a.b[2].c", wildcards
// ("*", "[*]") and recursive descent ("**"). Placeholders are resolved
// unless --raw is given.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/0xalexb/strata"
	"github.com/0xalexb/strata/access"
	"github.com/0xalexb/strata/logging"
	"github.com/0xalexb/strata/tree"
)

func main() {
	var (
		file     string
		dir      string
		env      string
		logLevel string
		raw      bool
	)

	root := &cobra.Command{
		Use:   "strata",
		Short: "Layered YAML configuration inspector",
		Long: `Strata loads a YAML configuration with its environment overlays and
imports, and prints values, full exports or the list of files involved.`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger := logging.NewLogger(
				logging.LoggerConfig{Level: logLevel, Format: "text"}, os.Stderr)
			slog.SetDefault(logger)
		},
	}

	root.PersistentFlags().StringVarP(&file, "file", "f", "config.yaml", "main config file")
	root.PersistentFlags().StringVarP(&dir, "dir", "d", "", "directory config files are resolved against")
	root.PersistentFlags().StringVarP(&env, "env", "e", "", "deployment environment, e.g. dev")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&raw, "raw", false, "do not resolve placeholders")

	load := func() (*strata.Config, error) {
		return strata.Load(file,
			strata.WithConfigDir(dir),
			strata.WithEnv(env),
			strata.WithLogger(slog.Default()),
		)
	}

	getCmd := &cobra.Command{
		Use:     "get <path>",
		Short:   "Print the resolved value at a deep path",
		Example: "strata -f config.yaml get 'database.*.host'",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			var opts []access.GetOption
			if raw {
				opts = append(opts, access.WithRawValues())
			}

			value, err := cfg.Get(args[0], opts...)
			if err != nil {
				return err
			}

			return printValue(cmd, value)
		},
	}

	exportCmd := &cobra.Command{
		Use:     "export",
		Short:   "Print the whole configuration as YAML",
		Example: "strata -f config.yaml -e prod export",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			return cfg.ToYAML(cmd.OutOrStdout(), !raw)
		},
	}

	filesCmd := &cobra.Command{
		Use:   "files",
		Short: "List the files a configuration pulls in",
		Long: `List every file loading the configuration touches: the main file, its
environment overlays and all imports. Lazy imports are forced by a full
export first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			if _, err := cfg.ToMap(true); err != nil {
				return err
			}

			for _, name := range cfg.FilesLoaded() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}

			return nil
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "version: %s\n", strata.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "compiled at: %s\n", strata.CompiledAt)
		},
	}

	root.AddCommand(getCmd, exportCmd, filesCmd, versionCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// printValue renders scalars plainly and containers as YAML.
func printValue(cmd *cobra.Command, value any) error {
	if node, ok := value.(*tree.Node); ok {
		data, err := yaml.Marshal(node.Interface())
		if err != nil {
			return fmt.Errorf("failed to marshal value: %w", err)
		}

		_, err = cmd.OutOrStdout().Write(data)

		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), value)

	return nil
}
