package strata_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/0xalexb/strata"
)

func TestOptions(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	testCases := []struct {
		name     string
		option   strata.Option
		expected strata.Options
	}{
		{
			name:     "config dir",
			option:   strata.WithConfigDir("/etc/app"),
			expected: strata.Options{ConfigDir: "/etc/app"},
		},
		{
			name:     "environment",
			option:   strata.WithEnv("dev"),
			expected: strata.Options{Env: "dev"},
		},
		{
			name:     "argument separator",
			option:   strata.WithArgSeparator(';'),
			expected: strata.Options{Separator: ';'},
		},
		{
			name:     "logger",
			option:   strata.WithLogger(logger),
			expected: strata.Options{Logger: logger},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			var opts strata.Options

			testCase.option(&opts)

			require.Equal(t, testCase.expected, opts)
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	t.Parallel()

	var opts strata.Options

	require.Empty(t, opts.ConfigDir)
	require.Empty(t, opts.Env)
	require.Zero(t, opts.Separator)
	require.Nil(t, opts.Logger)
}
