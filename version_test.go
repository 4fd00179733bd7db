package strata_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/0xalexb/strata"
)

func TestVersion_DefaultValues(t *testing.T) {
	t.Parallel()

	require.Equal(t, "dev", strata.Version)
	require.Equal(t, "unknown", strata.CompiledAt)
}
