package logging_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/storesight/brand-insights/internal/logging"
)

func TestNew(t *testing.T) {
	t.Parallel()

	dev, err := logging.New(true)
	require.NoError(t, err)
	require.NotNil(t, dev)
	require.True(t, dev.Core().Enabled(-1), "development logger keeps debug output")

	prod, err := logging.New(false)
	require.NoError(t, err)
	require.NotNil(t, prod)
	require.False(t, prod.Core().Enabled(-1), "production logger drops debug output")
}
