package gcs_test

import (
	"testing"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/require"

	"github.com/storesight/brand-insights/internal/archive/gcs"
)

func TestNewValidation(t *testing.T) {
	t.Parallel()

	_, err := gcs.New(nil, gcs.Config{Bucket: "snapshots"})
	require.Error(t, err)

	_, err = gcs.New(&storage.Client{}, gcs.Config{})
	require.Error(t, err)

	store, err := gcs.New(&storage.Client{}, gcs.Config{Bucket: "snapshots"})
	require.NoError(t, err)
	require.NotNil(t, store)
}
