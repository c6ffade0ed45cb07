package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storesight/brand-insights/internal/archive/memory"
)

func TestPutObjectAndReadBack(t *testing.T) {
	t.Parallel()

	store := memory.NewBlobStore()
	uri, err := store.PutObject(context.Background(), "homepages/acme.com/x.html", "text/html", []byte("<html></html>"))
	require.NoError(t, err)
	assert.Equal(t, "memory://homepages/acme.com/x.html", uri)

	data, ok := store.Object("homepages/acme.com/x.html")
	require.True(t, ok)
	assert.Equal(t, "<html></html>", string(data))

	_, ok = store.Object("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"homepages/acme.com/x.html"}, store.Paths())
}
