package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storesight/brand-insights/internal/notify"
	"github.com/storesight/brand-insights/internal/notify/memory"
)

func TestPublishRecordsEvents(t *testing.T) {
	t.Parallel()

	pub := memory.New()
	ctx := context.Background()

	id, err := pub.Publish(ctx, notify.Event{BaseURL: "https://a.com", Products: 3})
	require.NoError(t, err)
	assert.Equal(t, "mem-1", id)

	id, err = pub.Publish(ctx, notify.Event{BaseURL: "https://b.com"})
	require.NoError(t, err)
	assert.Equal(t, "mem-2", id)

	events := pub.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "https://a.com", events[0].BaseURL)
	assert.Equal(t, 3, events[0].Products)
}
