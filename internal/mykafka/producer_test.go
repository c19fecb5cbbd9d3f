package mykafka

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilProducerIsSafe(t *testing.T) {
	p := NewProducer(nil)
	require.Nil(t, p)

	assert.NoError(t, p.PublishEvent(context.Background(), "cart_events", "session:x", map[string]any{"type": "add_to_cart"}))
	assert.NoError(t, p.Close())
}
