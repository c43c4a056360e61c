package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONEntryCarriesRequestID(t *testing.T) {
	l, err := New(Config{Level: "debug", Format: "json"})
	require.NoError(t, err)
	var buf bytes.Buffer
	l.SetOutput(&buf)

	ctx := WithRequestID(context.Background(), "req-1")
	l.Info(ctx, "post created", "id", "p1", "dangling")

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "post created", got["msg"])
	assert.Equal(t, "req-1", got[RequestIDKey])
	assert.Equal(t, "p1", got["id"])
	assert.NotContains(t, got, "dangling")
}

func TestLevelFilters(t *testing.T) {
	l, err := New(Config{Level: "warn"})
	require.NoError(t, err)
	var buf bytes.Buffer
	l.SetOutput(&buf)

	l.Info(context.Background(), "hidden")
	assert.Zero(t, buf.Len())
	l.Warn(context.Background(), "shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
	_, err = New(Config{Format: "xml"})
	assert.Error(t, err)
}
