package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &Publisher{writer: w}

	require.NoError(t, p.Publish(context.Background(), "7", map[string]int{"client_id": 7}))
	require.Len(t, w.messages, 1)
	assert.Equal(t, []byte("7"), w.messages[0].Key)

	var body map[string]int
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &body))
	assert.Equal(t, 7, body["client_id"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublisher_Errors(t *testing.T) {
	boom := errors.New("broker down")
	p := &Publisher{writer: &fakeWriter{err: boom}}

	err := p.Publish(context.Background(), "1", struct{}{})
	assert.ErrorIs(t, err, boom)

	err = p.Publish(context.Background(), "1", make(chan int))
	assert.ErrorContains(t, err, "encode event")
}

func TestNewPublisher(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"}, "account_snapshots")

	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "account_snapshots", w.Topic)
	assert.Equal(t, "localhost:9092", w.Addr.String())
}
