package audit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citiesense/ginkgo-stakeholder-portal/internal/platform/kafka"
	"github.com/citiesense/ginkgo-stakeholder-portal/internal/registry"
)

type stubFactory struct {
	client registry.Client
	err    error
}

func (s *stubFactory) ForCommunity(_ context.Context, _ string) (registry.Client, error) {
	return s.client, s.err
}

type stubRegistry struct {
	registry.Client
	lastEvent map[string]any
	eventErr  error
}

func (s *stubRegistry) LogEvent(_ context.Context, fields map[string]any) (registry.Record, error) {
	s.lastEvent = fields
	if s.eventErr != nil {
		return nil, s.eventErr
	}
	return registry.Record{"id": "ev42"}, nil
}

type stubPublisher struct {
	messages []*kafka.Message
	err      error
}

func (s *stubPublisher) Produce(_ context.Context, msg *kafka.Message) error {
	s.messages = append(s.messages, msg)
	return s.err
}

func TestEmit(t *testing.T) {
	ctx := context.Background()

	t.Run("event lands in registry with portal conventions", func(t *testing.T) {
		reg := &stubRegistry{}
		emitter := NewEmitter(&stubFactory{client: reg}, nil, "portal.audit", slog.Default())

		id, err := emitter.Emit(ctx, "bk-dtwn", "contact.resolved", map[string]any{"contact_id": "c1"})
		require.NoError(t, err)
		assert.Equal(t, "ev42", id)

		assert.Equal(t, "contact.resolved", reg.lastEvent["name"])
		assert.Equal(t, "Portal", reg.lastEvent["category"])
		assert.Equal(t, "logged", reg.lastEvent["status"])
		assert.Equal(t, []string{"source:portal", "channel:web_event"}, reg.lastEvent["tags"])
		assert.JSONEq(t, `{"contact_id":"c1"}`, reg.lastEvent["description"].(string))
	})

	t.Run("nil payload serializes as empty object", func(t *testing.T) {
		reg := &stubRegistry{}
		emitter := NewEmitter(&stubFactory{client: reg}, nil, "portal.audit", slog.Default())

		_, err := emitter.Emit(ctx, "bk-dtwn", "portal.login", nil)
		require.NoError(t, err)
		assert.JSONEq(t, `{}`, reg.lastEvent["description"].(string))
	})

	t.Run("registry failure propagates", func(t *testing.T) {
		reg := &stubRegistry{eventErr: errors.New("registry 500")}
		emitter := NewEmitter(&stubFactory{client: reg}, nil, "portal.audit", slog.Default())

		_, err := emitter.Emit(ctx, "bk-dtwn", "contact.resolved", nil)
		assert.Error(t, err)
	})

	t.Run("kafka mirror carries the event", func(t *testing.T) {
		reg := &stubRegistry{}
		pub := &stubPublisher{}
		emitter := NewEmitter(&stubFactory{client: reg}, pub, "portal.audit", slog.Default())

		_, err := emitter.Emit(ctx, "bk-dtwn", "contact.resolved", map[string]any{"contact_id": "c1"})
		require.NoError(t, err)

		require.Len(t, pub.messages, 1)
		assert.Equal(t, "portal.audit", pub.messages[0].Topic)
		assert.Equal(t, "bk-dtwn", string(pub.messages[0].Key))

		var mirrored map[string]any
		require.NoError(t, json.Unmarshal(pub.messages[0].Value, &mirrored))
		assert.Equal(t, "ev42", mirrored["event_id"])
		assert.Equal(t, "contact.resolved", mirrored["name"])
	})

	t.Run("mirror failure does not fail the emit", func(t *testing.T) {
		reg := &stubRegistry{}
		pub := &stubPublisher{err: errors.New("brokers down")}
		emitter := NewEmitter(&stubFactory{client: reg}, pub, "portal.audit", slog.Default())

		id, err := emitter.Emit(ctx, "bk-dtwn", "contact.resolved", nil)
		require.NoError(t, err)
		assert.Equal(t, "ev42", id)
	})
}
