// Package audit records portal-originated activity. Every event lands in the
// community's registry event stream so it is visible next to the data it
// describes; deployments with Kafka configured additionally get a mirror
// topic for downstream consumers.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/citiesense/ginkgo-stakeholder-portal/internal/platform/kafka"
	"github.com/citiesense/ginkgo-stakeholder-portal/internal/registry"
)

// Event field values fixed by the portal's registry conventions.
const (
	eventCategory = "Portal"
	eventStatus   = "logged"
)

var eventTags = []string{"source:portal", "channel:web_event"}

// Publisher is the Kafka surface the emitter needs. Nil disables mirroring.
type Publisher interface {
	Produce(ctx context.Context, msg *kafka.Message) error
}

// Emitter writes portal audit events.
type Emitter struct {
	clients   registry.ClientFactory
	publisher Publisher
	topic     string
	logger    *slog.Logger
}

func NewEmitter(clients registry.ClientFactory, publisher Publisher, topic string, logger *slog.Logger) *Emitter {
	return &Emitter{
		clients:   clients,
		publisher: publisher,
		topic:     topic,
		logger:    logger,
	}
}

// Emit appends one event to the community's registry event stream and
// returns the registry-assigned event id. The Kafka mirror is best-effort:
// a produce failure is logged, never propagated, because the registry copy
// already succeeded.
func (e *Emitter) Emit(ctx context.Context, communityID, name string, payload map[string]any) (string, error) {
	client, err := e.clients.ForCommunity(ctx, communityID)
	if err != nil {
		return "", err
	}

	if payload == nil {
		payload = map[string]any{}
	}
	desc, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	rec, err := client.LogEvent(ctx, map[string]any{
		"name":        name,
		"category":    eventCategory,
		"description": string(desc),
		"starts_at":   time.Now().UTC().Format(time.RFC3339),
		"status":      eventStatus,
		"tags":        eventTags,
	})
	if err != nil {
		return "", err
	}
	eventID := rec.ID()

	e.mirror(ctx, communityID, name, eventID, payload)
	return eventID, nil
}

func (e *Emitter) mirror(ctx context.Context, communityID, name, eventID string, payload map[string]any) {
	if e.publisher == nil {
		return
	}

	value, err := json.Marshal(map[string]any{
		"event_id":     eventID,
		"community_id": communityID,
		"name":         name,
		"payload":      payload,
		"emitted_at":   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		e.logger.WarnContext(ctx, "audit mirror encode failed", "error", err, "event", name)
		return
	}

	msg := &kafka.Message{
		Topic: e.topic,
		Key:   []byte(communityID),
		Value: value,
	}
	if err := e.publisher.Produce(ctx, msg); err != nil {
		e.logger.WarnContext(ctx, "audit mirror produce failed",
			"error", err,
			"event", name,
			"community_id", communityID,
		)
	}
}
