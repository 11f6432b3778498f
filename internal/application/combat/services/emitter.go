package services

import (
	"context"

	"github.com/avelasquez/quadrant-go/internal/adapters/metrics"
	"github.com/avelasquez/quadrant-go/internal/domain/event"
	"github.com/avelasquez/quadrant-go/internal/domain/shared"
)

// Emitter records events with their recipient lists. An event with an empty
// recipient set is skipped unless it is an explicit broadcast; skipping is a
// normal outcome, not an error.
type Emitter struct {
	events     event.Repository
	recipients *event.RecipientComputer
	clock      shared.Clock
}

// NewEmitter creates an event emitter
func NewEmitter(events event.Repository, recipients *event.RecipientComputer, clock shared.Clock) *Emitter {
	return &Emitter{events: events, recipients: recipients, clock: clock}
}

// Emit computes the recipient set for the given RecipientSpec and persists the event
// atomically with it. Returns the new event id, or 0 when emission was
// skipped.
func (e *Emitter) Emit(ctx context.Context, ev *event.GameEvent, spec event.RecipientSpec) (int64, error) {
	recipients, err := e.recipients.Compute(ctx, spec)
	if err != nil {
		return 0, err
	}

	if len(recipients) == 0 && ev.Scope != event.ScopeBroadcast {
		metrics.RecordEventSkipped(ev.Type)
		return 0, nil
	}

	ev.Recipients = recipients
	ev.CreatedAt = e.clock.Now()
	id, err := e.events.Insert(ctx, ev)
	if err != nil {
		return 0, err
	}
	metrics.RecordEventEmitted(ev.Type, len(recipients))
	return id, nil
}

// EmitDirect persists an event addressed to an explicit character list
func (e *Emitter) EmitDirect(ctx context.Context, ev *event.GameEvent, characterIDs []string) (int64, error) {
	return e.Emit(ctx, ev, event.RecipientSpec{Direct: characterIDs})
}

// EmitError sends a direct error event to the calling character
func (e *Emitter) EmitError(ctx context.Context, characterID, endpoint string, cause error, source event.SourceStamp) {
	ev := &event.GameEvent{
		Type:  event.TypeError,
		Scope: event.ScopeDirect,
		Payload: map[string]interface{}{
			"source":   source.Payload(),
			"endpoint": endpoint,
			"error":    cause.Error(),
			"status":   shared.StatusCode(cause),
		},
		Source: source,
	}
	_, _ = e.Emit(ctx, ev, event.RecipientSpec{
		Direct:       []string{characterID},
		DirectReason: event.ReasonError,
	})
}
