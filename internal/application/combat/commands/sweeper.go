package commands

import (
	"context"
	"log"
	"time"

	"github.com/avelasquez/quadrant-go/internal/application/common"
	"github.com/avelasquez/quadrant-go/internal/domain/combat"
	"github.com/avelasquez/quadrant-go/internal/domain/shared"
)

// DeadlineSweeper periodically resolves encounters whose round deadline has
// passed. Resolution goes through the mediator like any other trigger, so the
// sector lock and the stale-round no-op make concurrent sweeps harmless.
type DeadlineSweeper struct {
	encounters combat.EncounterRepository
	mediator   common.Mediator
	clock      shared.Clock
	interval   time.Duration
}

// NewDeadlineSweeper creates a deadline sweeper
func NewDeadlineSweeper(encounters combat.EncounterRepository, mediator common.Mediator, clock shared.Clock, interval time.Duration) *DeadlineSweeper {
	return &DeadlineSweeper{
		encounters: encounters,
		mediator:   mediator,
		clock:      clock,
		interval:   interval,
	}
}

// Run sweeps until the context is cancelled
func (s *DeadlineSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				log.Printf("sweeper: sweep failed: %v", err)
			}
		}
	}
}

// Sweep resolves every encounter whose deadline has elapsed. Per-encounter
// failures are logged and the sweep continues.
func (s *DeadlineSweeper) Sweep(ctx context.Context) error {
	expired, err := s.encounters.FindExpiredDeadlines(ctx, s.clock.Now())
	if err != nil {
		return err
	}

	for _, enc := range expired {
		cmd := &ResolveRoundCommand{
			SectorID: enc.SectorID,
			Round:    enc.Round,
			Method:   "combat.sweep",
		}
		if _, err := s.mediator.Send(ctx, cmd); err != nil {
			log.Printf("sweeper: failed to resolve sector %d round %d: %v", enc.SectorID, enc.Round, err)
		}
	}
	return nil
}
