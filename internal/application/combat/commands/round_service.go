package commands

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/avelasquez/quadrant-go/internal/adapters/metrics"
	"github.com/avelasquez/quadrant-go/internal/application/combat/services"
	"github.com/avelasquez/quadrant-go/internal/application/common"
	sectorQueries "github.com/avelasquez/quadrant-go/internal/application/sector/queries"
	"github.com/avelasquez/quadrant-go/internal/domain/combat"
	"github.com/avelasquez/quadrant-go/internal/domain/event"
	"github.com/avelasquez/quadrant-go/internal/domain/player"
	"github.com/avelasquez/quadrant-go/internal/domain/ship"
	"github.com/avelasquez/quadrant-go/internal/domain/shared"
)

// RoundConfig carries the lifecycle tunables
type RoundConfig struct {
	RoundTimeout        time.Duration
	ShieldRegenPerRound int
}

// RoundService owns the shared resolve-persist-emit path used by the submit
// fast path, explicit resolution, and the deadline sweeper. Callers must
// hold the sector lock.
type RoundService struct {
	encounters combat.EncounterRepository
	ships      ship.Repository
	characters player.CharacterRepository
	loader     *services.ParticipantLoader
	finalizer  *services.Finalizer
	emitter    *services.Emitter
	status     *services.StatusBuilder
	snapshots  *sectorQueries.SnapshotBuilder
	clock      shared.Clock
	cfg        RoundConfig
}

// NewRoundService creates the round service
func NewRoundService(
	encounters combat.EncounterRepository,
	ships ship.Repository,
	characters player.CharacterRepository,
	loader *services.ParticipantLoader,
	finalizer *services.Finalizer,
	emitter *services.Emitter,
	status *services.StatusBuilder,
	snapshots *sectorQueries.SnapshotBuilder,
	clock shared.Clock,
	cfg RoundConfig,
) *RoundService {
	return &RoundService{
		encounters: encounters,
		ships:      ships,
		characters: characters,
		loader:     loader,
		finalizer:  finalizer,
		emitter:    emitter,
		status:     status,
		snapshots:  snapshots,
		clock:      clock,
		cfg:        cfg,
	}
}

// CreateEncounter builds, persists and announces a fresh round-1 encounter
// for the sector. Caller holds the sector lock and has verified no active
// encounter exists.
func (s *RoundService) CreateEncounter(ctx context.Context, sectorID int, initiatorID, reason string, source event.SourceStamp) (*combat.Encounter, error) {
	enc := combat.NewEncounter(sectorID, initiatorID, reason, s.clock)

	participants, err := s.loader.Load(ctx, sectorID)
	if err != nil {
		return nil, err
	}
	for _, p := range participants {
		if err := enc.AddParticipant(p); err != nil {
			return nil, err
		}
	}

	deadline := s.clock.Now().Add(s.cfg.RoundTimeout)
	enc.Deadline = &deadline

	if err := s.encounters.Save(ctx, enc); err != nil {
		return nil, err
	}

	metrics.RecordEncounterStarted(reason)
	common.LoggerFromContext(ctx).Log("info", "combat encounter created", map[string]interface{}{
		"combat_id": enc.ID.String(),
		"sector":    sectorID,
		"initiator": initiatorID,
		"reason":    reason,
	})
	s.emitRoundWaiting(ctx, enc, source, nil)
	return enc, nil
}

// Resolve runs one round to completion: effective actions, garrison
// auto-actions, the deterministic resolver, persistence, and the full event
// sequence. requestedRound below the persisted round is a successful no-op.
func (s *RoundService) Resolve(ctx context.Context, enc *combat.Encounter, requestedRound int, source event.SourceStamp) (*ResolveRoundResponse, error) {
	if enc.Ended {
		return &ResolveRoundResponse{CombatID: enc.ID, Round: enc.Round, Ended: true, EndState: enc.EndState, Skipped: true}, nil
	}
	if requestedRound != 0 && requestedRound < enc.Round {
		return &ResolveRoundResponse{CombatID: enc.ID, Round: enc.Round, Skipped: true}, nil
	}

	started := s.clock.Now()
	now := s.clock.Now()

	actions := enc.EffectiveActions(now)
	for id, a := range combat.AutoActions(enc.Participants, actions, enc.Context.Tolls) {
		actions[id] = a
	}

	outcome := combat.ResolveRound(enc, actions, s.resolverChecks(enc))

	// Snapshot before applying: application drops departed fleers
	fleers := services.FleeingCharacters(enc, outcome)

	if err := enc.ApplyOutcome(outcome, s.cfg.ShieldRegenPerRound, s.clock, s.cfg.RoundTimeout); err != nil {
		return nil, err
	}

	s.syncSurvivorShips(ctx, enc, outcome)

	if err := s.encounters.Save(ctx, enc); err != nil {
		return nil, err
	}

	s.emitRoundResolved(ctx, enc, outcome, source)
	metrics.RecordRoundResolved(outcome.EndState, s.clock.Now().Sub(started).Seconds())
	common.LoggerFromContext(ctx).Log("info", "combat round resolved", map[string]interface{}{
		"combat_id": enc.ID.String(),
		"sector":    enc.SectorID,
		"round":     outcome.Round,
		"end":       enc.EndState,
	})

	if enc.Ended {
		s.finishEncounter(ctx, enc, outcome, fleers, source)
	} else {
		s.finalizer.MoveFleers(ctx, enc, fleers, outcome)
		s.emitRoundWaiting(ctx, enc, source, nil)
	}

	return &ResolveRoundResponse{
		CombatID: enc.ID,
		Round:    outcome.Round,
		Ended:    enc.Ended,
		EndState: enc.EndState,
	}, nil
}

// finishEncounter runs finalization and the post-ENDED emission sequence:
// one personalized combat.ended per participant, ship.destroyed, then
// salvage.created, then the deferred deletions, then sector.update. Failures
// after the first state mutation are logged, never propagated, and the
// deferred deletions always run.
func (s *RoundService) finishEncounter(ctx context.Context, enc *combat.Encounter, outcome *combat.RoundOutcome, fleers []*combat.Combatant, source event.SourceStamp) {
	result := s.finalizer.Apply(ctx, enc, outcome)
	defer func() {
		s.finalizer.RunDeferredDeletions(ctx, result.Deferred)
		s.emitSectorUpdate(ctx, enc.SectorID, source)
	}()

	s.finalizer.MoveFleers(ctx, enc, fleers, outcome)

	now := s.clock.Now()
	for _, id := range characterParticipantIDs(enc) {
		viewerShip := s.viewerShip(ctx, id)
		payload := services.CombatEndedPayload(enc, outcome, result.Salvage, viewerShip, source, now)
		ev := &event.GameEvent{
			Type:     event.TypeCombatEnded,
			Scope:    event.ScopeDirect,
			SectorID: &enc.SectorID,
			Payload:  payload,
			Source:   source,
		}
		if _, err := s.emitter.EmitDirect(ctx, ev, []string{id}); err != nil {
			log.Printf("combat: failed to emit combat.ended to %s: %v", id, err)
		}
	}

	for _, d := range result.Destroyed {
		ev := &event.GameEvent{
			Type:     event.TypeShipDestroyed,
			Scope:    event.ScopeSector,
			SectorID: &enc.SectorID,
			ShipID:   d.ShipID.String(),
			Payload:  services.ShipDestroyedPayload(d, enc, source, now),
			Source:   source,
		}
		spec := event.RecipientSpec{
			SectorID:       &enc.SectorID,
			CorporationIDs: []string{d.CorporationID},
		}
		if _, err := s.emitter.Emit(ctx, ev, spec); err != nil {
			log.Printf("combat: failed to emit ship.destroyed for %s: %v", d.ShipID, err)
		}
		metrics.RecordShipDestroyed(string(d.PlayerType))
	}

	for _, salvage := range result.Salvage {
		ev := &event.GameEvent{
			Type:     event.TypeSalvageCreated,
			Scope:    event.ScopeSector,
			SectorID: &enc.SectorID,
			Payload:  services.SalvageCreatedPayload(salvage, source, now),
			Source:   source,
		}
		if _, err := s.emitter.Emit(ctx, ev, event.RecipientSpec{SectorID: &enc.SectorID}); err != nil {
			log.Printf("combat: failed to emit salvage.created for %s: %v", salvage.ID, err)
		}
		metrics.RecordSalvageCreated()
	}
}

// emitRoundWaiting announces the new round. When only is non-nil the event
// goes to that character alone (auto-join).
func (s *RoundService) emitRoundWaiting(ctx context.Context, enc *combat.Encounter, source event.SourceStamp, only *string) {
	payload := services.RoundWaitingPayload(enc, source, s.clock.Now())
	ev := &event.GameEvent{
		Type:     event.TypeCombatRoundWaiting,
		Scope:    event.ScopeDirect,
		SectorID: &enc.SectorID,
		Payload:  payload,
		Source:   source,
	}

	var spec event.RecipientSpec
	if only != nil {
		spec = event.RecipientSpec{Direct: []string{*only}}
	} else {
		spec = s.combatRecipients(enc)
	}
	if _, err := s.emitter.Emit(ctx, ev, spec); err != nil {
		log.Printf("combat: failed to emit combat.round_waiting: %v", err)
	}
}

// EmitRoundWaitingTo announces the current round to a single character
func (s *RoundService) EmitRoundWaitingTo(ctx context.Context, enc *combat.Encounter, characterID string, source event.SourceStamp) {
	s.emitRoundWaiting(ctx, enc, source, &characterID)
}

func (s *RoundService) emitRoundResolved(ctx context.Context, enc *combat.Encounter, outcome *combat.RoundOutcome, source event.SourceStamp) {
	payload := services.RoundResolvedPayload(enc, outcome, source, s.clock.Now())
	ev := &event.GameEvent{
		Type:     event.TypeCombatRoundResolved,
		Scope:    event.ScopeDirect,
		SectorID: &enc.SectorID,
		Payload:  payload,
		Source:   source,
	}
	if _, err := s.emitter.Emit(ctx, ev, s.combatRecipients(enc)); err != nil {
		log.Printf("combat: failed to emit combat.round_resolved: %v", err)
	}
}

func (s *RoundService) emitSectorUpdate(ctx context.Context, sectorID int, source event.SourceStamp) {
	payload, err := s.snapshots.Build(ctx, sectorID)
	if err != nil {
		log.Printf("combat: failed to build sector snapshot for %d: %v", sectorID, err)
		return
	}
	payload["source"] = source.Payload()

	ev := &event.GameEvent{
		Type:     event.TypeSectorUpdate,
		Scope:    event.ScopeSector,
		SectorID: &sectorID,
		Payload:  payload,
		Source:   source,
	}
	spec := event.RecipientSpec{SectorID: &sectorID, IncludeGarrisons: true}
	if _, err := s.emitter.Emit(ctx, ev, spec); err != nil {
		log.Printf("combat: failed to emit sector.update: %v", err)
	}
}

// combatRecipients addresses round events to the fighting characters plus
// garrison owners and their corporations.
func (s *RoundService) combatRecipients(enc *combat.Encounter) event.RecipientSpec {
	return event.RecipientSpec{
		Direct:           characterParticipantIDs(enc),
		SectorID:         &enc.SectorID,
		IncludeGarrisons: true,
	}
}

// syncSurvivorShips writes post-round fighters/shields back to the ship rows
// of surviving character combatants. The defeated are handled by
// finalization.
func (s *RoundService) syncSurvivorShips(ctx context.Context, enc *combat.Encounter, outcome *combat.RoundOutcome) {
	for id, p := range enc.Participants {
		if !p.IsCharacter() || outcome.Defeated(id) {
			continue
		}
		shipID, err := uuid.Parse(p.ShipID)
		if err != nil {
			continue
		}

		err = common.WithStorageRetry(ctx, s.clock, func() error {
			row, err := s.ships.FindByID(ctx, shipID)
			if err != nil {
				return err
			}
			row.SetFighters(p.Fighters)
			row.SetShields(p.Shields)
			return s.ships.Save(ctx, row)
		})
		if err != nil {
			log.Printf("combat: failed to sync ship %s after round: %v", p.ShipID, err)
		}
	}
}

func (s *RoundService) viewerShip(ctx context.Context, characterID string) map[string]interface{} {
	character, err := s.characters.FindByID(ctx, characterID)
	if err != nil || character.CurrentShipID == nil {
		return nil
	}
	row, err := s.ships.FindByID(ctx, *character.CurrentShipID)
	if err != nil {
		return nil
	}
	view, err := s.status.ShipView(character, row)
	if err != nil {
		return nil
	}
	return view
}

func (s *RoundService) resolverChecks(enc *combat.Encounter) *combat.ResolverChecks {
	return &combat.ResolverChecks{
		TollSatisfied: func(outcome *combat.RoundOutcome) bool {
			return tollSatisfied(enc, outcome)
		},
		AllFriendly: func(outcome *combat.RoundOutcome) bool {
			return allFriendly(enc, outcome)
		},
	}
}

// tollSatisfied holds when every garrison is in toll posture and every
// hostile surviving character has paid each garrison owner this round.
func tollSatisfied(enc *combat.Encounter, outcome *combat.RoundOutcome) bool {
	hasToll := false
	for _, p := range enc.Participants {
		if !p.IsGarrison() {
			continue
		}
		if p.Mode != combat.GarrisonToll {
			return false
		}
		hasToll = true
	}
	if !hasToll {
		return false
	}

	for _, g := range enc.Participants {
		if !g.IsGarrison() {
			continue
		}
		for id, c := range enc.Participants {
			if !c.IsCharacter() || g.SameSide(c) {
				continue
			}
			if outcome.FleeSuccess[id] || outcome.FightersRemaining[id] <= 0 {
				continue
			}
			if !enc.Context.Tolls.HasPaid(g.OwnerID, id) {
				return false
			}
		}
	}
	return true
}

// allFriendly holds when every pair of surviving participants is on the same
// side, leaving nobody to fight.
func allFriendly(enc *combat.Encounter, outcome *combat.RoundOutcome) bool {
	var survivors []*combat.Combatant
	for id, p := range enc.Participants {
		if outcome.FleeSuccess[id] || outcome.FightersRemaining[id] <= 0 {
			continue
		}
		survivors = append(survivors, p)
	}
	if len(survivors) < 2 {
		return false
	}
	for i := range survivors {
		for j := i + 1; j < len(survivors); j++ {
			if !survivors[i].SameSide(survivors[j]) {
				return false
			}
		}
	}
	return true
}

func characterParticipantIDs(enc *combat.Encounter) []string {
	var ids []string
	for id, p := range enc.Participants {
		if p.IsCharacter() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
