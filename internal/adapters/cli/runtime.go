package cli

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/avelasquez/quadrant-go/internal/adapters/api"
	"github.com/avelasquez/quadrant-go/internal/adapters/metrics"
	"github.com/avelasquez/quadrant-go/internal/adapters/persistence"
	"github.com/avelasquez/quadrant-go/internal/application/auth"
	combatCmd "github.com/avelasquez/quadrant-go/internal/application/combat/commands"
	combatServices "github.com/avelasquez/quadrant-go/internal/application/combat/services"
	"github.com/avelasquez/quadrant-go/internal/application/common"
	sectorQueries "github.com/avelasquez/quadrant-go/internal/application/sector/queries"
	"github.com/avelasquez/quadrant-go/internal/domain/event"
	"github.com/avelasquez/quadrant-go/internal/domain/ship"
	"github.com/avelasquez/quadrant-go/internal/domain/shared"
	"github.com/avelasquez/quadrant-go/internal/infrastructure/config"
	"github.com/avelasquez/quadrant-go/internal/infrastructure/database"
)

// Runtime holds the wired application: database, repositories, services and
// the mediator with every handler registered.
type Runtime struct {
	Config    *config.Config
	DB        *gorm.DB
	Mediator  common.Mediator
	Sweeper   *combatCmd.DeadlineSweeper
	Snapshots *sectorQueries.SnapshotBuilder
}

// NewRuntime connects to the database and wires the full daemon object graph
func NewRuntime(cfg *config.Config) (*Runtime, error) {
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if cfg.Metrics.Enabled {
		if err := setupMetrics(); err != nil {
			return nil, err
		}
	}

	clock := shared.NewRealClock()
	catalog := ship.NewStandardCatalog()

	// Repositories and adapters
	encounters := persistence.NewGormEncounterRepository(db)
	ships := persistence.NewGormShipRepository(db)
	characters := persistence.NewGormCharacterRepository(db)
	garrisons := persistence.NewGormGarrisonRepository(db)
	salvage := persistence.NewGormSalvageRepository(db, clock)
	events := persistence.NewGormEventRepository(db)
	mapService := persistence.NewGormMapService(db)
	sources := persistence.NewGormRecipientSources(db)
	locker := persistence.NewSectorLockManager()

	// Application services
	recipients := event.NewRecipientComputer(sources)
	emitter := combatServices.NewEmitter(events, recipients, clock)
	loader := combatServices.NewParticipantLoader(ships, characters, garrisons, catalog, mapService)
	finalizer := combatServices.NewFinalizer(ships, characters, garrisons, salvage, catalog, mapService, clock, cfg.Combat.SalvageTTL)
	status := combatServices.NewStatusBuilder(catalog)
	snapshots := sectorQueries.NewSnapshotBuilder(ships, characters, garrisons, salvage, catalog, mapService, mapService, clock)

	rounds := combatCmd.NewRoundService(
		encounters, ships, characters, loader, finalizer, emitter, status, snapshots, clock,
		combatCmd.RoundConfig{
			RoundTimeout:        cfg.Combat.RoundTimeout,
			ShieldRegenPerRound: cfg.Combat.ShieldRegenPerRound,
		},
	)

	limiter := api.NewCharacterRateLimiter(cfg.Daemon.RateLimit.RequestsPerSecond, cfg.Daemon.RateLimit.Burst)
	authorizer := auth.NewShipAuthorizer(characters)

	// Mediator and handlers
	med := common.NewMediator()

	engageHandler := combatCmd.NewEngageHandler(encounters, locker, rounds, characters, ships, limiter, authorizer, emitter, clock)
	if err := common.RegisterHandler[*combatCmd.EngageCommand](med, engageHandler); err != nil {
		return nil, fmt.Errorf("failed to register Engage handler: %w", err)
	}

	submitHandler := combatCmd.NewSubmitActionHandler(encounters, locker, rounds, characters, garrisons, limiter, emitter, clock)
	if err := common.RegisterHandler[*combatCmd.SubmitActionCommand](med, submitHandler); err != nil {
		return nil, fmt.Errorf("failed to register SubmitAction handler: %w", err)
	}

	resolveHandler := combatCmd.NewResolveRoundHandler(encounters, locker, rounds, clock)
	if err := common.RegisterHandler[*combatCmd.ResolveRoundCommand](med, resolveHandler); err != nil {
		return nil, fmt.Errorf("failed to register ResolveRound handler: %w", err)
	}

	deployHandler := combatCmd.NewDeployGarrisonHandler(encounters, locker, rounds, loader, characters, ships, garrisons, mapService, limiter, emitter, clock)
	if err := common.RegisterHandler[*combatCmd.DeployGarrisonCommand](med, deployHandler); err != nil {
		return nil, fmt.Errorf("failed to register DeployGarrison handler: %w", err)
	}

	arriveHandler := combatCmd.NewArriveInSectorHandler(encounters, locker, rounds, loader, garrisons, clock)
	if err := common.RegisterHandler[*combatCmd.ArriveInSectorCommand](med, arriveHandler); err != nil {
		return nil, fmt.Errorf("failed to register ArriveInSector handler: %w", err)
	}

	claimHandler := combatCmd.NewClaimSalvageHandler(salvage, characters, ships, catalog, locker, limiter, emitter, clock)
	if err := common.RegisterHandler[*combatCmd.ClaimSalvageCommand](med, claimHandler); err != nil {
		return nil, fmt.Errorf("failed to register ClaimSalvage handler: %w", err)
	}

	sweeper := combatCmd.NewDeadlineSweeper(encounters, med, clock, cfg.Daemon.SweepInterval)

	return &Runtime{
		Config:    cfg,
		DB:        db,
		Mediator:  med,
		Sweeper:   sweeper,
		Snapshots: snapshots,
	}, nil
}

// Close releases the runtime's resources
func (r *Runtime) Close() error {
	return database.Close(r.DB)
}

func setupMetrics() error {
	metrics.InitRegistry()

	combatCollector := metrics.NewCombatMetricsCollector()
	if err := combatCollector.Register(); err != nil {
		return fmt.Errorf("failed to register combat metrics: %w", err)
	}
	metrics.SetGlobalCombatCollector(combatCollector)

	eventCollector := metrics.NewEventMetricsCollector()
	if err := eventCollector.Register(); err != nil {
		return fmt.Errorf("failed to register event metrics: %w", err)
	}
	metrics.SetGlobalEventCollector(eventCollector)

	return nil
}
