package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/cycling-auction/internal/config"
	"github.com/riskibarqy/cycling-auction/internal/domain/auction"
	"github.com/riskibarqy/cycling-auction/internal/domain/cyclist"
	"github.com/riskibarqy/cycling-auction/internal/domain/league"
	"github.com/riskibarqy/cycling-auction/internal/domain/roster"
	"github.com/riskibarqy/cycling-auction/internal/domain/team"
	cacherepo "github.com/riskibarqy/cycling-auction/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/cycling-auction/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/cycling-auction/internal/infrastructure/repository/postgres"
	basecache "github.com/riskibarqy/cycling-auction/internal/platform/cache"
	"github.com/riskibarqy/cycling-auction/internal/platform/logging"
)

const dbPingTimeout = 5 * time.Second

type repositories struct {
	uow      auction.UnitOfWork
	auctions auction.Repository
	leagues  league.Repository
	teams    team.Repository
	rosters  roster.Repository
	cyclists cyclist.Repository
	close    func() error
}

func openRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	var repos repositories

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openDatabase(ctx, cfg)
		if err != nil {
			return repositories{}, err
		}
		repos = repositories{
			uow:      postgres.NewUnitOfWork(db),
			auctions: postgres.NewAuctionRepository(db),
			leagues:  postgres.NewLeagueRepository(db),
			teams:    postgres.NewTeamRepository(db),
			rosters:  postgres.NewRosterRepository(db),
			cyclists: postgres.NewCyclistRepository(db),
			close:    db.Close,
		}
		logger.Info("storage ready", "driver", cfg.StorageDriver, "db_name", dbNameFromURL(cfg.DBURL))
	default:
		seed, err := memory.LoadSeedCyclists(cfg.MemorySeedFile)
		if err != nil {
			return repositories{}, fmt.Errorf("load memory seed: %w", err)
		}
		db := memory.NewDatabase(seed)
		repos = repositories{
			uow:      memory.NewUnitOfWork(db),
			auctions: memory.NewAuctionRepository(db),
			leagues:  memory.NewLeagueRepository(db),
			teams:    memory.NewTeamRepository(db),
			rosters:  memory.NewRosterRepository(db),
			cyclists: memory.NewCyclistRepository(db),
			close:    func() error { return nil },
		}
		logger.Info("storage ready", "driver", config.StorageMemory, "seed_cyclists", len(seed))
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.cyclists = cacherepo.NewCyclistRepository(repos.cyclists, store)
		repos.teams = cacherepo.NewTeamRepository(repos.teams, store)
	}

	return repos, nil
}

func openDatabase(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.ServiceName)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}
