package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/riskibarqy/cycling-auction/internal/config"
	"github.com/riskibarqy/cycling-auction/internal/domain/roster"
	"github.com/riskibarqy/cycling-auction/internal/infrastructure/eventbus"
	"github.com/riskibarqy/cycling-auction/internal/infrastructure/jobqueue"
	"github.com/riskibarqy/cycling-auction/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/cycling-auction/internal/platform/id"
	"github.com/riskibarqy/cycling-auction/internal/platform/logging"
	"github.com/riskibarqy/cycling-auction/internal/platform/resilience"
	"github.com/riskibarqy/cycling-auction/internal/usecase"
)

// Container holds the wired services shared by the API server and the CLI.
type Container struct {
	Leagues  *usecase.LeagueService
	Cyclists *usecase.CyclistService
	Bids     *usecase.BidService
	Auctions *usecase.AuctionService

	closers []func() error
}

func Build(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Container, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	c := &Container{closers: []func() error{repos.close}}

	mode, err := usecase.ParseResolveMode(cfg.AuctionAutoResolve)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	var queue usecase.JobQueue
	if cfg.QStashEnabled {
		queue = jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.QStashCircuitEnabled,
				FailureThreshold: cfg.QStashCircuitFailureCount,
				OpenTimeout:      cfg.QStashCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.QStashCircuitHalfOpenMaxReq,
			},
		}, logger.With("component", "qstash"))
	}

	var events usecase.RoundEventPublisher
	if cfg.NATSEnabled {
		jsCfg := eventbus.DefaultJetStreamConfig()
		jsCfg.URL = cfg.NATSURL
		jsCfg.StreamName = cfg.NATSStream
		jsCfg.SubjectPrefix = cfg.NATSSubjectPrefix
		jsCfg.MaxReconnects = cfg.NATSMaxReconnects
		jsCfg.ReconnectWait = cfg.NATSReconnectWait

		publisher, err := eventbus.NewJetStreamPublisher(ctx, jsCfg, logger.With("component", "jetstream"))
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("connect jetstream: %w", err)
		}
		c.closers = append(c.closers, func() error {
			publisher.Close()
			return nil
		})
		events = publisher
	}

	ids := idgen.NewUUIDGenerator()
	rules := roster.Rules{Budget: cfg.AuctionBudget, RosterSize: cfg.AuctionRosterSize}

	c.Auctions = usecase.NewAuctionService(
		repos.uow, repos.auctions, repos.leagues, repos.teams, repos.rosters, repos.cyclists,
		queue, events,
		usecase.AuctionConfig{
			Mode:           mode,
			SweepWorkers:   cfg.AuctionSweepWorkers,
			ResolveJobPath: usecase.DefaultResolveJobPath,
		},
		logger.With("component", "auction"),
	)
	c.Bids = usecase.NewBidService(
		repos.auctions, repos.leagues, repos.teams, repos.rosters, repos.cyclists,
		c.Auctions, ids, logger.With("component", "bids"),
	)
	c.Leagues = usecase.NewLeagueService(
		repos.leagues, repos.teams, repos.rosters, repos.auctions, repos.cyclists,
		ids, idgen.NewInviteCodeGenerator(), rules,
	)
	c.Cyclists = usecase.NewCyclistService(repos.cyclists, ids)

	logger.Info("auction services ready",
		"resolve_mode", string(mode),
		"budget", cfg.AuctionBudget,
		"roster_size", cfg.AuctionRosterSize,
		"qstash_enabled", cfg.QStashEnabled,
		"nats_enabled", cfg.NATSEnabled,
		"cache_enabled", cfg.CacheEnabled,
	)
	return c, nil
}

// Close releases storage and broker connections in reverse order.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func NewHTTPServer(cfg config.Config, c *Container, logger *logging.Logger) (*http.Server, error) {
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(c.Leagues, c.Cyclists, c.Bids, c.Auctions, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}
