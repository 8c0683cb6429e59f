package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/panjf2000/ants/v2"
	"github.com/shopspring/decimal"

	"github.com/riskibarqy/cycling-auction/internal/domain/auction"
	"github.com/riskibarqy/cycling-auction/internal/domain/cyclist"
	"github.com/riskibarqy/cycling-auction/internal/domain/league"
	"github.com/riskibarqy/cycling-auction/internal/domain/roster"
	"github.com/riskibarqy/cycling-auction/internal/domain/team"
	"github.com/riskibarqy/cycling-auction/internal/platform/logging"
	"github.com/riskibarqy/cycling-auction/internal/platform/resilience"
)

// ResolveMode decides what happens once every team has acted in a round.
type ResolveMode string

const (
	ResolveModeInline ResolveMode = "inline"
	ResolveModeQueue  ResolveMode = "queue"
	ResolveModeOff    ResolveMode = "off"
)

func ParseResolveMode(v string) (ResolveMode, error) {
	switch ResolveMode(strings.ToLower(strings.TrimSpace(v))) {
	case ResolveModeInline, "":
		return ResolveModeInline, nil
	case ResolveModeQueue:
		return ResolveModeQueue, nil
	case ResolveModeOff:
		return ResolveModeOff, nil
	default:
		return "", fmt.Errorf("unknown resolve mode %q", v)
	}
}

const (
	DefaultResolveJobPath = "/v1/internal/jobs/resolve-round"
	defaultSweepWorkers   = 4
)

type JobQueue interface {
	Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error
}

type noopJobQueue struct{}

func (noopJobQueue) Enqueue(_ context.Context, _ string, _ any, _ time.Duration, _ string) error {
	return nil
}

func NewNoopJobQueue() JobQueue {
	return noopJobQueue{}
}

// RoundResolvedEvent is published after a resolution commits.
type RoundResolvedEvent struct {
	LeagueID       string            `json:"league_id"`
	RoundNumber    int               `json:"round_number"`
	NextRound      int               `json:"next_round,omitempty"`
	Finished       bool              `json:"finished"`
	Allocation     map[string]string `json:"allocation"`
	StalledTeamIDs []string          `json:"stalled_team_ids,omitempty"`
	Digest         string            `json:"digest"`
	ResolvedAt     time.Time         `json:"resolved_at"`
}

type RoundEventPublisher interface {
	PublishRoundResolved(ctx context.Context, event RoundResolvedEvent) error
}

type noopRoundEventPublisher struct{}

func (noopRoundEventPublisher) PublishRoundResolved(context.Context, RoundResolvedEvent) error {
	return nil
}

func NewNoopRoundEventPublisher() RoundEventPublisher {
	return noopRoundEventPublisher{}
}

// ResolveRoundJob is the queued payload for a deferred resolution.
type ResolveRoundJob struct {
	LeagueID    string `json:"league_id" validate:"required"`
	RoundNumber int    `json:"round_number" validate:"required,gt=0"`
}

var dedupUnsafeCharRegex = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

func resolveDedupID(leagueID string, round int) string {
	return "resolve-" + dedupUnsafeCharRegex.ReplaceAllString(leagueID, "_") + "-" + strconv.Itoa(round)
}

type AuctionConfig struct {
	Mode           ResolveMode
	SweepWorkers   int
	ResolveJobPath string
}

// Readiness tells whether a round can be resolved.
type Readiness struct {
	LeagueID    string
	RoundNumber int
	Ready       bool
	// Waiting lists teams that still have to submit or skip.
	Waiting []string
}

const (
	SweepStatusResolved = "resolved"
	SweepStatusWaiting  = "waiting"
	SweepStatusFailed   = "failed"
)

type SweepItem struct {
	LeagueID    string `json:"league_id"`
	RoundNumber int    `json:"round_number"`
	Status      string `json:"status"`
	Finished    bool   `json:"finished,omitempty"`
	Message     string `json:"message,omitempty"`
}

type SweepResult struct {
	LeagueCount   int         `json:"league_count"`
	ResolvedCount int         `json:"resolved_count"`
	FailedCount   int         `json:"failed_count"`
	Items         []SweepItem `json:"items"`
}

// ResultRow is one resolved bid in the auction results view.
type ResultRow struct {
	RoundNumber  int
	TeamID       string
	TeamName     string
	CyclistID    string
	CyclistName  string
	CyclistTeam  string
	Price        decimal.Decimal
	WinningPrice decimal.Decimal
	Status       auction.BidStatus
	SubmittedAt  time.Time
}

type AuctionService struct {
	uow         auction.UnitOfWork
	auctionRepo auction.Repository
	leagueRepo  league.Repository
	teamRepo    team.Repository
	rosterRepo  roster.Repository
	cyclistRepo cyclist.Repository
	queue       JobQueue
	events      RoundEventPublisher
	cfg         AuctionConfig
	logger      *logging.Logger
	flight      *resilience.SingleFlight[auction.Resolution]
	clock       clockwork.Clock
}

func NewAuctionService(
	uow auction.UnitOfWork,
	auctionRepo auction.Repository,
	leagueRepo league.Repository,
	teamRepo team.Repository,
	rosterRepo roster.Repository,
	cyclistRepo cyclist.Repository,
	queue JobQueue,
	events RoundEventPublisher,
	cfg AuctionConfig,
	logger *logging.Logger,
	opts ...Option,
) *AuctionService {
	if queue == nil {
		queue = NewNoopJobQueue()
	}
	if events == nil {
		events = NewNoopRoundEventPublisher()
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Mode == "" {
		cfg.Mode = ResolveModeInline
	}
	if cfg.SweepWorkers <= 0 {
		cfg.SweepWorkers = defaultSweepWorkers
	}
	if strings.TrimSpace(cfg.ResolveJobPath) == "" {
		cfg.ResolveJobPath = DefaultResolveJobPath
	}

	return &AuctionService{
		uow:         uow,
		auctionRepo: auctionRepo,
		leagueRepo:  leagueRepo,
		teamRepo:    teamRepo,
		rosterRepo:  rosterRepo,
		cyclistRepo: cyclistRepo,
		queue:       queue,
		events:      events,
		cfg:         cfg,
		logger:      logger.With("component", "auction"),
		flight:      &resilience.SingleFlight[auction.Resolution]{},
		clock:       applyOptions(opts).clock,
	}
}

// ResolveRound awards every contested cyclist of (leagueID, round) and advances
// the league. Calling it again for a resolved round returns the stored allocation.
func (s *AuctionService) ResolveRound(ctx context.Context, leagueID string, round int) (auction.Resolution, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.ResolveRound")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return auction.Resolution{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if round <= 0 {
		return auction.Resolution{}, fmt.Errorf("%w: round must be > 0", ErrInvalidInput)
	}

	key := leagueID + ":" + strconv.Itoa(round)
	res, err, shared := s.flight.Do(key, func() (auction.Resolution, error) {
		return s.resolve(ctx, leagueID, round)
	})
	if err != nil {
		if errors.Is(err, auction.ErrInconsistentState) {
			s.logger.ErrorContext(ctx, "auction state inconsistent", "league_id", leagueID, "round", round, "error", err)
		}
		return auction.Resolution{}, err
	}
	if shared {
		s.logger.DebugContext(ctx, "joined in-flight resolution", "league_id", leagueID, "round", round)
	}

	return res, nil
}

func (s *AuctionService) resolve(ctx context.Context, leagueID string, round int) (auction.Resolution, error) {
	var res auction.Resolution

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx auction.Tx) error {
		lg, exists, err := tx.LockLeague(ctx, leagueID)
		if err != nil {
			return fmt.Errorf("lock league: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
		}

		rnd, exists, err := tx.GetRound(ctx, leagueID, round)
		if err != nil {
			return fmt.Errorf("get round: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: league=%s round=%d", ErrNotFound, leagueID, round)
		}

		subs, err := tx.ListCurrentSubmissions(ctx, leagueID, round)
		if err != nil {
			return fmt.Errorf("list current submissions: %w", err)
		}
		records, err := tx.ListOwnerships(ctx, leagueID)
		if err != nil {
			return fmt.Errorf("list ownerships: %w", err)
		}

		if !rnd.Active || lg.AuctionState.IsFinished() {
			allocation, awards, err := auction.AllocationFromSubmissions(subs, records)
			if err != nil {
				return err
			}
			res = auction.Resolution{
				LeagueID:        leagueID,
				RoundNumber:     round,
				Allocation:      allocation,
				Awards:          awards,
				AlreadyResolved: true,
				Finished:        lg.AuctionState.IsFinished(),
				Digest:          auction.Digest(leagueID, round, awards),
			}
			if rnd.EndedAt != nil {
				res.ResolvedAt = *rnd.EndedAt
			} else {
				res.ResolvedAt = lastResolvedAt(subs)
			}
			if !res.Finished {
				res.NextRound = round + 1
			}
			return nil
		}

		plan := auction.Resolve(leagueID, round, subs, roster.OwnerIndex(records))
		now := s.clock.Now().UTC()

		if err := markBids(ctx, tx, plan.WonBidIDs, auction.BidStatusWon, now); err != nil {
			return err
		}
		if err := markBids(ctx, tx, plan.LostBidIDs, auction.BidStatusLost, now); err != nil {
			return err
		}

		for _, award := range plan.Awards {
			item := roster.Ownership{
				LeagueID:    leagueID,
				TeamID:      award.TeamID,
				CyclistID:   award.CyclistID,
				Price:       award.Price,
				Locked:      true,
				RoundNumber: round,
				AcquiredAt:  now,
			}
			inserted, err := tx.InsertOwnership(ctx, item)
			if err != nil {
				return fmt.Errorf("insert ownership cyclist=%s: %w", award.CyclistID, err)
			}
			if !inserted {
				return fmt.Errorf("%w: cyclist %s acquired concurrently", auction.ErrInconsistentState, award.CyclistID)
			}
			records = append(records, item)
		}

		teamIDs, err := tx.ListTeamIDs(ctx, leagueID)
		if err != nil {
			return fmt.Errorf("list team ids: %w", err)
		}
		eval := auction.Evaluate(teamIDs, records, lg.Rules())

		res = auction.Resolution{
			LeagueID:       leagueID,
			RoundNumber:    round,
			Allocation:     plan.Allocation(),
			Awards:         plan.Awards,
			StalledTeamIDs: eval.StalledTeamIDs,
			Digest:         auction.Digest(leagueID, round, plan.Awards),
			ResolvedAt:     now,
		}

		target := league.AuctionStateInProgress
		if eval.AllComplete {
			target = league.AuctionStateFinished
		}
		next, err := lg.AuctionState.TransitionTo(target)
		if err != nil {
			return fmt.Errorf("%w: %v", auction.ErrInconsistentState, err)
		}
		if next != lg.AuctionState {
			if err := tx.SetAuctionState(ctx, leagueID, next); err != nil {
				return fmt.Errorf("set auction state: %w", err)
			}
		}

		// The final round is left in place; the finished state freezes it.
		if eval.AllComplete {
			res.Finished = true
			return nil
		}

		if err := tx.CloseRound(ctx, leagueID, round, now); err != nil {
			return fmt.Errorf("close round: %w", err)
		}
		res.NextRound = round + 1
		if err := tx.OpenRound(ctx, auction.Round{
			LeagueID:  leagueID,
			Number:    res.NextRound,
			Active:    true,
			StartedAt: now,
		}); err != nil {
			return fmt.Errorf("open round %d: %w", res.NextRound, err)
		}
		return nil
	})
	if err != nil {
		return auction.Resolution{}, err
	}

	if res.AlreadyResolved {
		s.logger.InfoContext(ctx, "round already resolved", "league_id", leagueID, "round", round, "digest", res.Digest)
		return res, nil
	}

	s.logger.InfoContext(ctx, "round resolved",
		"league_id", leagueID,
		"round", round,
		"awarded", len(res.Awards),
		"finished", res.Finished,
		"next_round", res.NextRound,
		"digest", res.Digest,
	)
	for _, teamID := range res.StalledTeamIDs {
		s.logger.WarnContext(ctx, "team stalled with incomplete roster", "league_id", leagueID, "team_id", teamID, "round", round)
	}

	event := RoundResolvedEvent{
		LeagueID:       res.LeagueID,
		RoundNumber:    res.RoundNumber,
		NextRound:      res.NextRound,
		Finished:       res.Finished,
		Allocation:     res.Allocation,
		StalledTeamIDs: res.StalledTeamIDs,
		Digest:         res.Digest,
		ResolvedAt:     res.ResolvedAt,
	}
	if err := s.events.PublishRoundResolved(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "publish round resolved event failed", "league_id", leagueID, "round", round, "error", err)
	}

	return res, nil
}

func lastResolvedAt(subs []auction.Submission) time.Time {
	var last time.Time
	for _, sub := range subs {
		for _, b := range sub.Bids {
			if b.ResolvedAt != nil && b.ResolvedAt.After(last) {
				last = *b.ResolvedAt
			}
		}
	}
	return last
}

func markBids(ctx context.Context, tx auction.Tx, ids []string, status auction.BidStatus, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	moved, err := tx.MarkBids(ctx, ids, status, at)
	if err != nil {
		return fmt.Errorf("mark bids %s: %w", status, err)
	}
	if moved != int64(len(ids)) {
		return fmt.Errorf("%w: marked %d of %d bids %s", auction.ErrInconsistentState, moved, len(ids), status)
	}
	return nil
}

// CheckReadiness reports whether every team in the league has acted in the active
// round. Complete and stalled teams count as done.
func (s *AuctionService) CheckReadiness(ctx context.Context, leagueID string) (Readiness, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.CheckReadiness")
	defer span.End()

	out := Readiness{LeagueID: leagueID}

	item, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return Readiness{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return Readiness{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}
	if item.AuctionState.IsFinished() {
		return out, nil
	}

	rnd, exists, err := s.auctionRepo.GetActiveRound(ctx, leagueID)
	if err != nil {
		return Readiness{}, fmt.Errorf("get active round: %w", err)
	}
	if !exists {
		return out, nil
	}
	out.RoundNumber = rnd.Number

	teams, err := s.teamRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return Readiness{}, fmt.Errorf("list teams by league: %w", err)
	}
	if len(teams) == 0 {
		return out, nil
	}
	records, err := s.rosterRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return Readiness{}, fmt.Errorf("list league ownerships: %w", err)
	}
	subs, err := s.auctionRepo.ListCurrentSubmissions(ctx, leagueID, rnd.Number)
	if err != nil {
		return Readiness{}, fmt.Errorf("list current submissions: %w", err)
	}

	submitted := make(map[string]struct{}, len(subs))
	for _, sub := range subs {
		submitted[sub.TeamID] = struct{}{}
	}

	rules := item.Rules()
	for _, t := range teams {
		if _, ok := submitted[t.ID]; ok {
			continue
		}
		if roster.Summarize(t.ID, records, rules).NeedsBids() {
			out.Waiting = append(out.Waiting, t.ID)
		}
	}
	sort.Strings(out.Waiting)
	out.Ready = len(out.Waiting) == 0
	return out, nil
}

// HandleSubmission runs the configured readiness policy after a team acted in round.
// It returns the resolution when it ran inline.
func (s *AuctionService) HandleSubmission(ctx context.Context, leagueID string, round int) (*auction.Resolution, error) {
	if s.cfg.Mode == ResolveModeOff {
		return nil, nil
	}

	readiness, err := s.CheckReadiness(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if !readiness.Ready || readiness.RoundNumber != round {
		return nil, nil
	}

	switch s.cfg.Mode {
	case ResolveModeQueue:
		job := ResolveRoundJob{LeagueID: leagueID, RoundNumber: round}
		if err := s.queue.Enqueue(ctx, s.cfg.ResolveJobPath, job, 0, resolveDedupID(leagueID, round)); err != nil {
			return nil, fmt.Errorf("enqueue resolve round: %w", err)
		}
		s.logger.InfoContext(ctx, "resolve round queued", "league_id", leagueID, "round", round)
		return nil, nil
	default:
		res, err := s.ResolveRound(ctx, leagueID, round)
		if err != nil {
			return nil, err
		}
		return &res, nil
	}
}

// Sweep resolves every open league whose active round is ready.
func (s *AuctionService) Sweep(ctx context.Context) (SweepResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.Sweep")
	defer span.End()

	leagues, err := s.leagueRepo.ListOpenAuctions(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("list open auctions: %w", err)
	}

	result := SweepResult{LeagueCount: len(leagues)}
	if len(leagues) == 0 {
		return result, nil
	}

	workerPool, err := ants.NewPool(s.cfg.SweepWorkers)
	if err != nil {
		return SweepResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	items := make(chan SweepItem, len(leagues))
	var workers sync.WaitGroup
	for _, lg := range leagues {
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()
			items <- s.sweepLeague(ctx, lg.ID)
		}); err != nil {
			workers.Done()
			return SweepResult{}, fmt.Errorf("submit sweep task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(items)

	for item := range items {
		switch item.Status {
		case SweepStatusResolved:
			result.ResolvedCount++
		case SweepStatusFailed:
			result.FailedCount++
		}
		result.Items = append(result.Items, item)
	}
	sort.Slice(result.Items, func(i, j int) bool { return result.Items[i].LeagueID < result.Items[j].LeagueID })

	return result, nil
}

func (s *AuctionService) sweepLeague(ctx context.Context, leagueID string) SweepItem {
	item := SweepItem{LeagueID: leagueID, Status: SweepStatusWaiting}

	readiness, err := s.CheckReadiness(ctx, leagueID)
	if err != nil {
		item.Status = SweepStatusFailed
		item.Message = err.Error()
		s.logger.WarnContext(ctx, "sweep readiness failed", "league_id", leagueID, "error", err)
		return item
	}
	item.RoundNumber = readiness.RoundNumber
	if !readiness.Ready {
		item.Message = fmt.Sprintf("waiting on %d team(s)", len(readiness.Waiting))
		return item
	}

	res, err := s.ResolveRound(ctx, leagueID, readiness.RoundNumber)
	if err != nil {
		item.Status = SweepStatusFailed
		item.Message = err.Error()
		s.logger.WarnContext(ctx, "sweep resolve failed", "league_id", leagueID, "round", readiness.RoundNumber, "error", err)
		return item
	}
	item.Status = SweepStatusResolved
	item.Finished = res.Finished
	return item
}

// ListResults returns every resolved bid of the league, grouped by cyclist with
// the most expensive acquisitions first and the winner leading each group.
func (s *AuctionService) ListResults(ctx context.Context, leagueID string) ([]ResultRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuctionService.ListResults")
	defer span.End()

	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if _, exists, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		return nil, fmt.Errorf("get league: %w", err)
	} else if !exists {
		return nil, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	bids, err := s.auctionRepo.ListResolvedBids(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list resolved bids: %w", err)
	}
	teams, err := s.teamRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list teams by league: %w", err)
	}

	cyclistIDs := make([]string, 0, len(bids))
	winning := make(map[string]decimal.Decimal)
	for _, b := range bids {
		cyclistIDs = append(cyclistIDs, b.CyclistID)
		if b.Status == auction.BidStatusWon {
			winning[b.CyclistID] = b.Price
		}
	}
	cyclists, err := s.cyclistRepo.ListByIDs(ctx, cyclistIDs)
	if err != nil {
		return nil, fmt.Errorf("list bid cyclists: %w", err)
	}

	cyclistByID := make(map[string]cyclist.Cyclist, len(cyclists))
	for _, c := range cyclists {
		cyclistByID[c.ID] = c
	}
	teamByID := make(map[string]team.Team, len(teams))
	for _, t := range teams {
		teamByID[t.ID] = t
	}

	rows := make([]ResultRow, 0, len(bids))
	for _, b := range bids {
		c := cyclistByID[b.CyclistID]
		rows = append(rows, ResultRow{
			RoundNumber:  b.RoundNumber,
			TeamID:       b.TeamID,
			TeamName:     teamByID[b.TeamID].Name,
			CyclistID:    b.CyclistID,
			CyclistName:  c.Name,
			CyclistTeam:  c.Team,
			Price:        b.Price,
			WinningPrice: winning[b.CyclistID],
			Status:       b.Status,
			SubmittedAt:  b.SubmittedAt,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if c := a.WinningPrice.Cmp(b.WinningPrice); c != 0 {
			return c > 0
		}
		if a.CyclistName != b.CyclistName {
			return a.CyclistName < b.CyclistName
		}
		if a.CyclistID != b.CyclistID {
			return a.CyclistID < b.CyclistID
		}
		if c := a.Price.Cmp(b.Price); c != 0 {
			return c > 0
		}
		if a.Status != b.Status {
			return a.Status == auction.BidStatusWon
		}
		return a.SubmittedAt.Before(b.SubmittedAt)
	})

	return rows, nil
}
