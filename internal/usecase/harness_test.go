package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"

	"github.com/riskibarqy/cycling-auction/internal/domain/cyclist"
	"github.com/riskibarqy/cycling-auction/internal/domain/league"
	"github.com/riskibarqy/cycling-auction/internal/domain/roster"
	"github.com/riskibarqy/cycling-auction/internal/domain/team"
	"github.com/riskibarqy/cycling-auction/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/cycling-auction/internal/platform/logging"
)

type staticIDGenerator struct {
	id string
}

func (g staticIDGenerator) NewID() (string, error) {
	return g.id, nil
}

type sequenceIDGenerator struct {
	n atomic.Int64
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	return fmt.Sprintf("id-%05d", g.n.Add(1)), nil
}

type sequenceCodeGenerator struct {
	n atomic.Int64
}

func (g *sequenceCodeGenerator) NewCode() (string, error) {
	return fmt.Sprintf("CODE%04d", g.n.Add(1)), nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []RoundResolvedEvent
}

func (p *recordingPublisher) PublishRoundResolved(_ context.Context, event RoundResolvedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type enqueuedJob struct {
	path    string
	payload any
	dedupID string
}

type recordingQueue struct {
	mu   sync.Mutex
	jobs []enqueuedJob
}

func (q *recordingQueue) Enqueue(_ context.Context, path string, payload any, _ time.Duration, dedupID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, enqueuedJob{path: path, payload: payload, dedupID: dedupID})
	return nil
}

type auctionHarness struct {
	db       *memory.Database
	clock    *clockwork.FakeClock
	leagues  *LeagueService
	bids     *BidService
	auctions *AuctionService
	cyclists *CyclistService
	events   *recordingPublisher
	queue    *recordingQueue
}

func testCyclists() []cyclist.Cyclist {
	out := make([]cyclist.Cyclist, 0, 20)
	for i := 1; i <= 20; i++ {
		out = append(out, cyclist.Cyclist{
			ID:       fmt.Sprintf("c%02d", i),
			Name:     fmt.Sprintf("Rider %02d", i),
			Team:     "Pro Team",
			MinPrice: decimal.NewFromInt(10),
		})
	}
	return out
}

func smallRules() roster.Rules {
	return roster.Rules{Budget: decimal.NewFromInt(100), RosterSize: 2}
}

func newAuctionHarness(t *testing.T, mode ResolveMode, rules roster.Rules) *auctionHarness {
	t.Helper()

	db := memory.NewDatabase(testCyclists())
	leagueRepo := memory.NewLeagueRepository(db)
	teamRepo := memory.NewTeamRepository(db)
	rosterRepo := memory.NewRosterRepository(db)
	auctionRepo := memory.NewAuctionRepository(db)
	cyclistRepo := memory.NewCyclistRepository(db)

	ids := &sequenceIDGenerator{}
	clock := clockwork.NewFakeClockAt(time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC))
	events := &recordingPublisher{}
	queue := &recordingQueue{}

	auctions := NewAuctionService(
		memory.NewUnitOfWork(db), auctionRepo, leagueRepo, teamRepo, rosterRepo, cyclistRepo,
		queue, events, AuctionConfig{Mode: mode, SweepWorkers: 2}, logging.NewNop(), WithClock(clock),
	)

	bids := NewBidService(auctionRepo, leagueRepo, teamRepo, rosterRepo, cyclistRepo, auctions, ids, logging.NewNop(), WithClock(clock))

	leagues := NewLeagueService(leagueRepo, teamRepo, rosterRepo, auctionRepo, cyclistRepo, ids, &sequenceCodeGenerator{}, rules, WithClock(clock))

	cyclists := NewCyclistService(cyclistRepo, ids, WithClock(clock))

	return &auctionHarness{
		db:       db,
		clock:    clock,
		leagues:  leagues,
		bids:     bids,
		auctions: auctions,
		cyclists: cyclists,
		events:   events,
		queue:    queue,
	}
}

// startLeague creates an active league owned by prefix-u1 with teamCount teams.
func (h *auctionHarness) startLeague(t *testing.T, prefix string, teamCount int) (league.League, []team.Team) {
	t.Helper()
	ctx := context.Background()

	lg, creatorTeam, err := h.leagues.CreateLeague(ctx, CreateLeagueInput{
		UserID:   prefix + "-u1",
		Name:     "League " + prefix,
		TeamName: prefix + " Team 1",
	})
	if err != nil {
		t.Fatalf("create league: %v", err)
	}

	teams := []team.Team{creatorTeam}
	for i := 2; i <= teamCount; i++ {
		tm, err := h.leagues.JoinLeague(ctx, JoinLeagueInput{
			UserID:     fmt.Sprintf("%s-u%d", prefix, i),
			InviteCode: strings.ToLower(lg.InviteCode),
			TeamName:   fmt.Sprintf("%s Team %d", prefix, i),
		})
		if err != nil {
			t.Fatalf("join league: %v", err)
		}
		teams = append(teams, tm)
	}

	lg, err = h.leagues.ActivateLeague(ctx, lg.ID, prefix+"-u1")
	if err != nil {
		t.Fatalf("activate league: %v", err)
	}
	return lg, teams
}

// bidsOf parses "cyclist=price" pairs.
func bidsOf(pairs ...string) []BidInput {
	out := make([]BidInput, 0, len(pairs))
	for _, p := range pairs {
		id, price, _ := strings.Cut(p, "=")
		out = append(out, BidInput{CyclistID: id, Price: decimal.RequireFromString(price)})
	}
	return out
}

func (h *auctionHarness) submit(t *testing.T, lg league.League, tm team.Team, round int, pairs ...string) SubmissionResult {
	t.Helper()
	h.clock.Advance(time.Second)

	res, err := h.bids.SubmitBids(context.Background(), SubmitBidsInput{
		LeagueID:    lg.ID,
		TeamID:      tm.ID,
		ActorUserID: tm.UserID,
		RoundNumber: round,
		Bids:        bidsOf(pairs...),
	})
	if err != nil {
		t.Fatalf("submit bids team=%s: %v", tm.Name, err)
	}
	return res
}
