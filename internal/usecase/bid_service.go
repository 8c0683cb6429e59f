package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"

	"github.com/riskibarqy/cycling-auction/internal/domain/auction"
	"github.com/riskibarqy/cycling-auction/internal/domain/cyclist"
	"github.com/riskibarqy/cycling-auction/internal/domain/league"
	"github.com/riskibarqy/cycling-auction/internal/domain/roster"
	"github.com/riskibarqy/cycling-auction/internal/domain/team"
	idgen "github.com/riskibarqy/cycling-auction/internal/platform/id"
	"github.com/riskibarqy/cycling-auction/internal/platform/logging"
)

const maxPriceDecimals = 2

type BidInput struct {
	CyclistID string
	Price     decimal.Decimal
}

type SubmitBidsInput struct {
	LeagueID    string
	TeamID      string
	ActorUserID string
	RoundNumber int
	Bids        []BidInput
}

type SkipRoundInput struct {
	LeagueID    string
	TeamID      string
	ActorUserID string
	RoundNumber int
}

type CurrentSubmissionInput struct {
	LeagueID    string
	TeamID      string
	ActorUserID string
	// RoundNumber 0 selects the active round.
	RoundNumber int
}

type SubmissionResult struct {
	Submission auction.Submission
	// Resolution is set when the submission completed the round and it was resolved inline.
	Resolution *auction.Resolution
}

// submissionObserver reacts to a team acting in a round.
type submissionObserver interface {
	HandleSubmission(ctx context.Context, leagueID string, round int) (*auction.Resolution, error)
}

type BidService struct {
	auctionRepo auction.Repository
	leagueRepo  league.Repository
	teamRepo    team.Repository
	rosterRepo  roster.Repository
	cyclistRepo cyclist.Repository
	observer    submissionObserver
	idGen       idgen.Generator
	logger      *logging.Logger
	clock       clockwork.Clock
}

func NewBidService(
	auctionRepo auction.Repository,
	leagueRepo league.Repository,
	teamRepo team.Repository,
	rosterRepo roster.Repository,
	cyclistRepo cyclist.Repository,
	observer submissionObserver,
	idGen idgen.Generator,
	logger *logging.Logger,
	opts ...Option,
) *BidService {
	if logger == nil {
		logger = logging.Default()
	}
	return &BidService{
		auctionRepo: auctionRepo,
		leagueRepo:  leagueRepo,
		teamRepo:    teamRepo,
		rosterRepo:  rosterRepo,
		cyclistRepo: cyclistRepo,
		observer:    observer,
		idGen:       idGen,
		logger:      logger,
		clock:       applyOptions(opts).clock,
	}
}

// SubmitBids replaces the team's sealed bid set for the round. The set must fill
// every open roster slot and spend the remaining budget exactly.
func (s *BidService) SubmitBids(ctx context.Context, input SubmitBidsInput) (SubmissionResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BidService.SubmitBids")
	defer span.End()

	if len(input.Bids) == 0 {
		return SubmissionResult{}, fmt.Errorf("%w: at least one bid is required, skip the round instead", ErrInvalidInput)
	}

	scope, err := s.loadScope(ctx, input.LeagueID, input.TeamID, input.ActorUserID, input.RoundNumber)
	if err != nil {
		return SubmissionResult{}, err
	}
	if scope.summary.Complete {
		return SubmissionResult{}, fmt.Errorf("%w: team roster is already complete", ErrConflict)
	}
	if scope.summary.Stalled {
		return SubmissionResult{}, fmt.Errorf("%w: team cannot buy any more cyclists", ErrConflict)
	}

	if err := s.validateBids(ctx, scope, input.Bids); err != nil {
		return SubmissionResult{}, err
	}

	bids := make([]auction.Bid, 0, len(input.Bids))
	for _, b := range input.Bids {
		bidID, err := s.idGen.NewID()
		if err != nil {
			return SubmissionResult{}, fmt.Errorf("generate bid id: %w", err)
		}
		bids = append(bids, auction.Bid{
			ID:        bidID,
			CyclistID: strings.TrimSpace(b.CyclistID),
			Price:     b.Price,
			Status:    auction.BidStatusPending,
		})
	}

	return s.record(ctx, scope, bids)
}

// SkipRound records an empty submission so the team no longer blocks the round.
func (s *BidService) SkipRound(ctx context.Context, input SkipRoundInput) (SubmissionResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BidService.SkipRound")
	defer span.End()

	scope, err := s.loadScope(ctx, input.LeagueID, input.TeamID, input.ActorUserID, input.RoundNumber)
	if err != nil {
		return SubmissionResult{}, err
	}

	return s.record(ctx, scope, nil)
}

// GetCurrentSubmission returns the team's latest submission for a round. Only the
// team owner sees pending bids; the league creator may read it once resolved.
func (s *BidService) GetCurrentSubmission(ctx context.Context, input CurrentSubmissionInput) (auction.Submission, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BidService.GetCurrentSubmission")
	defer span.End()

	leagueID := strings.TrimSpace(input.LeagueID)
	teamID := strings.TrimSpace(input.TeamID)
	actorUserID := strings.TrimSpace(input.ActorUserID)
	round := input.RoundNumber
	if actorUserID == "" {
		return auction.Submission{}, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}
	if leagueID == "" || teamID == "" {
		return auction.Submission{}, fmt.Errorf("%w: league id and team id are required", ErrInvalidInput)
	}
	if round < 0 {
		return auction.Submission{}, fmt.Errorf("%w: round must be >= 0", ErrInvalidInput)
	}

	lg, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return auction.Submission{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return auction.Submission{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	t, exists, err := s.teamRepo.GetByID(ctx, leagueID, teamID)
	if err != nil {
		return auction.Submission{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return auction.Submission{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}
	owner := t.UserID == actorUserID
	if !owner && lg.CreatorUserID != actorUserID {
		return auction.Submission{}, fmt.Errorf("%w: only the team owner can read its bids", ErrForbidden)
	}

	if round == 0 {
		active, exists, err := s.auctionRepo.GetActiveRound(ctx, leagueID)
		if err != nil {
			return auction.Submission{}, fmt.Errorf("get active round: %w", err)
		}
		if !exists {
			return auction.Submission{}, fmt.Errorf("%w: league has no active round", ErrNotFound)
		}
		round = active.Number
	}

	sub, exists, err := s.auctionRepo.GetCurrentSubmission(ctx, leagueID, teamID, round)
	if err != nil {
		return auction.Submission{}, fmt.Errorf("get current submission: %w", err)
	}
	if !exists {
		return auction.Submission{}, fmt.Errorf("%w: no submission for round %d", ErrNotFound, round)
	}
	if !owner && hasPendingBids(sub) {
		return auction.Submission{}, fmt.Errorf("%w: bids stay sealed until round %d is resolved", ErrForbidden, round)
	}
	return sub, nil
}

func hasPendingBids(sub auction.Submission) bool {
	for _, b := range sub.Bids {
		if b.Status == auction.BidStatusPending {
			return true
		}
	}
	return false
}

type bidScope struct {
	league  league.League
	team    team.Team
	round   auction.Round
	records []roster.Ownership
	summary roster.Summary
}

func (s *BidService) loadScope(ctx context.Context, leagueID, teamID, actorUserID string, round int) (bidScope, error) {
	leagueID = strings.TrimSpace(leagueID)
	teamID = strings.TrimSpace(teamID)
	actorUserID = strings.TrimSpace(actorUserID)
	if actorUserID == "" {
		return bidScope{}, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}
	if leagueID == "" || teamID == "" {
		return bidScope{}, fmt.Errorf("%w: league id and team id are required", ErrInvalidInput)
	}
	if round <= 0 {
		return bidScope{}, fmt.Errorf("%w: round must be > 0", ErrInvalidInput)
	}

	lg, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return bidScope{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return bidScope{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	t, exists, err := s.teamRepo.GetByID(ctx, leagueID, teamID)
	if err != nil {
		return bidScope{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return bidScope{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}
	if t.UserID != actorUserID && lg.CreatorUserID != actorUserID {
		return bidScope{}, fmt.Errorf("%w: only the team owner or league creator can bid for this team", ErrForbidden)
	}

	if lg.AuctionState.IsFinished() {
		return bidScope{}, fmt.Errorf("%w: league auction already finished", ErrConflict)
	}
	if !lg.IsActive {
		return bidScope{}, fmt.Errorf("%w: league is not accepting bids yet", ErrConflict)
	}

	active, exists, err := s.auctionRepo.GetActiveRound(ctx, leagueID)
	if err != nil {
		return bidScope{}, fmt.Errorf("get active round: %w", err)
	}
	if !exists {
		return bidScope{}, fmt.Errorf("%w: league has no active round", ErrConflict)
	}
	if active.Number != round {
		return bidScope{}, fmt.Errorf("%w: round %d is not active, current round is %d", ErrConflict, round, active.Number)
	}

	records, err := s.rosterRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return bidScope{}, fmt.Errorf("list league ownerships: %w", err)
	}

	return bidScope{
		league:  lg,
		team:    t,
		round:   active,
		records: records,
		summary: roster.Summarize(t.ID, records, lg.Rules()),
	}, nil
}

func (s *BidService) validateBids(ctx context.Context, scope bidScope, bids []BidInput) error {
	rules := scope.league.Rules()
	if slots := scope.summary.Slots(rules); len(bids) != slots {
		return fmt.Errorf("%w: expected exactly %d bid(s) to fill the roster, got %d", ErrInvalidInput, slots, len(bids))
	}

	ids := make([]string, 0, len(bids))
	seen := make(map[string]struct{}, len(bids))
	total := decimal.Zero
	for i, b := range bids {
		id := strings.TrimSpace(b.CyclistID)
		if id == "" {
			return fmt.Errorf("%w: bid %d has no cyclist id", ErrInvalidInput, i+1)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: cyclist %s appears more than once", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
		if !b.Price.IsPositive() {
			return fmt.Errorf("%w: price for cyclist %s must be > 0", ErrInvalidInput, id)
		}
		if !b.Price.Equal(b.Price.Round(maxPriceDecimals)) {
			return fmt.Errorf("%w: price for cyclist %s has more than %d decimals", ErrInvalidInput, id, maxPriceDecimals)
		}
		total = total.Add(b.Price)
		ids = append(ids, id)
	}

	if !total.Equal(scope.summary.Remaining) {
		return fmt.Errorf("%w: bids total %s but remaining budget is %s", ErrInvalidInput, total.StringFixed(2), scope.summary.Remaining.StringFixed(2))
	}

	cyclists, err := s.cyclistRepo.ListByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("list bid cyclists: %w", err)
	}
	byID := make(map[string]cyclist.Cyclist, len(cyclists))
	for _, c := range cyclists {
		byID[c.ID] = c
	}

	owners := roster.OwnerIndex(scope.records)
	for _, b := range bids {
		id := strings.TrimSpace(b.CyclistID)
		c, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: cyclist=%s", ErrNotFound, id)
		}
		if b.Price.LessThan(c.MinPrice) {
			return fmt.Errorf("%w: bid for %s is below the minimum price %s", ErrInvalidInput, c.Name, c.MinPrice.String())
		}
		if _, owned := owners[id]; owned {
			return fmt.Errorf("%w: cyclist %s is already owned in this league", ErrInvalidInput, c.Name)
		}
	}

	return nil
}

func (s *BidService) record(ctx context.Context, scope bidScope, bids []auction.Bid) (SubmissionResult, error) {
	subID, err := s.idGen.NewID()
	if err != nil {
		return SubmissionResult{}, fmt.Errorf("generate submission id: %w", err)
	}
	for i := range bids {
		bids[i].SubmissionID = subID
	}

	sub := auction.Submission{
		ID:          subID,
		LeagueID:    scope.league.ID,
		TeamID:      scope.team.ID,
		RoundNumber: scope.round.Number,
		SubmittedAt: s.clock.Now().UTC(),
		Current:     true,
		Bids:        bids,
	}

	if err := s.auctionRepo.SaveSubmission(ctx, sub); err != nil {
		if errors.Is(err, auction.ErrRoundNotActive) {
			return SubmissionResult{}, fmt.Errorf("%w: round %d closed before the submission was stored", ErrConflict, sub.RoundNumber)
		}
		return SubmissionResult{}, fmt.Errorf("save submission: %w", err)
	}

	s.logger.InfoContext(ctx, "submission recorded",
		"league_id", sub.LeagueID,
		"team_id", sub.TeamID,
		"round", sub.RoundNumber,
		"bids", len(sub.Bids),
		"skip", sub.IsSkip(),
	)

	out := SubmissionResult{Submission: sub}
	if s.observer == nil {
		return out, nil
	}

	res, err := s.observer.HandleSubmission(ctx, sub.LeagueID, sub.RoundNumber)
	if err != nil {
		s.logger.WarnContext(ctx, "post-submission resolution failed", "league_id", sub.LeagueID, "round", sub.RoundNumber, "error", err)
		return out, nil
	}
	out.Resolution = res
	return out, nil
}
