package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/cycling-auction/internal/domain/auction"
	"github.com/riskibarqy/cycling-auction/internal/domain/cyclist"
	"github.com/riskibarqy/cycling-auction/internal/domain/league"
	"github.com/riskibarqy/cycling-auction/internal/domain/roster"
	"github.com/riskibarqy/cycling-auction/internal/domain/team"
	idgen "github.com/riskibarqy/cycling-auction/internal/platform/id"
)

const (
	inviteCodeAttempts   = 3
	defaultStatusWorkers = 8
)

type CreateLeagueInput struct {
	UserID   string
	Name     string
	TeamName string
}

type JoinLeagueInput struct {
	UserID     string
	InviteCode string
	TeamName   string
}

type TeamStatus struct {
	TeamID    string
	TeamName  string
	UserID    string
	Submitted bool
	Skipped   bool
	Complete  bool
	Stalled   bool
	Count     int
	Spent     decimal.Decimal
	Remaining decimal.Decimal
}

type LeagueStatus struct {
	League       league.League
	CurrentRound int
	RoundActive  bool
	Teams        []TeamStatus
}

type RosterEntry struct {
	roster.Ownership
	CyclistName string
	CyclistTeam string
}

type TeamRoster struct {
	Team    team.Team
	Summary roster.Summary
	Entries []RosterEntry
}

type LeagueService struct {
	leagueRepo    league.Repository
	teamRepo      team.Repository
	rosterRepo    roster.Repository
	auctionRepo   auction.Repository
	cyclistRepo   cyclist.Repository
	idGen         idgen.Generator
	codeGen       idgen.CodeGenerator
	rules         roster.Rules
	statusWorkers int
	clock         clockwork.Clock
}

func NewLeagueService(
	leagueRepo league.Repository,
	teamRepo team.Repository,
	rosterRepo roster.Repository,
	auctionRepo auction.Repository,
	cyclistRepo cyclist.Repository,
	idGen idgen.Generator,
	codeGen idgen.CodeGenerator,
	rules roster.Rules,
	opts ...Option,
) *LeagueService {
	if !rules.Budget.IsPositive() || rules.RosterSize <= 0 {
		rules = roster.DefaultRules()
	}
	return &LeagueService{
		leagueRepo:    leagueRepo,
		teamRepo:      teamRepo,
		rosterRepo:    rosterRepo,
		auctionRepo:   auctionRepo,
		cyclistRepo:   cyclistRepo,
		idGen:         idGen,
		codeGen:       codeGen,
		rules:         rules,
		statusWorkers: defaultStatusWorkers,
		clock:         applyOptions(opts).clock,
	}
}

// CreateLeague stores a new inactive league with round 1 open and joins its creator.
func (s *LeagueService) CreateLeague(ctx context.Context, input CreateLeagueInput) (league.League, team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.CreateLeague")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.Name = strings.TrimSpace(input.Name)
	input.TeamName = strings.TrimSpace(input.TeamName)
	if input.UserID == "" {
		return league.League{}, team.Team{}, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}
	if input.Name == "" {
		return league.League{}, team.Team{}, fmt.Errorf("%w: league name is required", ErrInvalidInput)
	}
	if input.TeamName == "" {
		return league.League{}, team.Team{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}

	leagueID, err := s.idGen.NewID()
	if err != nil {
		return league.League{}, team.Team{}, fmt.Errorf("generate league id: %w", err)
	}

	now := s.clock.Now().UTC()
	item := league.League{
		ID:            leagueID,
		Name:          input.Name,
		CreatorUserID: input.UserID,
		IsActive:      false,
		Budget:        s.rules.Budget,
		RosterSize:    s.rules.RosterSize,
		AuctionState:  league.AuctionStateInProgress,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	for attempt := 1; ; attempt++ {
		code, err := s.codeGen.NewCode()
		if err != nil {
			return league.League{}, team.Team{}, fmt.Errorf("generate invite code: %w", err)
		}
		item.InviteCode = code
		if err := item.Validate(); err != nil {
			return league.League{}, team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		err = s.leagueRepo.Create(ctx, item)
		if err == nil {
			break
		}
		if errors.Is(err, league.ErrDuplicateInviteCode) && attempt < inviteCodeAttempts {
			continue
		}
		return league.League{}, team.Team{}, fmt.Errorf("create league: %w", err)
	}

	creatorTeam, err := s.createTeam(ctx, item.ID, input.UserID, input.TeamName)
	if err != nil {
		return league.League{}, team.Team{}, err
	}

	return item, creatorTeam, nil
}

func (s *LeagueService) JoinLeague(ctx context.Context, input JoinLeagueInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.JoinLeague")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.InviteCode = strings.ToUpper(strings.TrimSpace(input.InviteCode))
	input.TeamName = strings.TrimSpace(input.TeamName)
	if input.UserID == "" {
		return team.Team{}, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}
	if input.InviteCode == "" {
		return team.Team{}, fmt.Errorf("%w: invite code is required", ErrInvalidInput)
	}
	if input.TeamName == "" {
		return team.Team{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}

	item, exists, err := s.leagueRepo.GetByInviteCode(ctx, input.InviteCode)
	if err != nil {
		return team.Team{}, fmt.Errorf("get league by invite code: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: invite code=%s", ErrNotFound, input.InviteCode)
	}
	if item.AuctionState.IsFinished() {
		return team.Team{}, fmt.Errorf("%w: league auction already finished", ErrConflict)
	}
	if item.IsActive {
		return team.Team{}, fmt.Errorf("%w: league auction already started", ErrConflict)
	}

	return s.createTeam(ctx, item.ID, input.UserID, input.TeamName)
}

// ActivateLeague opens bid intake. Only the league creator may do it.
func (s *LeagueService) ActivateLeague(ctx context.Context, leagueID, userID string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ActivateLeague")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return league.League{}, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}

	item, err := s.GetLeague(ctx, leagueID)
	if err != nil {
		return league.League{}, err
	}
	if item.CreatorUserID != userID {
		return league.League{}, fmt.Errorf("%w: only the league creator can activate it", ErrForbidden)
	}
	if item.AuctionState.IsFinished() {
		return league.League{}, fmt.Errorf("%w: league auction already finished", ErrConflict)
	}
	if item.IsActive {
		return item, nil
	}

	if err := s.leagueRepo.SetActive(ctx, item.ID, true); err != nil {
		return league.League{}, fmt.Errorf("activate league: %w", err)
	}
	item.IsActive = true
	return item, nil
}

func (s *LeagueService) GetLeague(ctx context.Context, leagueID string) (league.League, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	item, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	return item, nil
}

func (s *LeagueService) ListLeagues(ctx context.Context) ([]league.League, error) {
	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	return leagues, nil
}

func (s *LeagueService) ListTeamsByLeague(ctx context.Context, leagueID string) ([]team.Team, error) {
	item, err := s.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	teams, err := s.teamRepo.ListByLeague(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list teams by league: %w", err)
	}

	return teams, nil
}

// GetStatus reports per-team progress in the league's current round. Current
// submissions are looked up concurrently.
func (s *LeagueService) GetStatus(ctx context.Context, leagueID string) (LeagueStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.GetStatus")
	defer span.End()

	item, err := s.GetLeague(ctx, leagueID)
	if err != nil {
		return LeagueStatus{}, err
	}

	currentRound, roundActive, err := s.currentRound(ctx, item.ID)
	if err != nil {
		return LeagueStatus{}, err
	}
	if item.AuctionState.IsFinished() {
		roundActive = false
	}

	teams, err := s.teamRepo.ListByLeague(ctx, item.ID)
	if err != nil {
		return LeagueStatus{}, fmt.Errorf("list teams by league: %w", err)
	}
	records, err := s.rosterRepo.ListByLeague(ctx, item.ID)
	if err != nil {
		return LeagueStatus{}, fmt.Errorf("list league ownerships: %w", err)
	}

	rules := item.Rules()
	p := pool.NewWithResults[TeamStatus]().WithContext(ctx).WithMaxGoroutines(s.statusWorkers)
	for _, t := range teams {
		p.Go(func(ctx context.Context) (TeamStatus, error) {
			summary := roster.Summarize(t.ID, records, rules)
			status := TeamStatus{
				TeamID:    t.ID,
				TeamName:  t.Name,
				UserID:    t.UserID,
				Complete:  summary.Complete,
				Stalled:   summary.Stalled,
				Count:     summary.Count,
				Spent:     summary.Spent,
				Remaining: summary.Remaining,
			}
			if currentRound == 0 {
				return status, nil
			}

			sub, exists, err := s.auctionRepo.GetCurrentSubmission(ctx, item.ID, t.ID, currentRound)
			if err != nil {
				return TeamStatus{}, fmt.Errorf("get current submission team=%s: %w", t.ID, err)
			}
			status.Submitted = exists
			status.Skipped = exists && sub.IsSkip()
			return status, nil
		})
	}

	statuses, err := p.Wait()
	if err != nil {
		return LeagueStatus{}, err
	}
	sort.Slice(statuses, func(i, j int) bool {
		if statuses[i].TeamName != statuses[j].TeamName {
			return statuses[i].TeamName < statuses[j].TeamName
		}
		return statuses[i].TeamID < statuses[j].TeamID
	})

	return LeagueStatus{
		League:       item,
		CurrentRound: currentRound,
		RoundActive:  roundActive,
		Teams:        statuses,
	}, nil
}

func (s *LeagueService) GetRosters(ctx context.Context, leagueID string) ([]TeamRoster, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.GetRosters")
	defer span.End()

	item, err := s.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	teams, err := s.teamRepo.ListByLeague(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list teams by league: %w", err)
	}
	records, err := s.rosterRepo.ListByLeague(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list league ownerships: %w", err)
	}

	cyclistIDs := make([]string, 0, len(records))
	for _, r := range records {
		cyclistIDs = append(cyclistIDs, r.CyclistID)
	}
	cyclists, err := s.cyclistRepo.ListByIDs(ctx, cyclistIDs)
	if err != nil {
		return nil, fmt.Errorf("list owned cyclists: %w", err)
	}
	byID := make(map[string]cyclist.Cyclist, len(cyclists))
	for _, c := range cyclists {
		byID[c.ID] = c
	}

	rules := item.Rules()
	out := make([]TeamRoster, 0, len(teams))
	for _, t := range teams {
		entry := TeamRoster{Team: t, Summary: roster.Summarize(t.ID, records, rules)}
		for _, r := range records {
			if r.TeamID != t.ID {
				continue
			}
			c := byID[r.CyclistID]
			entry.Entries = append(entry.Entries, RosterEntry{Ownership: r, CyclistName: c.Name, CyclistTeam: c.Team})
		}
		sort.SliceStable(entry.Entries, func(i, j int) bool {
			if c := entry.Entries[i].Price.Cmp(entry.Entries[j].Price); c != 0 {
				return c > 0
			}
			return entry.Entries[i].CyclistName < entry.Entries[j].CyclistName
		})
		out = append(out, entry)
	}

	return out, nil
}

// currentRound returns the active round, falling back to the highest round number.
// A finished auction keeps its final round, frozen by the league state.
func (s *LeagueService) currentRound(ctx context.Context, leagueID string) (int, bool, error) {
	active, exists, err := s.auctionRepo.GetActiveRound(ctx, leagueID)
	if err != nil {
		return 0, false, fmt.Errorf("get active round: %w", err)
	}
	if exists {
		return active.Number, true, nil
	}

	rounds, err := s.auctionRepo.ListRounds(ctx, leagueID)
	if err != nil {
		return 0, false, fmt.Errorf("list rounds: %w", err)
	}
	last := 0
	for _, r := range rounds {
		if r.Number > last {
			last = r.Number
		}
	}
	return last, false, nil
}

func (s *LeagueService) createTeam(ctx context.Context, leagueID, userID, name string) (team.Team, error) {
	teamID, err := s.idGen.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate team id: %w", err)
	}

	item := team.Team{
		ID:        teamID,
		LeagueID:  leagueID,
		UserID:    userID,
		Name:      name,
		CreatedAt: s.clock.Now().UTC(),
	}
	if err := item.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.teamRepo.Create(ctx, item); err != nil {
		if errors.Is(err, team.ErrAlreadyMember) {
			return team.Team{}, fmt.Errorf("%w: user already has a team in this league", ErrConflict)
		}
		return team.Team{}, fmt.Errorf("create team: %w", err)
	}

	return item, nil
}
