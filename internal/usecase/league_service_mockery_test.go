package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/cycling-auction/internal/domain/cyclist"
	"github.com/riskibarqy/cycling-auction/internal/domain/league"
	"github.com/riskibarqy/cycling-auction/internal/domain/roster"
	"github.com/riskibarqy/cycling-auction/internal/domain/team"
	cyclistmock "github.com/riskibarqy/cycling-auction/internal/mocks/domain/cyclist"
	leaguemock "github.com/riskibarqy/cycling-auction/internal/mocks/domain/league"
	rostermock "github.com/riskibarqy/cycling-auction/internal/mocks/domain/roster"
	teammock "github.com/riskibarqy/cycling-auction/internal/mocks/domain/team"
)

type failingCodeGenerator struct {
	codes []string
	calls int
}

func (g *failingCodeGenerator) NewCode() (string, error) {
	code := g.codes[g.calls%len(g.codes)]
	g.calls++
	return code, nil
}

func TestLeagueService_ListTeamsByLeague_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), "trace_id", "trace-456")
	leagueRepo := leaguemock.NewRepository(t)
	teamRepo := teammock.NewRepository(t)

	service := NewLeagueService(leagueRepo, teamRepo, nil, nil, nil, staticIDGenerator{id: "x"}, &sequenceCodeGenerator{}, roster.DefaultRules())
	leagueID := "lg-grand-tour"
	expectedTeams := []team.Team{
		{ID: "t-alpha", LeagueID: leagueID, UserID: "u-1", Name: "Alpha"},
		{ID: "t-beta", LeagueID: leagueID, UserID: "u-2", Name: "Beta"},
	}

	leagueRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), leagueID).
		Return(league.League{ID: leagueID}, true, nil).
		Once()
	teamRepo.
		On("ListByLeague", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), leagueID).
		Return(expectedTeams, nil).
		Once()

	got, err := service.ListTeamsByLeague(ctx, leagueID)
	if err != nil {
		t.Fatalf("list teams by league: %v", err)
	}
	if len(got) != len(expectedTeams) {
		t.Fatalf("unexpected team count: got=%d want=%d", len(got), len(expectedTeams))
	}
	if got[0].ID != expectedTeams[0].ID {
		t.Fatalf("unexpected team id: got=%s want=%s", got[0].ID, expectedTeams[0].ID)
	}
}

func TestLeagueService_ListTeamsByLeague_LeagueNotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	leagueRepo := leaguemock.NewRepository(t)
	teamRepo := teammock.NewRepository(t)

	service := NewLeagueService(leagueRepo, teamRepo, nil, nil, nil, staticIDGenerator{id: "x"}, &sequenceCodeGenerator{}, roster.DefaultRules())
	leagueID := "missing-league"

	leagueRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), leagueID).
		Return(league.League{}, false, nil).
		Once()

	_, err := service.ListTeamsByLeague(ctx, leagueID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLeagueService_CreateLeague_RetriesInviteCodeCollisionUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	leagueRepo := leaguemock.NewRepository(t)
	teamRepo := teammock.NewRepository(t)
	codes := &failingCodeGenerator{codes: []string{"TAKEN234", "FRESH234"}}

	service := NewLeagueService(leagueRepo, teamRepo, nil, nil, nil, staticIDGenerator{id: "lg-1"}, codes, roster.DefaultRules())

	leagueRepo.
		On("Create", ctx, mock.MatchedBy(func(l league.League) bool { return l.InviteCode == "TAKEN234" })).
		Return(league.ErrDuplicateInviteCode).
		Once()
	leagueRepo.
		On("Create", ctx, mock.MatchedBy(func(l league.League) bool {
			return l.InviteCode == "FRESH234" && !l.IsActive && l.RosterSize == 12 && l.Budget.Equal(decimal.NewFromInt(500))
		})).
		Return(nil).
		Once()
	teamRepo.
		On("Create", ctx, mock.MatchedBy(func(tm team.Team) bool { return tm.UserID == "u-1" && tm.Name == "Alpha" })).
		Return(nil).
		Once()

	lg, tm, err := service.CreateLeague(ctx, CreateLeagueInput{UserID: "u-1", Name: "Grand Tour", TeamName: "Alpha"})
	if err != nil {
		t.Fatalf("create league: %v", err)
	}
	if lg.InviteCode != "FRESH234" || lg.AuctionState != league.AuctionStateInProgress {
		t.Fatalf("unexpected league: %+v", lg)
	}
	if tm.LeagueID != lg.ID {
		t.Fatalf("creator team must belong to the new league")
	}
}

func TestLeagueService_JoinLeague_DuplicateMemberUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	leagueRepo := leaguemock.NewRepository(t)
	teamRepo := teammock.NewRepository(t)

	service := NewLeagueService(leagueRepo, teamRepo, nil, nil, nil, staticIDGenerator{id: "t-2"}, &sequenceCodeGenerator{}, roster.DefaultRules())

	leagueRepo.
		On("GetByInviteCode", ctx, "ABCD2345").
		Return(league.League{ID: "lg-1", AuctionState: league.AuctionStateInProgress}, true, nil).
		Once()
	teamRepo.
		On("Create", ctx, mock.AnythingOfType("team.Team")).
		Return(team.ErrAlreadyMember).
		Once()

	_, err := service.JoinLeague(ctx, JoinLeagueInput{UserID: "u-2", InviteCode: " abcd2345 ", TeamName: "Beta"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestLeagueService_ActivateLeague_OnlyCreatorUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	leagueRepo := leaguemock.NewRepository(t)
	service := NewLeagueService(leagueRepo, nil, nil, nil, nil, staticIDGenerator{id: "x"}, &sequenceCodeGenerator{}, roster.DefaultRules())

	leagueRepo.
		On("GetByID", ctx, "lg-1").
		Return(league.League{ID: "lg-1", CreatorUserID: "u-1", AuctionState: league.AuctionStateInProgress}, true, nil).
		Twice()
	leagueRepo.
		On("SetActive", ctx, "lg-1", true).
		Return(nil).
		Once()

	if _, err := service.ActivateLeague(ctx, "lg-1", "u-2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	got, err := service.ActivateLeague(ctx, "lg-1", "u-1")
	if err != nil {
		t.Fatalf("activate league: %v", err)
	}
	if !got.IsActive {
		t.Fatalf("expected league to be active")
	}
}

func TestLeagueService_GetRosters_UsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	leagueRepo := leaguemock.NewRepository(t)
	teamRepo := teammock.NewRepository(t)
	rosterRepo := rostermock.NewRepository(t)
	cyclistRepo := cyclistmock.NewRepository(t)

	service := NewLeagueService(leagueRepo, teamRepo, rosterRepo, nil, cyclistRepo, staticIDGenerator{id: "x"}, &sequenceCodeGenerator{}, roster.DefaultRules())
	rules := roster.Rules{Budget: decimal.NewFromInt(100), RosterSize: 2}

	leagueRepo.
		On("GetByID", ctx, "lg-1").
		Return(league.League{ID: "lg-1", Budget: rules.Budget, RosterSize: rules.RosterSize}, true, nil).
		Once()
	teamRepo.
		On("ListByLeague", ctx, "lg-1").
		Return([]team.Team{{ID: "t-1", LeagueID: "lg-1", Name: "Alpha"}, {ID: "t-2", LeagueID: "lg-1", Name: "Beta"}}, nil).
		Once()
	rosterRepo.
		On("ListByLeague", ctx, "lg-1").
		Return([]roster.Ownership{
			{LeagueID: "lg-1", TeamID: "t-1", CyclistID: "c-2", Price: decimal.NewFromInt(30)},
			{LeagueID: "lg-1", TeamID: "t-1", CyclistID: "c-1", Price: decimal.NewFromInt(70)},
		}, nil).
		Once()
	cyclistRepo.
		On("ListByIDs", ctx, []string{"c-2", "c-1"}).
		Return([]cyclist.Cyclist{{ID: "c-1", Name: "Rider One"}, {ID: "c-2", Name: "Rider Two"}}, nil).
		Once()

	got, err := service.GetRosters(ctx, "lg-1")
	if err != nil {
		t.Fatalf("get rosters: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rosters, got %d", len(got))
	}
	if !got[0].Summary.Complete || got[0].Entries[0].CyclistName != "Rider One" {
		t.Fatalf("unexpected first roster: %+v", got[0])
	}
	if got[1].Summary.Count != 0 || !got[1].Summary.Remaining.Equal(rules.Budget) {
		t.Fatalf("unexpected empty roster: %+v", got[1].Summary)
	}
}
