package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/cycling-auction/internal/domain/auction"
)

func TestBidService_SubmitBidsValidation(t *testing.T) {
	h := newAuctionHarness(t, ResolveModeOff, smallRules())
	lg, teams := h.startLeague(t, "val", 2)
	owner := teams[0]

	tests := []struct {
		name    string
		actor   string
		round   int
		pairs   []string
		wantErr error
	}{
		{name: "no bids", actor: owner.UserID, round: 1, wantErr: ErrInvalidInput},
		{name: "too few bids", actor: owner.UserID, round: 1, pairs: []string{"c01=100"}, wantErr: ErrInvalidInput},
		{name: "too many bids", actor: owner.UserID, round: 1, pairs: []string{"c01=40", "c02=30", "c03=30"}, wantErr: ErrInvalidInput},
		{name: "under budget", actor: owner.UserID, round: 1, pairs: []string{"c01=50", "c02=49"}, wantErr: ErrInvalidInput},
		{name: "over budget", actor: owner.UserID, round: 1, pairs: []string{"c01=50", "c02=51"}, wantErr: ErrInvalidInput},
		{name: "duplicate cyclist", actor: owner.UserID, round: 1, pairs: []string{"c01=50", "c01=50"}, wantErr: ErrInvalidInput},
		{name: "below minimum", actor: owner.UserID, round: 1, pairs: []string{"c01=95", "c02=5"}, wantErr: ErrInvalidInput},
		{name: "three decimals", actor: owner.UserID, round: 1, pairs: []string{"c01=50.005", "c02=49.995"}, wantErr: ErrInvalidInput},
		{name: "non positive", actor: owner.UserID, round: 1, pairs: []string{"c01=100", "c02=0"}, wantErr: ErrInvalidInput},
		{name: "unknown cyclist", actor: owner.UserID, round: 1, pairs: []string{"c01=50", "zz=50"}, wantErr: ErrNotFound},
		{name: "wrong round", actor: owner.UserID, round: 2, pairs: []string{"c01=50", "c02=50"}, wantErr: ErrConflict},
		{name: "other user", actor: teams[1].UserID, round: 1, pairs: []string{"c01=50", "c02=50"}, wantErr: ErrForbidden},
		{name: "anonymous", actor: "", round: 1, pairs: []string{"c01=50", "c02=50"}, wantErr: ErrUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.bids.SubmitBids(context.Background(), SubmitBidsInput{
				LeagueID:    lg.ID,
				TeamID:      owner.ID,
				ActorUserID: tc.actor,
				RoundNumber: tc.round,
				Bids:        bidsOf(tc.pairs...),
			})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}

	subs, _ := h.auctions.auctionRepo.ListCurrentSubmissions(context.Background(), lg.ID, 1)
	if len(subs) != 0 {
		t.Fatalf("rejected submissions must not be stored, got %d", len(subs))
	}
}

func TestBidService_FractionalPricesAccepted(t *testing.T) {
	h := newAuctionHarness(t, ResolveModeOff, smallRules())
	lg, teams := h.startLeague(t, "frac", 1)

	res := h.submit(t, lg, teams[0], 1, "c01=50.25", "c02=49.75")
	if len(res.Submission.Bids) != 2 {
		t.Fatalf("expected 2 bids, got %d", len(res.Submission.Bids))
	}
}

func TestBidService_CreatorMayBidForAnyTeam(t *testing.T) {
	h := newAuctionHarness(t, ResolveModeOff, smallRules())
	lg, teams := h.startLeague(t, "admin", 2)

	_, err := h.bids.SubmitBids(context.Background(), SubmitBidsInput{
		LeagueID:    lg.ID,
		TeamID:      teams[1].ID,
		ActorUserID: lg.CreatorUserID,
		RoundNumber: 1,
		Bids:        bidsOf("c01=50", "c02=50"),
	})
	if err != nil {
		t.Fatalf("creator edit: %v", err)
	}
}

func TestBidService_InactiveLeagueRejectsBids(t *testing.T) {
	h := newAuctionHarness(t, ResolveModeOff, smallRules())
	ctx := context.Background()

	lg, tm, err := h.leagues.CreateLeague(ctx, CreateLeagueInput{UserID: "u-1", Name: "Draft", TeamName: "Alpha"})
	if err != nil {
		t.Fatalf("create league: %v", err)
	}

	_, err = h.bids.SubmitBids(ctx, SubmitBidsInput{
		LeagueID: lg.ID, TeamID: tm.ID, ActorUserID: "u-1", RoundNumber: 1, Bids: bidsOf("c01=50", "c02=50"),
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict for inactive league, got %v", err)
	}
}

func TestBidService_ResubmissionReplacesPrevious(t *testing.T) {
	h := newAuctionHarness(t, ResolveModeOff, smallRules())
	lg, teams := h.startLeague(t, "resub", 2)
	ctx := context.Background()

	h.submit(t, lg, teams[0], 1, "c01=90", "c02=10")
	latest := h.submit(t, lg, teams[0], 1, "c03=60", "c04=40")

	current, err := h.bids.GetCurrentSubmission(ctx, CurrentSubmissionInput{
		LeagueID: lg.ID, TeamID: teams[0].ID, ActorUserID: teams[0].UserID,
	})
	if err != nil {
		t.Fatalf("get current submission: %v", err)
	}
	if current.ID != latest.Submission.ID {
		t.Fatalf("expected latest submission to be current")
	}

	h.submit(t, lg, teams[1], 1, "c01=20", "c05=80")
	res, err := h.auctions.ResolveRound(ctx, lg.ID, 1)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Allocation["c01"] != teams[1].ID {
		t.Fatalf("stale bid on c01 must not count, got %s", res.Allocation["c01"])
	}
	if res.Allocation["c03"] != teams[0].ID {
		t.Fatalf("expected current bid on c03 to win")
	}

	rows, _ := h.auctions.ListResults(ctx, lg.ID)
	for _, row := range rows {
		if row.Status == auction.BidStatusPending {
			t.Fatalf("results must not include pending bids")
		}
	}
	if len(rows) != 4 {
		t.Fatalf("expected only current bids in results, got %d", len(rows))
	}
}

func TestBidService_OwnedCyclistRejected(t *testing.T) {
	h := newAuctionHarness(t, ResolveModeInline, smallRules())
	lg, teams := h.startLeague(t, "owned", 2)

	h.submit(t, lg, teams[0], 1, "c01=60", "c02=40")
	h.submit(t, lg, teams[1], 1, "c01=50", "c03=50")

	_, err := h.bids.SubmitBids(context.Background(), SubmitBidsInput{
		LeagueID: lg.ID, TeamID: teams[1].ID, ActorUserID: teams[1].UserID, RoundNumber: 2, Bids: bidsOf("c02=50"),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for owned cyclist, got %v", err)
	}

	_, err = h.bids.SubmitBids(context.Background(), SubmitBidsInput{
		LeagueID: lg.ID, TeamID: teams[0].ID, ActorUserID: teams[0].UserID, RoundNumber: 2, Bids: bidsOf("c04=10"),
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict for complete roster, got %v", err)
	}
}

func TestBidService_GetCurrentSubmissionKeepsBidsSealed(t *testing.T) {
	h := newAuctionHarness(t, ResolveModeOff, smallRules())
	lg, teams := h.startLeague(t, "sealed", 3)
	ctx := context.Background()
	target := teams[1]

	h.submit(t, lg, target, 1, "c01=60", "c02=40")

	read := func(actor string) error {
		_, err := h.bids.GetCurrentSubmission(ctx, CurrentSubmissionInput{
			LeagueID: lg.ID, TeamID: target.ID, ActorUserID: actor,
		})
		return err
	}

	if err := read(target.UserID); err != nil {
		t.Fatalf("owner should read own bids: %v", err)
	}
	if err := read(teams[2].UserID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("rival: expected forbidden, got %v", err)
	}
	if err := read(lg.CreatorUserID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("creator must not see pending bids, got %v", err)
	}
	if err := read(""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("anonymous: expected unauthorized, got %v", err)
	}

	h.submit(t, lg, teams[0], 1, "c03=50", "c04=50")
	h.submit(t, lg, teams[2], 1, "c05=50", "c06=50")
	if _, err := h.auctions.ResolveRound(ctx, lg.ID, 1); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	sub, err := h.bids.GetCurrentSubmission(ctx, CurrentSubmissionInput{
		LeagueID: lg.ID, TeamID: target.ID, ActorUserID: lg.CreatorUserID, RoundNumber: 1,
	})
	if err != nil {
		t.Fatalf("creator should read resolved bids: %v", err)
	}
	if hasPendingBids(sub) {
		t.Fatalf("resolved submission still has pending bids")
	}
	if err := read(teams[2].UserID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("rival stays forbidden after resolution, got %v", err)
	}
}
