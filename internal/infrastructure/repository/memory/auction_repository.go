package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/cycling-auction/internal/domain/auction"
)

type AuctionRepository struct {
	db *Database
}

func NewAuctionRepository(db *Database) *AuctionRepository {
	return &AuctionRepository{db: db}
}

func (r *AuctionRepository) SaveSubmission(_ context.Context, sub auction.Submission) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	st := r.db.state
	active, ok := st.activeRound(sub.LeagueID)
	if !ok || active.Number != sub.RoundNumber {
		return fmt.Errorf("%w: league=%s round=%d", auction.ErrRoundNotActive, sub.LeagueID, sub.RoundNumber)
	}

	for i := range st.submissions {
		prev := &st.submissions[i]
		if prev.Current && prev.LeagueID == sub.LeagueID && prev.TeamID == sub.TeamID && prev.RoundNumber == sub.RoundNumber {
			prev.Current = false
		}
	}

	sub.Current = true
	st.submissions = append(st.submissions, copySubmission(sub))
	return nil
}

func (r *AuctionRepository) GetCurrentSubmission(_ context.Context, leagueID, teamID string, round int) (auction.Submission, bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, sub := range r.db.state.submissions {
		if sub.Current && sub.LeagueID == leagueID && sub.TeamID == teamID && sub.RoundNumber == round {
			return copySubmission(sub), true, nil
		}
	}
	return auction.Submission{}, false, nil
}

func (r *AuctionRepository) ListCurrentSubmissions(_ context.Context, leagueID string, round int) ([]auction.Submission, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	return r.db.state.currentSubmissions(leagueID, round), nil
}

func (r *AuctionRepository) GetActiveRound(_ context.Context, leagueID string) (auction.Round, bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	rnd, ok := r.db.state.activeRound(leagueID)
	return rnd, ok, nil
}

func (r *AuctionRepository) ListRounds(_ context.Context, leagueID string) ([]auction.Round, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	return append([]auction.Round(nil), r.db.state.rounds[leagueID]...), nil
}

func (r *AuctionRepository) ListResolvedBids(_ context.Context, leagueID string) ([]auction.ResolvedBid, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]auction.ResolvedBid, 0)
	for _, sub := range r.db.state.submissions {
		if !sub.Current || sub.LeagueID != leagueID {
			continue
		}
		for _, bid := range sub.Bids {
			if !bid.Status.IsTerminal() {
				continue
			}
			out = append(out, auction.ResolvedBid{
				Bid:         bid,
				TeamID:      sub.TeamID,
				RoundNumber: sub.RoundNumber,
				SubmittedAt: sub.SubmittedAt,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RoundNumber != out[j].RoundNumber {
			return out[i].RoundNumber < out[j].RoundNumber
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
