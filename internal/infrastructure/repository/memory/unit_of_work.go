package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/cycling-auction/internal/domain/auction"
	"github.com/riskibarqy/cycling-auction/internal/domain/league"
	"github.com/riskibarqy/cycling-auction/internal/domain/roster"
)

// UnitOfWork runs resolutions against a staged copy of the database. The write
// lock is held for the whole unit, so units never interleave.
type UnitOfWork struct {
	db *Database
}

func NewUnitOfWork(db *Database) *UnitOfWork {
	return &UnitOfWork{db: db}
}

func (u *UnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx auction.Tx) error) error {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()

	staged := &memoryTx{state: u.db.state.clone()}
	if err := fn(ctx, staged); err != nil {
		return err
	}
	u.db.state = staged.state
	return nil
}

type memoryTx struct {
	state *state
}

func (t *memoryTx) LockLeague(_ context.Context, leagueID string) (league.League, bool, error) {
	l, ok := t.state.leagues[leagueID]
	return l, ok, nil
}

func (t *memoryTx) GetRound(_ context.Context, leagueID string, number int) (auction.Round, bool, error) {
	idx, ok := t.state.round(leagueID, number)
	if !ok {
		return auction.Round{}, false, nil
	}
	return t.state.rounds[leagueID][idx], true, nil
}

func (t *memoryTx) ListTeamIDs(_ context.Context, leagueID string) ([]string, error) {
	teams := t.state.teamsOf(leagueID)
	out := make([]string, 0, len(teams))
	for _, item := range teams {
		out = append(out, item.ID)
	}
	return out, nil
}

func (t *memoryTx) ListCurrentSubmissions(_ context.Context, leagueID string, round int) ([]auction.Submission, error) {
	return t.state.currentSubmissions(leagueID, round), nil
}

func (t *memoryTx) ListOwnerships(_ context.Context, leagueID string) ([]roster.Ownership, error) {
	return t.state.ownershipsOf(leagueID), nil
}

func (t *memoryTx) MarkBids(_ context.Context, bidIDs []string, status auction.BidStatus, at time.Time) (int64, error) {
	wanted := make(map[string]struct{}, len(bidIDs))
	for _, id := range bidIDs {
		wanted[id] = struct{}{}
	}

	var moved int64
	for i := range t.state.submissions {
		bids := t.state.submissions[i].Bids
		for j := range bids {
			if _, ok := wanted[bids[j].ID]; !ok || bids[j].Status != auction.BidStatusPending {
				continue
			}
			resolvedAt := at
			bids[j].Status = status
			bids[j].ResolvedAt = &resolvedAt
			moved++
		}
	}
	return moved, nil
}

func (t *memoryTx) InsertOwnership(_ context.Context, o roster.Ownership) (bool, error) {
	for _, existing := range t.state.ownerships {
		if existing.LeagueID == o.LeagueID && existing.CyclistID == o.CyclistID {
			return false, nil
		}
	}
	t.state.ownerships = append(t.state.ownerships, o)
	return true, nil
}

func (t *memoryTx) CloseRound(_ context.Context, leagueID string, number int, at time.Time) error {
	idx, ok := t.state.round(leagueID, number)
	if !ok {
		return fmt.Errorf("close round: league=%s round=%d not found", leagueID, number)
	}
	endedAt := at
	rounds := t.state.rounds[leagueID]
	rounds[idx].Active = false
	rounds[idx].EndedAt = &endedAt
	return nil
}

func (t *memoryTx) OpenRound(_ context.Context, r auction.Round) error {
	if _, exists := t.state.round(r.LeagueID, r.Number); exists {
		return fmt.Errorf("open round: league=%s round=%d already exists", r.LeagueID, r.Number)
	}
	if active, ok := t.state.activeRound(r.LeagueID); ok {
		return fmt.Errorf("%w: league=%s round %d still active", auction.ErrInconsistentState, r.LeagueID, active.Number)
	}
	t.state.rounds[r.LeagueID] = append(t.state.rounds[r.LeagueID], r)
	return nil
}

func (t *memoryTx) SetAuctionState(_ context.Context, leagueID string, next league.AuctionState) error {
	l, ok := t.state.leagues[leagueID]
	if !ok {
		return fmt.Errorf("set auction state: league %s not found", leagueID)
	}
	l.AuctionState = next
	t.state.leagues[leagueID] = l
	return nil
}
