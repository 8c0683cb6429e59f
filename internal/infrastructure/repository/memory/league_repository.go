package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/cycling-auction/internal/domain/auction"
	"github.com/riskibarqy/cycling-auction/internal/domain/league"
)

type LeagueRepository struct {
	db *Database
}

func NewLeagueRepository(db *Database) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) Create(_ context.Context, item league.League) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	st := r.db.state
	if _, exists := st.leagues[item.ID]; exists {
		return fmt.Errorf("create league: id %s already exists", item.ID)
	}
	for _, l := range st.leagues {
		if l.InviteCode == item.InviteCode {
			return league.ErrDuplicateInviteCode
		}
	}

	st.leagues[item.ID] = item
	st.leagueOrder = append(st.leagueOrder, item.ID)
	st.rounds[item.ID] = []auction.Round{{
		LeagueID:  item.ID,
		Number:    1,
		Active:    true,
		StartedAt: item.CreatedAt,
	}}
	return nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	l, ok := r.db.state.leagues[leagueID]
	if !ok {
		return league.League{}, false, nil
	}

	return l, true, nil
}

func (r *LeagueRepository) GetByInviteCode(_ context.Context, inviteCode string) (league.League, bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, id := range r.db.state.leagueOrder {
		if l := r.db.state.leagues[id]; l.InviteCode == inviteCode {
			return l, true, nil
		}
	}

	return league.League{}, false, nil
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]league.League, 0, len(r.db.state.leagueOrder))
	for _, id := range r.db.state.leagueOrder {
		out = append(out, r.db.state.leagues[id])
	}

	return out, nil
}

func (r *LeagueRepository) ListOpenAuctions(ctx context.Context) ([]league.League, error) {
	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]league.League, 0, len(items))
	for _, l := range items {
		if l.AcceptsBids() {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *LeagueRepository) SetActive(_ context.Context, leagueID string, active bool) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	l, ok := r.db.state.leagues[leagueID]
	if !ok {
		return fmt.Errorf("set league active: league %s not found", leagueID)
	}
	l.IsActive = active
	r.db.state.leagues[leagueID] = l
	return nil
}
