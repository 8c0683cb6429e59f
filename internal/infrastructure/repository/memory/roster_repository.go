package memory

import (
	"context"

	"github.com/riskibarqy/cycling-auction/internal/domain/roster"
)

type RosterRepository struct {
	db *Database
}

func NewRosterRepository(db *Database) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) ListByLeague(_ context.Context, leagueID string) ([]roster.Ownership, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	return r.db.state.ownershipsOf(leagueID), nil
}

func (r *RosterRepository) ListByTeam(_ context.Context, leagueID, teamID string) ([]roster.Ownership, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]roster.Ownership, 0)
	for _, o := range r.db.state.ownershipsOf(leagueID) {
		if o.TeamID == teamID {
			out = append(out, o)
		}
	}
	return out, nil
}
