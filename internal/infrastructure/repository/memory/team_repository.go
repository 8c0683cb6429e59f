package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/cycling-auction/internal/domain/team"
)

type TeamRepository struct {
	db *Database
}

func NewTeamRepository(db *Database) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Create(_ context.Context, item team.Team) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	st := r.db.state
	if _, ok := st.leagues[item.LeagueID]; !ok {
		return fmt.Errorf("create team: league %s not found", item.LeagueID)
	}
	for _, existing := range st.teamsOf(item.LeagueID) {
		if existing.UserID == item.UserID {
			return team.ErrAlreadyMember
		}
	}

	st.teams[item.ID] = item
	st.teamOrder = append(st.teamOrder, item.ID)
	return nil
}

func (r *TeamRepository) ListByLeague(_ context.Context, leagueID string) ([]team.Team, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	return r.db.state.teamsOf(leagueID), nil
}

func (r *TeamRepository) GetByID(_ context.Context, leagueID, teamID string) (team.Team, bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	item, ok := r.db.state.teams[teamID]
	if !ok || item.LeagueID != leagueID {
		return team.Team{}, false, nil
	}

	return item, true, nil
}

func (r *TeamRepository) GetByUser(_ context.Context, leagueID, userID string) (team.Team, bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, item := range r.db.state.teamsOf(leagueID) {
		if item.UserID == userID {
			return item, true, nil
		}
	}

	return team.Team{}, false, nil
}
