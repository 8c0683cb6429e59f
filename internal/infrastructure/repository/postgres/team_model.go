package postgres

import (
	"time"

	"github.com/riskibarqy/cycling-auction/internal/domain/team"
)

const teamLeagueUserConstraint = "league_teams_league_user_key"

type teamTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	LeagueID  string    `db:"league_public_id"`
	UserID    string    `db:"user_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

type teamInsertModel struct {
	PublicID  string    `db:"public_id"`
	LeagueID  string    `db:"league_public_id"`
	UserID    string    `db:"user_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

func (row teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:        row.PublicID,
		LeagueID:  row.LeagueID,
		UserID:    row.UserID,
		Name:      row.Name,
		CreatedAt: row.CreatedAt,
	}
}
