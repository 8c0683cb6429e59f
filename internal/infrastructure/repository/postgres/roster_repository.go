package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/cycling-auction/internal/domain/roster"
	qb "github.com/riskibarqy/cycling-auction/internal/platform/querybuilder"
)

type RosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) ListByLeague(ctx context.Context, leagueID string) ([]roster.Ownership, error) {
	return listOwnerships(ctx, r.db, qb.Eq("league_public_id", leagueID))
}

func (r *RosterRepository) ListByTeam(ctx context.Context, leagueID, teamID string) ([]roster.Ownership, error) {
	return listOwnerships(ctx, r.db,
		qb.Eq("league_public_id", leagueID),
		qb.Eq("team_public_id", teamID),
	)
}

func listOwnerships(ctx context.Context, q sqlx.QueryerContext, conds ...qb.Condition) ([]roster.Ownership, error) {
	query, args, err := qb.Select("*").From("team_cyclists").
		Where(conds...).
		OrderBy("round_number", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select ownerships query: %w", err)
	}

	var rows []ownershipTableModel
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select ownerships: %w", err)
	}

	out := make([]roster.Ownership, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
