package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/cycling-auction/internal/domain/league"
	qb "github.com/riskibarqy/cycling-auction/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) Create(ctx context.Context, l league.League) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx create league: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	insertLeague := leagueInsertModel{
		PublicID:      l.ID,
		Name:          l.Name,
		InviteCode:    l.InviteCode,
		CreatorUserID: l.CreatorUserID,
		IsActive:      l.IsActive,
		Budget:        l.Budget,
		RosterSize:    l.RosterSize,
		AuctionState:  string(l.AuctionState),
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
	query, args, err := qb.InsertModel("leagues", insertLeague, "")
	if err != nil {
		return fmt.Errorf("build insert league query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, leagueInviteCodeConstraint) {
			return fmt.Errorf("%w: %s", league.ErrDuplicateInviteCode, l.InviteCode)
		}
		return fmt.Errorf("insert league: %w", err)
	}

	insertRound := roundTableModel{
		LeaguePublicID: l.ID,
		RoundNumber:    1,
		IsActive:       true,
		StartedAt:      l.CreatedAt,
	}
	query, args, err = qb.InsertModel("auction_rounds", insertRound, "")
	if err != nil {
		return fmt.Errorf("build insert first round query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert first round: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create league tx: %w", err)
	}
	return nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	return getLeague(ctx, r.db, qb.Eq("public_id", leagueID), false)
}

func (r *LeagueRepository) GetByInviteCode(ctx context.Context, inviteCode string) (league.League, bool, error) {
	return getLeague(ctx, r.db, qb.Eq("invite_code", inviteCode), false)
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues: %w", err)
	}
	return leaguesFromRows(rows)
}

func (r *LeagueRepository) ListOpenAuctions(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(
			qb.Eq("is_active", true),
			qb.Expr("auction_state <> ?", string(league.AuctionStateFinished)),
		).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select open auctions query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select open auctions: %w", err)
	}
	return leaguesFromRows(rows)
}

func (r *LeagueRepository) SetActive(ctx context.Context, leagueID string, active bool) error {
	query, args, err := qb.Update("leagues").
		Set("is_active", active).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", leagueID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set league active query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set league active: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected set league active: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("set league active: league %s not found", leagueID)
	}
	return nil
}

func getLeague(ctx context.Context, q sqlx.QueryerContext, cond qb.Condition, forUpdate bool) (league.League, bool, error) {
	builder := qb.Select("*").From("leagues").Where(cond)
	if forUpdate {
		builder = builder.ForUpdate()
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league query: %w", err)
	}

	var row leagueTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league: %w", err)
	}

	item, err := row.toDomain()
	if err != nil {
		return league.League{}, false, fmt.Errorf("decode league %s: %w", row.PublicID, err)
	}
	return item, true, nil
}
