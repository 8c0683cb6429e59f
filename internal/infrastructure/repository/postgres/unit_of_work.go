package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/cycling-auction/internal/domain/auction"
	"github.com/riskibarqy/cycling-auction/internal/domain/league"
	"github.com/riskibarqy/cycling-auction/internal/domain/roster"
	qb "github.com/riskibarqy/cycling-auction/internal/platform/querybuilder"
)

const ownershipInsertSuffix = "ON CONFLICT (league_public_id, cyclist_public_id) DO NOTHING"

type UnitOfWork struct {
	db *sqlx.DB
}

func NewUnitOfWork(db *sqlx.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

func (u *UnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx auction.Tx) error) error {
	tx, err := u.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin resolution tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(ctx, &resolutionTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit resolution tx: %w", err)
	}
	return nil
}

type resolutionTx struct {
	tx *sqlx.Tx
}

func (t *resolutionTx) LockLeague(ctx context.Context, leagueID string) (league.League, bool, error) {
	return getLeague(ctx, t.tx, qb.Eq("public_id", leagueID), true)
}

func (t *resolutionTx) GetRound(ctx context.Context, leagueID string, number int) (auction.Round, bool, error) {
	return getRound(ctx, t.tx, qb.Eq("league_public_id", leagueID), qb.Eq("round_number", number))
}

func (t *resolutionTx) ListTeamIDs(ctx context.Context, leagueID string) ([]string, error) {
	query, args, err := qb.Select("public_id").From("league_teams").
		Where(qb.Eq("league_public_id", leagueID)).
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team ids query: %w", err)
	}

	var ids []string
	if err := t.tx.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("select team ids: %w", err)
	}
	return ids, nil
}

func (t *resolutionTx) ListCurrentSubmissions(ctx context.Context, leagueID string, round int) ([]auction.Submission, error) {
	return listCurrentSubmissions(ctx, t.tx, leagueID, round)
}

func (t *resolutionTx) ListOwnerships(ctx context.Context, leagueID string) ([]roster.Ownership, error) {
	return listOwnerships(ctx, t.tx, qb.Eq("league_public_id", leagueID))
}

func (t *resolutionTx) MarkBids(ctx context.Context, bidIDs []string, status auction.BidStatus, at time.Time) (int64, error) {
	if len(bidIDs) == 0 {
		return 0, nil
	}

	query, args, err := qb.Update("auction_bids").
		Set("status", string(status)).
		Set("resolved_at", at).
		Where(
			qb.In("public_id", bidIDs),
			qb.Eq("status", string(auction.BidStatusPending)),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build mark bids query: %w", err)
	}

	result, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("mark bids %s: %w", status, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected mark bids: %w", err)
	}
	return affected, nil
}

func (t *resolutionTx) InsertOwnership(ctx context.Context, o roster.Ownership) (bool, error) {
	query, args, err := qb.InsertModel("team_cyclists", ownershipInsertModel{
		LeaguePublicID:  o.LeagueID,
		TeamPublicID:    o.TeamID,
		CyclistPublicID: o.CyclistID,
		Price:           o.Price,
		Locked:          o.Locked,
		RoundNumber:     o.RoundNumber,
		AcquiredAt:      o.AcquiredAt,
	}, ownershipInsertSuffix)
	if err != nil {
		return false, fmt.Errorf("build insert ownership query: %w", err)
	}

	result, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("insert ownership: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected insert ownership: %w", err)
	}
	return affected == 1, nil
}

func (t *resolutionTx) CloseRound(ctx context.Context, leagueID string, number int, at time.Time) error {
	query, args, err := qb.Update("auction_rounds").
		Set("is_active", false).
		Set("ended_at", at).
		Where(
			qb.Eq("league_public_id", leagueID),
			qb.Eq("round_number", number),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build close round query: %w", err)
	}

	result, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("close round: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected close round: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("close round: league=%s round=%d not found", leagueID, number)
	}
	return nil
}

// OpenRound relies on the partial unique index to reject a second active round.
func (t *resolutionTx) OpenRound(ctx context.Context, r auction.Round) error {
	query, args, err := qb.InsertModel("auction_rounds", roundTableModel{
		LeaguePublicID: r.LeagueID,
		RoundNumber:    r.Number,
		IsActive:       true,
		StartedAt:      r.StartedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build open round query: %w", err)
	}
	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("open round %d: %w", r.Number, err)
	}
	return nil
}

func (t *resolutionTx) SetAuctionState(ctx context.Context, leagueID string, state league.AuctionState) error {
	query, args, err := qb.Update("leagues").
		Set("auction_state", string(state)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", leagueID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set auction state query: %w", err)
	}
	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set auction state: %w", err)
	}
	return nil
}
