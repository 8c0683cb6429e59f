package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/cycling-auction/internal/domain/auction"
	qb "github.com/riskibarqy/cycling-auction/internal/platform/querybuilder"
)

const resolvedBidColumns = `b.id, b.public_id, b.submission_public_id, b.cyclist_public_id, b.price, b.status, b.resolved_at,
	s.team_public_id, s.round_number, s.submitted_at`

type AuctionRepository struct {
	db *sqlx.DB
}

func NewAuctionRepository(db *sqlx.DB) *AuctionRepository {
	return &AuctionRepository{db: db}
}

// SaveSubmission locks the league row so intake and resolution of the same
// league never interleave.
func (r *AuctionRepository) SaveSubmission(ctx context.Context, sub auction.Submission) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx save submission: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, exists, err := getLeague(ctx, tx, qb.Eq("public_id", sub.LeagueID), true); err != nil {
		return err
	} else if !exists {
		return fmt.Errorf("%w: league %s not found", auction.ErrRoundNotActive, sub.LeagueID)
	}

	active, exists, err := getActiveRound(ctx, tx, sub.LeagueID)
	if err != nil {
		return err
	}
	if !exists || active.Number != sub.RoundNumber {
		return fmt.Errorf("%w: league=%s round=%d", auction.ErrRoundNotActive, sub.LeagueID, sub.RoundNumber)
	}

	demoteQuery, demoteArgs, err := qb.Update("auction_submissions").
		Set("is_current", false).
		Where(
			qb.Eq("league_public_id", sub.LeagueID),
			qb.Eq("team_public_id", sub.TeamID),
			qb.Eq("round_number", sub.RoundNumber),
			qb.Eq("is_current", true),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build demote submissions query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, demoteQuery, demoteArgs...); err != nil {
		return fmt.Errorf("demote submissions: %w", err)
	}

	insertQuery, insertArgs, err := qb.InsertModel("auction_submissions", submissionInsertModel{
		PublicID:       sub.ID,
		LeaguePublicID: sub.LeagueID,
		TeamPublicID:   sub.TeamID,
		RoundNumber:    sub.RoundNumber,
		SubmittedAt:    sub.SubmittedAt,
		IsCurrent:      true,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert submission query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}

	if len(sub.Bids) > 0 {
		builder := qb.InsertInto("auction_bids").
			Columns("public_id", "submission_public_id", "cyclist_public_id", "price", "status")
		for _, b := range sub.Bids {
			builder = builder.Values(b.ID, sub.ID, b.CyclistID, b.Price, string(auction.BidStatusPending))
		}
		bidsQuery, bidsArgs, err := builder.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert bids query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, bidsQuery, bidsArgs...); err != nil {
			return fmt.Errorf("insert bids: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save submission tx: %w", err)
	}
	return nil
}

func (r *AuctionRepository) GetCurrentSubmission(ctx context.Context, leagueID, teamID string, round int) (auction.Submission, bool, error) {
	items, err := listSubmissions(ctx, r.db,
		qb.Eq("league_public_id", leagueID),
		qb.Eq("team_public_id", teamID),
		qb.Eq("round_number", round),
		qb.Eq("is_current", true),
	)
	if err != nil {
		return auction.Submission{}, false, err
	}
	if len(items) == 0 {
		return auction.Submission{}, false, nil
	}
	return items[0], true, nil
}

func (r *AuctionRepository) ListCurrentSubmissions(ctx context.Context, leagueID string, round int) ([]auction.Submission, error) {
	return listCurrentSubmissions(ctx, r.db, leagueID, round)
}

func (r *AuctionRepository) GetActiveRound(ctx context.Context, leagueID string) (auction.Round, bool, error) {
	return getActiveRound(ctx, r.db, leagueID)
}

func (r *AuctionRepository) ListRounds(ctx context.Context, leagueID string) ([]auction.Round, error) {
	query, args, err := qb.Select("*").From("auction_rounds").
		Where(qb.Eq("league_public_id", leagueID)).
		OrderBy("round_number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select rounds query: %w", err)
	}

	var rows []roundTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select rounds: %w", err)
	}

	out := make([]auction.Round, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *AuctionRepository) ListResolvedBids(ctx context.Context, leagueID string) ([]auction.ResolvedBid, error) {
	query, args, err := qb.Select(resolvedBidColumns).
		From("auction_bids b JOIN auction_submissions s ON s.public_id = b.submission_public_id").
		Where(
			qb.Eq("s.league_public_id", leagueID),
			qb.Eq("s.is_current", true),
			qb.In("b.status", []string{string(auction.BidStatusWon), string(auction.BidStatusLost)}),
		).
		OrderBy("s.round_number", "b.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select resolved bids query: %w", err)
	}

	var rows []resolvedBidRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select resolved bids: %w", err)
	}

	out := make([]auction.ResolvedBid, 0, len(rows))
	for _, row := range rows {
		bid, err := row.bidTableModel.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, auction.ResolvedBid{
			Bid:         bid,
			TeamID:      row.TeamPublicID,
			RoundNumber: row.RoundNumber,
			SubmittedAt: row.SubmittedAt,
		})
	}
	return out, nil
}

func getActiveRound(ctx context.Context, q sqlx.QueryerContext, leagueID string) (auction.Round, bool, error) {
	return getRound(ctx, q, qb.Eq("league_public_id", leagueID), qb.Eq("is_active", true))
}

func getRound(ctx context.Context, q sqlx.QueryerContext, conds ...qb.Condition) (auction.Round, bool, error) {
	query, args, err := qb.Select("*").From("auction_rounds").
		Where(conds...).
		Limit(1).
		ToSQL()
	if err != nil {
		return auction.Round{}, false, fmt.Errorf("build get round query: %w", err)
	}

	var row roundTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return auction.Round{}, false, nil
		}
		return auction.Round{}, false, fmt.Errorf("get round: %w", err)
	}
	return row.toDomain(), true, nil
}

func listCurrentSubmissions(ctx context.Context, q sqlx.QueryerContext, leagueID string, round int) ([]auction.Submission, error) {
	return listSubmissions(ctx, q,
		qb.Eq("league_public_id", leagueID),
		qb.Eq("round_number", round),
		qb.Eq("is_current", true),
	)
}

// listSubmissions loads matching submissions with their bids, ordered by
// submission time.
func listSubmissions(ctx context.Context, q sqlx.QueryerContext, conds ...qb.Condition) ([]auction.Submission, error) {
	query, args, err := qb.Select("*").From("auction_submissions").
		Where(conds...).
		OrderBy("submitted_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select submissions query: %w", err)
	}

	var rows []submissionTableModel
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select submissions: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.PublicID)
	}
	bidsQuery, bidsArgs, err := qb.Select("*").From("auction_bids").
		Where(qb.In("submission_public_id", ids)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select bids query: %w", err)
	}

	var bidRows []bidTableModel
	if err := sqlx.SelectContext(ctx, q, &bidRows, bidsQuery, bidsArgs...); err != nil {
		return nil, fmt.Errorf("select bids: %w", err)
	}

	bidsBySubmission := make(map[string][]auction.Bid, len(rows))
	for _, row := range bidRows {
		bid, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		bidsBySubmission[row.SubmissionPublicID] = append(bidsBySubmission[row.SubmissionPublicID], bid)
	}

	out := make([]auction.Submission, 0, len(rows))
	for _, row := range rows {
		out = append(out, auction.Submission{
			ID:          row.PublicID,
			LeagueID:    row.LeaguePublicID,
			TeamID:      row.TeamPublicID,
			RoundNumber: row.RoundNumber,
			SubmittedAt: row.SubmittedAt,
			Current:     row.IsCurrent,
			Bids:        bidsBySubmission[row.PublicID],
		})
	}
	return out, nil
}
