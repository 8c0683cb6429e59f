package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/cycling-auction/internal/domain/cyclist"
	qb "github.com/riskibarqy/cycling-auction/internal/platform/querybuilder"
)

// xmax is zero only for rows the statement inserted.
const cyclistUpsertSuffix = `ON CONFLICT (name) DO UPDATE SET
	team_name = EXCLUDED.team_name,
	min_price = EXCLUDED.min_price,
	updated_at = EXCLUDED.updated_at
RETURNING (xmax = 0) AS inserted`

type CyclistRepository struct {
	db *sqlx.DB
}

func NewCyclistRepository(db *sqlx.DB) *CyclistRepository {
	return &CyclistRepository{db: db}
}

func (r *CyclistRepository) List(ctx context.Context) ([]cyclist.Cyclist, error) {
	query, args, err := qb.Select("*").From("cyclists").
		OrderBy("name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select cyclists query: %w", err)
	}
	return r.selectCyclists(ctx, query, args)
}

func (r *CyclistRepository) GetByID(ctx context.Context, cyclistID string) (cyclist.Cyclist, bool, error) {
	query, args, err := qb.Select("*").From("cyclists").
		Where(qb.Eq("public_id", cyclistID)).
		ToSQL()
	if err != nil {
		return cyclist.Cyclist{}, false, fmt.Errorf("build get cyclist query: %w", err)
	}

	var row cyclistTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return cyclist.Cyclist{}, false, nil
		}
		return cyclist.Cyclist{}, false, fmt.Errorf("get cyclist: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *CyclistRepository) ListByIDs(ctx context.Context, cyclistIDs []string) ([]cyclist.Cyclist, error) {
	if len(cyclistIDs) == 0 {
		return nil, nil
	}

	query, args, err := qb.Select("*").From("cyclists").
		Where(qb.In("public_id", cyclistIDs)).
		OrderBy("name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select cyclists by ids query: %w", err)
	}
	return r.selectCyclists(ctx, query, args)
}

func (r *CyclistRepository) UpsertByName(ctx context.Context, items []cyclist.Cyclist) (cyclist.ImportResult, error) {
	var result cyclist.ImportResult
	if len(items) == 0 {
		return result, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("begin tx upsert cyclists: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		query, args, err := qb.InsertModel("cyclists", cyclistUpsertModel{
			PublicID:  item.ID,
			Name:      item.Name,
			TeamName:  item.Team,
			MinPrice:  item.MinPrice,
			CreatedAt: item.CreatedAt,
			UpdatedAt: item.UpdatedAt,
		}, cyclistUpsertSuffix)
		if err != nil {
			return cyclist.ImportResult{}, fmt.Errorf("build upsert cyclist query: %w", err)
		}

		var inserted bool
		if err := tx.GetContext(ctx, &inserted, query, args...); err != nil {
			return cyclist.ImportResult{}, fmt.Errorf("upsert cyclist %q: %w", item.Name, err)
		}
		if inserted {
			result.Created++
		} else {
			result.Updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return cyclist.ImportResult{}, fmt.Errorf("commit upsert cyclists tx: %w", err)
	}
	return result, nil
}

func (r *CyclistRepository) selectCyclists(ctx context.Context, query string, args []any) ([]cyclist.Cyclist, error) {
	var rows []cyclistTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select cyclists: %w", err)
	}

	out := make([]cyclist.Cyclist, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
