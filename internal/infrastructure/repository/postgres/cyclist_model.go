package postgres

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/cycling-auction/internal/domain/cyclist"
)

type cyclistTableModel struct {
	ID        int64           `db:"id"`
	PublicID  string          `db:"public_id"`
	Name      string          `db:"name"`
	TeamName  string          `db:"team_name"`
	MinPrice  decimal.Decimal `db:"min_price"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

type cyclistUpsertModel struct {
	PublicID  string          `db:"public_id"`
	Name      string          `db:"name"`
	TeamName  string          `db:"team_name"`
	MinPrice  decimal.Decimal `db:"min_price"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

func (row cyclistTableModel) toDomain() cyclist.Cyclist {
	return cyclist.Cyclist{
		ID:        row.PublicID,
		Name:      row.Name,
		Team:      row.TeamName,
		MinPrice:  row.MinPrice,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
