package postgres

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/cycling-auction/internal/domain/league"
)

const leagueInviteCodeConstraint = "leagues_invite_code_key"

type leagueTableModel struct {
	ID            int64           `db:"id"`
	PublicID      string          `db:"public_id"`
	Name          string          `db:"name"`
	InviteCode    string          `db:"invite_code"`
	CreatorUserID string          `db:"creator_user_id"`
	IsActive      bool            `db:"is_active"`
	Budget        decimal.Decimal `db:"budget"`
	RosterSize    int             `db:"roster_size"`
	AuctionState  string          `db:"auction_state"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

type leagueInsertModel struct {
	PublicID      string          `db:"public_id"`
	Name          string          `db:"name"`
	InviteCode    string          `db:"invite_code"`
	CreatorUserID string          `db:"creator_user_id"`
	IsActive      bool            `db:"is_active"`
	Budget        decimal.Decimal `db:"budget"`
	RosterSize    int             `db:"roster_size"`
	AuctionState  string          `db:"auction_state"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

func (row leagueTableModel) toDomain() (league.League, error) {
	state, err := league.ParseAuctionState(row.AuctionState)
	if err != nil {
		return league.League{}, err
	}
	return league.League{
		ID:            row.PublicID,
		Name:          row.Name,
		InviteCode:    row.InviteCode,
		CreatorUserID: row.CreatorUserID,
		IsActive:      row.IsActive,
		Budget:        row.Budget,
		RosterSize:    row.RosterSize,
		AuctionState:  state,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}, nil
}

func leaguesFromRows(rows []leagueTableModel) ([]league.League, error) {
	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("decode league %s: %w", row.PublicID, err)
		}
		out = append(out, item)
	}
	return out, nil
}
