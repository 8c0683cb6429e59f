package postgres

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/cycling-auction/internal/domain/auction"
	"github.com/riskibarqy/cycling-auction/internal/domain/roster"
)

type roundTableModel struct {
	LeaguePublicID string     `db:"league_public_id"`
	RoundNumber    int        `db:"round_number"`
	IsActive       bool       `db:"is_active"`
	StartedAt      time.Time  `db:"started_at"`
	EndedAt        *time.Time `db:"ended_at"`
}

func (row roundTableModel) toDomain() auction.Round {
	return auction.Round{
		LeagueID:  row.LeaguePublicID,
		Number:    row.RoundNumber,
		Active:    row.IsActive,
		StartedAt: row.StartedAt,
		EndedAt:   row.EndedAt,
	}
}

type submissionTableModel struct {
	ID             int64     `db:"id"`
	PublicID       string    `db:"public_id"`
	LeaguePublicID string    `db:"league_public_id"`
	TeamPublicID   string    `db:"team_public_id"`
	RoundNumber    int       `db:"round_number"`
	SubmittedAt    time.Time `db:"submitted_at"`
	IsCurrent      bool      `db:"is_current"`
}

type submissionInsertModel struct {
	PublicID       string    `db:"public_id"`
	LeaguePublicID string    `db:"league_public_id"`
	TeamPublicID   string    `db:"team_public_id"`
	RoundNumber    int       `db:"round_number"`
	SubmittedAt    time.Time `db:"submitted_at"`
	IsCurrent      bool      `db:"is_current"`
}

type bidTableModel struct {
	ID                 int64           `db:"id"`
	PublicID           string          `db:"public_id"`
	SubmissionPublicID string          `db:"submission_public_id"`
	CyclistPublicID    string          `db:"cyclist_public_id"`
	Price              decimal.Decimal `db:"price"`
	Status             string          `db:"status"`
	ResolvedAt         *time.Time      `db:"resolved_at"`
}

func (row bidTableModel) toDomain() (auction.Bid, error) {
	status, err := auction.ParseBidStatus(row.Status)
	if err != nil {
		return auction.Bid{}, fmt.Errorf("decode bid %s: %w", row.PublicID, err)
	}
	return auction.Bid{
		ID:           row.PublicID,
		SubmissionID: row.SubmissionPublicID,
		CyclistID:    row.CyclistPublicID,
		Price:        row.Price,
		Status:       status,
		ResolvedAt:   row.ResolvedAt,
	}, nil
}

// resolvedBidRow is a bid joined with its submission.
type resolvedBidRow struct {
	bidTableModel
	TeamPublicID string    `db:"team_public_id"`
	RoundNumber  int       `db:"round_number"`
	SubmittedAt  time.Time `db:"submitted_at"`
}

type ownershipTableModel struct {
	ID              int64           `db:"id"`
	LeaguePublicID  string          `db:"league_public_id"`
	TeamPublicID    string          `db:"team_public_id"`
	CyclistPublicID string          `db:"cyclist_public_id"`
	Price           decimal.Decimal `db:"price"`
	Locked          bool            `db:"locked"`
	RoundNumber     int             `db:"round_number"`
	AcquiredAt      time.Time       `db:"acquired_at"`
}

type ownershipInsertModel struct {
	LeaguePublicID  string          `db:"league_public_id"`
	TeamPublicID    string          `db:"team_public_id"`
	CyclistPublicID string          `db:"cyclist_public_id"`
	Price           decimal.Decimal `db:"price"`
	Locked          bool            `db:"locked"`
	RoundNumber     int             `db:"round_number"`
	AcquiredAt      time.Time       `db:"acquired_at"`
}

func (row ownershipTableModel) toDomain() roster.Ownership {
	return roster.Ownership{
		LeagueID:    row.LeaguePublicID,
		TeamID:      row.TeamPublicID,
		CyclistID:   row.CyclistPublicID,
		Price:       row.Price,
		Locked:      row.Locked,
		RoundNumber: row.RoundNumber,
		AcquiredAt:  row.AcquiredAt,
	}
}
