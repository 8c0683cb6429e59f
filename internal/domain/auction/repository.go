package auction

import (
	"context"
	"time"

	"github.com/riskibarqy/cycling-auction/internal/domain/league"
	"github.com/riskibarqy/cycling-auction/internal/domain/roster"
)

// Repository covers submission intake and read models.
type Repository interface {
	// SaveSubmission stores sub as the current submission for its (league, team, round)
	// and demotes the previous one. It returns ErrRoundNotActive when the round was
	// closed before the write landed.
	SaveSubmission(ctx context.Context, sub Submission) error
	GetCurrentSubmission(ctx context.Context, leagueID, teamID string, round int) (Submission, bool, error)
	ListCurrentSubmissions(ctx context.Context, leagueID string, round int) ([]Submission, error)
	GetActiveRound(ctx context.Context, leagueID string) (Round, bool, error)
	ListRounds(ctx context.Context, leagueID string) ([]Round, error)
	ListResolvedBids(ctx context.Context, leagueID string) ([]ResolvedBid, error)
}

// Tx is the view a resolution gets over storage. Every call runs inside one
// atomic unit; nothing is visible to other readers until the unit commits.
type Tx interface {
	// LockLeague loads the league and holds it exclusively until the unit ends.
	LockLeague(ctx context.Context, leagueID string) (league.League, bool, error)
	GetRound(ctx context.Context, leagueID string, number int) (Round, bool, error)
	ListTeamIDs(ctx context.Context, leagueID string) ([]string, error)
	ListCurrentSubmissions(ctx context.Context, leagueID string, round int) ([]Submission, error)
	ListOwnerships(ctx context.Context, leagueID string) ([]roster.Ownership, error)
	// MarkBids moves pending bids to status and returns how many moved.
	MarkBids(ctx context.Context, bidIDs []string, status BidStatus, at time.Time) (int64, error)
	// InsertOwnership is a no-op returning false when (league, cyclist) is already owned.
	InsertOwnership(ctx context.Context, o roster.Ownership) (bool, error)
	CloseRound(ctx context.Context, leagueID string, number int, at time.Time) error
	OpenRound(ctx context.Context, r Round) error
	SetAuctionState(ctx context.Context, leagueID string, state league.AuctionState) error
}

type UnitOfWork interface {
	// WithinTx commits when fn returns nil and discards every write otherwise.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
