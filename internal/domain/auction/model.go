package auction

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type BidStatus string

const (
	BidStatusPending BidStatus = "pending"
	BidStatusWon     BidStatus = "won"
	BidStatusLost    BidStatus = "lost"
)

func (s BidStatus) IsTerminal() bool {
	return s == BidStatusWon || s == BidStatusLost
}

func ParseBidStatus(v string) (BidStatus, error) {
	switch BidStatus(v) {
	case BidStatusPending, BidStatusWon, BidStatusLost:
		return BidStatus(v), nil
	default:
		return "", fmt.Errorf("unknown bid status %q", v)
	}
}

var (
	// ErrRoundNotActive is returned when a write targets a round that is closed or not yet open.
	ErrRoundNotActive = errors.New("round is not active")
	// ErrInconsistentState marks a broken allocation invariant. It is never recoverable.
	ErrInconsistentState = errors.New("inconsistent auction state")
)

// Bid is one offered price for one cyclist inside a submission.
type Bid struct {
	ID           string
	SubmissionID string
	CyclistID    string
	Price        decimal.Decimal
	Status       BidStatus
	ResolvedAt   *time.Time
}

// Submission is one team's sealed bid set for one round. Only the latest
// submission per (team, round) is current; an empty bid set skips the round.
type Submission struct {
	ID          string
	LeagueID    string
	TeamID      string
	RoundNumber int
	SubmittedAt time.Time
	Current     bool
	Bids        []Bid
}

func (s Submission) IsSkip() bool {
	return len(s.Bids) == 0
}

func (s Submission) Total() decimal.Decimal {
	total := decimal.Zero
	for _, b := range s.Bids {
		total = total.Add(b.Price)
	}
	return total
}

// Round is one bidding and resolution cycle of a league.
type Round struct {
	LeagueID  string
	Number    int
	Active    bool
	StartedAt time.Time
	EndedAt   *time.Time
}

func (r Round) IsClosed() bool {
	return !r.Active && r.EndedAt != nil
}

// ResolvedBid is a bid flattened with the submission it belongs to.
type ResolvedBid struct {
	Bid
	TeamID      string
	RoundNumber int
	SubmittedAt time.Time
}

// Award assigns a cyclist to the winning bid of its contention group.
type Award struct {
	CyclistID    string
	TeamID       string
	BidID        string
	SubmissionID string
	Price        decimal.Decimal
	Contenders   int
}

// Resolution is the outcome of resolving one (league, round).
type Resolution struct {
	LeagueID        string
	RoundNumber     int
	Allocation      map[string]string
	Awards          []Award
	AlreadyResolved bool
	Finished        bool
	NextRound       int
	StalledTeamIDs  []string
	Digest          string
	ResolvedAt      time.Time
}
