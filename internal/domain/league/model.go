package league

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/cycling-auction/internal/domain/roster"
	"github.com/shopspring/decimal"
)

// AuctionState is the league-wide completion flag. Finished is absorbing.
type AuctionState string

const (
	AuctionStateUnknown    AuctionState = "unknown"
	AuctionStateInProgress AuctionState = "in_progress"
	AuctionStateFinished   AuctionState = "finished"
)

var (
	ErrIllegalTransition = errors.New("illegal auction state transition")
	// ErrDuplicateInviteCode is returned by Create when the invite code is taken.
	ErrDuplicateInviteCode = errors.New("invite code already in use")
)

func ParseAuctionState(v string) (AuctionState, error) {
	switch AuctionState(strings.ToLower(strings.TrimSpace(v))) {
	case AuctionStateUnknown, "":
		return AuctionStateUnknown, nil
	case AuctionStateInProgress:
		return AuctionStateInProgress, nil
	case AuctionStateFinished:
		return AuctionStateFinished, nil
	default:
		return "", fmt.Errorf("unknown auction state %q", v)
	}
}

func (s AuctionState) IsFinished() bool {
	return s == AuctionStateFinished
}

// TransitionTo returns next when the move is legal. Staying in place is always legal.
func (s AuctionState) TransitionTo(next AuctionState) (AuctionState, error) {
	if s == next {
		return next, nil
	}
	if s == AuctionStateFinished {
		return s, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s, next)
	}
	if next == AuctionStateUnknown {
		return s, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s, next)
	}
	return next, nil
}

// League groups the teams competing for the shared cyclist pool.
type League struct {
	ID            string
	Name          string
	InviteCode    string
	CreatorUserID string
	// IsActive gates bid intake; the creator flips it once every team has joined.
	IsActive     bool
	Budget       decimal.Decimal
	RosterSize   int
	AuctionState AuctionState
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("league name is required")
	}
	if l.InviteCode == "" {
		return fmt.Errorf("league invite code is required")
	}
	if l.CreatorUserID == "" {
		return fmt.Errorf("league creator is required")
	}
	if !l.Budget.IsPositive() {
		return fmt.Errorf("league budget must be > 0")
	}
	if l.RosterSize < 1 {
		return fmt.Errorf("league roster size must be >= 1")
	}

	return nil
}

func (l League) Rules() roster.Rules {
	return roster.Rules{Budget: l.Budget, RosterSize: l.RosterSize}
}

func (l League) AcceptsBids() bool {
	return l.IsActive && !l.AuctionState.IsFinished()
}
