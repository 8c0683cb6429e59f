package roster

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ownership is the final assignment of one cyclist to one team inside a league.
// At most one exists per (league, cyclist) and it is never updated.
type Ownership struct {
	LeagueID    string
	TeamID      string
	CyclistID   string
	Price       decimal.Decimal
	Locked      bool
	RoundNumber int
	AcquiredAt  time.Time
}

// Rules are the per-league roster constraints.
type Rules struct {
	Budget     decimal.Decimal
	RosterSize int
}

const (
	DefaultBudget     = 500
	DefaultRosterSize = 12
)

func DefaultRules() Rules {
	return Rules{
		Budget:     decimal.NewFromInt(DefaultBudget),
		RosterSize: DefaultRosterSize,
	}
}

// Summary is a team's standing against the league rules.
type Summary struct {
	TeamID    string
	Count     int
	Spent     decimal.Decimal
	Remaining decimal.Decimal
	Complete  bool
	// Stalled marks an incomplete team that can no longer buy: its budget is spent
	// or its roster is full.
	Stalled bool
}

// NeedsBids reports whether the team must still take part in upcoming rounds.
func (s Summary) NeedsBids() bool {
	return !s.Complete && !s.Stalled
}

// Slots is the number of cyclists the team still has to buy.
func (s Summary) Slots(rules Rules) int {
	if n := rules.RosterSize - s.Count; n > 0 {
		return n
	}
	return 0
}

func Summarize(teamID string, records []Ownership, rules Rules) Summary {
	spent := decimal.Zero
	count := 0
	for _, r := range records {
		if r.TeamID != teamID {
			continue
		}
		spent = spent.Add(r.Price)
		count++
	}

	remaining := rules.Budget.Sub(spent)
	complete := count == rules.RosterSize && spent.Equal(rules.Budget)
	return Summary{
		TeamID:    teamID,
		Count:     count,
		Spent:     spent,
		Remaining: remaining,
		Complete:  complete,
		Stalled:   !complete && (!remaining.IsPositive() || count >= rules.RosterSize),
	}
}

// IsComplete is true iff the team owns exactly RosterSize cyclists whose prices
// sum to exactly Budget.
func IsComplete(teamID string, records []Ownership, rules Rules) bool {
	return Summarize(teamID, records, rules).Complete
}

// OwnerIndex maps cyclist id to owning team id.
func OwnerIndex(records []Ownership) map[string]string {
	out := make(map[string]string, len(records))
	for _, r := range records {
		out[r.CyclistID] = r.TeamID
	}
	return out
}
