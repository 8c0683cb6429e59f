package roster

import (
	"testing"

	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"
)

func ownerships(teamID string, prices ...string) []Ownership {
	out := make([]Ownership, 0, len(prices))
	for i, p := range prices {
		out = append(out, Ownership{
			LeagueID:  "lg-1",
			TeamID:    teamID,
			CyclistID: teamID + "-c" + string(rune('a'+i)),
			Price:     decimal.RequireFromString(p),
			Locked:    true,
		})
	}
	return out
}

func repeat(price string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = price
	}
	return out
}

func TestSummarize_BudgetExactness(t *testing.T) {
	rules := DefaultRules()

	// 11 * 41 + 49 = 500
	exact := ownerships("t1", append(repeat("41", 11), "49")...)
	// 11 * 41 + 48 = 499
	short := ownerships("t2", append(repeat("41", 11), "48")...)

	check.True(t, IsComplete("t1", exact, rules))
	check.False(t, IsComplete("t2", short, rules))

	s := Summarize("t2", short, rules)
	check.Equal(t, 12, s.Count)
	check.True(t, s.Remaining.Equal(decimal.NewFromInt(1)))
	check.True(t, s.Stalled)
	check.False(t, s.NeedsBids())
}

func TestSummarize_FractionalPrices(t *testing.T) {
	rules := Rules{Budget: decimal.NewFromInt(100), RosterSize: 2}
	recs := ownerships("t1", "33.33", "66.67")

	s := Summarize("t1", recs, rules)
	check.True(t, s.Complete)
	check.True(t, s.Remaining.IsZero())
	check.Equal(t, 0, s.Slots(rules))
}

func TestSummarize_StalledOnZeroBudget(t *testing.T) {
	rules := Rules{Budget: decimal.NewFromInt(100), RosterSize: 3}
	recs := ownerships("t1", "60", "40")

	s := Summarize("t1", recs, rules)
	check.False(t, s.Complete)
	check.True(t, s.Stalled)
	check.Equal(t, 1, s.Slots(rules))
}

func TestSummarize_IgnoresOtherTeams(t *testing.T) {
	rules := Rules{Budget: decimal.NewFromInt(100), RosterSize: 2}
	recs := append(ownerships("t1", "50"), ownerships("t2", "50", "50")...)

	s := Summarize("t1", recs, rules)
	check.Equal(t, 1, s.Count)
	check.True(t, s.NeedsBids())
	check.False(t, s.Stalled)

	check.True(t, IsComplete("t2", recs, rules))
}

func TestOwnerIndex(t *testing.T) {
	recs := append(ownerships("t1", "10"), ownerships("t2", "20")...)
	idx := OwnerIndex(recs)
	check.Equal(t, "t1", idx["t1-ca"])
	check.Equal(t, "t2", idx["t2-ca"])
	check.Equal(t, 2, len(idx))
}
