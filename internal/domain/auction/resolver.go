package auction

import (
	"fmt"
	"sort"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/cycling-auction/internal/domain/roster"
)

// Plan is the pure outcome of a round before it is applied to storage.
type Plan struct {
	LeagueID    string
	RoundNumber int
	Awards      []Award
	WonBidIDs   []string
	LostBidIDs  []string
	// Blocked lists cyclists that received bids but were already owned.
	Blocked []string
}

func (p Plan) Allocation() map[string]string {
	out := make(map[string]string, len(p.Awards))
	for _, a := range p.Awards {
		out[a.CyclistID] = a.TeamID
	}
	return out
}

type contender struct {
	bid          Bid
	teamID       string
	submissionID string
	submittedAt  time.Time
}

// outranks orders contenders by price desc, submitted_at asc, submission id asc, bid id asc.
func outranks(a, b contender) bool {
	if c := a.bid.Price.Cmp(b.bid.Price); c != 0 {
		return c > 0
	}
	if !a.submittedAt.Equal(b.submittedAt) {
		return a.submittedAt.Before(b.submittedAt)
	}
	if a.submissionID != b.submissionID {
		return a.submissionID < b.submissionID
	}
	return a.bid.ID < b.bid.ID
}

// Resolve computes winners for one round. Only pending bids of current submissions
// for (leagueID, round) take part. owners maps already-owned cyclist ids to team ids.
func Resolve(leagueID string, round int, submissions []Submission, owners map[string]string) Plan {
	plan := Plan{LeagueID: leagueID, RoundNumber: round}

	groups := make(map[string][]contender)
	for _, sub := range submissions {
		if !sub.Current || sub.LeagueID != leagueID || sub.RoundNumber != round {
			continue
		}
		for _, bid := range sub.Bids {
			if bid.Status != BidStatusPending {
				continue
			}
			groups[bid.CyclistID] = append(groups[bid.CyclistID], contender{
				bid:          bid,
				teamID:       sub.TeamID,
				submissionID: sub.ID,
				submittedAt:  sub.SubmittedAt,
			})
		}
	}

	cyclistIDs := make([]string, 0, len(groups))
	for id := range groups {
		cyclistIDs = append(cyclistIDs, id)
	}
	sort.Strings(cyclistIDs)

	for _, cyclistID := range cyclistIDs {
		group := groups[cyclistID]
		if _, owned := owners[cyclistID]; owned {
			plan.Blocked = append(plan.Blocked, cyclistID)
			for _, c := range group {
				plan.LostBidIDs = append(plan.LostBidIDs, c.bid.ID)
			}
			continue
		}

		sort.SliceStable(group, func(i, j int) bool { return outranks(group[i], group[j]) })
		winner := group[0]
		plan.Awards = append(plan.Awards, Award{
			CyclistID:    cyclistID,
			TeamID:       winner.teamID,
			BidID:        winner.bid.ID,
			SubmissionID: winner.submissionID,
			Price:        winner.bid.Price,
			Contenders:   len(group),
		})
		plan.WonBidIDs = append(plan.WonBidIDs, winner.bid.ID)
		for _, c := range group[1:] {
			plan.LostBidIDs = append(plan.LostBidIDs, c.bid.ID)
		}
	}

	sort.Strings(plan.WonBidIDs)
	sort.Strings(plan.LostBidIDs)
	return plan
}

func inconsistent(format string, args ...any) error {
	return fmt.Errorf("%w: %w", ErrInconsistentState, crerr.AssertionFailedf(format, args...))
}

// Evaluation is the completeness verdict over every team of a league.
type Evaluation struct {
	AllComplete    bool
	Summaries      []roster.Summary
	StalledTeamIDs []string
}

// Evaluate summarizes each team. A league with no teams is never complete.
func Evaluate(teamIDs []string, records []roster.Ownership, rules roster.Rules) Evaluation {
	ids := append([]string(nil), teamIDs...)
	sort.Strings(ids)

	eval := Evaluation{AllComplete: len(ids) > 0}
	for _, teamID := range ids {
		summary := roster.Summarize(teamID, records, rules)
		eval.Summaries = append(eval.Summaries, summary)
		if !summary.Complete {
			eval.AllComplete = false
		}
		if summary.Stalled {
			eval.StalledTeamIDs = append(eval.StalledTeamIDs, teamID)
		}
	}
	return eval
}

// AllocationFromSubmissions rebuilds the allocation of an already resolved round
// and checks every won bid against the ownership records.
func AllocationFromSubmissions(submissions []Submission, records []roster.Ownership) (map[string]string, []Award, error) {
	owned := make(map[string]roster.Ownership, len(records))
	for _, rec := range records {
		if prev, dup := owned[rec.CyclistID]; dup {
			return nil, nil, inconsistent("cyclist %s owned by both %s and %s", rec.CyclistID, prev.TeamID, rec.TeamID)
		}
		owned[rec.CyclistID] = rec
	}

	allocation := make(map[string]string)
	var awards []Award
	for _, sub := range submissions {
		if !sub.Current {
			continue
		}
		for _, bid := range sub.Bids {
			if bid.Status != BidStatusWon {
				continue
			}
			rec, ok := owned[bid.CyclistID]
			if !ok || rec.TeamID != sub.TeamID || !rec.Price.Equal(bid.Price) {
				return nil, nil, inconsistent("won bid %s for cyclist %s has no matching ownership", bid.ID, bid.CyclistID)
			}
			if prev, dup := allocation[bid.CyclistID]; dup {
				return nil, nil, inconsistent("cyclist %s won twice (%s, %s)", bid.CyclistID, prev, sub.TeamID)
			}
			allocation[bid.CyclistID] = sub.TeamID
			awards = append(awards, Award{
				CyclistID:    bid.CyclistID,
				TeamID:       sub.TeamID,
				BidID:        bid.ID,
				SubmissionID: sub.ID,
				Price:        bid.Price,
			})
		}
	}
	sort.Slice(awards, func(i, j int) bool { return awards[i].CyclistID < awards[j].CyclistID })
	return allocation, awards, nil
}
