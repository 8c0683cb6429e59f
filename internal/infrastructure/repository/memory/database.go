package memory

import (
	"sort"
	"sync"

	"github.com/riskibarqy/cycling-auction/internal/domain/auction"
	"github.com/riskibarqy/cycling-auction/internal/domain/cyclist"
	"github.com/riskibarqy/cycling-auction/internal/domain/league"
	"github.com/riskibarqy/cycling-auction/internal/domain/roster"
	"github.com/riskibarqy/cycling-auction/internal/domain/team"
)

// Database is the shared in-process state behind every memory repository.
// Reads take the read lock; a unit of work holds the write lock and swaps in a
// staged copy on commit.
type Database struct {
	mu    sync.RWMutex
	state *state
}

type state struct {
	leagues      map[string]league.League
	leagueOrder  []string
	teams        map[string]team.Team
	teamOrder    []string
	cyclists     map[string]cyclist.Cyclist
	cyclistOrder []string
	ownerships   []roster.Ownership
	rounds       map[string][]auction.Round
	submissions  []auction.Submission
}

func NewDatabase(cyclists []cyclist.Cyclist) *Database {
	st := &state{
		leagues:  make(map[string]league.League),
		teams:    make(map[string]team.Team),
		cyclists: make(map[string]cyclist.Cyclist, len(cyclists)),
		rounds:   make(map[string][]auction.Round),
	}
	for _, c := range cyclists {
		if _, exists := st.cyclists[c.ID]; !exists {
			st.cyclistOrder = append(st.cyclistOrder, c.ID)
		}
		st.cyclists[c.ID] = c
	}
	return &Database{state: st}
}

func (s *state) clone() *state {
	out := &state{
		leagues:      make(map[string]league.League, len(s.leagues)),
		leagueOrder:  append([]string(nil), s.leagueOrder...),
		teams:        make(map[string]team.Team, len(s.teams)),
		teamOrder:    append([]string(nil), s.teamOrder...),
		cyclists:     s.cyclists,
		cyclistOrder: s.cyclistOrder,
		ownerships:   append([]roster.Ownership(nil), s.ownerships...),
		rounds:       make(map[string][]auction.Round, len(s.rounds)),
		submissions:  make([]auction.Submission, len(s.submissions)),
	}
	for k, v := range s.leagues {
		out.leagues[k] = v
	}
	for k, v := range s.teams {
		out.teams[k] = v
	}
	for k, v := range s.rounds {
		out.rounds[k] = append([]auction.Round(nil), v...)
	}
	for i, sub := range s.submissions {
		sub.Bids = append([]auction.Bid(nil), sub.Bids...)
		out.submissions[i] = sub
	}
	return out
}

func (s *state) teamsOf(leagueID string) []team.Team {
	out := make([]team.Team, 0)
	for _, id := range s.teamOrder {
		if t := s.teams[id]; t.LeagueID == leagueID {
			out = append(out, t)
		}
	}
	return out
}

func (s *state) ownershipsOf(leagueID string) []roster.Ownership {
	out := make([]roster.Ownership, 0)
	for _, o := range s.ownerships {
		if o.LeagueID == leagueID {
			out = append(out, o)
		}
	}
	return out
}

func (s *state) round(leagueID string, number int) (int, bool) {
	for i, r := range s.rounds[leagueID] {
		if r.Number == number {
			return i, true
		}
	}
	return 0, false
}

func (s *state) activeRound(leagueID string) (auction.Round, bool) {
	for _, r := range s.rounds[leagueID] {
		if r.Active {
			return r, true
		}
	}
	return auction.Round{}, false
}

func (s *state) currentSubmissions(leagueID string, round int) []auction.Submission {
	out := make([]auction.Submission, 0)
	for _, sub := range s.submissions {
		if sub.Current && sub.LeagueID == leagueID && sub.RoundNumber == round {
			out = append(out, copySubmission(sub))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.Before(out[j].SubmittedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func copySubmission(sub auction.Submission) auction.Submission {
	sub.Bids = append([]auction.Bid(nil), sub.Bids...)
	return sub
}
