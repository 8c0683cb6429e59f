package httpapi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/cycling-auction/internal/domain/auction"
	"github.com/riskibarqy/cycling-auction/internal/domain/cyclist"
	"github.com/riskibarqy/cycling-auction/internal/domain/league"
	"github.com/riskibarqy/cycling-auction/internal/domain/team"
	"github.com/riskibarqy/cycling-auction/internal/usecase"
)

type createLeagueRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	TeamName string `json:"team_name" validate:"required,max=100"`
}

type joinLeagueRequest struct {
	InviteCode string `json:"invite_code" validate:"required,max=32"`
	TeamName   string `json:"team_name" validate:"required,max=100"`
}

type bidRequest struct {
	CyclistID string          `json:"cyclist_id" validate:"required"`
	Price     decimal.Decimal `json:"price"`
}

type submitBidsRequest struct {
	RoundNumber int          `json:"round_number" validate:"required,gt=0"`
	Bids        []bidRequest `json:"bids" validate:"required,min=1,dive"`
}

type skipRoundRequest struct {
	RoundNumber int `json:"round_number" validate:"required,gt=0"`
}

type cyclistDTO struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Team     string          `json:"team"`
	MinPrice decimal.Decimal `json:"min_price"`
}

func cyclistToDTO(c cyclist.Cyclist) cyclistDTO {
	return cyclistDTO{ID: c.ID, Name: c.Name, Team: c.Team, MinPrice: c.MinPrice}
}

type leagueDTO struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	InviteCode    string          `json:"invite_code,omitempty"`
	CreatorUserID string          `json:"creator_user_id"`
	IsActive      bool            `json:"is_active"`
	Budget        decimal.Decimal `json:"budget"`
	RosterSize    int             `json:"roster_size"`
	AuctionState  string          `json:"auction_state"`
	CreatedAt     time.Time       `json:"created_at"`
}

// leagueToDTO hides the invite code from everyone but the creator.
func leagueToDTO(l league.League, actorUserID string) leagueDTO {
	dto := leagueDTO{
		ID:            l.ID,
		Name:          l.Name,
		CreatorUserID: l.CreatorUserID,
		IsActive:      l.IsActive,
		Budget:        l.Budget,
		RosterSize:    l.RosterSize,
		AuctionState:  string(l.AuctionState),
		CreatedAt:     l.CreatedAt,
	}
	if actorUserID != "" && actorUserID == l.CreatorUserID {
		dto.InviteCode = l.InviteCode
	}
	return dto
}

type teamDTO struct {
	ID        string    `json:"id"`
	LeagueID  string    `json:"league_id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func teamToDTO(t team.Team) teamDTO {
	return teamDTO{ID: t.ID, LeagueID: t.LeagueID, UserID: t.UserID, Name: t.Name, CreatedAt: t.CreatedAt}
}

type createLeagueResponse struct {
	League leagueDTO `json:"league"`
	Team   teamDTO   `json:"team"`
}

type teamStatusDTO struct {
	TeamID    string          `json:"team_id"`
	TeamName  string          `json:"team_name"`
	UserID    string          `json:"user_id"`
	Submitted bool            `json:"submitted"`
	Skipped   bool            `json:"skipped"`
	Complete  bool            `json:"complete"`
	Stalled   bool            `json:"stalled"`
	Count     int             `json:"cyclist_count"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
}

type leagueStatusDTO struct {
	LeagueID     string          `json:"league_id"`
	AuctionState string          `json:"auction_state"`
	IsActive     bool            `json:"is_active"`
	CurrentRound int             `json:"current_round"`
	RoundActive  bool            `json:"round_active"`
	Teams        []teamStatusDTO `json:"teams"`
}

func leagueStatusToDTO(s usecase.LeagueStatus) leagueStatusDTO {
	teams := make([]teamStatusDTO, 0, len(s.Teams))
	for _, t := range s.Teams {
		teams = append(teams, teamStatusDTO{
			TeamID:    t.TeamID,
			TeamName:  t.TeamName,
			UserID:    t.UserID,
			Submitted: t.Submitted,
			Skipped:   t.Skipped,
			Complete:  t.Complete,
			Stalled:   t.Stalled,
			Count:     t.Count,
			Spent:     t.Spent,
			Remaining: t.Remaining,
		})
	}
	return leagueStatusDTO{
		LeagueID:     s.League.ID,
		AuctionState: string(s.League.AuctionState),
		IsActive:     s.League.IsActive,
		CurrentRound: s.CurrentRound,
		RoundActive:  s.RoundActive,
		Teams:        teams,
	}
}

type rosterEntryDTO struct {
	CyclistID   string          `json:"cyclist_id"`
	CyclistName string          `json:"cyclist_name"`
	CyclistTeam string          `json:"cyclist_team"`
	Price       decimal.Decimal `json:"price"`
	RoundNumber int             `json:"round_number"`
	AcquiredAt  time.Time       `json:"acquired_at"`
}

type teamRosterDTO struct {
	TeamID    string           `json:"team_id"`
	TeamName  string           `json:"team_name"`
	Complete  bool             `json:"complete"`
	Stalled   bool             `json:"stalled"`
	Spent     decimal.Decimal  `json:"spent"`
	Remaining decimal.Decimal  `json:"remaining"`
	Cyclists  []rosterEntryDTO `json:"cyclists"`
}

func teamRosterToDTO(r usecase.TeamRoster) teamRosterDTO {
	entries := make([]rosterEntryDTO, 0, len(r.Entries))
	for _, e := range r.Entries {
		entries = append(entries, rosterEntryDTO{
			CyclistID:   e.CyclistID,
			CyclistName: e.CyclistName,
			CyclistTeam: e.CyclistTeam,
			Price:       e.Price,
			RoundNumber: e.RoundNumber,
			AcquiredAt:  e.AcquiredAt,
		})
	}
	return teamRosterDTO{
		TeamID:    r.Team.ID,
		TeamName:  r.Team.Name,
		Complete:  r.Summary.Complete,
		Stalled:   r.Summary.Stalled,
		Spent:     r.Summary.Spent,
		Remaining: r.Summary.Remaining,
		Cyclists:  entries,
	}
}

type bidDTO struct {
	ID         string          `json:"id"`
	CyclistID  string          `json:"cyclist_id"`
	Price      decimal.Decimal `json:"price"`
	Status     string          `json:"status"`
	ResolvedAt *time.Time      `json:"resolved_at,omitempty"`
}

type submissionDTO struct {
	ID          string          `json:"id"`
	LeagueID    string          `json:"league_id"`
	TeamID      string          `json:"team_id"`
	RoundNumber int             `json:"round_number"`
	SubmittedAt time.Time       `json:"submitted_at"`
	Skip        bool            `json:"skip"`
	Total       decimal.Decimal `json:"total"`
	Bids        []bidDTO        `json:"bids"`
}

func submissionToDTO(s auction.Submission) submissionDTO {
	bids := make([]bidDTO, 0, len(s.Bids))
	for _, b := range s.Bids {
		bids = append(bids, bidDTO{
			ID:         b.ID,
			CyclistID:  b.CyclistID,
			Price:      b.Price,
			Status:     string(b.Status),
			ResolvedAt: b.ResolvedAt,
		})
	}
	return submissionDTO{
		ID:          s.ID,
		LeagueID:    s.LeagueID,
		TeamID:      s.TeamID,
		RoundNumber: s.RoundNumber,
		SubmittedAt: s.SubmittedAt,
		Skip:        s.IsSkip(),
		Total:       s.Total(),
		Bids:        bids,
	}
}

type awardDTO struct {
	CyclistID  string          `json:"cyclist_id"`
	TeamID     string          `json:"team_id"`
	Price      decimal.Decimal `json:"price"`
	Contenders int             `json:"contenders"`
}

type resolutionDTO struct {
	LeagueID        string            `json:"league_id"`
	RoundNumber     int               `json:"round_number"`
	Allocation      map[string]string `json:"allocation"`
	Awards          []awardDTO        `json:"awards"`
	AlreadyResolved bool              `json:"already_resolved"`
	Finished        bool              `json:"finished"`
	NextRound       int               `json:"next_round,omitempty"`
	StalledTeamIDs  []string          `json:"stalled_team_ids,omitempty"`
	Digest          string            `json:"digest"`
	ResolvedAt      time.Time         `json:"resolved_at"`
}

func resolutionToDTO(r auction.Resolution) resolutionDTO {
	awards := make([]awardDTO, 0, len(r.Awards))
	for _, a := range r.Awards {
		awards = append(awards, awardDTO{CyclistID: a.CyclistID, TeamID: a.TeamID, Price: a.Price, Contenders: a.Contenders})
	}
	allocation := r.Allocation
	if allocation == nil {
		allocation = map[string]string{}
	}
	return resolutionDTO{
		LeagueID:        r.LeagueID,
		RoundNumber:     r.RoundNumber,
		Allocation:      allocation,
		Awards:          awards,
		AlreadyResolved: r.AlreadyResolved,
		Finished:        r.Finished,
		NextRound:       r.NextRound,
		StalledTeamIDs:  r.StalledTeamIDs,
		Digest:          r.Digest,
		ResolvedAt:      r.ResolvedAt,
	}
}

type submissionResultDTO struct {
	Submission submissionDTO  `json:"submission"`
	Resolution *resolutionDTO `json:"resolution,omitempty"`
}

func submissionResultToDTO(r usecase.SubmissionResult) submissionResultDTO {
	out := submissionResultDTO{Submission: submissionToDTO(r.Submission)}
	if r.Resolution != nil {
		res := resolutionToDTO(*r.Resolution)
		out.Resolution = &res
	}
	return out
}

type resultRowDTO struct {
	RoundNumber  int             `json:"round_number"`
	TeamID       string          `json:"team_id"`
	TeamName     string          `json:"team_name"`
	CyclistID    string          `json:"cyclist_id"`
	CyclistName  string          `json:"cyclist_name"`
	CyclistTeam  string          `json:"cyclist_team"`
	Price        decimal.Decimal `json:"price"`
	WinningPrice decimal.Decimal `json:"winning_price"`
	Status       string          `json:"status"`
	SubmittedAt  time.Time       `json:"submitted_at"`
}

func resultRowToDTO(r usecase.ResultRow) resultRowDTO {
	return resultRowDTO{
		RoundNumber:  r.RoundNumber,
		TeamID:       r.TeamID,
		TeamName:     r.TeamName,
		CyclistID:    r.CyclistID,
		CyclistName:  r.CyclistName,
		CyclistTeam:  r.CyclistTeam,
		Price:        r.Price,
		WinningPrice: r.WinningPrice,
		Status:       string(r.Status),
		SubmittedAt:  r.SubmittedAt,
	}
}

type readinessDTO struct {
	LeagueID    string   `json:"league_id"`
	RoundNumber int      `json:"round_number"`
	Ready       bool     `json:"ready"`
	Waiting     []string `json:"waiting_team_ids"`
}

func readinessToDTO(r usecase.Readiness) readinessDTO {
	waiting := r.Waiting
	if waiting == nil {
		waiting = []string{}
	}
	return readinessDTO{LeagueID: r.LeagueID, RoundNumber: r.RoundNumber, Ready: r.Ready, Waiting: waiting}
}
