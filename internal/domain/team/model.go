package team

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrAlreadyMember = errors.New("user already has a team in this league")

// Team is one user's bidding identity inside a league.
type Team struct {
	ID        string
	LeagueID  string
	UserID    string
	Name      string
	CreatedAt time.Time
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.LeagueID == "" {
		return fmt.Errorf("team league id is required")
	}
	if strings.TrimSpace(t.UserID) == "" {
		return fmt.Errorf("team user id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	return nil
}
