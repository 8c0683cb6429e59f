package team

import "context"

type Repository interface {
	// Create returns ErrAlreadyMember when the user already owns a team in the league.
	Create(ctx context.Context, t Team) error
	GetByID(ctx context.Context, leagueID, teamID string) (Team, bool, error)
	GetByUser(ctx context.Context, leagueID, userID string) (Team, bool, error)
	ListByLeague(ctx context.Context, leagueID string) ([]Team, error)
}
