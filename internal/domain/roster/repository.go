package roster

import "context"

type Repository interface {
	ListByLeague(ctx context.Context, leagueID string) ([]Ownership, error)
	ListByTeam(ctx context.Context, leagueID, teamID string) ([]Ownership, error)
}
