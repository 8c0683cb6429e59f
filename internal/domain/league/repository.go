package league

import "context"

// Repository describes league persistence needs from use cases.
type Repository interface {
	// Create stores the league and opens round 1 in the same write. It returns
	// ErrDuplicateInviteCode when the invite code collides.
	Create(ctx context.Context, l League) error
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	GetByInviteCode(ctx context.Context, inviteCode string) (League, bool, error)
	List(ctx context.Context) ([]League, error)
	// ListOpenAuctions returns active leagues whose auction is not finished.
	ListOpenAuctions(ctx context.Context) ([]League, error)
	SetActive(ctx context.Context, leagueID string, active bool) error
}
