package cyclist

import "context"

// Repository describes catalog persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Cyclist, error)
	GetByID(ctx context.Context, cyclistID string) (Cyclist, bool, error)
	ListByIDs(ctx context.Context, cyclistIDs []string) ([]Cyclist, error)
	// UpsertByName inserts new riders and refreshes team/minimum price of existing ones.
	UpsertByName(ctx context.Context, items []Cyclist) (ImportResult, error)
}
