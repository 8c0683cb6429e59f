package memory

import (
	"context"

	"github.com/riskibarqy/cycling-auction/internal/domain/cyclist"
)

type CyclistRepository struct {
	db *Database
}

func NewCyclistRepository(db *Database) *CyclistRepository {
	return &CyclistRepository{db: db}
}

func (r *CyclistRepository) List(_ context.Context) ([]cyclist.Cyclist, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]cyclist.Cyclist, 0, len(r.db.state.cyclistOrder))
	for _, id := range r.db.state.cyclistOrder {
		out = append(out, r.db.state.cyclists[id])
	}
	return out, nil
}

func (r *CyclistRepository) GetByID(_ context.Context, cyclistID string) (cyclist.Cyclist, bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	item, ok := r.db.state.cyclists[cyclistID]
	return item, ok, nil
}

func (r *CyclistRepository) ListByIDs(_ context.Context, cyclistIDs []string) ([]cyclist.Cyclist, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	seen := make(map[string]struct{}, len(cyclistIDs))
	out := make([]cyclist.Cyclist, 0, len(cyclistIDs))
	for _, id := range cyclistIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if item, ok := r.db.state.cyclists[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *CyclistRepository) UpsertByName(_ context.Context, items []cyclist.Cyclist) (cyclist.ImportResult, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	st := r.db.state
	byName := make(map[string]string, len(st.cyclists))
	for id, c := range st.cyclists {
		byName[c.Name] = id
	}

	var result cyclist.ImportResult
	for _, item := range items {
		if id, ok := byName[item.Name]; ok {
			existing := st.cyclists[id]
			existing.Team = item.Team
			existing.MinPrice = item.MinPrice
			existing.UpdatedAt = item.UpdatedAt
			st.cyclists[id] = existing
			result.Updated++
			continue
		}
		st.cyclists[item.ID] = item
		st.cyclistOrder = append(st.cyclistOrder, item.ID)
		byName[item.Name] = item.ID
		result.Created++
	}
	return result, nil
}
