package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/riskibarqy/cycling-auction/internal/domain/cyclist"
	idgen "github.com/riskibarqy/cycling-auction/internal/platform/id"
)

type CyclistService struct {
	repo  cyclist.Repository
	idGen idgen.Generator
	clock clockwork.Clock
}

func NewCyclistService(repo cyclist.Repository, idGen idgen.Generator, opts ...Option) *CyclistService {
	return &CyclistService{
		repo:  repo,
		idGen: idGen,
		clock: applyOptions(opts).clock,
	}
}

func (s *CyclistService) ListCyclists(ctx context.Context) ([]cyclist.Cyclist, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cyclists: %w", err)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if c := items[i].MinPrice.Cmp(items[j].MinPrice); c != 0 {
			return c > 0
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}

func (s *CyclistService) GetCyclist(ctx context.Context, cyclistID string) (cyclist.Cyclist, error) {
	cyclistID = strings.TrimSpace(cyclistID)
	if cyclistID == "" {
		return cyclist.Cyclist{}, fmt.Errorf("%w: cyclist id is required", ErrInvalidInput)
	}

	item, exists, err := s.repo.GetByID(ctx, cyclistID)
	if err != nil {
		return cyclist.Cyclist{}, fmt.Errorf("get cyclist: %w", err)
	}
	if !exists {
		return cyclist.Cyclist{}, fmt.Errorf("%w: cyclist=%s", ErrNotFound, cyclistID)
	}
	return item, nil
}

// ImportCyclists upserts catalog rows by rider name. Later rows with the same name
// override earlier ones.
func (s *CyclistService) ImportCyclists(ctx context.Context, rows []cyclist.Cyclist) (cyclist.ImportResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CyclistService.ImportCyclists")
	defer span.End()

	if len(rows) == 0 {
		return cyclist.ImportResult{}, fmt.Errorf("%w: no cyclists to import", ErrInvalidInput)
	}

	now := s.clock.Now().UTC()
	index := make(map[string]int, len(rows))
	items := make([]cyclist.Cyclist, 0, len(rows))
	for i, row := range rows {
		row.Name = strings.TrimSpace(row.Name)
		row.Team = strings.TrimSpace(row.Team)
		if row.ID == "" {
			id, err := s.idGen.NewID()
			if err != nil {
				return cyclist.ImportResult{}, fmt.Errorf("generate cyclist id: %w", err)
			}
			row.ID = id
		}
		row.CreatedAt = now
		row.UpdatedAt = now
		if err := row.Validate(); err != nil {
			return cyclist.ImportResult{}, fmt.Errorf("%w: row %d: %v", ErrInvalidInput, i+1, err)
		}

		key := row.Name
		if pos, dup := index[key]; dup {
			row.ID = items[pos].ID
			items[pos] = row
			continue
		}
		index[key] = len(items)
		items = append(items, row)
	}

	result, err := s.repo.UpsertByName(ctx, items)
	if err != nil {
		return cyclist.ImportResult{}, fmt.Errorf("upsert cyclists: %w", err)
	}
	return result, nil
}
