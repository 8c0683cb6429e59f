package cache

import (
	"context"
	"sort"
	"strings"

	"github.com/riskibarqy/cycling-auction/internal/domain/cyclist"
	"github.com/riskibarqy/cycling-auction/internal/domain/team"
	basecache "github.com/riskibarqy/cycling-auction/internal/platform/cache"
)

const (
	cyclistPrefix = "cyclist:"
	teamPrefix    = "team:"
)

// CyclistRepository caches catalog reads. The catalog only changes through
// UpsertByName, which drops every cached entry.
type CyclistRepository struct {
	next  cyclist.Repository
	cache *basecache.Store
}

func NewCyclistRepository(next cyclist.Repository, cache *basecache.Store) *CyclistRepository {
	return &CyclistRepository{next: next, cache: cache}
}

func (r *CyclistRepository) List(ctx context.Context) ([]cyclist.Cyclist, error) {
	v, err := r.cache.GetOrLoad(ctx, cyclistPrefix+"list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]cyclist.Cyclist(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]cyclist.Cyclist)
	return append([]cyclist.Cyclist(nil), items...), nil
}

func (r *CyclistRepository) GetByID(ctx context.Context, cyclistID string) (cyclist.Cyclist, bool, error) {
	key := cyclistPrefix + "id:" + cyclistID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, cyclistID)
		if err != nil {
			return nil, err
		}
		return cachedCyclistByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return cyclist.Cyclist{}, false, err
	}

	cached, _ := v.(cachedCyclistByID)
	return cached.value, cached.exists, nil
}

func (r *CyclistRepository) ListByIDs(ctx context.Context, cyclistIDs []string) ([]cyclist.Cyclist, error) {
	ids := append([]string(nil), cyclistIDs...)
	sort.Strings(ids)
	key := cyclistPrefix + "ids:" + strings.Join(ids, ",")
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByIDs(ctx, cyclistIDs)
		if err != nil {
			return nil, err
		}
		return append([]cyclist.Cyclist(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]cyclist.Cyclist)
	return append([]cyclist.Cyclist(nil), items...), nil
}

func (r *CyclistRepository) UpsertByName(ctx context.Context, items []cyclist.Cyclist) (cyclist.ImportResult, error) {
	result, err := r.next.UpsertByName(ctx, items)
	r.cache.DeletePrefix(ctx, cyclistPrefix)
	return result, err
}

type cachedCyclistByID struct {
	value  cyclist.Cyclist
	exists bool
}

// TeamRepository caches membership reads per league. Teams are only ever
// added, so Create drops the league's entries.
type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) Create(ctx context.Context, t team.Team) error {
	err := r.next.Create(ctx, t)
	r.cache.DeletePrefix(ctx, teamLeaguePrefix(t.LeagueID))
	return err
}

func (r *TeamRepository) ListByLeague(ctx context.Context, leagueID string) ([]team.Team, error) {
	key := teamLeaguePrefix(leagueID) + "list"
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByLeague(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, leagueID, teamID string) (team.Team, bool, error) {
	key := teamLeaguePrefix(leagueID) + "id:" + teamID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, leagueID, teamID)
		if err != nil {
			return nil, err
		}
		return cachedTeam{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeam)
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) GetByUser(ctx context.Context, leagueID, userID string) (team.Team, bool, error) {
	key := teamLeaguePrefix(leagueID) + "user:" + userID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByUser(ctx, leagueID, userID)
		if err != nil {
			return nil, err
		}
		return cachedTeam{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeam)
	return cached.value, cached.exists, nil
}

type cachedTeam struct {
	value  team.Team
	exists bool
}

func teamLeaguePrefix(leagueID string) string {
	return teamPrefix + leagueID + ":"
}
