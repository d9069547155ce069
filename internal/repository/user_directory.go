package repository

import (
	"context"
	"time"

	"lifora/internal/models"
	"lifora/internal/utils"
)

// StoreDirectory resolves profiles straight from a UserStore.
type StoreDirectory struct {
	users UserStore
}

func NewStoreDirectory(users UserStore) *StoreDirectory {
	return &StoreDirectory{users: users}
}

func (d *StoreDirectory) Profiles(ctx context.Context, ids []string) (map[string]models.AuthorProfile, error) {
	out := make(map[string]models.AuthorProfile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	users, err := d.users.FindByIDs(ctx, dedupe(ids))
	if err != nil {
		return nil, err
	}
	for i := range users {
		out[users[i].ID] = users[i].Profile()
	}
	return out, nil
}

// CachedDirectory puts a TTL LRU in front of another directory.
type CachedDirectory struct {
	next  UserDirectory
	cache *utils.TTLCache[models.AuthorProfile]
}

func NewCachedDirectory(next UserDirectory, size int, ttl time.Duration) (*CachedDirectory, error) {
	c, err := utils.NewTTLCache[models.AuthorProfile](size, ttl)
	if err != nil {
		return nil, err
	}
	return &CachedDirectory{next: next, cache: c}, nil
}

func (d *CachedDirectory) Profiles(ctx context.Context, ids []string) (map[string]models.AuthorProfile, error) {
	out := make(map[string]models.AuthorProfile, len(ids))
	var missing []string
	for _, id := range dedupe(ids) {
		if p, ok := d.cache.Get(id); ok {
			out[id] = p
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return out, nil
	}

	fetched, err := d.next.Profiles(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, p := range fetched {
		d.cache.Set(id, p)
		out[id] = p
	}
	return out, nil
}

// Invalidate drops a cached profile after the user record changed.
func (d *CachedDirectory) Invalidate(id string) {
	d.cache.Delete(id)
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
