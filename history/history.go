// Package history persists watch progress per title.
package history

import (
	"errors"
	"sort"

	"github.com/marquee-cli/marquee/filesystem"
	"github.com/marquee-cli/marquee/playback"
	"github.com/marquee-cli/marquee/where"
	"github.com/metafates/gache"
	"github.com/samber/lo"
)

// cacher provides a disk-backed registry of progress records.
var cacher = gache.New[map[string]*Entry](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns every saved entry keyed by URL.
func Get() (map[string]*Entry, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Entry), nil
	}
	return cached, nil
}

// List returns the saved entries, most recent first.
func List() ([]*Entry, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	entries := lo.Values(saved)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
	})
	return entries, nil
}

// Save records the state a player ended with. The watched percentage never
// decreases across sessions.
func Save(src playback.Source, state playback.State) error {
	if src.URL == "" {
		return errors.New("history: empty source url")
	}

	saved, err := Get()
	if err != nil {
		return err
	}

	entry := newEntry(src, state)
	if existing, ok := saved[entry.URL]; ok {
		entry.WatchedPercentage = max(entry.WatchedPercentage, existing.WatchedPercentage)
		entry.Finished = entry.Finished || existing.Finished
		if entry.Duration == 0 {
			entry.Duration = existing.Duration
		}
	}

	saved[entry.URL] = entry
	return cacher.Set(saved)
}

// Remove deletes the entry for url.
func Remove(url string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, url)
	return cacher.Set(saved)
}

// Clear deletes every entry.
func Clear() error {
	return cacher.Set(make(map[string]*Entry))
}
