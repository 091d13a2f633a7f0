// Package history remembers where the user left each feed, so playback can
// continue from the same item.
package history

import (
	"time"

	"github.com/metafates/gache"
	"github.com/reelfeed/reelfeed/filesystem"
	"github.com/reelfeed/reelfeed/key"
	"github.com/reelfeed/reelfeed/where"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// Position is the last current item of a feed.
type Position struct {
	Manifest string    `json:"manifest"`
	Filter   string    `json:"filter"`
	Index    int       `json:"index"`
	ItemID   string    `json:"item_id"`
	SavedAt  time.Time `json:"saved_at"`
}

var cacher = gache.New[map[string]*Position](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns every saved position keyed by manifest.
func Get() (map[string]*Position, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Position), nil
	}
	return cached, nil
}

// Lookup returns the saved position of a manifest.
func Lookup(manifest string) mo.Option[Position] {
	saved, err := Get()
	if err != nil {
		return mo.None[Position]()
	}

	pos, ok := saved[where.ManifestKey(manifest)]
	if !ok || pos == nil {
		return mo.None[Position]()
	}
	return mo.Some(*pos)
}

// Save records the current item of a manifest. It does nothing when
// position saving is disabled.
func Save(pos Position) error {
	if !viper.GetBool(key.HistorySavePosition) {
		return nil
	}

	saved, err := Get()
	if err != nil {
		return err
	}

	if pos.SavedAt.IsZero() {
		pos.SavedAt = time.Now()
	}
	saved[where.ManifestKey(pos.Manifest)] = &pos

	return cacher.Set(saved)
}

// Remove forgets the position of a manifest.
func Remove(manifest string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, where.ManifestKey(manifest))
	return cacher.Set(saved)
}
