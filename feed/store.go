package feed

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Store is an ordered list of items whose indices equal their positions.
// A Store never changes; filtering produces a new one.
type Store struct {
	items       []Item
	collections []Collection
}

// NewStore copies items, assigning indices by position.
func NewStore(items []Item, collections []Collection) *Store {
	s := &Store{
		items:       make([]Item, len(items)),
		collections: append([]Collection(nil), collections...),
	}
	for i, item := range items {
		item.Index = i
		s.items[i] = item
	}
	return s
}

// Len returns the number of items.
func (s *Store) Len() int {
	return len(s.items)
}

// At returns the item at index.
func (s *Store) At(index int) mo.Option[Item] {
	if index < 0 || index >= len(s.items) {
		return mo.None[Item]()
	}
	return mo.Some(s.items[index])
}

// All returns a copy of every item in order.
func (s *Store) All() []Item {
	return append([]Item(nil), s.items...)
}

// Collections returns the active collections ordered by display order.
func (s *Store) Collections() []Collection {
	active := lo.Filter(s.collections, func(c Collection, _ int) bool {
		return c.Active
	})
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].DisplayOrder < active[j].DisplayOrder
	})
	return active
}

// Filter selects items by collection or genre. An empty filter matches everything.
type Filter struct {
	Collection string
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Collection) == ""
}

func (f Filter) match(item Item) bool {
	if f.IsZero() {
		return true
	}
	want := strings.ToLower(strings.TrimSpace(f.Collection))
	return lo.Contains(item.Genres, want) || lo.Contains(item.Collections, want)
}

// Filter returns a new Store holding the matching items with fresh indices.
func (s *Store) Filter(f Filter) *Store {
	return NewStore(lo.Filter(s.items, func(item Item, _ int) bool {
		return f.match(item)
	}), s.collections)
}

// Count returns how many items the filter matches.
func (s *Store) Count(f Filter) int {
	return lo.CountBy(s.items, f.match)
}

// MatchCollection resolves free-form user input to an active collection,
// matching ids and English names case-insensitively and fuzzily.
func (s *Store) MatchCollection(input string) mo.Option[Collection] {
	input = strings.TrimSpace(input)
	if input == "" {
		return mo.None[Collection]()
	}

	active := s.Collections()
	if exact, ok := lo.Find(active, func(c Collection) bool {
		return strings.EqualFold(c.ID, input) || strings.EqualFold(c.NameEN, input)
	}); ok {
		return mo.Some(exact)
	}

	targets := lo.Map(active, func(c Collection, _ int) string {
		return c.ID + " " + c.NameEN
	})
	ranks := fuzzy.RankFindNormalizedFold(input, targets)
	if len(ranks) == 0 {
		return mo.None[Collection]()
	}
	sort.Sort(ranks)
	return mo.Some(active[ranks[0].OriginalIndex])
}
