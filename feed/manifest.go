package feed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/reelfeed/reelfeed/filesystem"
	"github.com/reelfeed/reelfeed/log"
	"github.com/samber/lo"
)

// ErrNoVideos is returned when a manifest yields no playable item.
var ErrNoVideos = errors.New("no valid videos in manifest")

// Video is one manifest entry.
type Video struct {
	ID         string `json:"id,omitempty" jsonschema:"description=Stable identifier. Generated when missing"`
	URL        string `json:"url" jsonschema:"required,description=Player URL (embed/shorts/watch) or any http(s) embed URL"`
	Genre      string `json:"genre,omitempty" jsonschema:"description=Comma-separated genres"`
	Collection string `json:"collection,omitempty" jsonschema:"description=Comma-separated collection ids"`
}

// Collection groups videos under a filterable id.
type Collection struct {
	ID           string `json:"collection_id" jsonschema:"required"`
	NameEN       string `json:"name_en"`
	NameJA       string `json:"name_ja,omitempty"`
	Icon         string `json:"icon,omitempty"`
	DisplayOrder int    `json:"display_order"`
	Active       bool   `json:"active"`
}

// Manifest is the on-disk feed description. A bare JSON array of videos is
// accepted as well.
type Manifest struct {
	Videos      []Video      `json:"videos"`
	Collections []Collection `json:"collections,omitempty"`
}

// UnmarshalJSON accepts both the object and the bare array form.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		m.Collections = nil
		return json.Unmarshal(trimmed, &m.Videos)
	}

	type plain Manifest
	var p plain
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return err
	}
	*m = Manifest(p)
	return nil
}

// Parse decodes a manifest.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

// Load reads and decodes the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(data)
}

// Rejected describes a manifest entry that was dropped.
type Rejected struct {
	Position int
	Video    Video
	Err      error
}

func (r Rejected) Error() string {
	return fmt.Sprintf("video #%d: %v", r.Position, r.Err)
}

// Store validates the manifest and builds the item store. Invalid entries are
// dropped and reported, never fatal, unless nothing is left.
func (m *Manifest) Store() (*Store, []Rejected, error) {
	var (
		items    []Item
		rejected []Rejected
	)

	for pos, v := range m.Videos {
		if strings.TrimSpace(v.URL) == "" {
			rejected = append(rejected, Rejected{Position: pos, Video: v, Err: errors.New("missing url")})
			continue
		}

		kind, ref, err := Classify(v.URL)
		if err != nil {
			rejected = append(rejected, Rejected{Position: pos, Video: v, Err: err})
			continue
		}

		id := strings.TrimSpace(v.ID)
		if id == "" {
			id = "video_" + uuid.NewString()
		}

		items = append(items, Item{
			ID:          id,
			Kind:        kind,
			MediaRef:    ref,
			Collections: splitList(v.Collection),
			Genres:      splitList(v.Genre),
		})
	}

	for _, r := range rejected {
		log.WithFields(log.Fields{"position": r.Position, "url": r.Video.URL}).Warnf("invalid video data: %v", r.Err)
	}

	if len(items) == 0 {
		return nil, rejected, ErrNoVideos
	}

	return NewStore(items, m.Collections), rejected, nil
}

func splitList(s string) []string {
	parts := lo.Map(strings.Split(s, ","), func(p string, _ int) string {
		return strings.ToLower(strings.TrimSpace(p))
	})
	return lo.Compact(parts)
}
