// Package feed holds the ordered, immutable list of reel items and the manifest
// they are loaded from.
package feed

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// MediaKind tells how an item's media is embedded.
type MediaKind int

const (
	// NativeEmbeddable media is driven through the player API.
	NativeEmbeddable MediaKind = iota
	// OpaqueEmbed media is shown as a static embed the lifecycle never manages.
	OpaqueEmbed
)

func (k MediaKind) String() string {
	switch k {
	case NativeEmbeddable:
		return "native"
	case OpaqueEmbed:
		return "opaque"
	default:
		return fmt.Sprintf("MediaKind(%d)", int(k))
	}
}

// ErrUnsupportedURL is returned for media URLs that are neither a recognised
// player URL nor an http(s) embed.
var ErrUnsupportedURL = errors.New("unsupported media url")

// Item is one reel. Index is stable for the lifetime of the Store that owns it.
type Item struct {
	Index    int
	ID       string
	Kind     MediaKind
	MediaRef string

	Collections []string
	Genres      []string
}

// Managed reports whether the item needs a player.
func (i Item) Managed() bool {
	return i.Kind == NativeEmbeddable
}

var videoID = regexp.MustCompile(`^[A-Za-z0-9_-]{6,}$`)

// WatchURL expands a bare video id into a watch URL. Full URLs are returned
// unchanged.
func WatchURL(ref string) string {
	if strings.Contains(ref, "://") {
		return ref
	}
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(ref)
}

// WatchURL is where the item can be opened outside the feed.
func (i Item) WatchURL() string {
	return WatchURL(i.MediaRef)
}

// Classify derives the media kind and reference for a URL. Recognised player
// URLs (embed, shorts, watch and short links) yield the bare video id.
func Classify(raw string) (MediaKind, string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return 0, "", fmt.Errorf("%w: %q", ErrUnsupportedURL, raw)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return 0, "", fmt.Errorf("%w: scheme %q", ErrUnsupportedURL, u.Scheme)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")

	var id string
	switch host {
	case "youtube.com", "youtube-nocookie.com":
		switch {
		case len(segments) == 2 && (segments[0] == "embed" || segments[0] == "shorts"):
			id = segments[1]
		case len(segments) == 1 && segments[0] == "watch":
			id = u.Query().Get("v")
		}
	case "youtu.be":
		if len(segments) == 1 {
			id = segments[0]
		}
	}

	if id != "" && videoID.MatchString(id) {
		return NativeEmbeddable, id, nil
	}

	return OpaqueEmbed, raw, nil
}
