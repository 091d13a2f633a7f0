package reel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/reelfeed/reelfeed/feed"
	"github.com/reelfeed/reelfeed/loop"
)

// ErrBadScript is returned by ParseScript for an unknown step.
var ErrBadScript = errors.New("bad script")

// Step is one scripted user action.
type Step struct {
	Name  string
	apply func(s *Session)
}

// ParseScript reads a whitespace or comma separated list of steps:
//
//	j, next     next item
//	k, prev     previous item
//	J, K        half an item down or up
//	g, G        first or last item
//	w, wait     do nothing
//	@N          jump to item N
//	f=ID        filter by collection ID, "f=" clears it
func ParseScript(script string) ([]Step, error) {
	tokens := strings.FieldsFunc(script, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	steps := make([]Step, 0, len(tokens))
	for _, token := range tokens {
		step, err := parseStep(token)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func parseStep(token string) (Step, error) {
	switch token {
	case "j", "next":
		return Step{Name: "next", apply: (*Session).Next}, nil
	case "k", "prev":
		return Step{Name: "prev", apply: (*Session).Prev}, nil
	case "J":
		return Step{Name: "half down", apply: func(s *Session) { s.ScrollBy(0.5) }}, nil
	case "K":
		return Step{Name: "half up", apply: func(s *Session) { s.ScrollBy(-0.5) }}, nil
	case "g", "top":
		return Step{Name: "top", apply: func(s *Session) { s.ScrollToIndex(0) }}, nil
	case "G", "bottom":
		return Step{Name: "bottom", apply: func(s *Session) { s.ScrollToIndex(s.Store().Len() - 1) }}, nil
	case "w", "wait":
		return Step{Name: "wait"}, nil
	}

	switch {
	case strings.HasPrefix(token, "@"):
		index, err := strconv.Atoi(token[1:])
		if err != nil || index < 0 {
			return Step{}, fmt.Errorf("%w: %q is not an item index", ErrBadScript, token)
		}
		return Step{Name: token, apply: func(s *Session) { s.ScrollToIndex(index) }}, nil
	case strings.HasPrefix(token, "f="):
		filter := feed.Filter{Collection: token[2:]}
		name := "filter " + filter.Collection
		if filter.IsZero() {
			name = "clear filter"
		}
		return Step{Name: name, apply: func(s *Session) { s.Rebuild(filter) }}, nil
	}

	return Step{}, fmt.Errorf("%w: unknown step %q", ErrBadScript, token)
}

// Frame is the session state observed after a step settled.
type Frame struct {
	At       time.Duration
	Step     string
	Snapshot Snapshot
}

// Play starts session on m and runs steps, letting dwell of virtual time
// pass after each. The first frame is taken after startup.
func Play(m *loop.Manual, session *Session, steps []Step, dwell time.Duration) []Frame {
	start := m.Now()
	frames := make([]Frame, 0, len(steps)+1)

	capture := func(name string) {
		frames = append(frames, Frame{
			At:       m.Now().Sub(start),
			Step:     name,
			Snapshot: session.Snapshot(),
		})
	}

	session.Start()
	m.Step(dwell)
	capture("start")

	for _, step := range steps {
		if step.apply != nil {
			step.apply(session)
		}
		m.Step(dwell)
		capture(step.Name)
	}

	return frames
}
