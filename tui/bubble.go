package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/reelfeed/reelfeed/feed"
	"github.com/reelfeed/reelfeed/internal/ui"
	"github.com/reelfeed/reelfeed/open"
	"github.com/reelfeed/reelfeed/reel"
	"github.com/reelfeed/reelfeed/style"
	"github.com/reelfeed/reelfeed/util"
)

// callTimeout bounds a round trip to the event loop.
const callTimeout = 2 * time.Second

// host runs functions on the event loop that owns the session.
type host interface {
	Call(ctx context.Context, fn func()) error
}

// statefulBubble is the terminal model. It never touches the session
// directly: every access goes through the host, and the view renders the
// last snapshot.
type statefulBubble struct {
	state   state
	keymap  *statefulKeymap
	host    host
	session *reel.Session

	snapshot    reel.Snapshot
	store       *feed.Store
	collections []feed.Collection
	synced      bool

	spinnerC spinner.Model
	inputC   textinput.Model
	helpC    help.Model
	notifier *ui.Model

	lastError     error
	width, height int
	refresh       time.Duration

	opener func(url string) error
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.setState(errorState)
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()

	b.width = width - x
	b.height = height - y
	b.helpC.Width = b.width
	b.inputC.Width = b.width
}

func newBubble(h host, session *reel.Session, collections []feed.Collection, refresh time.Duration) *statefulBubble {
	bubble := statefulBubble{
		keymap:      newStatefulKeymap(),
		host:        h,
		session:     session,
		collections: collections,
		notifier:    &ui.Model{},
		refresh:     refresh,
		opener:      open.Start,
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(style.AccentColor)

	bubble.inputC = textinput.New()
	bubble.inputC.Placeholder = "collection id or name"
	bubble.inputC.CharLimit = 60
	bubble.inputC.Prompt = "› "

	bubble.setState(loadingState)

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	return &bubble
}
