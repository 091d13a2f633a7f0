package player

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reelfeed/reelfeed/feed"
	"github.com/reelfeed/reelfeed/log"
	"github.com/reelfeed/reelfeed/where"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	quitTimeout       = 3 * time.Second
)

// MPV is a provider that runs one mpv process per player, controlled over
// JSON-IPC. Every process starts paused.
type MPV struct {
	bin string
}

// NewMPV creates the provider. The mpv binary is resolved on Bootstrap.
func NewMPV() *MPV {
	return &MPV{bin: "mpv"}
}

// Name implements Provider.
func (m *MPV) Name() string {
	return NameMPV
}

// Bootstrap implements Provider. ready is called from a background goroutine.
func (m *MPV) Bootstrap(ready func()) {
	go func() {
		path, err := exec.LookPath(m.bin)
		if err != nil {
			log.Errorf("mpv not found in PATH: %v", err)
		} else {
			m.bin = path
			log.Infof("using mpv at %s", path)
		}
		ready()
	}()
}

// NewPlayer implements Provider. The process is started in the background
// and EventReady is sent once its IPC socket accepts connections.
func (m *MPV) NewPlayer(targetID, mediaRef string, sink Sink) (Instance, error) {
	target, err := sanitizeMediaTarget(feed.WatchURL(mediaRef))
	if err != nil {
		return nil, fmt.Errorf("invalid media target: %w", err)
	}

	p := &mpvPlayer{
		bin:    m.bin,
		title:  sanitizeTitle(targetID),
		target: target,
		sink:   sink,
		exited: make(chan struct{}),
	}

	go p.start()
	return p, nil
}

// mpvPlayer is one mpv process.
type mpvPlayer struct {
	bin    string
	title  string
	target string
	sink   Sink

	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}
	listener   *EventListener

	mu        sync.Mutex // protects socket writes
	stateMu   sync.Mutex
	state     State
	ready     bool
	destroyed bool
}

func (p *mpvPlayer) start() {
	p.socketPath = filepath.Join(where.Sockets(), "reel-"+uuid.NewString()[:8]+".sock")

	// Only the socket, title and target are passed so the user's mpv.conf
	// stays in charge of everything else.
	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", p.socketPath),
		fmt.Sprintf("--force-media-title=%s", p.title),
		fmt.Sprintf("--title=%s", p.title),
		"--force-window=yes",
		"--keep-open=yes",
		"--pause",
		p.target,
	}

	p.cmd = exec.Command(p.bin, args...)
	p.cmd.SysProcAttr = sysProcAttr()
	p.cmd.Stdout = nil
	p.cmd.Stderr = nil
	p.cmd.Stdin = nil

	if err := p.cmd.Start(); err != nil {
		p.fail(fmt.Errorf("start mpv: %w", err))
		return
	}

	go func() {
		_ = p.cmd.Wait()
		close(p.exited)
	}()

	if err := p.waitForSocket(); err != nil {
		p.abort(fmt.Errorf("mpv socket not ready: %w", err))
		return
	}

	p.listener = NewEventListener(p.socketPath, p.onProperty)
	if err := p.listener.Start(); err != nil {
		p.abort(fmt.Errorf("listen on mpv socket: %w", err))
		return
	}

	p.stateMu.Lock()
	if p.destroyed {
		p.stateMu.Unlock()
		p.shutdown()
		return
	}
	p.ready = true
	p.stateMu.Unlock()

	p.sink(Event{Kind: EventReady})
}

// fail reports that the player will never become ready.
func (p *mpvPlayer) fail(err error) {
	log.Errorf("mpv player %s: %v", p.title, err)
	p.sink(Event{Kind: EventFailed, Err: err})
}

// abort kills a started process that cannot be driven and removes its
// socket before failing.
func (p *mpvPlayer) abort(err error) {
	select {
	case <-p.exited:
	default:
		log.Warnf("killing mpv %s: %v", p.title, err)
		_ = killProcess(p.cmd)
	}
	_ = os.Remove(p.socketPath)
	p.fail(err)
}

// waitForSocket polls until the IPC socket accepts connections.
func (p *mpvPlayer) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-p.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", p.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", p.socketPath, socketWaitRetries)
}

// onProperty maps observed mpv properties to player states.
func (p *mpvPlayer) onProperty(name string, data interface{}) {
	var next State
	switch name {
	case "pause":
		paused, ok := data.(bool)
		if !ok {
			return
		}
		next = StatePlaying
		if paused {
			next = StatePaused
		}
	case "eof-reached":
		if eof, _ := data.(bool); !eof {
			return
		}
		next = StateEnded
	case "paused-for-cache":
		if buffering, _ := data.(bool); !buffering {
			return
		}
		next = StateBuffering
	default:
		return
	}

	p.stateMu.Lock()
	changed := p.state != next && !p.destroyed
	p.state = next
	p.stateMu.Unlock()

	if changed {
		p.sink(Event{Kind: EventStateChange, State: next})
	}
}

func (p *mpvPlayer) usable() error {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()

	switch {
	case p.destroyed:
		return fmt.Errorf("mpv player destroyed")
	case !p.ready:
		return fmt.Errorf("mpv player not ready")
	}
	return nil
}

// Play implements Instance. Playback that reached the end restarts from zero.
func (p *mpvPlayer) Play() error {
	if err := p.usable(); err != nil {
		return err
	}

	p.stateMu.Lock()
	ended := p.state == StateEnded
	p.stateMu.Unlock()

	if ended {
		if _, err := p.sendCommand([]interface{}{"seek", 0, "absolute"}); err != nil {
			return err
		}
	}
	return p.set("pause", false)
}

// Pause implements Instance.
func (p *mpvPlayer) Pause() error {
	if err := p.usable(); err != nil {
		return err
	}
	return p.set("pause", true)
}

// State implements Instance by querying the process.
func (p *mpvPlayer) State() (State, error) {
	if err := p.usable(); err != nil {
		return StateUnstarted, err
	}

	if eof, err := p.getBoolProperty("eof-reached"); err == nil && eof {
		return StateEnded, nil
	}
	if cache, err := p.getBoolProperty("paused-for-cache"); err == nil && cache {
		return StateBuffering, nil
	}

	paused, err := p.getBoolProperty("pause")
	if err != nil {
		return StateUnstarted, err
	}
	if paused {
		return StatePaused, nil
	}
	return StatePlaying, nil
}

// Destroy implements Instance. The process is shut down in the background.
func (p *mpvPlayer) Destroy() error {
	p.stateMu.Lock()
	if p.destroyed {
		p.stateMu.Unlock()
		return fmt.Errorf("mpv player destroyed")
	}
	p.destroyed = true
	ready := p.ready
	p.stateMu.Unlock()

	// A player still starting shuts itself down once its socket is up.
	if ready {
		go p.shutdown()
	}
	return nil
}

func (p *mpvPlayer) shutdown() {
	if p.listener != nil {
		p.listener.Stop()
	}

	_, _ = p.sendCommand([]interface{}{"quit"})

	select {
	case <-p.exited:
	case <-time.After(quitTimeout):
		_ = killProcess(p.cmd)
	}

	_ = os.Remove(p.socketPath)
}

func (p *mpvPlayer) set(property string, value interface{}) error {
	_, err := p.sendCommand([]interface{}{"set_property", property, value})
	return err
}

func (p *mpvPlayer) getBoolProperty(name string) (bool, error) {
	data, err := p.sendCommand([]interface{}{"get_property", name})
	if err != nil {
		return false, err
	}
	val, ok := data.(bool)
	if !ok {
		return false, fmt.Errorf("property %s: expected bool, got %T", name, data)
	}
	return val, nil
}

// sanitizeMediaTarget validates that a target is safe to pass to mpv as a
// positional argument.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// A leading dash would be parsed as a flag.
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	u, err := url.Parse(l)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return l, nil
	default:
		return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
	}
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
