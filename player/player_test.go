package player

import (
	"errors"
	"testing"
	"time"

	"github.com/reelfeed/reelfeed/loop"
	. "github.com/smartystreets/goconvey/convey"
)

type recorder struct {
	events []Event
}

func (r *recorder) sink(ev Event) {
	r.events = append(r.events, ev)
}

func (r *recorder) states() []State {
	var out []State
	for _, ev := range r.events {
		if ev.Kind == EventStateChange {
			out = append(out, ev.State)
		}
	}
	return out
}

func TestNew(t *testing.T) {
	Convey("New resolves provider names", t, func() {
		m := loop.NewManual(time.Time{})

		p, err := New(NameSim, m, SimOptions{})
		So(err, ShouldBeNil)
		So(p.Name(), ShouldEqual, "sim")

		p, err = New(NameMPV, m, SimOptions{})
		So(err, ShouldBeNil)
		So(p.Name(), ShouldEqual, "mpv")

		_, err = New("vlc", m, SimOptions{})
		So(errors.Is(err, ErrUnknownProvider), ShouldBeTrue)
		So(Available(), ShouldContain, "mpv")
	})
}

func TestSim(t *testing.T) {
	Convey("Given a simulated provider", t, func() {
		m := loop.NewManual(time.Time{})
		opts := SimOptions{
			BootstrapDelay: 400 * time.Millisecond,
			ReadyDelay:     250 * time.Millisecond,
			ClipLength:     10 * time.Second,
		}

		Convey("Bootstrap fires ready once after the delay", func() {
			sim := NewSim(m, opts)
			calls := 0
			sim.Bootstrap(func() { calls++ })
			sim.Bootstrap(func() { calls++ })

			m.Advance(399 * time.Millisecond)
			So(calls, ShouldEqual, 0)
			m.Advance(time.Millisecond)
			So(calls, ShouldEqual, 1)
		})

		Convey("A new player becomes ready and then plays", func() {
			sim := NewSim(m, opts)
			rec := &recorder{}
			inst, err := sim.NewPlayer("t-1", "abc", rec.sink)
			So(err, ShouldBeNil)

			So(inst.Play(), ShouldNotBeNil)

			m.Advance(250 * time.Millisecond)
			So(rec.events[0].Kind, ShouldEqual, EventReady)

			So(inst.Play(), ShouldBeNil)
			state, err := inst.State()
			So(err, ShouldBeNil)
			So(state, ShouldEqual, StatePlaying)
			So(sim.Playing(), ShouldResemble, []string{"abc"})

			So(inst.Pause(), ShouldBeNil)
			So(rec.states(), ShouldResemble, []State{StatePlaying, StatePaused})
		})

		Convey("Clips end after their length", func() {
			sim := NewSim(m, opts)
			rec := &recorder{}
			inst, _ := sim.NewPlayer("t-1", "abc", rec.sink)
			m.Advance(250 * time.Millisecond)
			_ = inst.Play()

			m.Advance(10 * time.Second)
			So(rec.states(), ShouldResemble, []State{StatePlaying, StateEnded})
		})

		Convey("Swallowed plays leave the state untouched", func() {
			opts.SwallowPlays = 1
			sim := NewSim(m, opts)
			rec := &recorder{}
			inst, _ := sim.NewPlayer("t-1", "abc", rec.sink)
			m.Advance(250 * time.Millisecond)

			So(inst.Play(), ShouldBeNil)
			state, _ := inst.State()
			So(state, ShouldEqual, StateUnstarted)

			So(inst.Play(), ShouldBeNil)
			state, _ = inst.State()
			So(state, ShouldEqual, StatePlaying)
		})

		Convey("The first play may only cue", func() {
			opts.CueInsteadOfPlay = true
			sim := NewSim(m, opts)
			rec := &recorder{}
			inst, _ := sim.NewPlayer("t-1", "abc", rec.sink)
			m.Advance(250 * time.Millisecond)

			_ = inst.Play()
			_ = inst.Play()
			So(rec.states(), ShouldResemble, []State{StateCued, StatePlaying})
		})

		Convey("Construction fails for listed references", func() {
			opts.FailRefs = []string{"bad"}
			sim := NewSim(m, opts)
			_, err := sim.NewPlayer("t-1", "bad", (&recorder{}).sink)
			So(err, ShouldNotBeNil)
			So(sim.Live(), ShouldEqual, 0)
		})

		Convey("Destroyed players never become ready", func() {
			sim := NewSim(m, opts)
			rec := &recorder{}
			inst, _ := sim.NewPlayer("t-1", "abc", rec.sink)
			So(sim.Live(), ShouldEqual, 1)

			So(inst.Destroy(), ShouldBeNil)
			So(inst.Destroy(), ShouldNotBeNil)
			m.Advance(time.Second)

			So(rec.events, ShouldBeEmpty)
			So(sim.Live(), ShouldEqual, 0)
			_, err := inst.State()
			So(err, ShouldNotBeNil)
		})

		Convey("Stall drops playback silently", func() {
			sim := NewSim(m, opts)
			rec := &recorder{}
			inst, _ := sim.NewPlayer("t-1", "abc", rec.sink)
			m.Advance(250 * time.Millisecond)
			_ = inst.Play()

			p, ok := sim.Player("t-1")
			So(ok, ShouldBeTrue)
			p.Stall()

			state, _ := inst.State()
			So(state, ShouldEqual, StateUnstarted)
			So(len(rec.states()), ShouldEqual, 1)
		})
	})
}

func TestState(t *testing.T) {
	Convey("Playing and buffering count as active", t, func() {
		So(StatePlaying.Active(), ShouldBeTrue)
		So(StateBuffering.Active(), ShouldBeTrue)
		So(StateCued.Active(), ShouldBeFalse)
		So(StateEnded.String(), ShouldEqual, "ended")
		So(EventError.String(), ShouldEqual, "error")
		So(EventFailed.String(), ShouldEqual, "failed")
	})
}

func TestMPVHelpers(t *testing.T) {
	Convey("Media targets", t, func() {
		_, err := sanitizeMediaTarget("--script=evil.lua")
		So(err, ShouldNotBeNil)
		_, err = sanitizeMediaTarget("file:///etc/passwd")
		So(err, ShouldNotBeNil)
		_, err = sanitizeMediaTarget("https://example.com/\nx")
		So(err, ShouldNotBeNil)

		got, err := sanitizeMediaTarget(" https://example.com/v ")
		So(err, ShouldBeNil)
		So(got, ShouldEqual, "https://example.com/v")

		So(sanitizeTitle("reel\tplayer\n3\x00"), ShouldEqual, "reel player 3")
	})

	Convey("IPC replies", t, func() {
		data, err := decodeResponse([]byte(`{"data":true,"error":"success"}`))
		So(err, ShouldBeNil)
		So(data, ShouldEqual, true)

		_, err = decodeResponse([]byte(`{"error":"property unavailable"}`))
		So(err, ShouldNotBeNil)

		payload, err := encodeCommand([]interface{}{"set_property", "pause", false})
		So(err, ShouldBeNil)
		So(string(payload), ShouldEqual, "{\"command\":[\"set_property\",\"pause\",false]}\n")
	})

	Convey("Property changes become state events", t, func() {
		rec := &recorder{}
		p := &mpvPlayer{sink: rec.sink}
		el := NewEventListener("", p.onProperty)

		el.processEvent([]byte(`{"event":"property-change","id":1,"name":"pause","data":false}`))
		el.processEvent([]byte(`{"event":"property-change","id":1,"name":"pause","data":false}`))
		el.processEvent([]byte(`{"event":"property-change","id":3,"name":"paused-for-cache","data":true}`))
		el.processEvent([]byte(`{"event":"property-change","id":2,"name":"eof-reached","data":true}`))
		el.processEvent([]byte(`{"data":null,"error":"success"}`))
		el.processEvent([]byte(`not json`))

		So(rec.states(), ShouldResemble, []State{StatePlaying, StateBuffering, StateEnded})
	})
}

func TestMPVStartFailure(t *testing.T) {
	Convey("Given an mpv binary that does not exist", t, func() {
		provider := &MPV{bin: "/nonexistent/reelfeed-mpv"}
		events := make(chan Event, 4)

		inst, err := provider.NewPlayer("t-1", "dQw4w9WgXcQ", func(ev Event) { events <- ev })
		So(err, ShouldBeNil)
		So(inst, ShouldNotBeNil)

		Convey("The player reports that it failed to start", func() {
			select {
			case ev := <-events:
				So(ev.Kind, ShouldEqual, EventFailed)
				So(ev.Err.Error(), ShouldContainSubstring, "start mpv")
			case <-time.After(5 * time.Second):
				So("no event", ShouldBeEmpty)
			}

			So(inst.Play(), ShouldNotBeNil)
		})
	})
}
