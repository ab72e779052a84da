package transport

import (
	"fmt"
	"sync"
	"time"

	"github.com/vkuusisto/pulssi"
)

type (
	// Player is the click scheduler, run in a separate goroutine. It is
	// controlled by messages from the model and converts the current
	// settings into sample accurate clicks on the audio sink. The player
	// polls on a coarse wall clock ticker, but every click is placed on the
	// sink's own sample clock up to the look-ahead horizon, so the audible
	// beat does not inherit the jitter of the poll. The player sends beat
	// updates to the model via the broker; each update is armed on a timer
	// so it lands when its click becomes audible, not when it was scheduled.
	Player struct {
		settings pulssi.Settings // settings snapshot the clicks are scheduled from
		bank     pulssi.Bank     // rendered clicks of the current timbre and volume
		cursor   pulssi.Cursor   // position of the next unscheduled tick
		state    playState
		audio    pulssi.AudioContext // opens the sink on the first start
		sink     pulssi.Sink         // nil until the first start
		timers   beatTimers
		ticker   *time.Ticker // nil until the first start
		tickC    <-chan time.Time

		broker *Broker
	}

	// StartMsg asks the player to start playing. It is a no-op if the
	// player is already playing.
	StartMsg struct{}

	// StopMsg asks the player to stop. Stopping twice is fine; the player
	// confirms beat 0 to the model either way.
	StopMsg struct{}

	playState int
)

const (
	stateIdle playState = iota
	stateCountingIn
	stateRunning
)

const (
	// pollInterval is how often the player wakes up to extend the scheduled
	// audio. Settings changes are observed at this granularity.
	pollInterval = 25 * time.Millisecond
	// lookAhead is how far past the sink clock clicks are scheduled,
	// in seconds. It must comfortably exceed the poll interval so a late
	// poll never leaves the sink starved.
	lookAhead = 0.150
	// lateNudge is how far into the future a click that should have already
	// started is pushed, in seconds.
	lateNudge = 0.005
	// stallLimit is the lag, in seconds, past which the player assumes the
	// host slept and fast-forwards the cursor silently instead of playing
	// every missed click.
	stallLimit = 0.5
)

func NewPlayer(broker *Broker, audio pulssi.AudioContext) *Player {
	p := &Player{
		broker:   broker,
		audio:    audio,
		settings: pulssi.DefaultSettings(),
	}
	p.timers.broker = broker
	return p
}

// Run is the player goroutine. It returns after ClosePlayer is signaled,
// closing FinishedPlayer on the way out.
func (p *Player) Run() {
	defer close(p.broker.FinishedPlayer)
	for {
		select {
		case msg := <-p.broker.ToPlayer:
			p.handleMsg(msg)
		case <-p.tickC:
			if p.state != stateIdle {
				p.schedule()
			}
		case <-p.broker.ClosePlayer:
			p.stopPlaying()
			if p.sink != nil {
				p.sink.Close()
			}
			return
		}
	}
}

func (p *Player) handleMsg(msg any) {
	switch m := msg.(type) {
	case StartMsg:
		p.startPlaying()
	case StopMsg:
		p.stopPlaying()
	case pulssi.Settings:
		p.applySettings(m)
	default:
		// unknown messages are dropped
	}
}

func (p *Player) startPlaying() {
	if p.state != stateIdle {
		return
	}
	if p.sink == nil {
		sink, err := p.audio.Open()
		if err != nil {
			p.SendAlert("AudioOpen", fmt.Sprintf("opening audio output: %v", err), Error)
			p.stopPlaying() // confirm not playing to the model
			return
		}
		p.sink = sink
	}
	if p.bank.Accent == nil {
		p.bank = pulssi.MakeBank(p.settings.Timbre, p.settings.Volume)
	}
	p.cursor = pulssi.StartCursor(p.sink.Now(), p.settings)
	p.state = stateRunning
	if p.cursor.CountingIn {
		p.state = stateCountingIn
	}
	p.timers.reset()
	if p.ticker == nil {
		p.ticker = time.NewTicker(pollInterval)
		p.tickC = p.ticker.C
	} else {
		p.ticker.Reset(pollInterval)
		p.tickC = p.ticker.C
	}
	p.schedule()
}

func (p *Player) stopPlaying() {
	if p.state != stateIdle {
		p.ticker.Stop()
		p.tickC = nil
		p.timers.stopAll()
		p.state = stateIdle
	}
	p.send(MsgToModel{HasBeat: true, Beat: 0})
}

// applySettings takes a new settings snapshot into use. Audio is only
// re-rendered when the timbre or volume changed. A tempo or subdivision
// change while playing re-anchors the next tick to the present so the new
// grid takes effect without replaying or skipping already scheduled clicks.
func (p *Player) applySettings(s pulssi.Settings) {
	old := p.settings
	p.settings = s
	if p.bank.Accent != nil && (s.Timbre != old.Timbre || s.Volume != old.Volume) {
		p.bank = pulssi.MakeBank(s.Timbre, s.Volume)
	}
	if p.state == stateIdle {
		return
	}
	if s.BPM != old.BPM || s.Subdivision != old.Subdivision {
		p.cursor.NextTime = p.sink.Now()
		if s.Subdivision != old.Subdivision {
			p.cursor.SubTick = 1
		}
	}
	if p.cursor.Beat > s.BeatsPerMeasure {
		p.cursor.Beat = 1
	}
}

// schedule advances the cursor over every tick that falls within the
// look-ahead window, handing its click to the sink and arming the visual
// beat timer. Called once per poll and immediately on start.
func (p *Player) schedule() {
	now := p.sink.Now()
	s := p.settings
	if p.cursor.NextTime < now-stallLimit {
		for p.cursor.NextTime < now {
			p.advanceCursor()
		}
	}
	horizon := now + lookAhead + s.Latency()
	for p.cursor.NextTime < horizon {
		countIn := p.cursor.CountingIn
		accented := countIn || (p.cursor.SubTick == 1 && pulssi.Accented(s.Accent, p.cursor.Beat))
		playAt := p.cursor.NextTime - s.Latency()
		if playAt < now {
			playAt = now + lateNudge
		}
		if !s.Muted {
			p.sink.PlayAt(p.bank.Click(accented, p.cursor.SubTick), playAt)
		}
		if countIn || p.cursor.SubTick == 1 {
			delay := time.Duration(max(playAt-now, 0) * float64(time.Second))
			p.timers.arm(delay, MsgToModel{
				HasBeat:    true,
				Beat:       p.cursor.VisualBeat(s),
				Playing:    true,
				CountingIn: countIn,
			})
		}
		p.advanceCursor()
	}
}

func (p *Player) advanceCursor() {
	p.cursor.Advance(p.settings)
	if p.state == stateCountingIn && !p.cursor.CountingIn {
		p.state = stateRunning
	}
}

func (p *Player) SendAlert(name, message string, priority AlertPriority) {
	p.send(MsgToModel{Data: Alert{
		Name:     name,
		Message:  message,
		Priority: priority,
		Duration: defaultAlertDuration,
	}})
}

// all sends from the player are non-blocking, so the player goroutine can
// never deadlock against a stuck consumer
func (p *Player) send(msg MsgToModel) {
	TrySend(p.broker.ToModel, msg)
}

// beatTimers delivers beat updates at the moment their click becomes
// audible. stopAll guarantees that no update is delivered after it
// returns; the guarantee comes from marking stopped under the same mutex
// the timer callbacks take before sending.
type beatTimers struct {
	mu      sync.Mutex
	stopped bool
	timers  []*time.Timer
	broker  *Broker
}

func (t *beatTimers) arm(d time.Duration, msg MsgToModel) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	var tm *time.Timer
	tm = time.AfterFunc(d, func() {
		// the send happens with mu held, so once stopAll returns no
		// further beat update can be enqueued behind its back
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.stopped {
			return
		}
		t.remove(tm)
		TrySend(t.broker.ToModel, msg)
	})
	t.timers = append(t.timers, tm)
}

// remove drops a fired timer from the pending list. Called with mu held.
func (t *beatTimers) remove(tm *time.Timer) {
	for i, other := range t.timers {
		if other == tm {
			t.timers = append(t.timers[:i], t.timers[i+1:]...)
			return
		}
	}
}

func (t *beatTimers) stopAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	for _, tm := range t.timers {
		tm.Stop()
	}
	t.timers = nil
}

func (t *beatTimers) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = false
	t.timers = t.timers[:0]
}
