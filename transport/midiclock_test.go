package transport

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeMIDIOut struct {
	mu        sync.Mutex
	starts    int
	stops     int
	clocks    int
	failStart error
}

func (f *fakeMIDIOut) SendStart() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failStart != nil {
		return f.failStart
	}
	f.starts++
	return nil
}

func (f *fakeMIDIOut) SendStop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	return nil
}

func (f *fakeMIDIOut) SendClock() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clocks++
	return nil
}

func (f *fakeMIDIOut) counters() (starts, stops, clocks int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts, f.stops, f.clocks
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	for deadline := time.Now().Add(2 * time.Second); time.Now().Before(deadline); {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func closeMIDIClock(t *testing.T, broker *Broker) {
	t.Helper()
	TrySend(broker.CloseMIDI, struct{}{})
	select {
	case <-broker.FinishedMIDI:
	case <-time.After(time.Second):
		t.Fatal("MIDI clock goroutine did not finish")
	}
}

func TestMIDIClockInterval(t *testing.T) {
	if got, want := clockInterval(120), time.Minute/(24*120); got != want {
		t.Errorf("clock interval at 120 bpm is %v, want %v", got, want)
	}
	if got, want := clockInterval(0), time.Minute/24; got != want {
		t.Errorf("clock interval at 0 bpm is %v, want %v", got, want)
	}
}

func TestMIDIClockRuns(t *testing.T) {
	broker := NewBroker()
	out := &fakeMIDIOut{}
	go RunMIDIClock(broker, out)
	broker.ToMIDI <- ClockStartMsg{BPM: 250} // a clock every 10 ms
	waitFor(t, "timing clocks", func() bool { _, _, clocks := out.counters(); return clocks >= 5 })
	if starts, _, _ := out.counters(); starts != 1 {
		t.Errorf("%d start messages sent, want 1", starts)
	}
	broker.ToMIDI <- ClockStopMsg{}
	waitFor(t, "the stop message", func() bool { _, stops, _ := out.counters(); return stops == 1 })
	_, _, clocksAtStop := out.counters()
	time.Sleep(100 * time.Millisecond)
	if _, _, clocks := out.counters(); clocks != clocksAtStop {
		t.Errorf("clocks kept flowing after stop: %d then %d", clocksAtStop, clocks)
	}
	closeMIDIClock(t, broker)
}

func TestMIDIClockStartError(t *testing.T) {
	broker := NewBroker()
	out := &fakeMIDIOut{failStart: errors.New("port gone")}
	go RunMIDIClock(broker, out)
	broker.ToMIDI <- ClockStartMsg{BPM: 120}
	msg, ok := TimeoutReceive(broker.ToModel, time.Second)
	if !ok {
		t.Fatal("no alert after the start failed")
	}
	alert, isAlert := msg.Data.(Alert)
	if !isAlert || alert.Name != "MIDIClock" || alert.Priority != Warning {
		t.Fatalf("got %+v, want a MIDIClock warning", msg)
	}
	time.Sleep(50 * time.Millisecond)
	if _, _, clocks := out.counters(); clocks != 0 {
		t.Errorf("%d clocks sent despite the failed start", clocks)
	}
	closeMIDIClock(t, broker)
}

func TestMIDIClockNilOutput(t *testing.T) {
	broker := NewBroker()
	go RunMIDIClock(broker, nil)
	broker.ToMIDI <- ClockStartMsg{BPM: 120}
	broker.ToMIDI <- ClockStopMsg{}
	closeMIDIClock(t, broker)
}
