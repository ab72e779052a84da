package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/vkuusisto/pulssi"
	"github.com/vkuusisto/pulssi/cmd"
	"github.com/vkuusisto/pulssi/oto"
	"github.com/vkuusisto/pulssi/transport"
	"github.com/vkuusisto/pulssi/version"
)

func main() {
	bpm := flag.Int("bpm", 120, "Tempo in beats per minute.")
	beats := flag.Int("beats", 4, "Beats per measure.")
	sub := flag.Int("sub", 1, "Subdivision ticks per beat (1, 2, 3 or 4).")
	accent := flag.Int("accent", 0, "Accent pattern: 0 accents the first beat of the measure, 1 every beat, 2-4 every Nth beat.")
	vol := flag.Float64("vol", 0.8, "Master volume, 0 to 1.")
	timbre := flag.String("timbre", "click", "Click timbre: click, beep, wood or cowbell.")
	countIn := flag.Bool("countin", false, "Count one measure in before the beat starts.")
	countInMeasures := flag.Int("countin-measures", 1, "Measures to count in.")
	latency := flag.Int("latency", 0, "Output latency compensation in milliseconds.")
	preset := flag.String("preset", "", "Start from the named preset; explicit flags override its fields.")
	listPresets := flag.Bool("list-presets", false, "List the available presets and exit.")
	measures := flag.Int("measures", 4, "Measures to render when writing a file.")
	wavOut := flag.String("w", "", "Render the click track to the given .wav `file` and exit. By default, saves a float32 buffer.")
	rawOut := flag.String("r", "", "Render the click track to the given headerless .raw `file` and exit. By default, saves a float32 buffer.")
	pcm := flag.Bool("c", false, "Convert audio to 16-bit signed PCM when writing files.")
	midiInput := flag.String("midi-input", "", "Forward note ons from the MIDI input with matching name prefix as tap tempo taps.")
	midiOutput := flag.String("midi-output", "", "Send MIDI beat clock to the output with matching name prefix.")
	quiet := flag.Bool("q", false, "Do not print the beat line.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if *listPresets {
		for _, p := range pulssi.LoadPresets() {
			s := p.Settings
			fmt.Printf("%-16s %3d bpm, %d beats, subdivision %d, %s\n",
				p.Name, s.BPM, s.BeatsPerMeasure, s.Subdivision, s.Timbre)
		}
		os.Exit(0)
	}

	settings := pulssi.DefaultSettings()
	if *preset != "" {
		p, ok := pulssi.FindPreset(pulssi.LoadPresets(), *preset)
		if !ok {
			fmt.Fprintf(os.Stderr, "no preset named %q, try -list-presets\n", *preset)
			os.Exit(1)
		}
		settings = p.Settings
	}
	if isFlagPassed("bpm") {
		settings.BPM = *bpm
	}
	if isFlagPassed("beats") {
		settings.BeatsPerMeasure = *beats
	}
	if isFlagPassed("sub") {
		settings.Subdivision = pulssi.Subdivision(*sub)
	}
	if isFlagPassed("accent") {
		settings.Accent = pulssi.AccentPattern(*accent)
	}
	if isFlagPassed("vol") {
		settings.Volume = float32(*vol)
	}
	if isFlagPassed("timbre") {
		settings.Timbre = pulssi.ParseTimbre(*timbre)
	}
	if isFlagPassed("countin") {
		settings.CountIn = *countIn
	}
	if isFlagPassed("countin-measures") {
		settings.CountInMeasures = *countInMeasures
	}
	if isFlagPassed("latency") {
		settings.LatencyMs = *latency
	}
	settings = settings.Clamp()

	if *wavOut != "" || *rawOut != "" {
		buffer := pulssi.RenderMeasures(settings, *measures)
		if *wavOut != "" {
			writeFile(*wavOut, buffer, *pcm, pulssi.Wav)
		}
		if *rawOut != "" {
			writeFile(*rawOut, buffer, *pcm, pulssi.Raw)
		}
		os.Exit(0)
	}

	broker := transport.NewBroker()
	midiContext := cmd.NewMidiContext(broker)
	if *midiInput != "" && !midiContext.TryToOpenInput(*midiInput) {
		fmt.Fprintf(os.Stderr, "MIDI input %q: %s\n", *midiInput, cmd.MidiProblem(midiContext))
	}
	var midiOut transport.MIDIOut
	if *midiOutput != "" {
		if midiOut = midiContext.TryToOpenOutput(*midiOutput); midiOut == nil {
			fmt.Fprintf(os.Stderr, "MIDI output %q: %s\n", *midiOutput, cmd.MidiProblem(midiContext))
		}
	}
	model := transport.NewModel(broker, "")
	model.SetSettings(settings)
	player := transport.NewPlayer(broker, oto.NewContext())
	go player.Run()
	go transport.RunMIDIClock(broker, midiOut)

	sigC := make(chan os.Signal, 1)
	signal.Notify(sigC, os.Interrupt, syscall.SIGTERM)
	model.Start()
	for {
		select {
		case msg := <-broker.ToModel:
			model.ProcessMsg(msg)
			if a, ok := msg.Data.(transport.Alert); ok {
				fmt.Fprintf(os.Stderr, "\r%s\n", a.Message)
				if a.Priority >= transport.Error {
					shutdown(broker, model, midiContext)
					os.Exit(1)
				}
			}
			if msg.HasBeat && !*quiet {
				fmt.Printf("\r%-40s", beatLine(model))
			}
		case <-sigC:
			fmt.Println()
			shutdown(broker, model, midiContext)
			os.Exit(0)
		}
	}
}

func beatLine(m *transport.Model) string {
	if !m.IsPlaying() {
		return "stopped"
	}
	if m.IsCountingIn() {
		return fmt.Sprintf("count-in %d", -m.Beat())
	}
	s := m.Settings()
	var sb strings.Builder
	for i := 1; i <= s.BeatsPerMeasure; i++ {
		if i > 1 {
			sb.WriteByte(' ')
		}
		if i == m.Beat() {
			sb.WriteString("*")
		} else {
			sb.WriteString(".")
		}
	}
	return sb.String()
}

func writeFile(path string, buffer pulssi.AudioBuffer, pcm16 bool, encode func(pulssi.AudioBuffer, bool) ([]byte, error)) {
	data, err := encode(buffer, pcm16)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not encode audio: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "could not write %s: %v\n", path, err)
		os.Exit(1)
	}
}

func shutdown(broker *transport.Broker, model *transport.Model, midiContext transport.MIDIContext) {
	model.Stop()
	transport.TrySend(broker.ClosePlayer, struct{}{})
	transport.TrySend(broker.CloseMIDI, struct{}{})
	transport.TimeoutReceive(broker.FinishedPlayer, 3*time.Second)
	transport.TimeoutReceive(broker.FinishedMIDI, 3*time.Second)
	midiContext.Close()
}

func isFlagPassed(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
