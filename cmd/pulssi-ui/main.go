package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gioui.org/app"

	"github.com/vkuusisto/pulssi/cmd"
	"github.com/vkuusisto/pulssi/oto"
	"github.com/vkuusisto/pulssi/transport"
	"github.com/vkuusisto/pulssi/ui"
	"github.com/vkuusisto/pulssi/version"
)

var configPath = flag.String("config", transport.DefaultConfigPath(), "Path of the settings `file`. An empty path disables persistence.")
var midiInput = flag.String("midi-input", "", "Forward note ons from the MIDI input with matching name prefix as tap tempo taps.")
var midiOutput = flag.String("midi-output", "", "Send MIDI beat clock to the output with matching name prefix.")
var versionFlag = flag.Bool("v", false, "Print version.")

func main() {
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
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
	model := transport.NewModel(broker, *configPath)
	player := transport.NewPlayer(broker, oto.NewContext())
	go player.Run()
	go transport.RunMIDIClock(broker, midiOut)

	metronome := ui.NewMetronome(model, broker)
	go func() {
		metronome.Main()
		model.Stop()
		transport.TrySend(broker.ClosePlayer, struct{}{})
		transport.TrySend(broker.CloseMIDI, struct{}{})
		transport.TimeoutReceive(broker.FinishedPlayer, 3*time.Second)
		transport.TimeoutReceive(broker.FinishedMIDI, 3*time.Second)
		midiContext.Close()
		model.SaveSettings()
		os.Exit(0)
	}()
	app.Main()
}
