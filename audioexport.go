package pulssi

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/viterin/vek/vek32"
)

// RenderMeasures renders a click track offline: the given number of full
// measures, preceded by the count-in when the settings enable one. The
// buffer holds exactly the ticks the live scheduler would play. Muted and
// latency compensation concern live monitoring only and are ignored here.
func RenderMeasures(s Settings, measures int) AudioBuffer {
	s = s.Clamp()
	if measures < 1 {
		measures = 1
	}
	bank := MakeBank(s.Timbre, s.Volume)
	ticks := measures * s.BeatsPerMeasure * int(s.Subdivision)
	seconds := float64(measures*s.BeatsPerMeasure) * s.SecondsPerBeat()
	if s.CountIn {
		ticks += s.CountInBeats()
		seconds += float64(s.CountInBeats()) * s.SecondsPerBeat()
	}
	buf := make(AudioBuffer, int(math.Ceil(seconds*SampleRate)))
	cursor := StartCursor(0, s)
	for i := 0; i < ticks; i++ {
		accented := cursor.CountingIn || (cursor.SubTick == 1 && Accented(s.Accent, cursor.Beat))
		click := bank.Click(accented, cursor.SubTick)
		at := int(math.Round(cursor.NextTime * SampleRate))
		if n := min(len(click), len(buf)-at); n > 0 {
			vek32.Add_Inplace(buf[at:at+n], click[:n])
		}
		cursor.Advance(s)
	}
	return buf
}

// Wav encodes the buffer as a mono RIFF wave file: 16-bit signed PCM when
// pcm16 is set, 32-bit IEEE float otherwise.
func Wav(buffer AudioBuffer, pcm16 bool) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := writeWavHeader(len(buffer), pcm16, buf); err != nil {
		return nil, fmt.Errorf("Wav failed: %v", err)
	}
	buf.Write(sampleBytes(buffer, pcm16))
	return buf.Bytes(), nil
}

// Raw encodes the bare samples in the same two formats, with no header.
func Raw(buffer AudioBuffer, pcm16 bool) ([]byte, error) {
	return sampleBytes(buffer, pcm16), nil
}

func sampleBytes(data AudioBuffer, pcm16 bool) []byte {
	if !pcm16 {
		out := make([]byte, 4*len(data))
		for i, v := range data {
			binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(v))
		}
		return out
	}
	out := make([]byte, 2*len(data))
	for i, v := range data {
		s := min(max(int(v*math.MaxInt16), math.MinInt16), math.MaxInt16)
		binary.LittleEndian.PutUint16(out[2*i:], uint16(int16(s)))
	}
	return out
}

// writeWavHeader writes the RIFF chunks that precede the sample data of a
// mono 44100 Hz wave file. Float files additionally carry the extended
// fmt chunk and a fact chunk. Refer to:
// http://www-mmsp.ece.mcgill.ca/Documents/AudioFormats/WAVE/WAVE.html
func writeWavHeader(samples int, pcm16 bool, buf *bytes.Buffer) error {
	type fmtChunk struct {
		WaveFormat    uint16
		NumChannels   uint16
		SampleRate    uint32
		BytesPerSec   uint32
		BlockAlign    uint16
		BitsPerSample uint16
	}
	bytesPerSample := 4
	format := fmtChunk{WaveFormat: 3, NumChannels: 1} // IEEE float
	if pcm16 {
		bytesPerSample = 2
		format.WaveFormat = 1 // PCM
	}
	format.SampleRate = SampleRate
	format.BytesPerSec = uint32(SampleRate * bytesPerSample)
	format.BlockAlign = uint16(bytesPerSample)
	format.BitsPerSample = uint16(8 * bytesPerSample)
	dataSize := uint32(samples * bytesPerSample)
	write := func(fields ...any) error {
		for _, f := range fields {
			if err := binary.Write(buf, binary.LittleEndian, f); err != nil {
				return err
			}
		}
		return nil
	}
	if pcm16 {
		return write([]byte("RIFF"), 36+dataSize, []byte("WAVE"),
			[]byte("fmt "), uint32(16), format,
			[]byte("data"), dataSize)
	}
	return write([]byte("RIFF"), 50+dataSize, []byte("WAVE"),
		[]byte("fmt "), uint32(18), format, uint16(0),
		[]byte("fact"), uint32(4), uint32(samples),
		[]byte("data"), dataSize)
}
