package pulssi_test

import (
	"math"
	"testing"

	"github.com/vkuusisto/pulssi"
)

func TestBankPeakOrdering(t *testing.T) {
	for timbre := pulssi.TimbreClick; timbre <= pulssi.TimbreCowbell; timbre++ {
		bank := pulssi.MakeBank(timbre, 1)
		accent, _ := clickPeak(bank.Accent)
		beat, _ := clickPeak(bank.Beat)
		tick, _ := clickPeak(bank.Tick)
		if !(accent > beat && beat > tick) {
			t.Errorf("%v: peaks accent %g beat %g tick %g, want descending", timbre, accent, beat, tick)
		}
		if tick <= 0 {
			t.Errorf("%v: tick click is silent", timbre)
		}
	}
}

func TestBankVolume(t *testing.T) {
	full := pulssi.MakeBank(pulssi.TimbreClick, 1)
	half := pulssi.MakeBank(pulssi.TimbreClick, 0.5)
	for i := range full.Accent {
		if math.Abs(float64(half.Accent[i]-full.Accent[i]*0.5)) > 1e-6 {
			t.Fatalf("sample %d: %g at half volume, %g at full", i, half.Accent[i], full.Accent[i])
		}
	}
	silent := pulssi.MakeBank(pulssi.TimbreClick, 0)
	if peak, _ := clickPeak(silent.Accent); peak != 0 {
		t.Errorf("bank at volume 0 peaks at %g", peak)
	}
}

func TestBankClickSelection(t *testing.T) {
	bank := pulssi.MakeBank(pulssi.TimbreWood, 0.7)
	for _, tt := range []struct {
		accented bool
		subTick  int
		want     pulssi.AudioBuffer
	}{
		{true, 1, bank.Accent},
		{true, 3, bank.Accent},
		{false, 1, bank.Beat},
		{false, 2, bank.Tick},
		{false, 4, bank.Tick},
	} {
		got := bank.Click(tt.accented, tt.subTick)
		if &got[0] != &tt.want[0] {
			t.Errorf("Click(%v, %d) returned the wrong buffer", tt.accented, tt.subTick)
		}
	}
}

func TestBankTimbresDiffer(t *testing.T) {
	click := pulssi.MakeBank(pulssi.TimbreClick, 1)
	wood := pulssi.MakeBank(pulssi.TimbreWood, 1)
	same := true
	for i := range click.Accent {
		if click.Accent[i] != wood.Accent[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("click and wood accents render identically")
	}
}

func TestBankInvalidTimbre(t *testing.T) {
	got := pulssi.MakeBank(pulssi.Timbre(99), 1)
	want := pulssi.MakeBank(pulssi.TimbreClick, 1)
	for i := range want.Accent {
		if got.Accent[i] != want.Accent[i] {
			t.Fatalf("unknown timbre does not fall back to click at sample %d", i)
		}
	}
}
