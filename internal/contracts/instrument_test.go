package contracts

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTicker(t *testing.T) {
	cases := map[string]string{
		"petr4":     "PETR4",
		"PETR4.SA":  "PETR4",
		" vale3.sa": "VALE3",
		"HGLG11":    "HGLG11",
	}

	for input, want := range cases {
		if got := NormalizeTicker(input); got != want {
			t.Errorf("NormalizeTicker(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestInstrumentMissingVsZero(t *testing.T) {
	// A zero DY must survive JSON round-trips as zero, while a missing DY
	// must stay missing. Filters depend on the distinction.
	withZero := Instrument{Ticker: "ITSA4", DY: Float(0)}
	withMissing := Instrument{Ticker: "ITSA4"}

	data, err := json.Marshal(withZero)
	assert.NoError(t, err)

	var back Instrument
	assert.NoError(t, json.Unmarshal(data, &back))
	if assert.NotNil(t, back.DY) {
		assert.Equal(t, 0.0, *back.DY)
	}

	data, err = json.Marshal(withMissing)
	assert.NoError(t, err)
	back = Instrument{}
	assert.NoError(t, json.Unmarshal(data, &back))
	assert.Nil(t, back.DY)
}

func TestSnapshotFind(t *testing.T) {
	snap := &Snapshot{
		Class:   ClassAcoes,
		Version: time.Now(),
		Instruments: []Instrument{
			{Ticker: "PETR4"},
			{Ticker: "VALE3"},
		},
	}

	assert.Equal(t, 2, snap.Count())

	inst, ok := snap.Find("vale3.sa")
	assert.True(t, ok)
	assert.Equal(t, "VALE3", inst.Ticker)

	_, ok = snap.Find("BBAS3")
	assert.False(t, ok)
}

func TestRankedEntryDerived(t *testing.T) {
	entry := NewEntry(Instrument{Ticker: "WEGE3"})
	entry.Set("_score", 12.0012)

	v, ok := entry.Get("_score")
	assert.True(t, ok)
	assert.Equal(t, 12.0012, v)

	_, ok = entry.Get("_upside")
	assert.False(t, ok)
}
