package contracts

// ScoreColumn describes the attribute that determines the display/sort
// order of a ranking. Key points either at a raw instrument column or at a
// derived field; it exists on every entry that survived the strategy.
type ScoreColumn struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	IsPercent bool   `json:"pct"`
}

// RankedEntry is one row of a strategy result: the original instrument plus
// the derived fields the strategy computed. Derived keys are prefixed with
// an underscore when they do not mirror a raw column, so they never collide.
// Entries are working copies; the shared universe is never written to.
type RankedEntry struct {
	Instrument
	Derived map[string]float64 `json:"derived,omitempty"`
}

// NewEntry wraps an instrument into a result row
func NewEntry(inst Instrument) RankedEntry {
	return RankedEntry{Instrument: inst, Derived: make(map[string]float64)}
}

// Set stores a derived value on the entry
func (e *RankedEntry) Set(key string, value float64) {
	if e.Derived == nil {
		e.Derived = make(map[string]float64)
	}
	e.Derived[key] = value
}

// Get returns a derived value
func (e *RankedEntry) Get(key string) (float64, bool) {
	v, ok := e.Derived[key]
	return v, ok
}

// Result is the response of one strategy invocation. It is always well
// formed: failures surface as caveats and an empty ranking, never as an
// error crossing the dispatcher boundary.
type Result struct {
	Ranking     []RankedEntry `json:"ranking"`
	ScoreColumn ScoreColumn   `json:"score_column"`
	Caveats     []string      `json:"caveats"`
	TotalCount  int           `json:"total_count"`
}

// Empty returns true when no instrument survived the strategy filters
func (r *Result) Empty() bool {
	return r.TotalCount == 0
}
