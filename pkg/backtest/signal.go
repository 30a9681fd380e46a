package backtest

// signalMode is the entry rule in effect for a run, resolved once from the
// two indicator toggles instead of re-branching on them every bar.
type signalMode uint8

const (
	// Heikin-Ashi direction confirmed by the OBV oscillator.
	modeObvHeikinAshi signalMode = iota
	// Heikin-Ashi direction plus a rise/fall check against the previous
	// Heikin-Ashi close.
	modeHeikinAshi
	// OBV oscillator direction alone.
	modeObv
	// Raw close-over-close momentum with the bar closing beyond its open.
	modeMomentum
)

func resolveSignalMode(useOBV, useHeikinAshi bool) signalMode {
	switch {
	case useOBV && useHeikinAshi:
		return modeObvHeikinAshi
	case useHeikinAshi:
		return modeHeikinAshi
	case useOBV:
		return modeObv
	default:
		return modeMomentum
	}
}

// signalInputs is the per-bar window the entry rules look at.
type signalInputs struct {
	bullishHA   bool
	obvSignal   int
	haClose     float64
	prevHAClose float64
	hasPrevHA   bool
	open        float64
	close       float64
	prevClose   float64
}

// evaluate returns the buy/sell decision for the current bar. The two flags
// are mutually exclusive in every mode.
func (m signalMode) evaluate(in signalInputs) (buy, sell bool) {
	switch m {
	case modeObvHeikinAshi:
		buy = in.bullishHA && in.obvSignal > 0
		sell = !in.bullishHA && in.obvSignal < 0
	case modeHeikinAshi:
		// A missing previous Heikin-Ashi close passes the rise/fall check.
		// That lets the very first transformed bar fire an entry on its
		// direction alone; see DESIGN.md before changing it.
		buy = in.bullishHA && (!in.hasPrevHA || in.haClose > in.prevHAClose)
		sell = !in.bullishHA && (!in.hasPrevHA || in.haClose < in.prevHAClose)
	case modeObv:
		buy = in.obvSignal > 0
		sell = in.obvSignal < 0
	case modeMomentum:
		buy = in.close > in.prevClose && in.close > in.open
		sell = in.close < in.prevClose && in.close < in.open
	}
	return buy, sell
}
