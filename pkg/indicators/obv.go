package indicators

// Obv accumulates signed close-to-close deltas into a running total. Despite
// the name it uses no volume: a rising close adds the price delta, a falling
// close subtracts it, an unchanged close leaves the total untouched. The
// running total after every update is kept for lookback comparisons.
type Obv struct {
	total     float64
	values    []float64
	prevClose float64
	primed    bool
}

func NewObv() *Obv {
	return &Obv{}
}

// OnClose feeds the next close. The very first close only primes the
// reference level and produces no accumulated value.
func (o *Obv) OnClose(close float64) {
	if o.primed {
		switch {
		case close > o.prevClose:
			o.total += close - o.prevClose
		case close < o.prevClose:
			o.total -= o.prevClose - close
		}
		o.values = append(o.values, o.total)
	} else {
		o.primed = true
	}
	o.prevClose = close
}

// Signal compares the mean of the most recent period values against the mean
// of the period values before that: +1 when momentum is rising, -1 when
// falling, 0 when equal or when fewer than period+1 values have accumulated.
func (o *Obv) Signal(period int) int {
	n := len(o.values)
	if n < period+1 {
		return 0
	}

	recent := o.values[n-period:]
	start := n - 2*period
	if start < 0 {
		start = 0
	}
	older := o.values[start : n-period]

	if len(older) == 0 {
		if o.values[n-1] > 0 {
			return 1
		}
		return -1
	}

	recentMean := mean(recent)
	olderMean := mean(older)
	switch {
	case recentMean > olderMean:
		return 1
	case recentMean < olderMean:
		return -1
	}
	return 0
}

func (o *Obv) Total() float64 {
	return o.total
}

func (o *Obv) Len() int {
	return len(o.values)
}

func (o *Obv) Reset() {
	o.total = 0
	o.values = nil
	o.prevClose = 0
	o.primed = false
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
