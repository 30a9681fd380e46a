package common

// EquityPoint is one sample of the running capital, emitted once per replayed
// bar.
type EquityPoint struct {
	Time  int64   `json:"time"`
	Value float64 `json:"value"`
}
