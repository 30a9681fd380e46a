package common

// Signal is a directional entry decision produced for a bar.
type Signal struct {
	Side  PositionSide `json:"side"`
	Price float64      `json:"price"`
	Time  int64        `json:"time"`
}
