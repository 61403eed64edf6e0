package bench

import "math"

// Stats summarizes repeated samples of one metric. Field names match the
// history file layout.
type Stats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Calc returns nil for an empty sample set. StdDev is the population
// standard deviation.
func Calc(v []float64) *Stats {
	if len(v) == 0 {
		return nil
	}
	s := Stats{Min: v[0], Max: v[0]}
	var sum float64
	for _, x := range v {
		sum += x
		s.Min = math.Min(s.Min, x)
		s.Max = math.Max(s.Max, x)
	}
	s.Mean = sum / float64(len(v))
	var sq float64
	for _, x := range v {
		sq += (x - s.Mean) * (x - s.Mean)
	}
	s.StdDev = math.Sqrt(sq / float64(len(v)))
	return &s
}
