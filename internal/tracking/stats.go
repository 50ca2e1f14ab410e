package tracking

import "gonum.org/v1/gonum/stat"

// Summary holds off-hot-path statistics about the current track table,
// computed after a Step call for logging/metrics purposes only —
// nothing in the association/emission hot path depends on it.
type Summary struct {
	Active        int
	AverageHits   float64
	AverageAge    float64
}

// Summarize computes Summary from the tracker's current table. It uses
// gonum/stat rather than a hand-rolled mean because this runs once per
// frame off the hot path, unlike the per-column argmax in extract,
// which stays hand-rolled to avoid a float32->float64 copy every frame
// (see DESIGN.md).
func Summarize(t *Tracker) Summary {
	var hits, ages []float64
	for _, tr := range t.tracks {
		if !tr.Active {
			continue
		}
		hits = append(hits, float64(tr.Hits))
		ages = append(ages, float64(tr.Age))
	}
	if len(hits) == 0 {
		return Summary{}
	}
	return Summary{
		Active:      len(hits),
		AverageHits: stat.Mean(hits, nil),
		AverageAge:  stat.Mean(ages, nil),
	}
}
