package raadev

import (
	"math"
	"strconv"

	"gonum.org/v1/plot"
)

// LogScale is a logarithmic plot.Normalizer that tolerates empty bins: an
// axis minimum at or below zero is replaced by Min, or by max*1e-6 if Min is
// not positive, and smaller values are drawn at that minimum.
type LogScale struct {
	Min float64
}

func (s LogScale) Normalize(min, max, x float64) float64 {
	if max <= 0 {
		return 0
	}
	lo := logMin(min, max, s.Min)
	x = math.Max(x, lo)
	return (math.Log(x) - math.Log(lo)) / (math.Log(max) - math.Log(lo))
}

// LogTicks puts labelled ticks on the decades of a log axis and minor ticks
// on their multiples 2..9.
type LogTicks struct {
	Min float64
}

func (t LogTicks) Ticks(min, max float64) []plot.Tick {
	if max <= 0 {
		return nil
	}
	lo := logMin(min, max, t.Min)
	var ticks []plot.Tick
	for e := math.Floor(math.Log10(lo)); e <= math.Ceil(math.Log10(max)); e++ {
		decade := math.Pow10(int(e))
		for m := 1.0; m < 10; m++ {
			v := m * decade
			if v < lo*(1-1e-9) || v > max*(1+1e-9) {
				continue
			}
			tick := plot.Tick{Value: v}
			if m == 1 {
				tick.Label = strconv.FormatFloat(v, 'g', -1, 64)
			}
			ticks = append(ticks, tick)
		}
	}
	return ticks
}

func logMin(min, max, floor float64) float64 {
	if min > 0 {
		return min
	}
	if floor > 0 && floor < max {
		return floor
	}
	return max * 1e-6
}
