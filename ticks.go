package raadev

import (
	"math"
	"strconv"

	"gonum.org/v1/plot"
)

// PreciseTicks places labelled major ticks on round values with about
// NSuggestedTicks labels per axis, plus unlabelled minor ticks in between.
type PreciseTicks struct {
	NSuggestedTicks int
}

func (t PreciseTicks) Ticks(min, max float64) []plot.Tick {
	n := t.NSuggestedTicks
	if n < 2 {
		n = 4
	}
	if !(max > min) || math.IsInf(max-min, 0) {
		return nil
	}

	mult, major := majorStep(min, max, n)
	// decimals needed to print the major ticks exactly
	prec := 1 - int(math.Floor(math.Log10(major)))

	var ticks []plot.Tick
	for k := math.Ceil(min / major); k*major <= max; k++ {
		v := round(k*major, prec)
		ticks = append(ticks, plot.Tick{Value: v, Label: strconv.FormatFloat(v, 'g', -1, 64)})
	}

	perMajor := 2
	switch mult {
	case 3, 6:
		perMajor = 3
	case 5:
		perMajor = 5
	}
	minor := major / float64(perMajor)
	for k := int64(math.Ceil(min / minor)); float64(k)*minor <= max; k++ {
		if k%int64(perMajor) == 0 {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: round(float64(k)*minor, prec+1)})
	}
	return ticks
}

// majorStep returns the distance between major ticks as mult * 10^k.
func majorStep(min, max float64, n int) (int, float64) {
	span := max - min
	tens := math.Pow10(int(math.Floor(math.Log10(span))))
	for span/tens < float64(n-1) {
		tens /= 10
	}
	mult := int(span / tens / float64(n-1))
	switch mult {
	case 0:
		mult = 1
	case 7:
		mult = 6
	case 9:
		mult = 8
	}
	return mult, float64(mult) * tens
}

func round(x float64, prec int) float64 {
	if x == 0 {
		// no negative zero
		return 0
	}
	pow := math.Pow10(prec)
	scaled := x * pow
	if math.IsInf(scaled, 0) {
		return x
	}
	r := math.Round(scaled) / pow
	if r == 0 {
		return 0
	}
	return r
}
