// Package raadev holds command-line and plotting helpers shared by the
// ptemcal and ptspectrum commands.
package raadev

import (
	"fmt"
	"strconv"
	"strings"
)

// FloatArrayFlags collects a list of floats from a repeated flag or from
// comma separated values, e.g. --pt-edges 0,1,2 --pt-edges 5. The first Set
// replaces any default list. It satisfies flag.Value and pflag.Value.
type FloatArrayFlags struct {
	Array   []float64
	beenSet bool
}

func (f *FloatArrayFlags) Set(valueStr string) error {
	var values []float64
	for _, field := range strings.Split(valueStr, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return err
		}
		values = append(values, value)
	}

	if !f.beenSet {
		f.beenSet = true
		f.Array = nil
	}

	f.Array = append(f.Array, values...)
	return nil
}

func (f *FloatArrayFlags) String() string {
	return fmt.Sprint(f.Array)
}

func (f *FloatArrayFlags) Type() string { return "floats" }

// IsSet reports whether the flag was given on the command line.
func (f *FloatArrayFlags) IsSet() bool { return f.beenSet }
