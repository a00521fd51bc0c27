package raadev

import (
	"flag"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloatArrayFlags(t *testing.T) {
	f := FloatArrayFlags{Array: []float64{0, 100}}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Var(&f, "edges", "bin edges")

	require.NoError(t, fs.Parse([]string{"-edges", "0,1, 2", "-edges", "5"}))
	assert.Equal(t, []float64{0, 1, 2, 5}, f.Array)
	assert.True(t, f.IsSet())
	assert.Equal(t, "[0 1 2 5]", f.String())

	assert.Error(t, f.Set("x"))
}

func TestFloatArrayFlags_Default(t *testing.T) {
	f := FloatArrayFlags{Array: []float64{1, 2}}
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Var(&f, "pt-edges", "pt bin edges")

	require.NoError(t, fs.Parse(nil))
	assert.Equal(t, []float64{1, 2}, f.Array)
	assert.False(t, f.IsSet())
	assert.Equal(t, "floats", fs.Lookup("pt-edges").Value.Type())
}
