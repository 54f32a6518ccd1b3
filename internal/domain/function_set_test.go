package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddFunctionDuplicateLabel(t *testing.T) {
	s := NewFunctionSet("fs0")
	require.NoError(t, s.AddFunction(NewFunction("Gaussian", "disk")))

	err := s.AddFunction(NewFunction("Exponential", "disk"))
	require.ErrorIs(t, err, ErrDuplicateName)

	require.ErrorIs(t, s.AddFunction(nil), ErrTypeMismatch)

	require.NoError(t, s.AddFunction(NewFunction("Exponential", "outer disk")))
	require.Equal(t, []string{"Gaussian", "Exponential"}, s.FunctionTypes())
}

func TestFunctionSetParameterList(t *testing.T) {
	s := NewFunctionSet("fs0")
	require.NoError(t, s.X0().SetValue(10, false))
	require.NoError(t, s.Y0().SetValue(20, false))

	f := NewFunction("Gaussian", "")
	require.NoError(t, f.AddParameter(NewParameter("PA", 0)))
	require.NoError(t, f.AddParameter(NewParameter("sigma", 2)))
	require.NoError(t, s.AddFunction(f))

	params := s.ParameterList()
	require.Len(t, params, 4)
	require.Equal(t, "X0", params[0].Name())
	require.Equal(t, "Y0", params[1].Name())
	require.Equal(t, "PA", params[2].Name())
	require.Equal(t, "sigma", params[3].Name())

	// the list exposes the owned entries, not copies
	require.Same(t, s.X0(), params[0])
}

func TestFunctionSetEqual(t *testing.T) {
	build := func() *FunctionSet {
		s := NewFunctionSet("fs0")
		require.NoError(t, s.X0().SetValue(10, false))
		require.NoError(t, s.Y0().SetValue(20, false))
		require.NoError(t, s.AddFunction(NewFunction("Gaussian", "disk")))
		return s
	}

	a, b := build(), build()
	require.True(t, a.Equal(b))

	require.NoError(t, b.X0().SetValue(11, false))
	require.False(t, a.Equal(b))

	c := build()
	require.NoError(t, c.AddFunction(NewFunction("Sersic", "bulge")))
	require.False(t, a.Equal(c))
}

func TestFunctionSetCopyIndependence(t *testing.T) {
	s := NewFunctionSet("fs0")
	require.NoError(t, s.X0().SetValue(10, false))
	f := gaussian(t)
	require.NoError(t, s.AddFunction(f))

	c := s.Copy()
	require.True(t, s.Equal(c))

	require.NoError(t, c.X0().SetValue(99, false))
	require.Equal(t, 10.0, s.X0().Value())

	cf, ok := c.Function("disk")
	require.True(t, ok)
	cp, _ := cf.Parameter("sigma")
	require.NoError(t, cp.SetValue(7, false))

	sp, _ := f.Parameter("sigma")
	require.Equal(t, 2.0, sp.Value())
}
