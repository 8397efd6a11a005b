package solver

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewtonSqrt2(Te *testing.T) {
	f := func(x float64) (float64, float64, error) { return x*x - 2, 2 * x, nil }
	s, err := Run(State{X: 1}, Newton(f), DefaultOptions())
	require.NoError(Te, err)
	assert.True(Te, s.Converged)
	assert.InDelta(Te, math.Sqrt2, s.X, 1e-9)
	assert.Less(Te, s.Iter, 10)
}

func TestSecantCubic(Te *testing.T) {
	f := func(x float64) (float64, error) { return x*x*x - x - 1, nil }
	o := DefaultOptions()
	o.Tol = 1e-12
	s, err := Run(State{X: 1}, Secant(f, 2), o)
	require.NoError(Te, err)
	assert.InDelta(Te, 1.324717957244746, s.X, 1e-10)
}

func TestSafeNewtonBracket(Te *testing.T) {
	//Newton from 0.1 on atan overshoots wildly without the bracket.
	f := func(x float64) (float64, float64, error) { return math.Atan(x - 3), 1 / (1 + (x-3)*(x-3)), nil }
	s, err := Run(State{X: -5}, SafeNewton(f, -10, 10), DefaultOptions())
	require.NoError(Te, err)
	assert.InDelta(Te, 3, s.X, 1e-8)
}

func TestIterationCap(Te *testing.T) {
	//x -> x/2 never gets a residual below the tolerance in 5 steps
	up := func(s State) (State, error) { return State{X: s.X / 2, Residual: s.X / 2}, nil }
	o := DefaultOptions()
	o.MaxIter = 5
	s, err := Run(State{X: 1}, up, o)
	require.Error(Te, err)
	var e Error
	require.True(Te, errors.As(err, &e))
	assert.True(Te, e.NotConverged())
	assert.False(Te, e.Critical())
	assert.False(Te, s.Converged)
	assert.Equal(Te, 5, s.Iter)
}

func TestUpdateErrorStops(Te *testing.T) {
	boom := errors.New("boom")
	up := func(s State) (State, error) { return s, boom }
	_, err := Run(State{X: 1}, up, DefaultOptions())
	assert.ErrorIs(Te, err, boom)
}
