package intercept

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-chasecam/pkg/geom"
)

func TestSolveStationaryTarget(t *testing.T) {
	tests := []struct {
		name   string
		chaser geom.Vec
		target geom.Vec
		speed  float64
	}{
		{"along x", geom.V(0, 0, 0), geom.V(1000, 0, 0), 300},
		{"diagonal", geom.V(10, -20, 5), geom.V(-40, 60, 100), 75},
		{"slow", geom.V(0, 0, 0), geom.V(0, 3, 4), 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sol, ok := Solve(tt.chaser, tt.target, geom.Vec{}, tt.speed)
			require.True(t, ok)
			assert.InDelta(t, geom.Dist(tt.chaser, tt.target)/tt.speed, sol.Time, 1e-9)
			assert.Equal(t, tt.target, sol.Point)
		})
	}
}

func TestSolveEndToEndTime(t *testing.T) {
	sol, ok := Solve(geom.V(0, 0, 0), geom.V(1000, 0, 0), geom.Vec{}, 300)
	require.True(t, ok)
	assert.InDelta(t, 3.333, sol.Time, 1e-3)
}

func TestSolveUnsolvable(t *testing.T) {
	tests := []struct {
		name   string
		target geom.Vec
		vel    geom.Vec
		speed  float64
	}{
		{"zero speed moving away", geom.V(100, 0, 0), geom.V(10, 0, 0), 0},
		{"zero speed stationary", geom.V(100, 0, 0), geom.Vec{}, 0},
		{"faster target fleeing", geom.V(100, 0, 0), geom.V(200, 0, 0), 100},
		{"equal speed fleeing", geom.V(100, 0, 0), geom.V(100, 0, 0), 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Solve(geom.Vec{}, tt.target, tt.vel, tt.speed)
			assert.False(t, ok)
		})
	}
}

func TestSolveMovingTarget(t *testing.T) {
	target := geom.V(100, 0, 0)
	vel := geom.V(0, 30, 0)
	sol, ok := Solve(geom.Vec{}, target, vel, 50)
	require.True(t, ok)

	// The chaser covers exactly speed*t to reach the predicted point.
	assert.InDelta(t, 50*sol.Time, geom.Length(sol.Point), 1e-6)
	assert.InDelta(t, 2.5, sol.Time, 1e-9)
}

func TestSolveLinearCase(t *testing.T) {
	// |V| == s, target approaching head on: t = -c/b.
	sol, ok := Solve(geom.Vec{}, geom.V(100, 0, 0), geom.V(-10, 0, 0), 10)
	require.True(t, ok)
	assert.InDelta(t, 5.0, sol.Time, 1e-9)
	assert.InDelta(t, 50.0, sol.Point.X, 1e-9)
}

func TestLeadBounds(t *testing.T) {
	vel := geom.V(100, 0, 0)

	near := Lead(geom.Vec{}, vel, 1, 300)
	assert.InDelta(t, MinLead*100, near.X, 1e-9)

	far := Lead(geom.Vec{}, vel, 1e5, 300)
	assert.InDelta(t, MaxLead*100, far.X, 1e-9)

	mid := Lead(geom.Vec{}, vel, 60, 300)
	assert.InDelta(t, 0.2*100, mid.X, 1e-9)

	// Speed below 1 is treated as 1.
	slow := Lead(geom.Vec{}, vel, 0.1, 0)
	assert.InDelta(t, 0.1*100, slow.X, 1e-9)
}

func TestPredictFallsBack(t *testing.T) {
	p, solved := Predict(geom.Vec{}, geom.V(100, 0, 0), geom.V(10, 0, 0), 0, 0)
	assert.False(t, solved)
	assert.False(t, math.IsNaN(p.X))
	assert.InDelta(t, 100+10*MaxLead, p.X, 1e-9)

	// The fallback leads by the current speed, not the reachable one.
	p, solved = Predict(geom.Vec{}, geom.V(100, 0, 0), geom.V(10, 0, 0), 5, 1000)
	assert.False(t, solved)
	assert.InDelta(t, 100+10*0.1, p.X, 1e-9)
}

func TestPredictSolved(t *testing.T) {
	p, solved := Predict(geom.Vec{}, geom.V(100, 0, 0), geom.V(0, 100, 0), 200, 0)
	require.True(t, solved)
	sol, ok := Solve(geom.Vec{}, geom.V(100, 0, 0), geom.V(0, 100, 0), 200)
	require.True(t, ok)
	assert.Equal(t, sol.Point, p)
}
