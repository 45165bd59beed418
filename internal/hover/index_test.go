package hover

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNearest_WithinRadius(t *testing.T) {
	ix := Build([]Point{
		{X: 10, Y: 10, Series: 0, Index: 0},
		{X: 50, Y: 12, Series: 0, Index: 1},
		{X: 52, Y: 40, Series: 1, Index: 0},
		{X: math.NaN(), Y: 3, Series: 1, Index: 1},
	})
	require.Equal(t, 3, ix.Len())

	p, d, ok := ix.Nearest(49, 14, 12)
	require.True(t, ok)
	assert.Equal(t, Point{X: 50, Y: 12, Series: 0, Index: 1}, p)
	assert.InDelta(t, math.Sqrt(5), d, 1e-12)

	_, _, ok = ix.Nearest(200, 200, 12)
	assert.False(t, ok)
}

func TestNearest_Empty(t *testing.T) {
	_, _, ok := Build(nil).Nearest(0, 0, 100)
	assert.False(t, ok)

	var ix *Index
	_, _, ok = ix.Nearest(0, 0, 100)
	assert.False(t, ok)
}

func TestNearest_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pts := make([]Point, 500)
	for i := range pts {
		pts[i] = Point{X: rng.Float64() * 800, Y: rng.Float64() * 400, Index: i}
	}
	ref := append([]Point(nil), pts...)
	ix := Build(pts)

	for q := 0; q < 50; q++ {
		x, y := rng.Float64()*800, rng.Float64()*400
		best := math.Inf(1)
		for _, p := range ref {
			best = math.Min(best, math.Hypot(p.X-x, p.Y-y))
		}
		_, d, ok := ix.Nearest(x, y, math.Inf(1))
		require.True(t, ok)
		assert.InDelta(t, best, d, 1e-9)
	}
}
