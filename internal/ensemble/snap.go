package ensemble

import "math"

var intervalScaleGrid = [5]float64{0.5, 0.8, 1.0, 1.2, 1.5}

func nearest(v float64, grid []float64) float64 {
	best := grid[0]
	bestDist := math.Abs(v - grid[0])
	for _, g := range grid[1:] {
		if d := math.Abs(v - g); d < bestDist {
			best, bestDist = g, d
		}
	}
	return best
}

func snapIntervalScale(v float64) float64 {
	return nearest(v, intervalScaleGrid[:])
}

func snapNewRatio(v float64) float64 {
	return nearest(v, newRatioGrid[:])
}

func snapBatchSize(v int) int {
	grid := make([]float64, len(batchSizeGrid))
	for i, g := range batchSizeGrid {
		grid[i] = float64(g)
	}
	return int(nearest(float64(v), grid))
}

// snapBatchSizeInRange snaps onto the subset of the batch grid within
// [lo,hi]; if that subset is empty, returns lo.
func snapBatchSizeInRange(v, lo, hi int) int {
	var grid []float64
	for _, g := range batchSizeGrid {
		if g >= lo && g <= hi {
			grid = append(grid, float64(g))
		}
	}
	if len(grid) == 0 {
		return lo
	}
	return int(nearest(float64(v), grid))
}

func snapHintLevel(v float64) int {
	grid := []float64{0, 1, 2}
	return int(nearest(v, grid))
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
