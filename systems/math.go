package systems

// Clamp and convergence helpers shared by the metrics and integration passes.

// clampFloat clamps v between minVal and maxVal.
func clampFloat(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clamp01 clamps v to the [0, 1] range.
func clamp01(v float64) float64 {
	return clampFloat(v, 0, 1)
}

// approach moves current toward target by at most maxDelta, never overshooting.
func approach(current, target, maxDelta float64) float64 {
	if current < target {
		return min(target, current+maxDelta)
	}
	return max(target, current-maxDelta)
}

// approachAsym converges with a speed that depends on direction: rising is
// used when target is above current, falling otherwise.
func approachAsym(current, target, dt, rising, falling float64) float64 {
	rate := falling
	if target > current {
		rate = rising
	}
	return approach(current, target, dt*rate)
}

// floorAt returns v, or floor when v is smaller. Used to keep denominators
// away from zero.
func floorAt(v, floor float64) float64 {
	if v < floor {
		return floor
	}
	return v
}
