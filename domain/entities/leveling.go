package entities

import "math"

// XPPerLevelUnit scales the level curve: level = floor(sqrt(xp/100)) + 1
const XPPerLevelUnit = 100

// LevelForXP returns the level reached with xp experience points
func LevelForXP(xp int64) int {
	if xp <= 0 {
		return 1
	}
	return int(isqrt(xp/XPPerLevelUnit)) + 1
}

// XPForLevel returns the total xp needed to reach level
func XPForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	n := int64(level - 1)
	return n * n * XPPerLevelUnit
}

// isqrt is floor(sqrt(n)) without float rounding surprises near perfect squares
func isqrt(n int64) int64 {
	r := int64(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}
