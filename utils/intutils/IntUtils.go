// Package intutils implements integer helpers used for grid geometry
package intutils

import "image"

// Min calculates and returns the minimum integer in a list
func Min(ints ...int) int {
	min := ints[0]
	for _, val := range ints {
		if val < min {
			min = val
		}
	}
	return min
}

// Max calculates and returns the maximum int in a list
func Max(ints ...int) int {
	max := ints[0]
	for _, val := range ints {
		if val > max {
			max = val
		}
	}
	return max
}

// Abs returns the absolute value of x
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Manhattan returns the L1 distance between p and q
func Manhattan(p, q image.Point) int {
	return Abs(p.X-q.X) + Abs(p.Y-q.Y)
}

// MinPairwiseDistance returns the smallest Manhattan distance between
// any two distinct points. If fewer than two points are given,
// MinPairwiseDistance returns -1.
func MinPairwiseDistance(points []image.Point) int {
	if len(points) < 2 {
		return -1
	}

	min := Manhattan(points[0], points[1])
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			if d := Manhattan(points[i], points[j]); d < min {
				min = d
			}
		}
	}
	return min
}
