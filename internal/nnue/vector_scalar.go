//go:build !(goexperiment.simd && amd64)

// Portable lane arithmetic. The SIMD build replaces these with vector
// loops; the results are identical either way, only the stride differs.

package nnue

// vecAdd adds a weight row into dst in place.
func vecAdd(dst *[L1Size]int16, w []int16) {
	for i := 0; i < L1Size; i++ {
		dst[i] += w[i]
	}
}

// vecSub subtracts a weight row from dst in place.
func vecSub(dst *[L1Size]int16, w []int16) {
	for i := 0; i < L1Size; i++ {
		dst[i] -= w[i]
	}
}

// vecAddSub writes src + a - s into dst in one pass.
func vecAddSub(dst, src *[L1Size]int16, a, s []int16) {
	for i := 0; i < L1Size; i++ {
		dst[i] = src[i] + a[i] - s[i]
	}
}

// vecAddSubSub writes src + a - s1 - s2 into dst in one pass.
func vecAddSubSub(dst, src *[L1Size]int16, a, s1, s2 []int16) {
	for i := 0; i < L1Size; i++ {
		dst[i] = src[i] + a[i] - s1[i] - s2[i]
	}
}

// vecAddAddSubSub writes src + a1 + a2 - s1 - s2 into dst in one pass.
func vecAddAddSubSub(dst, src *[L1Size]int16, a1, a2, s1, s2 []int16) {
	for i := 0; i < L1Size; i++ {
		dst[i] = src[i] + a1[i] + a2[i] - s1[i] - s2[i]
	}
}
