//go:build goexperiment.simd && amd64

// SIMD lane arithmetic for the accumulator hot path. Requires Go 1.26+
// with GOEXPERIMENT=simd on AMD64. L1Size is a multiple of the vector
// width, so the tail loops never run; they keep the functions correct if
// the architecture constants change.

package nnue

import (
	"simd/archsimd"
)

// lanesPerStep is the number of int16 lanes per 256-bit vector.
const lanesPerStep = 16

// vecAdd adds a weight row into dst in place.
func vecAdd(dst *[L1Size]int16, w []int16) {
	i := 0
	for ; i+lanesPerStep <= L1Size; i += lanesPerStep {
		d := archsimd.LoadInt16x16(dst[i:])
		s := archsimd.LoadInt16x16(w[i:])
		archsimd.StoreInt16x16(dst[i:], d.Add(s))
	}
	for ; i < L1Size; i++ {
		dst[i] += w[i]
	}
}

// vecSub subtracts a weight row from dst in place.
func vecSub(dst *[L1Size]int16, w []int16) {
	i := 0
	for ; i+lanesPerStep <= L1Size; i += lanesPerStep {
		d := archsimd.LoadInt16x16(dst[i:])
		s := archsimd.LoadInt16x16(w[i:])
		archsimd.StoreInt16x16(dst[i:], d.Sub(s))
	}
	for ; i < L1Size; i++ {
		dst[i] -= w[i]
	}
}

// vecAddSub writes src + a - s into dst in one pass.
func vecAddSub(dst, src *[L1Size]int16, a, s []int16) {
	i := 0
	for ; i+lanesPerStep <= L1Size; i += lanesPerStep {
		v := archsimd.LoadInt16x16(src[i:])
		v = v.Add(archsimd.LoadInt16x16(a[i:]))
		v = v.Sub(archsimd.LoadInt16x16(s[i:]))
		archsimd.StoreInt16x16(dst[i:], v)
	}
	for ; i < L1Size; i++ {
		dst[i] = src[i] + a[i] - s[i]
	}
}

// vecAddSubSub writes src + a - s1 - s2 into dst in one pass.
func vecAddSubSub(dst, src *[L1Size]int16, a, s1, s2 []int16) {
	i := 0
	for ; i+lanesPerStep <= L1Size; i += lanesPerStep {
		v := archsimd.LoadInt16x16(src[i:])
		v = v.Add(archsimd.LoadInt16x16(a[i:]))
		v = v.Sub(archsimd.LoadInt16x16(s1[i:]))
		v = v.Sub(archsimd.LoadInt16x16(s2[i:]))
		archsimd.StoreInt16x16(dst[i:], v)
	}
	for ; i < L1Size; i++ {
		dst[i] = src[i] + a[i] - s1[i] - s2[i]
	}
}

// vecAddAddSubSub writes src + a1 + a2 - s1 - s2 into dst in one pass.
func vecAddAddSubSub(dst, src *[L1Size]int16, a1, a2, s1, s2 []int16) {
	i := 0
	for ; i+lanesPerStep <= L1Size; i += lanesPerStep {
		v := archsimd.LoadInt16x16(src[i:])
		v = v.Add(archsimd.LoadInt16x16(a1[i:]))
		v = v.Add(archsimd.LoadInt16x16(a2[i:]))
		v = v.Sub(archsimd.LoadInt16x16(s1[i:]))
		v = v.Sub(archsimd.LoadInt16x16(s2[i:]))
		archsimd.StoreInt16x16(dst[i:], v)
	}
	for ; i < L1Size; i++ {
		dst[i] = src[i] + a1[i] + a2[i] - s1[i] - s2[i]
	}
}
