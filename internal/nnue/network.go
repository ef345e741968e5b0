package nnue

import "golang.org/x/exp/constraints"

// Network holds the quantized weights, loaded once and then shared
// read-only by every EvalState.
type Network struct {
	// Feature transformer: one L1Size-wide weight row per input feature,
	// one block of rows per king bucket.
	FTWeights [InputBuckets][InputSize * L1Size]int16
	FTBiases  [L1Size]int16

	// Output layers, one weight set per output bucket.
	L2Weights [OutputBuckets][2 * L1Size][L2Size]int8
	L2Biases  [OutputBuckets][L2Size]int32
	L3Weights [OutputBuckets][L2Size]int16
	L3Biases  [OutputBuckets]int32
}

// NewNetwork returns an all-zero network.
func NewNetwork() *Network {
	return &Network{}
}

// ftRow returns the feature-transformer weight row for one input feature.
func (n *Network) ftRow(bucket, feature int) []int16 {
	off := feature * L1Size
	return n.FTWeights[bucket][off : off+L1Size]
}

// crelu clamps a lane to the quantized activation range [0, QA].
func crelu[T constraints.Signed](x T) int32 {
	if x < 0 {
		return 0
	}
	if x > QA {
		return QA
	}
	return int32(x)
}

// Forward runs the output layers over a pair of accumulators, the side to
// move's first. bucket selects the output weight set. Integer arithmetic
// only: identical inputs give bit-identical scores on every platform.
func (n *Network) Forward(own, opp *[L1Size]int16, bucket int) int {
	var act [2 * L1Size]int32
	for i := 0; i < L1Size; i++ {
		act[i] = crelu(own[i])
		act[L1Size+i] = crelu(opp[i])
	}

	sums := n.L2Biases[bucket]
	for i := 0; i < 2*L1Size; i++ {
		a := act[i]
		if a == 0 {
			continue
		}
		w := &n.L2Weights[bucket][i]
		for j := 0; j < L2Size; j++ {
			sums[j] += a * int32(w[j])
		}
	}

	out := n.L3Biases[bucket]
	for j := 0; j < L2Size; j++ {
		// The sums carry the QB weight scale; shift it off before
		// re-entering the activation range.
		out += crelu(sums[j]>>qbShift) * int32(n.L3Weights[bucket][j])
	}

	return int(int64(out) * EvalScale / (QA * QB))
}

// DefaultNetwork returns the embedded fallback network: small
// deterministic pseudorandom weights from a fixed xorshift64* seed. Not a
// trained net, but stable across runs and platforms, which is what tests
// and tooling need when no weight file is supplied.
func DefaultNetwork() *Network {
	n := NewNetwork()
	state := uint64(0xC1E5EB0A7ED51280)
	next := func() uint64 {
		state ^= state >> 12
		state ^= state << 25
		state ^= state >> 27
		return state * 0x2545F4914F6CDD1D
	}

	for b := 0; b < InputBuckets; b++ {
		for i := range n.FTWeights[b] {
			n.FTWeights[b][i] = int16(next()%65) - 32
		}
	}
	for i := range n.FTBiases {
		n.FTBiases[i] = int16(next()%129) - 64
	}

	for b := 0; b < OutputBuckets; b++ {
		for i := range n.L2Weights[b] {
			for j := range n.L2Weights[b][i] {
				n.L2Weights[b][i][j] = int8(next()%65) - 32
			}
		}
		for j := range n.L2Biases[b] {
			n.L2Biases[b][j] = int32(next()%(2*QA*QB+1)) - QA*QB
		}
		for j := range n.L3Weights[b] {
			n.L3Weights[b][j] = int16(next()%129) - 64
		}
		n.L3Biases[b] = int32(next()%(2*QA*QB+1)) - QA*QB
	}

	return n
}
