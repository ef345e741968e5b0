// Package nnue implements NNUE (Efficiently Updatable Neural Network)
// evaluation.
//
// The network sees the board twice, once from each color's point of view:
// 768 piece-square inputs per perspective, run through a feature
// transformer whose weight block is chosen by the perspective's king
// placement. Both accumulators then pass through a clipped activation and
// two further quantized layers picked by total piece count, producing an
// integer score for the side to move. All arithmetic is fixed point, so a
// given position and network evaluate to exactly the same score on every
// platform.
package nnue

// Network architecture constants
const (
	// Input features per perspective: 6 piece kinds x 2 colors x 64 squares.
	InputSize = 768

	// Feature-transformer weight blocks, selected by king placement.
	// Kings on files e-h reuse the a-d blocks with the files mirrored.
	InputBuckets = 16

	// Accumulator lanes per perspective.
	L1Size = 1280

	// Width of the first output layer.
	L2Size = 16

	// Output-layer weight sets, selected by total piece count.
	OutputBuckets = 8
)

// Quantization constants
const (
	QA = 255 // feature-transformer activation range
	QB = 64  // output-layer weight scale, 1 << qbShift

	qbShift = 6

	// EvalScale rescales the raw network output to engine score units.
	EvalScale = 400
)
