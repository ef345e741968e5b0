package nnue

import "github.com/nocturn9x/heimdall-sub003/internal/board"

// kingBuckets maps an oriented king square to its feature-transformer
// bucket. Oriented coordinates put the perspective's own back rank in the
// last row, so the fine-grained buckets 0-7 cover the two ranks where the
// king normally lives and the far side of the board shares coarse ones.
// The table is symmetric in file: files e-h repeat files d-a, which makes
// the bucket id independent of the mirror flag.
var kingBuckets = [64]uint8{
	14, 14, 15, 15, 15, 15, 14, 14,
	14, 14, 15, 15, 15, 15, 14, 14,
	12, 12, 13, 13, 13, 13, 12, 12,
	12, 12, 13, 13, 13, 13, 12, 12,
	10, 10, 11, 11, 11, 11, 10, 10,
	8, 8, 9, 9, 9, 9, 8, 8,
	4, 5, 6, 7, 7, 6, 5, 4,
	0, 1, 2, 3, 3, 2, 1, 0,
}

// mirrored reports whether a perspective whose king sits on ksq uses the
// horizontally flipped feature layout. Folding the right half of the
// board onto the left halves the number of king buckets needed.
func mirrored(ksq board.Square) bool {
	return ksq.File() >= 4
}

// orient maps a square into a perspective's feature coordinates: White
// flips vertically so both sides see their own back rank the same way,
// and an active mirror flips the file.
func orient(perspective board.Color, sq board.Square, mirror bool) board.Square {
	if perspective == board.White {
		sq = sq.Mirror()
	}
	if mirror {
		sq = sq.MirrorFile()
	}
	return sq
}

// kingBucket returns the feature-transformer bucket for a perspective
// whose king sits on ksq.
func kingBucket(perspective board.Color, ksq board.Square) int {
	return int(kingBuckets[orient(perspective, ksq, false)])
}

// featureIndex returns the input slot of a piece as seen from a
// perspective: twelve 64-square planes, the perspective's own pieces
// (pawn through king) first, then the enemy's.
func featureIndex(perspective board.Color, p board.Piece, sq board.Square, mirror bool) int {
	plane := int(p.Type())
	if p.Color() != perspective {
		plane += 6
	}
	return plane*64 + int(orient(perspective, sq, mirror))
}

// outputBucket selects the output-layer weight set from the total piece
// count: bucket 0 for the emptiest boards, OutputBuckets-1 for full ones.
func outputBucket(pos *board.Position) int {
	b := (pos.AllOccupied.PopCount() - 2) / 4
	if b > OutputBuckets-1 {
		b = OutputBuckets - 1
	}
	return b
}
