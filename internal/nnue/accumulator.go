package nnue

import "github.com/nocturn9x/heimdall-sub003/internal/board"

// Accumulator holds one perspective's feature-transformer output and the
// king square it was derived for.
type Accumulator struct {
	Values [L1Size]int16
	KingSq board.Square
}

// cacheEntry memoizes the accumulator last computed for one
// (perspective, king bucket, mirror) slot, together with the exact piece
// bitboards it was derived from. A refresh replays only the symmetric
// difference between those bitboards and the current position instead of
// rescanning all 64 squares.
type cacheEntry struct {
	values [L1Size]int16
	pieces [2][6]board.Bitboard
}

// refreshCache holds one cacheEntry per perspective, king bucket and
// mirror state.
type refreshCache struct {
	entries [2][InputBuckets][2]cacheEntry
}

// newRefreshCache seeds every entry with the empty board: bias-only
// lanes and no pieces.
func newRefreshCache(net *Network) *refreshCache {
	c := &refreshCache{}
	for p := 0; p < 2; p++ {
		for b := 0; b < InputBuckets; b++ {
			for m := 0; m < 2; m++ {
				c.entries[p][b][m].values = net.FTBiases
			}
		}
	}
	return c
}

// refresh rebuilds a perspective's accumulator for pos into into, going
// through the cache slot for the king's current bucket and mirror state.
func (c *refreshCache) refresh(net *Network, pos *board.Position, perspective board.Color, into *Accumulator) {
	ksq := pos.KingSquare[perspective]
	mirror := mirrored(ksq)
	bucket := kingBucket(perspective, ksq)

	mi := 0
	if mirror {
		mi = 1
	}
	entry := &c.entries[perspective][bucket][mi]

	for color := board.White; color <= board.Black; color++ {
		for pt := board.Pawn; pt <= board.King; pt++ {
			cur := pos.Pieces[color][pt]
			old := entry.pieces[color][pt]
			if cur == old {
				continue
			}
			piece := board.NewPiece(pt, color)

			added := cur &^ old
			for added != 0 {
				sq := added.PopLSB()
				vecAdd(&entry.values, net.ftRow(bucket, featureIndex(perspective, piece, sq, mirror)))
			}
			removed := old &^ cur
			for removed != 0 {
				sq := removed.PopLSB()
				vecSub(&entry.values, net.ftRow(bucket, featureIndex(perspective, piece, sq, mirror)))
			}
			entry.pieces[color][pt] = cur
		}
	}

	into.Values = entry.values
	into.KingSq = ksq
}
