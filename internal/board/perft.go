package board

// Perft counts the leaf nodes of the legal move tree at the given depth,
// the standard cross-check for move generation and make/unmake.
func Perft(b *Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	var ml MoveList
	b.Position().GenerateMoves(&ml)
	if depth == 1 {
		return uint64(ml.Len())
	}

	var nodes uint64
	for i := 0; i < ml.Len(); i++ {
		b.MakeMove(ml.Get(i))
		nodes += Perft(b, depth-1)
		b.UnmakeMove()
	}
	return nodes
}

// PerftDivide returns the node count under each root move, the classic
// debugging view for hunting down a generation mismatch.
func PerftDivide(b *Board, depth int) map[Move]uint64 {
	var ml MoveList
	b.Position().GenerateMoves(&ml)

	counts := make(map[Move]uint64, ml.Len())
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		b.MakeMove(m)
		counts[m] = Perft(b, depth-1)
		b.UnmakeMove()
	}
	return counts
}
