package board

// Zobrist keys, generated once at startup from a fixed seed so hashes are
// stable within a process and across runs: 768 piece keys, 1 side-to-move
// key, 4 castling-right keys (one per color and wing), 8 en-passant file
// keys.
var (
	zobristPiece      [2][6][64]uint64 // [Color][PieceType][Square]
	zobristEnPassant  [8]uint64        // one per file
	zobristCastling   [2][2]uint64     // [Color][wing]; wing 0 = kingside
	zobristSideToMove uint64           // XORed in when black is to move
)

func init() {
	initZobrist()
}

// xorshift64* with a fixed seed.
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234)

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := A1; sq <= H8; sq++ {
				zobristPiece[c][pt][sq] = rng.next()
			}
		}
	}

	for file := 0; file < 8; file++ {
		zobristEnPassant[file] = rng.next()
	}

	for c := White; c <= Black; c++ {
		for wing := 0; wing < 2; wing++ {
			zobristCastling[c][wing] = rng.next()
		}
	}

	zobristSideToMove = rng.next()
}
