package board

import "fmt"

// Castling wings. Rights are stored as the home square of the rook that may
// still castle on that wing, NoSquare once the right is gone. Storing the
// rook square instead of a flag is what makes chess960 castling work: king
// and rook home files are arbitrary there.
const (
	Kingside  = 0
	Queenside = 1
)

// Position is a complete chess position. It holds several redundant views of
// the same state (piece bitboards, occupancy, mailbox, six incremental hash
// fields) which the mutation primitives keep consistent at every step.
//
// A Position must never be copied implicitly. Use Clone; each search worker
// owns exactly one chain of positions.
type Position struct {
	// Piece bitboards: [Color][PieceType]
	Pieces [2][6]Bitboard

	// Occupancy, derived but maintained incrementally.
	Occupied    [2]Bitboard
	AllOccupied Bitboard

	// Mailbox: direct square -> piece lookup, kept in sync with the bitboards.
	Mailbox [64]Piece

	SideToMove     Color
	EnPassant      Square // en-passant target square, NoSquare if none
	HalfMoveClock  int
	FullMoveNumber int

	// CastlingRooks[color][wing] is the home square of the rook that may
	// still castle on that wing, or NoSquare.
	CastlingRooks [2][2]Square

	KingSquare [2]Square

	// Caches relative to the side to move, recomputed after every move
	// (null moves included) by UpdateChecksAndPins. Never valid across a
	// mutation.
	Checkers       Bitboard
	DiagonalPins   Bitboard // pin rays, slider square included, king square excluded
	OrthogonalPins Bitboard
	Threats        Bitboard // every square the opponent attacks

	// Incremental Zobrist fields.
	Hash        uint64    // full key: pieces + side + castling + en passant
	PawnHash    uint64    // pawns only
	NonPawnHash [2]uint64 // per color, everything but pawns
	MajorHash   uint64    // rooks, queens and kings
	MinorHash   uint64    // knights, bishops and kings
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	pos, _ := ParseFEN(StartFEN)
	return pos
}

// Clone returns an independent deep copy of the position. The struct holds
// only arrays and scalars, so the value copy is a full deep clone.
func (p *Position) Clone() *Position {
	clone := *p
	return &clone
}

// PieceAt returns the piece on the given square, or NoPiece.
func (p *Position) PieceAt(sq Square) Piece {
	return p.Mailbox[sq]
}

// IsEmpty reports whether the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.Mailbox[sq] == NoPiece
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool {
	return p.Checkers != 0
}

// HasNonPawnMaterial reports whether the side to move has any piece besides
// pawns and the king.
func (p *Position) HasNonPawnMaterial() bool {
	us := p.SideToMove
	return p.Pieces[us][Knight]|p.Pieces[us][Bishop]|p.Pieces[us][Rook]|p.Pieces[us][Queen] != 0
}

// xorPieceKeys folds the key of (c, pt, sq) into every hash field that
// tracks this piece kind.
func (p *Position) xorPieceKeys(c Color, pt PieceType, sq Square) {
	key := zobristPiece[c][pt][sq]
	p.Hash ^= key
	if pt == Pawn {
		p.PawnHash ^= key
		return
	}
	p.NonPawnHash[c] ^= key
	if pt == King {
		p.MajorHash ^= key
		p.MinorHash ^= key
		return
	}
	if pt.IsMajor() {
		p.MajorHash ^= key
	} else if pt.IsMinor() {
		p.MinorHash ^= key
	}
}

// AddPiece places a piece on an empty square, keeping bitboards, mailbox and
// all hash fields in sync.
func (p *Position) AddPiece(sq Square, piece Piece) {
	assert(p.Mailbox[sq] == NoPiece, "AddPiece: square occupied")
	assert(piece != NoPiece, "AddPiece: no piece")

	c := piece.Color()
	pt := piece.Type()
	bb := SquareBB(sq)

	p.Pieces[c][pt] |= bb
	p.Occupied[c] |= bb
	p.AllOccupied |= bb
	p.Mailbox[sq] = piece
	if pt == King {
		p.KingSquare[c] = sq
	}
	p.xorPieceKeys(c, pt, sq)
}

// RemovePiece removes the piece on an occupied square and returns it.
func (p *Position) RemovePiece(sq Square) Piece {
	piece := p.Mailbox[sq]
	assert(piece != NoPiece, "RemovePiece: square empty")

	c := piece.Color()
	pt := piece.Type()
	bb := SquareBB(sq)

	p.Pieces[c][pt] &^= bb
	p.Occupied[c] &^= bb
	p.AllOccupied &^= bb
	p.Mailbox[sq] = NoPiece
	p.xorPieceKeys(c, pt, sq)

	return piece
}

// MovePiece relocates a piece to an empty square. Captures must be removed
// by the caller first.
func (p *Position) MovePiece(from, to Square) {
	piece := p.Mailbox[from]
	assert(piece != NoPiece, "MovePiece: source empty")
	assert(p.Mailbox[to] == NoPiece, "MovePiece: destination occupied")

	c := piece.Color()
	pt := piece.Type()
	moveBB := SquareBB(from) | SquareBB(to)

	p.Pieces[c][pt] ^= moveBB
	p.Occupied[c] ^= moveBB
	p.AllOccupied ^= moveBB
	p.Mailbox[from] = NoPiece
	p.Mailbox[to] = piece
	if pt == King {
		p.KingSquare[c] = to
	}
	p.xorPieceKeys(c, pt, from)
	p.xorPieceKeys(c, pt, to)
}

// AttackersTo returns every piece of either color attacking sq under the
// given occupancy.
func (p *Position) AttackersTo(sq Square, occupied Bitboard) Bitboard {
	return (pawnAttacks[Black][sq] & p.Pieces[White][Pawn]) |
		(pawnAttacks[White][sq] & p.Pieces[Black][Pawn]) |
		(knightAttacks[sq] & (p.Pieces[White][Knight] | p.Pieces[Black][Knight])) |
		(kingAttacks[sq] & (p.Pieces[White][King] | p.Pieces[Black][King])) |
		(BishopAttacks(sq, occupied) & (p.Pieces[White][Bishop] | p.Pieces[Black][Bishop] | p.Pieces[White][Queen] | p.Pieces[Black][Queen])) |
		(RookAttacks(sq, occupied) & (p.Pieces[White][Rook] | p.Pieces[Black][Rook] | p.Pieces[White][Queen] | p.Pieces[Black][Queen]))
}

// AttackersBy returns every piece of color c attacking sq under the given
// occupancy.
func (p *Position) AttackersBy(sq Square, c Color, occupied Bitboard) Bitboard {
	return (pawnAttacks[c.Other()][sq] & p.Pieces[c][Pawn]) |
		(knightAttacks[sq] & p.Pieces[c][Knight]) |
		(kingAttacks[sq] & p.Pieces[c][King]) |
		(BishopAttacks(sq, occupied) & (p.Pieces[c][Bishop] | p.Pieces[c][Queen])) |
		(RookAttacks(sq, occupied) & (p.Pieces[c][Rook] | p.Pieces[c][Queen]))
}

// IsAttacked reports whether sq is attacked by color c under the given
// occupancy, returning at the first attacker found.
func (p *Position) IsAttacked(sq Square, c Color, occupied Bitboard) bool {
	if pawnAttacks[c.Other()][sq]&p.Pieces[c][Pawn] != 0 {
		return true
	}
	if knightAttacks[sq]&p.Pieces[c][Knight] != 0 {
		return true
	}
	if kingAttacks[sq]&p.Pieces[c][King] != 0 {
		return true
	}
	if BishopAttacks(sq, occupied)&(p.Pieces[c][Bishop]|p.Pieces[c][Queen]) != 0 {
		return true
	}
	return RookAttacks(sq, occupied)&(p.Pieces[c][Rook]|p.Pieces[c][Queen]) != 0
}

// UpdateChecksAndPins recomputes the side-to-move-relative caches: checkers,
// the two pin ray sets, and the opponent threat map. Must run after every
// move, null moves included.
func (p *Position) UpdateChecksAndPins() {
	us := p.SideToMove
	them := us.Other()
	ksq := p.KingSquare[us]

	p.Checkers = p.AttackersBy(ksq, them, p.AllOccupied)
	p.DiagonalPins = 0
	p.OrthogonalPins = 0

	// A sniper is an enemy slider that reaches the king through enemy-only
	// occupancy: friendly pieces are transparent, enemy pieces block.
	snipers := BishopAttacks(ksq, p.Occupied[them]) & (p.Pieces[them][Bishop] | p.Pieces[them][Queen])
	for snipers != 0 {
		sq := snipers.PopLSB()
		blockers := Between(sq, ksq) & p.Occupied[us]
		if blockers != 0 && !blockers.Several() {
			p.DiagonalPins |= Between(sq, ksq) | SquareBB(sq)
		}
	}

	snipers = RookAttacks(ksq, p.Occupied[them]) & (p.Pieces[them][Rook] | p.Pieces[them][Queen])
	for snipers != 0 {
		sq := snipers.PopLSB()
		blockers := Between(sq, ksq) & p.Occupied[us]
		if blockers != 0 && !blockers.Several() {
			p.OrthogonalPins |= Between(sq, ksq) | SquareBB(sq)
		}
	}

	p.Threats = p.computeThreats(them)
}

// computeThreats returns the union of the attack squares of every piece of
// color c under full occupancy. Pawns contribute their capture squares.
func (p *Position) computeThreats(c Color) Bitboard {
	occ := p.AllOccupied

	pawns := p.Pieces[c][Pawn]
	var threats Bitboard
	if c == White {
		threats = pawns.NorthEast() | pawns.NorthWest()
	} else {
		threats = pawns.SouthEast() | pawns.SouthWest()
	}

	for bb := p.Pieces[c][Knight]; bb != 0; {
		threats |= knightAttacks[bb.PopLSB()]
	}
	for bb := p.Pieces[c][Bishop] | p.Pieces[c][Queen]; bb != 0; {
		threats |= BishopAttacks(bb.PopLSB(), occ)
	}
	for bb := p.Pieces[c][Rook] | p.Pieces[c][Queen]; bb != 0; {
		threats |= RookAttacks(bb.PopLSB(), occ)
	}
	threats |= kingAttacks[p.KingSquare[c]]

	return threats
}

// CastleTargets returns the destination squares of king and rook for a
// castling move of the given color and wing (g/c files for the king, f/d
// for the rook, on the back rank).
func CastleTargets(c Color, wing int) (kingTo, rookTo Square) {
	rank := 0
	if c == Black {
		rank = 7
	}
	if wing == Kingside {
		return NewSquare(6, rank), NewSquare(5, rank)
	}
	return NewSquare(2, rank), NewSquare(3, rank)
}

// CanCastle reports the castling availability of the side to move. A wing
// is available iff the right still exists, the king is not in check, the
// king and rook paths to their destinations are clear with both actors
// masked out of the occupancy, and no square the king transits (start and
// end included) is attacked under that masked occupancy. Computed entirely
// from the actual king and rook home squares, so it covers chess960 setups.
func (p *Position) CanCastle() (kingside, queenside bool) {
	if p.Checkers != 0 {
		return false, false
	}
	return p.canCastleWing(Kingside), p.canCastleWing(Queenside)
}

func (p *Position) canCastleWing(wing int) bool {
	us := p.SideToMove
	rookFrom := p.CastlingRooks[us][wing]
	if rookFrom == NoSquare {
		return false
	}

	ksq := p.KingSquare[us]
	kingTo, rookTo := CastleTargets(us, wing)
	occ := p.AllOccupied &^ SquareBB(ksq) &^ SquareBB(rookFrom)

	kingPath := Between(ksq, kingTo) | SquareBB(kingTo)
	rookPath := Between(rookFrom, rookTo) | SquareBB(rookTo)
	if (kingPath|rookPath)&occ != 0 {
		return false
	}

	them := us.Other()
	transit := Between(ksq, kingTo) | SquareBB(ksq) | SquareBB(kingTo)
	for transit != 0 {
		if p.IsAttacked(transit.PopLSB(), them, occ) {
			return false
		}
	}
	return true
}

// EPLegality checks whether the en-passant capture onto target can legally
// be played by a friendly pawn from the west (left) and from the east
// (right). Each probe simulates the capture on the live board with the
// mutation primitives and restores it exactly, because the attack queries
// read the live occupancy.
func (p *Position) EPLegality(target Square) (left, right bool) {
	us := p.SideToMove
	them := us.Other()

	var capturedSq Square
	if us == White {
		capturedSq = target - 8
	} else {
		capturedSq = target + 8
	}
	if p.Mailbox[target] != NoPiece || p.Mailbox[capturedSq] != NewPiece(Pawn, them) {
		return false, false
	}

	captors := pawnAttacks[them][target] & p.Pieces[us][Pawn]
	for captors != 0 {
		from := captors.PopLSB()
		pawn := p.RemovePiece(from)
		captured := p.RemovePiece(capturedSq)
		p.AddPiece(target, pawn)

		legal := !p.IsAttacked(p.KingSquare[us], them, p.AllOccupied)

		p.RemovePiece(target)
		p.AddPiece(capturedSq, captured)
		p.AddPiece(from, pawn)

		if legal {
			if from.File() < target.File() {
				left = true
			} else {
				right = true
			}
		}
	}
	return left, right
}

// RecomputeHashes rebuilds all six Zobrist fields from scratch. Only used
// at construction; incremental play keeps them updated piecewise.
func (p *Position) RecomputeHashes() {
	p.Hash = 0
	p.PawnHash = 0
	p.NonPawnHash = [2]uint64{}
	p.MajorHash = 0
	p.MinorHash = 0

	for sq := A1; sq <= H8; sq++ {
		piece := p.Mailbox[sq]
		if piece == NoPiece {
			continue
		}
		p.xorPieceKeys(piece.Color(), piece.Type(), sq)
	}

	if p.SideToMove == Black {
		p.Hash ^= zobristSideToMove
	}
	for c := White; c <= Black; c++ {
		for wing := 0; wing < 2; wing++ {
			if p.CastlingRooks[c][wing] != NoSquare {
				p.Hash ^= zobristCastling[c][wing]
			}
		}
	}
	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}
}

// Validate cross-checks every redundant representation: mailbox against
// bitboards, occupancy against the piece boards, king cache, castling rook
// squares, and all six hash fields against a from-scratch recomputation.
// The conformance tests call it after every mutation battery.
func (p *Position) Validate() error {
	if n := p.Pieces[White][King].PopCount(); n != 1 {
		return fmt.Errorf("white has %d kings", n)
	}
	if n := p.Pieces[Black][King].PopCount(); n != 1 {
		return fmt.Errorf("black has %d kings", n)
	}
	if (p.Pieces[White][Pawn]|p.Pieces[Black][Pawn])&(Rank1|Rank8) != 0 {
		return fmt.Errorf("pawn on a back rank")
	}

	var occ [2]Bitboard
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			occ[c] |= p.Pieces[c][pt]
		}
	}
	if occ[White]&occ[Black] != 0 {
		return fmt.Errorf("colors overlap")
	}
	if occ[White] != p.Occupied[White] || occ[Black] != p.Occupied[Black] {
		return fmt.Errorf("occupancy out of sync")
	}
	if p.AllOccupied != occ[White]|occ[Black] {
		return fmt.Errorf("total occupancy out of sync")
	}

	for sq := A1; sq <= H8; sq++ {
		want := NoPiece
		for c := White; c <= Black; c++ {
			for pt := Pawn; pt <= King; pt++ {
				if p.Pieces[c][pt].IsSet(sq) {
					want = NewPiece(pt, c)
				}
			}
		}
		if p.Mailbox[sq] != want {
			return fmt.Errorf("mailbox disagrees with bitboards at %s: %q vs %q",
				sq, p.Mailbox[sq], want)
		}
	}

	for c := White; c <= Black; c++ {
		if p.KingSquare[c] != p.Pieces[c][King].LSB() {
			return fmt.Errorf("%s king square cache out of sync", c)
		}
		for wing := 0; wing < 2; wing++ {
			rsq := p.CastlingRooks[c][wing]
			if rsq != NoSquare && p.Mailbox[rsq] != NewPiece(Rook, c) {
				return fmt.Errorf("castling rook of %s missing from %s", c, rsq)
			}
		}
	}

	check := *p
	check.RecomputeHashes()
	if check.Hash != p.Hash {
		return fmt.Errorf("full hash out of sync: %016x vs %016x", p.Hash, check.Hash)
	}
	if check.PawnHash != p.PawnHash {
		return fmt.Errorf("pawn hash out of sync")
	}
	if check.NonPawnHash != p.NonPawnHash {
		return fmt.Errorf("non-pawn hashes out of sync")
	}
	if check.MajorHash != p.MajorHash {
		return fmt.Errorf("major hash out of sync")
	}
	if check.MinorHash != p.MinorHash {
		return fmt.Errorf("minor hash out of sync")
	}

	return nil
}

// String returns a printable diagram with the game state fields.
func (p *Position) String() string {
	s := "\n"
	for rank := 7; rank >= 0; rank-- {
		s += fmt.Sprintf("%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := p.Mailbox[NewSquare(file, rank)]
			if piece == NoPiece {
				s += ". "
			} else {
				s += piece.String() + " "
			}
		}
		s += "\n"
	}
	s += "\n   a b c d e f g h\n\n"
	s += fmt.Sprintf("Side to move: %s\n", p.SideToMove)
	s += fmt.Sprintf("En passant: %s\n", p.EnPassant)
	s += fmt.Sprintf("Half-move clock: %d\n", p.HalfMoveClock)
	s += fmt.Sprintf("Full move: %d\n", p.FullMoveNumber)
	s += fmt.Sprintf("Hash: %016x\n", p.Hash)
	return s
}
