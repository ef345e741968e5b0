package board

// Board couples a position with the history of positions that led to it.
// MakeMove pushes a clone of the current position and mutates the clone, so
// UnmakeMove is a plain pop and any past position stays addressable by ply.
// The evaluator depends on that: rebuilding an accumulator may reach back an
// arbitrary number of plies.
//
// A Board is single-threaded. Workers get independent copies via Clone.
type Board struct {
	history []Position
}

// initialHistoryCap covers a long game plus search depth without growing.
const initialHistoryCap = 256

// NewBoard returns a board at the standard starting position.
func NewBoard() *Board {
	b, _ := NewBoardFromFEN(StartFEN)
	return b
}

// NewBoardFromFEN returns a board initialized from a FEN string.
func NewBoardFromFEN(fen string) (*Board, error) {
	pos, err := ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	b := &Board{history: make([]Position, 1, initialHistoryCap)}
	b.history[0] = *pos
	return b, nil
}

// Clone returns an independent copy of the board and its history.
func (b *Board) Clone() *Board {
	history := make([]Position, len(b.history), cap(b.history))
	copy(history, b.history)
	return &Board{history: history}
}

// Position returns the current position. The pointer is invalidated by the
// next MakeMove or UnmakeMove.
func (b *Board) Position() *Position {
	return &b.history[len(b.history)-1]
}

// Ply returns the number of moves played on this board.
func (b *Board) Ply() int {
	return len(b.history) - 1
}

// At returns the position after ply moves. At(Ply()) is the current one.
func (b *Board) At(ply int) *Position {
	return &b.history[ply]
}

// MakeMove plays a move. The move must be legal in the current position;
// generated moves always are.
func (b *Board) MakeMove(m Move) {
	b.push()
	b.Position().apply(m)
}

// MakeNullMove plays a null move: the side to move passes.
func (b *Board) MakeNullMove() {
	b.push()
	b.Position().applyNull()
}

// UnmakeMove takes back the last move (null moves included).
func (b *Board) UnmakeMove() {
	assert(len(b.history) > 1, "UnmakeMove: no move to unmake")
	b.history = b.history[:len(b.history)-1]
}

func (b *Board) push() {
	b.history = append(b.history, b.history[len(b.history)-1])
}

// apply mutates the position by playing m. Piece movement goes through the
// hash-synchronized primitives; the side, castling and en-passant hash
// components are folded in here. Ends by flipping the side to move and
// refreshing the check/pin/threat caches.
func (p *Position) apply(m Move) {
	us := p.SideToMove
	them := us.Other()
	from := m.From()
	to := m.To()

	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
		p.EnPassant = NoSquare
	}

	captured := NoPiece
	moved := p.Mailbox[from]
	var epCandidate Square = NoSquare

	switch {
	case m.IsCastling():
		// Remove both actors before placing either: in chess960 the king
		// may land on the rook's origin or vice versa.
		wing := m.CastlingWing()
		kingTo, rookTo := CastleTargets(us, wing)
		rook := p.RemovePiece(to)
		king := p.RemovePiece(from)
		p.AddPiece(kingTo, king)
		p.AddPiece(rookTo, rook)

	case m.IsEnPassant():
		capturedSq := to - 8
		if us == Black {
			capturedSq = to + 8
		}
		captured = p.RemovePiece(capturedSq)
		p.MovePiece(from, to)

	default:
		if p.Mailbox[to] != NoPiece {
			captured = p.RemovePiece(to)
		}
		if m.IsPromotion() {
			p.RemovePiece(from)
			p.AddPiece(to, NewPiece(m.Promotion(), us))
		} else {
			p.MovePiece(from, to)
			if moved.Type() == Pawn && abs(int(to)-int(from)) == 16 {
				epCandidate = Square((int(from) + int(to)) / 2)
			}
		}
	}

	if moved.Type() == King {
		p.clearCastlingRight(us, Kingside)
		p.clearCastlingRight(us, Queenside)
	} else {
		for wing := Kingside; wing <= Queenside; wing++ {
			if from == p.CastlingRooks[us][wing] {
				p.clearCastlingRight(us, wing)
			}
		}
	}
	for wing := Kingside; wing <= Queenside; wing++ {
		if to == p.CastlingRooks[them][wing] {
			p.clearCastlingRight(them, wing)
		}
	}

	if moved.Type() == Pawn || captured != NoPiece {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}
	if us == Black {
		p.FullMoveNumber++
	}

	p.SideToMove = them
	p.Hash ^= zobristSideToMove

	// A double push sets the en-passant target only when the opponent can
	// actually play the capture, matching what ParseFEN keeps. FEN
	// round-trips then preserve the hash.
	if epCandidate != NoSquare {
		if left, right := p.EPLegality(epCandidate); left || right {
			p.EnPassant = epCandidate
			p.Hash ^= zobristEnPassant[epCandidate.File()]
		}
	}

	p.UpdateChecksAndPins()
}

// clearCastlingRight drops a castling right if still present, keeping the
// hash in sync.
func (p *Position) clearCastlingRight(c Color, wing int) {
	if p.CastlingRooks[c][wing] != NoSquare {
		p.CastlingRooks[c][wing] = NoSquare
		p.Hash ^= zobristCastling[c][wing]
	}
}

// applyNull passes the move: flips the side, clears en passant, refreshes
// the caches. The half-move clock is left alone.
func (p *Position) applyNull() {
	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
		p.EnPassant = NoSquare
	}
	p.SideToMove = p.SideToMove.Other()
	p.Hash ^= zobristSideToMove
	p.UpdateChecksAndPins()
}
