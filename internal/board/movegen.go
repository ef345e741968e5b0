package board

// GenerateMoves fills ml with every legal move in the position. Generation
// is exact: pin and check constraints come from the caches maintained by
// UpdateChecksAndPins, so no make/unmake filtering pass runs afterwards.
func (p *Position) GenerateMoves(ml *MoveList) {
	ml.Clear()

	p.generateKingMoves(ml)
	if p.Checkers.Several() {
		// Double check: only the king may move.
		return
	}

	us := p.SideToMove
	targets := ^p.Occupied[us]
	if p.Checkers != 0 {
		// Single check: non-king moves must capture the checker or block.
		targets &= Between(p.Checkers.LSB(), p.KingSquare[us]) | p.Checkers
	}

	p.generatePawnMoves(ml, targets)
	p.generatePieceMoves(ml, targets)
	p.generateEnPassant(ml)
	if p.Checkers == 0 {
		kingside, queenside := p.CanCastle()
		if kingside {
			ml.Add(NewCastling(p.KingSquare[us], p.CastlingRooks[us][Kingside]))
		}
		if queenside {
			ml.Add(NewCastling(p.KingSquare[us], p.CastlingRooks[us][Queenside]))
		}
	}
}

// generateKingMoves emits the king's non-castling moves. Outside of check
// the threat map is exact for king destinations; in check the king may
// stand on an attacked ray, so each destination is probed with the king
// removed from the occupancy.
func (p *Position) generateKingMoves(ml *MoveList) {
	us := p.SideToMove
	from := p.KingSquare[us]
	moves := kingAttacks[from] &^ p.Occupied[us]

	if p.Checkers == 0 {
		moves &^= p.Threats
		for moves != 0 {
			ml.Add(NewMove(from, moves.PopLSB()))
		}
		return
	}

	them := us.Other()
	occ := p.AllOccupied &^ SquareBB(from)
	for moves != 0 {
		to := moves.PopLSB()
		if !p.IsAttacked(to, them, occ) {
			ml.Add(NewMove(from, to))
		}
	}
}

// generatePieceMoves emits knight and slider moves restricted to targets.
// A pinned piece stays on the line through its square and the king; a
// pinned knight never moves, and a slider pinned on the other axis cannot
// move on this one at all.
func (p *Position) generatePieceMoves(ml *MoveList, targets Bitboard) {
	us := p.SideToMove
	occ := p.AllOccupied
	ksq := p.KingSquare[us]
	pinned := p.DiagonalPins | p.OrthogonalPins

	knights := p.Pieces[us][Knight] &^ pinned
	for knights != 0 {
		from := knights.PopLSB()
		attacks := knightAttacks[from] & targets
		for attacks != 0 {
			ml.Add(NewMove(from, attacks.PopLSB()))
		}
	}

	diag := (p.Pieces[us][Bishop] | p.Pieces[us][Queen]) &^ p.OrthogonalPins
	for diag != 0 {
		from := diag.PopLSB()
		attacks := BishopAttacks(from, occ) & targets
		if p.DiagonalPins.IsSet(from) {
			attacks &= Line(ksq, from)
		}
		for attacks != 0 {
			ml.Add(NewMove(from, attacks.PopLSB()))
		}
	}

	orth := (p.Pieces[us][Rook] | p.Pieces[us][Queen]) &^ p.DiagonalPins
	for orth != 0 {
		from := orth.PopLSB()
		attacks := RookAttacks(from, occ) & targets
		if p.OrthogonalPins.IsSet(from) {
			attacks &= Line(ksq, from)
		}
		for attacks != 0 {
			ml.Add(NewMove(from, attacks.PopLSB()))
		}
	}
}

// generatePawnMoves emits pushes, double pushes, captures and promotions.
// Unpinned pawns go through the batched shift path; pinned pawns are
// handled one by one against the king line.
func (p *Position) generatePawnMoves(ml *MoveList, targets Bitboard) {
	us := p.SideToMove
	them := us.Other()
	ksq := p.KingSquare[us]
	enemies := p.Occupied[them]
	empty := ^p.AllOccupied
	pinned := p.DiagonalPins | p.OrthogonalPins

	free := p.Pieces[us][Pawn] &^ pinned

	var push1, push2, attackL, attackR, promotionRank Bitboard
	var pushDir int
	if us == White {
		push1 = free.North() & empty
		push2 = (push1 & Rank3).North() & empty
		attackL = free.NorthWest() & enemies
		attackR = free.NorthEast() & enemies
		promotionRank = Rank8
		pushDir = 8
	} else {
		push1 = free.South() & empty
		push2 = (push1 & Rank6).South() & empty
		attackL = free.SouthWest() & enemies
		attackR = free.SouthEast() & enemies
		promotionRank = Rank1
		pushDir = -8
	}
	push1 &= targets
	push2 &= targets
	attackL &= targets
	attackR &= targets

	for bb := push1 &^ promotionRank; bb != 0; {
		to := bb.PopLSB()
		ml.Add(NewMove(Square(int(to)-pushDir), to))
	}
	for bb := push2; bb != 0; {
		to := bb.PopLSB()
		ml.Add(NewMove(Square(int(to)-2*pushDir), to))
	}
	for bb := attackL &^ promotionRank; bb != 0; {
		to := bb.PopLSB()
		ml.Add(NewMove(Square(int(to)-pushDir+1), to))
	}
	for bb := attackR &^ promotionRank; bb != 0; {
		to := bb.PopLSB()
		ml.Add(NewMove(Square(int(to)-pushDir-1), to))
	}
	for bb := push1 & promotionRank; bb != 0; {
		to := bb.PopLSB()
		addPromotions(ml, Square(int(to)-pushDir), to)
	}
	for bb := attackL & promotionRank; bb != 0; {
		to := bb.PopLSB()
		addPromotions(ml, Square(int(to)-pushDir+1), to)
	}
	for bb := attackR & promotionRank; bb != 0; {
		to := bb.PopLSB()
		addPromotions(ml, Square(int(to)-pushDir-1), to)
	}

	rest := p.Pieces[us][Pawn] & pinned
	for rest != 0 {
		from := rest.PopLSB()
		line := Line(ksq, from)
		fromBB := SquareBB(from)

		var pushes Bitboard
		if us == White {
			pushes = fromBB.North() & empty
			pushes |= (pushes & Rank3).North() & empty
		} else {
			pushes = fromBB.South() & empty
			pushes |= (pushes & Rank6).South() & empty
		}
		moves := (pushes | (pawnAttacks[us][from] & enemies)) & targets & line

		for moves != 0 {
			to := moves.PopLSB()
			if SquareBB(to)&promotionRank != 0 {
				addPromotions(ml, from, to)
			} else {
				ml.Add(NewMove(from, to))
			}
		}
	}
}

// addPromotions adds all four promotion moves.
func addPromotions(ml *MoveList, from, to Square) {
	ml.Add(NewPromotion(from, to, Queen))
	ml.Add(NewPromotion(from, to, Rook))
	ml.Add(NewPromotion(from, to, Bishop))
	ml.Add(NewPromotion(from, to, Knight))
}

// generateEnPassant emits the legal en-passant captures. EPLegality probes
// the capture on the board, which also covers check evasion and the
// horizontal two-pawn discovered check that pin masks cannot see.
func (p *Position) generateEnPassant(ml *MoveList) {
	if p.EnPassant == NoSquare {
		return
	}

	target := p.EnPassant
	fromRank := 4
	if p.SideToMove == Black {
		fromRank = 3
	}

	left, right := p.EPLegality(target)
	if left {
		ml.Add(NewEnPassant(NewSquare(target.File()-1, fromRank), target))
	}
	if right {
		ml.Add(NewEnPassant(NewSquare(target.File()+1, fromRank), target))
	}
}

// HasLegalMoves reports whether the side to move has any legal move.
func (p *Position) HasLegalMoves() bool {
	var ml MoveList
	p.GenerateMoves(&ml)
	return ml.Len() > 0
}

// IsCheckmate reports whether the side to move is checkmated.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate reports whether the position is stalemate.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

// IsDraw reports whether the position is drawn by stalemate, the fifty-move
// rule, or insufficient material. Repetition needs game history and is
// judged by the caller.
func (p *Position) IsDraw() bool {
	if p.IsStalemate() {
		return true
	}
	if p.HalfMoveClock >= 100 {
		return true
	}
	return p.IsInsufficientMaterial()
}

// IsInsufficientMaterial reports whether neither side can deliver mate:
// bare kings, or king plus one minor piece against a bare king.
func (p *Position) IsInsufficientMaterial() bool {
	if p.Pieces[White][Pawn]|p.Pieces[Black][Pawn] != 0 ||
		p.Pieces[White][Rook]|p.Pieces[Black][Rook] != 0 ||
		p.Pieces[White][Queen]|p.Pieces[Black][Queen] != 0 {
		return false
	}

	wMinors := (p.Pieces[White][Knight] | p.Pieces[White][Bishop]).PopCount()
	bMinors := (p.Pieces[Black][Knight] | p.Pieces[Black][Bishop]).PopCount()

	return (wMinors <= 1 && bMinors == 0) || (bMinors <= 1 && wMinors == 0)
}
