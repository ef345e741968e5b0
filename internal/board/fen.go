package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string and returns a fully initialized Position,
// with every hash field and the check/pin/threat caches computed.
//
// The castling field accepts X-FEN: bare K/Q/k/q resolve to the outermost
// rook on that wing, file letters (A-H, a-h) name a specific rook, which
// covers chess960 and Shredder-FEN start positions. An en-passant target is
// kept only if at least one pawn could actually play the capture legally;
// otherwise it is cleared silently. On any error no position is returned.
func ParseFEN(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 || len(parts) > 6 {
		return nil, fmt.Errorf("invalid FEN: need 4 to 6 fields, got %d", len(parts))
	}

	pos := &Position{
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}
	pos.KingSquare[White] = NoSquare
	pos.KingSquare[Black] = NoSquare
	pos.CastlingRooks = [2][2]Square{{NoSquare, NoSquare}, {NoSquare, NoSquare}}

	if err := parsePiecePlacement(pos, parts[0]); err != nil {
		return nil, err
	}
	if n := pos.Pieces[White][King].PopCount(); n != 1 {
		return nil, fmt.Errorf("invalid FEN: white has %d kings", n)
	}
	if n := pos.Pieces[Black][King].PopCount(); n != 1 {
		return nil, fmt.Errorf("invalid FEN: black has %d kings", n)
	}

	switch parts[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, fmt.Errorf("invalid side to move: %s", parts[1])
	}

	if err := parseCastling(pos, parts[2]); err != nil {
		return nil, err
	}

	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant square: %w", err)
		}
		pos.EnPassant = sq
	}

	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil {
			return nil, fmt.Errorf("invalid half-move clock: %s", parts[4])
		}
		pos.HalfMoveClock = hmc
	}
	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil {
			return nil, fmt.Errorf("invalid full-move number: %s", parts[5])
		}
		pos.FullMoveNumber = fmn
	}

	// Keep the en-passant target only when a capture could actually be
	// played. This also drops targets on impossible ranks.
	if pos.EnPassant != NoSquare {
		wantRank := 5
		if pos.SideToMove == Black {
			wantRank = 2
		}
		if pos.EnPassant.Rank() != wantRank {
			pos.EnPassant = NoSquare
		} else if left, right := pos.EPLegality(pos.EnPassant); !left && !right {
			pos.EnPassant = NoSquare
		}
	}

	pos.RecomputeHashes()
	pos.UpdateChecksAndPins()

	return pos, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("invalid piece placement: need 8 ranks, got %d", len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0

		for _, c := range rankStr {
			if file > 7 {
				return fmt.Errorf("too many squares in rank %d", rank+1)
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
			} else {
				piece := PieceFromChar(byte(c))
				if piece == NoPiece {
					return fmt.Errorf("invalid piece character: %c", c)
				}
				sq := NewSquare(file, rank)
				if piece.Type() == King && pos.KingSquare[piece.Color()] != NoSquare {
					// AddPiece would clobber the king square cache.
					return fmt.Errorf("invalid FEN: %s has 2 kings", piece.Color())
				}
				pos.AddPiece(sq, piece)
				file++
			}
		}

		if file != 8 {
			return fmt.Errorf("invalid number of squares in rank %d: got %d", rank+1, file)
		}
	}

	return nil
}

// parseCastling parses the castling field, resolving each token to a rook
// home square.
func parseCastling(pos *Position, castling string) error {
	if castling == "-" {
		return nil
	}

	for _, r := range castling {
		var c Color
		var rookSq Square

		switch {
		case r == 'K':
			c, rookSq = White, pos.outermostRook(White, Kingside)
		case r == 'Q':
			c, rookSq = White, pos.outermostRook(White, Queenside)
		case r == 'k':
			c, rookSq = Black, pos.outermostRook(Black, Kingside)
		case r == 'q':
			c, rookSq = Black, pos.outermostRook(Black, Queenside)
		case r >= 'A' && r <= 'H':
			c, rookSq = White, NewSquare(int(r-'A'), 0)
		case r >= 'a' && r <= 'h':
			c, rookSq = Black, NewSquare(int(r-'a'), 7)
		default:
			return fmt.Errorf("invalid castling character: %c", r)
		}

		backRank := 0
		if c == Black {
			backRank = 7
		}
		ksq := pos.KingSquare[c]
		if ksq.Rank() != backRank {
			return fmt.Errorf("castling right %c without %s king on the back rank", r, c)
		}
		if rookSq == NoSquare || pos.Mailbox[rookSq] != NewPiece(Rook, c) {
			return fmt.Errorf("castling right %c has no matching rook", r)
		}

		wing := Queenside
		if rookSq.File() > ksq.File() {
			wing = Kingside
		}
		pos.CastlingRooks[c][wing] = rookSq
	}

	return nil
}

// outermostRook finds the rook a bare K/Q/k/q token refers to: the one
// farthest from the king on that wing of the back rank.
func (p *Position) outermostRook(c Color, wing int) Square {
	backRank := 0
	if c == Black {
		backRank = 7
	}
	ksq := p.KingSquare[c]
	if ksq == NoSquare || ksq.Rank() != backRank {
		return NoSquare
	}

	rooks := p.Pieces[c][Rook] & RankMask[backRank]
	found := NoSquare
	for rooks != 0 {
		sq := rooks.PopLSB()
		switch {
		case wing == Kingside && sq > ksq:
			found = sq // keep scanning: outermost is the highest file
		case wing == Queenside && sq < ksq && found == NoSquare:
			found = sq
		}
	}
	return found
}

// ToFEN returns the FEN representation of the position. The castling field
// uses K/Q/k/q for rooks on their classical home squares and file letters
// for everything else, so canonical FENs round-trip exactly.
func (p *Position) ToFEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.Mailbox[NewSquare(file, rank)]
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.castlingField())

	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.FullMoveNumber))

	return sb.String()
}

func (p *Position) castlingField() string {
	classic := [2][2]Square{{H1, A1}, {H8, A8}}
	letters := [2][2]byte{{'K', 'Q'}, {'k', 'q'}}

	var sb strings.Builder
	for c := White; c <= Black; c++ {
		for wing := Kingside; wing <= Queenside; wing++ {
			rookSq := p.CastlingRooks[c][wing]
			if rookSq == NoSquare {
				continue
			}
			if rookSq == classic[c][wing] {
				sb.WriteByte(letters[c][wing])
			} else {
				base := byte('A')
				if c == Black {
					base = 'a'
				}
				sb.WriteByte(base + byte(rookSq.File()))
			}
		}
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}
