package board

import (
	"math/rand"
	"testing"
)

func TestStartingPosition(t *testing.T) {
	pos := NewPosition()

	if pos.SideToMove != White {
		t.Error("white should be to move")
	}
	if pos.AllOccupied.PopCount() != 32 {
		t.Errorf("starting position has %d pieces, want 32", pos.AllOccupied.PopCount())
	}
	if pos.KingSquare[White] != E1 || pos.KingSquare[Black] != E8 {
		t.Errorf("king squares %s/%s, want e1/e8", pos.KingSquare[White], pos.KingSquare[Black])
	}

	wantRooks := [2][2]Square{{H1, A1}, {H8, A8}}
	if pos.CastlingRooks != wantRooks {
		t.Errorf("castling rooks %v, want %v", pos.CastlingRooks, wantRooks)
	}

	if pos.Hash == 0 {
		t.Error("hash should not be zero")
	}
	if err := pos.Validate(); err != nil {
		t.Errorf("starting position invalid: %v", err)
	}
}

func TestStartposNoChecksOrPins(t *testing.T) {
	pos := NewPosition()

	if pos.Checkers != 0 {
		t.Errorf("startpos has checkers: %v", pos.Checkers)
	}
	if pos.DiagonalPins != 0 || pos.OrthogonalPins != 0 {
		t.Errorf("startpos has pins: diag=%v orth=%v", pos.DiagonalPins, pos.OrthogonalPins)
	}
}

func TestMutationPrimitives(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}
	baseline := *pos

	// A battery of add/remove/move ops that ends where it started must
	// restore every field, hashes included.
	pos.AddPiece(D4, NewPiece(Queen, White))
	pos.MovePiece(D4, H4)
	pos.MovePiece(H4, D4)
	if got := pos.RemovePiece(D4); got != NewPiece(Queen, White) {
		t.Errorf("removed %v, want white queen", got)
	}

	if *pos != baseline {
		t.Error("position not restored after inverse mutation battery")
	}

	pos.AddPiece(C6, NewPiece(Knight, Black))
	pos.AddPiece(A2, NewPiece(Pawn, White))
	if err := pos.Validate(); err != nil {
		t.Errorf("position invalid after mutations: %v", err)
	}
}

func TestHashFieldMembership(t *testing.T) {
	// Each move kind must touch exactly the hash fields that track it.
	t.Run("pawn move", func(t *testing.T) {
		b := NewBoard()
		before := *b.Position()
		mv, _ := ParseMove("e2e4", b.Position())
		b.MakeMove(mv)
		after := b.Position()

		if after.PawnHash == before.PawnHash {
			t.Error("pawn hash unchanged by pawn move")
		}
		if after.NonPawnHash != before.NonPawnHash {
			t.Error("non-pawn hash changed by pawn move")
		}
		if after.MajorHash != before.MajorHash || after.MinorHash != before.MinorHash {
			t.Error("major/minor hash changed by pawn move")
		}
	})

	t.Run("knight move", func(t *testing.T) {
		b := NewBoard()
		before := *b.Position()
		mv, _ := ParseMove("g1f3", b.Position())
		b.MakeMove(mv)
		after := b.Position()

		if after.PawnHash != before.PawnHash {
			t.Error("pawn hash changed by knight move")
		}
		if after.NonPawnHash[White] == before.NonPawnHash[White] {
			t.Error("white non-pawn hash unchanged by knight move")
		}
		if after.NonPawnHash[Black] != before.NonPawnHash[Black] {
			t.Error("black non-pawn hash changed by white knight move")
		}
		if after.MinorHash == before.MinorHash {
			t.Error("minor hash unchanged by knight move")
		}
		if after.MajorHash != before.MajorHash {
			t.Error("major hash changed by knight move")
		}
	})

	t.Run("rook move", func(t *testing.T) {
		b, err := NewBoardFromFEN("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
		if err != nil {
			t.Fatal("Error parsing FEN:", err)
		}
		before := *b.Position()
		mv, _ := ParseMove("a1a4", b.Position())
		b.MakeMove(mv)
		after := b.Position()

		if after.MajorHash == before.MajorHash {
			t.Error("major hash unchanged by rook move")
		}
		if after.MinorHash != before.MinorHash {
			t.Error("minor hash changed by rook move")
		}
	})

	t.Run("king move", func(t *testing.T) {
		b, err := NewBoardFromFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
		if err != nil {
			t.Fatal("Error parsing FEN:", err)
		}
		before := *b.Position()
		mv, _ := ParseMove("e1e2", b.Position())
		b.MakeMove(mv)
		after := b.Position()

		// Kings are tracked by both the major and the minor hash.
		if after.MajorHash == before.MajorHash {
			t.Error("major hash unchanged by king move")
		}
		if after.MinorHash == before.MinorHash {
			t.Error("minor hash unchanged by king move")
		}
		if after.PawnHash != before.PawnHash {
			t.Error("pawn hash changed by king move")
		}
	})
}

func TestAttackersConsistency(t *testing.T) {
	pos, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	occ := pos.AllOccupied
	for sq := A1; sq <= H8; sq++ {
		all := pos.AttackersTo(sq, occ)
		white := pos.AttackersBy(sq, White, occ)
		black := pos.AttackersBy(sq, Black, occ)

		if white|black != all {
			t.Errorf("%s: per-color attackers don't union to all attackers", sq)
		}
		if white&^pos.Occupied[White] != 0 {
			t.Errorf("%s: white attackers include non-white pieces", sq)
		}
		if black&^pos.Occupied[Black] != 0 {
			t.Errorf("%s: black attackers include non-black pieces", sq)
		}
		if got := pos.IsAttacked(sq, White, occ); got != (white != 0) {
			t.Errorf("%s: IsAttacked(white)=%v but attackers=%v", sq, got, white)
		}
	}
}

func TestOrthogonalPinRay(t *testing.T) {
	// White rook on e2 is pinned to the king by the black rook on e7.
	pos, err := ParseFEN("4k3/4r3/8/8/8/8/4R3/4K3 w - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	if pos.OrthogonalPins == 0 {
		t.Fatal("expected an orthogonal pin")
	}
	if !pos.OrthogonalPins.IsSet(E7) {
		t.Error("pin ray must include the pinning rook's square")
	}
	if !pos.OrthogonalPins.IsSet(E2) {
		t.Error("pin ray must include the pinned piece's square")
	}
	if pos.OrthogonalPins.IsSet(E1) {
		t.Error("pin ray must exclude the king's square")
	}
	if pos.DiagonalPins != 0 {
		t.Errorf("unexpected diagonal pins: %v", pos.DiagonalPins)
	}
}

func TestDiagonalPinRay(t *testing.T) {
	// White knight on d2 is pinned by the bishop on a5.
	pos, err := ParseFEN("4k3/8/8/b7/8/8/3N4/4K3 w - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	want := SquareBB(A5) | SquareBB(B4) | SquareBB(C3) | SquareBB(D2)
	if pos.DiagonalPins != want {
		t.Errorf("diagonal pins = %v, want %v", pos.DiagonalPins, want)
	}

	// A pinned knight has no legal moves.
	var ml MoveList
	pos.GenerateMoves(&ml)
	for i := 0; i < ml.Len(); i++ {
		if ml.Get(i).From() == D2 {
			t.Errorf("pinned knight move generated: %v", ml.Get(i))
		}
	}
}

func TestTwoFriendlyBlockersNoPin(t *testing.T) {
	pos, err := ParseFEN("4k3/4r3/8/8/4N3/4N3/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}
	if pos.OrthogonalPins != 0 {
		t.Errorf("two blockers should not form a pin, got %v", pos.OrthogonalPins)
	}
}

func TestThreatsMatchPerSquareProbes(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	}
	for _, fen := range fens {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatal("Error parsing FEN:", err)
		}
		them := pos.SideToMove.Other()
		for sq := A1; sq <= H8; sq++ {
			if pos.Threats.IsSet(sq) != pos.IsAttacked(sq, them, pos.AllOccupied) {
				t.Errorf("%s: threat map disagrees with IsAttacked at %s", fen, sq)
			}
		}
	}
}

func TestCastlingDenial(t *testing.T) {
	t.Run("in check", func(t *testing.T) {
		pos, err := ParseFEN("4k3/8/8/8/8/8/4r3/R3K2R w KQ - 0 1")
		if err != nil {
			t.Fatal("Error parsing FEN:", err)
		}
		kingside, queenside := pos.CanCastle()
		if kingside || queenside {
			t.Error("castling must be unavailable while in check")
		}
	})

	t.Run("blocked path", func(t *testing.T) {
		// Own queen on d1 blocks the queenside rook's path.
		pos, err := ParseFEN("4k3/8/8/8/8/8/8/R2QK2R w KQ - 0 1")
		if err != nil {
			t.Fatal("Error parsing FEN:", err)
		}
		kingside, queenside := pos.CanCastle()
		if !kingside {
			t.Error("kingside should be available")
		}
		if queenside {
			t.Error("queenside should be blocked by the queen on d1")
		}
	})

	t.Run("attacked transit", func(t *testing.T) {
		// Black rook on f2 covers f1, the first square the king crosses.
		pos, err := ParseFEN("4k3/8/8/8/8/8/5r2/R3K2R w KQ - 0 1")
		if err != nil {
			t.Fatal("Error parsing FEN:", err)
		}
		kingside, queenside := pos.CanCastle()
		if kingside {
			t.Error("kingside transit square f1 is attacked")
		}
		if !queenside {
			t.Error("queenside should be available")
		}
	})

	t.Run("both available", func(t *testing.T) {
		pos, err := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
		if err != nil {
			t.Fatal("Error parsing FEN:", err)
		}
		kingside, queenside := pos.CanCastle()
		if !kingside || !queenside {
			t.Errorf("both wings should be available, got kingside=%v queenside=%v", kingside, queenside)
		}
	})
}

func TestChess960CastlingSwap(t *testing.T) {
	// King on d1, rook on c1: queenside castling lands the king on c1 and
	// the rook on d1, swapping the two pieces.
	b, err := NewBoardFromFEN("4k3/8/8/8/8/8/8/2RK4 w C - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}
	pos := b.Position()

	if pos.CastlingRooks[White][Queenside] != C1 {
		t.Fatalf("castling rook = %s, want c1", pos.CastlingRooks[White][Queenside])
	}
	kingside, queenside := pos.CanCastle()
	if kingside || !queenside {
		t.Fatalf("want queenside only, got kingside=%v queenside=%v", kingside, queenside)
	}

	var ml MoveList
	pos.GenerateMoves(&ml)
	castle := NoMove
	for i := 0; i < ml.Len(); i++ {
		if ml.Get(i).IsCastling() {
			castle = ml.Get(i)
		}
	}
	if castle == NoMove {
		t.Fatal("castling move not generated")
	}

	b.MakeMove(castle)
	after := b.Position()
	if after.PieceAt(C1) != NewPiece(King, White) {
		t.Errorf("king should be on c1, found %v", after.PieceAt(C1))
	}
	if after.PieceAt(D1) != NewPiece(Rook, White) {
		t.Errorf("rook should be on d1, found %v", after.PieceAt(D1))
	}
	if err := after.Validate(); err != nil {
		t.Errorf("position invalid after 960 castle: %v", err)
	}
}

func TestEnPassantBothCapturesLegal(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/2PpP3/8/8/8/4K3 w - d6 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	if pos.EnPassant != D6 {
		t.Fatalf("en passant target = %s, want d6", pos.EnPassant)
	}

	left, right := pos.EPLegality(D6)
	if !left {
		t.Error("capture from c5 should be legal")
	}
	if !right {
		t.Error("capture from e5 should be legal")
	}

	var ml MoveList
	pos.GenerateMoves(&ml)
	var eps []Move
	for i := 0; i < ml.Len(); i++ {
		if ml.Get(i).IsEnPassant() {
			eps = append(eps, ml.Get(i))
		}
	}
	if len(eps) != 2 {
		t.Errorf("generated %d en passant captures, want 2: %v", len(eps), eps)
	}
}

func TestEnPassantClearedWhenNotCapturable(t *testing.T) {
	// No black pawn can capture on e3, so the target is dropped and the
	// hash matches the same position without the target.
	withEP, err := ParseFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}
	withoutEP, err := ParseFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	if withEP.EnPassant != NoSquare {
		t.Errorf("uncapturable en passant target kept: %s", withEP.EnPassant)
	}
	if withEP.Hash != withoutEP.Hash {
		t.Error("hash should match the position without the target")
	}
}

func TestDoublePushSetsTargetOnlyWhenCapturable(t *testing.T) {
	t.Run("no captor", func(t *testing.T) {
		b := NewBoard()
		mv, _ := ParseMove("e2e4", b.Position())
		b.MakeMove(mv)
		if got := b.Position().EnPassant; got != NoSquare {
			t.Errorf("en passant target = %s, want none", got)
		}
	})

	t.Run("with captor", func(t *testing.T) {
		b, err := NewBoardFromFEN("4k3/8/8/8/3p4/8/4P3/4K3 w - - 0 1")
		if err != nil {
			t.Fatal("Error parsing FEN:", err)
		}
		mv, _ := ParseMove("e2e4", b.Position())
		b.MakeMove(mv)
		if got := b.Position().EnPassant; got != E3 {
			t.Errorf("en passant target = %s, want e3", got)
		}
	})
}

func TestNullMove(t *testing.T) {
	b, err := NewBoardFromFEN("4k3/8/8/3Pp3/8/8/8/4K3 w - e6 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}
	before := *b.Position()

	b.MakeNullMove()
	after := b.Position()
	if after.SideToMove != Black {
		t.Error("null move should flip the side to move")
	}
	if after.EnPassant != NoSquare {
		t.Error("null move should clear the en passant target")
	}
	if after.Hash == before.Hash {
		t.Error("null move should change the hash")
	}
	if err := after.Validate(); err != nil {
		t.Errorf("position invalid after null move: %v", err)
	}

	b.UnmakeMove()
	if *b.Position() != before {
		t.Error("unmake after null move did not restore the position")
	}
}

// TestRandomWalkConsistency plays random legal games and verifies, at every
// ply, the full cross-representation invariant set: Validate's mailbox,
// occupancy and six-hash checks, plus hash stability under a FEN round trip.
func TestRandomWalkConsistency(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	var ml MoveList

	for game := 0; game < 20; game++ {
		b := NewBoard()
		startHash := b.Position().Hash

		for ply := 0; ply < 120; ply++ {
			pos := b.Position()
			pos.GenerateMoves(&ml)
			if ml.Len() == 0 {
				break
			}
			mv := ml.Get(rng.Intn(ml.Len()))
			b.MakeMove(mv)

			cur := b.Position()
			if err := cur.Validate(); err != nil {
				t.Fatalf("game %d ply %d after %v: %v\nFEN: %s", game, ply, mv, err, cur.ToFEN())
			}

			reparsed, err := ParseFEN(cur.ToFEN())
			if err != nil {
				t.Fatalf("game %d ply %d: emitted unparseable FEN %q: %v", game, ply, cur.ToFEN(), err)
			}
			if reparsed.Hash != cur.Hash || reparsed.PawnHash != cur.PawnHash ||
				reparsed.NonPawnHash != cur.NonPawnHash ||
				reparsed.MajorHash != cur.MajorHash || reparsed.MinorHash != cur.MinorHash {
				t.Fatalf("game %d ply %d: hash fields not stable under FEN round trip\nFEN: %s", game, ply, cur.ToFEN())
			}
		}

		for b.Ply() > 0 {
			b.UnmakeMove()
		}
		if b.Position().Hash != startHash {
			t.Fatalf("game %d: hash not restored after unwinding all moves", game)
		}
	}
}

func TestCaptureUpdatesCastlingRights(t *testing.T) {
	// Capturing the h8 rook must clear black's kingside right.
	b, err := NewBoardFromFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}
	mv, err := ParseMove("h1h8", b.Position())
	if err != nil {
		t.Fatal(err)
	}
	b.MakeMove(mv)

	pos := b.Position()
	if pos.CastlingRooks[Black][Kingside] != NoSquare {
		t.Error("black kingside right should be gone after the rook was captured")
	}
	if pos.CastlingRooks[Black][Queenside] != A8 {
		t.Error("black queenside right should survive")
	}
	if pos.CastlingRooks[White][Kingside] != NoSquare {
		t.Error("white kingside right should be gone after the rook moved")
	}
	if err := pos.Validate(); err != nil {
		t.Errorf("position invalid: %v", err)
	}
}
