package board

import "testing"

func TestCheckmate(t *testing.T) {
	// Back rank mate: black king h8 boxed in by its own pawns, rook a8.
	pos, err := ParseFEN("R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	if !pos.InCheck() {
		t.Error("black should be in check")
	}
	if pos.HasLegalMoves() {
		t.Error("black should have no legal moves")
	}
	if !pos.IsCheckmate() {
		t.Error("expected checkmate")
	}
	if pos.IsStalemate() {
		t.Error("checkmate misreported as stalemate")
	}
}

func TestNotCheckmateKingCanCapture(t *testing.T) {
	// The checking rook on g8 is undefended and adjacent to the king.
	pos, err := ParseFEN("6Rk/8/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	if !pos.InCheck() {
		t.Error("black should be in check")
	}
	if pos.IsCheckmate() {
		t.Error("king can capture the rook, not checkmate")
	}

	var ml MoveList
	pos.GenerateMoves(&ml)
	if !ml.Contains(NewMove(H8, G8)) {
		t.Error("capture of the checking rook not generated")
	}
}

func TestStalemate(t *testing.T) {
	// Classic corner stalemate: black king a8, white queen covers every
	// escape square without giving check.
	pos, err := ParseFEN("k7/8/1Q6/8/8/8/8/4K3 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	if pos.InCheck() {
		t.Error("black should not be in check")
	}
	if !pos.IsStalemate() {
		t.Error("expected stalemate")
	}
	if !pos.IsDraw() {
		t.Error("stalemate should be a draw")
	}
}

func TestDoubleCheckOnlyKingMoves(t *testing.T) {
	// Rook on e8 and bishop on h4 both check the e1 king.
	pos, err := ParseFEN("4r2k/8/8/8/7b/8/8/R3K2R w KQ - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	if !pos.Checkers.Several() {
		t.Fatalf("expected double check, checkers = %v", pos.Checkers)
	}

	var ml MoveList
	pos.GenerateMoves(&ml)
	for i := 0; i < ml.Len(); i++ {
		if ml.Get(i).From() != E1 {
			t.Errorf("non-king move generated in double check: %v", ml.Get(i))
		}
	}
	if ml.Len() == 0 {
		t.Error("king should have escape squares")
	}
}

func TestSingleCheckBlockOrCapture(t *testing.T) {
	// Rook on e8 checks. Legal answers: king steps, blocks on the e-file,
	// or capturing the rook.
	pos, err := ParseFEN("4r2k/8/8/8/8/8/3Q4/4K3 w - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	var ml MoveList
	pos.GenerateMoves(&ml)

	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		if m.From() == E1 {
			continue
		}
		to := m.To()
		if to != E8 && Between(E8, E1)&SquareBB(to) == 0 {
			t.Errorf("move %v neither blocks nor captures the checker", m)
		}
	}

	if !ml.Contains(NewMove(D2, E2)) {
		t.Error("queen block on e2 not generated")
	}
}

func TestPinnedSliderStaysOnRay(t *testing.T) {
	// White queen on e2 is pinned by the e7 rook: it may slide along the
	// e-file (including capturing the rook) but never leave it.
	pos, err := ParseFEN("4k3/4r3/8/8/8/8/4Q3/4K3 w - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	var ml MoveList
	pos.GenerateMoves(&ml)

	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		if m.From() != E2 {
			continue
		}
		if m.To().File() != 4 {
			t.Errorf("pinned queen left the e-file: %v", m)
		}
	}
	if !ml.Contains(NewMove(E2, E7)) {
		t.Error("capture of the pinning rook not generated")
	}
}

func TestPromotionMoves(t *testing.T) {
	pos, err := ParseFEN("3n4/4P3/8/8/8/8/8/k3K3 w - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	var ml MoveList
	pos.GenerateMoves(&ml)

	pushes, captures := 0, 0
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		if !m.IsPromotion() {
			continue
		}
		switch m.To() {
		case E8:
			pushes++
		case D8:
			captures++
		}
	}
	if pushes != 4 {
		t.Errorf("%d push promotions, want 4", pushes)
	}
	if captures != 4 {
		t.Errorf("%d capture promotions, want 4", captures)
	}
}

func TestCastlingMoveEncoding(t *testing.T) {
	pos, err := ParseFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	var ml MoveList
	pos.GenerateMoves(&ml)

	// Castling is encoded king-onto-rook.
	if !ml.Contains(NewCastling(E1, H1)) {
		t.Error("kingside castle e1h1 not generated")
	}
	if !ml.Contains(NewCastling(E1, A1)) {
		t.Error("queenside castle e1a1 not generated")
	}
}

func TestInsufficientMaterial(t *testing.T) {
	tests := []struct {
		fen  string
		want bool
	}{
		{"8/8/8/8/8/8/8/k1K5 w - - 0 1", true},            // K vs K
		{"8/8/8/8/8/8/8/kBK5 w - - 0 1", true},            // K+B vs K
		{"8/8/8/4n3/8/8/8/k1K5 w - - 0 1", true},          // K vs K+N
		{"8/8/8/4nn2/8/8/8/k1K5 w - - 0 1", false},        // two knights
		{"8/8/8/4P3/8/8/8/k1K5 w - - 0 1", false},         // pawn
		{"8/8/8/4R3/8/8/8/k1K5 w - - 0 1", false},         // rook
		{StartFEN, false},
	}

	for _, tc := range tests {
		pos, err := ParseFEN(tc.fen)
		if err != nil {
			t.Fatal("Error parsing FEN:", err)
		}
		if got := pos.IsInsufficientMaterial(); got != tc.want {
			t.Errorf("IsInsufficientMaterial(%q) = %v, want %v", tc.fen, got, tc.want)
		}
	}
}

func TestFiftyMoveRuleDraw(t *testing.T) {
	pos, err := ParseFEN("4k3/8/8/8/8/8/4R3/4K3 w - - 100 80")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}
	if !pos.IsDraw() {
		t.Error("half-move clock at 100 should be a draw")
	}
}
