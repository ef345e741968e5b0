package board

import "testing"

func TestToSAN(t *testing.T) {
	tests := []struct {
		fen  string
		uci  string
		want string
	}{
		{StartFEN, "e2e4", "e4"},
		{StartFEN, "g1f3", "Nf3"},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1h1", "O-O"},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1a1", "O-O-O"},
		{"4k3/8/8/2PpP3/8/8/8/4K3 w - d6 0 1", "e5d6", "exd6"},
		{"3k4/4P3/8/8/8/8/8/4K3 w - - 0 1", "e7e8q", "e8=Q+"},
		{"6k1/5ppp/8/8/8/8/8/4R1K1 w - - 0 1", "e1e8", "Re8#"},
		// Two knights reaching the same square need the origin file.
		{"4k3/8/8/8/8/8/8/KN3N2 w - - 0 1", "b1d2", "Nbd2"},
	}

	for _, tc := range tests {
		pos, err := ParseFEN(tc.fen)
		if err != nil {
			t.Fatal("Error parsing FEN:", err)
		}
		m, err := ParseMove(tc.uci, pos)
		if err != nil {
			t.Fatal(err)
		}
		if got := m.ToSAN(pos); got != tc.want {
			t.Errorf("ToSAN(%s in %q) = %q, want %q", tc.uci, tc.fen, got, tc.want)
		}
	}
}

func TestParseSANRoundTrip(t *testing.T) {
	// Every generated move must survive SAN round-tripping uniquely.
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"4k3/8/8/2PpP3/8/8/8/4K3 w - d6 0 1",
		"3n4/4P3/8/8/8/8/8/k3K3 w - - 0 1",
	}

	for _, fen := range fens {
		pos, err := ParseFEN(fen)
		if err != nil {
			t.Fatal("Error parsing FEN:", err)
		}
		var ml MoveList
		pos.GenerateMoves(&ml)

		for i := 0; i < ml.Len(); i++ {
			m := ml.Get(i)
			san := m.ToSAN(pos)
			back, err := ParseSAN(san, pos)
			if err != nil {
				t.Errorf("%q: ParseSAN(%q): %v", fen, san, err)
				continue
			}
			if back != m {
				t.Errorf("%q: %v -> %q -> %v", fen, m, san, back)
			}
		}
	}
}

func TestParseSANErrors(t *testing.T) {
	pos := NewPosition()

	for _, s := range []string{"", "Zf3", "Nf9", "e8=X", "O-O", "Qxd7"} {
		if _, err := ParseSAN(s, pos); err == nil {
			t.Errorf("ParseSAN(%q) should fail", s)
		}
	}
}
