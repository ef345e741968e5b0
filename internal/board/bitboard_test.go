package board

import "testing"

func TestBitboardShiftsDoNotWrap(t *testing.T) {
	// Pieces on the H file must not wrap onto the A file when shifted east,
	// and vice versa.
	h4 := SquareBB(H4)
	if h4.East() != 0 {
		t.Errorf("East from h4 should be empty, got %v", h4.East())
	}
	if h4.NorthEast() != 0 {
		t.Errorf("NorthEast from h4 should be empty, got %v", h4.NorthEast())
	}
	if h4.SouthEast() != 0 {
		t.Errorf("SouthEast from h4 should be empty, got %v", h4.SouthEast())
	}

	a4 := SquareBB(A4)
	if a4.West() != 0 {
		t.Errorf("West from a4 should be empty, got %v", a4.West())
	}
	if a4.NorthWest() != 0 {
		t.Errorf("NorthWest from a4 should be empty, got %v", a4.NorthWest())
	}
	if a4.SouthWest() != 0 {
		t.Errorf("SouthWest from a4 should be empty, got %v", a4.SouthWest())
	}

	if got := SquareBB(E4).North(); got != SquareBB(E5) {
		t.Errorf("North from e4 = %v, want e5", got)
	}
	if got := SquareBB(E4).South(); got != SquareBB(E3) {
		t.Errorf("South from e4 = %v, want e3", got)
	}
}

func TestBitboardPopLSB(t *testing.T) {
	bb := SquareBB(C2) | SquareBB(F5) | SquareBB(H8)

	// PopLSB returns squares in ascending order.
	want := []Square{C2, F5, H8}
	for i, w := range want {
		if sq := bb.PopLSB(); sq != w {
			t.Errorf("pop %d = %s, want %s", i, sq, w)
		}
	}
	if bb != 0 {
		t.Errorf("bitboard not empty after popping all bits: %v", bb)
	}
}

func TestBitboardSeveral(t *testing.T) {
	if EmptyBB.Several() {
		t.Error("empty bitboard reported several bits")
	}
	if SquareBB(D4).Several() {
		t.Error("single bit reported several")
	}
	if !(SquareBB(D4) | SquareBB(D5)).Several() {
		t.Error("two bits not reported as several")
	}
	if !FullBB.Several() {
		t.Error("full board not reported as several")
	}
}

func TestBitboardCounts(t *testing.T) {
	if got := FileA.PopCount(); got != 8 {
		t.Errorf("FileA has %d bits, want 8", got)
	}
	if got := (Rank1 | Rank8).PopCount(); got != 16 {
		t.Errorf("back ranks have %d bits, want 16", got)
	}
	if got := FullBB.PopCount(); got != 64 {
		t.Errorf("full board has %d bits, want 64", got)
	}
	if lsb := Rank4.LSB(); lsb != A4 {
		t.Errorf("LSB of rank 4 = %s, want a4", lsb)
	}
	if msb := Rank4.MSB(); msb != H4 {
		t.Errorf("MSB of rank 4 = %s, want h4", msb)
	}
}
