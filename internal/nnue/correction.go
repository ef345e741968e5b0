package nnue

import "github.com/nocturn9x/heimdall-sub003/internal/board"

// Correction history sizing. The structure hashes are narrow keys and
// collide, so the tables stay small and stored values decay toward fresh
// evidence instead of accumulating forever.
const (
	correctionSize = 16384 // entries per table, power of two
	correctionMask = correctionSize - 1

	correctionLimit = 256   // clamp for a single update's bonus
	correctionMax   = 16000 // clamp for stored entries
)

// CorrectionHistory nudges static evaluations toward what searches from
// structurally similar positions actually returned. Four position
// structures key their own tables, each split by side to move: the pawn
// hash, the two per-color non-pawn hashes, the major-piece hash and the
// minor-piece hash.
type CorrectionHistory struct {
	pawn    [2][correctionSize]int16
	nonPawn [2][2][correctionSize]int16 // [side to move][piece color]
	major   [2][correctionSize]int16
	minor   [2][correctionSize]int16
}

// NewCorrectionHistory returns an empty correction history.
func NewCorrectionHistory() *CorrectionHistory {
	return &CorrectionHistory{}
}

// corrIndex folds the high hash bits down, then masks to the table size.
func corrIndex(hash uint64) int {
	return int((hash ^ (hash >> 14)) & correctionMask)
}

// entries returns the five table slots for pos, pawn structure first.
func (ch *CorrectionHistory) entries(pos *board.Position) [5]*int16 {
	stm := pos.SideToMove
	return [5]*int16{
		&ch.pawn[stm][corrIndex(pos.PawnHash)],
		&ch.nonPawn[stm][board.White][corrIndex(pos.NonPawnHash[board.White])],
		&ch.nonPawn[stm][board.Black][corrIndex(pos.NonPawnHash[board.Black])],
		&ch.major[stm][corrIndex(pos.MajorHash)],
		&ch.minor[stm][corrIndex(pos.MinorHash)],
	}
}

// Correct returns the static evaluation adjusted by the weighted table
// average, kept out of the mate bands so a history nudge can never fake a
// forced mate. Pawn structure carries double weight.
func (ch *CorrectionHistory) Correct(pos *board.Position, static int) int {
	e := ch.entries(pos)
	sum := 2*int(*e[0]) + int(*e[1]) + int(*e[2]) + int(*e[3]) + int(*e[4])
	corrected := static + sum/6

	limit := MateScore - MaxPly - 1
	if corrected > limit {
		corrected = limit
	} else if corrected < -limit {
		corrected = -limit
	}
	return corrected
}

// Update records the error between a completed search's score and the
// static evaluation it started from. Deeper searches weigh more; mate
// scores are skipped since their magnitude encodes distance, not
// evaluation error.
func (ch *CorrectionHistory) Update(pos *board.Position, searchScore, staticEval, depth int) {
	if depth < 1 || IsMateScore(searchScore) {
		return
	}

	bonus := (searchScore - staticEval) * depth / 8
	if bonus > correctionLimit {
		bonus = correctionLimit
	} else if bonus < -correctionLimit {
		bonus = -correctionLimit
	}

	for _, e := range ch.entries(pos) {
		// Gravity update: move a sixteenth of the way toward the bonus.
		v := int(*e) + (bonus-int(*e))/16
		if v > correctionMax {
			v = correctionMax
		} else if v < -correctionMax {
			v = -correctionMax
		}
		*e = int16(v)
	}
}

// Clear resets all tables.
func (ch *CorrectionHistory) Clear() {
	*ch = CorrectionHistory{}
}

// Age halves every stored correction, fading old evidence between
// searches without discarding it.
func (ch *CorrectionHistory) Age() {
	for stm := 0; stm < 2; stm++ {
		for i := range ch.pawn[stm] {
			ch.pawn[stm][i] /= 2
			ch.nonPawn[stm][board.White][i] /= 2
			ch.nonPawn[stm][board.Black][i] /= 2
			ch.major[stm][i] /= 2
			ch.minor[stm][i] /= 2
		}
	}
}
