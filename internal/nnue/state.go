package nnue

import "github.com/nocturn9x/heimdall-sub003/internal/board"

// pendingUpdate records one not-yet-applied move: everything needed to
// later bring both accumulators forward without consulting the position
// the move was made from.
type pendingUpdate struct {
	move     board.Move
	mover    board.Piece
	captured board.Piece
	refresh  [2]bool
	histIdx  int
}

// EvalState maintains the two per-perspective accumulator stacks for one
// Board. It is paired 1:1 with that board and, like it, owned by a single
// worker; workers clone the board and build their own state.
//
// Updates are lazy. Update records a pending delta per move, Pop discards
// or rewinds, and Evaluate drains the queue before scoring, so positions
// that are searched but never evaluated never touch the accumulators.
// The combined depth of applied and pending plies must stay within
// MaxPly.
type EvalState struct {
	net   *Network
	board *board.Board
	cache *refreshCache

	accum  [2][MaxPly + 1]Accumulator
	cursor int

	pending      [MaxPly]pendingUpdate
	pendingCount int

	score      int
	scoreValid bool
}

// NewEvalState builds evaluation state for b's current position. The
// network is shared and read-only; the state is not.
func NewEvalState(net *Network, b *board.Board) *EvalState {
	s := &EvalState{net: net, board: b, cache: newRefreshCache(net)}
	s.Reset()
	return s
}

// Reset rebinds the state to the board's current position, dropping all
// pending updates and accumulator history. Call it when the board jumps
// to a new root.
func (s *EvalState) Reset() {
	s.pendingCount = 0
	s.cursor = 0
	s.scoreValid = false
	pos := s.board.Position()
	s.cache.refresh(s.net, pos, board.White, &s.accum[board.White][0])
	s.cache.refresh(s.net, pos, board.Black, &s.accum[board.Black][0])
}

// Update records the delta for m. Call it once per move, before the move
// is applied to the board. board.NoMove records a null move.
func (s *EvalState) Update(m board.Move) {
	s.scoreValid = false
	e := &s.pending[s.pendingCount]
	s.pendingCount++

	e.move = m
	e.histIdx = s.board.Ply() + 1
	e.refresh[board.White] = false
	e.refresh[board.Black] = false
	e.mover = board.NoPiece
	e.captured = board.NoPiece
	if m == board.NoMove {
		return
	}

	pos := s.board.Position()
	e.mover = pos.Mailbox[m.From()]
	switch {
	case m.IsEnPassant():
		e.captured = board.NewPiece(board.Pawn, e.mover.Color().Other())
	case m.IsCastling():
		// The rook on the target square is ours, not a capture.
	default:
		e.captured = pos.Mailbox[m.To()]
	}

	if e.mover.Type() == board.King {
		e.refresh[e.mover.Color()] = mustRefresh(e.mover.Color(), m)
	}
}

// mustRefresh reports whether a perspective's accumulator must be rebuilt
// for its own king move m: exactly when the king changes input bucket or
// crosses the vertical midline, flipping the mirror state. The two
// perspectives decide independently; the opponent of the mover never
// refreshes.
func mustRefresh(perspective board.Color, m board.Move) bool {
	from := m.From()
	to := m.To()
	if m.IsCastling() {
		to, _ = board.CastleTargets(perspective, m.CastlingWing())
	}
	if mirrored(from) != mirrored(to) {
		return true
	}
	return kingBucket(perspective, from) != kingBucket(perspective, to)
}

// Pop reverses the newest ply: a still-pending update is simply
// discarded, otherwise the cursor rolls back one slot. Vacated slots are
// overwritten by the next update, never cleared.
func (s *EvalState) Pop() {
	s.scoreValid = false
	if s.pendingCount > 0 {
		s.pendingCount--
		return
	}
	if s.cursor > 0 {
		s.cursor--
	}
}

// PendingCount returns the number of recorded but not yet applied
// updates.
func (s *EvalState) PendingCount() int {
	return s.pendingCount
}

// Evaluate drains all pending updates oldest first, then scores the
// current position from the side to move's point of view. The score is
// memoized until the next Update, Pop or Reset.
func (s *EvalState) Evaluate() int {
	for i := 0; i < s.pendingCount; i++ {
		s.applyPending(&s.pending[i])
	}
	s.pendingCount = 0

	if s.scoreValid {
		return s.score
	}

	pos := s.board.Position()
	stm := pos.SideToMove
	own := &s.accum[stm][s.cursor].Values
	opp := &s.accum[stm.Other()][s.cursor].Values
	s.score = s.net.Forward(own, opp, outputBucket(pos))
	s.scoreValid = true
	return s.score
}

// applyPending advances the cursor one ply and brings both perspectives
// forward, each by refresh or incremental delta as recorded.
func (s *EvalState) applyPending(e *pendingUpdate) {
	prev := s.cursor
	s.cursor++
	for perspective := board.White; perspective <= board.Black; perspective++ {
		if e.refresh[perspective] {
			s.cache.refresh(s.net, s.board.At(e.histIdx), perspective, &s.accum[perspective][s.cursor])
		} else {
			s.applyDelta(perspective, e, prev)
		}
	}
}

// applyDelta applies e's add/remove feature set on top of the previous
// slot. The perspective's king bucket and mirror state are unchanged on
// this path, so every weight row comes from the same block.
func (s *EvalState) applyDelta(perspective board.Color, e *pendingUpdate, prev int) {
	from := &s.accum[perspective][prev]
	to := &s.accum[perspective][s.cursor]

	if e.move == board.NoMove {
		*to = *from
		return
	}

	us := e.mover.Color()
	mirror := mirrored(from.KingSq)
	bucket := kingBucket(perspective, from.KingSq)
	row := func(p board.Piece, sq board.Square) []int16 {
		return s.net.ftRow(bucket, featureIndex(perspective, p, sq, mirror))
	}

	src := e.move.From()
	dst := e.move.To()

	switch {
	case e.move.IsCastling():
		kingTo, rookTo := board.CastleTargets(us, e.move.CastlingWing())
		rook := board.NewPiece(board.Rook, us)
		vecAddAddSubSub(&to.Values, &from.Values,
			row(e.mover, kingTo), row(rook, rookTo),
			row(e.mover, src), row(rook, dst))
		dst = kingTo

	case e.captured != board.NoPiece:
		capSq := dst
		if e.move.IsEnPassant() {
			if us == board.White {
				capSq = dst - 8
			} else {
				capSq = dst + 8
			}
		}
		vecAddSubSub(&to.Values, &from.Values,
			row(placedPiece(e), dst), row(e.mover, src), row(e.captured, capSq))

	default:
		vecAddSub(&to.Values, &from.Values, row(placedPiece(e), dst), row(e.mover, src))
	}

	to.KingSq = from.KingSq
	if e.mover.Type() == board.King && us == perspective {
		to.KingSq = dst
	}
}

// placedPiece is the piece standing on the destination after the move:
// the mover, or the promoted piece.
func placedPiece(e *pendingUpdate) board.Piece {
	if e.move.IsPromotion() {
		return board.NewPiece(e.move.Promotion(), e.mover.Color())
	}
	return e.mover
}
