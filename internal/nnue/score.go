package nnue

// Score bounds. Scores within MaxPly of +-MateScore denote forced mates;
// the distance from MateScore is the number of plies until the mate.
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128
)

// MateIn returns the score for delivering mate ply half-moves from now.
func MateIn(ply int) int { return MateScore - ply }

// MatedIn returns the score for being mated ply half-moves from now.
func MatedIn(ply int) int { return ply - MateScore }

// IsMateScore reports whether score denotes a forced mate for either side.
func IsMateScore(score int) bool {
	if score < 0 {
		score = -score
	}
	return score >= MateScore-MaxPly
}

// CompressMateScore converts a root-relative mate score to a node-relative
// one for storage in a depth-keyed cache. Mates found at different depths
// then normalize to the same stored value; non-mate scores pass through.
func CompressMateScore(score, ply int) int {
	if score >= MateScore-MaxPly {
		return score + ply
	}
	if score <= -(MateScore - MaxPly) {
		return score - ply
	}
	return score
}

// DecompressMateScore undoes CompressMateScore on retrieval.
// DecompressMateScore(CompressMateScore(s, p), p) == s for every valid ply.
func DecompressMateScore(score, ply int) int {
	if score >= MateScore-MaxPly {
		return score - ply
	}
	if score <= -(MateScore - MaxPly) {
		return score + ply
	}
	return score
}
