//go:build boardassert

package board

func assert(cond bool, msg string) {
	if !cond {
		panic("board: " + msg)
	}
}
