// Command heimdall exercises the board and evaluation core from the
// command line: perft verification, static evaluation, throughput
// benchmarks and SVG diagrams.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	// this will automatically load your .env file:
	_ "github.com/joho/godotenv/autoload"
	"github.com/pkg/profile"

	"github.com/nocturn9x/heimdall-sub003/internal/board"
	"github.com/nocturn9x/heimdall-sub003/internal/nnue"
	"github.com/nocturn9x/heimdall-sub003/internal/render"
	"github.com/nocturn9x/heimdall-sub003/internal/storage"
)

func usage() {
	fmt.Fprint(os.Stderr, `usage: heimdall <command> [flags]

commands:
  perft   count legal move paths to a fixed depth
  eval    print the static evaluation of a position
  bench   measure evaluation and move generation throughput
  render  draw a position as an SVG diagram
  stats   show how many results the local database holds

Run 'heimdall <command> -h' for the flags of each command.
`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "perft":
		cmdPerft(os.Args[2:])
	case "eval":
		cmdEval(os.Args[2:])
	case "bench":
		cmdBench(os.Args[2:])
	case "render":
		cmdRender(os.Args[2:])
	case "stats":
		cmdStats(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "heimdall: unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

// resolveNetwork expands a bare network filename to the per-user networks
// directory when the file is not found as given. Empty means the embedded
// default and absolute or existing paths pass through untouched.
func resolveNetwork(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	dir, err := storage.GetNetworksDir()
	if err != nil {
		return path
	}
	shared := filepath.Join(dir, path)
	if _, err := os.Stat(shared); err == nil {
		return shared
	}
	return path
}

func cmdPerft(args []string) {
	fs := flag.NewFlagSet("perft", flag.ExitOnError)
	fen := fs.String("fen", board.StartFEN, "position to count from")
	depth := fs.Int("depth", 5, "leaf depth")
	divide := fs.Bool("divide", false, "print per-move subtotals")
	store := fs.Bool("store", false, "cache node counts in the local database")
	fs.Parse(args)

	if *depth < 1 {
		log.Fatal("depth must be at least 1")
	}
	b, err := board.NewBoardFromFEN(*fen)
	if err != nil {
		log.Fatal("bad FEN: ", err)
	}

	var db *storage.Store
	if *store {
		if db, err = storage.OpenDefault(); err != nil {
			log.Fatal(err)
		}
		defer db.Close()

		if nodes, ok, err := db.GetPerft(b.Position().Hash, *depth); err != nil {
			log.Fatal(err)
		} else if ok && !*divide {
			fmt.Printf("perft(%d) = %d (cached)\n", *depth, nodes)
			return
		}
	}

	start := time.Now()
	var nodes uint64
	if *divide {
		counts := board.PerftDivide(b, *depth)
		moves := make([]board.Move, 0, len(counts))
		for m := range counts {
			moves = append(moves, m)
		}
		sort.Slice(moves, func(i, j int) bool {
			return moves[i].String() < moves[j].String()
		})
		for _, m := range moves {
			fmt.Printf("%-6s %d\n", m, counts[m])
			nodes += counts[m]
		}
	} else {
		nodes = board.Perft(b, *depth)
	}
	elapsed := time.Since(start)
	fmt.Printf("perft(%d) = %d in %v (%.0f nodes/s)\n",
		*depth, nodes, elapsed.Round(time.Millisecond), float64(nodes)/elapsed.Seconds())

	if db != nil {
		if err := db.PutPerft(b.Position().Hash, *depth, nodes); err != nil {
			log.Fatal(err)
		}
	}
}

func cmdEval(args []string) {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	fen := fs.String("fen", board.StartFEN, "position to evaluate")
	moves := fs.String("moves", "", "UCI moves to apply after the position")
	netPath := fs.String("net", os.Getenv("HEIMDALL_NET"), "network weight file (default embedded)")
	store := fs.Bool("store", false, "cache the result in the local database")
	fs.Parse(args)

	net, err := nnue.LoadNetwork(resolveNetwork(*netPath))
	if err != nil {
		log.Fatal("load network: ", err)
	}
	b, err := board.NewBoardFromFEN(*fen)
	if err != nil {
		log.Fatal("bad FEN: ", err)
	}

	state := nnue.NewEvalState(net, b)
	var line []board.Move
	for _, uciMove := range strings.Fields(*moves) {
		m, err := board.ParseMove(uciMove, b.Position())
		if err != nil {
			log.Fatalf("move %q: %v", uciMove, err)
		}
		state.Update(m)
		b.MakeMove(m)
		line = append(line, m)
	}
	if len(line) > 0 {
		fmt.Println("line:", strings.Join(board.MovesToSAN(b.At(0), line), " "))
	}
	pos := b.Position()

	var db *storage.Store
	if *store {
		if db, err = storage.OpenDefault(); err != nil {
			log.Fatal(err)
		}
		defer db.Close()

		if rec, ok, err := db.GetEval(pos.Hash, 0); err != nil {
			log.Fatal(err)
		} else if ok {
			fmt.Printf("%s to move: %+d (cached)\n", pos.SideToMove, rec.Score)
			return
		}
	}

	score := state.Evaluate()
	fmt.Printf("%s to move: %+d\n", pos.SideToMove, score)

	if db != nil {
		if err := db.PutEval(pos.Hash, pos.ToFEN(), score, 0); err != nil {
			log.Fatal(err)
		}
	}
}

func cmdBench(args []string) {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	evals := fs.Int("evals", 200000, "number of incremental evaluations")
	depth := fs.Int("depth", 5, "perft depth for the move generation pass")
	prof := fs.Bool("profile", false, "write a CPU profile to the working directory")
	netPath := fs.String("net", os.Getenv("HEIMDALL_NET"), "network weight file (default embedded)")
	fs.Parse(args)

	if *prof {
		defer profile.Start(profile.ProfilePath(".")).Stop()
	}

	net, err := nnue.LoadNetwork(resolveNetwork(*netPath))
	if err != nil {
		log.Fatal("load network: ", err)
	}
	benchEval(net, *evals)
	benchPerft(*depth)
}

// benchEval evaluates every position along random walks from the starting
// position, exercising the incremental accumulator path the way a search
// would.
func benchEval(net *nnue.Network, n int) {
	rng := rand.New(rand.NewSource(1))
	var ml board.MoveList

	start := time.Now()
	done := 0
	for done < n {
		b, err := board.NewBoardFromFEN(board.StartFEN)
		if err != nil {
			log.Fatal(err)
		}
		state := nnue.NewEvalState(net, b)
		for ply := 0; ply < 60 && done < n; ply++ {
			b.Position().GenerateMoves(&ml)
			if ml.Len() == 0 {
				break
			}
			m := ml.Get(rng.Intn(ml.Len()))
			state.Update(m)
			b.MakeMove(m)
			state.Evaluate()
			done++
		}
	}
	elapsed := time.Since(start)
	fmt.Printf("eval:  %d positions in %v (%.0f evals/s)\n",
		done, elapsed.Round(time.Millisecond), float64(done)/elapsed.Seconds())
}

func benchPerft(depth int) {
	b, err := board.NewBoardFromFEN(board.StartFEN)
	if err != nil {
		log.Fatal(err)
	}
	start := time.Now()
	nodes := board.Perft(b, depth)
	elapsed := time.Since(start)
	fmt.Printf("perft: %d nodes in %v (%.0f nodes/s)\n",
		nodes, elapsed.Round(time.Millisecond), float64(nodes)/elapsed.Seconds())
}

func cmdStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Parse(args)

	db, err := storage.OpenDefault()
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	stats, err := db.CollectStats()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("evaluations: %d\nperft counts: %d\n", stats.EvalEntries, stats.PerftEntries)
}

func cmdRender(args []string) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	fen := fs.String("fen", board.StartFEN, "position to draw")
	out := fs.String("out", "board.svg", "output file")
	size := fs.Int("size", 64, "square size in pixels")
	flip := fs.Bool("flip", false, "draw from Black's point of view")
	coords := fs.Bool("coords", true, "draw file and rank labels")
	move := fs.String("move", "", "UCI move from the position to highlight")
	fs.Parse(args)

	pos, err := board.ParseFEN(*fen)
	if err != nil {
		log.Fatal("bad FEN: ", err)
	}

	opts := render.DefaultOptions()
	opts.SquareSize = *size
	opts.Flipped = *flip
	opts.Coords = *coords
	if *move != "" {
		m, err := board.ParseMove(*move, pos)
		if err != nil {
			log.Fatalf("move %q: %v", *move, err)
		}
		opts.LastMove = m
	}

	if err := render.BoardFile(*out, pos, opts); err != nil {
		log.Fatal(err)
	}
	fmt.Println("wrote", *out)
}
