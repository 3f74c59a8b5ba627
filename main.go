package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bismuthsalamander/tracks/trackgo"
	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
)

var solverNames = []string{"backtrack", "path", "astar"}

func newSolver(name string, g *trackgo.Grid, sink trackgo.ProgressSink) (trackgo.Solver, error) {
	switch name {
	case "backtrack":
		return trackgo.NewBacktracker(g, sink), nil
	case "path":
		return trackgo.NewPathBuilder(g, sink), nil
	case "astar":
		return trackgo.NewAStarSolver(g, sink), nil
	}
	return nil, fmt.Errorf("unknown solver %q (want backtrack, path, astar, or all)", name)
}

func main() {
	solverName := flag.String("solver", "path", "solver to use: backtrack, path, astar, or all")
	interval := flag.Uint64("progress", 0, "print progress every N iterations (0 disables)")
	profileMode := flag.String("profile", "", "write a cpu, mem, or clock profile")
	genSize := flag.String("gen", "", "generate a puzzle of the given RxC size instead of solving")
	seed := flag.Int64("seed", 0, "generator seed (0 seeds from the clock)")
	dir := flag.String("dir", ".", "puzzle library directory for interactive mode")
	interactive := flag.Bool("i", false, "start the interactive prompt")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	os.Exit(run(*solverName, *interval, *profileMode, *genSize, *seed, *dir, *interactive, flag.Args()))
}

// run carries the real main so deferred profile flushing survives the
// eventual os.Exit.
func run(solverName string, interval uint64, profileMode, genSize string, seed int64, dir string, interactive bool, args []string) int {
	switch profileMode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
	case "clock":
		defer profile.Start(profile.ClockProfile, profile.ProfilePath(".")).Stop()
	case "":
	default:
		fmt.Fprintf(os.Stderr, "unknown profile mode %q\n", profileMode)
		return 1
	}
	if genSize != "" {
		if err := runGenerate(genSize, seed); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	if interactive || len(args) == 0 {
		if err := runREPL(newPuzzleLibrary(dir), solverName, interval); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	failed := 0
	for _, path := range args {
		if err := solveFile(path, solverName, interval); err != nil {
			fmt.Fprintln(os.Stderr, err)
			failed++
		}
	}
	if failed > 0 {
		return 1
	}
	return 0
}

func solveFile(path, solverName string, interval uint64) error {
	p, err := trackgo.LoadPuzzleFile(path)
	if err != nil {
		return err
	}
	fmt.Printf("%s:\n", path)
	return solvePuzzle(p, solverName, interval)
}

// solvePuzzle runs the named solver, or all three in turn, each on a fresh
// grid built from the puzzle definition.
func solvePuzzle(p *trackgo.Puzzle, solverName string, interval uint64) error {
	names := []string{solverName}
	if solverName == "all" {
		names = solverNames
	}
	for _, name := range names {
		g, err := trackgo.NewGrid(p)
		if err != nil {
			return err
		}
		solved, iterations, dur, err := runSolver(name, g, interval)
		if err != nil {
			return err
		}
		if solved {
			fmt.Printf("%s solved in %d iterations (%.4fs):\n%s", name, iterations, dur.Seconds(), g)
		} else {
			fmt.Printf("%s found no solution after %d iterations (%.4fs)\n", name, iterations, dur.Seconds())
		}
	}
	return nil
}

func runSolver(name string, g *trackgo.Grid, interval uint64) (bool, uint64, time.Duration, error) {
	var sink trackgo.ProgressSink
	var updates chan progressUpdate
	var wg sync.WaitGroup
	if interval > 0 {
		updates = make(chan progressUpdate, 16)
		sink = &consoleSink{solver: name, interval: interval, updates: updates}
		wg.Add(1)
		go PrintUpdates(updates, &wg)
	}
	s, err := newSolver(name, g, sink)
	if err != nil {
		return false, 0, 0, err
	}
	start := time.Now()
	solved := s.Solve()
	dur := time.Since(start)
	if updates != nil {
		close(updates)
		wg.Wait()
	}
	return solved, s.Iterations(), dur, nil
}

func runGenerate(size string, seed int64) error {
	rows, cols, err := parseSize(size)
	if err != nil {
		return err
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	p, err := trackgo.Generate(rand.New(rand.NewSource(seed)), rows, cols)
	if err != nil {
		return err
	}
	// The seed comment keeps the output loadable and the run repeatable.
	fmt.Printf("# seed %d\n%s", seed, p)
	return nil
}

func parseSize(s string) (int, int, error) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("size must look like 8x8, got %q", s)
	}
	rows, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("bad row count %q", parts[0])
	}
	cols, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("bad column count %q", parts[1])
	}
	return rows, cols, nil
}
