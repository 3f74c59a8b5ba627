package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bismuthsalamander/tracks/trackgo"
	"github.com/chzyer/readline"
)

// runREPL drives the interactive prompt: browse and load puzzles from the
// library directory, solve them with any of the solvers, and generate new
// ones.
func runREPL(lib *puzzleLibrary, defaultSolver string, interval uint64) error {
	completer := readline.NewPrefixCompleter(
		readline.PcItem("load"),
		readline.PcItem("list"),
		readline.PcItem("show"),
		readline.PcItem("solve",
			readline.PcItem("backtrack"),
			readline.PcItem("path"),
			readline.PcItem("astar"),
			readline.PcItem("all"),
		),
		readline.PcItem("gen"),
		readline.PcItem("save"),
		readline.PcItem("dir"),
		readline.PcItem("watch"),
		readline.PcItem("reset"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "tracks> ",
		HistoryFile:     filepath.Join(os.TempDir(), "tracks_history"),
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	var current *trackgo.Puzzle
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "quit", "exit":
			return nil
		case "help":
			printHelp()
		case "list":
			names, err := lib.Names()
			if err != nil {
				fmt.Println(err)
				continue
			}
			for _, n := range names {
				fmt.Println(n)
			}
		case "dir":
			if len(fields) < 2 {
				fmt.Println(lib.Dir())
				continue
			}
			lib.SetDir(fields[1])
		case "load":
			if len(fields) < 2 {
				fmt.Println("usage: load <file>")
				continue
			}
			p, err := lib.Load(fields[1])
			if err != nil {
				fmt.Println(err)
				continue
			}
			current = p
			rl.SetPrompt(fmt.Sprintf("tracks:%s> ", fields[1]))
			showPuzzle(current)
		case "show":
			if current == nil {
				fmt.Println("no puzzle loaded")
				continue
			}
			showPuzzle(current)
		case "solve":
			if current == nil {
				fmt.Println("no puzzle loaded")
				continue
			}
			name := defaultSolver
			if len(fields) > 1 {
				name = fields[1]
			}
			if err := solvePuzzle(current, name, interval); err != nil {
				fmt.Println(err)
			}
		case "gen":
			rows, cols := 8, 8
			if len(fields) > 1 {
				r, c, err := parseSize(fields[1])
				if err != nil {
					fmt.Println(err)
					continue
				}
				rows, cols = r, c
			}
			p, err := trackgo.Generate(rand.New(rand.NewSource(time.Now().UnixNano())), rows, cols)
			if err != nil {
				fmt.Println(err)
				continue
			}
			current = p
			rl.SetPrompt(fmt.Sprintf("tracks:%dx%d> ", rows, cols))
			showPuzzle(current)
		case "save":
			if current == nil {
				fmt.Println("no puzzle loaded")
				continue
			}
			if len(fields) < 2 {
				fmt.Println("usage: save <file>")
				continue
			}
			if err := os.WriteFile(fields[1], []byte(current.String()), 0644); err != nil {
				fmt.Println(err)
			}
		case "watch":
			fmt.Print(trackgo.Watch.Results())
		case "reset":
			trackgo.Watch.Reset()
		default:
			fmt.Printf("unknown command %q; try help\n", fields[0])
		}
	}
	return nil
}

func showPuzzle(p *trackgo.Puzzle) {
	g, err := trackgo.NewGrid(p)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Print(g)
}

func printHelp() {
	fmt.Print(`load <file>     load a puzzle from the library directory
list            list puzzle files in the library directory
show            print the current puzzle
solve [solver]  solve with backtrack, path, astar, or all
gen [RxC]       generate a puzzle (default 8x8)
save <file>     write the current puzzle out in text form
dir [path]      print or change the library directory
watch           print accumulated solver timings
reset           clear solver timings
quit            exit
`)
}
