package main

import (
	"fmt"
	"sync"
	"time"
)

type progressUpdate struct {
	Solver     string
	Iterations uint64
}

// consoleSink forwards solver progress onto a channel without ever blocking
// the search; a report is simply dropped when the printer is behind.
type consoleSink struct {
	solver   string
	interval uint64
	updates  chan<- progressUpdate
}

func (cs *consoleSink) ReportInterval() uint64 {
	return cs.interval
}

func (cs *consoleSink) Report(iterations uint64) {
	select {
	case cs.updates <- progressUpdate{cs.solver, iterations}:
	default:
	}
}

// PrintUpdates drains the progress channel onto a single console line,
// erasing and rewriting it as reports arrive, until the channel closes.
func PrintUpdates(updates <-chan progressUpdate, wg *sync.WaitGroup) {
	defer wg.Done()
	fmt.Println("Starting...")
	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			fmt.Print("\033[1A\033[K")
			fmt.Printf("[%s] %d iterations\n", update.Solver, update.Iterations)
		default:
			time.Sleep(50 * time.Millisecond)
		}
	}
}
