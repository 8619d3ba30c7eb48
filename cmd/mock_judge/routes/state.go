// Package routes implements an in-memory stand-in for the judge API.
// It exists for local runs of the pipeline without touching a real
// judge instance.
package routes

import (
	"sync"
)

// Problem is one seeded problem the fake judge knows about.
type Problem struct {
	Title      string
	Alias      string
	Statements map[string]string
	Languages  []string
	Limits     map[string]any

	// Verdict and Score decide how every run against this problem
	// finishes once it leaves the queue.
	Verdict string
	Score   float64

	// QueuePolls is how many status reads return a non-terminal
	// status before the run finishes.
	QueuePolls int
}

type run struct {
	problem   *Problem
	pollsLeft int
}

// State holds the fake judge's world: seeded problems, created runs and
// published editorials.
type State struct {
	mu        sync.Mutex
	problems  map[string]*Problem
	runs      map[string]*run
	solutions map[string]string
}

func NewState() *State {
	return &State{
		problems:  map[string]*Problem{},
		runs:      map[string]*run{},
		solutions: map[string]string{},
	}
}

// Seed registers a problem. Later seeds with the same alias replace
// earlier ones.
func (s *State) Seed(p *Problem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.problems[p.Alias] = p
}

func solutionKey(alias, locale string) string {
	return alias + "/" + locale
}
