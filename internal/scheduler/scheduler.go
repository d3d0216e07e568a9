package scheduler

import (
	"runtime"
	"sync"

	"github.com/dl/linematch/internal/expect"
	"github.com/dl/linematch/internal/output"
)

// Scheduler manages a pool of workers that run expectation files
// concurrently.
type Scheduler struct {
	workers int
	runner  *expect.Runner
}

// New creates a Scheduler with the given number of workers.
// If workers is 0, defaults to NumCPU * 2.
func New(workers int, r *expect.Runner) *Scheduler {
	if workers <= 0 {
		workers = runtime.NumCPU() * 2
	}
	return &Scheduler{
		workers: workers,
		runner:  r,
	}
}

type job struct {
	seq  int
	path string
}

// Run processes every path and returns results on the result channel.
// Results carry sequence numbers, starting at 1 in the order of paths, for
// ordered output.
func (s *Scheduler) Run(paths []string) <-chan output.Result {
	jobs := make(chan job, s.workers)
	resultCh := make(chan output.Result, s.workers*2)

	go func() {
		defer close(jobs)
		for i, p := range paths {
			jobs <- job{seq: i + 1, path: p}
		}
	}()

	var wg sync.WaitGroup
	for range s.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				result := s.processFile(j.path)
				result.SeqNum = j.seq
				resultCh <- result
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	return resultCh
}

func (s *Scheduler) processFile(path string) output.Result {
	rep := s.runner.RunFile(path)
	result := output.Result{Source: path, Err: rep.Err}
	if rep.Err == nil {
		result.Outcomes = rep.Outcomes
		if result.Outcomes == nil {
			result.Outcomes = []expect.Outcome{}
		}
	}
	return result
}
