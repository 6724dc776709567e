// Package workpool runs tasks on a fixed set of goroutines with a
// submit/await barrier.
package workpool

import (
	"sync"

	"github.com/pkg/errors"
)

// Task is a unit of work. A returned error fails the current round.
type Task func() error

// Pool is a fixed-size set of workers. Tasks submitted between two calls of
// Wait form a round; Wait is the barrier that ends it.
type Pool struct {
	size    int
	tasks   chan Task
	pending sync.WaitGroup
	workers sync.WaitGroup

	mu  sync.Mutex
	err error

	closeOnce sync.Once
}

// New starts a pool of n workers.
func New(n int) (*Pool, error) {
	if n < 1 {
		return nil, errors.Errorf("pool needs at least one worker, got %d", n)
	}
	p := &Pool{
		size:  n,
		tasks: make(chan Task, n),
	}
	p.workers.Add(n)
	for i := 0; i < n; i++ {
		go p.work()
	}
	return p, nil
}

// Size is the number of workers.
func (p *Pool) Size() int { return p.size }

func (p *Pool) work() {
	defer p.workers.Done()
	for t := range p.tasks {
		if !p.failed() {
			if err := run(t); err != nil {
				p.fail(err)
			}
		}
		p.pending.Done()
	}
}

func run(t Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("task panicked: %v", r)
		}
	}()
	return t()
}

func (p *Pool) failed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err != nil
}

func (p *Pool) fail(err error) {
	p.mu.Lock()
	if p.err == nil {
		p.err = err
	}
	p.mu.Unlock()
}

// Submit queues t. It blocks while every worker is busy and the queue is
// full. Submit must not be called after Close.
func (p *Pool) Submit(t Task) {
	p.pending.Add(1)
	p.tasks <- t
}

// Wait blocks until every task submitted so far has finished and returns the
// first error of the round. Tasks queued after a failure are skipped.
func (p *Pool) Wait() error {
	p.pending.Wait()
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.err
	p.err = nil
	return err
}

// Close stops the workers after the queued tasks have drained.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.tasks)
		p.workers.Wait()
	})
}
