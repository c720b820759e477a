package soft

import (
	"fmt"
	"sync"

	"github.com/gogpu/gpudev/driver"
)

// CommandBuffer is a unit of work for the soft queue. Recording at
// this layer is an optional work function: consumers that want the
// soft driver to model a workload attach one with SetWork; an empty
// buffer completes immediately when executed.
type CommandBuffer struct {
	mu   sync.Mutex
	work func() error
}

// Destroy implements driver.Resource.
func (cb *CommandBuffer) Destroy() {
	cb.mu.Lock()
	cb.work = nil
	cb.mu.Unlock()
}

// SetWork attaches the function the queue runs when executing this
// buffer. Must be called before submission.
func (cb *CommandBuffer) SetWork(fn func() error) {
	cb.mu.Lock()
	cb.work = fn
	cb.mu.Unlock()
}

func (cb *CommandBuffer) run() error {
	cb.mu.Lock()
	fn := cb.work
	cb.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn()
}

// submission pairs a command buffer with its completion callback.
type submission struct {
	cb   *CommandBuffer
	done func(error)
}

// Queue executes command buffers strictly in submission order on a
// dedicated worker goroutine. The pending list is unbounded: Submit
// never blocks; backpressure is the gpudev layer's job.
type Queue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending []submission
	closed  bool
	wg      sync.WaitGroup
}

func newQueue() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	q.wg.Add(1)
	go q.worker()
	return q
}

// NewCommandBuffer allocates an empty command buffer.
func (q *Queue) NewCommandBuffer() (driver.CommandBuffer, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil, fmt.Errorf("soft: queue destroyed")
	}
	return &CommandBuffer{}, nil
}

// Submit appends cb to the pending list. done is invoked from the
// worker goroutine once cb has executed.
func (q *Queue) Submit(cb driver.CommandBuffer, done func(error)) error {
	scb, ok := cb.(*CommandBuffer)
	if !ok {
		return fmt.Errorf("soft: command buffer is not a soft command buffer")
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return fmt.Errorf("soft: queue destroyed")
	}
	q.pending = append(q.pending, submission{cb: scb, done: done})
	q.cond.Signal()
	return nil
}

// Destroy drains already-submitted work, then stops the worker.
func (q *Queue) Destroy() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.cond.Broadcast()
	q.mu.Unlock()
	q.wg.Wait()
}

// worker runs submissions one at a time, preserving submission order.
func (q *Queue) worker() {
	defer q.wg.Done()
	for {
		q.mu.Lock()
		for len(q.pending) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.pending) == 0 && q.closed {
			q.mu.Unlock()
			return
		}
		s := q.pending[0]
		q.pending = q.pending[1:]
		q.mu.Unlock()

		err := s.cb.run()
		s.done(err)
	}
}

var _ driver.Queue = (*Queue)(nil)
