//go:build !nogpu

package wgpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gpudev/driver"
	"github.com/gogpu/wgpu/hal"
)

// CommandBuffer is a unit of work for the wgpu queue. The HAL encoder
// is created at execution time on the worker goroutine; at this layer
// the buffer only carries its debug name.
type CommandBuffer struct {
	label string
}

// Destroy implements driver.Resource.
func (cb *CommandBuffer) Destroy() {}

// submission pairs a command buffer with its completion callback.
type submission struct {
	cb   *CommandBuffer
	done func(error)
}

// Queue feeds the device's single HAL queue from a worker goroutine,
// one submission at a time. The worker waits for each HAL submission
// to drain before starting the next, so ordering falls out of the
// worker running submissions serially. Submit never blocks; the
// pending list is unbounded.
type Queue struct {
	device hal.Device
	queue  hal.Queue

	mu      sync.Mutex
	cond    *sync.Cond
	pending []submission
	closed  bool
	wg      sync.WaitGroup
}

func newQueue(device hal.Device, queue hal.Queue) *Queue {
	q := &Queue{device: device, queue: queue}
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
		return nil, fmt.Errorf("wgpu: queue destroyed")
	}
	return &CommandBuffer{label: "gpudev_cmd"}, nil
}

// Submit appends cb to the pending list. done is invoked from the
// worker goroutine once the GPU has finished the submission.
func (q *Queue) Submit(cb driver.CommandBuffer, done func(error)) error {
	wcb, ok := cb.(*CommandBuffer)
	if !ok {
		return fmt.Errorf("wgpu: command buffer is not a wgpu command buffer")
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return fmt.Errorf("wgpu: queue destroyed")
	}
	q.pending = append(q.pending, submission{cb: wcb, done: done})
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

		s.done(q.execute(s.cb))
	}
}

// execute encodes, submits and waits for one command buffer.
func (q *Queue) execute(cb *CommandBuffer) error {
	encoder, err := q.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: cb.label,
	})
	if err != nil {
		return fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(cb.label); err != nil {
		return fmt.Errorf("wgpu: begin encoding: %w", err)
	}
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer q.device.FreeCommandBuffer(cmdBuf)

	// The HAL tracks completion by submission index behind its own
	// internal fences.
	idx, err := q.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fmt.Errorf("wgpu: submit: %w", err)
	}
	if err := q.device.WaitIdle(); err != nil {
		return fmt.Errorf("wgpu: wait for submission %d: %w", idx, err)
	}
	if done := q.queue.PollCompleted(); done < idx {
		return fmt.Errorf("wgpu: submission %d still pending after device idle (completed %d)", idx, done)
	}
	return nil
}

var _ driver.Queue = (*Queue)(nil)
