package gpudev

import (
	"sync"

	"github.com/gogpu/gpudev/driver"
)

// CommandBufferStatus tracks a command buffer through its lifecycle.
// Once submitted, a buffer moves Submitted -> Executing -> Completed
// strictly in submission order on its queue.
type CommandBufferStatus uint8

const (
	// StatusRecorded means the buffer has not been submitted yet.
	StatusRecorded CommandBufferStatus = iota
	// StatusSubmitted means the buffer waits behind earlier work.
	StatusSubmitted
	// StatusExecuting means the buffer is the oldest outstanding one.
	StatusExecuting
	// StatusCompleted means execution finished (possibly with an
	// error, see CommandBuffer.Wait).
	StatusCompleted
)

func (s CommandBufferStatus) String() string {
	switch s {
	case StatusRecorded:
		return "recorded"
	case StatusSubmitted:
		return "submitted"
	case StatusExecuting:
		return "executing"
	case StatusCompleted:
		return "completed"
	}
	return "unknown"
}

// CommandBuffer is a recorded unit of GPU work, submitted as a whole
// to the CommandQueue that created it. Recording itself is
// driver-specific and out of scope at this layer; DriverBuffer exposes
// the underlying handle for layers that record.
//
// Once submitted, a command buffer runs to completion; there is no
// cancellation primitive.
type CommandBuffer struct {
	queue  *CommandQueue
	drvBuf driver.CommandBuffer
	done   chan struct{}

	// Guarded by queue.mu.
	status  CommandBufferStatus
	err     error
	drvDone bool
	drvErr  error
}

// DriverBuffer returns the driver-level command buffer for recording
// layers. The handle stays owned by the queue and is destroyed once
// the buffer completes.
func (cb *CommandBuffer) DriverBuffer() driver.CommandBuffer { return cb.drvBuf }

// Status returns the buffer's current lifecycle state.
func (cb *CommandBuffer) Status() CommandBufferStatus {
	cb.queue.mu.Lock()
	defer cb.queue.mu.Unlock()
	return cb.status
}

// Wait blocks until the buffer has completed and returns its execution
// error, if any. Wait before Submit blocks until some later Submit
// completes the buffer.
func (cb *CommandBuffer) Wait() error {
	<-cb.done
	return cb.err
}

// CommandQueue is an ordered channel for submitting command buffers to
// the device. A queue created with a positive capacity never has more
// than that many outstanding (submitted but not completed) buffers:
// excess submissions block until earlier work completes, and freed
// slots are handed to blocked submitters in FIFO order. An unbounded
// queue never blocks for capacity reasons.
//
// Submit may be called from multiple goroutines; the queue serializes
// its own bookkeeping internally.
type CommandQueue struct {
	dev      *Device
	drv      driver.Queue
	capacity int

	mu          sync.Mutex
	idle        *sync.Cond
	inflight    []*CommandBuffer // submission order; head is executing
	waiters     []chan struct{}  // blocked submitters, FIFO
	outstanding int
	released    bool
}

func newCommandQueue(dev *Device, drv driver.Queue, capacity int) *CommandQueue {
	q := &CommandQueue{dev: dev, drv: drv, capacity: capacity}
	q.idle = sync.NewCond(&q.mu)
	return q
}

// Capacity returns the bound on outstanding command buffers, or
// Unbounded (0).
func (q *CommandQueue) Capacity() int { return q.capacity }

// Outstanding returns the current number of submitted-but-not-completed
// command buffers (including capacity slots already promised to blocked
// submitters).
func (q *CommandQueue) Outstanding() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.outstanding
}

// Valid reports whether the queue is still usable.
func (q *CommandQueue) Valid() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return !q.released
}

// Label returns ""; queues carry no debug name at creation.
func (q *CommandQueue) Label() string { return "" }

// NewCommandBuffer allocates an empty command buffer bound to this
// queue.
func (q *CommandQueue) NewCommandBuffer() (*CommandBuffer, error) {
	q.mu.Lock()
	if q.released {
		q.mu.Unlock()
		return nil, ErrQueueReleased
	}
	q.mu.Unlock()

	drvBuf, err := q.drv.NewCommandBuffer()
	if err != nil {
		return nil, err
	}
	return &CommandBuffer{
		queue:  q,
		drvBuf: drvBuf,
		done:   make(chan struct{}),
		status: StatusRecorded,
	}, nil
}

// Submit hands cb to the device for execution. On a bounded queue at
// capacity, Submit blocks the calling goroutine until an outstanding
// buffer completes; completions free slots to blocked submitters in
// FIFO order. On an unbounded queue Submit never blocks for capacity
// reasons.
func (q *CommandQueue) Submit(cb *CommandBuffer) error {
	if cb == nil || cb.queue != q {
		return ErrForeignCommandBuffer
	}

	q.mu.Lock()
	if q.released {
		q.mu.Unlock()
		return ErrQueueReleased
	}
	if cb.status != StatusRecorded {
		q.mu.Unlock()
		return ErrAlreadySubmitted
	}

	if q.capacity > 0 && q.outstanding >= q.capacity {
		// Queue a waiter and block until a completion hands us its
		// slot. The slot transfer keeps outstanding at the bound, so
		// later submitters queue behind us.
		ch := make(chan struct{})
		q.waiters = append(q.waiters, ch)
		q.mu.Unlock()
		<-ch
		q.mu.Lock()
		if q.released {
			// Released while blocked: give the slot back.
			q.outstanding--
			if q.outstanding == 0 {
				q.idle.Broadcast()
			}
			q.mu.Unlock()
			return ErrQueueReleased
		}
	} else {
		q.outstanding++
	}

	cb.status = StatusSubmitted
	if len(q.inflight) == 0 {
		cb.status = StatusExecuting
	}
	q.inflight = append(q.inflight, cb)
	q.mu.Unlock()

	if err := q.drv.Submit(cb.drvBuf, func(err error) { q.complete(cb, err) }); err != nil {
		// Driver rejected the submission: roll back.
		q.mu.Lock()
		for i, in := range q.inflight {
			if in == cb {
				q.inflight = append(q.inflight[:i], q.inflight[i+1:]...)
				break
			}
		}
		cb.status = StatusRecorded
		q.freeSlotLocked()
		if len(q.inflight) > 0 {
			q.inflight[0].status = StatusExecuting
		}
		q.mu.Unlock()
		return err
	}
	return nil
}

// complete records a driver completion and applies completions strictly
// in submission order: a buffer only becomes Completed once every
// earlier buffer has.
func (q *CommandQueue) complete(cb *CommandBuffer, err error) {
	q.mu.Lock()
	cb.drvDone = true
	cb.drvErr = err

	for len(q.inflight) > 0 && q.inflight[0].drvDone {
		head := q.inflight[0]
		q.inflight = q.inflight[1:]
		head.status = StatusCompleted
		head.err = head.drvErr
		head.drvBuf.Destroy()
		close(head.done)
		q.freeSlotLocked()
	}
	if len(q.inflight) > 0 {
		q.inflight[0].status = StatusExecuting
	}
	q.mu.Unlock()
}

// freeSlotLocked releases one capacity slot: hands it to the oldest
// blocked submitter if any, otherwise decrements the outstanding
// count. Caller must hold q.mu.
func (q *CommandQueue) freeSlotLocked() {
	if q.capacity > 0 && len(q.waiters) > 0 {
		ch := q.waiters[0]
		q.waiters = q.waiters[1:]
		close(ch)
		return
	}
	q.outstanding--
	if q.outstanding == 0 {
		q.idle.Broadcast()
	}
}

// WaitIdle blocks until the queue has no outstanding command buffers.
func (q *CommandQueue) WaitIdle() {
	q.mu.Lock()
	for q.outstanding > 0 {
		q.idle.Wait()
	}
	q.mu.Unlock()
}

// Release drains the queue (waiting for outstanding command buffers to
// complete), then frees the driver queue. Submissions after Release
// fail with ErrQueueReleased. Release is idempotent.
func (q *CommandQueue) Release() {
	q.mu.Lock()
	if q.released {
		q.mu.Unlock()
		return
	}
	for q.outstanding > 0 {
		q.idle.Wait()
	}
	q.released = true
	q.mu.Unlock()

	q.drv.Destroy()
}
