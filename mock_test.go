package gpudev

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/gogpu/gpudev/driver"
	"github.com/gogpu/gputypes"
)

// mockDriver plugs a scripted device into the registry.
type mockDriver struct {
	name    string
	dev     *mockDevice
	openErr error
}

func (d *mockDriver) Name() string { return d.name }

func (d *mockDriver) Open() (driver.Device, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	return d.dev, nil
}

// mockDevice implements driver.Device with per-operation failure
// injection.
type mockDevice struct {
	mu     sync.Mutex
	limits gputypes.Limits

	failBuffer   error
	failTexture  error
	failSampler  error
	failShader   error
	failPipeline error
	failQueue    error

	created      int
	destroyed    int
	queues       []*mockQueue
	closed       bool
	log          *slog.Logger
	pipelineDesc *driver.RenderPipelineDescriptor
}

func newMockDevice() *mockDevice {
	return &mockDevice{
		limits: gputypes.Limits{
			MaxBufferSize:         1 << 20,
			MaxTextureDimension2D: 8192,
		},
	}
}

func (d *mockDevice) Limits() gputypes.Limits { return d.limits }

func (d *mockDevice) SetLogger(l *slog.Logger) {
	d.mu.Lock()
	d.log = l
	d.mu.Unlock()
}

func (d *mockDevice) currentLogger() *slog.Logger {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.log
}

func (d *mockDevice) newResource() *mockResource {
	d.mu.Lock()
	d.created++
	d.mu.Unlock()
	return &mockResource{dev: d}
}

func (d *mockDevice) CreateBuffer(desc *driver.BufferDescriptor) (driver.Buffer, error) {
	if d.failBuffer != nil {
		return nil, d.failBuffer
	}
	return d.newResource(), nil
}

func (d *mockDevice) CreateTexture(desc *driver.TextureDescriptor) (driver.Texture, error) {
	if d.failTexture != nil {
		return nil, d.failTexture
	}
	return d.newResource(), nil
}

func (d *mockDevice) CreateSampler(desc *driver.SamplerDescriptor) (driver.Sampler, error) {
	if d.failSampler != nil {
		return nil, d.failSampler
	}
	return d.newResource(), nil
}

func (d *mockDevice) CreateShaderModule(desc *driver.ShaderModuleDescriptor) (driver.ShaderModule, error) {
	if d.failShader != nil {
		return nil, d.failShader
	}
	return d.newResource(), nil
}

func (d *mockDevice) CreateRenderPipeline(desc *driver.RenderPipelineDescriptor) (driver.RenderPipeline, error) {
	if d.failPipeline != nil {
		return nil, d.failPipeline
	}
	d.mu.Lock()
	d.pipelineDesc = desc
	d.mu.Unlock()
	return d.newResource(), nil
}

func (d *mockDevice) CreateQueue() (driver.Queue, error) {
	if d.failQueue != nil {
		return nil, d.failQueue
	}
	q := &mockQueue{}
	d.mu.Lock()
	d.queues = append(d.queues, q)
	d.mu.Unlock()
	return q, nil
}

func (d *mockDevice) Destroy() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}

// lastPipelineDesc returns the descriptor of the most recent render
// pipeline creation.
func (d *mockDevice) lastPipelineDesc() *driver.RenderPipelineDescriptor {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pipelineDesc
}

// lastQueue returns the most recently created driver queue.
func (d *mockDevice) lastQueue() *mockQueue {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.queues[len(d.queues)-1]
}

// liveResources returns created minus destroyed driver resources.
func (d *mockDevice) liveResources() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.created - d.destroyed
}

// mockResource counts its own destruction.
type mockResource struct {
	dev *mockDevice
}

func (r *mockResource) Destroy() {
	r.dev.mu.Lock()
	r.dev.destroyed++
	r.dev.mu.Unlock()
}

// mockCommandBuffer records its own destruction.
type mockCommandBuffer struct {
	mu        sync.Mutex
	destroyed bool
}

func (cb *mockCommandBuffer) Destroy() {
	cb.mu.Lock()
	cb.destroyed = true
	cb.mu.Unlock()
}

func (cb *mockCommandBuffer) wasDestroyed() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.destroyed
}

// mockQueue records completion callbacks so tests drive completions by
// hand, in any order.
type mockQueue struct {
	mu        sync.Mutex
	pending   []func(error)
	submitErr error
	destroyed bool
}

func (q *mockQueue) NewCommandBuffer() (driver.CommandBuffer, error) {
	return &mockCommandBuffer{}, nil
}

func (q *mockQueue) Submit(cb driver.CommandBuffer, done func(error)) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.submitErr != nil {
		return q.submitErr
	}
	q.pending = append(q.pending, done)
	return nil
}

func (q *mockQueue) Destroy() {
	q.mu.Lock()
	q.destroyed = true
	q.mu.Unlock()
}

// complete finishes the oldest pending submission.
func (q *mockQueue) complete(err error) {
	q.completeAt(0, err)
}

// completeAt finishes the i-th pending submission, simulating a driver
// that reports completions out of order.
func (q *mockQueue) completeAt(i int, err error) {
	q.mu.Lock()
	done := q.pending[i]
	q.pending = append(q.pending[:i], q.pending[i+1:]...)
	q.mu.Unlock()
	done(err)
}

func (q *mockQueue) pendingCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// openMock registers md under a test-unique driver name and opens a
// device on it.
func openMock(t *testing.T, md *mockDevice) *Device {
	t.Helper()
	name := "mock-" + t.Name()
	driver.Register(name, func() driver.Driver {
		return &mockDriver{name: name, dev: md}
	})
	t.Cleanup(func() { driver.Unregister(name) })

	dev, err := Open(Options{Driver: name})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return dev
}
