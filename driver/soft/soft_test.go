package soft

import (
	"strings"
	"sync"
	"testing"

	"github.com/gogpu/gpudev/driver"
	"github.com/gogpu/gputypes"
)

const vertexSrc = `
@vertex
fn vs_main() -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`

const fragmentSrc = `
@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}
`

func TestDriverRegistered(t *testing.T) {
	if !driver.IsRegistered(driver.DriverSoft) {
		t.Fatal("soft driver should register itself on import")
	}
	d := driver.Get(driver.DriverSoft)
	if d == nil {
		t.Fatal("Get(soft) returned nil")
	}
	if got := d.Name(); got != driver.DriverSoft {
		t.Errorf("Name() = %q, want %q", got, driver.DriverSoft)
	}
}

func TestCreateBuffer(t *testing.T) {
	dev := NewDevice()
	defer dev.Destroy()

	buf, err := dev.CreateBuffer(&driver.BufferDescriptor{
		Label: "vertices",
		Size:  256,
		Usage: gputypes.BufferUsageStorage,
	})
	if err != nil {
		t.Fatalf("CreateBuffer() error = %v", err)
	}
	sb := buf.(*Buffer)
	if got := sb.Len(); got != 256 {
		t.Errorf("Len() = %d, want 256", got)
	}
	if got := sb.Usage(); got != gputypes.BufferUsageStorage {
		t.Errorf("Usage() = %v, want Storage", got)
	}

	sb.Destroy()
	if got := sb.Len(); got != 0 {
		t.Errorf("Len() = %d after Destroy, want 0", got)
	}
}

func TestCreateTexture(t *testing.T) {
	dev := NewDevice()
	defer dev.Destroy()

	tests := []struct {
		name     string
		format   gputypes.TextureFormat
		layers   uint32
		wantSize int
	}{
		{"rgba8 4x4", gputypes.TextureFormatRGBA8Unorm, 1, 4 * 4 * 4},
		{"r8 4x4", gputypes.TextureFormatR8Unorm, 1, 4 * 4},
		{"rgba8 2 layers", gputypes.TextureFormatRGBA8Unorm, 2, 4 * 4 * 4 * 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tex, err := dev.CreateTexture(&driver.TextureDescriptor{
				Size:          gputypes.Extent3D{Width: 4, Height: 4, DepthOrArrayLayers: tt.layers},
				MipLevelCount: 1,
				SampleCount:   1,
				Dimension:     gputypes.TextureDimension2D,
				Format:        tt.format,
				Usage:         gputypes.TextureUsageTextureBinding,
			})
			if err != nil {
				t.Fatalf("CreateTexture() error = %v", err)
			}
			if got := tex.(*Texture).Len(); got != tt.wantSize {
				t.Errorf("Len() = %d, want %d", got, tt.wantSize)
			}
		})
	}
}

func TestCreateTextureUnsupportedFormat(t *testing.T) {
	dev := NewDevice()
	defer dev.Destroy()

	_, err := dev.CreateTexture(&driver.TextureDescriptor{
		Size:   gputypes.Extent3D{Width: 4, Height: 4, DepthOrArrayLayers: 1},
		Format: gputypes.TextureFormatUndefined,
		Usage:  gputypes.TextureUsageTextureBinding,
	})
	if err == nil {
		t.Fatal("CreateTexture() with undefined format should fail")
	}
}

func TestCreateShaderModule(t *testing.T) {
	dev := NewDevice()
	defer dev.Destroy()

	mod, err := dev.CreateShaderModule(&driver.ShaderModuleDescriptor{
		Label: "vs",
		WGSL:  vertexSrc,
	})
	if err != nil {
		t.Fatalf("CreateShaderModule() error = %v", err)
	}
	if len(mod.(*ShaderModule).SPIRV()) == 0 {
		t.Error("compiled module should carry SPIR-V")
	}
}

func TestCreateShaderModuleInvalidSource(t *testing.T) {
	dev := NewDevice()
	defer dev.Destroy()

	_, err := dev.CreateShaderModule(&driver.ShaderModuleDescriptor{
		Label: "bad",
		WGSL:  "this is not wgsl",
	})
	if err == nil {
		t.Fatal("CreateShaderModule() with invalid source should fail")
	}
	if !strings.Contains(err.Error(), "bad") {
		t.Errorf("error %q should name the shader label", err)
	}
}

func TestCreateRenderPipeline(t *testing.T) {
	dev := NewDevice()
	defer dev.Destroy()

	vs, err := dev.CreateShaderModule(&driver.ShaderModuleDescriptor{WGSL: vertexSrc})
	if err != nil {
		t.Fatalf("compile vertex: %v", err)
	}
	fs, err := dev.CreateShaderModule(&driver.ShaderModuleDescriptor{WGSL: fragmentSrc})
	if err != nil {
		t.Fatalf("compile fragment: %v", err)
	}

	pipe, err := dev.CreateRenderPipeline(&driver.RenderPipelineDescriptor{
		Label:       "main",
		Vertex:      vs,
		Fragment:    fs,
		ColorFormat: gputypes.TextureFormatRGBA8Unorm,
		SampleCount: 1,
		DepthStencil: &driver.DepthStencilConfig{
			Format: gputypes.TextureFormatDepth24PlusStencil8,
		},
	})
	if err != nil {
		t.Fatalf("CreateRenderPipeline() error = %v", err)
	}
	if pipe == nil {
		t.Fatal("CreateRenderPipeline() returned nil pipeline")
	}

	t.Run("bad color format", func(t *testing.T) {
		_, err := dev.CreateRenderPipeline(&driver.RenderPipelineDescriptor{
			Vertex:      vs,
			ColorFormat: gputypes.TextureFormatUndefined,
		})
		if err == nil {
			t.Error("undefined color format should fail")
		}
	})

	t.Run("bad depth format", func(t *testing.T) {
		_, err := dev.CreateRenderPipeline(&driver.RenderPipelineDescriptor{
			Vertex:      vs,
			ColorFormat: gputypes.TextureFormatRGBA8Unorm,
			DepthStencil: &driver.DepthStencilConfig{
				Format: gputypes.TextureFormatRGBA8Unorm,
			},
		})
		if err == nil {
			t.Error("non-depth format should fail")
		}
	})
}

func TestQueueExecutesInOrder(t *testing.T) {
	dev := NewDevice()
	defer dev.Destroy()

	dq, err := dev.CreateQueue()
	if err != nil {
		t.Fatalf("CreateQueue() error = %v", err)
	}
	q := dq.(*Queue)
	defer q.Destroy()

	var (
		mu    sync.Mutex
		order []int
		wg    sync.WaitGroup
	)
	for i := 1; i <= 3; i++ {
		i := i
		cb, err := q.NewCommandBuffer()
		if err != nil {
			t.Fatalf("NewCommandBuffer() error = %v", err)
		}
		cb.(*CommandBuffer).SetWork(func() error {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		})
		wg.Add(1)
		if err := q.Submit(cb, func(error) { wg.Done() }); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("execution order = %v, want [1 2 3]", order)
	}
}

func TestQueueDestroyDrains(t *testing.T) {
	dev := NewDevice()
	defer dev.Destroy()

	dq, err := dev.CreateQueue()
	if err != nil {
		t.Fatalf("CreateQueue() error = %v", err)
	}
	q := dq.(*Queue)

	var done sync.WaitGroup
	for i := 0; i < 8; i++ {
		cb, err := q.NewCommandBuffer()
		if err != nil {
			t.Fatalf("NewCommandBuffer() error = %v", err)
		}
		done.Add(1)
		if err := q.Submit(cb, func(error) { done.Done() }); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}

	// Destroy must wait for already-submitted work.
	q.Destroy()
	done.Wait()

	if _, err := q.NewCommandBuffer(); err == nil {
		t.Error("NewCommandBuffer() on destroyed queue should fail")
	}
	cb := &CommandBuffer{}
	if err := q.Submit(cb, func(error) {}); err == nil {
		t.Error("Submit() on destroyed queue should fail")
	}
}

func TestDestroyedDeviceRejectsCreation(t *testing.T) {
	dev := NewDevice()
	dev.Destroy()

	if _, err := dev.CreateBuffer(&driver.BufferDescriptor{Size: 4}); err == nil {
		t.Error("CreateBuffer() on destroyed device should fail")
	}
	if _, err := dev.CreateQueue(); err == nil {
		t.Error("CreateQueue() on destroyed device should fail")
	}
}
