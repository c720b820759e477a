package driver

import (
	"errors"
	"testing"
)

// stubDriver is a minimal Driver for registry tests.
type stubDriver struct {
	name    string
	openErr error
}

func (d *stubDriver) Name() string          { return d.name }
func (d *stubDriver) Open() (Device, error) { return nil, d.openErr }

func TestRegisterAndGet(t *testing.T) {
	Register("stub", func() Driver { return &stubDriver{name: "stub"} })
	defer Unregister("stub")

	d := Get("stub")
	if d == nil {
		t.Fatal("Get(stub) returned nil after Register")
	}
	if d.Name() != "stub" {
		t.Errorf("Name() = %q, want %q", d.Name(), "stub")
	}
}

func TestGetUnknown(t *testing.T) {
	if d := Get("no-such-driver"); d != nil {
		t.Errorf("Get(no-such-driver) = %v, want nil", d)
	}
}

func TestUnregister(t *testing.T) {
	Register("stub", func() Driver { return &stubDriver{name: "stub"} })
	Unregister("stub")

	if IsRegistered("stub") {
		t.Error("IsRegistered(stub) = true after Unregister")
	}
}

func TestAvailable(t *testing.T) {
	Register("stub-a", func() Driver { return &stubDriver{name: "stub-a"} })
	defer Unregister("stub-a")

	found := false
	for _, name := range Available() {
		if name == "stub-a" {
			found = true
		}
	}
	if !found {
		t.Errorf("Available() = %v, missing stub-a", Available())
	}
}

func TestDefaultPriority(t *testing.T) {
	// A driver registered under the soft name must win over an
	// unprioritized name when nothing hardware-backed is present.
	Register(DriverSoft, func() Driver { return &stubDriver{name: DriverSoft} })
	Register("zzz-custom", func() Driver { return &stubDriver{name: "zzz-custom"} })
	defer Unregister(DriverSoft)
	defer Unregister("zzz-custom")

	d := Default()
	if d == nil {
		t.Fatal("Default() returned nil with drivers registered")
	}
	if d.Name() != DriverSoft && d.Name() != DriverWGPU {
		t.Errorf("Default() = %q, want a prioritized driver", d.Name())
	}
}

func TestOpenDefaultFallsThrough(t *testing.T) {
	// A failing high-priority driver must not mask a working fallback.
	failErr := errors.New("no adapter")
	Register(DriverWGPU, func() Driver { return &stubDriver{name: DriverWGPU, openErr: failErr} })
	Register(DriverSoft, func() Driver { return &stubDriver{name: DriverSoft} })
	defer Unregister(DriverWGPU)
	defer Unregister(DriverSoft)

	d, _, err := OpenDefault()
	if err != nil {
		t.Fatalf("OpenDefault() error = %v", err)
	}
	if d.Name() != DriverSoft {
		t.Errorf("OpenDefault() driver = %q, want %q", d.Name(), DriverSoft)
	}
}
