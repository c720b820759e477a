package driver

import (
	"errors"
	"fmt"
	"sync"
)

// Factory creates a new driver instance.
type Factory func() Driver

// registry holds registered drivers.
var (
	registryMu sync.RWMutex
	drivers    = make(map[string]Factory)
	// Priority order for driver selection (first available wins).
	// WGPU > Soft (WGPU is hardware-backed, Soft is the fallback).
	driverPriority = []string{DriverWGPU, DriverSoft}
)

// Register registers a driver factory with the given name.
// This is typically called from init() functions in driver packages.
// If a driver with the same name is already registered, it is replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	drivers[name] = factory
}

// Unregister removes a driver from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(drivers, name)
}

// Available returns a list of registered driver names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	return names
}

// IsRegistered checks if a driver with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := drivers[name]
	return ok
}

// Get returns a driver instance by name.
// Returns nil if the driver is not registered.
func Get(name string) Driver {
	registryMu.RLock()
	defer registryMu.RUnlock()

	factory, ok := drivers[name]
	if !ok {
		return nil
	}
	return factory()
}

// Default returns the best available driver based on priority.
// Priority order: wgpu > soft.
// Returns nil if no drivers are registered.
func Default() Driver {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range driverPriority {
		if factory, ok := drivers[name]; ok {
			if d := factory(); d != nil {
				return d
			}
		}
	}

	// Fallback: return first available
	for _, factory := range drivers {
		if d := factory(); d != nil {
			return d
		}
	}

	return nil
}

// OpenDefault opens a device on the best available driver. Unlike
// Default, it falls through to lower-priority drivers when a
// higher-priority one fails to open (e.g. the wgpu driver on a machine
// without a usable GPU falls back to soft).
func OpenDefault() (Driver, Device, error) {
	registryMu.RLock()
	candidates := make([]Factory, 0, len(drivers))
	for _, name := range driverPriority {
		if factory, ok := drivers[name]; ok {
			candidates = append(candidates, factory)
		}
	}
	for name, factory := range drivers {
		prioritized := false
		for _, p := range driverPriority {
			if name == p {
				prioritized = true
				break
			}
		}
		if !prioritized {
			candidates = append(candidates, factory)
		}
	}
	registryMu.RUnlock()

	var errs []error
	for _, factory := range candidates {
		d := factory()
		if d == nil {
			continue
		}
		dev, err := d.Open()
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d.Name(), err))
			continue
		}
		return d, dev, nil
	}
	if len(errs) > 0 {
		return nil, nil, errors.Join(errs...)
	}
	return nil, nil, errors.New("driver: no driver registered")
}
