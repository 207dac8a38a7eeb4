package plot

import (
	"fmt"
	"sort"
	"sync"
)

// DeviceFactory creates a new device instance.
// Factories are registered via Register and called by NewDevice.
type DeviceFactory func() (Device, error)

var (
	registryMu sync.RWMutex
	devices    = make(map[string]DeviceFactory)
)

// Register makes a device available by name. It is typically called from
// init() in device packages, following the database/sql driver pattern:
//
//	func init() {
//	    plot.Register("trace", func() (plot.Device, error) {
//	        return New(os.Stdout), nil
//	    })
//	}
//
// Register panics if factory is nil or if name is already registered.
func Register(name string, factory DeviceFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("plot: Register factory is nil")
	}
	if _, dup := devices[name]; dup {
		panic("plot: Register called twice for device " + name)
	}
	devices[name] = factory
}

// Unregister removes a device from the registry. Unknown names are
// ignored.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(devices, name)
}

// NewDevice creates a device by name.
//
//	import _ "github.com/gogpu/plot/devices/raster"
//
//	dev, err := plot.NewDevice("raster")
func NewDevice(name string) (Device, error) {
	registryMu.RLock()
	factory, ok := devices[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("plot: unknown device %q (forgotten import?)", name)
	}
	dev, err := factory()
	if err != nil {
		return nil, fmt.Errorf("plot: device %q: %w", name, err)
	}
	return dev, nil
}

// MustDevice is like NewDevice but panics on error.
func MustDevice(name string) Device {
	d, err := NewDevice(name)
	if err != nil {
		panic(err)
	}
	return d
}

// Devices returns the sorted names of the registered devices.
func Devices() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(devices))
	for name := range devices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered reports whether a device with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := devices[name]
	return ok
}
