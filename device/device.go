// Package device selects a physical device capable of graphics and
// presentation and builds the logical device and queue pair on top of it.
package device

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_portability_subset"
	"github.com/vkngwrapper/extensions/khr_surface"
)

type QueueFamilyIndices struct {
	GraphicsFamily *int
	PresentFamily  *int
}

func (i QueueFamilyIndices) IsComplete() bool {
	return i.GraphicsFamily != nil && i.PresentFamily != nil
}

// Profile is the set of queried facts about one physical device that the
// suitability policy consumes. Keeping it a plain value keeps the selection
// logic independent of live device handles.
type Profile struct {
	Name           string
	DiscreteGPU    bool
	GeometryShader bool
	Extensions     map[string]struct{}
	Queues         QueueFamilyIndices
}

// Suitable reports whether the device qualifies: a discrete GPU exposing the
// geometry-shader feature, every required device extension, and queue
// families covering both graphics and presentation. The discrete-GPU and
// geometry-shader requirements are stricter than a triangle strictly needs,
// but they are the selection policy of this engine.
func (p Profile) Suitable(requiredExtensions []string) bool {
	if !p.DiscreteGPU || !p.GeometryShader {
		return false
	}
	for _, ext := range requiredExtensions {
		if _, ok := p.Extensions[ext]; !ok {
			return false
		}
	}
	return p.Queues.IsComplete()
}

// Select returns the index of the first suitable profile in enumeration
// order. There is no scoring among multiple suitable devices.
func Select(profiles []Profile, requiredExtensions []string) (int, error) {
	for i, profile := range profiles {
		if profile.Suitable(requiredExtensions) {
			return i, nil
		}
	}
	return 0, errors.Newf("failed to find a suitable GPU among %d devices", len(profiles))
}

func FindQueueFamilies(physical core1_0.PhysicalDevice, surface khr_surface.Surface) (QueueFamilyIndices, error) {
	indices := QueueFamilyIndices{}
	queueFamilies := physical.QueueFamilyProperties()

	for queueFamilyIdx, queueFamily := range queueFamilies {
		if (queueFamily.QueueFlags & core1_0.QueueGraphics) != 0 {
			indices.GraphicsFamily = new(int)
			*indices.GraphicsFamily = queueFamilyIdx
		}

		supported, _, err := surface.PhysicalDeviceSurfaceSupport(physical, queueFamilyIdx)
		if err != nil {
			return indices, err
		}

		if supported {
			indices.PresentFamily = new(int)
			*indices.PresentFamily = queueFamilyIdx
		}

		if indices.IsComplete() {
			break
		}
	}

	return indices, nil
}

// ProfileOf queries one physical device down to a Profile.
func ProfileOf(physical core1_0.PhysicalDevice, surface khr_surface.Surface) (Profile, error) {
	properties, err := physical.Properties()
	if err != nil {
		return Profile{}, err
	}

	features := physical.Features()

	extensions, _, err := physical.EnumerateDeviceExtensionProperties()
	if err != nil {
		return Profile{}, err
	}

	names := make(map[string]struct{}, len(extensions))
	for name := range extensions {
		names[name] = struct{}{}
	}

	indices, err := FindQueueFamilies(physical, surface)
	if err != nil {
		return Profile{}, err
	}

	return Profile{
		Name:           properties.DriverName,
		DiscreteGPU:    properties.DriverType == core1_0.PhysicalDeviceTypeDiscreteGPU,
		GeometryShader: features.GeometryShader,
		Extensions:     names,
		Queues:         indices,
	}, nil
}

// Pick enumerates the instance's physical devices and returns the first
// suitable one along with its profile.
func Pick(instance core1_0.Instance, surface khr_surface.Surface, requiredExtensions []string) (core1_0.PhysicalDevice, Profile, error) {
	physicalDevices, _, err := instance.EnumeratePhysicalDevices()
	if err != nil {
		return nil, Profile{}, err
	}
	if len(physicalDevices) == 0 {
		return nil, Profile{}, errors.New("failed to find GPUs with Vulkan support")
	}

	profiles := make([]Profile, 0, len(physicalDevices))
	for _, physical := range physicalDevices {
		profile, err := ProfileOf(physical, surface)
		if err != nil {
			return nil, Profile{}, err
		}
		profiles = append(profiles, profile)
	}

	chosen, err := Select(profiles, requiredExtensions)
	if err != nil {
		return nil, Profile{}, err
	}

	return physicalDevices[chosen], profiles[chosen], nil
}

// Context owns the logical device and its graphics/present queue pair. The
// two queues may be one and the same when a single family supports both.
type Context struct {
	Physical core1_0.PhysicalDevice
	Device   core1_0.Device
	Indices  QueueFamilyIndices

	GraphicsQueue core1_0.Queue
	PresentQueue  core1_0.Queue
}

// NewContext builds the logical device over the picked physical device, with
// one queue per unique family at priority 1.0 and the required extensions
// enabled.
func NewContext(physical core1_0.PhysicalDevice, indices QueueFamilyIndices, requiredExtensions []string) (*Context, error) {
	uniqueQueueFamilies := []int{*indices.GraphicsFamily}
	if uniqueQueueFamilies[0] != *indices.PresentFamily {
		uniqueQueueFamilies = append(uniqueQueueFamilies, *indices.PresentFamily)
	}

	var queueFamilyOptions []core1_0.DeviceQueueCreateInfo
	queuePriority := float32(1.0)
	for _, queueFamily := range uniqueQueueFamilies {
		queueFamilyOptions = append(queueFamilyOptions, core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: queueFamily,
			QueuePriorities:  []float32{queuePriority},
		})
	}

	var extensionNames []string
	extensionNames = append(extensionNames, requiredExtensions...)

	// Required when the implementation is a portability layer (MoltenVK).
	extensions, _, err := physical.EnumerateDeviceExtensionProperties()
	if err != nil {
		return nil, err
	}
	_, supported := extensions[khr_portability_subset.ExtensionName]
	if supported {
		extensionNames = append(extensionNames, khr_portability_subset.ExtensionName)
	}

	logical, _, err := physical.CreateDevice(nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos: queueFamilyOptions,
		EnabledFeatures: &core1_0.PhysicalDeviceFeatures{
			GeometryShader: true,
		},
		EnabledExtensionNames: extensionNames,
	})
	if err != nil {
		return nil, err
	}

	return &Context{
		Physical:      physical,
		Device:        logical,
		Indices:       indices,
		GraphicsQueue: logical.GetQueue(*indices.GraphicsFamily, 0),
		PresentQueue:  logical.GetQueue(*indices.PresentFamily, 0),
	}, nil
}
