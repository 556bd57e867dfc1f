// Package present owns the swapchain: capability queries, format, present
// mode and extent negotiation, and the presentable images with their views.
// The negotiated format and extent are fixed for the target's lifetime; there
// is no recreation path.
package present

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
	"github.com/vkngwrapper/extensions/khr_swapchain"

	"github.com/satchelfrost/revovr/device"
)

type SupportDetails struct {
	Capabilities *khr_surface.SurfaceCapabilities
	Formats      []khr_surface.SurfaceFormat
	PresentModes []khr_surface.PresentMode
}

func QuerySupport(surface khr_surface.Surface, physical core1_0.PhysicalDevice) (SupportDetails, error) {
	var details SupportDetails
	var err error

	details.Capabilities, _, err = surface.PhysicalDeviceSurfaceCapabilities(physical)
	if err != nil {
		return details, err
	}

	details.Formats, _, err = surface.PhysicalDeviceSurfaceFormats(physical)
	if err != nil {
		return details, err
	}

	details.PresentModes, _, err = surface.PhysicalDeviceSurfacePresentModes(physical)
	return details, err
}

// ChooseSurfaceFormat requires 8-bit BGRA SRGB with the SRGB nonlinear color
// space. There is no fallback format: a surface without it is an error.
func ChooseSurfaceFormat(available []khr_surface.SurfaceFormat) (khr_surface.SurfaceFormat, error) {
	for _, format := range available {
		if format.Format == core1_0.FormatB8G8R8A8SRGB && format.ColorSpace == khr_surface.ColorSpaceSRGBNonlinear {
			return format, nil
		}
	}

	return khr_surface.SurfaceFormat{}, errors.Newf("surface does not offer B8G8R8A8 SRGB among %d formats", len(available))
}

// ChoosePresentMode prefers mailbox for its low latency and falls back to
// FIFO, which every surface must support.
func ChoosePresentMode(available []khr_surface.PresentMode) khr_surface.PresentMode {
	for _, presentMode := range available {
		if presentMode == khr_surface.PresentModeMailbox {
			return presentMode
		}
	}

	return khr_surface.PresentModeFIFO
}

// ChooseExtent uses the surface's current extent verbatim when it is defined,
// and otherwise clamps the window's drawable size into the supported range.
func ChooseExtent(capabilities *khr_surface.SurfaceCapabilities, drawableWidth, drawableHeight int) core1_0.Extent2D {
	if capabilities.CurrentExtent.Width != -1 {
		return capabilities.CurrentExtent
	}

	width := drawableWidth
	height := drawableHeight

	if width < capabilities.MinImageExtent.Width {
		width = capabilities.MinImageExtent.Width
	}
	if width > capabilities.MaxImageExtent.Width {
		width = capabilities.MaxImageExtent.Width
	}
	if height < capabilities.MinImageExtent.Height {
		height = capabilities.MinImageExtent.Height
	}
	if height > capabilities.MaxImageExtent.Height {
		height = capabilities.MaxImageExtent.Height
	}

	return core1_0.Extent2D{Width: width, Height: height}
}

// ImageCount asks for one image more than the supported minimum so the
// driver never stalls acquisition on internal work, capped at the supported
// maximum (0 means uncapped).
func ImageCount(capabilities *khr_surface.SurfaceCapabilities) int {
	imageCount := capabilities.MinImageCount + 1
	if capabilities.MaxImageCount > 0 && capabilities.MaxImageCount < imageCount {
		imageCount = capabilities.MaxImageCount
	}
	return imageCount
}

// Target is the fixed set of presentable images. All slots share one format
// and one extent for the target's lifetime.
type Target struct {
	Extension khr_swapchain.Extension
	Swapchain khr_swapchain.Swapchain

	Images []core1_0.Image
	Views  []core1_0.ImageView
	Format core1_0.Format
	Extent core1_0.Extent2D
}

// NewTarget negotiates format, present mode and extent against the surface
// and creates the swapchain plus one 2D color view per image.
func NewTarget(logical core1_0.Device, physical core1_0.PhysicalDevice, surface khr_surface.Surface, indices device.QueueFamilyIndices, drawableWidth, drawableHeight int) (*Target, error) {
	extension := khr_swapchain.CreateExtensionFromDevice(logical)

	support, err := QuerySupport(surface, physical)
	if err != nil {
		return nil, err
	}

	surfaceFormat, err := ChooseSurfaceFormat(support.Formats)
	if err != nil {
		return nil, err
	}
	presentMode := ChoosePresentMode(support.PresentModes)
	extent := ChooseExtent(support.Capabilities, drawableWidth, drawableHeight)

	sharingMode := core1_0.SharingModeExclusive
	var queueFamilyIndices []int
	if *indices.GraphicsFamily != *indices.PresentFamily {
		sharingMode = core1_0.SharingModeConcurrent
		queueFamilyIndices = append(queueFamilyIndices, *indices.GraphicsFamily, *indices.PresentFamily)
	}

	swapchain, _, err := extension.CreateSwapchain(logical, nil, khr_swapchain.SwapchainCreateInfo{
		Surface: surface,

		MinImageCount:    ImageCount(support.Capabilities),
		ImageFormat:      surfaceFormat.Format,
		ImageColorSpace:  surfaceFormat.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       core1_0.ImageUsageColorAttachment,

		ImageSharingMode:   sharingMode,
		QueueFamilyIndices: queueFamilyIndices,

		PreTransform:   support.Capabilities.CurrentTransform,
		CompositeAlpha: khr_surface.CompositeAlphaOpaque,
		PresentMode:    presentMode,
		Clipped:        true,
	})
	if err != nil {
		return nil, err
	}

	target := &Target{
		Extension: extension,
		Swapchain: swapchain,
		Format:    surfaceFormat.Format,
		Extent:    extent,
	}

	target.Images, _, err = swapchain.SwapchainImages()
	if err != nil {
		target.Destroy()
		return nil, err
	}

	for _, image := range target.Images {
		view, _, err := logical.CreateImageView(nil, core1_0.ImageViewCreateInfo{
			Image:    image,
			ViewType: core1_0.ImageViewType2D,
			Format:   surfaceFormat.Format,
			SubresourceRange: core1_0.ImageSubresourceRange{
				AspectMask:     core1_0.ImageAspectColor,
				BaseMipLevel:   0,
				LevelCount:     1,
				BaseArrayLayer: 0,
				LayerCount:     1,
			},
		})
		if err != nil {
			target.Destroy()
			return nil, err
		}

		target.Views = append(target.Views, view)
	}

	return target, nil
}

// Destroy releases the image views, then the swapchain.
func (t *Target) Destroy() {
	for _, view := range t.Views {
		view.Destroy(nil)
	}
	t.Views = nil

	if t.Swapchain != nil {
		t.Swapchain.Destroy(nil)
		t.Swapchain = nil
	}
}
