package present

import (
	"testing"

	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
)

func TestChooseSurfaceFormat(t *testing.T) {
	preferred := khr_surface.SurfaceFormat{
		Format:     core1_0.FormatB8G8R8A8SRGB,
		ColorSpace: khr_surface.ColorSpaceSRGBNonlinear,
	}

	t.Run("picks preferred format when offered", func(t *testing.T) {
		formats := []khr_surface.SurfaceFormat{
			{Format: core1_0.FormatR8G8B8A8SRGB, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear},
			preferred,
		}

		chosen, err := ChooseSurfaceFormat(formats)
		if err != nil {
			t.Fatal(err)
		}
		if chosen != preferred {
			t.Errorf("chose %+v, want %+v", chosen, preferred)
		}
	})

	t.Run("fails when preferred format is absent", func(t *testing.T) {
		formats := []khr_surface.SurfaceFormat{
			{Format: core1_0.FormatR8G8B8A8SRGB, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear},
		}

		if _, err := ChooseSurfaceFormat(formats); err == nil {
			t.Error("ChooseSurfaceFormat succeeded without B8G8R8A8 SRGB on offer")
		}
	})

	t.Run("fails on matching format in wrong color space", func(t *testing.T) {
		formats := []khr_surface.SurfaceFormat{
			{Format: core1_0.FormatB8G8R8A8SRGB, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear + 1},
		}

		if _, err := ChooseSurfaceFormat(formats); err == nil {
			t.Error("ChooseSurfaceFormat accepted the wrong color space")
		}
	})
}

func TestChoosePresentMode(t *testing.T) {
	t.Run("prefers mailbox", func(t *testing.T) {
		modes := []khr_surface.PresentMode{
			khr_surface.PresentModeFIFO,
			khr_surface.PresentModeMailbox,
		}
		if got := ChoosePresentMode(modes); got != khr_surface.PresentModeMailbox {
			t.Errorf("chose %v, want mailbox", got)
		}
	})

	t.Run("falls back to FIFO", func(t *testing.T) {
		modes := []khr_surface.PresentMode{
			khr_surface.PresentModeImmediate,
			khr_surface.PresentModeFIFO,
		}
		if got := ChoosePresentMode(modes); got != khr_surface.PresentModeFIFO {
			t.Errorf("chose %v, want FIFO", got)
		}
	})
}

func TestChooseExtent(t *testing.T) {
	clampable := func() *khr_surface.SurfaceCapabilities {
		return &khr_surface.SurfaceCapabilities{
			CurrentExtent:  core1_0.Extent2D{Width: -1, Height: -1},
			MinImageExtent: core1_0.Extent2D{Width: 1, Height: 1},
			MaxImageExtent: core1_0.Extent2D{Width: 4096, Height: 4096},
		}
	}

	tests := []struct {
		name          string
		caps          *khr_surface.SurfaceCapabilities
		width, height int
		want          core1_0.Extent2D
	}{
		{
			name: "fixed current extent wins verbatim",
			caps: &khr_surface.SurfaceCapabilities{
				CurrentExtent:  core1_0.Extent2D{Width: 1280, Height: 720},
				MinImageExtent: core1_0.Extent2D{Width: 1, Height: 1},
				MaxImageExtent: core1_0.Extent2D{Width: 4096, Height: 4096},
			},
			width:  800,
			height: 600,
			want:   core1_0.Extent2D{Width: 1280, Height: 720},
		},
		{
			name:   "undefined extent passes drawable size through",
			caps:   clampable(),
			width:  800,
			height: 600,
			want:   core1_0.Extent2D{Width: 800, Height: 600},
		},
		{
			name:   "undefined extent clamps to maximum",
			caps:   clampable(),
			width:  10000,
			height: 10000,
			want:   core1_0.Extent2D{Width: 4096, Height: 4096},
		},
		{
			name:   "undefined extent clamps to minimum",
			caps:   clampable(),
			width:  0,
			height: 0,
			want:   core1_0.Extent2D{Width: 1, Height: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChooseExtent(tt.caps, tt.width, tt.height); got != tt.want {
				t.Errorf("ChooseExtent = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestImageCount(t *testing.T) {
	tests := []struct {
		name     string
		min, max int
		want     int
	}{
		{"minimum plus one", 2, 8, 3},
		{"capped at maximum", 2, 2, 2},
		{"uncapped when max is zero", 3, 0, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := &khr_surface.SurfaceCapabilities{
				MinImageCount: tt.min,
				MaxImageCount: tt.max,
			}
			if got := ImageCount(caps); got != tt.want {
				t.Errorf("ImageCount = %d, want %d", got, tt.want)
			}
		})
	}
}
