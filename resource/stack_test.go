package resource

import "testing"

func TestCloseReleasesInReverseOrder(t *testing.T) {
	var stack Stack
	var released []string

	for _, name := range []string{"instance", "surface", "device", "swapchain"} {
		name := name
		stack.Push(name, func() {
			released = append(released, name)
		})
	}

	stack.Close()

	want := []string{"swapchain", "device", "surface", "instance"}
	if len(released) != len(want) {
		t.Fatalf("released %d resources, want %d", len(released), len(want))
	}
	for i := range want {
		if released[i] != want[i] {
			t.Errorf("release %d = %q, want %q", i, released[i], want[i])
		}
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	var stack Stack
	releases := 0
	stack.Push("device", func() { releases++ })

	stack.Close()
	stack.Close()

	if releases != 1 {
		t.Errorf("release ran %d times, want 1", releases)
	}
}

func TestCloseOnEmptyStack(t *testing.T) {
	var stack Stack
	stack.Close()
}

// mockHandle stands in for a graphics object whose destruction is only legal
// once every object created from it has been destroyed.
type mockHandle struct {
	name       string
	destroyed  bool
	dependents []*mockHandle
}

func (h *mockHandle) destroy(t *testing.T) {
	t.Helper()
	if h.destroyed {
		t.Errorf("%s destroyed twice", h.name)
	}
	for _, dep := range h.dependents {
		if !dep.destroyed {
			t.Errorf("%s destroyed before its dependent %s", h.name, dep.name)
		}
	}
	h.destroyed = true
}

func TestCloseNeverDestroysDependencyBeforeDependent(t *testing.T) {
	var stack Stack

	device := &mockHandle{name: "device"}
	swapchain := &mockHandle{name: "swapchain"}
	views := &mockHandle{name: "image views"}
	pipeline := &mockHandle{name: "pipeline"}
	device.dependents = []*mockHandle{swapchain, views, pipeline}
	swapchain.dependents = []*mockHandle{views}

	for _, h := range []*mockHandle{device, swapchain, views, pipeline} {
		h := h
		stack.Push(h.name, func() { h.destroy(t) })
	}

	stack.Close()

	for _, h := range []*mockHandle{device, swapchain, views, pipeline} {
		if !h.destroyed {
			t.Errorf("%s was never destroyed", h.name)
		}
	}
}
