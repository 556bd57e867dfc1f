package device

import "testing"

func intPtr(v int) *int {
	return &v
}

func suitableProfile(name string) Profile {
	return Profile{
		Name:           name,
		DiscreteGPU:    true,
		GeometryShader: true,
		Extensions:     map[string]struct{}{"VK_KHR_swapchain": {}},
		Queues: QueueFamilyIndices{
			GraphicsFamily: intPtr(0),
			PresentFamily:  intPtr(0),
		},
	}
}

func TestSelectPicksFirstSuitableDevice(t *testing.T) {
	integrated := suitableProfile("integrated")
	integrated.DiscreteGPU = false

	profiles := []Profile{
		integrated,
		suitableProfile("first discrete"),
		suitableProfile("second discrete"),
	}

	chosen, err := Select(profiles, []string{"VK_KHR_swapchain"})
	if err != nil {
		t.Fatal(err)
	}
	if chosen != 1 {
		t.Errorf("Select chose device %d (%s), want 1 (first discrete)", chosen, profiles[chosen].Name)
	}
}

func TestSelectIsDeterministic(t *testing.T) {
	profiles := []Profile{
		suitableProfile("a"),
		suitableProfile("b"),
	}

	for i := 0; i < 5; i++ {
		chosen, err := Select(profiles, []string{"VK_KHR_swapchain"})
		if err != nil {
			t.Fatal(err)
		}
		if chosen != 0 {
			t.Fatalf("run %d chose device %d, want 0 every time", i, chosen)
		}
	}
}

func TestSelectFailsWhenNothingQualifies(t *testing.T) {
	virtual := suitableProfile("virtual")
	virtual.DiscreteGPU = false

	if _, err := Select([]Profile{virtual}, nil); err == nil {
		t.Error("Select succeeded with no suitable device")
	}
	if _, err := Select(nil, nil); err == nil {
		t.Error("Select succeeded with no devices at all")
	}
}

func TestSuitableRejectsEachMissingPredicate(t *testing.T) {
	required := []string{"VK_KHR_swapchain"}

	tests := []struct {
		name   string
		mutate func(*Profile)
	}{
		{"not discrete", func(p *Profile) { p.DiscreteGPU = false }},
		{"no geometry shader", func(p *Profile) { p.GeometryShader = false }},
		{"missing extension", func(p *Profile) { p.Extensions = nil }},
		{"no graphics family", func(p *Profile) { p.Queues.GraphicsFamily = nil }},
		{"no present family", func(p *Profile) { p.Queues.PresentFamily = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := suitableProfile("gpu")
			tt.mutate(&profile)
			if profile.Suitable(required) {
				t.Error("profile reported suitable")
			}
		})
	}

	if !suitableProfile("gpu").Suitable(required) {
		t.Error("fully capable profile reported unsuitable")
	}
}

func TestQueueFamilyIndicesIsComplete(t *testing.T) {
	var indices QueueFamilyIndices
	if indices.IsComplete() {
		t.Error("empty indices reported complete")
	}

	indices.GraphicsFamily = intPtr(0)
	if indices.IsComplete() {
		t.Error("graphics-only indices reported complete")
	}

	indices.PresentFamily = intPtr(1)
	if !indices.IsComplete() {
		t.Error("full indices reported incomplete")
	}
}
