package render

import "github.com/go-gl/mathgl/mgl32"

// Config carries the few knobs the bootstrap exposes. Everything else about
// the pipeline is fixed.
type Config struct {
	Title  string
	Width  int
	Height int

	// ShaderDir is the directory holding the compiled vert.spv and
	// frag.spv consumed at pipeline creation.
	ShaderDir string

	// EnableValidation requests the Khronos validation layer and the debug
	// messenger; startup fails if the layer is not installed.
	EnableValidation bool

	ClearColor mgl32.Vec4

	// StatsInterval is the number of frames between frame-rate log lines.
	// Zero disables the stats.
	StatsInterval int
}

func DefaultConfig() Config {
	return Config{
		Title:            "RevoVR",
		Width:            800,
		Height:           600,
		ShaderDir:        "shaders",
		EnableValidation: true,
		ClearColor:       mgl32.Vec4{0, 0, 0, 1},
		StatsInterval:    120,
	}
}
