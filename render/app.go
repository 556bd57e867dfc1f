// Package render assembles the renderer: the SDL window, the Vulkan setup
// chain run as an explicit ordered list of steps, the per-frame backend the
// frame loop drives, and the reverse-order teardown of everything acquired.
package render

import (
	"log"

	"github.com/cockroachdb/errors"
	"github.com/loov/hrtime"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/ext_debug_utils"
	"github.com/vkngwrapper/extensions/khr_surface"
	"github.com/vkngwrapper/extensions/khr_swapchain"

	"github.com/satchelfrost/revovr/device"
	"github.com/satchelfrost/revovr/frame"
	"github.com/satchelfrost/revovr/pipeline"
	"github.com/satchelfrost/revovr/present"
	"github.com/satchelfrost/revovr/resource"
)

var validationLayers = []string{"VK_LAYER_KHRONOS_validation"}
var deviceExtensions = []string{khr_swapchain.ExtensionName}

type App struct {
	config    Config
	resources resource.Stack

	window *sdl.Window
	loader core.Loader

	instance       core1_0.Instance
	debugMessenger ext_debug_utils.DebugUtilsMessenger
	surface        khr_surface.Surface

	physical     core1_0.PhysicalDevice
	queueIndices device.QueueFamilyIndices
	ctx          *device.Context

	target   *present.Target
	pipeline *pipeline.Pipeline

	framebuffers []core1_0.Framebuffer

	commandPool   core1_0.CommandPool
	commandBuffer core1_0.CommandBuffer

	// The synchronization triad for the single frame in flight.
	imageAvailable core1_0.Semaphore
	renderFinished core1_0.Semaphore
	inFlightFence  core1_0.Fence

	loop *frame.Loop

	frameCount int
	statsStart float64
}

func NewApp(config Config) *App {
	return &App{config: config}
}

// Run initializes the window and the graphics stack, then drives the frame
// loop until the window is closed. Teardown of whatever was acquired runs on
// every exit path, in reverse acquisition order.
func (app *App) Run() error {
	defer app.resources.Close()

	err := app.initWindow()
	if err != nil {
		return err
	}

	err = app.initVulkan()
	if err != nil {
		return err
	}

	return app.mainLoop()
}

func (app *App) initWindow() error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return err
	}
	app.resources.Push("sdl", sdl.Quit)

	window, err := sdl.CreateWindow(app.config.Title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(app.config.Width), int32(app.config.Height), sdl.WINDOW_SHOWN|sdl.WINDOW_VULKAN)
	if err != nil {
		return err
	}
	app.window = window
	app.resources.Push("window", func() { app.window.Destroy() })

	app.loader, err = core.CreateLoaderFromProcAddr(sdl.VulkanGetVkGetInstanceProcAddr())
	return err
}

type setupStep struct {
	name string
	fn   func() error
}

// initVulkan runs the one-time setup chain. The slice is the construction
// order; each step pushes its own teardown onto the resource stack, so the
// destruction order never has to be maintained by hand.
func (app *App) initVulkan() error {
	steps := []setupStep{
		{"instance", app.createInstance},
		{"debug messenger", app.setupDebugMessenger},
		{"surface", app.createSurface},
		{"physical device", app.pickPhysicalDevice},
		{"logical device", app.createLogicalDevice},
		{"presentation target", app.createTarget},
		{"render pipeline", app.createPipeline},
		{"framebuffers", app.createFramebuffers},
		{"command pool", app.createCommandPool},
		{"command buffer", app.createCommandBuffer},
		{"sync objects", app.createSyncObjects},
	}

	for _, step := range steps {
		if err := step.fn(); err != nil {
			return errors.Wrapf(err, "%s setup failed", step.name)
		}
	}

	app.loop = frame.NewLoop(app)
	return nil
}

func (app *App) mainLoop() error {
	app.statsStart = hrtime.Now().Seconds()

appLoop:
	for {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch event.(type) {
			case *sdl.QuitEvent:
				break appLoop
			}
		}

		if err := app.loop.DrawFrame(); err != nil {
			return err
		}
		app.logFrameStats()
	}

	// Let in-flight work drain before the resource stack unwinds.
	_, err := app.ctx.Device.WaitIdle()
	return err
}

func (app *App) logFrameStats() {
	app.frameCount++
	interval := app.config.StatsInterval
	if interval <= 0 || app.frameCount%interval != 0 {
		return
	}

	now := hrtime.Now().Seconds()
	elapsed := now - app.statsStart
	if elapsed > 0 {
		log.Printf("%d frames in %.2fs (%.1f fps)", interval, elapsed, float64(interval)/elapsed)
	}
	app.statsStart = now
}
