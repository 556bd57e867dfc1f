package render

import (
	"log"

	"github.com/vkngwrapper/core/core1_0"

	"github.com/satchelfrost/revovr/device"
	"github.com/satchelfrost/revovr/pipeline"
	"github.com/satchelfrost/revovr/present"
)

func (app *App) pickPhysicalDevice() error {
	physical, profile, err := device.Pick(app.instance, app.surface, deviceExtensions)
	if err != nil {
		return err
	}

	app.physical = physical
	app.queueIndices = profile.Queues
	log.Printf("using device %q", profile.Name)
	return nil
}

func (app *App) createLogicalDevice() error {
	ctx, err := device.NewContext(app.physical, app.queueIndices, deviceExtensions)
	if err != nil {
		return err
	}

	app.ctx = ctx
	app.resources.Push("logical device", func() { app.ctx.Device.Destroy(nil) })
	return nil
}

func (app *App) createTarget() error {
	w, h := app.window.VulkanGetDrawableSize()

	target, err := present.NewTarget(app.ctx.Device, app.ctx.Physical, app.surface, app.ctx.Indices, int(w), int(h))
	if err != nil {
		return err
	}

	app.target = target
	app.resources.Push("presentation target", app.target.Destroy)
	return nil
}

func (app *App) createPipeline() error {
	p, err := pipeline.New(app.ctx.Device, app.target.Format, app.config.ShaderDir)
	if err != nil {
		return err
	}

	app.pipeline = p
	app.resources.Push("render pipeline", app.pipeline.Destroy)
	return nil
}

func (app *App) createFramebuffers() error {
	for _, imageView := range app.target.Views {
		framebuffer, _, err := app.ctx.Device.CreateFramebuffer(nil, core1_0.FramebufferCreateInfo{
			RenderPass: app.pipeline.RenderPass,
			Layers:     1,
			Attachments: []core1_0.ImageView{
				imageView,
			},
			Width:  app.target.Extent.Width,
			Height: app.target.Extent.Height,
		})
		if err != nil {
			return err
		}

		app.framebuffers = append(app.framebuffers, framebuffer)
	}
	app.resources.Push("framebuffers", func() {
		for _, framebuffer := range app.framebuffers {
			framebuffer.Destroy(nil)
		}
	})

	return nil
}

func (app *App) createCommandPool() error {
	pool, _, err := app.ctx.Device.CreateCommandPool(nil, core1_0.CommandPoolCreateInfo{
		QueueFamilyIndex: *app.ctx.Indices.GraphicsFamily,
		// The one command buffer is reset and re-recorded every frame.
		Flags: core1_0.CommandPoolCreateResetBuffer,
	})
	if err != nil {
		return err
	}

	app.commandPool = pool
	app.resources.Push("command pool", func() { app.commandPool.Destroy(nil) })
	return nil
}

func (app *App) createCommandBuffer() error {
	buffers, _, err := app.ctx.Device.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
		CommandPool:        app.commandPool,
		Level:              core1_0.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	})
	if err != nil {
		return err
	}

	app.commandBuffer = buffers[0]
	return nil
}

func (app *App) createSyncObjects() error {
	semaphore, _, err := app.ctx.Device.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
	if err != nil {
		return err
	}
	app.imageAvailable = semaphore
	app.resources.Push("image-available semaphore", func() { app.imageAvailable.Destroy(nil) })

	semaphore, _, err = app.ctx.Device.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
	if err != nil {
		return err
	}
	app.renderFinished = semaphore
	app.resources.Push("render-finished semaphore", func() { app.renderFinished.Destroy(nil) })

	// Created signaled so the first frame's wait returns immediately.
	fence, _, err := app.ctx.Device.CreateFence(nil, core1_0.FenceCreateInfo{
		Flags: core1_0.FenceCreateSignaled,
	})
	if err != nil {
		return err
	}
	app.inFlightFence = fence
	app.resources.Push("in-flight fence", func() { app.inFlightFence.Destroy(nil) })

	return nil
}
