package render

import (
	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_swapchain"
)

// App implements frame.Backend over the real device. All blocking calls wait
// indefinitely; with one frame in flight there is nothing else to yield to.

func (app *App) WaitForFrame() error {
	_, err := app.ctx.Device.WaitForFences(true, common.NoTimeout, []core1_0.Fence{app.inFlightFence})
	return err
}

func (app *App) ResetFrame() error {
	_, err := app.ctx.Device.ResetFences([]core1_0.Fence{app.inFlightFence})
	return err
}

func (app *App) AcquireImage() (int, error) {
	imageIndex, _, err := app.target.Swapchain.AcquireNextImage(common.NoTimeout, app.imageAvailable, nil)
	return imageIndex, err
}

func (app *App) RecordCommands(imageIndex int) error {
	_, err := app.commandBuffer.Reset(0)
	if err != nil {
		return err
	}

	_, err = app.commandBuffer.Begin(core1_0.CommandBufferBeginInfo{})
	if err != nil {
		return err
	}

	clear := app.config.ClearColor
	err = app.commandBuffer.CmdBeginRenderPass(core1_0.SubpassContentsInline,
		core1_0.RenderPassBeginInfo{
			RenderPass:  app.pipeline.RenderPass,
			Framebuffer: app.framebuffers[imageIndex],
			RenderArea: core1_0.Rect2D{
				Offset: core1_0.Offset2D{X: 0, Y: 0},
				Extent: app.target.Extent,
			},
			ClearValues: []core1_0.ClearValue{
				core1_0.ClearValueFloat{clear.X(), clear.Y(), clear.Z(), clear.W()},
			},
		})
	if err != nil {
		return err
	}

	app.commandBuffer.CmdBindPipeline(core1_0.PipelineBindPointGraphics, app.pipeline.Handle)
	app.commandBuffer.CmdSetViewport([]core1_0.Viewport{
		{
			X:        0,
			Y:        0,
			Width:    float32(app.target.Extent.Width),
			Height:   float32(app.target.Extent.Height),
			MinDepth: 0,
			MaxDepth: 1,
		},
	})
	app.commandBuffer.CmdSetScissor([]core1_0.Rect2D{
		{
			Offset: core1_0.Offset2D{X: 0, Y: 0},
			Extent: app.target.Extent,
		},
	})
	app.commandBuffer.CmdDraw(3, 1, 0, 0)
	app.commandBuffer.CmdEndRenderPass()

	_, err = app.commandBuffer.End()
	return err
}

func (app *App) SubmitCommands(imageIndex int) error {
	_, err := app.ctx.GraphicsQueue.Submit(app.inFlightFence, []core1_0.SubmitInfo{
		{
			WaitSemaphores:   []core1_0.Semaphore{app.imageAvailable},
			WaitDstStageMask: []core1_0.PipelineStageFlags{core1_0.PipelineStageColorAttachmentOutput},
			CommandBuffers:   []core1_0.CommandBuffer{app.commandBuffer},
			SignalSemaphores: []core1_0.Semaphore{app.renderFinished},
		},
	})
	return err
}

func (app *App) PresentImage(imageIndex int) error {
	_, err := app.target.Extension.QueuePresent(app.ctx.PresentQueue, khr_swapchain.PresentInfo{
		WaitSemaphores: []core1_0.Semaphore{app.renderFinished},
		Swapchains:     []khr_swapchain.Swapchain{app.target.Swapchain},
		ImageIndices:   []int{imageIndex},
	})
	return err
}
