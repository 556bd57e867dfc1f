// Package pipeline compiles the fixed single-pass rendering state: one
// render pass over one color attachment and one graphics pipeline whose only
// variable state is the per-frame viewport and scissor. Both are immutable
// after creation.
package pipeline

import (
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_swapchain"
)

// Pipeline is the compiled render pass, layout and graphics pipeline triple.
type Pipeline struct {
	RenderPass core1_0.RenderPass
	Layout     core1_0.PipelineLayout
	Handle     core1_0.Pipeline
}

// New builds the render pass and pipeline for the given swapchain color
// format, loading vert.spv and frag.spv from shaderDir. The vertex stage
// declares no inputs; the triangle's geometry lives in the shader itself.
func New(logical core1_0.Device, colorFormat core1_0.Format, shaderDir string) (*Pipeline, error) {
	renderPass, err := newRenderPass(logical, colorFormat)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{RenderPass: renderPass}
	err = p.build(logical, shaderDir)
	if err != nil {
		p.Destroy()
		return nil, err
	}

	return p, nil
}

func newRenderPass(logical core1_0.Device, colorFormat core1_0.Format) (core1_0.RenderPass, error) {
	renderPass, _, err := logical.CreateRenderPass(nil, core1_0.RenderPassCreateInfo{
		Attachments: []core1_0.AttachmentDescription{
			{
				Format:         colorFormat,
				Samples:        core1_0.Samples1,
				LoadOp:         core1_0.AttachmentLoadOpClear,
				StoreOp:        core1_0.AttachmentStoreOpStore,
				StencilLoadOp:  core1_0.AttachmentLoadOpDontCare,
				StencilStoreOp: core1_0.AttachmentStoreOpDontCare,
				InitialLayout:  core1_0.ImageLayoutUndefined,
				FinalLayout:    khr_swapchain.ImageLayoutPresentSrc,
			},
		},
		Subpasses: []core1_0.SubpassDescription{
			{
				PipelineBindPoint: core1_0.PipelineBindPointGraphics,
				ColorAttachments: []core1_0.AttachmentReference{
					{
						Attachment: 0,
						Layout:     core1_0.ImageLayoutColorAttachmentOptimal,
					},
				},
			},
		},
		SubpassDependencies: []core1_0.SubpassDependency{
			{
				SrcSubpass: core1_0.SubpassExternal,
				DstSubpass: 0,

				SrcStageMask:  core1_0.PipelineStageColorAttachmentOutput,
				SrcAccessMask: 0,

				DstStageMask:  core1_0.PipelineStageColorAttachmentOutput,
				DstAccessMask: core1_0.AccessColorAttachmentWrite,
			},
		},
	})
	return renderPass, err
}

func (p *Pipeline) build(logical core1_0.Device, shaderDir string) error {
	vertCode, err := loadShaderCode(shaderDir, "vert.spv")
	if err != nil {
		return err
	}

	vertShader, _, err := logical.CreateShaderModule(nil, core1_0.ShaderModuleCreateInfo{
		Code: vertCode,
	})
	if err != nil {
		return err
	}
	defer vertShader.Destroy(nil)

	fragCode, err := loadShaderCode(shaderDir, "frag.spv")
	if err != nil {
		return err
	}

	fragShader, _, err := logical.CreateShaderModule(nil, core1_0.ShaderModuleCreateInfo{
		Code: fragCode,
	})
	if err != nil {
		return err
	}
	defer fragShader.Destroy(nil)

	vertStage := core1_0.PipelineShaderStageCreateInfo{
		Stage:  core1_0.StageVertex,
		Module: vertShader,
		Name:   "main",
	}

	fragStage := core1_0.PipelineShaderStageCreateInfo{
		Stage:  core1_0.StageFragment,
		Module: fragShader,
		Name:   "main",
	}

	// No vertex bindings or attributes: gl_VertexIndex generates everything.
	vertexInput := &core1_0.PipelineVertexInputStateCreateInfo{}

	inputAssembly := &core1_0.PipelineInputAssemblyStateCreateInfo{
		Topology:               core1_0.PrimitiveTopologyTriangleList,
		PrimitiveRestartEnable: false,
	}

	// Viewport and scissor are dynamic and set during recording, so the
	// state here only fixes their counts.
	viewport := &core1_0.PipelineViewportStateCreateInfo{
		Viewports: make([]core1_0.Viewport, 1),
		Scissors:  make([]core1_0.Rect2D, 1),
	}

	dynamicState := &core1_0.PipelineDynamicStateCreateInfo{
		DynamicStates: []core1_0.DynamicState{
			core1_0.DynamicStateViewport,
			core1_0.DynamicStateScissor,
		},
	}

	rasterization := &core1_0.PipelineRasterizationStateCreateInfo{
		DepthClampEnable:        false,
		RasterizerDiscardEnable: false,

		PolygonMode: core1_0.PolygonModeFill,
		CullMode:    core1_0.CullModeBack,
		FrontFace:   core1_0.FrontFaceClockwise,

		DepthBiasEnable: false,

		LineWidth: 1.0,
	}

	multisample := &core1_0.PipelineMultisampleStateCreateInfo{
		SampleShadingEnable:  false,
		RasterizationSamples: core1_0.Samples1,
		MinSampleShading:     1.0,
	}

	colorBlend := &core1_0.PipelineColorBlendStateCreateInfo{
		LogicOpEnabled: false,
		LogicOp:        core1_0.LogicOpCopy,

		BlendConstants: [4]float32{0, 0, 0, 0},
		Attachments: []core1_0.PipelineColorBlendAttachmentState{
			{
				BlendEnabled:   false,
				ColorWriteMask: core1_0.ColorComponentRed | core1_0.ColorComponentGreen | core1_0.ColorComponentBlue | core1_0.ColorComponentAlpha,
			},
		},
	}

	p.Layout, _, err = logical.CreatePipelineLayout(nil, core1_0.PipelineLayoutCreateInfo{})
	if err != nil {
		return err
	}

	pipelines, _, err := logical.CreateGraphicsPipelines(nil, nil, []core1_0.GraphicsPipelineCreateInfo{
		{
			Stages: []core1_0.PipelineShaderStageCreateInfo{
				vertStage,
				fragStage,
			},
			VertexInputState:   vertexInput,
			InputAssemblyState: inputAssembly,
			ViewportState:      viewport,
			DynamicState:       dynamicState,
			RasterizationState: rasterization,
			MultisampleState:   multisample,
			ColorBlendState:    colorBlend,
			Layout:             p.Layout,
			RenderPass:         p.RenderPass,
			Subpass:            0,
			BasePipelineIndex:  -1,
		},
	})
	if err != nil {
		return err
	}
	p.Handle = pipelines[0]

	return nil
}

// Destroy releases the pipeline, its layout, then the render pass.
func (p *Pipeline) Destroy() {
	if p.Handle != nil {
		p.Handle.Destroy(nil)
		p.Handle = nil
	}

	if p.Layout != nil {
		p.Layout.Destroy(nil)
		p.Layout = nil
	}

	if p.RenderPass != nil {
		p.RenderPass.Destroy(nil)
		p.RenderPass = nil
	}
}
