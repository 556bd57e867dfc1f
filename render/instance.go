package render

import (
	"log"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/ext_debug_utils"
	"github.com/vkngwrapper/extensions/khr_portability_enumeration"
	"github.com/vkngwrapper/extensions/khr_surface"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2"
)

func (app *App) createInstance() error {
	instanceOptions := core1_0.InstanceCreateInfo{
		ApplicationName:    "Hello Triangle",
		ApplicationVersion: common.CreateVersion(0, 0, 1),
		EngineName:         "RevoVR",
		EngineVersion:      common.CreateVersion(0, 0, 1),
		APIVersion:         common.Vulkan1_2,
	}

	required := app.window.VulkanGetInstanceExtensions()
	if app.config.EnableValidation {
		required = append(required, ext_debug_utils.ExtensionName)
	}

	available, _, err := app.loader.AvailableExtensions()
	if err != nil {
		return err
	}

	availableNames := make([]string, 0, len(available))
	for name := range available {
		availableNames = append(availableNames, name)
	}
	sort.Strings(availableNames)

	logRequiredExtensions(required)
	logAvailableExtensions(availableNames, required)

	for _, ext := range required {
		if _, hasExt := available[ext]; !hasExt {
			return errors.Newf("createInstance: missing required instance extension %s", ext)
		}
		instanceOptions.EnabledExtensionNames = append(instanceOptions.EnabledExtensionNames, ext)
	}

	if _, ok := available[khr_portability_enumeration.ExtensionName]; ok {
		instanceOptions.EnabledExtensionNames = append(instanceOptions.EnabledExtensionNames, khr_portability_enumeration.ExtensionName)
		instanceOptions.Flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}

	layers, _, err := app.loader.AvailableLayers()
	if err != nil {
		return err
	}

	if app.config.EnableValidation {
		for _, layer := range validationLayers {
			if _, hasValidation := layers[layer]; !hasValidation {
				return errors.Newf("createInstance: validation layer %s not available - install the LunarG Vulkan SDK", layer)
			}
			instanceOptions.EnabledLayerNames = append(instanceOptions.EnabledLayerNames, layer)
		}

		// Covers instance creation and destruction themselves, which the
		// messenger object cannot observe.
		instanceOptions.Next = app.debugMessengerOptions()
	}

	app.instance, _, err = app.loader.CreateInstance(nil, instanceOptions)
	if err != nil {
		return err
	}
	app.resources.Push("instance", func() { app.instance.Destroy(nil) })

	return nil
}

func logRequiredExtensions(required []string) {
	log.Printf("%d instance extensions required:", len(required))
	for i, name := range required {
		log.Printf("  %d) %s", i+1, name)
	}
}

func logAvailableExtensions(available []string, required []string) {
	requiredSet := make(map[string]struct{}, len(required))
	for _, name := range required {
		requiredSet[name] = struct{}{}
	}

	log.Printf("%d instance extensions available:", len(available))
	for i, name := range available {
		marker := ""
		if _, ok := requiredSet[name]; ok {
			marker = " <--- required"
		}
		log.Printf("  %d) %s%s", i+1, name, marker)
	}
}

func (app *App) debugMessengerOptions() ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.SeverityError | ext_debug_utils.SeverityWarning,
		MessageType:     ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback:    app.logDebug,
	}
}

func (app *App) setupDebugMessenger() error {
	if !app.config.EnableValidation {
		return nil
	}

	var err error
	debugLoader := ext_debug_utils.CreateExtensionFromInstance(app.instance)
	app.debugMessenger, _, err = debugLoader.CreateDebugUtilsMessenger(app.instance, nil, app.debugMessengerOptions())
	if err != nil {
		return err
	}
	app.resources.Push("debug messenger", func() { app.debugMessenger.Destroy(nil) })

	return nil
}

// logDebug forwards validation-layer diagnostics. The messenger is registered
// for warning severity and up, so nothing below that reaches here.
func (app *App) logDebug(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
	log.Printf("[%s %s] - %s", severity, msgType, data.Message)
	return false
}

func (app *App) createSurface() error {
	surfaceLoader := khr_surface.CreateExtensionFromInstance(app.instance)

	surface, err := vkng_sdl2.CreateSurface(app.instance, surfaceLoader, app.window)
	if err != nil {
		return err
	}

	app.surface = surface
	app.resources.Push("surface", func() { app.surface.Destroy(nil) })
	return nil
}
