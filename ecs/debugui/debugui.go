// Package debugui provides immediate-mode GUI integration for ECS
// applications using Dear ImGui. It manages ImGui rendering and input state
// through ECS components and systems.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/slate/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state as a singleton.
// Use this to determine if ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem queries all ImguiItem components and defers their render
// functions. It also updates the ImguiInputState singleton with current
// input capture state.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
}

// Execute updates input state and queues all ImGui render functions.
func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	if state := i.InputState.Get(); state != nil {
		state.WantCaptureMouse = imgui.CurrentIO().WantCaptureMouse()
		state.WantCaptureKeyboard = imgui.CurrentIO().WantCaptureKeyboard()
	}

	for _, item := range i.Items.Iter() {
		frame.Commands.Defer(item.ImguiItem.Render)
	}
}

// RegisterDebugUIComponents registers the component types the debug UI
// attaches to entities.
func RegisterDebugUIComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
	ecs.RegisterComponent[ImguiInputState](registry)
}

// SpawnDebugUI spawns a single entity whose ImguiItem renders the entity
// browser, component inspector and performance stats windows each frame.
func SpawnDebugUI(storage *ecs.Storage) ecs.Entity {
	browser := NewEntityBrowserComponent(100)
	inspector := NewComponentInspectorComponent()
	perf := NewPerformanceStatsComponent(120)
	timer := NewFrameTimer()

	ent := storage.Create()
	err := ecs.AddComponent(storage, ent.Id(), ImguiItem{
		Render: func() {
			dt := timer.GetDeltaTime()
			browser.Render(storage)
			inspector.Render(storage, browser.GetSelectedEntity())
			perf.Render(storage, dt)
		},
	})
	if err != nil {
		panic(err)
	}
	return ent
}
