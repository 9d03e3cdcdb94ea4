package internal

import "sync"

// ViewportClass is a discretized screen-size bucket
type ViewportClass int

const (
	Mobile ViewportClass = iota
	Tablet
	Desktop
	Wide
)

func (v ViewportClass) String() string {
	switch v {
	case Mobile:
		return "mobile"
	case Tablet:
		return "tablet"
	case Desktop:
		return "desktop"
	case Wide:
		return "wide"
	default:
		return "unknown"
	}
}

// Breakpoints are the minimum widths of the Tablet, Desktop and Wide
// classes. At Desktop the room sidebar renders inline; at Wide the
// assistant panel does too.
type Breakpoints struct {
	Tablet  int `toml:"tablet" json:"tablet"`
	Desktop int `toml:"desktop" json:"desktop"`
	Wide    int `toml:"wide" json:"wide"`
}

// PixelBreakpoints match the browser layout (md/lg/xl)
var PixelBreakpoints = Breakpoints{Tablet: 768, Desktop: 1024, Wide: 1280}

// TerminalBreakpoints are column counts used by the terminal UI
var TerminalBreakpoints = Breakpoints{Tablet: 60, Desktop: 100, Wide: 140}

// Classify maps a width to its viewport class
func (b Breakpoints) Classify(width int) ViewportClass {
	switch {
	case width >= b.Wide:
		return Wide
	case width >= b.Desktop:
		return Desktop
	case width >= b.Tablet:
		return Tablet
	default:
		return Mobile
	}
}

// PanelState is the overlay state of the two collapsible panels
type PanelState struct {
	SidebarOpen   bool          `json:"sidebar_open"`
	AssistantOpen bool          `json:"assistant_open"`
	ViewportClass ViewportClass `json:"viewport_class"`
}

// SidebarInline reports whether the sidebar is permanently visible at the
// current class
func (p PanelState) SidebarInline() bool {
	return p.ViewportClass >= Desktop
}

// AssistantInline reports whether the assistant panel is permanently
// visible at the current class
func (p PanelState) AssistantInline() bool {
	return p.ViewportClass >= Wide
}

// SidebarVisible reports whether the sidebar is shown, inline or as overlay
func (p PanelState) SidebarVisible() bool {
	return p.SidebarInline() || p.SidebarOpen
}

// AssistantVisible reports whether the assistant panel is shown
func (p PanelState) AssistantVisible() bool {
	return p.AssistantInline() || p.AssistantOpen
}

// PanelVisibilityController keeps the overlay flags consistent with the
// viewport class. An overlay flag is forced closed whenever its panel is
// rendered inline, so an overlay never coexists with the inline panel.
type PanelVisibilityController struct {
	mu    sync.Mutex
	state PanelState
}

// NewPanelVisibilityController starts with both overlays closed
func NewPanelVisibilityController(class ViewportClass) *PanelVisibilityController {
	return &PanelVisibilityController{state: PanelState{ViewportClass: class}}
}

// State returns the current panel state
func (p *PanelVisibilityController) State() PanelState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Resize consumes a viewport-class change event
func (p *PanelVisibilityController) Resize(class ViewportClass) PanelState {
	p.mu.Lock()
	defer p.mu.Unlock()

	if class != p.state.ViewportClass {
		LogDebug("Viewport class %s -> %s", p.state.ViewportClass, class)
	}
	p.state.ViewportClass = class
	p.reconcile()
	return p.state
}

// ToggleSidebar flips the sidebar overlay flag
func (p *PanelVisibilityController) ToggleSidebar() PanelState {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state.SidebarOpen = !p.state.SidebarOpen
	p.reconcile()
	return p.state
}

// ToggleAssistant flips the assistant overlay flag
func (p *PanelVisibilityController) ToggleAssistant() PanelState {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state.AssistantOpen = !p.state.AssistantOpen
	p.reconcile()
	return p.state
}

// CloseSidebar clears the sidebar overlay flag
func (p *PanelVisibilityController) CloseSidebar() PanelState {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state.SidebarOpen = false
	return p.state
}

// CloseAssistant clears the assistant overlay flag
func (p *PanelVisibilityController) CloseAssistant() PanelState {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state.AssistantOpen = false
	return p.state
}

func (p *PanelVisibilityController) reconcile() {
	if p.state.SidebarInline() {
		p.state.SidebarOpen = false
	}
	if p.state.AssistantInline() {
		p.state.AssistantOpen = false
	}
}
