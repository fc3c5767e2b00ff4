package styles

import (
	"fmt"
	"sync"
)

// Manager tracks the registered themes and the one currently in effect.
type Manager struct {
	mu      sync.RWMutex
	themes  map[string]*Theme
	order   []string
	current *Theme
}

var (
	managerMu sync.RWMutex
	manager   *Manager
)

// NewManager creates a manager preloaded with the built-in themes and
// installs it as the process-wide manager used by CurrentTheme.
func NewManager() *Manager {
	m := &Manager{themes: make(map[string]*Theme)}
	m.Register(NewDarkTheme())
	m.Register(NewLightTheme())
	m.Register(NewHighContrastTheme())
	m.current = m.themes[ThemeDark]

	managerMu.Lock()
	manager = m
	managerMu.Unlock()

	return m
}

// Register adds a theme, replacing any existing theme with the same name.
func (m *Manager) Register(t *Theme) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.themes[t.Name]; !exists {
		m.order = append(m.order, t.Name)
	}
	m.themes[t.Name] = t
}

// SetTheme switches the current theme by name.
func (m *Manager) SetTheme(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.themes[name]
	if !ok {
		return fmt.Errorf("unknown theme %q", name)
	}
	m.current = t
	return nil
}

// Current returns the theme in effect.
func (m *Manager) Current() *Theme {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Names returns the registered theme names in registration order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...)
}

// CurrentTheme returns the active theme from the process-wide manager. Before
// NewManager runs it falls back to the default dark theme so views can always
// render.
func CurrentTheme() *Theme {
	managerMu.RLock()
	m := manager
	managerMu.RUnlock()

	if m == nil {
		return NewDarkTheme()
	}
	return m.Current()
}

// SetTheme switches the process-wide theme by name.
func SetTheme(name string) error {
	managerMu.RLock()
	m := manager
	managerMu.RUnlock()

	if m == nil {
		return fmt.Errorf("theme manager not initialized")
	}
	return m.SetTheme(name)
}
