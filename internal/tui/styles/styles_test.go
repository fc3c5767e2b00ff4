package styles

import (
	"testing"
)

func TestParseHex(t *testing.T) {
	t.Run("parses valid hex", func(t *testing.T) {
		c := ParseHex("#ff0000")
		r, g, b, _ := c.RGBA()
		if r>>8 != 0xff || g>>8 != 0x00 || b>>8 != 0x00 {
			t.Errorf("ParseHex(#ff0000) = (%d, %d, %d), want (255, 0, 0)", r>>8, g>>8, b>>8)
		}
	})

	t.Run("invalid hex yields black", func(t *testing.T) {
		c := ParseHex("not-a-color")
		r, g, b, _ := c.RGBA()
		if r != 0 || g != 0 || b != 0 {
			t.Errorf("ParseHex(invalid) = (%d, %d, %d), want black", r, g, b)
		}
	})
}

func TestValidHex(t *testing.T) {
	if !ValidHex("#61afef") {
		t.Error("ValidHex(#61afef) = false, want true")
	}
	if ValidHex("blue") {
		t.Error("ValidHex(blue) = true, want false")
	}
}

func TestManager(t *testing.T) {
	t.Run("built-in themes registered", func(t *testing.T) {
		m := NewManager()

		names := m.Names()
		want := []string{ThemeDark, ThemeLight, ThemeHighContrast}
		if len(names) != len(want) {
			t.Fatalf("Names() = %v, want %v", names, want)
		}
		for i, n := range want {
			if names[i] != n {
				t.Errorf("Names()[%d] = %q, want %q", i, names[i], n)
			}
		}
	})

	t.Run("defaults to dark", func(t *testing.T) {
		m := NewManager()
		if m.Current().Name != ThemeDark {
			t.Errorf("Current().Name = %q, want %q", m.Current().Name, ThemeDark)
		}
	})

	t.Run("switches theme", func(t *testing.T) {
		m := NewManager()

		if err := m.SetTheme(ThemeLight); err != nil {
			t.Fatalf("SetTheme() error = %v", err)
		}
		if m.Current().Name != ThemeLight {
			t.Errorf("Current().Name = %q, want %q", m.Current().Name, ThemeLight)
		}
	})

	t.Run("rejects unknown theme", func(t *testing.T) {
		m := NewManager()
		if err := m.SetTheme("sepia"); err == nil {
			t.Fatal("SetTheme(sepia) expected error, got nil")
		}
	})

	t.Run("custom theme replaces previous registration", func(t *testing.T) {
		m := NewManager()

		m.Register(NewCustomTheme("#ff0000", "#000000", "#ffffff", "#00ff00"))
		m.Register(NewCustomTheme("#0000ff", "#000000", "#ffffff", "#00ff00"))

		count := 0
		for _, n := range m.Names() {
			if n == ThemeCustom {
				count++
			}
		}
		if count != 1 {
			t.Errorf("custom theme registered %d times, want 1", count)
		}
	})
}

func TestCurrentThemeFallback(t *testing.T) {
	managerMu.Lock()
	saved := manager
	manager = nil
	managerMu.Unlock()
	defer func() {
		managerMu.Lock()
		manager = saved
		managerMu.Unlock()
	}()

	if th := CurrentTheme(); th == nil || th.Name != ThemeDark {
		t.Errorf("CurrentTheme() without manager = %+v, want default dark", th)
	}
}

func TestNewCustomTheme(t *testing.T) {
	t.Run("dark background yields dark theme", func(t *testing.T) {
		th := NewCustomTheme("#7aa2f7", "#101010", "#e0e0e0", "#bb9af7")
		if !th.IsDark {
			t.Error("IsDark = false for near-black background")
		}
	})

	t.Run("light background yields light theme", func(t *testing.T) {
		th := NewCustomTheme("#2e7de9", "#fafafa", "#202020", "#9854f1")
		if th.IsDark {
			t.Error("IsDark = true for near-white background")
		}
	})

	t.Run("derived colors differ from base", func(t *testing.T) {
		th := NewCustomTheme("#7aa2f7", "#101010", "#e0e0e0", "#bb9af7")
		if th.BgSubtle == th.BgBase {
			t.Error("BgSubtle not derived from BgBase")
		}
		if th.FgMuted == th.FgBase {
			t.Error("FgMuted not derived from FgBase")
		}
	})
}

func TestThemeStyles(t *testing.T) {
	th := NewDarkTheme()
	s := th.S()
	if s == nil {
		t.Fatal("S() returned nil")
	}
	// Styles are built once and reused.
	if th.S() != s {
		t.Error("S() rebuilt styles on second call")
	}
}

func TestApplyForegroundGrad(t *testing.T) {
	th := NewDarkTheme()

	out := ApplyForegroundGrad("gemsuite", th.Primary, th.Secondary)
	if out == "" {
		t.Fatal("gradient output is empty")
	}

	t.Run("preserves line count", func(t *testing.T) {
		in := "line one\nline two"
		out := ApplyForegroundGrad(in, th.Primary, th.Secondary)
		lines := 1
		for _, r := range out {
			if r == '\n' {
				lines++
			}
		}
		if lines != 2 {
			t.Errorf("gradient output has %d lines, want 2", lines)
		}
	})
}
