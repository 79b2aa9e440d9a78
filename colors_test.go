package vtcore

import "testing"

func TestResolveRGBPassesThrough(t *testing.T) {
	c := RGBColor(10, 20, 30)
	if got := c.Resolve(true); got != c {
		t.Errorf("Resolve(true) = %+v, want unchanged %+v", got, c)
	}
}

func TestResolvePaletteLooksUpDefaultPalette(t *testing.T) {
	c := PaletteColor(1)
	got := c.Resolve(true)
	want := DefaultPalette[1]
	if got != want {
		t.Errorf("Resolve palette[1] = %+v, want %+v", got, want)
	}
}

func TestResolveDefaultPicksForegroundOrBackground(t *testing.T) {
	if got := DefaultColor.Resolve(true); got != DefaultForeground {
		t.Errorf("Resolve(true) on default = %+v, want DefaultForeground", got)
	}
	if got := DefaultColor.Resolve(false); got != DefaultBackground {
		t.Errorf("Resolve(false) on default = %+v, want DefaultBackground", got)
	}
}

func TestDefaultPaletteGrayscaleRamp(t *testing.T) {
	// Slots 232-255 are a 24-step grayscale ramp with equal R, G, B.
	c := DefaultPalette[232]
	if c.R != c.G || c.G != c.B {
		t.Errorf("grayscale slot 232 should have equal channels, got %+v", c)
	}
	if c.R != 8 {
		t.Errorf("grayscale slot 232 = %d, want 8", c.R)
	}
}

func TestDefaultPaletteColorCubeFirstStep(t *testing.T) {
	// Slot 16 is the color cube's (0,0,0) corner: pure black.
	c := DefaultPalette[16]
	if c.R != 0 || c.G != 0 || c.B != 0 {
		t.Errorf("color cube origin = %+v, want (0,0,0)", c)
	}
	// Slot 17 steps the blue channel once: r=0,g=0,b=1 -> 95.
	c = DefaultPalette[17]
	if c.B != 95 {
		t.Errorf("color cube (0,0,1).B = %d, want 95", c.B)
	}
}
