package render

import (
	"image/color"
	"math"
	"testing"
)

func TestColorMapper_Bounds(t *testing.T) {
	cm, err := NewColorMapper(GrayscaleTheme, 0, 10)
	if err != nil {
		t.Fatalf("Failed to create mapper: %v", err)
	}

	low := cm.Color(-5)
	if low != cm.Color(0) {
		t.Error("Below-range value should clamp to the minimum color")
	}
	high := cm.Color(100)
	if high != cm.Color(10) {
		t.Error("Above-range value should clamp to the maximum color")
	}

	lr, _, _, _ := low.RGBA()
	hr, _, _, _ := high.RGBA()
	if lr >= hr {
		t.Error("Grayscale gradient should brighten with the value")
	}
}

func TestColorMapper_NaN(t *testing.T) {
	cm, err := NewColorMapper(ThermalTheme, 0, 10)
	if err != nil {
		t.Fatalf("Failed to create mapper: %v", err)
	}
	if cm.Color(math.NaN()) != color.Color(invalidColor) {
		t.Error("NaN should map to the invalid-bin color")
	}
}

func TestColorMapper_InvalidConfig(t *testing.T) {
	if _, err := NewColorMapper("sepia", 0, 10); err == nil {
		t.Error("Expected error for unknown theme")
	}
	if _, err := NewColorMapper(ClassicTheme, 10, 10); err == nil {
		t.Error("Expected error for empty bounds")
	}
}

func TestHSV_RGB_Grayscale(t *testing.T) {
	c := HSV{H: 0, S: 0, V: 0.5}.RGB()
	r, g, b, _ := c.RGBA()
	if r != g || g != b {
		t.Errorf("Zero saturation should be gray, got %v", c)
	}
}
