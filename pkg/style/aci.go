package style

import "math"

// aciPalette is the fixed 256-color CAD palette. Index 0 (ByBlock) is not a
// matchable color; indices 1..255 are. Entries 1..9 are the classic primary
// colors, 10..249 are generated hue/shade ramps (24 hues, 5 values, full
// and muted saturation), 250..255 are the grayscale tail.
var aciPalette [256][3]float64

func init() {
	set := func(i int, r, g, b uint8) {
		aciPalette[i] = [3]float64{float64(r) / 255, float64(g) / 255, float64(b) / 255}
	}

	set(1, 255, 0, 0)     // red
	set(2, 255, 255, 0)   // yellow
	set(3, 0, 255, 0)     // green
	set(4, 0, 255, 255)   // cyan
	set(5, 0, 0, 255)     // blue
	set(6, 255, 0, 255)   // magenta
	set(7, 255, 255, 255) // white/black, adapts to background
	set(8, 128, 128, 128) // dark gray
	set(9, 192, 192, 192) // light gray

	values := [5]float64{1.0, 0.8, 0.6, 0.45, 0.3}
	for i := 10; i <= 249; i++ {
		hue := float64((i-10)/10) * 15
		row := (i - 10) % 10
		v := values[row/2]
		s := 1.0
		if row%2 == 1 {
			s = 0.35
		}
		r, g, b := hsvToRGB(hue, s, v)
		aciPalette[i] = [3]float64{r, g, b}
	}

	grays := [6]uint8{0x33, 0x50, 0x69, 0x82, 0xbe, 0xff}
	for k, g := range grays {
		set(250+k, g, g, g)
	}
}

func hsvToRGB(h, s, v float64) (float64, float64, float64) {
	h = math.Mod(h, 360)
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return r + m, g + m, b + m
}

// PaletteColor returns the RGB components (0..1) of a palette entry.
func PaletteColor(index int) (float64, float64, float64) {
	if index < 1 || index > 255 {
		return 0, 0, 0
	}
	c := aciPalette[index]
	return c[0], c[1], c[2]
}

// NearestACI returns the palette index (1..255) nearest to the device color
// by Euclidean distance in RGB space. Ties resolve to the lowest index.
func NearestACI(r, g, b float64) int {
	best := 1
	bestDist := math.Inf(1)
	for i := 1; i <= 255; i++ {
		c := aciPalette[i]
		dr := c[0] - r
		dg := c[1] - g
		db := c[2] - b
		d := dr*dr + dg*dg + db*db
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}
