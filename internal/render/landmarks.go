package render

import (
	"fmt"
	"sort"
	"strings"
)

// Classic regions of the Mandelbrot set.
var (
	// WholeSet frames the entire Mandelbrot set.
	WholeSet = Region{MinRe: -2.25, MaxRe: 1.25, MinIm: -1.3125, MaxIm: 1.3125}

	// SeahorseValley has dense filaments and repeating "seahorse" curls.
	SeahorseValley = Region{MinRe: -0.8, MaxRe: -0.7, MinIm: 0.05, MaxIm: 0.15}

	// ElephantValley has a large bulb with trunk-like tendrils.
	ElephantValley = Region{MinRe: -1.85, MaxRe: -1.75, MinIm: -0.10, MaxIm: -0.02}

	// SpiralMinibrot is a small copy of the set with tight spiral arms.
	SpiralMinibrot = Region{MinRe: -0.7435, MaxRe: -0.7420, MinIm: 0.1310, MaxIm: 0.1325}

	// TripleSpiral has a threefold symmetric spiral.
	TripleSpiral = Region{MinRe: -0.7480, MaxRe: -0.7450, MinIm: 0.0950, MaxIm: 0.0980}

	// ValleyOfTheDragon has deep, highly detailed spiral filaments.
	ValleyOfTheDragon = Region{MinRe: -0.7400, MaxRe: -0.7350, MinIm: 0.1800, MaxIm: 0.1850}

	// MinibrotInMiniSpiral is a self-similar copy inside a spiral arm.
	MinibrotInMiniSpiral = Region{MinRe: -1.7390, MaxRe: -1.7375, MinIm: -0.0235, MaxIm: -0.0220}
)

var landmarks = map[string]Region{
	"whole-set":               WholeSet,
	"seahorse-valley":         SeahorseValley,
	"elephant-valley":         ElephantValley,
	"spiral-minibrot":         SpiralMinibrot,
	"triple-spiral":           TripleSpiral,
	"valley-of-the-dragon":    ValleyOfTheDragon,
	"minibrot-in-mini-spiral": MinibrotInMiniSpiral,
}

// Landmark looks up a named region such as "seahorse-valley". Names are
// case-insensitive.
func Landmark(name string) (Region, error) {
	r, ok := landmarks[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Region{}, fmt.Errorf("unknown landmark: %s", name)
	}
	return r, nil
}

// LandmarkNames returns the names Landmark accepts, sorted.
func LandmarkNames() []string {
	names := make([]string, 0, len(landmarks))
	for name := range landmarks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
