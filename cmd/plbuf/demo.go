package main

import (
	"math"

	"github.com/gogpu/plot"
)

// Demo plot layout in device coordinates.
const (
	boxMin = 4000
	boxMax = 28000
)

// recordDemo records a page of a small sample plot: a framed sine curve
// shifted by phase radians, a filled band, an image strip and a title.
func recordDemo(s *plot.Stream, phase float64) error {
	steps := []func() error{
		s.BeginPage,
		func() error {
			return s.SetWindow(plot.Window{
				DXMin: 0.12, DXMax: 0.85, DYMin: 0.12, DYMax: 0.85,
				WXMin: 0, WXMax: 2 * math.Pi, WYMin: -1, WYMax: 1,
			})
		},
		func() error { return s.SetColor0(1) },
		func() error { return s.SetWidth(2) },
		func() error {
			x := []int16{boxMin, boxMax, boxMax, boxMin, boxMin}
			y := []int16{boxMin, boxMin, boxMax, boxMax, boxMin}
			return s.Polyline(x, y)
		},
		func() error { return s.SetColor0(3) },
		func() error { return s.Fill(band(phase)) },
		func() error { return s.SetColor0(2) },
		func() error { return s.SetWidth(3) },
		func() error { return s.Polyline(curve(phase, 0)) },
		func() error { return s.Image(strip()) },
		func() error { return s.SetColor0(15) },
		func() error { return s.SetCharSize(5, 6) },
		func() error {
			return s.Text(&plot.Text{
				Height: 6, Just: 0.5,
				X: (boxMin + boxMax) / 2, Y: boxMax + 1500,
				Unicode: codePoints("sin(x)"),
			})
		},
		s.EndPage,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

const curvePoints = 200

// curve samples a sine over the box, shifted vertically by offset device
// units.
func curve(phase float64, offset int) (x, y []int16) {
	x = make([]int16, curvePoints)
	y = make([]int16, curvePoints)
	mid := float64(boxMin+boxMax) / 2
	amp := float64(boxMax-boxMin) / 2 * 0.8
	for i := range curvePoints {
		t := float64(i) / (curvePoints - 1)
		x[i] = int16(boxMin + t*(boxMax-boxMin))
		y[i] = int16(mid + amp*math.Sin(2*math.Pi*t+phase) + float64(offset))
	}
	return x, y
}

// band is the polygon between the curve and a copy shifted down.
func band(phase float64) (x, y []int16) {
	ux, uy := curve(phase, 600)
	lx, ly := curve(phase, -600)
	for i := len(lx) - 1; i >= 0; i-- {
		ux = append(ux, lx[i])
		uy = append(uy, ly[i])
	}
	return ux, uy
}

// strip is a one row image under the box with z rising left to right.
func strip() *plot.Image {
	const cells = 16
	im := &plot.Image{
		NX: cells + 1, NY: 2,
		XMin: 0, YMin: 0, DX: 1, DY: 1,
		ZMin: 0, ZMax: cells - 1,
	}
	for i := range cells + 1 {
		x := int16(boxMin + i*(boxMax-boxMin)/cells)
		im.X = append(im.X, x, x)
		im.Y = append(im.Y, 1000, 3000)
	}
	for i := range cells {
		im.Z = append(im.Z, uint16(i))
	}
	return im
}

func codePoints(s string) []uint32 {
	var cps []uint32
	for _, r := range s {
		cps = append(cps, uint32(r))
	}
	return cps
}
