/*
 * plot.go, part of gothermo.
 *
 *
 * Copyright 2024 Raul Mera <rauldotmeraatusachdotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

//Package thermoplot draws binary phase diagrams computed by the equil package
//as PNG images.
package thermoplot

import (
	"fmt"
	"image/color"
	"math"

	"github.com/rmera/gothermo/equil"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

//Size of the images, in inches.
var Size = 5.0

func basicPlot(title, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "x1, y1"
	p.Y.Label.Text = ylabel
	p.X.Min = 0
	p.X.Max = 1
	p.Add(plotter.NewGrid())
	return p
}

//hsv2rgb takes hue (0-360), saturation and value (0-1), returns r,g,b (0-255)
func hsv2rgb(h, s, v float64) color.RGBA {
	c := v * s
	hp := math.Mod(h, 360) / 60
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))
	var r, g, b float64
	switch int(hp) {
	case 0:
		r, g = c, x
	case 1:
		r, g = x, c
	case 2:
		g, b = c, x
	case 3:
		g, b = x, c
	case 4:
		r, b = x, c
	default:
		r, b = c, x
	}
	m := v - c
	return color.RGBA{R: uint8(255 * (r + m)), G: uint8(255 * (g + m)), B: uint8(255 * (b + m)), A: 255}
}

//curveColor spreads steps colors over the hue circle, skipping the yellows,
//which are hard to see on white.
func curveColor(key, steps int) color.RGBA {
	h := 260.0*float64(key)/float64(steps) + 20
	if h < 55 {
		h -= 20
	} else {
		h += 20
	}
	return hsv2rgb(h, 1, 0.9)
}

func xys(x, v []float64) plotter.XYs {
	ret := make(plotter.XYs, len(x))
	for i := range x {
		ret[i].X = x[i]
		ret[i].Y = v[i]
	}
	return ret
}

//addDiagram adds the bubble (solid) and dew (dashed) curves of d to p.
func addDiagram(p *plot.Plot, d *equil.Diagram, col color.RGBA, label string) error {
	bubble, points, err := plotter.NewLinePoints(xys(d.X, d.Values))
	if err != nil {
		return err
	}
	bubble.Color = col
	points.Color = col
	points.Shape = draw.CircleGlyph{}
	dew, err := plotter.NewLine(xys(d.Y, d.Values))
	if err != nil {
		return err
	}
	dew.Color = col
	dew.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(bubble, points, dew)
	if label != "" {
		p.Legend.Add(label+" bubble", bubble, points)
		p.Legend.Add(label+" dew", dew)
	}
	return nil
}

//DiagramsPlot draws several diagrams, all Txy or all Pxy, in one image, plotname.png.
//labels can be nil. Otherwise, it needs one element per diagram.
func DiagramsPlot(ds []*equil.Diagram, labels []string, title, plotname string) error {
	if len(ds) == 0 {
		return fmt.Errorf("DiagramsPlot: no diagrams given")
	}
	if labels != nil && len(labels) != len(ds) {
		return fmt.Errorf("DiagramsPlot: %d labels for %d diagrams", len(labels), len(ds))
	}
	ylabel := "P (Pa)"
	if ds[0].Isobaric {
		ylabel = "T (K)"
	}
	p := basicPlot(title, ylabel)
	for i, d := range ds {
		if d.Isobaric != ds[0].Isobaric {
			return fmt.Errorf("DiagramsPlot: Txy and Pxy diagrams can't be mixed")
		}
		if d.Len() < 2 {
			return fmt.Errorf("DiagramsPlot: diagram %d has %d points", i, d.Len())
		}
		label := ""
		if labels != nil {
			label = labels[i]
		}
		if err := addDiagram(p, d, curveColor(i, len(ds)), label); err != nil {
			return fmt.Errorf("DiagramsPlot: %w", err)
		}
	}
	filename := fmt.Sprintf("%s.png", plotname)
	return p.Save(vg.Length(Size)*vg.Inch, vg.Length(Size)*vg.Inch, filename)
}

//TxyPlot draws the Txy diagram d, with title, in the file plotname.png.
func TxyPlot(d *equil.Diagram, title, plotname string) error {
	if !d.Isobaric {
		return fmt.Errorf("TxyPlot: %s is a Pxy diagram", title)
	}
	return DiagramsPlot([]*equil.Diagram{d}, nil, title, plotname)
}

//PxyPlot draws the Pxy diagram d in the file plotname.png.
func PxyPlot(d *equil.Diagram, title, plotname string) error {
	if d.Isobaric {
		return fmt.Errorf("PxyPlot: %s is a Txy diagram", title)
	}
	return DiagramsPlot([]*equil.Diagram{d}, nil, title, plotname)
}
