/*
Copyright © 2025 the ERW authors.
This file is part of ERW.

ERW is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ERW is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ERW.  If not, see <http://www.gnu.org/licenses/>.
*/

package erw

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// chartDPI is the raster resolution of the output figure.
const chartDPI = 300

// Default figure size.
const (
	DefaultChartWidth  = 12 * vg.Inch
	DefaultChartHeight = 9 * vg.Inch
)

// Chart series colors.
var (
	colorBlue   = color.NRGBA{R: 31, G: 119, B: 180, A: 255}
	colorOrange = color.NRGBA{R: 255, G: 127, B: 14, A: 255}
	colorGreen  = color.NRGBA{R: 44, G: 160, B: 44, A: 255}
	colorRed    = color.NRGBA{R: 214, G: 39, B: 40, A: 255}
	colorPurple = color.NRGBA{R: 148, G: 103, B: 189, A: 255}
	colorBrown  = color.NRGBA{R: 140, G: 86, B: 75, A: 255}
)

// WriteChart returns a function that renders the nine-panel weathering
// summary figure to fileName as a PNG image. Zero width or height
// values use the default figure size.
func WriteChart(fileName string, width, height vg.Length) AnalysisManipulator {
	return func(e *ERW) error {
		if e.Sample == nil {
			return fmt.Errorf("erw: no sample to chart")
		}
		if e.Frame == nil {
			return fmt.Errorf("erw: no simulation results to chart")
		}
		if e.Indicators == nil {
			return fmt.Errorf("erw: no indicators to chart; ExtractIndicators must run first")
		}
		if width <= 0 {
			width = DefaultChartWidth
		}
		if height <= 0 {
			height = DefaultChartHeight
		}
		img := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(chartDPI))
		if err := drawChart(draw.New(img), e); err != nil {
			return err
		}
		f, err := os.Create(fileName)
		if err != nil {
			return fmt.Errorf("erw: problem creating chart file: %v", err)
		}
		png := vgimg.PngCanvas{Canvas: img}
		if _, err := png.WriteTo(f); err != nil {
			f.Close()
			return fmt.Errorf("erw: problem writing chart: %v", err)
		}
		return f.Close()
	}
}

// drawChart renders the panel grid and figure title onto dc.
func drawChart(dc draw.Canvas, e *ERW) error {
	plot.DefaultFont = "Helvetica"

	panels := []func(*ERW, *plot.Plot) error{
		phPanel, cationPanel, alkaliPanel,
		siliconPanel, carbonatePanel, saturationPanel,
		cumulativePanel, efficiencyPanel, compositionPanel,
	}

	tiles := draw.Tiles{
		Rows: 3, Cols: 3,
		PadX: vg.Millimeter * 5, PadY: vg.Millimeter * 5,
		PadTop: vg.Points(42), PadBottom: vg.Millimeter * 2,
		PadLeft: vg.Millimeter * 2, PadRight: vg.Millimeter * 2,
	}

	for i, panel := range panels {
		p, err := plot.New()
		if err != nil {
			return err
		}
		if err := panel(e, p); err != nil {
			return err
		}
		p.Draw(tiles.At(dc, i%3, i/3))
	}

	titleFont, err := vg.MakeFont(plot.DefaultFont, vg.Points(14))
	if err != nil {
		return err
	}
	subtitleFont, err := vg.MakeFont(plot.DefaultFont, vg.Points(9))
	if err != nil {
		return err
	}
	title := fmt.Sprintf("Enhanced Rock Weathering Analysis - Sample %s", e.Sample.ID)
	subtitle := fmt.Sprintf("%s | %s", dataSourceName, time.Now().Format("2006-01-02"))
	dc.FillText(draw.TextStyle{Color: color.Black, Font: titleFont},
		vg.Point{X: dc.X(0.5) - titleFont.Width(title)/2, Y: dc.Max.Y - vg.Points(15)}, title)
	dc.FillText(draw.TextStyle{Color: color.Black, Font: subtitleFont},
		vg.Point{X: dc.X(0.5) - subtitleFont.Width(subtitle)/2, Y: dc.Max.Y - vg.Points(28)}, subtitle)
	return nil
}

// stepXYs pairs reaction step numbers with the given values.
func stepXYs(vals []float64) plotter.XYs {
	xys := make(plotter.XYs, len(vals))
	for i, v := range vals {
		xys[i].X = float64(i + 1)
		xys[i].Y = v
	}
	return xys
}

// toMmol converts a concentration series from mol/L to mmol/L.
func toMmol(vals []float64) []float64 {
	out := make([]float64, len(vals))
	copy(out, vals)
	floats.Scale(1000, out)
	return out
}

// stepLabels numbers the reaction steps for nominal axes.
func stepLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = strconv.Itoa(i + 1)
	}
	return labels
}

// addSeries adds a line-and-marker series to p.
func addSeries(p *plot.Plot, label string, vals []float64, c color.Color) error {
	l, err := plotter.NewLine(stepXYs(vals))
	if err != nil {
		return err
	}
	l.Color = c
	s, err := plotter.NewScatter(stepXYs(vals))
	if err != nil {
		return err
	}
	s.Color = c
	s.Radius = vg.Points(1.5)
	s.Shape = draw.CircleGlyph{}
	p.Add(l, s)
	p.Legend.Add(label, l)
	return nil
}

// addHLine adds a dashed horizontal reference line at y spanning the
// reaction steps.
func addHLine(p *plot.Plot, label string, y float64, steps int) error {
	l, err := plotter.NewLine(plotter.XYs{{1, y}, {float64(steps), y}})
	if err != nil {
		return err
	}
	l.Color = color.Gray{Y: 110}
	l.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(l)
	if label != "" {
		p.Legend.Add(label, l)
	}
	return nil
}

func legendTopLeft(p *plot.Plot) {
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.ThumbnailWidth = 0.15 * vg.Inch
}

func phPanel(e *ERW, p *plot.Plot) error {
	pH, err := e.Frame.Column(PH)
	if err != nil {
		return err
	}
	p.Title.Text = "pH Evolution (Acid Neutralization)"
	p.Y.Label.Text = "pH"
	if err := addSeries(p, "pH", pH, colorBlue); err != nil {
		return err
	}
	if err := addHLine(p, "Neutral pH", 7.0, len(pH)); err != nil {
		return err
	}
	legendTopLeft(p)
	return nil
}

func cationPanel(e *ERW, p *plot.Plot) error {
	ca, err := e.Frame.Column(Ca)
	if err != nil {
		return err
	}
	mg, err := e.Frame.Column(Mg)
	if err != nil {
		return err
	}
	p.Title.Text = "Cation Release (Ca + Mg)"
	p.Y.Label.Text = "Concentration (mmol/L)"
	if err := addSeries(p, "Ca", toMmol(ca), colorBlue); err != nil {
		return err
	}
	if err := addSeries(p, "Mg", toMmol(mg), colorOrange); err != nil {
		return err
	}
	legendTopLeft(p)
	return nil
}

func alkaliPanel(e *ERW, p *plot.Plot) error {
	na, err := e.Frame.Column(Na)
	if err != nil {
		return err
	}
	k, err := e.Frame.Column(K)
	if err != nil {
		return err
	}
	p.Title.Text = "Alkali Release (Na + K)"
	p.Y.Label.Text = "Concentration (mmol/L)"
	if err := addSeries(p, "Na", toMmol(na), colorGreen); err != nil {
		return err
	}
	if err := addSeries(p, "K", toMmol(k), colorRed); err != nil {
		return err
	}
	legendTopLeft(p)
	return nil
}

func siliconPanel(e *ERW, p *plot.Plot) error {
	si, err := e.Frame.Column(SiO2)
	if err != nil {
		return err
	}
	p.Title.Text = "Silicon Mobilization (Weathering Indicator)"
	p.Y.Label.Text = "SiO2 (mmol/L)"
	return addSeries(p, "SiO2", toMmol(si), colorBrown)
}

func carbonatePanel(e *ERW, p *plot.Plot) error {
	hco3, err := e.Frame.Column(HCO3)
	if err != nil {
		return err
	}
	co3, err := e.Frame.Column(CO3)
	if err != nil {
		return err
	}
	p.Title.Text = "Carbonate System (CO2 Sequestration)"
	p.Y.Label.Text = "Concentration (mmol/L)"
	if err := addSeries(p, "HCO3", toMmol(hco3), colorBlue); err != nil {
		return err
	}
	if err := addSeries(p, "CO3", toMmol(co3), colorPurple); err != nil {
		return err
	}
	legendTopLeft(p)
	return nil
}

func saturationPanel(e *ERW, p *plot.Plot) error {
	calcite, err := e.Frame.Column(SICalcite)
	if err != nil {
		return err
	}
	dolomite, err := e.Frame.Column(SIDolomite)
	if err != nil {
		return err
	}
	p.Title.Text = "Mineral Saturation (Precipitation Potential)"
	p.Y.Label.Text = "Saturation Index"
	if err := addSeries(p, "Calcite", calcite, colorBlue); err != nil {
		return err
	}
	if err := addSeries(p, "Dolomite", dolomite, colorOrange); err != nil {
		return err
	}
	if err := addHLine(p, "Equilibrium", 0, len(calcite)); err != nil {
		return err
	}
	legendTopLeft(p)
	return nil
}

func cumulativePanel(e *ERW, p *plot.Plot) error {
	ca, err := e.Frame.Column(Ca)
	if err != nil {
		return err
	}
	mg, err := e.Frame.Column(Mg)
	if err != nil {
		return err
	}
	cumCa := make([]float64, len(ca))
	floats.CumSum(cumCa, toMmol(ca))
	cumMg := make([]float64, len(mg))
	floats.CumSum(cumMg, toMmol(mg))

	caBars, err := plotter.NewBarChart(plotter.Values(cumCa), vg.Points(9))
	if err != nil {
		return err
	}
	caBars.Color = colorBlue
	mgBars, err := plotter.NewBarChart(plotter.Values(cumMg), vg.Points(9))
	if err != nil {
		return err
	}
	mgBars.Color = colorOrange
	mgBars.StackOn(caBars)

	p.Title.Text = "Cumulative Cation Release"
	p.X.Label.Text = "Reaction Step"
	p.Y.Label.Text = "Cumulative (mmol/L)"
	p.Add(caBars, mgBars)
	p.Legend.Add("Ca", caBars)
	p.Legend.Add("Mg", mgBars)
	legendTopLeft(p)
	p.NominalX(stepLabels(len(ca))...)
	return nil
}

func efficiencyPanel(e *ERW, p *plot.Plot) error {
	p.Title.Text = "Weathering Efficiency"
	p.X.Label.Text = "Reaction Step"
	p.Y.Label.Text = "Efficiency (%)"
	return addSeries(p, "Efficiency", e.Indicators.Efficiency, colorGreen)
}

func compositionPanel(e *ERW, p *plot.Plot) error {
	var names []string
	var vals plotter.Values
	for _, oxide := range ReportOxides {
		if v, ok := e.Sample.Oxide(oxide); ok && v > 0 {
			names = append(names, oxide)
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		for _, oxide := range ReportOxides {
			names = append(names, oxide)
			vals = append(vals, defaultOxides[oxide])
		}
	}
	bars, err := plotter.NewBarChart(vals, vg.Points(8))
	if err != nil {
		return err
	}
	bars.Color = colorPurple
	p.Title.Text = "Major Oxide Composition"
	p.Y.Label.Text = "Weight percent"
	p.Add(bars)
	p.NominalX(names...)
	return nil
}
