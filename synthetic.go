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

import "gonum.org/v1/gonum/floats"

// Synthetic is a chemistry engine that generates idealized weathering
// trends scaled by the sample composition. It stands in for the
// external solver when one is not installed.
type Synthetic struct{}

// syntheticFinalPH is the pH the solution buffers to by the end of the
// reaction path.
const syntheticFinalPH = 8.0

// Release fractions of the maximum dissolved concentration for each
// cation, and absolute concentration and saturation index trends
// [mmol/L except saturation indices], over the canonical seven-step
// reaction path. Other step counts interpolate these curves over
// normalized reaction progress.
var (
	caFractions = []float64{0, 0.1, 0.25, 0.45, 0.7, 0.9, 1.0}
	mgFractions = []float64{0, 0.08, 0.2, 0.4, 0.65, 0.85, 1.0}
	naFractions = []float64{0, 0.15, 0.35, 0.55, 0.75, 0.9, 1.0}
	kFractions  = []float64{0, 0.1, 0.3, 0.5, 0.7, 0.85, 1.0}

	siCurve   = []float64{0.1, 0.3, 0.6, 1.0, 1.5, 2.1, 2.8}
	hco3Curve = []float64{0.05, 0.3, 0.8, 1.5, 2.5, 3.8, 5.2}
	co3Curve  = []float64{0, 0.01, 0.03, 0.08, 0.15, 0.25, 0.4}

	calciteSICurve  = []float64{-2.8, -2.1, -1.4, -0.7, 0, 0.6, 1.1}
	dolomiteSICurve = []float64{-3.5, -2.7, -1.9, -1.1, -0.3, 0.4, 1.0}
	gibbsiteSICurve = []float64{-1.5, -1.0, -0.5, 0, 0.4, 0.7, 1.0}
)

// Maximum cation release per weight percent of source oxide [mmol/L
// per percent].
const (
	caPerCaOPct  = 0.08
	mgPerMgOPct  = 0.06
	naPerNa2OPct = 0.05
	kPerK2OPct   = 0.03
)

// Name returns the name of this engine.
func (s *Synthetic) Name() string { return "synthetic" }

// Simulate generates synthetic weathering results for the sample:
// the solution pH ramps from the scenario's initial value to 8.0 while
// cation concentrations follow the canonical release curves scaled by
// the sample's oxide content. Concentrations are returned in mol/L and
// alkalinity in eq/L.
func (s *Synthetic) Simulate(scenario *Scenario, phases []PhaseAmount, sample *Sample) (*Frame, error) {
	if err := scenario.Check(); err != nil {
		return nil, err
	}
	if err := sample.Check(); err != nil {
		return nil, err
	}
	n := len(scenario.AcidSteps)
	f := NewFrame()

	pH := make([]float64, n)
	for i := range pH {
		if n == 1 {
			pH[i] = syntheticFinalPH
			continue
		}
		pH[i] = scenario.Solution.PH +
			(syntheticFinalPH-scenario.Solution.PH)*float64(i)/float64(n-1)
	}
	f.SetColumn(PH, pH)

	ca := sampleCurve(caFractions, n)
	floats.Scale(sample.OxideOrDefault("CaO")*caPerCaOPct/1000, ca)
	f.SetColumn(Ca, ca)

	mg := sampleCurve(mgFractions, n)
	floats.Scale(sample.OxideOrDefault("MgO")*mgPerMgOPct/1000, mg)
	f.SetColumn(Mg, mg)

	na := sampleCurve(naFractions, n)
	floats.Scale(sample.OxideOrDefault("Na2O")*naPerNa2OPct/1000, na)
	f.SetColumn(Na, na)

	k := sampleCurve(kFractions, n)
	floats.Scale(sample.OxideOrDefault("K2O")*kPerK2OPct/1000, k)
	f.SetColumn(K, k)

	si := sampleCurve(siCurve, n)
	floats.Scale(1./1000, si)
	f.SetColumn(SiO2, si)

	hco3 := sampleCurve(hco3Curve, n)
	co3 := sampleCurve(co3Curve, n)
	alk := make([]float64, n)
	for i := range alk {
		alk[i] = (hco3[i] + 2*co3[i]) / 1000
	}
	floats.Scale(1./1000, hco3)
	floats.Scale(1./1000, co3)
	f.SetColumn(HCO3, hco3)
	f.SetColumn(CO3, co3)

	f.SetColumn(SICalcite, sampleCurve(calciteSICurve, n))
	f.SetColumn(SIDolomite, sampleCurve(dolomiteSICurve, n))
	f.SetColumn(SIGibbsite, sampleCurve(gibbsiteSICurve, n))

	f.SetColumn(Alkalinity, alk)
	return f, nil
}

// sampleCurve interpolates the canonical curve at n evenly spaced
// points over its full range. When n equals the curve length the
// original values are returned unchanged.
func sampleCurve(curve []float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = curve[len(curve)-1]
		return out
	}
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1) * float64(len(curve)-1)
		j := int(t)
		if j >= len(curve)-1 {
			out[i] = curve[len(curve)-1]
			continue
		}
		out[i] = curve[j] + (t-float64(j))*(curve[j+1]-curve[j])
	}
	return out
}
