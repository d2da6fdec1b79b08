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
	"math"

	"github.com/ctessum/unit"
)

// molDim is the amount-of-substance dimension used for dissolved
// species bookkeeping.
var molDim = unit.NewDimension("mole")

// Indicators summarizes the weathering performance of a sample over a
// completed simulation.
type Indicators struct {
	// InitialPH and FinalPH are the solution pH at the first and last
	// reaction steps; DeltaPH is their difference.
	InitialPH, FinalPH, DeltaPH float64

	// CaRelease and MgRelease are the final dissolved concentrations
	// [mmol/L], and TotalCationRelease is their sum.
	CaRelease, MgRelease, TotalCationRelease float64

	// CO2Sequestration is the mass of CO2 captured as dissolved
	// bicarbonate [mg CO2 per liter].
	CO2Sequestration float64

	// AlkalinityGenerated is the final solution alkalinity [meq/L].
	AlkalinityGenerated float64

	// Efficiency is the weathering efficiency at each reaction step
	// [percent]: dissolved Ca+Mg relative to the sample's CaO+MgO
	// content.
	Efficiency []float64

	// CalciteSI and DolomiteSI are the final saturation indices of
	// the carbonate phases.
	CalciteSI, DolomiteSI float64

	// PHBuffering, CationSupply, and CO2Potential rate the sample's
	// acid neutralization capacity, cation supply, and CO2
	// sequestration potential.
	PHBuffering, CationSupply, CO2Potential string
}

// ComputeIndicators summarizes the simulation results in frame into
// the weathering performance indicators for sample.
func ComputeIndicators(frame *Frame, sample *Sample) (*Indicators, error) {
	if frame == nil || frame.Steps() == 0 {
		return nil, fmt.Errorf("erw: no simulation results to summarize")
	}
	if err := sample.Check(); err != nil {
		return nil, err
	}

	ind := new(Indicators)
	var err error
	if ind.InitialPH, err = frame.Initial(PH); err != nil {
		return nil, err
	}
	if ind.FinalPH, err = frame.Final(PH); err != nil {
		return nil, err
	}
	ind.DeltaPH = ind.FinalPH - ind.InitialPH

	caFinal, err := frame.Final(Ca)
	if err != nil {
		return nil, err
	}
	mgFinal, err := frame.Final(Mg)
	if err != nil {
		return nil, err
	}
	ind.CaRelease = caFinal * 1000
	ind.MgRelease = mgFinal * 1000
	ind.TotalCationRelease = ind.CaRelease + ind.MgRelease

	hco3Final, err := frame.Final(HCO3)
	if err != nil {
		return nil, err
	}
	if ind.CO2Sequestration, err = co2Sequestered(hco3Final); err != nil {
		return nil, err
	}

	alkFinal, err := frame.Final(Alkalinity)
	if err != nil {
		return nil, err
	}
	ind.AlkalinityGenerated = alkFinal * 1000

	caCol, err := frame.Column(Ca)
	if err != nil {
		return nil, err
	}
	mgCol, err := frame.Column(Mg)
	if err != nil {
		return nil, err
	}
	sourceOxides := sample.OxideOrDefault("CaO") + sample.OxideOrDefault("MgO")
	ind.Efficiency = make([]float64, frame.Steps())
	if sourceOxides > 0 {
		for i := range ind.Efficiency {
			ind.Efficiency[i] = (caCol[i] + mgCol[i]) * 1000 / sourceOxides * 100
		}
	}

	if ind.CalciteSI, err = frame.Final(SICalcite); err != nil {
		return nil, err
	}
	if ind.DolomiteSI, err = frame.Final(SIDolomite); err != nil {
		return nil, err
	}

	ind.PHBuffering = ratePHBuffering(ind.DeltaPH)
	ind.CationSupply = rateCationSupply(ind.TotalCationRelease)
	ind.CO2Potential = rateCO2Potential(ind.CO2Sequestration)
	return ind, nil
}

// co2Sequestered converts a bicarbonate concentration [mol/L] to the
// equivalent mass of captured CO2 [mg/L], checking the unit dimensions
// of the conversion.
func co2Sequestered(hco3 float64) (float64, error) {
	conc := unit.New(hco3*1000, unit.Dimensions{molDim: 1, unit.LengthDim: -3}) // mol/L to mol/m3
	mw := unit.New(mwCO2*1.0e-3, unit.Dimensions{unit.MassDim: 1, molDim: -1})  // g/mol to kg/mol
	mass := unit.Mul(conc, mw)
	if err := mass.Check(unit.KilogramPerMeter3); err != nil {
		return 0, fmt.Errorf("erw: CO2 sequestration conversion: %v", err)
	}
	return mass.Value() * 1000, nil // kg/m3 = g/L = 1000 mg/L
}

// ratePHBuffering classifies acid neutralization capacity by the pH
// change over the reaction path.
func ratePHBuffering(deltaPH float64) string {
	switch {
	case math.Abs(deltaPH) > 1.5:
		return "Excellent"
	case math.Abs(deltaPH) > 1.0:
		return "Good"
	default:
		return "Moderate"
	}
}

// rateCationSupply classifies the total Ca+Mg release [mmol/L].
func rateCationSupply(totalRelease float64) string {
	switch {
	case totalRelease > 2.0:
		return "High"
	case totalRelease > 1.0:
		return "Medium"
	default:
		return "Low"
	}
}

// rateCO2Potential classifies the CO2 sequestration potential
// [mg CO2/L].
func rateCO2Potential(co2 float64) string {
	switch {
	case co2 > 100:
		return "High"
	case co2 > 50:
		return "Medium"
	default:
		return "Low"
	}
}

// saturationState describes whether a saturation index indicates
// supersaturation.
func saturationState(si float64) string {
	if si > 0 {
		return "Supersaturated"
	}
	return "Undersaturated"
}
