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

import "gonum.org/v1/gonum/mat"

// Molar masses [grams per mole]
const (
	mwQuartz     = 60.08 // quartz SiO2
	mwAnorthite  = 278.2 // anorthite CaAl2Si2O8
	mwForsterite = 140.7 // forsterite Mg2SiO4
	mwAlbite     = 208.2 // albite NaAlSi3O8
	mwKFeldspar  = 278.3 // potassium feldspar KAlSi3O8
	mwHematite   = 159.7 // hematite Fe2O3
	mwCO2        = 44.0  // carbon dioxide
)

// Mineral phase names as they appear in PHREEQC thermodynamic
// databases.
const (
	Quartz     = "Quartz"
	Anorthite  = "Anorthite"
	Forsterite = "Forsterite"
	Albite     = "Albite"
	KFeldspar  = "K-feldspar"
	Hematite   = "Hematite"
	Calcite    = "Calcite"
	Dolomite   = "Dolomite"
	Gibbsite   = "Gibbsite"
)

// PhaseAmount is a mineral phase and its amount in the reacting
// assemblage.
type PhaseAmount struct {
	// Name is the phase name as it appears in the thermodynamic
	// database.
	Name string

	// Formula is the chemical formula of the phase.
	Formula string

	// Moles is the initial amount of the phase [mol].
	Moles float64
}

// normativeAllocation assigns each source oxide to the primary mineral
// phase that hosts it.
var normativeAllocation = []struct {
	oxide   string
	phase   string
	formula string
	mw      float64
}{
	{"SiO2", Quartz, "SiO2", mwQuartz},
	{"CaO", Anorthite, "CaAl2Si2O8", mwAnorthite},
	{"MgO", Forsterite, "Mg2SiO4", mwForsterite},
	{"Na2O", Albite, "NaAlSi3O8", mwAlbite},
	{"K2O", KFeldspar, "KAlSi3O8", mwKFeldspar},
	{"Fe2O3", Hematite, "Fe2O3", mwHematite},
}

// secondaryPhases may precipitate during the simulation but start with
// zero mass.
var secondaryPhases = []PhaseAmount{
	{Name: Calcite, Formula: "CaCO3"},
	{Name: Dolomite, Formula: "CaMg(CO3)2"},
	{Name: Gibbsite, Formula: "Al(OH)3"},
}

// NormativePhases translates the major element composition of sample
// into a normative mineral assemblage. Each source oxide is assigned
// to a single primary phase, assuming 1 kg of rock, and the secondary
// phases are appended with zero initial mass. Oxides the sample does
// not report take the default composition values.
func NormativePhases(sample *Sample) []PhaseAmount {
	x := mat.NewVecDense(len(normativeAllocation), nil)
	for i, a := range normativeAllocation {
		x.SetVec(i, sample.OxideOrDefault(a.oxide))
	}

	// alloc converts oxide weight percent to phase moles: for 1 kg of
	// rock, pct/100 * 1000 g / M = pct * 10 / M.
	alloc := mat.NewDense(len(normativeAllocation), len(normativeAllocation), nil)
	for i, a := range normativeAllocation {
		alloc.Set(i, i, 10/a.mw)
	}

	var m mat.VecDense
	m.MulVec(alloc, x)

	phases := make([]PhaseAmount, 0, len(normativeAllocation)+len(secondaryPhases))
	for i, a := range normativeAllocation {
		phases = append(phases, PhaseAmount{Name: a.phase, Formula: a.formula, Moles: m.AtVec(i)})
	}
	return append(phases, secondaryPhases...)
}
