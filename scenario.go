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
	"os"

	"github.com/BurntSushi/toml"
)

// Solution specifies the initial aqueous solution the rock reacts
// with.
type Solution struct {
	// PH is the initial pH.
	PH float64

	// Temperature is the solution temperature [degrees C].
	Temperature float64

	// Pe is the redox potential.
	Pe float64

	// DissolvedCO2 is the initial dissolved inorganic carbon
	// [mol/kgw].
	DissolvedCO2 float64
}

// KineticRate holds kinetic dissolution parameters for one mineral
// phase.
type KineticRate struct {
	// Phase is the phase name in the thermodynamic database.
	Phase string

	// Formula is the chemical formula used in the rate definition.
	Formula string

	// RateConstant is the far-from-equilibrium dissolution rate
	// constant [mol/m2/s].
	RateConstant float64

	// Exponent is the reaction order with respect to H+ activity.
	Exponent float64

	// ActivationEnergy [J/mol] scales the rate with temperature.
	ActivationEnergy float64
}

// Scenario specifies the weathering conditions for a simulation.
type Scenario struct {
	// Title describes the scenario.
	Title string

	// Solution is the initial aqueous solution.
	Solution Solution

	// CO2LogPartialPressure is the log10 of the CO2 partial pressure
	// [atm] that the solution equilibrates with.
	CO2LogPartialPressure float64

	// AcidSteps are the progressive H+ additions [mmol] that drive
	// the weathering reactions. The additions are incremental: each
	// step adds to the previous ones.
	AcidSteps []float64

	// Kinetics holds dissolution rate parameters for the phases that
	// dissolve kinetically rather than equilibrating instantly.
	Kinetics []KineticRate
}

// DefaultScenario returns the standard weathering scenario: rainwater
// in equilibrium with atmospheric CO2 reacting with the rock through
// seven progressive acid additions.
func DefaultScenario() *Scenario {
	return &Scenario{
		Title: "Enhanced Rock Weathering Analysis",
		Solution: Solution{
			PH:           5.6,
			Temperature:  25.0,
			Pe:           4.0,
			DissolvedCO2: 1.0e-5,
		},
		CO2LogPartialPressure: -3.5,
		AcidSteps:             []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		Kinetics: []KineticRate{
			{Phase: Anorthite, Formula: "CaAl2Si2O8", RateConstant: 1.26e-12, Exponent: 0.5, ActivationEnergy: 62800},
			{Phase: Forsterite, Formula: "Mg2SiO4", RateConstant: 1.0e-11, Exponent: 0.6, ActivationEnergy: 79000},
			{Phase: Albite, Formula: "NaAlSi3O8", RateConstant: 2.75e-13, Exponent: 0.457, ActivationEnergy: 65000},
		},
	}
}

// LoadScenario reads weathering conditions from the TOML file at path.
// Values the file does not set keep their DefaultScenario values.
func LoadScenario(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("erw: problem opening scenario file: %v", err)
	}
	defer f.Close()
	s := DefaultScenario()
	if _, err := toml.DecodeReader(f, s); err != nil {
		return nil, fmt.Errorf("erw: problem parsing scenario file: %v", err)
	}
	if err := s.Check(); err != nil {
		return nil, err
	}
	return s, nil
}

// Check ensures the scenario is physically meaningful.
func (s *Scenario) Check() error {
	if s == nil {
		return fmt.Errorf("erw: scenario is nil")
	}
	if s.Solution.PH <= 0 || s.Solution.PH >= 14 {
		return fmt.Errorf("erw: scenario initial pH %g is outside (0, 14)", s.Solution.PH)
	}
	if len(s.AcidSteps) == 0 {
		return fmt.Errorf("erw: scenario has no acid addition steps")
	}
	for i, step := range s.AcidSteps {
		if step <= 0 {
			return fmt.Errorf("erw: acid step %d (%g mmol) is not positive", i+1, step)
		}
	}
	return nil
}
