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

package phreeqc

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/rockmodel/erw"
)

// Input composes the PHREEQC input script for one simulation: an
// initial solution equilibrated with atmospheric CO2, the mineral
// assemblage in phases, kinetic dissolution of the phases scenario
// names, and one incremental acid addition per scenario step. The
// script directs the solver to punch one selected-output row per
// reaction step.
func (c *Client) Input(scenario *erw.Scenario, phases []erw.PhaseAmount, sample *erw.Sample) (string, error) {
	if sample == nil {
		return "", fmt.Errorf("phreeqc: no rock sample to simulate")
	}
	if err := scenario.Check(); err != nil {
		return "", err
	}
	if len(phases) == 0 {
		return "", fmt.Errorf("phreeqc: no mineral phases to react")
	}

	w := new(bytes.Buffer)
	fmt.Fprintf(w, "TITLE %s - Sample %s\n", scenario.Title, sample.ID)
	fmt.Fprintf(w, "# Multi-component geochemical weathering simulation\n\n")

	fmt.Fprintf(w, "SOLUTION 1 Initial Rainwater\n")
	fmt.Fprintf(w, "    pH %g\n", scenario.Solution.PH)
	fmt.Fprintf(w, "    temp %g\n", scenario.Solution.Temperature)
	fmt.Fprintf(w, "    pe %g\n", scenario.Solution.Pe)
	fmt.Fprintf(w, "    units mol/kgw\n")
	fmt.Fprintf(w, "    C(4) %g\n\n", scenario.Solution.DissolvedCO2)

	fmt.Fprintf(w, "EQUILIBRIUM_PHASES 1\n")
	fmt.Fprintf(w, "    CO2(g) %g\n", scenario.CO2LogPartialPressure)
	for _, p := range phases {
		fmt.Fprintf(w, "    %s 0.0 %.4f\n", p.Name, p.Moles)
	}
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "KINETICS 1\n")
	fmt.Fprintf(w, "# Kinetic dissolution of primary minerals\n")
	for _, k := range scenario.Kinetics {
		fmt.Fprintf(w, "%s\n", k.Phase)
		fmt.Fprintf(w, "-formula %s 1\n", k.Formula)
		fmt.Fprintf(w, "-m0 %.4f\n", phaseMoles(phases, k.Phase))
		fmt.Fprintf(w, "-parms %g %g %g\n\n", k.RateConstant, k.Exponent, k.ActivationEnergy)
	}

	fmt.Fprintf(w, "INCREMENTAL_REACTIONS true\n\n")

	fmt.Fprintf(w, "REACTION 1\n")
	fmt.Fprintf(w, "# Progressive acid addition drives the weathering reactions.\n")
	fmt.Fprintf(w, "H+ 1.0\n")
	steps := make([]string, len(scenario.AcidSteps))
	for i, s := range scenario.AcidSteps {
		steps[i] = strconv.FormatFloat(s, 'g', -1, 64)
	}
	fmt.Fprintf(w, "%s mmol\n\n", strings.Join(steps, " "))

	fmt.Fprintf(w, "SELECTED_OUTPUT\n")
	fmt.Fprintf(w, "    -file %s\n", punchName)
	fmt.Fprintf(w, "    -reset false\n")
	fmt.Fprintf(w, "    -state true\n")
	fmt.Fprintf(w, "    -pH true\n")
	fmt.Fprintf(w, "    -pe true\n")
	fmt.Fprintf(w, "    -temperature true\n")
	fmt.Fprintf(w, "    -molalities Ca+2 Mg+2 Na+ K+ Al+3 Fe+3 Fe+2 SiO2 HCO3- CO3-2\n")
	fmt.Fprintf(w, "    -si Calcite Dolomite Gibbsite Quartz Anorthite Forsterite Albite\n")
	fmt.Fprintf(w, "    -totals C(4) Ca Mg Na K Al Fe Si\n")
	fmt.Fprintf(w, "    -alkalinity\n\n")

	fmt.Fprintf(w, "PRINT\n")
	fmt.Fprintf(w, "    -reset false\n")
	fmt.Fprintf(w, "    -status true\n\n")

	fmt.Fprintf(w, "END\n")
	return w.String(), nil
}

// phaseMoles returns the initial amount of the named phase in the
// assemblage, or zero if the assemblage does not include it.
func phaseMoles(phases []erw.PhaseAmount, name string) float64 {
	for _, p := range phases {
		if p.Name == name {
			return p.Moles
		}
	}
	return 0
}
