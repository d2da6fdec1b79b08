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
	"math"
	"os"
	"strings"
	"testing"

	"github.com/rockmodel/erw"
)

// different reports whether a and b are meaningfully different.
func different(a, b float64) bool {
	if math.IsNaN(a) != math.IsNaN(b) {
		return true
	}
	if math.IsNaN(a) && math.IsNaN(b) {
		return false
	}
	const tolerance = 1.0e-10
	return math.Abs(a-b) > tolerance*math.Abs(b)
}

func TestParseSelectedOutput(t *testing.T) {
	f, err := os.Open("testdata/selected.sel")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	frame, err := ParseSelectedOutput(f)
	if err != nil {
		t.Fatal(err)
	}

	// The punch file holds one initial-solution row and seven reaction
	// rows; only the reaction rows survive.
	if frame.Steps() != 7 {
		t.Fatalf("want 7 reaction steps, got %d", frame.Steps())
	}
	if frame.Has(stateColumn) {
		t.Error("the state flag should not become a result column")
	}

	initialPH, err := frame.Initial(erw.PH)
	if err != nil {
		t.Fatal(err)
	}
	if different(initialPH, 6.0134) {
		t.Errorf("initial pH: want 6.0134, got %g", initialPH)
	}
	finalPH, err := frame.Final(erw.PH)
	if err != nil {
		t.Fatal(err)
	}
	if different(finalPH, 7.9245) {
		t.Errorf("final pH: want 7.9245, got %g", finalPH)
	}

	// Molalities, saturation indices, and alkalinity map to their
	// result column names.
	for col, want := range map[string]float64{
		erw.Ca:         1.2041e-03,
		erw.Mg:         9.4903e-04,
		erw.HCO3:       2.4196e-03,
		erw.SICalcite:  0.0512,
		erw.SIQuartz:   0.2055,
		erw.Alkalinity: 2.4610e-03,
		erw.Temp:       25.0,
	} {
		v, err := frame.Final(col)
		if err != nil {
			t.Fatal(err)
		}
		if different(v, want) {
			t.Errorf("%s: want %g, got %g", col, want, v)
		}
	}

	// Headings without a mapping keep their punched names.
	for _, col := range []string{"C(4)(mol/kgw)", "Ca(mol/kgw)", "Si(mol/kgw)"} {
		if !frame.Has(col) {
			t.Errorf("unmapped column %s should keep its punched name", col)
		}
	}
	total, err := frame.Final("Ca(mol/kgw)")
	if err != nil {
		t.Fatal(err)
	}
	if different(total, 1.2581e-03) {
		t.Errorf("total Ca: want 1.2581e-03, got %g", total)
	}
}

func TestParseSelectedOutputNoState(t *testing.T) {
	// Without a state column every row is a reaction row.
	punch := `pH pe
6.1 4.0
6.5 3.9
`
	frame, err := ParseSelectedOutput(strings.NewReader(punch))
	if err != nil {
		t.Fatal(err)
	}
	if frame.Steps() != 2 {
		t.Fatalf("want 2 steps, got %d", frame.Steps())
	}
	v, err := frame.Final(erw.Pe)
	if err != nil {
		t.Fatal(err)
	}
	if different(v, 3.9) {
		t.Errorf("final pe: want 3.9, got %g", v)
	}
}

func TestParseSelectedOutputEmpty(t *testing.T) {
	for name, punch := range map[string]string{
		"empty":       "",
		"header only": "state pH pe\n",
		"no reactions": `state pH pe
i_soln 5.6 4.0
`,
	} {
		_, err := ParseSelectedOutput(strings.NewReader(punch))
		if err == nil {
			t.Errorf("%s: want an error, got none", name)
			continue
		}
		if !strings.Contains(err.Error(), "no simulation output") {
			t.Errorf("%s: want a no-output error, got %v", name, err)
		}
	}
}

func TestParseSelectedOutputRagged(t *testing.T) {
	punch := `state pH pe
react 6.1
`
	if _, err := ParseSelectedOutput(strings.NewReader(punch)); err == nil {
		t.Error("a row shorter than the header should be an error")
	}
}

func TestParseSelectedOutputBadValue(t *testing.T) {
	punch := `state pH pe
react six 4.0
`
	if _, err := ParseSelectedOutput(strings.NewReader(punch)); err == nil {
		t.Error("a non-numeric value should be an error")
	}
}
