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
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteReport(t *testing.T) {
	e := runTestAnalysis(t)

	dir, err := ioutil.TempDir("", "erwreport")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "report.txt")

	if err := WriteReport(path)(e); err != nil {
		t.Fatal(err)
	}
	b, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	report := string(b)

	for _, want := range []string{
		"ENHANCED ROCK WEATHERING ANALYSIS REPORT",
		"PROJECT OVERVIEW",
		"SAMPLE CHARACTERIZATION",
		"MAJOR ELEMENT COMPOSITION (wt%)",
		"WEATHERING SIMULATION RESULTS",
		"MINERAL SATURATION ASSESSMENT",
		"ENHANCED ROCK WEATHERING POTENTIAL",
		"TECHNICAL METHODOLOGY",
		"APPLICATIONS AND IMPLICATIONS",
		"Method: Synthetic Weathering Curves",
		"Data Source: USGS Alaska Geochemical Database (AGDB4)",
		"Sample Universe: 247 rock samples",
		"Sample ID: AK-TEST-001",
		"Geographic Region: Alaska",
		"Rock Type: Basalt",
		"Total Analyzed Oxides: 95.7 wt%",
		"SiO₂ (Silica)",
		"pH Evolution: 5.60 → 8.00 (Δ +2.40)",
		"Acid Neutralization Capacity: Excellent",
		"Total Cation Release: 1.35 mmol/L",
		"• Ca²⁺: 0.84 mmol/L",
		"• Mg²⁺: 0.51 mmol/L",
		"CO₂ Sequestration Potential: 228.8 mg CO₂/L",
		"Alkalinity Generation: 6.00 meq/L",
		"Calcite (CaCO₃): Supersaturated (SI = 1.10)",
		"Dolomite (CaMg(CO₃)₂): Supersaturated (SI = 1.00)",
		"pH Buffering Capacity: Excellent",
		"Cation Supply Rate: Medium",
		"CO₂ Sequestration: High",
		"Acid Addition: 7 incremental steps, 0.001 - 1 mmol HCl",
		"Kinetic Rate Laws: 3 phases (transition state theory)",
		"Normative Phase Assemblage: 9 phases (6 present)",
		"Climate Change Mitigation: Enhanced weathering for CO₂ removal",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report is missing %q", want)
		}
	}
	if strings.Contains(report, "OBSERVED MINERALOGY") {
		t.Error("report should not have a mineralogy section without observations")
	}

	t.Run("mineralogy", func(t *testing.T) {
		e.Info.Mineralogy = []MineralObservation{
			{Mineral: "Olivine", Abundance: 34.5},
			{Mineral: "Plagioclase", Abundance: math.NaN()},
		}
		e.Info.TraceAvailable = true
		e.Info.Files = []string{"analysis.png", "report.txt"}
		if err := WriteReport(path)(e); err != nil {
			t.Fatal(err)
		}
		b, err := ioutil.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		report := string(b)
		for _, want := range []string{
			"OBSERVED MINERALOGY",
			"Olivine:",
			"34.5 wt%",
			"Plagioclase:",
			"present",
			"Trace Element Chemistry: available",
			"GENERATED FILES",
			"• analysis.png",
		} {
			if !strings.Contains(report, want) {
				t.Errorf("report is missing %q", want)
			}
		}
	})
}

func TestWriteReportChecks(t *testing.T) {
	e := &ERW{}
	if err := WriteReport("unused.txt")(e); err == nil {
		t.Error("expected an error without a sample")
	}
	e.Sample = basaltSample()
	if err := WriteReport("unused.txt")(e); err == nil {
		t.Error("expected an error without indicators")
	}
}

func TestEngineMethodName(t *testing.T) {
	tests := []struct{ engine, want string }{
		{"phreeqc", "PHREEQC Geochemical Modeling"},
		{"synthetic", "Synthetic Weathering Curves"},
		{"custom", "custom"},
	}
	for _, test := range tests {
		if got := engineMethodName(test.engine); got != test.want {
			t.Errorf("%s: want %q, got %q", test.engine, test.want, got)
		}
	}
}
