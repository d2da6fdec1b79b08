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
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"math"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"
)

// dataSourceName is the geochemical database the analyzed samples
// come from.
const dataSourceName = "USGS Alaska Geochemical Database"

// ReportInfo carries provenance details included in the text report.
type ReportInfo struct {
	// SampleUniverse is the number of records in the source database.
	SampleUniverse int

	// Region names the geographic coverage of the source database.
	Region string

	// Mineralogy holds the observed modal mineralogy of the analyzed
	// sample, when the database provides it.
	Mineralogy []MineralObservation

	// TraceAvailable reports whether trace element chemistry exists
	// for the analyzed sample.
	TraceAvailable bool

	// Files lists the products written alongside the report.
	Files []string
}

// MineralObservation is a petrographically observed mineral and its
// abundance in weight percent. A NaN abundance means the mineral was
// identified but not quantified.
type MineralObservation struct {
	Mineral   string
	Abundance float64
}

// reportOxideNames maps oxide formulas to their display names in the
// composition section of the report.
var reportOxideNames = map[string]string{
	"SiO2":  "SiO₂ (Silica)",
	"Al2O3": "Al₂O₃ (Alumina)",
	"Fe2O3": "Fe₂O₃ (Iron Oxide)",
	"MgO":   "MgO (Magnesia)",
	"CaO":   "CaO (Lime)",
	"Na2O":  "Na₂O (Soda)",
	"K2O":   "K₂O (Potash)",
}

// engineMethodName returns the report description of the simulation
// engine that produced the results.
func engineMethodName(engine string) string {
	switch engine {
	case "phreeqc":
		return "PHREEQC Geochemical Modeling"
	case "synthetic":
		return "Synthetic Weathering Curves"
	}
	return engine
}

// WriteReport returns a function that writes the plain-text analysis
// report to fileName.
func WriteReport(fileName string) AnalysisManipulator {
	return func(e *ERW) error {
		if e.Sample == nil {
			return fmt.Errorf("erw: no sample to report")
		}
		if e.Indicators == nil {
			return fmt.Errorf("erw: no indicators to report; ExtractIndicators must run first")
		}
		var b bytes.Buffer
		writeReportBody(&b, e)
		if err := ioutil.WriteFile(fileName, b.Bytes(), 0644); err != nil {
			return fmt.Errorf("erw: problem writing report: %v", err)
		}
		return nil
	}
}

func writeReportBody(w io.Writer, e *ERW) {
	ind := e.Indicators
	info := e.Info
	if info == nil {
		info = new(ReportInfo)
	}

	rule := strings.Repeat("=", 80)
	sub := strings.Repeat("-", 40)

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "ENHANCED ROCK WEATHERING ANALYSIS REPORT")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "PROJECT OVERVIEW")
	fmt.Fprintln(w, sub)
	fmt.Fprintf(w, "Analysis Date: %s\n", time.Now().Format("2006-01-02 15:04"))
	fmt.Fprintf(w, "Method: %s\n", engineMethodName(e.EngineUsed))
	fmt.Fprintf(w, "Data Source: %s (AGDB4)\n", dataSourceName)
	if info.SampleUniverse > 0 {
		fmt.Fprintf(w, "Sample Universe: %d rock samples\n", info.SampleUniverse)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "SAMPLE CHARACTERIZATION")
	fmt.Fprintln(w, sub)
	fmt.Fprintf(w, "Sample ID: %s\n", e.Sample.ID)
	region := info.Region
	if region == "" {
		region = "Unknown"
	}
	fmt.Fprintf(w, "Geographic Region: %s\n", region)
	rockType := e.Sample.RockType
	if rockType == "" {
		rockType = "Unknown"
	}
	fmt.Fprintf(w, "Rock Type: %s\n", rockType)
	fmt.Fprintf(w, "Total Analyzed Oxides: %.1f wt%%\n", e.Sample.TotalOxides())
	if info.TraceAvailable {
		fmt.Fprintln(w, "Trace Element Chemistry: available")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "MAJOR ELEMENT COMPOSITION (wt%)")
	fmt.Fprintln(w, sub)
	for _, oxide := range ReportOxides {
		if v, ok := e.Sample.Oxide(oxide); ok {
			fmt.Fprintf(w, "%-22s %8.2f\n", reportOxideNames[oxide]+":", v)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "WEATHERING SIMULATION RESULTS")
	fmt.Fprintln(w, sub)
	fmt.Fprintf(w, "pH Evolution: %.2f → %.2f (Δ %+.2f)\n", ind.InitialPH, ind.FinalPH, ind.DeltaPH)
	fmt.Fprintf(w, "Acid Neutralization Capacity: %s\n", ind.PHBuffering)
	fmt.Fprintf(w, "Total Cation Release: %.2f mmol/L\n", ind.TotalCationRelease)
	fmt.Fprintf(w, "  • Ca²⁺: %.2f mmol/L\n", ind.CaRelease)
	fmt.Fprintf(w, "  • Mg²⁺: %.2f mmol/L\n", ind.MgRelease)
	fmt.Fprintf(w, "CO₂ Sequestration Potential: %.1f mg CO₂/L\n", ind.CO2Sequestration)
	fmt.Fprintf(w, "Alkalinity Generation: %.2f meq/L\n", ind.AlkalinityGenerated)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "MINERAL SATURATION ASSESSMENT")
	fmt.Fprintln(w, sub)
	fmt.Fprintf(w, "Calcite (CaCO₃): %s (SI = %.2f)\n", saturationState(ind.CalciteSI), ind.CalciteSI)
	fmt.Fprintf(w, "Dolomite (CaMg(CO₃)₂): %s (SI = %.2f)\n", saturationState(ind.DolomiteSI), ind.DolomiteSI)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "ENHANCED ROCK WEATHERING POTENTIAL")
	fmt.Fprintln(w, sub)
	fmt.Fprintf(w, "pH Buffering Capacity: %s\n", ind.PHBuffering)
	fmt.Fprintf(w, "Cation Supply Rate: %s\n", ind.CationSupply)
	fmt.Fprintf(w, "CO₂ Sequestration: %s\n", ind.CO2Potential)
	fmt.Fprintln(w)

	if len(info.Mineralogy) > 0 {
		fmt.Fprintln(w, "OBSERVED MINERALOGY")
		fmt.Fprintln(w, sub)
		for _, m := range info.Mineralogy {
			if math.IsNaN(m.Abundance) {
				fmt.Fprintf(w, "%-22s  present\n", m.Mineral+":")
			} else {
				fmt.Fprintf(w, "%-22s %8.1f wt%%\n", m.Mineral+":", m.Abundance)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "TECHNICAL METHODOLOGY")
	fmt.Fprintln(w, sub)
	fmt.Fprintf(w, "Simulation Engine: %s\n", engineMethodName(e.EngineUsed))
	if sc := e.Scenario; sc != nil && len(sc.AcidSteps) > 0 {
		fmt.Fprintf(w, "Acid Addition: %d incremental steps, %g - %g mmol HCl\n",
			len(sc.AcidSteps), floats.Min(sc.AcidSteps), floats.Max(sc.AcidSteps))
		fmt.Fprintf(w, "Kinetic Rate Laws: %d phases (transition state theory)\n", len(sc.Kinetics))
	}
	if len(e.Phases) > 0 {
		var present int
		for _, ph := range e.Phases {
			if ph.Moles > 0 {
				present++
			}
		}
		fmt.Fprintf(w, "Normative Phase Assemblage: %d phases (%d present)\n", len(e.Phases), present)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "APPLICATIONS AND IMPLICATIONS")
	fmt.Fprintln(w, sub)
	fmt.Fprintln(w, "• Climate Change Mitigation: Enhanced weathering for CO₂ removal")
	fmt.Fprintln(w, "• Agricultural Enhancement: Soil pH buffering and nutrient release")
	fmt.Fprintln(w, "• Acid Mine Drainage: Natural neutralization potential")
	fmt.Fprintln(w, "• Geochemical Modeling: Validated thermodynamic predictions")

	if len(info.Files) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "GENERATED FILES")
		fmt.Fprintln(w, sub)
		for _, f := range info.Files {
			fmt.Fprintf(w, "• %s\n", f)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
}
