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
	"errors"
	"math"
	"testing"
)

// different reports whether a and b are different given floating point
// accuracy limitations.
func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

// absDifferent reports whether a and b differ by more than tolerance.
func absDifferent(a, b, tolerance float64) bool {
	return math.Abs(a-b) > tolerance
}

// basaltSample returns a mafic test composition.
func basaltSample() *Sample {
	return &Sample{
		ID:        "AK-TEST-001",
		RockType:  "Basalt",
		Latitude:  61.2181,
		Longitude: -149.9003,
		Oxides: map[string]float64{
			"SiO2":  48.5,
			"Al2O3": 14.2,
			"Fe2O3": 11.0,
			"MgO":   8.5,
			"CaO":   10.5,
			"Na2O":  2.5,
			"K2O":   0.5,
		},
	}
}

// runTestAnalysis carries a complete synthetic-engine analysis through
// Init, Run, and Cleanup.
func runTestAnalysis(t *testing.T) *ERW {
	e := &ERW{
		InitFuncs: []AnalysisManipulator{
			LoadSample(basaltSample()),
			UseScenario(DefaultScenario()),
			TranslatePhases(),
			AttachInfo(&ReportInfo{SampleUniverse: 247, Region: "Alaska"}),
		},
		RunFuncs: []AnalysisManipulator{
			RunEngine(&Synthetic{}),
			ReactionCompleteCheck(nil),
		},
		CleanupFuncs: []AnalysisManipulator{
			ExtractIndicators(),
		},
	}
	if err := e.Init(); err != nil {
		t.Fatalf("initializing analysis: %v", err)
	}
	if err := e.Run(); err != nil {
		t.Fatalf("running analysis: %v", err)
	}
	if err := e.Cleanup(); err != nil {
		t.Fatalf("cleaning up analysis: %v", err)
	}
	return e
}

// TestAnalysis runs a complete weathering analysis with the synthetic
// engine and checks the progress reporting and the resulting
// indicators.
func TestAnalysis(t *testing.T) {
	sample := basaltSample()
	scenario := DefaultScenario()
	steps := len(scenario.AcidSteps)

	cLog := make(chan *SimulationStatus, 2*steps)
	cReact := make(chan *ReactionStatus, 2*steps)

	e := &ERW{
		InitFuncs: []AnalysisManipulator{
			LoadSample(sample),
			UseScenario(scenario),
			TranslatePhases(),
		},
		RunFuncs: []AnalysisManipulator{
			RunEngine(&Synthetic{}),
			Log(cLog),
			ReactionCompleteCheck(cReact),
		},
		CleanupFuncs: []AnalysisManipulator{
			ExtractIndicators(),
		},
	}
	if err := e.Init(); err != nil {
		t.Fatalf("initializing analysis: %v", err)
	}
	if err := e.Run(); err != nil {
		t.Fatalf("running analysis: %v", err)
	}
	if err := e.Cleanup(); err != nil {
		t.Fatalf("cleaning up analysis: %v", err)
	}
	close(cLog)
	close(cReact)

	if !e.Done {
		t.Error("analysis should be done")
	}
	if e.EngineUsed != "synthetic" {
		t.Errorf("engine used: want synthetic, got %s", e.EngineUsed)
	}
	if len(e.Phases) != 9 {
		t.Errorf("phases: want 9, got %d", len(e.Phases))
	}
	if e.Frame.Steps() != steps {
		t.Fatalf("steps: want %d, got %d", steps, e.Frame.Steps())
	}

	var nLog int
	var lastLog *SimulationStatus
	for s := range cLog {
		nLog++
		lastLog = s
	}
	if nLog != steps {
		t.Fatalf("progress updates: want %d, got %d", steps, nLog)
	}
	if lastLog.Step != steps || lastLog.Steps != steps {
		t.Errorf("final progress update: want step %d of %d, got %s", steps, steps, lastLog)
	}

	var nReact int
	var lastReact *ReactionStatus
	for s := range cReact {
		nReact++
		lastReact = s
	}
	if nReact != steps {
		t.Fatalf("reaction updates: want %d, got %d", steps, nReact)
	}
	const totalAcid = 0.001 + 0.005 + 0.01 + 0.05 + 0.1 + 0.5 + 1.0
	if different(lastReact.Acid, totalAcid, 1e-10) {
		t.Errorf("total acid: want %g mmol, got %g mmol", totalAcid, lastReact.Acid)
	}
	if different(lastReact.PH, 8.0, 1e-10) {
		t.Errorf("final pH status: want 8, got %g", lastReact.PH)
	}

	ind := e.Indicators
	values := []struct {
		name       string
		have, want float64
	}{
		{"initial pH", ind.InitialPH, 5.6},
		{"final pH", ind.FinalPH, 8.0},
		{"pH change", ind.DeltaPH, 2.4},
		{"Ca release", ind.CaRelease, 0.84},
		{"Mg release", ind.MgRelease, 0.51},
		{"total cation release", ind.TotalCationRelease, 1.35},
		{"CO2 sequestration", ind.CO2Sequestration, 228.8},
		{"alkalinity generation", ind.AlkalinityGenerated, 6.0},
		{"calcite SI", ind.CalciteSI, 1.1},
		{"dolomite SI", ind.DolomiteSI, 1.0},
		{"final efficiency", ind.Efficiency[len(ind.Efficiency)-1], 1.35 / 19.0 * 100},
	}
	for _, v := range values {
		t.Run(v.name, func(t *testing.T) {
			if different(v.have, v.want, 1e-10) {
				t.Errorf("want %g, got %g", v.want, v.have)
			}
		})
	}

	ratings := []struct{ name, have, want string }{
		{"pH buffering", ind.PHBuffering, "Excellent"},
		{"cation supply", ind.CationSupply, "Medium"},
		{"CO2 potential", ind.CO2Potential, "High"},
	}
	for _, r := range ratings {
		if r.have != r.want {
			t.Errorf("%s: want %s, got %s", r.name, r.want, r.have)
		}
	}
}

func TestTranslatePhasesOrder(t *testing.T) {
	e := &ERW{InitFuncs: []AnalysisManipulator{TranslatePhases()}}
	err := e.Init()
	if err == nil {
		t.Fatal("translating phases without a sample should fail")
	}
	want := "erw: no sample to translate; LoadSample must run first"
	if err.Error() != want {
		t.Errorf("want %q, got %q", want, err.Error())
	}
}

type failEngine struct{}

func (failEngine) Name() string { return "fail" }
func (failEngine) Simulate(*Scenario, []PhaseAmount, *Sample) (*Frame, error) {
	return nil, errors.New("solver exploded")
}

type emptyEngine struct{}

func (emptyEngine) Name() string { return "empty" }
func (emptyEngine) Simulate(*Scenario, []PhaseAmount, *Sample) (*Frame, error) {
	return NewFrame(), nil
}

func TestRunEngineFailure(t *testing.T) {
	e := &ERW{
		InitFuncs: []AnalysisManipulator{
			LoadSample(basaltSample()),
			UseScenario(DefaultScenario()),
		},
		RunFuncs: []AnalysisManipulator{RunEngine(failEngine{})},
	}
	if err := e.Init(); err != nil {
		t.Fatal(err)
	}
	err := e.Run()
	if err == nil {
		t.Fatal("expected an engine error")
	}
	want := "erw: problem running fail engine: solver exploded"
	if err.Error() != want {
		t.Errorf("want %q, got %q", want, err.Error())
	}
}

func TestRunEngineEmpty(t *testing.T) {
	e := &ERW{
		InitFuncs: []AnalysisManipulator{
			LoadSample(basaltSample()),
			UseScenario(DefaultScenario()),
		},
		RunFuncs: []AnalysisManipulator{RunEngine(emptyEngine{})},
	}
	if err := e.Init(); err != nil {
		t.Fatal(err)
	}
	err := e.Run()
	if err == nil {
		t.Fatal("expected an error for an empty reaction path")
	}
	want := "erw: empty engine returned no reaction steps"
	if err.Error() != want {
		t.Errorf("want %q, got %q", want, err.Error())
	}
}
