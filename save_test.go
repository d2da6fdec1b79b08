package erw

import (
	"bytes"
	"reflect"
	"testing"
)

func TestSaveLoad(t *testing.T) {
	buf := bytes.NewBuffer([]byte{})

	e := runTestAnalysis(t)
	if err := Save(buf)(e); err != nil {
		t.Fatal(err)
	}

	e2 := &ERW{
		InitFuncs: []AnalysisManipulator{
			Load(buf),
		},
		CleanupFuncs: []AnalysisManipulator{
			ExtractIndicators(),
		},
	}
	if err := e2.Init(); err != nil {
		t.Fatal(err)
	}
	// A loaded analysis is already finished, so Run returns right away.
	if err := e2.Run(); err != nil {
		t.Fatal(err)
	}
	if err := e2.Cleanup(); err != nil {
		t.Fatal(err)
	}

	if !e2.Done {
		t.Error("loaded analysis should be done")
	}
	if e2.Sample == nil || e2.Sample.ID != e.Sample.ID {
		t.Errorf("sample: want %v, got %v", e.Sample, e2.Sample)
	}
	if e2.EngineUsed != e.EngineUsed {
		t.Errorf("engine used: want %s, got %s", e.EngineUsed, e2.EngineUsed)
	}
	if !reflect.DeepEqual(e2.Frame, e.Frame) {
		t.Error("loaded results differ from saved results")
	}
	if !reflect.DeepEqual(e2.Phases, e.Phases) {
		t.Error("loaded phases differ from saved phases")
	}
	if !reflect.DeepEqual(e2.Indicators, e.Indicators) {
		t.Error("recomputed indicators differ from the originals")
	}
	if e2.Info == nil || e2.Info.SampleUniverse != 247 {
		t.Errorf("report info was not restored: %+v", e2.Info)
	}
	if e2.Scenario == nil || len(e2.Scenario.AcidSteps) != len(e.Scenario.AcidSteps) {
		t.Error("scenario was not restored")
	}
}
