package erw

import (
	"encoding/gob"
	"fmt"
	"io"
)

// savedAnalysis is the gob payload written by Save.
type savedAnalysis struct {
	Sample     *Sample
	Scenario   *Scenario
	Phases     []PhaseAmount
	Frame      *Frame
	Indicators *Indicators
	Info       *ReportInfo
	EngineUsed string
}

// Save returns a function that saves the analysis state in e to a gob
// file (format description at https://golang.org/pkg/encoding/gob/),
// so that reports and charts can be re-rendered without re-running the
// simulation.
func Save(w io.Writer) AnalysisManipulator {
	return func(e *ERW) error {
		enc := gob.NewEncoder(w)
		s := savedAnalysis{
			Sample:     e.Sample,
			Scenario:   e.Scenario,
			Phases:     e.Phases,
			Frame:      e.Frame,
			Indicators: e.Indicators,
			Info:       e.Info,
			EngineUsed: e.EngineUsed,
		}
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("erw.ERW.Save: %v", err)
		}
		return nil
	}
}

// Load returns a function that loads a previously Saved analysis into
// an ERW object. The loaded analysis is marked as finished, so only
// CleanupFuncs will act on it.
func Load(r io.Reader) AnalysisManipulator {
	return func(e *ERW) error {
		dec := gob.NewDecoder(r)
		var s savedAnalysis
		if err := dec.Decode(&s); err != nil {
			return fmt.Errorf("erw.ERW.Load: %v", err)
		}
		e.Sample = s.Sample
		e.Scenario = s.Scenario
		e.Phases = s.Phases
		e.Frame = s.Frame
		e.Indicators = s.Indicators
		e.Info = s.Info
		e.EngineUsed = s.EngineUsed
		e.pending = s.Frame
		if s.Frame != nil {
			e.step = s.Frame.Steps()
		}
		e.Done = true
		return nil
	}
}
