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

// Package erw is a geochemical model for estimating the acid
// neutralization, cation release, and carbon dioxide sequestration
// potential of rock samples subjected to enhanced weathering.
package erw

import (
	"fmt"
	"time"
)

// Version gives the version number.
const Version = "0.1.0"

// AnalysisManipulator is a class of functions that operate on a
// weathering analysis and may change its state.
type AnalysisManipulator func(e *ERW) error

// ERW holds the current state of a rock weathering analysis.
type ERW struct {
	// InitFuncs are functions to be called in the given order
	// at the beginning of the analysis.
	InitFuncs []AnalysisManipulator

	// RunFuncs are functions to be called in the given order repeatedly
	// until "Done" is true.
	RunFuncs []AnalysisManipulator

	// CleanupFuncs are functions to be run in the given order after the
	// simulation has finished.
	CleanupFuncs []AnalysisManipulator

	// Done specifies whether the simulation is finished.
	Done bool

	// Sample is the rock composition being analyzed.
	Sample *Sample

	// Scenario specifies the weathering conditions.
	Scenario *Scenario

	// Phases is the normative mineral assemblage translated from the
	// sample composition.
	Phases []PhaseAmount

	// Frame holds results for the reaction steps completed so far.
	Frame *Frame

	// Indicators summarizes the weathering performance of the sample
	// after the simulation has finished.
	Indicators *Indicators

	// Info holds run context that appears in the analysis report but
	// does not influence the simulation.
	Info *ReportInfo

	// EngineUsed is the name of the chemistry engine that produced
	// the results.
	EngineUsed string

	// pending holds the complete reaction path, which is released into
	// Frame one step at a time so progress can be reported.
	pending *Frame

	step int // reaction steps released so far
}

// Init initializes the analysis by running the InitFuncs.
func (e *ERW) Init() error {
	for _, f := range e.InitFuncs {
		if err := f(e); err != nil {
			return err
		}
	}
	return nil
}

// Run carries out the simulation by running the RunFuncs until
// Done is true.
func (e *ERW) Run() error {
	for !e.Done {
		for _, f := range e.RunFuncs {
			if err := f(e); err != nil {
				return err
			}
		}
	}
	return nil
}

// Cleanup finishes the analysis by running the CleanupFuncs.
func (e *ERW) Cleanup() error {
	for _, f := range e.CleanupFuncs {
		if err := f(e); err != nil {
			return err
		}
	}
	return nil
}

// LoadSample returns a function that sets the rock sample to be
// analyzed.
func LoadSample(s *Sample) AnalysisManipulator {
	return func(e *ERW) error {
		if err := s.Check(); err != nil {
			return err
		}
		e.Sample = s
		return nil
	}
}

// UseScenario returns a function that sets the weathering conditions
// for the analysis.
func UseScenario(s *Scenario) AnalysisManipulator {
	return func(e *ERW) error {
		if err := s.Check(); err != nil {
			return err
		}
		e.Scenario = s
		return nil
	}
}

// TranslatePhases returns a function that converts the sample's oxide
// composition into the normative mineral assemblage that reacts during
// the simulation.
func TranslatePhases() AnalysisManipulator {
	return func(e *ERW) error {
		if e.Sample == nil {
			return fmt.Errorf("erw: no sample to translate; LoadSample must run first")
		}
		e.Phases = NormativePhases(e.Sample)
		return nil
	}
}

// AttachInfo returns a function that attaches report context to the
// analysis.
func AttachInfo(info *ReportInfo) AnalysisManipulator {
	return func(e *ERW) error {
		e.Info = info
		return nil
	}
}

// RunEngine returns a function that advances the simulation by one
// reaction step using the chemistry engine en. The complete reaction
// path is computed on the first call; subsequent calls release one
// step at a time.
func RunEngine(en Engine) AnalysisManipulator {
	return func(e *ERW) error {
		if e.pending == nil {
			frame, err := en.Simulate(e.Scenario, e.Phases, e.Sample)
			if err != nil {
				return fmt.Errorf("erw: problem running %s engine: %v", en.Name(), err)
			}
			if frame.Steps() == 0 {
				return fmt.Errorf("erw: %s engine returned no reaction steps", en.Name())
			}
			e.pending = frame
			e.EngineUsed = en.Name()
		}
		if e.step < e.pending.Steps() {
			e.step++
		}
		e.Frame = e.pending.head(e.step)
		return nil
	}
}

// SimulationStatus holds information about the progress of a running
// simulation.
type SimulationStatus struct {
	// Step is the most recently completed reaction step, starting
	// at 1.
	Step int

	// Steps is the total number of reaction steps in the scenario.
	Steps int

	// Walltime is the time elapsed since the simulation started.
	Walltime time.Duration
}

func (s *SimulationStatus) String() string {
	return fmt.Sprintf("Step %-4d of %-4d  walltime = %6.3gh",
		s.Step, s.Steps, s.Walltime.Hours())
}

// Log returns a function that sends simulation progress information
// to c after each reaction step.
func Log(c chan *SimulationStatus) AnalysisManipulator {
	startTime := time.Now()
	return func(e *ERW) error {
		if c != nil {
			c <- &SimulationStatus{
				Step:     e.step,
				Steps:    e.pending.Steps(),
				Walltime: time.Since(startTime),
			}
		}
		return nil
	}
}

// ReactionStatus describes the solution chemistry after a reaction
// step.
type ReactionStatus struct {
	// Step is the reaction step the status describes, starting at 1.
	Step int

	// Acid is the cumulative amount of acid added [mmol].
	Acid float64

	// PH is the solution pH.
	PH float64

	// Alkalinity is the solution alkalinity [eq/L].
	Alkalinity float64
}

func (r *ReactionStatus) String() string {
	return fmt.Sprintf("Step %d: acid added = %.4g mmol, pH = %.2f, alkalinity = %.3g eq/L",
		r.Step, r.Acid, r.PH, r.Alkalinity)
}

// ReactionCompleteCheck returns a function that sends the solution
// chemistry for each completed reaction step to c and flags the
// simulation as done once every acid addition in the scenario has
// reacted. If c is nil, no status updates are sent.
func ReactionCompleteCheck(c chan *ReactionStatus) AnalysisManipulator {
	return func(e *ERW) error {
		if c != nil {
			status := &ReactionStatus{Step: e.step}
			for i := 0; i < e.step && i < len(e.Scenario.AcidSteps); i++ {
				status.Acid += e.Scenario.AcidSteps[i]
			}
			var err error
			if status.PH, err = e.Frame.Final(PH); err != nil {
				return err
			}
			if status.Alkalinity, err = e.Frame.Final(Alkalinity); err != nil {
				return err
			}
			c <- status
		}
		if e.step >= e.pending.Steps() {
			e.Done = true
		}
		return nil
	}
}

// ExtractIndicators returns a function that summarizes the completed
// simulation into weathering performance indicators.
func ExtractIndicators() AnalysisManipulator {
	return func(e *ERW) error {
		ind, err := ComputeIndicators(e.Frame, e.Sample)
		if err != nil {
			return fmt.Errorf("erw: problem extracting indicators: %v", err)
		}
		e.Indicators = ind
		return nil
	}
}
