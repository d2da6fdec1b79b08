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

// Package erwutil provides a command line interface for the ERW rock
// weathering analysis model.
package erwutil

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rockmodel/erw"
	"github.com/rockmodel/erw/agdb"
	"github.com/rockmodel/erw/phreeqc"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
)

var logger *logrus.Logger

func init() {
	logger = logrus.StandardLogger()
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

// Run runs a weathering analysis.
//
// CobraCommand is the cobra.Command instance where Run is called from.
//
// LogFile is the path to the desired logfile location.
//
// SampleID selects the rock sample to analyze. If it is empty, the
// first sample with complete major element data is used.
//
// OutputVariables specifies variables derived from the simulation
// results that should be appended to them before export.
//
// engine is the chemistry engine that reacts the mineral assemblage,
// and scenario specifies the weathering conditions it simulates.
//
// MajorsFile, MineralogyFile, and TraceFile are the paths to the
// whole-rock major element, XRD mineralogy, and trace element tables.
// The mineralogy and trace element tables provide optional report
// context; when they are missing the analysis proceeds without them.
// ExcelSheet names the worksheet to read when MajorsFile is an .xlsx
// workbook.
//
// ReportFile, ChartFile, WorkbookFile, SitesFile, and FrameFile are
// the paths the analysis products are written to.
//
// ChartWidth and ChartHeight give the size of the summary figure.
func Run(CobraCommand *cobra.Command, LogFile, SampleID string,
	OutputVariables map[string]string, engine erw.Engine, scenario *erw.Scenario,
	MajorsFile, MineralogyFile, TraceFile, ExcelSheet string,
	ReportFile, ChartFile, WorkbookFile, SitesFile, FrameFile string,
	ChartWidth, ChartHeight vg.Length) error {

	startTime := time.Now()

	// Start a function to receive and print log messages.
	logfile, err := os.Create(LogFile)
	if err != nil {
		return fmt.Errorf("erw: problem creating log file: %v", err)
	}
	mw := io.MultiWriter(CobraCommand.OutOrStdout(), logfile)
	log.SetOutput(mw)
	cLog := make(chan *erw.SimulationStatus)
	cReact := make(chan *erw.ReactionStatus)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		for msg := range cLog {
			log.Println(msg.String())
		}
		wg.Done()
	}()
	go func() {
		for msg := range cReact {
			log.Println(msg.String())
		}
		wg.Done()
	}()

	defer func() { // Wait for the logging to finish.
		close(cLog)
		close(cReact)
		wg.Wait()
		logfile.Close()
	}()

	o, err := erw.NewOutputter(OutputVariables, nil)
	if err != nil {
		return err
	}
	log.Println("Parsing output variable expressions...")

	log.Println("Reading whole-rock major element data...")
	majors, err := LoadMajors(MajorsFile, ExcelSheet)
	if err != nil {
		return err
	}
	rec, complete, err := selectSample(majors, SampleID)
	if err != nil {
		return err
	}
	sample := erw.FromAGDB(rec)
	log.Printf("Analyzing sample %s (%d of %d samples report complete major element data).",
		sample.ID, len(complete), len(majors.Records))

	sites := make([]*erw.Sample, len(complete))
	for i, r := range complete {
		sites[i] = erw.FromAGDB(r)
	}

	info := buildInfo(majors, sample.ID, MineralogyFile, TraceFile,
		ReportFile, ChartFile, WorkbookFile, SitesFile, FrameFile)

	e := &erw.ERW{
		InitFuncs: []erw.AnalysisManipulator{
			erw.LoadSample(sample),
			erw.UseScenario(scenario),
			erw.TranslatePhases(),
			erw.AttachInfo(info),
			o.CheckOutputVars(),
		},
		RunFuncs: []erw.AnalysisManipulator{
			erw.RunEngine(engine),
			erw.Log(cLog),
			erw.ReactionCompleteCheck(cReact),
		},
		CleanupFuncs: []erw.AnalysisManipulator{
			erw.ExtractIndicators(),
			o.Derive(),
			erw.WriteReport(ReportFile),
			erw.WriteChart(ChartFile, ChartWidth, ChartHeight),
			erw.WriteWorkbook(WorkbookFile),
			writeSites(SitesFile, sites, sample.ID),
			saveFrame(FrameFile),
		},
	}

	log.Println("Initializing analysis...")
	if err = e.Init(); err != nil {
		return fmt.Errorf("ERW: problem initializing analysis: %v\n", err)
	}

	log.Println("Normative phase assemblage:")
	for _, p := range e.Phases {
		log.Printf("%v, %.4f mol\n", p.Name, p.Moles)
	}

	log.Printf("Running the %s engine...", engine.Name())
	if err = e.Run(); err != nil {
		return fmt.Errorf("ERW: problem running simulation: %v\n", err)
	}

	if err = e.Cleanup(); err != nil {
		return fmt.Errorf("ERW: problem shutting down analysis: %v\n", err)
	}

	elapsedTime := time.Since(startTime)
	log.Printf("Elapsed time: %f hours", elapsedTime.Hours())

	return nil
}

// ChooseEngine returns the chemistry engine matching name: 'phreeqc'
// is the external solver client, 'synthetic' generates idealized
// weathering trends, and 'auto' prefers the solver but falls back to
// synthetic trends when no solver installation can be found.
func ChooseEngine(name string, client *phreeqc.Client) (erw.Engine, error) {
	switch name {
	case "auto":
		if client.Available() {
			return client, nil
		}
		logger.Warn("PHREEQC solver not found; falling back to synthetic weathering curves")
		return &erw.Synthetic{}, nil
	case "phreeqc":
		if !client.Available() {
			return nil, fmt.Errorf("erw: engine 'phreeqc' requested, but no PHREEQC solver or thermodynamic database could be found")
		}
		return client, nil
	case "synthetic":
		return &erw.Synthetic{}, nil
	}
	return nil, fmt.Errorf("erw: invalid engine '%s'; the options are 'auto', 'phreeqc', and 'synthetic'", name)
}

// LoadMajors reads a whole-rock major element table laid out in the
// AGDB column convention. Files ending in .xlsx are read as Excel
// workbooks; anything else is read as delimited text.
func LoadMajors(path, sheet string) (*agdb.Majors, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return agdb.ReadMajorsXLSX(path, sheet, agdb.AGDB4Fields())
	}
	return agdb.ReadMajors(path, agdb.AGDB4Fields())
}

// selectSample returns the record to analyze along with all of the
// records that could be analyzed. An empty id selects the first
// complete sample.
func selectSample(majors *agdb.Majors, id string) (*agdb.Record, []*agdb.Record, error) {
	complete, err := majors.Complete()
	if err != nil {
		return nil, nil, err
	}
	if id == "" {
		return complete[0], complete, nil
	}
	rec, err := majors.Sample(id)
	if err != nil {
		return nil, nil, err
	}
	return rec, complete, nil
}

// buildInfo gathers the report context: the size of the sample
// universe, the observed mineralogy and trace element availability of
// the analyzed sample, and the names of the products written alongside
// the report. Missing mineralogy and trace element tables are logged
// and skipped.
func buildInfo(majors *agdb.Majors, sampleID, mineralogyFile, traceFile string, files ...string) *erw.ReportInfo {
	info := &erw.ReportInfo{
		SampleUniverse: len(majors.Records),
		Region:         "Alaska, USA",
	}
	for _, f := range files {
		info.Files = append(info.Files, filepath.Base(f))
	}
	if mineralogyFile != "" {
		minerals, err := agdb.ReadMineralogy(mineralogyFile)
		if err != nil {
			log.Printf("Mineralogy not included in report: %v", err)
		} else {
			for _, m := range minerals[sampleID] {
				info.Mineralogy = append(info.Mineralogy, erw.MineralObservation{
					Mineral:   m.Name,
					Abundance: m.Abundance,
				})
			}
		}
	}
	if traceFile != "" {
		trace, err := agdb.ReadTrace(traceFile)
		if err != nil {
			log.Printf("Trace element availability not included in report: %v", err)
		} else {
			info.TraceAvailable = trace.Has(sampleID)
		}
	}
	return info
}

// writeSites returns a function that writes the shapefile of sample
// locations, flagging the analyzed sample.
func writeSites(fileName string, samples []*erw.Sample, selectedID string) erw.AnalysisManipulator {
	return func(e *erw.ERW) error {
		return erw.WriteSites(fileName, samples, selectedID)
	}
}

// saveFrame returns a function that saves the analysis state to the
// gob file at fileName.
func saveFrame(fileName string) erw.AnalysisManipulator {
	return func(e *erw.ERW) error {
		f, err := os.Create(fileName)
		if err != nil {
			return fmt.Errorf("erw: problem creating results file: %v", err)
		}
		if err := erw.Save(f)(e); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
}

// ListSamples writes a table of the samples in majors that report
// complete major element data, so one can be chosen for analysis.
func ListSamples(w io.Writer, majors *agdb.Majors) error {
	recs, err := majors.Complete()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%-20s %10s  %s\n", "ID", "OXIDES [%]", "ROCK TYPE")
	for _, rec := range recs {
		s := erw.FromAGDB(rec)
		rockType := s.RockType
		if rockType == "" {
			rockType = "unknown"
		}
		fmt.Fprintf(w, "%-20s %10.2f  %s\n", s.ID, s.TotalOxides(), rockType)
	}
	fmt.Fprintf(w, "%d of %d samples report complete major element data.\n",
		len(recs), len(majors.Records))
	return nil
}

// loadSaved loads an analysis saved by a previous run, restoring the
// performance indicators if the save predates them.
func loadSaved(framePath string) (*erw.ERW, error) {
	f, err := os.Open(framePath)
	if err != nil {
		return nil, fmt.Errorf("erw: problem opening saved analysis: %v", err)
	}
	defer f.Close()
	e := new(erw.ERW)
	if err := erw.Load(f)(e); err != nil {
		return nil, err
	}
	if e.Indicators == nil && e.Frame != nil {
		if err := erw.ExtractIndicators()(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// RenderChart renders the weathering summary figure from the analysis
// state saved at framePath, without re-running the simulation.
func RenderChart(framePath, chartPath string, width, height vg.Length) error {
	e, err := loadSaved(framePath)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"frame": framePath,
		"chart": chartPath,
	}).Info("rendering chart from saved analysis")
	return erw.WriteChart(chartPath, width, height)(e)
}

// RenderReport renders the plain-text analysis report from the
// analysis state saved at framePath, without re-running the
// simulation.
func RenderReport(framePath, reportPath string) error {
	e, err := loadSaved(framePath)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"frame":  framePath,
		"report": reportPath,
	}).Info("rendering report from saved analysis")
	return erw.WriteReport(reportPath)(e)
}
