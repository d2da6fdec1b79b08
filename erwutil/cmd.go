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

package erwutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/lnashier/viper"
	"github.com/rockmodel/erw"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gonum.org/v1/plot/vg"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to ERW.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "MajorsFile",
			usage: `
              MajorsFile is the path to the whole-rock major element table
              (BV_WholeRock_Majors.txt in the AGDB text release, or an .xlsx
              workbook holding the same columns).`,
			defaultVal: "${AGDB_DATA}/BV_WholeRock_Majors.txt",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), samplesCmd.Flags()},
		},
		{
			name: "MineralogyFile",
			usage: `
              MineralogyFile is the path to the XRD mineralogy table
              (Mineralogy.txt). The observed mineralogy of the analyzed sample
              is included in the report when the table is available.`,
			defaultVal: "${AGDB_DATA}/Mineralogy.txt",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "TraceFile",
			usage: `
              TraceFile is the path to a trace element chemistry table
              (e.g. Chem_A_Br.txt). It is only used to note trace element
              availability in the report.`,
			defaultVal: "${AGDB_DATA}/Chem_A_Br.txt",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "ExcelSheet",
			usage: `
              ExcelSheet is the name of the worksheet holding the majors table
              when MajorsFile is an .xlsx workbook. If it is empty, the first
              worksheet is used.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), samplesCmd.Flags()},
		},
		{
			name: "SampleID",
			usage: `
              SampleID selects the rock sample to analyze. If it is empty, the
              first sample with complete major element data is used. Run
              'erw samples' to list the available samples.`,
			shorthand:  "s",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "ScenarioFile",
			usage: `
              ScenarioFile is the path to a TOML file specifying the weathering
              conditions. If it is empty, the default scenario is used:
              rainwater in equilibrium with atmospheric CO2 reacting with the
              rock through seven progressive acid additions.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputDir",
			usage: `
              OutputDir is the directory where the analysis products are
              written. It is created if it doesn't exist, and relative output
              file names are placed inside it.`,
			defaultVal: "erw_output",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), chartCmd.Flags(), reportCmd.Flags()},
		},
		{
			name: "ReportFile",
			usage: `
              ReportFile is the name of the plain-text analysis report.`,
			defaultVal: "Enhanced_Rock_Weathering_Report.txt",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), reportCmd.Flags()},
		},
		{
			name: "ChartFile",
			usage: `
              ChartFile is the name of the nine-panel weathering summary
              figure (PNG).`,
			defaultVal: "Enhanced_Rock_Weathering_Analysis.png",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), chartCmd.Flags()},
		},
		{
			name: "WorkbookFile",
			usage: `
              WorkbookFile is the name of the Excel workbook holding the
              reaction path results, the performance indicators, and the
              sample composition.`,
			defaultVal: "Enhanced_Rock_Weathering_Results.xlsx",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "SitesFile",
			usage: `
              SitesFile is the name of the point shapefile of sample
              locations.`,
			defaultVal: "sample_sites.shp",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "FrameFile",
			usage: `
              FrameFile is the name of the gob file holding the saved analysis
              state, from which the chart and report commands re-render their
              products without re-running the simulation.`,
			defaultVal: "erw_results.gob",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), chartCmd.Flags(), reportCmd.Flags()},
		},
		{
			name: "OutputVariables",
			usage: `
              OutputVariables specifies variables derived from the simulation
              results as expressions of the result columns, for example
              "(Ca + Mg) * 1000". The derived series are appended to the
              results and exported with them.`,
			defaultVal: erw.DefaultOutputVariables(),
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Engine",
			usage: `
              Engine selects the chemistry engine. 'phreeqc' runs the external
              PHREEQC solver, 'synthetic' generates idealized weathering
              trends scaled by the sample composition, and 'auto' uses PHREEQC
              when it is installed and falls back to synthetic otherwise.`,
			defaultVal: "auto",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Phreeqc.Program",
			usage: `
              Phreeqc.Program is the PHREEQC batch executable. If it is not an
              absolute path, it is looked up in the executable search path.`,
			defaultVal: "phreeqc",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Phreeqc.Database",
			usage: `
              Phreeqc.Database is the path to the thermodynamic database the
              solver should load. If it is empty, the standard install
              locations are probed for wateq4f.dat, phreeqc.dat, or llnl.dat,
              in that order.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Phreeqc.DatabaseDirs",
			usage: `
              Phreeqc.DatabaseDirs lists additional directories to probe for a
              thermodynamic database when Phreeqc.Database is not set.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "Phreeqc.Timeout",
			usage: `
              Phreeqc.Timeout is the maximum duration of one solver run, in Go
              duration format (e.g. '5m').`,
			defaultVal: "5m",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "ChartWidth",
			usage: `
              ChartWidth is the width of the summary figure [inches].`,
			defaultVal: 12.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), chartCmd.Flags()},
		},
		{
			name: "ChartHeight",
			usage: `
              ChartHeight is the height of the summary figure [inches].`,
			defaultVal: 9.0,
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), chartCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the desired logfile location. If LogFile
              is left blank, the logfile will be saved next to the saved
              analysis state.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("ERW")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(option.defaultVal)
				s := string(b.Bytes())
				if option.shorthand == "" {
					set.String(option.name, s, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, s, option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(samplesCmd)
	Root.AddCommand(chartCmd)
	Root.AddCommand(reportCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("erw: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "erw",
	Short: "A rock weathering analysis model.",
	Long: `ERW estimates the acid neutralization, cation release, and carbon dioxide
sequestration potential of rock samples subjected to enhanced weathering.
Use the subcommands specified below to access the model functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'ERW_var' where 'var' is the
name of the variable to be set. Many configuration variables are additionally
allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of ERW.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("ERW v%s\n", erw.Version)
	},
	DisableAutoGenTag: true,
}

// runCmd is a command that runs a weathering analysis.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a weathering analysis.",
	Long: `run carries out one complete weathering analysis: it loads the rock
sample database, selects a sample, translates its composition into a
normative mineral assemblage, reacts the assemblage with progressively
added acid, and renders the report, chart, workbook, site shapefile,
and saved analysis state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputDir, err := checkOutputDir(Cfg.GetString("OutputDir"))
		if err != nil {
			return err
		}
		outputVars, err := checkOutputVars(GetStringMapString("OutputVariables", Cfg))
		if err != nil {
			return err
		}
		scenario, err := checkScenario(os.ExpandEnv(Cfg.GetString("ScenarioFile")))
		if err != nil {
			return err
		}
		client, err := phreeqcClient(Cfg)
		if err != nil {
			return err
		}
		engine, err := ChooseEngine(Cfg.GetString("Engine"), client)
		if err != nil {
			return err
		}
		framePath := outputPath(outputDir, Cfg.GetString("FrameFile"))

		return Run(
			cmd,
			checkLogFile(Cfg.GetString("LogFile"), framePath),
			Cfg.GetString("SampleID"),
			outputVars,
			engine,
			scenario,
			os.ExpandEnv(Cfg.GetString("MajorsFile")),
			os.ExpandEnv(Cfg.GetString("MineralogyFile")),
			os.ExpandEnv(Cfg.GetString("TraceFile")),
			Cfg.GetString("ExcelSheet"),
			outputPath(outputDir, Cfg.GetString("ReportFile")),
			outputPath(outputDir, Cfg.GetString("ChartFile")),
			outputPath(outputDir, Cfg.GetString("WorkbookFile")),
			outputPath(outputDir, Cfg.GetString("SitesFile")),
			framePath,
			vg.Length(Cfg.GetFloat64("ChartWidth"))*vg.Inch,
			vg.Length(Cfg.GetFloat64("ChartHeight"))*vg.Inch)
	},
	DisableAutoGenTag: true,
}

// samplesCmd is a command that lists the samples a simulation could
// analyze.
var samplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "List the analyzable rock samples.",
	Long: `samples lists the rock samples in the majors table that report complete
major element data, so one can be chosen with the --SampleID flag.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		majors, err := LoadMajors(os.ExpandEnv(Cfg.GetString("MajorsFile")), Cfg.GetString("ExcelSheet"))
		if err != nil {
			return err
		}
		return ListSamples(cmd.OutOrStdout(), majors)
	},
	DisableAutoGenTag: true,
}

// chartCmd is a command that re-renders the summary figure from a
// saved analysis.
var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Re-render the weathering summary figure.",
	Long: `chart renders the nine-panel weathering summary figure from the analysis
state saved by a previous run, without re-running the simulation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputDir, err := checkOutputDir(Cfg.GetString("OutputDir"))
		if err != nil {
			return err
		}
		return RenderChart(
			outputPath(outputDir, Cfg.GetString("FrameFile")),
			outputPath(outputDir, Cfg.GetString("ChartFile")),
			vg.Length(Cfg.GetFloat64("ChartWidth"))*vg.Inch,
			vg.Length(Cfg.GetFloat64("ChartHeight"))*vg.Inch)
	},
	DisableAutoGenTag: true,
}

// reportCmd is a command that re-renders the text report from a saved
// analysis.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Re-render the analysis report.",
	Long: `report renders the plain-text analysis report from the analysis state
saved by a previous run, without re-running the simulation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputDir, err := checkOutputDir(Cfg.GetString("OutputDir"))
		if err != nil {
			return err
		}
		return RenderReport(
			outputPath(outputDir, Cfg.GetString("FrameFile")),
			outputPath(outputDir, Cfg.GetString("ReportFile")))
	},
	DisableAutoGenTag: true,
}
