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
	"path/filepath"
	"strings"

	"github.com/lnashier/viper"
	"github.com/rockmodel/erw"
	"github.com/rockmodel/erw/phreeqc"
	"github.com/spf13/cast"
)

// checkOutputVars removes end lines and expands environment
// variables in the output variables.
func checkOutputVars(vars map[string]string) (map[string]string, error) {
	if len(vars) == 0 {
		return nil, fmt.Errorf("there are no variables specified for output. Please fill in " +
			"the OutputVariables configuration and try again.")
	}
	for k, v := range vars {
		v = strings.Replace(v, "\r\n", " ", -1)
		v = strings.Replace(v, "\n", " ", -1)
		vars[os.ExpandEnv(k)] = os.ExpandEnv(v)
	}
	return vars, nil
}

// expandStringSlice expands the environment variables in a slice of strings.
func expandStringSlice(s []string) []string {
	for i := 0; i < len(s); i++ {
		s[i] = os.ExpandEnv(s[i])
	}
	return s
}

// checkOutputDir makes sure the output directory is specified, expands
// any environment variables in it, and creates it if it doesn't exist.
func checkOutputDir(dir string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf(`you need to specify an output directory configuration variable (for example: OutputDir="erw_output")`)
	}
	dir = os.ExpandEnv(dir)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return dir, fmt.Errorf("erw: problem creating the OutputDir: %v", err)
	}
	return dir, nil
}

// outputPath places name inside dir unless name is already an absolute
// path, expanding any environment variables.
func outputPath(dir, name string) string {
	name = os.ExpandEnv(name)
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// checkLogFile fills in a default value for the log file path if one isn't
// specified.
func checkLogFile(logFile, frameFile string) string {
	if logFile == "" {
		logFile = strings.TrimSuffix(frameFile, filepath.Ext(frameFile)) + ".log"
	}
	return logFile
}

// checkScenario loads the weathering conditions from the TOML file at
// path, or returns the default scenario if no file is specified.
func checkScenario(path string) (*erw.Scenario, error) {
	if path == "" {
		return erw.DefaultScenario(), nil
	}
	return erw.LoadScenario(path)
}

// phreeqcClient assembles a PHREEQC solver client from the
// configuration.
func phreeqcClient(cfg *viper.Viper) (*phreeqc.Client, error) {
	timeout, err := cast.ToDurationE(cfg.Get("Phreeqc.Timeout"))
	if err != nil {
		return nil, fmt.Errorf("erw: reading 'Phreeqc.Timeout': %v", err)
	}
	return &phreeqc.Client{
		ProgramPath:  os.ExpandEnv(cfg.GetString("Phreeqc.Program")),
		DatabasePath: os.ExpandEnv(cfg.GetString("Phreeqc.Database")),
		DatabaseDirs: expandStringSlice(cfg.GetStringSlice("Phreeqc.DatabaseDirs")),
		Timeout:      timeout,
	}, nil
}

// GetStringMapString returns a map[string]string from a viper configuration,
// accounting for the fact that it might be a json object if it was set
// from a command line argument.
func GetStringMapString(varName string, cfg *viper.Viper) map[string]string {
	i := cfg.Get(varName)
	switch i.(type) {
	case map[string]string:
		return i.(map[string]string)
	case map[string]interface{}:
		return cast.ToStringMapString(i)
	case string:
		b := bytes.NewBuffer(([]byte)(i.(string)))
		d := json.NewDecoder(b)
		o := make(map[string]string)
		if err := d.Decode(&o); err != nil {
			panic(err)
		}
		return o
	default:
		panic(fmt.Errorf("invalid type for GetStringMapString variable %s: %#v", varName, i))
	}
}
