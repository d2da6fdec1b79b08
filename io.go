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
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/Knetic/govaluate"
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	goshp "github.com/jonas-p/go-shp"
	"gonum.org/v1/gonum/floats"
)

// Outputter holds the configuration for derived output variables.
//
// outputVariables maps the names of the variables for which data
// should be returned to expressions that define how the requested
// data should be calculated. These expressions can utilize variables
// built into the model, user-defined variables, and functions.
//
// modelVariables is automatically generated based on the model
// variables that are required to calculate the requested output
// variables.
//
// Functions are defined in the outputFunctions variable.
type Outputter struct {
	outputVariables map[string]string
	modelVariables  []string
	outputFunctions map[string]govaluate.ExpressionFunction
}

// DefaultOutputVariables returns the derived variables included in
// every analysis: total cation release [mmol/L], sequestered CO2
// [mg/L], and generated alkalinity [meq/L].
func DefaultOutputVariables() map[string]string {
	return map[string]string{
		"TotalCations":   "(Ca + Mg) * 1000",
		"CO2Sequestered": "HCO3 * 44000",
		"AlkalinityGen":  "(HCO3 + 2 * CO3) * 1000",
	}
}

// NewOutputter initializes a new Outputter holder and adds a set of
// default output functions. Default functions include:
//
// 'exp(x)' which applies the exponential function e^x.
//
// 'log10(x)' which applies the base-10 logarithm.
//
// 'sum(x1, x2, ...)' which sums its arguments.
//
// If outputVariables is empty, DefaultOutputVariables is used.
func NewOutputter(outputVariables map[string]string, outputFunctions map[string]govaluate.ExpressionFunction) (*Outputter, error) {
	defaultOutputFuncs := map[string]govaluate.ExpressionFunction{
		"exp": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("erw: got %d arguments for function 'exp', but needs 1", len(arg))
			}
			return (float64)(math.Exp(arg[0].(float64))), nil
		},
		"log10": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("erw: got %d arguments for function 'log10', but needs 1", len(arg))
			}
			return (float64)(math.Log10(arg[0].(float64))), nil
		},
		"sum": func(arg ...interface{}) (interface{}, error) {
			if len(arg) == 0 {
				return nil, fmt.Errorf("erw: got no arguments for function 'sum', but needs at least 1")
			}
			s := make([]float64, len(arg))
			for i, a := range arg {
				v, ok := a.(float64)
				if !ok {
					return nil, fmt.Errorf("erw: argument %d to function 'sum' is not a number", i+1)
				}
				s[i] = v
			}
			return floats.Sum(s), nil
		},
	}

	for key, val := range outputFunctions {
		defaultOutputFuncs[key] = val
	}

	if len(outputVariables) == 0 {
		outputVariables = DefaultOutputVariables()
	}

	o := Outputter{
		outputVariables: outputVariables,
		outputFunctions: defaultOutputFuncs,
	}

	err := o.checkForDerivatives()
	return &o, err
}

// OutputVariables returns the names of the derived output variables in
// alphabetical order.
func (o *Outputter) OutputVariables() []string {
	names := make([]string, 0, len(o.outputVariables))
	for name := range o.outputVariables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// removeDuplicates removes all duplicated strings from a slice,
// returning a slice that contains only unique strings.
func removeDuplicates(s []string) []string {
	result := make([]string, 0, len(s))
	seen := make(map[string]string)
	for _, val := range s {
		if _, ok := seen[val]; !ok {
			result = append(result, val)
			seen[val] = val
		}
	}
	return result
}

func checkPrefix(s string) (bool, error) {
	var isPrefix bool
	var err error
	if string(s) != "" {
		isPrefix, err = regexp.MatchString("[a-zA-Z0-9_]", string(s[0]))
		if err != nil {
			return false, err
		}
	} else {
		isPrefix = false
	}
	return isPrefix, nil
}

func checkSuffix(s string) (bool, error) {
	var isSuffix bool
	var err error
	if string(s) != "" {
		isSuffix, err = regexp.MatchString("[a-zA-Z0-9_]", string(s[len(s)-1]))
		if err != nil {
			return false, err
		}
	} else {
		isSuffix = false
	}
	return isSuffix, nil
}

// checkForDerivatives identifies the unique result columns that are
// required to calculate the requested output variables. Any
// user-defined output variable showing up in a subsequent expression
// is replaced by its corresponding expression.
func (o *Outputter) checkForDerivatives() error {
	o.modelVariables = make([]string, 0, len(o.outputVariables))
	for key, val := range o.outputVariables {
		expression, err := govaluate.NewEvaluableExpressionWithFunctions(val, o.outputFunctions)
		if err != nil {
			return fmt.Errorf("erw o.outputVariables: %v", err)
		}
		uniqueVars := removeDuplicates(expression.Vars())
		o.modelVariables = append(o.modelVariables, uniqueVars...)
		// For each variable name identified in an output variable
		// expression, check if the variable is defined in terms of
		// other variables within a separate expression. If so, any
		// instance of the variable name in the current expression is
		// replaced by the expression that defines it.
		var isSuffix bool
		var isPrefix bool
		for _, uniqueVar := range uniqueVars {
			if o.outputVariables[uniqueVar] != "" && o.outputVariables[uniqueVar] != uniqueVar {
				// In order to verify that an instance of a variable name is
				// not part of a longer variable name, the text preceding and
				// following the variable name is analyzed. For example, 'Ca'
				// is not a standalone variable in an expression if it
				// appears as 'SICalcite'.
				splitVal := strings.Split(val, uniqueVar)
				for i := 0; i < len(splitVal)-1; i++ {
					isSuffix, err = checkSuffix(splitVal[i])
					if err != nil {
						return fmt.Errorf("erw o.outputVariables: %v", err)
					}
					isPrefix, err = checkPrefix(splitVal[i+1])
					if err != nil {
						return fmt.Errorf("erw o.outputVariables: %v", err)
					}
					splitVal[i] = splitVal[i] + uniqueVar
					if !isSuffix && !isPrefix {
						splitVal[i] = strings.Replace(splitVal[i], uniqueVar, "("+o.outputVariables[uniqueVar]+")", -1)
					}
				}
				o.outputVariables[key] = strings.Join(splitVal, "")
				return o.checkForDerivatives()
			}
		}
	}
	o.modelVariables = removeDuplicates(o.modelVariables)
	return nil
}

// checkModelVars checks whether the input variables required to
// calculate the requested output variables are result columns an
// engine can produce.
func checkModelVars(g ...string) error {
	available := make(map[string]uint8)
	for _, n := range baseColumns {
		available[n] = 0
	}
	for _, n := range extraColumns {
		available[n] = 0
	}
	for _, v := range g {
		if _, ok := available[v]; !ok {
			return fmt.Errorf("erw: undefined variable name '%s'", v)
		}
	}
	return nil
}

// checkOutputNames checks if any output variable names include
// characters that cannot be used in expressions referencing them.
func checkOutputNames(o map[string]string) error {
	for key := range o {
		ok, err := regexp.MatchString("^[A-Za-z]\\w*$", key)
		if err != nil {
			panic(err)
		}
		if !ok {
			return fmt.Errorf("erw: output variable name '%s' includes unsupported characters", key)
		}
	}
	return nil
}

// CheckOutputVars ensures the output variables can be calculated.
func (o *Outputter) CheckOutputVars() AnalysisManipulator {
	return func(e *ERW) error {
		if err := checkModelVars(o.modelVariables...); err != nil {
			return err
		}
		return checkOutputNames(o.outputVariables)
	}
}

// Derive returns a function that evaluates the output variable
// expressions at every reaction step and appends the derived series to
// the results frame.
func (o *Outputter) Derive() AnalysisManipulator {
	return func(e *ERW) error {
		if e.Frame == nil {
			return fmt.Errorf("erw: no simulation results to derive output variables from")
		}
		for _, name := range o.OutputVariables() {
			expression, err := govaluate.NewEvaluableExpressionWithFunctions(o.outputVariables[name], o.outputFunctions)
			if err != nil {
				return fmt.Errorf("erw o.outputVariables: %v", err)
			}
			vars := removeDuplicates(expression.Vars())
			out := make([]float64, e.Frame.Steps())
			for i := range out {
				params := make(map[string]interface{}, len(vars))
				for _, v := range vars {
					val, err := e.Frame.Value(v, i)
					if err != nil {
						return fmt.Errorf("erw: problem deriving output variable '%s': %v", name, err)
					}
					params[v] = val
				}
				result, err := expression.Evaluate(params)
				if err != nil {
					return fmt.Errorf("erw: problem deriving output variable '%s': %v", name, err)
				}
				v, ok := result.(float64)
				if !ok {
					return fmt.Errorf("erw: output variable '%s' does not evaluate to a number", name)
				}
				out[i] = v
			}
			e.Frame.SetColumn(name, out)
		}
		return nil
	}
}

// wgs84WKT is the projection definition written alongside the site
// shapefile. Sample coordinates are WGS84 degrees.
const wgs84WKT = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137,298.257223563]],PRIMEM["Greenwich",0],UNIT["Degree",0.017453292519943295]]`

// WriteSites writes a point shapefile of sample locations with their
// weathering-relevant composition. The sample with the given
// selectedID is flagged in the Selected field.
func WriteSites(fileName string, samples []*Sample, selectedID string) error {
	fields := []goshp.Field{
		goshp.StringField("SampleID", 32),
		goshp.StringField("RockType", 64),
		goshp.FloatField("SiO2", 14, 8),
		goshp.FloatField("CaO", 14, 8),
		goshp.FloatField("MgO", 14, 8),
		goshp.NumberField("Selected", 1),
	}

	// remove extension and replace it with .shp
	fileBase := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	fileName = fileBase + ".shp"
	shape, err := shp.NewEncoderFromFields(fileName, goshp.POINT, fields...)
	if err != nil {
		return fmt.Errorf("erw: error creating site shapefile: %v", err)
	}
	for _, s := range samples {
		selected := 0
		if s.ID == selectedID {
			selected = 1
		}
		err = shape.EncodeFields(geom.Point{X: s.Longitude, Y: s.Latitude},
			s.ID, s.RockType,
			s.OxideOrDefault("SiO2"), s.OxideOrDefault("CaO"), s.OxideOrDefault("MgO"),
			selected)
		if err != nil {
			return fmt.Errorf("erw: error writing site shapefile: %v", err)
		}
	}
	shape.Close()

	// Create .prj file
	f, err := os.Create(fileBase + ".prj")
	if err != nil {
		return fmt.Errorf("erw: error creating site prj file: %v", err)
	}
	fmt.Fprint(f, wgs84WKT)
	return f.Close()
}
