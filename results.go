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

import "fmt"

// Names of the result columns. Dissolved concentrations are mol/L,
// alkalinity is eq/L, and saturation indices are log10(IAP/K).
const (
	PH   = "pH"
	Pe   = "pe"
	Temp = "temp"

	Ca   = "Ca"
	Mg   = "Mg"
	Na   = "Na"
	K    = "K"
	Al   = "Al"
	Fe3  = "Fe3"
	Fe2  = "Fe2"
	SiO2 = "SiO2"
	HCO3 = "HCO3"
	CO3  = "CO3"

	SICalcite    = "SI_Calcite"
	SIDolomite   = "SI_Dolomite"
	SIGibbsite   = "SI_Gibbsite"
	SIQuartz     = "SI_Quartz"
	SIAnorthite  = "SI_Anorthite"
	SIForsterite = "SI_Forsterite"
	SIAlbite     = "SI_Albite"

	Alkalinity = "Alk"
)

// baseColumns are the result columns every engine produces. Derived
// output variable expressions may reference these names.
var baseColumns = []string{
	PH, Ca, Mg, Na, K, SiO2, HCO3, CO3,
	SICalcite, SIDolomite, SIGibbsite, Alkalinity,
}

// extraColumns are result columns only some engines produce.
var extraColumns = []string{
	Pe, Temp, Al, Fe3, Fe2,
	SIQuartz, SIAnorthite, SIForsterite, SIAlbite,
}

// Frame holds tabular simulation results: one value per reaction step
// in each of a set of named columns.
type Frame struct {
	// Names holds the column names in their original order.
	Names []string

	// Data holds the column values, keyed by column name. Every
	// column has one value per reaction step.
	Data map[string][]float64
}

// NewFrame returns a new empty results frame.
func NewFrame() *Frame {
	return &Frame{Data: make(map[string][]float64)}
}

// SetColumn adds or replaces the named column.
func (f *Frame) SetColumn(name string, vals []float64) {
	if _, ok := f.Data[name]; !ok {
		f.Names = append(f.Names, name)
	}
	f.Data[name] = vals
}

// Has reports whether the frame contains the named column.
func (f *Frame) Has(name string) bool {
	_, ok := f.Data[name]
	return ok
}

// Steps returns the number of reaction steps in the frame.
func (f *Frame) Steps() int {
	if len(f.Names) == 0 {
		return 0
	}
	return len(f.Data[f.Names[0]])
}

// Column returns the values of the named column.
func (f *Frame) Column(name string) ([]float64, error) {
	vals, ok := f.Data[name]
	if !ok {
		return nil, fmt.Errorf("erw: results have no column '%s'", name)
	}
	return vals, nil
}

// Value returns the value of the named column at the given reaction
// step index (starting at zero).
func (f *Frame) Value(name string, step int) (float64, error) {
	vals, err := f.Column(name)
	if err != nil {
		return 0, err
	}
	if step < 0 || step >= len(vals) {
		return 0, fmt.Errorf("erw: results column '%s' has no step %d", name, step)
	}
	return vals[step], nil
}

// Initial returns the value of the named column at the first reaction
// step.
func (f *Frame) Initial(name string) (float64, error) {
	return f.Value(name, 0)
}

// Final returns the value of the named column at the last reaction
// step.
func (f *Frame) Final(name string) (float64, error) {
	return f.Value(name, f.Steps()-1)
}

// head returns a view of the first n steps of the frame. The returned
// frame shares column memory with f.
func (f *Frame) head(n int) *Frame {
	h := &Frame{
		Names: make([]string, len(f.Names)),
		Data:  make(map[string][]float64, len(f.Data)),
	}
	copy(h.Names, f.Names)
	for name, vals := range f.Data {
		if n < len(vals) {
			h.Data[name] = vals[:n]
		} else {
			h.Data[name] = vals
		}
	}
	return h
}
