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

	"github.com/rockmodel/erw/agdb"
)

// ReportOxides are the major element oxides included in reports and
// composition summaries, in reporting order.
var ReportOxides = []string{"SiO2", "Al2O3", "Fe2O3", "MgO", "CaO", "Na2O", "K2O"}

// defaultOxides are the composition values [weight percent] used when
// a simulation needs an oxide the sample does not report.
var defaultOxides = map[string]float64{
	"SiO2":  60.0,
	"CaO":   5.0,
	"MgO":   3.0,
	"Na2O":  3.0,
	"K2O":   2.0,
	"Fe2O3": 5.0,
	"Al2O3": 15.0,
}

// Sample holds the composition and location of a rock geochemistry
// sample.
type Sample struct {
	// ID is the database identifier of the sample.
	ID string

	// RockType is the lithology description, if reported.
	RockType string

	// Latitude and Longitude give the sample location in WGS84
	// degrees.
	Latitude, Longitude float64

	// Oxides holds major element concentrations [weight percent],
	// keyed by oxide name (e.g. "SiO2"). Measurements that are
	// missing from the source table are either absent from the map
	// or NaN.
	Oxides map[string]float64
}

// Check ensures the sample can be analyzed.
func (s *Sample) Check() error {
	if s == nil {
		return fmt.Errorf("erw: sample is nil")
	}
	if s.ID == "" {
		return fmt.Errorf("erw: sample has no ID")
	}
	return nil
}

// Oxide returns the measured concentration of the named oxide
// [weight percent] and whether it was measured.
func (s *Sample) Oxide(name string) (float64, bool) {
	v, ok := s.Oxides[name]
	if !ok || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// OxideOrDefault returns the measured concentration of the named oxide
// [weight percent], falling back to the default composition when the
// oxide was not measured.
func (s *Sample) OxideOrDefault(name string) float64 {
	if v, ok := s.Oxide(name); ok {
		return v
	}
	return defaultOxides[name]
}

// TotalOxides sums the measured reporting oxides [weight percent].
func (s *Sample) TotalOxides() float64 {
	var total float64
	for _, name := range ReportOxides {
		if v, ok := s.Oxide(name); ok {
			total += v
		}
	}
	return total
}

// FromAGDB converts a whole-rock geochemistry record to a Sample.
func FromAGDB(rec *agdb.Record) *Sample {
	s := &Sample{
		ID:        rec.ID,
		RockType:  rec.RockType,
		Latitude:  rec.Latitude,
		Longitude: rec.Longitude,
		Oxides:    make(map[string]float64, len(rec.Oxides)),
	}
	for name, v := range rec.Oxides {
		s.Oxides[name] = v
	}
	return s
}
