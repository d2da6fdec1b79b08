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

// Package agdb reads the USGS Alaska Geochemical Database (AGDB)
// distribution tables: whole-rock major element chemistry, XRD
// mineralogy, and trace element chemistry. The tables are
// comma-delimited Latin-1 text files.
package agdb

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Record is one whole-rock geochemistry sample.
type Record struct {
	// ID is the database sample identifier.
	ID string

	// RockType is the lithology description, if reported.
	RockType string

	// Latitude and Longitude are in WGS84 degrees; NaN when not
	// reported.
	Latitude, Longitude float64

	// Oxides holds major element concentrations [weight percent],
	// keyed by oxide name (e.g. "SiO2"). Missing measurements are
	// NaN.
	Oxides map[string]float64
}

// Majors is a whole-rock major element table.
type Majors struct {
	Records []*Record
}

// FieldMap names the columns of interest in a majors table so that
// databases with layouts other than the AGDB can be adapted.
type FieldMap struct {
	// ID, RockType, Latitude, and Longitude are the metadata
	// column names. Only ID is required to be present in the table.
	ID, RockType, Latitude, Longitude string

	// Oxides maps oxide names (e.g. "SiO2") to the columns holding
	// their concentrations [weight percent].
	Oxides map[string]string
}

// AGDB4Fields returns the column layout of the AGDB release 4
// whole-rock majors table (BV_WholeRock_Majors.txt).
func AGDB4Fields() FieldMap {
	return FieldMap{
		ID:        "DDPD_ID",
		RockType:  "ROCKTYPE",
		Latitude:  "LATITUDE",
		Longitude: "LONGITUDE",
		Oxides: map[string]string{
			"SiO2":  "SiO2_pct",
			"TiO2":  "TiO2_pct",
			"Al2O3": "Al2O3_pct",
			"Fe2O3": "Fe2O3_pct",
			"MgO":   "MgO_pct",
			"CaO":   "CaO_pct",
			"Na2O":  "Na2O_pct",
			"K2O":   "K2O_pct",
			"MnO":   "MnO_pct",
			"P2O5":  "P2O5_pct",
			"LOI":   "LOI_pct",
		},
	}
}

// requiredOxides are the oxides a sample must report to be simulated.
// Aluminum is not required; it is estimated when absent.
var requiredOxides = []string{"SiO2", "CaO", "MgO", "Na2O", "K2O", "Fe2O3"}

// ReadMajors loads a whole-rock majors table from the comma-delimited
// Latin-1 text file at path, using fields to locate the columns of
// interest. Blank and unparseable numeric cells become NaN.
func ReadMajors(path string, fields FieldMap) (*Majors, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("agdb: problem opening majors table: %v", err)
	}
	defer f.Close()
	rows, err := tableReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("agdb: problem reading majors table: %v", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("agdb: majors table is empty")
	}
	return parseMajors(rows, fields)
}

// parseMajors converts a header row plus data rows into records.
func parseMajors(rows [][]string, fields FieldMap) (*Majors, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("agdb: majors table has no data rows")
	}
	cols := columnIndex(rows[0])
	idCol, ok := cols[fields.ID]
	if !ok {
		return nil, fmt.Errorf("agdb: majors table has no column '%s'", fields.ID)
	}
	m := &Majors{Records: make([]*Record, 0, len(rows)-1)}
	for _, row := range rows[1:] {
		rec := &Record{
			ID:        cell(row, idCol),
			RockType:  cell(row, lookup(cols, fields.RockType)),
			Latitude:  number(cell(row, lookup(cols, fields.Latitude))),
			Longitude: number(cell(row, lookup(cols, fields.Longitude))),
			Oxides:    make(map[string]float64, len(fields.Oxides)),
		}
		if rec.ID == "" {
			continue
		}
		for oxide, col := range fields.Oxides {
			j, ok := cols[col]
			if !ok {
				continue
			}
			rec.Oxides[oxide] = number(cell(row, j))
		}
		m.Records = append(m.Records, rec)
	}
	if len(m.Records) == 0 {
		return nil, fmt.Errorf("agdb: majors table has no data rows")
	}
	return m, nil
}

// Complete returns the samples that report all of the oxides a
// simulation requires.
func (m *Majors) Complete() ([]*Record, error) {
	var out []*Record
	for _, rec := range m.Records {
		if complete(rec) {
			out = append(out, rec)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("agdb: no samples with complete major element data")
	}
	return out, nil
}

func complete(rec *Record) bool {
	for _, oxide := range requiredOxides {
		v, ok := rec.Oxides[oxide]
		if !ok || math.IsNaN(v) {
			return false
		}
	}
	return true
}

// Sample returns the record with the given ID.
func (m *Majors) Sample(id string) (*Record, error) {
	for _, rec := range m.Records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("agdb: no sample with ID '%s'", id)
}

// Mineral is one XRD mineralogy observation.
type Mineral struct {
	Name string

	// Abundance is in weight percent; NaN when the mineral was
	// identified but not quantified.
	Abundance float64
}

// ReadMineralogy loads the AGDB mineralogy table (Mineralogy.txt) and
// groups the observations by sample ID.
func ReadMineralogy(path string) (map[string][]Mineral, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("agdb: problem opening mineralogy table: %v", err)
	}
	defer f.Close()
	rows, err := tableReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("agdb: problem reading mineralogy table: %v", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("agdb: mineralogy table has no data rows")
	}
	cols := columnIndex(rows[0])
	idCol, ok := cols["DDPD_ID"]
	if !ok {
		return nil, fmt.Errorf("agdb: mineralogy table has no column 'DDPD_ID'")
	}
	mineralCol := lookup(cols, "MINERAL")
	amountCol := lookup(cols, "AMOUNT_pct")
	out := make(map[string][]Mineral)
	for _, row := range rows[1:] {
		id := cell(row, idCol)
		name := cell(row, mineralCol)
		if id == "" || name == "" {
			continue
		}
		out[id] = append(out[id], Mineral{
			Name:      name,
			Abundance: number(cell(row, amountCol)),
		})
	}
	return out, nil
}

// Trace records which samples have trace element chemistry available.
type Trace struct {
	ids map[string]bool
}

// ReadTrace loads a trace element table (e.g. Chem_A_Br.txt) and
// indexes the sample IDs that appear in it.
func ReadTrace(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("agdb: problem opening trace element table: %v", err)
	}
	defer f.Close()
	rows, err := tableReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("agdb: problem reading trace element table: %v", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("agdb: trace element table has no data rows")
	}
	cols := columnIndex(rows[0])
	idCol, ok := cols["DDPD_ID"]
	if !ok {
		return nil, fmt.Errorf("agdb: trace element table has no column 'DDPD_ID'")
	}
	t := &Trace{ids: make(map[string]bool)}
	for _, row := range rows[1:] {
		if id := cell(row, idCol); id != "" {
			t.ids[id] = true
		}
	}
	return t, nil
}

// Has reports whether the table contains any rows for the given
// sample.
func (t *Trace) Has(id string) bool {
	if t == nil {
		return false
	}
	return t.ids[id]
}

// tableReader configures a CSV reader for the Latin-1 encoded AGDB
// text tables. The tables have ragged rows and unescaped quotes in
// description fields.
func tableReader(f io.Reader) *csv.Reader {
	r := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(f))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	return r
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for j, name := range header {
		cols[strings.TrimSpace(name)] = j
	}
	return cols
}

func lookup(cols map[string]int, name string) int {
	if j, ok := cols[name]; ok {
		return j
	}
	return -1
}

// cell returns the trimmed value at column j, or "" when the row is
// short or the column is absent.
func cell(row []string, j int) string {
	if j < 0 || j >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[j])
}

// number parses a numeric cell. Blank cells and the sentinel text the
// AGDB uses for censored or missing measurements (e.g. "<0.01",
// "N.D.") become NaN.
func number(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
