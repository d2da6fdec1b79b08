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

package phreeqc

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rockmodel/erw"
)

// columnNames maps selected-output headings punched by the solver to
// result column names.
var columnNames = map[string]string{
	"pH":      erw.PH,
	"pe":      erw.Pe,
	"temp(C)": erw.Temp,

	"m_Ca+2(mol/kgw)":  erw.Ca,
	"m_Mg+2(mol/kgw)":  erw.Mg,
	"m_Na+(mol/kgw)":   erw.Na,
	"m_K+(mol/kgw)":    erw.K,
	"m_Al+3(mol/kgw)":  erw.Al,
	"m_Fe+3(mol/kgw)":  erw.Fe3,
	"m_Fe+2(mol/kgw)":  erw.Fe2,
	"m_SiO2(mol/kgw)":  erw.SiO2,
	"m_HCO3-(mol/kgw)": erw.HCO3,
	"m_CO3-2(mol/kgw)": erw.CO3,

	"si_Calcite":    erw.SICalcite,
	"si_Dolomite":   erw.SIDolomite,
	"si_Gibbsite":   erw.SIGibbsite,
	"si_Quartz":     erw.SIQuartz,
	"si_Anorthite":  erw.SIAnorthite,
	"si_Forsterite": erw.SIForsterite,
	"si_Albite":     erw.SIAlbite,

	"Alk(eq/kgw)": erw.Alkalinity,
}

// stateColumn is the heading of the solver state flag requested by the
// input script; its value distinguishes initial-solution rows from
// reaction rows.
const stateColumn = "state"

// ParseSelectedOutput reads the whitespace-delimited selected output
// punched by a solver run, returning one row per reaction step.
// Initial-solution rows are dropped so that row i holds the state of
// the solution after acid addition step i. Headings that columnNames
// does not cover keep their punched names.
func ParseSelectedOutput(r io.Reader) (*erw.Frame, error) {
	var header []string
	var rows [][]float64
	state := -1
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if header == nil {
			header = fields
			for i, h := range header {
				if h == stateColumn {
					state = i
				}
			}
			continue
		}
		if len(fields) != len(header) {
			return nil, fmt.Errorf("phreeqc: selected output row has %d fields but the header has %d", len(fields), len(header))
		}
		if state >= 0 && fields[state] != "react" {
			continue
		}
		row := make([]float64, len(fields))
		for i, field := range fields {
			if i == state {
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("phreeqc: problem parsing selected output value %q: %v", field, err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("phreeqc: problem reading selected output: %v", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("phreeqc: no simulation output")
	}

	f := erw.NewFrame()
	for i, h := range header {
		if i == state {
			continue
		}
		name := h
		if mapped, ok := columnNames[h]; ok {
			name = mapped
		}
		vals := make([]float64, len(rows))
		for j, row := range rows {
			vals[j] = row[i]
		}
		f.SetColumn(name, vals)
	}
	return f, nil
}
