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

	"github.com/tealeg/xlsx"
)

// WriteWorkbook returns a function that exports the reaction results,
// the summary indicators, and the sample description to an xlsx
// workbook at fileName.
func WriteWorkbook(fileName string) AnalysisManipulator {
	return func(e *ERW) error {
		if e.Frame == nil {
			return fmt.Errorf("erw: no simulation results to export")
		}
		f := xlsx.NewFile()
		if err := addResultsSheet(f, e.Frame); err != nil {
			return fmt.Errorf("erw: problem creating workbook: %v", err)
		}
		if e.Indicators != nil {
			if err := addIndicatorSheet(f, e.Indicators); err != nil {
				return fmt.Errorf("erw: problem creating workbook: %v", err)
			}
		}
		if e.Sample != nil {
			if err := addSampleSheet(f, e.Sample); err != nil {
				return fmt.Errorf("erw: problem creating workbook: %v", err)
			}
		}
		if err := f.Save(fileName); err != nil {
			return fmt.Errorf("erw: problem writing workbook: %v", err)
		}
		return nil
	}
}

// addResultsSheet writes one row per reaction step with a column for
// each result variable.
func addResultsSheet(f *xlsx.File, frame *Frame) error {
	sheet, err := f.AddSheet("Results")
	if err != nil {
		return err
	}
	header := sheet.AddRow()
	header.AddCell().SetString("Step")
	for _, name := range frame.Names {
		header.AddCell().SetString(name)
	}
	for i := 0; i < frame.Steps(); i++ {
		row := sheet.AddRow()
		row.AddCell().SetInt(i + 1)
		for _, name := range frame.Names {
			row.AddCell().SetFloat(frame.Data[name][i])
		}
	}
	return nil
}

func addIndicatorSheet(f *xlsx.File, ind *Indicators) error {
	sheet, err := f.AddSheet("Indicators")
	if err != nil {
		return err
	}
	num := func(name string, v float64) {
		row := sheet.AddRow()
		row.AddCell().SetString(name)
		row.AddCell().SetFloat(v)
	}
	str := func(name, v string) {
		row := sheet.AddRow()
		row.AddCell().SetString(name)
		row.AddCell().SetString(v)
	}
	num("Initial pH", ind.InitialPH)
	num("Final pH", ind.FinalPH)
	num("pH Change", ind.DeltaPH)
	num("Ca Release (mmol/L)", ind.CaRelease)
	num("Mg Release (mmol/L)", ind.MgRelease)
	num("Total Cation Release (mmol/L)", ind.TotalCationRelease)
	num("CO2 Sequestration (mg CO2/L)", ind.CO2Sequestration)
	num("Alkalinity Generation (meq/L)", ind.AlkalinityGenerated)
	num("Calcite SI", ind.CalciteSI)
	num("Dolomite SI", ind.DolomiteSI)
	str("pH Buffering Capacity", ind.PHBuffering)
	str("Cation Supply Rate", ind.CationSupply)
	str("CO2 Sequestration Potential", ind.CO2Potential)
	return nil
}

func addSampleSheet(f *xlsx.File, s *Sample) error {
	sheet, err := f.AddSheet("Sample")
	if err != nil {
		return err
	}
	str := func(name, v string) {
		row := sheet.AddRow()
		row.AddCell().SetString(name)
		row.AddCell().SetString(v)
	}
	num := func(name string, v float64) {
		row := sheet.AddRow()
		row.AddCell().SetString(name)
		row.AddCell().SetFloat(v)
	}
	str("Sample ID", s.ID)
	str("Rock Type", s.RockType)
	num("Latitude", s.Latitude)
	num("Longitude", s.Longitude)
	for _, oxide := range ReportOxides {
		if v, ok := s.Oxide(oxide); ok {
			num(oxide+" (wt%)", v)
		}
	}
	return nil
}
