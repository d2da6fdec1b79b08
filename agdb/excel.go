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

package agdb

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/ctessum/requestcache"
	"github.com/tealeg/xlsx"
)

// workbookCache holds previously opened Microsoft Excel files
// to avoid reading the same file multiple times.
var workbookCache *requestcache.Cache

var loadWorkbookCacheOnce sync.Once

// loadWorkbook loads a Microsoft Excel file from disk, utilizing
// a cache to avoid loading the same file more than once.
func loadWorkbook(fileName string) (*xlsx.File, error) {
	loadWorkbookCacheOnce.Do(func() {
		workbookCache = requestcache.NewCache(func(ctx context.Context, req interface{}) (interface{}, error) {
			filename := req.(string)
			f, err := xlsx.OpenFile(filename)
			if err != nil {
				return nil, fmt.Errorf("agdb: problem opening workbook: %v", err)
			}
			return f, nil
		}, runtime.GOMAXPROCS(-1), requestcache.Memory(100))
	})
	r := workbookCache.NewRequest(context.Background(), fileName, fileName)
	fI, err := r.Result()
	if err != nil {
		return nil, err
	}
	return fI.(*xlsx.File), nil
}

// ReadMajorsXLSX loads a whole-rock majors table from the Excel
// workbook at path (the AGDB is also distributed as workbooks). When
// sheet is empty the first sheet in the workbook is used.
func ReadMajorsXLSX(path, sheet string, fields FieldMap) (*Majors, error) {
	f, err := loadWorkbook(path)
	if err != nil {
		return nil, err
	}
	var s *xlsx.Sheet
	if sheet == "" {
		if len(f.Sheets) == 0 {
			return nil, fmt.Errorf("agdb: workbook has no sheets")
		}
		s = f.Sheets[0]
	} else {
		var ok bool
		s, ok = f.Sheet[sheet]
		if !ok {
			return nil, fmt.Errorf("agdb: workbook has no sheet '%s'", sheet)
		}
	}
	if len(s.Rows) == 0 {
		return nil, fmt.Errorf("agdb: majors table is empty")
	}
	rows := make([][]string, len(s.Rows))
	for i, r := range s.Rows {
		row := make([]string, len(r.Cells))
		for j, c := range r.Cells {
			row[j] = c.Value
		}
		rows[i] = row
	}
	return parseMajors(rows, fields)
}
