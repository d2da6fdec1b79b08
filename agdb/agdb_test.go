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
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadMajors(t *testing.T) {
	m, err := ReadMajors("testdata/majors.txt", AGDB4Fields())
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Records) != 5 {
		t.Fatalf("want 5 records, got %d", len(m.Records))
	}

	basalt := m.Records[0]
	if basalt.ID != "AK10001" {
		t.Errorf("ID: want 'AK10001', got '%s'", basalt.ID)
	}
	if basalt.RockType != "Basalt" {
		t.Errorf("rock type: want 'Basalt', got '%s'", basalt.RockType)
	}
	if basalt.Latitude != 61.2181 || basalt.Longitude != -149.9003 {
		t.Errorf("location: got %g, %g", basalt.Latitude, basalt.Longitude)
	}
	if len(basalt.Oxides) != 11 {
		t.Errorf("want 11 oxides, got %d", len(basalt.Oxides))
	}
	if v := basalt.Oxides["SiO2"]; v != 48.5 {
		t.Errorf("SiO2: want 48.5, got %g", v)
	}
	if v := basalt.Oxides["LOI"]; v != 1.1 {
		t.Errorf("LOI: want 1.1, got %g", v)
	}

	t.Run("latin-1", func(t *testing.T) {
		if rt := m.Records[1].RockType; rt != "Tonalité" {
			t.Errorf("rock type: want 'Tonalité', got '%s'", rt)
		}
	})

	t.Run("missing values", func(t *testing.T) {
		rec := m.Records[1]
		if !math.IsNaN(rec.Oxides["TiO2"]) {
			t.Errorf("blank TiO2 should be NaN, got %g", rec.Oxides["TiO2"])
		}
		if !math.IsNaN(rec.Oxides["LOI"]) {
			t.Errorf("blank LOI should be NaN, got %g", rec.Oxides["LOI"])
		}
	})

	t.Run("sentinel text", func(t *testing.T) {
		rec := m.Records[3]
		if rec.RockType != "Gabbro, altered" {
			t.Errorf("quoted rock type: got '%s'", rec.RockType)
		}
		if !math.IsNaN(rec.Oxides["Fe2O3"]) {
			t.Errorf("'N.D.' Fe2O3 should be NaN, got %g", rec.Oxides["Fe2O3"])
		}
		if !math.IsNaN(rec.Oxides["MnO"]) {
			t.Errorf("'<0.01' MnO should be NaN, got %g", rec.Oxides["MnO"])
		}
	})

	t.Run("ragged row", func(t *testing.T) {
		rec := m.Records[4]
		if rec.ID != "AK10005" || rec.RockType != "Dunite" {
			t.Errorf("got ID '%s', rock type '%s'", rec.ID, rec.RockType)
		}
		if !math.IsNaN(rec.Latitude) {
			t.Errorf("missing latitude should be NaN, got %g", rec.Latitude)
		}
		if !math.IsNaN(rec.Oxides["SiO2"]) {
			t.Errorf("missing SiO2 should be NaN, got %g", rec.Oxides["SiO2"])
		}
	})
}

func TestMajorsComplete(t *testing.T) {
	m, err := ReadMajors("testdata/majors.txt", AGDB4Fields())
	if err != nil {
		t.Fatal(err)
	}
	recs, err := m.Complete()
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("want 2 complete samples, got %d", len(recs))
	}
	if recs[0].ID != "AK10001" || recs[1].ID != "AK10002" {
		t.Errorf("got IDs '%s', '%s'", recs[0].ID, recs[1].ID)
	}

	t.Run("none complete", func(t *testing.T) {
		m := &Majors{Records: []*Record{{ID: "X", Oxides: map[string]float64{"SiO2": 50}}}}
		want := "agdb: no samples with complete major element data"
		if _, err := m.Complete(); err == nil || err.Error() != want {
			t.Errorf("want '%s', got %v", want, err)
		}
	})
}

func TestMajorsSample(t *testing.T) {
	m, err := ReadMajors("testdata/majors.txt", AGDB4Fields())
	if err != nil {
		t.Fatal(err)
	}
	rec, err := m.Sample("AK10003")
	if err != nil {
		t.Fatal(err)
	}
	if rec.RockType != "Schist" {
		t.Errorf("rock type: want 'Schist', got '%s'", rec.RockType)
	}
	want := "agdb: no sample with ID 'AK99999'"
	if _, err := m.Sample("AK99999"); err == nil || err.Error() != want {
		t.Errorf("want '%s', got %v", want, err)
	}
}

func TestReadMajorsErrors(t *testing.T) {
	dir, err := ioutil.TempDir("", "agdb")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := ioutil.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	cases := []struct {
		name, path, want string
	}{
		{
			name: "missing file",
			path: filepath.Join(dir, "nonexistent.txt"),
			want: "agdb: problem opening majors table:",
		},
		{
			name: "empty file",
			path: write("empty.txt", ""),
			want: "agdb: majors table is empty",
		},
		{
			name: "header only",
			path: write("header.txt", "DDPD_ID,ROCKTYPE\n"),
			want: "agdb: majors table has no data rows",
		},
		{
			name: "missing ID column",
			path: write("noid.txt", "FOO,BAR\n1,2\n"),
			want: "agdb: majors table has no column 'DDPD_ID'",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ReadMajors(c.path, AGDB4Fields())
			if err == nil || !strings.HasPrefix(err.Error(), c.want) {
				t.Errorf("want prefix '%s', got %v", c.want, err)
			}
		})
	}
}

func TestReadMineralogy(t *testing.T) {
	minerals, err := ReadMineralogy("testdata/mineralogy.txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(minerals) != 2 {
		t.Fatalf("want 2 samples, got %d", len(minerals))
	}
	obs := minerals["AK10001"]
	if len(obs) != 3 {
		t.Fatalf("want 3 observations for AK10001, got %d", len(obs))
	}
	if obs[0].Name != "Olivine" || obs[0].Abundance != 34.5 {
		t.Errorf("got %+v", obs[0])
	}
	if obs[1].Name != "Plagioclase" || !math.IsNaN(obs[1].Abundance) {
		t.Errorf("unquantified mineral should have NaN abundance: %+v", obs[1])
	}
	// Rows with a blank mineral name are skipped.
	if _, ok := minerals["AK10003"]; ok {
		t.Error("AK10003 should have no observations")
	}
}

func TestReadTrace(t *testing.T) {
	trace, err := ReadTrace("testdata/trace.txt")
	if err != nil {
		t.Fatal(err)
	}
	if !trace.Has("AK10001") || !trace.Has("AK10002") {
		t.Error("samples with trace rows should be reported")
	}
	if trace.Has("AK99999") {
		t.Error("unknown sample should not be reported")
	}

	t.Run("nil", func(t *testing.T) {
		var trace *Trace
		if trace.Has("AK10001") {
			t.Error("nil table should report nothing")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadTrace("testdata/nonexistent.txt")
		want := "agdb: problem opening trace element table:"
		if err == nil || !strings.HasPrefix(err.Error(), want) {
			t.Errorf("want prefix '%s', got %v", want, err)
		}
	})
}
