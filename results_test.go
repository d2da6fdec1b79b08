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

import "testing"

func TestFrame(t *testing.T) {
	f := NewFrame()
	f.SetColumn(PH, []float64{5.6, 6.5, 7.4})
	f.SetColumn(Ca, []float64{0.1, 0.2, 0.3})

	if f.Steps() != 3 {
		t.Errorf("steps: want 3, got %d", f.Steps())
	}
	if !f.Has(PH) {
		t.Error("frame should have a pH column")
	}
	if f.Has(Mg) {
		t.Error("frame should not have an Mg column")
	}

	v, err := f.Value(Ca, 1)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0.2 {
		t.Errorf("Ca step 2: want 0.2, got %g", v)
	}

	if initial, err := f.Initial(PH); err != nil || initial != 5.6 {
		t.Errorf("initial pH: want 5.6, got %g (%v)", initial, err)
	}
	if final, err := f.Final(PH); err != nil || final != 7.4 {
		t.Errorf("final pH: want 7.4, got %g (%v)", final, err)
	}

	if _, err := f.Column("bogus"); err == nil {
		t.Error("expected an error for a missing column")
	} else if want := "erw: results have no column 'bogus'"; err.Error() != want {
		t.Errorf("want %q, got %q", want, err.Error())
	}
	if _, err := f.Value(PH, 3); err == nil {
		t.Error("expected an error for an out-of-range step")
	} else if want := "erw: results column 'pH' has no step 3"; err.Error() != want {
		t.Errorf("want %q, got %q", want, err.Error())
	}

	// Replacing a column must not duplicate its name.
	f.SetColumn(PH, []float64{1, 2, 3})
	if len(f.Names) != 2 {
		t.Errorf("column names: want 2, got %d", len(f.Names))
	}
}

func TestFrameHead(t *testing.T) {
	f := NewFrame()
	f.SetColumn(PH, []float64{5.6, 6.5, 7.4})
	f.SetColumn(Ca, []float64{0.1, 0.2, 0.3})

	h := f.head(2)
	if h.Steps() != 2 {
		t.Errorf("head steps: want 2, got %d", h.Steps())
	}
	if final, err := h.Final(PH); err != nil || final != 6.5 {
		t.Errorf("head final pH: want 6.5, got %g (%v)", final, err)
	}

	// Columns added to the view must not appear in the parent.
	h.SetColumn(Mg, []float64{1, 2})
	if f.Has(Mg) {
		t.Error("parent frame gained a column from its head view")
	}

	// Asking for more steps than exist returns the full columns.
	if g := f.head(10); g.Steps() != 3 {
		t.Errorf("oversized head steps: want 3, got %d", g.Steps())
	}
}

func TestFrameEmpty(t *testing.T) {
	f := NewFrame()
	if f.Steps() != 0 {
		t.Errorf("empty frame steps: want 0, got %d", f.Steps())
	}
}
