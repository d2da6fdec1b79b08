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
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rockmodel/erw"
)

// databaseNames are the file names of the standard PHREEQC
// thermodynamic databases, in preference order. wateq4f carries the
// complete WATEQ4F element set, which covers every phase the normative
// mineralogy can produce.
var databaseNames = []string{"wateq4f.dat", "phreeqc.dat", "llnl.dat"}

// keywords begin data blocks in a PHREEQC database file. Only the
// PHASES and SOLUTION_MASTER_SPECIES blocks are read here; the others
// end whatever block came before them.
var keywords = map[string]bool{
	"CALCULATE_VALUES":              true,
	"END":                           true,
	"EXCHANGE_MASTER_SPECIES":       true,
	"EXCHANGE_SPECIES":              true,
	"ISOTOPES":                      true,
	"ISOTOPE_ALPHAS":                true,
	"ISOTOPE_RATIOS":                true,
	"LLNL_AQUEOUS_MODEL_PARAMETERS": true,
	"NAMED_EXPRESSIONS":             true,
	"PHASES":                        true,
	"PITZER":                        true,
	"RATES":                         true,
	"SIT":                           true,
	"SOLUTION_MASTER_SPECIES":       true,
	"SOLUTION_SPECIES":              true,
	"SURFACE_MASTER_SPECIES":        true,
	"SURFACE_SPECIES":               true,
}

// Database describes the contents of a PHREEQC thermodynamic database
// file: the mineral phases and the master-species elements it defines.
type Database struct {
	// Path is the location of the database file.
	Path string

	phases   map[string]bool
	elements map[string]bool
}

// ReadDatabase parses the PHREEQC thermodynamic database file at path.
// Data blocks begin with a keyword at the start of a line; within the
// PHASES and SOLUTION_MASTER_SPECIES blocks, each unindented line
// introduces a phase or an element, and indented lines carry the
// definitions, which are not interpreted here.
func ReadDatabase(path string) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("phreeqc: problem opening database: %v", err)
	}
	defer f.Close()

	d := &Database{
		Path:     path,
		phases:   make(map[string]bool),
		elements: make(map[string]bool),
	}
	var block string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if line[0] == ' ' || line[0] == '\t' {
			continue
		}
		name := strings.Fields(line)[0]
		if keywords[strings.ToUpper(name)] {
			block = strings.ToUpper(name)
			continue
		}
		switch block {
		case "PHASES":
			d.phases[name] = true
		case "SOLUTION_MASTER_SPECIES":
			d.elements[element(name)] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("phreeqc: problem reading database: %v", err)
	}
	if len(d.phases) == 0 {
		return nil, fmt.Errorf("phreeqc: database %s defines no mineral phases", path)
	}
	return d, nil
}

// element returns the element part of a master-species name, which may
// carry a valence-state suffix such as Fe(+2).
func element(name string) string {
	if i := strings.Index(name, "("); i > 0 {
		return name[:i]
	}
	return name
}

// HasPhase reports whether the database defines the named mineral
// phase.
func (d *Database) HasPhase(name string) bool { return d.phases[name] }

// HasElement reports whether the database defines a master species for
// the named element.
func (d *Database) HasElement(name string) bool { return d.elements[name] }

// Phases returns the names of the mineral phases the database defines,
// sorted alphabetically.
func (d *Database) Phases() []string {
	return sorted(d.phases)
}

// Elements returns the names of the elements the database defines
// master species for, sorted alphabetically.
func (d *Database) Elements() []string {
	return sorted(d.elements)
}

func sorted(set map[string]bool) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that the database defines every phase in the
// assemblage, so that a simulation will not fail partway through.
func (d *Database) Validate(phases []erw.PhaseAmount) error {
	var missing []string
	for _, p := range phases {
		if !d.phases[p.Name] {
			missing = append(missing, p.Name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("phreeqc: database %s does not define phases %v", d.Path, missing)
	}
	return nil
}

// DefaultDatabaseCandidates returns the paths to probe for a
// thermodynamic database: the file named by the PHREEQC_DATABASE
// environment variable, the standard database names in each of dirs
// and then in the standard installation directories, the directory of
// the solver binary given by program, and finally the bare database
// names themselves.
func DefaultDatabaseCandidates(program string, dirs ...string) []string {
	var candidates []string
	if p := os.Getenv("PHREEQC_DATABASE"); p != "" {
		candidates = append(candidates, p)
	}
	probe := make([]string, 0, len(dirs)+7)
	probe = append(probe, dirs...)
	probe = append(probe,
		"/usr/local/share/phreeqc/database",
		"/usr/share/phreeqc/database",
		"/usr/local/share/doc/phreeqc/database",
		"/opt/phreeqc/database",
	)
	if p, err := exec.LookPath(program); err == nil {
		bin := filepath.Dir(p)
		probe = append(probe,
			filepath.Join(bin, "..", "share", "phreeqc", "database"),
			filepath.Join(bin, "database"),
			bin,
		)
	}
	for _, dir := range probe {
		for _, name := range databaseNames {
			candidates = append(candidates, filepath.Join(dir, name))
		}
	}
	return append(candidates, databaseNames...)
}

// FindDatabase returns the first of the candidate paths that exists
// and is a regular file.
func FindDatabase(candidates []string) (string, error) {
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, nil
		}
	}
	return "", fmt.Errorf("phreeqc: no thermodynamic database found after probing %d locations; set PHREEQC_DATABASE to the database path", len(candidates))
}
