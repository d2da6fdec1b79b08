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

// Package phreeqc runs weathering simulations with the PHREEQC
// geochemical modeling program (https://www.usgs.gov/software/phreeqc-version-3).
// PHREEQC and a thermodynamic database must be installed separately;
// Client.Available reports whether both can be found.
package phreeqc

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rockmodel/erw"
)

// DefaultTimeout is the maximum duration of one solver run when
// Client.Timeout is not set.
const DefaultTimeout = 5 * time.Minute

// Names of the files one solver run reads and writes in its work
// directory.
const (
	inputName  = "input.pqi"
	outputName = "output.pqo"
	punchName  = "selected.sel"
	screenName = "screen.log"
)

// stderrTailLen is the number of trailing bytes of solver standard
// error included in error messages.
const stderrTailLen = 512

// Client runs simulations by executing a PHREEQC batch binary as a
// subprocess. The zero value looks up "phreeqc" in the executable
// search path and probes the standard database locations.
type Client struct {
	// ProgramPath is the path to the PHREEQC batch executable. If it
	// is empty, "phreeqc" is looked up in the executable search path.
	ProgramPath string

	// DatabasePath is the thermodynamic database file the solver
	// should load. If it is empty, the standard locations are probed;
	// see DefaultDatabaseCandidates.
	DatabasePath string

	// DatabaseDirs are additional directories to probe for a
	// thermodynamic database when DatabasePath is not set.
	DatabaseDirs []string

	// WorkDir is the directory the solver runs in. If it is empty, a
	// temporary directory is created for each simulation and removed
	// afterwards.
	WorkDir string

	// Timeout is the maximum duration of one solver run. If it is
	// zero, DefaultTimeout applies.
	Timeout time.Duration
}

// Name returns the name of this engine.
func (c *Client) Name() string { return "phreeqc" }

// program returns the solver executable to run.
func (c *Client) program() string {
	if c.ProgramPath != "" {
		return c.ProgramPath
	}
	return "phreeqc"
}

// database returns the thermodynamic database the solver should load,
// probing the standard locations when none is configured.
func (c *Client) database() (string, error) {
	if c.DatabasePath != "" {
		return c.DatabasePath, nil
	}
	return FindDatabase(DefaultDatabaseCandidates(c.program(), c.DatabaseDirs...))
}

// Available reports whether the solver binary and a thermodynamic
// database can both be found, so that Simulate can be expected to run.
func (c *Client) Available() bool {
	if _, err := exec.LookPath(c.program()); err != nil {
		return false
	}
	_, err := c.database()
	return err == nil
}

// Simulate runs one PHREEQC batch simulation that reacts the mineral
// assemblage in phases, derived from sample, with the progressively
// added acid specified by scenario. It returns the selected output
// punched by the solver, with one row per reaction step.
func (c *Client) Simulate(scenario *erw.Scenario, phases []erw.PhaseAmount, sample *erw.Sample) (*erw.Frame, error) {
	program, err := exec.LookPath(c.program())
	if err != nil {
		return nil, fmt.Errorf("phreeqc: problem finding solver binary: %v", err)
	}
	database, err := c.database()
	if err != nil {
		return nil, err
	}
	// The solver runs in the work directory, so the database path
	// needs to be absolute.
	database, err = filepath.Abs(database)
	if err != nil {
		return nil, fmt.Errorf("phreeqc: problem resolving database path: %v", err)
	}

	dir := c.WorkDir
	if dir == "" {
		dir, err = ioutil.TempDir("", "phreeqc")
		if err != nil {
			return nil, fmt.Errorf("phreeqc: problem creating work directory: %v", err)
		}
		defer os.RemoveAll(dir)
	}

	input, err := c.Input(scenario, phases, sample)
	if err != nil {
		return nil, err
	}
	if err := ioutil.WriteFile(filepath.Join(dir, inputName), []byte(input), 0644); err != nil {
		return nil, fmt.Errorf("phreeqc: problem writing input file: %v", err)
	}

	timeout := c.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, program, inputName, outputName, database, screenName)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("phreeqc: solver timed out after %v", timeout)
		}
		return nil, fmt.Errorf("phreeqc: solver failed: %v: %s", err, tail(stderr.Bytes(), stderrTailLen))
	}

	f, err := os.Open(filepath.Join(dir, punchName))
	if err != nil {
		return nil, fmt.Errorf("phreeqc: problem opening selected output: %v", err)
	}
	defer f.Close()
	return ParseSelectedOutput(f)
}

// tail returns at most n trailing bytes of b with surrounding white
// space removed.
func tail(b []byte, n int) string {
	if len(b) > n {
		b = b[len(b)-n:]
	}
	return strings.TrimSpace(string(b))
}
