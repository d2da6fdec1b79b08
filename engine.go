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

// Engine is an interface for geochemical reaction engines.
type Engine interface {
	// Simulate reacts the mineral assemblage in phases, derived from
	// sample, with the progressively added acid specified by scenario.
	// It returns one result record per reaction step.
	Simulate(scenario *Scenario, phases []PhaseAmount, sample *Sample) (*Frame, error)

	// Name returns the name of this engine.
	Name() string
}
