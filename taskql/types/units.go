// Copyright 2025 The TaskQL Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package types

import (
	"strings"

	"taskql.org/go/taskql/errors"
)

// Measures are stored in whatever unit the producer wrote; conversion to
// native form normalizes to the base unit of the dimension. The tables here
// list every unit the language accepts, keyed by its base unit.

var unitScale = map[string]struct {
	base  string
	scale float64
}{
	// time, base ms
	"ms":   {"ms", 1},
	"s":    {"ms", 1000},
	"min":  {"ms", 60 * 1000},
	"h":    {"ms", 3600 * 1000},
	"day":  {"ms", 86400 * 1000},
	"week": {"ms", 7 * 86400 * 1000},
	"mon":  {"ms", 30 * 86400 * 1000},
	"year": {"ms", 365.25 * 86400 * 1000},

	// length, base m
	"mm": {"m", 0.001},
	"cm": {"m", 0.01},
	"m":  {"m", 1},
	"km": {"m", 1000},
	"in": {"m", 0.0254},
	"ft": {"m", 0.3048},
	"mi": {"m", 1609.344},

	// speed, base mps
	"mps":  {"mps", 1},
	"kmph": {"mps", 0.27777778},
	"mph":  {"mps", 0.44704},

	// weight, base kg
	"mg": {"kg", 0.000001},
	"g":  {"kg", 0.001},
	"kg": {"kg", 1},
	"oz": {"kg", 0.028349523},
	"lb": {"kg", 0.45359237},

	// pressure, base Pa
	"Pa":   {"Pa", 1},
	"bar":  {"Pa", 100000},
	"psi":  {"Pa", 6894.7573},
	"mmHg": {"Pa", 133.32239},
	"inHg": {"Pa", 3386.3886},
	"atm":  {"Pa", 101325},

	// energy, base kcal
	"kcal": {"kcal", 1},
	"kJ":   {"kcal", 0.239006},

	// data size, base byte
	"byte": {"byte", 1},
	"KB":   {"byte", 1000},
	"KiB":  {"byte", 1024},
	"MB":   {"byte", 1000 * 1000},
	"MiB":  {"byte", 1024 * 1024},
	"GB":   {"byte", 1000 * 1000 * 1000},
	"GiB":  {"byte", 1024 * 1024 * 1024},
	"TB":   {"byte", 1000 * 1000 * 1000 * 1000},
	"TiB":  {"byte", 1024 * 1024 * 1024 * 1024},

	// power, base W
	"W":  {"W", 1},
	"kW": {"W", 1000},

	// luminous flux and illuminance
	"lm": {"lm", 1},
	"lx": {"lx", 1},

	// sound pressure
	"dB":  {"dB", 1},
	"dBm": {"dBm", 1},
}

// temperatureUnits are affine, not linear; they are handled apart from the
// scale table. The base unit is C.
var temperatureUnits = map[string]bool{"C": true, "F": true, "K": true}

// BaseUnit returns the base unit of the dimension that unit belongs to.
// It reports false for unknown units and for placeholder units.
func BaseUnit(unit string) (string, bool) {
	if temperatureUnits[unit] {
		return "C", true
	}
	if e, ok := unitScale[unit]; ok {
		return e.base, true
	}
	return "", false
}

// IsPlaceholderUnit reports whether unit is a deferred "use my preference"
// marker rather than a real unit. A measure carrying a placeholder unit is
// not concrete: it cannot be normalized until a dialogue layer substitutes
// the user's preferred unit.
func IsPlaceholderUnit(unit string) bool {
	return strings.HasPrefix(unit, "default")
}

// Transform converts value, expressed in unit, to the base unit of its
// dimension.
func Transform(value float64, unit string) (float64, error) {
	switch unit {
	case "C":
		return value, nil
	case "F":
		return (value - 32) * 5 / 9, nil
	case "K":
		return value - 273.15, nil
	}
	e, ok := unitScale[unit]
	if !ok {
		if IsPlaceholderUnit(unit) {
			return 0, errors.NewfPath(nil, "unit %q is a placeholder and cannot be normalized", unit)
		}
		return 0, errors.NewfPath(nil, "unknown unit %q", unit)
	}
	return value * e.scale, nil
}
