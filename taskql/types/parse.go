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

// legacyStringTypes maps the pre-entity string subtypes that appear in old
// manifests to their modern entity equivalents.
var legacyStringTypes = map[string]string{
	"Username":     "tt:username",
	"Hashtag":      "tt:hashtag",
	"PhoneNumber":  "tt:phone_number",
	"EmailAddress": "tt:email_address",
	"URL":          "tt:url",
	"Picture":      "tt:picture",
}

// Parse converts the canonical string form of a type, as stored in legacy
// manifests, back into a Type. It accepts exactly the vocabulary that
// Type.String produces, plus the legacy string subtypes (Username,
// PhoneNumber, ...) which parse to their entity equivalents. Compound types
// never appear in manifests (signatures are flattened before interchange)
// and are rejected.
func Parse(s string) (Type, error) {
	s = strings.TrimSpace(s)
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return parseName(s)
	}
	if !strings.HasSuffix(s, ")") {
		return nil, errors.NewfPath(nil, "invalid type %q: unbalanced parenthesis", s)
	}
	name, arg := s[:open], s[open+1:len(s)-1]
	switch name {
	case "Entity":
		if arg == "" {
			return nil, errors.NewfPath(nil, "invalid type %q: missing entity name", s)
		}
		return Entity(arg), nil
	case "Measure":
		if arg == "" {
			return nil, errors.NewfPath(nil, "invalid type %q: missing unit", s)
		}
		base, ok := BaseUnit(arg)
		if !ok {
			return nil, errors.NewfPath(nil, "invalid type %q: unknown unit %q", s, arg)
		}
		return Measure(base), nil
	case "Enum":
		if arg == "*" {
			return EnumAny(), nil
		}
		entries := strings.Split(arg, ",")
		for i, e := range entries {
			entries[i] = strings.TrimSpace(e)
		}
		return Enum(entries...), nil
	case "Array":
		elem, err := Parse(arg)
		if err != nil {
			return nil, err
		}
		return Array(elem), nil
	case "Compound":
		return nil, errors.NewfPath(nil, "invalid type %q: compound types do not occur in manifests", s)
	default:
		return nil, errors.NewfPath(nil, "invalid type %q", s)
	}
}

func parseName(s string) (Type, error) {
	switch s {
	case "Boolean":
		return Boolean, nil
	case "String":
		return String, nil
	case "Number":
		return Number, nil
	case "Currency":
		return Currency, nil
	case "Time":
		return Time, nil
	case "Date":
		return Date, nil
	case "Location":
		return Location, nil
	case "RecurrentTimeSpecification":
		return RecurrentTimeSpec, nil
	case "ArgMap":
		return ArgMap, nil
	case "Any":
		return Any, nil
	}
	if entity, ok := legacyStringTypes[s]; ok {
		return Entity(entity), nil
	}
	return nil, errors.NewfPath(nil, "invalid type %q", s)
}
