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

package ast

import "taskql.org/go/taskql/types"

// comparisonOps is the set of operators allowed in atom and compute
// filters. The '~'-prefixed and '~'-suffixed forms are the approximate
// (string-normalized) variants.
var comparisonOps = map[string]bool{
	"==":           true,
	">=":           true,
	"<=":           true,
	">":            true,
	"<":            true,
	"=~":           true,
	"~=":           true,
	"starts_with":  true,
	"ends_with":    true,
	"prefix_of":    true,
	"suffix_of":    true,
	"contains":     true,
	"contains~":    true,
	"~contains":    true,
	"in_array":     true,
	"in_array~":    true,
	"~in_array":    true,
	"group_member": true,
}

// scalarOps is the set of operators allowed in computations and derived
// scalar expressions.
var scalarOps = map[string]bool{
	"+":        true,
	"-":        true,
	"*":        true,
	"/":        true,
	"%":        true,
	"**":       true,
	"distance": true,
	"abs":      true,
	"round":    true,
	"min":      true,
	"max":      true,
	"sum":      true,
	"avg":      true,
	"count":    true,
}

// aggregationOps is the set of operators allowed in aggregation tables
// and aggregation scalar expressions.
var aggregationOps = map[string]bool{
	"count":  true,
	"sum":    true,
	"avg":    true,
	"min":    true,
	"max":    true,
	"argmin": true,
	"argmax": true,
}

// IsComparisonOp reports whether op is a valid filter comparison
// operator.
func IsComparisonOp(op string) bool { return comparisonOps[op] }

// IsScalarOp reports whether op is a valid scalar computation operator.
func IsScalarOp(op string) bool { return scalarOps[op] }

// IsAggregationOp reports whether op is a valid aggregation operator.
func IsAggregationOp(op string) bool { return aggregationOps[op] }

// FilterValueType reports the type expected on the right-hand side of a
// filter with the given operator, when the left-hand side has type lhs.
// Containment operators unwrap or wrap the array type; string matching
// operators always take a string.
func FilterValueType(op string, lhs types.Type) types.Type {
	if lhs == nil {
		lhs = types.Any
	}
	switch op {
	case "=~", "~=", "starts_with", "ends_with", "prefix_of", "suffix_of":
		return types.String
	case "contains":
		if at, ok := lhs.(*types.ArrayType); ok {
			return at.Elem
		}
		return types.Any
	case "contains~", "~contains":
		return types.String
	case "in_array", "in_array~", "~in_array":
		return types.Array(lhs)
	case "group_member":
		return types.Entity("tt:contact_group")
	default:
		return lhs
	}
}

// A SortDirection orders the rows of a sorted table.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

func validSortDirection(d SortDirection) bool {
	return d == SortAsc || d == SortDesc
}
