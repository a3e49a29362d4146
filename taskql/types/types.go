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

// Package types defines the TaskQL type algebra.
//
// Types are consumed by the syntax tree and the signature system but never
// mutated by them: a Type, once constructed, is immutable and may be shared
// freely between signatures, arguments, and values. Primitive types are
// interned singletons so that the common case compares by identity;
// Equal handles the composite types structurally.
package types

import (
	"fmt"
	"strings"
)

// A Type is a node in the TaskQL type algebra.
type Type interface {
	typeNode()

	// String returns the canonical syntax of the type, as used in
	// manifests and in surface syntax.
	String() string
}

// Primitive types. These are interned: every Boolean in a tree is this
// Boolean. Composite types (Entity, Measure, Enum, Array, Compound) are
// constructed per use.
var (
	Boolean  Type = primitive("Boolean")
	String   Type = primitive("String")
	Number   Type = primitive("Number")
	Currency Type = primitive("Currency")
	Time     Type = primitive("Time")
	Date     Type = primitive("Date")
	Location Type = primitive("Location")

	// RecurrentTimeSpec is the type of recurrent time rules, such as
	// "every weekday at 9am".
	RecurrentTimeSpec Type = primitive("RecurrentTimeSpecification")

	// ArgMap is the type of argument-name to type maps, used by lambda
	// declarations.
	ArgMap Type = primitive("ArgMap")

	// Any is the top type. It is assignable from every type and is used
	// for arguments whose type is determined elsewhere.
	Any Type = primitive("Any")
)

type primitiveType struct {
	name string
}

func primitive(name string) *primitiveType { return &primitiveType{name} }

func (t *primitiveType) typeNode()      {}
func (t *primitiveType) String() string { return t.name }

// An EntityType is a nominal reference type, such as Entity(tt:phone_number).
// The name is a namespaced identifier assigned by the capability provider.
type EntityType struct {
	Name string
}

// Entity returns the entity type with the given namespaced name.
func Entity(name string) *EntityType { return &EntityType{Name: name} }

func (t *EntityType) typeNode()      {}
func (t *EntityType) String() string { return fmt.Sprintf("Entity(%s)", t.Name) }

// A MeasureType is a dimensioned number. Unit is the base unit of the
// dimension (ms, m, kg, ...); values of this type may use any unit of the
// same dimension and are normalized on conversion to native form.
type MeasureType struct {
	Unit string
}

// Measure returns the measure type for the dimension of the given base unit.
func Measure(unit string) *MeasureType { return &MeasureType{Unit: unit} }

func (t *MeasureType) typeNode()      {}
func (t *MeasureType) String() string { return fmt.Sprintf("Measure(%s)", t.Unit) }

// An EnumType is a finite set of identifiers. A nil entry list is a
// wildcard enum that accepts any identifier; it occurs only in signatures,
// never in checked values.
type EnumType struct {
	Entries []string // nil for a wildcard enum
}

// Enum returns an enum over the given entries.
func Enum(entries ...string) *EnumType { return &EnumType{Entries: entries} }

// EnumAny returns the wildcard enum.
func EnumAny() *EnumType { return &EnumType{Entries: nil} }

func (t *EnumType) typeNode() {}
func (t *EnumType) String() string {
	if t.Entries == nil {
		return "Enum(*)"
	}
	return fmt.Sprintf("Enum(%s)", strings.Join(t.Entries, ","))
}

// HasEntry reports whether the enum accepts the given identifier.
func (t *EnumType) HasEntry(name string) bool {
	if t.Entries == nil {
		return true
	}
	for _, e := range t.Entries {
		if e == name {
			return true
		}
	}
	return false
}

// An ArrayType is an ordered homogeneous collection.
type ArrayType struct {
	Elem Type
}

// Array returns the array type with the given element type.
func Array(elem Type) *ArrayType { return &ArrayType{Elem: elem} }

func (t *ArrayType) typeNode()      {}
func (t *ArrayType) String() string { return fmt.Sprintf("Array(%s)", t.Elem) }

// A Field is a named member of a compound type.
type Field struct {
	Name string
	Type Type
}

// A CompoundType is a record of named fields. Compound-typed arguments do
// not survive into a checked signature as such: the signature system
// flattens them into one dotted-name argument per field.
type CompoundType struct {
	// Name is the declared name of the compound, or "" for an anonymous
	// compound.
	Name string

	// Fields is ordered as declared. Order is significant: flattening
	// yields synthesized arguments in field order.
	Fields []Field
}

// Compound returns a compound type over the given fields.
func Compound(name string, fields ...Field) *CompoundType {
	return &CompoundType{Name: name, Fields: fields}
}

func (t *CompoundType) typeNode() {}
func (t *CompoundType) String() string {
	var b strings.Builder
	b.WriteString("Compound(")
	for i, f := range t.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %s", f.Name, f.Type)
	}
	b.WriteString(")")
	return b.String()
}

// FieldByName returns the field with the given name, if any.
func (t *CompoundType) FieldByName(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// An UnknownType is a nominal reference that has not been resolved against
// any class. It unifies with nothing but itself.
type UnknownType struct {
	Name string
}

// Unknown returns an unresolved type reference.
func Unknown(name string) *UnknownType { return &UnknownType{Name: name} }

func (t *UnknownType) typeNode()      {}
func (t *UnknownType) String() string { return t.Name }

// Equal reports whether a and b are structurally the same type. Wildcard
// enums compare equal only to wildcard enums.
func Equal(a, b Type) bool {
	if a == b {
		return true
	}
	switch x := a.(type) {
	case *primitiveType:
		// Primitives are interned; identity was checked above.
		return false
	case *EntityType:
		y, ok := b.(*EntityType)
		return ok && x.Name == y.Name
	case *MeasureType:
		y, ok := b.(*MeasureType)
		return ok && x.Unit == y.Unit
	case *EnumType:
		y, ok := b.(*EnumType)
		if !ok {
			return false
		}
		if (x.Entries == nil) != (y.Entries == nil) || len(x.Entries) != len(y.Entries) {
			return false
		}
		for i := range x.Entries {
			if x.Entries[i] != y.Entries[i] {
				return false
			}
		}
		return true
	case *ArrayType:
		y, ok := b.(*ArrayType)
		return ok && Equal(x.Elem, y.Elem)
	case *CompoundType:
		y, ok := b.(*CompoundType)
		if !ok || x.Name != y.Name || len(x.Fields) != len(y.Fields) {
			return false
		}
		for i := range x.Fields {
			if x.Fields[i].Name != y.Fields[i].Name ||
				!Equal(x.Fields[i].Type, y.Fields[i].Type) {
				return false
			}
		}
		return true
	case *UnknownType:
		y, ok := b.(*UnknownType)
		return ok && x.Name == y.Name
	}
	return false
}

// IsBoolean reports whether t is the boolean type.
func IsBoolean(t Type) bool { return t == Boolean }

// IsString reports whether t is the string type.
func IsString(t Type) bool { return t == String }

// IsNumber reports whether t is the plain number type.
func IsNumber(t Type) bool { return t == Number }

// IsNumeric reports whether values of t order and compare as numbers:
// Number, Currency, and any Measure.
func IsNumeric(t Type) bool {
	if t == Number || t == Currency {
		return true
	}
	_, ok := t.(*MeasureType)
	return ok
}

// IsEntity reports whether t is an entity type.
func IsEntity(t Type) bool {
	_, ok := t.(*EntityType)
	return ok
}

// IsArray reports whether t is an array type.
func IsArray(t Type) bool {
	_, ok := t.(*ArrayType)
	return ok
}

// IsCompound reports whether t is a compound type.
func IsCompound(t Type) bool {
	_, ok := t.(*CompoundType)
	return ok
}

// IsComparable reports whether values of t support ordering comparison.
func IsComparable(t Type) bool {
	return IsNumeric(t) || t == String || t == Date || t == Time
}
