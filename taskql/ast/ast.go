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

// Package ast declares the syntax tree of TaskQL programs.
//
// The tree is organized as closed families: Value for leaf constants and
// placeholders, Table for query expressions, Stream for temporal query
// expressions, Action, BooleanExpression for filter predicates,
// ScalarExpression for computed scalars, Selector for invocation targets,
// Statement and PermissionFunction at the top level. Each family is an
// interface with an unexported marker method, so the set of variants is
// fixed at compile time and every consumer switch is checkable for
// exhaustiveness.
//
// Trees are built bottom-up by a producer, optionally cloned, type-checked
// in place (the checker fills in the schema fields), and read-mostly
// afterwards. Nothing in this package is safe for concurrent mutation of a
// single tree; independent goroutines must work on clones.
package ast

import (
	"taskql.org/go/taskql/token"
	"taskql.org/go/taskql/types"
)

// A Node is any element of a TaskQL syntax tree.
type Node interface {
	// Loc reports where the node appeared in the source, or nil for a
	// node synthesized by a builder, a rewrite, or interning.
	Loc() *token.SourceRange
}

// A Value is a leaf constant or placeholder. See values.go.
type Value interface {
	Node
	valueNode()

	// CloneValue returns a deep copy of the value.
	CloneValue() Value

	// TypeOf reports the type of the value. It is defined for every
	// variant; variants whose precise type is only known after
	// type-checking report types.Any until then.
	TypeOf() types.Type

	// IsConstant reports whether the value is a compile-time constant,
	// as opposed to a placeholder or a reference to runtime state.
	IsConstant() bool

	// IsConcrete reports whether the value is fully resolved and can be
	// lowered to a native Go value with ToNative.
	IsConcrete() bool

	// ToNative lowers a concrete value to its native Go representation.
	// Calling it on a non-concrete value returns an error that wraps
	// ErrNonConstant.
	ToNative() (interface{}, error)
}

// A Table is a query expression producing a finite set of result rows.
type Table interface {
	Node
	tableNode()

	// CloneTable returns a deep copy of the table.
	CloneTable() Table

	// Signature reports the output shape of the table, or nil before
	// type-checking.
	Signature() *ExpressionSignature
}

// A Stream is a temporal query expression producing results over time.
type Stream interface {
	Node
	streamNode()

	// CloneStream returns a deep copy of the stream.
	CloneStream() Stream

	// Signature reports the output shape of the stream, or nil before
	// type-checking.
	Signature() *ExpressionSignature
}

// An Action is a function invocation executed for its side effects.
type Action interface {
	Node
	actionNode()

	// CloneAction returns a deep copy of the action.
	CloneAction() Action

	// Signature reports the action's signature, or nil before
	// type-checking.
	Signature() *ExpressionSignature
}

// A BooleanExpression is a filter predicate over the rows of a table or
// stream.
type BooleanExpression interface {
	Node
	booleanNode()

	// CloneBoolean returns a deep copy of the expression. The interned
	// True and False singletons return themselves.
	CloneBoolean() BooleanExpression
}

// A ScalarExpression computes a derived scalar from the values in scope.
type ScalarExpression interface {
	Node
	scalarNode()

	// CloneScalar returns a deep copy of the expression.
	CloneScalar() ScalarExpression
}

// A Selector names which provider a function call targets. See
// invocation.go.
type Selector interface {
	Node
	selectorNode()

	// CloneSelector returns a deep copy of the selector. The Builtin
	// singleton returns itself and remains identity-comparable.
	CloneSelector() Selector
}

// A Statement is a top-level executable element of a program.
type Statement interface {
	Node
	statementNode()

	// CloneStatement returns a deep copy of the statement.
	CloneStatement() Statement
}

// A PermissionFunction restricts which functions a permission rule covers.
type PermissionFunction interface {
	Node
	permissionFunctionNode()

	// ClonePermissionFunction returns a deep copy. The Star and builtin
	// singletons return themselves.
	ClonePermissionFunction() PermissionFunction
}

// An ImportStmt is a class-level import declaration.
type ImportStmt interface {
	Node
	importNode()

	// CloneImport returns a deep copy of the import.
	CloneImport() ImportStmt
}

// Value

func (*BooleanValue) valueNode()       {}
func (*StringValue) valueNode()        {}
func (*NumberValue) valueNode()        {}
func (*CurrencyValue) valueNode()      {}
func (*EntityValue) valueNode()        {}
func (*MeasureValue) valueNode()       {}
func (*EnumValue) valueNode()          {}
func (*TimeValue) valueNode()          {}
func (*DateValue) valueNode()          {}
func (*LocationValue) valueNode()      {}
func (*ArrayValue) valueNode()         {}
func (*ObjectValue) valueNode()        {}
func (*VarRefValue) valueNode()        {}
func (*EventValue) valueNode()         {}
func (*ContextRefValue) valueNode()    {}
func (*UndefinedValue) valueNode()     {}
func (*FilterValue) valueNode()        {}
func (*ArrayFieldValue) valueNode()    {}
func (*ComputationValue) valueNode()   {}
func (*NullValue) valueNode()          {}
func (*RecurrentTimeValue) valueNode() {}

// Table

func (*VarRefTable) tableNode()      {}
func (*InvocationTable) tableNode()  {}
func (*FilteredTable) tableNode()    {}
func (*ProjectionTable) tableNode()  {}
func (*ComputeTable) tableNode()     {}
func (*AliasTable) tableNode()       {}
func (*AggregationTable) tableNode() {}
func (*SortedTable) tableNode()      {}
func (*IndexTable) tableNode()       {}
func (*SlicedTable) tableNode()      {}
func (*JoinTable) tableNode()        {}
func (*WindowTable) tableNode()      {}
func (*TimeSeriesTable) tableNode()  {}
func (*SequenceTable) tableNode()    {}
func (*HistoryTable) tableNode()     {}

// Stream

func (*VarRefStream) streamNode()     {}
func (*TimerStream) streamNode()      {}
func (*AtTimerStream) streamNode()    {}
func (*MonitorStream) streamNode()    {}
func (*EdgeNewStream) streamNode()    {}
func (*EdgeFilterStream) streamNode() {}
func (*FilteredStream) streamNode()   {}
func (*ProjectionStream) streamNode() {}
func (*ComputeStream) streamNode()    {}
func (*AliasStream) streamNode()      {}
func (*JoinStream) streamNode()       {}

// Action

func (*VarRefAction) actionNode()     {}
func (*InvocationAction) actionNode() {}

// BooleanExpression

func (*AndBooleanExpression) booleanNode()      {}
func (*OrBooleanExpression) booleanNode()       {}
func (*NotBooleanExpression) booleanNode()      {}
func (*AtomBooleanExpression) booleanNode()     {}
func (*ExternalBooleanExpression) booleanNode() {}
func (*DontCareBooleanExpression) booleanNode() {}
func (*ComputeBooleanExpression) booleanNode()  {}
func (*TrueBooleanExpression) booleanNode()     {}
func (*FalseBooleanExpression) booleanNode()    {}

// ScalarExpression

func (*PrimaryScalarExpression) scalarNode()     {}
func (*DerivedScalarExpression) scalarNode()     {}
func (*AggregationScalarExpression) scalarNode() {}
func (*VarRefScalarExpression) scalarNode()      {}

// Selector

func (*DeviceSelector) selectorNode()  {}
func (*BuiltinSelector) selectorNode() {}

// Statement

func (*Rule) statementNode()        {}
func (*Command) statementNode()     {}
func (*Assignment) statementNode()  {}
func (*Declaration) statementNode() {}

// PermissionFunction

func (*SpecifiedPermissionFunction) permissionFunctionNode() {}
func (*BuiltinPermissionFunction) permissionFunctionNode()   {}
func (*ClassStarPermissionFunction) permissionFunctionNode() {}
func (*StarPermissionFunction) permissionFunctionNode()      {}

// ImportStmt

func (*MixinImportStmt) importNode() {}
func (*ClassImportStmt) importNode() {}
