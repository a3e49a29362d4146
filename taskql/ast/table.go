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

import (
	"fmt"

	"taskql.org/go/taskql/token"
)

func cloneSchema(s *ExpressionSignature) *ExpressionSignature {
	if s == nil {
		return nil
	}
	return s.Clone()
}

// A VarRefTable refers to a table declared earlier in the program by
// name.
type VarRefTable struct {
	Src      *token.SourceRange
	Name     string
	InParams []*InputParam

	Schema *ExpressionSignature
}

// NewVarRefTable refers to the named declared table. It panics if the
// name is empty.
func NewVarRefTable(name string, inParams []*InputParam) *VarRefTable {
	if name == "" {
		panic("ast: empty table reference name")
	}
	for i, p := range inParams {
		if p == nil {
			panic(fmt.Sprintf("ast: nil input parameter at index %d", i))
		}
	}
	return &VarRefTable{Name: name, InParams: inParams}
}

func (t *VarRefTable) Loc() *token.SourceRange          { return t.Src }
func (t *VarRefTable) Signature() *ExpressionSignature { return t.Schema }

// CloneTable returns a deep copy.
func (t *VarRefTable) CloneTable() Table {
	c := &VarRefTable{Src: t.Src.Clone(), Name: t.Name, Schema: cloneSchema(t.Schema)}
	if t.InParams != nil {
		c.InParams = make([]*InputParam, len(t.InParams))
		for i, p := range t.InParams {
			c.InParams[i] = p.Clone()
		}
	}
	return c
}

// An InvocationTable produces the rows returned by one query
// invocation.
type InvocationTable struct {
	Src        *token.SourceRange
	Invocation *Invocation

	Schema *ExpressionSignature
}

// NewInvocationTable wraps a query invocation as a table. It panics if
// the invocation is nil.
func NewInvocationTable(inv *Invocation) *InvocationTable {
	if inv == nil {
		panic("ast: nil table invocation")
	}
	return &InvocationTable{Invocation: inv}
}

func (t *InvocationTable) Loc() *token.SourceRange          { return t.Src }
func (t *InvocationTable) Signature() *ExpressionSignature { return t.Schema }

// CloneTable returns a deep copy.
func (t *InvocationTable) CloneTable() Table {
	return &InvocationTable{
		Src:        t.Src.Clone(),
		Invocation: t.Invocation.Clone(),
		Schema:     cloneSchema(t.Schema),
	}
}

// A FilteredTable keeps the rows of a table that satisfy a predicate.
type FilteredTable struct {
	Src    *token.SourceRange
	Table  Table
	Filter BooleanExpression

	Schema *ExpressionSignature
}

// NewFilteredTable restricts table with filter. It panics if either is
// nil.
func NewFilteredTable(table Table, filter BooleanExpression) *FilteredTable {
	if table == nil {
		panic("ast: nil filtered table")
	}
	if filter == nil {
		panic("ast: nil table filter")
	}
	return &FilteredTable{Table: table, Filter: filter}
}

func (t *FilteredTable) Loc() *token.SourceRange          { return t.Src }
func (t *FilteredTable) Signature() *ExpressionSignature { return t.Schema }

// CloneTable returns a deep copy.
func (t *FilteredTable) CloneTable() Table {
	return &FilteredTable{
		Src:    t.Src.Clone(),
		Table:  t.Table.CloneTable(),
		Filter: t.Filter.CloneBoolean(),
		Schema: cloneSchema(t.Schema),
	}
}

// A ProjectionTable narrows the rows of a table to the named arguments.
type ProjectionTable struct {
	Src   *token.SourceRange
	Table Table
	Args  []string

	Schema *ExpressionSignature
}

// NewProjectionTable projects table onto the named arguments. It panics
// if the table is nil or no argument is named.
func NewProjectionTable(table Table, args []string) *ProjectionTable {
	if table == nil {
		panic("ast: nil projected table")
	}
	if len(args) == 0 {
		panic("ast: projection with no arguments")
	}
	for i, a := range args {
		if a == "" {
			panic(fmt.Sprintf("ast: empty projection argument at index %d", i))
		}
	}
	return &ProjectionTable{Table: table, Args: args}
}

func (t *ProjectionTable) Loc() *token.SourceRange          { return t.Src }
func (t *ProjectionTable) Signature() *ExpressionSignature { return t.Schema }

// CloneTable returns a deep copy.
func (t *ProjectionTable) CloneTable() Table {
	return &ProjectionTable{
		Src:    t.Src.Clone(),
		Table:  t.Table.CloneTable(),
		Args:   append([]string(nil), t.Args...),
		Schema: cloneSchema(t.Schema),
	}
}

// A ComputeTable extends each row of a table with a computed column.
type ComputeTable struct {
	Src        *token.SourceRange
	Table      Table
	Expression ScalarExpression

	// Alias names the computed column; empty means the printed form of
	// the expression is used as the name.
	Alias string

	Schema *ExpressionSignature
}

// NewComputeTable extends table with the computed expression. It panics
// if either is nil.
func NewComputeTable(table Table, expr ScalarExpression, alias string) *ComputeTable {
	if table == nil {
		panic("ast: nil computed table")
	}
	if expr == nil {
		panic("ast: nil computed expression")
	}
	return &ComputeTable{Table: table, Expression: expr, Alias: alias}
}

func (t *ComputeTable) Loc() *token.SourceRange          { return t.Src }
func (t *ComputeTable) Signature() *ExpressionSignature { return t.Schema }

// CloneTable returns a deep copy.
func (t *ComputeTable) CloneTable() Table {
	return &ComputeTable{
		Src:        t.Src.Clone(),
		Table:      t.Table.CloneTable(),
		Expression: t.Expression.CloneScalar(),
		Alias:      t.Alias,
		Schema:     cloneSchema(t.Schema),
	}
}

// An AliasTable gives a table a name that joins and filters can refer
// to.
type AliasTable struct {
	Src   *token.SourceRange
	Table Table
	Name  string

	Schema *ExpressionSignature
}

// NewAliasTable names table. It panics if the table is nil or the name
// is empty.
func NewAliasTable(table Table, name string) *AliasTable {
	if table == nil {
		panic("ast: nil aliased table")
	}
	if name == "" {
		panic("ast: empty table alias")
	}
	return &AliasTable{Table: table, Name: name}
}

func (t *AliasTable) Loc() *token.SourceRange          { return t.Src }
func (t *AliasTable) Signature() *ExpressionSignature { return t.Schema }

// CloneTable returns a deep copy.
func (t *AliasTable) CloneTable() Table {
	return &AliasTable{
		Src:    t.Src.Clone(),
		Table:  t.Table.CloneTable(),
		Name:   t.Name,
		Schema: cloneSchema(t.Schema),
	}
}

// An AggregationTable reduces the rows of a table with an aggregation
// operator over one field. The field is "*" for count.
type AggregationTable struct {
	Src      *token.SourceRange
	Table    Table
	Field    string
	Operator string

	// Alias names the aggregated column; empty means the operator name
	// is used.
	Alias string

	Schema *ExpressionSignature
}

// NewAggregationTable reduces table with the given operator over field.
// It panics if the table is nil, the field is empty, or the operator is
// unknown.
func NewAggregationTable(table Table, field, operator, alias string) *AggregationTable {
	if table == nil {
		panic("ast: nil aggregated table")
	}
	if field == "" {
		panic("ast: empty aggregation field")
	}
	if !IsAggregationOp(operator) {
		panic(fmt.Sprintf("ast: unknown aggregation operator %q", operator))
	}
	return &AggregationTable{Table: table, Field: field, Operator: operator, Alias: alias}
}

func (t *AggregationTable) Loc() *token.SourceRange          { return t.Src }
func (t *AggregationTable) Signature() *ExpressionSignature { return t.Schema }

// CloneTable returns a deep copy.
func (t *AggregationTable) CloneTable() Table {
	return &AggregationTable{
		Src:      t.Src.Clone(),
		Table:    t.Table.CloneTable(),
		Field:    t.Field,
		Operator: t.Operator,
		Alias:    t.Alias,
		Schema:   cloneSchema(t.Schema),
	}
}

// A SortedTable orders the rows of a table by one field.
type SortedTable struct {
	Src       *token.SourceRange
	Table     Table
	Field     string
	Direction SortDirection

	Schema *ExpressionSignature
}

// NewSortedTable orders table by field. It panics if the table is nil,
// the field is empty, or the direction is invalid.
func NewSortedTable(table Table, field string, dir SortDirection) *SortedTable {
	if table == nil {
		panic("ast: nil sorted table")
	}
	if field == "" {
		panic("ast: empty sort field")
	}
	if !validSortDirection(dir) {
		panic(fmt.Sprintf("ast: invalid sort direction %q", dir))
	}
	return &SortedTable{Table: table, Field: field, Direction: dir}
}

func (t *SortedTable) Loc() *token.SourceRange          { return t.Src }
func (t *SortedTable) Signature() *ExpressionSignature { return t.Schema }

// CloneTable returns a deep copy.
func (t *SortedTable) CloneTable() Table {
	return &SortedTable{
		Src:       t.Src.Clone(),
		Table:     t.Table.CloneTable(),
		Field:     t.Field,
		Direction: t.Direction,
		Schema:    cloneSchema(t.Schema),
	}
}

// An IndexTable picks rows of a table by position, 1-based.
type IndexTable struct {
	Src     *token.SourceRange
	Table   Table
	Indices []Value

	Schema *ExpressionSignature
}

// NewIndexTable picks the rows of table at the given indices. It panics
// if the table is nil, no index is given, or an index is nil.
func NewIndexTable(table Table, indices []Value) *IndexTable {
	if table == nil {
		panic("ast: nil indexed table")
	}
	if len(indices) == 0 {
		panic("ast: index with no values")
	}
	for i, v := range indices {
		if v == nil {
			panic(fmt.Sprintf("ast: nil index value at index %d", i))
		}
	}
	return &IndexTable{Table: table, Indices: indices}
}

func (t *IndexTable) Loc() *token.SourceRange          { return t.Src }
func (t *IndexTable) Signature() *ExpressionSignature { return t.Schema }

// CloneTable returns a deep copy.
func (t *IndexTable) CloneTable() Table {
	c := &IndexTable{
		Src:    t.Src.Clone(),
		Table:  t.Table.CloneTable(),
		Schema: cloneSchema(t.Schema),
	}
	c.Indices = make([]Value, len(t.Indices))
	for i, v := range t.Indices {
		c.Indices[i] = v.CloneValue()
	}
	return c
}

// A SlicedTable keeps a contiguous run of rows: limit rows starting at
// base, 1-based.
type SlicedTable struct {
	Src   *token.SourceRange
	Table Table
	Base  Value
	Limit Value

	Schema *ExpressionSignature
}

// NewSlicedTable keeps limit rows of table starting at base. It panics
// if any part is nil.
func NewSlicedTable(table Table, base, limit Value) *SlicedTable {
	if table == nil {
		panic("ast: nil sliced table")
	}
	if base == nil {
		panic("ast: nil slice base")
	}
	if limit == nil {
		panic("ast: nil slice limit")
	}
	return &SlicedTable{Table: table, Base: base, Limit: limit}
}

func (t *SlicedTable) Loc() *token.SourceRange          { return t.Src }
func (t *SlicedTable) Signature() *ExpressionSignature { return t.Schema }

// CloneTable returns a deep copy.
func (t *SlicedTable) CloneTable() Table {
	return &SlicedTable{
		Src:    t.Src.Clone(),
		Table:  t.Table.CloneTable(),
		Base:   t.Base.CloneValue(),
		Limit:  t.Limit.CloneValue(),
		Schema: cloneSchema(t.Schema),
	}
}

// A JoinTable pairs the rows of two tables. The input parameters bind
// input arguments of the right-hand side to output arguments of the
// left-hand side.
type JoinTable struct {
	Src      *token.SourceRange
	LHS      Table
	RHS      Table
	InParams []*InputParam

	Schema *ExpressionSignature
}

// NewJoinTable joins lhs with rhs, binding rhs inputs through inParams.
// It panics if either table is nil or an input parameter is nil.
func NewJoinTable(lhs, rhs Table, inParams []*InputParam) *JoinTable {
	if lhs == nil || rhs == nil {
		panic("ast: nil join operand")
	}
	for i, p := range inParams {
		if p == nil {
			panic(fmt.Sprintf("ast: nil input parameter at index %d", i))
		}
	}
	return &JoinTable{LHS: lhs, RHS: rhs, InParams: inParams}
}

func (t *JoinTable) Loc() *token.SourceRange          { return t.Src }
func (t *JoinTable) Signature() *ExpressionSignature { return t.Schema }

// CloneTable returns a deep copy.
func (t *JoinTable) CloneTable() Table {
	c := &JoinTable{
		Src:    t.Src.Clone(),
		LHS:    t.LHS.CloneTable(),
		RHS:    t.RHS.CloneTable(),
		Schema: cloneSchema(t.Schema),
	}
	if t.InParams != nil {
		c.InParams = make([]*InputParam, len(t.InParams))
		for i, p := range t.InParams {
			c.InParams[i] = p.Clone()
		}
	}
	return c
}

// A WindowTable collects the results a stream produces between two
// positions counted in results.
type WindowTable struct {
	Src    *token.SourceRange
	Base   Value
	Delta  Value
	Stream Stream

	Schema *ExpressionSignature
}

// NewWindowTable collects delta results of stream starting at base. It
// panics if any part is nil.
func NewWindowTable(base, delta Value, stream Stream) *WindowTable {
	if base == nil {
		panic("ast: nil window base")
	}
	if delta == nil {
		panic("ast: nil window delta")
	}
	if stream == nil {
		panic("ast: nil window stream")
	}
	return &WindowTable{Base: base, Delta: delta, Stream: stream}
}

func (t *WindowTable) Loc() *token.SourceRange          { return t.Src }
func (t *WindowTable) Signature() *ExpressionSignature { return t.Schema }

// CloneTable returns a deep copy.
func (t *WindowTable) CloneTable() Table {
	return &WindowTable{
		Src:    t.Src.Clone(),
		Base:   t.Base.CloneValue(),
		Delta:  t.Delta.CloneValue(),
		Stream: t.Stream.CloneStream(),
		Schema: cloneSchema(t.Schema),
	}
}

// A TimeSeriesTable collects the results a stream produces in a span of
// time: delta of time starting at the base date.
type TimeSeriesTable struct {
	Src    *token.SourceRange
	Base   Value // a Date value
	Delta  Value // a Measure(ms) value
	Stream Stream

	Schema *ExpressionSignature
}

// NewTimeSeriesTable collects the results of stream within delta of
// base. It panics if any part is nil.
func NewTimeSeriesTable(base, delta Value, stream Stream) *TimeSeriesTable {
	if base == nil {
		panic("ast: nil time series base")
	}
	if delta == nil {
		panic("ast: nil time series delta")
	}
	if stream == nil {
		panic("ast: nil time series stream")
	}
	return &TimeSeriesTable{Base: base, Delta: delta, Stream: stream}
}

func (t *TimeSeriesTable) Loc() *token.SourceRange          { return t.Src }
func (t *TimeSeriesTable) Signature() *ExpressionSignature { return t.Schema }

// CloneTable returns a deep copy.
func (t *TimeSeriesTable) CloneTable() Table {
	return &TimeSeriesTable{
		Src:    t.Src.Clone(),
		Base:   t.Base.CloneValue(),
		Delta:  t.Delta.CloneValue(),
		Stream: t.Stream.CloneStream(),
		Schema: cloneSchema(t.Schema),
	}
}

// A SequenceTable collects past query results by position: delta
// results ending at base positions ago.
type SequenceTable struct {
	Src   *token.SourceRange
	Base  Value
	Delta Value
	Table Table

	Schema *ExpressionSignature
}

// NewSequenceTable collects delta past results of table starting at
// base. It panics if any part is nil.
func NewSequenceTable(base, delta Value, table Table) *SequenceTable {
	if base == nil {
		panic("ast: nil sequence base")
	}
	if delta == nil {
		panic("ast: nil sequence delta")
	}
	if table == nil {
		panic("ast: nil sequence table")
	}
	return &SequenceTable{Base: base, Delta: delta, Table: table}
}

func (t *SequenceTable) Loc() *token.SourceRange          { return t.Src }
func (t *SequenceTable) Signature() *ExpressionSignature { return t.Schema }

// CloneTable returns a deep copy.
func (t *SequenceTable) CloneTable() Table {
	return &SequenceTable{
		Src:    t.Src.Clone(),
		Base:   t.Base.CloneValue(),
		Delta:  t.Delta.CloneValue(),
		Table:  t.Table.CloneTable(),
		Schema: cloneSchema(t.Schema),
	}
}

// A HistoryTable collects past query results by time: the results of
// table recorded within delta of the base date.
type HistoryTable struct {
	Src   *token.SourceRange
	Base  Value // a Date value
	Delta Value // a Measure(ms) value
	Table Table

	Schema *ExpressionSignature
}

// NewHistoryTable collects the recorded results of table within delta
// of base. It panics if any part is nil.
func NewHistoryTable(base, delta Value, table Table) *HistoryTable {
	if base == nil {
		panic("ast: nil history base")
	}
	if delta == nil {
		panic("ast: nil history delta")
	}
	if table == nil {
		panic("ast: nil history table")
	}
	return &HistoryTable{Base: base, Delta: delta, Table: table}
}

func (t *HistoryTable) Loc() *token.SourceRange          { return t.Src }
func (t *HistoryTable) Signature() *ExpressionSignature { return t.Schema }

// CloneTable returns a deep copy.
func (t *HistoryTable) CloneTable() Table {
	return &HistoryTable{
		Src:    t.Src.Clone(),
		Base:   t.Base.CloneValue(),
		Delta:  t.Delta.CloneValue(),
		Table:  t.Table.CloneTable(),
		Schema: cloneSchema(t.Schema),
	}
}
