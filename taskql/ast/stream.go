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

// A VarRefStream refers to a stream declared earlier in the program by
// name.
type VarRefStream struct {
	Src      *token.SourceRange
	Name     string
	InParams []*InputParam

	Schema *ExpressionSignature
}

// NewVarRefStream refers to the named declared stream. It panics if the
// name is empty.
func NewVarRefStream(name string, inParams []*InputParam) *VarRefStream {
	if name == "" {
		panic("ast: empty stream reference name")
	}
	for i, p := range inParams {
		if p == nil {
			panic(fmt.Sprintf("ast: nil input parameter at index %d", i))
		}
	}
	return &VarRefStream{Name: name, InParams: inParams}
}

func (s *VarRefStream) Loc() *token.SourceRange          { return s.Src }
func (s *VarRefStream) Signature() *ExpressionSignature { return s.Schema }

// CloneStream returns a deep copy.
func (s *VarRefStream) CloneStream() Stream {
	c := &VarRefStream{Src: s.Src.Clone(), Name: s.Name, Schema: cloneSchema(s.Schema)}
	if s.InParams != nil {
		c.InParams = make([]*InputParam, len(s.InParams))
		for i, p := range s.InParams {
			c.InParams[i] = p.Clone()
		}
	}
	return c
}

// A TimerStream fires at a fixed interval starting from a base date,
// optionally several times per interval.
type TimerStream struct {
	Src      *token.SourceRange
	Base     Value // a Date value
	Interval Value // a Measure(ms) value

	// Frequency is the number of firings per interval; nil means once.
	Frequency Value

	Schema *ExpressionSignature
}

// NewTimerStream fires every interval starting at base. It panics if
// base or interval is nil.
func NewTimerStream(base, interval, frequency Value) *TimerStream {
	if base == nil {
		panic("ast: nil timer base")
	}
	if interval == nil {
		panic("ast: nil timer interval")
	}
	return &TimerStream{Base: base, Interval: interval, Frequency: frequency}
}

func (s *TimerStream) Loc() *token.SourceRange          { return s.Src }
func (s *TimerStream) Signature() *ExpressionSignature { return s.Schema }

// CloneStream returns a deep copy.
func (s *TimerStream) CloneStream() Stream {
	c := &TimerStream{
		Src:      s.Src.Clone(),
		Base:     s.Base.CloneValue(),
		Interval: s.Interval.CloneValue(),
		Schema:   cloneSchema(s.Schema),
	}
	if s.Frequency != nil {
		c.Frequency = s.Frequency.CloneValue()
	}
	return c
}

// An AtTimerStream fires at fixed times of day, optionally until an
// expiration interval has passed.
type AtTimerStream struct {
	Src   *token.SourceRange
	Times []Value // Time values

	// Expiration stops the timer after this much time; nil means never.
	Expiration Value

	Schema *ExpressionSignature
}

// NewAtTimerStream fires at the given times of day. It panics if no
// time is given or a time is nil.
func NewAtTimerStream(times []Value, expiration Value) *AtTimerStream {
	if len(times) == 0 {
		panic("ast: at-timer with no times")
	}
	for i, v := range times {
		if v == nil {
			panic(fmt.Sprintf("ast: nil at-timer time at index %d", i))
		}
	}
	return &AtTimerStream{Times: times, Expiration: expiration}
}

func (s *AtTimerStream) Loc() *token.SourceRange          { return s.Src }
func (s *AtTimerStream) Signature() *ExpressionSignature { return s.Schema }

// CloneStream returns a deep copy.
func (s *AtTimerStream) CloneStream() Stream {
	c := &AtTimerStream{Src: s.Src.Clone(), Schema: cloneSchema(s.Schema)}
	c.Times = make([]Value, len(s.Times))
	for i, v := range s.Times {
		c.Times[i] = v.CloneValue()
	}
	if s.Expiration != nil {
		c.Expiration = s.Expiration.CloneValue()
	}
	return c
}

// A MonitorStream polls a table and fires when its rows change.
type MonitorStream struct {
	Src   *token.SourceRange
	Table Table

	// Args restricts change detection to the named output arguments;
	// nil watches every argument.
	Args []string

	Schema *ExpressionSignature
}

// NewMonitorStream watches table for changes. It panics if the table is
// nil.
func NewMonitorStream(table Table, args []string) *MonitorStream {
	if table == nil {
		panic("ast: nil monitored table")
	}
	for i, a := range args {
		if a == "" {
			panic(fmt.Sprintf("ast: empty monitored argument at index %d", i))
		}
	}
	return &MonitorStream{Table: table, Args: args}
}

func (s *MonitorStream) Loc() *token.SourceRange          { return s.Src }
func (s *MonitorStream) Signature() *ExpressionSignature { return s.Schema }

// CloneStream returns a deep copy.
func (s *MonitorStream) CloneStream() Stream {
	c := &MonitorStream{
		Src:    s.Src.Clone(),
		Table:  s.Table.CloneTable(),
		Schema: cloneSchema(s.Schema),
	}
	if s.Args != nil {
		c.Args = append([]string(nil), s.Args...)
	}
	return c
}

// An EdgeNewStream fires only for results never seen before on the
// underlying stream.
type EdgeNewStream struct {
	Src    *token.SourceRange
	Stream Stream

	Schema *ExpressionSignature
}

// NewEdgeNewStream deduplicates stream. It panics if the stream is nil.
func NewEdgeNewStream(stream Stream) *EdgeNewStream {
	if stream == nil {
		panic("ast: nil edge stream")
	}
	return &EdgeNewStream{Stream: stream}
}

func (s *EdgeNewStream) Loc() *token.SourceRange          { return s.Src }
func (s *EdgeNewStream) Signature() *ExpressionSignature { return s.Schema }

// CloneStream returns a deep copy.
func (s *EdgeNewStream) CloneStream() Stream {
	return &EdgeNewStream{
		Src:    s.Src.Clone(),
		Stream: s.Stream.CloneStream(),
		Schema: cloneSchema(s.Schema),
	}
}

// An EdgeFilterStream fires when its predicate transitions from false
// to true on consecutive results of the underlying stream.
type EdgeFilterStream struct {
	Src    *token.SourceRange
	Stream Stream
	Filter BooleanExpression

	Schema *ExpressionSignature
}

// NewEdgeFilterStream fires on the rising edge of filter over stream.
// It panics if either is nil.
func NewEdgeFilterStream(stream Stream, filter BooleanExpression) *EdgeFilterStream {
	if stream == nil {
		panic("ast: nil edge stream")
	}
	if filter == nil {
		panic("ast: nil edge filter")
	}
	return &EdgeFilterStream{Stream: stream, Filter: filter}
}

func (s *EdgeFilterStream) Loc() *token.SourceRange          { return s.Src }
func (s *EdgeFilterStream) Signature() *ExpressionSignature { return s.Schema }

// CloneStream returns a deep copy.
func (s *EdgeFilterStream) CloneStream() Stream {
	return &EdgeFilterStream{
		Src:    s.Src.Clone(),
		Stream: s.Stream.CloneStream(),
		Filter: s.Filter.CloneBoolean(),
		Schema: cloneSchema(s.Schema),
	}
}

// A FilteredStream keeps the results of a stream that satisfy a
// predicate.
type FilteredStream struct {
	Src    *token.SourceRange
	Stream Stream
	Filter BooleanExpression

	Schema *ExpressionSignature
}

// NewFilteredStream restricts stream with filter. It panics if either
// is nil.
func NewFilteredStream(stream Stream, filter BooleanExpression) *FilteredStream {
	if stream == nil {
		panic("ast: nil filtered stream")
	}
	if filter == nil {
		panic("ast: nil stream filter")
	}
	return &FilteredStream{Stream: stream, Filter: filter}
}

func (s *FilteredStream) Loc() *token.SourceRange          { return s.Src }
func (s *FilteredStream) Signature() *ExpressionSignature { return s.Schema }

// CloneStream returns a deep copy.
func (s *FilteredStream) CloneStream() Stream {
	return &FilteredStream{
		Src:    s.Src.Clone(),
		Stream: s.Stream.CloneStream(),
		Filter: s.Filter.CloneBoolean(),
		Schema: cloneSchema(s.Schema),
	}
}

// A ProjectionStream narrows the results of a stream to the named
// arguments.
type ProjectionStream struct {
	Src    *token.SourceRange
	Stream Stream
	Args   []string

	Schema *ExpressionSignature
}

// NewProjectionStream projects stream onto the named arguments. It
// panics if the stream is nil or no argument is named.
func NewProjectionStream(stream Stream, args []string) *ProjectionStream {
	if stream == nil {
		panic("ast: nil projected stream")
	}
	if len(args) == 0 {
		panic("ast: projection with no arguments")
	}
	for i, a := range args {
		if a == "" {
			panic(fmt.Sprintf("ast: empty projection argument at index %d", i))
		}
	}
	return &ProjectionStream{Stream: stream, Args: args}
}

func (s *ProjectionStream) Loc() *token.SourceRange          { return s.Src }
func (s *ProjectionStream) Signature() *ExpressionSignature { return s.Schema }

// CloneStream returns a deep copy.
func (s *ProjectionStream) CloneStream() Stream {
	return &ProjectionStream{
		Src:    s.Src.Clone(),
		Stream: s.Stream.CloneStream(),
		Args:   append([]string(nil), s.Args...),
		Schema: cloneSchema(s.Schema),
	}
}

// A ComputeStream extends each result of a stream with a computed
// column.
type ComputeStream struct {
	Src        *token.SourceRange
	Stream     Stream
	Expression ScalarExpression

	// Alias names the computed column; empty means the printed form of
	// the expression is used as the name.
	Alias string

	Schema *ExpressionSignature
}

// NewComputeStream extends stream with the computed expression. It
// panics if either is nil.
func NewComputeStream(stream Stream, expr ScalarExpression, alias string) *ComputeStream {
	if stream == nil {
		panic("ast: nil computed stream")
	}
	if expr == nil {
		panic("ast: nil computed expression")
	}
	return &ComputeStream{Stream: stream, Expression: expr, Alias: alias}
}

func (s *ComputeStream) Loc() *token.SourceRange          { return s.Src }
func (s *ComputeStream) Signature() *ExpressionSignature { return s.Schema }

// CloneStream returns a deep copy.
func (s *ComputeStream) CloneStream() Stream {
	return &ComputeStream{
		Src:        s.Src.Clone(),
		Stream:     s.Stream.CloneStream(),
		Expression: s.Expression.CloneScalar(),
		Alias:      s.Alias,
		Schema:     cloneSchema(s.Schema),
	}
}

// An AliasStream gives a stream a name that joins and filters can refer
// to.
type AliasStream struct {
	Src    *token.SourceRange
	Stream Stream
	Name   string

	Schema *ExpressionSignature
}

// NewAliasStream names stream. It panics if the stream is nil or the
// name is empty.
func NewAliasStream(stream Stream, name string) *AliasStream {
	if stream == nil {
		panic("ast: nil aliased stream")
	}
	if name == "" {
		panic("ast: empty stream alias")
	}
	return &AliasStream{Stream: stream, Name: name}
}

func (s *AliasStream) Loc() *token.SourceRange          { return s.Src }
func (s *AliasStream) Signature() *ExpressionSignature { return s.Schema }

// CloneStream returns a deep copy.
func (s *AliasStream) CloneStream() Stream {
	return &AliasStream{
		Src:    s.Src.Clone(),
		Stream: s.Stream.CloneStream(),
		Name:   s.Name,
		Schema: cloneSchema(s.Schema),
	}
}

// A JoinStream extends each result of a stream with the rows of a
// table queried at firing time. The input parameters bind input
// arguments of the table to output arguments of the stream.
type JoinStream struct {
	Src      *token.SourceRange
	Stream   Stream
	Table    Table
	InParams []*InputParam

	Schema *ExpressionSignature
}

// NewJoinStream joins stream with table, binding table inputs through
// inParams. It panics if either operand is nil or an input parameter is
// nil.
func NewJoinStream(stream Stream, table Table, inParams []*InputParam) *JoinStream {
	if stream == nil {
		panic("ast: nil joined stream")
	}
	if table == nil {
		panic("ast: nil joined table")
	}
	for i, p := range inParams {
		if p == nil {
			panic(fmt.Sprintf("ast: nil input parameter at index %d", i))
		}
	}
	return &JoinStream{Stream: stream, Table: table, InParams: inParams}
}

func (s *JoinStream) Loc() *token.SourceRange          { return s.Src }
func (s *JoinStream) Signature() *ExpressionSignature { return s.Schema }

// CloneStream returns a deep copy.
func (s *JoinStream) CloneStream() Stream {
	c := &JoinStream{
		Src:    s.Src.Clone(),
		Stream: s.Stream.CloneStream(),
		Table:  s.Table.CloneTable(),
		Schema: cloneSchema(s.Schema),
	}
	if s.InParams != nil {
		c.InParams = make([]*InputParam, len(s.InParams))
		for i, p := range s.InParams {
			c.InParams[i] = p.Clone()
		}
	}
	return c
}
