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
	"taskql.org/go/taskql/types"
)

// A Rule executes actions every time a stream produces a result.
type Rule struct {
	Src     *token.SourceRange
	Stream  Stream
	Actions []Action
}

// NewRule executes the given actions on every result of stream. It
// panics if the stream is nil or no action is given.
func NewRule(stream Stream, actions ...Action) *Rule {
	if stream == nil {
		panic("ast: nil rule stream")
	}
	if len(actions) == 0 {
		panic("ast: rule with no actions")
	}
	for i, a := range actions {
		if a == nil {
			panic(fmt.Sprintf("ast: nil action at index %d", i))
		}
	}
	return &Rule{Stream: stream, Actions: actions}
}

func (r *Rule) Loc() *token.SourceRange { return r.Src }

// CloneStatement returns a deep copy of the rule.
func (r *Rule) CloneStatement() Statement {
	c := &Rule{Src: r.Src.Clone(), Stream: r.Stream.CloneStream()}
	c.Actions = make([]Action, len(r.Actions))
	for i, a := range r.Actions {
		c.Actions[i] = a.CloneAction()
	}
	return c
}

// A Command executes actions once, over the rows of an optional table.
// A nil table means the actions run immediately with no query input.
type Command struct {
	Src     *token.SourceRange
	Table   Table
	Actions []Action
}

// NewCommand executes the given actions once over table, which may be
// nil. It panics if no action is given.
func NewCommand(table Table, actions ...Action) *Command {
	if len(actions) == 0 {
		panic("ast: command with no actions")
	}
	for i, a := range actions {
		if a == nil {
			panic(fmt.Sprintf("ast: nil action at index %d", i))
		}
	}
	return &Command{Table: table, Actions: actions}
}

func (c *Command) Loc() *token.SourceRange { return c.Src }

// CloneStatement returns a deep copy of the command.
func (c *Command) CloneStatement() Statement {
	out := &Command{Src: c.Src.Clone()}
	if c.Table != nil {
		out.Table = c.Table.CloneTable()
	}
	out.Actions = make([]Action, len(c.Actions))
	for i, a := range c.Actions {
		out.Actions[i] = a.CloneAction()
	}
	return out
}

// An Assignment materializes the rows of a table under a name that
// later statements can refer to.
type Assignment struct {
	Src   *token.SourceRange
	Name  string
	Value Table

	Schema *ExpressionSignature
}

// NewAssignment binds the rows of value to name. It panics if the name
// is empty or the value is nil.
func NewAssignment(name string, value Table) *Assignment {
	if name == "" {
		panic("ast: empty assignment name")
	}
	if value == nil {
		panic("ast: nil assignment value")
	}
	return &Assignment{Name: name, Value: value}
}

func (a *Assignment) Loc() *token.SourceRange { return a.Src }

// CloneStatement returns a deep copy of the assignment.
func (a *Assignment) CloneStatement() Statement {
	return &Assignment{
		Src:    a.Src.Clone(),
		Name:   a.Name,
		Value:  a.Value.CloneTable(),
		Schema: cloneSchema(a.Schema),
	}
}

// A Declaration names a parameterized table, stream or action that
// statements and other declarations can instantiate by reference.
type Declaration struct {
	Src  *token.SourceRange
	Name string
	Type FunctionType

	// Args declares the lambda arguments by name.
	Args map[string]types.Type

	// Value is the declared body: a Table, Stream or Action matching
	// Type.
	Value Node

	// NL holds the natural-language metadata of the declaration.
	NL map[string]interface{}

	// Impl holds the implementation annotations of the declaration.
	Impl map[string]Value

	Schema *FunctionDef
}

// NewDeclaration declares value under name. The value must be a Table,
// Stream or Action agreeing with ftype; anything else panics.
func NewDeclaration(name string, ftype FunctionType, args map[string]types.Type, value Node) *Declaration {
	if name == "" {
		panic("ast: empty declaration name")
	}
	switch value.(type) {
	case Table:
		if ftype != FunctionQuery {
			panic(fmt.Sprintf("ast: table declared as %s", ftype))
		}
	case Stream:
		if ftype != FunctionStream {
			panic(fmt.Sprintf("ast: stream declared as %s", ftype))
		}
	case Action:
		if ftype != FunctionAction {
			panic(fmt.Sprintf("ast: action declared as %s", ftype))
		}
	default:
		panic(fmt.Sprintf("ast: cannot declare %T", value))
	}
	return &Declaration{Name: name, Type: ftype, Args: args, Value: value}
}

func (d *Declaration) Loc() *token.SourceRange { return d.Src }

// CloneStatement returns a deep copy of the declaration.
func (d *Declaration) CloneStatement() Statement {
	c := &Declaration{
		Src:  d.Src.Clone(),
		Name: d.Name,
		Type: d.Type,
		NL:   cloneNLAnnotations(d.NL),
		Impl: cloneImplAnnotations(d.Impl),
	}
	if d.Args != nil {
		c.Args = make(map[string]types.Type, len(d.Args))
		for name, t := range d.Args {
			c.Args[name] = t
		}
	}
	switch v := d.Value.(type) {
	case Table:
		c.Value = v.CloneTable()
	case Stream:
		c.Value = v.CloneStream()
	case Action:
		c.Value = v.CloneAction()
	}
	if d.Schema != nil {
		c.Schema = d.Schema.Clone()
	}
	return c
}

// A Program is a complete TaskQL input: inline classes, declarations,
// and the executable statements. A non-nil principal addresses the
// program to another user's assistant.
type Program struct {
	Src          *token.SourceRange
	Classes      []*ClassDef
	Declarations []*Declaration
	Statements   []Statement
	Principal    Value
}

// NewProgram composes a program. It panics if any element is nil.
func NewProgram(classes []*ClassDef, declarations []*Declaration, statements []Statement) *Program {
	for i, c := range classes {
		if c == nil {
			panic(fmt.Sprintf("ast: nil class at index %d", i))
		}
	}
	for i, d := range declarations {
		if d == nil {
			panic(fmt.Sprintf("ast: nil declaration at index %d", i))
		}
	}
	for i, s := range statements {
		if s == nil {
			panic(fmt.Sprintf("ast: nil statement at index %d", i))
		}
	}
	return &Program{Classes: classes, Declarations: declarations, Statements: statements}
}

func (p *Program) Loc() *token.SourceRange { return p.Src }

// Clone returns a deep copy of the program.
func (p *Program) Clone() *Program {
	c := &Program{Src: p.Src.Clone()}
	if p.Classes != nil {
		c.Classes = make([]*ClassDef, len(p.Classes))
		for i, cd := range p.Classes {
			c.Classes[i] = cd.Clone()
		}
	}
	if p.Declarations != nil {
		c.Declarations = make([]*Declaration, len(p.Declarations))
		for i, d := range p.Declarations {
			c.Declarations[i] = d.CloneStatement().(*Declaration)
		}
	}
	if p.Statements != nil {
		c.Statements = make([]Statement, len(p.Statements))
		for i, s := range p.Statements {
			c.Statements[i] = s.CloneStatement()
		}
	}
	if p.Principal != nil {
		c.Principal = p.Principal.CloneValue()
	}
	return c
}
