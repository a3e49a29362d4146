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
	"strconv"

	"taskql.org/go/taskql/types"
)

// A Primitive is a node that calls into a concrete function channel and
// therefore carries a resolvable schema: an *Invocation, an
// *ExternalBooleanExpression or a *SpecifiedPermissionFunction.
type Primitive interface {
	Node
	primitiveNode()
}

func (i *Invocation) primitiveNode()                  {}
func (e *ExternalBooleanExpression) primitiveNode()   {}
func (p *SpecifiedPermissionFunction) primitiveNode() {}

// A ScopeEntry describes one name visible at a slot: the value it
// resolves to when used for parameter passing, its type, the canonical
// phrase of the argument it came from, and the device kind that
// produced it (empty for builtin sources).
type ScopeEntry struct {
	Value        Value
	Type         types.Type
	ArgCanonical string
	Kind         string
}

// A Scope maps names available for parameter passing at a slot to their
// entries. A nil scope means the producing operator's schema is not
// resolved yet.
type Scope map[string]*ScopeEntry

func (s Scope) restrict(names []string) Scope {
	if s == nil {
		return nil
	}
	out := Scope{}
	for _, n := range names {
		if e, ok := s[n]; ok {
			out[n] = e
		}
	}
	return out
}

// makeScope exposes the output arguments of a resolved schema as the
// scope seen by operators to the right.
func makeScope(sig *ExpressionSignature, kind string) Scope {
	if sig == nil {
		return nil
	}
	scope := Scope{}
	for name, arg := range sig.Outputs() {
		scope[name] = &ScopeEntry{
			Value:        NewVarRef(name),
			Type:         arg.Type,
			ArgCanonical: arg.Canonical(),
			Kind:         kind,
		}
	}
	scope["$event"] = &ScopeEntry{Value: NewEvent(""), Type: types.String}
	return scope
}

func kindOf(sel Selector) string {
	if dev, ok := sel.(*DeviceSelector); ok {
		return dev.Kind
	}
	return ""
}

// A Slot is an addressable, potentially unresolved value position in a
// tree, together with the scope of names available to fill it. Slots
// are handed to an external dialogue component, which reads the current
// value with Get, asks the user, and writes the answer back with Set.
//
// IterateSlots yields slots in a fixed order for a fixed tree; the
// order is part of the contract, not an implementation detail.
type Slot interface {
	// Primitive reports the function call this slot belongs to, or nil
	// for slots of timers and other primitive-less operators.
	Primitive() Primitive
	// Scope reports the names in scope at this slot.
	Scope() Scope
	// Type reports the type a filled value must have.
	Type() types.Type
	// Get reports the value currently occupying the slot.
	Get() Value
	// Set fills the slot. It panics on a nil value.
	Set(v Value)
	// Tag identifies the slot position for logging and templates, such
	// as "in_param.to" or "filter.==.id".
	Tag() string

	String() string
}

type baseSlot struct {
	prim  Primitive
	scope Scope
}

func (s *baseSlot) Primitive() Primitive { return s.prim }
func (s *baseSlot) Scope() Scope         { return s.scope }

// An InputParamSlot is the value of one bound input parameter of an
// invocation.
type InputParamSlot struct {
	baseSlot
	arg   *ArgumentDef
	param *InputParam
}

// Param reports the input parameter the slot writes to.
func (s *InputParamSlot) Param() *InputParam { return s.param }

// Arg reports the argument definition the parameter binds, or nil when
// the schema is not resolved.
func (s *InputParamSlot) Arg() *ArgumentDef { return s.arg }

func (s *InputParamSlot) Type() types.Type {
	if s.arg != nil {
		return s.arg.Type
	}
	return types.Any
}

func (s *InputParamSlot) Get() Value { return s.param.Value }

func (s *InputParamSlot) Set(v Value) {
	if v == nil {
		panic("ast: nil slot value")
	}
	s.param.Value = v
}

func (s *InputParamSlot) Tag() string { return "in_param." + s.param.Name }

func (s *InputParamSlot) String() string {
	return fmt.Sprintf("InputParamSlot(%s : %s)", s.param.Name, s.Type())
}

// A DeviceAttributeSlot is the value of one attribute constraint on a
// device selector, such as name="kitchen".
type DeviceAttributeSlot struct {
	baseSlot
	attr *InputParam
}

// Attribute reports the selector attribute the slot writes to.
func (s *DeviceAttributeSlot) Attribute() *InputParam { return s.attr }

func (s *DeviceAttributeSlot) Type() types.Type { return types.String }

func (s *DeviceAttributeSlot) Get() Value { return s.attr.Value }

func (s *DeviceAttributeSlot) Set(v Value) {
	if v == nil {
		panic("ast: nil slot value")
	}
	s.attr.Value = v
}

func (s *DeviceAttributeSlot) Tag() string { return "attribute." + s.attr.Name }

func (s *DeviceAttributeSlot) String() string {
	return fmt.Sprintf("DeviceAttributeSlot(%s : %s)", s.attr.Name, s.Type())
}

// A DeviceSlot selects the concrete device an invocation targets. It is
// yielded after the selector's attribute slots, so a consumer can
// resolve the attributes and then pick among the matching devices, and
// before the invocation's input parameters.
type DeviceSlot struct {
	baseSlot
	selector *DeviceSelector
}

// Selector reports the device selector the slot writes to.
func (s *DeviceSlot) Selector() *DeviceSelector { return s.selector }

func (s *DeviceSlot) Type() types.Type { return types.Entity("tt:device") }

func (s *DeviceSlot) Get() Value {
	if s.selector.ID == "" {
		return NewUndefined(true)
	}
	return NewEntity(s.selector.ID, "tt:device", "")
}

func (s *DeviceSlot) Set(v Value) {
	switch x := v.(type) {
	case *EntityValue:
		s.selector.ID = x.Value
	case *UndefinedValue:
		s.selector.ID = ""
	default:
		panic(fmt.Sprintf("ast: cannot select a device from %T", v))
	}
}

func (s *DeviceSlot) Tag() string { return "device" }

func (s *DeviceSlot) String() string {
	return fmt.Sprintf("DeviceSlot(%s)", s.selector.Kind)
}

// A FilterSlot is the right-hand side of one atom filter.
type FilterSlot struct {
	baseSlot
	arg  *ArgumentDef
	atom *AtomBooleanExpression
}

// Atom reports the filter the slot writes to.
func (s *FilterSlot) Atom() *AtomBooleanExpression { return s.atom }

// Arg reports the filtered argument's definition, or nil when the
// schema is not resolved.
func (s *FilterSlot) Arg() *ArgumentDef { return s.arg }

func (s *FilterSlot) Type() types.Type {
	var lhs types.Type
	if s.arg != nil {
		lhs = s.arg.Type
	}
	return FilterValueType(s.atom.Operator, lhs)
}

func (s *FilterSlot) Get() Value { return s.atom.Value }

func (s *FilterSlot) Set(v Value) {
	if v == nil {
		panic("ast: nil slot value")
	}
	s.atom.Value = v
}

func (s *FilterSlot) Tag() string {
	return "filter." + s.atom.Operator + "." + s.atom.Name
}

func (s *FilterSlot) String() string {
	return fmt.Sprintf("FilterSlot(%s %s : %s)", s.atom.Name, s.atom.Operator, s.Type())
}

// A FieldSlot is a single named value field of an operator, such as a
// timer's interval or the right-hand side of a comparison filter. It
// holds a pointer to the field so Set updates the tree in place.
type FieldSlot struct {
	baseSlot
	typ types.Type
	tag string
	ref *Value
}

func (s *FieldSlot) Type() types.Type { return s.typ }

func (s *FieldSlot) Get() Value { return *s.ref }

func (s *FieldSlot) Set(v Value) {
	if v == nil {
		panic("ast: nil slot value")
	}
	*s.ref = v
}

func (s *FieldSlot) Tag() string { return s.tag }

func (s *FieldSlot) String() string {
	return fmt.Sprintf("FieldSlot(%s : %s)", s.tag, s.typ)
}

// An ArrayIndexSlot is one element of an array-valued slot, yielded
// after the array slot itself so each element can be filled separately.
type ArrayIndexSlot struct {
	baseSlot
	typ     types.Type
	values  []Value
	index   int
	baseTag string
}

// Index reports the element position within the array.
func (s *ArrayIndexSlot) Index() int { return s.index }

func (s *ArrayIndexSlot) Type() types.Type { return s.typ }

func (s *ArrayIndexSlot) Get() Value { return s.values[s.index] }

func (s *ArrayIndexSlot) Set(v Value) {
	if v == nil {
		panic("ast: nil slot value")
	}
	s.values[s.index] = v
}

func (s *ArrayIndexSlot) Tag() string {
	return s.baseTag + "." + strconv.Itoa(s.index)
}

func (s *ArrayIndexSlot) String() string {
	return fmt.Sprintf("ArrayIndexSlot([%d] : %s)", s.index, s.typ)
}

// A ComputationOperandSlot is one operand of a computation-valued slot,
// yielded after the computation slot itself.
type ComputationOperandSlot struct {
	baseSlot
	typ      types.Type
	op       string
	operands []Value
	index    int
	baseTag  string
}

// Operator reports the computation operator the operand belongs to.
func (s *ComputationOperandSlot) Operator() string { return s.op }

// Index reports the operand position.
func (s *ComputationOperandSlot) Index() int { return s.index }

func (s *ComputationOperandSlot) Type() types.Type { return s.typ }

func (s *ComputationOperandSlot) Get() Value { return s.operands[s.index] }

func (s *ComputationOperandSlot) Set(v Value) {
	if v == nil {
		panic("ast: nil slot value")
	}
	s.operands[s.index] = v
}

func (s *ComputationOperandSlot) Tag() string {
	return s.baseTag + "." + s.op + "." + strconv.Itoa(s.index)
}

func (s *ComputationOperandSlot) String() string {
	return fmt.Sprintf("ComputationOperandSlot(%s[%d] : %s)", s.op, s.index, s.typ)
}

// yieldDeep yields the slot, then descends into array elements and
// computation operands of its current value so each nested position is
// individually fillable.
func yieldDeep(s Slot, yield func(Slot) bool) bool {
	if !yield(s) {
		return false
	}
	switch v := s.Get().(type) {
	case *ArrayValue:
		elem := types.Any
		if at, ok := s.Type().(*types.ArrayType); ok {
			elem = at.Elem
		}
		for i := range v.Values {
			sub := &ArrayIndexSlot{
				baseSlot: baseSlot{prim: s.Primitive(), scope: s.Scope()},
				typ:      elem,
				values:   v.Values,
				index:    i,
				baseTag:  s.Tag(),
			}
			if !yieldDeep(sub, yield) {
				return false
			}
		}
	case *ComputationValue:
		for i, o := range v.Operands {
			sub := &ComputationOperandSlot{
				baseSlot: baseSlot{prim: s.Primitive(), scope: s.Scope()},
				typ:      o.TypeOf(),
				op:       v.Op,
				operands: v.Operands,
				index:    i,
				baseTag:  s.Tag(),
			}
			if !yieldDeep(sub, yield) {
				return false
			}
		}
	}
	return true
}

func iterateParamSlots(prim Primitive, sig *ExpressionSignature, params []*InputParam, scope Scope, yield func(Slot) bool) bool {
	for _, p := range params {
		var arg *ArgumentDef
		if sig != nil {
			arg = sig.GetArgument(p.Name)
		}
		s := &InputParamSlot{baseSlot: baseSlot{prim: prim, scope: scope}, arg: arg, param: p}
		if !yieldDeep(s, yield) {
			return false
		}
	}
	return true
}

// iterateInvocationSlots yields the slots of one function call: the
// selector's attribute slots, then the selector itself, then the bound
// input parameters. It returns the scope the next operator sees, built
// from the call's output arguments.
func iterateInvocationSlots(inv *Invocation, scope Scope, yield func(Slot) bool) (Scope, bool) {
	if dev, ok := inv.Selector.(*DeviceSelector); ok {
		for _, attr := range dev.Attributes {
			s := &DeviceAttributeSlot{baseSlot: baseSlot{prim: inv}, attr: attr}
			if !yield(s) {
				return nil, false
			}
		}
		ds := &DeviceSlot{baseSlot: baseSlot{prim: inv}, selector: dev}
		if !yield(ds) {
			return nil, false
		}
	}
	sig := inv.Schema.Signature()
	if !iterateParamSlots(inv, sig, inv.InParams, scope, yield) {
		return nil, false
	}
	return makeScope(sig, kindOf(inv.Selector)), true
}

// iterateFilterSlots yields the fillable positions of a boolean
// expression, resolving argument types against sig, the schema of the
// filtered operator.
func iterateFilterSlots(b BooleanExpression, sig *ExpressionSignature, prim Primitive, scope Scope, yield func(Slot) bool) bool {
	switch x := b.(type) {
	case *TrueBooleanExpression, *FalseBooleanExpression, *DontCareBooleanExpression:
		return true
	case *AndBooleanExpression:
		for _, op := range x.Operands {
			if !iterateFilterSlots(op, sig, prim, scope, yield) {
				return false
			}
		}
		return true
	case *OrBooleanExpression:
		for _, op := range x.Operands {
			if !iterateFilterSlots(op, sig, prim, scope, yield) {
				return false
			}
		}
		return true
	case *NotBooleanExpression:
		return iterateFilterSlots(x.Expr, sig, prim, scope, yield)
	case *AtomBooleanExpression:
		var arg *ArgumentDef
		if sig != nil {
			arg = sig.GetArgument(x.Name)
		}
		s := &FilterSlot{baseSlot: baseSlot{prim: prim, scope: scope}, arg: arg, atom: x}
		return yieldDeep(s, yield)
	case *ExternalBooleanExpression:
		for _, attr := range x.Selector.Attributes {
			s := &DeviceAttributeSlot{baseSlot: baseSlot{prim: x}, attr: attr}
			if !yield(s) {
				return false
			}
		}
		ds := &DeviceSlot{baseSlot: baseSlot{prim: x}, selector: x.Selector}
		if !yield(ds) {
			return false
		}
		xsig := x.Schema.Signature()
		if !iterateParamSlots(x, xsig, x.InParams, scope, yield) {
			return false
		}
		return iterateFilterSlots(x.Filter, xsig, x, makeScope(xsig, x.Selector.Kind), yield)
	case *ComputeBooleanExpression:
		if !iterateScalarSlots(x.LHS, sig, prim, scope, yield) {
			return false
		}
		s := &FieldSlot{
			baseSlot: baseSlot{prim: prim, scope: scope},
			typ:      scalarTypeOf(x.LHS),
			tag:      "compute_filter.rhs",
			ref:      &x.RHS,
		}
		return yieldDeep(s, yield)
	default:
		panic(fmt.Sprintf("ast: IterateSlots: unexpected boolean expression type %T", b))
	}
}

// iterateScalarSlots yields the fillable value positions inside a
// scalar expression.
func iterateScalarSlots(e ScalarExpression, sig *ExpressionSignature, prim Primitive, scope Scope, yield func(Slot) bool) bool {
	switch x := e.(type) {
	case *PrimaryScalarExpression:
		s := &FieldSlot{
			baseSlot: baseSlot{prim: prim, scope: scope},
			typ:      x.Value.TypeOf(),
			tag:      "scalar.primary",
			ref:      &x.Value,
		}
		return yieldDeep(s, yield)
	case *DerivedScalarExpression:
		for _, op := range x.Operands {
			if !iterateScalarSlots(op, sig, prim, scope, yield) {
				return false
			}
		}
		return true
	case *AggregationScalarExpression:
		return iterateScalarSlots(x.List, sig, prim, scope, yield)
	case *VarRefScalarExpression:
		return iterateParamSlots(prim, nil, x.Args, scope, yield)
	default:
		panic(fmt.Sprintf("ast: IterateSlots: unexpected scalar expression type %T", e))
	}
}

// scalarTypeOf reports the statically known type of a scalar
// expression. Operator overloads are resolved by the type checker, not
// here, so derived expressions report Any.
func scalarTypeOf(e ScalarExpression) types.Type {
	switch x := e.(type) {
	case *PrimaryScalarExpression:
		return x.Value.TypeOf()
	case *AggregationScalarExpression:
		if x.Operator == "count" {
			return types.Number
		}
		return types.Any
	default:
		return types.Any
	}
}

// iterateTableSlots yields the slots of a table in evaluation order and
// returns the primitive producing its rows and the scope its outputs
// open for operators to the right.
func iterateTableSlots(t Table, scope Scope, yield func(Slot) bool) (Primitive, Scope, bool) {
	switch x := t.(type) {
	case *VarRefTable:
		if !iterateParamSlots(nil, x.Schema, x.InParams, scope, yield) {
			return nil, nil, false
		}
		return nil, makeScope(x.Schema, ""), true
	case *InvocationTable:
		out, ok := iterateInvocationSlots(x.Invocation, scope, yield)
		if !ok {
			return nil, nil, false
		}
		return x.Invocation, out, true
	case *FilteredTable:
		prim, inner, ok := iterateTableSlots(x.Table, scope, yield)
		if !ok {
			return nil, nil, false
		}
		if !iterateFilterSlots(x.Filter, x.Table.Signature(), prim, inner, yield) {
			return nil, nil, false
		}
		return prim, inner, true
	case *ProjectionTable:
		prim, inner, ok := iterateTableSlots(x.Table, scope, yield)
		if !ok {
			return nil, nil, false
		}
		return prim, inner.restrict(x.Args), true
	case *ComputeTable:
		return iterateTableSlots(x.Table, scope, yield)
	case *AliasTable:
		return iterateTableSlots(x.Table, scope, yield)
	case *AggregationTable:
		return iterateTableSlots(x.Table, scope, yield)
	case *SortedTable:
		return iterateTableSlots(x.Table, scope, yield)
	case *IndexTable:
		prim, inner, ok := iterateTableSlots(x.Table, scope, yield)
		if !ok {
			return nil, nil, false
		}
		for i := range x.Indices {
			s := &ArrayIndexSlot{
				baseSlot: baseSlot{prim: prim, scope: inner},
				typ:      types.Number,
				values:   x.Indices,
				index:    i,
				baseTag:  "table.index",
			}
			if !yieldDeep(s, yield) {
				return nil, nil, false
			}
		}
		return prim, inner, true
	case *SlicedTable:
		prim, inner, ok := iterateTableSlots(x.Table, scope, yield)
		if !ok {
			return nil, nil, false
		}
		base := &FieldSlot{baseSlot: baseSlot{prim: prim, scope: inner}, typ: types.Number, tag: "slice.base", ref: &x.Base}
		if !yieldDeep(base, yield) {
			return nil, nil, false
		}
		limit := &FieldSlot{baseSlot: baseSlot{prim: prim, scope: inner}, typ: types.Number, tag: "slice.limit", ref: &x.Limit}
		if !yieldDeep(limit, yield) {
			return nil, nil, false
		}
		return prim, inner, true
	case *JoinTable:
		// The join's parameter-passing bindings are fixed by the
		// program, not fillable, so they yield no slots. The right side
		// sees the left side's outputs.
		_, left, ok := iterateTableSlots(x.LHS, scope, yield)
		if !ok {
			return nil, nil, false
		}
		return iterateTableSlots(x.RHS, left, yield)
	case *WindowTable:
		if !windowBounds(&x.Base, &x.Delta, types.Number, "window", scope, yield) {
			return nil, nil, false
		}
		return iterateStreamSlots(x.Stream, scope, yield)
	case *TimeSeriesTable:
		if !windowBounds(&x.Base, &x.Delta, nil, "timeseries", scope, yield) {
			return nil, nil, false
		}
		return iterateStreamSlots(x.Stream, scope, yield)
	case *SequenceTable:
		if !windowBounds(&x.Base, &x.Delta, types.Number, "sequence", scope, yield) {
			return nil, nil, false
		}
		return iterateTableSlots(x.Table, scope, yield)
	case *HistoryTable:
		if !windowBounds(&x.Base, &x.Delta, nil, "history", scope, yield) {
			return nil, nil, false
		}
		return iterateTableSlots(x.Table, scope, yield)
	default:
		panic(fmt.Sprintf("ast: IterateSlots: unexpected table type %T", t))
	}
}

// windowBounds yields the base and delta slots of a windowing operator.
// A nil bound type means a date base with a millisecond-measure delta.
func windowBounds(base, delta *Value, boundType types.Type, tag string, scope Scope, yield func(Slot) bool) bool {
	baseType, deltaType := boundType, boundType
	if boundType == nil {
		baseType, deltaType = types.Date, types.Measure("ms")
	}
	b := &FieldSlot{baseSlot: baseSlot{scope: scope}, typ: baseType, tag: tag + ".base", ref: base}
	if !yieldDeep(b, yield) {
		return false
	}
	d := &FieldSlot{baseSlot: baseSlot{scope: scope}, typ: deltaType, tag: tag + ".delta", ref: delta}
	return yieldDeep(d, yield)
}

// iterateStreamSlots yields the slots of a stream in evaluation order,
// returning the primitive producing its events and the scope its
// outputs open for operators to the right.
func iterateStreamSlots(st Stream, scope Scope, yield func(Slot) bool) (Primitive, Scope, bool) {
	switch x := st.(type) {
	case *VarRefStream:
		if !iterateParamSlots(nil, x.Schema, x.InParams, scope, yield) {
			return nil, nil, false
		}
		return nil, makeScope(x.Schema, ""), true
	case *TimerStream:
		base := &FieldSlot{baseSlot: baseSlot{scope: scope}, typ: types.Date, tag: "timer.base", ref: &x.Base}
		if !yieldDeep(base, yield) {
			return nil, nil, false
		}
		interval := &FieldSlot{baseSlot: baseSlot{scope: scope}, typ: types.Measure("ms"), tag: "timer.interval", ref: &x.Interval}
		if !yieldDeep(interval, yield) {
			return nil, nil, false
		}
		if x.Frequency != nil {
			freq := &FieldSlot{baseSlot: baseSlot{scope: scope}, typ: types.Number, tag: "timer.frequency", ref: &x.Frequency}
			if !yieldDeep(freq, yield) {
				return nil, nil, false
			}
		}
		return nil, Scope{}, true
	case *AtTimerStream:
		for i := range x.Times {
			s := &ArrayIndexSlot{
				baseSlot: baseSlot{scope: scope},
				typ:      types.Time,
				values:   x.Times,
				index:    i,
				baseTag:  "attimer.time",
			}
			if !yieldDeep(s, yield) {
				return nil, nil, false
			}
		}
		if x.Expiration != nil {
			exp := &FieldSlot{baseSlot: baseSlot{scope: scope}, typ: types.Date, tag: "attimer.expiration_date", ref: &x.Expiration}
			if !yieldDeep(exp, yield) {
				return nil, nil, false
			}
		}
		return nil, Scope{}, true
	case *MonitorStream:
		return iterateTableSlots(x.Table, scope, yield)
	case *EdgeNewStream:
		return iterateStreamSlots(x.Stream, scope, yield)
	case *EdgeFilterStream:
		prim, inner, ok := iterateStreamSlots(x.Stream, scope, yield)
		if !ok {
			return nil, nil, false
		}
		if !iterateFilterSlots(x.Filter, x.Stream.Signature(), prim, inner, yield) {
			return nil, nil, false
		}
		return prim, inner, true
	case *FilteredStream:
		prim, inner, ok := iterateStreamSlots(x.Stream, scope, yield)
		if !ok {
			return nil, nil, false
		}
		if !iterateFilterSlots(x.Filter, x.Stream.Signature(), prim, inner, yield) {
			return nil, nil, false
		}
		return prim, inner, true
	case *ProjectionStream:
		prim, inner, ok := iterateStreamSlots(x.Stream, scope, yield)
		if !ok {
			return nil, nil, false
		}
		return prim, inner.restrict(x.Args), true
	case *ComputeStream:
		return iterateStreamSlots(x.Stream, scope, yield)
	case *AliasStream:
		return iterateStreamSlots(x.Stream, scope, yield)
	case *JoinStream:
		_, left, ok := iterateStreamSlots(x.Stream, scope, yield)
		if !ok {
			return nil, nil, false
		}
		return iterateTableSlots(x.Table, left, yield)
	default:
		panic(fmt.Sprintf("ast: IterateSlots: unexpected stream type %T", st))
	}
}

// iterateActionSlots yields the slots of an action. The scope is the
// output scope of the stream or table feeding the action.
func iterateActionSlots(a Action, scope Scope, yield func(Slot) bool) bool {
	switch x := a.(type) {
	case *VarRefAction:
		return iterateParamSlots(nil, x.Schema, x.InParams, scope, yield)
	case *InvocationAction:
		_, ok := iterateInvocationSlots(x.Invocation, scope, yield)
		return ok
	default:
		panic(fmt.Sprintf("ast: IterateSlots: unexpected action type %T", a))
	}
}

func iterateStatementSlots(s Statement, yield func(Slot) bool) bool {
	switch x := s.(type) {
	case *Rule:
		_, scope, ok := iterateStreamSlots(x.Stream, Scope{}, yield)
		if !ok {
			return false
		}
		for _, a := range x.Actions {
			if !iterateActionSlots(a, scope, yield) {
				return false
			}
		}
		return true
	case *Command:
		scope := Scope{}
		if x.Table != nil {
			var ok bool
			_, scope, ok = iterateTableSlots(x.Table, Scope{}, yield)
			if !ok {
				return false
			}
		}
		for _, a := range x.Actions {
			if !iterateActionSlots(a, scope, yield) {
				return false
			}
		}
		return true
	case *Assignment:
		_, _, ok := iterateTableSlots(x.Value, Scope{}, yield)
		return ok
	case *Declaration:
		// Declarations are invocation templates; their lambda arguments
		// are bound at use sites, so they expose no fillable slots.
		return true
	default:
		panic(fmt.Sprintf("ast: IterateSlots: unexpected statement type %T", s))
	}
}

func iteratePermissionSlots(r *PermissionRule, yield func(Slot) bool) bool {
	if !iterateFilterSlots(r.Principal, nil, nil, Scope{}, yield) {
		return false
	}
	for _, pf := range []PermissionFunction{r.Query, r.Action} {
		spec, ok := pf.(*SpecifiedPermissionFunction)
		if !ok {
			continue
		}
		if !iterateFilterSlots(spec.Filter, spec.Schema.Signature(), spec, Scope{}, yield) {
			return false
		}
	}
	return true
}

// IterateSlots enumerates the fillable slots of the tree rooted at n in
// a deterministic order, calling yield for each one until yield returns
// false. Within one function call the order is: device attribute slots,
// then the device selector, then bound input parameters, then the slots
// of any attached filter. The scope a slot sees contains the output
// arguments of everything evaluated to its left.
//
// n must be a *Program, a statement, a *PermissionRule, a Table,
// Stream, Action, *Invocation or BooleanExpression; IterateSlots panics
// on other node kinds, which have no slot protocol of their own.
func IterateSlots(n Node, yield func(Slot) bool) {
	switch x := n.(type) {
	case *Program:
		for _, s := range x.Statements {
			if !iterateStatementSlots(s, yield) {
				return
			}
		}
	case Statement:
		iterateStatementSlots(x, yield)
	case *PermissionRule:
		iteratePermissionSlots(x, yield)
	case *Invocation:
		iterateInvocationSlots(x, Scope{}, yield)
	case Table:
		iterateTableSlots(x, Scope{}, yield)
	case Stream:
		iterateStreamSlots(x, Scope{}, yield)
	case Action:
		iterateActionSlots(x, Scope{}, yield)
	case BooleanExpression:
		iterateFilterSlots(x, nil, nil, Scope{}, yield)
	default:
		panic(fmt.Sprintf("ast: IterateSlots: unexpected node type %T", n))
	}
}

// CollectSlots runs IterateSlots to completion and returns the slots in
// order.
func CollectSlots(n Node) []Slot {
	var out []Slot
	IterateSlots(n, func(s Slot) bool {
		out = append(out, s)
		return true
	})
	return out
}
