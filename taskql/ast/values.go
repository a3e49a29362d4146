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
	"strings"
	"time"

	"github.com/cockroachdb/apd/v2"
	"golang.org/x/xerrors"

	"taskql.org/go/taskql/token"
	"taskql.org/go/taskql/types"
)

// ErrNonConstant is reported by Value.ToNative when the value is a
// placeholder, a reference to runtime state, or an otherwise unresolved
// constant. It is distinct from a type error: the value may be perfectly
// well-typed and still not liftable at compile time.
var ErrNonConstant = xerrors.New("not a constant")

func notConstant(v Value) error {
	return xerrors.Errorf("cannot lower %T to a native value: %w", v, ErrNonConstant)
}

// Native representations returned by ToNative for values that do not map
// onto a single Go primitive.

// An EntityRef is the native form of an EntityValue.
type EntityRef struct {
	Value   string
	Display string
}

// A CurrencyAmount is the native form of a CurrencyValue. The amount is
// an arbitrary-precision decimal; currencies must not round-trip through
// binary floating point.
type CurrencyAmount struct {
	Amount *apd.Decimal
	Code   string
}

// A TimeOfDay is the native form of an absolute TimeValue.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// Coordinates is the native form of an absolute LocationValue.
type Coordinates struct {
	Latitude  float64
	Longitude float64
	Display   string
}

// TimeSpec describes the payload of a TimeValue: either a wall-clock time
// or a named, user-relative moment of the day.
type TimeSpec interface {
	timeSpecNode()
	cloneTimeSpec() TimeSpec
}

// An AbsoluteTime is a wall-clock time of day.
type AbsoluteTime struct {
	Hour   int
	Minute int
	Second int
}

// A RelativeTime names a moment of day resolved against user preferences,
// such as "morning" or "evening".
type RelativeTime struct {
	Tag string
}

func (*AbsoluteTime) timeSpecNode() {}
func (*RelativeTime) timeSpecNode() {}

func (t *AbsoluteTime) cloneTimeSpec() TimeSpec { c := *t; return &c }
func (t *RelativeTime) cloneTimeSpec() TimeSpec { c := *t; return &c }

// NewAbsoluteTime returns a wall-clock time of day. It panics if any
// component is out of range.
func NewAbsoluteTime(hour, minute, second int) *AbsoluteTime {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		panic(fmt.Sprintf("ast: invalid time of day %02d:%02d:%02d", hour, minute, second))
	}
	return &AbsoluteTime{Hour: hour, Minute: minute, Second: second}
}

func (t *AbsoluteTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// DateSpec describes the payload of a DateValue. A nil DateSpec stands
// for the current time at evaluation.
type DateSpec interface {
	dateSpecNode()
	cloneDateSpec() DateSpec
}

// An AbsoluteDate is a fixed point in time.
type AbsoluteDate struct {
	Time time.Time
}

// A DateEdge is the start or end of the calendar unit containing the
// current time, such as start_of(day) or end_of(week).
type DateEdge struct {
	Edge string // "start_of" or "end_of"
	Unit string // a time unit: "h", "day", "week", "mon", "year"
}

// A WeekDayDate is the next occurrence of a weekday, optionally at a
// given time of day.
type WeekDayDate struct {
	Day  string // "monday" .. "sunday"
	Time *AbsoluteTime
}

func (*AbsoluteDate) dateSpecNode() {}
func (*DateEdge) dateSpecNode()     {}
func (*WeekDayDate) dateSpecNode()  {}

func (d *AbsoluteDate) cloneDateSpec() DateSpec { c := *d; return &c }
func (d *DateEdge) cloneDateSpec() DateSpec     { c := *d; return &c }
func (d *WeekDayDate) cloneDateSpec() DateSpec {
	c := *d
	if d.Time != nil {
		t := *d.Time
		c.Time = &t
	}
	return &c
}

// NewDateEdge returns a calendar-edge date. It panics if the edge is not
// "start_of" or "end_of", or if the unit is not a time unit.
func NewDateEdge(edge, unit string) *DateEdge {
	if edge != "start_of" && edge != "end_of" {
		panic(fmt.Sprintf("ast: invalid date edge %q", edge))
	}
	if base, ok := types.BaseUnit(unit); !ok || base != "ms" {
		panic(fmt.Sprintf("ast: invalid date edge unit %q", unit))
	}
	return &DateEdge{Edge: edge, Unit: unit}
}

// LocationSpec describes the payload of a LocationValue.
type LocationSpec interface {
	locationSpecNode()
	cloneLocationSpec() LocationSpec
}

// An AbsoluteLocation is a geographic coordinate with an optional
// human-readable display name.
type AbsoluteLocation struct {
	Latitude  float64
	Longitude float64
	Display   string
}

// A RelativeLocation names a location resolved against user preferences:
// "current_location", "home" or "work".
type RelativeLocation struct {
	Tag string
}

// An UnresolvedLocation carries the raw name of a place that has not yet
// been geocoded.
type UnresolvedLocation struct {
	Name string
}

func (*AbsoluteLocation) locationSpecNode()   {}
func (*RelativeLocation) locationSpecNode()   {}
func (*UnresolvedLocation) locationSpecNode() {}

func (l *AbsoluteLocation) cloneLocationSpec() LocationSpec   { c := *l; return &c }
func (l *RelativeLocation) cloneLocationSpec() LocationSpec   { c := *l; return &c }
func (l *UnresolvedLocation) cloneLocationSpec() LocationSpec { c := *l; return &c }

// A RecurrentTimeRule is one rule of a recurrent time specification: a
// daily or weekly window, possibly bounded by dates, possibly subtracted
// from the preceding rules.
type RecurrentTimeRule struct {
	BeginTime *AbsoluteTime
	EndTime   *AbsoluteTime
	Interval  float64 // 0 when unset
	// IntervalUnit is the unit of Interval; empty when Interval is unset.
	IntervalUnit string
	Frequency    int
	DayOfWeek    string // "monday" .. "sunday", or empty
	BeginDate    *time.Time
	EndDate      *time.Time
	Subtract     bool
}

// Clone returns a deep copy of the rule.
func (r *RecurrentTimeRule) Clone() *RecurrentTimeRule {
	c := *r
	if r.BeginTime != nil {
		t := *r.BeginTime
		c.BeginTime = &t
	}
	if r.EndTime != nil {
		t := *r.EndTime
		c.EndTime = &t
	}
	if r.BeginDate != nil {
		t := *r.BeginDate
		c.BeginDate = &t
	}
	if r.EndDate != nil {
		t := *r.EndDate
		c.EndDate = &t
	}
	return &c
}

func (r *RecurrentTimeRule) equal(o *RecurrentTimeRule) bool {
	if r.Interval != o.Interval || r.IntervalUnit != o.IntervalUnit ||
		r.Frequency != o.Frequency || r.DayOfWeek != o.DayOfWeek ||
		r.Subtract != o.Subtract {
		return false
	}
	timeEq := func(a, b *AbsoluteTime) bool {
		if a == nil || b == nil {
			return a == b
		}
		return *a == *b
	}
	dateEq := func(a, b *time.Time) bool {
		if a == nil || b == nil {
			return a == b
		}
		return a.Equal(*b)
	}
	return timeEq(r.BeginTime, o.BeginTime) && timeEq(r.EndTime, o.EndTime) &&
		dateEq(r.BeginDate, o.BeginDate) && dateEq(r.EndDate, o.EndDate)
}

// A BooleanValue is a boolean constant.
type BooleanValue struct {
	Src   *token.SourceRange
	Value bool
}

// NewBoolean returns a boolean constant.
func NewBoolean(b bool) *BooleanValue { return &BooleanValue{Value: b} }

func (v *BooleanValue) Loc() *token.SourceRange { return v.Src }
func (v *BooleanValue) CloneValue() Value       { c := *v; c.Src = v.Src.Clone(); return &c }
func (v *BooleanValue) TypeOf() types.Type      { return types.Boolean }
func (v *BooleanValue) IsConstant() bool        { return true }
func (v *BooleanValue) IsConcrete() bool        { return true }

func (v *BooleanValue) ToNative() (interface{}, error) { return v.Value, nil }

// A StringValue is a string constant.
type StringValue struct {
	Src   *token.SourceRange
	Value string
}

// NewString returns a string constant.
func NewString(s string) *StringValue { return &StringValue{Value: s} }

func (v *StringValue) Loc() *token.SourceRange { return v.Src }
func (v *StringValue) CloneValue() Value       { c := *v; c.Src = v.Src.Clone(); return &c }
func (v *StringValue) TypeOf() types.Type      { return types.String }
func (v *StringValue) IsConstant() bool        { return true }
func (v *StringValue) IsConcrete() bool        { return true }

func (v *StringValue) ToNative() (interface{}, error) { return v.Value, nil }

// A NumberValue is a dimensionless numeric constant.
type NumberValue struct {
	Src   *token.SourceRange
	Value float64
}

// NewNumber returns a numeric constant.
func NewNumber(f float64) *NumberValue { return &NumberValue{Value: f} }

func (v *NumberValue) Loc() *token.SourceRange { return v.Src }
func (v *NumberValue) CloneValue() Value       { c := *v; c.Src = v.Src.Clone(); return &c }
func (v *NumberValue) TypeOf() types.Type      { return types.Number }
func (v *NumberValue) IsConstant() bool        { return true }
func (v *NumberValue) IsConcrete() bool        { return true }

func (v *NumberValue) ToNative() (interface{}, error) { return v.Value, nil }

// A CurrencyValue is a monetary amount with an ISO currency code. The
// amount is kept as an arbitrary-precision decimal so that cents survive
// a round trip through the tree unchanged.
type CurrencyValue struct {
	Src    *token.SourceRange
	Amount *apd.Decimal
	Code   string // lower-case ISO 4217 code
}

// NewCurrency returns a monetary constant. It panics if amount is nil or
// code is empty.
func NewCurrency(amount *apd.Decimal, code string) *CurrencyValue {
	if amount == nil {
		panic("ast: nil currency amount")
	}
	if code == "" {
		panic("ast: empty currency code")
	}
	return &CurrencyValue{Amount: amount, Code: strings.ToLower(code)}
}

// NewCurrencyFromFloat returns a monetary constant converted from a
// binary float. The conversion goes through the shortest decimal
// representation of f.
func NewCurrencyFromFloat(f float64, code string) *CurrencyValue {
	d, _, err := apd.NewFromString(strconv.FormatFloat(f, 'g', -1, 64))
	if err != nil {
		panic(fmt.Sprintf("ast: cannot represent %v as a decimal: %v", f, err))
	}
	return NewCurrency(d, code)
}

func (v *CurrencyValue) Loc() *token.SourceRange { return v.Src }

func (v *CurrencyValue) CloneValue() Value {
	c := *v
	c.Src = v.Src.Clone()
	c.Amount = new(apd.Decimal).Set(v.Amount)
	return &c
}

func (v *CurrencyValue) TypeOf() types.Type { return types.Currency }
func (v *CurrencyValue) IsConstant() bool   { return true }
func (v *CurrencyValue) IsConcrete() bool   { return true }

func (v *CurrencyValue) ToNative() (interface{}, error) {
	return CurrencyAmount{Amount: new(apd.Decimal).Set(v.Amount), Code: v.Code}, nil
}

// An EntityValue is a reference to a named entity: a value in the
// entity's namespace, the entity type tag, and an optional display
// string. An empty Value means the entity has been named but not yet
// resolved by entity linking; such a value is constant but not concrete.
type EntityValue struct {
	Src     *token.SourceRange
	Value   string
	Type    string // entity type tag, e.g. "tt:stock_id"
	Display string
}

// NewEntity returns an entity reference. It panics if the type tag is
// empty.
func NewEntity(value, typ, display string) *EntityValue {
	if typ == "" {
		panic("ast: empty entity type")
	}
	return &EntityValue{Value: value, Type: typ, Display: display}
}

func (v *EntityValue) Loc() *token.SourceRange { return v.Src }
func (v *EntityValue) CloneValue() Value       { c := *v; c.Src = v.Src.Clone(); return &c }
func (v *EntityValue) TypeOf() types.Type      { return types.Entity(v.Type) }
func (v *EntityValue) IsConstant() bool        { return true }
func (v *EntityValue) IsConcrete() bool        { return v.Value != "" }

func (v *EntityValue) ToNative() (interface{}, error) {
	if v.Value == "" {
		return nil, notConstant(v)
	}
	return EntityRef{Value: v.Value, Display: v.Display}, nil
}

// A MeasureValue is a physical quantity with a unit. The unit may be a
// placeholder ("defaultTemperature") left behind by the natural-language
// front end; such a value is constant but not concrete until the
// placeholder is replaced.
type MeasureValue struct {
	Src   *token.SourceRange
	Value float64
	Unit  string
}

// NewMeasure returns a measure constant. It panics if the unit is empty.
func NewMeasure(value float64, unit string) *MeasureValue {
	if unit == "" {
		panic("ast: empty measure unit")
	}
	return &MeasureValue{Value: value, Unit: unit}
}

func (v *MeasureValue) Loc() *token.SourceRange { return v.Src }
func (v *MeasureValue) CloneValue() Value       { c := *v; c.Src = v.Src.Clone(); return &c }

func (v *MeasureValue) TypeOf() types.Type {
	if base, ok := types.BaseUnit(v.Unit); ok {
		return types.Measure(base)
	}
	return types.Measure(v.Unit)
}

func (v *MeasureValue) IsConstant() bool { return true }
func (v *MeasureValue) IsConcrete() bool { return !types.IsPlaceholderUnit(v.Unit) }

// ToNative reports the amount normalized to the base unit of the
// measure's dimension.
func (v *MeasureValue) ToNative() (interface{}, error) {
	if !v.IsConcrete() {
		return nil, notConstant(v)
	}
	f, err := types.Transform(v.Value, v.Unit)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// An EnumValue is an enumeration member.
type EnumValue struct {
	Src   *token.SourceRange
	Value string
}

// NewEnum returns an enumeration member. It panics if the member name is
// empty.
func NewEnum(value string) *EnumValue {
	if value == "" {
		panic("ast: empty enum member")
	}
	return &EnumValue{Value: value}
}

func (v *EnumValue) Loc() *token.SourceRange { return v.Src }
func (v *EnumValue) CloneValue() Value       { c := *v; c.Src = v.Src.Clone(); return &c }

// TypeOf reports the wildcard enumeration type; the concrete member set
// is only known from the signature the value is checked against.
func (v *EnumValue) TypeOf() types.Type { return types.EnumAny() }

func (v *EnumValue) IsConstant() bool { return true }
func (v *EnumValue) IsConcrete() bool { return true }

func (v *EnumValue) ToNative() (interface{}, error) { return v.Value, nil }

// A TimeValue is a time of day.
type TimeValue struct {
	Src  *token.SourceRange
	Spec TimeSpec
}

// NewTime returns a time-of-day constant. It panics if spec is nil.
func NewTime(spec TimeSpec) *TimeValue {
	if spec == nil {
		panic("ast: nil time spec")
	}
	return &TimeValue{Spec: spec}
}

func (v *TimeValue) Loc() *token.SourceRange { return v.Src }

func (v *TimeValue) CloneValue() Value {
	return &TimeValue{Src: v.Src.Clone(), Spec: v.Spec.cloneTimeSpec()}
}

func (v *TimeValue) TypeOf() types.Type { return types.Time }
func (v *TimeValue) IsConstant() bool   { return true }

func (v *TimeValue) IsConcrete() bool {
	_, ok := v.Spec.(*AbsoluteTime)
	return ok
}

func (v *TimeValue) ToNative() (interface{}, error) {
	t, ok := v.Spec.(*AbsoluteTime)
	if !ok {
		return nil, notConstant(v)
	}
	return TimeOfDay{Hour: t.Hour, Minute: t.Minute, Second: t.Second}, nil
}

// A DateValue is a point in time. A nil Spec stands for the current time
// at evaluation.
type DateValue struct {
	Src  *token.SourceRange
	Spec DateSpec
}

// NewDate returns a date constant. A nil spec means "now".
func NewDate(spec DateSpec) *DateValue { return &DateValue{Spec: spec} }

func (v *DateValue) Loc() *token.SourceRange { return v.Src }

func (v *DateValue) CloneValue() Value {
	c := &DateValue{Src: v.Src.Clone()}
	if v.Spec != nil {
		c.Spec = v.Spec.cloneDateSpec()
	}
	return c
}

func (v *DateValue) TypeOf() types.Type { return types.Date }
func (v *DateValue) IsConstant() bool   { return true }

func (v *DateValue) IsConcrete() bool {
	_, ok := v.Spec.(*AbsoluteDate)
	return ok
}

func (v *DateValue) ToNative() (interface{}, error) {
	d, ok := v.Spec.(*AbsoluteDate)
	if !ok {
		return nil, notConstant(v)
	}
	return d.Time, nil
}

// A LocationValue is a place.
type LocationValue struct {
	Src  *token.SourceRange
	Spec LocationSpec
}

// NewLocation returns a location constant. It panics if spec is nil.
func NewLocation(spec LocationSpec) *LocationValue {
	if spec == nil {
		panic("ast: nil location spec")
	}
	return &LocationValue{Spec: spec}
}

func (v *LocationValue) Loc() *token.SourceRange { return v.Src }

func (v *LocationValue) CloneValue() Value {
	return &LocationValue{Src: v.Src.Clone(), Spec: v.Spec.cloneLocationSpec()}
}

func (v *LocationValue) TypeOf() types.Type { return types.Location }
func (v *LocationValue) IsConstant() bool   { return true }

func (v *LocationValue) IsConcrete() bool {
	_, ok := v.Spec.(*AbsoluteLocation)
	return ok
}

func (v *LocationValue) ToNative() (interface{}, error) {
	l, ok := v.Spec.(*AbsoluteLocation)
	if !ok {
		return nil, notConstant(v)
	}
	return Coordinates{Latitude: l.Latitude, Longitude: l.Longitude, Display: l.Display}, nil
}

// An ArrayValue is an ordered sequence of values with an optional
// declared element type.
type ArrayValue struct {
	Src    *token.SourceRange
	Values []Value
	Elem   types.Type // nil when undeclared
}

// NewArray returns an array constant.
func NewArray(values ...Value) *ArrayValue {
	for i, v := range values {
		if v == nil {
			panic(fmt.Sprintf("ast: nil array element at index %d", i))
		}
	}
	return &ArrayValue{Values: values}
}

func (v *ArrayValue) Loc() *token.SourceRange { return v.Src }

func (v *ArrayValue) CloneValue() Value {
	c := &ArrayValue{Src: v.Src.Clone(), Elem: v.Elem}
	if v.Values != nil {
		c.Values = make([]Value, len(v.Values))
		for i, e := range v.Values {
			c.Values[i] = e.CloneValue()
		}
	}
	return c
}

func (v *ArrayValue) TypeOf() types.Type {
	switch {
	case v.Elem != nil:
		return types.Array(v.Elem)
	case len(v.Values) > 0:
		return types.Array(v.Values[0].TypeOf())
	default:
		return types.Array(types.Any)
	}
}

func (v *ArrayValue) IsConstant() bool {
	for _, e := range v.Values {
		if !e.IsConstant() {
			return false
		}
	}
	return true
}

func (v *ArrayValue) IsConcrete() bool {
	for _, e := range v.Values {
		if !e.IsConcrete() {
			return false
		}
	}
	return true
}

func (v *ArrayValue) ToNative() (interface{}, error) {
	out := make([]interface{}, len(v.Values))
	for i, e := range v.Values {
		n, err := e.ToNative()
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// An ObjectValue is a set of named fields. Objects are the literal form
// of compound-typed arguments.
type ObjectValue struct {
	Src    *token.SourceRange
	Fields map[string]Value
	Type   types.Type // filled in by the type checker; nil until then
}

// NewObject returns an object constant.
func NewObject(fields map[string]Value) *ObjectValue {
	for name, v := range fields {
		if v == nil {
			panic(fmt.Sprintf("ast: nil object field %q", name))
		}
	}
	return &ObjectValue{Fields: fields}
}

func (v *ObjectValue) Loc() *token.SourceRange { return v.Src }

func (v *ObjectValue) CloneValue() Value {
	c := &ObjectValue{Src: v.Src.Clone(), Type: v.Type}
	if v.Fields != nil {
		c.Fields = make(map[string]Value, len(v.Fields))
		for name, e := range v.Fields {
			c.Fields[name] = e.CloneValue()
		}
	}
	return c
}

func (v *ObjectValue) TypeOf() types.Type {
	if v.Type != nil {
		return v.Type
	}
	return types.Any
}

func (v *ObjectValue) IsConstant() bool {
	for _, e := range v.Fields {
		if !e.IsConstant() {
			return false
		}
	}
	return true
}

func (v *ObjectValue) IsConcrete() bool {
	for _, e := range v.Fields {
		if !e.IsConcrete() {
			return false
		}
	}
	return true
}

func (v *ObjectValue) ToNative() (interface{}, error) {
	out := make(map[string]interface{}, len(v.Fields))
	for name, e := range v.Fields {
		n, err := e.ToNative()
		if err != nil {
			return nil, err
		}
		out[name] = n
	}
	return out, nil
}

// A VarRefValue refers to an output argument of an operator to the left,
// by name. Its type is resolved during type-checking.
type VarRefValue struct {
	Src  *token.SourceRange
	Name string
	Type types.Type // filled in by the type checker; nil until then
}

// NewVarRef returns a reference to the in-scope name.
func NewVarRef(name string) *VarRefValue {
	if name == "" {
		panic("ast: empty variable name")
	}
	return &VarRefValue{Name: name}
}

func (v *VarRefValue) Loc() *token.SourceRange { return v.Src }
func (v *VarRefValue) CloneValue() Value       { c := *v; c.Src = v.Src.Clone(); return &c }

func (v *VarRefValue) TypeOf() types.Type {
	if v.Type != nil {
		return v.Type
	}
	return types.Any
}

func (v *VarRefValue) IsConstant() bool { return false }
func (v *VarRefValue) IsConcrete() bool { return false }

func (v *VarRefValue) ToNative() (interface{}, error) { return nil, notConstant(v) }

// An EventValue refers to the textual description of the current rule
// result ($result) or to one of its metadata fields.
type EventValue struct {
	Src *token.SourceRange
	// Name selects a metadata field ("type", "program_id", "title",
	// "body"); empty selects the formatted result text itself.
	Name string
}

// NewEvent returns a reference to the current rule result.
func NewEvent(name string) *EventValue { return &EventValue{Name: name} }

func (v *EventValue) Loc() *token.SourceRange { return v.Src }
func (v *EventValue) CloneValue() Value       { c := *v; c.Src = v.Src.Clone(); return &c }

func (v *EventValue) TypeOf() types.Type {
	switch v.Name {
	case "type":
		return types.Entity("tt:function")
	case "program_id":
		return types.Entity("tt:program_id")
	default:
		return types.String
	}
}

func (v *EventValue) IsConstant() bool { return false }
func (v *EventValue) IsConcrete() bool { return false }

func (v *EventValue) ToNative() (interface{}, error) { return nil, notConstant(v) }

// A ContextRefValue refers to a named piece of dialogue context, such as
// the current selection on screen. It is never a constant; the runtime
// substitutes the actual value before execution.
type ContextRefValue struct {
	Src  *token.SourceRange
	Name string
	Type types.Type
}

// NewContextRef returns a reference to the named context variable of the
// given type. It panics if the type is nil.
func NewContextRef(name string, typ types.Type) *ContextRefValue {
	if typ == nil {
		panic("ast: nil context ref type")
	}
	return &ContextRefValue{Name: name, Type: typ}
}

func (v *ContextRefValue) Loc() *token.SourceRange { return v.Src }
func (v *ContextRefValue) CloneValue() Value       { c := *v; c.Src = v.Src.Clone(); return &c }
func (v *ContextRefValue) TypeOf() types.Type      { return v.Type }
func (v *ContextRefValue) IsConstant() bool        { return false }
func (v *ContextRefValue) IsConcrete() bool        { return false }

func (v *ContextRefValue) ToNative() (interface{}, error) { return nil, notConstant(v) }

// An UndefinedValue is a slot the user has not filled yet. Local
// undefined values are filled by the dialogue agent; non-local ones are
// forwarded to a remote party.
type UndefinedValue struct {
	Src   *token.SourceRange
	Local bool
}

// NewUndefined returns an unfilled slot marker.
func NewUndefined(local bool) *UndefinedValue { return &UndefinedValue{Local: local} }

func (v *UndefinedValue) Loc() *token.SourceRange { return v.Src }
func (v *UndefinedValue) CloneValue() Value       { c := *v; c.Src = v.Src.Clone(); return &c }
func (v *UndefinedValue) TypeOf() types.Type      { return types.Any }
func (v *UndefinedValue) IsConstant() bool        { return false }
func (v *UndefinedValue) IsConcrete() bool        { return false }

func (v *UndefinedValue) ToNative() (interface{}, error) { return nil, notConstant(v) }

// A FilterValue restricts an array-valued value with a predicate over
// the fields of its elements.
type FilterValue struct {
	Src    *token.SourceRange
	Value  Value
	Filter BooleanExpression
}

// NewFilterValue returns value restricted by filter. It panics if either
// is nil.
func NewFilterValue(value Value, filter BooleanExpression) *FilterValue {
	if value == nil {
		panic("ast: nil filtered value")
	}
	if filter == nil {
		panic("ast: nil value filter")
	}
	return &FilterValue{Value: value, Filter: filter}
}

func (v *FilterValue) Loc() *token.SourceRange { return v.Src }

func (v *FilterValue) CloneValue() Value {
	return &FilterValue{
		Src:    v.Src.Clone(),
		Value:  v.Value.CloneValue(),
		Filter: v.Filter.CloneBoolean(),
	}
}

func (v *FilterValue) TypeOf() types.Type { return v.Value.TypeOf() }
func (v *FilterValue) IsConstant() bool   { return false }
func (v *FilterValue) IsConcrete() bool   { return false }

func (v *FilterValue) ToNative() (interface{}, error) { return nil, notConstant(v) }

// An ArrayFieldValue projects one field out of an array of compounds,
// producing an array of the field's values.
type ArrayFieldValue struct {
	Src   *token.SourceRange
	Value Value
	Field string
	Type  types.Type // filled in by the type checker; nil until then
}

// NewArrayField returns the projection of field over the elements of
// value. It panics if value is nil or field is empty.
func NewArrayField(value Value, field string) *ArrayFieldValue {
	if value == nil {
		panic("ast: nil array field base")
	}
	if field == "" {
		panic("ast: empty array field name")
	}
	return &ArrayFieldValue{Value: value, Field: field}
}

func (v *ArrayFieldValue) Loc() *token.SourceRange { return v.Src }

func (v *ArrayFieldValue) CloneValue() Value {
	return &ArrayFieldValue{
		Src:   v.Src.Clone(),
		Value: v.Value.CloneValue(),
		Field: v.Field,
		Type:  v.Type,
	}
}

func (v *ArrayFieldValue) TypeOf() types.Type {
	if v.Type != nil {
		return types.Array(v.Type)
	}
	return types.Any
}

func (v *ArrayFieldValue) IsConstant() bool { return false }
func (v *ArrayFieldValue) IsConcrete() bool { return false }

func (v *ArrayFieldValue) ToNative() (interface{}, error) { return nil, notConstant(v) }

// A ComputationValue applies a scalar operator to a list of operand
// values.
type ComputationValue struct {
	Src      *token.SourceRange
	Op       string
	Operands []Value
	Type     types.Type // filled in by the type checker; nil until then
}

// NewComputation applies op to the given operands. It panics if the
// operator is unknown or an operand is nil.
func NewComputation(op string, operands ...Value) *ComputationValue {
	if !IsScalarOp(op) {
		panic(fmt.Sprintf("ast: unknown scalar operator %q", op))
	}
	for i, o := range operands {
		if o == nil {
			panic(fmt.Sprintf("ast: nil computation operand at index %d", i))
		}
	}
	return &ComputationValue{Op: op, Operands: operands}
}

func (v *ComputationValue) Loc() *token.SourceRange { return v.Src }

func (v *ComputationValue) CloneValue() Value {
	c := &ComputationValue{Src: v.Src.Clone(), Op: v.Op, Type: v.Type}
	if v.Operands != nil {
		c.Operands = make([]Value, len(v.Operands))
		for i, o := range v.Operands {
			c.Operands[i] = o.CloneValue()
		}
	}
	return c
}

func (v *ComputationValue) TypeOf() types.Type {
	if v.Type != nil {
		return v.Type
	}
	return types.Any
}

func (v *ComputationValue) IsConstant() bool { return false }
func (v *ComputationValue) IsConcrete() bool { return false }

func (v *ComputationValue) ToNative() (interface{}, error) { return nil, notConstant(v) }

// A NullValue is the absent value.
type NullValue struct {
	Src *token.SourceRange
}

// NewNull returns the absent value.
func NewNull() *NullValue { return &NullValue{} }

func (v *NullValue) Loc() *token.SourceRange { return v.Src }
func (v *NullValue) CloneValue() Value       { c := *v; c.Src = v.Src.Clone(); return &c }
func (v *NullValue) TypeOf() types.Type      { return types.Any }
func (v *NullValue) IsConstant() bool        { return true }
func (v *NullValue) IsConcrete() bool        { return true }

func (v *NullValue) ToNative() (interface{}, error) { return nil, nil }

// A RecurrentTimeValue is a set of recurrence rules describing when
// something is open, active or due.
type RecurrentTimeValue struct {
	Src   *token.SourceRange
	Rules []*RecurrentTimeRule
}

// NewRecurrentTime returns a recurrence constant. It panics if no rules
// are given or a rule is nil.
func NewRecurrentTime(rules ...*RecurrentTimeRule) *RecurrentTimeValue {
	if len(rules) == 0 {
		panic("ast: recurrent time needs at least one rule")
	}
	for i, r := range rules {
		if r == nil {
			panic(fmt.Sprintf("ast: nil recurrence rule at index %d", i))
		}
	}
	return &RecurrentTimeValue{Rules: rules}
}

func (v *RecurrentTimeValue) Loc() *token.SourceRange { return v.Src }

func (v *RecurrentTimeValue) CloneValue() Value {
	c := &RecurrentTimeValue{Src: v.Src.Clone()}
	c.Rules = make([]*RecurrentTimeRule, len(v.Rules))
	for i, r := range v.Rules {
		c.Rules[i] = r.Clone()
	}
	return c
}

func (v *RecurrentTimeValue) TypeOf() types.Type { return types.RecurrentTimeSpec }
func (v *RecurrentTimeValue) IsConstant() bool   { return true }
func (v *RecurrentTimeValue) IsConcrete() bool   { return true }

func (v *RecurrentTimeValue) ToNative() (interface{}, error) {
	out := make([]*RecurrentTimeRule, len(v.Rules))
	for i, r := range v.Rules {
		out[i] = r.Clone()
	}
	return out, nil
}

// EqualValue reports whether two values are structurally equal. Values
// of different variants are never equal. Source ranges are ignored, as
// are display strings on entities and types filled in by the checker.
func EqualValue(a, b Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch x := a.(type) {
	case *BooleanValue:
		y, ok := b.(*BooleanValue)
		return ok && x.Value == y.Value
	case *StringValue:
		y, ok := b.(*StringValue)
		return ok && x.Value == y.Value
	case *NumberValue:
		y, ok := b.(*NumberValue)
		return ok && x.Value == y.Value
	case *CurrencyValue:
		y, ok := b.(*CurrencyValue)
		return ok && x.Amount.Cmp(y.Amount) == 0 && strings.EqualFold(x.Code, y.Code)
	case *EntityValue:
		y, ok := b.(*EntityValue)
		return ok && x.Value == y.Value && x.Type == y.Type
	case *MeasureValue:
		y, ok := b.(*MeasureValue)
		return ok && x.Value == y.Value && x.Unit == y.Unit
	case *EnumValue:
		y, ok := b.(*EnumValue)
		return ok && x.Value == y.Value
	case *TimeValue:
		y, ok := b.(*TimeValue)
		return ok && equalTimeSpec(x.Spec, y.Spec)
	case *DateValue:
		y, ok := b.(*DateValue)
		return ok && equalDateSpec(x.Spec, y.Spec)
	case *LocationValue:
		y, ok := b.(*LocationValue)
		return ok && equalLocationSpec(x.Spec, y.Spec)
	case *ArrayValue:
		y, ok := b.(*ArrayValue)
		if !ok || len(x.Values) != len(y.Values) {
			return false
		}
		for i := range x.Values {
			if !EqualValue(x.Values[i], y.Values[i]) {
				return false
			}
		}
		return true
	case *ObjectValue:
		y, ok := b.(*ObjectValue)
		if !ok || len(x.Fields) != len(y.Fields) {
			return false
		}
		for name, v := range x.Fields {
			w, ok := y.Fields[name]
			if !ok || !EqualValue(v, w) {
				return false
			}
		}
		return true
	case *VarRefValue:
		y, ok := b.(*VarRefValue)
		return ok && x.Name == y.Name
	case *EventValue:
		y, ok := b.(*EventValue)
		return ok && x.Name == y.Name
	case *ContextRefValue:
		y, ok := b.(*ContextRefValue)
		return ok && x.Name == y.Name && types.Equal(x.Type, y.Type)
	case *UndefinedValue:
		y, ok := b.(*UndefinedValue)
		return ok && x.Local == y.Local
	case *FilterValue:
		y, ok := b.(*FilterValue)
		return ok && EqualValue(x.Value, y.Value) && EqualBoolean(x.Filter, y.Filter)
	case *ArrayFieldValue:
		y, ok := b.(*ArrayFieldValue)
		return ok && x.Field == y.Field && EqualValue(x.Value, y.Value)
	case *ComputationValue:
		y, ok := b.(*ComputationValue)
		if !ok || x.Op != y.Op || len(x.Operands) != len(y.Operands) {
			return false
		}
		for i := range x.Operands {
			if !EqualValue(x.Operands[i], y.Operands[i]) {
				return false
			}
		}
		return true
	case *NullValue:
		_, ok := b.(*NullValue)
		return ok
	case *RecurrentTimeValue:
		y, ok := b.(*RecurrentTimeValue)
		if !ok || len(x.Rules) != len(y.Rules) {
			return false
		}
		for i := range x.Rules {
			if !x.Rules[i].equal(y.Rules[i]) {
				return false
			}
		}
		return true
	}
	panic(fmt.Sprintf("ast: EqualValue: unexpected value type %T", a))
}

func equalTimeSpec(a, b TimeSpec) bool {
	switch x := a.(type) {
	case *AbsoluteTime:
		y, ok := b.(*AbsoluteTime)
		return ok && *x == *y
	case *RelativeTime:
		y, ok := b.(*RelativeTime)
		return ok && x.Tag == y.Tag
	}
	return false
}

func equalDateSpec(a, b DateSpec) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch x := a.(type) {
	case *AbsoluteDate:
		y, ok := b.(*AbsoluteDate)
		return ok && x.Time.Equal(y.Time)
	case *DateEdge:
		y, ok := b.(*DateEdge)
		return ok && *x == *y
	case *WeekDayDate:
		y, ok := b.(*WeekDayDate)
		if !ok || x.Day != y.Day {
			return false
		}
		if x.Time == nil || y.Time == nil {
			return x.Time == y.Time
		}
		return *x.Time == *y.Time
	}
	return false
}

func equalLocationSpec(a, b LocationSpec) bool {
	switch x := a.(type) {
	case *AbsoluteLocation:
		y, ok := b.(*AbsoluteLocation)
		return ok && x.Latitude == y.Latitude && x.Longitude == y.Longitude
	case *RelativeLocation:
		y, ok := b.(*RelativeLocation)
		return ok && x.Tag == y.Tag
	case *UnresolvedLocation:
		y, ok := b.(*UnresolvedLocation)
		return ok && x.Name == y.Name
	}
	return false
}
