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

package ast_test

import (
	"reflect"
	"testing"

	"taskql.org/go/taskql/ast"
	"taskql.org/go/taskql/types"
)

func slotTags(slots []ast.Slot) []string {
	tags := make([]string, len(slots))
	for i, s := range slots {
		tags[i] = s.Tag()
	}
	return tags
}

// An invocation yields its selector's attribute slots first, then the
// selector itself, then the bound input parameters, in declaration
// order, and the order does not change between runs.
func TestInvocationSlotOrder(t *testing.T) {
	sel := ast.NewDeviceSelector("com.example.thermostat")
	sel.Attributes = []*ast.InputParam{
		ast.NewInputParam("name", ast.NewString("kitchen")),
	}
	inv := ast.NewInvocation(sel, "set_target_temperature", []*ast.InputParam{
		ast.NewInputParam("value", ast.NewMeasure(21, "C")),
		ast.NewInputParam("unit", ast.NewString("celsius")),
	})

	want := []string{"attribute.name", "device", "in_param.value", "in_param.unit"}
	for run := 0; run < 3; run++ {
		slots := ast.CollectSlots(inv)
		if got := slotTags(slots); !reflect.DeepEqual(got, want) {
			t.Fatalf("run %d: slot tags = %v; want %v", run, got, want)
		}

		if _, ok := slots[0].(*ast.DeviceAttributeSlot); !ok {
			t.Errorf("slots[0] = %T; want *DeviceAttributeSlot", slots[0])
		}
		ds, ok := slots[1].(*ast.DeviceSlot)
		if !ok {
			t.Fatalf("slots[1] = %T; want *DeviceSlot", slots[1])
		}
		if ds.Selector() != sel {
			t.Error("device slot does not point at the invocation's selector")
		}
		for _, i := range []int{2, 3} {
			if _, ok := slots[i].(*ast.InputParamSlot); !ok {
				t.Errorf("slots[%d] = %T; want *InputParamSlot", i, slots[i])
			}
			if slots[i].Primitive() != ast.Primitive(inv) {
				t.Errorf("slots[%d] primitive is not the invocation", i)
			}
		}
	}
}

func TestFilterSlotResolution(t *testing.T) {
	f := query("list_messages", []*ast.ArgumentDef{
		arg(ast.Out, "text", types.String),
		arg(ast.Out, "count", types.Number),
		arg(ast.InOpt, "limit", types.Number),
	}, nil)
	inv := ast.NewInvocation(ast.NewDeviceSelector("com.example.mail"), "list_messages",
		[]*ast.InputParam{ast.NewInputParam("limit", ast.NewNumber(10))})
	inv.Schema = f
	tbl := ast.NewInvocationTable(inv)
	tbl.Schema = f.Signature()
	filtered := ast.NewFilteredTable(tbl, ast.NewAnd(
		ast.NewAtom("text", "=~", ast.NewString("hello")),
		ast.NewAtom("count", ">=", ast.NewNumber(5)),
	))

	slots := ast.CollectSlots(filtered)
	want := []string{"device", "in_param.limit", "filter.=~.text", "filter.>=.count"}
	if got := slotTags(slots); !reflect.DeepEqual(got, want) {
		t.Fatalf("slot tags = %v; want %v", got, want)
	}

	limit := slots[1].(*ast.InputParamSlot)
	if limit.Arg() == nil {
		t.Fatal("in_param.limit did not resolve its argument definition")
	}
	if got := limit.Type(); !types.Equal(got, types.Number) {
		t.Errorf("in_param.limit type = %v; want Number", got)
	}

	// String matching always takes a string; plain comparisons take the
	// argument's own type.
	if got := slots[2].Type(); !types.Equal(got, types.String) {
		t.Errorf("filter.=~.text type = %v; want String", got)
	}
	if got := slots[3].Type(); !types.Equal(got, types.Number) {
		t.Errorf("filter.>=.count type = %v; want Number", got)
	}

	// Filter slots see the call's outputs plus $event, not its inputs.
	scope := slots[3].Scope()
	if scope == nil {
		t.Fatal("filter slot scope is nil despite a resolved schema")
	}
	for _, name := range []string{"text", "count", "$event"} {
		if scope[name] == nil {
			t.Errorf("scope is missing %q", name)
		}
	}
	if scope["limit"] != nil {
		t.Error("input parameter leaked into the scope")
	}
	entry := scope["count"]
	if !types.Equal(entry.Type, types.Number) {
		t.Errorf("scope[count].Type = %v; want Number", entry.Type)
	}
	if entry.Kind != "com.example.mail" {
		t.Errorf("scope[count].Kind = %q; want %q", entry.Kind, "com.example.mail")
	}
	if ref, ok := entry.Value.(*ast.VarRefValue); !ok || ref.Name != "count" {
		t.Errorf("scope[count].Value = %v; want a reference to count", entry.Value)
	}
	if slots[3].Primitive() != ast.Primitive(inv) {
		t.Error("filter slot primitive is not the filtered invocation")
	}
}

func TestScopeFlowsIntoActions(t *testing.T) {
	f := query("current_temperature", []*ast.ArgumentDef{
		arg(ast.Out, "temperature", types.Measure("C")),
	}, nil)
	inv := ast.NewInvocation(ast.NewDeviceSelector("com.example.thermostat"), "current_temperature", nil)
	inv.Schema = f
	rule := ast.NewRule(
		ast.NewMonitorStream(ast.NewInvocationTable(inv), nil),
		ast.NewInvocationAction(ast.NewInvocation(ast.Builtin, "say", []*ast.InputParam{
			ast.NewInputParam("message", ast.NewVarRef("temperature")),
		})),
	)

	slots := ast.CollectSlots(rule)
	want := []string{"device", "in_param.message"}
	if got := slotTags(slots); !reflect.DeepEqual(got, want) {
		t.Fatalf("slot tags = %v; want %v", got, want)
	}

	scope := slots[1].Scope()
	entry := scope["temperature"]
	if entry == nil {
		t.Fatal("the monitored call's output is not in scope at the action")
	}
	if !types.Equal(entry.Type, types.Measure("C")) {
		t.Errorf("scope[temperature].Type = %v; want Measure(C)", entry.Type)
	}
	if entry.Kind != "com.example.thermostat" {
		t.Errorf("scope[temperature].Kind = %q; want the producing device kind", entry.Kind)
	}
	if scope["$event"] == nil {
		t.Error("scope is missing $event")
	}
}

func TestProjectionRestrictsScope(t *testing.T) {
	f := query("list", []*ast.ArgumentDef{
		arg(ast.Out, "a", types.String),
		arg(ast.Out, "b", types.Number),
	}, nil)
	inv := ast.NewInvocation(ast.NewDeviceSelector("com.example"), "list", nil)
	inv.Schema = f
	filtered := ast.NewFilteredTable(
		ast.NewProjectionTable(ast.NewInvocationTable(inv), []string{"a"}),
		ast.NewAtom("a", "==", ast.NewString("x")),
	)

	slots := ast.CollectSlots(filtered)
	if got := slotTags(slots); !reflect.DeepEqual(got, []string{"device", "filter.==.a"}) {
		t.Fatalf("slot tags = %v", got)
	}
	scope := slots[1].Scope()
	if len(scope) != 1 || scope["a"] == nil {
		t.Errorf("projected scope = %v; want only a", scope)
	}
}

func TestTimerSlots(t *testing.T) {
	rule := ast.NewRule(
		ast.NewTimerStream(ast.NewDate(nil), ast.NewMeasure(30, "min"), ast.NewNumber(2)),
		ast.NotifyAction(),
	)
	slots := ast.CollectSlots(rule)
	want := []string{"timer.base", "timer.interval", "timer.frequency"}
	if got := slotTags(slots); !reflect.DeepEqual(got, want) {
		t.Fatalf("slot tags = %v; want %v", got, want)
	}
	wantTypes := []types.Type{types.Date, types.Measure("ms"), types.Number}
	for i, s := range slots {
		if !types.Equal(s.Type(), wantTypes[i]) {
			t.Errorf("%s type = %v; want %v", s.Tag(), s.Type(), wantTypes[i])
		}
		if s.Primitive() != nil {
			t.Errorf("%s has a primitive; timers have none", s.Tag())
		}
	}
}

func TestAtTimerSlots(t *testing.T) {
	st := ast.NewAtTimerStream([]ast.Value{
		ast.NewTime(ast.NewAbsoluteTime(9, 0, 0)),
		ast.NewTime(ast.NewAbsoluteTime(21, 30, 0)),
	}, ast.NewDate(nil))

	slots := ast.CollectSlots(st)
	want := []string{"attimer.time.0", "attimer.time.1", "attimer.expiration_date"}
	if got := slotTags(slots); !reflect.DeepEqual(got, want) {
		t.Fatalf("slot tags = %v; want %v", got, want)
	}
	if got := slots[0].Type(); !types.Equal(got, types.Time) {
		t.Errorf("attimer.time.0 type = %v; want Time", got)
	}
	if got := slots[2].Type(); !types.Equal(got, types.Date) {
		t.Errorf("attimer.expiration_date type = %v; want Date", got)
	}
}

func TestArrayElementSlots(t *testing.T) {
	f := query("send", []*ast.ArgumentDef{
		arg(ast.InReq, "to", types.Array(types.String)),
	}, nil)
	inv := ast.NewInvocation(ast.NewDeviceSelector("com.example.mail"), "send", []*ast.InputParam{
		ast.NewInputParam("to", ast.NewArray(ast.NewString("alice"), ast.NewString("bob"))),
	})
	inv.Schema = f

	slots := ast.CollectSlots(inv)
	want := []string{"device", "in_param.to", "in_param.to.0", "in_param.to.1"}
	if got := slotTags(slots); !reflect.DeepEqual(got, want) {
		t.Fatalf("slot tags = %v; want %v", got, want)
	}

	elem := slots[3].(*ast.ArrayIndexSlot)
	if got := elem.Type(); !types.Equal(got, types.String) {
		t.Errorf("element type = %v; want String", got)
	}
	if elem.Index() != 1 {
		t.Errorf("element index = %d; want 1", elem.Index())
	}

	elem.Set(ast.NewString("carol"))
	arr := inv.InParams[0].Value.(*ast.ArrayValue)
	if got := arr.Values[1].(*ast.StringValue).Value; got != "carol" {
		t.Errorf("Set did not write through to the tree: %q", got)
	}
}

func TestComputationOperandSlots(t *testing.T) {
	atom := ast.NewAtom("count", "==",
		ast.NewComputation("+", ast.NewNumber(1), ast.NewVarRef("offset")))

	slots := ast.CollectSlots(atom)
	want := []string{"filter.==.count", "filter.==.count.+.0", "filter.==.count.+.1"}
	if got := slotTags(slots); !reflect.DeepEqual(got, want) {
		t.Fatalf("slot tags = %v; want %v", got, want)
	}

	op := slots[1].(*ast.ComputationOperandSlot)
	if op.Operator() != "+" {
		t.Errorf("operand operator = %q; want +", op.Operator())
	}
	if got := op.Type(); !types.Equal(got, types.Number) {
		t.Errorf("literal operand type = %v; want Number", got)
	}
	if got := slots[2].Type(); !types.Equal(got, types.Any) {
		t.Errorf("unresolved reference operand type = %v; want Any", got)
	}

	slots[2].Set(ast.NewNumber(7))
	comp := atom.Value.(*ast.ComputationValue)
	if got := comp.Operands[1].(*ast.NumberValue).Value; got != 7 {
		t.Errorf("Set did not write through to the computation: %v", got)
	}
}

func TestDeviceSlotGetSet(t *testing.T) {
	sel := ast.NewDeviceSelector("com.example.thermostat")
	inv := ast.NewInvocation(sel, "current_temperature", nil)

	slots := ast.CollectSlots(inv)
	if len(slots) != 1 {
		t.Fatalf("got %d slots; want just the device slot", len(slots))
	}
	ds := slots[0].(*ast.DeviceSlot)

	if _, ok := ds.Get().(*ast.UndefinedValue); !ok {
		t.Errorf("unselected device reads as %T; want *UndefinedValue", ds.Get())
	}
	if !types.Equal(ds.Type(), types.Entity("tt:device")) {
		t.Errorf("device slot type = %v; want Entity(tt:device)", ds.Type())
	}

	ds.Set(ast.NewEntity("thermo-1", "tt:device", "Kitchen"))
	if sel.ID != "thermo-1" {
		t.Errorf("selector ID = %q after Set; want thermo-1", sel.ID)
	}
	if ent, ok := ds.Get().(*ast.EntityValue); !ok || ent.Value != "thermo-1" {
		t.Errorf("selected device reads as %v", ds.Get())
	}

	ds.Set(ast.NewUndefined(true))
	if sel.ID != "" {
		t.Errorf("selector ID = %q after clearing; want empty", sel.ID)
	}

	defer func() {
		if recover() == nil {
			t.Error("setting a number as the device did not panic")
		}
	}()
	ds.Set(ast.NewNumber(1))
}

func TestIterateSlotsEarlyStop(t *testing.T) {
	sel := ast.NewDeviceSelector("com.example")
	sel.Attributes = []*ast.InputParam{
		ast.NewInputParam("name", ast.NewString("kitchen")),
	}
	inv := ast.NewInvocation(sel, "list", []*ast.InputParam{
		ast.NewInputParam("a", ast.NewNumber(1)),
		ast.NewInputParam("b", ast.NewNumber(2)),
	})

	var seen []string
	ast.IterateSlots(inv, func(s ast.Slot) bool {
		seen = append(seen, s.Tag())
		return len(seen) < 2
	})
	if want := []string{"attribute.name", "device"}; !reflect.DeepEqual(seen, want) {
		t.Errorf("slots seen before stop = %v; want %v", seen, want)
	}
}

func TestExternalFilterSlots(t *testing.T) {
	fOuter := query("list", []*ast.ArgumentDef{arg(ast.Out, "text", types.String)}, nil)
	inv := ast.NewInvocation(ast.NewDeviceSelector("com.example.mail"), "list", nil)
	inv.Schema = fOuter
	tbl := ast.NewInvocationTable(inv)
	tbl.Schema = fOuter.Signature()

	fExt := query("current", []*ast.ArgumentDef{arg(ast.Out, "value", types.Number)}, nil)
	extSel := ast.NewDeviceSelector("com.example.sensor")
	extSel.Attributes = []*ast.InputParam{
		ast.NewInputParam("name", ast.NewString("outdoor")),
	}
	ext := ast.NewExternal(extSel, "current",
		[]*ast.InputParam{ast.NewInputParam("unit", ast.NewString("C"))},
		ast.NewAtom("value", ">=", ast.NewNumber(10)))
	ext.Schema = fExt

	slots := ast.CollectSlots(ast.NewFilteredTable(tbl, ext))
	want := []string{"device", "attribute.name", "device", "in_param.unit", "filter.>=.value"}
	if got := slotTags(slots); !reflect.DeepEqual(got, want) {
		t.Fatalf("slot tags = %v; want %v", got, want)
	}

	// The get-predicate's slots belong to the get-predicate, not the
	// filtered invocation, and its filter resolves against its own
	// schema.
	if slots[2].(*ast.DeviceSlot).String() != "DeviceSlot(com.example.sensor)" {
		t.Errorf("inner device slot = %s", slots[2])
	}
	fs := slots[4].(*ast.FilterSlot)
	if fs.Primitive() != ast.Primitive(ext) {
		t.Error("get-predicate filter slot primitive is not the get-predicate")
	}
	if got := fs.Type(); !types.Equal(got, types.Number) {
		t.Errorf("get-predicate filter type = %v; want Number", got)
	}
	if fs.Scope()["value"] == nil {
		t.Error("get-predicate filter does not see its own outputs")
	}
}

func TestPermissionRuleSlots(t *testing.T) {
	fq := query("list", []*ast.ArgumentDef{arg(ast.Out, "text", types.String)}, nil)
	q := ast.NewSpecifiedPermission("com.example.mail", "list",
		ast.NewAtom("text", "=~", ast.NewString("urgent")))
	q.Schema = fq
	rule := ast.NewPermissionRule(
		ast.NewAtom("source", "==", ast.NewEntity("", "tt:contact", "")),
		q,
		ast.PermissionBuiltin,
	)

	slots := ast.CollectSlots(rule)
	want := []string{"filter.==.source", "filter.=~.text"}
	if got := slotTags(slots); !reflect.DeepEqual(got, want) {
		t.Fatalf("slot tags = %v; want %v", got, want)
	}
	if slots[0].Primitive() != nil {
		t.Error("principal filter has a primitive; it has no schema to resolve against")
	}
	if slots[1].Primitive() != ast.Primitive(q) {
		t.Error("query filter slot primitive is not the permission function")
	}
	if got := slots[1].Type(); !types.Equal(got, types.String) {
		t.Errorf("query filter type = %v; want String", got)
	}
}

func TestSlotSetRejectsNil(t *testing.T) {
	inv := ast.NewInvocation(ast.NewDeviceSelector("com.example"), "list",
		[]*ast.InputParam{ast.NewInputParam("a", ast.NewNumber(1))})
	slots := ast.CollectSlots(inv)
	s := slots[len(slots)-1]

	defer func() {
		if recover() == nil {
			t.Error("Set(nil) did not panic")
		}
	}()
	s.Set(nil)
}
