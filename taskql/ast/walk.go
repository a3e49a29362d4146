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
	"sort"
)

// A Visitor has one method per concrete node variant. Each method
// reports whether Walk should recurse into the node's children.
// Schema fields filled in by the type checker are not walked; neither
// are annotation values.
//
// Embed DefaultVisitor to implement only the methods a pass cares
// about.
type Visitor interface {
	VisitBooleanValue(*BooleanValue) bool
	VisitStringValue(*StringValue) bool
	VisitNumberValue(*NumberValue) bool
	VisitCurrencyValue(*CurrencyValue) bool
	VisitEntityValue(*EntityValue) bool
	VisitMeasureValue(*MeasureValue) bool
	VisitEnumValue(*EnumValue) bool
	VisitTimeValue(*TimeValue) bool
	VisitDateValue(*DateValue) bool
	VisitLocationValue(*LocationValue) bool
	VisitArrayValue(*ArrayValue) bool
	VisitObjectValue(*ObjectValue) bool
	VisitVarRefValue(*VarRefValue) bool
	VisitEventValue(*EventValue) bool
	VisitContextRefValue(*ContextRefValue) bool
	VisitUndefinedValue(*UndefinedValue) bool
	VisitFilterValue(*FilterValue) bool
	VisitArrayFieldValue(*ArrayFieldValue) bool
	VisitComputationValue(*ComputationValue) bool
	VisitNullValue(*NullValue) bool
	VisitRecurrentTimeValue(*RecurrentTimeValue) bool

	VisitVarRefTable(*VarRefTable) bool
	VisitInvocationTable(*InvocationTable) bool
	VisitFilteredTable(*FilteredTable) bool
	VisitProjectionTable(*ProjectionTable) bool
	VisitComputeTable(*ComputeTable) bool
	VisitAliasTable(*AliasTable) bool
	VisitAggregationTable(*AggregationTable) bool
	VisitSortedTable(*SortedTable) bool
	VisitIndexTable(*IndexTable) bool
	VisitSlicedTable(*SlicedTable) bool
	VisitJoinTable(*JoinTable) bool
	VisitWindowTable(*WindowTable) bool
	VisitTimeSeriesTable(*TimeSeriesTable) bool
	VisitSequenceTable(*SequenceTable) bool
	VisitHistoryTable(*HistoryTable) bool

	VisitVarRefStream(*VarRefStream) bool
	VisitTimerStream(*TimerStream) bool
	VisitAtTimerStream(*AtTimerStream) bool
	VisitMonitorStream(*MonitorStream) bool
	VisitEdgeNewStream(*EdgeNewStream) bool
	VisitEdgeFilterStream(*EdgeFilterStream) bool
	VisitFilteredStream(*FilteredStream) bool
	VisitProjectionStream(*ProjectionStream) bool
	VisitComputeStream(*ComputeStream) bool
	VisitAliasStream(*AliasStream) bool
	VisitJoinStream(*JoinStream) bool

	VisitVarRefAction(*VarRefAction) bool
	VisitInvocationAction(*InvocationAction) bool

	VisitAndBooleanExpression(*AndBooleanExpression) bool
	VisitOrBooleanExpression(*OrBooleanExpression) bool
	VisitNotBooleanExpression(*NotBooleanExpression) bool
	VisitAtomBooleanExpression(*AtomBooleanExpression) bool
	VisitExternalBooleanExpression(*ExternalBooleanExpression) bool
	VisitDontCareBooleanExpression(*DontCareBooleanExpression) bool
	VisitComputeBooleanExpression(*ComputeBooleanExpression) bool
	VisitTrueBooleanExpression(*TrueBooleanExpression) bool
	VisitFalseBooleanExpression(*FalseBooleanExpression) bool

	VisitPrimaryScalarExpression(*PrimaryScalarExpression) bool
	VisitDerivedScalarExpression(*DerivedScalarExpression) bool
	VisitAggregationScalarExpression(*AggregationScalarExpression) bool
	VisitVarRefScalarExpression(*VarRefScalarExpression) bool

	VisitDeviceSelector(*DeviceSelector) bool
	VisitBuiltinSelector(*BuiltinSelector) bool
	VisitInputParam(*InputParam) bool
	VisitInvocation(*Invocation) bool

	VisitArgumentDef(*ArgumentDef) bool
	VisitFunctionDef(*FunctionDef) bool
	VisitClassDef(*ClassDef) bool
	VisitMixinImportStmt(*MixinImportStmt) bool
	VisitClassImportStmt(*ClassImportStmt) bool

	VisitRule(*Rule) bool
	VisitCommand(*Command) bool
	VisitAssignment(*Assignment) bool
	VisitDeclaration(*Declaration) bool
	VisitProgram(*Program) bool

	VisitPermissionRule(*PermissionRule) bool
	VisitSpecifiedPermissionFunction(*SpecifiedPermissionFunction) bool
	VisitBuiltinPermissionFunction(*BuiltinPermissionFunction) bool
	VisitClassStarPermissionFunction(*ClassStarPermissionFunction) bool
	VisitStarPermissionFunction(*StarPermissionFunction) bool
}

// DefaultVisitor visits every node and always recurses. Embed it and
// override the methods of interest.
type DefaultVisitor struct{}

func (DefaultVisitor) VisitBooleanValue(*BooleanValue) bool             { return true }
func (DefaultVisitor) VisitStringValue(*StringValue) bool               { return true }
func (DefaultVisitor) VisitNumberValue(*NumberValue) bool               { return true }
func (DefaultVisitor) VisitCurrencyValue(*CurrencyValue) bool           { return true }
func (DefaultVisitor) VisitEntityValue(*EntityValue) bool               { return true }
func (DefaultVisitor) VisitMeasureValue(*MeasureValue) bool             { return true }
func (DefaultVisitor) VisitEnumValue(*EnumValue) bool                   { return true }
func (DefaultVisitor) VisitTimeValue(*TimeValue) bool                   { return true }
func (DefaultVisitor) VisitDateValue(*DateValue) bool                   { return true }
func (DefaultVisitor) VisitLocationValue(*LocationValue) bool           { return true }
func (DefaultVisitor) VisitArrayValue(*ArrayValue) bool                 { return true }
func (DefaultVisitor) VisitObjectValue(*ObjectValue) bool               { return true }
func (DefaultVisitor) VisitVarRefValue(*VarRefValue) bool               { return true }
func (DefaultVisitor) VisitEventValue(*EventValue) bool                 { return true }
func (DefaultVisitor) VisitContextRefValue(*ContextRefValue) bool       { return true }
func (DefaultVisitor) VisitUndefinedValue(*UndefinedValue) bool         { return true }
func (DefaultVisitor) VisitFilterValue(*FilterValue) bool               { return true }
func (DefaultVisitor) VisitArrayFieldValue(*ArrayFieldValue) bool       { return true }
func (DefaultVisitor) VisitComputationValue(*ComputationValue) bool     { return true }
func (DefaultVisitor) VisitNullValue(*NullValue) bool                   { return true }
func (DefaultVisitor) VisitRecurrentTimeValue(*RecurrentTimeValue) bool { return true }

func (DefaultVisitor) VisitVarRefTable(*VarRefTable) bool           { return true }
func (DefaultVisitor) VisitInvocationTable(*InvocationTable) bool   { return true }
func (DefaultVisitor) VisitFilteredTable(*FilteredTable) bool       { return true }
func (DefaultVisitor) VisitProjectionTable(*ProjectionTable) bool   { return true }
func (DefaultVisitor) VisitComputeTable(*ComputeTable) bool         { return true }
func (DefaultVisitor) VisitAliasTable(*AliasTable) bool             { return true }
func (DefaultVisitor) VisitAggregationTable(*AggregationTable) bool { return true }
func (DefaultVisitor) VisitSortedTable(*SortedTable) bool           { return true }
func (DefaultVisitor) VisitIndexTable(*IndexTable) bool             { return true }
func (DefaultVisitor) VisitSlicedTable(*SlicedTable) bool           { return true }
func (DefaultVisitor) VisitJoinTable(*JoinTable) bool               { return true }
func (DefaultVisitor) VisitWindowTable(*WindowTable) bool           { return true }
func (DefaultVisitor) VisitTimeSeriesTable(*TimeSeriesTable) bool   { return true }
func (DefaultVisitor) VisitSequenceTable(*SequenceTable) bool       { return true }
func (DefaultVisitor) VisitHistoryTable(*HistoryTable) bool         { return true }

func (DefaultVisitor) VisitVarRefStream(*VarRefStream) bool         { return true }
func (DefaultVisitor) VisitTimerStream(*TimerStream) bool           { return true }
func (DefaultVisitor) VisitAtTimerStream(*AtTimerStream) bool       { return true }
func (DefaultVisitor) VisitMonitorStream(*MonitorStream) bool       { return true }
func (DefaultVisitor) VisitEdgeNewStream(*EdgeNewStream) bool       { return true }
func (DefaultVisitor) VisitEdgeFilterStream(*EdgeFilterStream) bool { return true }
func (DefaultVisitor) VisitFilteredStream(*FilteredStream) bool     { return true }
func (DefaultVisitor) VisitProjectionStream(*ProjectionStream) bool { return true }
func (DefaultVisitor) VisitComputeStream(*ComputeStream) bool       { return true }
func (DefaultVisitor) VisitAliasStream(*AliasStream) bool           { return true }
func (DefaultVisitor) VisitJoinStream(*JoinStream) bool             { return true }

func (DefaultVisitor) VisitVarRefAction(*VarRefAction) bool         { return true }
func (DefaultVisitor) VisitInvocationAction(*InvocationAction) bool { return true }

func (DefaultVisitor) VisitAndBooleanExpression(*AndBooleanExpression) bool           { return true }
func (DefaultVisitor) VisitOrBooleanExpression(*OrBooleanExpression) bool             { return true }
func (DefaultVisitor) VisitNotBooleanExpression(*NotBooleanExpression) bool           { return true }
func (DefaultVisitor) VisitAtomBooleanExpression(*AtomBooleanExpression) bool         { return true }
func (DefaultVisitor) VisitExternalBooleanExpression(*ExternalBooleanExpression) bool { return true }
func (DefaultVisitor) VisitDontCareBooleanExpression(*DontCareBooleanExpression) bool { return true }
func (DefaultVisitor) VisitComputeBooleanExpression(*ComputeBooleanExpression) bool   { return true }
func (DefaultVisitor) VisitTrueBooleanExpression(*TrueBooleanExpression) bool         { return true }
func (DefaultVisitor) VisitFalseBooleanExpression(*FalseBooleanExpression) bool       { return true }

func (DefaultVisitor) VisitPrimaryScalarExpression(*PrimaryScalarExpression) bool { return true }
func (DefaultVisitor) VisitDerivedScalarExpression(*DerivedScalarExpression) bool { return true }
func (DefaultVisitor) VisitAggregationScalarExpression(*AggregationScalarExpression) bool {
	return true
}
func (DefaultVisitor) VisitVarRefScalarExpression(*VarRefScalarExpression) bool { return true }

func (DefaultVisitor) VisitDeviceSelector(*DeviceSelector) bool   { return true }
func (DefaultVisitor) VisitBuiltinSelector(*BuiltinSelector) bool { return true }
func (DefaultVisitor) VisitInputParam(*InputParam) bool           { return true }
func (DefaultVisitor) VisitInvocation(*Invocation) bool           { return true }

func (DefaultVisitor) VisitArgumentDef(*ArgumentDef) bool         { return true }
func (DefaultVisitor) VisitFunctionDef(*FunctionDef) bool         { return true }
func (DefaultVisitor) VisitClassDef(*ClassDef) bool               { return true }
func (DefaultVisitor) VisitMixinImportStmt(*MixinImportStmt) bool { return true }
func (DefaultVisitor) VisitClassImportStmt(*ClassImportStmt) bool { return true }

func (DefaultVisitor) VisitRule(*Rule) bool               { return true }
func (DefaultVisitor) VisitCommand(*Command) bool         { return true }
func (DefaultVisitor) VisitAssignment(*Assignment) bool   { return true }
func (DefaultVisitor) VisitDeclaration(*Declaration) bool { return true }
func (DefaultVisitor) VisitProgram(*Program) bool         { return true }

func (DefaultVisitor) VisitPermissionRule(*PermissionRule) bool { return true }
func (DefaultVisitor) VisitSpecifiedPermissionFunction(*SpecifiedPermissionFunction) bool {
	return true
}
func (DefaultVisitor) VisitBuiltinPermissionFunction(*BuiltinPermissionFunction) bool { return true }
func (DefaultVisitor) VisitClassStarPermissionFunction(*ClassStarPermissionFunction) bool {
	return true
}
func (DefaultVisitor) VisitStarPermissionFunction(*StarPermissionFunction) bool { return true }

// Walk traverses the tree rooted at n in depth-first pre-order, calling
// the visitor method of each node. When a visitor method returns false
// the node's children are skipped. Children are visited in the order
// they are evaluated; map-backed children (class functions, object
// fields) are visited in sorted name order so traversal is
// deterministic.
func Walk(v Visitor, n Node) {
	if n == nil {
		return
	}
	switch x := n.(type) {
	case *BooleanValue:
		v.VisitBooleanValue(x)
	case *StringValue:
		v.VisitStringValue(x)
	case *NumberValue:
		v.VisitNumberValue(x)
	case *CurrencyValue:
		v.VisitCurrencyValue(x)
	case *EntityValue:
		v.VisitEntityValue(x)
	case *MeasureValue:
		v.VisitMeasureValue(x)
	case *EnumValue:
		v.VisitEnumValue(x)
	case *TimeValue:
		v.VisitTimeValue(x)
	case *DateValue:
		v.VisitDateValue(x)
	case *LocationValue:
		v.VisitLocationValue(x)
	case *ArrayValue:
		if v.VisitArrayValue(x) {
			for _, e := range x.Values {
				Walk(v, e)
			}
		}
	case *ObjectValue:
		if v.VisitObjectValue(x) {
			names := make([]string, 0, len(x.Fields))
			for name := range x.Fields {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				Walk(v, x.Fields[name])
			}
		}
	case *VarRefValue:
		v.VisitVarRefValue(x)
	case *EventValue:
		v.VisitEventValue(x)
	case *ContextRefValue:
		v.VisitContextRefValue(x)
	case *UndefinedValue:
		v.VisitUndefinedValue(x)
	case *FilterValue:
		if v.VisitFilterValue(x) {
			Walk(v, x.Value)
			Walk(v, x.Filter)
		}
	case *ArrayFieldValue:
		if v.VisitArrayFieldValue(x) {
			Walk(v, x.Value)
		}
	case *ComputationValue:
		if v.VisitComputationValue(x) {
			for _, o := range x.Operands {
				Walk(v, o)
			}
		}
	case *NullValue:
		v.VisitNullValue(x)
	case *RecurrentTimeValue:
		v.VisitRecurrentTimeValue(x)

	case *VarRefTable:
		if v.VisitVarRefTable(x) {
			for _, p := range x.InParams {
				Walk(v, p)
			}
		}
	case *InvocationTable:
		if v.VisitInvocationTable(x) {
			Walk(v, x.Invocation)
		}
	case *FilteredTable:
		if v.VisitFilteredTable(x) {
			Walk(v, x.Table)
			Walk(v, x.Filter)
		}
	case *ProjectionTable:
		if v.VisitProjectionTable(x) {
			Walk(v, x.Table)
		}
	case *ComputeTable:
		if v.VisitComputeTable(x) {
			Walk(v, x.Table)
			Walk(v, x.Expression)
		}
	case *AliasTable:
		if v.VisitAliasTable(x) {
			Walk(v, x.Table)
		}
	case *AggregationTable:
		if v.VisitAggregationTable(x) {
			Walk(v, x.Table)
		}
	case *SortedTable:
		if v.VisitSortedTable(x) {
			Walk(v, x.Table)
		}
	case *IndexTable:
		if v.VisitIndexTable(x) {
			Walk(v, x.Table)
			for _, idx := range x.Indices {
				Walk(v, idx)
			}
		}
	case *SlicedTable:
		if v.VisitSlicedTable(x) {
			Walk(v, x.Table)
			Walk(v, x.Base)
			Walk(v, x.Limit)
		}
	case *JoinTable:
		if v.VisitJoinTable(x) {
			Walk(v, x.LHS)
			Walk(v, x.RHS)
			for _, p := range x.InParams {
				Walk(v, p)
			}
		}
	case *WindowTable:
		if v.VisitWindowTable(x) {
			Walk(v, x.Base)
			Walk(v, x.Delta)
			Walk(v, x.Stream)
		}
	case *TimeSeriesTable:
		if v.VisitTimeSeriesTable(x) {
			Walk(v, x.Base)
			Walk(v, x.Delta)
			Walk(v, x.Stream)
		}
	case *SequenceTable:
		if v.VisitSequenceTable(x) {
			Walk(v, x.Base)
			Walk(v, x.Delta)
			Walk(v, x.Table)
		}
	case *HistoryTable:
		if v.VisitHistoryTable(x) {
			Walk(v, x.Base)
			Walk(v, x.Delta)
			Walk(v, x.Table)
		}

	case *VarRefStream:
		if v.VisitVarRefStream(x) {
			for _, p := range x.InParams {
				Walk(v, p)
			}
		}
	case *TimerStream:
		if v.VisitTimerStream(x) {
			Walk(v, x.Base)
			Walk(v, x.Interval)
			if x.Frequency != nil {
				Walk(v, x.Frequency)
			}
		}
	case *AtTimerStream:
		if v.VisitAtTimerStream(x) {
			for _, t := range x.Times {
				Walk(v, t)
			}
			if x.Expiration != nil {
				Walk(v, x.Expiration)
			}
		}
	case *MonitorStream:
		if v.VisitMonitorStream(x) {
			Walk(v, x.Table)
		}
	case *EdgeNewStream:
		if v.VisitEdgeNewStream(x) {
			Walk(v, x.Stream)
		}
	case *EdgeFilterStream:
		if v.VisitEdgeFilterStream(x) {
			Walk(v, x.Stream)
			Walk(v, x.Filter)
		}
	case *FilteredStream:
		if v.VisitFilteredStream(x) {
			Walk(v, x.Stream)
			Walk(v, x.Filter)
		}
	case *ProjectionStream:
		if v.VisitProjectionStream(x) {
			Walk(v, x.Stream)
		}
	case *ComputeStream:
		if v.VisitComputeStream(x) {
			Walk(v, x.Stream)
			Walk(v, x.Expression)
		}
	case *AliasStream:
		if v.VisitAliasStream(x) {
			Walk(v, x.Stream)
		}
	case *JoinStream:
		if v.VisitJoinStream(x) {
			Walk(v, x.Stream)
			Walk(v, x.Table)
			for _, p := range x.InParams {
				Walk(v, p)
			}
		}

	case *VarRefAction:
		if v.VisitVarRefAction(x) {
			for _, p := range x.InParams {
				Walk(v, p)
			}
		}
	case *InvocationAction:
		if v.VisitInvocationAction(x) {
			Walk(v, x.Invocation)
		}

	case *AndBooleanExpression:
		if v.VisitAndBooleanExpression(x) {
			for _, op := range x.Operands {
				Walk(v, op)
			}
		}
	case *OrBooleanExpression:
		if v.VisitOrBooleanExpression(x) {
			for _, op := range x.Operands {
				Walk(v, op)
			}
		}
	case *NotBooleanExpression:
		if v.VisitNotBooleanExpression(x) {
			Walk(v, x.Expr)
		}
	case *AtomBooleanExpression:
		if v.VisitAtomBooleanExpression(x) {
			Walk(v, x.Value)
		}
	case *ExternalBooleanExpression:
		if v.VisitExternalBooleanExpression(x) {
			Walk(v, x.Selector)
			for _, p := range x.InParams {
				Walk(v, p)
			}
			Walk(v, x.Filter)
		}
	case *DontCareBooleanExpression:
		v.VisitDontCareBooleanExpression(x)
	case *ComputeBooleanExpression:
		if v.VisitComputeBooleanExpression(x) {
			Walk(v, x.LHS)
			Walk(v, x.RHS)
		}
	case *TrueBooleanExpression:
		v.VisitTrueBooleanExpression(x)
	case *FalseBooleanExpression:
		v.VisitFalseBooleanExpression(x)

	case *PrimaryScalarExpression:
		if v.VisitPrimaryScalarExpression(x) {
			Walk(v, x.Value)
		}
	case *DerivedScalarExpression:
		if v.VisitDerivedScalarExpression(x) {
			for _, o := range x.Operands {
				Walk(v, o)
			}
		}
	case *AggregationScalarExpression:
		if v.VisitAggregationScalarExpression(x) {
			Walk(v, x.List)
		}
	case *VarRefScalarExpression:
		if v.VisitVarRefScalarExpression(x) {
			Walk(v, x.Selector)
			for _, p := range x.Args {
				Walk(v, p)
			}
		}

	case *DeviceSelector:
		if v.VisitDeviceSelector(x) {
			for _, a := range x.Attributes {
				Walk(v, a)
			}
		}
	case *BuiltinSelector:
		v.VisitBuiltinSelector(x)
	case *InputParam:
		if v.VisitInputParam(x) {
			Walk(v, x.Value)
		}
	case *Invocation:
		if v.VisitInvocation(x) {
			Walk(v, x.Selector)
			for _, p := range x.InParams {
				Walk(v, p)
			}
		}

	case *ArgumentDef:
		v.VisitArgumentDef(x)
	case *FunctionDef:
		if v.VisitFunctionDef(x) {
			for _, a := range x.Arguments() {
				Walk(v, a)
			}
		}
	case *ClassDef:
		if v.VisitClassDef(x) {
			for _, imp := range x.Imports {
				Walk(v, imp)
			}
			for _, name := range x.QueryNames() {
				Walk(v, x.Queries[name])
			}
			for _, name := range x.ActionNames() {
				Walk(v, x.Actions[name])
			}
		}
	case *MixinImportStmt:
		if v.VisitMixinImportStmt(x) {
			for _, p := range x.InParams {
				Walk(v, p)
			}
		}
	case *ClassImportStmt:
		v.VisitClassImportStmt(x)

	case *Rule:
		if v.VisitRule(x) {
			Walk(v, x.Stream)
			for _, a := range x.Actions {
				Walk(v, a)
			}
		}
	case *Command:
		if v.VisitCommand(x) {
			if x.Table != nil {
				Walk(v, x.Table)
			}
			for _, a := range x.Actions {
				Walk(v, a)
			}
		}
	case *Assignment:
		if v.VisitAssignment(x) {
			Walk(v, x.Value)
		}
	case *Declaration:
		if v.VisitDeclaration(x) {
			Walk(v, x.Value)
		}
	case *Program:
		if v.VisitProgram(x) {
			for _, c := range x.Classes {
				Walk(v, c)
			}
			for _, d := range x.Declarations {
				Walk(v, d)
			}
			for _, s := range x.Statements {
				Walk(v, s)
			}
			if x.Principal != nil {
				Walk(v, x.Principal)
			}
		}

	case *PermissionRule:
		if v.VisitPermissionRule(x) {
			Walk(v, x.Principal)
			Walk(v, x.Query)
			Walk(v, x.Action)
		}
	case *SpecifiedPermissionFunction:
		if v.VisitSpecifiedPermissionFunction(x) {
			Walk(v, x.Filter)
		}
	case *BuiltinPermissionFunction:
		v.VisitBuiltinPermissionFunction(x)
	case *ClassStarPermissionFunction:
		v.VisitClassStarPermissionFunction(x)
	case *StarPermissionFunction:
		v.VisitStarPermissionFunction(x)

	default:
		panic(fmt.Sprintf("ast: Walk: unexpected node type %T", n))
	}
}
