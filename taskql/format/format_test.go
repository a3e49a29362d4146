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

package format_test

import (
	"flag"
	"testing"
	"time"

	"taskql.org/go/internal/tqtest"
	"taskql.org/go/taskql/ast"
	"taskql.org/go/taskql/format"
	"taskql.org/go/taskql/types"
)

var update = flag.Bool("update", false, "update the golden files")

func inv(kind, channel string, params ...*ast.InputParam) *ast.Invocation {
	return ast.NewInvocation(ast.NewDeviceSelector(kind), channel, params)
}

func invTable(kind, channel string) ast.Table {
	return ast.NewInvocationTable(inv(kind, channel))
}

func prim(v ast.Value) ast.ScalarExpression { return ast.NewPrimaryScalar(v) }

func TestNodeFragments(t *testing.T) {
	testCases := []struct {
		name string
		node ast.Node
		want string
	}{{
		name: "string",
		node: ast.NewString(`hello "world"`),
		want: `"hello \"world\""`,
	}, {
		name: "number",
		node: ast.NewNumber(-3.5),
		want: "-3.5",
	}, {
		name: "currency",
		node: ast.NewCurrencyFromFloat(19.99, "usd"),
		want: "makeCurrency(19.99, usd)",
	}, {
		name: "entity",
		node: ast.NewEntity("bob", "tt:username", ""),
		want: `"bob"^^tt:username`,
	}, {
		name: "unresolved entity",
		node: ast.NewEntity("", "tt:person", "Bob Smith"),
		want: `null^^tt:person("Bob Smith")`,
	}, {
		name: "measure",
		node: ast.NewMeasure(21.5, "C"),
		want: "21.5C",
	}, {
		name: "enum",
		node: ast.NewEnum("on"),
		want: "enum(on)",
	}, {
		name: "absolute time",
		node: ast.NewTime(ast.NewAbsoluteTime(7, 30, 0)),
		want: "makeTime(7, 30)",
	}, {
		name: "time with seconds",
		node: ast.NewTime(ast.NewAbsoluteTime(7, 30, 15)),
		want: "makeTime(7, 30, 15)",
	}, {
		name: "relative time",
		node: ast.NewTime(&ast.RelativeTime{Tag: "morning"}),
		want: "$context.time.morning",
	}, {
		name: "current date",
		node: ast.NewDate(nil),
		want: "makeDate()",
	}, {
		name: "absolute date",
		node: ast.NewDate(&ast.AbsoluteDate{Time: time.Unix(1500000000, 0)}),
		want: "makeDate(1500000000000)",
	}, {
		name: "date edge",
		node: ast.NewDate(ast.NewDateEdge("end_of", "day")),
		want: "end_of(day)",
	}, {
		name: "weekday date",
		node: ast.NewDate(&ast.WeekDayDate{Day: "monday", Time: ast.NewAbsoluteTime(9, 0, 0)}),
		want: "weekday(monday, makeTime(9, 0))",
	}, {
		name: "absolute location",
		node: ast.NewLocation(&ast.AbsoluteLocation{Latitude: 37.442, Longitude: -122.166, Display: "Palo Alto"}),
		want: `makeLocation(37.442, -122.166, "Palo Alto")`,
	}, {
		name: "unresolved location",
		node: ast.NewLocation(&ast.UnresolvedLocation{Name: "piazza venezia"}),
		want: `makeLocation("piazza venezia")`,
	}, {
		name: "array",
		node: ast.NewArray(ast.NewNumber(1), ast.NewString("a")),
		want: `[1, "a"]`,
	}, {
		name: "object sorts fields",
		node: ast.NewObject(map[string]ast.Value{"b": ast.NewNumber(2), "a": ast.NewNumber(1)}),
		want: "{a=1, b=2}",
	}, {
		name: "event",
		node: ast.NewEvent(""),
		want: "$event",
	}, {
		name: "event field",
		node: ast.NewEvent("title"),
		want: "$event.title",
	}, {
		name: "context ref",
		node: ast.NewContextRef("selection", types.String),
		want: "$context.selection : String",
	}, {
		name: "undefined",
		node: ast.NewUndefined(true),
		want: "$undefined",
	}, {
		name: "remote undefined",
		node: ast.NewUndefined(false),
		want: "$undefined.remote",
	}, {
		name: "null",
		node: ast.NewNull(),
		want: "null",
	}, {
		name: "filtered value",
		node: ast.NewFilterValue(ast.NewVarRef("messages"), ast.NewAtom("sender", "==", ast.NewVarRef("bob"))),
		want: "messages filter { sender == bob }",
	}, {
		name: "array field",
		node: ast.NewArrayField(ast.NewVarRef("messages"), "sender"),
		want: "sender of messages",
	}, {
		name: "infix computation",
		node: ast.NewComputation("+", ast.NewVarRef("a"), ast.NewNumber(1)),
		want: "a + 1",
	}, {
		name: "named computation",
		node: ast.NewComputation("max", ast.NewVarRef("a"), ast.NewVarRef("b")),
		want: "max(a, b)",
	}, {
		name: "recurrence",
		node: ast.NewRecurrentTime(&ast.RecurrentTimeRule{
			BeginTime: ast.NewAbsoluteTime(9, 0, 0),
			EndTime:   ast.NewAbsoluteTime(17, 0, 0),
			DayOfWeek: "monday",
		}),
		want: "recurrentTimeSpec({begin=makeTime(9, 0), end=makeTime(17, 0), dayOfWeek=monday})",
	}, {
		name: "atom",
		node: ast.NewAtom("text", "=~", ast.NewString("x")),
		want: `text =~ "x"`,
	}, {
		name: "nested junction",
		node: ast.NewAnd(
			ast.NewAtom("a", "==", ast.NewNumber(1)),
			ast.NewOr(
				ast.NewAtom("b", "==", ast.NewNumber(2)),
				ast.NewAtom("c", "==", ast.NewNumber(3)),
			),
		),
		want: "a == 1 && (b == 2 || c == 3)",
	}, {
		name: "not",
		node: ast.NewNot(ast.NewAtom("a", "==", ast.NewNumber(1))),
		want: "!(a == 1)",
	}, {
		name: "dont care",
		node: ast.NewDontCare("text"),
		want: "true(text)",
	}, {
		name: "compute filter",
		node: ast.NewComputeFilter(
			ast.NewAggregationScalar("count", "", prim(ast.NewVarRef("emails"))),
			">=", ast.NewNumber(5)),
		want: "count(emails) >= 5",
	}, {
		name: "infix scalar",
		node: ast.NewDerivedScalar("*",
			ast.NewDerivedScalar("+", prim(ast.NewVarRef("a")), prim(ast.NewNumber(1))),
			prim(ast.NewNumber(2))),
		want: "(a + 1) * 2",
	}, {
		name: "named scalar",
		node: ast.NewDerivedScalar("distance", prim(ast.NewVarRef("here")), prim(ast.NewVarRef("there"))),
		want: "distance(here, there)",
	}, {
		name: "aggregation scalar with field",
		node: ast.NewAggregationScalar("avg", "price", prim(ast.NewVarRef("orders"))),
		want: "avg(price of orders)",
	}, {
		name: "builtin scalar call",
		node: ast.NewVarRefScalar(ast.Builtin, "inc", []*ast.InputParam{ast.NewInputParam("x", ast.NewNumber(1))}),
		want: "inc(x=1)",
	}, {
		name: "selector with attributes",
		node: func() ast.Node {
			sel := ast.NewDeviceSelector("com.example.light")
			sel.Attributes = []*ast.InputParam{ast.NewInputParam("name", ast.NewString("kitchen"))}
			sel.All = true
			return sel
		}(),
		want: `@com.example.light(name="kitchen", all=true)`,
	}, {
		name: "selector with id",
		node: func() ast.Node {
			sel := ast.NewDeviceSelector("com.example.light")
			sel.ID = "com.example.light-abc123"
			return sel
		}(),
		want: `@com.example.light(id="com.example.light-abc123")`,
	}, {
		name: "builtin invocation with params",
		node: ast.NewInvocation(ast.Builtin, "save", []*ast.InputParam{ast.NewInputParam("x", ast.NewNumber(1))}),
		want: "@$builtin.save(x=1)",
	}, {
		name: "filtered table",
		node: ast.NewFilteredTable(invTable("com.example.mail", "inbox"),
			ast.NewAtom("is_read", "==", ast.NewBoolean(false))),
		want: "@com.example.mail.inbox(), is_read == false",
	}, {
		name: "monitor on new",
		node: ast.NewMonitorStream(invTable("com.example.sensor", "reading"), []string{"value", "unit"}),
		want: "monitor @com.example.sensor.reading() on new [value, unit]",
	}, {
		name: "edge filter stream",
		node: ast.NewEdgeFilterStream(
			ast.NewMonitorStream(invTable("com.example.sensor", "reading"), nil),
			ast.NewAtom("value", ">=", ast.NewMeasure(30, "C"))),
		want: "edge (monitor @com.example.sensor.reading()) on value >= 30C",
	}, {
		name: "edge new stream",
		node: ast.NewEdgeNewStream(ast.NewMonitorStream(invTable("com.example.sensor", "reading"), nil)),
		want: "edge (monitor @com.example.sensor.reading()) on new",
	}}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := format.Node(tc.node)
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != tc.want {
				t.Errorf("got  %s\nwant %s", got, tc.want)
			}
		})
	}
}

func mustClass(c *ast.ClassDef, err error) *ast.ClassDef {
	if err != nil {
		panic(err)
	}
	return c
}

// goldenFixtures builds the trees whose emission is compared against
// the testdata archives; the archive name selects the builder.
var goldenFixtures = map[string]func() []ast.Node{
	"command": func() []ast.Node {
		filter := ast.NewAnd(
			ast.NewAtom("sender", "==", ast.NewEntity("bob@example.com", "tt:email_address", "Bob")),
			ast.NewOr(
				ast.NewDontCare("labels"),
				ast.NewNot(ast.NewAtom("text", "=~", ast.NewString("spam"))),
			),
		)
		table := ast.NewFilteredTable(invTable("com.example.mail", "inbox"), filter)
		return []ast.Node{ast.NewProgram(nil, nil, []ast.Statement{
			ast.NewCommand(table, ast.NotifyAction()),
		})}
	},
	"rule": func() []ast.Node {
		stream := ast.NewFilteredStream(
			ast.NewMonitorStream(invTable("com.example.sensor", "reading"), nil),
			ast.NewAtom("value", ">=", ast.NewMeasure(30, "C")))
		action := ast.NewInvocationAction(inv("com.example.ac", "set_power",
			ast.NewInputParam("power", ast.NewEnum("on"))))
		return []ast.Node{ast.NewProgram(nil, nil, []ast.Statement{
			ast.NewRule(stream, action),
		})}
	},
	"timers": func() []ast.Node {
		return []ast.Node{ast.NewProgram(nil, nil, []ast.Statement{
			ast.NewRule(
				ast.NewTimerStream(ast.NewDate(nil), ast.NewMeasure(1, "h"), nil),
				ast.NotifyAction()),
			ast.NewRule(
				ast.NewAtTimerStream([]ast.Value{
					ast.NewTime(ast.NewAbsoluteTime(9, 0, 0)),
					ast.NewTime(ast.NewAbsoluteTime(18, 30, 0)),
				}, nil),
				ast.NotifyAction()),
		})}
	},
	"tables": func() []ast.Node {
		ranked := ast.NewIndexTable(
			ast.NewSortedTable(
				ast.NewProjectionTable(invTable("com.example.mail", "list_messages"), []string{"sender", "text"}),
				"date", ast.SortDesc),
			[]ast.Value{ast.NewNumber(1)})
		joined := ast.NewAggregationTable(
			ast.NewJoinTable(
				invTable("com.example.orders", "list"),
				invTable("com.example.customers", "list"),
				[]*ast.InputParam{ast.NewInputParam("id", ast.NewVarRef("customer_id"))}),
			"*", "count", "")
		return []ast.Node{ast.NewProgram(nil, nil, []ast.Statement{
			ast.NewCommand(ranked, ast.NotifyAction()),
			ast.NewCommand(joined, ast.NotifyAction()),
		})}
	},
	"values": func() []ast.Node {
		action := ast.NewInvocationAction(inv("com.example.test", "echo",
			ast.NewInputParam("str", ast.NewString(`hello "world"`)),
			ast.NewInputParam("num", ast.NewNumber(-3.5)),
			ast.NewInputParam("cur", ast.NewCurrencyFromFloat(19.99, "usd")),
			ast.NewInputParam("place", ast.NewLocation(&ast.AbsoluteLocation{
				Latitude: 37.442, Longitude: -122.166, Display: "Palo Alto",
			})),
			ast.NewInputParam("here", ast.NewLocation(&ast.RelativeLocation{Tag: "home"})),
			ast.NewInputParam("week", ast.NewDate(ast.NewDateEdge("start_of", "week"))),
			ast.NewInputParam("arr", ast.NewArray(ast.NewNumber(1), ast.NewNumber(2))),
			ast.NewInputParam("undef", ast.NewUndefined(true)),
		))
		return []ast.Node{ast.NewProgram(nil, nil, []ast.Statement{
			ast.NewCommand(nil, action),
		})}
	},
	"class": func() []ast.Node {
		query := ast.NewFunctionDef(ast.FunctionQuery, "list_messages",
			[]*ast.ArgumentDef{
				ast.NewArgumentDef(ast.InOpt, "limit", types.Number, nil, nil),
				ast.NewArgumentDef(ast.Out, "sender", types.Entity("tt:email_address"), nil, nil),
				ast.NewArgumentDef(ast.Out, "text", types.String, nil, nil),
			}, nil, true, true,
			map[string]interface{}{"canonical": "list messages"},
			map[string]ast.Value{"poll_interval": ast.NewMeasure(60000, "ms")})
		send := ast.NewFunctionDef(ast.FunctionAction, "send",
			[]*ast.ArgumentDef{
				ast.NewArgumentDef(ast.InReq, "to", types.Entity("tt:email_address"), nil, nil),
				ast.NewArgumentDef(ast.InReq, "message", types.String, nil, nil),
			}, nil, false, false, nil, nil)
		c := mustClass(ast.NewClassDef("com.example.mail",
			[]*ast.FunctionDef{query}, []*ast.FunctionDef{send}))
		c.NL = map[string]interface{}{"name": "Example Mail"}
		c.Impl = map[string]ast.Value{"version": ast.NewNumber(2)}
		c.Imports = []ast.ImportStmt{&ast.MixinImportStmt{
			Facets: []string{"loader"},
			Module: "org.taskql.v2",
		}}
		return []ast.Node{c}
	},
	"policy": func() []ast.Node {
		return []ast.Node{
			ast.NewPermissionRule(
				ast.NewAtom("source", "==", ast.NewEntity("bob", "tt:username", "")),
				ast.NewSpecifiedPermission("com.example.mail", "list_messages",
					ast.NewAtom("folder", "==", ast.NewEnum("inbox"))),
				ast.PermissionBuiltin),
			ast.NewPermissionRule(ast.True, ast.PermissionBuiltin,
				ast.NewClassStarPermission("com.example.ac")),
			ast.NewPermissionRule(ast.True, ast.PermissionStar, ast.PermissionStar),
		}
	},
	"declaration": func() []ast.Node {
		prog := ast.NewProgram(nil,
			[]*ast.Declaration{ast.NewDeclaration("recent", ast.FunctionQuery,
				map[string]types.Type{"limit": types.Number},
				ast.NewSlicedTable(invTable("com.example.mail", "inbox"),
					ast.NewNumber(1), ast.NewVarRef("limit")))},
			[]ast.Statement{
				ast.NewAssignment("cached", ast.NewVarRefTable("recent",
					[]*ast.InputParam{ast.NewInputParam("limit", ast.NewNumber(10))})),
				ast.NewCommand(ast.NewVarRefTable("cached", nil), ast.NotifyAction()),
			})
		prog.Principal = ast.NewEntity("alice", "tt:username", "")
		return []ast.Node{prog}
	},
	"external": func() []ast.Node {
		return []ast.Node{
			ast.NewExternal(ast.NewDeviceSelector("com.example.weather"), "current",
				[]*ast.InputParam{ast.NewInputParam("location",
					ast.NewLocation(&ast.RelativeLocation{Tag: "home"}))},
				ast.NewAtom("temperature", ">=", ast.NewMeasure(25, "C"))),
			ast.NewComputeFilter(
				ast.NewAggregationScalar("count", "", prim(ast.NewVarRef("emails"))),
				">=", ast.NewNumber(5)),
			ast.NewDerivedScalar("/",
				ast.NewDerivedScalar("distance",
					prim(ast.NewVarRef("here")),
					prim(ast.NewLocation(&ast.RelativeLocation{Tag: "work"}))),
				prim(ast.NewNumber(2))),
		}
	},
}

func TestGoldens(t *testing.T) {
	test := tqtest.TxTarTest{Root: "testdata", Name: "format", Update: *update}
	test.Run(t, func(tc *tqtest.Test) {
		build, ok := goldenFixtures[tc.Rel]
		if !ok {
			tc.Fatalf("no fixture builds %s", tc.Rel)
		}
		for _, n := range build() {
			b, err := format.Node(n)
			if err != nil {
				tc.Fatal(err)
			}
			tc.Write(b)
			if len(b) == 0 || b[len(b)-1] != '\n' {
				tc.Write([]byte("\n"))
			}
		}
	})
}
