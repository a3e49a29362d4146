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

package manifest_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskql.org/go/encoding/manifest"
	"taskql.org/go/taskql/ast"
	"taskql.org/go/taskql/types"
)

func arg(dir ast.Direction, name string, typ types.Type) *ast.ArgumentDef {
	return ast.NewArgumentDef(dir, name, typ, nil, nil)
}

// mailClass builds a class exercising every manifest field: loader and
// config mixins, inherited queries, an action, and discovery metadata.
func mailClass(t *testing.T) *ast.ClassDef {
	t.Helper()

	list := ast.NewFunctionDef(ast.FunctionQuery, "list_messages",
		[]*ast.ArgumentDef{
			arg(ast.InOpt, "folder", types.String),
			arg(ast.Out, "sender", types.Entity("tt:email_address")),
			arg(ast.Out, "text", types.String),
		},
		nil, true, true,
		map[string]interface{}{"canonical": "list messages", "confirmation": "your messages"},
		map[string]ast.Value{"poll_interval": ast.NewNumber(60000)},
	)
	unread := ast.NewFunctionDef(ast.FunctionQuery, "unread_messages",
		nil, []string{"list_messages"}, true, true, nil, nil)
	send := ast.NewFunctionDef(ast.FunctionAction, "send",
		[]*ast.ArgumentDef{
			arg(ast.InReq, "to", types.Entity("tt:email_address")),
			arg(ast.InReq, "subject", types.String),
			arg(ast.InOpt, "body", types.String),
		},
		nil, false, false, nil, nil)

	c, err := ast.NewClassDef("com.example.mail",
		[]*ast.FunctionDef{list, unread}, []*ast.FunctionDef{send})
	require.NoError(t, err)

	c.Extends = []string{"org.taskql.device"}
	c.Imports = []ast.ImportStmt{
		&ast.MixinImportStmt{Facets: []string{"loader"}, Module: "org.taskql.v2"},
		&ast.MixinImportStmt{
			Facets: []string{"config"},
			Module: "org.taskql.config.basic_auth",
			InParams: []*ast.InputParam{
				ast.NewInputParam("url", ast.NewString("https://mail.example.com")),
				ast.NewInputParam("username", ast.NewUndefined(true)),
				ast.NewInputParam("password", ast.NewUndefined(true)),
			},
		},
	}
	c.Impl = map[string]ast.Value{
		"version":         ast.NewNumber(3),
		"category":        ast.NewString("communication"),
		"child_types":     ast.NewArray(ast.NewString("com.example.mail.folder")),
		"bluetooth_uuids": ast.NewArray(ast.NewString("00001105-0000-1000-8000-00805F9B34FB")),
	}
	return c
}

func TestEncode(t *testing.T) {
	m, err := manifest.Encode(mailClass(t))
	require.NoError(t, err)

	assert.Equal(t, "org.taskql.v2", m.ModuleType)
	assert.Equal(t, "com.example.mail", m.Kind)
	assert.Equal(t, "basic_auth", m.Auth.Type)
	assert.Equal(t, map[string]interface{}{"url": "https://mail.example.com"}, m.Auth.Extra)
	assert.Equal(t, map[string]manifest.Param{
		"username": {Label: "Username", Type: "text"},
		"password": {Label: "Password", Type: "password"},
	}, m.Params)
	assert.Equal(t, 3, m.Version)
	assert.Equal(t, "communication", m.Category)
	assert.Equal(t, []string{"com.example.mail.folder"}, m.ChildTypes)
	assert.Equal(t, []string{
		"bluetooth-uuid-00001105-0000-1000-8000-00805f9b34fb",
		"org.taskql.device",
	}, m.Types)

	require.Contains(t, m.Queries, "list_messages")
	q := m.Queries["list_messages"]
	assert.True(t, q.IsList)
	assert.True(t, q.IsMonitorable)
	assert.Equal(t, "list messages", q.Canonical)
	assert.Equal(t, "your messages", q.Confirmation)
	assert.Equal(t, map[string]interface{}{"poll_interval": float64(60000)}, q.Annotations)
	if diff := cmp.Diff(map[string]manifest.Argument{
		"folder": {Type: "String", Direction: "in opt", IsInput: true},
		"sender": {Type: "Entity(tt:email_address)", Direction: "out"},
		"text":   {Type: "String", Direction: "out"},
	}, q.Args); diff != "" {
		t.Errorf("list_messages args mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, []string{"list_messages"}, m.Queries["unread_messages"].Extends)

	require.Contains(t, m.Actions, "send")
	a := m.Actions["send"]
	assert.Equal(t, "send", a.Canonical)
	assert.False(t, a.IsList)
	assert.Equal(t, "in req", a.Args["to"].Direction)
	assert.True(t, a.Args["to"].Required)
}

func TestEncodeFlattensCompound(t *testing.T) {
	point := types.Compound("",
		types.Field{Name: "x", Type: types.Number},
		types.Field{Name: "y", Type: types.Number},
	)
	locate := ast.NewFunctionDef(ast.FunctionQuery, "locate",
		[]*ast.ArgumentDef{arg(ast.Out, "position", point)},
		nil, false, false, nil, nil)
	c, err := ast.NewClassDef("com.example.gps", []*ast.FunctionDef{locate}, nil)
	require.NoError(t, err)

	m, err := manifest.Encode(c)
	require.NoError(t, err)

	args := m.Queries["locate"].Args
	assert.NotContains(t, args, "position")
	require.Contains(t, args, "position.x")
	require.Contains(t, args, "position.y")
	assert.Equal(t, "Number", args["position.x"].Type)
	assert.Equal(t, "out", args["position.x"].Direction)
}

const mailManifest = `{
	"module_type": "org.taskql.v2",
	"kind": "com.example.mail",
	"params": {"username": ["Username", "text"]},
	"auth": {"type": "basic_auth", "url": "https://mail.example.com"},
	"queries": {
		"inbox": {
			"args": {
				"sender": {"type": "EmailAddress", "direction": "out"},
				"text": {"type": "String", "is_input": false, "required": false},
				"query": {"type": "String", "is_input": true, "required": true}
			},
			"is_list": true,
			"is_monitorable": true
		}
	},
	"actions": {
		"send": {
			"args": {
				"to": {"type": "EmailAddress", "is_input": true, "required": true}
			},
			"is_list": false,
			"is_monitorable": false
		}
	},
	"version": 1,
	"types": ["org.taskql.device", "bluetooth-uuid-00001105-0000-1000-8000-00805f9b34fb"],
	"child_types": []
}`

func TestDecode(t *testing.T) {
	c, err := manifest.Unmarshal([]byte(mailManifest))
	require.NoError(t, err)

	assert.Equal(t, "com.example.mail", c.Kind)
	assert.Equal(t, []string{"org.taskql.device"}, c.Extends)

	inbox := c.Queries["inbox"]
	require.NotNil(t, inbox)
	assert.True(t, inbox.IsList)
	assert.True(t, inbox.IsMonitorable)

	sender := inbox.GetArgument("sender")
	require.NotNil(t, sender)
	assert.Equal(t, ast.Out, sender.Direction)
	assert.True(t, types.Equal(sender.Type, types.Entity("tt:email_address")))

	if got := inbox.GetArgument("text").Direction; got != ast.Out {
		t.Errorf("text direction = %v; want %v", got, ast.Out)
	}
	if got := inbox.GetArgument("query").Direction; got != ast.InReq {
		t.Errorf("query direction = %v; want %v", got, ast.InReq)
	}

	require.NotNil(t, c.Actions["send"])
	assert.Equal(t, ast.InReq, c.Actions["send"].GetArgument("to").Direction)

	require.Len(t, c.Imports, 2)
	loader, ok := c.Imports[0].(*ast.MixinImportStmt)
	require.True(t, ok)
	assert.Equal(t, []string{"loader"}, loader.Facets)
	assert.Equal(t, "org.taskql.v2", loader.Module)

	config, ok := c.Imports[1].(*ast.MixinImportStmt)
	require.True(t, ok)
	assert.Equal(t, "org.taskql.config.basic_auth", config.Module)
	require.Len(t, config.InParams, 2)
	assert.Equal(t, "url", config.InParams[0].Name)
	assert.Equal(t, ast.NewString("https://mail.example.com"), config.InParams[0].Value)
	assert.Equal(t, "username", config.InParams[1].Name)
	assert.Equal(t, ast.NewUndefined(true), config.InParams[1].Value)

	assert.Equal(t, ast.NewNumber(1), c.Impl["version"])
	assert.Equal(t,
		ast.NewArray(ast.NewString("00001105-0000-1000-8000-00805f9b34fb")),
		c.Impl["bluetooth_uuids"])
}

func TestRoundTrip(t *testing.T) {
	src := `{
		"module_type": "org.taskql.v2",
		"kind": "com.example.notes",
		"params": {},
		"auth": {"type": "none"},
		"queries": {
			"get_note": {
				"args": {
					"title": {"type": "String", "direction": "in req"},
					"body": {"type": "String", "direction": "out"}
				},
				"is_list": false,
				"is_monitorable": false
			}
		},
		"actions": {},
		"version": 2,
		"types": [],
		"child_types": []
	}`
	m, err := manifest.ParseJSON([]byte(src))
	require.NoError(t, err)
	c, err := manifest.Decode(m)
	require.NoError(t, err)
	got, err := manifest.Encode(c)
	require.NoError(t, err)

	if diff := cmp.Diff(argTypes(m.Queries), argTypes(got.Queries)); diff != "" {
		t.Errorf("queries changed across a round trip (-want +got):\n%s", diff)
	}
	assert.Equal(t, m.Auth.Type, got.Auth.Type)
	assert.Equal(t, m.Version, got.Version)
	assert.Equal(t, m.ModuleType, got.ModuleType)
}

// argTypes projects a function map down to argument names and types.
func argTypes(funcs map[string]manifest.Function) map[string]map[string]string {
	out := make(map[string]map[string]string, len(funcs))
	for name, f := range funcs {
		args := make(map[string]string, len(f.Args))
		for argName, a := range f.Args {
			args[argName] = a.Type
		}
		out[name] = args
	}
	return out
}

func TestDecodeErrors(t *testing.T) {
	testCases := []struct {
		name string
		in   string
	}{
		{"no kind", `{"module_type": "org.taskql.v2"}`},
		{"bad type", `{"kind": "com.example.x", "queries": {"q": {"args": {"a": {"type": "Frob"}}}}}`},
		{"bad direction", `{"kind": "com.example.x", "queries": {"q": {"args": {"a": {"type": "String", "direction": "sideways"}}}}}`},
		{"list action", `{"kind": "com.example.x", "actions": {"a": {"args": {}, "is_list": true}}}`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := manifest.Unmarshal([]byte(tc.in))
			assert.Error(t, err)
		})
	}
}

func TestParamJSON(t *testing.T) {
	data, err := json.Marshal(manifest.Param{Label: "API Key", Type: "password"})
	require.NoError(t, err)
	assert.JSONEq(t, `["API Key", "password"]`, string(data))

	var p manifest.Param
	require.NoError(t, json.Unmarshal([]byte(`["Account", "text"]`), &p))
	assert.Equal(t, manifest.Param{Label: "Account", Type: "text"}, p)

	assert.Error(t, json.Unmarshal([]byte(`["only-label"]`), &p))
}

func TestAuthJSON(t *testing.T) {
	data, err := json.Marshal(manifest.Auth{Type: "oauth2", Extra: map[string]interface{}{"client_id": "abc"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type": "oauth2", "client_id": "abc"}`, string(data))

	data, err = json.Marshal(manifest.Auth{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type": "none"}`, string(data))

	var a manifest.Auth
	require.NoError(t, json.Unmarshal([]byte(`{"type": "basic_auth", "url": "https://x.example.com"}`), &a))
	assert.Equal(t, "basic_auth", a.Type)
	assert.Equal(t, map[string]interface{}{"url": "https://x.example.com"}, a.Extra)
}

func TestYAML(t *testing.T) {
	m, err := manifest.Encode(mailClass(t))
	require.NoError(t, err)
	out, err := m.YAML()
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "kind: com.example.mail")
	assert.Contains(t, text, "module_type: org.taskql.v2")
	assert.Contains(t, text, "type: basic_auth")
}
