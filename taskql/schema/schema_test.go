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

package schema_test

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kr/pretty"

	"taskql.org/go/encoding/manifest"
	"taskql.org/go/taskql/ast"
	"taskql.org/go/taskql/schema"
	"taskql.org/go/taskql/types"
)

func mailClass(t *testing.T) *ast.ClassDef {
	t.Helper()
	inbox := ast.NewFunctionDef(ast.FunctionQuery, "inbox",
		[]*ast.ArgumentDef{
			ast.NewArgumentDef(ast.Out, "sender", types.Entity("tt:email_address"), nil, nil),
			ast.NewArgumentDef(ast.Out, "text", types.String, nil, nil),
		}, nil, true, true, nil, nil)
	send := ast.NewFunctionDef(ast.FunctionAction, "send",
		[]*ast.ArgumentDef{
			ast.NewArgumentDef(ast.InReq, "to", types.Entity("tt:email_address"), nil, nil),
		}, nil, false, false, nil, nil)
	c, err := ast.NewClassDef("com.example.mail",
		[]*ast.FunctionDef{inbox}, []*ast.FunctionDef{send})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestRegistry(t *testing.T) {
	reg := schema.NewRegistry()
	reg.Register(mailClass(t))
	ctx := context.Background()

	f, err := reg.GetSchema(ctx, "com.example.mail", ast.FunctionQuery, "inbox")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"sender", "text"}
	if diff := pretty.Diff(want, f.ArgumentNames()); len(diff) > 0 {
		t.Errorf("inbox arguments differ:\n%s", strings.Join(diff, "\n"))
	}

	// Streams resolve against the queries.
	g, err := reg.GetSchema(ctx, "com.example.mail", ast.FunctionStream, "inbox")
	if err != nil {
		t.Fatal(err)
	}
	if g != f {
		t.Error("stream lookup did not resolve to the query definition")
	}

	if _, err := reg.GetSchema(ctx, "com.example.mail", ast.FunctionAction, "inbox"); err == nil {
		t.Error("action lookup of a query name succeeded")
	}
	if _, err := reg.GetSchema(ctx, "com.example.tv", ast.FunctionQuery, "inbox"); err == nil {
		t.Error("lookup of an unregistered kind succeeded")
	}

	if diff := pretty.Diff([]string{"com.example.mail"}, reg.Kinds()); len(diff) > 0 {
		t.Errorf("kinds differ:\n%s", strings.Join(diff, "\n"))
	}
}

func TestDir(t *testing.T) {
	dir, err := ioutil.TempDir("", "schema")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	data, err := manifest.Marshal(mailClass(t))
	if err != nil {
		t.Fatal(err)
	}
	if err := ioutil.WriteFile(filepath.Join(dir, "com.example.mail.json"), data, 0666); err != nil {
		t.Fatal(err)
	}

	d := schema.NewDir(dir)
	ctx := context.Background()

	c1, err := d.GetClass(ctx, "com.example.mail")
	if err != nil {
		t.Fatal(err)
	}
	c2, err := d.GetClass(ctx, "com.example.mail")
	if err != nil {
		t.Fatal(err)
	}
	if c1 != c2 {
		t.Error("second lookup bypassed the cache")
	}

	f, err := d.GetSchema(ctx, "com.example.mail", ast.FunctionAction, "send")
	if err != nil {
		t.Fatal(err)
	}
	if diff := pretty.Diff([]string{"to"}, f.ArgumentNames()); len(diff) > 0 {
		t.Errorf("send arguments differ:\n%s", strings.Join(diff, "\n"))
	}

	if _, err := d.GetClass(ctx, "com.example.missing"); err == nil {
		t.Error("lookup of a missing manifest succeeded")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := d.GetClass(cancelled, "com.example.mail"); err == nil {
		t.Error("lookup with a cancelled context succeeded")
	}
}

func TestChain(t *testing.T) {
	reg := schema.NewRegistry()
	reg.Register(mailClass(t))
	miss := schema.RetrieverFunc(func(ctx context.Context, kind string, ftype ast.FunctionType, name string) (*ast.FunctionDef, error) {
		return nil, fmt.Errorf("no class %q", kind)
	})

	chain := schema.Chain(miss, reg)
	f, err := chain.GetSchema(context.Background(), "com.example.mail", ast.FunctionQuery, "inbox")
	if err != nil {
		t.Fatal(err)
	}
	if f.Name != "inbox" {
		t.Errorf("resolved %q; want inbox", f.Name)
	}

	if _, err := chain.GetSchema(context.Background(), "com.example.tv", ast.FunctionQuery, "channel"); err == nil {
		t.Error("chain succeeded although every retriever missed")
	}
}
