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

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"taskql.org/go/pkg/builtin"
	"taskql.org/go/taskql/ast"
	"taskql.org/go/taskql/errors"
	"taskql.org/go/taskql/format"
	"taskql.org/go/taskql/schema"
)

func newSchemaCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema <kind>.<function>",
		Short: "look up and print a function signature",
		Long: `schema resolves a function by its fully qualified name and prints
its signature in surface syntax.

The part after the last dot names the function; everything before it is
the class kind. Classes are loaded from <kind>.json manifests in the
directory given by --dir. Functions of the built-in class
org.taskql.builtin resolve without any directory lookup.
`,
		RunE: mkRunE(c, doSchema),
	}

	cmd.Flags().String(string(flagDir), ".", "directory of manifest files")

	return cmd
}

func doSchema(cmd *Command, args []string) error {
	if len(args) != 1 {
		return errors.New("schema takes exactly one function name")
	}

	i := strings.LastIndex(args[0], ".")
	if i <= 0 || i == len(args[0])-1 {
		return errors.Newf(nil, "invalid function name %q: want <kind>.<function>", args[0])
	}
	kind, name := args[0][:i], args[0][i+1:]

	reg := schema.NewRegistry()
	reg.Register(builtin.Class)
	r := schema.Chain(reg, schema.NewDir(flagDir.String(cmd)))

	f, err := lookupFunction(cmd, r, kind, name)
	if err != nil {
		return err
	}

	out, err := format.Node(f)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", out)
	return nil
}

// lookupFunction tries the name as a query first and falls back to an
// action. On a double miss the query error is reported, as queries are
// the common case.
func lookupFunction(cmd *Command, r schema.Retriever, kind, name string) (*ast.FunctionDef, error) {
	f, qerr := r.GetSchema(cmd.ctx, kind, ast.FunctionQuery, name)
	if qerr == nil {
		return f, nil
	}
	f, aerr := r.GetSchema(cmd.ctx, kind, ast.FunctionAction, name)
	if aerr == nil {
		return f, nil
	}
	return nil, qerr
}
