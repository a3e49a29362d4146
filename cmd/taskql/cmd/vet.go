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
	"io/ioutil"

	"github.com/spf13/cobra"

	"taskql.org/go/encoding/manifest"
	"taskql.org/go/taskql/ast"
	"taskql.org/go/taskql/errors"
)

func newVetCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vet <manifest.json>...",
		Short: "check manifests for errors",
		Long: `vet decodes each manifest and reports everything that would keep a
device directory from serving it: unparseable types, invalid argument
directions, and actions declared as lists or monitorable.

vet continues with the remaining files after an error and exits
non-zero if any manifest failed.
`,
		RunE: mkRunE(c, doVet),
	}
	return cmd
}

func doVet(cmd *Command, args []string) error {
	if len(args) == 0 {
		return errors.New("no manifest files given")
	}

	for _, path := range args {
		data, err := ioutil.ReadFile(path)
		if err != nil {
			exitOnErr(cmd, err, false)
			continue
		}

		var class *ast.ClassDef
		m, err := manifest.ParseJSON(data)
		if err == nil {
			class, err = manifest.Decode(m)
		}
		if err != nil {
			exitOnErr(cmd, errors.Wrapf(err, nil, "%s", path), false)
			continue
		}

		if flagVerbose.Bool(cmd) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d queries, %d actions\n",
				path, len(class.Queries), len(class.Actions))
		}
	}
	return nil
}
