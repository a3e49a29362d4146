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
	"taskql.org/go/taskql/errors"
	"taskql.org/go/taskql/format"
)

func newPrintCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "print <manifest.json>...",
		Short: "print the classes of manifests as surface syntax",
		Long: `Print decodes each manifest and emits the class it describes
as a TaskQL class declaration.`,
		RunE: mkRunE(c, doPrint),
	}
	return cmd
}

func doPrint(cmd *Command, args []string) error {
	if len(args) == 0 {
		return errors.New("no manifest files given")
	}
	for _, path := range args {
		data, err := ioutil.ReadFile(path)
		if err != nil {
			return err
		}
		class, err := manifest.Unmarshal(data)
		if err != nil {
			return errors.Wrapf(err, nil, "%s", path)
		}
		out, err := format.Node(class)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
	}
	return nil
}
