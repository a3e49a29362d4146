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
	"bytes"
	"fmt"
	"io/ioutil"

	"github.com/spf13/cobra"

	"taskql.org/go/encoding/manifest"
	"taskql.org/go/taskql/errors"
)

func newConvertCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <manifest.json>",
		Short: "re-encode a manifest as JSON or YAML",
		Long: `Convert reads a manifest and writes it back in normalized form:
indented JSON with sorted keys, or YAML with --out yaml.`,
		RunE: mkRunE(c, doConvert),
	}
	flagMedia.Add(cmd)
	return cmd
}

func doConvert(cmd *Command, args []string) error {
	if len(args) != 1 {
		return errors.New("convert takes exactly one manifest")
	}
	data, err := ioutil.ReadFile(args[0])
	if err != nil {
		return err
	}
	m, err := manifest.ParseJSON(data)
	if err != nil {
		return errors.Wrapf(err, nil, "%s", args[0])
	}

	var out []byte
	switch media := flagMedia.String(cmd); media {
	case "json":
		out, err = m.JSON()
	case "yaml":
		out, err = m.YAML()
	default:
		return errors.Newf(nil, "unsupported output format %q", media)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", bytes.TrimRight(out, "\n"))
	return nil
}
