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

package schema

import (
	"context"
	"io/ioutil"
	"path/filepath"
	"sync"

	"taskql.org/go/encoding/manifest"
	"taskql.org/go/taskql/ast"
	"taskql.org/go/taskql/errors"
)

// A Dir is a Retriever backed by a directory of manifest files. The
// class of kind k is read from <root>/k.json on first use and cached
// for the life of the Dir.
type Dir struct {
	root string

	mu      sync.Mutex
	classes map[string]*ast.ClassDef
}

// NewDir returns a retriever reading manifests below root.
func NewDir(root string) *Dir {
	return &Dir{root: root, classes: make(map[string]*ast.ClassDef)}
}

// GetClass loads the class of the given kind.
func (d *Dir) GetClass(ctx context.Context, kind string) (*ast.ClassDef, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Promote(err, "schema lookup")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if c, ok := d.classes[kind]; ok {
		return c, nil
	}

	data, err := ioutil.ReadFile(filepath.Join(d.root, kind+".json"))
	if err != nil {
		return nil, errors.Wrapf(err, nil, "no class %q", kind)
	}
	c, err := manifest.Unmarshal(data)
	if err != nil {
		return nil, errors.Wrapf(err, nil, "class %q", kind)
	}
	if c.Kind != kind {
		return nil, errors.NewfPath([]string{kind}, "manifest declares kind %q", c.Kind)
	}
	d.classes[kind] = c
	return c, nil
}

// GetSchema implements the Retriever interface.
func (d *Dir) GetSchema(ctx context.Context, kind string, ftype ast.FunctionType, name string) (*ast.FunctionDef, error) {
	c, err := d.GetClass(ctx, kind)
	if err != nil {
		return nil, err
	}
	return schemaOf(c, kind, ftype, name)
}
