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
	"sort"
	"sync"

	"taskql.org/go/taskql/ast"
	"taskql.org/go/taskql/errors"
)

// A Registry is an in-memory Retriever over explicitly registered
// classes.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]*ast.ClassDef
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{classes: make(map[string]*ast.ClassDef)}
}

// Register adds the given classes, replacing any previous class of the
// same kind.
func (r *Registry) Register(classes ...*ast.ClassDef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range classes {
		r.classes[c.Kind] = c
	}
}

// GetClass reports the registered class of the given kind.
func (r *Registry) GetClass(ctx context.Context, kind string) (*ast.ClassDef, error) {
	r.mu.RLock()
	c, ok := r.classes[kind]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.NewfPath([]string{kind}, "class not registered")
	}
	return c, nil
}

// GetSchema implements the Retriever interface.
func (r *Registry) GetSchema(ctx context.Context, kind string, ftype ast.FunctionType, name string) (*ast.FunctionDef, error) {
	c, err := r.GetClass(ctx, kind)
	if err != nil {
		return nil, err
	}
	return schemaOf(c, kind, ftype, name)
}

// Kinds reports the registered kinds in sorted order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.classes))
	for kind := range r.classes {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}
