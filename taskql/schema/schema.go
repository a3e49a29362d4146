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

// Package schema resolves the function signatures invocations refer to.
//
// A type checker walks a program and, for every invocation, asks a
// Retriever for the signature of the named channel. Resolution may
// require I/O against a device directory, so retrieval is bounded by a
// context. The retrievers in this package serve from memory
// (Registry) or from a directory of manifest files (Dir); both are
// safe for concurrent use.
//
// Retrieved definitions are shared: callers must treat them as
// read-only and Clone before modifying.
package schema

import (
	"context"

	"taskql.org/go/taskql/ast"
	"taskql.org/go/taskql/errors"
)

// A Retriever resolves one channel of a device class to its function
// definition. A stream lookup resolves against the class's queries,
// matching how monitors are compiled.
type Retriever interface {
	GetSchema(ctx context.Context, kind string, ftype ast.FunctionType, name string) (*ast.FunctionDef, error)
}

// RetrieverFunc adapts a function to a Retriever.
type RetrieverFunc func(ctx context.Context, kind string, ftype ast.FunctionType, name string) (*ast.FunctionDef, error)

// GetSchema implements the Retriever interface.
func (f RetrieverFunc) GetSchema(ctx context.Context, kind string, ftype ast.FunctionType, name string) (*ast.FunctionDef, error) {
	return f(ctx, kind, ftype, name)
}

// Chain returns a Retriever that asks each given retriever in turn and
// reports the first definition found. If none succeeds the errors are
// combined.
func Chain(retrievers ...Retriever) Retriever {
	return RetrieverFunc(func(ctx context.Context, kind string, ftype ast.FunctionType, name string) (*ast.FunctionDef, error) {
		var errs errors.Error
		for _, r := range retrievers {
			f, err := r.GetSchema(ctx, kind, ftype, name)
			if err == nil {
				return f, nil
			}
			errs = errors.Append(errs, errors.Promote(err, "schema lookup"))
		}
		if errs == nil {
			errs = errors.NewfPath([]string{kind, name}, "no retriever configured")
		}
		return nil, errs
	})
}

// schemaOf resolves a function within an already loaded class.
func schemaOf(c *ast.ClassDef, kind string, ftype ast.FunctionType, name string) (*ast.FunctionDef, error) {
	f := c.GetFunction(ftype, name)
	if f == nil {
		return nil, errors.NewfPath([]string{kind}, "no %s %q in class", ftype, name)
	}
	return f, nil
}
