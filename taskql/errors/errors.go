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

// Package errors defines shared types for handling TaskQL errors.
//
// An Error is an ordinary Go error that additionally carries the source
// range of the tree node it concerns, when one is known. Errors of this
// package are the user-facing error class: malformed manifests, unresolved
// units, cyclic inheritance, failed schema lookups. Programmer errors, such
// as constructing an operator from the wrong node family, panic instead and
// are not represented here.
package errors

import (
	"fmt"
	"io"
	"sort"

	"golang.org/x/xerrors"

	"taskql.org/go/taskql/token"
)

// New is a convenience wrapper for errors.New in the core library. It does
// not carry a position.
func New(msg string) error {
	return xerrors.New(msg)
}

// An Error carries a message and the source range it applies to.
type Error interface {
	error

	// Range reports the source range of the offending node, or nil.
	Range() *token.SourceRange

	// Path reports the path into the structure where the error occurred,
	// such as the class kind and function name for a signature error. It
	// may be empty.
	Path() []string

	// Msg returns the unformatted error message and its arguments.
	Msg() (format string, args []interface{})
}

// Newf creates an Error for the given source range.
func Newf(r *token.SourceRange, format string, args ...interface{}) Error {
	return &posError{
		srcRange: r,
		format:   format,
		args:     args,
	}
}

// NewfPath creates an Error with a structural path and no source range.
// It is used for errors in position-less inputs such as JSON manifests.
func NewfPath(path []string, format string, args ...interface{}) Error {
	return &posError{
		path:   path,
		format: format,
		args:   args,
	}
}

// Wrapf creates an Error for the given source range that wraps err.
func Wrapf(err error, r *token.SourceRange, format string, args ...interface{}) Error {
	return &posError{
		srcRange: r,
		format:   format,
		args:     args,
		err:      err,
	}
}

// Promote converts a regular Go error to an Error with no position, using
// msg as a prefix. If err is already an Error it is returned as is.
func Promote(err error, msg string) Error {
	switch x := err.(type) {
	case Error:
		return x
	default:
		return &posError{format: "%s", args: []interface{}{msg}, err: err}
	}
}

type posError struct {
	srcRange *token.SourceRange
	path     []string
	format   string
	args     []interface{}
	err      error // wrapped error, if any
}

func (e *posError) Range() *token.SourceRange { return e.srcRange }
func (e *posError) Path() []string            { return e.path }

func (e *posError) Msg() (string, []interface{}) { return e.format, e.args }

func (e *posError) Error() string {
	msg := fmt.Sprintf(e.format, e.args...)
	if len(e.path) > 0 {
		msg = pathString(e.path) + ": " + msg
	}
	switch {
	case e.err == nil:
		return msg
	case msg == "":
		return e.err.Error()
	default:
		return msg + ": " + e.err.Error()
	}
}

func (e *posError) Unwrap() error { return e.err }

func pathString(path []string) string {
	s := ""
	for i, p := range path {
		if i > 0 {
			s += "."
		}
		s += p
	}
	return s
}

// Append combines two errors, flattening lists as needed. Either argument
// may be nil.
func Append(a, b Error) Error {
	switch x := a.(type) {
	case nil:
		return b
	case list:
		return appendToList(x, b)
	default:
		return appendToList(list{x}, b)
	}
}

// Errors extracts the individual errors held by err. A nil error yields
// nil; an error that is not a list yields a single-element slice.
func Errors(err error) []Error {
	if err == nil {
		return nil
	}
	if l, ok := err.(list); ok {
		return l
	}
	return []Error{Promote(err, "")}
}

func appendToList(a list, err Error) list {
	switch x := err.(type) {
	case nil:
		return a
	case list:
		if len(a) == 0 {
			return x
		}
		return append(a, x...)
	default:
		return append(a, x)
	}
}

// list is a sortable collection of errors that itself implements Error.
type list []Error

func (l list) Range() *token.SourceRange {
	if len(l) == 0 {
		return nil
	}
	return l[0].Range()
}

func (l list) Path() []string {
	if len(l) == 0 {
		return nil
	}
	return l[0].Path()
}

func (l list) Msg() (string, []interface{}) {
	if len(l) == 0 {
		return "", nil
	}
	return l[0].Msg()
}

func (l list) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more errors)", l[0].Error(), len(l)-1)
	}
}

// Sort orders the list by source position, then by path.
func (l list) Sort() {
	sort.Sort(l)
}

func (l list) Len() int      { return len(l) }
func (l list) Swap(i, j int) { l[i], l[j] = l[j], l[i] }
func (l list) Less(i, j int) bool {
	pi, pj := l[i].Range().Pos(), l[j].Range().Pos()
	if pi != pj {
		return pi.Before(pj)
	}
	return pathString(l[i].Path()) < pathString(l[j].Path())
}

// Print writes a human-readable listing of all errors in err to w, one per
// line, with positions where available.
func Print(w io.Writer, err error) {
	for _, e := range Errors(err) {
		if r := e.Range(); r != nil {
			fmt.Fprintf(w, "%s: %v\n", e.Error(), r)
		} else {
			fmt.Fprintf(w, "%s\n", e.Error())
		}
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return xerrors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool { return xerrors.As(err, target) }
