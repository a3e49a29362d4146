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

package manifest

import (
	"strings"

	"github.com/mpvl/unique"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"taskql.org/go/taskql/ast"
	"taskql.org/go/taskql/errors"
	"taskql.org/go/taskql/types"
)

// DefaultModuleType is the loader module assumed when a class declares
// no loader import.
const DefaultModuleType = "org.taskql.v2"

// configModulePrefix is the namespace of the config mixin modules. The
// auth type of a manifest is the module name with this prefix removed.
const configModulePrefix = "org.taskql.config."

// bluetoothTypePrefix marks the types-list entries that encode
// bluetooth discovery UUIDs rather than parent kinds.
const bluetoothTypePrefix = "bluetooth-uuid-"

// Encode converts a class into its manifest form.
//
// The conversion is lossy where the legacy format has no room: mixin
// parameter order is not preserved, compound arguments are represented
// only through their flattened dotted fields, and class annotations
// without a manifest field are dropped.
func Encode(c *ast.ClassDef) (*Manifest, error) {
	m := &Manifest{
		ModuleType: DefaultModuleType,
		Kind:       c.Kind,
		Params:     make(map[string]Param),
		Auth:       Auth{Type: "none"},
		Queries:    make(map[string]Function, len(c.Queries)),
		Actions:    make(map[string]Function, len(c.Actions)),
		Types:      []string{},
		ChildTypes: []string{},
	}

	for _, imp := range c.Imports {
		mix, ok := imp.(*ast.MixinImportStmt)
		if !ok {
			// Class imports have no manifest form.
			continue
		}
		for _, facet := range mix.Facets {
			switch facet {
			case "loader":
				m.ModuleType = mix.Module
			case "config":
				if err := encodeConfig(m, mix); err != nil {
					return nil, err
				}
			}
		}
	}

	for _, name := range c.QueryNames() {
		f, err := encodeFunction(c.Queries[name])
		if err != nil {
			return nil, err
		}
		m.Queries[name] = f
	}
	for _, name := range c.ActionNames() {
		f, err := encodeFunction(c.Actions[name])
		if err != nil {
			return nil, err
		}
		m.Actions[name] = f
	}

	if v, ok := c.Impl["version"].(*ast.NumberValue); ok {
		m.Version = int(v.Value)
	}
	if v, ok := c.Impl["category"].(*ast.StringValue); ok {
		m.Category = v.Value
	}
	m.ChildTypes = append(m.ChildTypes, stringList(c.Impl["child_types"])...)

	m.Types = append(m.Types, c.Extends...)
	for _, uuid := range stringList(c.Impl["bluetooth_uuids"]) {
		m.Types = append(m.Types, bluetoothTypePrefix+strings.ToLower(uuid))
	}
	unique.Sort(unique.StringSlice{P: &m.Types})

	return m, nil
}

// encodeConfig folds a config mixin into the auth and params fields.
// Parameters left undefined by the class become user-visible params;
// constant parameters travel in the auth object.
func encodeConfig(m *Manifest, mix *ast.MixinImportStmt) error {
	if strings.HasPrefix(mix.Module, configModulePrefix) {
		m.Auth.Type = strings.TrimPrefix(mix.Module, configModulePrefix)
	} else {
		m.Auth.Type = "custom"
		setAuthExtra(&m.Auth, "module", mix.Module)
	}
	for _, p := range mix.InParams {
		if _, ok := p.Value.(*ast.UndefinedValue); ok {
			m.Params[p.Name] = Param{Label: displayLabel(p.Name), Type: htmlInputType(p.Name)}
			continue
		}
		n, err := p.Value.ToNative()
		if err != nil {
			return errors.NewfPath([]string{m.Kind, p.Name}, "cannot serialize config parameter: %v", err)
		}
		setAuthExtra(&m.Auth, p.Name, n)
	}
	return nil
}

func setAuthExtra(a *Auth, key string, value interface{}) {
	if a.Extra == nil {
		a.Extra = make(map[string]interface{})
	}
	a.Extra[key] = value
}

func encodeFunction(f *ast.FunctionDef) (Function, error) {
	out := Function{
		Args:          make(map[string]Argument, len(f.Arguments())),
		Canonical:     f.Canonical(),
		Confirmation:  f.Confirmation(),
		IsList:        f.IsList,
		IsMonitorable: f.IsMonitorable,
	}
	if len(f.Extends) > 0 {
		out.Extends = append([]string(nil), f.Extends...)
	}
	out.Metadata = metadataExcept(f.NL, "canonical", "confirmation")
	ann, err := nativeAnnotations(f.Impl, f.QualifiedName())
	if err != nil {
		return Function{}, err
	}
	out.Annotations = ann

	for _, a := range f.Arguments() {
		if isCompound(a.Type) {
			// Only the flattened dotted fields are interchanged.
			continue
		}
		impl, err := nativeAnnotations(a.Impl, f.QualifiedName(), a.Name)
		if err != nil {
			return Function{}, err
		}
		out.Args[a.Name] = Argument{
			Type:        a.Type.String(),
			Direction:   a.Direction.String(),
			IsInput:     a.IsInput(),
			Required:    a.Required(),
			Metadata:    metadataExcept(a.NL),
			Annotations: impl,
		}
	}
	return out, nil
}

// isCompound reports whether t is a compound type or an array of one.
// Such types have no manifest string form.
func isCompound(t types.Type) bool {
	if at, ok := t.(*types.ArrayType); ok {
		t = at.Elem
	}
	_, ok := t.(*types.CompoundType)
	return ok
}

// nativeAnnotations converts implementation annotations to their plain
// JSON-encodable values.
func nativeAnnotations(impl map[string]ast.Value, path ...string) (map[string]interface{}, error) {
	if len(impl) == 0 {
		return nil, nil
	}
	out := make(map[string]interface{}, len(impl))
	for k, v := range impl {
		n, err := v.ToNative()
		if err != nil {
			return nil, errors.NewfPath(append(path, k), "cannot serialize annotation: %v", err)
		}
		out[k] = n
	}
	return out, nil
}

// metadataExcept copies a natural-language annotation map, dropping the
// named keys.
func metadataExcept(nl map[string]interface{}, except ...string) map[string]interface{} {
	var out map[string]interface{}
	for k, v := range nl {
		skip := false
		for _, e := range except {
			if k == e {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		if out == nil {
			out = make(map[string]interface{})
		}
		out[k] = v
	}
	return out
}

// stringList extracts a list of strings from an annotation value. A
// single string counts as a one-element list.
func stringList(v ast.Value) []string {
	switch x := v.(type) {
	case *ast.StringValue:
		return []string{x.Value}
	case *ast.ArrayValue:
		out := make([]string, 0, len(x.Values))
		for _, e := range x.Values {
			s, ok := e.(*ast.StringValue)
			if !ok {
				return nil
			}
			out = append(out, s.Value)
		}
		return out
	default:
		return nil
	}
}

// displayLabel derives the user-visible label of a config parameter
// from its name.
func displayLabel(name string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

// htmlInputType picks the HTML input type a configuration dialog should
// use for the named parameter.
func htmlInputType(name string) string {
	switch {
	case strings.Contains(name, "password"):
		return "password"
	case strings.Contains(name, "url"):
		return "url"
	case strings.Contains(name, "email"):
		return "email"
	default:
		return "text"
	}
}
