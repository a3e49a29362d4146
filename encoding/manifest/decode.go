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
	"sort"
	"strings"

	"taskql.org/go/taskql/ast"
	"taskql.org/go/taskql/errors"
	"taskql.org/go/taskql/types"
)

// Decode rebuilds a class from its manifest form. Functions and mixin
// parameters are reconstructed in sorted name order, so decoding the
// same manifest twice yields structurally identical classes.
func Decode(m *Manifest) (*ast.ClassDef, error) {
	if m.Kind == "" {
		return nil, errors.NewfPath(nil, "manifest has no kind")
	}

	var errs errors.Error
	queries := make([]*ast.FunctionDef, 0, len(m.Queries))
	for _, name := range functionNames(m.Queries) {
		f, err := decodeFunction(ast.FunctionQuery, m.Kind, name, m.Queries[name])
		if err != nil {
			errs = errors.Append(errs, errors.Promote(err, "invalid query"))
			continue
		}
		queries = append(queries, f)
	}
	actions := make([]*ast.FunctionDef, 0, len(m.Actions))
	for _, name := range functionNames(m.Actions) {
		f, err := decodeFunction(ast.FunctionAction, m.Kind, name, m.Actions[name])
		if err != nil {
			errs = errors.Append(errs, errors.Promote(err, "invalid action"))
			continue
		}
		actions = append(actions, f)
	}
	if errs != nil {
		return nil, errs
	}

	c, err := ast.NewClassDef(m.Kind, queries, actions)
	if err != nil {
		return nil, errors.Promote(err, "invalid manifest")
	}

	moduleType := m.ModuleType
	if moduleType == "" {
		moduleType = DefaultModuleType
	}
	c.Imports = append(c.Imports, &ast.MixinImportStmt{
		Facets: []string{"loader"},
		Module: moduleType,
	})
	cfg, err := decodeConfig(m)
	if err != nil {
		return nil, err
	}
	c.Imports = append(c.Imports, cfg)

	impl := make(map[string]ast.Value)
	var uuids []ast.Value
	for _, t := range m.Types {
		if strings.HasPrefix(t, bluetoothTypePrefix) {
			uuids = append(uuids, ast.NewString(strings.TrimPrefix(t, bluetoothTypePrefix)))
			continue
		}
		c.Extends = append(c.Extends, t)
	}
	if len(uuids) > 0 {
		impl["bluetooth_uuids"] = ast.NewArray(uuids...)
	}
	if len(m.ChildTypes) > 0 {
		kinds := make([]ast.Value, len(m.ChildTypes))
		for i, k := range m.ChildTypes {
			kinds[i] = ast.NewString(k)
		}
		impl["child_types"] = ast.NewArray(kinds...)
	}
	if m.Version != 0 {
		impl["version"] = ast.NewNumber(float64(m.Version))
	}
	if m.Category != "" {
		impl["category"] = ast.NewString(m.Category)
	}
	if len(impl) > 0 {
		c.Impl = impl
	}
	return c, nil
}

// decodeConfig rebuilds the config mixin import from the auth and
// params fields. Auth extras become constant mixin parameters and
// user-visible params become undefined ones.
func decodeConfig(m *Manifest) (*ast.MixinImportStmt, error) {
	module := configModulePrefix + "none"
	moduleFromExtra := false
	switch typ := m.Auth.Type; {
	case typ == "" || typ == "none":
	case typ == "custom":
		if s, ok := m.Auth.Extra["module"].(string); ok {
			module = s
			moduleFromExtra = true
		} else {
			module = configModulePrefix + "custom"
		}
	default:
		module = configModulePrefix + typ
	}

	var params []*ast.InputParam
	for _, k := range extraKeys(m.Auth.Extra) {
		if k == "module" && moduleFromExtra {
			continue
		}
		v, err := valueFromJSON(m.Auth.Extra[k])
		if err != nil {
			return nil, errors.NewfPath([]string{m.Kind, k}, "invalid auth field: %v", err)
		}
		params = append(params, ast.NewInputParam(k, v))
	}
	for _, name := range paramNames(m.Params) {
		params = append(params, ast.NewInputParam(name, ast.NewUndefined(true)))
	}
	return &ast.MixinImportStmt{
		Facets:   []string{"config"},
		Module:   module,
		InParams: params,
	}, nil
}

func decodeFunction(ftype ast.FunctionType, kind, name string, f Function) (*ast.FunctionDef, error) {
	if ftype == ast.FunctionAction && (f.IsList || f.IsMonitorable) {
		return nil, errors.NewfPath([]string{kind, name}, "an action cannot be a list or monitorable")
	}

	args := make([]*ast.ArgumentDef, 0, len(f.Args))
	for _, argName := range argumentNames(f.Args) {
		a := f.Args[argName]
		typ, err := types.Parse(a.Type)
		if err != nil {
			return nil, errors.NewfPath([]string{kind, name, argName}, "%v", err)
		}
		dir, err := argDirection(a)
		if err != nil {
			return nil, errors.NewfPath([]string{kind, name, argName}, "%v", err)
		}
		impl, err := implAnnotations(a.Annotations, kind, name, argName)
		if err != nil {
			return nil, err
		}
		args = append(args, ast.NewArgumentDef(dir, argName, typ, copyMetadata(a.Metadata), impl))
	}

	nl := copyMetadata(f.Metadata)
	if f.Canonical != "" || f.Confirmation != "" {
		if nl == nil {
			nl = make(map[string]interface{}, 2)
		}
		if f.Canonical != "" {
			nl["canonical"] = f.Canonical
		}
		if f.Confirmation != "" {
			nl["confirmation"] = f.Confirmation
		}
	}
	impl, err := implAnnotations(f.Annotations, kind, name)
	if err != nil {
		return nil, err
	}
	return ast.NewFunctionDef(ftype, name, args, f.Extends, f.IsList, f.IsMonitorable, nl, impl), nil
}

// argDirection resolves the direction of a manifest argument. The
// explicit direction string wins; absent one, the required and
// is_input booleans written by older producers decide.
func argDirection(a Argument) (ast.Direction, error) {
	switch a.Direction {
	case "in req":
		return ast.InReq, nil
	case "in opt":
		return ast.InOpt, nil
	case "out":
		return ast.Out, nil
	case "":
	default:
		return ast.NoDirection, errors.NewfPath(nil, "invalid direction %q", a.Direction)
	}
	switch {
	case a.Required:
		return ast.InReq, nil
	case a.IsInput:
		return ast.InOpt, nil
	default:
		return ast.Out, nil
	}
}

// valueFromJSON converts a JSON-decoded value into the equivalent
// constant.
func valueFromJSON(v interface{}) (ast.Value, error) {
	switch x := v.(type) {
	case nil:
		return ast.NewNull(), nil
	case bool:
		return ast.NewBoolean(x), nil
	case float64:
		return ast.NewNumber(x), nil
	case string:
		return ast.NewString(x), nil
	case []interface{}:
		vals := make([]ast.Value, len(x))
		for i, e := range x {
			ev, err := valueFromJSON(e)
			if err != nil {
				return nil, err
			}
			vals[i] = ev
		}
		return ast.NewArray(vals...), nil
	case map[string]interface{}:
		fields := make(map[string]ast.Value, len(x))
		for k, e := range x {
			ev, err := valueFromJSON(e)
			if err != nil {
				return nil, err
			}
			fields[k] = ev
		}
		return ast.NewObject(fields), nil
	default:
		return nil, errors.NewfPath(nil, "cannot convert %T to a value", v)
	}
}

func implAnnotations(ann map[string]interface{}, path ...string) (map[string]ast.Value, error) {
	if len(ann) == 0 {
		return nil, nil
	}
	out := make(map[string]ast.Value, len(ann))
	for k, v := range ann {
		val, err := valueFromJSON(v)
		if err != nil {
			return nil, errors.NewfPath(append(path, k), "invalid annotation: %v", err)
		}
		out[k] = val
	}
	return out, nil
}

func copyMetadata(m map[string]interface{}) map[string]interface{} {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func functionNames(m map[string]Function) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func argumentNames(m map[string]Argument) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func paramNames(m map[string]Param) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func extraKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
