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

// Package manifest converts device classes to and from the legacy JSON
// manifest format used by device directories.
//
// A manifest flattens a class into one JSON object: the loader and
// config imports become the module_type, params and auth fields, each
// query and action becomes a map from argument name to its type,
// direction and annotations, and class-level discovery metadata
// (parent kinds, bluetooth UUIDs) is folded into the types list.
// Class annotations that have no manifest field are not carried.
//
// The format is an interchange contract with deployed directories and
// must not change shape. Decoding accepts both the explicit direction
// string written by this package and the is_input/required booleans
// older producers emit.
package manifest

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"taskql.org/go/taskql/ast"
	"taskql.org/go/taskql/errors"
)

// A Manifest is the legacy JSON form of a single device class.
type Manifest struct {
	ModuleType string              `json:"module_type"`
	Kind       string              `json:"kind"`
	Params     map[string]Param    `json:"params"`
	Auth       Auth                `json:"auth"`
	Queries    map[string]Function `json:"queries"`
	Actions    map[string]Function `json:"actions"`
	Version    int                 `json:"version"`
	Types      []string            `json:"types"`
	ChildTypes []string            `json:"child_types"`
	Category   string              `json:"category,omitempty"`
}

// A Param is one user-visible configuration parameter of a device. The
// legacy encoding is a two-element array of display label and HTML
// input type.
type Param struct {
	Label string
	Type  string
}

// MarshalJSON implements json.Marshaler.
func (p Param) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{p.Label, p.Type})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Param) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return errors.NewfPath(nil, "invalid param: want [label, type], got %d elements", len(pair))
	}
	p.Label, p.Type = pair[0], pair[1]
	return nil
}

// Auth describes how a device authenticates. Type names the mechanism
// ("none", "basic_auth", "oauth2", ...); every other key of the legacy
// object is kept verbatim in Extra.
type Auth struct {
	Type  string
	Extra map[string]interface{}
}

// MarshalJSON implements json.Marshaler.
func (a Auth) MarshalJSON() ([]byte, error) {
	obj := make(map[string]interface{}, len(a.Extra)+1)
	for k, v := range a.Extra {
		obj[k] = v
	}
	typ := a.Type
	if typ == "" {
		typ = "none"
	}
	obj["type"] = typ
	return json.Marshal(obj)
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Auth) UnmarshalJSON(data []byte) error {
	var obj map[string]interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	a.Type, _ = obj["type"].(string)
	delete(obj, "type")
	a.Extra = nil
	if len(obj) > 0 {
		a.Extra = obj
	}
	return nil
}

// A Function is the manifest form of one query or action.
type Function struct {
	Args          map[string]Argument    `json:"args"`
	Canonical     string                 `json:"canonical,omitempty"`
	Confirmation  string                 `json:"confirmation,omitempty"`
	IsList        bool                   `json:"is_list"`
	IsMonitorable bool                   `json:"is_monitorable"`
	Extends       []string               `json:"extends,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
	Annotations   map[string]interface{} `json:"annotations,omitempty"`
}

// An Argument is the manifest form of one function argument. Direction
// holds the printed direction ("in req", "in opt", "out"); IsInput and
// Required repeat the same information in the boolean form older
// consumers read.
type Argument struct {
	Type        string                 `json:"type"`
	Direction   string                 `json:"direction,omitempty"`
	IsInput     bool                   `json:"is_input"`
	Required    bool                   `json:"required"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	Annotations map[string]interface{} `json:"annotations,omitempty"`
}

// JSON encodes the manifest as indented JSON, the form manifests are
// stored in on disk.
func (m *Manifest) JSON() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

// YAML re-encodes the manifest as YAML. The manifest is passed through
// its JSON form first so that the custom encodings of params and auth
// apply.
func (m *Manifest) YAML() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	return yaml.Marshal(obj)
}

// ParseJSON decodes a manifest from its JSON form.
func ParseJSON(data []byte) (*Manifest, error) {
	m := &Manifest{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, errors.Promote(err, "invalid manifest")
	}
	return m, nil
}

// Marshal encodes a class straight to manifest JSON.
func Marshal(c *ast.ClassDef) ([]byte, error) {
	m, err := Encode(c)
	if err != nil {
		return nil, err
	}
	return m.JSON()
}

// Unmarshal decodes manifest JSON straight into a class.
func Unmarshal(data []byte) (*ast.ClassDef, error) {
	m, err := ParseJSON(data)
	if err != nil {
		return nil, err
	}
	return Decode(m)
}
