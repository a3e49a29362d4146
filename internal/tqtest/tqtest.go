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

// Package tqtest runs tests defined in txtar archives.
//
// A test archive holds named input sections consumed by the test
// function and one golden output section per test name. The test
// function writes its result to the Test, which is compared against
// the out/<name> section of the archive. Running the tests with the
// -update flag set rewrites the archives with the new output instead
// of failing.
package tqtest

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kylelemons/godebug/diff"
	"github.com/rogpeppe/go-internal/txtar"
)

// A TxTarTest drives a test function over all txtar archives below a
// root directory.
type TxTarTest struct {
	// Root is the directory to walk for .txtar files.
	Root string

	// Name identifies this test: output is compared against the
	// out/<Name> section of each archive.
	Name string

	// Update rewrites the archives with the produced output instead of
	// comparing.
	Update bool

	// Skip maps archive names (relative to Root, without extension) to
	// the reason they are skipped.
	Skip map[string]string
}

// A Test is a single archive being run. Output written to it is
// compared against the golden section.
type Test struct {
	*testing.T

	// Archive is the parsed txtar file under test.
	Archive *txtar.Archive

	// Rel is the archive path relative to Root, without the .txtar
	// extension.
	Rel string

	buf bytes.Buffer
}

// Write collects output for comparison against the golden section.
func (t *Test) Write(b []byte) (n int, err error) {
	return t.buf.Write(b)
}

// ReadFile returns the contents of the named section of the archive.
func (t *Test) ReadFile(name string) ([]byte, error) {
	for _, f := range t.Archive.Files {
		if f.Name == name {
			return f.Data, nil
		}
	}
	return nil, fmt.Errorf("section %q not found in %s", name, t.Rel)
}

// HasSection reports whether the archive contains the named section.
func (t *Test) HasSection(name string) bool {
	for _, f := range t.Archive.Files {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Run runs f for every archive below the root directory.
func (x *TxTarTest) Run(t *testing.T, f func(tc *Test)) {
	t.Helper()

	root := x.Root
	if root == "" {
		root = "testdata"
	}

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".txtar") {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(strings.TrimSuffix(rel, ".txtar"))

		t.Run(name, func(t *testing.T) {
			if reason, ok := x.Skip[name]; ok {
				t.Skip(reason)
			}

			a, err := txtar.ParseFile(path)
			if err != nil {
				t.Fatal(err)
			}

			tc := &Test{T: t, Archive: a, Rel: name}
			f(tc)

			x.compare(t, path, a, tc.buf.Bytes())
		})
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func (x *TxTarTest) compare(t *testing.T, path string, a *txtar.Archive, got []byte) {
	t.Helper()

	golden := "out/" + x.Name

	var file *txtar.File
	for i, f := range a.Files {
		if f.Name == golden {
			file = &a.Files[i]
			break
		}
	}

	if x.Update {
		if file == nil {
			a.Files = append(a.Files, txtar.File{Name: golden})
			file = &a.Files[len(a.Files)-1]
		}
		if !bytes.Equal(file.Data, got) {
			file.Data = got
			if err := ioutil.WriteFile(path, txtar.Format(a), 0644); err != nil {
				t.Fatal(err)
			}
		}
		return
	}

	if file == nil {
		t.Fatalf("section %q not found; run with -update to create it", golden)
	}

	want := strings.TrimSpace(string(file.Data))
	if g := strings.TrimSpace(string(got)); g != want {
		t.Errorf("result differs from %s:\n%s", golden, diff.Diff(want, g))
	}
}
