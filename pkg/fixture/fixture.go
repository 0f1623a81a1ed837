package fixture

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/fixturegraph/pkg/cache"
	ferrors "github.com/matzehuels/fixturegraph/pkg/errors"
)

// Record is one document of fixture data.
type Record = map[string]any

// Fixture is a named unit of data loaded after all of its dependencies.
type Fixture struct {
	Name        string   `toml:"name" yaml:"name" json:"name"`
	DependsOn   []string `toml:"depends_on" yaml:"depends_on" json:"depends_on,omitempty"`
	Target      string   `toml:"target" yaml:"target" json:"target,omitempty"`
	Description string   `toml:"description" yaml:"description" json:"description,omitempty"`
	File        string   `toml:"file" yaml:"file" json:"file,omitempty"`
	Records     []Record `toml:"records" yaml:"records" json:"records,omitempty"`
}

// TargetName returns the collection or key namespace the fixture loads into.
// It defaults to the fixture name.
func (f *Fixture) TargetName() string {
	if f.Target != "" {
		return f.Target
	}
	return f.Name
}

// LoadRecords returns the fixture's records. Inline records are returned as
// is; a records file is read relative to dir.
func (f *Fixture) LoadRecords(dir string) ([]Record, error) {
	if f.File == "" {
		return f.Records, nil
	}
	path := filepath.Join(dir, filepath.FromSlash(f.File))
	records, err := ReadRecords(path)
	if err != nil {
		if ferrors.GetCode(err) != "" {
			return nil, err
		}
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidFixture, err, "fixture %q: read %s", f.Name, f.File)
	}
	return records, nil
}

// Digest returns a SHA-256 digest over the fixture name, target and the
// given records. Map keys are serialized in sorted order, so the digest is
// stable across runs.
func (f *Fixture) Digest(records []Record) (string, error) {
	data, err := json.Marshal(struct {
		Name    string   `json:"name"`
		Target  string   `json:"target"`
		Records []Record `json:"records"`
	}{f.Name, f.TargetName(), records})
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

// ReadRecords reads a records file. The decoder is chosen by extension:
// .json (array of objects), .yaml/.yml (sequence of mappings) or .toml
// (a [[records]] array).
func ReadRecords(path string) ([]Record, error) {
	data, err := readFile(path, "records file")
	if err != nil {
		return nil, err
	}

	var records []Record
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &records)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &records)
	case ".toml":
		var doc struct {
			Records []Record `toml:"records"`
		}
		_, err = toml.Decode(string(data), &doc)
		records = doc.Records
	default:
		return nil, ferrors.New(ferrors.ErrCodeInvalidFormat, "unsupported records format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidFormat, err, "decode %s", filepath.Base(path))
	}
	return records, nil
}

// readFile reads path and maps failures to coded errors. what names the file
// in messages.
func readFile(path, what string) ([]byte, error) {
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		return data, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, ferrors.New(ferrors.ErrCodeFileNotFound, "%s %s not found", what, path)
	case errors.Is(err, fs.ErrPermission):
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidPath, err, "read %s %s", what, path)
	}
	return nil, ferrors.Wrap(ferrors.ErrCodeInternal, err, "read %s %s", what, path)
}
