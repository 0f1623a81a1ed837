package fixture

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	ferrors "github.com/matzehuels/fixturegraph/pkg/errors"
)

// Format identifies a manifest encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath returns the manifest format for a file extension.
func FormatFromPath(path string) (Format, error) {
	if err := ferrors.ValidateManifestFilename(path); err != nil {
		return "", err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return FormatJSON, nil
	}
}

// Manifest is a named, ordered list of fixtures.
//
// Declaration order matters: it is the seed order when the whole manifest
// is resolved.
type Manifest struct {
	Name     string    `toml:"name" yaml:"name" json:"name"`
	Fixtures []Fixture `toml:"fixture" yaml:"fixtures" json:"fixtures"`

	dir string
}

// ReadFile reads and validates a manifest. Records files are resolved
// relative to the manifest's directory. The manifest name defaults to the
// file name without extension.
func ReadFile(path string) (*Manifest, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := readFile(path, "manifest")
	if err != nil {
		return nil, err
	}

	m, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	m.dir = filepath.Dir(path)
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return m, nil
}

// Parse decodes and validates a manifest. Unknown keys are rejected.
// Records files of a parsed manifest resolve against the working directory
// until [Manifest.SetDir] is called.
func Parse(data []byte, format Format) (*Manifest, error) {
	var m Manifest
	if err := decode(data, format, &m); err != nil {
		return nil, err
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// New builds and validates a manifest from fixtures, e.g. ones received over
// the HTTP API. Only inline records are meaningful without SetDir.
func New(name string, fixtures []Fixture) (*Manifest, error) {
	m := &Manifest{Name: name, Fixtures: fixtures}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func decode(data []byte, format Format, m *Manifest) error {
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), m)
		if err != nil {
			return ferrors.Wrap(ferrors.ErrCodeInvalidManifest, err, "decode toml manifest")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return ferrors.New(ferrors.ErrCodeInvalidManifest, "unknown manifest key %q", undecoded[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(m); err != nil && !errors.Is(err, io.EOF) {
			return ferrors.Wrap(ferrors.ErrCodeInvalidManifest, err, "decode yaml manifest")
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(m); err != nil {
			return ferrors.Wrap(ferrors.ErrCodeInvalidManifest, err, "decode json manifest")
		}
	default:
		return ferrors.New(ferrors.ErrCodeInvalidFormat, "unsupported manifest format %q", format)
	}
	return nil
}

// validate checks the structural rules that do not need the graph.
func (m *Manifest) validate() error {
	seen := make(map[string]bool, len(m.Fixtures))
	for i := range m.Fixtures {
		f := &m.Fixtures[i]
		if err := ferrors.ValidateFixtureName(f.Name); err != nil {
			return ferrors.Wrap(ferrors.ErrCodeInvalidManifest, err, "fixture #%d", i+1)
		}
		if seen[f.Name] {
			return ferrors.New(ferrors.ErrCodeInvalidManifest, "duplicate fixture %q", f.Name)
		}
		seen[f.Name] = true

		if f.Target != "" {
			if err := ferrors.ValidateFixtureName(f.Target); err != nil {
				return ferrors.Wrap(ferrors.ErrCodeInvalidManifest, err, "fixture %q: target", f.Name)
			}
		}
		if f.File != "" {
			if len(f.Records) > 0 {
				return ferrors.New(ferrors.ErrCodeInvalidManifest, "fixture %q: file and records are mutually exclusive", f.Name)
			}
			if err := ferrors.ValidatePath(f.File); err != nil {
				return ferrors.Wrap(ferrors.ErrCodeInvalidManifest, err, "fixture %q: file", f.Name)
			}
		}
	}
	return nil
}

// Dir returns the directory records files are resolved against.
func (m *Manifest) Dir() string { return m.dir }

// SetDir sets the directory records files are resolved against.
func (m *Manifest) SetDir(dir string) { m.dir = dir }

// Lookup returns the fixture with the given name.
func (m *Manifest) Lookup(name string) (*Fixture, bool) {
	for i := range m.Fixtures {
		if m.Fixtures[i].Name == name {
			return &m.Fixtures[i], true
		}
	}
	return nil, false
}

// Names returns fixture names in declaration order.
func (m *Manifest) Names() []string {
	names := make([]string, len(m.Fixtures))
	for i, f := range m.Fixtures {
		names[i] = f.Name
	}
	return names
}

// Records loads the records of f relative to the manifest directory.
func (m *Manifest) Records(f *Fixture) ([]Record, error) {
	return f.LoadRecords(m.dir)
}

// String implements fmt.Stringer.
func (m *Manifest) String() string {
	return fmt.Sprintf("%s (%d fixtures)", m.Name, len(m.Fixtures))
}
