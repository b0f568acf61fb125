package procedure

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nhle/activity-planner/internal/model"
)

//go:embed templates/*.yaml
var builtinFS embed.FS

// Parse decodes one YAML template document, orders its phases and validates it.
func Parse(r io.Reader) (model.ProcedureTemplate, error) {
	var t model.ProcedureTemplate

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		if errors.Is(err, io.EOF) {
			return model.ProcedureTemplate{}, fmt.Errorf("decoding template: empty document")
		}
		return model.ProcedureTemplate{}, fmt.Errorf("decoding template: %w", err)
	}

	// Phase order in the file is only a fallback; "order" wins.
	sort.SliceStable(t.Phases, func(i, j int) bool {
		return t.Phases[i].Order < t.Phases[j].Order
	})

	if err := Validate(t); err != nil {
		return model.ProcedureTemplate{}, err
	}
	return t, nil
}

// LoadFile reads a template from a YAML file.
func LoadFile(path string) (model.ProcedureTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.ProcedureTemplate{}, fmt.Errorf("reading template %s: %w", path, err)
	}
	t, err := Parse(bytes.NewReader(data))
	if err != nil {
		return model.ProcedureTemplate{}, fmt.Errorf("loading template %s: %w", path, err)
	}
	return t, nil
}

// LoadDir reads every *.yaml / *.yml file in dir, sorted by file name.
func LoadDir(dir string) ([]model.ProcedureTemplate, error) {
	return loadFS(os.DirFS(dir), ".")
}

// Builtin returns the templates shipped with the binary.
func Builtin() ([]model.ProcedureTemplate, error) {
	return loadFS(builtinFS, "templates")
}

func loadFS(fsys fs.FS, dir string) ([]model.ProcedureTemplate, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading template directory: %w", err)
	}

	var templates []model.ProcedureTemplate
	for _, e := range entries {
		if e.IsDir() || !isYAML(e.Name()) {
			continue
		}
		name := filepath.ToSlash(filepath.Join(dir, e.Name()))
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", e.Name(), err)
		}
		t, err := Parse(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("loading template %s: %w", e.Name(), err)
		}
		templates = append(templates, t)
	}
	return templates, nil
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
