package config

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/sokinpui/docpatch/model"
)

// PatchFile is the YAML form of a single patch operation:
//
//	file: docs/flujo-bodas.md
//	old: |
//	  - /bodas lista bodas activas.
//	new: |
//	  - /bodas (rol planner) lista bodas activas y archivadas.
type PatchFile struct {
	File  string  `yaml:"file"`
	Old   string  `yaml:"old"`
	New   *string `yaml:"new"`
	Count int     `yaml:"count"`
}

// LoadOperation reads and validates the patch file at path.
func LoadOperation(fsys afero.Fs, path string) (model.Operation, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return model.Operation{}, errors.Wrapf(err, "failed to read patch file '%s'", path)
	}

	var pf PatchFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil {
		if errors.Is(err, io.EOF) {
			return model.Operation{}, errors.Errorf("patch file '%s' is empty", path)
		}
		return model.Operation{}, errors.Wrapf(err, "failed to parse patch file '%s'", path)
	}

	if err := pf.validate(); err != nil {
		return model.Operation{}, errors.Wrapf(err, "invalid patch file '%s'", path)
	}

	return model.Operation{
		Path:  pf.File,
		Old:   pf.Old,
		New:   *pf.New,
		Count: pf.Count,
	}, nil
}

func (pf PatchFile) validate() error {
	switch {
	case pf.File == "":
		return errors.New("'file' is required")
	case pf.Old == "":
		return errors.New("'old' is required")
	case pf.New == nil:
		return errors.New("'new' is required, use an empty string to delete the old text")
	case pf.Count < 0:
		return errors.New("'count' cannot be negative")
	}
	return nil
}
