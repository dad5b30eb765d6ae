package shell

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// RC keeps settings read from the rc file.
type RC struct {
	Prompt             string `yaml:"prompt"`
	ContinuationPrompt string `yaml:"continuation-prompt"`
	// An esbuild target such as "es2017".
	Target          string `yaml:"target"`
	IgnoreUndefined bool   `yaml:"ignore-undefined"`
	HistorySize     int    `yaml:"history-size"`
	// Path of the database.
	DB string `yaml:"db"`
}

func defaultRC() RC {
	return RC{Prompt: "> ", ContinuationPrompt: "... ", HistorySize: 1000}
}

// LoadRC reads the rc file at path. Fields missing from the file keep their
// default values. A nonexistent file is not an error.
func LoadRC(path string) (RC, error) {
	rc := defaultRC()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return rc, nil
	} else if err != nil {
		return rc, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rc); err != nil && err != io.EOF {
		return defaultRC(), fmt.Errorf("%s: %w", path, err)
	}
	return rc, nil
}
