// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package partition

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// WriteLines writes one profile URL per line, creating parent directories.
func WriteLines(profiles []Profile, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	for _, p := range profiles {
		if _, err := fmt.Fprintln(bw, p.URL); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteReport writes payload as YAML when path ends in .yaml or .yml and
// as indented JSON otherwise.
func WriteReport(path string, payload any) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(payload)
	default:
		data, err = json.MarshalIndent(payload, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
