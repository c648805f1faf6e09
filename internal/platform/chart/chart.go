// Package chart loads chart-of-accounts seed files.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/SscSPs/member_ledger_app/internal/core/domain"
)

type file struct {
	Accounts []domain.ChartAccount `yaml:"accounts"`
}

// LoadFile reads a chart from path. A missing file yields an empty chart.
func LoadFile(path string) ([]domain.ChartAccount, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read chart file %s: %w", path, err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes a chart document and checks it for obvious mistakes: unknown
// types, duplicate codes, and parents that are not defined earlier in the file.
func Parse(r io.Reader) ([]domain.ChartAccount, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f file
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode chart: %w", err)
	}

	seen := make(map[string]bool, len(f.Accounts))
	for i, acc := range f.Accounts {
		if acc.Code == "" || acc.Name == "" {
			return nil, fmt.Errorf("chart entry %d: code and name are required", i+1)
		}
		if !acc.Type.IsValid() {
			return nil, fmt.Errorf("chart account %s: unknown type %q", acc.Code, acc.Type)
		}
		if acc.NormalBalance != "" && !acc.NormalBalance.IsValid() {
			return nil, fmt.Errorf("chart account %s: unknown normal balance %q", acc.Code, acc.NormalBalance)
		}
		if seen[acc.Code] {
			return nil, fmt.Errorf("chart account %s: duplicate code", acc.Code)
		}
		if acc.ParentCode != "" && !seen[acc.ParentCode] {
			return nil, fmt.Errorf("chart account %s: parent %s must be defined before it", acc.Code, acc.ParentCode)
		}
		seen[acc.Code] = true
	}
	return f.Accounts, nil
}
