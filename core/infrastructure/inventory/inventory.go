// Package inventory reads device inventories from CSV or YAML files.
package inventory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"

	"github.com/carlosrabelo/netcfg/core/domain/entities"
	"github.com/carlosrabelo/netcfg/core/infrastructure/logging"
)

type yamlInventory struct {
	Devices []entities.InventoryRecord `yaml:"devices"`
}

// Read loads every record from path. Files ending in .yaml or .yml are parsed as YAML,
// anything else as CSV with a header row.
func Read(path string) ([]entities.InventoryRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open inventory %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(f)
	default:
		return ParseCSV(f)
	}
}

// ParseYAML decodes a `devices:` list
func ParseYAML(r io.Reader) ([]entities.InventoryRecord, error) {
	var inv yamlInventory
	if err := yaml.NewDecoder(r).Decode(&inv); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse inventory YAML: %w", err)
	}
	return inv.Devices, nil
}

// headerReader feeds gocsv a cleaned header row and remembers whether the input had any rows.
type headerReader struct {
	*csv.Reader
	empty bool
}

func (h *headerReader) ReadAll() ([][]string, error) {
	rows, err := h.Reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		h.empty = true
		return rows, nil
	}
	found := false
	for i, name := range rows[0] {
		rows[0][i] = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		found = found || rows[0][i] == entities.FieldName
	}
	if !found {
		return nil, fmt.Errorf("inventory header has no %q column", entities.FieldName)
	}
	return rows, nil
}

// ParseCSV decodes rows keyed by the Name, Management IP, Username and Password header columns.
// Missing credential columns yield empty fields; the Name column is mandatory.
func ParseCSV(r io.Reader) ([]entities.InventoryRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	in := &headerReader{Reader: reader}

	var rows []entities.InventoryRecord
	if err := gocsv.UnmarshalCSV(in, &rows); err != nil {
		if in.empty {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read inventory: %w", err)
	}

	records := rows[:0]
	for i, rec := range rows {
		rec.Name = strings.TrimSpace(rec.Name)
		if rec.Name == "" {
			logging.Warnf("Skipping inventory row %d without a %s", i+1, entities.FieldName)
			continue
		}
		rec.ManagementIP = strings.TrimSpace(rec.ManagementIP)
		rec.Username = strings.TrimSpace(rec.Username)
		rec.Password = strings.TrimSpace(rec.Password)
		records = append(records, rec)
	}
	return records, nil
}

// Lookup returns the record whose name matches exactly
func Lookup(records []entities.InventoryRecord, name string) (entities.InventoryRecord, bool) {
	for _, rec := range records {
		if rec.Name == name {
			return rec, true
		}
	}
	return entities.InventoryRecord{}, false
}
