package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sapcc/go-bits/errext"

	"github.com/ivcompat/ivcompat/internal/infusion"
)

// CatalogEntry is one row of the import file: an infusion plus its
// compatibility data against every other infusion named in the header,
// keyed by that infusion's name (IDs don't exist yet at parse time).
type CatalogEntry struct {
	Name   string
	Type   infusion.Type
	Compat map[string]infusion.Data
}

// Parse reads the CSV format the catalogue is distributed in: a header
// row of "name,type,<other infusion name>..." followed by one data row
// per infusion. Each compatibility cell is either empty (no data
// recorded against that column's infusion) or "c:i:m" - the compatible,
// incompatible and mixed result counts, colon-separated, matching
// data.csv's existing layout.
func Parse(r io.Reader) ([]CatalogEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // validated by hand below for a clearer error

	header, err := cr.Read()
	if err == io.EOF {
		return nil, MalformedRowError{Line: 1, Reason: "file is empty"}
	}
	if err != nil {
		return nil, MalformedRowError{Line: 1, Reason: err.Error()}
	}
	if len(header) < 2 {
		return nil, MalformedRowError{Line: 1, Reason: "header must have at least name and type columns"}
	}
	otherNames := header[2:]

	var entries []CatalogEntry
	var errs errext.ErrorSet
	line := 1
	for {
		line++
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			errs.Add(MalformedRowError{Line: line, Reason: err.Error()})
			break // a read error on the underlying reader is not recoverable row by row
		}

		if len(record) != len(header) {
			errs.Add(MalformedRowError{
				Line:   line,
				Reason: fmt.Sprintf("expected %d columns, got %d", len(header), len(record)),
			})
			continue
		}

		name := strings.TrimSpace(record[0])
		if name == "" {
			errs.Add(MalformedRowError{Line: line, Reason: "infusion name is empty"})
			continue
		}

		typeNum, err := strconv.ParseInt(record[1], 10, 32)
		if err != nil {
			errs.Add(MalformedRowError{Line: line, Reason: fmt.Sprintf("invalid type %q: %s", record[1], err)})
			continue
		}

		entry := CatalogEntry{Name: name, Type: infusion.Type(typeNum), Compat: map[string]infusion.Data{}}
		rowOK := true
		for i, cell := range record[2:] {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			data, err := parseCell(cell)
			if err != nil {
				errs.Add(MalformedRowError{
					Line:   line,
					Reason: fmt.Sprintf("column %q: %s", otherNames[i], err),
				})
				rowOK = false
				continue
			}
			entry.Compat[otherNames[i]] = data
		}
		if rowOK {
			entries = append(entries, entry)
		}
	}

	if !errs.IsEmpty() {
		return nil, fmt.Errorf("%s", errs.Join("; "))
	}
	return entries, nil
}

func parseCell(cell string) (infusion.Data, error) {
	parts := strings.Split(cell, ":")
	if len(parts) != 3 {
		return infusion.Data{}, fmt.Errorf("expected \"compatible:incompatible:mixed\", got %q", cell)
	}
	counts := make([]uint32, 3)
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return infusion.Data{}, fmt.Errorf("invalid count %q: %w", p, err)
		}
		counts[i] = uint32(n)
	}
	return infusion.Data{CompatibleCount: counts[0], IncompatibleCount: counts[1], MixedCount: counts[2]}, nil
}
