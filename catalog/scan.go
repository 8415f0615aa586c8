package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/maruel/natural"
)

// Discover scans dir for description files and returns a record for each,
// invalid ones included with StatusInvalid.
func Discover(dir string) ([]*Record, error) {
	paths, err := candidates(dir)
	if err != nil {
		return nil, err
	}
	records := make([]*Record, 0, len(paths))
	for _, p := range paths {
		rec := loadRecord(p)
		if !rec.Valid() {
			catLog().Debug().Str("path", rec.Path).Str("problem", rec.Problem).Msg("invalid animation file")
		}
		records = append(records, rec)
	}
	sortRecords(records)
	return records, nil
}

// LoadValid scans dir and returns only the valid records.
func LoadValid(dir string) ([]*Record, error) {
	all, err := Discover(dir)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(all, func(r *Record) bool { return !r.Valid() }), nil
}

// candidates lists the .json files directly inside dir, in any letter case.
func candidates(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	return out, nil
}

// sortRecords orders by name, case-insensitively and with digit runs
// compared numerically (walk2 before walk10), then by path.
func sortRecords(records []*Record) {
	slices.SortStableFunc(records, func(a, b *Record) int {
		an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
		switch {
		case an == bn:
			return strings.Compare(a.Path, b.Path)
		case natural.Less(an, bn):
			return -1
		default:
			return 1
		}
	})
}
