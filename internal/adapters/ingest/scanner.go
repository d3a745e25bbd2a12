package ingest

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

// Kind distinguishes weekly from monthly report files.
type Kind string

// Report file kinds.
const (
	KindWeek  Kind = "week"
	KindMonth Kind = "month"
)

// ReportFile is a discovered input file awaiting processing.
type ReportFile struct {
	Path   string
	Name   string
	Kind   Kind
	Period int
}

// Title returns the human-readable report title for the file.
func (f ReportFile) Title() string {
	if f.Kind == KindMonth {
		return fmt.Sprintf("Reporte Mensual (%s)", f.Name)
	}
	return fmt.Sprintf("Reporte Semanal (%s)", f.Name)
}

// ReportName returns the output file name for the rendered report.
func (f ReportFile) ReportName() string {
	stem := f.Name[:len(f.Name)-len(filepath.Ext(f.Name))]
	return stem + "_report.txt"
}

var periodRe = regexp.MustCompile(`(?i)(week|month)_(\d+)`)

// Discover lists pending report files in dir: week_*_test_report.csv first,
// then month_*_test_report.csv, each group ordered by its numeric period.
// Files whose name carries no parsable period sort last within their group.
func Discover(dir string) ([]ReportFile, error) {
	weeks, err := glob(dir, "week_*_test_report.csv", KindWeek)
	if err != nil {
		return nil, err
	}
	months, err := glob(dir, "month_*_test_report.csv", KindMonth)
	if err != nil {
		return nil, err
	}
	return append(weeks, months...), nil
}

func glob(dir, pattern string, kind Kind) ([]ReportFile, error) {
	paths, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	files := make([]ReportFile, 0, len(paths))
	for _, p := range paths {
		name := filepath.Base(p)
		files = append(files, ReportFile{
			Path:   p,
			Name:   name,
			Kind:   kind,
			Period: periodOf(name),
		})
	}
	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Period != files[j].Period {
			return files[i].Period < files[j].Period
		}
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// periodOf extracts the numeric period from a file name, e.g.
// week_8_test_report.csv -> 8. Unparsable names report the maximum period so
// they sort last.
func periodOf(name string) int {
	m := periodRe.FindStringSubmatch(name)
	if m == nil {
		return int(^uint(0) >> 1)
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return n
}
