package interchange

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/urban-jungle/backend/internal/catalog"
	"github.com/urban-jungle/backend/internal/health"
	"github.com/urban-jungle/backend/internal/models"
)

var (
	// ErrTooFewRows means the input lacks a header plus one data row.
	ErrTooFewRows = errors.New("CSV needs a header row and at least one data row")
	// ErrMissingColumns means a required header column is absent.
	ErrMissingColumns = errors.New("invalid CSV format. Required columns: Date, Plant, Reading")
)

// DefaultReading is used when a reading cell is not an integer.
const DefaultReading = 5

// RowIssue records why a data row was skipped.
type RowIssue struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Result is the outcome of decoding an import.
type Result struct {
	// Entries are the produced log entries in input order.
	Entries []models.WateringLogEntry `json:"entries"`
	// Issues lists skipped rows.
	Issues []RowIssue `json:"issues"`
}

// Imported returns the number of produced entries.
func (r *Result) Imported() int {
	return len(r.Entries)
}

// Skipped returns the number of skipped data rows.
func (r *Result) Skipped() int {
	return len(r.Issues)
}

type columns struct {
	date, plant, reading, notes int
}

// Decode parses CSV text into log entries. The whole input fails only when
// the header is unusable; bad rows are skipped or defaulted one by one.
//
// Fields are split on every comma. Commas inside quoted fields are not
// supported, and doubled quotes inside a field are kept as they are.
func Decode(text string, cat *catalog.Catalog, newID func() string) (*Result, error) {
	type line struct {
		num  int
		text string
	}

	text = strings.TrimPrefix(text, "\ufeff")

	var lines []line
	for i, raw := range strings.Split(text, "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		lines = append(lines, line{num: i + 1, text: raw})
	}
	if len(lines) < 2 {
		return nil, ErrTooFewRows
	}

	cols, err := parseHeader(lines[0].text)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Entries: make([]models.WateringLogEntry, 0, len(lines)-1),
		Issues:  make([]RowIssue, 0),
	}

	for _, l := range lines[1:] {
		cells := splitRow(l.text)

		plantCell := cell(cells, cols.plant)
		if plantCell == "" {
			result.Issues = append(result.Issues, RowIssue{Line: l.num, Reason: "empty plant"})
			continue
		}

		plant, ok := cat.Match(plantCell)
		if !ok {
			result.Issues = append(result.Issues, RowIssue{
				Line:   l.num,
				Reason: fmt.Sprintf("unknown plant: %s", plantCell),
			})
			continue
		}

		reading := parseReading(cell(cells, cols.reading))

		notes := ""
		if cols.notes >= 0 {
			notes = cell(cells, cols.notes)
		}

		result.Entries = append(result.Entries, models.WateringLogEntry{
			ID:           newID(),
			PlantID:      plant.ID,
			Date:         cell(cells, cols.date),
			MeterReading: reading,
			Notes:        notes,
		})
	}

	return result, nil
}

// ProjectStatuses applies imported entries, in order, to a copy of the
// current statuses. A plant's status is replaced only when it has never
// been watered or the entry's date is the same as or later than the
// recorded one. Imported readings use the import classification rule.
func ProjectStatuses(current map[string]models.PlantStatus, entries []models.WateringLogEntry) map[string]models.PlantStatus {
	next := make(map[string]models.PlantStatus, len(current))
	for id, s := range current {
		next[id] = s
	}

	for _, e := range entries {
		existing, ok := next[e.PlantID]
		if ok && existing.Watered() && !SameOrLater(e.Date, *existing.LastWatered) {
			continue
		}

		date := e.Date
		next[e.PlantID] = models.PlantStatus{
			PlantID:     e.PlantID,
			LastWatered: &date,
			Health:      health.ClassifyImported(e.MeterReading),
		}
	}

	return next
}

func parseHeader(header string) (columns, error) {
	cols := columns{date: -1, plant: -1, reading: -1, notes: -1}

	for idx, name := range strings.Split(header, ",") {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			setFirst(&cols.date, idx)
		case "plant":
			setFirst(&cols.plant, idx)
		case "reading":
			setFirst(&cols.reading, idx)
		case "notes":
			setFirst(&cols.notes, idx)
		}
	}

	if cols.date < 0 || cols.plant < 0 || cols.reading < 0 {
		return cols, ErrMissingColumns
	}
	return cols, nil
}

// parseReading reads the leading integer of a cell, so "8.5" is 8 and
// "9 (soggy)" is 9. A cell with no leading digits is DefaultReading.
// Zero parses and is kept.
func parseReading(raw string) int {
	s := strings.TrimSpace(raw)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return DefaultReading
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return DefaultReading
	}
	return n
}

func setFirst(dst *int, idx int) {
	if *dst < 0 {
		*dst = idx
	}
}

func splitRow(row string) []string {
	cells := strings.Split(row, ",")
	for i, c := range cells {
		c = strings.TrimSpace(c)
		c = strings.TrimPrefix(c, `"`)
		c = strings.TrimSuffix(c, `"`)
		cells[i] = c
	}
	return cells
}

func cell(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return cells[idx]
}
