// Package interchange reads and writes the watering log as CSV.
package interchange

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/urban-jungle/backend/internal/catalog"
	"github.com/urban-jungle/backend/internal/models"
)

// Header is the fixed export header.
var Header = []string{"Date", "Plant", "Reading", "Notes"}

// ErrNothingToExport is returned when the log has no entries.
var ErrNothingToExport = errors.New("no data to export")

// ContentType is the MIME type of exported files.
const ContentType = "text/csv;charset=utf-8"

// Export renders entries as CSV in the given order. Plant names come from
// the catalog, falling back to the raw plant id. Plant and notes fields are
// always quoted; readings never are. Rows are joined with "\n".
func Export(entries []models.WateringLogEntry, cat *catalog.Catalog) ([]byte, error) {
	if len(entries) == 0 {
		return nil, ErrNothingToExport
	}

	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, strings.Join(Header, ","))

	for _, e := range entries {
		lines = append(lines, strings.Join([]string{
			e.Date,
			quote(cat.Name(e.PlantID)),
			strconv.Itoa(e.MeterReading),
			quote(e.Notes),
		}, ","))
	}

	return []byte(strings.Join(lines, "\n")), nil
}

// ExportFilename names the download for the given day.
func ExportFilename(now time.Time) string {
	return "urban_jungle_backup_" + now.Format("2006-01-02") + ".csv"
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
