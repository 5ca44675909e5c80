package output

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/law-makers/localevents/pkg/models"
)

// Report is one search result as exported to a file
type Report struct {
	Location    string         `json:"location"`
	City        string         `json:"city"`
	Date        string         `json:"date,omitempty"`
	FellBack    bool           `json:"fell_back"`
	GeneratedAt time.Time      `json:"generated_at"`
	Events      []models.Event `json:"events"`
}

// Title is the heading used by the HTML and Markdown exports
func (r *Report) Title() string {
	title := "Events in " + r.Location
	if r.Date != "" && !r.FellBack {
		title += " on " + r.Date
	}
	return title
}

// Save writes r to path in the format given by the file extension
func Save(r *Report, path string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return SaveJSON(r, path)
	case ".csv":
		return SaveCSV(r.Events, path)
	case ".html", ".htm":
		return SaveHTML(r, path)
	case ".md", ".markdown":
		return SaveMarkdown(r, path)
	default:
		return fmt.Errorf("unsupported output format %q (use .json, .csv, .html or .md)", ext)
	}
}
