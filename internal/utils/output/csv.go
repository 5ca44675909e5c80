package output

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/law-makers/localevents/pkg/models"
)

var csvHeader = []string{"title", "date", "venue", "description", "url", "image_url", "source"}

// WriteCSV writes one row per event after a header row
func WriteCSV(w io.Writer, events []models.Event) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, ev := range events {
		row := []string{ev.Title, ev.Date, ev.Venue, ev.Description, ev.URL, ev.ImageURL, ev.Source}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// SaveCSV writes events to a CSV file. Returns an error on failure.
func SaveCSV(events []models.Event, filepath string) error {
	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteCSV(file, events)
}
