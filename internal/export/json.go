package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/crimson-sun/loglift/internal/model"
)

// WriteJSON dumps the enriched entries as an indented JSON array. This is
// an optional debugging boundary between pipeline stages, not an input the
// pipeline reads back.
func WriteJSON(path string, entries []model.LogEntry) error {
	data, err := json.MarshalIndent(entries, "", "    ")
	if err != nil {
		return fmt.Errorf("export: marshal entries: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return nil
}
