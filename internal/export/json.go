package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/activity/internal/stopwatch"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Total      string      `json:"total"`
	Intervals  []jsonEntry `json:"intervals"`
}

type jsonEntry struct {
	Session     string   `json:"session"`
	Project     string   `json:"project"`
	Task        string   `json:"task"`
	Tags        []string `json:"tags,omitempty"`
	Date        string   `json:"date"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	DurationSec int64    `json:"duration_seconds"`
	Duration    string   `json:"duration"`
}

func ToJSON(rows []Row, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(rows),
	}

	var total time.Duration
	for _, r := range rows {
		total += r.Duration()
		export.Intervals = append(export.Intervals, jsonEntry{
			Session:     r.SessionID,
			Project:     r.Project,
			Task:        r.Task,
			Tags:        r.Tags,
			Date:        r.Date.Local().Format(time.DateOnly),
			StartTime:   r.Start.Local().Format(time.RFC3339),
			EndTime:     r.End.Local().Format(time.RFC3339),
			DurationSec: int64(r.Duration().Seconds()),
			Duration:    stopwatch.FormatClock(r.Duration()),
		})
	}
	export.Total = stopwatch.FormatClock(total)

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
