package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/activity/internal/stopwatch"
)

var csvHeader = []string{"Session", "Project", "Task", "Tags", "Date", "Start", "End", "Duration (s)", "Duration"}

func ToCSV(rows []Row, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range rows {
		record := []string{
			r.SessionID,
			r.Project,
			r.Task,
			strings.Join(r.Tags, ";"),
			r.Date.Local().Format(time.DateOnly),
			r.Start.Local().Format(time.RFC3339),
			r.End.Local().Format(time.RFC3339),
			strconv.FormatInt(int64(r.Duration().Seconds()), 10),
			stopwatch.FormatClock(r.Duration()),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
