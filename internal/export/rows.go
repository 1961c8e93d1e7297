// Package export writes recorded time to CSV and JSON files, one record per
// interval.
package export

import (
	"sort"
	"time"

	"github.com/sadopc/activity/internal/model"
)

const unknownName = "Unknown"

// Row is one tracked interval with the names it is filed under.
type Row struct {
	SessionID string
	Project   string
	Task      string
	Tags      []string
	Date      time.Time
	Start     time.Time
	End       time.Time
}

func (r Row) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Rows flattens sessions into interval rows ordered by start time. Sessions
// whose task no longer exists are filed as Unknown.
func Rows(projects []model.Project, sessions []model.Session) []Row {
	type owner struct {
		project, task string
		tags          []string
	}
	owners := make(map[string]owner)
	for _, p := range projects {
		for _, t := range p.Tasks {
			owners[t.ID] = owner{project: p.Name, task: t.Name, tags: t.Tags}
		}
	}

	var rows []Row
	for _, s := range sessions {
		o, ok := owners[s.TaskID]
		if !ok {
			o = owner{project: unknownName, task: unknownName}
		}
		for _, iv := range s.Intervals {
			rows = append(rows, Row{
				SessionID: s.ID,
				Project:   o.project,
				Task:      o.task,
				Tags:      o.tags,
				Date:      s.CompletionDate,
				Start:     iv.Start,
				End:       iv.End,
			})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Start.Before(rows[j].Start)
	})
	return rows
}
