// Package search matches a free-text query against project names, task
// names and task tags.
package search

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/sadopc/activity/internal/model"
)

type ReasonKind int

const (
	ProjectName ReasonKind = iota
	TaskName
	TagName
)

// Reason records why a project matched. TaskID is set for TaskName, Tag for
// TagName.
type Reason struct {
	Kind   ReasonKind
	TaskID string
	Tag    string
}

func (r Reason) String() string {
	switch r.Kind {
	case ProjectName:
		return "project name"
	case TaskName:
		return fmt.Sprintf("task %s", r.TaskID)
	case TagName:
		return fmt.Sprintf("tag %s", r.Tag)
	}
	return "unknown"
}

// Match groups a project with the tasks and tags that matched. A task is
// listed when its name or one of its tags matched.
type Match struct {
	Project model.Project
	Tasks   []model.Task
	Tags    []string
	Reasons []Reason
}

// Has reports whether r is among the match's reasons.
func (m Match) Has(r Reason) bool {
	for _, got := range m.Reasons {
		if got == r {
			return true
		}
	}
	return false
}

// Fold returns the case-folded form of s used for comparisons.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// Contains reports whether query occurs in s, ignoring case.
func Contains(s, query string) bool {
	return strings.Contains(Fold(s), Fold(query))
}

// Search returns one Match per project with at least one reason, in project
// order. The empty query matches nothing; any other query, spaces
// included, is matched as typed.
func Search(projects []model.Project, query string) []Match {
	if query == "" {
		return nil
	}
	q := Fold(query)

	var matches []Match
	for _, p := range projects {
		var m Match
		if strings.Contains(Fold(p.Name), q) {
			m.addReason(Reason{Kind: ProjectName})
		}
		for _, t := range p.Tasks {
			if strings.Contains(Fold(t.Name), q) {
				m.addTask(t)
				m.addReason(Reason{Kind: TaskName, TaskID: t.ID})
			}
			for _, tag := range t.Tags {
				if !strings.Contains(Fold(tag), q) {
					continue
				}
				m.addTask(t)
				m.addTag(tag)
				m.addReason(Reason{Kind: TagName, Tag: tag})
			}
		}
		if len(m.Reasons) == 0 {
			continue
		}
		m.Project = p
		matches = append(matches, m)
	}
	return matches
}

func (m *Match) addReason(r Reason) {
	if !m.Has(r) {
		m.Reasons = append(m.Reasons, r)
	}
}

func (m *Match) addTask(t model.Task) {
	for _, got := range m.Tasks {
		if got.ID == t.ID {
			return
		}
	}
	m.Tasks = append(m.Tasks, t)
}

func (m *Match) addTag(tag string) {
	for _, got := range m.Tags {
		if got == tag {
			return
		}
	}
	m.Tags = append(m.Tags, tag)
}
