package search_test

import (
	"reflect"
	"testing"

	"github.com/sadopc/activity/internal/model"
	"github.com/sadopc/activity/internal/search"
)

func fixture() []model.Project {
	return []model.Project{
		{ID: "p1", Name: "Fitness", Tasks: []model.Task{
			{ID: "t1", Name: "Morning Run", Tags: []string{"cardio", "outdoor"}},
			{ID: "t2", Name: "Stretching", Tags: []string{"Mobility"}},
		}},
		{ID: "p2", Name: "Study", Tasks: []model.Task{
			{ID: "t3", Name: "Read ABC book", Tags: []string{"books"}},
			{ID: "t4", Name: "Flashcards", Tags: []string{"abc", "ABC drills"}},
		}},
		{ID: "p3", Name: "Garden"},
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	if got := search.Search(fixture(), ""); len(got) != 0 {
		t.Fatalf("empty query returned %d matches, want none", len(got))
	}
}

func TestSearchQueryIsNotTrimmed(t *testing.T) {
	projects := []model.Project{
		{ID: "p1", Name: "Run"},
		{ID: "p2", Name: "Morning  run"},
	}
	if got := search.Search(projects, "run "); len(got) != 0 {
		t.Fatalf("\"run \" is not a substring of either name, got %d matches", len(got))
	}
	got := search.Search(projects, "  ")
	if len(got) != 1 || got[0].Project.ID != "p2" {
		t.Fatalf("whitespace query should match the name containing it, got %+v", got)
	}
}

func TestSearchProjectName(t *testing.T) {
	got := search.Search(fixture(), "FIT")
	if len(got) != 1 || got[0].Project.ID != "p1" {
		t.Fatalf("unexpected matches %+v", got)
	}
	if !got[0].Has(search.Reason{Kind: search.ProjectName}) {
		t.Fatal("expected project name reason")
	}
	if len(got[0].Tasks) != 0 {
		t.Fatal("project name match should not list tasks")
	}
}

func TestSearchTaskAndTagReasons(t *testing.T) {
	got := search.Search(fixture(), "abc")
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	m := got[0]
	if m.Project.ID != "p2" {
		t.Fatalf("expected Study, got %s", m.Project.Name)
	}
	wantReasons := []search.Reason{
		{Kind: search.TaskName, TaskID: "t3"},
		{Kind: search.TagName, Tag: "abc"},
		{Kind: search.TagName, Tag: "ABC drills"},
	}
	if !reflect.DeepEqual(m.Reasons, wantReasons) {
		t.Fatalf("reasons = %+v, want %+v", m.Reasons, wantReasons)
	}
	if len(m.Tasks) != 2 || m.Tasks[0].ID != "t3" || m.Tasks[1].ID != "t4" {
		t.Fatalf("unexpected tasks %+v", m.Tasks)
	}
	if !reflect.DeepEqual(m.Tags, []string{"abc", "ABC drills"}) {
		t.Fatalf("unexpected tags %v", m.Tags)
	}
}

func TestSearchTagMatchListsTaskOnce(t *testing.T) {
	projects := []model.Project{{ID: "p", Name: "x", Tasks: []model.Task{
		{ID: "t", Name: "yoga", Tags: []string{"yoga", "yoga"}},
	}}}
	got := search.Search(projects, "yoga")
	if len(got) != 1 || len(got[0].Tasks) != 1 || len(got[0].Tags) != 1 {
		t.Fatalf("expected deduplicated results, got %+v", got)
	}
	if len(got[0].Reasons) != 2 {
		t.Fatalf("expected task and tag reasons, got %+v", got[0].Reasons)
	}
}

func TestSearchStableOrder(t *testing.T) {
	projects := fixture()
	first := search.Search(projects, "r")
	second := search.Search(projects, "r")
	if !reflect.DeepEqual(first, second) {
		t.Fatal("search must be idempotent")
	}
	var ids []string
	for _, m := range first {
		ids = append(ids, m.Project.ID)
	}
	if !reflect.DeepEqual(ids, []string{"p1", "p2", "p3"}) {
		t.Fatalf("expected project order, got %v", ids)
	}
}

func TestSearchUnicodeFolding(t *testing.T) {
	projects := []model.Project{{ID: "p", Name: "Straße"}}
	if got := search.Search(projects, "STRASSE"); len(got) != 1 {
		t.Fatal("expected full case folding to match ß")
	}
	if !search.Contains("Ünïcode", "üNÏ") {
		t.Fatal("expected case-insensitive contains")
	}
}

func TestSearchNoMatch(t *testing.T) {
	if got := search.Search(fixture(), "zzz"); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}
