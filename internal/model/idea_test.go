package model

import (
	"strings"
	"testing"
)

// ============================================================================
// CreateIdeaRequest Tests
// ============================================================================

func TestCreateIdeaRequest_Validate_Valid(t *testing.T) {
	t.Parallel()

	req := &CreateIdeaRequest{
		Title:       "Better coffee",
		Description: "Replace the office machine with a grinder.",
	}

	if errs := req.Validate(); len(errs) > 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestCreateIdeaRequest_Validate_TitleTooShort(t *testing.T) {
	t.Parallel()

	req := &CreateIdeaRequest{Title: "Hi", Description: "A long enough description"}

	errs := req.Validate()
	if len(errs) != 1 || errs[0].Field != "title" {
		t.Fatalf("expected a single title error, got %v", errs)
	}
	if !strings.Contains(errs[0].Message, "at least 3") {
		t.Errorf("expected minimum length message, got %q", errs[0].Message)
	}
}

func TestCreateIdeaRequest_Validate_TrimsBeforeCounting(t *testing.T) {
	t.Parallel()

	req := &CreateIdeaRequest{Title: "   ab   ", Description: "  short   "}

	errs := req.Validate()
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	if errs[0].Message != "Title must be at least 3 characters long" {
		t.Errorf("unexpected title message: %q", errs[0].Message)
	}
	if errs[1].Message != "Description must be at least 10 characters long" {
		t.Errorf("unexpected description message: %q", errs[1].Message)
	}
}

func TestCreateIdeaRequest_Validate_Required(t *testing.T) {
	t.Parallel()

	req := &CreateIdeaRequest{Title: "  ", Description: ""}

	errs := req.Validate()
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	if errs[0].Message != "Title is required" || errs[1].Message != "Description is required" {
		t.Errorf("unexpected messages: %v", errs)
	}
}

func TestCreateIdeaRequest_Validate_Boundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		title   string
		desc    string
		wantErr bool
	}{
		{"min title", strings.Repeat("a", 3), strings.Repeat("d", 10), false},
		{"max title", strings.Repeat("a", 100), strings.Repeat("d", 10), false},
		{"title over max", strings.Repeat("a", 101), strings.Repeat("d", 10), true},
		{"max description", "abc", strings.Repeat("d", 500), false},
		{"description over max", "abc", strings.Repeat("d", 501), true},
		{"multibyte counted as characters", "日本語", "ありがとうございます", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &CreateIdeaRequest{Title: tt.title, Description: tt.desc}
			errs := req.Validate()
			if tt.wantErr && len(errs) == 0 {
				t.Error("expected validation error")
			}
			if !tt.wantErr && len(errs) > 0 {
				t.Errorf("expected no errors, got %v", errs)
			}
		})
	}
}

func TestCreateIdeaRequest_Normalize(t *testing.T) {
	t.Parallel()

	req := &CreateIdeaRequest{Title: "  Title  ", Description: "\tDescription here\n"}
	req.Normalize()

	if req.Title != "Title" || req.Description != "Description here" {
		t.Errorf("expected trimmed fields, got %q / %q", req.Title, req.Description)
	}
}

// ============================================================================
// ListIdeasParams Tests
// ============================================================================

func TestListIdeasParams_Normalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   ListIdeasParams
		want ListIdeasParams
	}{
		{"zero values", ListIdeasParams{}, ListIdeasParams{Page: 1, PageSize: 20, Sort: SortNewest}},
		{"negative", ListIdeasParams{Page: -3, PageSize: -1}, ListIdeasParams{Page: 1, PageSize: 20, Sort: SortNewest}},
		{"over cap", ListIdeasParams{Page: 2, PageSize: 1000, Sort: SortMostLiked}, ListIdeasParams{Page: 2, PageSize: 100, Sort: SortMostLiked}},
		{"unknown sort", ListIdeasParams{Page: 1, PageSize: 5, Sort: "oldest"}, ListIdeasParams{Page: 1, PageSize: 5, Sort: SortNewest}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(DefaultPageSize, MaxPageSize); got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestListIdeasParams_Offset(t *testing.T) {
	t.Parallel()

	p := ListIdeasParams{Page: 3, PageSize: 2}
	if p.Offset() != 4 {
		t.Errorf("expected offset 4, got %d", p.Offset())
	}
}

func TestParseIdeaSort(t *testing.T) {
	t.Parallel()

	tests := map[string]IdeaSort{
		"":            SortNewest,
		"newest":      SortNewest,
		"-createdAt":  SortNewest,
		"mostLiked":   SortMostLiked,
		"most_liked":  SortMostLiked,
		"-likesCount": SortMostLiked,
		"random":      SortNewest,
	}

	for in, want := range tests {
		if got := ParseIdeaSort(in); got != want {
			t.Errorf("ParseIdeaSort(%q) = %q, want %q", in, got, want)
		}
	}
}
