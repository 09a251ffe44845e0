package models

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestValidateTask(t *testing.T) {
	now := time.Now()
	task := Task{
		ID:        1,
		Owner:     "user-1",
		Title:     "Buy milk",
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := ValidateTask(task); err != nil {
		t.Fatalf("valid task rejected: %v", err)
	}

	task.Title = "   "
	err := ValidateTask(task)
	if err == nil {
		t.Fatal("blank title should be rejected")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != "title" {
		t.Errorf("unexpected field errors: %+v", verr.Fields)
	}
}

func TestValidateFields_Bounds(t *testing.T) {
	cases := []struct {
		name    string
		fields  TaskFields
		wantErr []string
	}{
		{"empty update ok", TaskFields{}, nil},
		{"valid title", TaskFields{Title: strPtr("Ship report")}, nil},
		{"empty title", TaskFields{Title: strPtr("")}, []string{"title"}},
		{"blank title", TaskFields{Title: strPtr("  \t ")}, []string{"title"}},
		{"title too long", TaskFields{Title: strPtr(strings.Repeat("x", TitleMaxLen+1))}, []string{"title"}},
		{"title at limit", TaskFields{Title: strPtr(strings.Repeat("x", TitleMaxLen))}, nil},
		{"description too long", TaskFields{Description: strPtr(strings.Repeat("d", DescriptionMaxLen+1))}, []string{"description"}},
		{"both bad", TaskFields{Title: strPtr(""), Description: strPtr(strings.Repeat("d", DescriptionMaxLen+1))}, []string{"title", "description"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateFields(tc.fields)
			if len(tc.wantErr) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if len(verr.Fields) != len(tc.wantErr) {
				t.Fatalf("field errors: got %+v, want fields %v", verr.Fields, tc.wantErr)
			}
			for i, want := range tc.wantErr {
				if verr.Fields[i].Field != want {
					t.Errorf("field %d: got %q, want %q", i, verr.Fields[i].Field, want)
				}
			}
		})
	}
}

func TestParseStatusFilter(t *testing.T) {
	for _, valid := range []string{"all", "pending", "completed"} {
		if _, err := ParseStatusFilter(valid); err != nil {
			t.Errorf("ParseStatusFilter(%q) failed: %v", valid, err)
		}
	}
	if _, err := ParseStatusFilter("done"); err == nil {
		t.Error("unknown status filter should be rejected")
	}
	if _, err := ParseStatusFilter(""); err == nil {
		t.Error("empty status filter should be rejected")
	}
}

func TestParseSortKey(t *testing.T) {
	for _, valid := range []string{"created", "title", "completed"} {
		if _, err := ParseSortKey(valid); err != nil {
			t.Errorf("ParseSortKey(%q) failed: %v", valid, err)
		}
	}
	if _, err := ParseSortKey("priority"); err == nil {
		t.Error("unknown sort key should be rejected")
	}
}
