package models

import (
	"errors"
	"testing"
)

func TestCreateTaskRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantErr bool
	}{
		{"valid", "Buy milk", false},
		{"empty", "", true},
		{"whitespace only", "   \t", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := CreateTaskRequest{Title: tt.title}
			err := req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestCreateResourceRequestValidate(t *testing.T) {
	req := CreateResourceRequest{URL: "https://example.com"}
	if err := req.Validate(); err != nil {
		t.Errorf("valid resource rejected: %v", err)
	}

	req = CreateResourceRequest{Title: "has title but no url"}
	if err := req.Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for missing url, got %v", err)
	}
}

func TestCreateThoughtRequestValidate(t *testing.T) {
	req := CreateThoughtRequest{Content: "an idea"}
	if err := req.Validate(); err != nil {
		t.Errorf("valid thought rejected: %v", err)
	}

	req = CreateThoughtRequest{Content: "  "}
	if err := req.Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for blank content, got %v", err)
	}
}

func TestCreateDocumentRequestValidate(t *testing.T) {
	req := CreateDocumentRequest{Title: "Notes", Content: "<p>hi</p>"}
	if err := req.Validate(); err != nil {
		t.Errorf("valid document rejected: %v", err)
	}

	req = CreateDocumentRequest{Content: "<p>hi</p>"}
	if err := req.Validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for missing title, got %v", err)
	}
}

func TestValidItemType(t *testing.T) {
	for _, valid := range []ItemType{ItemTypeTask, ItemTypeResource, ItemTypeThought} {
		if !ValidItemType(valid) {
			t.Errorf("ValidItemType(%q) = false", valid)
		}
	}
	for _, invalid := range []ItemType{"", "project", "TASK", "notes"} {
		if ValidItemType(invalid) {
			t.Errorf("ValidItemType(%q) = true", invalid)
		}
	}
}
