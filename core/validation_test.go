package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateDocument(t *testing.T) {
	validTime := time.Now().Add(-1 * time.Hour)
	futureTime := time.Now().Add(1 * time.Hour)

	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{
			name:    "valid document",
			doc:     &Document{Id: 1, Title: "How do channels work?", Content: "details", CreatedAt: validTime},
			wantErr: nil,
		},
		{
			name:    "valid document without content",
			doc:     &Document{Title: "Title only", CreatedAt: validTime},
			wantErr: nil,
		},
		{
			name:    "valid document with zero time",
			doc:     &Document{Title: "Imported"},
			wantErr: nil,
		},
		{
			name:    "nil document",
			doc:     nil,
			wantErr: ErrInvalidDocument,
		},
		{
			name:    "blank title",
			doc:     &Document{Title: "   ", CreatedAt: validTime},
			wantErr: ErrEmptyTitle,
		},
		{
			name:    "negative upvotes",
			doc:     &Document{Title: "Question", Upvotes: -1},
			wantErr: ErrNegativeCounter,
		},
		{
			name:    "negative answers",
			doc:     &Document{Title: "Question", AnswerCount: -2},
			wantErr: ErrNegativeCounter,
		},
		{
			name:    "future timestamp",
			doc:     &Document{Title: "Question", CreatedAt: futureTime},
			wantErr: ErrInvalidTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateDocument() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Errorf("ValidateDocument() error = nil, want %v", tt.wantErr)
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDocument() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsValidTimestamp(t *testing.T) {
	tests := []struct {
		name string
		ts   time.Time
		want bool
	}{
		{name: "past timestamp", ts: time.Now().Add(-1 * time.Hour), want: true},
		{name: "future timestamp", ts: time.Now().Add(1 * time.Hour), want: false},
		{name: "zero time", ts: time.Time{}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidTimestamp(tt.ts); got != tt.want {
				t.Errorf("IsValidTimestamp() = %v, want %v", got, tt.want)
			}
		})
	}
}
