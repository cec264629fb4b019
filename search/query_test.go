package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewQuery(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantTerms string
		wantRoom  string
		wantLimit int
	}{
		{
			name:      "Plain terms",
			input:     "deployment failed",
			wantTerms: "deployment failed",
			wantLimit: 10,
		},
		{
			name:      "Room flag",
			input:     "release notes --room general",
			wantTerms: "release notes",
			wantRoom:  "general",
			wantLimit: 10,
		},
		{
			name:      "Room and limit flags",
			input:     "--limit 5 hotfix --room ops",
			wantTerms: "hotfix",
			wantRoom:  "ops",
			wantLimit: 5,
		},
		{
			name:      "Invalid limit keeps the default",
			input:     "hotfix --limit zero",
			wantTerms: "hotfix",
			wantLimit: 10,
		},
		{
			name:      "Leading slash command is not a term",
			input:     "/search hotfix",
			wantTerms: "hotfix",
			wantLimit: 10,
		},
		{
			name:      "Empty input",
			input:     "",
			wantTerms: "",
			wantLimit: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			query := NewQuery(tt.input)
			req.Equal(tt.wantTerms, query.Terms)
			req.Equal(tt.wantRoom, query.RoomID)
			req.Equal(tt.wantLimit, query.Limit)
			req.Equal(tt.input, query.RawInput)
		})
	}
}
