package utils

import (
	"testing"
	"vehiclecare/internal/apperrors"

	"github.com/stretchr/testify/assert"
)

type sampleInput struct {
	Name  string `json:"name"  validate:"required,max=5"`
	Kind  string `json:"kind"  validate:"required,oneof=A B"`
	Count *int   `json:"count" validate:"omitempty,min=1"`
}

func TestValidateStruct(t *testing.T) {
	zero := 0

	tests := []struct {
		name    string
		input   sampleInput
		wantMsg string
	}{
		{name: "valid", input: sampleInput{Name: "abc", Kind: "A"}},
		{name: "missing name", input: sampleInput{Kind: "A"}, wantMsg: "name is required"},
		{name: "name too long", input: sampleInput{Name: "abcdef", Kind: "B"}, wantMsg: "name must be at most 5"},
		{name: "bad kind", input: sampleInput{Name: "abc", Kind: "C"}, wantMsg: "kind must be one of [A B]"},
		{name: "count below min", input: sampleInput{Name: "abc", Kind: "A", Count: &zero}, wantMsg: "count must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			assert.EqualError(t, err, tt.wantMsg)
		})
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		name                string
		page, limit         int
		wantPage, wantLimit int
	}{
		{name: "defaults", page: 0, limit: 0, wantPage: 1, wantLimit: 20},
		{name: "negative", page: -3, limit: -1, wantPage: 1, wantLimit: 20},
		{name: "within bounds", page: 4, limit: 50, wantPage: 4, wantLimit: 50},
		{name: "limit capped", page: 2, limit: 1000, wantPage: 2, wantLimit: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := ClampPage(tt.page, tt.limit)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}
