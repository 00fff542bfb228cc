package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolutionsLayout_OrderAndCollation(t *testing.T) {
	layout := SolutionsLayout()

	require.Len(t, layout, 3)
	assert.Equal(t, "solutionReviews", layout[0].Name)
	assert.Equal(t, "lookups", layout[1].Name)
	assert.Equal(t, "queries", layout[2].Name)

	for _, spec := range layout {
		assert.Equal(t, Collation{Locale: "en", Strength: 2}, spec.Collation, spec.Name)
	}
}

func TestSolutionsLayout_ReturnsFreshSlice(t *testing.T) {
	first := SolutionsLayout()
	first[0].Name = "mutated"
	first[0].Collation.Strength = 3

	second := SolutionsLayout()
	assert.Equal(t, CollectionSolutionReviews, second[0].Name)
	assert.Equal(t, StrengthSecondary, second[0].Collation.Strength)
}

func TestCollation_Equal(t *testing.T) {
	assert.True(t, CaseInsensitiveEnglish.Equal(Collation{Locale: "en", Strength: 2}))
	assert.False(t, CaseInsensitiveEnglish.Equal(Collation{Locale: "en", Strength: 3}))
	assert.False(t, CaseInsensitiveEnglish.Equal(Collation{Locale: "fr", Strength: 2}))
}

func TestCollation_Validate(t *testing.T) {
	tests := []struct {
		name      string
		collation Collation
		wantErr   bool
	}{
		{"english secondary", CaseInsensitiveEnglish, false},
		{"simple locale", Collation{Locale: "simple", Strength: 1}, false},
		{"empty locale", Collation{Strength: 2}, true},
		{"zero strength", Collation{Locale: "en"}, true},
		{"strength too high", Collation{Locale: "en", Strength: 6}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.collation.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCollation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateDatabaseName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"default", "solutions", false},
		{"with dash", "solutions-test", false},
		{"empty", "", true},
		{"dot", "solutions.v2", true},
		{"slash", "a/b", true},
		{"space", "my db", true},
		{"dollar", "db$", true},
		{"too long", strings.Repeat("a", 64), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseName(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidName)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateCollectionName(t *testing.T) {
	assert.NoError(t, ValidateCollectionName("solutions", "solutionReviews"))
	assert.ErrorIs(t, ValidateCollectionName("solutions", ""), ErrInvalidName)
	assert.ErrorIs(t, ValidateCollectionName("solutions", "a$b"), ErrInvalidName)
	assert.ErrorIs(t, ValidateCollectionName("solutions", "system.views"), ErrInvalidName)
	assert.ErrorIs(t, ValidateCollectionName("solutions", strings.Repeat("c", 250)), ErrInvalidName)
}
