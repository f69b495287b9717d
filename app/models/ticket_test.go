package models_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-modular/app/models"
	"github.com/km-arc/go-modular/framework/http/validation"
)

func TestBlank_Defaults(t *testing.T) {
	b := models.Blank()

	assert.Equal(t, models.StatusUnknown, b.Status)
	assert.Equal(t, models.TypeUndefined, b.Type)
	assert.NotNil(t, b.Assignees)
	assert.NotNil(t, b.Labels)
	assert.NotNil(t, b.Comments)
}

func TestBlank_EncodesEmptyLists(t *testing.T) {
	raw, err := json.Marshal(models.Blank())
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, []any{}, m["labels"])
	assert.Nil(t, m["due_date"])
	assert.Equal(t, "unknown", m["status"])
}

func TestNewTicket_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      models.NewTicket
		wantErr bool
	}{
		{"ok", models.NewTicket{Title: "x"}, false},
		{"ok with type", models.NewTicket{Title: "x", Type: models.TypeFeature}, false},
		{"missing title", models.NewTicket{}, true},
		{"blank title", models.NewTicket{Title: "  "}, true},
		{"unknown type", models.NewTicket{Title: "x", Type: "epic"}, true},
		{"title too long", models.NewTicket{Title: strings.Repeat("x", 201)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, models.ErrInvalidTicket)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewTicket_ValidateCarriesErrorBag(t *testing.T) {
	err := models.NewTicket{Type: "epic"}.Validate()
	require.ErrorIs(t, err, models.ErrInvalidTicket)

	var bag *validation.Errors
	require.ErrorAs(t, err, &bag)
	assert.Equal(t, "The title field is required.", bag.First("title"))
	assert.Equal(t, "The selected type is invalid.", bag.First("type"))
}

func TestType_Valid(t *testing.T) {
	for _, typ := range models.Types {
		assert.True(t, typ.Valid(), typ)
	}
	assert.False(t, models.Type("epic").Valid())
}

func TestIssue_Ticket(t *testing.T) {
	issue := models.Issue{ID: "gh-1", Title: "From tracker", Status: models.StatusOpen}

	tk := issue.Ticket()

	assert.Equal(t, "gh-1", tk.ID)
	assert.Equal(t, models.StatusOpen, tk.Status)
}
