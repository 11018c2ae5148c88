package handler

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/smarttask/api/transport"
	"github.com/fastygo/smarttask/domain"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrTaskNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrAmbiguousID, http.StatusConflict, "CONFLICT"},
		{domain.ErrInvalidImport, http.StatusBadRequest, "INVALID"},
		{domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{domain.WrapError(domain.ErrCodeUnavailable, "down", errors.New("dial tcp")), http.StatusServiceUnavailable, "UNAVAILABLE"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range tests {
		status, code := mapError(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func ptr[T any](v T) *T { return &v }

func TestPatchFromRequest(t *testing.T) {
	patch, err := patchFromRequest(transport.EditRequest{
		Title:    ptr("New title"),
		Due:      ptr("2024-03-15T15:00:00+01:00"),
		Tags:     ptr([]string{"a"}),
		Priority: ptr("HIGH"),
		Subtasks: ptr([]transport.SubtaskPayload{{ID: "s1", Title: "one", Done: true}}),
	})
	require.NoError(t, err)
	assert.Equal(t, "New title", *patch.Title)
	require.NotNil(t, patch.Due)
	assert.True(t, patch.Due.Equal(time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)))
	assert.True(t, patch.SetTags)
	assert.Equal(t, domain.PriorityHigh, *patch.Priority)
	assert.True(t, patch.SetSubtasks)
	assert.Equal(t, []domain.Subtask{{ID: "s1", Title: "one", Done: true}}, patch.Subtasks)

	patch, err = patchFromRequest(transport.EditRequest{Due: ptr(" ")})
	require.NoError(t, err)
	assert.True(t, patch.ClearDue)
	assert.False(t, patch.SetTags)
	assert.False(t, patch.SetSubtasks)

	patch, err = patchFromRequest(transport.EditRequest{Subtasks: ptr([]transport.SubtaskPayload{})})
	require.NoError(t, err)
	assert.True(t, patch.SetSubtasks, "an empty list clears the checklist")

	_, err = patchFromRequest(transport.EditRequest{Priority: ptr("urgent")})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	_, err = patchFromRequest(transport.EditRequest{Due: ptr("tomorrow")})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}
