package errors

import (
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorWrapsUnknown(t *testing.T) {
	appErr := FromError(sql.ErrConnDone)
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.True(t, errors.Is(appErr, sql.ErrConnDone))
}

func TestCloneMatchesSentinel(t *testing.T) {
	clone := Clone(ErrNotFound, "activity not found")
	assert.Equal(t, "activity not found", clone.Error())
	assert.True(t, errors.Is(clone, ErrNotFound))
	assert.False(t, errors.Is(clone, ErrConflict))
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}

func TestWrapMessage(t *testing.T) {
	err := Wrap(errors.New("dial tcp: timeout"), ErrInternal.Code, ErrInternal.Status, "failed to list activities")
	assert.Equal(t, "failed to list activities: dial tcp: timeout", err.Error())
	assert.Nil(t, FromError(nil))
}
