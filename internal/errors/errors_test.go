package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_HTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, CodeNotFound.HTTPStatus())
	assert.Equal(t, http.StatusConflict, CodeAlreadyExists.HTTPStatus())
	assert.Equal(t, http.StatusConflict, CodeConflict.HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, CodeValidation.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, CodeInternal.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, Code("UNKNOWN").HTTPStatus())
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := Conflict("venue a is busy")

	assert.True(t, Is(err, ErrConflict))
	assert.False(t, Is(err, ErrNotFound))
}

func TestError_WrappedCauseSurvives(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(cause, CodeInternal, "save failed")

	assert.True(t, Is(err, ErrInternal))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "disk full")
}

func TestError_WithDetails(t *testing.T) {
	err := Conflict("busy").WithDetails(map[string]string{"venue_id": "venue-a"})

	var domainErr *Error
	assert.True(t, As(err, &domainErr))
	assert.Equal(t, map[string]string{"venue_id": "venue-a"}, domainErr.Details)
	// Details do not change identity.
	assert.True(t, Is(err, ErrConflict))
}

func TestError_WithCause(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Internal("store write").WithCause(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus())
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, "event evt-1 not found", NotFoundf("event %s not found", "evt-1").Message)
	assert.Equal(t, CodeValidation, Validationf("bad %s", "slot").Code)
	assert.Equal(t, CodeAlreadyExists, AlreadyExistsf("id %s taken", "x").Code)
}
