package response

import (
	"errors"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipstream/user-service/internal/lib/apperr"
)

func TestOK(t *testing.T) {
	resp := OK()
	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.Nil(t, resp.Data)
}

func TestStatusOKWithMessage(t *testing.T) {
	resp := StatusOKWithMessage(map[string]string{"uid": "uid-1"}, "user registered successfully")
	assert.Equal(t, StatusOK, resp.Status)
	assert.Equal(t, "user registered successfully", resp.Message)
	assert.NotNil(t, resp.Data)
}

func TestAppError(t *testing.T) {
	resp := AppError(apperr.Conflict("user with email or username already exists"))
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "user with email or username already exists", resp.Error)

	resp = AppError(errors.New("pq: connection refused"))
	assert.Equal(t, "internal server error", resp.Error)
}

func TestValidationError(t *testing.T) {
	type request struct {
		Username string `validate:"required,min=3,max=50"`
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=6"`
	}

	v := validator.New()
	err := v.Struct(request{Username: "ab", Email: "not-an-email", Password: ""})
	require.Error(t, err)

	var validateErr validator.ValidationErrors
	require.ErrorAs(t, err, &validateErr)

	resp := ValidationError(validateErr)
	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Username is too short")
	assert.Contains(t, resp.Error, "field Email must contain a valid email")
	assert.Contains(t, resp.Error, "field Password is a required field")
}
