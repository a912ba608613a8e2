package middleware

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listingForm struct {
	Status   string `json:"status" binding:"required,listing_status"`
	Category string `json:"category" binding:"required,listing_category"`
	Title    string `json:"title" binding:"required,min=3"`
	Email    string `json:"email" binding:"omitempty,email"`
}

type requestForm struct {
	Type string `json:"type" binding:"required,request_type"`
}

func TestValidationDetails(t *testing.T) {
	require.NoError(t, SetupValidator())

	var form listingForm
	err := binding.JSON.BindBody([]byte(`{"status":"LEASE","category":"CASTLE","title":"ab","email":"nope"}`), &form)
	require.Error(t, err)

	details := ValidationDetails(err)
	require.Len(t, details, 4)
	assert.Equal(t, "status", details[0].Field)
	assert.Equal(t, "Must be FOR_SALE or FOR_RENT", details[0].Message)
	assert.Equal(t, "category", details[1].Field)
	assert.Equal(t, "Unknown listing category", details[1].Message)
	assert.Equal(t, "title", details[2].Field)
	assert.Equal(t, "Must be at least 3 characters", details[2].Message)
	assert.Equal(t, "email", details[3].Field)
	assert.Equal(t, "Invalid email format", details[3].Message)
}

func TestValidationDetails_ValidInput(t *testing.T) {
	require.NoError(t, SetupValidator())

	var form listingForm
	err := binding.JSON.BindBody([]byte(`{"status":"FOR_RENT","category":"HOBBY_GARDEN","title":"Bahçeli ev"}`), &form)

	assert.NoError(t, err)
}

func TestValidationDetails_RequestType(t *testing.T) {
	require.NoError(t, SetupValidator())

	var form requestForm
	err := binding.JSON.BindBody([]byte(`{"type":"SWAP"}`), &form)
	require.Error(t, err)

	details := ValidationDetails(err)
	require.Len(t, details, 1)
	assert.Equal(t, "type", details[0].Field)

	require.NoError(t, binding.JSON.BindBody([]byte(`{"type":"LET"}`), &form))
}

func TestValidationDetails_NonValidationError(t *testing.T) {
	assert.Nil(t, ValidationDetails(errors.New("unexpected EOF")))
}
