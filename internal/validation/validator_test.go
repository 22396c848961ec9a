package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/authstarter/internal/apperr"
)

type testRequest struct {
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required,min=8"`
	FullName *string `json:"full_name" validate:"omitempty,max=10"`
}

type testForm struct {
	Username string `form:"username" validate:"required"`
}

func TestStruct(t *testing.T) {
	longName := "very long full name"

	tests := []struct {
		req        any
		name       string
		wantFields []string
	}{
		{
			name: "valid",
			req:  &testRequest{Email: "a@test.com", Password: "12345678"},
		},
		{
			name:       "missing email and password",
			req:        &testRequest{},
			wantFields: []string{"email", "password"},
		},
		{
			name:       "invalid email",
			req:        &testRequest{Email: "not-an-email", Password: "12345678"},
			wantFields: []string{"email"},
		},
		{
			name:       "short password",
			req:        &testRequest{Email: "a@test.com", Password: "1234"},
			wantFields: []string{"password"},
		},
		{
			name:       "long full name",
			req:        &testRequest{Email: "a@test.com", Password: "12345678", FullName: &longName},
			wantFields: []string{"full_name"},
		},
		{
			name:       "form tag name",
			req:        &testForm{},
			wantFields: []string{"username"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.req)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			appErr := apperr.As(err)
			assert.Equal(t, apperr.KindValidation, appErr.Kind)

			fields := make([]string, 0, len(appErr.Details))
			for _, d := range appErr.Details {
				fields = append(fields, d.Field)
				assert.NotEmpty(t, d.Message)
			}
			assert.ElementsMatch(t, tt.wantFields, fields)
		})
	}
}

func TestStruct_Messages(t *testing.T) {
	err := Struct(&testRequest{Email: "bad", Password: "1"})
	require.Error(t, err)

	messages := map[string]string{}
	for _, d := range apperr.As(err).Details {
		messages[d.Field] = d.Message
	}

	assert.Equal(t, "must be a valid email address", messages["email"])
	assert.Equal(t, "must be at least 8 characters", messages["password"])
}
