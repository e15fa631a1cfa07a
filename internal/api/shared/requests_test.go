package shared

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"email":"a@b.co","password":"secret1"}`, false},
		{"empty body", ``, true},
		{"malformed", `{"email":`, true},
		{"trailing object", `{"email":"a@b.co"}{"email":"c@d.co"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			var req testRequest
			err := DecodeJSON(w, r, &req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "a@b.co", req.Email)
		})
	}
}

func TestDecodeJSON_EmptyBody(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("POST", "/", strings.NewReader(""))
	var req testRequest
	assert.ErrorIs(t, DecodeJSON(httptest.NewRecorder(), r, &req), ErrEmptyBody)
}

func TestDecodeJSON_BodyTooLarge(t *testing.T) {
	t.Parallel()

	big := `{"email":"` + strings.Repeat("a", MaxRequestBodyBytes) + `"}`
	r := httptest.NewRequest("POST", "/", strings.NewReader(big))
	var req testRequest
	assert.Error(t, DecodeJSON(httptest.NewRecorder(), r, &req))
}

func TestValidationMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  testRequest
		want string
	}{
		{"missing email", testRequest{Password: "secret1"}, "Invalid email: required field"},
		{"bad email", testRequest{Email: "nope", Password: "secret1"}, "Invalid email: invalid email format"},
		{"short password", testRequest{Email: "a@b.co", Password: "123"}, "Invalid password: must be at least 6 characters"},
		{"long password", testRequest{Email: "a@b.co", Password: strings.Repeat("p", 73)}, "Invalid password: must be at most 72 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.want, ValidationMessage(err))
		})
	}

	assert.NoError(t, ValidateRequest(testRequest{Email: "a@b.co", Password: "secret1"}))
	assert.Equal(t, "Validation error", ValidationMessage(assert.AnError))
}

type selfValidatingRequest struct {
	Title string `json:"title" validate:"required"`
}

func (selfValidatingRequest) Validate() error { return nil }

func TestValidateRequest_AlwaysUsesStructTags(t *testing.T) {
	t.Parallel()

	err := ValidateRequest(selfValidatingRequest{})
	require.Error(t, err)
	assert.Equal(t, "Invalid title: required field", ValidationMessage(err))
}
