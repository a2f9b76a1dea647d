package utils_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appErrors "github.com/Brooklss/Tech-EcoLab/internal/errors"
	"github.com/Brooklss/Tech-EcoLab/internal/models"
	"github.com/Brooklss/Tech-EcoLab/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    int64
		wantErr bool
	}{
		{name: "Valid", value: "42", want: 42},
		{name: "Zero", value: "0", wantErr: true},
		{name: "Negative", value: "-3", wantErr: true},
		{name: "Not a number", value: "abc", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/products/"+tc.value, nil)
			req.SetPathValue("id", tc.value)

			id, err := utils.ParseID(req, "id")

			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeBadRequest))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, id)
		})
	}
}

func TestParseAndValidate(t *testing.T) {
	validate := validator.New()

	t.Run("Valid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"admin","password":"pw"}`))
		w := httptest.NewRecorder()

		var dest models.LoginRequest
		ok := utils.ParseAndValidate(req, w, &dest, validate)

		assert.True(t, ok)
		assert.Equal(t, "admin", dest.Username)
	})

	t.Run("Empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(""))
		w := httptest.NewRecorder()

		var dest models.LoginRequest
		ok := utils.ParseAndValidate(req, w, &dest, validate)

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), appErrors.ErrCodeBadRequest)
	})

	t.Run("Missing field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"admin"}`))
		w := httptest.NewRecorder()

		var dest models.LoginRequest
		ok := utils.ParseAndValidate(req, w, &dest, validate)

		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), appErrors.ErrCodeValidation)
		assert.Contains(t, w.Body.String(), "Field Password is required")
	})
}

func TestWithDetachedTimeout(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())

	ctx, cancel := utils.WithDetachedTimeout(parent, time.Minute)
	defer cancel()

	cancelParent()

	assert.NoError(t, ctx.Err())
	_, hasDeadline := ctx.Deadline()
	assert.True(t, hasDeadline)
}

func TestSanitizeText(t *testing.T) {
	tests := map[string]string{
		"Plain name":                             "Plain name",
		"  padded  ":                             "padded",
		"<b>Bold</b> deal":                       "Bold deal",
		`<script>alert("x")</script>Laptop`:      "Laptop",
		"Tom & Jerry":                            "Tom & Jerry",
		`<img src=x onerror="alert(1)">Keyboard`: "Keyboard",
	}

	for input, want := range tests {
		assert.Equal(t, want, utils.SanitizeText(input), input)
	}
}
