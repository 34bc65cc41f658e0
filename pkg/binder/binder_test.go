package binder_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohnish27-dev/protocol-zero/pkg/binder"
)

type snapshotRequest struct {
	Repository string  `json:"repository"`
	Health     float64 `json:"health"`
	Tests      *int    `json:"tests,omitempty"`
}

func jsonRequest(body, contentType string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/insights", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("decodes body", func(t *testing.T) {
		t.Parallel()
		var v snapshotRequest
		err := binder.JSON(0)(jsonRequest(`{"repository":"acme/api","health":81.5,"tests":3}`, "application/json; charset=utf-8"), &v)
		require.NoError(t, err)
		assert.Equal(t, "acme/api", v.Repository)
		assert.Equal(t, 81.5, v.Health)
		require.NotNil(t, v.Tests)
		assert.Equal(t, 3, *v.Tests)
	})

	tests := []struct {
		name        string
		body        string
		contentType string
		maxSize     int64
		want        error
	}{
		{"missing content type", `{}`, "", 0, binder.ErrMissingContentType},
		{"wrong media type", `{}`, "text/plain", 0, binder.ErrUnsupportedMediaType},
		{"empty body", ``, "application/json", 0, binder.ErrFailedToParseJSON},
		{"malformed", `{"repository":`, "application/json", 0, binder.ErrFailedToParseJSON},
		{"unknown field", `{"stars":3}`, "application/json", 0, binder.ErrFailedToParseJSON},
		{"type mismatch", `{"health":"high"}`, "application/json", 0, binder.ErrFailedToParseJSON},
		{"trailing data", `{"repository":"a"}{"repository":"b"}`, "application/json", 0, binder.ErrFailedToParseJSON},
		{"too large", `{"repository":"acme/api"}`, "application/json", 8, binder.ErrBodyTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var v snapshotRequest
			err := binder.JSON(tt.maxSize)(jsonRequest(tt.body, tt.contentType), &v)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPath(t *testing.T) {
	t.Parallel()

	type pathRequest struct {
		UserID   string `path:"userID"`
		Page     int    `path:"page"`
		Pro      *bool  `path:"pro"`
		Internal string `path:"-"`
	}

	params := map[string]string{"userID": "user-1", "page": "2", "pro": "true", "Internal": "x"}
	extractor := func(_ *http.Request, key string) string { return params[key] }
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	t.Run("binds tagged fields", func(t *testing.T) {
		t.Parallel()
		var v pathRequest
		require.NoError(t, binder.Path(extractor)(req, &v))
		assert.Equal(t, "user-1", v.UserID)
		assert.Equal(t, 2, v.Page)
		require.NotNil(t, v.Pro)
		assert.True(t, *v.Pro)
		assert.Empty(t, v.Internal)
	})

	t.Run("missing params keep zero values", func(t *testing.T) {
		t.Parallel()
		var v pathRequest
		require.NoError(t, binder.Path(func(*http.Request, string) string { return "" })(req, &v))
		assert.Empty(t, v.UserID)
		assert.Nil(t, v.Pro)
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Parallel()
		var v pathRequest
		bad := func(_ *http.Request, key string) string {
			if key == "page" {
				return "two"
			}
			return ""
		}
		assert.ErrorIs(t, binder.Path(bad)(req, &v), binder.ErrFailedToParsePath)
	})

	t.Run("invalid targets", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, binder.Path(nil)(req, &pathRequest{}), binder.ErrFailedToParsePath)
		assert.ErrorIs(t, binder.Path(extractor)(req, pathRequest{}), binder.ErrFailedToParsePath)
		var s string
		assert.ErrorIs(t, binder.Path(extractor)(req, &s), binder.ErrFailedToParsePath)
	})
}
