package shared

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func contextWithAuth(header string) echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestExtractAPIKey(t *testing.T) {
	key, err := ExtractAPIKey(contextWithAuth("Bearer secret-key"))
	require.NoError(t, err)
	require.Equal(t, "secret-key", key)

	// Scheme is case-insensitive
	key, err = ExtractAPIKey(contextWithAuth("bearer secret-key"))
	require.NoError(t, err)
	require.Equal(t, "secret-key", key)

	_, err = ExtractAPIKey(contextWithAuth(""))
	require.ErrorIs(t, err, ErrMissingAuth)

	_, err = ExtractAPIKey(contextWithAuth("Basic dXNlcjpwYXNz"))
	require.ErrorIs(t, err, ErrInvalidFormat)

	_, err = ExtractAPIKey(contextWithAuth("Bearer"))
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestServiceConfigValidate(t *testing.T) {
	valid := ServiceConfig{
		APIKey:           "k",
		BaseURL:          DefaultBaseURL,
		AuthURL:          DefaultAuthURL,
		ProjectID:        "p",
		ModelID:          DefaultModelID,
		InferenceTimeout: DefaultInferenceTimeout,
	}
	require.NoError(t, valid.Validate())

	missingKey := valid
	missingKey.APIKey = ""
	require.Error(t, missingKey.Validate())

	missingProject := valid
	missingProject.ProjectID = ""
	require.Error(t, missingProject.Validate())

	badTimeout := valid
	badTimeout.InferenceTimeout = 0
	require.Error(t, badTimeout.Validate())
}
