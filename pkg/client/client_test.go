package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	testCases := []struct {
		name        string
		handlerFunc func(w http.ResponseWriter, r *http.Request)
		expectError bool
	}{
		{
			name: "healthy",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"status": "ok"}`)
			},
		},
		{
			name: "unhealthy status",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `{"status": "degraded"}`)
			},
			expectError: true,
		},
		{
			name: "server error",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tc.handlerFunc))
			defer server.Close()

			err := NewClient(server.URL).HealthCheck()
			if tc.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFetchAnalytics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/analytics", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "t0ken", body["token"])

		fmt.Fprint(w, `{"data": {"generated_at": 1700000000, "repos": [{"repo": "owner/repo", "stars": 3}], "errors": [], "totals": {"repos": 1, "stars": 3}}}`)
	}))
	defer server.Close()

	report, err := NewClient(server.URL).FetchAnalytics([]string{"owner/repo"}, "t0ken")
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, int64(1700000000), report.GeneratedAt)
	require.Len(t, report.Repos, 1)
	assert.Equal(t, int64(3), report.Repos[0].Stars)
	require.NotNil(t, report.Totals)
	assert.Equal(t, int64(1), report.Totals.Repos)
}

func TestFetchAnalytics_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error": {"code": "BAD_REQUEST", "message": "no repositories specified"}}`)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).FetchAnalytics(nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no repositories specified")
}

func TestPresetMethods(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/presets":
			fmt.Fprint(w, `{"data": {"presets": {"work": ["a/b"]}, "active_preset": "work"}}`)
		case r.Method == http.MethodPut && r.URL.Path == "/api/v1/presets/home":
			fmt.Fprint(w, `{"data": {"presets": {"work": ["a/b"], "home": ["c/d"]}, "active_preset": "home"}}`)
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/presets/work/activate":
			fmt.Fprint(w, `{"data": {"active_preset": "work", "repos": ["a/b"]}}`)
		case r.Method == http.MethodDelete && r.URL.Path == "/api/v1/presets/home":
			fmt.Fprint(w, `{"data": {"presets": {"work": ["a/b"]}, "active_preset": "work"}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := NewClient(server.URL)

	presets, err := c.GetPresets()
	require.NoError(t, err)
	assert.Equal(t, "work", presets.ActivePreset)
	assert.Equal(t, []string{"a/b"}, presets.Presets["work"])

	presets, err = c.SavePreset("home", []string{"c/d"})
	require.NoError(t, err)
	assert.Equal(t, "home", presets.ActivePreset)

	require.NoError(t, c.ActivatePreset("work"))

	presets, err = c.DeletePreset("home")
	require.NoError(t, err)
	assert.NotContains(t, presets.Presets, "home")
}
