package collector

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nate2211/github-analytics/internal/domain"
)

// newTestCollector points a collector at a mock server.
func newTestCollector(server *httptest.Server) *githubCollector {
	return &githubCollector{
		baseURL: server.URL,
		logger:  log.New(io.Discard, "", log.LstdFlags),
	}
}

// repoMux builds a handler serving the standard endpoint set for owner/repo
// with sensible defaults; individual routes can be overridden.
func repoMux(t *testing.T, overrides map[string]http.HandlerFunc) *http.ServeMux {
	t.Helper()
	mux := http.NewServeMux()

	routes := map[string]http.HandlerFunc{
		"/repos/owner/repo": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{
				"html_url": "https://github.com/owner/repo",
				"default_branch": "main",
				"pushed_at": "2024-05-01T10:00:00Z",
				"updated_at": "2024-05-02T10:00:00Z",
				"created_at": "2020-01-01T10:00:00Z",
				"stargazers_count": 120,
				"forks_count": 30,
				"subscribers_count": 12,
				"open_issues_count": 5,
				"size": 2048,
				"language": "Go"
			}`)
		},
		"/repos/owner/repo/commits": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "1", r.URL.Query().Get("per_page"))
			w.Header().Set("Link", `<`+r.Host+`/repos/owner/repo/commits?per_page=1&page=2>; rel="next", <https://api.github.com/repos/owner/repo/commits?per_page=1&page=321>; rel="last"`)
			fmt.Fprint(w, `[{"sha": "abc"}]`)
		},
		"/repos/owner/repo/languages": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"Go": 9000, "Makefile": 100}`)
		},
		"/repos/owner/repo/releases": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("page") != "1" {
				fmt.Fprint(w, `[]`)
				return
			}
			fmt.Fprint(w, `[{
				"tag_name": "v1.0.0",
				"name": "First",
				"published_at": "2024-01-01T00:00:00Z",
				"assets": [{"download_count": 10}, {"download_count": 5}]
			}]`)
		},
		"/repos/owner/repo/traffic/views": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "day", r.URL.Query().Get("per"))
			fmt.Fprint(w, `{"count": 40, "uniques": 10, "views": [{"timestamp": "2024-05-01T00:00:00Z", "count": 25, "uniques": 6}, {"timestamp": "2024-05-02T00:00:00Z", "count": 25, "uniques": 4}]}`)
		},
		"/repos/owner/repo/traffic/clones": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"count": 8, "uniques": 3, "clones": [{"timestamp": "2024-05-01T00:00:00Z", "count": 4, "uniques": 2}]}`)
		},
		"/repos/owner/repo/traffic/popular/referrers": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[{"referrer": "news.ycombinator.com", "count": 50, "uniques": 40}]`)
		},
		"/repos/owner/repo/traffic/popular/paths": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[{"path": "/owner/repo", "title": "repo", "count": 30, "uniques": 20}]`)
		},
	}
	for path, fn := range overrides {
		routes[path] = fn
	}
	for path, fn := range routes {
		mux.HandleFunc(path, fn)
	}
	return mux
}

func TestFetch_HappyPathWithToken(t *testing.T) {
	var sawAuth bool
	mux := repoMux(t, nil)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			sawAuth = true
		}
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		assert.Equal(t, "github-analytics", r.Header.Get("User-Agent"))
		mux.ServeHTTP(w, r)
	}))
	defer server.Close()

	col := newTestCollector(server)
	report, err := col.Fetch(context.Background(), domain.FetchRequest{
		Repos: []string{"owner/repo"},
		Token: domain.NewSecret("test-token"),
	})
	require.NoError(t, err)
	require.Len(t, report.Repos, 1)
	assert.Empty(t, report.Errors)
	assert.True(t, sawAuth, "token should be sent as Authorization header")
	assert.NotZero(t, report.GeneratedAt)

	r := report.Repos[0]
	assert.Equal(t, "owner/repo", r.Repo)
	assert.Equal(t, "https://github.com/owner/repo", r.HTMLURL)
	assert.Equal(t, "main", r.DefaultBranch)
	assert.Equal(t, int64(120), r.Stars)
	assert.Equal(t, int64(30), r.Forks)
	assert.Equal(t, int64(12), r.Watchers)
	assert.Equal(t, int64(5), r.OpenIssues)
	assert.Equal(t, int64(2048), r.SizeKB)
	assert.Equal(t, "Go", r.Language)
	assert.Equal(t, map[string]int64{"Go": 9000, "Makefile": 100}, r.Languages)

	// commit total comes from the rel="last" page number
	assert.Equal(t, int64(321), r.CommitsTotal)
	assert.Empty(t, r.CommitsError)

	assert.Equal(t, 1, r.ReleasesCount)
	assert.Equal(t, int64(15), r.ReleaseAssetDownloadsTotal)
	require.Len(t, r.Releases, 1)
	assert.Equal(t, "v1.0.0", r.Releases[0].Tag)
	assert.Equal(t, 2, r.Releases[0].AssetsCount)
	assert.Equal(t, int64(15), r.Releases[0].AssetsDownloads)

	require.NotNil(t, r.Traffic)
	assert.Empty(t, r.TrafficError)
	require.NotNil(t, r.Traffic.Views)
	assert.Equal(t, int64(40), r.Traffic.Views.Count)
	require.NotNil(t, r.Traffic.Clones)
	assert.Equal(t, int64(8), r.Traffic.Clones.Count)
	require.Len(t, r.Traffic.Referrers, 1)
	require.Len(t, r.Traffic.Paths, 1)

	// the larger of reported count and daily sum wins per series
	assert.Equal(t, int64(50), r.Views14dTotal) // 25+25 > 40
	assert.Equal(t, int64(8), r.Clones14dTotal) // 4 < 8
}

func TestFetch_WithoutTokenSkipsTraffic(t *testing.T) {
	mux := repoMux(t, map[string]http.HandlerFunc{
		"/repos/owner/repo/traffic/views": func(w http.ResponseWriter, r *http.Request) {
			t.Error("traffic endpoint should not be called without a token")
		},
	})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		mux.ServeHTTP(w, r)
	}))
	defer server.Close()

	col := newTestCollector(server)
	report, err := col.Fetch(context.Background(), domain.FetchRequest{
		Repos: []string{"owner/repo"},
	})
	require.NoError(t, err)
	require.Len(t, report.Repos, 1)

	r := report.Repos[0]
	assert.Nil(t, r.Traffic)
	assert.Empty(t, r.TrafficError)
	assert.Zero(t, r.Views14dTotal)
	assert.Zero(t, r.Clones14dTotal)
}

func TestFetch_MetadataFailureRecordsError(t *testing.T) {
	mux := repoMux(t, map[string]http.HandlerFunc{
		"/repos/owner/repo": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message": "Not Found"}`)
		},
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	col := newTestCollector(server)
	report, err := col.Fetch(context.Background(), domain.FetchRequest{
		Repos: []string{"owner/repo"},
	})
	require.NoError(t, err)
	assert.Empty(t, report.Repos)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "owner/repo", report.Errors[0].Repo)
	assert.Contains(t, report.Errors[0].Error, "404")
}

func TestFetch_CommitFailureIsNonFatal(t *testing.T) {
	mux := repoMux(t, map[string]http.HandlerFunc{
		"/repos/owner/repo/commits": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			fmt.Fprint(w, `{"message": "Git Repository is empty."}`)
		},
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	col := newTestCollector(server)
	report, err := col.Fetch(context.Background(), domain.FetchRequest{
		Repos: []string{"owner/repo"},
	})
	require.NoError(t, err)
	require.Len(t, report.Repos, 1)

	r := report.Repos[0]
	assert.Zero(t, r.CommitsTotal)
	assert.Contains(t, r.CommitsError, "409")
	assert.Equal(t, int64(120), r.Stars)
}

func TestFetch_CommitTotalFallsBackToPageLength(t *testing.T) {
	mux := repoMux(t, map[string]http.HandlerFunc{
		"/repos/owner/repo/commits": func(w http.ResponseWriter, r *http.Request) {
			// single-commit repo: no Link header at all
			fmt.Fprint(w, `[{"sha": "abc"}]`)
		},
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	col := newTestCollector(server)
	report, err := col.Fetch(context.Background(), domain.FetchRequest{
		Repos: []string{"owner/repo"},
	})
	require.NoError(t, err)
	require.Len(t, report.Repos, 1)
	assert.Equal(t, int64(1), report.Repos[0].CommitsTotal)
	assert.Empty(t, report.Repos[0].CommitsError)
}

func TestFetch_LanguagesFailureYieldsEmptyMap(t *testing.T) {
	mux := repoMux(t, map[string]http.HandlerFunc{
		"/repos/owner/repo/languages": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"message": "Forbidden"}`)
		},
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	col := newTestCollector(server)
	report, err := col.Fetch(context.Background(), domain.FetchRequest{
		Repos: []string{"owner/repo"},
	})
	require.NoError(t, err)
	require.Len(t, report.Repos, 1)
	assert.Empty(t, report.Repos[0].Languages)
	assert.NotNil(t, report.Repos[0].Languages)
}

func TestFetch_ReleasesFailureAbortsSlug(t *testing.T) {
	mux := repoMux(t, map[string]http.HandlerFunc{
		"/repos/owner/repo/releases": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"message": "boom"}`)
		},
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	col := newTestCollector(server)
	report, err := col.Fetch(context.Background(), domain.FetchRequest{
		Repos: []string{"owner/repo"},
	})
	require.NoError(t, err)
	assert.Empty(t, report.Repos)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0].Error, "500")
}

func TestFetch_TrafficFailuresAreIndependent(t *testing.T) {
	mux := repoMux(t, map[string]http.HandlerFunc{
		"/repos/owner/repo/traffic/views": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"message": "Must have push access"}`)
		},
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	col := newTestCollector(server)
	report, err := col.Fetch(context.Background(), domain.FetchRequest{
		Repos: []string{"owner/repo"},
		Token: domain.NewSecret("test-token"),
	})
	require.NoError(t, err)
	require.Len(t, report.Repos, 1)

	r := report.Repos[0]
	require.NotNil(t, r.Traffic)
	assert.Nil(t, r.Traffic.Views)
	assert.NotNil(t, r.Traffic.Clones)
	assert.NotEmpty(t, r.Traffic.Referrers)
	assert.Contains(t, r.TrafficError, "views:")
	assert.NotContains(t, r.TrafficError, "clones:")
	assert.Zero(t, r.Views14dTotal)
	assert.Equal(t, int64(8), r.Clones14dTotal)
}

func TestFetch_MalformedSlugAmongValidOnes(t *testing.T) {
	mux := repoMux(t, nil)
	server := httptest.NewServer(mux)
	defer server.Close()

	col := newTestCollector(server)
	report, err := col.Fetch(context.Background(), domain.FetchRequest{
		Repos: []string{"owner/repo", "not-a-slug", "  owner/repo  "},
	})
	require.NoError(t, err)
	assert.Len(t, report.Repos, 2)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "not-a-slug", report.Errors[0].Repo)
	assert.Equal(t, "invalid_repo_slug", report.Errors[0].Error)
}

func TestFetch_DeterministicModuloTimestamp(t *testing.T) {
	mux := repoMux(t, nil)
	server := httptest.NewServer(mux)
	defer server.Close()

	col := newTestCollector(server)
	req := domain.FetchRequest{
		Repos: []string{"owner/repo"},
		Token: domain.NewSecret("test-token"),
	}

	first, err := col.Fetch(context.Background(), req)
	require.NoError(t, err)
	second, err := col.Fetch(context.Background(), req)
	require.NoError(t, err)

	first.GeneratedAt = 0
	second.GeneratedAt = 0
	assert.Equal(t, first, second)
}

func TestViewsFromSeries(t *testing.T) {
	assert.Zero(t, viewsFromSeries(nil))

	// reported count wins when larger
	s := &domain.ViewSeries{Count: 100, Views: []domain.TrafficPoint{{Count: 10}, {Count: 20}}}
	assert.Equal(t, int64(100), viewsFromSeries(s))

	// series sum wins when larger
	s = &domain.ViewSeries{Count: 5, Views: []domain.TrafficPoint{{Count: 10}, {Count: 20}}}
	assert.Equal(t, int64(30), viewsFromSeries(s))

	// negative daily values are clamped before summing
	s = &domain.ViewSeries{Count: 5, Views: []domain.TrafficPoint{{Count: -10}, {Count: 20}}}
	assert.Equal(t, int64(20), viewsFromSeries(s))

	// empty series falls back to the reported count
	s = &domain.ViewSeries{Count: 7}
	assert.Equal(t, int64(7), viewsFromSeries(s))
}
