package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/nate2211/github-analytics/internal/domain"
)

const (
	releasePageSize  = 100
	releasePageLimit = 20 // safety ceiling
)

// githubCollector implements Collector against the GitHub REST API. All
// calls are sequential and blocking: metadata, commits, languages, releases
// pages, then traffic sub-calls.
type githubCollector struct {
	baseURL string
	logger  *log.Logger
}

// NewGitHubCollector creates a collector. A nil logger discards progress
// output.
func NewGitHubCollector(logger *log.Logger) Collector {
	if logger == nil {
		logger = log.New(io.Discard, "", log.LstdFlags)
	}
	return &githubCollector{
		baseURL: defaultBaseURL,
		logger:  logger,
	}
}

// Fetch resolves each raw identifier and fetches its analytics in order.
// Every input slug ends up exactly once in the report: in Repos on success,
// in Errors on a parse failure or a metadata failure.
func (g *githubCollector) Fetch(ctx context.Context, req domain.FetchRequest) (*domain.Report, error) {
	client := NewClient(req.Token.Reveal())
	client.baseURL = g.baseURL

	report := &domain.Report{
		GeneratedAt: time.Now().Unix(),
		Repos:       []domain.RepoAnalytics{},
		Errors:      []domain.FetchError{},
	}

	for _, raw := range req.Repos {
		slug, err := domain.ParseRepoSlug(raw)
		if err != nil {
			report.Errors = append(report.Errors, domain.FetchError{
				Repo:  raw,
				Error: "invalid_repo_slug",
			})
			continue
		}

		g.logger.Printf("Fetching analytics for %s...", slug)
		rec, err := g.fetchRepo(ctx, client, slug, req.Token.IsSet())
		if err != nil {
			g.logger.Printf("Failed %s: %v", slug, err)
			report.Errors = append(report.Errors, domain.FetchError{
				Repo:  slug.String(),
				Error: domain.SafeString(err.Error(), 4000),
			})
			continue
		}
		report.Repos = append(report.Repos, *rec)
	}

	return report, nil
}

// repoResponse is the subset of the repository metadata endpoint we read.
type repoResponse struct {
	HTMLURL          string `json:"html_url"`
	DefaultBranch    string `json:"default_branch"`
	PushedAt         string `json:"pushed_at"`
	UpdatedAt        string `json:"updated_at"`
	CreatedAt        string `json:"created_at"`
	StargazersCount  int64  `json:"stargazers_count"`
	ForksCount       int64  `json:"forks_count"`
	SubscribersCount int64  `json:"subscribers_count"`
	OpenIssuesCount  int64  `json:"open_issues_count"`
	Size             int64  `json:"size"`
	Language         string `json:"language"`
}

type releaseResponse struct {
	TagName     string         `json:"tag_name"`
	Name        string         `json:"name"`
	PublishedAt string         `json:"published_at"`
	Assets      []releaseAsset `json:"assets"`
}

type releaseAsset struct {
	DownloadCount int64 `json:"download_count"`
}

// fetchRepo assembles one RepoAnalytics record. A metadata failure aborts
// the slug (metadata is the minimum viable record); commits and languages
// failures are absorbed as warnings; a releases failure aborts the slug.
func (g *githubCollector) fetchRepo(ctx context.Context, client *Client, slug domain.RepoSlug, withTraffic bool) (*domain.RepoAnalytics, error) {
	base := fmt.Sprintf("/repos/%s/%s", slug.Owner, slug.Name)

	var meta repoResponse
	if _, err := client.GetJSON(ctx, base, &meta); err != nil {
		return nil, err
	}

	commitsTotal, commitsErr := g.fetchCommitTotal(ctx, client, base)
	languages := g.fetchLanguages(ctx, client, base)

	releases, downloadsTotal, err := g.fetchReleases(ctx, client, base)
	if err != nil {
		return nil, err
	}

	rec := &domain.RepoAnalytics{
		Repo:          slug.String(),
		HTMLURL:       domain.SafeString(meta.HTMLURL, 256),
		DefaultBranch: domain.SafeString(meta.DefaultBranch, 128),
		PushedAt:      domain.SafeString(meta.PushedAt, 64),
		UpdatedAt:     domain.SafeString(meta.UpdatedAt, 64),
		CreatedAt:     domain.SafeString(meta.CreatedAt, 64),

		CommitsTotal: commitsTotal,
		CommitsError: commitsErr,

		Stars:      domain.ClampCount(meta.StargazersCount),
		Forks:      domain.ClampCount(meta.ForksCount),
		Watchers:   domain.ClampCount(meta.SubscribersCount),
		OpenIssues: domain.ClampCount(meta.OpenIssuesCount),
		SizeKB:     domain.ClampCount(meta.Size),

		Language:  domain.SafeString(meta.Language, 64),
		Languages: languages,

		ReleasesCount:              len(releases),
		ReleaseAssetDownloadsTotal: downloadsTotal,
		Releases:                   releases,
	}

	if withTraffic {
		traffic, trafficErr := g.fetchTraffic(ctx, client, base)
		rec.Traffic = traffic
		rec.TrafficError = trafficErr
		rec.Views14dTotal = viewsFromSeries(traffic.Views)
		rec.Clones14dTotal = clonesFromSeries(traffic.Clones)
	}

	return rec, nil
}

// fetchCommitTotal requests a single commit and reads the total from the
// rel="last" page number. Falls back to the page length when the header is
// missing (repos with at most one commit). Failures yield zero plus a
// warning, never an abort.
func (g *githubCollector) fetchCommitTotal(ctx context.Context, client *Client, base string) (int64, string) {
	var page []json.RawMessage
	headers, err := client.GetJSON(ctx, base+"/commits?per_page=1", &page)
	if err != nil {
		return 0, domain.SafeString(err.Error(), 1200)
	}
	if last, ok := lastPageFromLink(headers.Get("Link")); ok {
		return domain.ClampCount(int64(last)), ""
	}
	return int64(len(page)), ""
}

// fetchLanguages returns the language byte-count breakdown, empty on any
// failure.
func (g *githubCollector) fetchLanguages(ctx context.Context, client *Client, base string) map[string]int64 {
	languages := map[string]int64{}
	if _, err := client.GetJSON(ctx, base+"/languages", &languages); err != nil {
		return map[string]int64{}
	}
	return languages
}

// fetchReleases pages through the releases list until a short page or the
// page-count ceiling, summing asset download counts per release and overall.
func (g *githubCollector) fetchReleases(ctx context.Context, client *Client, base string) ([]domain.Release, int64, error) {
	releases := []domain.Release{}
	var downloadsTotal int64

	for page := 1; page <= releasePageLimit; page++ {
		var chunk []releaseResponse
		path := fmt.Sprintf("%s/releases?per_page=%d&page=%d", base, releasePageSize, page)
		if _, err := client.GetJSON(ctx, path, &chunk); err != nil {
			return nil, 0, err
		}
		if len(chunk) == 0 {
			break
		}

		for _, rel := range chunk {
			var relSum int64
			for _, asset := range rel.Assets {
				relSum += domain.ClampCount(asset.DownloadCount)
			}
			downloadsTotal += relSum
			releases = append(releases, domain.Release{
				Tag:             domain.SafeString(rel.TagName, 128),
				Name:            domain.SafeString(rel.Name, 256),
				PublishedAt:     domain.SafeString(rel.PublishedAt, 64),
				AssetsCount:     len(rel.Assets),
				AssetsDownloads: relSum,
			})
		}

		if len(chunk) < releasePageSize {
			break
		}
	}

	return releases, downloadsTotal, nil
}

// fetchTraffic attempts the four traffic sub-calls independently. Failures
// are joined into a single warning string; the failing sub-key is simply
// absent from the returned block.
func (g *githubCollector) fetchTraffic(ctx context.Context, client *Client, base string) (*domain.Traffic, string) {
	traffic := &domain.Traffic{}
	var errs []string

	var views domain.ViewSeries
	if _, err := client.GetJSON(ctx, base+"/traffic/views?per=day", &views); err != nil {
		errs = append(errs, "views: "+domain.SafeString(err.Error(), 800))
	} else {
		traffic.Views = &views
	}

	var clones domain.CloneSeries
	if _, err := client.GetJSON(ctx, base+"/traffic/clones?per=day", &clones); err != nil {
		errs = append(errs, "clones: "+domain.SafeString(err.Error(), 800))
	} else {
		traffic.Clones = &clones
	}

	var referrers []domain.Referrer
	if _, err := client.GetJSON(ctx, base+"/traffic/popular/referrers", &referrers); err != nil {
		errs = append(errs, "referrers: "+domain.SafeString(err.Error(), 800))
	} else {
		traffic.Referrers = referrers
	}

	var paths []domain.PopularPath
	if _, err := client.GetJSON(ctx, base+"/traffic/popular/paths", &paths); err != nil {
		errs = append(errs, "paths: "+domain.SafeString(err.Error(), 800))
	} else {
		traffic.Paths = paths
	}

	return traffic, strings.TrimSpace(strings.Join(errs, "\n"))
}

// viewsFromSeries derives the 14-day view total. The reported count is
// sometimes zero even when daily entries exist, so the larger of the
// reported count and the series sum wins.
func viewsFromSeries(s *domain.ViewSeries) int64 {
	if s == nil {
		return 0
	}
	base := domain.ClampCount(s.Count)
	if len(s.Views) == 0 {
		return base
	}
	var sum int64
	for _, p := range s.Views {
		sum += domain.ClampCount(p.Count)
	}
	if sum > base {
		return sum
	}
	return base
}

// clonesFromSeries derives the 14-day clone total, same rule as views.
func clonesFromSeries(s *domain.CloneSeries) int64 {
	if s == nil {
		return 0
	}
	base := domain.ClampCount(s.Count)
	if len(s.Clones) == 0 {
		return base
	}
	var sum int64
	for _, p := range s.Clones {
		sum += domain.ClampCount(p.Count)
	}
	if sum > base {
		return sum
	}
	return base
}
