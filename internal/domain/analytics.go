package domain

// FetchRequest is the input to a fetch: raw repo identifiers (not yet
// validated) and an optional bearer token. An empty token disables the
// traffic endpoints.
type FetchRequest struct {
	Repos []string
	Token Secret
}

// Release summarizes one release and its asset downloads.
type Release struct {
	Tag             string `json:"tag"`
	Name            string `json:"name"`
	PublishedAt     string `json:"published_at"`
	AssetsCount     int    `json:"assets_count"`
	AssetsDownloads int64  `json:"assets_downloads"`
}

// TrafficPoint is one day in a views or clones series.
type TrafficPoint struct {
	Timestamp string `json:"timestamp"`
	Count     int64  `json:"count"`
	Uniques   int64  `json:"uniques"`
}

// ViewSeries mirrors the traffic/views response: a reported total plus the
// daily series under the "views" key.
type ViewSeries struct {
	Count   int64          `json:"count"`
	Uniques int64          `json:"uniques"`
	Views   []TrafficPoint `json:"views"`
}

// CloneSeries mirrors the traffic/clones response.
type CloneSeries struct {
	Count   int64          `json:"count"`
	Uniques int64          `json:"uniques"`
	Clones  []TrafficPoint `json:"clones"`
}

// Referrer is one entry of the popular referrers list.
type Referrer struct {
	Referrer string `json:"referrer"`
	Count    int64  `json:"count"`
	Uniques  int64  `json:"uniques"`
}

// PopularPath is one entry of the popular paths list.
type PopularPath struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Count   int64  `json:"count"`
	Uniques int64  `json:"uniques"`
}

// Traffic holds whichever traffic endpoints responded. A sub-field is absent
// when its endpoint failed; the whole block is absent when no token was
// supplied. One endpoint failing must not prevent the others from
// populating.
type Traffic struct {
	Views     *ViewSeries   `json:"views,omitempty"`
	Clones    *CloneSeries  `json:"clones,omitempty"`
	Referrers []Referrer    `json:"referrers,omitempty"`
	Paths     []PopularPath `json:"paths,omitempty"`
}

// RepoAnalytics is one successfully fetched repository record. Numeric
// fields are clamped to [0, MaxCount] and strings are sanitized on
// ingestion.
type RepoAnalytics struct {
	Repo          string `json:"repo"`
	HTMLURL       string `json:"html_url"`
	DefaultBranch string `json:"default_branch"`
	PushedAt      string `json:"pushed_at"`
	UpdatedAt     string `json:"updated_at"`
	CreatedAt     string `json:"created_at"`

	CommitsTotal int64  `json:"commits_total"`
	CommitsError string `json:"commits_error"`

	Views14dTotal  int64 `json:"views_14d_total"`
	Clones14dTotal int64 `json:"clones_14d_total"`

	Stars      int64 `json:"stars"`
	Forks      int64 `json:"forks"`
	Watchers   int64 `json:"watchers"`
	OpenIssues int64 `json:"open_issues"`
	SizeKB     int64 `json:"size_kb"`

	Language  string           `json:"language"`
	Languages map[string]int64 `json:"languages"`

	ReleasesCount              int       `json:"releases_count"`
	ReleaseAssetDownloadsTotal int64     `json:"release_asset_downloads_total"`
	Releases                   []Release `json:"releases"`

	Traffic      *Traffic `json:"traffic,omitempty"`
	TrafficError string   `json:"traffic_error"`
}

// FetchError records a slug that failed entirely, under the identifier the
// caller supplied.
type FetchError struct {
	Repo  string `json:"repo"`
	Error string `json:"error"`
}

// Report is the output of a fetch plus, after aggregation, the totals.
// Every input slug appears exactly once across Repos or Errors.
type Report struct {
	GeneratedAt int64           `json:"generated_at"`
	Repos       []RepoAnalytics `json:"repos"`
	Errors      []FetchError    `json:"errors"`
	Totals      *Totals         `json:"totals,omitempty"`
}

// Totals is the sum-reduction across a report's repo list. It is recomputed
// from scratch on every aggregation, never updated incrementally.
type Totals struct {
	Repos                      int64 `json:"repos"`
	Stars                      int64 `json:"stars"`
	Forks                      int64 `json:"forks"`
	Watchers                   int64 `json:"watchers"`
	OpenIssues                 int64 `json:"open_issues"`
	ReleaseAssetDownloadsTotal int64 `json:"release_asset_downloads_total"`
	Views14dTotal              int64 `json:"views_14d_total"`
	Views14dUnique             int64 `json:"views_14d_unique"`
	Clones14dTotal             int64 `json:"clones_14d_total"`
	Clones14dUnique            int64 `json:"clones_14d_unique"`
	CommitsTotal               int64 `json:"commits_total"`
}
