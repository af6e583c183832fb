package aggregator

import (
	"github.com/nate2211/github-analytics/internal/domain"
)

// Totals reduces a report's repo records into a single totals row.
//
// Stars, forks, watchers, open issues, release downloads and commits are
// summed from the per-repo top-level fields. The view and clone totals are
// summed from each record's traffic block instead, so a record fetched
// without a token contributes zero to them. The two sources are kept
// separate on purpose.
func Totals(report *domain.Report) domain.Totals {
	t := domain.Totals{}
	if report == nil {
		return t
	}

	t.Repos = int64(len(report.Repos))
	for i := range report.Repos {
		r := &report.Repos[i]

		t.Stars += domain.ClampCount(r.Stars)
		t.Forks += domain.ClampCount(r.Forks)
		t.Watchers += domain.ClampCount(r.Watchers)
		t.OpenIssues += domain.ClampCount(r.OpenIssues)
		t.ReleaseAssetDownloadsTotal += domain.ClampCount(r.ReleaseAssetDownloadsTotal)
		t.CommitsTotal += domain.ClampCount(r.CommitsTotal)

		if r.Traffic == nil {
			continue
		}
		if v := r.Traffic.Views; v != nil {
			t.Views14dTotal += domain.ClampCount(v.Count)
			t.Views14dUnique += domain.ClampCount(v.Uniques)
		}
		if c := r.Traffic.Clones; c != nil {
			t.Clones14dTotal += domain.ClampCount(c.Count)
			t.Clones14dUnique += domain.ClampCount(c.Uniques)
		}
	}
	return t
}

// Aggregate attaches freshly computed totals to the report and returns it.
// A nil report yields an empty report with zero totals rather than an error,
// so aggregation is always safe to run after a fetch that produced nothing.
func Aggregate(report *domain.Report) *domain.Report {
	if report == nil {
		report = &domain.Report{
			Repos:  []domain.RepoAnalytics{},
			Errors: []domain.FetchError{},
		}
	}
	t := Totals(report)
	report.Totals = &t
	return report
}
