package collector

import (
	"net/url"
	"strconv"
	"strings"
)

// lastPageFromLink extracts the page number of the rel="last" entry from an
// RFC 5988 Link header (comma-separated `<url>; rel="type"` entries).
// Requesting per_page=1 makes that number the exact total count of a
// collection without paging through it. Returns false when the header has no
// usable rel="last" entry; callers fall back to a different count strategy.
func lastPageFromLink(header string) (int, bool) {
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" || !strings.Contains(strings.ToLower(part), `rel="last"`) {
			continue
		}
		start := strings.Index(part, "<")
		end := strings.Index(part, ">")
		if start < 0 || end < start+1 {
			continue
		}
		u, err := url.Parse(part[start+1 : end])
		if err != nil {
			continue
		}
		page, err := strconv.Atoi(u.Query().Get("page"))
		if err != nil || page <= 0 {
			continue
		}
		return page, true
	}
	return 0, false
}
