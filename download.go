package refiner

import "time"

// Download file naming.
const (
	DownloadPrefix = "project_roadmap_"
	ExtText        = ".txt"
	ExtHTML        = ".html"
)

// DownloadFilename builds project_roadmap_<YYYYMMDDThhmmss><ext> from t in
// UTC, i.e. an ISO-8601 timestamp truncated to seconds with colons and
// hyphens stripped.
func DownloadFilename(t time.Time, ext string) string {
	return DownloadPrefix + t.UTC().Format("20060102T150405") + ext
}
