package domain

import "time"

// Backup is a point-in-time snapshot of a site's deployed tree.
// The ID encodes site name and creation time (<site>_<YYYYMMDD_HHMMSS>),
// so lexical order on IDs of one site matches chronological order.
type Backup struct {
	ID        string    `json:"id"`
	SiteName  string    `json:"site_name"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}
