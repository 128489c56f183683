package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultMarker is rendered when no live count is available under the marker policy.
const DefaultMarker = "N/A"

// Repo identifies a GitHub repository by owner and name.
type Repo struct {
	Owner string
	Name  string
}

// FullName returns "owner/name".
func (r Repo) FullName() string {
	return r.Owner + "/" + r.Name
}

// APIPath returns the repository metadata path relative to the API root.
func (r Repo) APIPath() string {
	return fmt.Sprintf("/repos/%s/%s", r.Owner, r.Name)
}

// HTMLURL returns the repository page under the given site base.
func (r Repo) HTMLURL(base string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(base, "/"), r.Owner, r.Name)
}

// StarCount is either a known non-negative count or an unavailable marker.
type StarCount struct {
	value  int64
	known  bool
	marker string
}

// Known wraps a live or default count.
func Known(n int64) StarCount {
	return StarCount{value: n, known: true}
}

// Unavailable wraps a textual marker such as "N/A".
func Unavailable(marker string) StarCount {
	if marker == "" {
		marker = DefaultMarker
	}
	return StarCount{marker: marker}
}

// Value reports the numeric count and whether one is present.
func (c StarCount) Value() (int64, bool) {
	return c.value, c.known
}

func (c StarCount) String() string {
	if c.known {
		return strconv.FormatInt(c.value, 10)
	}
	if c.marker == "" {
		return DefaultMarker
	}
	return c.marker
}

// StarsText is the display sentence for a count.
func StarsText(c StarCount) string {
	return c.String() + " stars on GitHub"
}

// Resolution is the outcome of resolving a count for one page load.
type Resolution struct {
	Repo       Repo
	Count      StarCount
	Live       bool
	ErrorKind  string
	ResolvedAt time.Time
}

// Text returns the rendered sentence for the resolution.
func (r Resolution) Text() string {
	return StarsText(r.Count)
}
