package domain

import (
	"net/url"
	"path"
)

// Post represents one media record discovered by a tag search.
// MD5 is the content hash and the merge/dedup key: two posts with the same
// MD5 are the same logical post. All other fields round-trip untouched into
// metadata emission.
type Post struct {
	ID            int64  `json:"id"`
	CreatedAt     string `json:"created_at"`
	Score         int64  `json:"score"`
	Width         int64  `json:"width"`
	Height        int64  `json:"height"`
	MD5           string `json:"md5"`
	Directory     string `json:"directory"`
	Image         string `json:"image"`
	Rating        string `json:"rating"`
	Source        string `json:"source"`
	Change        int64  `json:"change"`
	Owner         string `json:"owner"`
	CreatorID     int64  `json:"creator_id"`
	ParentID      int64  `json:"parent_id"`
	Sample        int64  `json:"sample"`
	PreviewHeight int64  `json:"preview_height"`
	PreviewWidth  int64  `json:"preview_width"`
	Tags          string `json:"tags"`
	Title         string `json:"title"`
	HasNotes      string `json:"has_notes"`
	HasComments   string `json:"has_comments"`
	FileURL       string `json:"file_url"`
	PreviewURL    string `json:"preview_url"`
	SampleURL     string `json:"sample_url"`
	SampleHeight  int64  `json:"sample_height"`
	SampleWidth   int64  `json:"sample_width"`
	Status        string `json:"status"`
	PostLocked    int64  `json:"post_locked"`
	HasChildren   string `json:"has_children"`
}

// Filename returns the destination filename for the post: the final path
// segment of its file URL. The URL basename is what actually gets fetched,
// so name and content always correspond.
func (p Post) Filename() string {
	u, err := url.Parse(p.FileURL)
	if err != nil {
		return path.Base(p.FileURL)
	}
	return path.Base(u.Path)
}

// SearchAttributes carries the page-independent totals of a search response.
// Count is authoritative and fixed across all pages of one query.
type SearchAttributes struct {
	Limit  int64 `json:"limit"`
	Offset int64 `json:"offset"`
	Count  int64 `json:"count"`
}

// SearchPage is one page of search results. A nil or empty Posts slice
// signals the end of pagination.
type SearchPage struct {
	Attributes SearchAttributes `json:"@attributes"`
	Posts      []Post           `json:"post"`
}

// OutcomeKind tags the terminal result of processing one post.
type OutcomeKind int

const (
	// OutcomeSkipped means the destination file already existed.
	OutcomeSkipped OutcomeKind = iota
	// OutcomeSucceeded means the file was fetched and written.
	OutcomeSucceeded
	// OutcomeFailed means the fetch or write failed; Err carries the cause.
	OutcomeFailed
)

// Outcome is the terminal, non-retried result of attempting to materialize
// one post. Exactly one Outcome is produced per discovered post.
type Outcome struct {
	Kind     OutcomeKind
	Filename string
	Err      error
}
