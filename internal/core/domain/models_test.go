package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		name    string
		fileURL string
		want    string
	}{
		{"plain", "https://img.example.com/images/ab/cd/abc123.png", "abc123.png"},
		{"query ignored", "https://img.example.com/abc123.jpg?download=1", "abc123.jpg"},
		{"no directory", "https://img.example.com/abc123.gif", "abc123.gif"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Post{FileURL: tt.fileURL}
			assert.Equal(t, tt.want, p.Filename())
		})
	}
}

func TestSearchPageDecode(t *testing.T) {
	body := `{
		"@attributes": {"limit": 100, "offset": 0, "count": 2},
		"post": [
			{"id": 1, "md5": "aaa", "file_url": "https://img.example.com/a.png", "owner": "someone", "post_locked": 1},
			{"id": 2, "md5": "bbb", "file_url": "https://img.example.com/b.png", "tags": "tag_a tag_b"}
		]
	}`

	var page SearchPage
	require.NoError(t, json.Unmarshal([]byte(body), &page))

	assert.Equal(t, int64(2), page.Attributes.Count)
	require.Len(t, page.Posts, 2)
	assert.Equal(t, "aaa", page.Posts[0].MD5)
	assert.Equal(t, "someone", page.Posts[0].Owner)
	assert.Equal(t, int64(1), page.Posts[0].PostLocked)
	assert.Equal(t, "tag_a tag_b", page.Posts[1].Tags)
}

func TestSearchPageDecodeNoPosts(t *testing.T) {
	// The final page carries attributes but no post array.
	body := `{"@attributes": {"limit": 100, "offset": 300, "count": 250}}`

	var page SearchPage
	require.NoError(t, json.Unmarshal([]byte(body), &page))
	assert.Empty(t, page.Posts)
	assert.Equal(t, int64(250), page.Attributes.Count)
}

func TestPostRoundTrip(t *testing.T) {
	// Fields the pipeline never reads still have to survive emission.
	in := `{"id": 7, "md5": "ccc", "file_url": "https://img.example.com/c.png", "owner": "artist", "source": "https://example.org/orig", "status": "active", "has_children": "true"}`

	var p Post
	require.NoError(t, json.Unmarshal([]byte(in), &p))

	out, err := json.Marshal(p)
	require.NoError(t, err)

	var p2 Post
	require.NoError(t, json.Unmarshal(out, &p2))
	assert.Equal(t, p, p2)
	assert.Equal(t, "artist", p2.Owner)
	assert.Equal(t, "https://example.org/orig", p2.Source)
}
