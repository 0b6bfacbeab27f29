package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// PostService issues listing requests against the posts endpoint.
type PostService struct {
	client *Client
}

type postsResponse struct {
	Posts []Post `json:"posts"`
}

// Post mirrors a single entry of the posts listing. Only a subset of the
// fields matters to this tool, the rest is kept for completeness.
type Post struct {
	ID            int           `json:"id"`
	CreatedAt     string        `json:"created_at"`
	UpdatedAt     string        `json:"updated_at"`
	File          File          `json:"file"`
	Preview       Preview       `json:"preview"`
	Sample        Sample        `json:"sample"`
	Score         Score         `json:"score"`
	Tags          Tags          `json:"tags"`
	LockedTags    []string      `json:"locked_tags"`
	ChangeSeq     int           `json:"change_seq"`
	Flags         Flags         `json:"flags"`
	Rating        Rating        `json:"rating"`
	FavCount      int           `json:"fav_count"`
	Sources       []string      `json:"sources"`
	Pools         []int         `json:"pools"`
	Relationships Relationships `json:"relationships"`
	ApproverID    *int          `json:"approver_id"`
	UploaderID    int           `json:"uploader_id"`
	Description   string        `json:"description"`
	CommentCount  int           `json:"comment_count"`
	IsFavorited   bool          `json:"is_favorited"`
	HasNotes      bool          `json:"has_notes"`
	Duration      *float64      `json:"duration"`
}

type File struct {
	URL    string `json:"url"`
	Ext    string `json:"ext"`
	MD5    string `json:"md5"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int    `json:"size"`
}

type Preview struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type Sample struct {
	Has    bool   `json:"has"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type Score struct {
	Up    int `json:"up"`
	Down  int `json:"down"`
	Total int `json:"total"`
}

type Tags struct {
	General   []string `json:"general"`
	Species   []string `json:"species"`
	Character []string `json:"character"`
	Copyright []string `json:"copyright"`
	Artist    []string `json:"artist"`
	Invalid   []string `json:"invalid"`
	Lore      []string `json:"lore"`
	Meta      []string `json:"meta"`
}

// Contains reports whether the tag appears in any of the tag categories.
func (t *Tags) Contains(tag string) bool {
	for _, category := range [][]string{
		t.General, t.Species, t.Character, t.Copyright,
		t.Artist, t.Invalid, t.Lore, t.Meta,
	} {
		for _, s := range category {
			if s == tag {
				return true
			}
		}
	}
	return false
}

type Flags struct {
	Pending      bool `json:"pending"`
	Flagged      bool `json:"flagged"`
	NoteLocked   bool `json:"note_locked"`
	StatusLocked bool `json:"status_locked"`
	RatingLocked bool `json:"rating_locked"`
	Deleted      bool `json:"deleted"`
}

type Relationships struct {
	ParentID          *int  `json:"parent_id"`
	HasChildren       bool  `json:"has_children"`
	HasActiveChildren bool  `json:"has_active_children"`
	Children          []int `json:"children"`
}

// Rating is the single-letter content rating of a post.
type Rating string

const (
	RatingSafe         Rating = "s"
	RatingQuestionable Rating = "q"
	RatingExplicit     Rating = "e"
)

func (r Rating) String() string {
	switch r {
	case RatingSafe:
		return "safe"
	case RatingQuestionable:
		return "questionable"
	case RatingExplicit:
		return "explicit"
	}
	return string(r)
}

// HasFile reports whether the post carries a downloadable file URL.
func (p *Post) HasFile() bool {
	return p.File.URL != ""
}

// Filename is the deterministic on-disk name for the post's file.
func (p *Post) Filename() string {
	return fmt.Sprintf("%d.%s", p.ID, p.File.Ext)
}

// Dimensions returns the width and height of the post's file.
func (p *Post) Dimensions() (w, h int) {
	return p.File.Width, p.File.Height
}

// Search performs one listing request and returns the posts in the order
// the API returned them.
func (s *PostService) Search(ctx context.Context, opts *SearchOptions) ([]Post, error) {
	res, err := s.client.get(ctx, s.client.searchURL(opts))
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return nil, newAPIError(res)
	}

	var pr postsResponse
	if err := json.NewDecoder(res.Body).Decode(&pr); err != nil {
		return nil, &DecodeError{err: err}
	}

	return pr.Posts, nil
}
