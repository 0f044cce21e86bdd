package api

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/inkwell-blog/inkwell/domain"
)

// looseBool accepts the loosely-typed truthy/falsy values the backend has
// been observed to send for the viewer-liked flag (bool, number, string,
// null) and coerces them to a strict bool.
type looseBool bool

func (b *looseBool) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*b = false
		return nil
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool:
		*b = looseBool(t)
	case float64:
		*b = t != 0
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		*b = s != "" && s != "0" && s != "false"
	default:
		*b = false
	}
	return nil
}

// apiTime tolerates both RFC 3339 and the backend's zone-less timestamps.
type apiTime struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func (t *apiTime) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil || s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	t.Time = time.Time{}
	return nil
}

// articleBody is the article as it appears on the wire.
type articleBody struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Content        string  `json:"content"`
	Slug           string  `json:"slug"`
	ImageURL       string  `json:"imageUrl"`
	AuthorUsername string  `json:"authorUsername"`
	AuthorID       int64   `json:"authorId"`
	CreatedAt      apiTime `json:"createdAt"`
	LikeCount      int64   `json:"likeCount"`
	// The wire field name is a historical backend typo and load-bearing.
	HasLiked looseBool `json:"hashLiked"`
}

// ToDomain: wire -> Domain
func (a articleBody) ToDomain() domain.Article {
	return domain.Article{
		ID:             a.ID,
		Title:          a.Title,
		Description:    a.Description,
		Content:        a.Content,
		Slug:           a.Slug,
		ImageURL:       a.ImageURL,
		AuthorUsername: a.AuthorUsername,
		AuthorID:       a.AuthorID,
		CreatedAt:      a.CreatedAt.Time,
		LikeCount:      a.LikeCount,
		HasLiked:       bool(a.HasLiked),
	}
}

// pageBody is the paginated envelope as it appears on the wire.
type pageBody struct {
	Content       []articleBody `json:"content"`
	TotalPages    int           `json:"totalPages"`
	TotalElements int64         `json:"totalElements"`
	Size          int           `json:"size"`
	Number        int           `json:"number"`
}

func (p pageBody) ToDomain() domain.Page {
	content := make([]domain.Article, len(p.Content))
	for i := range p.Content {
		content[i] = p.Content[i].ToDomain()
	}
	return domain.Page{
		Content:       content,
		Number:        p.Number,
		TotalPages:    p.TotalPages,
		TotalElements: p.TotalElements,
		Size:          p.Size,
	}
}

// draftBody is the create/update request payload.
type draftBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Slug        string `json:"slug"`
	ImageURL    string `json:"imageUrl"`
}

// newDraftBody: Domain -> wire
func newDraftBody(d domain.ArticleDraft) draftBody {
	return draftBody{
		Title:       d.Title,
		Description: d.Description,
		Content:     d.Content,
		Slug:        d.Slug,
		ImageURL:    d.ImageURL,
	}
}

type errorBody struct {
	Message string `json:"message"`
}
