package request

import "github.com/inkwell-blog/inkwell/domain"

// Article is the editor form for creating and updating articles. Validation
// here mirrors what the backend enforces so most mistakes are caught before
// a request goes out.
type Article struct {
	Title       string `form:"title" binding:"required,max=200"`
	Description string `form:"description" binding:"required,max=500"`
	Content     string `form:"content" binding:"required"`
	Slug        string `form:"slug" binding:"required,max=100,excludesall= "`
	ImageURL    string `form:"imageUrl" binding:"omitempty,url"`
}

// ToDomain: Request -> Domain
func (r *Article) ToDomain() domain.ArticleDraft {
	return domain.ArticleDraft{
		Title:       r.Title,
		Description: r.Description,
		Content:     r.Content,
		Slug:        r.Slug,
		ImageURL:    r.ImageURL,
	}
}
