package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/inkwell-blog/inkwell/domain"
)

// pagedURL appends the pagination query parameters.
func pagedURL(base string, page, size int) string {
	val := url.Values{}
	val.Add("page", fmt.Sprintf("%d", page))
	val.Add("size", fmt.Sprintf("%d", size))
	return base + "?" + val.Encode()
}

// requireToken is the local precondition for mutating operations: without a
// session no request is made at all.
func (c *articleClient) requireToken() error {
	if c.session.Token() == "" {
		return domain.ErrAuthRequired
	}
	return nil
}

func (c *articleClient) List(ctx context.Context, page, size int) (domain.Page, error) {
	req, err := c.newRequest(ctx, http.MethodGet, pagedURL(c.baseURL, page, size), nil)
	if err != nil {
		return domain.Page{}, err
	}
	resp, err := c.do(req)
	if err != nil {
		return domain.Page{}, err
	}
	if !ok(resp) {
		return domain.Page{}, mapStatus(resp)
	}

	var body pageBody
	if err := decodeInto(resp, &body); err != nil {
		return domain.Page{}, err
	}
	return body.ToDomain(), nil
}

func (c *articleClient) GetBySlug(ctx context.Context, slug string) (domain.Article, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.baseURL+"/slug/"+url.PathEscape(slug), nil)
	if err != nil {
		return domain.Article{}, err
	}
	resp, err := c.do(req)
	if err != nil {
		return domain.Article{}, err
	}
	if !ok(resp) {
		// Callers pattern-match on the kind to pick the page to render,
		// so this mapping must stay exact: 404, 403 and 500 each get
		// their own kind and the rest collapse into the network kind.
		return domain.Article{}, mapStatus(resp)
	}

	var body articleBody
	if err := decodeInto(resp, &body); err != nil {
		return domain.Article{}, err
	}
	return body.ToDomain(), nil
}

func (c *articleClient) Create(ctx context.Context, draft domain.ArticleDraft) (domain.Article, error) {
	if err := c.requireToken(); err != nil {
		return domain.Article{}, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.baseURL, newDraftBody(draft))
	if err != nil {
		return domain.Article{}, err
	}
	resp, err := c.do(req)
	if err != nil {
		return domain.Article{}, err
	}
	if !ok(resp) {
		return domain.Article{}, mapStatus(resp)
	}

	var body articleBody
	if err := decodeInto(resp, &body); err != nil {
		return domain.Article{}, err
	}
	return body.ToDomain(), nil
}

func (c *articleClient) Update(ctx context.Context, id int64, draft domain.ArticleDraft) (domain.Article, error) {
	if err := c.requireToken(); err != nil {
		return domain.Article{}, err
	}

	req, err := c.newRequest(ctx, http.MethodPut, fmt.Sprintf("%s/%d", c.baseURL, id), newDraftBody(draft))
	if err != nil {
		return domain.Article{}, err
	}
	resp, err := c.do(req)
	if err != nil {
		return domain.Article{}, err
	}
	if !ok(resp) {
		return domain.Article{}, mapStatus(resp)
	}

	var body articleBody
	if err := decodeInto(resp, &body); err != nil {
		return domain.Article{}, err
	}
	return body.ToDomain(), nil
}

func (c *articleClient) Delete(ctx context.Context, id int64) error {
	if err := c.requireToken(); err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", c.baseURL, id), nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	if !ok(resp) {
		return mapStatus(resp)
	}
	drain(resp)
	return nil
}

func (c *articleClient) ToggleLike(ctx context.Context, id int64) (domain.Article, error) {
	if err := c.requireToken(); err != nil {
		return domain.Article{}, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, fmt.Sprintf("%s/%d/likes", c.baseURL, id), nil)
	if err != nil {
		return domain.Article{}, err
	}
	resp, err := c.do(req)
	if err != nil {
		return domain.Article{}, err
	}
	if !ok(resp) {
		return domain.Article{}, mapStatus(resp)
	}

	// The response is the authoritative post-toggle article; the caller's
	// optimistic guess is overwritten with it.
	var body articleBody
	if err := decodeInto(resp, &body); err != nil {
		return domain.Article{}, err
	}
	return body.ToDomain(), nil
}

func (c *articleClient) ListByUsername(ctx context.Context, username string, page, size int) (domain.Page, error) {
	base := c.baseURL + "/user/" + url.PathEscape(username)
	req, err := c.newRequest(ctx, http.MethodGet, pagedURL(base, page, size), nil)
	if err != nil {
		return domain.Page{}, err
	}
	resp, err := c.do(req)
	if err != nil {
		return domain.Page{}, err
	}
	if !ok(resp) {
		return domain.Page{}, mapStatus(resp)
	}

	var body pageBody
	if err := decodeInto(resp, &body); err != nil {
		return domain.Page{}, err
	}
	return body.ToDomain(), nil
}

func (c *articleClient) ListMine(ctx context.Context) ([]domain.Article, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodGet, c.baseURL+"/user", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if !ok(resp) {
		return nil, mapStatus(resp)
	}

	var bodies []articleBody
	if err := decodeInto(resp, &bodies); err != nil {
		return nil, err
	}
	res := make([]domain.Article, len(bodies))
	for i := range bodies {
		res[i] = bodies[i].ToDomain()
	}
	return res, nil
}
