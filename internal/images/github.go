// Package images uploads article cover images to a GitHub repository through
// the Contents API and hands back publicly resolvable download URLs.
package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	defaultAPIURL = "https://api.github.com"
	defaultBranch = "master"
	uploadDir     = "images"

	// maxImageSize keeps oversized uploads out of the repository.
	maxImageSize = 5 << 20

	defaultTimeout = 30 * time.Second
)

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var (
	ErrUnsupportedImageType = errors.New("only image files (JPEG, PNG, GIF, WebP) are allowed")
	ErrImageTooLarge        = errors.New("image must be smaller than 5MB")
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Config locates the hosting repository.
type Config struct {
	Token  string
	Owner  string
	Repo   string
	Branch string // defaults to master
	APIURL string // defaults to the public GitHub API
}

// GitHubHost is the image host client.
type GitHubHost struct {
	cfg    Config
	client *http.Client
}

// NewGitHubHost will create an image host client for the configured
// repository.
func NewGitHubHost(cfg Config, client *http.Client) *GitHubHost {
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	if cfg.Branch == "" {
		cfg.Branch = defaultBranch
	}
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &GitHubHost{cfg: cfg, client: client}
}

// Enabled reports whether the host is fully configured.
func (g *GitHubHost) Enabled() bool {
	return g.cfg.Token != "" && g.cfg.Owner != "" && g.cfg.Repo != ""
}

type contentInfo struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	SHA         string `json:"sha"`
	DownloadURL string `json:"download_url"`
}

type uploadResponse struct {
	Content contentInfo `json:"content"`
}

// Upload stores the image under a collision-free name and returns its
// download URL.
func (g *GitHubHost) Upload(ctx context.Context, fileName, contentType string, data []byte) (string, error) {
	if !allowedContentTypes[strings.ToLower(contentType)] {
		return "", ErrUnsupportedImageType
	}
	if len(data) > maxImageSize {
		return "", ErrImageTooLarge
	}

	unique := uniqueFileName(fileName)
	body := map[string]string{
		"message": "Upload image: " + unique,
		"content": base64.StdEncoding.EncodeToString(data),
		"branch":  g.cfg.Branch,
	}

	resp, err := g.request(ctx, http.MethodPut, g.contentPath(unique), body)
	if err != nil {
		return "", err
	}

	var out uploadResponse
	if err := json.Unmarshal(resp, &out); err != nil {
		return "", fmt.Errorf("unexpected image host response: %w", err)
	}
	logrus.Infof("uploaded image %s", out.Content.Path)
	return out.Content.DownloadURL, nil
}

// Delete removes an uploaded image. The Contents API requires the object's
// current content hash, so this reads the object first and then submits the
// delete with that hash.
func (g *GitHubHost) Delete(ctx context.Context, fileName string) error {
	resp, err := g.request(ctx, http.MethodGet, g.contentPath(fileName), nil)
	if err != nil {
		return err
	}
	var info contentInfo
	if err := json.Unmarshal(resp, &info); err != nil {
		return fmt.Errorf("unexpected image host response: %w", err)
	}

	body := map[string]string{
		"message": "Delete image: " + fileName,
		"sha":     info.SHA,
		"branch":  g.cfg.Branch,
	}
	_, err = g.request(ctx, http.MethodDelete, g.contentPath(fileName), body)
	return err
}

func (g *GitHubHost) contentPath(fileName string) string {
	return fmt.Sprintf("/repos/%s/%s/contents/%s/%s", g.cfg.Owner, g.cfg.Repo, uploadDir, fileName)
}

func (g *GitHubHost) request(ctx context.Context, method, endpoint string, payload any) ([]byte, error) {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.cfg.APIURL+endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "token "+g.cfg.Token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image host unreachable: %w", err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, githubError(resp.StatusCode, buf.Bytes())
	}
	return buf.Bytes(), nil
}

// githubError maps the common Contents API failures to actionable messages.
func githubError(status int, body []byte) error {
	switch status {
	case http.StatusUnauthorized:
		return errors.New("bad credentials, check the image host token")
	case http.StatusNotFound:
		return errors.New("image repository not found, check the owner and repository settings")
	case http.StatusForbidden:
		return errors.New("access forbidden, the image host token lacks the repo scope")
	}

	var eb struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &eb) == nil && eb.Message != "" {
		return fmt.Errorf("image host error: %s", eb.Message)
	}
	return fmt.Errorf("image host error: status %d", status)
}

// uniqueFileName keeps the extension, sanitizes the base name and appends a
// random suffix so repeated uploads of the same file never collide.
func uniqueFileName(original string) string {
	ext := path.Ext(original)
	base := strings.TrimSuffix(path.Base(original), ext)
	base = unsafeNameChars.ReplaceAllString(base, "-")
	if base == "" {
		base = "image"
	}
	return fmt.Sprintf("%s-%s%s", base, uuid.NewString(), ext)
}
