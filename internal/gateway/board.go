package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/starford/fms/internal/models"
)

// Posts lists board notices, optionally filtered by keyword server-side.
func (c *Client) Posts(ctx context.Context, keyword string) ([]models.Notice, error) {
	var q url.Values
	if kw := strings.TrimSpace(keyword); kw != "" {
		q = url.Values{}
		q.Set("keyword", kw)
	}
	var out []models.Notice
	if err := c.getJSON(ctx, "/board/posts", q, &out); err != nil {
		c.logger.Error("board posts failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("gateway: board posts: %w", err)
	}
	return out, nil
}

// Post fetches one notice.
func (c *Client) Post(ctx context.Context, id string) (models.Notice, error) {
	var out models.Notice
	if err := c.getJSON(ctx, "/board/posts/"+url.PathEscape(id), nil, &out); err != nil {
		c.logger.Error("board post failed",
			slog.String("post_id", id), slog.String("error", err.Error()))
		return models.Notice{}, fmt.Errorf("gateway: board post %s: %w", id, err)
	}
	return out, nil
}
