package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/platebook/platebook-backend/internal/config"
)

// ErrNotFound marks a target that the owning content service no longer has.
var ErrNotFound = errors.New("content not found")

// Client wraps the forum, Q&A, recipe and user services behind one HTTP
// client carrying the configured timeout. List endpoints may answer with a
// bare array or a {"results": [...]} envelope; both shapes normalize to a
// plain slice here and nowhere else.
type Client struct {
	http      *http.Client
	forumURL  string
	qaURL     string
	recipeURL string
	userURL   string
	pageSize  int
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		http:      &http.Client{Timeout: cfg.ContentTimeout},
		forumURL:  strings.TrimRight(cfg.ForumServiceURL, "/"),
		qaURL:     strings.TrimRight(cfg.QAServiceURL, "/"),
		recipeURL: strings.TrimRight(cfg.RecipeServiceURL, "/"),
		userURL:   strings.TrimRight(cfg.UserServiceURL, "/"),
		pageSize:  cfg.ContentPageSize,
	}
}

// Forum service

func (c *Client) GetPost(ctx context.Context, id int64) (*Post, error) {
	var post Post
	if err := c.getJSON(ctx, fmt.Sprintf("%s/posts/%d", c.forumURL, id), &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) GetCommentsByPost(ctx context.Context, postID int64) ([]Comment, error) {
	url := fmt.Sprintf("%s/posts/%d/comments?page=1&page_size=%d", c.forumURL, postID, c.pageSize)
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	return decodeList[Comment](body)
}

func (c *Client) DeletePost(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("%s/posts/%d", c.forumURL, id))
}

func (c *Client) DeleteComment(ctx context.Context, postID, commentID int64) error {
	return c.delete(ctx, fmt.Sprintf("%s/posts/%d/comments/%d", c.forumURL, postID, commentID))
}

// Q&A service

func (c *Client) GetQuestion(ctx context.Context, id int64) (*Question, error) {
	var question Question
	if err := c.getJSON(ctx, fmt.Sprintf("%s/questions/%d", c.qaURL, id), &question); err != nil {
		return nil, err
	}
	return &question, nil
}

func (c *Client) GetAnswersByQuestion(ctx context.Context, questionID int64) ([]Answer, error) {
	url := fmt.Sprintf("%s/questions/%d/answers?page=1&page_size=%d", c.qaURL, questionID, c.pageSize)
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	return decodeList[Answer](body)
}

func (c *Client) DeleteQuestion(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("%s/questions/%d", c.qaURL, id))
}

func (c *Client) DeleteAnswer(ctx context.Context, questionID, answerID int64) error {
	return c.delete(ctx, fmt.Sprintf("%s/questions/%d/answers/%d", c.qaURL, questionID, answerID))
}

// Recipe service

func (c *Client) GetRecipe(ctx context.Context, id int64) (*Recipe, error) {
	var recipe Recipe
	if err := c.getJSON(ctx, fmt.Sprintf("%s/recipes/%d", c.recipeURL, id), &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (c *Client) DeleteRecipe(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("%s/recipes/%d", c.recipeURL, id))
}

// User service

func (c *Client) GetUsername(ctx context.Context, userID int64) (string, error) {
	var user struct {
		Username string `json:"username"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("%s/users/%d", c.userURL, userID), &user); err != nil {
		return "", err
	}
	return user.Username, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	body, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("GET %s: decode response: %w", url, err)
	}
	return nil
}

// delete treats an already-gone target (404/410) as success: the goal of a
// moderation delete is absence, not a round trip.
func (c *Client) delete(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound, http.StatusGone:
		return nil
	default:
		return fmt.Errorf("DELETE %s: unexpected status %d", url, resp.StatusCode)
	}
}

// decodeList accepts both response shapes the content services produce: a
// bare JSON array or a paginated {"results": [...]} envelope.
func decodeList[T any](body []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []T
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("decode list response: %w", err)
		}
		return list, nil
	}

	var envelope struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("decode list envelope: %w", err)
	}
	return envelope.Results, nil
}
