package content

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"sync"
)

// ErrParentUnavailable marks a child kind whose parent id could not be
// recovered from either the stored parent reference or the preview text.
var ErrParentUnavailable = errors.New("parent id unavailable")

// Entry describes one reportable content kind: how intake names it, how the
// admin UI labels it, and how to fetch or delete the underlying object.
// Indirect kinds (comment, answer) have no fetch-by-id endpoint; they are
// located by listing the parent's children and scanning for the object id.
type Entry struct {
	Kind     Kind
	Label    string
	Aliases  []string
	Indirect bool

	parentRe   *regexp.Regexp
	fetch      func(ctx context.Context, c *Client, objectID int64) (*Reference, error)
	fetchChild func(ctx context.Context, c *Client, parentID, objectID int64) (*Reference, error)
	remove     func(ctx context.Context, c *Client, parentID *int64, objectID int64) error
}

// RecoverParentID applies the kind's fixed pattern to a denormalized preview
// string ("Comment by alice on Post 7") and extracts the parent id.
func (e *Entry) RecoverParentID(preview string) (int64, bool) {
	if e.parentRe == nil {
		return 0, false
	}
	m := e.parentRe.FindStringSubmatch(preview)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Registry is the closed table of content kinds.
type Registry struct {
	mu      sync.RWMutex
	entries map[Kind]*Entry
	aliases map[string]Kind
}

func NewRegistry() *Registry {
	r := &Registry{
		entries: make(map[Kind]*Entry),
		aliases: make(map[string]Kind),
	}
	for _, e := range kindTable() {
		r.register(e)
	}
	return r
}

func (r *Registry) register(e *Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[e.Kind] = e
	r.aliases[string(e.Kind)] = e.Kind
	for _, alias := range e.Aliases {
		r.aliases[alias] = e.Kind
	}
}

// Normalize maps an intake alias to its canonical kind name. Unknown aliases
// pass through unchanged; validation happens at Lookup.
func (r *Registry) Normalize(alias string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if kind, ok := r.aliases[alias]; ok {
		return string(kind)
	}
	return alias
}

func (r *Registry) Lookup(kind string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[Kind(kind)]
	return e, ok
}

// Kinds returns the canonical kind names in a fixed order, for validation
// messages.
func (r *Registry) Kinds() []string {
	return []string{
		string(KindPost), string(KindComment), string(KindRecipe),
		string(KindQuestion), string(KindAnswer),
	}
}

func kindTable() []*Entry {
	return []*Entry{
		{
			Kind:    KindPost,
			Label:   "Forum post",
			Aliases: []string{"forumpost"},
			fetch: func(ctx context.Context, c *Client, objectID int64) (*Reference, error) {
				p, err := c.GetPost(ctx, objectID)
				if err != nil {
					return nil, err
				}
				return &Reference{
					Kind:      KindPost,
					Label:     "Forum post",
					Title:     p.Title,
					Body:      p.Content,
					Author:    authorName(ctx, c, p.Author, p.AuthorID),
					CreatedAt: p.CreatedAt,
				}, nil
			},
			remove: func(ctx context.Context, c *Client, _ *int64, objectID int64) error {
				return c.DeletePost(ctx, objectID)
			},
		},
		{
			Kind:     KindComment,
			Label:    "Forum comment",
			Aliases:  []string{"comment"},
			Indirect: true,
			parentRe: regexp.MustCompile(`on Post (\d+)`),
			fetchChild: func(ctx context.Context, c *Client, parentID, objectID int64) (*Reference, error) {
				comments, err := c.GetCommentsByPost(ctx, parentID)
				if err != nil {
					return nil, err
				}
				for i := range comments {
					if comments[i].ID == objectID {
						pid := parentID
						return &Reference{
							Kind:      KindComment,
							Label:     "Forum comment",
							Body:      comments[i].Content,
							Author:    authorName(ctx, c, comments[i].Author, comments[i].AuthorID),
							CreatedAt: comments[i].CreatedAt,
							ParentID:  &pid,
						}, nil
					}
				}
				return nil, ErrNotFound
			},
			remove: func(ctx context.Context, c *Client, parentID *int64, objectID int64) error {
				if parentID == nil {
					return ErrParentUnavailable
				}
				return c.DeleteComment(ctx, *parentID, objectID)
			},
		},
		{
			Kind:  KindRecipe,
			Label: "Recipe",
			fetch: func(ctx context.Context, c *Client, objectID int64) (*Reference, error) {
				rec, err := c.GetRecipe(ctx, objectID)
				if err != nil {
					return nil, err
				}
				return &Reference{
					Kind:      KindRecipe,
					Label:     "Recipe",
					Title:     rec.Title,
					Body:      rec.Description,
					Author:    authorName(ctx, c, rec.Author, rec.AuthorID),
					CreatedAt: rec.CreatedAt,
				}, nil
			},
			remove: func(ctx context.Context, c *Client, _ *int64, objectID int64) error {
				return c.DeleteRecipe(ctx, objectID)
			},
		},
		{
			Kind:  KindQuestion,
			Label: "Question",
			fetch: func(ctx context.Context, c *Client, objectID int64) (*Reference, error) {
				q, err := c.GetQuestion(ctx, objectID)
				if err != nil {
					return nil, err
				}
				return &Reference{
					Kind:      KindQuestion,
					Label:     "Question",
					Title:     q.Title,
					Body:      q.Content,
					Author:    authorName(ctx, c, q.Author, q.AuthorID),
					CreatedAt: q.CreatedAt,
				}, nil
			},
			remove: func(ctx context.Context, c *Client, _ *int64, objectID int64) error {
				return c.DeleteQuestion(ctx, objectID)
			},
		},
		{
			Kind:     KindAnswer,
			Label:    "Answer",
			Indirect: true,
			parentRe: regexp.MustCompile(`on Question (\d+)`),
			fetchChild: func(ctx context.Context, c *Client, parentID, objectID int64) (*Reference, error) {
				answers, err := c.GetAnswersByQuestion(ctx, parentID)
				if err != nil {
					return nil, err
				}
				for i := range answers {
					if answers[i].ID == objectID {
						pid := parentID
						return &Reference{
							Kind:      KindAnswer,
							Label:     "Answer",
							Body:      answers[i].Content,
							Author:    authorName(ctx, c, answers[i].Author, answers[i].AuthorID),
							CreatedAt: answers[i].CreatedAt,
							ParentID:  &pid,
						}, nil
					}
				}
				return nil, ErrNotFound
			},
			remove: func(ctx context.Context, c *Client, parentID *int64, objectID int64) error {
				if parentID == nil {
					return ErrParentUnavailable
				}
				return c.DeleteAnswer(ctx, *parentID, objectID)
			},
		},
	}
}

// authorName resolves a display name for the content author. A failed lookup
// never aborts resolution of the rest of the reference.
func authorName(ctx context.Context, c *Client, embedded string, authorID int64) string {
	if embedded != "" {
		return embedded
	}
	username, err := c.GetUsername(ctx, authorID)
	if err != nil || username == "" {
		return fmt.Sprintf("User #%d", authorID)
	}
	return username
}
