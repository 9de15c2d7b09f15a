package content

import "time"

// Kind is the canonical name of a reportable content kind.
type Kind string

const (
	KindPost     Kind = "post"
	KindComment  Kind = "postcomment"
	KindRecipe   Kind = "recipe"
	KindQuestion Kind = "question"
	KindAnswer   Kind = "answer"
)

// Reference is the resolved, human-readable view of a report's target.
// ParentID is set only for child kinds (comment, answer).
type Reference struct {
	Kind      Kind      `json:"kind"`
	Label     string    `json:"label"`
	Title     string    `json:"title,omitempty"`
	Body      string    `json:"body"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	ParentID  *int64    `json:"parent_id,omitempty"`
}

// Wire types returned by the content services. Author may be empty when the
// service does not embed a display name; callers fall back to a username
// lookup keyed by AuthorID.

type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  int64     `json:"author_id"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	Content   string    `json:"content"`
	AuthorID  int64     `json:"author_id"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Question struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  int64     `json:"author_id"`
	Author    string    `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Answer struct {
	ID         int64     `json:"id"`
	QuestionID int64     `json:"question_id"`
	Content    string    `json:"content"`
	AuthorID   int64     `json:"author_id"`
	Author     string    `json:"author,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type Recipe struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AuthorID    int64     `json:"author_id"`
	Author      string    `json:"author,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
