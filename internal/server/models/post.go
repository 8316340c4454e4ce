package models

import "time"

type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  int64     `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPost carries the mutable fields of a post. On update AuthorID is
// ignored: authorship never changes after creation.
type NewPost struct {
	Title    string
	Content  string
	AuthorID int64
}
