package models

import (
	"time"

	"github.com/google/uuid"
)

// Post represents a forum post
type Post struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Content     string    `json:"content" db:"content"`
	Author      string    `json:"author" db:"author"`
	DateCreated time.Time `json:"dateCreated" db:"date_created"`
	Tags        []string  `json:"tags" db:"tags"`
	Likes       int       `json:"likes" db:"likes"`
	Comments    []Comment `json:"comments"`
}

// TableName returns the table name for the Post model
func (Post) TableName() string {
	return "posts"
}

// NewPost creates a new Post with no likes and no comments
func NewPost(author, title, content string, tags []string) *Post {
	if tags == nil {
		tags = []string{}
	}
	return &Post{
		ID:          uuid.New(),
		Title:       title,
		Content:     content,
		Author:      author,
		DateCreated: time.Now().UTC(),
		Tags:        tags,
		Comments:    []Comment{},
	}
}

// Comment represents a comment left on a post. PostID is internal and not serialized.
type Comment struct {
	ID          uuid.UUID `json:"-" db:"id"`
	PostID      uuid.UUID `json:"-" db:"post_id"`
	User        string    `json:"user" db:"user_login"`
	Message     string    `json:"message" db:"message"`
	DateCreated time.Time `json:"dateCreated" db:"date_created"`
	Likes       int       `json:"likes" db:"likes"`
}

// TableName returns the table name for the Comment model
func (Comment) TableName() string {
	return "comments"
}

// NewComment creates a new Comment on the given post
func NewComment(postID uuid.UUID, user, message string) *Comment {
	return &Comment{
		ID:          uuid.New(),
		PostID:      postID,
		User:        user,
		Message:     message,
		DateCreated: time.Now().UTC(),
	}
}
