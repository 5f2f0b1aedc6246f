package models

import "time"

// Blog is a post. Author holds the author's username at creation time.
type Blog struct {
	ID        string    `json:"id" bson:"-"`
	Title     string    `json:"title" bson:"title"`
	Content   string    `json:"content" bson:"content"`
	Author    string    `json:"author" bson:"author"`
	Tags      []string  `json:"tags" bson:"tags"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// BlogInput is the caller-controlled part of a blog.
type BlogInput struct {
	Title   string
	Content string
	Tags    []string
}

// RankedBlog is a dashboard entry: a blog and how many tags it shares with the caller.
type RankedBlog struct {
	Blog
	CommonTagsCount int `json:"commonTagsCount"`
}

// BlogPage is one page of the blog listing.
type BlogPage struct {
	Items   []Blog
	Total   int64
	HasMore bool
}
