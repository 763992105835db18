package model

type CreatePostDTO struct {
	AuthorID int64  `json:"author_id"`
	Body     string `json:"body"`
}
