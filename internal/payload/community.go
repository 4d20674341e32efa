package payload

type CreatePostRequest struct {
	Text        string `json:"text" validate:"required"`
	IsAnonymous bool   `json:"isAnonymous"`
}

type AddCommentRequest struct {
	Text string `json:"text" validate:"required"`
}
