package request

type UpdatePhotoRequest struct {
	Title *string `json:"title" binding:"omitempty,min=3,max=50"`
}

type CommentRequest struct {
	Comment string `json:"comment" binding:"required,min=3,max=200"`
}

type ListPhotosRequest struct {
	Page    int `form:"page" binding:"omitempty,min=1"`
	PerPage int `form:"per_page" binding:"omitempty,min=1,max=100"`
}

type SearchPhotosRequest struct {
	Query   string `form:"q" binding:"required,min=1,max=50"`
	Page    int    `form:"page" binding:"omitempty,min=1"`
	PerPage int    `form:"per_page" binding:"omitempty,min=1,max=100"`
}
