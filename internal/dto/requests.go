package dto

// RegisterRequest is accepted as JSON or as multipart form fields next to the
// optional avatar and coverImage files.
type RegisterRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	FullName string `json:"fullName" form:"fullName"`
	Password string `json:"password" form:"password"`
}

// LoginRequest identifies the user by username or email.
type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest carries the refresh token when no cookie is sent.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type UpdateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// PublishVideoRequest holds the form fields sent with the videoFile and
// thumbnail uploads.
type PublishVideoRequest struct {
	Title       string  `form:"title"`
	Description string  `form:"description"`
	Duration    float64 `form:"duration"`
}

type UpdateVideoRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
}

// ContentRequest is the body of comment and tweet writes.
type ContentRequest struct {
	Content string `json:"content"`
}
