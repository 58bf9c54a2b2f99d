package dto

import "github.com/prperemyshlev/videotube/internal/domain"

// ApiResponse wraps every successful response body.
type ApiResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
	Success    bool   `json:"success"`
}

// ErrorResponse wraps every failed response body.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// SessionResponse is returned by login and refresh-token.
type SessionResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

type LikeStatus struct {
	IsLiked bool `json:"isLiked"`
}

type SubscriptionStatus struct {
	IsSubscribed bool `json:"isSubscribed"`
}
