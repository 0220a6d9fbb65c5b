package models

import (
	"time"

	"github.com/jinzhu/copier"
	"gorm.io/datatypes"
)

type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=150"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required"`
	Password2 string `json:"password2" validate:"required"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type DeactivateRequest struct {
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Access  string        `json:"access"`
	Refresh string        `json:"refresh"`
	User    *UserResponse `json:"user,omitempty"`
	Role    string        `json:"role,omitempty"`
	Message string        `json:"message,omitempty"`
}

type AccessResponse struct {
	Access string `json:"access"`
}

type CreateArticleRequest struct {
	Title   string        `json:"title"`
	Content string        `json:"content"`
	Tags    []string      `json:"tags" validate:"max=20,dive,required,max=100"`
	Status  ArticleStatus `json:"status" validate:"omitempty,oneof=draft published archived"`
}

// UpdateArticleRequest is a partial update; nil fields are left untouched.
type UpdateArticleRequest struct {
	Title   *string        `json:"title"`
	Content *string        `json:"content"`
	Tags    *[]string      `json:"tags" validate:"omitempty,max=20,dive,required,max=100"`
	Status  *ArticleStatus `json:"status" validate:"omitempty,oneof=draft published archived"`
}

// AsUpdate turns a full replacement body into an update touching every field.
func (r CreateArticleRequest) AsUpdate() UpdateArticleRequest {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	status := r.Status
	if status == "" {
		status = StatusDraft
	}
	return UpdateArticleRequest{Title: &r.Title, Content: &r.Content, Tags: &tags, Status: &status}
}

type ArticleListParams struct {
	Search    string `form:"search"`
	Tag       string `form:"tag"`
	Author    string `form:"author"`
	Status    string `form:"status"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Ordering  string `form:"ordering"`
	PageParams
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type PageParams struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// Normalized clamps the page size and defaults missing values.
func (p PageParams) Normalized() PageParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=2,max=1000"`
	ReplyTo *uint  `json:"reply_to"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=2,max=1000"`
}

type UpdateProfileRequest struct {
	Bio        *string         `json:"bio" validate:"omitempty,max=500"`
	BirthDate  *datatypes.Date `json:"birth_date"`
	ProfilePic *string         `json:"profile_pic" validate:"omitempty,max=255"`
}

type AssignGroupRequest struct {
	Group string `json:"group" validate:"required"`
}

type CreateTagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type UserResponse struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	IsActive     bool      `json:"is_active"`
	IsStaff      bool      `json:"is_staff"`
	GroupNames   []string  `json:"groups"`
	PrimaryGroup string    `json:"role"`
	Profile      *Profile  `json:"profile,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type ArticleResponse struct {
	ID              uint          `json:"id"`
	Title           string        `json:"title"`
	Content         string        `json:"content"`
	AuthorID        uint          `json:"author_id"`
	AuthorUsername  string        `json:"author_username"`
	Status          ArticleStatus `json:"status"`
	PublicationDate time.Time     `json:"publication_date"`
	UpdatedAt       time.Time     `json:"updated_at"`
	TagNames        []string      `json:"tags"`
	CommentCount    int64         `json:"comment_count"`
}

type CommentResponse struct {
	ID             uint              `json:"id"`
	Content        string            `json:"content"`
	AuthorID       uint              `json:"author_id"`
	AuthorUsername string            `json:"author_username"`
	ArticleID      uint              `json:"article"`
	ReplyToID      *uint             `json:"reply_to"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	Replies        []CommentResponse `json:"replies"`
}

// Paginated is the envelope for every list endpoint.
type Paginated struct {
	Count       int64       `json:"count"`
	TotalPages  int         `json:"total_pages"`
	CurrentPage int         `json:"current_page"`
	PageSize    int         `json:"page_size"`
	Next        *string     `json:"next"`
	Previous    *string     `json:"previous"`
	HasNext     bool        `json:"has_next"`
	HasPrevious bool        `json:"has_previous"`
	Results     interface{} `json:"results"`
}

func NewUserResponse(user *User) (*UserResponse, error) {
	resp := &UserResponse{}
	if err := copier.Copy(resp, user); err != nil {
		return nil, err
	}
	if resp.GroupNames == nil {
		resp.GroupNames = []string{}
	}
	return resp, nil
}

func NewArticleResponse(article *Article) (ArticleResponse, error) {
	var resp ArticleResponse
	if err := copier.Copy(&resp, article); err != nil {
		return resp, err
	}
	if resp.TagNames == nil {
		resp.TagNames = []string{}
	}
	return resp, nil
}

func NewArticleResponses(articles []Article) ([]ArticleResponse, error) {
	out := make([]ArticleResponse, 0, len(articles))
	for i := range articles {
		resp, err := NewArticleResponse(&articles[i])
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

func NewCommentResponse(comment *Comment) (CommentResponse, error) {
	var resp CommentResponse
	if err := copier.Copy(&resp, comment); err != nil {
		return resp, err
	}
	resp.Replies = []CommentResponse{}
	return resp, nil
}
