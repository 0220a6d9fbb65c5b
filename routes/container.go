package routes

import (
	"blog-api/config"
	"blog-api/helper"
	"blog-api/policy"
	"blog-api/repositories"
	"blog-api/services"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Container holds the wired services shared by the router and background jobs.
type Container struct {
	Helper   *helper.HTTPHelper
	Policy   *policy.Policy
	Tokens   services.TokenService
	Auth     services.AuthService
	Articles services.ArticleService
	Comments services.CommentService
	Tags     services.TagService
	Profiles services.ProfileService
	Users    services.UserService
}

func NewContainer(cfg *config.Config, db *gorm.DB, log *zap.Logger) *Container {
	tx := repositories.NewTransactor(db)
	userRepo := repositories.NewUserRepository(db)
	groupRepo := repositories.NewGroupRepository(db)
	tagRepo := repositories.NewTagRepository(db)
	articleRepo := repositories.NewArticleRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	tokenRepo := repositories.NewRefreshTokenRepository(db)

	p := policy.New(policy.Options{CommentAuthorDelete: cfg.Policy.CommentAuthorDelete})
	tokens := services.NewTokenService(cfg.JWT, cfg.Auth.TokenBlacklist, tokenRepo, userRepo)
	articles := services.NewArticleService(tx, articleRepo, tagRepo, p)

	return &Container{
		Helper:   helper.NewHTTPHelper(log),
		Policy:   p,
		Tokens:   tokens,
		Auth:     services.NewAuthService(tx, userRepo, groupRepo, tokens),
		Articles: articles,
		Comments: services.NewCommentService(tx, commentRepo, articles, p, cfg.Comments.MaxReplyDepth),
		Tags:     services.NewTagService(tagRepo, p),
		Profiles: services.NewProfileService(profileRepo, p),
		Users:    services.NewUserService(userRepo, groupRepo, p),
	}
}
