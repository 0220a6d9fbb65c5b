package services

import (
	"testing"
	"time"

	"blog-api/config"
	"blog-api/models"
	"blog-api/policy"
	"blog-api/repositories"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type ServiceSuite struct {
	suite.Suite
	db       *gorm.DB
	policy   *policy.Policy
	tokens   TokenService
	auth     AuthService
	articles ArticleService
	comments CommentService
	profiles ProfileService
	users    UserService
	tags     TagService

	editor *policy.Actor
	reader *policy.Actor
	admin  *policy.Actor
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	db, err := config.InitDB(config.DatabaseConfig{Driver: "sqlite", DSN: s.T().TempDir() + "/services.db"}, nil)
	s.Require().NoError(err)
	s.Require().NoError(config.SeedGroups(db))
	s.db = db
	s.build(policy.Options{}, 0)

	s.editor = s.register("eddie", models.GroupEditors)
	s.reader = s.register("rita", "")
	s.admin = s.register("ada", models.GroupAdmin)
}

func (s *ServiceSuite) build(opts policy.Options, maxDepth int) {
	tx := repositories.NewTransactor(s.db)
	userRepo := repositories.NewUserRepository(s.db)
	groupRepo := repositories.NewGroupRepository(s.db)
	tagRepo := repositories.NewTagRepository(s.db)

	s.policy = policy.New(opts)
	s.tokens = NewTokenService(config.JWTConfig{Secret: "test-secret", AccessTTL: time.Minute, RefreshTTL: time.Hour}, true, repositories.NewRefreshTokenRepository(s.db), userRepo)
	s.auth = NewAuthService(tx, userRepo, groupRepo, s.tokens)
	s.articles = NewArticleService(tx, repositories.NewArticleRepository(s.db), tagRepo, s.policy)
	s.comments = NewCommentService(tx, repositories.NewCommentRepository(s.db), s.articles, s.policy, maxDepth)
	s.profiles = NewProfileService(repositories.NewProfileRepository(s.db), s.policy)
	s.users = NewUserService(userRepo, groupRepo, s.policy)
	s.tags = NewTagService(tagRepo, s.policy)
}

func (s *ServiceSuite) register(username, group string) *policy.Actor {
	resp, err := s.auth.Register(models.RegisterRequest{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "Blue-Harbor-91",
		Password2: "Blue-Harbor-91",
	})
	s.Require().NoError(err)

	if group != "" {
		g, err := repositories.NewGroupRepository(s.db).GetByName(group)
		s.Require().NoError(err)
		user, err := s.auth.GetUserByID(resp.User.ID)
		s.Require().NoError(err)
		s.Require().NoError(repositories.NewUserRepository(s.db).AddGroup(user, g))
	}

	user, err := s.auth.GetUserByID(resp.User.ID)
	s.Require().NoError(err)
	return policy.ActorFromUser(user)
}

func (s *ServiceSuite) article(title string, status models.ArticleStatus) *models.Article {
	a, err := s.articles.CreateArticle(s.editor, models.CreateArticleRequest{
		Title:   title,
		Content: "Plenty of words for " + title,
		Status:  status,
		Tags:    []string{"go"},
	})
	s.Require().NoError(err)
	return a
}

func (s *ServiceSuite) fieldErrors(err error) map[string][]string {
	s.Require().Error(err)
	verr, ok := err.(models.ErrorValidation)
	s.Require().True(ok, "expected validation error, got %T: %v", err, err)
	return verr.Fields
}

func (s *ServiceSuite) TestRegisterCreatesProfileAndMembership() {
	user, err := s.auth.GetUserByID(s.reader.UserID)
	s.Require().NoError(err)
	s.NotNil(user.Profile)
	s.Equal([]string{models.GroupUsers}, user.GroupNames())
	s.Equal(models.GroupUsers, user.PrimaryGroup())
}

func (s *ServiceSuite) TestRegisterCollectsProblems() {
	_, err := s.auth.Register(models.RegisterRequest{
		Username:  "rita",
		Email:     "RITA@example.com",
		Password:  "1234",
		Password2: "12345",
	})
	fields := s.fieldErrors(err)
	s.Contains(fields, "username")
	s.Contains(fields, "email")
	s.Contains(fields["password"], "Password fields didn't match.")
	s.Contains(fields["password"], "This password is entirely numeric.")
}

func (s *ServiceSuite) TestLoginAndRefresh() {
	resp, err := s.auth.Login(models.LoginRequest{Username: "eddie", Password: "Blue-Harbor-91"})
	s.Require().NoError(err)
	s.Equal(models.GroupEditors, resp.Role)

	claims, err := s.tokens.Parse(resp.Access, TokenAccess)
	s.Require().NoError(err)
	s.Equal(s.editor.UserID, claims.UserID)
	s.Equal(models.GroupEditors, claims.Role)

	_, err = s.tokens.Parse(resp.Access, TokenRefresh)
	s.IsType(models.ErrorUnauthorized{}, err)

	access, err := s.auth.Refresh(models.RefreshRequest{Refresh: resp.Refresh})
	s.Require().NoError(err)
	s.NotEmpty(access.Access)

	_, err = s.auth.Login(models.LoginRequest{Username: "eddie", Password: "wrong"})
	s.IsType(models.ErrorUnauthorized{}, err)
	_, err = s.auth.Login(models.LoginRequest{Username: "nobody", Password: "wrong"})
	s.IsType(models.ErrorUnauthorized{}, err)
}

func (s *ServiceSuite) TestDeactivateBlocksLoginAndRefresh() {
	login, err := s.auth.Login(models.LoginRequest{Username: "rita", Password: "Blue-Harbor-91"})
	s.Require().NoError(err)

	fields := s.fieldErrors(s.auth.Deactivate(s.reader.UserID, models.DeactivateRequest{Password: "nope"}))
	s.Contains(fields, "password")

	s.Require().NoError(s.auth.Deactivate(s.reader.UserID, models.DeactivateRequest{Password: "Blue-Harbor-91"}))

	_, err = s.auth.Login(models.LoginRequest{Username: "rita", Password: "Blue-Harbor-91"})
	s.IsType(models.ErrorUnauthorized{}, err)

	_, err = s.auth.Refresh(models.RefreshRequest{Refresh: login.Refresh})
	s.IsType(models.ErrorUnauthorized{}, err)
}

func (s *ServiceSuite) TestPurgeExpiredTokens() {
	expired := &models.RefreshToken{JTI: "old", UserID: s.reader.UserID, ExpiresAt: time.Now().Add(-time.Minute)}
	s.Require().NoError(repositories.NewRefreshTokenRepository(s.db).Create(expired))

	n, err := s.tokens.PurgeExpired()
	s.Require().NoError(err)
	s.Equal(int64(1), n)
}

func (s *ServiceSuite) TestArticleVisibility() {
	published := s.article("Published piece", models.StatusPublished)
	draft := s.article("Draft piece here", models.StatusDraft)

	_, err := s.articles.GetArticle(nil, draft.ID)
	s.IsType(models.ErrorNotFound{}, err)
	_, err = s.articles.GetArticle(s.reader, draft.ID)
	s.IsType(models.ErrorNotFound{}, err)
	_, err = s.articles.GetArticle(s.editor, draft.ID)
	s.NoError(err)

	list, total, err := s.articles.GetArticles(s.reader, models.ArticleListParams{Status: "draft"})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal(published.ID, list[0].ID)

	_, total, err = s.articles.GetArticles(s.editor, models.ArticleListParams{Status: "draft"})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
}

func (s *ServiceSuite) TestCreateArticleValidation() {
	_, err := s.articles.CreateArticle(s.editor, models.CreateArticleRequest{
		Title:   "<b>spam</b>",
		Content: "short",
	})
	fields := s.fieldErrors(err)
	s.Contains(fields["title"], "Title contains inappropriate word: 'spam'")
	s.Contains(fields["title"], "Title cannot contain HTML tags")
	s.Contains(fields["content"], "Content must be at least 10 characters long")

	_, err = s.articles.CreateArticle(s.editor, models.CreateArticleRequest{
		Title:   "Same words here",
		Content: "same words here",
	})
	s.Contains(s.fieldErrors(err), "non_field_errors")

	_, err = s.articles.CreateArticle(s.editor, models.CreateArticleRequest{
		Title:   "Hey",
		Content: "Totally spam content",
	})
	fields = s.fieldErrors(err)
	s.Contains(fields["title"], "Title must be at least 5 characters long")
	s.Contains(fields["content"], "Content contains inappropriate word: 'spam'")

	_, err = s.articles.CreateArticle(s.editor, models.CreateArticleRequest{})
	fields = s.fieldErrors(err)
	s.Equal([]string{"This field may not be blank."}, fields["title"])
	s.Equal([]string{"This field may not be blank."}, fields["content"])
	s.NotContains(fields, "non_field_errors")

	s.article("Unique heading", models.StatusDraft)
	_, err = s.articles.CreateArticle(s.editor, models.CreateArticleRequest{
		Title:   "Unique heading",
		Content: "Different content entirely",
	})
	s.Contains(s.fieldErrors(err)["title"], "Article with this title already exists.")

	var count int64
	s.Require().NoError(s.db.Model(&models.Article{}).Count(&count).Error)
	s.Equal(int64(1), count)
}

func (s *ServiceSuite) TestCreateArticleRequiresEditorialGroup() {
	_, err := s.articles.CreateArticle(s.reader, models.CreateArticleRequest{Title: "Reader attempt", Content: "Reader content here"})
	s.IsType(models.ErrorForbidden{}, err)

	_, err = s.articles.CreateArticle(nil, models.CreateArticleRequest{Title: "Anon attempt", Content: "Anonymous content"})
	s.IsType(models.ErrorUnauthorized{}, err)
}

func (s *ServiceSuite) TestPatchArticle() {
	a := s.article("Patch me please", models.StatusDraft)

	status := models.StatusPublished
	tags := []string{"web", " web ", "api"}
	updated, err := s.articles.UpdateArticle(s.editor, a.ID, models.UpdateArticleRequest{Status: &status, Tags: &tags})
	s.Require().NoError(err)
	s.Equal("Patch me please", updated.Title)
	s.Equal(models.StatusPublished, updated.Status)
	s.Equal([]string{"api", "web"}, updated.TagNames())
	s.False(updated.UpdatedAt.Before(a.UpdatedAt))

	title := "Patch me please"
	_, err = s.articles.UpdateArticle(s.editor, a.ID, models.UpdateArticleRequest{Title: &title})
	s.NoError(err)
}

func (s *ServiceSuite) TestDeleteArticleRequiresManagerial() {
	a := s.article("Delete candidate", models.StatusPublished)

	s.IsType(models.ErrorForbidden{}, s.articles.DeleteArticle(s.editor, a.ID))
	s.Require().NoError(s.articles.DeleteArticle(s.admin, a.ID))
	_, err := s.articles.GetArticle(s.admin, a.ID)
	s.IsType(models.ErrorNotFound{}, err)
}

func (s *ServiceSuite) TestPopularOrdersByComments() {
	quiet := s.article("Quiet piece here", models.StatusPublished)
	loud := s.article("Loud piece here", models.StatusPublished)
	_, err := s.comments.CreateComment(s.reader, loud.ID, models.CreateCommentRequest{Content: "nice"})
	s.Require().NoError(err)

	list, total, err := s.articles.GetPopular(nil, models.PageParams{})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Equal(loud.ID, list[0].ID)
	s.Equal(quiet.ID, list[1].ID)
}

func (s *ServiceSuite) TestReplyMustStayOnArticle() {
	a := s.article("Article alpha", models.StatusPublished)
	b := s.article("Article beta", models.StatusPublished)

	c1, err := s.comments.CreateComment(s.reader, a.ID, models.CreateCommentRequest{Content: "first!"})
	s.Require().NoError(err)

	c2, err := s.comments.CreateComment(s.reader, a.ID, models.CreateCommentRequest{Content: "reply", ReplyTo: &c1.ID})
	s.Require().NoError(err)
	s.Equal(c1.ID, *c2.ReplyToID)

	_, err = s.comments.CreateComment(s.reader, b.ID, models.CreateCommentRequest{Content: "wrong", ReplyTo: &c1.ID})
	s.Contains(s.fieldErrors(err), "reply_to")

	thread, total, err := s.comments.GetArticleComments(nil, a.ID, models.PageParams{})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(thread[0].Replies, 1)
	s.Equal(c2.ID, thread[0].Replies[0].ID)
}

func (s *ServiceSuite) TestReplyDepthLimit() {
	s.build(policy.Options{}, 1)
	a := s.article("Depth limited", models.StatusPublished)

	root, err := s.comments.CreateComment(s.reader, a.ID, models.CreateCommentRequest{Content: "root"})
	s.Require().NoError(err)
	child, err := s.comments.Reply(s.reader, root.ID, models.UpdateCommentRequest{Content: "child"})
	s.Require().NoError(err)

	_, err = s.comments.Reply(s.reader, child.ID, models.UpdateCommentRequest{Content: "too deep"})
	s.Contains(s.fieldErrors(err), "reply_to")
}

func (s *ServiceSuite) TestCommentsOnHiddenArticle() {
	draft := s.article("Hidden draft", models.StatusDraft)

	_, err := s.comments.CreateComment(s.reader, draft.ID, models.CreateCommentRequest{Content: "hello"})
	s.IsType(models.ErrorNotFound{}, err)

	_, err = s.comments.CreateComment(nil, draft.ID, models.CreateCommentRequest{Content: "hello"})
	s.IsType(models.ErrorUnauthorized{}, err)
}

func (s *ServiceSuite) TestCommentUpdateAndDeleteRules() {
	a := s.article("Comment rules", models.StatusPublished)
	c, err := s.comments.CreateComment(s.reader, a.ID, models.CreateCommentRequest{Content: "original"})
	s.Require().NoError(err)

	_, err = s.comments.UpdateComment(s.editor, c.ID, models.UpdateCommentRequest{Content: "hijacked"})
	s.IsType(models.ErrorForbidden{}, err)

	updated, err := s.comments.UpdateComment(s.reader, c.ID, models.UpdateCommentRequest{Content: "edited"})
	s.Require().NoError(err)
	s.Equal("edited", updated.Content)

	s.IsType(models.ErrorForbidden{}, s.comments.DeleteComment(s.reader, c.ID))
	s.Require().NoError(s.comments.DeleteComment(s.admin, c.ID))

	_, err = s.comments.GetComment(nil, c.ID)
	s.IsType(models.ErrorNotFound{}, err)
}

func (s *ServiceSuite) TestCommentAuthorDeleteWhenEnabled() {
	s.build(policy.Options{CommentAuthorDelete: true}, 0)
	a := s.article("Self delete", models.StatusPublished)
	c, err := s.comments.CreateComment(s.reader, a.ID, models.CreateCommentRequest{Content: "mine"})
	s.Require().NoError(err)

	s.NoError(s.comments.DeleteComment(s.reader, c.ID))
}

func (s *ServiceSuite) TestProfileUpdateIsOwnerOnly() {
	bio := "Gopher"
	_, err := s.profiles.UpdateProfile(s.editor, s.reader.UserID, models.UpdateProfileRequest{Bio: &bio})
	s.IsType(models.ErrorForbidden{}, err)

	profile, err := s.profiles.UpdateProfile(s.reader, s.reader.UserID, models.UpdateProfileRequest{Bio: &bio})
	s.Require().NoError(err)
	s.Equal("Gopher", profile.Bio)
	s.Nil(profile.ProfilePic)

	pic := "/media/rita.png"
	profile, err = s.profiles.UpdateProfile(s.reader, s.reader.UserID, models.UpdateProfileRequest{ProfilePic: &pic})
	s.Require().NoError(err)
	s.Equal("Gopher", profile.Bio)
	s.Equal(pic, *profile.ProfilePic)
}

func (s *ServiceSuite) TestAssignGroup() {
	_, err := s.users.AssignGroup(s.editor, s.reader.UserID, models.AssignGroupRequest{Group: models.GroupEditors})
	s.IsType(models.ErrorForbidden{}, err)

	_, err = s.users.AssignGroup(s.admin, s.reader.UserID, models.AssignGroupRequest{Group: "wizards"})
	s.Contains(s.fieldErrors(err), "group")

	user, err := s.users.AssignGroup(s.admin, s.reader.UserID, models.AssignGroupRequest{Group: models.GroupEditors})
	s.Require().NoError(err)
	s.Equal(models.GroupEditors, user.PrimaryGroup())

	users, total, err := s.users.GetUsers(s.admin, models.PageParams{})
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Len(users, 3)
}

func (s *ServiceSuite) TestCreateTag() {
	tag, err := s.tags.CreateTag(s.editor, models.CreateTagRequest{Name: " golang "})
	s.Require().NoError(err)
	s.Equal("golang", tag.Name)

	_, err = s.tags.CreateTag(s.editor, models.CreateTagRequest{Name: "golang"})
	s.Contains(s.fieldErrors(err), "name")

	_, err = s.tags.CreateTag(s.editor, models.CreateTagRequest{Name: "GoLang"})
	s.Contains(s.fieldErrors(err)["name"], "Tag with this name already exists.")

	article, err := s.articles.CreateArticle(s.editor, models.CreateArticleRequest{
		Title:   "Tags reuse stored names",
		Content: "Article tagged with a different case",
		Tags:    []string{"GOLANG"},
	})
	s.Require().NoError(err)
	s.Equal([]string{"golang"}, article.TagNames())

	_, err = s.tags.CreateTag(s.reader, models.CreateTagRequest{Name: "other"})
	s.IsType(models.ErrorForbidden{}, err)
}
