package config

import (
	"blog-api/models"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedGroups creates the default groups. Safe to call on every start.
func SeedGroups(db *gorm.DB) error {
	for _, name := range models.DefaultGroups {
		group := models.Group{Name: name}
		if err := db.Where(models.Group{Name: name}).FirstOrCreate(&group).Error; err != nil {
			return errors.Wrapf(err, "seed group %s", name)
		}
	}
	return nil
}

// SeedAdmin creates the initial staff account when it does not exist yet.
// An empty password skips seeding.
func SeedAdmin(db *gorm.DB, cfg SeedConfig, log *zap.Logger) error {
	if cfg.AdminPassword == "" {
		log.Info("seed.admin_password not set, skipping admin account")
		return nil
	}
	created, err := seedUser(db, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword, true, models.GroupAdmin)
	if err != nil {
		return err
	}
	if created {
		log.Info("created initial admin account", zap.String("username", cfg.AdminUsername))
	}
	return nil
}

type sampleArticle struct {
	title   string
	content string
	status  models.ArticleStatus
	tags    []string
}

var sampleArticles = []sampleArticle{
	{
		title:   "First Article",
		content: "This is the content of the first article. It covers routing, middleware and persistence in a Go web service.",
		status:  models.StatusPublished,
		tags:    []string{"go", "rest", "api"},
	},
	{
		title:   "Second Article",
		content: "This is the content of the second article. It discusses testing strategies for HTTP handlers.",
		status:  models.StatusPublished,
		tags:    []string{"go", "testing", "web"},
	},
	{
		title:   "Upcoming Release Notes",
		content: "Draft notes for the next release, visible to editors until published.",
		status:  models.StatusDraft,
		tags:    []string{"release"},
	},
}

// SeedSample loads demo accounts, articles and comments for local development.
func SeedSample(db *gorm.DB, log *zap.Logger) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if _, err := seedUser(tx, "editor_user", "editor@example.com", "editor-pass-1234", false, models.GroupEditors); err != nil {
			return err
		}
		if _, err := seedUser(tx, "regular_user", "user@example.com", "user-pass-1234", false, models.GroupUsers); err != nil {
			return err
		}

		var editor, reader models.User
		if err := tx.Where("username = ?", "editor_user").First(&editor).Error; err != nil {
			return errors.Wrap(err, "load editor_user")
		}
		if err := tx.Where("username = ?", "regular_user").First(&reader).Error; err != nil {
			return errors.Wrap(err, "load regular_user")
		}

		for _, sample := range sampleArticles {
			var count int64
			if err := tx.Model(&models.Article{}).Where("title = ?", sample.title).Count(&count).Error; err != nil {
				return errors.Wrap(err, "check sample article")
			}
			if count > 0 {
				continue
			}

			tags := make([]models.Tag, 0, len(sample.tags))
			for _, name := range sample.tags {
				tag := models.Tag{Name: name}
				if err := tx.Where(models.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
					return errors.Wrapf(err, "seed tag %s", name)
				}
				tags = append(tags, tag)
			}

			article := models.Article{
				Title:    sample.title,
				Content:  sample.content,
				AuthorID: editor.ID,
				Status:   sample.status,
				Tags:     tags,
			}
			if err := tx.Create(&article).Error; err != nil {
				return errors.Wrapf(err, "seed article %s", sample.title)
			}

			if sample.status == models.StatusPublished {
				comment := models.Comment{
					Content:   "Great article! Very informative and well-written.",
					AuthorID:  reader.ID,
					ArticleID: article.ID,
				}
				if err := tx.Create(&comment).Error; err != nil {
					return errors.Wrap(err, "seed comment")
				}
			}
			log.Info("seeded sample article", zap.String("title", sample.title))
		}
		return nil
	})
}

func seedUser(db *gorm.DB, username, email, password string, staff bool, groupName string) (bool, error) {
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, errors.Wrapf(err, "check user %s", username)
	}
	if count > 0 {
		return false, nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, errors.Wrap(err, "hash seed password")
	}

	var group models.Group
	if err := db.Where("name = ?", groupName).First(&group).Error; err != nil {
		return false, errors.Wrapf(err, "load group %s", groupName)
	}

	user := models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		IsActive: true,
		IsStaff:  staff,
		Groups:   []models.Group{group},
		Profile:  &models.Profile{},
	}
	if err := db.Create(&user).Error; err != nil {
		return false, errors.Wrapf(err, "create user %s", username)
	}
	return true, nil
}
