package services

import (
	"fmt"

	"blog-api/models"
	"blog-api/policy"
	"blog-api/repositories"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// UserService covers account administration for managerial actors.
type UserService interface {
	GetUsers(actor *policy.Actor, page models.PageParams) ([]models.User, int64, error)
	AssignGroup(actor *policy.Actor, userID uint, req models.AssignGroupRequest) (*models.User, error)
}

type userService struct {
	userRepo  repositories.UserRepository
	groupRepo repositories.GroupRepository
	policy    *policy.Policy
}

func NewUserService(userRepo repositories.UserRepository, groupRepo repositories.GroupRepository, p *policy.Policy) UserService {
	return &userService{userRepo: userRepo, groupRepo: groupRepo, policy: p}
}

func (s *userService) GetUsers(actor *policy.Actor, page models.PageParams) ([]models.User, int64, error) {
	if err := s.policy.Authorize(actor, policy.ActionRead, policy.Users()); err != nil {
		return nil, 0, err
	}
	users, total, err := s.userRepo.List(page.Normalized())
	if err != nil {
		return nil, 0, errors.Wrap(err, "list users")
	}
	return users, total, nil
}

func (s *userService) AssignGroup(actor *policy.Actor, userID uint, req models.AssignGroupRequest) (*models.User, error) {
	if err := s.policy.Authorize(actor, policy.ActionManage, policy.Users()); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "User not found"}
		}
		return nil, errors.Wrap(err, "load user")
	}

	group, err := s.groupRepo.GetByName(req.Group)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.FieldError("Invalid group", "group", fmt.Sprintf("Group %q does not exist.", req.Group))
		}
		return nil, errors.Wrap(err, "load group")
	}

	if err := s.userRepo.AddGroup(user, group); err != nil {
		return nil, errors.Wrap(err, "add group")
	}
	return s.userRepo.GetByID(user.ID)
}
