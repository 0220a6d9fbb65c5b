package services

import (
	"blog-api/models"
	"blog-api/policy"
	"blog-api/repositories"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type ProfileService interface {
	GetProfile(userID uint) (*models.Profile, error)
	UpdateProfile(actor *policy.Actor, userID uint, req models.UpdateProfileRequest) (*models.Profile, error)
}

type profileService struct {
	profileRepo repositories.ProfileRepository
	policy      *policy.Policy
}

func NewProfileService(profileRepo repositories.ProfileRepository, p *policy.Policy) ProfileService {
	return &profileService{profileRepo: profileRepo, policy: p}
}

func (s *profileService) GetProfile(userID uint) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorNotFound{Message: "Profile not found"}
		}
		return nil, errors.Wrap(err, "load profile")
	}
	return profile, nil
}

// UpdateProfile copies only the fields present in req onto the stored profile.
func (s *profileService) UpdateProfile(actor *policy.Actor, userID uint, req models.UpdateProfileRequest) (*models.Profile, error) {
	profile, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(actor, policy.ActionUpdate, policy.Profile(profile.UserID)); err != nil {
		return nil, err
	}

	if err := copier.CopyWithOption(profile, &req, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, errors.Wrap(err, "merge profile")
	}

	if err := s.profileRepo.Update(profile); err != nil {
		return nil, errors.Wrap(err, "update profile")
	}
	return profile, nil
}
