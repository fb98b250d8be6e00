package service

import (
	"github.com/eventsphere/backend/internal/models"
)

type UserService struct {
	users AccountStore
}

func NewUserService(users AccountStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetProfile(userID uint) (*models.UserProfile, error) {
	profile, err := s.users.GetProfileByUserID(userID)
	if err != nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

func (s *UserService) UpdateProfile(userID uint, req models.UpdateProfileRequest) (*models.UserProfile, error) {
	profile, err := s.users.GetProfileByUserID(userID)
	if err != nil {
		return nil, ErrProfileNotFound
	}

	if req.ContactEmail != nil {
		profile.ContactEmail = *req.ContactEmail
	}
	if req.OrganizationName != nil {
		profile.OrganizationName = *req.OrganizationName
	}
	if req.PhoneNumber != nil {
		profile.PhoneNumber = *req.PhoneNumber
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}

	if err := s.users.UpdateProfile(profile); err != nil {
		return nil, err
	}
	return profile, nil
}
