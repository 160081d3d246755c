package app

import (
	"strings"

	"convobase/internal/model"
	"convobase/internal/repository"
)

type UserService struct {
	userRepo *repository.UserRepository
}

type CreateUserInput struct {
	Email    string
	FullName string
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) CreateUser(input CreateUserInput) (*model.User, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, ErrInvalidInput
	}

	existing, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	user := &model.User{
		Email:    email,
		FullName: strings.TrimSpace(input.FullName),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUser(id uint) (*model.User, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
