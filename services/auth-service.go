package services

import (
	"context"
	"errors"
	"time"

	"taskboard/errs"
	"taskboard/logging"
	"taskboard/models"
	"taskboard/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const TokenTTL = time.Hour

type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// AuthService issues and resolves bearer tokens. Tokens are stateless, so
// logging out is purely a client concern.
type AuthService struct {
	users  *UserService
	secret []byte
}

func NewAuthService(users *UserService, secret []byte) *AuthService {
	return &AuthService{users: users, secret: secret}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	token, err := utils.GenerateToken(s.secret, user.ID.Hex(), string(user.Role), TokenTTL)
	if err != nil {
		return nil, errs.Store("failed to sign token", err)
	}
	logging.Logger.Infof("Event ID: LOGIN_SUCCESS, Description: User %s logged in", user.ID.Hex())
	return &LoginResult{Token: token, User: user}, nil
}

// Me resolves the user behind an already validated token. A token for a
// deleted user is treated as unauthenticated.
func (s *AuthService) Me(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.Unauthenticatedf("user no longer exists")
		}
		return nil, err
	}
	return user, nil
}
