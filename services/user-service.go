package services

import (
	"context"
	"errors"
	"html"
	"strings"

	"taskboard/errs"
	"taskboard/logging"
	"taskboard/models"
	"taskboard/repositories"
	"taskboard/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService struct {
	users     repositories.Collection[models.User]
	blackList map[string]bool
	now       Clock
}

// NewUserService builds the service. blackList may be nil.
func NewUserService(users repositories.Collection[models.User], blackList map[string]bool, clock Clock) *UserService {
	if clock == nil {
		clock = SystemClock
	}
	return &UserService{users: users, blackList: blackList, now: clock}
}

// CreateUser registers a user. callerRole is the role of the authenticated
// caller, empty for anonymous sign-ups; only an admin may create an admin.
func (s *UserService) CreateUser(ctx context.Context, in models.NewUser, callerRole models.Role) (*models.User, error) {
	if err := required("name", in.Name); err != nil {
		return nil, err
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := required("jobTitle", in.JobTitle); err != nil {
		return nil, err
	}
	if err := s.validatePassword(in.Password); err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = models.RoleWorker
	}
	if !role.Valid() {
		return nil, errs.Validationf("unknown role %q", role)
	}
	if role == models.RoleAdmin && callerRole != models.RoleAdmin {
		logging.Logger.Warnf("Event ID: USER_ADMIN_CREATE_DENIED, Description: Caller with role %q tried to create an admin account", callerRole)
		return nil, errs.NotAuthorizedf("only an admin can create an admin account")
	}
	icon := ""
	if in.IconName != "" {
		if icon, err = validIcon(models.IconUser, in.IconName); err != nil {
			return nil, err
		}
	}
	if err := s.ensureEmailFree(ctx, email, primitive.NilObjectID); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, errs.Store("failed to hash password", err)
	}
	user := &models.User{
		ID:           primitive.NewObjectID(),
		Name:         html.EscapeString(strings.TrimSpace(in.Name)),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		JobTitle:     html.EscapeString(strings.TrimSpace(in.JobTitle)),
		IconName:     icon,
		AvatarURL:    strings.TrimSpace(in.AvatarURL),
		CreatedAt:    s.now(),
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}
	logging.Logger.Infof("Event ID: USER_CREATED, Description: User %s registered as %s", user.ID.Hex(), user.Role)
	return user, nil
}

// EnsureAdmin creates the bootstrap admin account unless a user with the
// email already exists. An existing user is returned as is.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password string) (*models.User, error) {
	existing, err := s.FindByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}
	user, err := s.CreateUser(ctx, models.NewUser{
		Name:     "Administrator",
		Email:    email,
		Password: password,
		Role:     models.RoleAdmin,
		JobTitle: "Administrator",
	}, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	logging.Logger.Infof("Event ID: ADMIN_BOOTSTRAPPED, Description: Bootstrap admin %s created", user.ID.Hex())
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.users.Find(ctx, bson.M{})
}

// FindByEmail returns NotFound when no user has the address.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := s.users.Find(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(email))})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, errs.NotFoundf("user with email %q not found", email)
	}
	return users[0], nil
}

// UpdateUser merges the non-nil patch fields. Changing a role requires an
// admin callerRole.
func (s *UserService) UpdateUser(ctx context.Context, id primitive.ObjectID, patch models.UserPatch, callerRole models.Role) (*models.User, error) {
	set := bson.M{}
	if patch.Name != nil {
		if err := required("name", *patch.Name); err != nil {
			return nil, err
		}
		set["name"] = html.EscapeString(strings.TrimSpace(*patch.Name))
	}
	if patch.Email != nil {
		email, err := normalizeEmail(*patch.Email)
		if err != nil {
			return nil, err
		}
		if err := s.ensureEmailFree(ctx, email, id); err != nil {
			return nil, err
		}
		set["email"] = email
	}
	if patch.Password != nil {
		if err := s.validatePassword(*patch.Password); err != nil {
			return nil, err
		}
		hash, err := utils.HashPassword(*patch.Password)
		if err != nil {
			return nil, errs.Store("failed to hash password", err)
		}
		set["passwordHash"] = hash
	}
	if patch.Role != nil {
		if !patch.Role.Valid() {
			return nil, errs.Validationf("unknown role %q", *patch.Role)
		}
		if callerRole != models.RoleAdmin {
			logging.Logger.Warnf("Event ID: USER_ROLE_CHANGE_DENIED, Description: Caller with role %q tried to set role %s on user %s", callerRole, *patch.Role, id.Hex())
			return nil, errs.NotAuthorizedf("only an admin can change roles")
		}
		set["role"] = *patch.Role
	}
	if patch.JobTitle != nil {
		if err := required("jobTitle", *patch.JobTitle); err != nil {
			return nil, err
		}
		set["jobTitle"] = html.EscapeString(strings.TrimSpace(*patch.JobTitle))
	}
	if patch.IconName != nil {
		icon, err := validIcon(models.IconUser, *patch.IconName)
		if err != nil {
			return nil, err
		}
		set["iconName"] = icon
	}
	if patch.AvatarURL != nil {
		set["avatarUrl"] = strings.TrimSpace(*patch.AvatarURL)
	}
	if len(set) == 0 {
		return s.GetUser(ctx, id)
	}
	return s.users.UpdateByID(ctx, id, bson.M{"$set": set})
}

// DeleteUser leaves any task assignments and memberships pointing at the user.
func (s *UserService) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	if err := s.users.DeleteByID(ctx, id); err != nil {
		return err
	}
	logging.Logger.Infof("Event ID: USER_DELETED, Description: User %s deleted", id.Hex())
	return nil
}

// Authenticate checks credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.Unauthenticatedf("invalid email or password")
		}
		return nil, err
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		logging.Logger.Warnf("Event ID: LOGIN_FAILED, Description: Wrong password for user %s", user.ID.Hex())
		return nil, errs.Unauthenticatedf("invalid email or password")
	}
	return user, nil
}

func (s *UserService) validatePassword(password string) error {
	if password == "" {
		return errs.Validationf("password is required")
	}
	if s.blackList[password] {
		return errs.Validationf("password is too common, please choose a stronger one")
	}
	return nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email string, self primitive.ObjectID) error {
	existing, err := s.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return errs.DuplicateKeyf("email %q is already registered", email)
	}
	return nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return "", errs.Validationf("a valid email is required")
	}
	return email, nil
}
