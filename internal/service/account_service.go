package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"bazario/api/internal/config"
	"bazario/api/internal/ids"
	"bazario/api/internal/mail"
	"bazario/api/internal/models"
	"bazario/api/internal/repository"
	"bazario/api/internal/security"
)

// UserStore is the slice of the user repository the account service needs.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	UpdateInfo(ctx context.Context, id string, name string, email string, phoneNumber string) error
	UpdateAvatar(ctx context.Context, id string, avatarKey string) error
	UpdatePassword(ctx context.Context, id string, passwordHash []byte) error
	UpdateAddresses(ctx context.Context, id string, addresses []models.Address) error
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id string) error
}

// AvatarStore stores avatar objects; the service only tracks keys.
type AvatarStore interface {
	RemoveAvatar(ctx context.Context, key string) error
}

type AccountService struct {
	users   UserStore
	avatars AvatarStore
	mailer  mail.Mailer
	cfg     *config.AppConfig
	log     zerolog.Logger
}

func NewAccountService(users UserStore, avatars AvatarStore, mailer mail.Mailer, cfg *config.AppConfig, log zerolog.Logger) *AccountService {
	return &AccountService{
		users:   users,
		avatars: avatars,
		mailer:  mailer,
		cfg:     cfg,
		log:     log,
	}
}

type RegisterUserInput struct {
	Name      string
	Email     string
	Password  string
	AvatarKey string
}

// Register does not create an account. It signs the pending payload into an
// activation token and mails the activation link; the account materializes
// only when the link is claimed. If the email is already registered the
// just-uploaded avatar object is removed again.
func (s *AccountService) Register(ctx context.Context, input RegisterUserInput) error {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return fmt.Errorf("email and password required")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		if input.AvatarKey != "" {
			if err := s.avatars.RemoveAvatar(ctx, input.AvatarKey); err != nil {
				s.log.Warn().Err(err).Str("key", input.AvatarKey).Msg("orphan avatar cleanup failed")
			}
		}
		return ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return err
	}

	pending := models.PendingUser{
		Name:         input.Name,
		Email:        email,
		AvatarKey:    input.AvatarKey,
		PasswordHash: string(passwordHash),
	}

	token, err := security.IssueUserActivationToken(s.cfg.Security.ActivationSecret, pending)
	if err != nil {
		return err
	}

	activationURL := fmt.Sprintf("%s/activation/%s", strings.TrimSuffix(s.cfg.Mail.ActivationBaseURL, "/"), token)
	return s.mailer.Send(ctx, mail.Message{
		To:      email,
		Subject: "Activate your account",
		Body:    fmt.Sprintf("Hello %s, please click the link to activate your account: %s", input.Name, activationURL),
	})
}

// Activate decodes the token, re-checks the email for an existing account
// (the idempotent double-activation guard) and materializes the user.
func (s *AccountService) Activate(ctx context.Context, token string) (models.User, error) {
	pending, err := security.ParseUserActivationToken(token, s.cfg.Security.ActivationSecret)
	if err != nil {
		return models.User{}, ErrInvalidActivation
	}

	if _, err := s.users.FindByEmail(ctx, pending.Email); err == nil {
		return models.User{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return models.User{}, err
	}

	user := models.User{
		ID:           ids.New(),
		Name:         pending.Name,
		Email:        pending.Email,
		PasswordHash: []byte(pending.PasswordHash),
		Role:         models.RoleCustomer,
		AvatarKey:    pending.AvatarKey,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *AccountService) Login(ctx context.Context, email string, password string) (models.User, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AccountService) UpdateInfo(ctx context.Context, id string, name string, email string, phoneNumber string) (models.User, error) {
	if err := s.users.UpdateInfo(ctx, id, name, normalizeEmail(email), phoneNumber); err != nil {
		return models.User{}, err
	}
	return s.users.GetByID(ctx, id)
}

// UpdateAvatar swaps the stored key and removes the previous object.
func (s *AccountService) UpdateAvatar(ctx context.Context, user models.User, newKey string) (models.User, error) {
	if err := s.users.UpdateAvatar(ctx, user.ID, newKey); err != nil {
		return models.User{}, err
	}
	if user.AvatarKey != "" {
		if err := s.avatars.RemoveAvatar(ctx, user.AvatarKey); err != nil {
			s.log.Warn().Err(err).Str("key", user.AvatarKey).Msg("old avatar cleanup failed")
		}
	}
	return s.users.GetByID(ctx, user.ID)
}

// UpsertAddress updates an existing address by id, otherwise appends. A new
// address whose type is already present is rejected.
func (s *AccountService) UpsertAddress(ctx context.Context, userID string, address models.Address) (models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	updated := false
	for i := range user.Addresses {
		if address.ID != "" && user.Addresses[i].ID == address.ID {
			user.Addresses[i] = address
			updated = true
			break
		}
	}

	if !updated {
		for _, existing := range user.Addresses {
			if existing.AddressType == address.AddressType {
				return models.User{}, ErrAddressTypeExists
			}
		}
		address.ID = ids.New()
		user.Addresses = append(user.Addresses, address)
	}

	if err := s.users.UpdateAddresses(ctx, userID, user.Addresses); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *AccountService) DeleteAddress(ctx context.Context, userID string, addressID string) (models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	kept := user.Addresses[:0]
	for _, address := range user.Addresses {
		if address.ID != addressID {
			kept = append(kept, address)
		}
	}
	user.Addresses = kept

	if err := s.users.UpdateAddresses(ctx, userID, user.Addresses); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *AccountService) ChangePassword(ctx context.Context, userID string, oldPassword string, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := security.VerifyPassword(oldPassword, user.PasswordHash)
	if err != nil || !ok {
		return ErrInvalidCredentials
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

func (s *AccountService) GetByID(ctx context.Context, id string) (models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *AccountService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// Delete removes the account and, best effort, its avatar object.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	if user.AvatarKey != "" {
		if err := s.avatars.RemoveAvatar(ctx, user.AvatarKey); err != nil {
			s.log.Warn().Err(err).Str("key", user.AvatarKey).Msg("avatar cleanup failed")
		}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
