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

type ShopStore interface {
	Create(ctx context.Context, shop models.Shop) error
	FindByEmail(ctx context.Context, email string) (models.Shop, error)
	GetByID(ctx context.Context, id string) (models.Shop, error)
	UpdateInfo(ctx context.Context, id string, name, description, address, phoneNumber, zipCode string) error
	UpdateAvatar(ctx context.Context, id string, avatarKey string) error
	UpdateWithdrawMethod(ctx context.Context, id string, method *models.WithdrawMethod) error
	List(ctx context.Context) ([]models.Shop, error)
	Delete(ctx context.Context, id string) error
}

type ShopService struct {
	shops   ShopStore
	avatars AvatarStore
	mailer  mail.Mailer
	cfg     *config.AppConfig
	log     zerolog.Logger
}

func NewShopService(shops ShopStore, avatars AvatarStore, mailer mail.Mailer, cfg *config.AppConfig, log zerolog.Logger) *ShopService {
	return &ShopService{
		shops:   shops,
		avatars: avatars,
		mailer:  mailer,
		cfg:     cfg,
		log:     log,
	}
}

type RegisterShopInput struct {
	Name        string
	OwnerName   string
	Email       string
	Password    string
	PhoneNumber string
	Address     string
	ZipCode     string
}

// Register signs the pending shop into an activation token and mails the
// activation link. The shop record is only created by Activate.
func (s *ShopService) Register(ctx context.Context, input RegisterShopInput) error {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return fmt.Errorf("email and password required")
	}

	if _, err := s.shops.FindByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, repository.ErrShopNotFound) {
		return err
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return err
	}

	pending := models.PendingShop{
		Name:         input.Name,
		OwnerName:    input.OwnerName,
		Email:        email,
		PasswordHash: string(passwordHash),
		PhoneNumber:  input.PhoneNumber,
		Address:      input.Address,
		ZipCode:      input.ZipCode,
	}

	token, err := security.IssueShopActivationToken(s.cfg.Security.ActivationSecret, pending)
	if err != nil {
		return err
	}

	activationURL := fmt.Sprintf("%s/seller/activation/%s", strings.TrimSuffix(s.cfg.Mail.ActivationBaseURL, "/"), token)
	return s.mailer.Send(ctx, mail.Message{
		To:      email,
		Subject: "Activate your shop",
		Body:    fmt.Sprintf("Hello %s, please click the link to activate your shop: %s", input.Name, activationURL),
	})
}

func (s *ShopService) Activate(ctx context.Context, token string) (models.Shop, error) {
	pending, err := security.ParseShopActivationToken(token, s.cfg.Security.ActivationSecret)
	if err != nil {
		return models.Shop{}, ErrInvalidActivation
	}

	if _, err := s.shops.FindByEmail(ctx, pending.Email); err == nil {
		return models.Shop{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrShopNotFound) {
		return models.Shop{}, err
	}

	shop := models.Shop{
		ID:           ids.New(),
		Name:         pending.Name,
		OwnerName:    pending.OwnerName,
		Email:        pending.Email,
		PasswordHash: []byte(pending.PasswordHash),
		PhoneNumber:  pending.PhoneNumber,
		Address:      pending.Address,
		ZipCode:      pending.ZipCode,
		Role:         models.RoleSeller,
	}

	if err := s.shops.Create(ctx, shop); err != nil {
		return models.Shop{}, err
	}
	return shop, nil
}

func (s *ShopService) Login(ctx context.Context, email string, password string) (models.Shop, error) {
	shop, err := s.shops.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrShopNotFound) {
			return models.Shop{}, ErrInvalidCredentials
		}
		return models.Shop{}, err
	}

	ok, err := security.VerifyPassword(password, shop.PasswordHash)
	if err != nil || !ok {
		return models.Shop{}, ErrInvalidCredentials
	}
	return shop, nil
}

func (s *ShopService) UpdateInfo(ctx context.Context, id string, name, description, address, phoneNumber, zipCode string) (models.Shop, error) {
	if err := s.shops.UpdateInfo(ctx, id, name, description, address, phoneNumber, zipCode); err != nil {
		return models.Shop{}, err
	}
	return s.shops.GetByID(ctx, id)
}

func (s *ShopService) UpdateAvatar(ctx context.Context, shop models.Shop, newKey string) (models.Shop, error) {
	if err := s.shops.UpdateAvatar(ctx, shop.ID, newKey); err != nil {
		return models.Shop{}, err
	}
	if shop.AvatarKey != "" {
		if err := s.avatars.RemoveAvatar(ctx, shop.AvatarKey); err != nil {
			s.log.Warn().Err(err).Str("key", shop.AvatarKey).Msg("old avatar cleanup failed")
		}
	}
	return s.shops.GetByID(ctx, shop.ID)
}

func (s *ShopService) UpdateWithdrawMethod(ctx context.Context, id string, method *models.WithdrawMethod) (models.Shop, error) {
	if err := s.shops.UpdateWithdrawMethod(ctx, id, method); err != nil {
		return models.Shop{}, err
	}
	return s.shops.GetByID(ctx, id)
}

func (s *ShopService) GetByID(ctx context.Context, id string) (models.Shop, error) {
	return s.shops.GetByID(ctx, id)
}

func (s *ShopService) List(ctx context.Context) ([]models.Shop, error) {
	return s.shops.List(ctx)
}

func (s *ShopService) Delete(ctx context.Context, id string) error {
	shop, err := s.shops.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.shops.Delete(ctx, id); err != nil {
		return err
	}
	if shop.AvatarKey != "" {
		if err := s.avatars.RemoveAvatar(ctx, shop.AvatarKey); err != nil {
			s.log.Warn().Err(err).Str("key", shop.AvatarKey).Msg("avatar cleanup failed")
		}
	}
	return nil
}
