package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"time"

	"learnflow-be/internal/constant"
	"learnflow-be/internal/dto"
	"learnflow-be/internal/entity"
	"learnflow-be/internal/pkg/apperr"
	"learnflow-be/internal/pkg/logger"
	"learnflow-be/internal/pkg/mailer"
	"learnflow-be/internal/pkg/serverutils"
	"learnflow-be/internal/repository/specification"
	"learnflow-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResult, *serverutils.TokenPair, error)
	Session(ctx context.Context, userId uuid.UUID) (*dto.UserDTO, error)
	RequestPasswordReset(ctx context.Context, req *dto.ResetPasswordRequest) (*dto.MessageResponse, error)
	ConfirmPasswordReset(ctx context.Context, req *dto.ConfirmResetPasswordRequest) (*dto.MessageResponse, error)
}

type authService struct {
	uowFactory    unitofwork.RepositoryFactory
	emailService  mailer.IEmailService
	tokenIssuer   *serverutils.TokenIssuer
	clientURL     string
	resetTokenTTL time.Duration
	logger        logger.ILogger
	now           func() time.Time
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	tokenIssuer *serverutils.TokenIssuer,
	clientURL string,
	resetTokenTTL time.Duration,
	log logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory:    uowFactory,
		emailService:  emailService,
		tokenIssuer:   tokenIssuer,
		clientURL:     clientURL,
		resetTokenTTL: resetTokenTTL,
		logger:        log,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Validation(constant.MsgEmailRegistered)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Id:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("AUTH", "User registered", map[string]interface{}{"user_id": user.Id})

	return &dto.RegisterResponse{
		Message: constant.MsgRegistered,
		User:    dto.UserDTO{Id: user.Id, Email: user.Email},
	}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResult, *serverutils.TokenPair, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, apperr.Unauthorized(constant.MsgInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, apperr.Unauthorized(constant.MsgInvalidCredentials)
	}

	pair, err := s.tokenIssuer.Issue(user.Id, user.Email)
	if err != nil {
		return nil, nil, err
	}

	return &dto.LoginResult{
		User:         dto.UserDTO{Id: user.Id, Email: user.Email},
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, pair, nil
}

func (s *authService) Session(ctx context.Context, userId uuid.UUID) (*dto.UserDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Unauthorized(constant.MsgNotAuthenticated)
	}
	return &dto.UserDTO{Id: user.Id, Email: user.Email}, nil
}

// RequestPasswordReset answers the same way whether or not the account
// exists.
func (s *authService) RequestPasswordReset(ctx context.Context, req *dto.ResetPasswordRequest) (*dto.MessageResponse, error) {
	res := &dto.MessageResponse{Message: constant.MsgResetLinkSent}
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return res, nil
	}

	raw, err := randomToken()
	if err != nil {
		return nil, err
	}
	token := &entity.PasswordResetToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		TokenHash: hashToken(raw),
		ExpiresAt: s.now().Add(s.resetTokenTTL),
	}
	if err := uow.UserRepository().CreateResetToken(ctx, token); err != nil {
		return nil, err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.clientURL, url.QueryEscape(raw))
	if err := s.emailService.SendPasswordReset(user.Email, link); err != nil {
		s.logger.Error("AUTH", "Failed to send reset email", map[string]interface{}{
			"user_id": user.Id,
			"error":   err.Error(),
		})
	}
	return res, nil
}

func (s *authService) ConfirmPasswordReset(ctx context.Context, req *dto.ConfirmResetPasswordRequest) (*dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	token, err := uow.UserRepository().FindValidResetToken(ctx, hashToken(req.Token), s.now())
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, apperr.Validation(constant.MsgInvalidResetToken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().UpdatePassword(ctx, token.UserId, string(hash)); err != nil {
		return nil, err
	}
	if err := uow.UserRepository().MarkResetTokenUsed(ctx, token.Id); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.MessageResponse{Message: constant.MsgPasswordResetDone}, nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// hashToken is what gets stored; the raw token only travels by email.
func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
