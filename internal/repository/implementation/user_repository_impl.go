package implementation

import (
	"context"
	"errors"
	"strings"
	"time"

	"learnflow-be/internal/entity"
	"learnflow-be/internal/mapper"
	"learnflow-be/internal/model"
	"learnflow-be/internal/repository/contract"
	"learnflow-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &UserRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *entity.User) error {
	modelUser := r.mapper.ToModel(user)
	if modelUser.Id == uuid.Nil {
		modelUser.Id = uuid.New()
	}
	modelUser.Email = strings.ToLower(strings.TrimSpace(modelUser.Email))
	if err := r.db.WithContext(ctx).Create(modelUser).Error; err != nil {
		return err
	}
	*user = *r.mapper.ToEntity(modelUser)
	return nil
}

func (r *UserRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	var modelUser model.User
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelUser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&modelUser), nil
}

func (r *UserRepositoryImpl) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

func (r *UserRepositoryImpl) CreateResetToken(ctx context.Context, token *entity.PasswordResetToken) error {
	m := r.mapper.ResetTokenToModel(token)
	if m.Id == uuid.Nil {
		m.Id = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*token = *r.mapper.ResetTokenToEntity(m)
	return nil
}

func (r *UserRepositoryImpl) FindValidResetToken(ctx context.Context, tokenHash string, now time.Time) (*entity.PasswordResetToken, error) {
	var m model.PasswordResetToken
	err := r.db.WithContext(ctx).
		Where("token_hash = ? AND used = ? AND expires_at > ?", tokenHash, false, now).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ResetTokenToEntity(&m), nil
}

func (r *UserRepositoryImpl) MarkResetTokenUsed(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.PasswordResetToken{}).
		Where("id = ?", id).
		Update("used", true).Error
}
