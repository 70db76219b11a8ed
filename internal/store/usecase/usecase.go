package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wavemark/commerce-service/internal/model"
	"github.com/wavemark/commerce-service/internal/store"
	"github.com/wavemark/commerce-service/internal/store/dto"
	"go.uber.org/zap"
)

type storeUseCase struct {
	repo   store.Repository
	logger *zap.Logger
}

func NewStoreUseCase(repo store.Repository, log *zap.Logger) store.UseCase {
	return &storeUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *storeUseCase) SetupStore(ctx context.Context, input *dto.SetupStoreInput) (*model.Store, error) {
	if input.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", model.ErrValidation)
	}
	if input.Name == "" {
		return nil, fmt.Errorf("%w: store name is required", model.ErrValidation)
	}

	currency := input.Currency
	if currency == "" {
		currency = "usd"
	}

	now := time.Now()
	s := &model.Store{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		UserID:    input.UserID,
		Name:      input.Name,
		Currency:  currency,
	}
	if input.Description != "" {
		desc := input.Description
		s.Description = &desc
	}
	if input.ImageURL != "" {
		img := input.ImageURL
		s.ImageURL = &img
	}

	created, err := uc.repo.Create(ctx, s)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, fmt.Errorf("%w: user already has a store", model.ErrConflict)
	}

	uc.logger.Info("store created", zap.String("store_id", s.ID), zap.String("user_id", s.UserID))
	return s, nil
}

func (uc *storeUseCase) UpdateStore(ctx context.Context, input *dto.UpdateStoreInput) (*model.Store, error) {
	s, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: store not found", model.ErrNotFound)
	}

	if input.Name != nil {
		s.Name = *input.Name
	}
	if input.Description != nil {
		s.Description = input.Description
	}
	if input.ImageURL != nil {
		s.ImageURL = input.ImageURL
	}
	s.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (uc *storeUseCase) GetStore(ctx context.Context, id string) (*model.Store, error) {
	return uc.repo.FindByID(ctx, id)
}

func (uc *storeUseCase) GetStoreByUser(ctx context.Context, userID string) (*model.Store, error) {
	return uc.repo.FindByUser(ctx, userID)
}
