package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/boardforge/taskboard/internal/models"
)

type BoardRepo struct {
	DB *gorm.DB
}

func (r *BoardRepo) Create(ctx context.Context, b *models.Board) error {
	return r.DB.WithContext(ctx).Create(b).Error
}

func (r *BoardRepo) FindByID(ctx context.Context, id uint) (*models.Board, error) {
	var board models.Board
	if err := r.DB.WithContext(ctx).First(&board, id).Error; err != nil {
		return nil, err
	}
	return &board, nil
}

func (r *BoardRepo) List(ctx context.Context, offset, limit int) (int64, []models.Board, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Board{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Board
	if err := r.DB.WithContext(ctx).Model(&models.Board{}).
		Order("id ASC").Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}
