package repository

import (
	"github.com/pressplay/pressplay-backend/internal/app/model"
	"github.com/pressplay/pressplay-backend/pkg/logger"
	"gorm.io/gorm"
)

type BundleRepository interface {
	Create(bundle *model.Bundle) error
	FindByID(id uint) (*model.Bundle, error)
	FindAll() ([]model.Bundle, error)
	Update(bundle *model.Bundle) error
	Delete(id uint) error
}

type bundleRepository struct {
	db *gorm.DB
}

func NewBundleRepository(db *gorm.DB) BundleRepository {
	return &bundleRepository{db: db}
}

func (r *bundleRepository) Create(bundle *model.Bundle) error {
	if err := r.db.Create(bundle).Error; err != nil {
		logger.Error("Failed to create bundle in database", err, map[string]interface{}{
			"title": bundle.Title,
		})
		return err
	}
	return nil
}

func (r *bundleRepository) FindByID(id uint) (*model.Bundle, error) {
	var bundle model.Bundle
	if err := r.db.Preload("Games").First(&bundle, id).Error; err != nil {
		return nil, err
	}
	return &bundle, nil
}

func (r *bundleRepository) FindAll() ([]model.Bundle, error) {
	var bundles []model.Bundle
	if err := r.db.Preload("Games").Find(&bundles).Error; err != nil {
		logger.Error("Failed to list bundles", err, nil)
		return nil, err
	}
	return bundles, nil
}

func (r *bundleRepository) Update(bundle *model.Bundle) error {
	if err := r.db.Save(bundle).Error; err != nil {
		logger.Error("Failed to update bundle in database", err, map[string]interface{}{
			"bundle_id": bundle.ID,
		})
		return err
	}
	return nil
}

func (r *bundleRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Bundle{}, id).Error; err != nil {
		logger.Error("Failed to delete bundle from database", err, map[string]interface{}{
			"bundle_id": id,
		})
		return err
	}
	return nil
}
