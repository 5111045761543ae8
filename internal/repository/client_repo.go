package repository

import (
	"context"
	"strings"

	"go-backoffice/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClientRepository interface {
	Create(ctx context.Context, client *model.Client) error
	FindAll(ctx context.Context) ([]model.Client, error)
	Search(ctx context.Context, term string, pageNumber, pageSize int) ([]model.Client, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Client, error)
	FindByIdentification(ctx context.Context, number string) (*model.Client, error)
	Update(ctx context.Context, client *model.Client) error
	Delete(ctx context.Context, id uuid.UUID, deletedBy string) error
}

type clientRepo struct {
	db *gorm.DB
}

func NewClientRepo(db *gorm.DB) ClientRepository {
	return &clientRepo{db}
}

func (r *clientRepo) Create(ctx context.Context, client *model.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *clientRepo) FindAll(ctx context.Context) ([]model.Client, error) {
	var clients []model.Client
	err := r.db.WithContext(ctx).Order("last_name ASC, first_name ASC").Find(&clients).Error
	return clients, err
}

// Search matches term against the full name and the identification number.
func (r *clientRepo) Search(ctx context.Context, term string, pageNumber, pageSize int) ([]model.Client, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Client{})
	if term = strings.TrimSpace(term); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(first_name || ' ' || last_name) LIKE ? OR identification_number LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var clients []model.Client
	err := q.Order("last_name ASC, first_name ASC").
		Offset((pageNumber - 1) * pageSize).
		Limit(pageSize).
		Find(&clients).Error
	return clients, total, err
}

func (r *clientRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	var client model.Client
	if err := r.db.WithContext(ctx).First(&client, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepo) FindByIdentification(ctx context.Context, number string) (*model.Client, error) {
	var client model.Client
	if err := r.db.WithContext(ctx).First(&client, "identification_number = ?", number).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepo) Update(ctx context.Context, client *model.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

func (r *clientRepo) Delete(ctx context.Context, id uuid.UUID, deletedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Client{}).Where("id = ?", id).Update("deleted_by", deletedBy)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Delete(&model.Client{}, "id = ?", id).Error
	})
}
