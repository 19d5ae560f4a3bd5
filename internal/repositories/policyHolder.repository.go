package repositories

import (
	"context"
	"errors"

	"pojistovna/internal/database"
	"pojistovna/internal/logger"
	. "pojistovna/internal/models"
	"pojistovna/internal/services"

	"gorm.io/gorm"
)

type PolicyHolderRepository interface {
	GetAll(ctx context.Context) ([]PolicyHolder, error)
	GetByID(ctx context.Context, id int) (*PolicyHolder, error)
	Exists(ctx context.Context, id int) (bool, error)
	Create(ctx context.Context, holder *PolicyHolder) error
	Update(ctx context.Context, holder *PolicyHolder) error
	Delete(ctx context.Context, id int) error
}

type policyHolderRepository struct {
	db  database.DB
	log logger.Logger
}

func NewPolicyHolder(db database.DB) PolicyHolderRepository {
	return &policyHolderRepository{
		db:  db,
		log: logger.New("policyHolderRepository"),
	}
}

func (r *policyHolderRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.InsuranceWithContext(ctx)
}

func (r *policyHolderRepository) GetAll(ctx context.Context) ([]PolicyHolder, error) {
	log := r.log.Function("GetAll")

	var holders []PolicyHolder
	if err := r.getDB(ctx).Order("id").Find(&holders).Error; err != nil {
		return nil, log.Err("failed to get policy holders", err)
	}

	return holders, nil
}

func (r *policyHolderRepository) GetByID(ctx context.Context, id int) (*PolicyHolder, error) {
	log := r.log.Function("GetByID")

	var holder PolicyHolder
	if err := r.getDB(ctx).First(&holder, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get policy holder", err, "id", id)
	}

	return &holder, nil
}

func (r *policyHolderRepository) Exists(ctx context.Context, id int) (bool, error) {
	log := r.log.Function("Exists")

	var count int64
	if err := r.getDB(ctx).Model(&PolicyHolder{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, log.Err("failed to check policy holder existence", err, "id", id)
	}

	return count > 0, nil
}

func (r *policyHolderRepository) Create(ctx context.Context, holder *PolicyHolder) error {
	log := r.log.Function("Create")

	holder.ID = 0
	holder.Version = 1
	if err := r.getDB(ctx).Create(holder).Error; err != nil {
		return log.Err("failed to create policy holder", err, "holder", holder)
	}

	return nil
}

// Update is a compare-and-swap on the version column. Zero affected rows
// means a concurrent writer got there first: the caller distinguishes a
// vanished row from a version conflict.
func (r *policyHolderRepository) Update(ctx context.Context, holder *PolicyHolder) error {
	log := r.log.Function("Update")

	result := r.getDB(ctx).Model(&PolicyHolder{}).
		Where("id = ? AND version = ?", holder.ID, holder.Version).
		Updates(map[string]any{
			"full_name":        holder.FullName,
			"address":          holder.Address,
			"email":            holder.Email,
			"telephone_number": holder.TelephoneNumber,
			"version":          holder.Version + 1,
		})
	if result.Error != nil {
		return log.Err("failed to update policy holder", result.Error, "id", holder.ID)
	}

	if result.RowsAffected == 0 {
		exists, err := r.Exists(ctx, holder.ID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrConcurrentModification
	}

	holder.Version++
	return nil
}

func (r *policyHolderRepository) Delete(ctx context.Context, id int) error {
	log := r.log.Function("Delete")

	if err := r.getDB(ctx).Delete(&PolicyHolder{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete policy holder", err, "id", id)
	}

	return nil
}
