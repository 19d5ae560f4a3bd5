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

type InsuranceRepository interface {
	GetAll(ctx context.Context) ([]Insurance, error)
	GetByID(ctx context.Context, id int) (*Insurance, error)
	GetByPolicyHolder(ctx context.Context, policyHolderID int) ([]InsuranceOption, error)
	Exists(ctx context.Context, id int) (bool, error)
	Create(ctx context.Context, insurance *Insurance) error
	Update(ctx context.Context, insurance *Insurance) error
	Delete(ctx context.Context, id int) error
	DeleteByPolicyHolder(ctx context.Context, policyHolderID int) error
}

type insuranceRepository struct {
	db  database.DB
	log logger.Logger
}

func NewInsurance(db database.DB) InsuranceRepository {
	return &insuranceRepository{
		db:  db,
		log: logger.New("insuranceRepository"),
	}
}

func (r *insuranceRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.InsuranceWithContext(ctx)
}

// GetAll eagerly loads the owning policy holder for each row; the listing
// shows holder names next to their policies.
func (r *insuranceRepository) GetAll(ctx context.Context) ([]Insurance, error) {
	log := r.log.Function("GetAll")

	var insurances []Insurance
	if err := r.getDB(ctx).Preload("PolicyHolder").Order("id").Find(&insurances).Error; err != nil {
		return nil, log.Err("failed to get insurances", err)
	}

	return insurances, nil
}

func (r *insuranceRepository) GetByID(ctx context.Context, id int) (*Insurance, error) {
	log := r.log.Function("GetByID")

	var insurance Insurance
	if err := r.getDB(ctx).Preload("PolicyHolder").First(&insurance, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get insurance", err, "id", id)
	}

	return &insurance, nil
}

// GetByPolicyHolder backs the dependent selector on the insurance event
// form: id plus type label for each policy of one holder.
func (r *insuranceRepository) GetByPolicyHolder(ctx context.Context, policyHolderID int) ([]InsuranceOption, error) {
	log := r.log.Function("GetByPolicyHolder")

	var insurances []Insurance
	if err := r.getDB(ctx).
		Where("policy_holder_id = ?", policyHolderID).
		Order("id").
		Find(&insurances).Error; err != nil {
		return nil, log.Err("failed to get insurances by policy holder", err, "policyHolderID", policyHolderID)
	}

	options := make([]InsuranceOption, 0, len(insurances))
	for _, insurance := range insurances {
		options = append(options, InsuranceOption{
			ID:            insurance.ID,
			InsuranceType: insurance.InsuranceType.String(),
		})
	}

	return options, nil
}

func (r *insuranceRepository) Exists(ctx context.Context, id int) (bool, error) {
	log := r.log.Function("Exists")

	var count int64
	if err := r.getDB(ctx).Model(&Insurance{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, log.Err("failed to check insurance existence", err, "id", id)
	}

	return count > 0, nil
}

func (r *insuranceRepository) Create(ctx context.Context, insurance *Insurance) error {
	log := r.log.Function("Create")

	insurance.ID = 0
	insurance.Version = 1
	if err := r.getDB(ctx).Create(insurance).Error; err != nil {
		return log.Err("failed to create insurance", err, "insurance", insurance)
	}

	return nil
}

func (r *insuranceRepository) Update(ctx context.Context, insurance *Insurance) error {
	log := r.log.Function("Update")

	result := r.getDB(ctx).Model(&Insurance{}).
		Where("id = ? AND version = ?", insurance.ID, insurance.Version).
		Updates(map[string]any{
			"policy_holder_id": insurance.PolicyHolderID,
			"insurance_type":   int(insurance.InsuranceType),
			"amount":           insurance.Amount,
			"start_date":       insurance.StartDate,
			"end_date":         insurance.EndDate,
			"version":          insurance.Version + 1,
		})
	if result.Error != nil {
		return log.Err("failed to update insurance", result.Error, "id", insurance.ID)
	}

	if result.RowsAffected == 0 {
		exists, err := r.Exists(ctx, insurance.ID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrConcurrentModification
	}

	insurance.Version++
	return nil
}

func (r *insuranceRepository) Delete(ctx context.Context, id int) error {
	log := r.log.Function("Delete")

	if err := r.getDB(ctx).Delete(&Insurance{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete insurance", err, "id", id)
	}

	return nil
}

func (r *insuranceRepository) DeleteByPolicyHolder(ctx context.Context, policyHolderID int) error {
	log := r.log.Function("DeleteByPolicyHolder")

	if err := r.getDB(ctx).Delete(&Insurance{}, "policy_holder_id = ?", policyHolderID).Error; err != nil {
		return log.Err("failed to delete insurances by policy holder", err, "policyHolderID", policyHolderID)
	}

	return nil
}
