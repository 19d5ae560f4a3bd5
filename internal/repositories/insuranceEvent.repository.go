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

type InsuranceEventRepository interface {
	GetAll(ctx context.Context) ([]InsuranceEvent, error)
	GetByID(ctx context.Context, id int) (*InsuranceEvent, error)
	Exists(ctx context.Context, id int) (bool, error)
	Create(ctx context.Context, event *InsuranceEvent) error
	Update(ctx context.Context, event *InsuranceEvent) error
	Delete(ctx context.Context, id int) error
	DeleteByPolicyHolder(ctx context.Context, policyHolderID int) error
	DeleteByInsurance(ctx context.Context, insuranceID int) error
}

type insuranceEventRepository struct {
	db  database.DB
	log logger.Logger
}

func NewInsuranceEvent(db database.DB) InsuranceEventRepository {
	return &insuranceEventRepository{
		db:  db,
		log: logger.New("insuranceEventRepository"),
	}
}

func (r *insuranceEventRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.InsuranceWithContext(ctx)
}

func (r *insuranceEventRepository) GetAll(ctx context.Context) ([]InsuranceEvent, error) {
	log := r.log.Function("GetAll")

	var events []InsuranceEvent
	if err := r.getDB(ctx).
		Preload("PolicyHolder").
		Preload("Insurance").
		Order("id").
		Find(&events).Error; err != nil {
		return nil, log.Err("failed to get insurance events", err)
	}

	return events, nil
}

func (r *insuranceEventRepository) GetByID(ctx context.Context, id int) (*InsuranceEvent, error) {
	log := r.log.Function("GetByID")

	var event InsuranceEvent
	if err := r.getDB(ctx).
		Preload("PolicyHolder").
		Preload("Insurance").
		First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get insurance event", err, "id", id)
	}

	return &event, nil
}

func (r *insuranceEventRepository) Exists(ctx context.Context, id int) (bool, error) {
	log := r.log.Function("Exists")

	var count int64
	if err := r.getDB(ctx).Model(&InsuranceEvent{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, log.Err("failed to check insurance event existence", err, "id", id)
	}

	return count > 0, nil
}

func (r *insuranceEventRepository) Create(ctx context.Context, event *InsuranceEvent) error {
	log := r.log.Function("Create")

	event.ID = 0
	event.Version = 1
	if err := r.getDB(ctx).Create(event).Error; err != nil {
		return log.Err("failed to create insurance event", err, "event", event)
	}

	return nil
}

func (r *insuranceEventRepository) Update(ctx context.Context, event *InsuranceEvent) error {
	log := r.log.Function("Update")

	result := r.getDB(ctx).Model(&InsuranceEvent{}).
		Where("id = ? AND version = ?", event.ID, event.Version).
		Updates(map[string]any{
			"policy_holder_id": event.PolicyHolderID,
			"insurance_id":     event.InsuranceID,
			"event_date":       event.EventDate,
			"description":      event.Description,
			"event_status":     int(event.EventStatus),
			"version":          event.Version + 1,
		})
	if result.Error != nil {
		return log.Err("failed to update insurance event", result.Error, "id", event.ID)
	}

	if result.RowsAffected == 0 {
		exists, err := r.Exists(ctx, event.ID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return ErrConcurrentModification
	}

	event.Version++
	return nil
}

func (r *insuranceEventRepository) Delete(ctx context.Context, id int) error {
	log := r.log.Function("Delete")

	if err := r.getDB(ctx).Delete(&InsuranceEvent{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete insurance event", err, "id", id)
	}

	return nil
}

func (r *insuranceEventRepository) DeleteByPolicyHolder(ctx context.Context, policyHolderID int) error {
	log := r.log.Function("DeleteByPolicyHolder")

	if err := r.getDB(ctx).Delete(&InsuranceEvent{}, "policy_holder_id = ?", policyHolderID).Error; err != nil {
		return log.Err("failed to delete insurance events by policy holder", err, "policyHolderID", policyHolderID)
	}

	return nil
}

func (r *insuranceEventRepository) DeleteByInsurance(ctx context.Context, insuranceID int) error {
	log := r.log.Function("DeleteByInsurance")

	if err := r.getDB(ctx).Delete(&InsuranceEvent{}, "insurance_id = ?", insuranceID).Error; err != nil {
		return log.Err("failed to delete insurance events by insurance", err, "insuranceID", insuranceID)
	}

	return nil
}
