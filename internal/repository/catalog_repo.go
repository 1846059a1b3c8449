package repository

import (
	"context"

	"gravoplus/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ─── Machines ────────────────────────────────────────────────────────────────

type MachineRepository interface {
	Create(ctx context.Context, m *model.Machine) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Machine, error)
	FindByType(ctx context.Context, t model.MachineType) (*model.Machine, error)
	List(ctx context.Context) ([]model.Machine, error)
	Update(ctx context.Context, m *model.Machine) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type machineRepo struct{ db *gorm.DB }

func NewMachineRepository(db *gorm.DB) MachineRepository { return &machineRepo{db: db} }

func (r *machineRepo) Create(ctx context.Context, m *model.Machine) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *machineRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Machine, error) {
	var m model.Machine
	err := r.db.WithContext(ctx).First(&m, id).Error
	return &m, err
}

func (r *machineRepo) FindByType(ctx context.Context, t model.MachineType) (*model.Machine, error) {
	var m model.Machine
	err := r.db.WithContext(ctx).Where("type = ? AND active = true", t).First(&m).Error
	return &m, err
}

func (r *machineRepo) List(ctx context.Context) ([]model.Machine, error) {
	var out []model.Machine
	err := r.db.WithContext(ctx).Order("type ASC").Find(&out).Error
	return out, err
}

func (r *machineRepo) Update(ctx context.Context, m *model.Machine) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *machineRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Machine{}).Where("id = ?", id).Update("active", false).Error
}

// ─── Materials ───────────────────────────────────────────────────────────────

type MaterialRepository interface {
	Create(ctx context.Context, m *model.Material) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Material, error)
	List(ctx context.Context) ([]model.Material, error)
	Update(ctx context.Context, m *model.Material) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type materialRepo struct{ db *gorm.DB }

func NewMaterialRepository(db *gorm.DB) MaterialRepository { return &materialRepo{db: db} }

func (r *materialRepo) Create(ctx context.Context, m *model.Material) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *materialRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Material, error) {
	var m model.Material
	err := r.db.WithContext(ctx).First(&m, id).Error
	return &m, err
}

func (r *materialRepo) List(ctx context.Context) ([]model.Material, error) {
	var out []model.Material
	err := r.db.WithContext(ctx).Where("active = true").Order("name ASC").Find(&out).Error
	return out, err
}

func (r *materialRepo) Update(ctx context.Context, m *model.Material) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *materialRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Material{}).Where("id = ?", id).Update("active", false).Error
}

// ─── Fixed services ──────────────────────────────────────────────────────────

type FixedServiceRepository interface {
	Create(ctx context.Context, s *model.FixedService) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.FixedService, error)
	ListActive(ctx context.Context) ([]model.FixedService, error)
	Update(ctx context.Context, s *model.FixedService) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type fixedServiceRepo struct{ db *gorm.DB }

func NewFixedServiceRepository(db *gorm.DB) FixedServiceRepository {
	return &fixedServiceRepo{db: db}
}

func (r *fixedServiceRepo) Create(ctx context.Context, s *model.FixedService) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *fixedServiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.FixedService, error) {
	var s model.FixedService
	err := r.db.WithContext(ctx).First(&s, id).Error
	return &s, err
}

func (r *fixedServiceRepo) ListActive(ctx context.Context) ([]model.FixedService, error) {
	var out []model.FixedService
	err := r.db.WithContext(ctx).Where("is_active = true").Order("name ASC").Find(&out).Error
	return out, err
}

func (r *fixedServiceRepo) Update(ctx context.Context, s *model.FixedService) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *fixedServiceRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.FixedService{}).Where("id = ?", id).Update("is_active", false).Error
}
