package repository

import (
	"context"
	"time"

	"gravoplus/internal/dto"
	"gravoplus/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DevisRepository interface {
	Create(ctx context.Context, d *model.Devis) error
	CreateTx(tx *gorm.DB, d *model.Devis) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Devis, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Devis, error)
	List(ctx context.Context, filter dto.DevisFilter) ([]model.Devis, int64, error)
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status model.DevisStatus) error
	UpdateTotalTx(tx *gorm.DB, id uuid.UUID, total decimal.Decimal) error
	SetInvoiceTx(tx *gorm.DB, id uuid.UUID, invoiceID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	NextReference(ctx context.Context, tx *gorm.DB) (int, error)

	SumItemsTx(tx *gorm.DB, devisID uuid.UUID) (decimal.Decimal, error)

	CreateLineTx(tx *gorm.DB, l *model.DevisLine) error
	FindLine(ctx context.Context, devisID, lineID uuid.UUID) (*model.DevisLine, error)
	DeleteLineTx(tx *gorm.DB, lineID uuid.UUID) error

	CreateServiceItemTx(tx *gorm.DB, item *model.DevisServiceItem) error
	FindServiceItem(ctx context.Context, devisID, serviceID uuid.UUID) (*model.DevisServiceItem, error)
	DeleteServiceItemTx(tx *gorm.DB, itemID uuid.UUID) error

	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type devisRepo struct{ db *gorm.DB }

func NewDevisRepository(db *gorm.DB) DevisRepository { return &devisRepo{db: db} }

func (r *devisRepo) DB() *gorm.DB { return r.db }

func (r *devisRepo) Create(ctx context.Context, d *model.Devis) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *devisRepo) CreateTx(tx *gorm.DB, d *model.Devis) error {
	return tx.Create(d).Error
}

func (r *devisRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Devis, error) {
	var d model.Devis
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Invoice").
		Preload("Lines", func(q *gorm.DB) *gorm.DB { return q.Order("devis_lines.created_at ASC") }).
		Preload("Lines.Material").
		Preload("Services.Service").
		First(&d, id).Error
	return &d, err
}

func (r *devisRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Devis, error) {
	var out []model.Devis
	err := r.db.WithContext(ctx).Preload("Client").Where("id IN ?", ids).Find(&out).Error
	return out, err
}

func (r *devisRepo) List(ctx context.Context, filter dto.DevisFilter) ([]model.Devis, int64, error) {
	var devis []model.Devis
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Devis{})

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ClientID != "" {
		q = q.Where("client_id = ?", filter.ClientID)
	}
	if filter.From != "" {
		q = q.Where("DATE(created_at) >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("DATE(created_at) <= ?", filter.To)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Client").Preload("Lines").Preload("Services.Service").Preload("Invoice").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&devis).Error

	return devis, total, err
}

func (r *devisRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, status model.DevisStatus) error {
	return tx.Model(&model.Devis{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()}).Error
}

func (r *devisRepo) UpdateTotalTx(tx *gorm.DB, id uuid.UUID, total decimal.Decimal) error {
	return tx.Model(&model.Devis{}).Where("id = ?", id).Update("total_amount", total).Error
}

func (r *devisRepo) SetInvoiceTx(tx *gorm.DB, id uuid.UUID, invoiceID uuid.UUID) error {
	return tx.Model(&model.Devis{}).Where("id = ?", id).
		Updates(map[string]interface{}{"invoice_id": invoiceID, "status": model.StatusInvoiced}).Error
}

func (r *devisRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Select("Lines", "Services").Delete(&model.Devis{ID: id}).Error
}

func (r *devisRepo) NextReference(ctx context.Context, tx *gorm.DB) (int, error) {
	// PostgreSQL sequence for atomic reference numbering (see infra schema patches)
	var num int
	err := tx.WithContext(ctx).Raw("SELECT nextval('devis_reference_seq')").Scan(&num).Error
	return num, err
}

// SumItemsTx recomputes the devis total inside a mutation transaction:
// Σ line totals + Σ attached service price snapshots.
func (r *devisRepo) SumItemsTx(tx *gorm.DB, devisID uuid.UUID) (decimal.Decimal, error) {
	var lines, services decimal.NullDecimal
	if err := tx.Model(&model.DevisLine{}).
		Where("devis_id = ?", devisID).
		Select("COALESCE(SUM(line_total), 0)").
		Scan(&lines).Error; err != nil {
		return decimal.Zero, err
	}
	if err := tx.Model(&model.DevisServiceItem{}).
		Where("devis_id = ?", devisID).
		Select("COALESCE(SUM(price), 0)").
		Scan(&services).Error; err != nil {
		return decimal.Zero, err
	}
	return lines.Decimal.Add(services.Decimal), nil
}

// ─── Lines ───────────────────────────────────────────────────────────────────

func (r *devisRepo) CreateLineTx(tx *gorm.DB, l *model.DevisLine) error {
	return tx.Create(l).Error
}

func (r *devisRepo) FindLine(ctx context.Context, devisID, lineID uuid.UUID) (*model.DevisLine, error) {
	var l model.DevisLine
	err := r.db.WithContext(ctx).Where("id = ? AND devis_id = ?", lineID, devisID).First(&l).Error
	return &l, err
}

func (r *devisRepo) DeleteLineTx(tx *gorm.DB, lineID uuid.UUID) error {
	return tx.Delete(&model.DevisLine{}, lineID).Error
}

// ─── Service items ───────────────────────────────────────────────────────────

func (r *devisRepo) CreateServiceItemTx(tx *gorm.DB, item *model.DevisServiceItem) error {
	return tx.Create(item).Error
}

func (r *devisRepo) FindServiceItem(ctx context.Context, devisID, serviceID uuid.UUID) (*model.DevisServiceItem, error) {
	var item model.DevisServiceItem
	err := r.db.WithContext(ctx).Where("devis_id = ? AND service_id = ?", devisID, serviceID).First(&item).Error
	return &item, err
}

func (r *devisRepo) DeleteServiceItemTx(tx *gorm.DB, itemID uuid.UUID) error {
	return tx.Delete(&model.DevisServiceItem{}, itemID).Error
}
