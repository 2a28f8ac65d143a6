package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	"stock_valuation/internal/feature/portfolio/domain"
	"stock_valuation/internal/feature/portfolio/domain/entity"
	"stock_valuation/internal/feature/portfolio/usecase"
)

type positionGorm struct {
	db  *gorm.DB
	now func() time.Time
}

var (
	_ usecase.PositionRepository = (*positionGorm)(nil)
	_ usecase.ValueWriter        = (*positionGorm)(nil)
)

func NewPositionRepository(db *gorm.DB) *positionGorm {
	return &positionGorm{db: db, now: time.Now}
}

type PositionModel struct {
	ID           uint       `gorm:"primaryKey"`
	Label        string     `gorm:"size:255;not null"`
	Currency     string     `gorm:"size:3;not null;default:USD"`
	EntriedAt    *time.Time `gorm:"index"`
	EntriedValue int64      `gorm:"not null;default:0"`
	CurrentValue int64      `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (PositionModel) TableName() string {
	return "positions"
}

func toModel(e entity.Position) PositionModel {
	return PositionModel{
		ID:           e.ID,
		Label:        e.Label,
		Currency:     e.Currency,
		EntriedAt:    e.EntriedAt,
		EntriedValue: e.EntriedValue,
		CurrentValue: e.CurrentValue,
	}
}

func toEntity(m PositionModel) entity.Position {
	return entity.Position{
		ID:           m.ID,
		Label:        m.Label,
		Currency:     m.Currency,
		EntriedAt:    m.EntriedAt,
		EntriedValue: m.EntriedValue,
		CurrentValue: m.CurrentValue,
		UpdatedAt:    m.UpdatedAt,
	}
}

func (r *positionGorm) List(ctx context.Context) ([]entity.Position, error) {
	var rows []PositionModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Position, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}

// Create inserts p and fills in the generated ID and timestamps.
func (r *positionGorm) Create(ctx context.Context, p *entity.Position) error {
	m := toModel(*p)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*p = toEntity(m)
	return nil
}

func (r *positionGorm) WriteCurrentValue(ctx context.Context, id uint, amount int64) error {
	return r.write(ctx, id, "current_value", amount)
}

func (r *positionGorm) WriteEntryValue(ctx context.Context, id uint, amount int64) error {
	return r.write(ctx, id, "entried_value", amount)
}

func (r *positionGorm) write(ctx context.Context, id uint, column string, amount int64) error {
	res := r.db.WithContext(ctx).
		Model(&PositionModel{}).
		Where("id = ?", id).
		Updates(map[string]any{column: amount, "updated_at": r.now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrPositionNotFound
	}
	return nil
}
