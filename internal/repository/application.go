package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"apptrack/constants"
	"apptrack/internal/common"
	"apptrack/internal/entity"
	"apptrack/internal/reconcile"
)

// ApplicationRepository is the data access layer for applications. It
// implements reconcile.Store.
type ApplicationRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

var _ reconcile.Store = (*ApplicationRepository)(nil)

func NewApplicationRepository(db *gorm.DB, logger *slog.Logger) *ApplicationRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &ApplicationRepository{db: db, logger: logger}
}

// FindByExternalID returns the application with the given external id,
// or (nil, nil) when none exists.
func (r *ApplicationRepository) FindByExternalID(ctx context.Context, externalID string) (*entity.Application, error) {
	var app entity.Application
	err := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, common.NewAppError("DB_QUERY", "find by external id", err)
	}
	return &app, nil
}

// FindByCompanySubstring returns the oldest application whose stored
// company name contains the given text, case-insensitively. The stored
// value is the haystack: a record saved as "Acme Corp Inc." matches a
// later extraction of just "Acme Corp".
func (r *ApplicationRepository) FindByCompanySubstring(ctx context.Context, company string) (*entity.Application, error) {
	return r.firstWhereContains(ctx, "company_name", company)
}

// FindByPositionSubstring is the position-title fallback for the same
// match, used when the company lookup comes up empty.
func (r *ApplicationRepository) FindByPositionSubstring(ctx context.Context, position string) (*entity.Application, error) {
	return r.firstWhereContains(ctx, "position", position)
}

func (r *ApplicationRepository) firstWhereContains(ctx context.Context, column, needle string) (*entity.Application, error) {
	var app entity.Application
	err := r.db.WithContext(ctx).
		Where("lower("+column+") LIKE '%' || lower(?) || '%'", needle).
		Order("id asc").
		First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, common.NewAppError("DB_QUERY", "substring lookup on "+column, err)
	}
	return &app, nil
}

// GetByID loads one application. Missing rows map to common.ErrNotFound.
func (r *ApplicationRepository) GetByID(ctx context.Context, id uint) (*entity.Application, error) {
	var app entity.Application
	err := r.db.WithContext(ctx).First(&app, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.NewAppError("DB_QUERY", "get application", err)
	}
	return &app, nil
}

// ListFilter narrows and pages List results.
type ListFilter struct {
	Status string
	Limit  int
	Offset int
}

// List returns applications newest first, with the total row count for
// the filter before paging.
func (r *ApplicationRepository) List(ctx context.Context, f ListFilter) ([]entity.Application, int64, error) {
	q := r.db.WithContext(ctx).Model(&entity.Application{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, common.NewAppError("DB_QUERY", "count applications", err)
	}

	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var apps []entity.Application
	if err := q.Order("applied_date desc, id desc").Find(&apps).Error; err != nil {
		return nil, 0, common.NewAppError("DB_QUERY", "list applications", err)
	}
	return apps, total, nil
}

// Create inserts a new application row.
func (r *ApplicationRepository) Create(ctx context.Context, app *entity.Application) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(app).Error
	})
	if err != nil {
		return common.NewAppError("DB_WRITE", "create application", err)
	}
	r.logger.Info("repo.application.created",
		"id", app.ID, "company", app.CompanyName, "position", app.Position)
	return nil
}

// UpdateRejection marks an existing application rejected. The source
// message's external id is written onto the record so a re-sync of the
// same rejection email dedups instead of re-applying the update.
func (r *ApplicationRepository) UpdateRejection(ctx context.Context, id uint, upd *reconcile.RejectionFields) error {
	values := map[string]any{
		"status":         string(constants.StatusRejected),
		"rejection_date": upd.RejectionDate,
	}
	if upd.RejectionReason != nil {
		values["rejection_reason"] = *upd.RejectionReason
	}
	if upd.ExternalID != "" {
		values["external_id"] = upd.ExternalID
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.Application{}).Where("id = ?", id).Updates(values)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return common.ErrNotFound
		}
		return nil
	})
	if errors.Is(err, common.ErrNotFound) {
		return common.ErrNotFound
	}
	if err != nil {
		return common.NewAppError("DB_WRITE", "update rejection", err)
	}
	r.logger.Info("repo.application.rejected", "id", id)
	return nil
}

// Update applies a partial update of user-editable columns.
func (r *ApplicationRepository) Update(ctx context.Context, id uint, values map[string]any) (*entity.Application, error) {
	if len(values) == 0 {
		return r.GetByID(ctx, id)
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.Application{}).Where("id = ?", id).Updates(values)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return common.ErrNotFound
		}
		return nil
	})
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.NewAppError("DB_WRITE", "update application", err)
	}
	return r.GetByID(ctx, id)
}

// Delete removes one application row.
func (r *ApplicationRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&entity.Application{}, id)
	if res.Error != nil {
		return common.NewAppError("DB_WRITE", "delete application", res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Stats summarizes the tracked applications.
type Stats struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"by_status"`
	ThisWeek   int64            `json:"this_week"`
	ThisMonth  int64            `json:"this_month"`
	Interviews int64            `json:"interviews_scheduled"`
}

// GetStats aggregates counts by status and recent-activity windows.
func (r *ApplicationRepository) GetStats(ctx context.Context) (*Stats, error) {
	s := &Stats{ByStatus: make(map[string]int64)}
	db := r.db.WithContext(ctx).Model(&entity.Application{})

	if err := db.Count(&s.Total).Error; err != nil {
		return nil, common.NewAppError("DB_QUERY", "count total", err)
	}

	type row struct {
		Status string
		N      int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).Model(&entity.Application{}).
		Select("status, count(*) as n").Group("status").Scan(&rows).Error; err != nil {
		return nil, common.NewAppError("DB_QUERY", "count by status", err)
	}
	for _, rw := range rows {
		s.ByStatus[rw.Status] = rw.N
	}

	now := time.Now().UTC()
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, -1, 0)

	if err := r.db.WithContext(ctx).Model(&entity.Application{}).
		Where("applied_date >= ?", weekAgo).Count(&s.ThisWeek).Error; err != nil {
		return nil, common.NewAppError("DB_QUERY", "count this week", err)
	}
	if err := r.db.WithContext(ctx).Model(&entity.Application{}).
		Where("applied_date >= ?", monthAgo).Count(&s.ThisMonth).Error; err != nil {
		return nil, common.NewAppError("DB_QUERY", "count this month", err)
	}
	if err := r.db.WithContext(ctx).Model(&entity.Application{}).
		Where("interview_date IS NOT NULL AND interview_date >= ?", now).
		Count(&s.Interviews).Error; err != nil {
		return nil, common.NewAppError("DB_QUERY", "count interviews", err)
	}
	return s, nil
}
