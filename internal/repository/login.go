package repository

import (
	"context"

	"nutritrack/internal/models"
	"nutritrack/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LoginRepository records per-day logins.
type LoginRepository interface {
	// Record inserts (userID, date) unless it already exists. inserted is false
	// when another login for the same day got there first.
	Record(ctx context.Context, userID uint, date string) (inserted bool, err error)
	Count(ctx context.Context, userID uint, date string) (int64, error)
}

type loginRepository struct {
	db *gorm.DB
}

var loginLog = observability.NewRepoLogger("login_history")

func (r *loginRepository) Record(ctx context.Context, userID uint, date string) (bool, error) {
	ctx, span := observability.GetTraceLayer().TraceRepositoryMethod(ctx, dbSystem(r.db), "Record", "login_history")
	defer span.End()

	entry := models.LoginHistory{UserID: userID, LoginDate: date}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "login_date"}},
			DoNothing: true,
		}).
		Create(&entry)
	if result.Error != nil {
		if isUniqueConstraintError(result.Error) {
			return false, nil
		}
		loginLog.LogError(ctx, result.Error, "create")
		return false, models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	loginLog.LogCreate(ctx, map[string]interface{}{"user_id": userID, "login_date": date})
	return true, nil
}

func (r *loginRepository) Count(ctx context.Context, userID uint, date string) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.LoginHistory{}).
		Where("user_id = ? AND login_date = ?", userID, date).
		Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
