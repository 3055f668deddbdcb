package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/Jorogumo/models"
	"github.com/amirphl/Jorogumo/utils"
	"gorm.io/gorm"
)

// OperatorSessionRepositoryImpl implements OperatorSessionRepository
type OperatorSessionRepositoryImpl struct {
	*BaseRepository[models.OperatorSession, models.OperatorSessionFilter]
}

func NewOperatorSessionRepository(db *gorm.DB) OperatorSessionRepository {
	return &OperatorSessionRepositoryImpl{BaseRepository: NewBaseRepository[models.OperatorSession, models.OperatorSessionFilter](db)}
}

func (r *OperatorSessionRepositoryImpl) BySessionToken(ctx context.Context, token string) (*models.OperatorSession, error) {
	filter := models.OperatorSessionFilter{SessionToken: &token}
	rows, err := r.ByFilter(ctx, filter, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *OperatorSessionRepositoryImpl) UpdateLastAccessed(ctx context.Context, sessionID uint) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Model(&models.OperatorSession{}).
		Where("id = ?", sessionID).
		Update("last_accessed_at", utils.UTCNow()).Error
	if err != nil {
		return fmt.Errorf("failed to update session %d last access: %w", sessionID, err)
	}
	return nil
}

func (r *OperatorSessionRepositoryImpl) DeactivateByToken(ctx context.Context, token string) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Model(&models.OperatorSession{}).
		Where("session_token = ?", token).
		Update("is_active", false).Error
	if err != nil {
		return fmt.Errorf("failed to deactivate session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions whose expiry passed and returns the number of rows removed
func (r *OperatorSessionRepositoryImpl) DeleteExpired(ctx context.Context) (int64, error) {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return 0, err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	res := db.Where("expires_at <= ?", utils.UTCNow()).Delete(&models.OperatorSession{})
	if res.Error != nil {
		err = fmt.Errorf("failed to delete expired sessions: %w", res.Error)
		return 0, err
	}
	return res.RowsAffected, nil
}

func (r *OperatorSessionRepositoryImpl) applyFilter(db *gorm.DB, f models.OperatorSessionFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.SessionToken != nil {
		db = db.Where("session_token = ?", *f.SessionToken)
	}
	if f.Username != nil {
		db = db.Where("username = ?", *f.Username)
	}
	if f.IsActive != nil {
		db = db.Where("is_active = ?", *f.IsActive)
	}
	if f.ExpiresAfter != nil {
		db = db.Where("expires_at >= ?", *f.ExpiresAfter)
	}
	if f.ExpiresBefore != nil {
		db = db.Where("expires_at < ?", *f.ExpiresBefore)
	}
	if f.IsExpired != nil && *f.IsExpired {
		db = db.Where("expires_at <= ?", utils.UTCNow())
	}
	return db
}

func (r *OperatorSessionRepositoryImpl) ByFilter(ctx context.Context, filter models.OperatorSessionFilter, orderBy string, limit, offset int) ([]*models.OperatorSession, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.OperatorSession{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.OperatorSession
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *OperatorSessionRepositoryImpl) Count(ctx context.Context, filter models.OperatorSessionFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.OperatorSession{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *OperatorSessionRepositoryImpl) Exists(ctx context.Context, filter models.OperatorSessionFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
