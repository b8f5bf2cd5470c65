package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/movers-solution/movers/internal/models"
)

// GormRepo stores sessions in the session_records table
type GormRepo struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormRepo(db *gorm.DB) *GormRepo {
	return &GormRepo{db: db, now: time.Now}
}

func (r *GormRepo) Load(ctx context.Context, key string) (Session, error) {
	var rec models.SessionRecord
	if err := models.FindByID(r.db.WithContext(ctx), key, &rec); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Empty(), ErrNotFound
		}
		return Empty(), fmt.Errorf("failed to load session: %w", err)
	}
	return fromRecord(rec), nil
}

func (r *GormRepo) Save(ctx context.Context, key string, s Session) error {
	rec := toRecord(key, s)
	rec.LastSeenAt = r.now()

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "username", "email", "role", "last_seen_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *GormRepo) Delete(ctx context.Context, key string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", key).Delete(&models.SessionRecord{}).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *GormRepo) Touch(ctx context.Context, key string) error {
	res := r.db.WithContext(ctx).Model(&models.SessionRecord{}).
		Where("id = ?", key).
		Update("last_seen_at", r.now())
	if res.Error != nil {
		return fmt.Errorf("failed to touch session: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) DeleteIdle(ctx context.Context, before time.Time) (int, error) {
	res := r.db.WithContext(ctx).Where("last_seen_at < ?", before).Delete(&models.SessionRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete idle sessions: %w", res.Error)
	}
	return int(res.RowsAffected), nil
}

func (r *GormRepo) Count(ctx context.Context) (int, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.SessionRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return int(n), nil
}

func toRecord(key string, s Session) models.SessionRecord {
	rec := models.SessionRecord{
		BaseModel: models.BaseModel{ID: key},
		Username:  s.Username,
		Email:     s.Email,
		Role:      string(s.Role),
	}
	if s.ID != nil {
		id := *s.ID
		rec.UserID = &id
	}
	return rec
}

func fromRecord(rec models.SessionRecord) Session {
	s := Session{
		Username: rec.Username,
		Email:    rec.Email,
		Role:     Role(rec.Role),
	}
	if rec.UserID != nil {
		id := *rec.UserID
		s.ID = &id
	}
	return s
}
