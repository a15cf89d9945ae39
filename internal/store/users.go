package store

import (
	"context"
	"errors"
	"fmt"

	"budgetin/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Users persists local user records keyed by provider subject id.
type Users struct {
	db *gorm.DB
}

// NewUsers creates a user store.
func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

// Get returns the user with the given local id.
func (s *Users) Get(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return &u, nil
}

// FindByFirebaseUID returns the user linked to a provider subject id.
func (s *Users) FindByFirebaseUID(ctx context.Context, uid string) (*domain.User, error) {
	var u domain.User
	if err := s.db.WithContext(ctx).Where("firebase_uid = ?", uid).First(&u).Error; err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return &u, nil
}

// Upsert creates or refreshes the user for id.Subject in a single
// INSERT ... ON CONFLICT (firebase_uid) statement, so concurrent calls for the
// same subject converge on one row.
func (s *Users) Upsert(ctx context.Context, id domain.Identity) (*domain.User, error) {
	if id.Subject == "" {
		return nil, fmt.Errorf("%w: identity has no subject", domain.ErrValidation)
	}
	if id.Email == "" {
		return nil, fmt.Errorf("%w: identity has no email address", domain.ErrValidation)
	}
	uid := id.Subject
	row := domain.User{FirebaseUID: &uid, Name: id.DisplayName(), Email: id.Email}
	if id.PhotoURL != "" {
		photo := id.PhotoURL
		row.PhotoURL = &photo
	}

	var out domain.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// MySQL resolves ON DUPLICATE KEY against every unique index, so an
		// email held by another account must be refused before the insert.
		var taken int64
		if err := tx.Model(&domain.User{}).
			Where("email = ? AND (firebase_uid IS NULL OR firebase_uid <> ?)", id.Email, uid).
			Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return domain.ErrEmailTaken
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "firebase_uid"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "email", "photo_url", "updated_at"}),
		}).Create(&row).Error; err != nil {
			return err
		}
		return tx.Where("firebase_uid = ?", uid).First(&out).Error // Reload for the generated ID
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) { // Lost a race on the email index
		return nil, domain.ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("upsert user %s: %w", uid, err)
	}
	return &out, nil
}
