package waitlist

import (
	"context"
	"errors"

	"github.com/buildrs/buildrs-api/internal/models"
	apperrors "github.com/buildrs/buildrs-api/pkg/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=waitlist

const pgUniqueViolation = "23505"

type WaitlistRepository interface {
	// Insert stores a normalized email in its own transaction. A uniqueness
	// violation is reported as a DUPLICATE_ENTRY AppError wrapping ErrDuplicateEmail.
	Insert(ctx context.Context, email string) (*models.WaitlistEntry, error)
	// Count returns the number of stored entries.
	Count(ctx context.Context) (int64, error)
	// Exists reports whether email is already stored.
	Exists(ctx context.Context, email string) (bool, error)
	// Ping checks that storage is reachable.
	Ping(ctx context.Context) error
}

type waitlistRepository struct {
	db *gorm.DB
}

func NewWaitlistRepository(db *gorm.DB) WaitlistRepository {
	return &waitlistRepository{db: db}
}

func (wr *waitlistRepository) Insert(ctx context.Context, email string) (*models.WaitlistEntry, error) {
	entry := &models.WaitlistEntry{Email: email}

	err := wr.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		// Reload so created_at reflects the database default.
		return tx.First(entry, entry.ID).Error
	})

	if err != nil {
		if isDuplicateKey(err) {
			return nil, apperrors.NewDuplicateEntryError(msgDuplicateEmail, errors.Join(ErrDuplicateEmail, err))
		}
		return nil, apperrors.NewDatabaseError(msgInsertFailed, err)
	}

	return entry, nil
}

func (wr *waitlistRepository) Count(ctx context.Context) (int64, error) {
	var count int64

	if err := wr.db.WithContext(ctx).Model(&models.WaitlistEntry{}).Count(&count).Error; err != nil {
		return 0, apperrors.NewDatabaseError(msgCountFailed, err)
	}

	return count, nil
}

func (wr *waitlistRepository) Exists(ctx context.Context, email string) (bool, error) {
	var count int64

	err := wr.db.WithContext(ctx).
		Model(&models.WaitlistEntry{}).
		Where("email = ?", email).
		Limit(1).
		Count(&count).Error

	if err != nil {
		return false, apperrors.NewDatabaseError("unable to look up waitlist entry", err)
	}

	return count > 0, nil
}

func (wr *waitlistRepository) Ping(ctx context.Context) error {
	if wr.db == nil {
		return apperrors.NewDatabaseError("database handle unavailable", gorm.ErrInvalidDB)
	}

	sqlDB, err := wr.db.DB()
	if err != nil {
		return apperrors.NewDatabaseError("database handle unavailable", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return apperrors.NewDatabaseError("database unreachable", err)
	}

	return nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return true
	}

	return apperrors.IsDuplicateKeyError(err)
}
