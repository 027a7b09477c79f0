package store

import (
	"context"
	stdlog "log"
	"os"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/alexisbeaulieu97/iconsmith/internal/domain/icon"
	"github.com/alexisbeaulieu97/iconsmith/internal/ports"
	apperrors "github.com/alexisbeaulieu97/iconsmith/pkg/errors"
)

const collectionKind = "collection"

// SQLStore persists collections through gorm. It backs both the embedded
// sqlite database and an optional postgres server.
type SQLStore struct {
	db     *gorm.DB
	logger ports.Logger
}

// OpenSQL connects with the given dialector, migrates the schema and rewrites
// any legacy gradient records in place.
func OpenSQL(ctx context.Context, dialector gorm.Dialector, logger ports.Logger) (*SQLStore, error) {
	gormCfg := &gorm.Config{
		SkipDefaultTransaction: true,
		Logger: gormlogger.New(stdlog.New(os.Stderr, "", stdlog.LstdFlags), gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, apperrors.NewStorageError("open database", err)
	}

	s := &SQLStore{db: db, logger: logger}
	if err := s.db.WithContext(ctx).AutoMigrate(&collectionRecord{}); err != nil {
		_ = s.Close()
		return nil, apperrors.NewStorageError("migrate schema", err)
	}
	if err := s.migrateLegacy(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) migrateLegacy(ctx context.Context) error {
	var records []collectionRecord
	if err := s.db.WithContext(ctx).Find(&records).Error; err != nil {
		return apperrors.NewStorageError("load records for migration", err)
	}

	rewritten := 0
	for _, rec := range records {
		c, migrated, err := rec.toCollection()
		if err != nil {
			return apperrors.NewStorageError("decode record for migration", err)
		}
		if !migrated {
			continue
		}
		if err := s.Put(ctx, c); err != nil {
			return err
		}
		rewritten++
	}
	if rewritten > 0 {
		s.logger.Info(ctx, "migrated legacy gradient records", "collections", rewritten)
	}
	return nil
}

// List returns every collection in creation order.
func (s *SQLStore) List(ctx context.Context) ([]icon.Collection, error) {
	var records []collectionRecord
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&records).Error; err != nil {
		return nil, apperrors.NewStorageError("list collections", err)
	}

	collections := make([]icon.Collection, 0, len(records))
	for _, rec := range records {
		c, _, err := rec.toCollection()
		if err != nil {
			return nil, apperrors.NewStorageError("list collections", err)
		}
		collections = append(collections, c)
	}
	return collections, nil
}

// Get loads one collection.
func (s *SQLStore) Get(ctx context.Context, id string) (icon.Collection, error) {
	var records []collectionRecord
	if err := s.db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&records).Error; err != nil {
		return icon.Collection{}, apperrors.NewStorageError("get collection", err)
	}
	if len(records) == 0 {
		return icon.Collection{}, apperrors.NewNotFoundError(collectionKind, id)
	}
	c, _, err := records[0].toCollection()
	if err != nil {
		return icon.Collection{}, apperrors.NewStorageError("get collection", err)
	}
	return c, nil
}

// Insert stores a new collection, failing when the id is taken.
func (s *SQLStore) Insert(ctx context.Context, c icon.Collection) error {
	rec, err := toRecord(c)
	if err != nil {
		return apperrors.NewStorageError("insert collection", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&collectionRecord{}).Where("id = ?", c.ID).Count(&existing).Error; err != nil {
			return apperrors.NewStorageError("insert collection", err)
		}
		if existing > 0 {
			return apperrors.NewAlreadyExistsError(collectionKind, c.ID)
		}
		if err := tx.Create(&rec).Error; err != nil {
			return apperrors.NewStorageError("insert collection", err)
		}
		return nil
	})
}

// Put overwrites an existing collection wholesale.
func (s *SQLStore) Put(ctx context.Context, c icon.Collection) error {
	rec, err := toRecord(c)
	if err != nil {
		return apperrors.NewStorageError("put collection", err)
	}

	res := s.db.WithContext(ctx).Model(&collectionRecord{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{"name": rec.Name, "icons": rec.Icons})
	if res.Error != nil {
		return apperrors.NewStorageError("put collection", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFoundError(collectionKind, c.ID)
	}
	return nil
}

// Delete removes a collection.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&collectionRecord{})
	if res.Error != nil {
		return apperrors.NewStorageError("delete collection", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFoundError(collectionKind, id)
	}
	return nil
}

// Count returns the number of stored collections.
func (s *SQLStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&collectionRecord{}).Count(&n).Error; err != nil {
		return 0, apperrors.NewStorageError("count collections", err)
	}
	return n, nil
}

// Close releases the underlying connection pool.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return apperrors.NewStorageError("close database", err)
	}
	return sqlDB.Close()
}

var _ ports.CollectionStore = (*SQLStore)(nil)
