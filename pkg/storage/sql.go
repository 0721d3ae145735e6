package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/angelmondragon/storefront-client/pkg/broadcast"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

type entry struct {
	Name      string `gorm:"column:name;primaryKey;size:191"`
	Value     string `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time
}

func (entry) TableName() string { return "storage_entries" }

// SQL persists values in a single table. It has no cross-process change
// feed; Watch only reports writes from sibling handles created with Open.
type SQL struct {
	db     *gorm.DB
	hub    *broadcast.Subject[Event]
	origin string
	owned  bool
}

// OpenSQLite opens (creating if needed) an sqlite file at path.
func OpenSQLite(path string) (*SQL, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.New(log.New(io.Discard, "", log.LstdFlags), gormlogger.Config{LogLevel: gormlogger.Silent}),
	})
	if err != nil {
		return nil, fmt.Errorf("opening storage db: %w", err)
	}
	store, err := NewSQL(db)
	if err != nil {
		return nil, err
	}
	store.owned = true
	return store, nil
}

// NewSQL migrates the storage table on db and returns a handle.
func NewSQL(db *gorm.DB) (*SQL, error) {
	if db == nil {
		return nil, errors.New("storage db is required")
	}
	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, fmt.Errorf("migrating storage table: %w", err)
	}
	return &SQL{db: db, hub: broadcast.NewSubject[Event](), origin: uuid.NewString()}, nil
}

// Open returns a sibling handle on the same database and change feed.
func (s *SQL) Open() *SQL {
	return &SQL{db: s.db, hub: s.hub, origin: uuid.NewString()}
}

func (s *SQL) Get(ctx context.Context, key string) (string, error) {
	var e entry
	err := s.db.WithContext(ctx).Where("name = ?", key).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("storage get %s: %w", key, err)
	}
	return e.Value, nil
}

func (s *SQL) Set(ctx context.Context, key, value string) error {
	e := entry{Name: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
	if err != nil {
		return fmt.Errorf("storage set %s: %w", key, err)
	}
	s.hub.Publish(Event{Origin: s.origin, Key: key})
	return nil
}

func (s *SQL) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Where("name IN ?", keys).Delete(&entry{}).Error; err != nil {
		return fmt.Errorf("storage remove: %w", err)
	}
	for _, key := range keys {
		s.hub.Publish(Event{Origin: s.origin, Key: key})
	}
	return nil
}

func (s *SQL) Watch(fn func(key string)) func() {
	if fn == nil {
		return func() {}
	}
	return s.hub.Subscribe(func(ev Event) {
		if ev.Origin != s.origin {
			fn(ev.Key)
		}
	})
}

func (s *SQL) Close() error {
	if !s.owned {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
