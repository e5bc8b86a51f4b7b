// Package cache persists translated Program output keyed by a
// caller-chosen key (the compile command uses the input file path) and
// source content hash, so re-translating unchanged input can be skipped
// (SPEC_FULL §12 "Module interface caching").
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Entry is one cached translation result: its cache key (Module),
// the digest of the source it was translated from, and the emitted
// Program serialized as JSON (the target AST's builder types marshal
// cleanly since every target.Node is a plain exported-field struct).
type Entry struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	Module     string `gorm:"type:varchar(255);uniqueIndex;not null"`
	SourceHash string `gorm:"type:varchar(64);not null"`

	// Program holds the emitted target.Program, JSON-encoded.
	Program datatypes.JSON `gorm:"type:jsonb"`

	// Diagnostics holds any non-fatal translation diagnostics recorded
	// alongside the Program (e.g. Open-Question-resolution notes).
	Diagnostics datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Entry) TableName() string { return "cache_entries" }

// Cache wraps a gorm.DB handle to the build-cache database.
type Cache struct {
	db *gorm.DB
}

// Open connects to (creating if absent) the sqlite database at path
// and runs its migration, mirroring the teacher pack's Connect/Migrate
// split: directory creation for a file-based DSN, optional debug
// logging, then AutoMigrate.
func Open(path string, debug bool) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("cache: creating directory for %s: %w", path, err)
		}
	}

	gcfg := &gorm.Config{}
	if debug {
		gcfg.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(sqlite.Open(path), gcfg)
	if err != nil {
		return nil, fmt.Errorf("cache: connecting to %s: %w", path, err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Exec("PRAGMA foreign_keys = ON")
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("cache: migrating: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying sqlite connection.
func (c *Cache) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Lookup returns the cached Program JSON for module if its recorded
// source hash matches sourceHash, and (false, nil) on a cache miss
// (stale hash or no entry — neither is an error).
func (c *Cache) Lookup(module, sourceHash string) ([]byte, bool, error) {
	var entry Entry
	err := c.db.Where("module = ? AND source_hash = ?", module, sourceHash).First(&entry).Error
	if err == gorm.ErrRecordNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: lookup %s: %w", module, err)
	}
	return []byte(entry.Program), true, nil
}

// Store upserts the translation result for module, replacing any
// existing entry regardless of its previous source hash.
func (c *Cache) Store(module, sourceHash string, program, diagnostics []byte) error {
	entry := Entry{
		ID:          uuid.NewString(),
		Module:      module,
		SourceHash:  sourceHash,
		Program:     datatypes.JSON(program),
		Diagnostics: datatypes.JSON(diagnostics),
	}
	return c.db.Where("module = ?", module).
		Assign(Entry{SourceHash: sourceHash, Program: entry.Program, Diagnostics: entry.Diagnostics}).
		FirstOrCreate(&entry, Entry{Module: module}).Error
}

// Invalidate removes module's cache entry, forcing the next Lookup to
// miss regardless of its source hash.
func (c *Cache) Invalidate(module string) error {
	return c.db.Where("module = ?", module).Delete(&Entry{}).Error
}
