package storage

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrRecordNotFound = errors.New("record not found")

// effectiveCategorySQL mirrors Record.EffectiveCategory.
const effectiveCategorySQL = "COALESCE(NULLIF(user_category, ''), NULLIF(suggested_category, ''), '" + Uncategorized + "')"

type Database struct {
	db *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Database{db: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.Close()
}

func (d *Database) SaveRecord(rec *Record) error {
	if err := d.db.Create(rec).Error; err != nil {
		return fmt.Errorf("failed to save record %s: %w", rec.RecordID, err)
	}
	return nil
}

func (d *Database) GetRecord(recordID string) (*Record, error) {
	var rec Record
	err := d.db.Where("record_id = ?", recordID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, recordID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load record %s: %w", recordID, err)
	}
	return &rec, nil
}

// ListRecords returns the most recently received records first. A
// non-positive limit returns all of them.
func (d *Database) ListRecords(limit int) ([]Record, error) {
	return d.list(d.db, limit)
}

// ListNeedingInput returns financial records still flagged as requiring
// user input, newest first.
func (d *Database) ListNeedingInput(limit int) ([]Record, error) {
	return d.list(d.db.Where("is_financial = ? AND requires_user_input = ?", true, true), limit)
}

func (d *Database) GetRecordsByCategory(category string) ([]Record, error) {
	return d.list(d.db.Where("is_financial = ? AND "+effectiveCategorySQL+" = ?", true, category), 0)
}

func (d *Database) list(q *gorm.DB, limit int) ([]Record, error) {
	q = q.Order("received_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var recs []Record
	if err := q.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return recs, nil
}

func (d *Database) SetUserCategory(recordID, category string) error {
	rec, err := d.GetRecord(recordID)
	if err != nil {
		return err
	}

	rec.ApplyUserCategory(category)

	if err := d.db.Save(rec).Error; err != nil {
		return fmt.Errorf("failed to set category on %s: %w", recordID, err)
	}
	return nil
}

func (d *Database) SetNotes(recordID, notes string) error {
	res := d.db.Model(&Record{}).Where("record_id = ?", recordID).Update("notes", notes)
	if res.Error != nil {
		return fmt.Errorf("failed to set notes on %s: %w", recordID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, recordID)
	}
	return nil
}

// GetCategorySummary totals financial record amounts per effective
// category.
func (d *Database) GetCategorySummary() (map[string]decimal.Decimal, error) {
	var recs []Record
	if err := d.db.Where("is_financial = ? AND amount_parsed = ?", true, true).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to load records for summary: %w", err)
	}

	summary := make(map[string]decimal.Decimal)
	for _, r := range recs {
		c := r.EffectiveCategory()
		summary[c] = summary[c].Add(r.Amount)
	}
	return summary, nil
}
