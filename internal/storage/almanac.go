// Package storage persists computed twilight tables to PostgreSQL so that
// calendar clients can query past dates without recomputation.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/chrissnell/daybreak/internal/log"
	"github.com/chrissnell/daybreak/pkg/twilight"
	"go.uber.org/zap"
)

// AlmanacEntry is one threshold's result for one date and location.
// Morning and Evening are local standard-time hours of day; NULL when the
// Sun never reached the threshold on that date.
type AlmanacEntry struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Location  string    `gorm:"uniqueIndex:idx_almanac_row" json:"location"`
	Date      string    `gorm:"uniqueIndex:idx_almanac_row" json:"date"` // YYYY-MM-DD
	Threshold float64   `gorm:"uniqueIndex:idx_almanac_row" json:"threshold"`
	Morning   *float64  `json:"morning"`
	Evening   *float64  `json:"evening"`
	DayLength float64   `json:"day_length"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the GORM default pluralization
func (AlmanacEntry) TableName() string {
	return "almanac"
}

// Client holds the connection to the almanac database
type Client struct {
	dsn    string
	DB     *gorm.DB
	logger *zap.SugaredLogger
}

// NewClient creates a new almanac database client
func NewClient(dsn string, zlogger *zap.SugaredLogger) *Client {
	return &Client{
		dsn:    dsn,
		logger: zlogger,
	}
}

// Connect connects to the almanac database and migrates the schema
func (c *Client) Connect() error {
	dbLogger := logger.New(
		zap.NewStdLog(log.GetZapLogger()),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	log.Info("connecting to almanac database...")
	db, err := gorm.Open(postgres.Open(c.dsn), &gorm.Config{Logger: dbLogger})
	if err != nil {
		log.Warn("warning: unable to create an almanac database connection:", err)
		return err
	}
	c.DB = db

	if err := c.DB.AutoMigrate(&AlmanacEntry{}); err != nil {
		return fmt.Errorf("error migrating almanac schema: %w", err)
	}

	log.Info("almanac database connection successful")
	return nil
}

// SaveTable persists one date's full threshold table for a location.
// Re-saving an already archived date updates the existing rows in place
// rather than accumulating duplicates.
func (c *Client) SaveTable(ctx context.Context, location string, date time.Time, tbl twilight.Table) error {
	entries := []AlmanacEntry{
		newEntry(location, date, twilight.ThresholdSunrise, tbl.Sunrise),
		newEntry(location, date, twilight.ThresholdCivil, tbl.Civil),
		newEntry(location, date, twilight.ThresholdNautical, tbl.Nautical),
		newEntry(location, date, twilight.ThresholdAstronomical, tbl.Astronomical),
	}

	err := c.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "location"}, {Name: "date"}, {Name: "threshold"}},
		DoUpdates: clause.AssignmentColumns([]string{"morning", "evening", "day_length", "created_at"}),
	}).Create(&entries).Error
	if err != nil {
		return fmt.Errorf("error saving almanac entries: %w", err)
	}
	return nil
}

// GetEntries retrieves all stored threshold rows for a location and date
func (c *Client) GetEntries(ctx context.Context, location string, date time.Time) ([]AlmanacEntry, error) {
	var entries []AlmanacEntry
	day := date.Format("2006-01-02")

	err := c.DB.WithContext(ctx).
		Where("location = ? AND date = ?", location, day).
		Order("threshold DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("error querying almanac for %s on %s: %w", location, day, err)
	}
	return entries, nil
}

func newEntry(location string, date time.Time, threshold float64, res twilight.Result) AlmanacEntry {
	e := AlmanacEntry{
		ID:        uuid.New().String(),
		Location:  location,
		Date:      date.Format("2006-01-02"),
		Threshold: threshold,
		DayLength: res.DayLength,
		CreatedAt: time.Now().UTC(),
	}
	if res.HasMorning {
		v := res.Morning
		e.Morning = &v
	}
	if res.HasEvening {
		v := res.Evening
		e.Evening = &v
	}
	return e
}
