package source

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/scrapstack/hardware-prices-backend/internal/logger"
	"github.com/scrapstack/hardware-prices-backend/internal/normalize"
	"github.com/scrapstack/hardware-prices-backend/internal/types"
)

// productRow mirrors the table the scraper writes into. Price columns stay
// textual because the scraper stores them as scraped; parsing happens in the
// normalize boundary on every read.
type productRow struct {
	ID                 uint   `gorm:"primaryKey"`
	ProductID          string `gorm:"column:product_id"`
	ProductName        string `gorm:"column:product_name"`
	PriceCurrent       string `gorm:"column:price_current"`
	PriceOriginal      string `gorm:"column:price_original"`
	ImageURL           string `gorm:"column:image_url"`
	StoreName          string `gorm:"column:store_name"`
	ProductURL         string `gorm:"column:product_url"`
	Category           string `gorm:"column:category"`
	DiscountPercentage string `gorm:"column:discount_percentage"`
	Date               string `gorm:"column:date"`
}

func (productRow) TableName() string { return "products" }

func (r productRow) asDocument() map[string]any {
	return map[string]any{
		"product_id":          r.ProductID,
		"product_name":        r.ProductName,
		"price_current":       r.PriceCurrent,
		"price_original":      r.PriceOriginal,
		"image_url":           r.ImageURL,
		"store_name":          r.StoreName,
		"product_url":         r.ProductURL,
		"category":            r.Category,
		"discount_percentage": r.DiscountPercentage,
		"date":                r.Date,
	}
}

// DatabaseSource reads the scraper's product table through gorm. It never
// migrates or writes; the table belongs to the scraper.
type DatabaseSource struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDatabaseSource(baseLog *logger.Logger, driver, dsn string) (*DatabaseSource, error) {
	sourceLog := baseLog.With("source", "DatabaseSource")

	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	sourceLog.Info("Connected to product database", "driver", driver)
	return &DatabaseSource{db: db, log: sourceLog}, nil
}

func (s *DatabaseSource) FetchRecords(ctx context.Context) ([]types.PriceObservation, error) {
	var rows []productRow
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load product rows: %w", err)
	}

	out := make([]types.PriceObservation, 0, len(rows))
	invalid := 0
	for _, row := range rows {
		obs := normalize.FromDocument(row.asDocument())
		if obs.Price == 0 {
			invalid++
		}
		out = append(out, obs)
	}
	if invalid > 0 {
		s.log.Warn("Rows with missing or unparseable price", "count", invalid, "total", len(out))
	}
	s.log.Debug("Fetched product rows", "count", len(out))
	return out, nil
}
