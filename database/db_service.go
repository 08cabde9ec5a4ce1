package database

import (
	"context"
	"errors"
	"fmt"

	database "gitlab.com/aoterocom/AOForexSignals/database/models"
	"gitlab.com/aoterocom/AOForexSignals/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DBService struct {
	DB     *gorm.DB
	Prefix string
}

func NewDBService(dsn string, prefix string) (*DBService, error) {
	return NewDBServiceFromDialector(mysql.Open(dsn), prefix)
}

// NewDBServiceFromDialector opens the database with any gorm dialector and migrates the schema
func NewDBServiceFromDialector(dialector gorm.Dialector, prefix string) (*DBService, error) {
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	dbs := &DBService{
		DB:     db,
		Prefix: prefix,
	}

	err = dbs.DB.AutoMigrate(&database.KeyValue{}, &database.Signal{})
	if err != nil {
		return nil, err
	}

	return dbs, nil
}

func (dbs *DBService) Get(ctx context.Context, key string) (string, bool, error) {
	var record database.KeyValue
	err := dbs.DB.WithContext(ctx).Where("`key` = ?", dbs.Prefix+key).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return record.Value, true, nil
}

func (dbs *DBService) Set(ctx context.Context, key string, value string) error {
	record := database.KeyValue{Key: dbs.Prefix + key, Value: value}
	err := dbs.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// AddSignals archives a generated batch; signals already archived are updated in place
func (dbs *DBService) AddSignals(ctx context.Context, signals []models.Signal) error {
	if len(signals) == 0 {
		return nil
	}
	records := make([]database.Signal, 0, len(signals))
	for _, signal := range signals {
		records = append(records, ToDBSignal(signal))
	}
	err := dbs.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "signal_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "exit_trigger", "updated_at"}),
	}).Create(&records).Error
	if err != nil {
		return fmt.Errorf("archiving %d signals: %w", len(records), err)
	}
	return nil
}

// GetSignalHistory returns the newest archived signals for a pair, all pairs when empty
func (dbs *DBService) GetSignalHistory(ctx context.Context, pair string, limit int) ([]models.Signal, error) {
	query := dbs.DB.WithContext(ctx).Order("generated_at DESC").Limit(limit)
	if pair != "" {
		query = query.Where("pair = ?", pair)
	}
	var records []database.Signal
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	signals := make([]models.Signal, 0, len(records))
	for _, record := range records {
		signals = append(signals, FromDBSignal(record))
	}
	return signals, nil
}

// Close releases the underlying connection pool
func (dbs *DBService) Close() error {
	sqlDB, err := dbs.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func ToDBSignal(signal models.Signal) database.Signal {
	return database.Signal{
		SignalID:    signal.ID,
		Pair:        signal.Pair,
		Direction:   string(signal.Direction),
		EntryPrice:  signal.EntryPrice,
		StopLoss:    signal.StopLoss,
		TakeProfit1: signal.TakeProfit1,
		TakeProfit2: signal.TakeProfit2,
		TakeProfit3: signal.TakeProfit3,
		Probability: signal.Probability,
		GeneratedAt: signal.GeneratedAt,
		Status:      string(signal.Status),
		IsPremium:   signal.IsPremium,
		ExitTrigger: string(signal.ExitTrigger),
		Analysis:    signal.Analysis,
	}
}

func FromDBSignal(record database.Signal) models.Signal {
	return models.Signal{
		ID:          record.SignalID,
		Pair:        record.Pair,
		Direction:   models.SideType(record.Direction),
		EntryPrice:  record.EntryPrice,
		StopLoss:    record.StopLoss,
		TakeProfit1: record.TakeProfit1,
		TakeProfit2: record.TakeProfit2,
		TakeProfit3: record.TakeProfit3,
		Probability: record.Probability,
		GeneratedAt: record.GeneratedAt,
		Status:      models.SignalStatus(record.Status),
		IsPremium:   record.IsPremium,
		ExitTrigger: models.ExitTrigger(record.ExitTrigger),
		Analysis:    record.Analysis,
	}
}
