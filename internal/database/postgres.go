package database

import (
	"fmt"
	"time"

	"github.com/healthmateapp/healthmate-server/internal/config"
	"github.com/healthmateapp/healthmate-server/internal/database/migrations"
	"github.com/healthmateapp/healthmate-server/internal/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email           string `gorm:"uniqueIndex;size:255"`
	Name            string `gorm:"size:100"`
	Password        string `gorm:"size:255"`
	AttendantEmails []string `gorm:"serializer:json"`

	BPSystolicMin  *int
	BPSystolicMax  *int
	BPDiastolicMin *int
	BPDiastolicMax *int

	SugarFastingMin *float64
	SugarFastingMax *float64
	SugarRandomMin  *float64
	SugarRandomMax  *float64

	ResetToken       *string `gorm:"size:255"`
	ResetTokenExpiry *time.Time

	EmailVerificationToken       *string `gorm:"size:255"`
	EmailVerificationTokenExpiry *time.Time
	EmailVerified                bool `gorm:"default:false"`
}

type Medicine struct {
	gorm.Model
	Name     string `gorm:"size:200;index;uniqueIndex:idx_medicine_strength"`
	Strength string `gorm:"size:50;uniqueIndex:idx_medicine_strength"` // e.g. "500mg", "2.5ml"
}

type Medication struct {
	gorm.Model
	UserID     uint `gorm:"index;uniqueIndex:idx_user_medicine"`
	User       User
	MedicineID uint `gorm:"index;uniqueIndex:idx_user_medicine"`
	Medicine   Medicine

	Purpose      string `gorm:"size:500"`
	DurationDays int
	StartDate    time.Time
	EndDate      *time.Time
	IsActive     bool `gorm:"default:true"`
}

type MedicationSchedule struct {
	gorm.Model
	MedicationID uint `gorm:"index;uniqueIndex:idx_medication_time"`
	Medication   Medication

	Time              string `gorm:"size:5;uniqueIndex:idx_medication_time"` // "HH:MM"
	DosageInstruction string `gorm:"size:200"`                              // e.g. "1 tablet", "5ml"
	IsActive          bool   `gorm:"default:true"`
}

type MedicationLog struct {
	gorm.Model
	MedicationScheduleID uint `gorm:"index;uniqueIndex:idx_schedule_date"`
	MedicationSchedule   MedicationSchedule

	ScheduledDate time.Time `gorm:"index;uniqueIndex:idx_schedule_date"`
	TakenAt       *time.Time
	Notes         string `gorm:"size:500"`
}

type BloodPressureSchedule struct {
	gorm.Model
	UserID uint `gorm:"index"`
	User   User

	Time      string `gorm:"size:5"` // "HH:MM"
	StartDate time.Time
	EndDate   *time.Time
	IsActive  bool `gorm:"default:true"`
}

type BloodPressureLog struct {
	gorm.Model
	ScheduleID uint `gorm:"index"`
	Schedule   BloodPressureSchedule

	Systolic  int
	Diastolic int
	Pulse     int
	Notes     string    `gorm:"size:500"`
	CheckedAt time.Time `gorm:"index"`
}

type SugarSchedule struct {
	gorm.Model
	UserID uint `gorm:"index"`
	User   User

	Time      string `gorm:"size:5"` // "HH:MM"
	StartDate time.Time
	EndDate   *time.Time
	IsActive  bool `gorm:"default:true"`
}

type SugarLog struct {
	gorm.Model
	ScheduleID uint `gorm:"index"`
	Schedule   SugarSchedule

	Value     float64
	Type      string    `gorm:"size:10"` // "fasting" or "random"
	Notes     string    `gorm:"size:500"`
	CheckedAt time.Time `gorm:"index"`
}

type Insight struct {
	gorm.Model
	UserID uint `gorm:"index;uniqueIndex:idx_user_period_start"`
	User   User

	Period    string    `gorm:"size:10;index;uniqueIndex:idx_user_period_start"`
	StartDate time.Time `gorm:"index;uniqueIndex:idx_user_period_start"`
	EndDate   time.Time

	Title    string `gorm:"size:200"`
	Summary  string `gorm:"type:text"`
	JSONData string `gorm:"type:text"`

	Version     string `gorm:"size:10;default:1.0"`
	GeneratedAt time.Time
}

type Chat struct {
	gorm.Model
	UserID uint `gorm:"index"`
	User   User

	Title string `gorm:"size:200"`
}

type ChatMessage struct {
	gorm.Model
	ChatID uint `gorm:"index"`
	Chat   Chat

	Role    string `gorm:"size:20"` // "user" or "assistant"
	Content string `gorm:"type:text"`
}

func NewPostgresDB(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&User{},
		&Medicine{},
		&Medication{},
		&MedicationSchedule{},
		&MedicationLog{},
		&BloodPressureSchedule{},
		&BloodPressureLog{},
		&SugarSchedule{},
		&SugarLog{},
		&Insight{},
		&Chat{},
		&ChatMessage{},
	); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Database connection established and migrations completed")
	return db, nil
}
