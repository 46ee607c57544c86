package testutil

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ajuagency/collegia/core/agency"
	"github.com/ajuagency/collegia/core/catalog"
	"github.com/ajuagency/collegia/core/user"
	"github.com/ajuagency/collegia/storage/database"
)

// PrepareDB opens a fresh in-memory database with the full schema applied.
func PrepareDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	// the in-memory DB only lives as long as its single connection
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err = database.Migrate(db); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })
	return db
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd string,
	isActive, isAdmin bool,
) user.User {
	t.Helper()

	now := time.Now().UTC()
	usr := user.User{
		Name:      name,
		Email:     email,
		IsActive:  isActive,
		IsAdmin:   isAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateCollege(t *testing.T, db *gorm.DB, name, city, typ string) catalog.College {
	t.Helper()

	col := catalog.College{
		Name:        name,
		City:        city,
		CollegeType: typ,
		IsActive:    true,
	}
	if err := db.Create(&col).Error; err != nil {
		t.Fatalf("CreateCollege() failed: %v", err)
	}
	return col
}

func CreateCourse(t *testing.T, db *gorm.DB, collegeID uint, name, level string) catalog.Course {
	t.Helper()

	crs := catalog.Course{
		CollegeID: collegeID,
		Name:      name,
		Level:     level,
		IsActive:  true,
	}
	if err := db.Create(&crs).Error; err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return crs
}

func CreateInquiry(
	t *testing.T,
	repo agency.Repository,
	collegeID uint,
	courseID *uint,
	studentName, email, status string,
) agency.Inquiry {
	t.Helper()

	now := time.Now().UTC()
	inq := agency.Inquiry{
		StudentName: studentName,
		Email:       email,
		Phone:       "+91 98765 43210",
		Message:     "Please share the admission details.",
		CollegeID:   collegeID,
		CourseID:    courseID,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	inq, err := repo.CreateInquiry(context.Background(), inq)
	if err != nil {
		t.Fatalf("CreateInquiry() failed: %v", err)
	}
	return inq
}
