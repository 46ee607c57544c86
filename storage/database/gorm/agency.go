package gormrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/ajuagency/collegia/core/agency"
)

type agencyRepository struct {
	db *gorm.DB
}

var _ agency.Repository = (*agencyRepository)(nil) // interface compliance check

func NewAgencyRepository(db *gorm.DB) *agencyRepository {
	return &agencyRepository{db: db}
}

func (repo agencyRepository) trapNotFoundErr(err error, notFound error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return errors.Wrap(err, msg)
}

func (repo agencyRepository) CreateInquiry(ctx context.Context, inq agency.Inquiry) (agency.Inquiry, error) {
	if err := repo.db.WithContext(ctx).Create(&inq).Error; err != nil {
		return agency.Inquiry{}, errors.Wrap(err, "inserting inquiry")
	}
	return inq, nil
}

func (repo agencyRepository) GetInquiryByID(ctx context.Context, id uint) (agency.Inquiry, error) {
	var inq agency.Inquiry
	err := repo.db.WithContext(ctx).
		Preload("College").
		Preload("Course").
		First(&inq, id).Error
	if err != nil {
		return agency.Inquiry{}, repo.trapNotFoundErr(err, agency.ErrNotFound, "getting inquiry by id")
	}
	return inq, nil
}

func (repo agencyRepository) QueryInquiries(ctx context.Context) ([]agency.Inquiry, error) {
	var inquiries []agency.Inquiry
	err := repo.db.WithContext(ctx).
		Preload("College").
		Order("created_at DESC").Order("id DESC").
		Find(&inquiries).Error
	if err != nil {
		return nil, errors.Wrap(err, "querying inquiries")
	}
	return inquiries, nil
}

func (repo agencyRepository) RecentInquiries(ctx context.Context, limit int) ([]agency.Inquiry, error) {
	var inquiries []agency.Inquiry
	err := repo.db.WithContext(ctx).
		Preload("College").
		Order("created_at DESC").Order("id DESC"). // creation order breaks ties, newest first
		Limit(limit).
		Find(&inquiries).Error
	if err != nil {
		return nil, errors.Wrap(err, "querying recent inquiries")
	}
	return inquiries, nil
}

func (repo agencyRepository) CountInquiries(ctx context.Context) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).Model(&agency.Inquiry{}).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "counting inquiries")
	}
	return count, nil
}

func (repo agencyRepository) CountInquiriesByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&agency.Inquiry{}).Where("status = ?", status).Count(&count).Error
	if err != nil {
		return 0, errors.Wrapf(err, "counting %s inquiries", status)
	}
	return count, nil
}

func (repo agencyRepository) UpdateInquiryStatus(ctx context.Context, id uint, status string) (agency.Inquiry, error) {
	res := repo.db.WithContext(ctx).
		Model(&agency.Inquiry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return agency.Inquiry{}, errors.Wrap(res.Error, "updating inquiry status")
	}
	if res.RowsAffected == 0 {
		return agency.Inquiry{}, agency.ErrNotFound
	}
	return repo.GetInquiryByID(ctx, id)
}

func (repo agencyRepository) GetProfileByUserID(ctx context.Context, userID uint) (agency.AgentProfile, error) {
	var profile agency.AgentProfile
	err := repo.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return agency.AgentProfile{}, repo.trapNotFoundErr(err, agency.ErrProfileNotFound, "getting agent profile")
	}
	return profile, nil
}

func (repo agencyRepository) CreateProfile(ctx context.Context, profile agency.AgentProfile) (agency.AgentProfile, error) {
	if err := repo.db.WithContext(ctx).Create(&profile).Error; err != nil {
		return agency.AgentProfile{}, errors.Wrap(err, "inserting agent profile")
	}
	return profile, nil
}

func (repo agencyRepository) UpdateProfileConfig(ctx context.Context, userID uint, cfg agency.DashboardConfig) (agency.AgentProfile, error) {
	res := repo.db.WithContext(ctx).
		Model(&agency.AgentProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"config_show_stats":   cfg.ShowStats,
			"config_show_recent":  cfg.ShowRecent,
			"config_compact_view": cfg.CompactView,
			"updated_at":          time.Now().UTC(),
		})
	if res.Error != nil {
		return agency.AgentProfile{}, errors.Wrap(res.Error, "updating agent profile config")
	}
	if res.RowsAffected == 0 {
		return agency.AgentProfile{}, agency.ErrProfileNotFound
	}
	return repo.GetProfileByUserID(ctx, userID)
}
