package gormrepos

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/ajuagency/collegia/core"
	"github.com/ajuagency/collegia/core/catalog"
)

type catalogRepository struct {
	db *gorm.DB
}

var _ catalog.Repository = (*catalogRepository)(nil) // interface compliance check

func NewCatalogRepository(db *gorm.DB) *catalogRepository {
	return &catalogRepository{db: db}
}

func (repo catalogRepository) trapNotFoundErr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return catalog.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo catalogRepository) QueryColleges(ctx context.Context, filter *catalog.QueryFilter, ordering []core.DBOrdering) ([]catalog.College, error) {
	q := repo.db.WithContext(ctx).Where("is_active = ?", true)

	if filter != nil {
		// colleges matching the search keyword in one of the descriptive fields
		if filter.Search != "" {
			// LIKE is case-sensitive on postgres
			val := "%" + strings.ToLower(filter.Search) + "%"
			q = q.Where(
				"LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(short_description) LIKE ? OR LOWER(affiliated_to) LIKE ?",
				val, val, val, val,
			)
		}
		if filter.City != "" {
			// filter values are lowered at the service layer
			q = q.Where("LOWER(city) = ?", filter.City)
		}
		if filter.CollegeType != "" {
			q = q.Where("college_type = ?", filter.CollegeType)
		}
		if filter.Accreditation != "" {
			q = q.Where("accreditation = ?", filter.Accreditation)
		}
	}

	if len(ordering) > 0 {
		for _, ord := range ordering {
			q = q.Order(ord.String())
		}
	} else {
		q = q.Order("is_featured DESC").Order("overall_rating DESC").Order("name")
	}

	var colleges []catalog.College
	if err := q.Find(&colleges).Error; err != nil {
		return nil, errors.Wrap(err, "querying colleges")
	}
	return colleges, nil
}

func (repo catalogRepository) GetCollegeByID(ctx context.Context, id uint) (catalog.College, error) {
	var college catalog.College
	err := repo.db.WithContext(ctx).
		Preload("Courses", "is_active = ?", true).
		Where("is_active = ?", true).
		First(&college, id).Error
	if err != nil {
		return catalog.College{}, repo.trapNotFoundErr(err, "getting college by id")
	}
	return college, nil
}

func (repo catalogRepository) QueryCourses(ctx context.Context, collegeID uint) ([]catalog.Course, error) {
	q := repo.db.WithContext(ctx).Where("is_active = ?", true)
	if collegeID != 0 {
		q = q.Where("college_id = ?", collegeID)
	}

	var courses []catalog.Course
	if err := q.Order("college_id").Order("level").Order("name").Find(&courses).Error; err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	return courses, nil
}

func (repo catalogRepository) GetCollegeCourse(ctx context.Context, collegeID, courseID uint) (catalog.Course, error) {
	var course catalog.Course
	err := repo.db.WithContext(ctx).
		Where("college_id = ?", collegeID).
		First(&course, courseID).Error
	if err != nil {
		return catalog.Course{}, repo.trapNotFoundErr(err, "getting college course")
	}
	return course, nil
}

func (repo catalogRepository) CountActiveColleges(ctx context.Context) (int64, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&catalog.College{}).Where("is_active = ?", true).Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "counting colleges")
	}
	return count, nil
}

func (repo catalogRepository) CountCollegesByCity(ctx context.Context) ([]catalog.CityCount, error) {
	var counts []catalog.CityCount
	err := repo.db.WithContext(ctx).Model(&catalog.College{}).
		Select("city, COUNT(*) AS count").
		Where("is_active = ?", true).
		Group("city").
		Order("city").
		Scan(&counts).Error
	if err != nil {
		return nil, errors.Wrap(err, "counting colleges by city")
	}
	return counts, nil
}

func (repo catalogRepository) CountCollegesByType(ctx context.Context) ([]catalog.TypeCount, error) {
	var counts []catalog.TypeCount
	err := repo.db.WithContext(ctx).Model(&catalog.College{}).
		Select("college_type AS type, COUNT(*) AS count").
		Where("is_active = ?", true).
		Group("college_type").
		Order("college_type").
		Scan(&counts).Error
	if err != nil {
		return nil, errors.Wrap(err, "counting colleges by type")
	}
	return counts, nil
}

func (repo catalogRepository) FeaturedColleges(ctx context.Context, limit int) ([]catalog.College, error) {
	var colleges []catalog.College
	err := repo.db.WithContext(ctx).
		Where("is_active = ? AND is_featured = ?", true, true).
		Order("overall_rating DESC").Order("name").
		Limit(limit).
		Find(&colleges).Error
	if err != nil {
		return nil, errors.Wrap(err, "querying featured colleges")
	}
	return colleges, nil
}

func (repo catalogRepository) TopRatedColleges(ctx context.Context, limit int) ([]catalog.College, error) {
	var colleges []catalog.College
	err := repo.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("overall_rating DESC").Order("name").
		Limit(limit).
		Find(&colleges).Error
	if err != nil {
		return nil, errors.Wrap(err, "querying top rated colleges")
	}
	return colleges, nil
}
