package catalog

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ajuagency/collegia/core"
)

var ErrNotFound = errors.New("college not found")

type (
	// QueryFilter applies an AND operation on its non-empty fields.
	// Search does a case-insensitive match on one of College.Name,
	// College.Description, College.ShortDescription or College.AffiliatedTo.
	QueryFilter struct {
		Search        string `query:"search"`
		City          string `query:"city"`
		CollegeType   string `query:"college_type"`
		Accreditation string `query:"accreditation"`
	}

	CityCount struct {
		City  string `json:"city"`
		Count int64  `json:"count"`
	}

	TypeCount struct {
		Type  string `json:"type"`
		Count int64  `json:"count"`
	}

	Stats struct {
		TotalColleges    int64       `json:"total_colleges"`
		CollegesByCity   []CityCount `json:"colleges_by_city"`
		CollegesByType   []TypeCount `json:"colleges_by_type"`
		FeaturedColleges []College   `json:"featured_colleges"`
		TopRatedColleges []College   `json:"top_rated_colleges"`
	}

	Repository interface {
		// QueryColleges returns active colleges only; default ordering is
		// featured first, then rating, then name.
		QueryColleges(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]College, error)
		GetCollegeByID(ctx context.Context, id uint) (College, error)
		QueryCourses(ctx context.Context, collegeID uint) ([]Course, error)
		GetCollegeCourse(ctx context.Context, collegeID, courseID uint) (Course, error)
		CountActiveColleges(ctx context.Context) (int64, error)
		CountCollegesByCity(ctx context.Context) ([]CityCount, error)
		CountCollegesByType(ctx context.Context) ([]TypeCount, error)
		FeaturedColleges(ctx context.Context, limit int) ([]College, error)
		TopRatedColleges(ctx context.Context, limit int) ([]College, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.City == "" && qf.CollegeType == "" && qf.Accreditation == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.City = core.CleanString(qf.City, true /* lower */)
	qf.CollegeType = core.CleanString(qf.CollegeType, true /* lower */)
	qf.Accreditation = core.CleanString(qf.Accreditation)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]College, error) {
	if filter != nil {
		filter.Clean()
	}
	return svc.repo.QueryColleges(ctx, filter, ordering)
}

func (svc *Service) GetByID(ctx context.Context, id uint) (College, error) {
	return svc.repo.GetCollegeByID(ctx, id)
}

// Courses returns the active courses offered by a college; collegeID 0 returns all.
func (svc *Service) Courses(ctx context.Context, collegeID uint) ([]Course, error) {
	return svc.repo.QueryCourses(ctx, collegeID)
}

// GetCourseFor resolves a course within a college's offering.
// It fails with ErrNotFound when the course exists but belongs to another college.
func (svc *Service) GetCourseFor(ctx context.Context, collegeID, courseID uint) (Course, error) {
	return svc.repo.GetCollegeCourse(ctx, collegeID, courseID)
}

func (svc *Service) CountActive(ctx context.Context) (int64, error) {
	return svc.repo.CountActiveColleges(ctx)
}

func (svc *Service) Stats(ctx context.Context) (Stats, error) {
	total, err := svc.repo.CountActiveColleges(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "counting colleges")
	}
	byCity, err := svc.repo.CountCollegesByCity(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "counting colleges by city")
	}
	byType, err := svc.repo.CountCollegesByType(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "counting colleges by type")
	}
	featured, err := svc.repo.FeaturedColleges(ctx, 5)
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying featured colleges")
	}
	topRated, err := svc.repo.TopRatedColleges(ctx, 5)
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying top rated colleges")
	}
	return Stats{
		TotalColleges:    total,
		CollegesByCity:   byCity,
		CollegesByType:   byType,
		FeaturedColleges: featured,
		TopRatedColleges: topRated,
	}, nil
}
