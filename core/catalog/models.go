package catalog

import (
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"
)

// College types
const (
	TypeGovernment = "government"
	TypePrivate    = "private"
	TypeDeemed     = "deemed"
)

// Course levels
const (
	LevelUndergraduate = "ug"
	LevelPostgraduate  = "pg"
	LevelDiploma       = "diploma"
	LevelCertificate   = "certificate"
)

type College struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:255;uniqueIndex;not null"`
	Slug string `json:"slug" gorm:"size:255;uniqueIndex"`

	EstablishedYear int    `json:"established_year"`
	CollegeType     string `json:"college_type" gorm:"size:20;index"`

	// Location
	City    string `json:"city" gorm:"size:50;index"`
	Address string `json:"address" gorm:"type:text"`
	Pincode string `json:"pincode" gorm:"size:10"`

	// Contact
	Phone   string `json:"phone" gorm:"size:20"`
	Email   string `json:"email" gorm:"size:254"`
	Website string `json:"website" gorm:"size:255"`

	// Academics
	AffiliatedTo  string `json:"affiliated_to" gorm:"size:255"`
	ApprovedBy    string `json:"approved_by" gorm:"size:255"`
	Accreditation string `json:"accreditation" gorm:"size:10"`
	NIRFRank      *int   `json:"nirf_rank"`

	// Infrastructure
	CampusArea    float64 `json:"campus_area"` // acres
	TotalStudents int     `json:"total_students"`
	FacultyCount  int     `json:"faculty_count"`

	// Placements
	PlacementPercentage *float64 `json:"placement_percentage"`
	AveragePackage      *float64 `json:"average_package"` // LPA
	HighestPackage      *float64 `json:"highest_package"` // LPA

	Description      string `json:"description" gorm:"type:text"`
	ShortDescription string `json:"short_description" gorm:"size:500"`

	IsActive   bool `json:"is_active" gorm:"default:true;index"`
	IsFeatured bool `json:"is_featured" gorm:"default:false"`

	OverallRating float64 `json:"overall_rating" gorm:"default:0"`
	TotalReviews  int     `json:"total_reviews" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Courses []Course        `json:"courses,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Reviews []CollegeReview `json:"reviews,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

func (College) TableName() string { return "colleges" }

var slugRegex = regexp.MustCompile(`[^a-z0-9]+`)

func Slugify(s string) string {
	s = slugRegex.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}

func (c *College) BeforeSave(tx *gorm.DB) error {
	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	return nil
}

type Course struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	CollegeID uint `json:"college_id" gorm:"not null;index;uniqueIndex:idx_college_course"`

	Name   string `json:"name" gorm:"size:255;not null;uniqueIndex:idx_college_course"`
	Level  string `json:"level" gorm:"size:20;uniqueIndex:idx_college_course"`
	Stream string `json:"stream" gorm:"size:50"`

	DurationYears float64 `json:"duration_years"`
	TotalFees     float64 `json:"total_fees"`
	PerYearFees   float64 `json:"per_year_fees"`

	SeatsAvailable int    `json:"seats_available"`
	Eligibility    string `json:"eligibility" gorm:"type:text"`
	Description    string `json:"description" gorm:"type:text"`

	IsActive bool `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Course) TableName() string { return "courses" }

type Facility struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"size:100;uniqueIndex;not null"`
	Icon        string `json:"icon" gorm:"size:50"` // Font Awesome icon class
	Description string `json:"description" gorm:"type:text"`
}

func (Facility) TableName() string { return "facilities" }

type CollegeReview struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	CollegeID uint `json:"college_id" gorm:"not null;index"`

	ReviewerName  string `json:"reviewer_name" gorm:"size:100"`
	ReviewerEmail string `json:"reviewer_email" gorm:"size:254"`
	CourseStudied string `json:"course_studied" gorm:"size:100"`
	BatchYear     int    `json:"batch_year"`

	// Ratings (1-5)
	AcademicsRating      int `json:"academics_rating"`
	InfrastructureRating int `json:"infrastructure_rating"`
	PlacementsRating     int `json:"placements_rating"`
	FacultyRating        int `json:"faculty_rating"`

	Title      string `json:"title" gorm:"size:200"`
	ReviewText string `json:"review_text" gorm:"type:text"`

	IsVerified  bool `json:"is_verified" gorm:"default:false"`
	IsPublished bool `json:"is_published" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CollegeReview) TableName() string { return "college_reviews" }

// OverallRating is the mean of the four individual ratings.
func (r CollegeReview) OverallRating() float64 {
	return float64(r.AcademicsRating+r.InfrastructureRating+r.PlacementsRating+r.FacultyRating) / 4
}
