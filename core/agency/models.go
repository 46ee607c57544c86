package agency

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ajuagency/collegia/core"
	"github.com/ajuagency/collegia/core/catalog"
	"github.com/ajuagency/collegia/core/user"
)

// Inquiry lifecycle statuses
const (
	StatusPending   = "pending"
	StatusContacted = "contacted"
	StatusAdmitted  = "admitted"
	StatusClosed    = "closed"
)

var Statuses = []string{StatusPending, StatusContacted, StatusAdmitted, StatusClosed}

func IsValidStatus(s string) bool {
	for _, st := range Statuses {
		if s == st {
			return true
		}
	}
	return false
}

// Inquiry is a student's expressed interest in a college/course,
// tracked through a status lifecycle.
type Inquiry struct {
	ID uint `json:"id" gorm:"primaryKey"`

	// Student details
	StudentName string `json:"student_name" gorm:"size:100;not null"`
	Email       string `json:"email" gorm:"size:254;not null"`
	Phone       string `json:"phone" gorm:"size:20;not null"`
	Message     string `json:"message" gorm:"type:text"`

	// What are they interested in?
	CollegeID uint            `json:"college_id" gorm:"not null;index"`
	College   catalog.College `json:"college,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CourseID  *uint           `json:"course_id"`
	Course    *catalog.Course `json:"course,omitempty" gorm:"constraint:OnDelete:SET NULL"`

	Status    string    `json:"status" gorm:"size:20;default:pending;index"`
	CreatedAt time.Time `json:"created_at"` // UTC, immutable once set
	UpdatedAt time.Time `json:"updated_at"` // UTC, refreshed on every mutation
}

func (Inquiry) TableName() string { return "inquiries" }

// DashboardConfig holds an agent's dashboard widget toggles.
type DashboardConfig struct {
	ShowStats   bool `json:"show_stats"`
	ShowRecent  bool `json:"show_recent"`
	CompactView bool `json:"compact_view"`
}

func DefaultDashboardConfig() DashboardConfig {
	return DashboardConfig{ShowStats: true, ShowRecent: true, CompactView: false}
}

// AgentProfile holds per-staff-user dashboard preferences. Exactly one per user.
type AgentProfile struct {
	ID     uint      `json:"id" gorm:"primaryKey"`
	UserID uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	User   user.User `json:"-" gorm:"constraint:OnDelete:CASCADE"`

	Phone           string          `json:"phone" gorm:"size:20"`
	DashboardConfig DashboardConfig `json:"dashboard_config" gorm:"embedded;embeddedPrefix:config_"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AgentProfile) TableName() string { return "agent_profiles" }

// NewInquiry contains information needed to submit a new Inquiry.
// Any status supplied by the caller is ignored: intake always starts at "pending".
type NewInquiry struct {
	StudentName string `json:"student_name" form:"student_name" validate:"required"`
	Email       string `json:"email" form:"email" validate:"required,email"`
	Phone       string `json:"phone" form:"phone" validate:"required,phone"`
	Message     string `json:"message" form:"message"`
	CourseID    *uint  `json:"course" form:"course"`
}

func (ni *NewInquiry) Validate(validate *validator.Validate) error {
	ni.StudentName = core.CleanString(ni.StudentName)
	ni.Email = core.CleanString(ni.Email, true /* lower */)
	ni.Phone = core.CleanString(ni.Phone)
	ni.Message = core.CleanString(ni.Message)
	return validate.Struct(ni)
}

// StatusUpdate moves an Inquiry to a target lifecycle status.
// The target must be one of the four enumerated statuses; no transition
// graph is enforced beyond that ("closed" back to "pending" is allowed).
type StatusUpdate struct {
	InquiryID uint   `json:"inquiry_id" form:"inquiry_id" validate:"required"`
	Status    string `json:"status" form:"status" validate:"required,oneof=pending contacted admitted closed"`
}

func (su *StatusUpdate) Validate(validate *validator.Validate) error {
	su.Status = core.CleanString(su.Status, true /* lower */)
	return validate.Struct(su)
}

// ResponseEmail is an outbound reply to the inquiring student.
type ResponseEmail struct {
	InquiryID uint   `json:"inquiry_id" form:"inquiry_id" validate:"required"`
	Subject   string `json:"subject" form:"subject" validate:"required"`
	Message   string `json:"message" form:"message" validate:"required"`
}

func (re *ResponseEmail) Validate(validate *validator.Validate) error {
	re.Subject = core.CleanString(re.Subject)
	return validate.Struct(re)
}

type Stats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Contacted int64 `json:"contacted"`
	Admitted  int64 `json:"admitted"`
	Closed    int64 `json:"closed"`
	// ConversionRate = admitted / total * 100, one decimal place; 0 when total is 0.
	ConversionRate float64 `json:"conversion_rate"`
}

// Dashboard is the aggregate view rendered for an agent.
type Dashboard struct {
	Config    DashboardConfig `json:"config"`
	Stats     Stats           `json:"stats"`
	Recent    []Inquiry       `json:"recent_inquiries"`
	Inquiries []Inquiry       `json:"inquiries"`
}
