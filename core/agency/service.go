package agency

import (
	"context"
	"math"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/ajuagency/collegia/core"
	"github.com/ajuagency/collegia/core/catalog"
)

var (
	// errors
	ErrNotFound        = errors.New("inquiry not found")
	ErrProfileNotFound = errors.New("agent profile not found")

	errInvalidCourse = errors.New("select a valid choice: that course is not offered by this college")
)

type (
	Repository interface {
		CreateInquiry(ctx context.Context, inq Inquiry) (Inquiry, error)
		// GetInquiryByID loads the inquiry with its college and course.
		GetInquiryByID(ctx context.Context, id uint) (Inquiry, error)
		// QueryInquiries returns all inquiries, newest first.
		QueryInquiries(ctx context.Context) ([]Inquiry, error)
		RecentInquiries(ctx context.Context, limit int) ([]Inquiry, error)
		CountInquiries(ctx context.Context) (int64, error)
		CountInquiriesByStatus(ctx context.Context, status string) (int64, error)
		UpdateInquiryStatus(ctx context.Context, id uint, status string) (Inquiry, error)

		GetProfileByUserID(ctx context.Context, userID uint) (AgentProfile, error)
		CreateProfile(ctx context.Context, profile AgentProfile) (AgentProfile, error)
		UpdateProfileConfig(ctx context.Context, userID uint, cfg DashboardConfig) (AgentProfile, error)
	}

	Service struct {
		repo       Repository
		catalogSvc *catalog.Service
		mailSvc    core.EmailService
		conf       *core.Config
		logger     core.Logger
	}
)

func NewService(repo Repository, catalogSvc *catalog.Service, mailSvc core.EmailService, conf *core.Config, logger core.Logger) *Service {
	return &Service{
		repo:       repo,
		catalogSvc: catalogSvc,
		mailSvc:    mailSvc,
		conf:       conf,
		logger:     logger,
	}
}

// SubmitInquiry persists a new Inquiry for the given college.
// The course, if supplied, must belong to that college's offering.
// Status is always forced to "pending". No email is sent at intake time.
func (svc *Service) SubmitInquiry(ctx context.Context, collegeID uint, ni NewInquiry) (Inquiry, error) {
	college, err := svc.catalogSvc.GetByID(ctx, collegeID)
	if err != nil {
		return Inquiry{}, err
	}

	if ni.CourseID != nil {
		if _, err := svc.catalogSvc.GetCourseFor(ctx, college.ID, *ni.CourseID); err != nil {
			if errors.Cause(err) == catalog.ErrNotFound {
				return Inquiry{}, core.NewValidationError(
					errInvalidCourse,
					core.FieldError{Field: "course", Error: errInvalidCourse.Error()},
				)
			}
			return Inquiry{}, errors.Wrap(err, "resolving course")
		}
	}

	now := time.Now().UTC()
	inq := Inquiry{
		StudentName: ni.StudentName,
		Email:       ni.Email,
		Phone:       ni.Phone,
		Message:     ni.Message,
		CollegeID:   college.ID,
		CourseID:    ni.CourseID,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateInquiry(ctx, inq)
}

func (svc *Service) GetInquiry(ctx context.Context, id uint) (Inquiry, error) {
	return svc.repo.GetInquiryByID(ctx, id)
}

func (svc *Service) CountInquiries(ctx context.Context) (int64, error) {
	return svc.repo.CountInquiries(ctx)
}

// GetOrCreateProfile returns the agent's profile, creating a default one on
// first visit. Idempotent: an existing profile is reused unchanged.
func (svc *Service) GetOrCreateProfile(ctx context.Context, userID uint) (AgentProfile, error) {
	profile, err := svc.repo.GetProfileByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if errors.Cause(err) != ErrProfileNotFound {
		return AgentProfile{}, err
	}
	return svc.CreateDefaultProfile(ctx, userID)
}

// CreateDefaultProfile creates the agent's profile with default widget toggles.
// The user-registration code path calls this explicitly right after creating
// the staff account.
func (svc *Service) CreateDefaultProfile(ctx context.Context, userID uint) (AgentProfile, error) {
	now := time.Now().UTC()
	return svc.repo.CreateProfile(ctx, AgentProfile{
		UserID:          userID,
		DashboardConfig: DefaultDashboardConfig(),
		CreatedAt:       now,
		UpdatedAt:       now,
	})
}

// UpdateDashboardConfig persists the given widget toggles onto the agent's profile,
// creating the profile first if the agent never had one.
func (svc *Service) UpdateDashboardConfig(ctx context.Context, userID uint, cfg DashboardConfig) (AgentProfile, error) {
	if _, err := svc.GetOrCreateProfile(ctx, userID); err != nil {
		return AgentProfile{}, errors.Wrap(err, "getting agent profile")
	}
	return svc.repo.UpdateProfileConfig(ctx, userID, cfg)
}

// Dashboard aggregates counts and recent inquiries for the agent's dashboard view.
func (svc *Service) Dashboard(ctx context.Context, userID uint) (Dashboard, error) {
	profile, err := svc.GetOrCreateProfile(ctx, userID)
	if err != nil {
		return Dashboard{}, errors.Wrap(err, "getting agent profile")
	}

	stats, err := svc.stats(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	recent, err := svc.repo.RecentInquiries(ctx, 5)
	if err != nil {
		return Dashboard{}, errors.Wrap(err, "querying recent inquiries")
	}
	all, err := svc.repo.QueryInquiries(ctx)
	if err != nil {
		return Dashboard{}, errors.Wrap(err, "querying inquiries")
	}

	return Dashboard{
		Config:    profile.DashboardConfig,
		Stats:     stats,
		Recent:    recent,
		Inquiries: all,
	}, nil
}

func (svc *Service) stats(ctx context.Context) (Stats, error) {
	total, err := svc.repo.CountInquiries(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "counting inquiries")
	}

	counts := make(map[string]int64, len(Statuses))
	for _, status := range Statuses {
		n, err := svc.repo.CountInquiriesByStatus(ctx, status)
		if err != nil {
			return Stats{}, errors.Wrapf(err, "counting %s inquiries", status)
		}
		counts[status] = n
	}

	var rate float64
	if total > 0 {
		rate = round1(float64(counts[StatusAdmitted]) / float64(total) * 100)
	}
	return Stats{
		Total:          total,
		Pending:        counts[StatusPending],
		Contacted:      counts[StatusContacted],
		Admitted:       counts[StatusAdmitted],
		Closed:         counts[StatusClosed],
		ConversionRate: rate,
	}, nil
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// UpdateStatus overwrites the Inquiry's status with the target value.
// The target must be one of the enumerated statuses; no transition graph
// is enforced beyond that.
func (svc *Service) UpdateStatus(ctx context.Context, su StatusUpdate) (Inquiry, error) {
	if !IsValidStatus(su.Status) {
		return Inquiry{}, core.NewValidationError(
			errors.Errorf("%q is not a valid status", su.Status),
			core.FieldError{Field: "status", Error: "must be one of pending, contacted, admitted, closed"},
		)
	}
	return svc.repo.UpdateInquiryStatus(ctx, su.InquiryID, su.Status)
}

// SendResponse delivers a reply to the inquiring student. On transport
// acceptance the inquiry's status is forced to "contacted" (whatever it held
// before). On transport failure the inquiry is left unmodified and the error
// is returned wrapped in a core.TransportError.
func (svc *Service) SendResponse(ctx context.Context, re ResponseEmail) (Inquiry, error) {
	inq, err := svc.repo.GetInquiryByID(ctx, re.InquiryID)
	if err != nil {
		return Inquiry{}, err
	}

	msg := &core.EmailMessage{
		From:    svc.conf.ReplyFrom(),
		To:      []mail.Address{{Name: inq.StudentName, Address: inq.Email}},
		Subject: re.Subject,
		Body:    re.Message,
	}
	if err := svc.mailSvc.SendMessage(msg); err != nil {
		svc.logger.Warn("sending inquiry response failed", err)
		return inq, &core.TransportError{Err: err}
	}

	return svc.repo.UpdateInquiryStatus(ctx, inq.ID, StatusContacted)
}
