package agency_test

import (
	"context"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ajuagency/collegia/core"
	"github.com/ajuagency/collegia/core/agency"
	"github.com/ajuagency/collegia/core/catalog"
	emailsvc "github.com/ajuagency/collegia/services/email"
	logsvc "github.com/ajuagency/collegia/services/logger"
	gormrepos "github.com/ajuagency/collegia/storage/database/gorm"
	testutil "github.com/ajuagency/collegia/tests"
)

func setup(t *testing.T) (*agency.Service, agency.Repository, *gorm.DB, *emailsvc.ServiceMock) {
	t.Helper()

	db := testutil.PrepareDB(t)
	repo := gormrepos.NewAgencyRepository(db)
	catalogSvc := catalog.NewService(gormrepos.NewCatalogRepository(db))
	mailMock := emailsvc.NewServiceMock()
	conf := &core.Config{
		AppName:          "Collegia",
		DefaultFromName:  "Aju Agency",
		DefaultFromEmail: "noreply@ajuagency.in",
	}
	logger := logsvc.NewStdLogger(log.New(io.Discard, "", 0))
	svc := agency.NewService(repo, catalogSvc, mailMock, conf, logger)
	return svc, repo, db, mailMock
}

func Test_Service_SubmitInquiry(t *testing.T) {
	svc, repo, db, _ := setup(t)
	ctx := context.Background()

	college := testutil.CreateCollege(t, db, "Acme Institute", "Kochi", catalog.TypePrivate)
	other := testutil.CreateCollege(t, db, "Other College", "Chennai", catalog.TypeGovernment)
	course := testutil.CreateCourse(t, db, college.ID, "B.Tech CSE", catalog.LevelUndergraduate)
	foreignCourse := testutil.CreateCourse(t, db, other.ID, "MBA", catalog.LevelPostgraduate)

	ni := agency.NewInquiry{
		StudentName: "Asha Nair",
		Email:       "asha@example.com",
		Phone:       "+91 98765 43210",
		Message:     "Interested in the CSE program.",
	}

	t.Run("status is always pending at intake", func(t *testing.T) {
		inq, err := svc.SubmitInquiry(ctx, college.ID, ni)
		require.NoError(t, err)
		assert.Equal(t, agency.StatusPending, inq.Status)
		assert.Equal(t, college.ID, inq.CollegeID)
		assert.Nil(t, inq.CourseID)
		assert.False(t, inq.CreatedAt.IsZero())
	})

	t.Run("course of the same college is accepted", func(t *testing.T) {
		withCourse := ni
		withCourse.CourseID = &course.ID
		inq, err := svc.SubmitInquiry(ctx, college.ID, withCourse)
		require.NoError(t, err)
		require.NotNil(t, inq.CourseID)
		assert.Equal(t, course.ID, *inq.CourseID)
	})

	t.Run("course of another college is rejected and nothing is persisted", func(t *testing.T) {
		before, err := repo.CountInquiries(ctx)
		require.NoError(t, err)

		bad := ni
		bad.CourseID = &foreignCourse.ID
		_, err = svc.SubmitInquiry(ctx, college.ID, bad)
		require.Error(t, err)

		var vErr *core.ValidationError
		require.True(t, errors.As(err, &vErr))
		require.Len(t, vErr.Fields, 1)
		assert.Equal(t, "course", vErr.Fields[0].Field)

		after, err := repo.CountInquiries(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("unknown college", func(t *testing.T) {
		_, err := svc.SubmitInquiry(ctx, 9999, ni)
		assert.Equal(t, catalog.ErrNotFound, errors.Cause(err))
	})
}

func Test_Service_UpdateStatus(t *testing.T) {
	svc, repo, db, _ := setup(t)
	ctx := context.Background()

	college := testutil.CreateCollege(t, db, "Acme Institute", "Kochi", catalog.TypePrivate)
	inq := testutil.CreateInquiry(t, repo, college.ID, nil, "Asha Nair", "asha@example.com", agency.StatusClosed)

	t.Run("closed back to pending is allowed", func(t *testing.T) {
		got, err := svc.UpdateStatus(ctx, agency.StatusUpdate{InquiryID: inq.ID, Status: agency.StatusPending})
		require.NoError(t, err)
		assert.Equal(t, agency.StatusPending, got.Status)
	})

	t.Run("every enumerated status is accepted", func(t *testing.T) {
		for _, status := range agency.Statuses {
			got, err := svc.UpdateStatus(ctx, agency.StatusUpdate{InquiryID: inq.ID, Status: status})
			require.NoError(t, err, status)
			assert.Equal(t, status, got.Status)
		}
	})

	t.Run("unknown status is rejected without touching the inquiry", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, agency.StatusUpdate{InquiryID: inq.ID, Status: "approved"})
		require.Error(t, err)

		var vErr *core.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "status", vErr.Fields[0].Field)

		refreshed, err := svc.GetInquiry(ctx, inq.ID)
		require.NoError(t, err)
		assert.Equal(t, agency.StatusClosed, refreshed.Status)
	})

	t.Run("unknown inquiry", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, agency.StatusUpdate{InquiryID: 9999, Status: agency.StatusContacted})
		assert.Equal(t, agency.ErrNotFound, errors.Cause(err))
	})
}

func Test_Service_Dashboard_stats(t *testing.T) {
	svc, repo, db, _ := setup(t)
	ctx := context.Background()

	userRepo := gormrepos.NewUserRepository(db)
	agent := testutil.CreateUser(t, userRepo, "Agent", "agent@test.cd", "", true, false)
	college := testutil.CreateCollege(t, db, "Acme Institute", "Kochi", catalog.TypePrivate)

	t.Run("conversion rate is 0 when there are no inquiries", func(t *testing.T) {
		dash, err := svc.Dashboard(ctx, agent.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), dash.Stats.Total)
		assert.Equal(t, float64(0), dash.Stats.ConversionRate)
		assert.Empty(t, dash.Recent)
	})

	// 10 inquiries: 4 pending, 2 contacted, 3 admitted, 1 closed
	for i, status := range []string{
		agency.StatusPending, agency.StatusPending, agency.StatusPending, agency.StatusPending,
		agency.StatusContacted, agency.StatusContacted,
		agency.StatusAdmitted, agency.StatusAdmitted, agency.StatusAdmitted,
		agency.StatusClosed,
	} {
		name := "Student " + string(rune('A'+i))
		testutil.CreateInquiry(t, repo, college.ID, nil, name, "student@example.com", status)
	}

	t.Run("counts and conversion rate", func(t *testing.T) {
		dash, err := svc.Dashboard(ctx, agent.ID)
		require.NoError(t, err)

		assert.Equal(t, int64(10), dash.Stats.Total)
		assert.Equal(t, int64(4), dash.Stats.Pending)
		assert.Equal(t, int64(2), dash.Stats.Contacted)
		assert.Equal(t, int64(3), dash.Stats.Admitted)
		assert.Equal(t, int64(1), dash.Stats.Closed)
		assert.Equal(t, 30.0, dash.Stats.ConversionRate)

		assert.Len(t, dash.Recent, 5)
		assert.Len(t, dash.Inquiries, 10)
	})

	t.Run("conversion rate is rounded to one decimal", func(t *testing.T) {
		// wipe and reseed with 1 admitted out of 3
		require.NoError(t, db.Exec("DELETE FROM inquiries").Error)
		testutil.CreateInquiry(t, repo, college.ID, nil, "A", "a@example.com", agency.StatusAdmitted)
		testutil.CreateInquiry(t, repo, college.ID, nil, "B", "b@example.com", agency.StatusPending)
		testutil.CreateInquiry(t, repo, college.ID, nil, "C", "c@example.com", agency.StatusPending)

		dash, err := svc.Dashboard(ctx, agent.ID)
		require.NoError(t, err)
		assert.Equal(t, 33.3, dash.Stats.ConversionRate)
	})
}

func Test_Service_GetOrCreateProfile(t *testing.T) {
	svc, _, db, _ := setup(t)
	ctx := context.Background()

	userRepo := gormrepos.NewUserRepository(db)
	agent := testutil.CreateUser(t, userRepo, "Agent", "agent@test.cd", "", true, false)

	profile, err := svc.GetOrCreateProfile(ctx, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, agency.DefaultDashboardConfig(), profile.DashboardConfig)

	// second call reuses the same profile
	again, err := svc.GetOrCreateProfile(ctx, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.ID, again.ID)
}

func Test_Service_UpdateDashboardConfig(t *testing.T) {
	svc, _, db, _ := setup(t)
	ctx := context.Background()

	userRepo := gormrepos.NewUserRepository(db)
	agent := testutil.CreateUser(t, userRepo, "Agent", "agent@test.cd", "", true, false)
	_, err := svc.CreateDefaultProfile(ctx, agent.ID)
	require.NoError(t, err)

	cfg := agency.DashboardConfig{ShowStats: false, ShowRecent: true, CompactView: true}
	profile, err := svc.UpdateDashboardConfig(ctx, agent.ID, cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg, profile.DashboardConfig)

	// re-applying the same toggles is a no-op
	profile, err = svc.UpdateDashboardConfig(ctx, agent.ID, cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg, profile.DashboardConfig)

	t.Run("profile is created on first update", func(t *testing.T) {
		fresh := testutil.CreateUser(t, userRepo, "Fresh Agent", "fresh@test.cd", "", true, false)

		profile, err := svc.UpdateDashboardConfig(ctx, fresh.ID, cfg)
		require.NoError(t, err)
		assert.Equal(t, cfg, profile.DashboardConfig)
	})
}

func Test_Service_SendResponse(t *testing.T) {
	svc, repo, db, mailMock := setup(t)
	ctx := context.Background()

	college := testutil.CreateCollege(t, db, "Acme Institute", "Kochi", catalog.TypePrivate)
	re := func(id uint) agency.ResponseEmail {
		return agency.ResponseEmail{InquiryID: id, Subject: "Re: Your inquiry about Acme Institute", Message: "Hello!"}
	}

	t.Run("success forces status to contacted", func(t *testing.T) {
		inq := testutil.CreateInquiry(t, repo, college.ID, nil, "Asha Nair", "asha@example.com", agency.StatusPending)

		got, err := svc.SendResponse(ctx, re(inq.ID))
		require.NoError(t, err)
		assert.Equal(t, agency.StatusContacted, got.Status)

		require.Len(t, mailMock.SentMessages, 1)
		msg := mailMock.SentMessages[0]
		assert.Equal(t, "asha@example.com", msg.To[0].Address)
		assert.Equal(t, "noreply@ajuagency.in", msg.From.Address)
	})

	t.Run("success overwrites even an admitted status", func(t *testing.T) {
		inq := testutil.CreateInquiry(t, repo, college.ID, nil, "Ravi Kumar", "ravi@example.com", agency.StatusAdmitted)

		got, err := svc.SendResponse(ctx, re(inq.ID))
		require.NoError(t, err)
		assert.Equal(t, agency.StatusContacted, got.Status)
	})

	t.Run("transport failure leaves the inquiry untouched", func(t *testing.T) {
		inq := testutil.CreateInquiry(t, repo, college.ID, nil, "Maya Iyer", "maya@example.com", agency.StatusPending)

		mailMock.Reset()
		mailMock.Err = errors.New("smtp: connection refused")
		_, err := svc.SendResponse(ctx, re(inq.ID))
		require.Error(t, err)

		var terr *core.TransportError
		require.True(t, errors.As(err, &terr))
		assert.Contains(t, terr.Err.Error(), "connection refused")

		refreshed, err := svc.GetInquiry(ctx, inq.ID)
		require.NoError(t, err)
		assert.Equal(t, agency.StatusPending, refreshed.Status)
		assert.Empty(t, mailMock.SentMessages)
	})

	t.Run("unknown inquiry", func(t *testing.T) {
		mailMock.Reset()
		_, err := svc.SendResponse(ctx, re(9999))
		assert.Equal(t, agency.ErrNotFound, errors.Cause(err))
		assert.Empty(t, mailMock.SentMessages)
	})
}

func Test_Service_ResponsePrefill(t *testing.T) {
	svc, repo, db, _ := setup(t)
	ctx := context.Background()

	college := testutil.CreateCollege(t, db, "Acme Institute", "Kochi", catalog.TypePrivate)

	t.Run("echoes the student's message", func(t *testing.T) {
		inq := testutil.CreateInquiry(t, repo, college.ID, nil, "Asha Nair", "asha@example.com", agency.StatusPending)

		re, err := svc.ResponsePrefill(ctx, inq.ID, agency.AgentProfile{Phone: "+91 484 123456"})
		require.NoError(t, err)
		assert.Equal(t, "Re: Your inquiry about Acme Institute", re.Subject)
		assert.True(t, strings.HasPrefix(re.Message, "Dear Asha Nair,"))
		assert.Contains(t, re.Message, "Thank you for your interest in Acme Institute.")
		assert.Contains(t, re.Message, inq.Message)
		assert.Contains(t, re.Message, "Phone: +91 484 123456")
		assert.Contains(t, re.Message, "Email: noreply@ajuagency.in")
	})

	t.Run("falls back on a generic prompt and contact line", func(t *testing.T) {
		inq, err := repo.CreateInquiry(ctx, agency.Inquiry{
			StudentName: "Ravi Kumar",
			Email:       "ravi@example.com",
			Phone:       "+91 98765 43210",
			CollegeID:   college.ID,
			Status:      agency.StatusPending,
		})
		require.NoError(t, err)

		re, err := svc.ResponsePrefill(ctx, inq.ID, agency.AgentProfile{})
		require.NoError(t, err)
		assert.Contains(t, re.Message, "Please let us know if you have any specific questions")
		assert.Contains(t, re.Message, "Phone: Contact us for details")
	})
}
