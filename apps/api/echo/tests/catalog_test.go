package tests

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/ajuagency/collegia/core/agency"
	"github.com/ajuagency/collegia/core/catalog"
	testutil "github.com/ajuagency/collegia/tests"
)

func Test_catalogApi_home(t *testing.T) {
	resetDB(t)

	college := testutil.CreateCollege(t, db, "Acme Institute", "Kochi", catalog.TypePrivate)
	testutil.CreateCollege(t, db, "NIT Calicut", "Calicut", catalog.TypeGovernment)
	testutil.CreateInquiry(t, agencyRepo, college.ID, nil, "Asha Nair", "asha@example.com", agency.StatusPending)

	req, rec := newRequest(http.MethodGet, "/")
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusOK)

	var body struct {
		TotalColleges  int64 `json:"total_colleges"`
		TotalInquiries int64 `json:"total_inquiries"`
	}
	decodeBody(t, rec, &body)
	if body.TotalColleges != 2 || body.TotalInquiries != 1 {
		t.Errorf("body = %+v", body)
	}
}

func Test_catalogApi_query(t *testing.T) {
	resetDB(t)

	acme := testutil.CreateCollege(t, db, "Acme Institute", "Kochi", catalog.TypePrivate)
	nit := testutil.CreateCollege(t, db, "NIT Calicut", "Calicut", catalog.TypeGovernment)

	query := func(t *testing.T, path string) []catalog.College {
		t.Helper()
		req, rec := newRequest(http.MethodGet, path)
		app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)
		var colleges []catalog.College
		decodeBody(t, rec, &colleges)
		return colleges
	}

	t.Run("all", func(t *testing.T) {
		colleges := query(t, "/colleges")
		if len(colleges) != 2 {
			t.Fatalf("want 2 colleges, got %d", len(colleges))
		}
	})

	t.Run("slug is derived from the name", func(t *testing.T) {
		colleges := query(t, "/colleges?search=Acme")
		if len(colleges) != 1 || colleges[0].Slug != "acme-institute" {
			t.Errorf("colleges = %+v", colleges)
		}
	})

	t.Run("filter by city", func(t *testing.T) {
		colleges := query(t, "/colleges?city=Calicut")
		if len(colleges) != 1 || colleges[0].ID != nit.ID {
			t.Errorf("colleges = %+v", colleges)
		}
	})

	t.Run("filter by type", func(t *testing.T) {
		colleges := query(t, "/colleges?college_type=private")
		if len(colleges) != 1 || colleges[0].ID != acme.ID {
			t.Errorf("colleges = %+v", colleges)
		}
	})

	t.Run("ordering by name", func(t *testing.T) {
		colleges := query(t, "/colleges?ordering=-name")
		if len(colleges) != 2 || colleges[0].ID != nit.ID {
			t.Errorf("colleges = %+v", colleges)
		}
	})

	t.Run("unknown ordering fields are ignored", func(t *testing.T) {
		colleges := query(t, "/colleges?ordering=password_hash")
		if len(colleges) != 2 {
			t.Fatalf("want 2 colleges, got %d", len(colleges))
		}
	})
}

func Test_catalogApi_retrieve(t *testing.T) {
	resetDB(t)

	college := testutil.CreateCollege(t, db, "Acme Institute", "Kochi", catalog.TypePrivate)
	testutil.CreateCourse(t, db, college.ID, "B.Tech CSE", catalog.LevelUndergraduate)

	t.Run("ok with active courses", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/colleges/"+strconv.FormatUint(uint64(college.ID), 10))
		app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)

		var body catalog.College
		decodeBody(t, rec, &body)
		if body.Name != "Acme Institute" {
			t.Errorf("name = %q", body.Name)
		}
		if len(body.Courses) != 1 {
			t.Errorf("courses = %+v", body.Courses)
		}
	})

	t.Run("unknown college", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/colleges/9999")
		app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusNotFound)
	})

	t.Run("junk id", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/colleges/lol")
		app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusNotFound)
	})
}

func Test_catalogApi_queryCourses(t *testing.T) {
	resetDB(t)

	acme := testutil.CreateCollege(t, db, "Acme Institute", "Kochi", catalog.TypePrivate)
	nit := testutil.CreateCollege(t, db, "NIT Calicut", "Calicut", catalog.TypeGovernment)
	testutil.CreateCourse(t, db, acme.ID, "B.Tech CSE", catalog.LevelUndergraduate)
	testutil.CreateCourse(t, db, nit.ID, "M.Tech VLSI", catalog.LevelPostgraduate)

	t.Run("all courses", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/courses")
		app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)
		var courses []catalog.Course
		decodeBody(t, rec, &courses)
		if len(courses) != 2 {
			t.Errorf("courses = %+v", courses)
		}
	})

	t.Run("scoped to a college", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/courses?college_id="+strconv.FormatUint(uint64(acme.ID), 10))
		app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)
		var courses []catalog.Course
		decodeBody(t, rec, &courses)
		if len(courses) != 1 || courses[0].Name != "B.Tech CSE" {
			t.Errorf("courses = %+v", courses)
		}
	})

	t.Run("junk college_id", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/courses?college_id=lol")
		app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusBadRequest)
	})
}

func Test_catalogApi_stats(t *testing.T) {
	resetDB(t)

	testutil.CreateCollege(t, db, "Acme Institute", "Kochi", catalog.TypePrivate)
	testutil.CreateCollege(t, db, "NIT Calicut", "Calicut", catalog.TypeGovernment)

	req, rec := newRequest(http.MethodGet, "/stats")
	app.ServeHTTP(rec, req)
	checkCode(t, rec, http.StatusOK)

	var body catalog.Stats
	decodeBody(t, rec, &body)
	if body.TotalColleges != 2 {
		t.Errorf("total_colleges = %d", body.TotalColleges)
	}
	if len(body.CollegesByCity) != 2 || len(body.CollegesByType) != 2 {
		t.Errorf("body = %+v", body)
	}
}
