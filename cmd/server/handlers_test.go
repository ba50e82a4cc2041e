package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/lunahealth/cohort"
)

type mockHydrator struct {
	bundles     []*cohort.Bundle
	bundlesErr  error
	bundle      *cohort.Bundle
	bundleErr   error
	schedule    *cohort.ScheduleGroup
	scheduleErr error
	tracker     []cohort.TrackerItem
}

func (m *mockHydrator) BundlesBySubject(ctx context.Context, subjectID uuid.UUID) ([]*cohort.Bundle, error) {
	return m.bundles, m.bundlesErr
}

func (m *mockHydrator) BundleByRecord(ctx context.Context, recordID int64) (*cohort.Bundle, error) {
	return m.bundle, m.bundleErr
}

func (m *mockHydrator) ScheduleBySubject(ctx context.Context, subjectID uuid.UUID) (*cohort.ScheduleGroup, error) {
	return m.schedule, m.scheduleErr
}

func (m *mockHydrator) TrackerByRecord(ctx context.Context, recordID int64) []cohort.TrackerItem {
	return m.tracker
}

func TestSubjectBundlesSuccess(t *testing.T) {
	server := &Server{
		hydrator: &mockHydrator{
			bundles: []*cohort.Bundle{
				{Record: cohort.MaternalRecord{ID: 7, SubjectID: uuid.New()}},
			},
		},
	}

	path := "/api/v1/subjects/" + uuid.NewString() + "/bundles"
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	server.subjectHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var bundles []*cohort.Bundle
	if err := json.NewDecoder(rec.Body).Decode(&bundles); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(bundles) != 1 || bundles[0].Record.ID != 7 {
		t.Fatalf("unexpected bundles payload: %+v", bundles)
	}
}

func TestSubjectBundlesInvalidUUID(t *testing.T) {
	server := &Server{hydrator: &mockHydrator{}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/subjects/not-a-uuid/bundles", nil)
	rec := httptest.NewRecorder()
	server.subjectHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestSubjectUnknownResource(t *testing.T) {
	server := &Server{hydrator: &mockHydrator{}}

	path := "/api/v1/subjects/" + uuid.NewString() + "/documents"
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	server.subjectHandler(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestSubjectMethodNotAllowed(t *testing.T) {
	server := &Server{hydrator: &mockHydrator{}}

	path := "/api/v1/subjects/" + uuid.NewString() + "/bundles"
	req := httptest.NewRequest(http.MethodPost, path, nil)
	rec := httptest.NewRecorder()
	server.subjectHandler(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
}

func TestSubjectScheduleSuccess(t *testing.T) {
	server := &Server{
		hydrator: &mockHydrator{
			schedule: &cohort.ScheduleGroup{History: []cohort.ScheduleEntry{}},
		},
	}

	path := "/api/v1/subjects/" + uuid.NewString() + "/schedule"
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	server.subjectHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRecordBundleNotFound(t *testing.T) {
	server := &Server{
		hydrator: &mockHydrator{
			bundleErr: cohort.NewRecordNotFoundError(42),
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/records/42/bundle", nil)
	rec := httptest.NewRecorder()
	server.recordHandler(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestRecordBundleInvalidID(t *testing.T) {
	server := &Server{hydrator: &mockHydrator{}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/records/abc/bundle", nil)
	rec := httptest.NewRecorder()
	server.recordHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestRecordTrackerAlwaysOK(t *testing.T) {
	server := &Server{
		hydrator: &mockHydrator{tracker: []cohort.TrackerItem{}},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/records/9/tracker", nil)
	rec := httptest.NewRecorder()
	server.recordHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var items []cohort.TrackerItem
	if err := json.NewDecoder(rec.Body).Decode(&items); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if items == nil {
		t.Fatal("expected empty list, got null")
	}
}

func TestHealthWithoutPool(t *testing.T) {
	server := &Server{hydrator: &mockHydrator{}}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	server.handleHealth(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestErrorBodyEnvelope(t *testing.T) {
	server := &Server{hydrator: &mockHydrator{}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/records/abc/bundle", nil)
	rec := httptest.NewRecorder()
	server.recordHandler(rec, req)

	var body errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Success {
		t.Fatal("expected success=false in error body")
	}
	if body.Error == "" {
		t.Fatal("expected error message in error body")
	}
}

func TestParseSubpath(t *testing.T) {
	id, resource, err := parseSubpath("/api/v1/records/42/bundle", "/api/v1/records/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "42" || resource != "bundle" {
		t.Fatalf("unexpected parse result: %s %s", id, resource)
	}

	if _, _, err := parseSubpath("/api/v1/records/42", "/api/v1/records/"); err == nil {
		t.Fatal("expected error for missing resource segment")
	}

	if _, _, err := parseSubpath("/api/v1/records/", "/api/v1/records/"); err == nil {
		t.Fatal("expected error for empty id")
	}
}
