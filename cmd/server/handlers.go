package main

import (
	"fmt"
	"net/http"

	"github.com/lunahealth/cohort"
)

// subjectHandler routes /api/v1/subjects/{subject_id}/{resource}
func (s *Server) subjectHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	subjectIDStr, resource, err := parseSubpath(r.URL.Path, "/api/v1/subjects/")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid path: %v", err))
		return
	}

	subjectID, err := parseUUID(subjectIDStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid subject id: %v", err))
		return
	}

	switch resource {
	case "bundles":
		bundles, err := s.hydrator.BundlesBySubject(r.Context(), subjectID)
		if err != nil {
			writeHydrationError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, bundles)
	case "schedule":
		group, err := s.hydrator.ScheduleBySubject(r.Context(), subjectID)
		if err != nil {
			writeHydrationError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, group)
	default:
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown resource: %s", resource))
	}
}

// recordHandler routes /api/v1/records/{record_id}/{resource}
func (s *Server) recordHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	recordIDStr, resource, err := parseSubpath(r.URL.Path, "/api/v1/records/")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid path: %v", err))
		return
	}

	recordID, err := parseInt64(recordIDStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid record id: %v", err))
		return
	}

	switch resource {
	case "bundle":
		bundle, err := s.hydrator.BundleByRecord(r.Context(), recordID)
		if err != nil {
			writeHydrationError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, bundle)
	case "tracker":
		// Best-effort by contract: an upstream tracker failure renders as an
		// empty list, not an error.
		items := s.hydrator.TrackerByRecord(r.Context(), recordID)
		writeSuccess(w, http.StatusOK, items)
	default:
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown resource: %s", resource))
	}
}

// handleHealth reports database reachability
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.pool != nil {
		if err := s.pool.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
	}
	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeHydrationError(w http.ResponseWriter, err error) {
	switch {
	case cohort.IsValidationError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case cohort.IsRecordNotFoundError(err):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
