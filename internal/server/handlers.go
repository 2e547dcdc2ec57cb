package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/compoundverse/internal/coach"
	"github.com/julianstephens/compoundverse/internal/logger"
	"github.com/julianstephens/compoundverse/internal/models"
	"github.com/julianstephens/compoundverse/internal/registry"
	"github.com/julianstephens/compoundverse/internal/scoring"
	"github.com/julianstephens/compoundverse/internal/storage"
	"github.com/julianstephens/compoundverse/internal/tracker"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, scoring.ErrUnknownDomain),
		errors.Is(err, scoring.ErrUnknownAction),
		errors.Is(err, tracker.ErrInvalidDay),
		errors.Is(err, tracker.ErrFutureDay),
		errors.Is(err, registry.ErrInvalidDomain),
		errors.Is(err, coach.ErrUnknownAction):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, registry.ErrActionNotFound):
		return http.StatusNotFound
	case errors.Is(err, registry.ErrDomainLimit),
		errors.Is(err, registry.ErrCoreDomain),
		errors.Is(err, registry.ErrDomainActive),
		errors.Is(err, registry.ErrNotArchived),
		errors.Is(err, registry.ErrArchived),
		errors.Is(err, registry.ErrDomainExists),
		errors.Is(err, tracker.ErrAlreadySubmitted):
		return http.StatusConflict
	case errors.Is(err, tracker.ErrFeatureDisabled):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request: " + err.Error()})
}

func (s *Server) listDomains(c *gin.Context) {
	domains, err := s.deps.Registry.List(userID(c), c.Query("archived") == "true")
	if err != nil {
		writeError(c, err)
		return
	}
	if domains == nil {
		domains = []models.Domain{}
	}
	c.JSON(http.StatusOK, gin.H{"domains": domains})
}

func (s *Server) addDomain(c *gin.Context) {
	var in registry.DomainInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	d, err := s.deps.Registry.Add(userID(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (s *Server) updateDomain(c *gin.Context) {
	var edit registry.DomainEdit
	if err := c.ShouldBindJSON(&edit); err != nil {
		badRequest(c, err)
		return
	}
	d, err := s.deps.Registry.Update(userID(c), c.Param("id"), edit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (s *Server) deleteDomain(c *gin.Context) {
	if err := s.deps.Registry.Delete(userID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// lifecycle adapts a registry transition to a handler.
func (s *Server) lifecycle(op func(userID, id string) (models.Domain, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := op(userID(c), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

func (s *Server) archiveDomain(c *gin.Context) { s.lifecycle(s.deps.Registry.Archive)(c) }
func (s *Server) restoreDomain(c *gin.Context) { s.lifecycle(s.deps.Registry.Restore)(c) }
func (s *Server) disableDomain(c *gin.Context) { s.lifecycle(s.deps.Registry.Disable)(c) }
func (s *Server) enableDomain(c *gin.Context)  { s.lifecycle(s.deps.Registry.Enable)(c) }

type actionRequest struct {
	Label string `json:"label" binding:"required"`
}

func (s *Server) addAction(c *gin.Context) {
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	a, err := s.deps.Registry.AddAction(userID(c), c.Param("id"), req.Label)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (s *Server) removeAction(c *gin.Context) {
	if err := s.deps.Registry.RemoveAction(userID(c), c.Param("id"), c.Param("action")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) checkIn(c *gin.Context) {
	var req tracker.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := s.deps.Tracker.CheckIn(userID(c), req)
	switch {
	case errors.Is(err, tracker.ErrPersist):
		// the score was computed; hand it back with the failure
		logger.Error("Check-in not saved", "user", userID(c), "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error(), "result": res})
		return
	case errors.Is(err, tracker.ErrAlreadySubmitted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "entry": res.Entry})
		return
	case err != nil:
		writeError(c, err)
		return
	}

	s.deps.Metrics.ObserveCheckIn(res.Score)
	c.JSON(http.StatusCreated, res)
}

func (s *Server) listEntries(c *gin.Context) {
	entries, err := s.deps.Tracker.History(userID(c), c.Query("from"), c.Query("to"))
	if err != nil {
		writeError(c, err)
		return
	}
	if entries == nil {
		entries = []models.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (s *Server) today(c *gin.Context) {
	view, err := s.deps.Tracker.Today(userID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) momentum(c *gin.Context) {
	m, err := s.deps.Tracker.Momentum(userID(c), c.Query("date"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (s *Server) progress(c *gin.Context) {
	p, err := s.deps.Tracker.Progress(userID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type protectRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) protectDay(c *gin.Context) {
	var req protectRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	p, err := s.deps.Tracker.Protect(userID(c), c.Param("day"), req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) unprotectDay(c *gin.Context) {
	if err := s.deps.Tracker.Unprotect(userID(c), c.Param("day")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) coach(c *gin.Context) {
	var req coach.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	req.Action = strings.TrimSpace(req.Action)
	user := userID(c)

	if req.Payload.Momentum == nil || req.Payload.Progress == nil {
		if snap, err := s.deps.Tracker.Snapshot(user); err != nil {
			logger.Warn("Coach context unavailable", "user", user, "error", err)
		} else {
			fillPayload(&req.Payload, snap)
		}
	}

	enabled := true
	if settings, err := s.deps.Tracker.Settings(); err == nil {
		enabled = settings.Features.Coach
	}

	var resp coach.Response
	var err error
	if enabled && s.deps.Coach != nil {
		resp, err = s.deps.Coach.Handle(c.Request.Context(), req)
	} else {
		resp, err = coach.Fallback(req)
	}
	if err != nil {
		writeError(c, err)
		return
	}

	s.deps.Metrics.CoachCalls.WithLabelValues(req.Action, resp.Source).Inc()
	c.JSON(http.StatusOK, resp)
}

func fillPayload(p *coach.Payload, snap tracker.Snapshot) {
	if len(p.Domains) == 0 {
		p.Domains = snap.Domains
	}
	if p.Momentum == nil {
		p.Momentum = &snap.Momentum
	}
	if p.Progress == nil {
		p.Progress = &snap.Progress
	}
	if len(p.Recent) == 0 {
		p.Recent = snap.Recent
	}
}
