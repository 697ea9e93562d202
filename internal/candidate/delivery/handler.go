package delivery

import (
	"errors"
	"net/http"
	"strconv"

	authdomain "inboxcal/internal/auth/domain"
	"inboxcal/internal/candidate/domain"
	"inboxcal/internal/candidate/repository"
	"inboxcal/internal/candidate/usecase"

	"github.com/gin-gonic/gin"
)

type CandidateHandler struct {
	sync   *usecase.SyncUsecase
	review *usecase.ReviewUsecase
	repo   repository.CandidateRepository
}

func NewCandidateHandler(sync *usecase.SyncUsecase, review *usecase.ReviewUsecase, repo repository.CandidateRepository) *CandidateHandler {
	return &CandidateHandler{sync: sync, review: review, repo: repo}
}

// Sync runs one pass over the mailbox and reports counts. The only error
// surfaced explicitly is "not connected"; everything else item-level was
// already converted to skips inside the pipeline.
func (h *CandidateHandler) Sync(c *gin.Context) {
	report, err := h.sync.Run(c.Request.Context())
	if err != nil {
		if errors.Is(err, authdomain.ErrNotConnected) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":       "google account not connected",
				"connect_url": "/api/auth/google",
			})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// ReviewNext shows the single oldest pending candidate.
func (h *CandidateHandler) ReviewNext(c *gin.Context) {
	candidate, err := h.review.Next()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if candidate == nil {
		c.JSON(http.StatusOK, gin.H{"message": "no pending events"})
		return
	}
	c.JSON(http.StatusOK, candidate)
}

// Accept pushes the candidate to the calendar and redirects back into the
// review flow.
func (h *CandidateHandler) Accept(c *gin.Context) {
	id, ok := h.candidateID(c)
	if !ok {
		return
	}
	if err := h.review.Accept(c.Request.Context(), id); err != nil {
		if errors.Is(err, authdomain.ErrNotConnected) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":       "google account not connected",
				"connect_url": "/api/auth/google",
			})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.Redirect(http.StatusSeeOther, "/api/review/next")
}

// Reject marks the candidate rejected and redirects back into the review flow.
func (h *CandidateHandler) Reject(c *gin.Context) {
	id, ok := h.candidateID(c)
	if !ok {
		return
	}
	if err := h.review.Reject(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Redirect(http.StatusSeeOther, "/api/review/next")
}

// GetByID returns one candidate.
func (h *CandidateHandler) GetByID(c *gin.Context) {
	id, ok := h.candidateID(c)
	if !ok {
		return
	}
	candidate, err := h.repo.GetByID(id)
	if err != nil {
		if err == domain.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "candidate not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, candidate)
}

func (h *CandidateHandler) candidateID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid candidate id"})
		return 0, false
	}
	return uint(id), true
}
