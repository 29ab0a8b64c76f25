package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/huangang/codebook/backend/internal/middleware"
	"github.com/huangang/codebook/backend/internal/services"
	"github.com/huangang/codebook/backend/pkg/response"
)

type ReviewHandler struct {
	ledger   *services.ReviewLedger
	projects *services.ProjectService
}

func NewReviewHandler(ledger *services.ReviewLedger, projects *services.ProjectService) *ReviewHandler {
	RegisterValidators()
	return &ReviewHandler{ledger: ledger, projects: projects}
}

type SubmitReviewRequest struct {
	Vote string `json:"vote" binding:"required,vote"`
	Body string `json:"body"`
}

// Submit records the caller's review of a project
// POST /api/projects/:id/reviews
func (h *ReviewHandler) Submit(c *gin.Context) {
	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "vote must be Up or Down")
		return
	}
	vote, err := services.ParseVote(req.Vote)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	project, err := h.projects.Find(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	review, err := h.ledger.Submit(ctx, middleware.GetUserID(c), project.ID, vote, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, services.NewReviewView(review))
}

// Withdraw deletes the caller's review of a project
// DELETE /api/projects/:id/reviews
func (h *ReviewHandler) Withdraw(c *gin.Context) {
	ctx := c.Request.Context()
	project, err := h.projects.Find(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.ledger.Withdraw(ctx, middleware.GetUserID(c), project.ID); err != nil {
		respondError(c, err)
		return
	}
	response.NoContent(c)
}

// ListByProject returns a project's reviews oldest first
// GET /api/projects/:id/reviews
func (h *ReviewHandler) ListByProject(c *gin.Context) {
	ctx := c.Request.Context()
	project, err := h.projects.Find(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	reviews, err := h.ledger.List(ctx, project.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, services.NewReviewViews(reviews))
}

// List returns every review in creation order
// GET /api/reviews
func (h *ReviewHandler) List(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	page, size := q.normalized()

	reviews, total, err := h.ledger.ListAll(c.Request.Context(), page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Paginated(c, services.NewReviewViews(reviews), total, page, size)
}
