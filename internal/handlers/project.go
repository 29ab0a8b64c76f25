package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/huangang/codebook/backend/internal/middleware"
	"github.com/huangang/codebook/backend/internal/services"
	"github.com/huangang/codebook/backend/pkg/response"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// List returns paginated projects
// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	page, size := q.normalized()

	projects, total, err := h.projectService.List(c.Request.Context(), page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Paginated(c, projects, total, page, size)
}

// Get returns a project with its skills, reviews and vote ratio
// GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.projectService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, project)
}

// Create creates a project owned by the caller
// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req services.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, project)
}

// Update patches a project owned by the caller
// PATCH /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	var req services.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, project)
}

// Delete removes a project with its reviews and tags
// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projectService.Delete(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	response.NoContent(c)
}

// Skills returns the project's skill names in association order
// GET /api/projects/:id/skills
func (h *ProjectHandler) Skills(c *gin.Context) {
	skills, err := h.projectService.Skills(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, skills)
}
