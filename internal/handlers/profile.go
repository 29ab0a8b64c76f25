package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/huangang/codebook/backend/internal/middleware"
	"github.com/huangang/codebook/backend/internal/services"
	"github.com/huangang/codebook/backend/pkg/response"
)

type ProfileHandler struct {
	profileService *services.ProfileService
}

func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// List returns paginated profiles
// GET /api/profiles
func (h *ProfileHandler) List(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	page, size := q.normalized()

	profiles, total, err := h.profileService.List(c.Request.Context(), page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Paginated(c, profiles, total, page, size)
}

// Get returns a profile by id or slug
// GET /api/profiles/:id
func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.profileService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, profile)
}

// Me returns the caller's profile
// GET /api/me/profile
func (h *ProfileHandler) Me(c *gin.Context) {
	profile, err := h.profileService.GetByUser(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, profile)
}

// Create creates the caller's profile
// POST /api/profiles
func (h *ProfileHandler) Create(c *gin.Context) {
	var req services.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	profile, err := h.profileService.Create(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, profile)
}

// Update patches the caller's own profile; skills are reconciled only when sent
// PATCH /api/profiles/:id
func (h *ProfileHandler) Update(c *gin.Context) {
	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	profile, err := h.profileService.Update(c.Request.Context(), middleware.GetUserID(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, profile)
}

// Skills returns the profile's skill names in association order
// GET /api/profiles/:id/skills
func (h *ProfileHandler) Skills(c *gin.Context) {
	skills, err := h.profileService.Skills(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, skills)
}

// Projects returns the projects owned by the profile's user
// GET /api/profiles/:id/projects
func (h *ProfileHandler) Projects(c *gin.Context) {
	projects, err := h.profileService.Projects(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, projects)
}
