package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/huangang/codebook/backend/internal/services"
	"github.com/huangang/codebook/backend/pkg/response"
)

type SkillHandler struct {
	skillService *services.SkillService
}

func NewSkillHandler(skillService *services.SkillService) *SkillHandler {
	return &SkillHandler{skillService: skillService}
}

// List returns every skill ordered by name
// GET /api/skills
func (h *SkillHandler) List(c *gin.Context) {
	skills, err := h.skillService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, skills)
}

// Get returns a skill with the profiles and projects tagged with it
// GET /api/skills/:slug
func (h *SkillHandler) Get(c *gin.Context) {
	skill, err := h.skillService.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, skill)
}
