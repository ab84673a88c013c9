package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"anoa.com/schoolhub/internal/dto"
	"anoa.com/schoolhub/internal/middleware"
	"anoa.com/schoolhub/internal/service"
	"anoa.com/schoolhub/pkg/response"
)

type SchoolHandler struct {
	service service.SchoolService
}

func NewSchoolHandler(service service.SchoolService) *SchoolHandler {
	return &SchoolHandler{service: service}
}

func (h *SchoolHandler) CreateSchool(c *gin.Context) {
	var req dto.CreateSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	school, err := h.service.Create(c.Request.Context(), middleware.Principal(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"school": school})
}

func (h *SchoolHandler) GetSchool(c *gin.Context) {
	school, err := h.service.Get(c.Request.Context(), middleware.Principal(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"school": school})
}

func (h *SchoolHandler) ListSchools(c *gin.Context) {
	schools, err := h.service.List(c.Request.Context(), middleware.Principal(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"schools": schools})
}

func (h *SchoolHandler) UpdateSchool(c *gin.Context) {
	var req dto.UpdateSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	school, err := h.service.Update(c.Request.Context(), middleware.Principal(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"school": school})
}

func (h *SchoolHandler) DeleteSchool(c *gin.Context) {
	school, err := h.service.Delete(c.Request.Context(), middleware.Principal(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "School deleted successfully", "school": school})
}
