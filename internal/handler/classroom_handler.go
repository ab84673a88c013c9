package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"anoa.com/schoolhub/internal/dto"
	"anoa.com/schoolhub/internal/middleware"
	"anoa.com/schoolhub/internal/service"
	"anoa.com/schoolhub/pkg/response"
)

type ClassroomHandler struct {
	service service.ClassroomService
}

func NewClassroomHandler(service service.ClassroomService) *ClassroomHandler {
	return &ClassroomHandler{service: service}
}

func (h *ClassroomHandler) CreateClassroom(c *gin.Context) {
	var req dto.CreateClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	classroom, err := h.service.Create(c.Request.Context(), middleware.Principal(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"classroom": classroom})
}

func (h *ClassroomHandler) GetClassroom(c *gin.Context) {
	classroom, err := h.service.Get(c.Request.Context(), middleware.Principal(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"classroom": classroom})
}

func (h *ClassroomHandler) ListClassrooms(c *gin.Context) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, err := h.service.List(c.Request.Context(), middleware.Principal(c), q)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"classrooms": list.Classrooms, "pagination": list.Pagination})
}

func (h *ClassroomHandler) UpdateClassroom(c *gin.Context) {
	var req dto.UpdateClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	classroom, err := h.service.Update(c.Request.Context(), middleware.Principal(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"classroom": classroom})
}

func (h *ClassroomHandler) DeleteClassroom(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.Principal(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Classroom deleted successfully"})
}
