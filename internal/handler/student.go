package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jwkim/studyroom-seat-reservation/internal/model"
	"github.com/jwkim/studyroom-seat-reservation/internal/repository"
)

// StudentHandler exposes the registry to admins: list, add, delete.
// The reservation store consults the same repository on every seat
// claim, so a deleted student can no longer reserve.
type StudentHandler struct {
	Repo *repository.StudentRepo
}

// NewStudentHandler constructs a StudentHandler.
func NewStudentHandler(repo *repository.StudentRepo) *StudentHandler {
	if repo == nil {
		panic("nil repository passed to NewStudentHandler")
	}
	return &StudentHandler{Repo: repo}
}

type addStudentReq struct {
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
}

// List handles GET /api/admin/students.
func (h *StudentHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	students, err := h.Repo.List(ctx)
	if err != nil {
		c.Logger().Errorf("list students: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "failed to load students"})
	}
	if students == nil {
		students = []model.Student{}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "students": students})
}

// Add handles POST /api/admin/students.
func (h *StudentHandler) Add(c echo.Context) error {
	var req addStudentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid request body"})
	}
	if req.StudentID == "" || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "studentId and name are required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	s, err := h.Repo.Add(ctx, req.StudentID, req.Name)
	if err != nil {
		if errors.Is(err, repository.ErrStudentExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "student id already registered"})
		}
		c.Logger().Errorf("add student: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "failed to add student"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "student": s})
}

// Delete handles DELETE /api/admin/students/:studentId.
func (h *StudentHandler) Delete(c echo.Context) error {
	studentID := c.Param("studentId")
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Repo.Delete(ctx, studentID); err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "student not found"})
		}
		c.Logger().Errorf("delete student: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "failed to delete student"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
