package devserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Makepad-fr/debts/internal/model"
)

type debtRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	CreatedBy   *string `json:"created_by"`
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (s *Server) listDebts(c *gin.Context) {
	q := s.db.Model(&Debt{})
	if v := c.Query("created_by"); v != "" {
		q = q.Where("created_by = ?", v)
	}
	if v := c.Query("status"); v != "" {
		q = q.Where("status = ?", v)
	}

	var rows []Debt
	if err := q.Order("created_at desc").Find(&rows).Error; err != nil {
		s.log.Error().Err(err).Msg("list debts")
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}
	items := make([]model.Debt, 0, len(rows))
	for _, d := range rows {
		items = append(items, d.toModel())
	}
	c.JSON(http.StatusOK, model.DebtList{Items: items})
}

func (s *Server) createDebt(c *gin.Context) {
	var req debtRequest
	_ = c.ShouldBindJSON(&req)

	title := trimmed(req.Title)
	status := strings.ToLower(trimmed(req.Status))
	if status == "" {
		status = model.StatusOpen
	}
	createdBy := trimmed(req.CreatedBy)
	if createdBy == "" {
		createdBy = s.authUserID(c)
	}

	if title == "" {
		fail(c, http.StatusBadRequest, "title is required")
		return
	}
	if createdBy == "" {
		fail(c, http.StatusBadRequest, "created_by is required")
		return
	}
	if !model.ValidStatus(status) {
		fail(c, http.StatusBadRequest, "invalid status")
		return
	}

	debt := Debt{
		ID:          uuid.NewString(),
		Title:       title,
		Description: optional(trimmed(req.Description)),
		CreatedBy:   createdBy,
		Status:      status,
	}
	if err := s.db.Create(&debt).Error; err != nil {
		s.log.Error().Err(err).Msg("create debt")
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusCreated, debt.toModel())
}

func (s *Server) findDebt(c *gin.Context) (Debt, bool) {
	var debt Debt
	err := s.db.Where("id = ?", c.Param("id")).First(&debt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fail(c, http.StatusNotFound, "not found")
		return Debt{}, false
	}
	if err != nil {
		s.log.Error().Err(err).Msg("load debt")
		fail(c, http.StatusInternalServerError, "internal error")
		return Debt{}, false
	}
	return debt, true
}

func (s *Server) getDebt(c *gin.Context) {
	debt, ok := s.findDebt(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, debt.toModel())
}

func (s *Server) updateDebt(c *gin.Context) {
	debt, ok := s.findDebt(c)
	if !ok {
		return
	}

	var req debtRequest
	_ = c.ShouldBindJSON(&req)

	if req.Title != nil {
		title := trimmed(req.Title)
		if title == "" {
			fail(c, http.StatusBadRequest, "title cannot be empty")
			return
		}
		debt.Title = title
	}
	if req.Description != nil {
		debt.Description = optional(trimmed(req.Description))
	}
	if req.Status != nil {
		status := strings.ToLower(trimmed(req.Status))
		if !model.ValidStatus(status) {
			fail(c, http.StatusBadRequest, "invalid status")
			return
		}
		debt.Status = status
	}

	if err := s.db.Save(&debt).Error; err != nil {
		s.log.Error().Err(err).Msg("update debt")
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, debt.toModel())
}

func (s *Server) deleteDebt(c *gin.Context) {
	debt, ok := s.findDebt(c)
	if !ok {
		return
	}
	if err := s.db.Delete(&debt).Error; err != nil {
		s.log.Error().Err(err).Msg("delete debt")
		fail(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
