package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"airdrop-tracker/internal/app"
	"airdrop-tracker/internal/transport/http/middleware"
	"airdrop-tracker/internal/transport/http/response"
)

type AdminHandler struct {
	adminService *app.AdminService
}

type ApproveUserRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

func NewAdminHandler(adminService *app.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "could not validate credentials")
		return
	}

	users, err := h.adminService.ListAll(actor)
	if err != nil {
		h.writeError(c, err, "list users failed")
		return
	}
	response.OK(c, users)
}

func (h *AdminHandler) ListPendingUsers(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "could not validate credentials")
		return
	}

	users, err := h.adminService.ListPending(actor)
	if err != nil {
		h.writeError(c, err, "list pending users failed")
		return
	}
	response.OK(c, users)
}

func (h *AdminHandler) ApproveUser(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "could not validate credentials")
		return
	}

	var req ApproveUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	if err := h.adminService.Approve(actor, req.UserID); err != nil {
		h.writeError(c, err, "approve user failed")
		return
	}
	response.OK(c, gin.H{"message": "user approved successfully"})
}

func (h *AdminHandler) RejectUser(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "could not validate credentials")
		return
	}

	if err := h.adminService.Reject(actor, c.Param("id")); err != nil {
		h.writeError(c, err, "reject user failed")
		return
	}
	response.OK(c, gin.H{"message": "user rejected and deleted"})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "could not validate credentials")
		return
	}

	if err := h.adminService.Delete(actor, c.Param("id")); err != nil {
		h.writeError(c, err, "delete user failed")
		return
	}
	response.OK(c, gin.H{"message": "user and owned projects deleted"})
}

func (h *AdminHandler) UserAuditTrail(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "could not validate credentials")
		return
	}

	events, err := h.adminService.AuditTrail(actor, c.Param("id"))
	if err != nil {
		h.writeError(c, err, "list audit trail failed")
		return
	}
	response.OK(c, events)
}

func (h *AdminHandler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrAdminRequired):
		response.Error(c, http.StatusForbidden, response.CodeAdminOnly, err.Error())
	case errors.Is(err, app.ErrAdminImmutable):
		response.Error(c, http.StatusBadRequest, response.CodeAdminImmutable, err.Error())
	case errors.Is(err, app.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, response.CodeUserNotFound, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}
