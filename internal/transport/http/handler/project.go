package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"airdrop-tracker/internal/app"
	"airdrop-tracker/internal/transport/http/middleware"
	"airdrop-tracker/internal/transport/http/response"
)

type ProjectHandler struct {
	projectService *app.ProjectService
}

type CreateProjectRequest struct {
	Name     string   `json:"name" binding:"required,min=1,max=128"`
	Twitter  string   `json:"twitter"`
	Discord  string   `json:"discord"`
	Telegram string   `json:"telegram"`
	Wallet   string   `json:"wallet"`
	Email    string   `json:"email"`
	Github   string   `json:"github"`
	Website  string   `json:"website"`
	Notes    string   `json:"notes"`
	Tags     []string `json:"tags"`
}

type DailyUpdateRequest struct {
	Name  string `json:"name" binding:"required"`
	Value string `json:"value" binding:"required"`
}

func NewProjectHandler(projectService *app.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

func (h *ProjectHandler) List(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "could not validate credentials")
		return
	}

	projects, err := h.projectService.List(user.ID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list projects failed")
		return
	}
	response.OK(c, projects)
}

func (h *ProjectHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "could not validate credentials")
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	project, err := h.projectService.Create(app.CreateProjectInput{
		OwnerID:  user.ID,
		Name:     req.Name,
		Twitter:  req.Twitter,
		Discord:  req.Discord,
		Telegram: req.Telegram,
		Wallet:   req.Wallet,
		Email:    req.Email,
		Github:   req.Github,
		Website:  req.Website,
		Notes:    req.Notes,
		Tags:     req.Tags,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrProjectExists):
			response.Error(c, http.StatusConflict, response.CodeProjectExists, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create project failed")
		}
		return
	}
	response.OK(c, project)
}

func (h *ProjectHandler) UpdateDaily(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "could not validate credentials")
		return
	}

	var req DailyUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	if err := h.projectService.UpdateDaily(user.ID, req.Name, req.Value); err != nil {
		h.writeError(c, err, "update daily status failed")
		return
	}
	response.OK(c, gin.H{"message": "daily status updated"})
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "could not validate credentials")
		return
	}

	if err := h.projectService.Delete(user.ID, c.Param("name")); err != nil {
		h.writeError(c, err, "delete project failed")
		return
	}
	response.OK(c, gin.H{"message": "project deleted successfully"})
}

func (h *ProjectHandler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrProjectNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNoSuchProject, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}
