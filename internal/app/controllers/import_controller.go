package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brightclass/roster/internal/app/models"
	"github.com/brightclass/roster/internal/app/models/dto"
	"github.com/brightclass/roster/internal/app/repositories"
	"github.com/brightclass/roster/internal/middleware"
)

// ImportController handles import job operations
type ImportController struct {
	importJobRepo *repositories.ImportJobRepository
}

// NewImportController creates a new ImportController
func NewImportController(importJobRepo *repositories.ImportJobRepository) *ImportController {
	return &ImportController{
		importJobRepo: importJobRepo,
	}
}

// CreateImportJob enqueues a new import job. The file itself must already
// be in the object store; the request only points at it. Processing happens
// asynchronously, so the response carries the job in its QUEUED state.
func (c *ImportController) CreateImportJob(ctx *gin.Context) {
	var req dto.CreateImportJobRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid import job data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	job := &models.ImportJob{
		ID:             uuid.New().String(),
		SchoolID:       req.SchoolID,
		Bucket:         req.Bucket,
		Key:            req.Key,
		ErrorReportKey: req.ErrorReportKey,
	}

	if err := c.importJobRepo.Enqueue(ctx.Request.Context(), job); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusAccepted, dto.NewAPIResponse(dto.NewImportJobResponse(job)))
}

// GetImportJob retrieves an import job and its counters by ID
func (c *ImportController) GetImportJob(ctx *gin.Context) {
	idStr := ctx.Param("id")
	if _, err := uuid.Parse(idStr); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid import job ID")
		errorDetail = errorDetail.WithDetails("Import job ID must be a valid UUID")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	job, err := c.importJobRepo.GetByID(ctx.Request.Context(), idStr)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewImportJobResponse(job)))
}
