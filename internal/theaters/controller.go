package theaters

import (
	"errors"
	"net/http"

	"theaterbook/internal/branches"
	"theaterbook/internal/shared/utils/response"
	"theaterbook/internal/timewindow"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service   Service
	maxUpload int64
}

func NewController(service Service, maxUpload int64) *Controller {
	return &Controller{service: service, maxUpload: maxUpload}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, timewindow.ErrInvalidDate),
		errors.Is(err, timewindow.ErrInvalidSlotDefinition):
		return http.StatusBadRequest
	case errors.Is(err, ErrTheaterNotFound), errors.Is(err, branches.ErrBranchNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrImagesNotSupported):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (c *Controller) Create(ctx *gin.Context) {
	var req CreateTheaterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	theater, err := c.service.Create(ctx.Request.Context(), req)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to create theater", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusCreated, "Theater created successfully", theater, nil)
}

func (c *Controller) Get(ctx *gin.Context) {
	theater, err := c.service.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to get theater", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Theater retrieved successfully", theater, nil)
}

func (c *Controller) Update(ctx *gin.Context) {
	var req UpdateTheaterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	theater, err := c.service.Update(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to update theater", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Theater updated successfully", theater, nil)
}

func (c *Controller) Delete(ctx *gin.Context) {
	if err := c.service.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to delete theater", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Theater deleted successfully", nil, nil)
}

// AvailableSlots accepts the date either as JSON body or as ?date=.
func (c *Controller) AvailableSlots(ctx *gin.Context) {
	var req DateQuery
	if err := ctx.ShouldBindJSON(&req); err != nil {
		if err := ctx.ShouldBindQuery(&req); err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Date is required", nil, err.Error())
			return
		}
	}

	result, err := c.service.AvailableSlots(ctx.Request.Context(), ctx.Param("id"), req.Date)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to get available slots", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Available slots retrieved successfully", result, nil)
}

func (c *Controller) List(ctx *gin.Context) {
	result, err := c.service.ListWithAvailability(ctx.Request.Context(), ctx.Query("date"))
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to get theaters", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Theaters retrieved successfully", result, nil)
}

func (c *Controller) ByLocation(ctx *gin.Context) {
	var req LocationAvailabilityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Location and date are required", nil, err.Error())
		return
	}

	result, err := c.service.AvailabilityByLocation(ctx.Request.Context(), req.Location, req.Date)
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to get availability", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Availability retrieved successfully", result, nil)
}

func (c *Controller) ByBranch(ctx *gin.Context) {
	result, err := c.service.ListByBranch(ctx.Request.Context(), ctx.Param("branchId"))
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to get theaters", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Theaters retrieved successfully", result, nil)
}

func (c *Controller) LocationsByBranch(ctx *gin.Context) {
	result, err := c.service.LocationsByBranch(ctx.Request.Context(), ctx.Param("branchId"))
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to get locations", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Locations retrieved successfully", result, nil)
}

func (c *Controller) UploadImages(ctx *gin.Context) {
	if c.maxUpload > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxUpload)
	}
	form, err := ctx.MultipartForm()
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid multipart form", nil, err.Error())
		return
	}

	theater, err := c.service.UploadImages(ctx.Request.Context(), ctx.Param("id"), form.File["images"])
	if err != nil {
		response.RespondJSON(ctx, "error", statusFor(err), "Failed to upload images", nil, err.Error())
		return
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Images uploaded successfully", theater, nil)
}
