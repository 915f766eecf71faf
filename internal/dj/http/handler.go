package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beatbook/dj-agency-backend/internal/dj"
	"github.com/beatbook/dj-agency-backend/internal/pkg/apperror"
	"github.com/beatbook/dj-agency-backend/internal/pkg/request"
	"github.com/beatbook/dj-agency-backend/internal/pkg/response"
)

const maxPhotoSize = 10 << 20 // 10 MiB

type Handler struct {
	service dj.Service
}

func NewHandler(service dj.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateDJRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body"))
		return
	}

	d, err := h.service.Create(c.Request.Context(), dj.CreateRequest{
		AgencyID:   body.AgencyID,
		Name:       body.Name,
		Specialty:  body.Specialty,
		Rating:     body.Rating,
		HourlyRate: body.HourlyRate,
		Bio:        body.Bio,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusCreated, NewDJResponse(d))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, apperror.Validation("invalid dj id"))
		return
	}

	d, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, NewDJResponse(d))
}

func (h *Handler) List(c *gin.Context) {
	var params ListDJsRequest
	if err := c.ShouldBindQuery(&params); err != nil {
		response.Error(c, apperror.Validation("invalid query parameters"))
		return
	}
	pagination := request.ListParams{Page: params.Page, Limit: params.Limit}
	pagination.Normalize()

	djs, total, err := h.service.List(c.Request.Context(), dj.Filter{
		AgencyID:   params.AgencyID,
		Specialty:  params.Specialty,
		ActiveOnly: params.ActiveOnly,
		Search:     params.Search,
		Page:       pagination.Page,
		PageSize:   pagination.Limit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]DJResponse, len(djs))
	for i, d := range djs {
		items[i] = NewDJResponse(d)
	}

	response.Page(c, items, pagination.Page, pagination.Limit, total)
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, apperror.Validation("invalid dj id"))
		return
	}

	var body UpdateDJRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body"))
		return
	}

	d, err := h.service.Update(c.Request.Context(), uri.ID, dj.UpdateRequest{
		Name:       body.Name,
		Specialty:  body.Specialty,
		Rating:     body.Rating,
		HourlyRate: body.HourlyRate,
		Bio:        body.Bio,
		IsActive:   body.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, NewDJResponse(d))
}

func (h *Handler) Deactivate(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, apperror.Validation("invalid dj id"))
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}

	response.OKMessage(c, http.StatusOK, nil, "dj deactivated")
}

func (h *Handler) UploadPhoto(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, apperror.Validation("invalid dj id"))
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		response.Error(c, apperror.Validation("photo file is required"))
		return
	}
	if fileHeader.Size > maxPhotoSize {
		response.Error(c, apperror.Validation("photo exceeds the 10MB size limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, apperror.Validation("cannot open uploaded file"))
		return
	}
	defer file.Close()

	d, err := h.service.UploadPhoto(c.Request.Context(), uri.ID, fileHeader.Filename, file)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, NewDJResponse(d))
}
