package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/beatbook/dj-agency-backend/internal/event"
	"github.com/beatbook/dj-agency-backend/internal/pkg/apperror"
	"github.com/beatbook/dj-agency-backend/internal/pkg/request"
	"github.com/beatbook/dj-agency-backend/internal/pkg/response"
)

type Handler struct {
	service event.Service
}

func NewHandler(service event.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateEventRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body"))
		return
	}

	eventDate, err := time.Parse("2006-01-02", body.EventDate)
	if err != nil {
		response.Error(c, apperror.Validation("invalid event date"))
		return
	}

	e, err := h.service.Create(c.Request.Context(), event.CreateRequest{
		AgencyID:  body.AgencyID,
		Name:      body.Name,
		Location:  body.Location,
		EventDate: eventDate,
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusCreated, NewEventResponse(e))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, apperror.Validation("invalid event id"))
		return
	}

	e, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, NewEventResponse(e))
}

func (h *Handler) List(c *gin.Context) {
	var params ListEventsRequest
	if err := c.ShouldBindQuery(&params); err != nil {
		response.Error(c, apperror.Validation("invalid query parameters"))
		return
	}
	pagination := request.ListParams{Page: params.Page, Limit: params.Limit}
	pagination.Normalize()

	filter := event.Filter{
		AgencyID: params.AgencyID,
		Page:     pagination.Page,
		PageSize: pagination.Limit,
	}
	if params.From != nil {
		from, _ := time.Parse("2006-01-02", *params.From)
		filter.From = &from
	}
	if params.To != nil {
		to, _ := time.Parse("2006-01-02", *params.To)
		filter.To = &to
	}

	events, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]EventResponse, len(events))
	for i, e := range events {
		items[i] = NewEventResponse(e)
	}

	response.Page(c, items, pagination.Page, pagination.Limit, total)
}
