package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/beatbook/dj-agency-backend/internal/auth"
	eventhttp "github.com/beatbook/dj-agency-backend/internal/event/http"
	"github.com/beatbook/dj-agency-backend/internal/pkg/apperror"
	"github.com/beatbook/dj-agency-backend/internal/pkg/request"
	"github.com/beatbook/dj-agency-backend/internal/pkg/response"
	"github.com/beatbook/dj-agency-backend/internal/reservation"
)

type Handler struct {
	service reservation.Service
}

func NewHandler(service reservation.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	req, ok := bindCreate(c)
	if !ok {
		return
	}

	r, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusCreated, NewReservationResponse(r))
}

func (h *Handler) CreateHold(c *gin.Context) {
	req, ok := bindCreate(c)
	if !ok {
		return
	}

	r, err := h.service.CreateHold(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusCreated, NewReservationResponse(r))
}

func bindCreate(c *gin.Context) (reservation.CreateRequest, bool) {
	var body CreateReservationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body"))
		return reservation.CreateRequest{}, false
	}

	eventDate, err := time.Parse("2006-01-02", body.EventDate)
	if err != nil {
		response.Error(c, apperror.Validation("invalid event date"))
		return reservation.CreateRequest{}, false
	}

	return reservation.CreateRequest{
		AgencyID:            body.AgencyID,
		DJID:                body.DJID,
		ClientID:            body.ClientID,
		ClientName:          body.ClientName,
		ClientEmail:         body.ClientEmail,
		ClientPhone:         body.ClientPhone,
		EventType:           body.EventType,
		EventDate:           eventDate,
		EventStartTime:      body.EventStartTime,
		EventEndTime:        body.EventEndTime,
		EventDurationHours:  body.EventDurationHours,
		HoldDurationMinutes: body.HoldDurationMinutes,
		Notes:               body.Notes,
	}, true
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, apperror.Validation("invalid reservation id"))
		return
	}

	r, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, NewReservationResponse(r))
}

func (h *Handler) GetByNumber(c *gin.Context) {
	var uri ByNumberRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, apperror.Validation("invalid reservation number"))
		return
	}

	r, err := h.service.GetByNumber(c.Request.Context(), uri.Number)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, NewReservationResponse(r))
}

func (h *Handler) List(c *gin.Context) {
	var params ListReservationsRequest
	if err := c.ShouldBindQuery(&params); err != nil {
		response.Error(c, apperror.Validation("invalid query parameters"))
		return
	}
	pagination := request.ListParams{Page: params.Page, Limit: params.Limit}
	pagination.Normalize()

	filter := reservation.Filter{
		AgencyID:  params.AgencyID,
		DJID:      params.DJID,
		ClientID:  params.ClientID,
		Statuses:  params.Statuses,
		EventType: params.EventType,
		Search:    params.Search,
		Page:      pagination.Page,
		PageSize:  pagination.Limit,
	}
	if params.From != nil {
		from, _ := time.Parse("2006-01-02", *params.From)
		filter.From = &from
	}
	if params.To != nil {
		to, _ := time.Parse("2006-01-02", *params.To)
		filter.To = &to
	}

	reservations, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Page(c, NewReservationResponses(reservations), pagination.Page, pagination.Limit, total)
}

func (h *Handler) RequiringAction(c *gin.Context) {
	var params struct {
		AgencyID *string `form:"agency_id" binding:"omitempty,uuid"`
	}
	if err := c.ShouldBindQuery(&params); err != nil {
		response.Error(c, apperror.Validation("invalid query parameters"))
		return
	}

	reservations, err := h.service.RequiringAction(c.Request.Context(), params.AgencyID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, NewReservationResponses(reservations))
}

func (h *Handler) Stats(c *gin.Context) {
	var params struct {
		AgencyID *string `form:"agency_id" binding:"omitempty,uuid"`
	}
	if err := c.ShouldBindQuery(&params); err != nil {
		response.Error(c, apperror.Validation("invalid query parameters"))
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), params.AgencyID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, stats)
}

func (h *Handler) Confirm(c *gin.Context) {
	h.workflow(c, "confirm", func(ctx *gin.Context, id, actor string) (*reservation.Reservation, error) {
		return h.service.Confirm(ctx.Request.Context(), id, actor)
	})
}

func (h *Handler) Approve(c *gin.Context) {
	h.workflow(c, "approve", func(ctx *gin.Context, id, actor string) (*reservation.Reservation, error) {
		return h.service.Approve(ctx.Request.Context(), id, actor)
	})
}

func (h *Handler) Cancel(c *gin.Context) {
	h.workflow(c, "cancel", func(ctx *gin.Context, id, actor string) (*reservation.Reservation, error) {
		var body CancelRequest
		if err := ctx.ShouldBindJSON(&body); err != nil && ctx.Request.ContentLength > 0 {
			return nil, apperror.Validation("invalid request body")
		}
		return h.service.Cancel(ctx.Request.Context(), id, actor, body.Reason)
	})
}

func (h *Handler) Reject(c *gin.Context) {
	h.workflow(c, "reject", func(ctx *gin.Context, id, actor string) (*reservation.Reservation, error) {
		var body RejectRequest
		if err := ctx.ShouldBindJSON(&body); err != nil {
			return nil, apperror.Validation("a rejection reason is required")
		}
		return h.service.Reject(ctx.Request.Context(), id, actor, body.Reason)
	})
}

func (h *Handler) workflow(c *gin.Context, _ string, fn func(*gin.Context, string, string) (*reservation.Reservation, error)) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, apperror.Validation("invalid reservation id"))
		return
	}

	r, err := fn(c, uri.ID, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, NewReservationResponse(r))
}

func (h *Handler) ExtendHold(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, apperror.Validation("invalid reservation id"))
		return
	}

	var body ExtendHoldRequest
	if err := c.ShouldBindJSON(&body); err != nil && c.Request.ContentLength > 0 {
		response.Error(c, apperror.Validation("invalid request body"))
		return
	}

	r, err := h.service.ExtendHold(c.Request.Context(), uri.ID, body.Minutes)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, NewReservationResponse(r))
}

func (h *Handler) ConvertToEvent(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, apperror.Validation("invalid reservation id"))
		return
	}

	var body ConvertRequest
	if err := c.ShouldBindJSON(&body); err != nil && c.Request.ContentLength > 0 {
		response.Error(c, apperror.Validation("invalid request body"))
		return
	}

	r, evt, err := h.service.ConvertToEvent(c.Request.Context(), uri.ID, reservation.ConvertRequest{
		Name:     body.Name,
		Location: body.Location,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{
		"reservation": NewReservationResponse(r),
		"event":       eventhttp.NewEventResponse(evt),
	})
}

func (h *Handler) ExpireOldHolds(c *gin.Context) {
	count, err := h.service.ExpireOldHolds(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"expired": count})
}
