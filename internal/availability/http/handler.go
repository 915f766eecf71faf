package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/beatbook/dj-agency-backend/internal/availability"
	djhttp "github.com/beatbook/dj-agency-backend/internal/dj/http"
	"github.com/beatbook/dj-agency-backend/internal/pkg/apperror"
	"github.com/beatbook/dj-agency-backend/internal/pkg/request"
	"github.com/beatbook/dj-agency-backend/internal/pkg/response"
)

type Handler struct {
	service availability.Service
}

func NewHandler(service availability.Service) *Handler {
	return &Handler{service: service}
}

func mustDate(s string) time.Time {
	// Callers bind with datetime=2006-01-02 so the parse cannot fail.
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func (h *Handler) List(c *gin.Context) {
	var params ListSlotsRequest
	if err := c.ShouldBindQuery(&params); err != nil {
		response.Error(c, apperror.Validation("invalid query parameters"))
		return
	}
	pagination := request.ListParams{Page: params.Page, Limit: params.Limit}
	pagination.Normalize()

	filter := availability.Filter{
		DJID:     params.DJID,
		AgencyID: params.AgencyID,
		Status:   params.Estado,
		Page:     pagination.Page,
		PageSize: pagination.Limit,
	}
	if params.FechaDesde != nil {
		from := mustDate(*params.FechaDesde)
		filter.From = &from
	}
	if params.FechaHasta != nil {
		to := mustDate(*params.FechaHasta)
		filter.To = &to
	}

	slots, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]SlotResponse, len(slots))
	for i, s := range slots {
		items[i] = NewSlotResponse(s)
	}
	response.Page(c, items, pagination.Page, pagination.Limit, total)
}

func (h *Handler) Upsert(c *gin.Context) {
	var body UpsertSlotRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body"))
		return
	}

	slot, err := h.service.Upsert(c.Request.Context(), availability.UpsertRequest{
		DJID:      body.DJID,
		Date:      mustDate(body.Fecha),
		StartTime: body.HoraInicio,
		EndTime:   body.HoraFin,
		AllDay:    body.AllDay,
		Status:    body.Estado,
		EventID:   body.EventID,
		Reason:    body.Reason,
		Notes:     body.Notes,
		ColorHint: body.ColorHint,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusCreated, NewSlotResponse(slot))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, apperror.Validation("invalid slot id"))
		return
	}

	var body UpsertSlotRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body"))
		return
	}

	slot, err := h.service.Update(c.Request.Context(), uri.ID, availability.UpsertRequest{
		DJID:      body.DJID,
		Date:      mustDate(body.Fecha),
		StartTime: body.HoraInicio,
		EndTime:   body.HoraFin,
		AllDay:    body.AllDay,
		Status:    body.Estado,
		EventID:   body.EventID,
		Reason:    body.Reason,
		Notes:     body.Notes,
		ColorHint: body.ColorHint,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, NewSlotResponse(slot))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, apperror.Validation("invalid slot id"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}

	response.OKMessage(c, http.StatusOK, nil, "slot deleted")
}

func (h *Handler) Check(c *gin.Context) {
	var params CheckRequest
	if err := c.ShouldBindQuery(&params); err != nil {
		response.Error(c, apperror.Validation("invalid query parameters"))
		return
	}

	report, err := h.service.CheckAvailability(
		c.Request.Context(), params.DJID, mustDate(params.Fecha), params.HoraInicio, params.HoraFin,
	)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, CheckResponse{
		Available:            report.Available,
		BlockedByReservation: report.BlockedByReservation,
		Conflicts:            NewConflictResponses(report.Conflicts),
	})
}

func (h *Handler) Conflicts(c *gin.Context) {
	var params ConflictsRequest
	if err := c.ShouldBindQuery(&params); err != nil {
		response.Error(c, apperror.Validation("invalid query parameters"))
		return
	}

	conflicts, err := h.service.DetectConflicts(
		c.Request.Context(), params.DJID, mustDate(params.Fecha),
		params.HoraInicio, params.HoraFin, params.ExcludeID,
	)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, NewConflictResponses(conflicts))
}

func (h *Handler) AvailableDJs(c *gin.Context) {
	var params AvailableDJsRequest
	if err := c.ShouldBindQuery(&params); err != nil {
		response.Error(c, apperror.Validation("invalid query parameters"))
		return
	}

	djs, err := h.service.FindAvailableDJs(
		c.Request.Context(), mustDate(params.Fecha), params.HoraInicio, params.HoraFin, params.AgencyID,
	)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]djhttp.DJResponse, len(djs))
	for i, d := range djs {
		items[i] = djhttp.NewDJResponse(d)
	}
	response.OK(c, http.StatusOK, items)
}

func (h *Handler) Suggestions(c *gin.Context) {
	var params SuggestionsRequest
	if err := c.ShouldBindQuery(&params); err != nil {
		response.Error(c, apperror.Validation("invalid query parameters"))
		return
	}

	suggestions, err := h.service.FindSmartSuggestions(
		c.Request.Context(), params.OriginalDJID, mustDate(params.Fecha),
		params.HoraInicio, params.HoraFin, params.AgencyID,
	)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, NewSuggestionResponses(suggestions))
}

func (h *Handler) Calendar(c *gin.Context) {
	var uri DJURIRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, apperror.Validation("invalid dj id"))
		return
	}
	var params MonthRequest
	if err := c.ShouldBindQuery(&params); err != nil {
		response.Error(c, apperror.Validation("year and month are required"))
		return
	}

	slots, err := h.service.FindByMonth(c.Request.Context(), uri.DJID, params.Year, params.Month)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]SlotResponse, len(slots))
	for i, s := range slots {
		items[i] = NewSlotResponse(s)
	}
	response.OK(c, http.StatusOK, items)
}

func (h *Handler) Range(c *gin.Context) {
	var uri DJURIRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, apperror.Validation("invalid dj id"))
		return
	}
	var params RangeRequest
	if err := c.ShouldBindQuery(&params); err != nil {
		response.Error(c, apperror.Validation("fecha_inicio and fecha_fin are required"))
		return
	}

	slots, err := h.service.FindByDateRange(
		c.Request.Context(), uri.DJID, mustDate(params.FechaInicio), mustDate(params.FechaFin),
	)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]SlotResponse, len(slots))
	for i, s := range slots {
		items[i] = NewSlotResponse(s)
	}
	response.OK(c, http.StatusOK, items)
}

func (h *Handler) MarkUnavailable(c *gin.Context) {
	var body MarkUnavailableRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body"))
		return
	}

	slot, err := h.service.MarkUnavailable(
		c.Request.Context(), body.DJID, mustDate(body.Fecha), body.Reason, body.Notes,
	)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, NewSlotResponse(slot))
}

func (h *Handler) MarkAvailable(c *gin.Context) {
	var body MarkAvailableRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body"))
		return
	}

	slot, err := h.service.MarkAvailable(c.Request.Context(), body.DJID, mustDate(body.Fecha))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, NewSlotResponse(slot))
}

func (h *Handler) ReserveForEvent(c *gin.Context) {
	var body ReserveForEventRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body"))
		return
	}

	slot, err := h.service.ReserveForEvent(
		c.Request.Context(), body.DJID, mustDate(body.Fecha), body.EventID, body.HoraInicio, body.HoraFin,
	)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, NewSlotResponse(slot))
}

func (h *Handler) BlockRange(c *gin.Context) {
	var body BlockRangeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body"))
		return
	}

	count, err := h.service.BlockDateRange(
		c.Request.Context(), body.DJID, mustDate(body.FechaInicio), mustDate(body.FechaFin), body.Reason,
	)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"days_blocked": count})
}

func (h *Handler) Stats(c *gin.Context) {
	var uri DJURIRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, apperror.Validation("invalid dj id"))
		return
	}
	var params MonthRequest
	if err := c.ShouldBindQuery(&params); err != nil {
		response.Error(c, apperror.Validation("year and month are required"))
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), uri.DJID, params.Year, params.Month)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, stats)
}

func (h *Handler) Cleanup(c *gin.Context) {
	// Zero lets the service fall back to the configured retention horizon.
	days := 0
	var params struct {
		Days *int `form:"days" binding:"omitempty,min=1"`
	}
	if err := c.ShouldBindQuery(&params); err != nil {
		response.Error(c, apperror.Validation("invalid query parameters"))
		return
	}
	if params.Days != nil {
		days = *params.Days
	}

	removed, err := h.service.CleanupOld(c.Request.Context(), days)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"removed": removed})
}
