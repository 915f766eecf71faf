package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beatbook/dj-agency-backend/internal/agency"
	"github.com/beatbook/dj-agency-backend/internal/auth"
	"github.com/beatbook/dj-agency-backend/internal/pkg/apperror"
	"github.com/beatbook/dj-agency-backend/internal/pkg/request"
	"github.com/beatbook/dj-agency-backend/internal/pkg/response"
)

type Handler struct {
	service agency.Service
}

func NewHandler(service agency.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateAgencyRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body"))
		return
	}

	a, err := h.service.Create(c.Request.Context(), agency.CreateRequest{
		Name:         body.Name,
		ContactEmail: body.ContactEmail,
		Phone:        body.Phone,
		OwnerUserID:  auth.GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusCreated, NewAgencyResponse(a))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, apperror.Validation("invalid agency id"))
		return
	}

	a, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, NewAgencyResponse(a))
}

func (h *Handler) List(c *gin.Context) {
	var params request.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.Error(c, apperror.Validation("invalid query parameters"))
		return
	}
	params.Normalize()

	agencies, total, err := h.service.List(c.Request.Context(), agency.Filter{
		Page:     params.Page,
		PageSize: params.Limit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]AgencyResponse, len(agencies))
	for i, a := range agencies {
		items[i] = NewAgencyResponse(a)
	}

	response.Page(c, items, params.Page, params.Limit, total)
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, apperror.Validation("invalid agency id"))
		return
	}

	var body UpdateAgencyRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body"))
		return
	}

	a, err := h.service.Update(c.Request.Context(), uri.ID, agency.UpdateRequest{
		Name:         body.Name,
		ContactEmail: body.ContactEmail,
		Phone:        body.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, http.StatusOK, NewAgencyResponse(a))
}

func (h *Handler) Deactivate(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, apperror.Validation("invalid agency id"))
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}

	response.OKMessage(c, http.StatusOK, nil, "agency deactivated")
}

func (h *Handler) AddMember(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, apperror.Validation("invalid agency id"))
		return
	}

	var body AddMemberRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, apperror.Validation("invalid request body"))
		return
	}

	if err := h.service.AddMember(c.Request.Context(), uri.ID, body.UserID, body.Role); err != nil {
		response.Error(c, err)
		return
	}

	response.OKMessage(c, http.StatusCreated, nil, "member added")
}

func (h *Handler) ListMembers(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, apperror.Validation("invalid agency id"))
		return
	}

	members, err := h.service.ListMembers(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]MemberResponse, len(members))
	for i, m := range members {
		items[i] = NewMemberResponse(m)
	}

	response.OK(c, http.StatusOK, items)
}

func (h *Handler) RemoveMember(c *gin.Context) {
	var uri memberURIRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, apperror.Validation("invalid agency or user id"))
		return
	}

	if err := h.service.RemoveMember(c.Request.Context(), uri.ID, uri.UserID); err != nil {
		response.Error(c, err)
		return
	}

	response.OKMessage(c, http.StatusOK, nil, "member removed")
}
