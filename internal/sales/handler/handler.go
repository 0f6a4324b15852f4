package handler

import (
	"context"
	"net/http"
	"time"

	"sales_performance_backend/internal/sales/dashboard"
	"sales_performance_backend/internal/sales/domain"
	"sales_performance_backend/internal/sales/scoring"
	"sales_performance_backend/internal/sales/targets"
	"sales_performance_backend/internal/sales/tasks"
	"sales_performance_backend/internal/sales/transport"
	"sales_performance_backend/platform/apperr"
	"sales_performance_backend/platform/httpkit"
	"sales_performance_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Dashboard is the read side served by the handler.
type Dashboard interface {
	GetMetrics(ctx context.Context, filter dashboard.Filter) (dashboard.Metrics, error)
	PrioritizedLeads(ctx context.Context, filter dashboard.Filter) ([]scoring.ScoredLead, error)
	TodaysTasks(ctx context.Context, salesPersonID uuid.UUID) ([]tasks.PrioritizedTask, error)
}

// Targets recomputes a salesperson's open target.
type Targets interface {
	Refresh(ctx context.Context, salesPersonID uuid.UUID) (targets.Summary, error)
}

type Handler struct {
	dashboard Dashboard
	targets   Targets
	val       *validator.Validator
	loc       *time.Location
}

// New builds the handler. Query dates are read as calendar days in loc.
func New(dash Dashboard, tgt Targets, val *validator.Validator, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{dashboard: dash, targets: tgt, val: val, loc: loc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.GetDashboard)
	rg.GET("/leads/prioritized", h.ListPrioritizedLeads)
	rg.GET("/tasks/today", h.ListTodaysTasks)
	rg.POST("/targets/recompute", h.RecomputeTarget)
}

func (h *Handler) GetDashboard(c *gin.Context) {
	var req transport.DashboardQuery
	if !h.bindQuery(c, &req) {
		return
	}

	filter, ok := h.scopeFilter(c, req.ScopeQuery)
	if !ok {
		return
	}
	if req.DateFrom != "" {
		from, err := time.ParseInLocation(transport.DateLayout, req.DateFrom, h.loc)
		if err != nil {
			httpkit.HandleError(c, apperr.BadRequest("dateFrom must be a YYYY-MM-DD date"))
			return
		}
		filter.DateFrom = &from
	}
	if req.DateTo != "" {
		to, err := time.ParseInLocation(transport.DateLayout, req.DateTo, h.loc)
		if err != nil {
			httpkit.HandleError(c, apperr.BadRequest("dateTo must be a YYYY-MM-DD date"))
			return
		}
		filter.DateTo = &to
	}

	metrics, err := h.dashboard.GetMetrics(c.Request.Context(), filter)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, metrics)
}

func (h *Handler) ListPrioritizedLeads(c *gin.Context) {
	var req transport.ScopeQuery
	if !h.bindQuery(c, &req) {
		return
	}

	filter, ok := h.scopeFilter(c, req)
	if !ok {
		return
	}

	scored, err := h.dashboard.PrioritizedLeads(c.Request.Context(), filter)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToPrioritizedLeadsResponse(scored))
}

func (h *Handler) ListTodaysTasks(c *gin.Context) {
	var req transport.TodaysTasksQuery
	if !h.bindQuery(c, &req) {
		return
	}

	salesPersonID, ok := resolveSalesPerson(c, req.SalesPersonID)
	if !ok {
		return
	}

	derived, err := h.dashboard.TodaysTasks(c.Request.Context(), salesPersonID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToTodaysTasksResponse(derived))
}

func (h *Handler) RecomputeTarget(c *gin.Context) {
	var req transport.RecomputeTargetRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	salesPersonID, ok := resolveSalesPerson(c, req.SalesPersonID)
	if !ok {
		return
	}

	summary, err := h.targets.Refresh(c.Request.Context(), salesPersonID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, summary)
}

func (h *Handler) bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return false
	}
	return true
}

func (h *Handler) scopeFilter(c *gin.Context, q transport.ScopeQuery) (dashboard.Filter, bool) {
	salesPersonID, ok := resolveSalesPerson(c, q.SalesPersonID)
	if !ok {
		return dashboard.Filter{}, false
	}
	return dashboard.Filter{
		SalesPersonID: salesPersonID,
		PropertyID:    optionalUUID(q.PropertyID),
		TowerID:       optionalUUID(q.TowerID),
		FlatID:        optionalUUID(q.FlatID),
	}, true
}

// resolveSalesPerson returns whose data the caller may read. Without an
// explicit id it is the caller; other ids require a manager role.
func resolveSalesPerson(c *gin.Context, requested string) (uuid.UUID, bool) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return uuid.Nil, false
	}
	if requested == "" {
		return identity.UserID(), true
	}

	id, err := uuid.Parse(requested)
	if err != nil {
		httpkit.HandleError(c, apperr.BadRequest("salesPersonId must be a UUID"))
		return uuid.Nil, false
	}
	if id != identity.UserID() && !domain.IsManager(identity.Roles()) {
		httpkit.HandleError(c, apperr.Forbidden("only managers may view another salesperson"))
		return uuid.Nil, false
	}
	return id, true
}

func optionalUUID(raw string) *uuid.UUID {
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
