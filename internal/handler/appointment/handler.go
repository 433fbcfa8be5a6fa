package appointment

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/admin-console/internal/handler"
	"github.com/jwalitptl/admin-console/internal/model"
)

type Service interface {
	CreateAppointment(ctx context.Context, in model.AppointmentInput) (*model.Appointment, error)
	GetAppointment(ctx context.Context, id string) (*model.Appointment, error)
	UpdateAppointment(ctx context.Context, id string, patch model.AppointmentPatch) (*model.Appointment, error)
	DeleteAppointment(ctx context.Context, id string) error
	ListAppointments(ctx context.Context, q model.ListQuery) (*model.Page[model.Appointment], error)
	TodayAppointments(ctx context.Context, doctorID string) ([]model.Appointment, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/today", h.TodayAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PATCH("/:id", h.UpdateAppointment)
		appointments.DELETE("/:id", h.DeleteAppointment)
	}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.AppointmentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	appointment, err := h.service.CreateAppointment(c.Request.Context(), req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, appointment)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	appointment, err := h.service.GetAppointment(c.Request.Context(), c.Param("id"))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, appointment)
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	var patch model.AppointmentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	appointment, err := h.service.UpdateAppointment(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, appointment)
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	if err := h.service.DeleteAppointment(c.Request.Context(), c.Param("id")); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.MessageResponse{Message: "Appointment deleted"})
}

func (h *Handler) ListAppointments(c *gin.Context) {
	var q model.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		handler.RespondBindError(c, err)
		return
	}

	page, err := h.service.ListAppointments(c.Request.Context(), q)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *Handler) TodayAppointments(c *gin.Context) {
	appointments, err := h.service.TodayAppointments(c.Request.Context(), handler.DoctorID(c))
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, appointments)
}
