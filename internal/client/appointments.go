package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jwalitptl/admin-console/internal/model"
)

func (c *Client) ListAppointments(ctx context.Context, q model.ListQuery) (*model.Page[model.Appointment], error) {
	var page model.Page[model.Appointment]
	if err := c.do(ctx, "appointments.list", http.MethodGet, "/appointments", listValues(q), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// TodayAppointments lists the signed-in doctor's appointments for today.
func (c *Client) TodayAppointments(ctx context.Context) ([]model.Appointment, error) {
	var list []model.Appointment
	if err := c.do(ctx, "appointments.today", http.MethodGet, "/appointments/today", nil, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) GetAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	var a model.Appointment
	if err := c.do(ctx, "appointments.get", http.MethodGet, "/appointments/"+url.PathEscape(id), nil, nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) CreateAppointment(ctx context.Context, in model.AppointmentInput) (*model.Appointment, error) {
	var a model.Appointment
	if err := c.do(ctx, "appointments.create", http.MethodPost, "/appointments", nil, in, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) UpdateAppointment(ctx context.Context, id string, patch model.AppointmentPatch) (*model.Appointment, error) {
	var a model.Appointment
	if err := c.do(ctx, "appointments.update", http.MethodPatch, "/appointments/"+url.PathEscape(id), nil, patch, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) DeleteAppointment(ctx context.Context, id string) error {
	return c.do(ctx, "appointments.delete", http.MethodDelete, "/appointments/"+url.PathEscape(id), nil, nil, nil)
}

// listValues encodes a list query, leaving out empty filters.
func listValues(q model.ListQuery) url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set("search", q.Search)
	set("status", q.Status)
	set("date", q.Date)
	set("doctorId", q.DoctorID)
	set("patientId", q.PatientID)
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}
