package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jwalitptl/admin-console/internal/model"
)

func (c *Client) ListPatients(ctx context.Context, q model.ListQuery) (*model.Page[model.Patient], error) {
	var page model.Page[model.Patient]
	if err := c.do(ctx, "patients.list", http.MethodGet, "/patients", listValues(q), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetPatient(ctx context.Context, id string) (*model.Patient, error) {
	var p model.Patient
	if err := c.do(ctx, "patients.get", http.MethodGet, "/patients/"+url.PathEscape(id), nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreatePatient(ctx context.Context, in model.PatientInput) (*model.Patient, error) {
	var p model.Patient
	if err := c.do(ctx, "patients.create", http.MethodPost, "/patients", nil, in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePatient sends the edit form as a partial update.
func (c *Client) UpdatePatient(ctx context.Context, id string, in model.PatientInput) (*model.Patient, error) {
	var p model.Patient
	if err := c.do(ctx, "patients.update", http.MethodPatch, "/patients/"+url.PathEscape(id), nil, in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeletePatient(ctx context.Context, id string) error {
	return c.do(ctx, "patients.delete", http.MethodDelete, "/patients/"+url.PathEscape(id), nil, nil, nil)
}
