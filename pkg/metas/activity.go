package metas

import (
	"context"
	"fmt"
	"net/http"
)

// GetPrograms lists the programs, with their areas, visible to the caller for a year.
func (c *Client) GetPrograms(ctx context.Context, year int) ([]Program, error) {
	programs := []Program{}
	if err := c.get(ctx, fmt.Sprintf("/programas/%d", year), "programas", &programs); err != nil {
		return nil, err
	}
	return programs, nil
}

// GetAreaActivities lists the activities planned by an area for a year.
func (c *Client) GetAreaActivities(ctx context.Context, areaID, year int) ([]ActivityItem, error) {
	items := []ActivityItem{}
	path := fmt.Sprintf("/areas/%d/actividades/%d", areaID, year)
	if err := c.get(ctx, path, "area_actividades", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetActivity fetches the full planning record of one activity.
func (c *Client) GetActivity(ctx context.Context, id int) (*Activity, error) {
	var activity Activity
	if err := c.get(ctx, fmt.Sprintf("/actividad/%d", id), "actividad", &activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

func (c *Client) CreateActivity(ctx context.Context, activity NewActivity) error {
	activity.ID = 0
	return c.do(ctx, http.MethodPost, "/actividad", "actividad", activity, nil)
}

func (c *Client) SaveActivity(ctx context.Context, activity *Activity) error {
	return c.do(ctx, http.MethodPut, "/actividad", "actividad", activity, nil)
}

// CancelActivity suspends an activity with the given reason.
func (c *Client) CancelActivity(ctx context.Context, id int, reason string) error {
	body := struct {
		ID     int    `json:"idActividad"`
		Reason string `json:"motivoCancel"`
	}{ID: id, Reason: reason}
	return c.do(ctx, http.MethodPut, "/actividad/cancel", "actividad_cancel", body, nil)
}

// RestoreActivity lifts the suspension of an activity.
func (c *Client) RestoreActivity(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodPut, "/actividad/restore", "actividad_restore", activityRef{ID: id}, nil)
}

func (c *Client) DeleteActivity(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/actividad", "actividad", activityRef{ID: id}, nil)
}

type activityRef struct {
	ID int `json:"idActividad"`
}
