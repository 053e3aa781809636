// internal/infra/supabase/rest_cycle_repository.go
package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"cyclesync/internal/domain/auth"
	"cyclesync/internal/domain/cycle"
)

const cyclesPath = "/rest/v1/cycles"

var ErrNoAccessToken = fmt.Errorf("no access token on context")

// RestCycleRepository stores cycles through the PostgREST data API. Requests
// run with the caller's access token, so the table's row policies apply.
type RestCycleRepository struct {
	client *Client
}

func NewRestCycleRepository(c *Client) *RestCycleRepository {
	return &RestCycleRepository{client: c}
}

func accessToken(ctx context.Context) (string, error) {
	s, ok := auth.SessionFromContext(ctx)
	if !ok || s.AccessToken == "" {
		return "", ErrNoAccessToken
	}
	return s.AccessToken, nil
}

func (r *RestCycleRepository) ListByUser(ctx context.Context, userID string) ([]*cycle.Cycle, error) {
	token, err := accessToken(ctx)
	if err != nil {
		return nil, err
	}

	cycles := make([]*cycle.Cycle, 0)
	err = r.client.do(ctx, request{
		method: http.MethodGet,
		path:   cyclesPath,
		query: url.Values{
			"select":  {"*"},
			"user_id": {"eq." + userID},
			"order":   {"start_date.desc"},
		},
		bearer: token,
	}, &cycles)
	if err != nil {
		return nil, err
	}
	return cycles, nil
}

func (r *RestCycleRepository) Create(ctx context.Context, c *cycle.Cycle) error {
	token, err := accessToken(ctx)
	if err != nil {
		return err
	}

	rows := []map[string]string{{
		"user_id":    c.UserID,
		"start_date": c.StartDate.String(),
	}}
	var created []*cycle.Cycle
	err = r.client.do(ctx, request{
		method:  http.MethodPost,
		path:    cyclesPath,
		bearer:  token,
		body:    rows,
		headers: map[string]string{"Prefer": "return=representation"},
	}, &created)
	if err != nil {
		return err
	}
	if len(created) == 1 {
		c.ID = created[0].ID
		c.CreatedAt = created[0].CreatedAt
	}
	return nil
}

// Ping requests the API root with the anonymous key.
func (r *RestCycleRepository) Ping(ctx context.Context) error {
	return r.client.do(ctx, request{method: http.MethodGet, path: "/rest/v1/"}, nil)
}
