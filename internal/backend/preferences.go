package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/corvusmed/painmap/internal/models"
)

const preferencesPath = "/rest/v1/user_preferences"

// FetchPreference loads the user's preference row. The second return is false
// when no row exists yet; callers fall back to the defaults.
func (client *Client) FetchPreference(ctx context.Context, userID string) (models.UserPreference, bool, error) {
	query := url.Values{}
	query.Set("user_id", "eq."+userID)

	rows := make([]models.UserPreference, 0, 1)
	if err := client.do(ctx, http.MethodGet, preferencesPath, query, nil, &rows); err != nil {
		return models.UserPreference{}, false, err
	}
	if len(rows) == 0 {
		return models.UserPreference{}, false, nil
	}
	return rows[0], true, nil
}

func (client *Client) UpdatePreference(ctx context.Context, userID string, updates map[string]any) error {
	query := url.Values{}
	query.Set("user_id", "eq."+userID)
	return client.do(ctx, http.MethodPatch, preferencesPath, query, updates, nil)
}

func (client *Client) DeletePreference(ctx context.Context, userID string) error {
	query := url.Values{}
	query.Set("user_id", "eq."+userID)
	return client.do(ctx, http.MethodDelete, preferencesPath, query, nil, nil)
}
