package backend

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/corvusmed/painmap/internal/models"
)

const injuriesPath = "/rest/v1/injuries"

type InjuryInsert struct {
	UserID     string `json:"user_id"`
	BodyPartID string `json:"body_part_id,omitempty"`
	Title      string `json:"title"`
}

// ListInjuries returns the user's active injuries ordered by last-logged
// timestamp descending. A non-empty bodyPartID narrows to that body part.
func (client *Client) ListInjuries(ctx context.Context, userID string, bodyPartID string) ([]models.Injury, error) {
	query := url.Values{}
	query.Set("user_id", "eq."+userID)
	query.Set("is_active", "eq.true")
	query.Set("order", "last_logged_at.desc")
	if bodyPartID != "" {
		query.Set("body_part_id", "eq."+bodyPartID)
	}

	injuries := make([]models.Injury, 0)
	if err := client.do(ctx, http.MethodGet, injuriesPath, query, nil, &injuries); err != nil {
		return nil, err
	}
	return injuries, nil
}

func (client *Client) InsertInjury(ctx context.Context, insert InjuryInsert) (models.Injury, error) {
	inserted := make([]models.Injury, 0, 1)
	if err := client.do(ctx, http.MethodPost, injuriesPath, nil, insert, &inserted); err != nil {
		return models.Injury{}, err
	}
	if len(inserted) == 0 {
		return models.Injury{}, errors.New("insert injury returned no row")
	}
	return inserted[0], nil
}

func (client *Client) UpdateInjury(ctx context.Context, injuryID string, updates map[string]any) error {
	query := url.Values{}
	query.Set("id", "eq."+injuryID)
	return client.do(ctx, http.MethodPatch, injuriesPath, query, updates, nil)
}

func (client *Client) DeleteInjury(ctx context.Context, injuryID string) error {
	query := url.Values{}
	query.Set("id", "eq."+injuryID)
	return client.do(ctx, http.MethodDelete, injuriesPath, query, nil, nil)
}
