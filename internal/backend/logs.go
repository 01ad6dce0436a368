package backend

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/corvusmed/painmap/internal/models"
)

const logsPath = "/rest/v1/logs"

// LogInsert is the writable subset of a pain log row. Optional fields are
// omitted from the payload so the backend fills its defaults.
type LogInsert struct {
	UserID     string `json:"user_id"`
	BodyPartID string `json:"body_part_id,omitempty"`
	PainLevel  int    `json:"pain_level"`
	Note       string `json:"note"`
	ImageURL   string `json:"image_url,omitempty"`
	InjuryID   string `json:"injury_id"`
	DayNumber  int    `json:"day_number"`
}

// ListLogsByInjury returns an injury's logs ordered by day number ascending.
func (client *Client) ListLogsByInjury(ctx context.Context, injuryID string) ([]models.PainLog, error) {
	query := url.Values{}
	query.Set("injury_id", "eq."+injuryID)
	query.Set("order", "day_number.asc")

	logs := make([]models.PainLog, 0)
	if err := client.do(ctx, http.MethodGet, logsPath, query, nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (client *Client) CountLogsByInjury(ctx context.Context, injuryID string) (int, error) {
	query := url.Values{}
	query.Set("injury_id", "eq."+injuryID)
	query.Set("select", "id")

	rows := make([]struct {
		ID string `json:"id"`
	}, 0)
	if err := client.do(ctx, http.MethodGet, logsPath, query, nil, &rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (client *Client) InsertLog(ctx context.Context, insert LogInsert) (models.PainLog, error) {
	inserted := make([]models.PainLog, 0, 1)
	if err := client.do(ctx, http.MethodPost, logsPath, nil, insert, &inserted); err != nil {
		return models.PainLog{}, err
	}
	if len(inserted) == 0 {
		return models.PainLog{}, errors.New("insert log returned no row")
	}
	return inserted[0], nil
}

// UpdateLog patches the given columns of one log row. A nil map value writes
// SQL NULL, which is how a removed image is recorded.
func (client *Client) UpdateLog(ctx context.Context, logID string, updates map[string]any) error {
	query := url.Values{}
	query.Set("id", "eq."+logID)
	return client.do(ctx, http.MethodPatch, logsPath, query, updates, nil)
}

func (client *Client) DeleteLog(ctx context.Context, logID string) error {
	query := url.Values{}
	query.Set("id", "eq."+logID)
	return client.do(ctx, http.MethodDelete, logsPath, query, nil, nil)
}

// DeleteLogsByUser removes every log row owned by the user.
func (client *Client) DeleteLogsByUser(ctx context.Context, userID string) error {
	query := url.Values{}
	query.Set("user_id", "eq."+userID)
	return client.do(ctx, http.MethodDelete, logsPath, query, nil, nil)
}
