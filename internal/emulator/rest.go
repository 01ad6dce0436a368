package emulator

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// tableColumns whitelists the filterable and patchable columns per table.
// Anything outside the list is rejected, the same way row-level policies
// keep clients from touching columns they do not own.
var tableColumns = map[string]map[string]bool{
	"logs": {
		"id": true, "user_id": true, "body_part_id": true, "pain_level": true,
		"note": true, "image_url": true, "injury_id": true, "day_number": true,
		"created_at": true,
	},
	"injuries": {
		"id": true, "user_id": true, "body_part_id": true, "title": true,
		"is_active": true, "last_logged_at": true, "created_at": true,
	},
	"user_preferences": {
		"user_id": true, "store_data": true, "created_at": true, "updated_at": true,
	},
}

func (app *App) tableQuery(c *fiber.Ctx, table string) (*gorm.DB, error) {
	columns := tableColumns[table]
	query := app.database.Table(table).Where("user_id = ?", requestUserID(c))

	for key, raw := range c.Queries() {
		switch key {
		case "select":
			continue
		case "order":
			column, direction, _ := strings.Cut(raw, ".")
			if !columns[column] || (direction != "asc" && direction != "desc") {
				return nil, apiError(c, fiber.StatusBadRequest, "invalid order clause")
			}
			query = query.Order(column + " " + direction)
		default:
			value, ok := strings.CutPrefix(raw, "eq.")
			if !ok || !columns[key] {
				return nil, apiError(c, fiber.StatusBadRequest, "unsupported filter: "+key)
			}
			// Booleans arrive as the literals "true"/"false" and must not be
			// compared as text against SQLite's integer storage.
			var argument any = value
			switch value {
			case "true":
				argument = true
			case "false":
				argument = false
			}
			query = query.Where(key+" = ?", argument)
		}
	}
	return query, nil
}

func selectRows(c *fiber.Ctx, query *gorm.DB, rows any) error {
	if err := query.Find(rows).Error; err != nil {
		return apiError(c, fiber.StatusInternalServerError, "query failed")
	}
	return c.JSON(rows)
}

func (app *App) handleSelectLogs(c *fiber.Ctx) error {
	query, err := app.tableQuery(c, "logs")
	if err != nil {
		return err
	}
	return selectRows(c, query, &[]LogRow{})
}

func (app *App) handleSelectInjuries(c *fiber.Ctx) error {
	query, err := app.tableQuery(c, "injuries")
	if err != nil {
		return err
	}
	return selectRows(c, query, &[]InjuryRow{})
}

func (app *App) handleSelectPreferences(c *fiber.Ctx) error {
	query, err := app.tableQuery(c, "user_preferences")
	if err != nil {
		return err
	}
	return selectRows(c, query, &[]PreferenceRow{})
}

func (app *App) handleInsertLog(c *fiber.Ctx) error {
	row := LogRow{}
	if err := c.BodyParser(&row); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	row.ID = uuid.NewString()
	row.UserID = requestUserID(c)
	row.CreatedAt = time.Now().UTC()
	if err := app.database.Create(&row).Error; err != nil {
		return apiError(c, fiber.StatusInternalServerError, "insert log failed")
	}
	return c.Status(fiber.StatusCreated).JSON([]LogRow{row})
}

func (app *App) handleInsertInjury(c *fiber.Ctx) error {
	row := InjuryRow{}
	if err := c.BodyParser(&row); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	now := time.Now().UTC()
	row.ID = uuid.NewString()
	row.UserID = requestUserID(c)
	row.IsActive = true
	row.LastLoggedAt = now
	row.CreatedAt = now
	if err := app.database.Create(&row).Error; err != nil {
		return apiError(c, fiber.StatusInternalServerError, "insert injury failed")
	}
	return c.Status(fiber.StatusCreated).JSON([]InjuryRow{row})
}

func (app *App) handlePatch(table string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		patch := map[string]any{}
		if err := c.BodyParser(&patch); err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid request body")
		}
		columns := tableColumns[table]
		for column := range patch {
			if !columns[column] || column == "id" || column == "user_id" {
				return apiError(c, fiber.StatusBadRequest, "unsupported column: "+column)
			}
		}

		query, err := app.tableQuery(c, table)
		if err != nil {
			return err
		}
		if err := query.Updates(patch).Error; err != nil {
			return apiError(c, fiber.StatusInternalServerError, "update failed")
		}
		return c.JSON([]fiber.Map{})
	}
}

func (app *App) handleDeleteLogs(c *fiber.Ctx) error {
	query, err := app.tableQuery(c, "logs")
	if err != nil {
		return err
	}
	if err := query.Delete(&LogRow{}).Error; err != nil {
		return apiError(c, fiber.StatusInternalServerError, "delete failed")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// handleDeleteInjuries removes matching injuries and cascades to their logs,
// mirroring the foreign key cascade the hosted schema declares.
func (app *App) handleDeleteInjuries(c *fiber.Ctx) error {
	query, err := app.tableQuery(c, "injuries")
	if err != nil {
		return err
	}

	var doomed []InjuryRow
	if err := query.Find(&doomed).Error; err != nil {
		return apiError(c, fiber.StatusInternalServerError, "query failed")
	}
	for _, injury := range doomed {
		if err := app.database.Where("injury_id = ?", injury.ID).Delete(&LogRow{}).Error; err != nil {
			return apiError(c, fiber.StatusInternalServerError, "cascade delete failed")
		}
		if err := app.database.Delete(&InjuryRow{}, "id = ?", injury.ID).Error; err != nil {
			return apiError(c, fiber.StatusInternalServerError, "delete failed")
		}
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (app *App) handleDeletePreferences(c *fiber.Ctx) error {
	query, err := app.tableQuery(c, "user_preferences")
	if err != nil {
		return err
	}
	if err := query.Delete(&PreferenceRow{}).Error; err != nil {
		return apiError(c, fiber.StatusInternalServerError, "delete failed")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
