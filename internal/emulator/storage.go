package emulator

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func objectCoordinates(c *fiber.Ctx) (bucket, key string, err error) {
	bucket = c.Params("bucket")
	key = strings.Trim(c.Params("*"), "/")
	if bucket == "" || key == "" {
		return "", "", apiError(c, fiber.StatusBadRequest, "bucket and object key are required")
	}
	return bucket, key, nil
}

func (app *App) handleUploadObject(c *fiber.Ctx) error {
	bucket, key, err := objectCoordinates(c)
	if err != nil {
		return err
	}
	content := c.Body()
	if len(content) == 0 {
		return apiError(c, fiber.StatusBadRequest, "empty object body")
	}

	object := ObjectRow{
		Bucket:      bucket,
		Key:         key,
		ContentType: c.Get(fiber.HeaderContentType),
		Content:     append([]byte(nil), content...),
		CreatedAt:   time.Now().UTC(),
	}
	err = app.database.Where("bucket = ? AND key = ?", bucket, key).Delete(&ObjectRow{}).Error
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "replace object failed")
	}
	if err := app.database.Create(&object).Error; err != nil {
		return apiError(c, fiber.StatusInternalServerError, "store object failed")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"Key": bucket + "/" + key})
}

func (app *App) handleDeleteObject(c *fiber.Ctx) error {
	bucket, key, err := objectCoordinates(c)
	if err != nil {
		return err
	}
	result := app.database.Where("bucket = ? AND key = ?", bucket, key).Delete(&ObjectRow{})
	if result.Error != nil {
		return apiError(c, fiber.StatusInternalServerError, "delete object failed")
	}
	if result.RowsAffected == 0 {
		return apiError(c, fiber.StatusNotFound, "object not found")
	}
	return c.SendStatus(fiber.StatusOK)
}

// handlePublicObject serves object content without authentication, the way
// public buckets expose their files.
func (app *App) handlePublicObject(c *fiber.Ctx) error {
	bucket, key, err := objectCoordinates(c)
	if err != nil {
		return err
	}

	var object ObjectRow
	err = app.database.Where("bucket = ? AND key = ?", bucket, key).First(&object).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError(c, fiber.StatusNotFound, "object not found")
		}
		return apiError(c, fiber.StatusInternalServerError, "load object failed")
	}

	if object.ContentType != "" {
		c.Set(fiber.HeaderContentType, object.ContentType)
	}
	return c.Send(object.Content)
}
