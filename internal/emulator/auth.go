package emulator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const accessTokenTTL = 24 * time.Hour

type authClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type credentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (app *App) handleSignup(c *fiber.Ctx) error {
	payload := credentialsPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	if email == "" || payload.Password == "" {
		return apiError(c, fiber.StatusBadRequest, "email and password are required")
	}

	var existing int64
	if err := app.database.Model(&User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return apiError(c, fiber.StatusInternalServerError, "lookup user failed")
	}
	if existing > 0 {
		return apiError(c, fiber.StatusConflict, "user already registered")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "hash password failed")
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(passwordHash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := app.database.Create(&user).Error; err != nil {
		return apiError(c, fiber.StatusInternalServerError, "create user failed")
	}

	// New accounts start with the default preference row, as the hosted
	// backend does via a signup trigger.
	preference := PreferenceRow{
		UserID:    user.ID,
		StoreData: true,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.CreatedAt,
	}
	if err := app.database.Create(&preference).Error; err != nil {
		return apiError(c, fiber.StatusInternalServerError, "create preferences failed")
	}

	return app.sendToken(c, user)
}

func (app *App) handleToken(c *fiber.Ctx) error {
	if c.Query("grant_type") != "password" {
		return apiError(c, fiber.StatusBadRequest, "unsupported grant type")
	}

	payload := credentialsPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}
	email := strings.ToLower(strings.TrimSpace(payload.Email))

	var user User
	if err := app.database.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError(c, fiber.StatusBadRequest, "invalid login credentials")
		}
		return apiError(c, fiber.StatusInternalServerError, "lookup user failed")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)) != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid login credentials")
	}

	return app.sendToken(c, user)
}

func (app *App) handleLogout(c *fiber.Ctx) error {
	// Tokens are stateless here; revocation is the hosted service's job.
	return c.SendStatus(fiber.StatusNoContent)
}

func (app *App) sendToken(c *fiber.Ctx, user User) error {
	now := time.Now()
	claims := authClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(app.secretKey)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "sign token failed")
	}

	return c.JSON(fiber.Map{
		"access_token": signed,
		"token_type":   "bearer",
		"expires_in":   int(accessTokenTTL.Seconds()),
	})
}

// authRequired validates the bearer token and stashes the caller's user id,
// which every table handler uses to scope rows owner-only.
func (app *App) authRequired(c *fiber.Ctx) error {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	tokenValue, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenValue == "" {
		return apiError(c, fiber.StatusUnauthorized, "missing bearer token")
	}

	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenValue, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return app.secretKey, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return apiError(c, fiber.StatusUnauthorized, "invalid token")
	}

	c.Locals(userIDKey, claims.Subject)
	return c.Next()
}

const userIDKey = "user_id"

func requestUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals(userIDKey).(string)
	return userID
}

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"message": message})
}
