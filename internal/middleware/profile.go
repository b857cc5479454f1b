package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sitetrack/internal/dto"
	"sitetrack/internal/models"
)

const currentUserKey = "current_user"

// ProfileRequired resolves the JWT subject to an application profile and
// stores it in the request context. A valid token whose profile no longer
// exists forces a logout: all of the identity's refresh tokens are
// revoked and the request is rejected, so the client cannot stay in an
// authenticated-but-profile-less state.
func ProfileRequired(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := TokenUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				revokeAllTokens(db, userID)
				slog.Warn("profile missing for authenticated identity, forcing logout", "user_id", userID)
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
					Error: true, Message: "Profile not found, please sign in again",
				})
			}
			slog.Error("profile load failed", "user_id", userID, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Internal server error",
			})
		}

		c.Locals(currentUserKey, &user)
		return c.Next()
	}
}

// ActiveRoleRequired rejects pending-approval users. Pending profiles may
// only reach their own profile and logout.
func ActiveRoleRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil || !user.Role.Granted() {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Account pending approval",
			})
		}
		return c.Next()
	}
}

// CurrentUser returns the profile loaded by ProfileRequired, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(currentUserKey).(*models.User)
	return user
}

// TokenUserID extracts the user UUID from JWT claims in context.
func TokenUserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}

	return uuid.Parse(sub)
}

func revokeAllTokens(db *gorm.DB, userID uuid.UUID) {
	if err := db.Model(&models.RefreshToken{}).
		Where("user_id = ?", userID).
		Update("revoked", true).Error; err != nil {
		slog.Error("failed to revoke refresh tokens", "user_id", userID, "error", err)
	}
}
