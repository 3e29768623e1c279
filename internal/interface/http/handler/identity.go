package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/wichananm65/shop-backend/internal/domain/entity"
)

const (
	ClaimUserID = "user_id"
	ClaimRole   = "role"
)

// IdentityFromCtx reads the caller from the token the jwt middleware stored
// under "user". A missing role claim means a regular user.
func IdentityFromCtx(c *fiber.Ctx) (entity.Identity, error) {
	tok, ok := c.Locals("user").(*jwt.Token)
	if !ok || tok == nil {
		return entity.Identity{}, entity.ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return entity.Identity{}, entity.ErrUnauthorized
	}

	var userID int64
	switch v := claims[ClaimUserID].(type) {
	case float64:
		userID = int64(v)
	case int:
		userID = int64(v)
	case int64:
		userID = v
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return entity.Identity{}, entity.ErrUnauthorized
		}
		userID = id
	default:
		return entity.Identity{}, entity.ErrUnauthorized
	}
	if userID <= 0 {
		return entity.Identity{}, entity.ErrUnauthorized
	}

	role, _ := claims[ClaimRole].(string)
	return entity.Identity{UserID: userID, Role: entity.ParseRole(role)}, nil
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, &entity.ValidationError{Field: name, Message: "must be a positive integer"}
	}
	return id, nil
}
