package usecase

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// NewOrderNumber returns the 32 hex digits of a random UUID in upper case.
func NewOrderNumber() string {
	u := uuid.New()
	return strings.ToUpper(hex.EncodeToString(u[:]))
}
