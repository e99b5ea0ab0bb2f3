package utils

import (
	"github.com/google/uuid"
)

// GenerateID returns a random v4 UUID. Users, items, auctions, bids and
// session tokens all draw from it.
func GenerateID() string {
	return uuid.NewString()
}
