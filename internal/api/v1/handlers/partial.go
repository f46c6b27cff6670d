package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
)

// bodyHasKey reports whether the raw JSON body carries the key at all.
// Partial updates treat an absent key and an explicit null differently:
// absent leaves the column untouched, null clears it.
func bodyHasKey(c *fiber.Ctx, key string) bool {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &keys); err != nil {
		return false
	}
	_, ok := keys[key]
	return ok
}
