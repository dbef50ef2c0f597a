package mongo

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/odyssey-erp/odyssey-admin/internal/platform/httpx"
)

// ParseID parses a hex ObjectID, reporting malformed input as a validation error.
func ParseID(hex string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(hex)
	if err != nil {
		return bson.ObjectID{}, httpx.NewError(httpx.ErrValidation, "Invalid id")
	}
	return id, nil
}

// ParseIDs parses every element of hexes, dropping duplicates.
func ParseIDs(hexes []string) ([]bson.ObjectID, error) {
	seen := make(map[bson.ObjectID]struct{}, len(hexes))
	ids := make([]bson.ObjectID, 0, len(hexes))
	for _, hex := range hexes {
		id, err := ParseID(hex)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// HexIDs converts ids to their hex form.
func HexIDs(ids []bson.ObjectID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}
