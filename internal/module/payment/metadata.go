package payment

import (
	"encoding/json"
	"fmt"
)

// System metadata keys attached to every payment intent. Caller-supplied
// keys that collide with these are prefixed rather than dropped.
const (
	metaKeyUserID        = "user_id"
	metaKeyReservationID = "reservation_id"
	metaKeyPackageName   = "package_name"
	metaKeyHotelName     = "hotel_name"

	clientMetaPrefix = "client_"
)

var systemMetaKeys = map[string]struct{}{
	metaKeyUserID:        {},
	metaKeyReservationID: {},
	metaKeyPackageName:   {},
	metaKeyHotelName:     {},
}

// mergeMetadata combines system metadata with caller-supplied entries.
// Caller keys colliding with system keys are stored under a client
// prefix so both values survive the round trip.
func mergeMetadata(system, client map[string]string) map[string]string {
	merged := make(map[string]string, len(system)+len(client))
	for k, v := range system {
		merged[k] = v
	}
	for k, v := range client {
		if _, reserved := systemMetaKeys[k]; reserved {
			merged[clientMetaPrefix+k] = v
			continue
		}
		merged[k] = v
	}
	return merged
}

// serializeMetadata encodes a metadata map for storage on the payment row.
func serializeMetadata(m map[string]string) (string, error) {
	if len(m) == 0 {
		return "", nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}
	return string(raw), nil
}

// parseMetadata decodes a stored metadata blob. A malformed blob is an
// explicit error, not an empty map.
func parseMetadata(raw string) (map[string]string, error) {
	if raw == "" {
		return map[string]string{}, nil
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMetadata, err)
	}
	return m, nil
}
