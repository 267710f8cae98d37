package collection

import (
	"fmt"
	"strconv"

	domcol "github.com/kailas-cloud/webrag/internal/domain/collection"
)

// collectionToHash converts a domain Collection to a map for HSET.
func collectionToHash(col domcol.Collection) map[string]string {
	return map[string]string{
		"name":       col.Name(),
		"dimension":  strconv.Itoa(col.Dimension()),
		"metric":     string(col.Metric()),
		"created_at": strconv.FormatInt(col.CreatedAt(), 10),
	}
}

// collectionFromHash hydrates a domain Collection from an HGETALL result map.
func collectionFromHash(m map[string]string) (domcol.Collection, error) {
	dim, err := strconv.Atoi(m["dimension"])
	if err != nil {
		return domcol.Collection{}, fmt.Errorf("invalid dimension: %w", err)
	}
	createdAt, err := strconv.ParseInt(m["created_at"], 10, 64)
	if err != nil {
		return domcol.Collection{}, fmt.Errorf("invalid created_at: %w", err)
	}
	metric := domcol.Metric(m["metric"])
	if !metric.IsValid() {
		return domcol.Collection{}, fmt.Errorf("invalid metric %q", metric)
	}
	return domcol.Reconstruct(m["name"], dim, metric, createdAt), nil
}
