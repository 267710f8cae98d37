package collection

import (
	"fmt"
	"regexp"
	"time"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Metric is the similarity function the collection is indexed with.
type Metric string

const (
	// MetricCosine ranks by cosine similarity.
	MetricCosine Metric = "cosine"
	// MetricDotProduct ranks by inner product.
	MetricDotProduct Metric = "dot_product"
	// MetricEuclidean ranks by (squared) L2 distance.
	MetricEuclidean Metric = "euclidean"
)

// IsValid checks if the metric is supported.
func (m Metric) IsValid() bool {
	return m == MetricCosine || m == MetricDotProduct || m == MetricEuclidean
}

// Similarity converts a store distance into a score where higher means more similar.
// Cosine and IP distances are 1-sim; L2 is unbounded, so it is squashed into (0, 1].
func (m Metric) Similarity(distance float64) float64 {
	if m == MetricEuclidean {
		return 1 / (1 + distance)
	}
	return 1 - distance
}

// Collection is the named vector space all chunks live in (immutable value object).
type Collection struct {
	name      string
	dimension int
	metric    Metric
	createdAt int64
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("collection name is required")
	}
	if len(name) > 64 {
		return fmt.Errorf("collection name too long (max 64)")
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("collection name must be alphanumeric with underscores and hyphens")
	}
	return nil
}

// New validates and creates a Collection.
// Name: ^[a-zA-Z0-9_-]+$, 1-64 chars. Dimension: > 0. Metric: cosine, dot_product or euclidean.
func New(name string, dimension int, metric Metric) (Collection, error) {
	if err := validateName(name); err != nil {
		return Collection{}, err
	}
	if dimension <= 0 {
		return Collection{}, fmt.Errorf("vector dimension must be positive")
	}
	if metric == "" {
		metric = MetricCosine
	}
	if !metric.IsValid() {
		return Collection{}, fmt.Errorf("invalid metric: %q", metric)
	}

	return Collection{
		name:      name,
		dimension: dimension,
		metric:    metric,
		createdAt: time.Now().UnixMilli(),
	}, nil
}

// Reconstruct creates a Collection without validation (storage hydration).
func Reconstruct(name string, dimension int, metric Metric, createdAt int64) Collection {
	return Collection{
		name:      name,
		dimension: dimension,
		metric:    metric,
		createdAt: createdAt,
	}
}

// Name returns the collection name.
func (c Collection) Name() string { return c.name }

// Dimension returns the vector dimension every chunk must have.
func (c Collection) Dimension() int { return c.dimension }

// Metric returns the similarity metric.
func (c Collection) Metric() Metric { return c.metric }

// CreatedAt returns the creation timestamp (unix millis).
func (c Collection) CreatedAt() int64 { return c.createdAt }

// Compatible reports whether other describes the same vector space (name, dimension, metric).
func (c Collection) Compatible(other Collection) error {
	if c.dimension != other.dimension {
		return fmt.Errorf("collection %s has dimension %d, configured %d", c.name, c.dimension, other.dimension)
	}
	if c.metric != other.metric {
		return fmt.Errorf("collection %s has metric %s, configured %s", c.name, c.metric, other.metric)
	}
	return nil
}
