package db

import (
	"errors"
	"fmt"
)

// StorageType defines the document storage backend for FT indexes.
type StorageType string

// StorageHash stores chunks as hashes; the only layout valkey-search and RediSearch share for vectors.
const StorageHash StorageType = "HASH"

// DistanceMetric is the DISTANCE_METRIC attribute of a VECTOR field.
type DistanceMetric string

// Distance metrics understood by both search modules.
const (
	DistanceL2     DistanceMetric = "L2"
	DistanceIP     DistanceMetric = "IP"
	DistanceCosine DistanceMetric = "COSINE"
)

// VectorAlgorithm selects the indexing algorithm for vector fields in FT.CREATE.
type VectorAlgorithm string

const (
	// VectorHNSW is approximate nearest neighbour search.
	VectorHNSW VectorAlgorithm = "HNSW"
	// VectorFlat is exact brute-force search; fine for small knowledge bases.
	VectorFlat VectorAlgorithm = "FLAT"
)

// IndexFieldType enumerates the FT field types a chunk index uses.
type IndexFieldType int

const (
	IndexFieldNumeric IndexFieldType = iota
	IndexFieldTag
	IndexFieldVector
)

// IndexField describes a single field in an FT index schema.
type IndexField struct {
	Name  string
	Alias string // AS alias in FT.CREATE SCHEMA
	Type  IndexFieldType

	VectorAlgo        VectorAlgorithm
	VectorDim         int
	VectorDistance    DistanceMetric
	VectorM           int // HNSW only
	VectorEFConstruct int // HNSW only
}

// queryName is how the field is referenced from a query.
func (f *IndexField) queryName() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

// IndexDefinition is a complete FT index definition used by FT.CREATE.
type IndexDefinition struct {
	Name        string
	StorageType StorageType
	Prefixes    []string
	Fields      []IndexField
}

// Validate reports every problem with the definition at once.
// A chunk index carries exactly one vector field with a positive dimension.
func (idx *IndexDefinition) Validate() error {
	var errs []error
	switch {
	case idx.Name == "":
		errs = append(errs, errors.New("index name is required"))
	case !IsValidIdentifier(idx.Name):
		errs = append(errs, fmt.Errorf("index name %q contains invalid characters", idx.Name))
	}

	seen := make(map[string]struct{}, len(idx.Fields))
	vectors := 0
	for i := range idx.Fields {
		f := &idx.Fields[i]
		if f.Name == "" {
			errs = append(errs, fmt.Errorf("field %d: name is required", i))
			continue
		}
		key := f.queryName()
		if _, dup := seen[key]; dup {
			errs = append(errs, fmt.Errorf("duplicate field name %q", key))
		}
		seen[key] = struct{}{}

		if f.Type == IndexFieldVector {
			vectors++
			if f.VectorDim <= 0 {
				errs = append(errs, fmt.Errorf("vector field %q: dimension must be positive, got %d", key, f.VectorDim))
			}
		}
	}
	if vectors != 1 {
		errs = append(errs, fmt.Errorf("exactly one vector field is required, got %d", vectors))
	}

	return errors.Join(errs...)
}

// VectorIndexInfo is what FT.INFO reports about an existing index's vector field.
// Zero values mean the server reply did not carry the attribute.
type VectorIndexInfo struct {
	Dimension int
	Distance  DistanceMetric
}

// IsValidIdentifier returns true if s matches [a-zA-Z0-9_:-]+.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_' || r == ':' || r == '-':
		default:
			return false
		}
	}
	return true
}
