package valkey

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/webrag/internal/db"
)

// Server messages differ between valkey-search and RediSearch versions.
var (
	indexExistsMsgs  = []string{"already exists"}
	indexMissingMsgs = []string{"unknown index name", "no such index", "not found"}
)

// CreateIndex creates an FT index from the given definition.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	args, err := buildCreateArgs(def)
	if err != nil {
		return err
	}

	cmd := s.b().Arbitrary("FT.CREATE").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, indexExistsMsgs...) {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	return nil
}

// IndexExists probes index existence via FT.INFO; an "unknown index" reply means absent.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(name).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, indexMissingMsgs...) {
			return false, nil
		}
		return false, &db.Error{Op: db.OpIndexInfo, Err: err}
	}
	return true, nil
}

// VectorIndexInfo reads the vector field's DIM and DISTANCE_METRIC from FT.INFO.
// valkey-search nests them under the attribute's "index" block as "dimensions",
// RediSearch lists them flat as "dim"; both are found by walking the reply.
func (s *Store) VectorIndexInfo(ctx context.Context, name string) (db.VectorIndexInfo, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(name).Build()
	msg, err := s.do(ctx, cmd).ToMessage()
	if err != nil {
		if isRedisErr(err, indexMissingMsgs...) {
			return db.VectorIndexInfo{}, db.ErrIndexNotFound
		}
		return db.VectorIndexInfo{}, &db.Error{Op: db.OpIndexInfo, Err: err}
	}

	var info db.VectorIndexInfo
	scanIndexInfo(&msg, &info)
	return info, nil
}

func scanIndexInfo(m *rueidis.RedisMessage, info *db.VectorIndexInfo) {
	if m.IsMap() {
		kv, err := m.AsMap()
		if err != nil {
			return
		}
		for k, v := range kv {
			applyInfoField(k, &v, info)
			scanIndexInfo(&v, info)
		}
		return
	}
	if !m.IsArray() {
		return
	}
	items, err := m.ToArray()
	if err != nil {
		return
	}
	for i := range items {
		if i+1 < len(items) {
			if key, err := items[i].ToString(); err == nil {
				applyInfoField(key, &items[i+1], info)
			}
		}
		scanIndexInfo(&items[i], info)
	}
}

func applyInfoField(key string, v *rueidis.RedisMessage, info *db.VectorIndexInfo) {
	switch strings.ToLower(key) {
	case "dim", "dimensions":
		if info.Dimension == 0 {
			if n, err := v.AsInt64(); err == nil {
				info.Dimension = int(n)
			}
		}
	case "distance_metric":
		if info.Distance == "" {
			if s, err := v.ToString(); err == nil {
				info.Distance = db.DistanceMetric(strings.ToUpper(s))
			}
		}
	}
}

func buildCreateArgs(idx *db.IndexDefinition) ([]string, error) {
	if err := idx.Validate(); err != nil {
		return nil, fmt.Errorf("invalid index definition: %w", err)
	}

	storage := idx.StorageType
	if storage == "" {
		storage = db.StorageHash
	}
	args := []string{idx.Name, "ON", string(storage)}

	if len(idx.Prefixes) > 0 {
		args = append(args, "PREFIX", strconv.Itoa(len(idx.Prefixes)))
		args = append(args, idx.Prefixes...)
	}

	args = append(args, "SCHEMA")

	for i := range idx.Fields {
		fieldArgs, err := buildFieldArgs(&idx.Fields[i])
		if err != nil {
			return nil, err
		}
		args = append(args, fieldArgs...)
	}

	return args, nil
}

func buildFieldArgs(f *db.IndexField) ([]string, error) {
	if f.Name == "" {
		return nil, errors.New("field name is required")
	}

	args := []string{f.Name}
	if f.Alias != "" {
		args = append(args, "AS", f.Alias)
	}

	switch f.Type {
	case db.IndexFieldNumeric:
		args = append(args, "NUMERIC")
	case db.IndexFieldTag:
		args = append(args, "TAG")
	case db.IndexFieldVector:
		vectorArgs, err := buildVectorFieldArgs(f)
		if err != nil {
			return nil, err
		}
		args = append(args, vectorArgs...)
	default:
		return nil, errors.New("unknown field type")
	}

	return args, nil
}

func buildVectorFieldArgs(f *db.IndexField) ([]string, error) {
	if f.VectorDim <= 0 {
		return nil, errors.New("vector DIM must be positive")
	}

	algo := f.VectorAlgo
	if algo == "" {
		algo = db.VectorHNSW
	}
	distance := f.VectorDistance
	if distance == "" {
		distance = db.DistanceCosine
	}

	attrs := []string{
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(f.VectorDim),
		"DISTANCE_METRIC", string(distance),
	}
	if algo == db.VectorHNSW {
		if f.VectorM > 0 {
			attrs = append(attrs, "M", strconv.Itoa(f.VectorM))
		}
		if f.VectorEFConstruct > 0 {
			attrs = append(attrs, "EF_CONSTRUCTION", strconv.Itoa(f.VectorEFConstruct))
		}
	}

	out := make([]string, 0, 3+len(attrs))
	out = append(out, "VECTOR", string(algo), strconv.Itoa(len(attrs)))
	return append(out, attrs...), nil
}
