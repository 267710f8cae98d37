package db

import (
	"strings"
	"testing"
)

func TestIndexBuilder_ChunkSchema(t *testing.T) {
	idx := NewIndex("webrag:kb:idx").
		Prefix("webrag:kb:").
		Tag("source_url").
		Numeric("inserted_at").
		VectorHNSW("__vector", "vector", 768, DistanceIP, 16, 200).
		MustBuild()

	if idx.StorageType != StorageHash {
		t.Errorf("storage = %q, want HASH", idx.StorageType)
	}
	if len(idx.Prefixes) != 1 || idx.Prefixes[0] != "webrag:kb:" {
		t.Errorf("prefixes = %v", idx.Prefixes)
	}
	if len(idx.Fields) != 3 {
		t.Fatalf("fields count = %d, want 3", len(idx.Fields))
	}
	if idx.Fields[0].Type != IndexFieldTag || idx.Fields[1].Type != IndexFieldNumeric {
		t.Errorf("unexpected field types: %+v", idx.Fields[:2])
	}
	v := idx.Fields[2]
	if v.VectorAlgo != VectorHNSW || v.VectorDim != 768 || v.VectorDistance != DistanceIP {
		t.Errorf("vector field = %+v", v)
	}
	if v.Alias != "vector" || v.VectorM != 16 || v.VectorEFConstruct != 200 {
		t.Errorf("vector options = %+v", v)
	}
}

func TestIndexBuilder_VectorFlat(t *testing.T) {
	idx := NewIndex("flat-idx").
		VectorFlat("__vector", "vector", 3, DistanceL2).
		MustBuild()

	if idx.Fields[0].VectorAlgo != VectorFlat {
		t.Errorf("algo = %q, want FLAT", idx.Fields[0].VectorAlgo)
	}
}

func TestIndexDefinition_Validate(t *testing.T) {
	tests := []struct {
		name string
		b    *IndexBuilder
	}{
		{"empty name", NewIndex("").Tag("a")},
		{"bad name", NewIndex("bad name").Tag("a")},
		{"no fields", NewIndex("idx")},
		{"duplicate", NewIndex("idx").Tag("a").Numeric("a")},
		{"alias clash", NewIndex("idx").Tag("vector").VectorFlat("__vector", "vector", 3, DistanceL2)},
		{"zero dim", NewIndex("idx").VectorFlat("__vector", "vector", 0, DistanceL2)},
		{"no vector", NewIndex("idx").Tag("source_url")},
		{"two vectors", NewIndex("idx").
			VectorFlat("a", "", 3, DistanceL2).
			VectorFlat("b", "", 3, DistanceL2)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.b.Build(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestIndexDefinition_ValidateReportsAll(t *testing.T) {
	_, err := NewIndex("bad name").Tag("a").Numeric("a").Build()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"invalid characters", "duplicate field", "exactly one vector"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestIsValidIdentifier(t *testing.T) {
	if !IsValidIdentifier("webrag:kb-1_x:idx") {
		t.Error("expected valid")
	}
	if IsValidIdentifier("") || IsValidIdentifier("a b") || IsValidIdentifier("a*") {
		t.Error("expected invalid")
	}
}
