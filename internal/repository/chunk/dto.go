package chunk

import (
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/webrag/internal/db"
	domchunk "github.com/kailas-cloud/webrag/internal/domain/chunk"
	domcol "github.com/kailas-cloud/webrag/internal/domain/collection"
	colrepo "github.com/kailas-cloud/webrag/internal/repository/collection"
)

// returnFields are fetched for every hit; the vector itself is left on the server.
var returnFields = []string{
	colrepo.FieldText,
	colrepo.FieldSourceURL,
	colrepo.FieldChunkIndex,
	colrepo.FieldInsertedAt,
}

// chunkToHash converts a domain Chunk to HSET fields. inserted_at is unix millis so it can be range-filtered.
func chunkToHash(c domchunk.Chunk) map[string]string {
	return map[string]string{
		colrepo.FieldText:       c.Text(),
		colrepo.FieldSourceURL:  c.SourceURL(),
		colrepo.FieldChunkIndex: strconv.Itoa(c.Index()),
		colrepo.FieldInsertedAt: strconv.FormatInt(c.InsertedAt().UnixMilli(), 10),
		colrepo.FieldVector:     db.EncodeVector(c.Vector()),
	}
}

// chunkFromEntry hydrates a search hit. Unparsable numeric fields fall back to zero values.
func chunkFromEntry(entry db.SearchEntry, prefix string, metric domcol.Metric) domchunk.Chunk {
	id := strings.TrimPrefix(entry.Key, prefix)
	index, _ := strconv.Atoi(entry.Fields[colrepo.FieldChunkIndex])

	var insertedAt time.Time
	if ms, err := strconv.ParseInt(entry.Fields[colrepo.FieldInsertedAt], 10, 64); err == nil {
		insertedAt = time.UnixMilli(ms).UTC()
	}

	return domchunk.Reconstruct(
		id,
		entry.Fields[colrepo.FieldText],
		entry.Fields[colrepo.FieldSourceURL],
		index,
		nil,
		insertedAt,
		metric.Similarity(entry.Distance),
	)
}
