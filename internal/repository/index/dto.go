package index

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/kailas-cloud/ragdesk/internal/db"
	"github.com/kailas-cloud/ragdesk/internal/domain/chunk"
	"github.com/kailas-cloud/ragdesk/internal/domain/corpus"
	"github.com/kailas-cloud/ragdesk/internal/domain/domainname"
)

// Chunk hash fields.
const (
	fieldContent  = "__content"
	fieldVector   = "__vector"
	fieldDomain   = "domain"
	fieldDocIndex = "doc_index"
	fieldStart    = "start"
	fieldEnd      = "end"

	metaDomain     = "domain"
	metaDimensions = "dimensions"
	metaCreatedAt  = "created_at"
)

// buildIndex defines the per-domain FT index: HNSW cosine over __vector (aliased "vector").
func buildIndex(k keys, d domainname.Name, dims int, hnsw HNSWConfig) (*db.IndexDefinition, error) {
	return db.NewIndex(k.index(d)).
		Prefix(k.chunkPrefix(d)).
		Tag(fieldDomain).
		Numeric(fieldDocIndex).
		VectorHNSW(fieldVector, dims, db.DistanceCosine, hnsw.M, hnsw.EFConstruct).As("vector").
		Build()
}

func recordToHash(rec *chunk.Record) map[string]string {
	return map[string]string{
		fieldContent:  rec.Piece.Content,
		fieldVector:   vectorToBytes(rec.Vector),
		fieldDomain:   rec.Domain.String(),
		fieldDocIndex: strconv.Itoa(rec.Piece.DocIndex),
		fieldStart:    strconv.Itoa(rec.Piece.Start),
		fieldEnd:      strconv.Itoa(rec.Piece.End),
	}
}

func metaToHash(h corpus.Index) map[string]string {
	return map[string]string{
		metaDomain:     h.Domain.String(),
		metaDimensions: strconv.Itoa(h.Dimensions),
		metaCreatedAt:  strconv.FormatInt(h.CreatedAt, 10),
	}
}

// vectorToBytes encodes a float32 vector as the little-endian blob FT indexes expect.
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
