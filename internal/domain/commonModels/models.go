package commonModels

import "time"

type Document struct {
	Id                  string    `json:"source_doc_id"`
	Name                string    `json:"doc_name"`
	Path                string    `json:"path"`
	Text                string    `json:"-"`
	PageCount           int       `json:"page_count"`
	LastIngestTimestamp time.Time `json:"ingested_at"`
	ContentType         DocType   `json:"contentType"`
}

// Chunk is one passage of a document. SequenceIndex is its position in the chunk sequence.
type Chunk struct {
	SequenceIndex int    `json:"sequence_index"`
	Text          string `json:"content"`
}

type DocType string

var PDF DocType = "PDF"
var ERR DocType = "ERROR"
