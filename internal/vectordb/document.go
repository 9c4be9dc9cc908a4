package vectordb

import "strconv"

// Document is one indexed file's entry in the vector index. ID is the
// file's root-relative path.
type Document struct {
	ID        string
	Content   string
	Embedding []float32
	Metadata  Metadata
}

// Metadata is the structured metadata stored alongside each document.
type Metadata struct {
	RelPath string
	ModTime float64
}

// Result pairs a document with its similarity to a query vector.
type Result struct {
	Document   Document
	Similarity float32
}

// metadataToMap flattens Metadata into the map[string]string chromem stores.
func metadataToMap(m Metadata) map[string]string {
	return map[string]string{
		"rel_path": m.RelPath,
		"mod_time": strconv.FormatFloat(m.ModTime, 'f', -1, 64),
	}
}

// mapToMetadata reverses metadataToMap.
func mapToMetadata(m map[string]string) Metadata {
	modTime, _ := strconv.ParseFloat(m["mod_time"], 64)
	return Metadata{
		RelPath: m["rel_path"],
		ModTime: modTime,
	}
}
