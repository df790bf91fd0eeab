package docmodel

import "time"

// DocumentSnapshot is a point-in-time capture of a document: its
// Structure, the Annotations extracted from it, and a content
// checksum used by rollback verification.
type DocumentSnapshot struct {
	Timestamp    time.Time
	DocumentPath string
	Structure    Structure
	Annotations  []Annotation
	Checksum     string
}
