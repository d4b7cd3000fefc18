package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/qasearch/core"
)

// Key prefixes for different data types
const (
	documentPrefix        = "doc"
	documentDatePrefix    = "docdate"
	documentSubjectPrefix = "docsubj"
	documentIDSeq         = "docseq"
)

// makeDocumentKey generates a key for a document by ID.
func makeDocumentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", documentPrefix, id))
}

// documentKeyPrefix is the iteration prefix of primary document keys.
func documentKeyPrefix() []byte {
	return []byte(documentPrefix + ":")
}

// makeDocumentDateKey generates a composite key for the creation date index.
// Format: prefix:timestamp:id
func makeDocumentDateKey(timestamp time.Time, id core.ID) []byte {
	prefixBytes := documentDateKeyPrefix()
	buf := make([]byte, len(prefixBytes)+16) // 8 bytes for timestamp + 8 bytes for ID
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// documentDateKeyPrefix is the iteration prefix of the date index.
func documentDateKeyPrefix() []byte {
	return []byte(documentDatePrefix + ":")
}

// makeDocumentSubjectKey generates a composite key for the subject index.
// Format: prefix:subjectID:docID
func makeDocumentSubjectKey(subjectID, docID core.ID) []byte {
	prefixBytes := makePartialDocumentSubjectKey(subjectID)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(docID))
	return buf
}

// makePartialDocumentSubjectKey generates the prefix of one subject's index entries.
// Format: prefix:subjectID
func makePartialDocumentSubjectKey(subjectID core.ID) []byte {
	prefix := []byte(documentSubjectPrefix + ":")
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(subjectID))
	return buf
}
