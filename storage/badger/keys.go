package badger

import (
	"encoding/binary"
	"time"
)

// Key prefixes for different data types
const (
	nodeRecordPrefix  = "nodrec"
	nodeRecencyPrefix = "nodupd"
	eventRecordPrefix = "evtrec"
	eventIDSeq        = "evtrecseq"
)

// makeNodeKey generates a key for a node record by id.
func makeNodeKey(id string) []byte {
	return []byte(nodeRecordPrefix + ":" + id)
}

// makeNodeRecencyKey generates a composite key for the recency index.
// Format: prefix:updatedAt:id
func makeNodeRecencyKey(updatedAt time.Time, id string) []byte {
	prefix := nodeRecencyPrefix + ":"
	buf := make([]byte, len(prefix)+8+len(id))
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(updatedAt.UnixMicro()))
	offset += 8
	copy(buf[offset:], id)
	return buf
}

// makePartialNodeRecencyKey generates a partial recency key for seeks.
func makePartialNodeRecencyKey(updatedAt time.Time) []byte {
	prefix := nodeRecencyPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(updatedAt.UnixMicro()))
	return buf
}

// makeEventKey generates a key for an event record by sequence id.
// Sequence ids are BigEndian so the event log iterates in insertion order.
func makeEventKey(id uint64) []byte {
	prefix := eventRecordPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], id)
	return buf
}
