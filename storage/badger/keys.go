package badger

import (
	"encoding/binary"
	"strings"

	"github.com/poiesic/switchboard/core"
)

// Key prefixes for different data types
const (
	chunkPrefix      = "chunk:"
	chunkTitlePrefix = "chunkt:"
	chunkIDSeq       = "chunkseq"
)

// makeChunkKey generates a key for a chunk by ID.
// IDs are written BigEndian so prefix iteration follows insertion order.
func makeChunkKey(id core.ID) []byte {
	buf := make([]byte, len(chunkPrefix)+8)
	offset := copy(buf, chunkPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeChunkTitleKey generates the title index key.
// Format: prefix:hash(title)
func makeChunkTitleKey(title string) []byte {
	buf := make([]byte, len(chunkTitlePrefix)+8)
	offset := copy(buf, chunkTitlePrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(core.IDFromContent(strings.TrimSpace(title))))
	return buf
}

func encodeID(id core.ID) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(id))
	return buf
}

func decodeID(data []byte) core.ID {
	if len(data) != 8 {
		return 0
	}
	return core.ID(binary.BigEndian.Uint64(data))
}
