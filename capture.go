package brushwork

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// CaptureSink receives the exact outgoing payload and incoming body of a
// generation call for offline diagnosis. The storage medium is entirely
// the sink's concern; a failing sink never fails the generation.
type CaptureSink interface {
	SavePayload(data []byte) error
	SaveResponse(data []byte) error
}

// DirSink is a ready-made CaptureSink that writes each artifact to its own
// file under a directory, named by timestamp and a short random id.
type DirSink struct {
	Dir string
}

// NewDirSink creates a DirSink rooted at dir, creating it if needed.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create capture dir: %w", err)
	}
	return &DirSink{Dir: dir}, nil
}

// SavePayload writes the raw outgoing request payload.
func (s *DirSink) SavePayload(data []byte) error {
	return s.write("payload", data)
}

// SaveResponse writes the raw incoming response body.
func (s *DirSink) SaveResponse(data []byte) error {
	return s.write("response", data)
}

func (s *DirSink) write(kind string, data []byte) error {
	name := fmt.Sprintf("%s_%s_%s.json",
		time.Now().Format("20060102-150405"), uuid.NewString()[:8], kind)
	return os.WriteFile(filepath.Join(s.Dir, name), data, 0o644)
}
