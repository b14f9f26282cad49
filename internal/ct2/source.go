package ct2

// ModelSource identifies where the native loader reads a converted model
// from: a directory on disk or an in-memory reader for embedded assets.
type ModelSource interface{ modelSource() }

// Dir is a filesystem path to a converted model directory.
type Dir string

func (Dir) modelSource() {}

type memoryFile struct {
	name string
	data []byte
}

// MemoryReader feeds a model to the native loader from memory. Files are
// registered by name before the reader is handed to a constructor; the model
// id doubles as the loader's cache key.
type MemoryReader struct {
	modelID string
	files   []memoryFile
}

// NewMemoryReader creates an empty in-memory model source.
func NewMemoryReader(modelID string) *MemoryReader {
	return &MemoryReader{modelID: modelID}
}

// ModelID returns the identifier used by the native loader as a cache key.
func (r *MemoryReader) ModelID() string { return r.modelID }

// RegisterFile adds one named file to the model. The content is copied; the
// caller's buffer is not retained.
func (r *MemoryReader) RegisterFile(name string, content []byte) {
	r.files = append(r.files, memoryFile{
		name: name,
		data: append([]byte(nil), content...),
	})
}

func (r *MemoryReader) modelSource() {}

func validateSource(src ModelSource) error {
	switch s := src.(type) {
	case Dir:
		if s == "" {
			return invalidArgumentError{msg: "model directory is empty"}
		}
	case *MemoryReader:
		if s == nil {
			return invalidArgumentError{msg: "model reader is nil"}
		}
		if len(s.files) == 0 {
			return invalidArgumentError{msg: "model reader has no registered files"}
		}
	case nil:
		return invalidArgumentError{msg: "model source is nil"}
	default:
		return invalidArgumentError{msg: "unknown model source"}
	}
	return nil
}
