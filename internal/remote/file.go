package remote

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/tidwall/gjson"

	"fittrack/internal/core"
)

// Export section names inside the JSON document.
const (
	sectionExercises   = "exercises"
	sectionPreferences = "preferences"
	sectionPrograms    = "programs"
	sectionSessions    = "workout_sessions"
)

// FileSource reads a fittrack JSON export. Exports may be brotli-compressed
// (".br" suffix). A missing section yields an empty result; a missing or
// unreadable file is a storage error, since silently treating it as empty
// would wipe caches on the next refresh.
type FileSource struct {
	path string
}

// NewFileSource creates a source reading from path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) FetchExercises(ctx context.Context) ([]core.Exercise, error) {
	return fetchSection[core.Exercise](s, sectionExercises)
}

func (s *FileSource) FetchPreferences(ctx context.Context) ([]core.ExercisePreference, error) {
	return fetchSection[core.ExercisePreference](s, sectionPreferences)
}

func (s *FileSource) FetchPrograms(ctx context.Context) ([]core.Program, error) {
	return fetchSection[core.Program](s, sectionPrograms)
}

func (s *FileSource) FetchSessions(ctx context.Context) ([]core.WorkoutSession, error) {
	return fetchSection[core.WorkoutSession](s, sectionSessions)
}

func fetchSection[T any](s *FileSource, section string) ([]T, error) {
	data, err := s.load()
	if err != nil {
		return nil, err
	}

	result := gjson.GetBytes(data, section)
	if !result.Exists() {
		return nil, nil
	}

	var out []T
	if err := json.Unmarshal([]byte(result.Raw), &out); err != nil {
		return nil, core.NewStorageError("remote.fetch", err)
	}
	return out, nil
}

func (s *FileSource) load() ([]byte, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, core.NewStorageError("remote.open", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(s.path, ".br") {
		r = brotli.NewReader(f)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, core.NewStorageError("remote.read", err)
	}
	return data, nil
}
