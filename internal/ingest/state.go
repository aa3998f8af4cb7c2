package ingest

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// StateFile is written next to the index after every successful build.
const StateFile = "state.json"

// State records what the current index was built from.
type State struct {
	EmbeddingModel string            `json:"embedding_model"`
	ChunkSize      int               `json:"chunk_size"`
	ChunkOverlap   int               `json:"chunk_overlap"`
	FileHashes     map[string]string `json:"file_hashes"`
	WebURL         string            `json:"web_url,omitempty"`
	VideoURL       string            `json:"video_url,omitempty"`
	Records        int               `json:"records"`
	LastUpdated    time.Time         `json:"last_updated"`
}

// LoadState reads the state stored in indexDir. A missing file yields an
// empty State.
func LoadState(indexDir string) (*State, error) {
	data, err := os.ReadFile(filepath.Join(indexDir, StateFile))
	if errors.Is(err, fs.ErrNotExist) {
		return &State{FileHashes: make(map[string]string)}, nil
	}
	if err != nil {
		return nil, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	if state.FileHashes == nil {
		state.FileHashes = make(map[string]string)
	}
	return &state, nil
}

// Save writes the state into indexDir.
func (s *State) Save(indexDir string) error {
	if err := os.MkdirAll(indexDir, 0o755); err != nil {
		return err
	}
	s.LastUpdated = time.Now().UTC()
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(indexDir, StateFile), data, 0o644)
}

// Matches reports whether s describes the same inputs and settings as other.
func (s *State) Matches(other *State) bool {
	if s.EmbeddingModel != other.EmbeddingModel ||
		s.ChunkSize != other.ChunkSize ||
		s.ChunkOverlap != other.ChunkOverlap ||
		s.WebURL != other.WebURL ||
		s.VideoURL != other.VideoURL ||
		len(s.FileHashes) != len(other.FileHashes) {
		return false
	}
	for path, hash := range s.FileHashes {
		if other.FileHashes[path] != hash {
			return false
		}
	}
	return true
}
