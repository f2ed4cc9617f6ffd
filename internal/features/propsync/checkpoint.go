package propsync

import (
	"encoding/json"
	"fmt"
	"os"
)

// Checkpoint is the durable progress of a batch run, persisted after every
// processed record. A crash loses at most the record in flight.
type Checkpoint struct {
	Offset    int `json:"offset"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

type CheckpointStore interface {
	Load() (Checkpoint, error)
	Save(cp Checkpoint) error
}

// FileCheckpointStore keeps the checkpoint in a small JSON file, the same
// artifact the legacy scripts used. Older files carry the Spanish keys
// actualizados/fallidos; both spellings are accepted on read.
type FileCheckpointStore struct {
	Path string
}

func NewFileCheckpointStore(path string) *FileCheckpointStore {
	return &FileCheckpointStore{Path: path}
}

func (s *FileCheckpointStore) Load() (Checkpoint, error) {
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return Checkpoint{}, nil
	}
	if err != nil {
		return Checkpoint{}, fmt.Errorf("reading checkpoint %s: %w", s.Path, err)
	}

	var raw struct {
		Offset       int  `json:"offset"`
		Succeeded    *int `json:"succeeded"`
		Failed       *int `json:"failed"`
		Actualizados *int `json:"actualizados"`
		Fallidos     *int `json:"fallidos"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Checkpoint{}, fmt.Errorf("parsing checkpoint %s: %w", s.Path, err)
	}

	cp := Checkpoint{Offset: raw.Offset}
	switch {
	case raw.Succeeded != nil:
		cp.Succeeded = *raw.Succeeded
	case raw.Actualizados != nil:
		cp.Succeeded = *raw.Actualizados
	}
	switch {
	case raw.Failed != nil:
		cp.Failed = *raw.Failed
	case raw.Fallidos != nil:
		cp.Failed = *raw.Fallidos
	}
	return cp, nil
}

func (s *FileCheckpointStore) Save(cp Checkpoint) error {
	data, err := json.Marshal(cp)
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, data, 0o644)
}
