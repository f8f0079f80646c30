package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/josephgoksu/crewboard/models"
)

// DiscussionStore defines the interface for per-task discussion logs.
// Logs are strictly append-only: prior entries are never edited or
// removed, which makes each log an audit trail for its task.
type DiscussionStore interface {
	// Append writes a new block to the task's log, creating the log on
	// first use. It returns the entry with timestamp and ref filled in.
	Append(taskID string, entry models.DiscussionEntry) (models.DiscussionEntry, error)

	// Read returns the raw log text for a task. A task with no
	// discussion yet yields an empty string, not an error.
	Read(taskID string) (string, error)

	// Entries parses the log back into structured entries.
	Entries(taskID string) ([]models.DiscussionEntry, error)

	// Close releases any resources held by the store.
	Close() error
}

// FileDiscussionStore keeps one markdown file per task id under a
// discussions directory. Writes go through an afero filesystem so tests
// can run against an in-memory fs; the production store serializes
// writers with the same kind of file lock the board store uses.
type FileDiscussionStore struct {
	fs  afero.Fs
	dir string
	flk *flock.Flock
}

// NewFileDiscussionStore creates a discussion store rooted at dir on the
// real filesystem, with file locking enabled.
func NewFileDiscussionStore(dir string) (*FileDiscussionStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create discussions dir %s: %w", dir, err)
	}
	return &FileDiscussionStore{
		fs:  afero.NewOsFs(),
		dir: dir,
		flk: flock.New(filepath.Join(dir, ".discussions.lock")),
	}, nil
}

// NewMemDiscussionStore creates a discussion store over an in-memory
// filesystem. Intended for tests; no file locking.
func NewMemDiscussionStore() *FileDiscussionStore {
	return &FileDiscussionStore{fs: afero.NewMemMapFs(), dir: "discussions"}
}

func (s *FileDiscussionStore) logPath(taskID string) string {
	return filepath.Join(s.dir, taskID+".md")
}

func (s *FileDiscussionStore) lock() (func(), error) {
	if s.flk == nil {
		return func() {}, nil
	}
	if err := s.flk.Lock(); err != nil {
		return nil, fmt.Errorf("could not lock discussions dir: %w", err)
	}
	return func() { _ = s.flk.Unlock() }, nil
}

// Append writes a new block to the task's log. The file is opened in
// append mode only; existing bytes are never touched.
func (s *FileDiscussionStore) Append(taskID string, entry models.DiscussionEntry) (models.DiscussionEntry, error) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if entry.Ref == "" {
		entry.Ref = uuid.NewString()
	}
	if err := models.ValidateStruct(entry); err != nil {
		return models.DiscussionEntry{}, fmt.Errorf("invalid discussion entry: %w", err)
	}

	unlock, err := s.lock()
	if err != nil {
		return models.DiscussionEntry{}, err
	}
	defer unlock()

	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return models.DiscussionEntry{}, fmt.Errorf("failed to create discussions dir: %w", err)
	}
	f, err := s.fs.OpenFile(s.logPath(taskID), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return models.DiscussionEntry{}, fmt.Errorf("failed to open discussion log for %s: %w", taskID, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString(entry.FormatBlock()); err != nil {
		return models.DiscussionEntry{}, fmt.Errorf("failed to append to discussion log for %s: %w", taskID, err)
	}
	return entry, nil
}

// Read returns the raw log text for a task.
func (s *FileDiscussionStore) Read(taskID string) (string, error) {
	unlock, err := s.lock()
	if err != nil {
		return "", err
	}
	defer unlock()

	data, err := afero.ReadFile(s.fs, s.logPath(taskID))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read discussion log for %s: %w", taskID, err)
	}
	return string(data), nil
}

// Entries parses the log back into structured entries.
func (s *FileDiscussionStore) Entries(taskID string) ([]models.DiscussionEntry, error) {
	raw, err := s.Read(taskID)
	if err != nil {
		return nil, err
	}
	return models.ParseDiscussion(raw), nil
}

// Close releases the discussions lock when one is held.
func (s *FileDiscussionStore) Close() error {
	if s.flk != nil {
		return s.flk.Unlock()
	}
	return nil
}
