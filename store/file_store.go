package store

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"
	yaml "gopkg.in/yaml.v3"

	"github.com/josephgoksu/crewboard/internal/util"
	"github.com/josephgoksu/crewboard/models"
)

const (
	boardDirKey      = "boardDir"
	dataFormatKey    = "format"
	tasksFileKey     = "tasksFile"
	sprintsFileKey   = "sprintsFile"
	backlogFileKey   = "backlogFile"
	employeesFileKey = "employeesFile"

	defaultFormat        = "json"
	defaultTasksFile     = "tasks.json"
	defaultSprintsFile   = "sprints.json"
	defaultBacklogFile   = "backlog.json"
	defaultEmployeesFile = "employees.json"

	formatJSON = "json"
	formatYAML = "yaml"
	formatTOML = "toml"

	lockFileName   = "board.lock"
	checksumSuffix = ".checksum"
)

// FileProjectStore implements the ProjectStore interface with one
// collection file per entity kind under a shared board directory.
// A single file lock serializes every writer; each operation reloads the
// collections from disk before mutating so that concurrent external
// agents are never served stale state.
type FileProjectStore struct {
	dir    string
	format string
	flk    *flock.Flock
	state  *BoardState

	tasksPath     string
	sprintsPath   string
	backlogPath   string
	employeesPath string
}

// NewFileProjectStore creates a new instance of FileProjectStore.
// It does not initialize the store; Initialize must be called separately.
func NewFileProjectStore() *FileProjectStore {
	return &FileProjectStore{}
}

// Initialize configures the FileProjectStore. It expects a 'boardDir' key
// in the config map; collection file names and the data format are
// optional and default to JSON files named after their entity kind.
func (s *FileProjectStore) Initialize(config map[string]string) error {
	dir := config[boardDirKey]
	if dir == "" {
		dir = ".crewboard"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create board directory %s: %w", dir, err)
	}
	s.dir = dir

	format := strings.ToLower(config[dataFormatKey])
	switch format {
	case "":
		format = defaultFormat
	case formatJSON, formatYAML, formatTOML:
	default:
		return fmt.Errorf("unsupported format: %s. Supported formats are json, yaml, toml", config[dataFormatKey])
	}
	s.format = format

	fileFor := func(key, fallback string) string {
		name := config[key]
		if name == "" {
			name = fallback
			if format != formatJSON {
				ext := filepath.Ext(name)
				name = strings.TrimSuffix(name, ext) + "." + format
			}
		}
		return filepath.Join(dir, name)
	}
	s.tasksPath = fileFor(tasksFileKey, defaultTasksFile)
	s.sprintsPath = fileFor(sprintsFileKey, defaultSprintsFile)
	s.backlogPath = fileFor(backlogFileKey, defaultBacklogFile)
	s.employeesPath = fileFor(employeesFileKey, defaultEmployeesFile)

	s.flk = flock.New(filepath.Join(dir, lockFileName))

	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("failed to acquire initial lock for %s: %w", s.dir, err)
	}
	defer func() { _ = s.flk.Unlock() }()

	return s.loadStateInternal()
}

// calculateChecksum computes the SHA256 checksum of the given data.
func calculateChecksum(data []byte) string {
	hasher := sha256.New()
	hasher.Write(data) // Write never returns an error
	return hex.EncodeToString(hasher.Sum(nil))
}

// readCollection reads and checksum-verifies one collection file,
// unmarshaling it into out. A missing file is created empty.
func (s *FileProjectStore) readCollection(path string, out interface{}) error {
	checksumPath := path + checksumSuffix

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			_ = os.Remove(checksumPath)
			if f, createErr := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644); createErr != nil {
				return fmt.Errorf("failed to create data file %s: %w", path, createErr)
			} else {
				_ = f.Close()
			}
			_ = os.WriteFile(checksumPath, []byte(calculateChecksum(nil)), 0o644)
			return nil
		}
		return fmt.Errorf("failed to read data file %s: %w", path, err)
	}

	if _, err := os.Stat(checksumPath); err == nil {
		expected, readErr := os.ReadFile(checksumPath)
		if readErr != nil {
			return fmt.Errorf("failed to read checksum file %s: %w", checksumPath, readErr)
		}
		actual := calculateChecksum(data)
		if actual != strings.TrimSpace(string(expected)) {
			return fmt.Errorf("checksum mismatch for %s - file is corrupt or tampered", path)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("error checking checksum file %s: %w", checksumPath, err)
	}
	// No checksum file means pre-checksum data; the next save creates one.

	if len(data) == 0 {
		return nil
	}

	switch s.format {
	case formatJSON:
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to unmarshal JSON from %s: %w", path, err)
		}
	case formatYAML:
		if err := yaml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to unmarshal YAML from %s: %w", path, err)
		}
	case formatTOML:
		if err := toml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to unmarshal TOML from %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported data format for loading: %s", s.format)
	}
	return nil
}

// writeCollection marshals one collection, writes it to a temp file with
// its checksum sidecar, then renames both into place.
func (s *FileProjectStore) writeCollection(path string, in interface{}) error {
	var marshaled []byte
	var err error

	switch s.format {
	case formatJSON:
		marshaled, err = json.MarshalIndent(in, "", "  ")
	case formatYAML:
		marshaled, err = yaml.Marshal(in)
	case formatTOML:
		buf := new(bytes.Buffer)
		if encodeErr := toml.NewEncoder(buf).Encode(in); encodeErr == nil {
			marshaled = buf.Bytes()
		} else {
			err = fmt.Errorf("failed to marshal TOML: %w", encodeErr)
		}
	default:
		return fmt.Errorf("unsupported data format for saving: %s", s.format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal collection to %s: %w", s.format, err)
	}

	tempPath := path + ".tmp"
	checksumPath := path + checksumSuffix
	tempChecksumPath := checksumPath + ".tmp"

	defer func() { _ = os.Remove(tempPath) }()
	defer func() { _ = os.Remove(tempChecksumPath) }()

	if err := os.WriteFile(tempPath, marshaled, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary data file %s: %w", tempPath, err)
	}
	if err := os.WriteFile(tempChecksumPath, []byte(calculateChecksum(marshaled)), 0o644); err != nil {
		return fmt.Errorf("failed to write temporary checksum file %s: %w", tempChecksumPath, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary data file %s to %s: %w", tempPath, path, err)
	}
	if err := os.Rename(tempChecksumPath, checksumPath); err != nil {
		return fmt.Errorf("CRITICAL: data file %s updated, but failed to update checksum file %s: %w - store may be inconsistent", path, checksumPath, err)
	}
	return nil
}

// loadStateInternal reads every collection from disk. Assumes the lock is held.
func (s *FileProjectStore) loadStateInternal() error {
	state := &BoardState{
		Tasks:     make(map[string]models.Task),
		Sprints:   make(map[string]models.Sprint),
		Backlog:   make(map[string]models.BacklogItem),
		Employees: make(map[string]models.Employee),
	}

	var tasks models.TaskList
	if err := s.readCollection(s.tasksPath, &tasks); err != nil {
		return err
	}
	for _, t := range tasks.Tasks {
		state.Tasks[t.ID] = t
	}

	var sprints models.SprintList
	if err := s.readCollection(s.sprintsPath, &sprints); err != nil {
		return err
	}
	for _, sp := range sprints.Sprints {
		state.Sprints[sp.ID] = sp
	}

	var backlog models.BacklogList
	if err := s.readCollection(s.backlogPath, &backlog); err != nil {
		return err
	}
	for _, b := range backlog.Items {
		state.Backlog[b.ID] = b
	}

	var employees models.EmployeeList
	if err := s.readCollection(s.employeesPath, &employees); err != nil {
		return err
	}
	for _, e := range employees.Employees {
		state.Employees[e.Name] = e
	}

	s.state = state
	return nil
}

// saveStateInternal writes every collection back to disk in a stable
// order. Assumes the lock is held.
func (s *FileProjectStore) saveStateInternal() error {
	tasks := models.TaskList{Tasks: make([]models.Task, 0, len(s.state.Tasks)), TotalCount: len(s.state.Tasks)}
	for _, t := range s.state.Tasks {
		tasks.Tasks = append(tasks.Tasks, t)
	}
	sort.Slice(tasks.Tasks, func(i, j int) bool { return tasks.Tasks[i].ID < tasks.Tasks[j].ID })
	if err := s.writeCollection(s.tasksPath, tasks); err != nil {
		return err
	}

	sprints := models.SprintList{Sprints: make([]models.Sprint, 0, len(s.state.Sprints)), TotalCount: len(s.state.Sprints)}
	for _, sp := range s.state.Sprints {
		sprints.Sprints = append(sprints.Sprints, sp)
	}
	sort.Slice(sprints.Sprints, func(i, j int) bool { return sprints.Sprints[i].ID < sprints.Sprints[j].ID })
	if err := s.writeCollection(s.sprintsPath, sprints); err != nil {
		return err
	}

	backlog := models.BacklogList{Items: make([]models.BacklogItem, 0, len(s.state.Backlog)), TotalCount: len(s.state.Backlog)}
	for _, b := range s.state.Backlog {
		backlog.Items = append(backlog.Items, b)
	}
	sort.Slice(backlog.Items, func(i, j int) bool { return backlog.Items[i].ID < backlog.Items[j].ID })
	if err := s.writeCollection(s.backlogPath, backlog); err != nil {
		return err
	}

	employees := models.EmployeeList{Employees: make([]models.Employee, 0, len(s.state.Employees)), TotalCount: len(s.state.Employees)}
	for _, e := range s.state.Employees {
		employees.Employees = append(employees.Employees, e)
	}
	sort.Slice(employees.Employees, func(i, j int) bool { return employees.Employees[i].Name < employees.Employees[j].Name })
	return s.writeCollection(s.employeesPath, employees)
}

// withLock acquires the board lock, reloads state, runs fn, and when
// dirty is true persists every collection, reloading as a best-effort
// rollback if the save fails.
func (s *FileProjectStore) withLock(dirty bool, fn func() error) error {
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("could not lock board: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadStateInternal(); err != nil {
		return fmt.Errorf("failed to reload board state: %w", err)
	}
	if err := fn(); err != nil {
		return err
	}
	if !dirty {
		return nil
	}
	if err := s.saveStateInternal(); err != nil {
		_ = s.loadStateInternal()
		return fmt.Errorf("failed to save board state: %w", err)
	}
	return nil
}

// Update runs fn against the full board state under the store lock and
// persists every collection on success.
func (s *FileProjectStore) Update(fn func(state *BoardState) error) error {
	return s.withLock(true, func() error { return fn(s.state) })
}

// NextTaskID allocates the next free sequential task id from the loaded
// state. Only meaningful while the board lock is held.
func (state *BoardState) NextTaskID() string {
	ids := make([]string, 0, len(state.Tasks))
	for id := range state.Tasks {
		ids = append(ids, id)
	}
	return util.NextID(util.TaskIDPrefix, ids)
}

// NextSprintID allocates the next free sequential sprint id.
func (state *BoardState) NextSprintID() string {
	ids := make([]string, 0, len(state.Sprints))
	for id := range state.Sprints {
		ids = append(ids, id)
	}
	return util.NextID(util.SprintIDPrefix, ids)
}

// NextBacklogID allocates the next free sequential backlog id.
func (state *BoardState) NextBacklogID() string {
	ids := make([]string, 0, len(state.Backlog))
	for id := range state.Backlog {
		ids = append(ids, id)
	}
	return util.NextID(util.BacklogIDPrefix, ids)
}

// collectionPaths lists the files that Backup and Restore copy.
func (s *FileProjectStore) collectionPaths() []string {
	return []string{s.tasksPath, s.sprintsPath, s.backlogPath, s.employeesPath}
}

// Backup copies the board data files to the destination directory.
func (s *FileProjectStore) Backup(destinationPath string) error {
	return s.withLock(false, func() error {
		if err := os.MkdirAll(destinationPath, 0o755); err != nil {
			return fmt.Errorf("failed to create backup dir %s: %w", destinationPath, err)
		}
		for _, path := range s.collectionPaths() {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s for backup: %w", path, err)
			}
			dest := filepath.Join(destinationPath, filepath.Base(path))
			if err := os.WriteFile(dest, data, 0o644); err != nil {
				return fmt.Errorf("failed to write backup file %s: %w", dest, err)
			}
		}
		return nil
	})
}

// Restore replaces the board data with files from the source directory.
// Checksum sidecars are removed; fresh ones are written on the next save.
func (s *FileProjectStore) Restore(sourcePath string) error {
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("could not lock board for restore: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	for _, path := range s.collectionPaths() {
		src := filepath.Join(sourcePath, filepath.Base(path))
		data, err := os.ReadFile(src)
		if err != nil {
			return fmt.Errorf("failed to read backup file %s: %w", src, err)
		}
		tempPath := path + ".tmp_restore"
		if err := os.WriteFile(tempPath, data, 0o644); err != nil {
			_ = os.Remove(tempPath)
			return fmt.Errorf("failed to write restored data to %s: %w", tempPath, err)
		}
		if err := os.Rename(tempPath, path); err != nil {
			_ = os.Remove(tempPath)
			return fmt.Errorf("failed to replace %s with restored data: %w", path, err)
		}
		_ = os.Remove(path + checksumSuffix)
	}
	return s.loadStateInternal()
}

// Close releases the board lock. flock.Unlock is idempotent and can be
// called even if the lock is not held by this process.
func (s *FileProjectStore) Close() error {
	if s.flk != nil {
		return s.flk.Unlock()
	}
	return nil
}
