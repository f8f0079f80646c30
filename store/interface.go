package store

import "github.com/josephgoksu/crewboard/models"

// BoardState is the full set of board collections loaded under the store
// lock. Mutations performed inside ProjectStore.Update see and modify this
// state; on success every collection is persisted as one atomic unit.
type BoardState struct {
	Tasks     map[string]models.Task
	Sprints   map[string]models.Sprint
	Backlog   map[string]models.BacklogItem
	Employees map[string]models.Employee
}

// ProjectStore defines the interface for board persistence.
// It outlines the contract for managing tasks, sprints, backlog items and
// the employee registry, including CRUD operations, multi-record atomic
// updates, backup, restore, and resource cleanup.
//
// Implementations must never serve cached state across calls: every
// operation reloads from the backing storage so that concurrent external
// writers (other agents mutating the same board) are always observed.
type ProjectStore interface {
	// Initialize configures the store with necessary parameters, such as
	// the board directory and data format. It must be called before any
	// other store operation.
	Initialize(config map[string]string) error

	// CreateTask adds a new task. An empty ID is assigned the next free
	// sequential id; an explicit colliding ID fails with ErrConflict.
	CreateTask(task models.Task) (models.Task, error)

	// GetTask retrieves a task by id, failing with ErrNotFound otherwise.
	GetTask(id string) (models.Task, error)

	// UpdateTask applies a patch of JSON field names to new values.
	// Status and relationship changes are the board service's job; the
	// store only guarantees record-level atomicity and UpdatedAt stamping.
	UpdateTask(id string, updates map[string]interface{}) (models.Task, error)

	// DeleteTask removes a task. Tasks that other tasks depend on cannot
	// be deleted.
	DeleteTask(id string) error

	// ListTasks retrieves tasks, optionally filtered and sorted.
	ListTasks(filterFn func(models.Task) bool, sortFn func([]models.Task) []models.Task) ([]models.Task, error)

	// CreateSprint, GetSprint, UpdateSprint and ListSprints mirror the
	// task operations for sprint records.
	CreateSprint(sprint models.Sprint) (models.Sprint, error)
	GetSprint(id string) (models.Sprint, error)
	UpdateSprint(id string, updates map[string]interface{}) (models.Sprint, error)
	ListSprints(filterFn func(models.Sprint) bool) ([]models.Sprint, error)

	// CreateBacklogItem, GetBacklogItem, UpdateBacklogItem,
	// DeleteBacklogItem and ListBacklog manage the backlog collection.
	CreateBacklogItem(item models.BacklogItem) (models.BacklogItem, error)
	GetBacklogItem(id string) (models.BacklogItem, error)
	UpdateBacklogItem(id string, updates map[string]interface{}) (models.BacklogItem, error)
	DeleteBacklogItem(id string) error
	ListBacklog(filterFn func(models.BacklogItem) bool) ([]models.BacklogItem, error)

	// PutEmployee creates or replaces a registry entry keyed by name.
	PutEmployee(emp models.Employee) (models.Employee, error)
	GetEmployee(name string) (models.Employee, error)
	ListEmployees() ([]models.Employee, error)

	// Update runs fn against the full board state under the store lock
	// and persists every collection on success. This is the atomic unit
	// used for create-sprint-with-finalize-task and backlog promotion.
	Update(fn func(state *BoardState) error) error

	// Backup copies the board data files to the destination directory.
	Backup(destinationPath string) error

	// Restore replaces the board data with files from the source
	// directory. This operation may be destructive to current data.
	Restore(sourcePath string) error

	// Close releases any resources held by the store, such as file locks.
	Close() error
}
