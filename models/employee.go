package models

import "time"

// Role identifies what an employee is allowed to do on the board.
type Role string

const (
	RoleBoss      Role = "boss"
	RoleAnalyst   Role = "analyst"
	RoleDeveloper Role = "developer"
	RoleTester    Role = "tester"
	RoleReviewer  Role = "reviewer"
	RoleDevOps    Role = "devops"
)

// AllRoles lists every valid role.
var AllRoles = []Role{RoleBoss, RoleAnalyst, RoleDeveloper, RoleTester, RoleReviewer, RoleDevOps}

// ParseRole validates a raw role string.
func ParseRole(raw string) (Role, bool) {
	for _, r := range AllRoles {
		if string(r) == raw {
			return r, true
		}
	}
	return "", false
}

// CanReview reports whether the role may judge tasks in review.
func (r Role) CanReview() bool {
	return r == RoleReviewer || r == RoleBoss
}

// Employee is a human or agent registered on the board. The task engine
// treats this as read-only reference data; prompt and profile paths are
// opaque configuration for an external runtime.
type Employee struct {
	Name        string    `json:"name" validate:"required,employeename"`
	Role        Role      `json:"role" validate:"required,oneof=boss analyst developer tester reviewer devops"`
	Model       string    `json:"model,omitempty"`
	PromptFile  string    `json:"promptFile,omitempty"`
	ProfileFile string    `json:"profileFile,omitempty"`
	CreatedAt   time.Time `json:"createdAt" validate:"required"`
}

// EmployeeList is the on-disk collection wrapper for employees.
type EmployeeList struct {
	Employees  []Employee `json:"employees" validate:"dive"`
	TotalCount int        `json:"totalCount"`
}

// NewEmployee returns an employee with the creation timestamp applied.
func NewEmployee(name string, role Role) *Employee {
	return &Employee{
		Name:      name,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
}
