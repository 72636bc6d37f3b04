package models

import (
	"net/mail"
	"slices"
	"strings"

	"practiceadmin/internal/tableview"
	dErrors "practiceadmin/pkg/domain-errors"
)

// Role is a staff account's permission tier.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// Roles lists the accepted roles.
var Roles = []Role{RoleAdmin, RoleManager, RoleStaff}

// User is a staff account. ID is opaque and never changes.
type User struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Email    string `json:"email" yaml:"email"`
	Role     Role   `json:"role" yaml:"role"`
	Location string `json:"location" yaml:"location"`
}

func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func (u *User) Normalize() {
	u.ID = strings.TrimSpace(u.ID)
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(u.Email)
	u.Role = Role(strings.ToLower(strings.TrimSpace(string(u.Role))))
	u.Location = strings.TrimSpace(u.Location)
}

// Validate checks everything but the id, which the service assigns.
func (u *User) Validate() error {
	if u.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if u.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return dErrors.New(dErrors.CodeValidation, "email is not a valid email address")
	}
	if !slices.Contains(Roles, u.Role) {
		return dErrors.New(dErrors.CodeValidation, "role must be one of admin, manager, staff")
	}
	return nil
}

var fieldNames = []string{"id", "name", "email", "role", "location"}

// FieldNames lists the user table columns.
func FieldNames() []string {
	return append([]string(nil), fieldNames...)
}

// Fields implements tableview.Record.
func (u *User) Fields() []string {
	return fieldNames
}

// Lookup implements tableview.Record.
func (u *User) Lookup(field string) (tableview.Value, bool) {
	switch field {
	case "id":
		return tableview.String(u.ID), true
	case "name":
		return tableview.String(u.Name), true
	case "email":
		return tableview.String(u.Email), true
	case "role":
		return tableview.String(string(u.Role)), true
	case "location":
		return tableview.String(u.Location), true
	default:
		return tableview.Value{}, false
	}
}

const (
	GroupByRole     tableview.GroupKey = "role"
	GroupByLocation tableview.GroupKey = "location"
)

// GroupKeys lists the accepted group-by options, NoGrouping first.
var GroupKeys = []tableview.GroupKey{tableview.NoGrouping, GroupByRole, GroupByLocation}

// AllLabel labels the single group shown when grouping is off.
const AllLabel = "All Users"

func IsGroupKey(key tableview.GroupKey) bool {
	return slices.Contains(GroupKeys, key)
}

// SeedUsers returns the demo staff accounts.
func SeedUsers() []*User {
	return []*User{
		{ID: "1", Name: "John Doe", Email: "john@example.com", Role: RoleAdmin, Location: "New York"},
		{ID: "2", Name: "Jane Smith", Email: "jane@example.com", Role: RoleManager, Location: "Los Angeles"},
		{ID: "3", Name: "Bob Johnson", Email: "bob@example.com", Role: RoleStaff, Location: "Chicago"},
	}
}

// CreateUserRequest is the payload for a new account. The id is assigned on create.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Location string `json:"location"`
}

func (r *CreateUserRequest) Normalize() {
	u := r.user("")
	u.Normalize()
	*r = CreateUserRequest{Name: u.Name, Email: u.Email, Role: u.Role, Location: u.Location}
}

func (r *CreateUserRequest) Validate() error {
	return r.user("").Validate()
}

// NewUser builds the account with the given id.
func (r *CreateUserRequest) NewUser(id string) *User {
	return r.user(id)
}

func (r *CreateUserRequest) user(id string) *User {
	return &User{ID: id, Name: r.Name, Email: r.Email, Role: r.Role, Location: r.Location}
}
