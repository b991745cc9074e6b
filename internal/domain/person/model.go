package person

import (
	"errors"
	"slices"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Roster types
const (
	TypeMinister = "minister"
	TypeChildren = "children"
)

// AgeGroups is the vocabulary for the age-group tag.
var AgeGroups = []string{"Little Eagle", "All Star", "Super Trooper", "Voltage"}

// Roles is the vocabulary for the role tag.
var Roles = []string{"SIC", "PAW", "Operator", "Host", "Usher", "Activity/Games"}

// Domain errors
var (
	ErrInvalidType    = errors.New("Type must be 'minister' or 'children'")
	ErrEmptyFirstName = errors.New("first name cannot be empty")
	ErrEmptyLastName  = errors.New("last name cannot be empty")
	ErrNameTooLong    = errors.New("name cannot exceed 100 characters")
	ErrInvalidEmail   = errors.New("Please enter a valid email")
	ErrNoAgeGroup     = errors.New("Please select at least one age group")
	ErrUnknownTag     = errors.New("unknown age group or role")
)

// Person is a minister or child roster entry.
type Person struct {
	ID        string
	FirstName string
	LastName  string
	Type      string
	AgeGroup  []string
	Roles     []string
	Phone     string
	Email     string
	Notes     string
	Deleted   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Key returns the person identifier.
func (p Person) Key() string { return p.ID }

// WithDeleted returns a copy with the deleted flag set to d.
func (p Person) WithDeleted(d bool) Person {
	p.Deleted = d
	return p
}

// FullName returns "First Last".
func (p Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// HasAgeGroup reports whether the person carries the given age-group tag.
func (p Person) HasAgeGroup(g string) bool { return slices.Contains(p.AgeGroup, g) }

// HasRole reports whether the person carries the given role tag.
func (p Person) HasRole(r string) bool { return slices.Contains(p.Roles, r) }

// IsValidType reports whether t is a known roster type.
func IsValidType(t string) bool {
	return t == TypeMinister || t == TypeChildren
}

// Draft carries form input for create and update.
type Draft struct {
	FirstName string
	LastName  string
	Type      string
	AgeGroup  []string
	Roles     []string
	Phone     string
	Email     string
	Notes     string
}

// Normalize trims text fields and drops blank tags.
func (d Draft) Normalize() Draft {
	return Draft{
		FirstName: strings.TrimSpace(d.FirstName),
		LastName:  strings.TrimSpace(d.LastName),
		Type:      strings.TrimSpace(d.Type),
		AgeGroup:  compact(d.AgeGroup),
		Roles:     compact(d.Roles),
		Phone:     strings.TrimSpace(d.Phone),
		Email:     strings.TrimSpace(d.Email),
		Notes:     strings.TrimSpace(d.Notes),
	}
}

// Validate checks the draft.
// PRE: Draft has been normalised
// POST: Returns the first validation error, nil otherwise
// INVARIANT: Tags must come from AgeGroups and Roles
func (d Draft) Validate() error {
	if !IsValidType(d.Type) {
		return ErrInvalidType
	}
	if d.FirstName == "" {
		return ErrEmptyFirstName
	}
	if d.LastName == "" {
		return ErrEmptyLastName
	}
	if len(d.FirstName) > MaxNameLength || len(d.LastName) > MaxNameLength {
		return ErrNameTooLong
	}
	if d.Email != "" && !strings.Contains(d.Email, "@") {
		return ErrInvalidEmail
	}
	if len(d.AgeGroup) == 0 {
		return ErrNoAgeGroup
	}
	for _, g := range d.AgeGroup {
		if !slices.Contains(AgeGroups, g) {
			return ErrUnknownTag
		}
	}
	for _, r := range d.Roles {
		if !slices.Contains(Roles, r) {
			return ErrUnknownTag
		}
	}
	return nil
}

// DraftFrom copies a stored person into a form draft.
func DraftFrom(p Person) Draft {
	return Draft{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Type:      p.Type,
		AgeGroup:  slices.Clone(p.AgeGroup),
		Roles:     slices.Clone(p.Roles),
		Phone:     p.Phone,
		Email:     p.Email,
		Notes:     p.Notes,
	}
}

func compact(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" && !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
