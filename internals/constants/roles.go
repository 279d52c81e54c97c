package constants

import "fmt"

// Role tokens are plain lowercase strings, matched exactly.
const (
	RoleGuest      = "guest"
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

// DefaultRole is assumed for any authenticated caller without a user row.
const DefaultRole = RoleStudent

// Error message templates for role checks
const (
	ErrOnlyInstructorsCanAccess = "Only instructors or admins may access %s."
	ErrOnlyAdminsCanAccess      = "Only admins may access %s."
)

func RoleErrorInstructor(feature string) string {
	return fmt.Sprintf(ErrOnlyInstructorsCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

// ==========================
// Grouped Role Slices
// ==========================
var (
	// AssignableRoles are the values an admin may write to a user record.
	AssignableRoles = []string{
		RoleStudent,
		RoleInstructor,
		RoleAdmin,
	}

	// InstructorAndAbove: admin supersets every instructor-gated operation.
	InstructorAndAbove = []string{
		RoleInstructor,
		RoleAdmin,
	}

	AdminOnly = []string{
		RoleAdmin,
	}
)

func IsAssignableRole(role string) bool {
	for _, r := range AssignableRoles {
		if r == role {
			return true
		}
	}
	return false
}

func RoleInSet(role string, allowed []string) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
