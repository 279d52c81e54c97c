package seeds

import (
	"gorm.io/gorm"

	courses "kursusku_backend/internals/seeds/courses"
	users "kursusku_backend/internals/seeds/users"
)

// RunAllSeeds loads the demo dataset for local development. Every seeder
// skips rows that already exist, so running twice is harmless.
func RunAllSeeds(db *gorm.DB) {
	users.SeedUsersFromJSON(db, "internals/seeds/users/data_users.json")
	courses.SeedCoursesFromJSON(db, "internals/seeds/courses/data_courses.json")
}
