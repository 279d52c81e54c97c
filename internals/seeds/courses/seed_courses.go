package courses

import (
	"encoding/json"
	"log"
	"os"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"kursusku_backend/internals/features/courses/courses/model"
	helper "kursusku_backend/internals/helpers"
)

type CourseSeed struct {
	CourseTitle       string   `json:"course_title"`
	CourseSlug        string   `json:"course_slug,omitempty"`
	CourseDescription *string  `json:"course_description,omitempty"`
	InstructorEmail   string   `json:"instructor_email"`
	CourseSeats       int      `json:"course_seats"`
	CoursePriceIDR    int64    `json:"course_price_idr"`
	CourseTags        []string `json:"course_tags,omitempty"`
	CourseStatus      string   `json:"course_status,omitempty"`
}

// SeedCoursesFromJSON inserts demo courses, skipping slugs that are already
// taken by a live row. Seed rows default to approved so they show up in the
// public catalog right away.
func SeedCoursesFromJSON(db *gorm.DB, filePath string) {
	log.Println("📥 Reading course seed file:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		log.Printf("❌ Cannot read %s: %v (skipping course seed)", filePath, err)
		return
	}

	var inputs []CourseSeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		log.Printf("❌ Cannot decode %s: %v (skipping course seed)", filePath, err)
		return
	}

	for _, data := range inputs {
		slug := strings.ToLower(strings.TrimSpace(data.CourseSlug))
		if slug == "" {
			slug = helper.Slugify(data.CourseTitle, 160)
		}

		var count int64
		if err := db.Model(&model.CourseModel{}).
			Where("course_slug = ? AND course_deleted_at IS NULL", slug).
			Count(&count).Error; err != nil {
			log.Printf("❌ Slug lookup failed for '%s': %v", slug, err)
			continue
		}
		if count > 0 {
			log.Printf("ℹ️ Course '%s' already exists, skipped.", slug)
			continue
		}

		status := model.CourseStatusApproved
		if model.IsValidCourseStatus(data.CourseStatus) {
			status = model.CourseStatus(data.CourseStatus)
		}

		newCourse := model.CourseModel{
			CourseTitle:           strings.TrimSpace(data.CourseTitle),
			CourseSlug:            slug,
			CourseDescription:     data.CourseDescription,
			CourseInstructorEmail: strings.ToLower(strings.TrimSpace(data.InstructorEmail)),
			CourseSeats:           data.CourseSeats,
			CourseEnrollmentCount: 0,
			CourseStatus:          &status,
			CoursePriceIDR:        data.CoursePriceIDR,
			CourseTags:            pq.StringArray(data.CourseTags),
		}
		if err := db.Create(&newCourse).Error; err != nil {
			log.Printf("❌ Failed to insert course '%s': %v", slug, err)
			continue
		}
		log.Printf("✅ Seeded course '%s' (%d seats)", slug, data.CourseSeats)
	}
}
