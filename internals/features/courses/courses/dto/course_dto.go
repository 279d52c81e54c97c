package dto

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"

	"kursusku_backend/internals/features/courses/courses/model"
)

var validate = validator.New()

/* =========================================================
   PATCH FIELD (tri-state): absent / null / value
========================================================= */

type PatchFieldCourse[T any] struct {
	Present bool
	Value   *T
}

func (p *PatchFieldCourse[T]) UnmarshalJSON(b []byte) error {
	p.Present = true
	if string(b) == "null" {
		p.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	p.Value = &v
	return nil
}

func (p PatchFieldCourse[T]) Get() (*T, bool) { return p.Value, p.Present }

/* =========================================================
   SYLLABUS (stored as jsonb)
========================================================= */

type SyllabusSection struct {
	Title string   `json:"title" validate:"required,min=1,max=160"`
	Items []string `json:"items" validate:"omitempty,dive,min=1,max=300"`
}

func MarshalSyllabus(sections []SyllabusSection) (datatypes.JSON, error) {
	if len(sections) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(sections)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

/* =========================================================
   REQUEST: CREATE
========================================================= */

type CreateCourseRequest struct {
	CourseTitle       string  `json:"course_title" form:"course_title" validate:"required,min=3,max=160"`
	CourseSlug        string  `json:"course_slug" form:"course_slug" validate:"omitempty,min=1,max=160"`
	CourseDescription *string `json:"course_description,omitempty" form:"course_description" validate:"omitempty,max=8000"`

	// capacity is fixed at creation; later corrections go through the
	// admin seat-adjustment endpoint only
	CourseSeats int `json:"course_seats" form:"course_seats" validate:"min=0"`

	CoursePriceIDR int64 `json:"course_price_idr" form:"course_price_idr" validate:"min=0"`

	CourseTags     []string          `json:"course_tags,omitempty" validate:"omitempty,max=10,dive,min=1,max=40"`
	CourseSyllabus []SyllabusSection `json:"course_syllabus,omitempty" validate:"omitempty,max=50,dive"`
}

func (r *CreateCourseRequest) Normalize() {
	r.CourseTitle = strings.TrimSpace(r.CourseTitle)
	r.CourseSlug = strings.TrimSpace(strings.ToLower(r.CourseSlug))

	if r.CourseDescription != nil {
		s := strings.TrimSpace(*r.CourseDescription)
		if s == "" {
			r.CourseDescription = nil
		} else {
			r.CourseDescription = &s
		}
	}

	// tags: trim, lowercase, drop empties and duplicates
	if len(r.CourseTags) > 0 {
		seen := make(map[string]struct{}, len(r.CourseTags))
		out := r.CourseTags[:0]
		for _, t := range r.CourseTags {
			t = strings.ToLower(strings.TrimSpace(t))
			if t == "" {
				continue
			}
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
		r.CourseTags = out
	}
}

func (r *CreateCourseRequest) Validate() error {
	return validate.Struct(r)
}

// ToModel builds the row; every new course starts in the approval queue.
func (r *CreateCourseRequest) ToModel(instructorEmail, slug string) (*model.CourseModel, error) {
	syllabus, err := MarshalSyllabus(r.CourseSyllabus)
	if err != nil {
		return nil, err
	}

	status := model.CourseStatusPending
	m := &model.CourseModel{
		CourseTitle:           r.CourseTitle,
		CourseSlug:            slug,
		CourseDescription:     r.CourseDescription,
		CourseInstructorEmail: strings.ToLower(strings.TrimSpace(instructorEmail)),
		CourseSeats:           r.CourseSeats,
		CourseEnrollmentCount: 0,
		CourseStatus:          &status,
		CoursePriceIDR:        r.CoursePriceIDR,
		CourseTags:            pq.StringArray(r.CourseTags),
		CourseSyllabus:        syllabus,
	}
	return m, nil
}

/* =========================================================
   REQUEST: UPDATE (tri-state PATCH)
========================================================= */

type UpdateCourseRequest struct {
	CourseTitle       PatchFieldCourse[string]            `json:"course_title"`
	CourseDescription PatchFieldCourse[string]            `json:"course_description"`
	CoursePriceIDR    PatchFieldCourse[int64]             `json:"course_price_idr"`
	CourseTags        PatchFieldCourse[[]string]          `json:"course_tags"`
	CourseSyllabus    PatchFieldCourse[[]SyllabusSection] `json:"course_syllabus"`
}

// ToUpdates turns present fields into a column→value map for gorm Updates.
// Status and the seats pair are deliberately not patchable here.
func (r *UpdateCourseRequest) ToUpdates() (map[string]any, error) {
	updates := make(map[string]any)

	if v, ok := r.CourseTitle.Get(); ok {
		if v == nil {
			return nil, errors.New("course_title cannot be null")
		}
		t := strings.TrimSpace(*v)
		if len(t) < 3 || len(t) > 160 {
			return nil, errors.New("course_title must be 3..160 characters")
		}
		updates["course_title"] = t
	}
	if v, ok := r.CourseDescription.Get(); ok {
		if v == nil {
			updates["course_description"] = nil
		} else {
			updates["course_description"] = strings.TrimSpace(*v)
		}
	}
	if v, ok := r.CoursePriceIDR.Get(); ok {
		if v == nil || *v < 0 {
			return nil, errors.New("course_price_idr must be >= 0")
		}
		updates["course_price_idr"] = *v
	}
	if v, ok := r.CourseTags.Get(); ok {
		if v == nil {
			updates["course_tags"] = nil
		} else {
			tags := make([]string, 0, len(*v))
			seen := make(map[string]struct{}, len(*v))
			for _, t := range *v {
				t = strings.ToLower(strings.TrimSpace(t))
				if t == "" {
					continue
				}
				if _, dup := seen[t]; dup {
					continue
				}
				if len(t) > 40 {
					return nil, errors.New("course_tags entries must be at most 40 characters")
				}
				seen[t] = struct{}{}
				tags = append(tags, t)
			}
			if len(tags) > 10 {
				return nil, errors.New("course_tags allows at most 10 entries")
			}
			updates["course_tags"] = pq.StringArray(tags)
		}
	}
	if v, ok := r.CourseSyllabus.Get(); ok {
		if v == nil {
			updates["course_syllabus"] = nil
		} else {
			syllabus, err := MarshalSyllabus(*v)
			if err != nil {
				return nil, err
			}
			updates["course_syllabus"] = syllabus
		}
	}

	return updates, nil
}

/* =========================================================
   REQUEST: STATUS / SEATS (admin)
========================================================= */

type UpdateCourseStatusRequest struct {
	CourseStatus string `json:"course_status" validate:"required,oneof=pending approved rejected"`
}

func (r *UpdateCourseStatusRequest) Normalize() {
	r.CourseStatus = strings.ToLower(strings.TrimSpace(r.CourseStatus))
}

func (r *UpdateCourseStatusRequest) Validate() error {
	return validate.Struct(r)
}

// AdjustSeatsRequest corrects remaining capacity by a delta, e.g. after a
// failed unenroll release left a seat uncounted.
type AdjustSeatsRequest struct {
	SeatsDelta int `json:"seats_delta"`
}

func (r *AdjustSeatsRequest) Validate() error {
	if r.SeatsDelta == 0 {
		return errors.New("seats_delta must be non-zero")
	}
	if r.SeatsDelta < -1000 || r.SeatsDelta > 1000 {
		return errors.New("seats_delta out of range")
	}
	return nil
}

/* =========================================================
   PARAM HELPERS
========================================================= */

func ParseCourseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, errors.New("invalid course id")
	}
	return id, nil
}
