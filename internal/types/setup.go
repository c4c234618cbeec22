package types

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Student types offered by the setup form.
const (
	StudentTypeHighSchool   = "highschool"
	StudentTypeProfessional = "college_professional"
)

// ResumeStyles lists the style values accepted by the setup form.
var ResumeStyles = []string{"modern", "professional", "minimal", "technical", "student", "executive"}

// AgeRanges lists the age brackets offered to college students and professionals.
var AgeRanges = []string{"18-22", "23-27", "28-35", "36-45", "46+"}

// SetupRequest is the first wizard step: who the candidate is and what they are aiming for.
type SetupRequest struct {
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone,omitempty"`
	Location       string `json:"location,omitempty"`
	StudentType    string `json:"studentType" validate:"required,oneof=highschool college_professional"`
	Grade          string `json:"grade,omitempty" validate:"required_if=StudentType highschool"`
	School         string `json:"school,omitempty" validate:"required_if=StudentType highschool"`
	GraduationYear string `json:"graduationYear,omitempty" validate:"required_if=StudentType highschool"`
	Age            string `json:"age,omitempty" validate:"required_if=StudentType college_professional"`
	Style          string `json:"style" validate:"required,oneof=modern professional minimal technical student executive"`
	TargetRole     string `json:"targetRole" validate:"required"`
}

// Validate validates the SetupRequest using the validator.
func (r *SetupRequest) Validate() error {
	r.normalize()
	validate := validator.New()
	return validate.Struct(r)
}

// IsHighSchool reports whether the candidate picked the high school track.
func (r *SetupRequest) IsHighSchool() bool {
	return r.StudentType == StudentTypeHighSchool
}

// ToResumeData seeds a blank record from the form. School fields are kept only for high school students.
func (r *SetupRequest) ToResumeData() ResumeData {
	data := NewResumeData()
	data.PersonalInfo = PersonalInfo{
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Location: r.Location,
	}
	if r.IsHighSchool() {
		data.PersonalInfo.Grade = r.Grade
		data.PersonalInfo.School = r.School
		data.PersonalInfo.GraduationYear = r.GraduationYear
	}
	data.Style = r.Style
	data.TargetRole = r.TargetRole
	data.IsHighSchoolStudent = r.IsHighSchool()
	return data
}

func (r *SetupRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Location = strings.TrimSpace(r.Location)
	r.StudentType = strings.TrimSpace(r.StudentType)
	r.School = strings.TrimSpace(r.School)
	r.Style = strings.ToLower(strings.TrimSpace(r.Style))
	r.TargetRole = strings.TrimSpace(r.TargetRole)
}

// FieldErrors flattens validator errors into field -> message pairs for API responses.
func FieldErrors(err error) map[string]string {
	out := make(map[string]string)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		if err != nil {
			out["(root)"] = err.Error()
		}
		return out
	}
	for _, fe := range verrs {
		field := jsonFieldName(fe.Field())
		switch fe.Tag() {
		case "required", "required_if":
			out[field] = "is required"
		case "email":
			out[field] = "must be a valid email address"
		case "oneof":
			out[field] = "must be one of: " + fe.Param()
		default:
			out[field] = "failed " + fe.Tag() + " check"
		}
	}
	return out
}

func jsonFieldName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
