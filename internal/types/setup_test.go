package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfessional() SetupRequest {
	return SetupRequest{
		Name:        "Jane Doe",
		Email:       "jane@example.com",
		StudentType: StudentTypeProfessional,
		Age:         "28-35",
		Style:       "modern",
		TargetRole:  "Backend Engineer",
	}
}

func TestSetupRequest_ValidProfessional(t *testing.T) {
	req := validProfessional()
	require.NoError(t, req.Validate())
}

func TestSetupRequest_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SetupRequest)
		field  string
	}{
		{name: "missing name", mutate: func(r *SetupRequest) { r.Name = "  " }, field: "name"},
		{name: "bad email", mutate: func(r *SetupRequest) { r.Email = "not-an-email" }, field: "email"},
		{name: "unknown style", mutate: func(r *SetupRequest) { r.Style = "baroque" }, field: "style"},
		{name: "missing age", mutate: func(r *SetupRequest) { r.Age = "" }, field: "age"},
		{name: "missing role", mutate: func(r *SetupRequest) { r.TargetRole = "" }, field: "targetRole"},
		{name: "unknown student type", mutate: func(r *SetupRequest) { r.StudentType = "retired" }, field: "studentType"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validProfessional()
			tt.mutate(&req)

			err := req.Validate()
			require.Error(t, err)
			assert.Contains(t, FieldErrors(err), tt.field)
		})
	}
}

func TestSetupRequest_HighSchoolRequiresSchoolFields(t *testing.T) {
	req := SetupRequest{
		Name:        "Sam",
		Email:       "sam@example.com",
		StudentType: StudentTypeHighSchool,
		Style:       "student",
		TargetRole:  "Part-time Retail",
	}

	err := req.Validate()
	require.Error(t, err)
	fields := FieldErrors(err)
	assert.Contains(t, fields, "grade")
	assert.Contains(t, fields, "school")
	assert.Contains(t, fields, "graduationYear")
	assert.NotContains(t, fields, "age")

	req.Grade = "11"
	req.School = "Lincoln High"
	req.GraduationYear = "2027"
	assert.NoError(t, req.Validate())
}

func TestSetupRequest_ToResumeData(t *testing.T) {
	req := SetupRequest{
		Name:           "Sam",
		Email:          "sam@example.com",
		StudentType:    StudentTypeHighSchool,
		Grade:          "11",
		School:         "Lincoln High",
		GraduationYear: "2027",
		Style:          "student",
		TargetRole:     "Internship",
	}

	data := req.ToResumeData()
	assert.Equal(t, "Sam", data.PersonalInfo.Name)
	assert.Equal(t, "Lincoln High", data.PersonalInfo.School)
	assert.True(t, data.IsHighSchoolStudent)
	assert.Equal(t, "Internship", data.TargetRole)
	assert.NotNil(t, data.Skills)

	pro := validProfessional()
	pro.School = "ignored"
	proData := pro.ToResumeData()
	assert.Empty(t, proData.PersonalInfo.School)
	assert.False(t, proData.IsHighSchoolStudent)
}
