package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"anoa.com/schoolhub/internal/dto"
)

func TestValidateCreateSchoolRequest(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		errs := Validate(dto.CreateSchoolRequest{
			Name:    "Greenwood High",
			Email:   "office@greenwood.example.com",
			Address: "12 Elm Street",
			Phone:   "5550019876",
		})
		assert.Nil(t, errs)
	})

	t.Run("missing everything", func(t *testing.T) {
		errs := Validate(dto.CreateSchoolRequest{})
		assert.Len(t, errs, 4)
		assert.Equal(t, "name is required", errs[0].Message)
	})

	t.Run("json field names in messages", func(t *testing.T) {
		errs := Validate(dto.CreateSchoolRequest{
			Name:    "ok name",
			Email:   "nope",
			Address: "12 Elm Street",
			Phone:   "5550019876",
		})
		if assert.Len(t, errs, 1) {
			assert.Equal(t, "email must be a valid email address", errs[0].Message)
		}
	})
}

func TestValidateStudentRequest(t *testing.T) {
	t.Run("bad birth format", func(t *testing.T) {
		errs := Validate(dto.CreateStudentRequest{
			StudentName:  "Ada",
			StudentBirth: "03/14/2011",
			School:       "2f5b0d3e-8f0a-4f5c-9b9a-aaaaaaaaaaaa",
		})
		if assert.Len(t, errs, 1) {
			assert.Equal(t, "studentBirth must be a date in YYYY-MM-DD format", errs[0].Message)
		}
	})

	t.Run("bad school id", func(t *testing.T) {
		errs := Validate(dto.CreateStudentRequest{
			StudentName:  "Ada",
			StudentBirth: "2011-03-14",
			School:       "not-a-uuid",
		})
		if assert.Len(t, errs, 1) {
			assert.Equal(t, "school must be a valid id", errs[0].Message)
		}
	})
}

func TestValidateClassroomCapacity(t *testing.T) {
	errs := Validate(dto.CreateClassroomRequest{
		Name:     "1-A",
		School:   "2f5b0d3e-8f0a-4f5c-9b9a-aaaaaaaaaaaa",
		Capacity: 41,
	})
	if assert.Len(t, errs, 1) {
		assert.Equal(t, "capacity must be at most 40", errs[0].Message)
	}
}
