package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/campusdesk/internal/pkg/apperrors"
)

func TestRef_UnmarshalShapes(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantID    string
		populated bool
	}{
		{name: "bare id", input: `"c1"`, wantID: "c1"},
		{name: "populated object", input: `{"_id":"c1","courseName":"CS101"}`, wantID: "c1", populated: true},
		{name: "populated with plain id", input: `{"id":"c1","courseName":"CS101"}`, wantID: "c1", populated: true},
		{name: "null", input: `null`},
		{name: "number degrades", input: `42`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ref Ref[Course]
			require.NoError(t, json.Unmarshal([]byte(tt.input), &ref))
			assert.Equal(t, tt.wantID, ref.ID)
			assert.Equal(t, tt.populated, ref.IsPopulated())
			if tt.populated {
				assert.Equal(t, "CS101", ref.Obj.CourseName)
			}
		})
	}
}

func TestRef_MarshalSendsID(t *testing.T) {
	body, err := json.Marshal(Course{CourseCode: "CS", CourseName: "Computing", Department: Populated("d1", Department{ID: "d1", Name: "Science"})})
	require.NoError(t, err)
	assert.Contains(t, string(body), `"department":"d1"`)

	body, err = json.Marshal(Course{CourseCode: "CS"})
	require.NoError(t, err)
	assert.Contains(t, string(body), `"department":null`)
}

func TestRefList_UnmarshalMixed(t *testing.T) {
	var m Module
	input := `{"_id":"m1","courseId":["c1",{"_id":"c2","courseName":"Maths"},null],"prerequisites":"m0"}`
	require.NoError(t, json.Unmarshal([]byte(input), &m))

	assert.Equal(t, []string{"c1", "c2"}, m.Courses.IDs())
	assert.True(t, m.Courses[1].IsPopulated())
	assert.Equal(t, []string{"m0"}, m.Prerequisites.IDs())
	assert.True(t, m.Courses.Contains("c2"))
	assert.False(t, m.Courses.Contains(""))
}

func TestModule_ValidatePrerequisites(t *testing.T) {
	m := Module{ID: "m1", Prerequisites: RefsTo[Module]("m0", "m1")}
	assert.ErrorIs(t, m.ValidatePrerequisites(), apperrors.ErrSelfPrerequisite)

	m.Prerequisites = RefsTo[Module]("m0")
	assert.NoError(t, m.ValidatePrerequisites())
}

func TestLecturer_AddOfficeHourRejectsDuplicateDay(t *testing.T) {
	lecturer := Lecturer{
		ID:          "l1",
		OfficeHours: []OfficeHour{{Day: Monday, StartTime: "09:00", EndTime: "10:00"}},
	}
	before := lecturer.OfficeHours

	err := lecturer.AddOfficeHour(OfficeHour{Day: Monday, StartTime: "14:00", EndTime: "15:00"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrDuplicateOfficeHourDay))
	assert.Equal(t, before, lecturer.OfficeHours)
	assert.Len(t, lecturer.OfficeHours, 1)

	require.NoError(t, lecturer.AddOfficeHour(OfficeHour{Day: Tuesday, StartTime: "14:00", EndTime: "15:00"}))
	assert.Len(t, lecturer.OfficeHours, 2)
	assert.Len(t, before, 1)

	lecturer.RemoveOfficeHour(Monday)
	assert.False(t, lecturer.HasOfficeHourOn(Monday))
	assert.NoError(t, lecturer.ValidateOfficeHours())
}

func TestLecturer_ValidateOfficeHours(t *testing.T) {
	lecturer := Lecturer{OfficeHours: []OfficeHour{
		{Day: Friday, StartTime: "09:00", EndTime: "10:00"},
		{Day: Friday, StartTime: "11:00", EndTime: "12:00"},
	}}
	assert.ErrorIs(t, lecturer.ValidateOfficeHours(), apperrors.ErrDuplicateOfficeHourDay)
}

func TestDate_Lenient(t *testing.T) {
	var in struct {
		A Date `json:"a"`
		B Date `json:"b"`
		C Date `json:"c"`
		D Date `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"2025-09-01","b":"","c":null,"d":"2025-09-01T08:30:00Z"}`), &in))

	assert.Equal(t, 2025, in.A.Year())
	assert.True(t, in.B.IsZero())
	assert.True(t, in.C.IsZero())
	assert.Equal(t, 8, in.D.Hour())
}

func TestBooking_Hours(t *testing.T) {
	b := Booking{StartTime: "09:00", EndTime: "10:30"}
	assert.True(t, decimal.RequireFromString("1.5").Equal(b.Hours()))

	b.EndTime = "08:00"
	assert.True(t, b.Hours().IsZero())
}

func TestResource_AvailableAt(t *testing.T) {
	r := Resource{Availability: map[Weekday][]TimeRange{
		Monday: {{Start: "08:00", End: "12:00"}, {Start: "13:00", End: "17:00"}},
	}}
	assert.True(t, r.AvailableAt(Monday, "09:00", "11:00"))
	assert.False(t, r.AvailableAt(Monday, "11:00", "14:00"))
	assert.False(t, r.AvailableAt(Tuesday, "09:00", "10:00"))
}

func TestMoneyEncodesAsNumber(t *testing.T) {
	body, err := json.Marshal(Resource{Name: "Lab", Type: ResourceLab, HourlyRate: decimal.RequireFromString("12.5")})
	require.NoError(t, err)
	assert.Contains(t, string(body), `"hourlyRate":12.5`)
}

func TestUser_WithoutPassword(t *testing.T) {
	u := User{Name: "Ada", Password: "secret123"}
	assert.Empty(t, u.WithoutPassword().Password)
	assert.Equal(t, "secret123", u.Password)
	assert.True(t, User{ProfilePicture: "data:image/png;base64,AAA"}.HasInlinePicture())
}
