package models

// Entity is a cached server document with a server-assigned identity.
type Entity interface {
	GetID() string
}

// RoleType defines the user role type
type RoleType string

const (
	RoleSchoolAdmin RoleType = "schoolAdmin"
	RoleLecturer    RoleType = "lecturer"
	RoleStudent     RoleType = "student"
)

// Weekday is the day name used by office hours and resource availability
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// Weekdays lists the days in calendar order, starting on Monday.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// TimeRange is a start/end pair in "HH:MM" form
type TimeRange struct {
	Start string `json:"start" validate:"required,clock"`
	End   string `json:"end" validate:"required,clock"`
}

// RefTypes lists every foreign-key instantiation so validators can treat a Ref as its id.
var RefTypes = []any{
	Ref[Course]{},
	Ref[Module]{},
	Ref[Department]{},
	Ref[User]{},
	Ref[IntakeCourse]{},
	Ref[Intake]{},
	Ref[Student]{},
	Ref[Resource]{},
	Ref[Booking]{},
}
