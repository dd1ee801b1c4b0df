package slots

import (
	"time"

	"github.com/google/uuid"
)

// TimeSlot is a bookable admission window. A slot is either pinned to one
// concrete date (SlotDate set), recurs on a weekday (DayOfWeek set), or runs
// every day (both nil). The two columns are never both set.
type TimeSlot struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ExhibitionID *uuid.UUID `gorm:"type:uuid;index" json:"exhibition_id,omitempty"` // nil = general admission
	Capacity     int        `gorm:"not null;check:capacity >= 0" json:"capacity"`
	SlotDate     *time.Time `gorm:"type:date;index" json:"slot_date,omitempty"`
	DayOfWeek    *int       `json:"day_of_week,omitempty"` // 0 = Sunday .. 6 = Saturday
	StartTime    string     `gorm:"type:time;not null" json:"start_time"`
	EndTime      string     `gorm:"type:time;not null" json:"end_time"`
	Active       bool       `gorm:"default:true;index" json:"active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// SlotAvailability is the per-(slot, date) capacity ledger. It is created
// lazily on the first booking attempt and never deleted. AvailableCapacity
// may be overridden per date independently of the slot's nominal capacity.
// BookedCount holds durable commits only, never live holds.
type SlotAvailability struct {
	ID                uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TimeSlotID        uuid.UUID `gorm:"type:uuid;not null;index" json:"time_slot_id"`
	VisitDate         time.Time `gorm:"type:date;not null" json:"visit_date"`
	AvailableCapacity int       `gorm:"not null" json:"available_capacity"`
	BookedCount       int       `gorm:"not null;default:0" json:"booked_count"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (TimeSlot) TableName() string {
	return "time_slots"
}

func (SlotAvailability) TableName() string {
	return "slot_availabilities"
}

// ScheduleKind discriminates the slot scheduling variants.
type ScheduleKind int

const (
	// ScheduleDateSpecific pins the slot to exactly one calendar date.
	ScheduleDateSpecific ScheduleKind = iota
	// ScheduleWeekly recurs on one weekday.
	ScheduleWeekly
	// ScheduleDaily recurs every day.
	ScheduleDaily
)

// Schedule is the explicit variant behind the nullable SlotDate/DayOfWeek
// columns, so matching and precedence never rely on null checks at use sites.
type Schedule struct {
	Kind    ScheduleKind
	Date    time.Time    // valid when Kind == ScheduleDateSpecific
	Weekday time.Weekday // valid when Kind == ScheduleWeekly
}

// Schedule derives the variant from the stored columns. SlotDate wins if an
// inconsistent row carries both.
func (s *TimeSlot) Schedule() Schedule {
	if s.SlotDate != nil {
		return Schedule{Kind: ScheduleDateSpecific, Date: *s.SlotDate}
	}
	if s.DayOfWeek != nil {
		return Schedule{Kind: ScheduleWeekly, Weekday: time.Weekday(*s.DayOfWeek)}
	}
	return Schedule{Kind: ScheduleDaily}
}

// Matches reports whether the schedule covers the given date.
func (sch Schedule) Matches(date time.Time) bool {
	switch sch.Kind {
	case ScheduleDateSpecific:
		return sch.Date.Format("2006-01-02") == date.Format("2006-01-02")
	case ScheduleWeekly:
		return sch.Weekday == date.Weekday()
	default:
		return true
	}
}
