package models

import "time"

// WorkItem is one typed record returned by the work-item data source.
type WorkItem struct {
	ID             int      `json:"id" db:"id"`
	Title          string   `json:"title" db:"title"`
	State          string   `json:"state" db:"state"`
	WorkItemType   string   `json:"workItemType" db:"work_item_type"`
	AssignedTo     string   `json:"assignedTo,omitempty" db:"assigned_to"`
	Project        string   `json:"project,omitempty" db:"project"`
	Tags           []string `json:"tags,omitempty" db:"-"`
	CompletedHours *float64 `json:"completedHours,omitempty" db:"completed_hours"`
	CreatedDate    string   `json:"createdDate,omitempty" db:"created_date"`
	ChangedDate    string   `json:"changedDate,omitempty" db:"changed_date"`
}

// HoursOrZero treats an absent completed-work field as zero hours.
func (w WorkItem) HoursOrZero() float64 {
	if w.CompletedHours == nil {
		return 0
	}
	return *w.CompletedHours
}

// ChangedDay returns the YYYY-MM-DD part of the changed date.
func (w WorkItem) ChangedDay() string {
	if len(w.ChangedDate) >= 10 {
		return w.ChangedDate[:10]
	}
	return w.ChangedDate
}

// WorkItemFilter is the structured query expression accepted by the
// data-source capability. Zero values mean "no filter on this field".
type WorkItemFilter struct {
	Project      string    `json:"project,omitempty"`
	AssignedTo   string    `json:"assignedTo,omitempty"`
	State        string    `json:"state,omitempty"`
	WorkItemType string    `json:"workItemType,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	ChangedAfter time.Time `json:"changedAfter,omitempty"`
	ChangedUntil time.Time `json:"changedUntil,omitempty"`
	Limit        int       `json:"limit,omitempty"`
}
