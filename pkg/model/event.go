package model

import "time"

// Event is a listed event. Slug, Date and Time are derived on write: the slug
// from Title, Date as YYYY-MM-DD and Time as 24-hour HH:MM.
type Event struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Title       string    `json:"title" bson:"title" validate:"notblank"`
	Slug        string    `json:"slug" bson:"slug"`
	Description string    `json:"description" bson:"description" validate:"notblank"`
	Overview    string    `json:"overview" bson:"overview" validate:"notblank"`
	Image       string    `json:"image" bson:"image" validate:"notblank"`
	Venue       string    `json:"venue" bson:"venue" validate:"notblank"`
	Location    string    `json:"location" bson:"location" validate:"notblank"`
	Date        string    `json:"date" bson:"date" validate:"notblank"`
	Time        string    `json:"time" bson:"time" validate:"notblank"`
	Mode        string    `json:"mode" bson:"mode" validate:"notblank,event_mode"`
	Audience    string    `json:"audience" bson:"audience" validate:"notblank"`
	Agenda      []string  `json:"agenda" bson:"agenda" validate:"min=1,dive,notblank"`
	Organizer   string    `json:"organizer" bson:"organizer" validate:"notblank"`
	Tags        []string  `json:"tags" bson:"tags" validate:"min=1,dive,notblank"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// EventUpdate carries a partial update. Nil fields are left untouched.
type EventUpdate struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Overview    *string   `json:"overview,omitempty"`
	Image       *string   `json:"image,omitempty"`
	Venue       *string   `json:"venue,omitempty"`
	Location    *string   `json:"location,omitempty"`
	Date        *string   `json:"date,omitempty"`
	Time        *string   `json:"time,omitempty"`
	Mode        *string   `json:"mode,omitempty"`
	Audience    *string   `json:"audience,omitempty"`
	Agenda      *[]string `json:"agenda,omitempty"`
	Organizer   *string   `json:"organizer,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

// Apply returns a copy of e with the non-nil fields of u applied.
func (u *EventUpdate) Apply(e *Event) *Event {
	merged := *e
	merged.Agenda = append([]string(nil), e.Agenda...)
	merged.Tags = append([]string(nil), e.Tags...)
	if u == nil {
		return &merged
	}

	setString(&merged.Title, u.Title)
	setString(&merged.Description, u.Description)
	setString(&merged.Overview, u.Overview)
	setString(&merged.Image, u.Image)
	setString(&merged.Venue, u.Venue)
	setString(&merged.Location, u.Location)
	setString(&merged.Date, u.Date)
	setString(&merged.Time, u.Time)
	setString(&merged.Mode, u.Mode)
	setString(&merged.Audience, u.Audience)
	setString(&merged.Organizer, u.Organizer)
	if u.Agenda != nil {
		merged.Agenda = append([]string(nil), (*u.Agenda)...)
	}
	if u.Tags != nil {
		merged.Tags = append([]string(nil), (*u.Tags)...)
	}
	return &merged
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
