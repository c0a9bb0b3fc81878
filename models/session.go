package models

import "time"

// Session is the per-visitor state carried between renders. Nothing in it is
// shared with other sessions.
type Session struct {
	ID string `json:"id"`

	// Filters is nil until the visitor changes the sidebar, meaning "everything".
	Filters *FilterSelection `json:"filters,omitempty"`

	Form       PredictionRequest `json:"form"`
	Prediction *float64          `json:"prediction,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession returns a fresh session with the default prediction form.
func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		Form:      DefaultPredictionRequest(),
		UpdatedAt: time.Now(),
	}
}

// Clone returns a deep copy so stores never hand out shared pointers.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.Filters != nil {
		f := FilterSelection{
			OrderTypes: append([]string(nil), s.Filters.OrderTypes...),
			APINames:   append([]string(nil), s.Filters.APINames...),
		}
		c.Filters = &f
	}
	if s.Prediction != nil {
		p := *s.Prediction
		c.Prediction = &p
	}
	return &c
}
