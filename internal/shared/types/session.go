package types

import "time"

// WindowSnapshot captures one window's geometry for session restore
type WindowSnapshot struct {
	AppID     string         `json:"app_id"`
	Position  WindowPosition `json:"position"`
	Size      WindowSize     `json:"size"`
	ZIndex    int            `json:"z_index"`
	Minimized bool           `json:"minimized"`
	Maximized bool           `json:"maximized"`
	Focused   bool           `json:"focused"`
}

// Session is a saved workspace: every open window plus which one held
// focus at capture time.
type Session struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Windows   []WindowSnapshot `json:"windows"`
}

// SessionMetadata is the listing view of a session
type SessionMetadata struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	WindowCount int       `json:"window_count"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToMetadata extracts listing metadata from a session
func (s *Session) ToMetadata() SessionMetadata {
	return SessionMetadata{
		ID:          s.ID,
		Name:        s.Name,
		WindowCount: len(s.Windows),
		UpdatedAt:   s.UpdatedAt,
	}
}
