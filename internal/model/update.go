package model

import "time"

// Update is the NEWS_UPDATED message announced to display clients.
type Update struct {
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
	Articles  []Article `json:"articles" yaml:"articles"`
}
