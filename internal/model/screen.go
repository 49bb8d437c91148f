package model

import "time"

// Screen is the content currently assigned to a device: the image it should
// fetch and the filename used for change detection.
type Screen struct {
	ID        int       `db:"id" json:"id"`
	DeviceID  int       `db:"device_id" json:"device_id"`
	ImageURL  string    `db:"image_url" json:"image_url"`
	Filename  string    `db:"filename" json:"filename"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
