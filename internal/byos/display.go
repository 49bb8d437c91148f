package byos

import "strconv"

// DisplayResponse is the body for GET /api/display. The firmware fetches
// the image at ImageURL and compares Filename against the previous response
// to decide whether to redraw.
//
// Callers must keep Filename fresh: if it matches the previous poll the
// device skips the refresh even when the image content changed. Timestamped
// filenames are the usual fix.
type DisplayResponse struct {
	// Status is 0 on success, 1 on error.
	Status int `json:"status"`

	// ImageURL is the full URL to the screen image.
	ImageURL string `json:"image_url"`

	// Filename is the change-detection key described above.
	Filename *string `json:"filename,omitempty"`

	// UpdateFirmware triggers a firmware update when true.
	UpdateFirmware bool `json:"update_firmware"`

	// FirmwareURL points at the firmware binary; only set alongside
	// UpdateFirmware.
	FirmwareURL *string `json:"firmware_url,omitempty"`

	// RefreshRate in seconds. The firmware expects a string here.
	RefreshRate string `json:"refresh_rate"`

	// ResetFirmware factory-resets the device when true.
	ResetFirmware bool `json:"reset_firmware"`
}

// NewDisplayResponse builds a success response with the protocol defaults:
// status 0, 60 second refresh, no firmware actions.
func NewDisplayResponse(imageURL, filename string) DisplayResponse {
	return DisplayResponse{
		Status:      0,
		ImageURL:    imageURL,
		Filename:    &filename,
		RefreshRate: "60",
	}
}

// WithRefreshRate returns a copy with the refresh rate set, in seconds.
func (r DisplayResponse) WithRefreshRate(seconds int) DisplayResponse {
	r.RefreshRate = strconv.Itoa(seconds)
	return r
}

// WithFirmwareUpdate returns a copy instructing the device to flash the
// firmware at the given URL.
func (r DisplayResponse) WithFirmwareUpdate(firmwareURL string) DisplayResponse {
	r.UpdateFirmware = true
	r.FirmwareURL = &firmwareURL
	return r
}

// WithReset returns a copy that triggers a device reset.
func (r DisplayResponse) WithReset() DisplayResponse {
	r.ResetFirmware = true
	return r
}

// ErrorDisplayResponse builds the error response served when no screen can
// be produced: status 1, empty image URL, and a 300 second refresh rate so
// the device retries in five minutes instead of hammering the server.
func ErrorDisplayResponse() DisplayResponse {
	return DisplayResponse{
		Status:      1,
		ImageURL:    "",
		RefreshRate: "300",
	}
}
