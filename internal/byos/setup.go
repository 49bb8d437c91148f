package byos

// SetupResponse is the body for GET /api/setup, served when a device first
// connects. The device stores the api_key and friendly_id it receives.
type SetupResponse struct {
	APIKey     string `json:"api_key"`
	FriendlyID string `json:"friendly_id"`
	ImageURL   string `json:"image_url"`
	Message    string `json:"message"`
}

// NewSetupResponse builds a setup response with the default "byos" API key,
// which is sufficient when the server does not track per-device keys.
func NewSetupResponse(friendlyID, imageURL, message string) SetupResponse {
	return SetupResponse{
		APIKey:     "byos",
		FriendlyID: friendlyID,
		ImageURL:   imageURL,
		Message:    message,
	}
}
