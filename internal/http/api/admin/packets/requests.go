package packets

type SignupRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Name     *string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SetScreenRequest assigns an already-hosted image to a device.
type SetScreenRequest struct {
	ImageURL string  `json:"image_url" binding:"required,url"`
	Filename *string `json:"filename"`
}
