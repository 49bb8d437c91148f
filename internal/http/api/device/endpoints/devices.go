// Package endpoints implements the device-facing BYOS API: the three
// endpoints a display polls over its lifetime (setup, display, log).
package endpoints

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Driftline-Labs/papercast/internal/byos"
	"github.com/Driftline-Labs/papercast/internal/db"
	"github.com/Driftline-Labs/papercast/internal/http/api"
	"github.com/Driftline-Labs/papercast/internal/model"
)

type DeviceController struct {
	store   db.Store
	baseURL string
}

func NewDeviceController(store db.Store, baseURL string) *DeviceController {
	return &DeviceController{store: store, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// DeviceModule mounts the BYOS protocol endpoints.
func DeviceModule(store db.Store, baseURL string) api.Module {
	ctl := NewDeviceController(store, baseURL)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/setup", ctl.setup)
		c.PUBLIC_GET("/display", ctl.display)
		c.PUBLIC_POST("/log", ctl.deviceLog)
	})
}

// GET /api/setup
func (d *DeviceController) setup(ctx *gin.Context) (any, *api.APIError) {
	info := byos.DeviceInfoFromHeader(ctx.Request.Header)

	device, err := d.registerDevice(info)
	if err != nil {
		log.Error().Err(err).Str("mac", info.MACAddress).Msg("failed to register device")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not register device"}
	}

	log.Info().Str("mac", info.MACAddress).Str("friendly_id", device.FriendlyID).Msg("device setup")
	return byos.SetupResponse{
		APIKey:     device.APIKey,
		FriendlyID: device.FriendlyID,
		ImageURL:   fmt.Sprintf("%s/uploads/setup.png", d.baseURL),
		Message:    "Welcome to papercast",
	}, nil
}

// registerDevice returns the device row for a MAC, creating it on first
// contact. Devices that skip /api/setup and go straight to /api/display
// are registered the same way.
func (d *DeviceController) registerDevice(info byos.DeviceInfo) (*model.Device, error) {
	device, err := d.store.GetDeviceByMAC(info.MACAddress)
	if err != nil {
		return nil, err
	}
	if device != nil {
		return device, nil
	}

	friendlyID := friendlyIDFor(info)
	created, err := d.store.CreateDevice(info.MACAddress, friendlyID, uuid.NewString())
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func friendlyIDFor(info byos.DeviceInfo) string {
	suffix := strings.ToLower(strings.ReplaceAll(info.ShortID(), ":", ""))
	if suffix == "" {
		suffix = "unknown"
	}
	return "papercast-" + suffix
}
