package endpoints

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Driftline-Labs/papercast/internal/byos"
	"github.com/Driftline-Labs/papercast/internal/db"
	"github.com/Driftline-Labs/papercast/internal/http/api"
	"github.com/Driftline-Labs/papercast/internal/http/api/admin/packets"
	"github.com/Driftline-Labs/papercast/internal/model"
)

type DeviceAdminController struct {
	store db.Store
}

func NewDeviceAdminController(store db.Store) *DeviceAdminController {
	return &DeviceAdminController{store: store}
}

// DeviceAdminModule mounts the device fleet endpoints.
func DeviceAdminModule(store db.Store) api.Module {
	ctl := NewDeviceAdminController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/devices", ctl.listDevices)
		c.GET("/devices/:id/logs", ctl.listDeviceLogs)
	})
}

func (d *DeviceAdminController) listDevices(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	devices, err := d.store.ListDevices()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list devices"}
	}

	response := make([]packets.DeviceResponse, 0, len(devices))
	for _, dev := range devices {
		response = append(response, deviceResponse(dev))
	}
	return response, nil
}

// GET /api/admin/devices/:id/logs
func (d *DeviceAdminController) listDeviceLogs(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	device, apiErr := deviceFromPath(ctx, d.store)
	if apiErr != nil {
		return nil, apiErr
	}

	limit := 100
	if raw := ctx.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	logs, err := d.store.ListDeviceLogs(device.ID, limit)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to list logs"}
	}

	response := make([]packets.DeviceLogResponse, 0, len(logs))
	for _, rec := range logs {
		response = append(response, packets.DeviceLogResponse{
			ID:              rec.ID,
			Message:         rec.Message,
			BatteryVoltage:  rec.BatteryVoltage,
			WiFiRSSILevel:   rec.WiFiRSSILevel,
			RefreshRate:     rec.RefreshRate,
			FirmwareVersion: rec.FirmwareVersion,
			Extra:           rec.Extra,
			CreatedAt:       rec.CreatedAt.Format(time.RFC3339),
		})
	}
	return response, nil
}

func deviceResponse(dev model.Device) packets.DeviceResponse {
	info := byos.DeviceInfo{MACAddress: dev.MACAddress, BatteryVoltage: dev.BatteryVoltage}

	resp := packets.DeviceResponse{
		ID:              dev.ID,
		MACAddress:      dev.MACAddress,
		ShortID:         info.ShortID(),
		FriendlyID:      dev.FriendlyID,
		BatteryVoltage:  dev.BatteryVoltage,
		RSSI:            dev.RSSI,
		FirmwareVersion: dev.FirmwareVersion,
		RefreshRate:     dev.RefreshRate,
		CreatedAt:       dev.CreatedAt.Format(time.RFC3339),
	}
	if pct, ok := info.BatteryPercentage(); ok {
		resp.BatteryPercentage = &pct
	}
	if dev.LastSeenAt != nil {
		seen := dev.LastSeenAt.Format(time.RFC3339)
		resp.LastSeenAt = &seen
	}
	return resp
}
