package endpoints

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Driftline-Labs/papercast/internal/byos"
	"github.com/Driftline-Labs/papercast/internal/http/api"
	"github.com/Driftline-Labs/papercast/internal/redis"
	"github.com/Driftline-Labs/papercast/internal/schedule"
)

// displayCacheTTL bounds how long a cached response can lag behind screen
// updates and schedule boundaries.
const displayCacheTTL = 30 * time.Second

// GET /api/display
//
// Always answers 200 with a DisplayResponse: when anything goes wrong the
// device gets the protocol-level error response (status 1, retry in 5
// minutes) instead of an HTTP error it would mishandle.
func (d *DeviceController) display(ctx *gin.Context) (any, *api.APIError) {
	info := byos.DeviceInfoFromHeader(ctx.Request.Header)
	redis.TouchLastSeen(ctx, info.MACAddress)

	// Telemetry is best effort; a storage hiccup must not block the poll.
	device, err := d.registerDevice(info)
	if err != nil {
		log.Error().Err(err).Str("mac", info.MACAddress).Msg("failed to load device")
		return byos.ErrorDisplayResponse(), nil
	}
	if err := d.store.UpdateDeviceTelemetry(info.MACAddress, info.BatteryVoltage, info.RSSI, info.FirmwareVersion, info.RefreshRate); err != nil {
		log.Warn().Err(err).Str("mac", info.MACAddress).Msg("failed to record telemetry")
	}

	if cached := redis.GetDisplayCache(ctx, info.MACAddress); cached != nil {
		return json.RawMessage(cached), nil
	}

	screen, err := d.store.GetScreenForDevice(device.ID)
	if err != nil {
		log.Error().Err(err).Str("mac", info.MACAddress).Msg("failed to load screen")
		return byos.ErrorDisplayResponse(), nil
	}
	if screen == nil {
		log.Debug().Str("mac", info.MACAddress).Msg("no screen assigned yet")
		return byos.ErrorDisplayResponse(), nil
	}

	resp := byos.NewDisplayResponse(screen.ImageURL, screen.Filename).
		WithRefreshRate(schedule.GlobalRate())

	if payload, err := json.Marshal(resp); err == nil {
		redis.SetDisplayCache(ctx, info.MACAddress, payload, displayCacheTTL)
	}
	return resp, nil
}
