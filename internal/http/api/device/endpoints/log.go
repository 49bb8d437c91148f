package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Driftline-Labs/papercast/internal/byos"
	"github.com/Driftline-Labs/papercast/internal/http/api"
	"github.com/Driftline-Labs/papercast/internal/http/middleware"
	"github.com/Driftline-Labs/papercast/internal/model"
)

// POST /api/log
func (d *DeviceController) deviceLog(ctx *gin.Context) (any, *api.APIError) {
	var entry byos.LogEntry
	if err := ctx.ShouldBindJSON(&entry); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	info := byos.DeviceInfoFromHeader(ctx.Request.Header)
	device, err := d.registerDevice(info)
	if err != nil {
		log.Error().Err(err).Str("mac", info.MACAddress).Msg("failed to load device for log entry")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not store log entry"}
	}

	rec := model.DeviceLogRecord{
		DeviceID: device.ID,
		Message:  entry.LogMessage,
	}
	if stamp := entry.DeviceStatusStamp; stamp != nil {
		rec.BatteryVoltage = stamp.BatteryVoltage
		rec.WiFiRSSILevel = stamp.WiFiRSSILevel
		rec.RefreshRate = stamp.RefreshRate
		rec.FirmwareVersion = stamp.CurrentFWVersion
	}
	if len(entry.Extra) > 0 {
		if extra, err := json.Marshal(entry.Extra); err == nil {
			rec.Extra = extra
		}
	}

	if _, err := d.store.CreateDeviceLog(rec); err != nil {
		log.Error().Err(err).Str("mac", info.MACAddress).Msg("failed to store log entry")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not store log entry"}
	}

	middleware.PublishDeviceStatus(info, entry)
	return byos.OKLogResponse(), nil
}
