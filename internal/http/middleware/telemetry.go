package middleware

import (
	"encoding/json"
	"fmt"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/Driftline-Labs/papercast/internal/byos"
)

// MQTT bridge for device telemetry: every log entry a display posts is
// republished on papercast/devices/<short-id>/status so home-automation
// systems can watch battery and signal levels without polling this server.

var (
	telemetryMu     sync.RWMutex
	telemetryClient mqtt.Client
)

var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("connected to MQTT broker")
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Warn().Err(err).Msg("MQTT connection lost")
}

// InitTelemetry connects the telemetry publisher to the broker. Telemetry
// is optional; when this is never called, PublishDeviceStatus is a no-op.
func InitTelemetry(brokerURL string) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID("papercast-server")
	opts.SetAutoReconnect(true)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	telemetryMu.Lock()
	telemetryClient = client
	telemetryMu.Unlock()
	return nil
}

// telemetryStatus is the published payload shape.
type telemetryStatus struct {
	MACAddress        string   `json:"mac_address"`
	BatteryVoltage    *float64 `json:"battery_voltage,omitempty"`
	BatteryPercentage *int     `json:"battery_percentage,omitempty"`
	RSSI              *int     `json:"rssi,omitempty"`
	FirmwareVersion   *string  `json:"firmware_version,omitempty"`
	RefreshRate       *int     `json:"refresh_rate,omitempty"`
	LogMessage        *string  `json:"log_message,omitempty"`
}

// PublishDeviceStatus republishes a device's reported status over MQTT.
// Errors are logged, never propagated: telemetry must not affect the
// device-facing request.
func PublishDeviceStatus(info byos.DeviceInfo, entry byos.LogEntry) {
	telemetryMu.RLock()
	client := telemetryClient
	telemetryMu.RUnlock()
	if client == nil {
		return
	}

	status := telemetryStatus{
		MACAddress:      info.MACAddress,
		BatteryVoltage:  info.BatteryVoltage,
		RSSI:            info.RSSI,
		FirmwareVersion: info.FirmwareVersion,
		RefreshRate:     info.RefreshRate,
		LogMessage:      entry.LogMessage,
	}
	if pct, ok := info.BatteryPercentage(); ok {
		status.BatteryPercentage = &pct
	}
	// Prefer the richer snapshot in the log entry when present.
	if stamp := entry.DeviceStatusStamp; stamp != nil {
		if stamp.BatteryVoltage != nil {
			status.BatteryVoltage = stamp.BatteryVoltage
			pct := byos.BatteryPercentage(int(*stamp.BatteryVoltage * 1000))
			status.BatteryPercentage = &pct
		}
		if stamp.WiFiRSSILevel != nil {
			status.RSSI = stamp.WiFiRSSILevel
		}
		if stamp.RefreshRate != nil {
			status.RefreshRate = stamp.RefreshRate
		}
		if stamp.CurrentFWVersion != nil {
			status.FirmwareVersion = stamp.CurrentFWVersion
		}
	}

	payload, err := json.Marshal(status)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode telemetry payload")
		return
	}

	topic := fmt.Sprintf("papercast/devices/%s/status", info.ShortID())
	token := client.Publish(topic, 1, true, payload)
	token.Wait()
	if token.Error() != nil {
		log.Warn().Err(token.Error()).Str("topic", topic).Msg("failed to publish telemetry")
	}
}

// CleanupTelemetry disconnects the MQTT client on shutdown.
func CleanupTelemetry() {
	telemetryMu.Lock()
	defer telemetryMu.Unlock()
	if telemetryClient != nil {
		telemetryClient.Disconnect(250)
		telemetryClient = nil
	}
}
