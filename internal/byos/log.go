package byos

import "encoding/json"

// LogEntry is the body of POST /api/log. The firmware sends debug messages
// and periodic status snapshots; newer firmware adds fields this server has
// never heard of, so unknown top-level keys are kept verbatim in Extra and
// survive a round trip.
type LogEntry struct {
	LogMessage        *string            `json:"logMessage,omitempty"`
	DeviceStatusStamp *DeviceStatusStamp `json:"deviceStatusStamp,omitempty"`

	// Extra holds any top-level fields not modeled above, untouched.
	Extra map[string]json.RawMessage `json:"-"`
}

// DeviceStatusStamp is the status snapshot embedded in log entries. Unlike
// the camelCase envelope, its inner fields are snake_case.
type DeviceStatusStamp struct {
	BatteryVoltage   *float64 `json:"battery_voltage,omitempty"`
	WiFiRSSILevel    *int     `json:"wifi_rssi_level,omitempty"`
	RefreshRate      *int     `json:"refresh_rate,omitempty"`
	CurrentFWVersion *string  `json:"current_fw_version,omitempty"`
}

// UnmarshalJSON pulls out the known fields and stashes everything else in
// Extra.
func (e *LogEntry) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*e = LogEntry{}
	if raw, ok := fields["logMessage"]; ok {
		if err := json.Unmarshal(raw, &e.LogMessage); err != nil {
			return err
		}
		delete(fields, "logMessage")
	}
	if raw, ok := fields["deviceStatusStamp"]; ok {
		if err := json.Unmarshal(raw, &e.DeviceStatusStamp); err != nil {
			return err
		}
		delete(fields, "deviceStatusStamp")
	}
	if len(fields) > 0 {
		e.Extra = fields
	}
	return nil
}

// MarshalJSON reassembles the envelope, putting Extra fields back at the
// top level.
func (e LogEntry) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(e.Extra)+2)
	for k, v := range e.Extra {
		fields[k] = v
	}
	if e.LogMessage != nil {
		raw, err := json.Marshal(e.LogMessage)
		if err != nil {
			return nil, err
		}
		fields["logMessage"] = raw
	}
	if e.DeviceStatusStamp != nil {
		raw, err := json.Marshal(e.DeviceStatusStamp)
		if err != nil {
			return nil, err
		}
		fields["deviceStatusStamp"] = raw
	}
	return json.Marshal(fields)
}

// LogResponse is the body returned for POST /api/log.
type LogResponse struct {
	Status string `json:"status"`
}

// OKLogResponse acknowledges a log entry.
func OKLogResponse() LogResponse {
	return LogResponse{Status: "ok"}
}
