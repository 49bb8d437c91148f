package byos

import (
	"encoding/json"
	"testing"
)

func TestLogEntryParsing(t *testing.T) {
	body := `{"logMessage": "wifi reconnect", "deviceStatusStamp": {"battery_voltage": 4.1, "wifi_rssi_level": -60}}`

	var entry LogEntry
	if err := json.Unmarshal([]byte(body), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry.LogMessage == nil || *entry.LogMessage != "wifi reconnect" {
		t.Errorf("log message = %v", entry.LogMessage)
	}
	stamp := entry.DeviceStatusStamp
	if stamp == nil {
		t.Fatal("device status stamp missing")
	}
	if stamp.BatteryVoltage == nil || *stamp.BatteryVoltage != 4.1 {
		t.Errorf("battery voltage = %v", stamp.BatteryVoltage)
	}
	if stamp.WiFiRSSILevel == nil || *stamp.WiFiRSSILevel != -60 {
		t.Errorf("rssi = %v", stamp.WiFiRSSILevel)
	}
}

func TestLogEntryExtraRoundTrip(t *testing.T) {
	body := `{"logMessage":"boot","bootCount":17,"panic":{"reason":"oom"}}`

	var entry LogEntry
	if err := json.Unmarshal([]byte(body), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(entry.Extra) != 2 {
		t.Fatalf("extra = %v, want 2 fields", entry.Extra)
	}

	out, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var reparsed LogEntry
	if err := json.Unmarshal(out, &reparsed); err != nil {
		t.Fatalf("re-unmarshal: %v", err)
	}
	if reparsed.LogMessage == nil || *reparsed.LogMessage != "boot" {
		t.Errorf("log message lost: %v", reparsed.LogMessage)
	}
	if string(reparsed.Extra["bootCount"]) != "17" {
		t.Errorf("bootCount lost: %s", reparsed.Extra["bootCount"])
	}
	if string(reparsed.Extra["panic"]) != `{"reason":"oom"}` {
		t.Errorf("panic lost: %s", reparsed.Extra["panic"])
	}
}

func TestLogEntryEmpty(t *testing.T) {
	var entry LogEntry
	if err := json.Unmarshal([]byte(`{}`), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry.LogMessage != nil || entry.DeviceStatusStamp != nil || entry.Extra != nil {
		t.Errorf("empty entry has fields: %+v", entry)
	}
}

func TestLogResponse(t *testing.T) {
	data, _ := json.Marshal(OKLogResponse())
	if string(data) != `{"status":"ok"}` {
		t.Errorf("log response = %s", data)
	}
}

func TestSetupResponse(t *testing.T) {
	resp := NewSetupResponse("papercast-ab12", "https://example.com/setup.png", "Welcome!")
	data, _ := json.Marshal(resp)
	body := string(data)
	if body != `{"api_key":"byos","friendly_id":"papercast-ab12","image_url":"https://example.com/setup.png","message":"Welcome!"}` {
		t.Errorf("setup response = %s", body)
	}
}
