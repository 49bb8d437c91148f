// Package db exposes a Store interface over the PostgreSQL tables so
// handlers never touch SQL directly.
package db

import (
	"github.com/jmoiron/sqlx"

	"github.com/Driftline-Labs/papercast/internal/model"
)

type Store interface {
	// device functions
	CreateDevice(mac, friendlyID, apiKey string) (model.Device, error)
	GetDeviceByMAC(mac string) (*model.Device, error)
	GetDeviceByID(id int) (*model.Device, error)
	ListDevices() ([]model.Device, error)
	UpdateDeviceTelemetry(mac string, batteryVoltage *float64, rssi *int, firmwareVersion *string, refreshRate *int) error

	// device log functions
	CreateDeviceLog(rec model.DeviceLogRecord) (int, error)
	ListDeviceLogs(deviceID, limit int) ([]model.DeviceLogRecord, error)

	// screen functions
	GetScreenForDevice(deviceID int) (*model.Screen, error)
	SetScreenForDevice(deviceID int, imageURL, filename string) error

	// user functions
	CreateUser(email, hashedPassword string, name *string) (int, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore() Store {
	return &pgStore{db: DB}
}
