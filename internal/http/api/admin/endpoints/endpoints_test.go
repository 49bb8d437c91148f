package endpoints

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Driftline-Labs/papercast/internal/http/api"
	"github.com/Driftline-Labs/papercast/internal/model"
	"github.com/Driftline-Labs/papercast/internal/storage"
)

const testSecret = "test-secret"

type stubStore struct {
	devices []model.Device
	screens map[int]*model.Screen
	logs    []model.DeviceLogRecord
	users   map[string]*model.User
	nextID  int
}

func newStubStore() *stubStore {
	return &stubStore{
		screens: make(map[int]*model.Screen),
		users:   make(map[string]*model.User),
		nextID:  1,
	}
}

func (s *stubStore) CreateDevice(mac, friendlyID, apiKey string) (model.Device, error) {
	d := model.Device{ID: s.nextID, MACAddress: mac, FriendlyID: friendlyID, APIKey: apiKey, CreatedAt: time.Now()}
	s.nextID++
	s.devices = append(s.devices, d)
	return d, nil
}

func (s *stubStore) GetDeviceByMAC(mac string) (*model.Device, error) {
	for i := range s.devices {
		if s.devices[i].MACAddress == mac {
			return &s.devices[i], nil
		}
	}
	return nil, nil
}

func (s *stubStore) GetDeviceByID(id int) (*model.Device, error) {
	for i := range s.devices {
		if s.devices[i].ID == id {
			return &s.devices[i], nil
		}
	}
	return nil, nil
}

func (s *stubStore) ListDevices() ([]model.Device, error) {
	return s.devices, nil
}

func (s *stubStore) UpdateDeviceTelemetry(mac string, batteryVoltage *float64, rssi *int, firmwareVersion *string, refreshRate *int) error {
	return nil
}

func (s *stubStore) CreateDeviceLog(rec model.DeviceLogRecord) (int, error) {
	rec.ID = len(s.logs) + 1
	s.logs = append(s.logs, rec)
	return rec.ID, nil
}

func (s *stubStore) ListDeviceLogs(deviceID, limit int) ([]model.DeviceLogRecord, error) {
	var out []model.DeviceLogRecord
	for _, rec := range s.logs {
		if rec.DeviceID == deviceID && len(out) < limit {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *stubStore) GetScreenForDevice(deviceID int) (*model.Screen, error) {
	return s.screens[deviceID], nil
}

func (s *stubStore) SetScreenForDevice(deviceID int, imageURL, filename string) error {
	s.screens[deviceID] = &model.Screen{DeviceID: deviceID, ImageURL: imageURL, Filename: filename, UpdatedAt: time.Now()}
	return nil
}

func (s *stubStore) CreateUser(email, hashedPassword string, name *string) (int, error) {
	id := s.nextID
	s.nextID++
	s.users[email] = &model.User{ID: id, Email: email, HashedPassword: hashedPassword, Name: name}
	return id, nil
}

func (s *stubStore) GetUserByEmail(email string) (*model.User, error) {
	return s.users[email], nil
}

func (s *stubStore) GetUserByID(id int) (*model.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func newTestRouter(t *testing.T, store *stubStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()

	files := storage.NewLocalStorage(t.TempDir(), "http://byos.local")

	api.MountGroup(r, api.GroupConfig{Prefix: "/api/admin"},
		AuthPublicModule(testSecret, store),
	)
	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: testSecret,
		Store:     store,
	},
		AuthSessionModule(store),
		DeviceAdminModule(store),
		ScreenModule(store, files),
	)
	return r
}

func signupAndToken(t *testing.T, r *gin.Engine) string {
	t.Helper()
	body := `{"email":"ops@example.com","password":"hunter2hunter2"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/auth/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func authedRequest(r *gin.Engine, token, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, body)
		req.Header.Set("Content-Type", contentType)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSignupLoginProfile(t *testing.T) {
	store := newStubStore()
	r := newTestRouter(t, store)
	token := signupAndToken(t, r)

	// login with the same credentials
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/auth/login",
		strings.NewReader(`{"email":"ops@example.com","password":"hunter2hunter2"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// token grants access to the profile
	w = authedRequest(r, token, http.MethodGet, "/api/admin/auth/current_profile", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var profile struct {
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "ops@example.com", profile.Email)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	store := newStubStore()
	r := newTestRouter(t, store)
	signupAndToken(t, r)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/auth/login",
		strings.NewReader(`{"email":"ops@example.com","password":"wrong-password"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminEndpointsRequireToken(t *testing.T) {
	store := newStubStore()
	r := newTestRouter(t, store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/devices", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListDevicesIncludesBatteryPercentage(t *testing.T) {
	store := newStubStore()
	r := newTestRouter(t, store)
	token := signupAndToken(t, r)

	device, err := store.CreateDevice("AA:BB:CC:DD:EE:FF", "papercast-eff", "key")
	require.NoError(t, err)
	voltage := 3.6
	store.devices[0].BatteryVoltage = &voltage

	w := authedRequest(r, token, http.MethodGet, "/api/admin/devices", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var devices []struct {
		ID                int    `json:"id"`
		ShortID           string `json:"short_id"`
		BatteryPercentage *int   `json:"battery_percentage"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &devices))
	require.Len(t, devices, 1)
	assert.Equal(t, device.ID, devices[0].ID)
	assert.Equal(t, "E:FF", devices[0].ShortID)
	require.NotNil(t, devices[0].BatteryPercentage)
	assert.Equal(t, 50, *devices[0].BatteryPercentage)
}

func TestSetScreenAssignsImage(t *testing.T) {
	store := newStubStore()
	r := newTestRouter(t, store)
	token := signupAndToken(t, r)

	device, err := store.CreateDevice("AA:BB:CC:DD:EE:FF", "papercast-eff", "key")
	require.NoError(t, err)

	body := bytes.NewBufferString(`{"image_url":"http://byos.local/uploads/dash.png","filename":"dash_v2.png"}`)
	w := authedRequest(r, token, http.MethodPut,
		fmt.Sprintf("/api/admin/devices/%d/screen", device.ID), body, "application/json")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		DeviceID int    `json:"device_id"`
		ImageURL string `json:"image_url"`
		Filename string `json:"filename"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, device.ID, resp.DeviceID)
	assert.Equal(t, "http://byos.local/uploads/dash.png", resp.ImageURL)
	assert.Equal(t, "dash_v2.png", resp.Filename)

	screen := store.screens[device.ID]
	require.NotNil(t, screen)
	assert.Equal(t, "dash_v2.png", screen.Filename)
}

func TestSetScreenUnknownDevice(t *testing.T) {
	store := newStubStore()
	r := newTestRouter(t, store)
	token := signupAndToken(t, r)

	body := bytes.NewBufferString(`{"image_url":"http://byos.local/uploads/dash.png"}`)
	w := authedRequest(r, token, http.MethodPut, "/api/admin/devices/42/screen", body, "application/json")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadScreenStoresAndAssigns(t *testing.T) {
	store := newStubStore()
	r := newTestRouter(t, store)
	token := signupAndToken(t, r)

	device, err := store.CreateDevice("AA:BB:CC:DD:EE:FF", "papercast-eff", "key")
	require.NoError(t, err)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "dashboard screen.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := authedRequest(r, token, http.MethodPost,
		fmt.Sprintf("/api/admin/devices/%d/screen/upload", device.ID), &buf, mw.FormDataContentType())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	screen := store.screens[device.ID]
	require.NotNil(t, screen)
	assert.Contains(t, screen.ImageURL, "http://byos.local/uploads/")
	assert.Contains(t, screen.Filename, "dashboard_screen")
}

func TestListDeviceLogs(t *testing.T) {
	store := newStubStore()
	r := newTestRouter(t, store)
	token := signupAndToken(t, r)

	device, err := store.CreateDevice("AA:BB:CC:DD:EE:FF", "papercast-eff", "key")
	require.NoError(t, err)
	msg := "boot"
	_, err = store.CreateDeviceLog(model.DeviceLogRecord{DeviceID: device.ID, Message: &msg, Extra: []byte(`{"bootCount":3}`)})
	require.NoError(t, err)

	w := authedRequest(r, token, http.MethodGet,
		fmt.Sprintf("/api/admin/devices/%d/logs", device.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var logs []struct {
		Message *string         `json:"message"`
		Extra   json.RawMessage `json:"extra"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &logs))
	require.Len(t, logs, 1)
	require.NotNil(t, logs[0].Message)
	assert.Equal(t, "boot", *logs[0].Message)
	assert.JSONEq(t, `{"bootCount":3}`, string(logs[0].Extra))
}
