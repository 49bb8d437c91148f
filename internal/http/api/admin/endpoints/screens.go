package endpoints

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Driftline-Labs/papercast/internal/db"
	"github.com/Driftline-Labs/papercast/internal/http/api"
	"github.com/Driftline-Labs/papercast/internal/http/api/admin/packets"
	"github.com/Driftline-Labs/papercast/internal/model"
	"github.com/Driftline-Labs/papercast/internal/redis"
	"github.com/Driftline-Labs/papercast/internal/storage"
)

type ScreenController struct {
	store db.Store
	files storage.Storage
}

func NewScreenController(store db.Store, files storage.Storage) *ScreenController {
	return &ScreenController{store: store, files: files}
}

// ScreenModule mounts screen assignment endpoints under /devices/:id.
func ScreenModule(store db.Store, files storage.Storage) api.Module {
	ctl := NewScreenController(store, files)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/devices/:id/screen", ctl.getScreen)
		c.PUT("/devices/:id/screen", ctl.setScreen)
		c.POST("/devices/:id/screen/upload", ctl.uploadScreen)
	})
}

// GET /api/admin/devices/:id/screen
func (s *ScreenController) getScreen(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	device, apiErr := deviceFromPath(ctx, s.store)
	if apiErr != nil {
		return nil, apiErr
	}

	screen, err := s.store.GetScreenForDevice(device.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to load screen"}
	}
	if screen == nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "no screen assigned"}
	}
	return screenResponse(*screen), nil
}

// PUT /api/admin/devices/:id/screen assigns an already-hosted image.
func (s *ScreenController) setScreen(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	device, apiErr := deviceFromPath(ctx, s.store)
	if apiErr != nil {
		return nil, apiErr
	}

	var request packets.SetScreenRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	filename := storage.NormalizeFilename("screen.png")
	if request.Filename != nil && *request.Filename != "" {
		filename = *request.Filename
	}
	return s.assign(ctx, device, request.ImageURL, filename)
}

// POST /api/admin/devices/:id/screen/upload stores an uploaded image and
// assigns it in one call.
func (s *ScreenController) uploadScreen(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	device, apiErr := deviceFromPath(ctx, s.store)
	if apiErr != nil {
		return nil, apiErr
	}

	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "missing image file"}
	}

	filename := storage.NormalizeFilename(fileHeader.Filename)
	imageURL, err := s.files.SaveFile(fileHeader, filename)
	if err != nil {
		log.Error().Err(err).Str("filename", filename).Msg("failed to store uploaded screen")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to store image"}
	}
	return s.assign(ctx, device, imageURL, filename)
}

func (s *ScreenController) assign(ctx *gin.Context, device *model.Device, imageURL, filename string) (any, *api.APIError) {
	if err := s.store.SetScreenForDevice(device.ID, imageURL, filename); err != nil {
		log.Error().Err(err).Int("device_id", device.ID).Msg("failed to assign screen")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to assign screen"}
	}

	// the cached display response is now stale
	redis.InvalidateDisplayCache(ctx.Request.Context(), device.MACAddress)

	screen, err := s.store.GetScreenForDevice(device.ID)
	if err != nil || screen == nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to load screen"}
	}
	log.Info().Int("device_id", device.ID).Str("image_url", imageURL).Msg("screen assigned")
	return screenResponse(*screen), nil
}

func deviceFromPath(ctx *gin.Context, store db.Store) (*model.Device, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid device id"}
	}

	device, err := store.GetDeviceByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "failed to load device"}
	}
	if device == nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "device not found"}
	}
	return device, nil
}

func screenResponse(screen model.Screen) packets.ScreenResponse {
	return packets.ScreenResponse{
		DeviceID:  screen.DeviceID,
		ImageURL:  screen.ImageURL,
		Filename:  screen.Filename,
		UpdatedAt: screen.UpdatedAt.Format(time.RFC3339),
	}
}
