package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Driftline-Labs/papercast/internal/auth"
	"github.com/Driftline-Labs/papercast/internal/db"
	"github.com/Driftline-Labs/papercast/internal/http/api"
	adminapi "github.com/Driftline-Labs/papercast/internal/http/api/admin/endpoints"
	deviceapi "github.com/Driftline-Labs/papercast/internal/http/api/device/endpoints"
	"github.com/Driftline-Labs/papercast/internal/storage"
)

// EnvDeviceToken names the env var holding the shared device access token.
// Unset means the device API is open.
const EnvDeviceToken = "PAPERCAST_DEVICE_TOKEN"

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, env Environment, store db.Store, storageSystem storage.Storage) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		ExposeHeaders: []string{
			"Content-Length",
		},
		AllowCredentials: false,
	}))

	// device-facing BYOS endpoints, token-gated when the env var is set
	api.MountGroup(r, api.GroupConfig{
		Prefix:     "/api",
		Middleware: []gin.HandlerFunc{auth.Middleware(EnvDeviceToken)},
	},
		deviceapi.DeviceModule(store, env.BaseURL),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
		Auth:   false,
	},
		adminapi.AuthPublicModule(env.SecretKey, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: env.SecretKey,
		Store:     store,
	},
		adminapi.AuthSessionModule(store),
		adminapi.DeviceAdminModule(store),
		adminapi.ScreenModule(store, storageSystem),
	)

	// Static content
	if !env.UseSpaces {
		r.Static("/uploads", "./uploads")
	}
}
