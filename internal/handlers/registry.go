package handlers

import (
	"printshop_backend/internal/config"
	"printshop_backend/internal/services"
	"printshop_backend/internal/storage"
)

// AppHandlers groups all HTTP handlers for route registration.
type AppHandlers struct {
	OrderHandler  *OrderHandler
	FileHandler   *FileHandler
	UploadHandler *UploadHandler
	AdminHandler  *AdminHandler
}

func NewAppHandlers(container *services.ServiceContainer, store storage.Storage, cfg *config.Config) *AppHandlers {
	base := NewBaseHandler()

	return &AppHandlers{
		OrderHandler:  NewOrderHandler(base, container.OrderService),
		FileHandler:   NewFileHandler(base, container.FileService, store),
		UploadHandler: NewUploadHandler(base, container.FileService),
		AdminHandler: NewAdminHandler(base,
			container.FileLinkService,
			container.CleanupService,
			container.ReconcileService,
			cfg),
	}
}
