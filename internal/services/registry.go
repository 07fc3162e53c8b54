package services

import (
	"printshop_backend/internal/notifier"
	"printshop_backend/internal/repositories"
	"printshop_backend/internal/storage"
)

// ServiceContainer holds every service of the application.
type ServiceContainer struct {
	OrderService     OrderService
	FileService      FileService
	FileLinkService  FileLinkService
	CleanupService   CleanupService
	ReconcileService ReconcileService
	Notifier         notifier.Notifier
}

// NewServiceContainer wires repositories, storage and notifier into the
// service graph.
func NewServiceContainer(store storage.Storage, n notifier.Notifier, fileCfg FileServiceConfig) *ServiceContainer {
	orderRepo := repositories.NewOrderRepository()
	fileRepo := repositories.NewUploadedFileRepository()

	linkService := NewFileLinkService(fileRepo, orderRepo)

	return &ServiceContainer{
		OrderService:     NewOrderService(orderRepo, fileRepo, linkService, n),
		FileService:      NewFileService(fileRepo, store, fileCfg),
		FileLinkService:  linkService,
		CleanupService:   NewCleanupService(fileRepo, store),
		ReconcileService: NewReconcileService(orderRepo, fileRepo),
		Notifier:         n,
	}
}
