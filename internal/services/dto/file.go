package dto

import "io"

// UploadFileRequest is the upload-intake payload assembled by the handler
// from a multipart form.
type UploadFileRequest struct {
	UserID       *string
	OriginalName string
	Size         int64
	ContentType  string // client-declared, re-sniffed server-side
	Reader       io.Reader
}

// ReassignFileRequest is the admin override payload.
type ReassignFileRequest struct {
	OrderID string `json:"order_id" binding:"required"`
}

// CleanupReport is the result of one garbage-collection sweep.
type CleanupReport struct {
	Scanned int      `json:"scanned"`
	Deleted int      `json:"deleted"`
	Errors  []string `json:"errors"`
}

// ReconcileReport is the result of one reconciliation run.
type ReconcileReport struct {
	ClassAFixed int `json:"class_a_fixed"`
	ClassBFixed int `json:"class_b_fixed"`
}
