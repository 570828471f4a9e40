package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"asset-backend/internal/middleware"
	"asset-backend/internal/models"
	"asset-backend/internal/repositories"
	"asset-backend/internal/storage"
	"asset-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// maxAttachmentSize caps uploads at 20 MiB.
const maxAttachmentSize = 20 << 20

const downloadURLTTL = 15 * time.Minute

type AttachmentHandler struct {
	Attachments *repositories.AttachmentRepository
	Assets      *repositories.AssetRepository
	Store       *storage.ObjectStore
}

func NewAttachmentHandler(
	attachments *repositories.AttachmentRepository,
	assets *repositories.AssetRepository,
	store *storage.ObjectStore,
) *AttachmentHandler {
	return &AttachmentHandler{Attachments: attachments, Assets: assets, Store: store}
}

// Upload receives a multipart file and stores it under the asset.
func (h *AttachmentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		utils.Error(w, http.StatusServiceUnavailable, "Attachment storage is not configured")
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	assetID := mux.Vars(r)["id"]

	asset, err := h.Assets.Get(r.Context(), assetID)
	if err != nil {
		respondError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAttachmentSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "A 'file' form field is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	attachment := &models.AssetAttachment{
		ID:          uuid.NewString(),
		AssetID:     asset.ID,
		FileName:    filepath.Base(header.Filename),
		ContentType: contentType,
		SizeBytes:   header.Size,
		UploadedBy:  userID,
	}
	attachment.StorageKey = fmt.Sprintf("assets/%s/%s-%s", asset.ID, attachment.ID, attachment.FileName)

	if err := h.Store.Put(r.Context(), attachment.StorageKey, contentType, file, header.Size); err != nil {
		respondError(w, err)
		return
	}
	if err := h.Attachments.Create(r.Context(), attachment); err != nil {
		// Orphaned object; best effort cleanup
		h.Store.Delete(r.Context(), attachment.StorageKey)
		respondError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, attachment)
}

func (h *AttachmentHandler) List(w http.ResponseWriter, r *http.Request) {
	attachments, err := h.Attachments.ListForAsset(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, attachments)
}

// Download redirects to a short-lived presigned URL.
func (h *AttachmentHandler) Download(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		utils.Error(w, http.StatusServiceUnavailable, "Attachment storage is not configured")
		return
	}
	attachment, err := h.Attachments.Get(r.Context(), mux.Vars(r)["attachmentId"])
	if err != nil {
		respondError(w, err)
		return
	}
	url, err := h.Store.PresignGet(r.Context(), attachment.StorageKey, downloadURLTTL)
	if err != nil {
		respondError(w, err)
		return
	}
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (h *AttachmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	attachment, err := h.Attachments.Get(r.Context(), mux.Vars(r)["attachmentId"])
	if err != nil {
		respondError(w, err)
		return
	}
	if h.Store != nil {
		if err := h.Store.Delete(r.Context(), attachment.StorageKey); err != nil {
			respondError(w, err)
			return
		}
	}
	if err := h.Attachments.Delete(r.Context(), attachment.ID); err != nil {
		respondError(w, err)
		return
	}
	utils.JSON(w, http.StatusNoContent, nil)
}
