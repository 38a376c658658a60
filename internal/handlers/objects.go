package handlers

import (
	"errors"
	"io"
	"net/url"
	"strings"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/storage"
	"github.com/MariusZmr/STL-Library-Full-Stack/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

// ObjectsHandler serves blobs held by the in-memory store, standing in for
// the public bucket URL that MinIO or S3 would provide.
type ObjectsHandler struct {
	Store *storage.MemoryStore
}

func NewObjectsHandler(store *storage.MemoryStore) *ObjectsHandler {
	return &ObjectsHandler{Store: store}
}

func (h *ObjectsHandler) Get(c *fiber.Ctx) error {
	key, err := url.PathUnescape(c.Params("*"))
	if err != nil || key == "" || strings.Contains(key, "..") {
		return utils.Error(c, fiber.StatusBadRequest, "invalid object key")
	}

	content, err := h.Store.Download(c.UserContext(), key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "object not found")
		}
		return respondError(c, err, "object_read_failed", "failed reading object")
	}
	defer content.Close()

	data, err := io.ReadAll(content)
	if err != nil {
		return respondError(c, err, "object_read_failed", "failed reading object")
	}

	if contentType, ok := h.Store.ContentType(key); ok && contentType != "" {
		c.Set(fiber.HeaderContentType, contentType)
	}
	return c.Send(data)
}
