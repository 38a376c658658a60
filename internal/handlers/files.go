package handlers

import (
	"fmt"
	"strings"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/config"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/services"
	"github.com/MariusZmr/STL-Library-Full-Stack/pkg/logger"
	"github.com/MariusZmr/STL-Library-Full-Stack/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type FilesHandler struct {
	Catalogue *services.CatalogueService
	Config    config.CatalogueConfig
}

func NewFilesHandler(catalogue *services.CatalogueService, cfg config.CatalogueConfig) *FilesHandler {
	return &FilesHandler{Catalogue: catalogue, Config: cfg}
}

type updateFileRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Description *string `json:"description"`
}

func (h *FilesHandler) List(c *fiber.Ctx) error {
	p := utils.ParsePagination(c, h.Config.PageSize, h.Config.AllowClientLimit)

	page, err := h.Catalogue.List(c.UserContext(), services.CatalogueQuery{
		Page:   p.Page,
		Limit:  p.Limit,
		Search: strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		return respondError(c, err, "list_files_failed", "failed listing files")
	}
	return utils.Success(c, fiber.StatusOK, page)
}

func (h *FilesHandler) Get(c *fiber.Ctx) error {
	fileID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid file id")
	}

	file, err := h.Catalogue.Get(c.UserContext(), fileID)
	if err != nil {
		return respondError(c, err, "get_file_failed", "failed loading file")
	}
	return utils.Success(c, fiber.StatusOK, file)
}

func (h *FilesHandler) Download(c *fiber.Ctx) error {
	fileID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid file id")
	}

	file, content, err := h.Catalogue.Open(c.UserContext(), fileID)
	if err != nil {
		return respondError(c, err, "download_file_failed", "failed downloading file")
	}

	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.FileName))
	return c.SendStream(content, int(file.Size))
}

func (h *FilesHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "file is required")
	}

	content, err := fileHeader.Open()
	if err != nil {
		return respondError(c, err, "upload_open_failed", "failed reading upload")
	}
	defer content.Close()

	actor := actorFrom(c)
	file, err := h.Catalogue.Upload(c.UserContext(), actor, services.UploadInput{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		FileName:    fileHeader.Filename,
		Size:        fileHeader.Size,
		Content:     content,
		Thumbnail:   c.FormValue("thumbnail"),
	})
	if err != nil {
		return respondError(c, err, "upload_failed", "failed uploading file")
	}

	logger.InfoWithUser(actor.ID.String(), "file_uploaded", map[string]interface{}{
		"file_id":   file.ID.String(),
		"file_name": file.FileName,
		"size":      file.Size,
	})
	return utils.Success(c, fiber.StatusCreated, file)
}

func (h *FilesHandler) Update(c *fiber.Ctx) error {
	fileID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid file id")
	}

	var req updateFileRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validateRequest(&req); err != nil {
		return respondError(c, err, "update_file_failed", "failed updating file")
	}

	actor := actorFrom(c)
	file, err := h.Catalogue.Update(c.UserContext(), actor, fileID, services.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return respondError(c, err, "update_file_failed", "failed updating file")
	}

	logger.InfoWithUser(actor.ID.String(), "file_updated", map[string]interface{}{
		"file_id": file.ID.String(),
	})
	return utils.Success(c, fiber.StatusOK, file)
}

func (h *FilesHandler) Delete(c *fiber.Ctx) error {
	fileID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid file id")
	}

	actor := actorFrom(c)
	if err := h.Catalogue.Delete(c.UserContext(), actor, fileID); err != nil {
		return respondError(c, err, "delete_file_failed", "failed deleting file")
	}

	logger.InfoWithUser(actor.ID.String(), "file_deleted", map[string]interface{}{
		"file_id": fileID.String(),
	})
	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "file deleted"})
}
