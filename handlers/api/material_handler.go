package api

import (
	"mime/multipart"

	"etkinlik.link/configs/configslog"
	"etkinlik.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type MaterialHandler struct {
	materialService services.IMaterialService
}

func NewMaterialHandler(materialService services.IMaterialService) *MaterialHandler {
	return &MaterialHandler{materialService: materialService}
}

// List GET /api/events/:id/materials
func (h *MaterialHandler) List(c *fiber.Ctx) error {
	eventID, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	materials, err := h.materialService.List(c.UserContext(), actor(c), eventID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(materials)
}

// Create POST /api/events/:id/materials (multipart: name, file)
func (h *MaterialHandler) Create(c *fiber.Ctx) error {
	eventID, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	upload := services.MaterialUpload{Name: c.FormValue("name")}

	// Dosya yoksa servis "file field is required" doğrulama hatası döner.
	if header, err := c.FormFile("file"); err == nil {
		file, err := header.Open()
		if err != nil {
			return invalidBody(c, err)
		}
		defer closeFile(file)
		upload.Filename = header.Filename
		upload.ContentType = header.Header.Get(fiber.HeaderContentType)
		upload.Size = header.Size
		upload.Reader = file
	}

	material, err := h.materialService.Create(c.UserContext(), actor(c), eventID, upload)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(material)
}

// Delete DELETE /api/materials/:id
func (h *MaterialHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	if err := h.materialService.Delete(c.UserContext(), actor(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Download GET /api/materials/:id/download
// Dosya materyalin görünen adıyla ek olarak gönderilir.
func (h *MaterialHandler) Download(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return notFound(c)
	}
	download, err := h.materialService.Download(c.UserContext(), actor(c), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Attachment(download.Material.Name)
	if download.Material.FileType != nil {
		c.Set(fiber.HeaderContentType, *download.Material.FileType)
	} else {
		c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	}
	size := -1
	if download.Material.FileSize != nil {
		size = int(*download.Material.FileSize)
	}
	// fasthttp gövdeyi gönderdikten sonra io.Closer ise kendisi kapatır.
	return c.SendStream(download.Body, size)
}

func closeFile(f multipart.File) {
	if err := f.Close(); err != nil {
		configslog.Log.Warn("Yüklenen dosya kapatılamadı", zap.Error(err))
	}
}
