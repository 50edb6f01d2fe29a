package api

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cameronc-hrs/veripost/app/copilot"
	"github.com/cameronc-hrs/veripost/app/database"
	"github.com/cameronc-hrs/veripost/app/ingest"
	"github.com/cameronc-hrs/veripost/app/parsing"
	"github.com/cameronc-hrs/veripost/app/storage"
	"github.com/cameronc-hrs/veripost/app/tasks"
	"github.com/cameronc-hrs/veripost/app/upg"
)

type Handler struct {
	packageRepo database.PackageRepository
	fileRepo    database.FileRepository
	store       storage.ObjectStore
	registry    *parsing.Registry
	copilot     *copilot.Copilot
	scheduler   tasks.TaskSchedulerInterface
	machine     *ingest.Machine
}

func NewHandler(packageRepo database.PackageRepository, fileRepo database.FileRepository,
	store storage.ObjectStore, registry *parsing.Registry, pilot *copilot.Copilot,
	scheduler tasks.TaskSchedulerInterface, machine *ingest.Machine) *Handler {
	return &Handler{
		packageRepo: packageRepo,
		fileRepo:    fileRepo,
		store:       store,
		registry:    registry,
		copilot:     pilot,
		scheduler:   scheduler,
		machine:     machine,
	}
}

// UploadPackage accepts a ZIP archive of a UPG post processor package.
// Contents are validated up front (all violations collected), bytes are
// stored and records created synchronously, and ingestion is handed to
// the background queue. Responds 202 with the id to poll.
func (h *Handler) UploadPackage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Please upload a .zip file containing your post processor package.",
			Detail:  "No file was provided in the request.",
			Code:    "INVALID_FILE_TYPE",
		})
		return
	}

	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".zip") {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Please upload a .zip file containing your post processor package.",
			Detail:  fmt.Sprintf("Received file: %q", fileHeader.Filename),
			Code:    "INVALID_FILE_TYPE",
		})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "The uploaded file could not be read.",
			Detail:  err.Error(),
			Code:    "INVALID_FILE_TYPE",
		})
		return
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "The uploaded file could not be read.",
			Detail:  err.Error(),
			Code:    "INVALID_FILE_TYPE",
		})
		return
	}

	if validationErrors := upg.ValidateArchive(content); len(validationErrors) > 0 {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: "The ZIP file could not be accepted.",
			Detail:  strings.Join(validationErrors, "\n"),
			Code:    "INVALID_ZIP_CONTENTS",
		})
		return
	}

	extracted, err := upg.Extract(content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to extract the archive.",
			Detail:  err.Error(),
			Code:    "EXTRACTION_FAILED",
		})
		return
	}

	packageID := uuid.New().String()
	prefix := storage.PrefixForPackage(packageID)
	name := upg.DeriveName(extracted, strings.TrimSuffix(fileHeader.Filename, ".zip"))
	platform := h.detectPlatform(extracted)

	ctx := c.Request.Context()

	pkg := &database.Package{
		ID:            packageID,
		Name:          name,
		Platform:      platform,
		Status:        database.StatusPending,
		StoragePrefix: prefix,
	}
	if err := h.packageRepo.CreatePackage(ctx, pkg); err != nil {
		slog.Error("Database error", "operation", "create_package", "package", packageID, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to register the package.",
			Code:    "DATABASE_ERROR",
		})
		return
	}

	for _, ef := range extracted {
		key := prefix + ef.Name

		if err := h.store.Put(ctx, key, ef.Data); err != nil {
			slog.Error("Storage error", "operation", "put", "key", key, "error", err)
			c.JSON(http.StatusBadGateway, ErrorResponse{
				Message: "File storage is temporarily unavailable.",
				Detail:  err.Error(),
				Code:    "STORAGE_UNAVAILABLE",
			})
			return
		}

		digest := sha256.Sum256(ef.Data)
		record := &database.File{
			ID:            uuid.New().String(),
			PackageID:     packageID,
			Filename:      ef.Name,
			FileExtension: upg.Extension(ef.Name),
			StorageKey:    key,
			SizeBytes:     int64(len(ef.Data)),
			ContentHash:   hex.EncodeToString(digest[:]),
		}
		if err := h.fileRepo.CreateFile(ctx, record); err != nil {
			slog.Error("Database error", "operation", "create_file", "package", packageID, "file", ef.Name, "error", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Message: "Failed to register a package file.",
				Code:    "DATABASE_ERROR",
			})
			return
		}
	}

	task := tasks.NewIngestPackageTask(packageID, h.machine)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Failed to enqueue ingestion task", "package", packageID, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to schedule package ingestion.",
			Detail:  err.Error(),
			Code:    "QUEUE_ERROR",
		})
		return
	}

	c.JSON(http.StatusAccepted, UploadResponse{
		PackageID: packageID,
		JobID:     task.ID,
		Status:    database.StatusPending,
	})
}

// detectPlatform sniffs the anchor .SRC content through the registry;
// unrecognized content falls back to camworks.
func (h *Handler) detectPlatform(files []upg.ExtractedFile) string {
	for _, ef := range files {
		if upg.Extension(ef.Name) != upg.AnchorExtension {
			continue
		}
		if p, ok := h.registry.Detect(upg.DecodeText(ef.Data)); ok {
			return p.Platform()
		}
		break
	}
	return parsing.PlatformCAMWorks
}

func (h *Handler) ListPackages(c *gin.Context) {
	packages, err := h.packageRepo.ListPackages(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "list_packages", "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to list packages.",
			Code:    "DATABASE_ERROR",
		})
		return
	}

	out := make([]PackageResponse, 0, len(packages))
	for i := range packages {
		out = append(out, packageResponse(&packages[i]))
	}

	c.JSON(http.StatusOK, PackageListResponse{Packages: out, Count: len(out)})
}

func (h *Handler) GetPackage(c *gin.Context) {
	pkg, ok := h.loadPackage(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, packageResponse(pkg))
}

// GetPackageStatus is the polling endpoint clients hit until the package
// reaches a terminal state.
func (h *Handler) GetPackageStatus(c *gin.Context) {
	pkg, ok := h.loadPackage(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, StatusResponse{
		PackageID:    pkg.ID,
		Status:       pkg.Status,
		ErrorMessage: pkg.ErrorMessage,
		ErrorDetail:  pkg.ErrorDetail,
		FileCount:    pkg.FileCount,
		SectionCount: pkg.SectionCount,
	})
}

// DownloadFile streams a stored file's bytes. The file must belong to the
// named package; cross-package lookups are not-found, never a leak.
func (h *Handler) DownloadFile(c *gin.Context) {
	pkg, ok := h.loadPackage(c)
	if !ok {
		return
	}

	file, err := h.fileRepo.GetFile(c.Request.Context(), pkg.ID, c.Param("file_id"))
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "File not found in package.",
			Detail:  fmt.Sprintf("No file %q exists in package %q", c.Param("file_id"), pkg.ID),
			Code:    "NOT_FOUND",
		})
		return
	}
	if err != nil {
		slog.Error("Database error", "operation", "get_file", "package", pkg.ID, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to look up the file.",
			Code:    "DATABASE_ERROR",
		})
		return
	}

	data, err := h.store.Get(c.Request.Context(), file.StorageKey)
	if err != nil {
		slog.Error("Storage error", "operation", "get", "key", file.StorageKey, "error", err)
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Message: "File storage is temporarily unavailable.",
			Detail:  err.Error(),
			Code:    "STORAGE_UNAVAILABLE",
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, "application/octet-stream", data)
}

// AnalyzePackage parses the package's anchor .SRC file fresh from storage
// and, when a question is supplied, layers a copilot answer on top.
func (h *Handler) AnalyzePackage(c *gin.Context) {
	pkg, ok := h.loadPackage(c)
	if !ok {
		return
	}

	var req AnalyzeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid request body.",
				Detail:  err.Error(),
				Code:    "INVALID_REQUEST",
			})
			return
		}
	}

	ctx := c.Request.Context()

	files, err := h.fileRepo.ListFiles(ctx, pkg.ID)
	if err != nil {
		slog.Error("Database error", "operation", "list_files", "package", pkg.ID, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to list package files.",
			Code:    "DATABASE_ERROR",
		})
		return
	}

	var anchor *database.File
	for i := range files {
		if files[i].FileExtension == upg.AnchorExtension {
			anchor = &files[i]
			break
		}
	}
	if anchor == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Package has no source file to analyze.",
			Detail:  fmt.Sprintf("No %s file recorded for package %q", upg.AnchorExtension, pkg.ID),
			Code:    "NOT_FOUND",
		})
		return
	}

	data, err := h.store.Get(ctx, anchor.StorageKey)
	if err != nil {
		slog.Error("Storage error", "operation", "get", "key", anchor.StorageKey, "error", err)
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Message: "File storage is temporarily unavailable.",
			Detail:  err.Error(),
			Code:    "STORAGE_UNAVAILABLE",
		})
		return
	}

	parser, err := h.registry.Get(pkg.Platform)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "The package's platform has no parser.",
			Detail:  err.Error(),
			Code:    "UNKNOWN_PLATFORM",
		})
		return
	}

	text := upg.DecodeText(data)
	parsed := parser.Parse(text, pkg.ID)

	resp := AnalyzeResponse{Parsed: parsed}
	if req.Question != "" {
		resp.Answer = h.copilot.Ask(ctx, text, req.Question, pkg.Platform)
	}

	c.JSON(http.StatusOK, resp)
}

// DeletePackage removes the stored bytes first, then the record; file
// rows cascade with the package.
func (h *Handler) DeletePackage(c *gin.Context) {
	pkg, ok := h.loadPackage(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	if err := h.store.DeletePrefix(ctx, pkg.StoragePrefix); err != nil {
		slog.Error("Storage error", "operation", "delete_prefix", "prefix", pkg.StoragePrefix, "error", err)
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Message: "File storage is temporarily unavailable.",
			Detail:  err.Error(),
			Code:    "STORAGE_UNAVAILABLE",
		})
		return
	}

	if err := h.packageRepo.DeletePackage(ctx, pkg.ID); err != nil && !errors.Is(err, database.ErrNotFound) {
		slog.Error("Database error", "operation", "delete_package", "package", pkg.ID, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to delete the package.",
			Code:    "DATABASE_ERROR",
		})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"service":   "veripost",
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if packages, err := h.packageRepo.ListPackages(c.Request.Context()); err == nil {
		health["packages"] = len(packages)
	}

	c.JSON(http.StatusOK, health)
}

// loadPackage resolves the :id route parameter, writing the 404 response
// itself when the package does not exist.
func (h *Handler) loadPackage(c *gin.Context) (*database.Package, bool) {
	id := c.Param("id")

	pkg, err := h.packageRepo.GetPackage(c.Request.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Package not found.",
			Detail:  fmt.Sprintf("No package exists with ID %q", id),
			Code:    "NOT_FOUND",
		})
		return nil, false
	}
	if err != nil {
		slog.Error("Database error", "operation", "get_package", "package", id, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to look up the package.",
			Code:    "DATABASE_ERROR",
		})
		return nil, false
	}

	return pkg, true
}
