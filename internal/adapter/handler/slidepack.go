package handler

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/slidecast-team/slidecast/errors"
	slidepackDTO "github.com/slidecast-team/slidecast/internal/adapter/dto/slidepack"
	"github.com/slidecast-team/slidecast/internal/adapter/presenter"
	"github.com/slidecast-team/slidecast/internal/domain/entities"
	"github.com/slidecast-team/slidecast/internal/domain/repositories"
	"github.com/slidecast-team/slidecast/internal/usecase/catalog"
	jobUsecase "github.com/slidecast-team/slidecast/internal/usecase/job"
	"github.com/slidecast-team/slidecast/pkg/pairing"
)

const presignExpiry = time.Hour

// SlidePack handles slide pack HTTP requests
type SlidePack struct {
	orchestrator *jobUsecase.Orchestrator
	catalog      *catalog.Service
	store        AudioUploader
	logger       *zap.Logger
}

// AudioUploader is the blob storage surface the handlers use
type AudioUploader interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

// NewSlidePackHandler creates a slide pack handler
func NewSlidePackHandler(orchestrator *jobUsecase.Orchestrator, catalogService *catalog.Service, store AudioUploader, logger *zap.Logger) *SlidePack {
	return &SlidePack{
		orchestrator: orchestrator,
		catalog:      catalogService,
		store:        store,
		logger:       logger,
	}
}

// Generate handles POST /slidepacks/generate
// @Summary      Generate a slide pack from audio and an outline
// @Description  Uploads a lecture recording plus an authored outline and enqueues a generate job. The pack starts in processing; poll it for completion.
// @Tags         SlidePacks
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        audio      formData  file    true   "Lecture audio file"
// @Param        outline    formData  file    false  "Outline text file (alternative to outline_text)"
// @Param        outline_text formData string false  "Outline text (alternative to outline file)"
// @Param        title      formData  string  false  "Pack title (defaults to the audio file name)"
// @Param        course_id  formData  string  false  "Course to append the pack to"
// @Success      202  {object}  slidepack.SubmitResponse  "Job accepted"
// @Failure      400  {object}  map[string]interface{}  "Invalid request"
// @Failure      409  {object}  map[string]interface{}  "Pack already has a job in flight"
// @Router       /slidepacks/generate [post]
func (h *SlidePack) Generate(c echo.Context) error {
	audioHeader, err := c.FormFile("audio")
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("audio file is required"))
	}

	outlineText, err := h.readOutline(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if strings.TrimSpace(outlineText) == "" {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("outline or outline_text is required"))
	}

	courseID, err := optionalCourseID(c.FormValue("course_id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	title := c.FormValue("title")
	if title == "" {
		title = pairing.Stem(audioHeader.Filename)
	}

	audioObject, err := h.storeAudio(c, audioHeader)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	job, pack, err := h.orchestrator.Submit(c.Request().Context(), jobUsecase.SubmitInput{
		Kind:     entities.JobKindGenerate,
		Title:    title,
		CourseID: courseID,
		Payload: entities.JobPayload{
			AudioObject: audioObject,
			OutlineText: outlineText,
		},
	})
	if err != nil {
		return HandleError(h.logger, c, translateError(err, "course"))
	}

	return HandleSuccess(h.logger, c, http.StatusAccepted, submitResponse(job, pack))
}

// Sync handles POST /slidepacks/sync
// @Summary      Sync an authored deck against new audio
// @Description  Uploads audio plus a slides.json manifest and enqueues a sync job that re-times the manifest's slides against the audio. Cards are carried over unchanged.
// @Tags         SlidePacks
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        audio     formData  file    true   "Lecture audio file"
// @Param        manifest  formData  file    true   "slides.json manifest"
// @Param        title     formData  string  false  "Pack title (defaults to the manifest title)"
// @Param        course_id formData  string  false  "Course to append the pack to"
// @Success      202  {object}  slidepack.SubmitResponse  "Job accepted"
// @Failure      400  {object}  map[string]interface{}  "Invalid request"
// @Router       /slidepacks/sync [post]
func (h *SlidePack) Sync(c echo.Context) error {
	audioHeader, err := c.FormFile("audio")
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("audio file is required"))
	}

	manifest, err := h.readManifest(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	courseID, err := optionalCourseID(c.FormValue("course_id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	title := c.FormValue("title")
	if title == "" {
		title = manifest.Metadata.Title
	}
	if title == "" {
		title = pairing.Stem(audioHeader.Filename)
	}

	audioObject, err := h.storeAudio(c, audioHeader)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	job, pack, err := h.orchestrator.Submit(c.Request().Context(), jobUsecase.SubmitInput{
		Kind:     entities.JobKindSync,
		Title:    title,
		CourseID: courseID,
		Payload: entities.JobPayload{
			AudioObject: audioObject,
			Manifest:    manifest,
		},
	})
	if err != nil {
		return HandleError(h.logger, c, translateError(err, "course"))
	}

	return HandleSuccess(h.logger, c, http.StatusAccepted, submitResponse(job, pack))
}

// Resync handles POST /slidepacks/:id/sync
// @Summary      Re-time an existing pack against new audio
// @Description  Uploads replacement audio for a completed pack and enqueues a sync job. The pack's slide content is kept; timing and audio are replaced, and the new slides get fresh ids.
// @Tags         SlidePacks
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true  "Slide pack ID (UUID)"
// @Param        audio  formData  file    true  "Replacement audio file"
// @Success      202  {object}  slidepack.SubmitResponse  "Job accepted"
// @Failure      404  {object}  map[string]interface{}  "Pack not found"
// @Failure      409  {object}  map[string]interface{}  "Pack already has a job in flight"
// @Router       /slidepacks/{id}/sync [post]
func (h *SlidePack) Resync(c echo.Context) error {
	packID, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	audioHeader, err := c.FormFile("audio")
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("audio file is required"))
	}

	audioObject, err := h.storeAudio(c, audioHeader)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	job, pack, err := h.orchestrator.Submit(c.Request().Context(), jobUsecase.SubmitInput{
		Kind:         entities.JobKindSync,
		TargetPackID: &packID,
		Payload: entities.JobPayload{
			AudioObject: audioObject,
		},
	})
	if err != nil {
		return HandleError(h.logger, c, translateError(err, "slide pack"))
	}

	return HandleSuccess(h.logger, c, http.StatusAccepted, submitResponse(job, pack))
}

// Import handles POST /slidepacks/import
// @Summary      Import an already-timed pack
// @Description  Uploads audio plus a fully timed slides.json manifest and persists them as a completed pack synchronously. No transcription or alignment runs.
// @Tags         SlidePacks
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        audio     formData  file    true   "Pack audio file"
// @Param        manifest  formData  file    true   "slides.json manifest with timestamps"
// @Param        title     formData  string  false  "Pack title (defaults to the manifest title)"
// @Param        course_id formData  string  false  "Course to append the pack to"
// @Success      200  {object}  slidepack.ImportResponse  "Pack imported"
// @Failure      400  {object}  map[string]interface{}  "Invalid request"
// @Router       /slidepacks/import [post]
func (h *SlidePack) Import(c echo.Context) error {
	audioHeader, err := c.FormFile("audio")
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("audio file is required"))
	}

	manifest, err := h.readManifest(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	courseID, err := optionalCourseID(c.FormValue("course_id"))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	title := c.FormValue("title")
	if title == "" {
		title = manifest.Metadata.Title
	}
	if title == "" {
		title = pairing.Stem(audioHeader.Filename)
	}

	audioObject, err := h.storeAudio(c, audioHeader)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	_, pack, err := h.orchestrator.SubmitInline(c.Request().Context(), jobUsecase.SubmitInput{
		Kind:     entities.JobKindImport,
		Title:    title,
		CourseID: courseID,
		Payload: entities.JobPayload{
			AudioObject: audioObject,
			Manifest:    manifest,
		},
	})
	if err != nil {
		return HandleError(h.logger, c, translateError(err, "course"))
	}

	audioURL, err := h.store.PresignedURL(c.Request().Context(), pack.AudioObject, presignExpiry)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrStorageFailed(err))
	}

	return HandleSuccess(h.logger, c, http.StatusOK, &slidepackDTO.ImportResponse{
		SlidePackID: pack.ID.String(),
		AudioURL:    audioURL,
	})
}

// UploadBatch handles POST /slidepacks/upload-batch
// @Summary      Batch-generate packs from paired files
// @Description  Accepts a set of audio and outline text files, pairs them by file name stem, creates a course and enqueues one generate job per pair. Unpaired files are reported, not processed.
// @Tags         SlidePacks
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        files         formData  file    true  "Audio and outline files (repeatable)"
// @Param        course_title  formData  string  true  "Title of the course to create"
// @Success      202  {object}  slidepack.BatchResponse  "Jobs accepted"
// @Failure      400  {object}  map[string]interface{}  "No valid pairs found"
// @Router       /slidepacks/upload-batch [post]
func (h *SlidePack) UploadBatch(c echo.Context) error {
	courseTitle := c.FormValue("course_title")
	if courseTitle == "" {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("course_title is required"))
	}

	form, err := c.MultipartForm()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload(err))
	}
	files := form.File["files"]
	if len(files) == 0 {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("at least one file is required"))
	}

	byName := make(map[string]*multipart.FileHeader, len(files))
	var audioNames, textNames []string
	for _, f := range files {
		name := filepath.Base(f.Filename)
		byName[name] = f
		if isAudioName(name) {
			audioNames = append(audioNames, name)
		} else {
			textNames = append(textNames, name)
		}
	}

	matched := pairing.Match(audioNames, textNames)
	if len(matched.Pairs) == 0 {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("no audio/outline pairs found"))
	}

	course, err := h.catalog.CreateCourse(c.Request().Context(), courseTitle)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	resp := &slidepackDTO.BatchResponse{
		CourseID:   course.ID.String(),
		PairsCount: len(matched.Pairs),
	}
	resp.OrphanedFiles = append(resp.OrphanedFiles, matched.OrphanedAudio...)
	resp.OrphanedFiles = append(resp.OrphanedFiles, matched.OrphanedText...)

	for _, pair := range matched.Pairs {
		outlineText, err := readFormFile(byName[pair.TextName])
		if err != nil {
			h.logger.Warn("⚠️ Batch pair skipped, outline unreadable",
				zap.String("file", pair.TextName), zap.Error(err))
			continue
		}

		audioObject, err := h.storeAudio(c, byName[pair.AudioName])
		if err != nil {
			h.logger.Warn("⚠️ Batch pair skipped, audio upload failed",
				zap.String("file", pair.AudioName), zap.Error(err))
			continue
		}

		job, pack, err := h.orchestrator.Submit(c.Request().Context(), jobUsecase.SubmitInput{
			Kind:     entities.JobKindGenerate,
			Title:    pair.Stem,
			CourseID: &course.ID,
			Payload: entities.JobPayload{
				AudioObject: audioObject,
				OutlineText: string(outlineText),
			},
		})
		if err != nil {
			h.logger.Warn("⚠️ Batch pair skipped, job submission failed",
				zap.String("stem", pair.Stem), zap.Error(err))
			continue
		}

		resp.Submitted = append(resp.Submitted, *submitResponse(job, pack))
	}

	return HandleSuccess(h.logger, c, http.StatusAccepted, resp)
}

// Merge handles POST /slidepacks/merge
// @Summary      Merge completed packs
// @Description  Enqueues a merge job that concatenates the audio of two or more completed packs in the given order and re-bases their slide timestamps into one new pack. Source packs are left untouched.
// @Tags         SlidePacks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      slidepack.MergeRequest  true  "Merge request"
// @Success      202  {object}  slidepack.SubmitResponse  "Job accepted"
// @Failure      400  {object}  map[string]interface{}  "Invalid merge input"
// @Router       /slidepacks/merge [post]
func (h *SlidePack) Merge(c echo.Context) error {
	var req slidepackDTO.MergeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	packIDs := make([]uuid.UUID, 0, len(req.PackIDs))
	for _, raw := range req.PackIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("pack_ids must be valid UUIDs"))
		}
		packIDs = append(packIDs, id)
	}

	job, pack, err := h.orchestrator.Submit(c.Request().Context(), jobUsecase.SubmitInput{
		Kind:  entities.JobKindMerge,
		Title: req.Title,
		Payload: entities.JobPayload{
			MergeTitle:   req.Title,
			MergePackIDs: packIDs,
		},
	})
	if err != nil {
		return HandleError(h.logger, c, translateError(err, "slide pack"))
	}

	return HandleSuccess(h.logger, c, http.StatusAccepted, submitResponse(job, pack))
}

// List handles GET /slidepacks
// @Summary      List slide packs
// @Description  Gets a paginated pack listing with optional course and status filters. Listings omit slides, cards and audio URLs.
// @Tags         SlidePacks
// @Produce      json
// @Security     BearerAuth
// @Param        course_id  query     string  false  "Filter by course"
// @Param        status     query     string  false  "Filter by status (processing/completed/failed)"
// @Param        page       query     int     false  "Page number (default: 1)"
// @Param        page_size  query     int     false  "Items per page (default: 20)"
// @Success      200  {object}  slidepack.SlidePackListResponse  "Pack listing"
// @Router       /slidepacks [get]
func (h *SlidePack) List(c echo.Context) error {
	var req slidepackDTO.ListPacksRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	filters := repositories.SlidePackFilters{
		Limit:  req.PageSize,
		Offset: (req.Page - 1) * req.PageSize,
	}
	if req.CourseID != nil {
		id, err := uuid.Parse(*req.CourseID)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("course_id must be a valid UUID"))
		}
		filters.CourseID = &id
	}
	if req.Status != nil {
		status := entities.SlidePackStatus(*req.Status)
		filters.Status = &status
	}

	packs, total, err := h.catalog.ListPacks(c.Request().Context(), filters)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToSlidePackListResponse(packs, total, req.Page, req.PageSize))
}

// Get handles GET /slidepacks/:id
// @Summary      Get a slide pack
// @Description  Gets a pack with its slides and cards. Completed packs include a time-limited presigned audio URL; failed packs include their error detail.
// @Tags         SlidePacks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Slide pack ID (UUID)"
// @Success      200  {object}  slidepack.SlidePackResponse  "Pack details"
// @Failure      404  {object}  map[string]interface{}  "Pack not found"
// @Router       /slidepacks/{id} [get]
func (h *SlidePack) Get(c echo.Context) error {
	packID, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	pack, err := h.catalog.GetPack(c.Request().Context(), packID)
	if err != nil {
		return HandleError(h.logger, c, translateError(err, "slide pack"))
	}

	audioURL := ""
	if pack.IsCompleted() && pack.AudioObject != "" {
		audioURL, err = h.store.PresignedURL(c.Request().Context(), pack.AudioObject, presignExpiry)
		if err != nil {
			return HandleError(h.logger, c, errors.ErrStorageFailed(err))
		}
	}

	return HandleSuccess(h.logger, c, http.StatusOK, presenter.ToSlidePackResponse(pack, audioURL))
}

// Rename handles PATCH /slidepacks/:id
// @Summary      Rename a slide pack
// @Tags         SlidePacks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string  true  "Slide pack ID (UUID)"
// @Param        request  body      slidepack.RenameRequest  true  "New title"
// @Success      200  {object}  map[string]interface{}  "Renamed"
// @Failure      404  {object}  map[string]interface{}  "Pack not found"
// @Router       /slidepacks/{id} [patch]
func (h *SlidePack) Rename(c echo.Context) error {
	packID, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req slidepackDTO.RenameRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.catalog.RenamePack(c.Request().Context(), packID, req.Title); err != nil {
		return HandleError(h.logger, c, translateError(err, "slide pack"))
	}

	return HandleSuccess(h.logger, c, http.StatusOK, nil)
}

// ReplaceCards handles PUT /slidepacks/:id/cards
// @Summary      Replace a pack's card list
// @Description  Replaces the entire card list of a completed pack after validating every card. Slide timing is untouched.
// @Tags         SlidePacks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string  true  "Slide pack ID (UUID)"
// @Param        request  body      slidepack.ReplaceCardsRequest  true  "Full card list"
// @Success      200  {object}  map[string]interface{}  "Cards replaced"
// @Failure      400  {object}  map[string]interface{}  "Card validation failed"
// @Router       /slidepacks/{id}/cards [put]
func (h *SlidePack) ReplaceCards(c echo.Context) error {
	packID, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req slidepackDTO.ReplaceCardsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	cards := presenter.CardsFromPayload(req.Cards)
	if err := h.catalog.ReplaceCards(c.Request().Context(), packID, cards); err != nil {
		return HandleError(h.logger, c, translateError(err, "slide pack"))
	}

	return HandleSuccess(h.logger, c, http.StatusOK, nil)
}

// Move handles POST /slidepacks/:id/move
// @Summary      Move a pack to a course
// @Description  Reassigns a pack to another course, appending it at the end of the course's order. A null course_id detaches the pack.
// @Tags         SlidePacks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string  true  "Slide pack ID (UUID)"
// @Param        request  body      slidepack.MoveRequest  true  "Target course"
// @Success      200  {object}  map[string]interface{}  "Moved"
// @Failure      404  {object}  map[string]interface{}  "Pack or course not found"
// @Router       /slidepacks/{id}/move [post]
func (h *SlidePack) Move(c echo.Context) error {
	packID, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req slidepackDTO.MoveRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	courseID, err := optionalCourseID(valueOrEmpty(req.CourseID))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.catalog.MovePack(c.Request().Context(), packID, courseID); err != nil {
		return HandleError(h.logger, c, translateError(err, "slide pack"))
	}

	return HandleSuccess(h.logger, c, http.StatusOK, nil)
}

// Delete handles DELETE /slidepacks/:id
// @Summary      Delete a slide pack
// @Description  Deletes a pack with its slides and cards. The stored audio object is kept.
// @Tags         SlidePacks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Slide pack ID (UUID)"
// @Success      200  {object}  map[string]interface{}  "Deleted"
// @Failure      404  {object}  map[string]interface{}  "Pack not found"
// @Router       /slidepacks/{id} [delete]
func (h *SlidePack) Delete(c echo.Context) error {
	packID, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.catalog.DeletePack(c.Request().Context(), packID); err != nil {
		return HandleError(h.logger, c, translateError(err, "slide pack"))
	}

	return HandleSuccess(h.logger, c, http.StatusOK, nil)
}

// ExportManifest handles GET /slidepacks/:id/manifest
// @Summary      Export a pack as slides.json
// @Description  Renders a completed pack in the slides.json manifest shape, suitable for re-import.
// @Tags         SlidePacks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Slide pack ID (UUID)"
// @Success      200  {object}  entities.PresentationManifest  "Manifest"
// @Failure      400  {object}  map[string]interface{}  "Pack not completed"
// @Failure      404  {object}  map[string]interface{}  "Pack not found"
// @Router       /slidepacks/{id}/manifest [get]
func (h *SlidePack) ExportManifest(c echo.Context) error {
	packID, err := parseUUIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	manifest, err := h.catalog.ExportManifest(c.Request().Context(), packID)
	if err != nil {
		return HandleError(h.logger, c, translateError(err, "slide pack"))
	}

	return c.JSON(http.StatusOK, manifest)
}

// storeAudio uploads a multipart audio file under a fresh object key
func (h *SlidePack) storeAudio(c echo.Context, header *multipart.FileHeader) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", errors.ErrInvalidPayload(err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = ".mp3"
	}
	objectName := fmt.Sprintf("audio/%s%s", uuid.New().String(), ext)

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}

	if err := h.store.Upload(c.Request().Context(), objectName, src, header.Size, contentType); err != nil {
		return "", errors.ErrStorageFailed(err)
	}
	return objectName, nil
}

// readOutline reads the outline from either the outline file or the
// outline_text form field
func (h *SlidePack) readOutline(c echo.Context) (string, error) {
	if header, err := c.FormFile("outline"); err == nil {
		data, err := readFormFile(header)
		if err != nil {
			return "", errors.ErrInvalidPayload(err)
		}
		return string(data), nil
	}
	return c.FormValue("outline_text"), nil
}

// readManifest reads and parses the manifest form file
func (h *SlidePack) readManifest(c echo.Context) (*entities.PresentationManifest, error) {
	header, err := c.FormFile("manifest")
	if err != nil {
		return nil, errors.ErrInvalidArgument("manifest file is required")
	}
	data, err := readFormFile(header)
	if err != nil {
		return nil, errors.ErrInvalidPayload(err)
	}
	manifest, err := entities.ParseManifest(data)
	if err != nil {
		return nil, errors.ErrInvalidPayload(err)
	}
	return manifest, nil
}

func readFormFile(header *multipart.FileHeader) ([]byte, error) {
	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return io.ReadAll(src)
}

func submitResponse(job *entities.Job, pack *entities.SlidePack) *slidepackDTO.SubmitResponse {
	return &slidepackDTO.SubmitResponse{
		SlidePackID: pack.ID.String(),
		JobID:       job.ID.String(),
		Status:      string(job.Status),
	}
}

func optionalCourseID(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, errors.ErrInvalidArgument("course_id must be a valid UUID")
	}
	return &id, nil
}

func valueOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var audioExtensions = map[string]struct{}{
	".mp3": {}, ".m4a": {}, ".wav": {}, ".ogg": {}, ".flac": {}, ".aac": {},
}

func isAudioName(name string) bool {
	_, ok := audioExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}
