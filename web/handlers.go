package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	appvideo "github.com/nipunbatra/trim-convert/application/video"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// indexData feeds the landing page template.
type indexData struct {
	Videos      []Video
	DriveImport bool
}

func (s *Server) handleIndex(c echo.Context) error {
	var videos []Video
	if err := s.db.Order("created_at desc").Find(&videos).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list videos")
	}

	return c.Render(http.StatusOK, "index.html", indexData{
		Videos:      videos,
		DriveImport: s.importer != nil,
	})
}

func (s *Server) handleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleUpload(c echo.Context) error {
	fileHeader, err := c.FormFile("video")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no video file in request")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".mp4" && ext != ".mov" && ext != ".avi" && ext != ".mkv" {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unsupported file type %s", ext))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read upload")
	}
	defer src.Close()

	if err := os.MkdirAll(s.opts.DataDir, 0755); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create data directory")
	}

	// Stored under a fresh name so two uploads of "video.mp4" never collide.
	storedPath := filepath.Join(s.opts.DataDir, uuid.Must(uuid.NewV7()).String()+ext)
	dst, err := os.Create(storedPath)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to store upload")
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		os.Remove(storedPath)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to store upload")
	}

	video, err := s.registerVideo(c, storedPath, fileHeader.Filename, size, "upload")
	if err != nil {
		os.Remove(storedPath)
		return err
	}

	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/videos/%d", video.ID))
}

func (s *Server) handleDriveImport(c echo.Context) error {
	if s.importer == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Google Drive is not configured")
	}

	link := strings.TrimSpace(c.FormValue("link"))
	if link == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "no Drive link provided")
	}

	localPath, info, err := s.importer.ImportFromLink(c.Request().Context(), link)
	if err != nil {
		s.log.WithError(err).Warn("drive import failed")
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	video, err := s.registerVideo(c, localPath, info.Name, info.Size, "drive")
	if err != nil {
		os.Remove(localPath)
		return err
	}

	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/videos/%d", video.ID))
}

// registerVideo probes a stored file and records it.
func (s *Server) registerVideo(c echo.Context, storedPath, filename string, size int64, source string) (*Video, error) {
	info, err := s.clipper.Probe(c.Request().Context(), storedPath)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("could not read video: %v", err))
	}
	if !info.HasVideo() {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "file has no video stream")
	}

	video := Video{
		Filename:        filename,
		StoredPath:      storedPath,
		SizeBytes:       size,
		DurationSeconds: info.DurationSeconds,
		VideoCodec:      info.VideoCodec,
		AudioCodec:      info.AudioCodec,
		Source:          source,
	}
	if err := s.db.Create(&video).Error; err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "failed to save video")
	}

	return &video, nil
}

// videoData feeds the video detail page template.
type videoData struct {
	Video       Video
	Jobs        []ClipJob
	DriveUpload bool
}

func (s *Server) handleVideo(c echo.Context) error {
	video, err := s.findVideo(c.Param("id"))
	if err != nil {
		return err
	}

	var jobs []ClipJob
	if err := s.db.Where("video_id = ?", video.ID).Order("created_at desc").Find(&jobs).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list jobs")
	}

	return c.Render(http.StatusOK, "video.html", videoData{
		Video:       *video,
		Jobs:        jobs,
		DriveUpload: s.distributor != nil,
	})
}

func (s *Server) handleTrim(c echo.Context) error {
	video, err := s.findVideo(c.Param("id"))
	if err != nil {
		return err
	}

	start := strings.TrimSpace(c.FormValue("start"))
	if start == "" {
		start = "0"
	}
	end := strings.TrimSpace(c.FormValue("end"))
	mode := strings.TrimSpace(c.FormValue("mode"))

	if err := os.MkdirAll(s.opts.OutputDir, 0755); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create output directory")
	}

	job := ClipJob{
		VideoID:   video.ID,
		StartTime: start,
		EndTime:   end,
		Mode:      mode,
	}

	prefix := filepath.Join(s.opts.OutputDir, fmt.Sprintf("%s_%s", stem(video.Filename), uuid.Must(uuid.NewV7()).String()[:8]))
	result, err := s.clipper.Clip(c.Request().Context(), appvideo.ClipInput{
		SourcePath:   video.StoredPath,
		OutputPrefix: prefix,
		StartTime:    start,
		EndTime:      end,
		Mode:         mode,
	})
	if err != nil {
		s.log.WithError(err).WithField("video_id", video.ID).Warn("trim failed")
		job.Status = JobStatusFailed
		job.Error = err.Error()
	} else {
		job.Status = JobStatusDone
		job.ResultMode = string(result.Mode)
		job.Snapped = result.Snapped
		job.VideoPath = result.VideoPath
		job.AudioPath = result.AudioPath
	}

	if err := s.db.Create(&job).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save job")
	}

	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/videos/%d", video.ID))
}

func (s *Server) handleJobs(c echo.Context) error {
	var jobs []ClipJob
	if err := s.db.Order("created_at desc").Find(&jobs).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list jobs")
	}
	return c.JSON(http.StatusOK, jobs)
}

func (s *Server) handleJobUpload(c echo.Context) error {
	if s.distributor == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Google Drive is not configured")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "job not found")
	}

	var job ClipJob
	if err := s.db.First(&job, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "job not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load job")
	}

	if job.Status != JobStatusDone {
		return echo.NewHTTPError(http.StatusConflict, "job has no outputs to upload")
	}

	result, err := s.distributor.Distribute(c.Request().Context(), job.VideoPath, job.AudioPath)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	job.VideoURL = result.VideoURL
	job.AudioURL = result.AudioURL
	if err := s.db.Save(&job).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save job")
	}

	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/videos/%d", job.VideoID))
}

func (s *Server) handleFile(c echo.Context) error {
	// Base strips any path traversal out of the requested name.
	name := filepath.Base(c.Param("name"))
	path := filepath.Join(s.opts.OutputDir, name)

	if _, err := os.Stat(path); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "file not found")
	}

	return c.Attachment(path, name)
}

// findVideo looks up a video by its route parameter. The raw parameter
// is parsed before it reaches the query so it can never be treated as a
// SQL expression.
func (s *Server) findVideo(param string) (*Video, error) {
	id, err := strconv.ParseUint(param, 10, 64)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "video not found")
	}

	var video Video
	if err := s.db.First(&video, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "video not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "failed to load video")
	}
	return &video, nil
}

// stem returns the filename without directory or extension.
func stem(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
