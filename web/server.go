package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	appdist "github.com/nipunbatra/trim-convert/application/distribution"
	appvideo "github.com/nipunbatra/trim-convert/application/video"
	"github.com/nipunbatra/trim-convert/domain/distribution"
	"github.com/nipunbatra/trim-convert/domain/video"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

//go:embed templates/*.html
var templateFS embed.FS

// Clipper is the clip pipeline the trim handler needs.
type Clipper interface {
	Clip(ctx context.Context, input appvideo.ClipInput) (*appvideo.ClipResult, error)
	Probe(ctx context.Context, path string) (*video.MediaInfo, error)
}

// Importer downloads a source video from a Drive share link.
type Importer interface {
	ImportFromLink(ctx context.Context, link string) (string, *distribution.FileInfo, error)
}

// Distributor uploads a clip's video and audio to Drive with sharing.
type Distributor interface {
	Distribute(ctx context.Context, videoPath, audioPath string) (*appdist.DistributionResult, error)
}

// Options configures the web server.
type Options struct {
	DataDir     string // uploaded and imported sources
	OutputDir   string // trimmed clips and audio
	MaxUploadMB int64
}

// Server is the browser demo: upload a video, pick cut points, download
// the trimmed clip and its audio.
type Server struct {
	echo        *echo.Echo
	db          *gorm.DB
	clipper     Clipper
	importer    Importer
	distributor Distributor
	opts        Options
	log         *logrus.Logger
}

// ServerOption is a functional option for configuring Server.
type ServerOption func(*Server)

// WithImporter enables the Drive import route.
func WithImporter(importer Importer) ServerOption {
	return func(s *Server) {
		s.importer = importer
	}
}

// WithDistributor enables the Drive upload route.
func WithDistributor(distributor Distributor) ServerOption {
	return func(s *Server) {
		s.distributor = distributor
	}
}

// WithLogger sets the server's logger.
func WithLogger(log *logrus.Logger) ServerOption {
	return func(s *Server) {
		s.log = log
	}
}

// NewServer creates the web server, migrates the schema, and registers
// all routes.
func NewServer(db *gorm.DB, clipper Clipper, opts Options, options ...ServerOption) (*Server, error) {
	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	s := &Server{
		db:      db,
		clipper: clipper,
		opts:    opts,
		log:     logrus.New(),
	}

	for _, opt := range options {
		opt(s)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	if opts.MaxUploadMB > 0 {
		e.Use(middleware.BodyLimit(fmt.Sprintf("%dM", opts.MaxUploadMB)))
	}

	renderer, err := newRenderer()
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer

	e.GET("/", s.handleIndex)
	e.GET("/healthz", s.handleHealthz)
	e.POST("/upload", s.handleUpload)
	e.POST("/drive/import", s.handleDriveImport)
	e.GET("/videos/:id", s.handleVideo)
	e.POST("/videos/:id/trim", s.handleTrim)
	e.GET("/jobs", s.handleJobs)
	e.POST("/jobs/:id/upload", s.handleJobUpload)
	e.GET("/files/:name", s.handleFile)

	s.echo = e
	return s, nil
}

// Start runs the server until it fails or is shut down.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Echo exposes the handler for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// renderer implements echo.Renderer over the embedded templates.
type renderer struct {
	templates *template.Template
}

func newRenderer() (*renderer, error) {
	funcs := template.FuncMap{
		"divMB": func(b int64) float64 { return float64(b) / 1024 / 1024 },
	}
	t, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &renderer{templates: t}, nil
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
