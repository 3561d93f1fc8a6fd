package dashboard

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spacesedan/commentpulse/internal/analysis"
	"github.com/spacesedan/commentpulse/internal/apperrors"
	"github.com/spacesedan/commentpulse/internal/models"
	"github.com/spacesedan/commentpulse/internal/utils"
)

// CardTextLimit is the number of runes of a comment shown on a result card.
const CardTextLimit = 200

//go:embed templates/*.html
var templateFS embed.FS

// Runner is implemented by *analysis.Analyzer.
type Runner interface {
	Run(ctx context.Context, req analysis.Request) (*models.Report, error)
}

// Server serves the single page dashboard.
type Server struct {
	server        *http.Server
	runner        Runner
	healthy       *atomic.Bool
	defaultAPIKey string
	tmpl          *template.Template
	startTime     time.Time
}

type Options struct {
	Addr string
	// DefaultAPIKey is used when the form's key field is left empty.
	DefaultAPIKey string
	// Healthy reflects classifier health; nil means always healthy.
	Healthy *atomic.Bool
	// AnalyzeTimeout bounds one POST /analyze. Zero means no limit beyond the client's.
	AnalyzeTimeout time.Duration
}

type formData struct {
	VideoURL    string
	MaxComments int
	BatchSize   int
	HasKey      bool
}

type card struct {
	Label string
	Score string
	Text  string
}

type pageData struct {
	Form     formData
	Error    string
	Report   *models.Report
	Cards    []card
	Limits   limits
	Duration string
}

type limits struct {
	MinComments, MaxComments int
	MinBatch, MaxBatch       int
}

type HealthStatus struct {
	Status     string `json:"status"`
	Classifier string `json:"classifier"`
	Timestamp  string `json:"timestamp"`
	Uptime     string `json:"uptime"`
}

func NewServer(runner Runner, opts Options) (*Server, error) {
	tmpl, err := template.New("index.html").Funcs(template.FuncMap{
		"percent": func(s models.Summary, n int) string { return fmt.Sprintf("%.1f%%", s.Percent(n)) },
		"lower":   strings.ToLower,
		"seconds": func(d time.Duration) string { return fmt.Sprintf("%.2fs", d.Seconds()) },
	}).ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard template: %w", err)
	}

	healthy := opts.Healthy
	if healthy == nil {
		healthy = &atomic.Bool{}
		healthy.Store(true)
	}

	s := &Server{
		runner:        runner,
		healthy:       healthy,
		defaultAPIKey: opts.DefaultAPIKey,
		tmpl:          tmpl,
		startTime:     time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.Handle("POST /analyze", s.withTimeout(opts.AnalyzeTimeout, http.HandlerFunc(s.handleAnalyze)))
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.server = &http.Server{
		Addr:              opts.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start blocks until the server stops. A clean Stop returns nil.
func (s *Server) Start() error {
	slog.Info("[Dashboard] Listening", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	slog.Info("[Dashboard] Shutting down")
	return s.server.Shutdown(ctx)
}

func (s *Server) withTimeout(d time.Duration, next http.Handler) http.Handler {
	if d <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), d)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, pageData{Form: s.defaultForm()})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, http.StatusBadRequest, pageData{Form: s.defaultForm(), Error: "Could not read the submitted form."})
		return
	}

	apiKey := strings.TrimSpace(r.PostFormValue("api_key"))
	if apiKey == "" {
		apiKey = s.defaultAPIKey
	}
	form := formData{
		VideoURL:    strings.TrimSpace(r.PostFormValue("video_url")),
		MaxComments: analysis.ClampMaxComments(atoi(r.PostFormValue("max_comments"))),
		BatchSize:   analysis.ClampBatchSize(atoi(r.PostFormValue("batch_size"))),
		HasKey:      s.defaultAPIKey != "",
	}

	report, err := s.runner.Run(r.Context(), analysis.Request{
		APIKey:      apiKey,
		VideoURL:    form.VideoURL,
		MaxComments: form.MaxComments,
		BatchSize:   form.BatchSize,
	})
	if err != nil {
		slog.Error("[Dashboard] Analysis failed",
			slog.String("kind", apperrors.KindOf(err).String()),
			slog.String("error", err.Error()))
		s.render(w, statusFor(err), pageData{Form: form, Error: apperrors.UserMessage(err)})
		return
	}

	data := pageData{Form: form, Report: report, Cards: cards(report.Results)}
	if len(report.Results) > 0 {
		data.Duration = fmt.Sprintf("Analyzed %d comments in %.2f seconds", report.Summary.Total, report.TotalDuration().Seconds())
	}
	s.render(w, http.StatusOK, data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:     "healthy",
		Classifier: "healthy",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Uptime:     time.Since(s.startTime).Round(time.Second).String(),
	}
	code := http.StatusOK
	if !s.healthy.Load() {
		status.Status = "degraded"
		status.Classifier = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(status); err != nil {
		slog.Error("[Dashboard] Failed to write health status", slog.String("error", err.Error()))
	}
}

func (s *Server) render(w http.ResponseWriter, code int, data pageData) {
	data.Limits = limits{
		MinComments: analysis.MinMaxComments,
		MaxComments: analysis.MaxMaxComments,
		MinBatch:    analysis.MinBatchSize,
		MaxBatch:    analysis.MaxBatchSize,
	}

	var buf strings.Builder
	if err := s.tmpl.Execute(&buf, data); err != nil {
		slog.Error("[Dashboard] Failed to render page", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(buf.String()))
}

func (s *Server) defaultForm() formData {
	return formData{
		MaxComments: analysis.DefaultMaxComments,
		BatchSize:   analysis.DefaultBatchSize,
		HasKey:      s.defaultAPIKey != "",
	}
}

func cards(results []models.SentimentResult) []card {
	out := make([]card, len(results))
	for i, r := range results {
		out[i] = card{
			Label: r.Label,
			Score: fmt.Sprintf("%.2f", r.Score),
			Text:  utils.TruncateRunes(r.Text, CardTextLimit),
		}
	}
	return out
}

func statusFor(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindInvalidInput:
		return http.StatusBadRequest
	case apperrors.KindAuthorization:
		return http.StatusUnauthorized
	case apperrors.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
