// Package server exposes the HTTP surface: the Canopy webhook that feeds the
// pipeline, the XLSX report download, and a health probe.
package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valyala/fasthttp"

	"github.com/CryptoTuck/policy-pilot-sub000/internal/common"
	"github.com/CryptoTuck/policy-pilot-sub000/internal/export"
	"github.com/CryptoTuck/policy-pilot-sub000/internal/pipeline"
	"github.com/CryptoTuck/policy-pilot-sub000/internal/repository"
)

const webhookSecretHeader = "X-Canopy-Webhook-Secret"

type Server struct {
	logger        *slog.Logger
	processor     *pipeline.Processor
	exporter      *export.Service
	pool          *pgxpool.Pool
	webhookSecret string
}

func New(logger *slog.Logger, processor *pipeline.Processor, exporter *export.Service, pool *pgxpool.Pool, webhookSecret string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		logger:        logger,
		processor:     processor,
		exporter:      exporter,
		pool:          pool,
		webhookSecret: webhookSecret,
	}
}

// Handler routes requests. Paths are few enough that a switch beats a router
// dependency here.
func (s *Server) Handler(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	switch {
	case path == "/healthz":
		s.handleHealth(ctx)
	case path == "/webhooks/canopy":
		s.handleWebhook(ctx)
	case strings.HasPrefix(path, "/reports/") && strings.HasSuffix(path, ".xlsx"):
		s.handleReportExport(ctx, strings.TrimSuffix(strings.TrimPrefix(path, "/reports/"), ".xlsx"))
	default:
		writeJSONError(ctx, fasthttp.StatusNotFound, "not found")
	}
}

func (s *Server) handleHealth(ctx *fasthttp.RequestCtx) {
	if !ctx.IsGet() {
		writeJSONError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
		return
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := repository.HealthCheck(c, s.pool, 3*time.Second); err != nil {
		s.logger.Error("server.healthz.db_down", "err", err)
		writeJSONError(ctx, fasthttp.StatusServiceUnavailable, "database unreachable")
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleWebhook(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		writeJSONError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.webhookSecret != "" {
		got := ctx.Request.Header.Peek(webhookSecretHeader)
		if subtle.ConstantTimeCompare(got, []byte(s.webhookSecret)) != 1 {
			writeJSONError(ctx, fasthttp.StatusUnauthorized, "invalid webhook secret")
			return
		}
	}

	body := ctx.PostBody()
	if len(body) == 0 {
		writeJSONError(ctx, fasthttp.StatusBadRequest, "empty body")
		return
	}

	reportID, err := s.processor.ProcessPull(ctx, body)
	if err != nil {
		s.logger.Error("server.webhook.process_failed", "report_id", reportID, "err", err)
		// A report ID means the pull was accepted and recorded as FAILED;
		// respond 200 so Canopy does not redeliver indefinitely.
		if reportID != uuid.Nil {
			writeJSON(ctx, fasthttp.StatusOK, map[string]any{
				"report_id": reportID.String(),
				"status":    "failed",
			})
			return
		}
		writeJSONError(ctx, fasthttp.StatusBadRequest, "unprocessable payload")
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, map[string]any{
		"report_id": reportID.String(),
		"status":    "graded",
	})
}

func (s *Server) handleReportExport(ctx *fasthttp.RequestCtx, rawID string) {
	if !ctx.IsGet() {
		writeJSONError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
		return
	}
	accountID, err := uuid.Parse(rawID)
	if err != nil {
		writeJSONError(ctx, fasthttp.StatusBadRequest, "invalid account id")
		return
	}

	data, err := s.exporter.ExportReportXLSX(ctx, accountID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeJSONError(ctx, fasthttp.StatusNotFound, "no report for account")
			return
		}
		s.logger.Error("server.report_export.failed", "account_id", accountID, "err", err)
		writeJSONError(ctx, fasthttp.StatusInternalServerError, "export failed")
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response.Header.Set("Content-Disposition", `attachment; filename="score-report-`+accountID.String()+`.xlsx"`)
	ctx.SetBody(data)
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, payload any) {
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	body, err := json.Marshal(payload)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetBody(body)
}

func writeJSONError(ctx *fasthttp.RequestCtx, status int, message string) {
	writeJSON(ctx, status, map[string]any{"error": message, "status": status})
}
