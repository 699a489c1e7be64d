package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/buy-vs-invest/internal/config"
	"github.com/iwvelando/buy-vs-invest/internal/scenario"
	"github.com/iwvelando/buy-vs-invest/pkg/amortization"
	"github.com/iwvelando/buy-vs-invest/pkg/audit"
	"github.com/iwvelando/buy-vs-invest/pkg/comparison"
	"github.com/iwvelando/buy-vs-invest/pkg/constants"
	"github.com/iwvelando/buy-vs-invest/pkg/mathutil"
	"github.com/iwvelando/buy-vs-invest/pkg/output"
	"github.com/iwvelando/buy-vs-invest/pkg/rates"
	"github.com/iwvelando/buy-vs-invest/pkg/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger         *zap.Logger
	maxRequestSize int64
	version        string
	devMode        bool
}

type compareOptions struct {
	IncludeSchedule bool
}

// NewHandler constructs the HTTP handler that serves the comparison API.
// When devMode is set every request is audited regardless of its own
// audit settings.
func NewHandler(logger *zap.Logger, maxRequestSize int64, version string, devMode bool) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxRequestSize <= 0 {
		maxRequestSize = constants.DefaultMaxRequestSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxRequestSize: maxRequestSize, version: trimmedVersion, devMode: devMode}

	mux := http.NewServeMux()

	// Full buy-vs-invest comparison for a configuration document
	mux.HandleFunc("/api/compare", h.handleCompare)

	// Single amortization schedule
	mux.HandleFunc("/api/schedule", h.handleSchedule)

	mux.HandleFunc("/api/version", h.handleVersion)

	return h.withRequestID(mux)
}

type compareResponse struct {
	Scenarios  []scenarioSummary `json:"scenarios"`
	CSV        string            `json:"csv"`
	Warnings   []string          `json:"warnings,omitempty"`
	Duration   string            `json:"duration"`
	ConfigYAML string            `json:"configYaml,omitempty"`
}

type scenarioSummary struct {
	Name               string            `json:"name"`
	Method             string            `json:"method"`
	TermPeriods        int               `json:"termPeriods"`
	Financed           decimal.Decimal   `json:"financed"`
	FirstInstallment   decimal.Decimal   `json:"firstInstallment"`
	LastInstallment    decimal.Decimal   `json:"lastInstallment"`
	TotalPaid          decimal.Decimal   `json:"totalPaid"`
	TotalOutlay        decimal.Decimal   `json:"totalOutlay"`
	TotalInterest      decimal.Decimal   `json:"totalInterest"`
	BuyerEquity        decimal.Decimal   `json:"buyerEquity"`
	InvestorEquity     decimal.Decimal   `json:"investorEquity"`
	TotalContributed   decimal.Decimal   `json:"totalContributed"`
	InvestmentEarnings decimal.Decimal   `json:"investmentEarnings"`
	Winner             comparison.Winner `json:"winner"`
	EquityDelta        decimal.Decimal   `json:"equityDelta"`
	Findings           []audit.Finding   `json:"findings,omitempty"`
	Rows               []scheduleRow     `json:"rows,omitempty"`
}

type scheduleRow struct {
	Period            int              `json:"period"`
	Installment       decimal.Decimal  `json:"installment"`
	Interest          decimal.Decimal  `json:"interest"`
	Principal         decimal.Decimal  `json:"principal"`
	RemainingBalance  decimal.Decimal  `json:"remainingBalance"`
	InvestmentBalance *decimal.Decimal `json:"investmentBalance,omitempty"`
}

// scheduleRequest takes either a periodic rate as a fraction or a percent
// rate with its basis.
type scheduleRequest struct {
	Method       string           `json:"method"`
	Principal    decimal.Decimal  `json:"principal"`
	PeriodicRate *decimal.Decimal `json:"periodicRate,omitempty"`
	AnnualRate   decimal.Decimal  `json:"annualRate"` // percent
	RateBasis    string           `json:"rateBasis"`
	TermPeriods  int              `json:"termPeriods"`
	Audit        bool             `json:"audit"`
}

type scheduleResponse struct {
	Method           string          `json:"method"`
	PeriodicRate     decimal.Decimal `json:"periodicRate"`
	FirstInstallment decimal.Decimal `json:"firstInstallment"`
	LastInstallment  decimal.Decimal `json:"lastInstallment"`
	TotalPaid        decimal.Decimal `json:"totalPaid"`
	TotalInterest    decimal.Decimal `json:"totalInterest"`
	Rows             []scheduleRow   `json:"rows"`
	Findings         []audit.Finding `json:"findings,omitempty"`
}

func (h *handler) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(constants.RequestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(constants.RequestIDHeader, requestID)
		h.logger.Debug("request received",
			zap.String("op", "server.withRequestID"),
			zap.String("requestID", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		next.ServeHTTP(w, r)
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCompare"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)

	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondDecodeError(w, err, op)
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	configPayload := payload
	if rawConfig, ok := payload["config"]; ok {
		cfgMap, ok := rawConfig.(map[string]interface{})
		if !ok {
			h.respondErrorWithOp(w, http.StatusBadRequest, "invalid config payload: expected object", op)
			return
		}
		configPayload = cfgMap
	}

	options := compareOptions{}
	if rawOptions, ok := payload["options"]; ok {
		optsMap, ok := rawOptions.(map[string]interface{})
		if !ok {
			h.respondErrorWithOp(w, http.StatusBadRequest, "invalid options payload: expected object", op)
			return
		}
		if includeVal, ok := optsMap["includeSchedule"]; ok {
			options.IncludeSchedule = coerceBool(includeVal)
		}
	}

	configBytes, err := yaml.Marshal(configPayload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if h.devMode {
		cfg.Audit.DevMode = true
	}

	warnings := cfg.ValidateConfiguration()
	if err := cfg.Validate(); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	results, err := scenario.Run(h.logger, *cfg)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to compute comparison: %v", err), op)
		return
	}

	csvReport, err := output.CsvString(results)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render CSV report: %v", err), op)
		return
	}

	elapsed := time.Since(start)
	response := compareResponse{
		Scenarios: buildSummaries(results, options),
		CSV:       csvReport,
		Warnings:  warnings,
		Duration:  elapsed.String(),
	}

	effective, err := yaml.Marshal(cfg)
	if err != nil {
		h.logger.Warn("failed to marshal effective configuration",
			zap.String("op", op),
			zap.Error(err),
		)
	} else {
		response.ConfigYAML = string(effective)
	}

	h.logger.Info("comparison computed",
		zap.String("op", op),
		zap.Int("scenarios", len(response.Scenarios)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSchedule"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxRequestSize)

	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondDecodeError(w, err, op)
		return
	}

	method, err := amortization.ParseMethod(req.Method)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	periodicRate, err := req.periodicRate()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if err := validation.ValidateRate("periodicRate", periodicRate); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	if err := validation.ValidateTerm("termPeriods", req.TermPeriods); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	schedule, err := amortization.NewCalculator(h.logger).Compute(method, amortization.LoanTerms{
		Principal:    req.Principal,
		PeriodicRate: periodicRate,
		TermPeriods:  req.TermPeriods,
	})
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	response := scheduleResponse{
		Method:           method.String(),
		PeriodicRate:     periodicRate,
		FirstInstallment: mathutil.Round(schedule.FirstInstallment),
		LastInstallment:  mathutil.Round(schedule.LastInstallment),
		TotalPaid:        mathutil.Round(schedule.TotalPaid),
		TotalInterest:    mathutil.Round(schedule.TotalInterest),
		Rows:             buildRows(schedule, nil),
		Findings:         audit.NewAuditor(h.logger).AuditSchedule(schedule, req.Audit || h.devMode),
	}

	h.writeJSON(w, http.StatusOK, response)
}

func (req scheduleRequest) periodicRate() (decimal.Decimal, error) {
	if req.PeriodicRate != nil {
		return *req.PeriodicRate, nil
	}
	basis, err := rates.ParseBasis(req.RateBasis)
	if err != nil {
		return decimal.Zero, err
	}
	return rates.PeriodicFromPercent(req.AnnualRate, basis)
}

func (h *handler) respondDecodeError(w http.ResponseWriter, err error, op string) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("request exceeds limit of %d bytes", h.maxRequestSize), op)
		return
	}
	h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func buildSummaries(results []scenario.Result, opts compareOptions) []scenarioSummary {
	summaries := make([]scenarioSummary, 0, len(results))
	for _, result := range results {
		s := result.Schedule
		c := result.Comparison
		summary := scenarioSummary{
			Name:               result.Name,
			Method:             result.Method.String(),
			TermPeriods:        s.TermPeriods,
			Financed:           mathutil.Round(result.Financed),
			FirstInstallment:   mathutil.Round(s.FirstInstallment),
			LastInstallment:    mathutil.Round(s.LastInstallment),
			TotalPaid:          mathutil.Round(s.TotalPaid),
			TotalOutlay:        mathutil.Round(result.TotalOutlay()),
			TotalInterest:      mathutil.Round(c.TotalInterest),
			BuyerEquity:        mathutil.Round(c.BuyerEquity),
			InvestorEquity:     mathutil.Round(c.InvestorEquity),
			TotalContributed:   mathutil.Round(c.TotalContributed),
			InvestmentEarnings: mathutil.Round(c.InvestmentEarnings),
			Winner:             c.Winner,
			EquityDelta:        mathutil.Round(c.EquityDelta),
			Findings:           result.Findings,
		}
		if opts.IncludeSchedule {
			summary.Rows = buildRows(s, result.Series.Balances)
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

func buildRows(schedule *amortization.Schedule, investmentBalances []decimal.Decimal) []scheduleRow {
	periods := schedule.Periods()
	rows := make([]scheduleRow, 0, len(periods))
	for k, period := range periods {
		row := scheduleRow{
			Period:           period.Number,
			Installment:      mathutil.Round(period.Installment),
			Interest:         mathutil.Round(period.Interest),
			Principal:        mathutil.Round(period.Principal),
			RemainingBalance: mathutil.Round(period.RemainingBalance),
		}
		if k < len(investmentBalances) {
			v := mathutil.Round(investmentBalances[k])
			row.InvestmentBalance = &v
		}
		rows = append(rows, row)
	}
	return rows
}

func coerceBool(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return false
		}
		if parsed, err := strconv.ParseBool(trimmed); err == nil {
			return parsed
		}
	case float64:
		return v != 0
	}
	return false
}
