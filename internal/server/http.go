package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/LPTrade994/ebay-revenue-calculator/internal/config"
	"github.com/LPTrade994/ebay-revenue-calculator/internal/fees"
	"github.com/LPTrade994/ebay-revenue-calculator/internal/log"
	"github.com/LPTrade994/ebay-revenue-calculator/internal/schedule"
)

// Server is the HTTP front of the fee engine. It owns no state beyond the
// read-only schedule, so all handlers are safe for concurrent requests.
type Server struct {
	cfg      *config.Config
	schedule *schedule.Schedule
	http     *http.Server
}

// New creates the HTTP server with all routes and middleware wired.
func New(cfg *config.Config, sched *schedule.Schedule) *Server {
	s := &Server{
		cfg:      cfg,
		schedule: sched,
	}

	s.http = &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      s.Routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Routes builds the router. Exposed for handler tests.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger)
	r.Use(requestMetrics)
	r.Use(recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/calculate", s.handleCalculate)
		r.Get("/schedule", s.handleSchedule)
	})

	return r
}

// Start serves HTTP until the listener fails or Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	log.Info(ctx, "Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info(ctx, "Shutting down HTTP server")
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCalculate is the sole calculation contract: SaleInput in,
// Breakdown out. Input validation happens here, at the boundary; the engine
// assumes validated non-negative inputs.
func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var in fees.SaleInput
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		writeError(w, r, http.StatusBadRequest, "malformed_json", "request body is not valid JSON", nil)
		return
	}

	if problems := validateInput(in); len(problems) > 0 {
		writeError(w, r, http.StatusBadRequest, "invalid_input", "sale input failed validation", problems)
		return
	}

	breakdown, err := fees.Calculate(r.Context(), in, s.schedule)
	if err != nil {
		log.Error(r.Context(), "Calculation failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "calculation_failed", "calculation could not be completed", nil)
		return
	}

	writeJSON(w, r, http.StatusOK, breakdown)
}

// scheduleInfo is the metadata the UI layer needs to render pickers.
type scheduleInfo struct {
	GeneratedOn  string   `json:"generated_on"`
	Currency     string   `json:"currency"`
	DefaultGroup string   `json:"default_group"`
	FeeGroups    []string `json:"fee_groups"`
	VehicleTypes []string `json:"vehicle_types"`
	Zones        []string `json:"zones"`
	StoreTiers   []string `json:"store_tiers"`
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	info := scheduleInfo{
		GeneratedOn:  s.schedule.GeneratedOn,
		Currency:     s.schedule.Currency,
		DefaultGroup: s.schedule.DefaultGroup,
	}
	for _, g := range s.schedule.FinalValueFees {
		info.FeeGroups = append(info.FeeGroups, g.Name)
	}
	for key := range s.schedule.Vehicles.Types {
		info.VehicleTypes = append(info.VehicleTypes, key)
	}
	for zone := range s.schedule.InternationalFeeRates {
		info.Zones = append(info.Zones, zone)
	}
	for tier := range s.schedule.InsertionFees.StoreTiers {
		info.StoreTiers = append(info.StoreTiers, tier)
	}
	sort.Strings(info.VehicleTypes)
	sort.Strings(info.Zones)
	sort.Strings(info.StoreTiers)

	writeJSON(w, r, http.StatusOK, info)
}

// validateInput enforces the input boundary: non-negative amounts, known
// enum values and a sane tax rate. The engine itself does not re-validate.
func validateInput(in fees.SaleInput) []string {
	var problems []string

	amounts := []struct {
		field string
		value decimal.Decimal
	}{
		{"item_price", in.ItemPrice},
		{"shipping_charged", in.ShippingCharged},
		{"item_cost", in.ItemCost},
		{"shipping_cost", in.ShippingCost},
		{"other_costs", in.OtherCosts},
		{"reserve_price", in.ReservePrice},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			problems = append(problems, fmt.Sprintf("%s must be non-negative", a.field))
		}
	}

	if in.CategoryID <= 0 {
		problems = append(problems, "category_id must be positive")
	}
	if !in.SellerStanding.Valid() {
		problems = append(problems, fmt.Sprintf("seller_standing %q is not one of top_rated, standard, below_standard", in.SellerStanding))
	}
	if !in.ListingFormat.Valid() {
		problems = append(problems, fmt.Sprintf("listing_format %q is not one of auction, fixed_price", in.ListingFormat))
	}
	if in.ListingsThisPeriod < 1 {
		problems = append(problems, "listings_this_period must be at least 1")
	}
	if in.TaxRate.IsNegative() || in.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		problems = append(problems, "tax_rate must be a fraction between 0 and 1")
	}

	return problems
}

type errorBody struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type errorResponse struct {
	Error     errorBody `json:"error"`
	RequestID string    `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error(r.Context(), "Failed to encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details []string) {
	resp := errorResponse{
		Error: errorBody{Code: code, Message: message, Details: details},
	}
	if id, ok := r.Context().Value(log.RequestIDKey).(string); ok {
		resp.RequestID = id
	}
	writeJSON(w, r, status, resp)
}
