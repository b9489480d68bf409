package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hackgods/tasting-booking-gateway/internal/logger"
)

type SimConfig struct {
	APIBaseURL    string
	ProviderID    string
	ServiceID     string
	Duration      time.Duration
	Workers       int
	Days          int
	MaxAdults     int
	Languages     []string
	QueryRatio    float64
	ValidateRatio float64
	BookingRatio  float64
}

type slotRef struct {
	Date string
	Time string
}

// SlotPool holds start times the gateway has advertised and that have not
// been booked by this run yet.
type SlotPool struct {
	mu    sync.RWMutex
	slots []slotRef
	seen  map[slotRef]struct{}
}

func NewSlotPool() *SlotPool {
	return &SlotPool{seen: make(map[slotRef]struct{})}
}

func (p *SlotPool) Add(refs ...slotRef) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, r := range refs {
		if _, ok := p.seen[r]; ok {
			continue
		}
		p.seen[r] = struct{}{}
		p.slots = append(p.slots, r)
	}
}

func (p *SlotPool) Pick(f *gofakeit.Faker) (slotRef, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.slots) == 0 {
		return slotRef{}, false
	}
	return p.slots[f.Number(0, len(p.slots)-1)], true
}

// Remove drops a slot once it has been booked or rejected as taken. It stays in
// seen so later slot queries cannot re-add it.
func (p *SlotPool) Remove(ref slotRef) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, r := range p.slots {
		if r == ref {
			p.slots = append(p.slots[:i], p.slots[i+1:]...)
			return
		}
	}
}

func (p *SlotPool) Size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.seen)
}

type Simulator struct {
	config  SimConfig
	pool    *SlotPool
	client  *http.Client
	log     *zap.Logger
	metrics Metrics

	datesMu sync.RWMutex
	dates   []string
}

func main() {
	_ = godotenv.Load()

	log, err := logger.New(false, "simulate")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg := loadConfig()
	if err := validateConfig(cfg); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	log.Info("simulator starting",
		zap.String("gateway", cfg.APIBaseURL),
		zap.Duration("duration", cfg.Duration),
		zap.Int("workers", cfg.Workers),
		zap.Float64("query", cfg.QueryRatio),
		zap.Float64("validate", cfg.ValidateRatio),
		zap.Float64("booking", cfg.BookingRatio),
	)

	sim := &Simulator{
		config: cfg,
		pool:   NewSlotPool(),
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}

	sim.Run()
	sim.PrintReport()
}

func loadConfig() SimConfig {
	cfg := SimConfig{
		APIBaseURL:    getEnv("SIM_API_BASE_URL", "http://localhost:8080"),
		ProviderID:    os.Getenv("SIM_PROVIDER_ID"),
		ServiceID:     os.Getenv("SIM_SERVICE_ID"),
		Duration:      getDuration("SIM_DURATION", 30*time.Second),
		Workers:       getInt("SIM_WORKERS", 10),
		Days:          getInt("SIM_DAYS", 14),
		MaxAdults:     getInt("SIM_MAX_ADULTS", 4),
		Languages:     getList("SIM_LANGUAGES", "en"),
		QueryRatio:    getFloat("SIM_QUERY_RATIO", 0.6),
		ValidateRatio: getFloat("SIM_VALIDATE_RATIO", 0.1),
		BookingRatio:  getFloat("SIM_BOOKING_RATIO", 0.3),
	}

	// Normalize ratios
	total := cfg.QueryRatio + cfg.ValidateRatio + cfg.BookingRatio
	if total > 0 {
		cfg.QueryRatio /= total
		cfg.ValidateRatio /= total
		cfg.BookingRatio /= total
	}

	return cfg
}

func validateConfig(cfg SimConfig) error {
	if cfg.ProviderID == "" || cfg.ServiceID == "" {
		return errors.New("SIM_PROVIDER_ID and SIM_SERVICE_ID are required")
	}
	if cfg.Workers <= 0 {
		return errors.New("SIM_WORKERS must be > 0")
	}
	if cfg.Duration <= 0 {
		return errors.New("SIM_DURATION must be > 0")
	}
	if len(cfg.Languages) == 0 {
		return errors.New("SIM_LANGUAGES must name at least one language")
	}
	if cfg.Days <= 0 || cfg.MaxAdults <= 0 {
		return errors.New("SIM_DAYS and SIM_MAX_ADULTS must be > 0")
	}
	return nil
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	s.log.Info("starting simulation")

	// Warm the pool so early bookings have something to target.
	s.doDates(ctx)

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	s.log.Info("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	f := gofakeit.New(uint64(time.Now().UnixNano()) + uint64(workerID))

	for {
		select {
		case <-ctx.Done():
			return
		default:
			r := f.Float64()
			switch {
			case r < s.config.QueryRatio:
				if f.Number(0, 3) == 0 {
					s.doDates(ctx)
				} else {
					s.doSlots(ctx, f)
				}
			case r < s.config.QueryRatio+s.config.ValidateRatio:
				s.doValidate(ctx, f)
			default:
				s.doBooking(ctx, f)
			}
		}
	}
}

func (s *Simulator) servicePath() string {
	return fmt.Sprintf("%s/providers/%s/services/%s",
		s.config.APIBaseURL, url.PathEscape(s.config.ProviderID), url.PathEscape(s.config.ServiceID))
}

func (s *Simulator) doDates(ctx context.Context) {
	q := url.Values{}
	q.Set("from", time.Now().Format("2006-01-02"))
	q.Set("days", strconv.Itoa(s.config.Days))

	var resp struct {
		Dates []struct {
			Date      string `json:"date"`
			Available bool   `json:"available"`
		} `json:"dates"`
	}
	start := time.Now()
	status, err := s.call(ctx, http.MethodGet, s.servicePath()+"/dates?"+q.Encode(), nil, &resp)
	s.metrics.Dates.Record(time.Since(start), s.outcome(status, http.StatusOK, err))
	if err != nil || status != http.StatusOK {
		return
	}

	var open []string
	for _, d := range resp.Dates {
		if d.Available {
			open = append(open, d.Date)
		}
	}
	s.datesMu.Lock()
	s.dates = open
	s.datesMu.Unlock()
}

func (s *Simulator) doSlots(ctx context.Context, f *gofakeit.Faker) {
	s.datesMu.RLock()
	if len(s.dates) == 0 {
		s.datesMu.RUnlock()
		return
	}
	date := s.dates[f.Number(0, len(s.dates)-1)]
	s.datesMu.RUnlock()

	q := url.Values{}
	q.Set("date", date)
	q.Set("adults", strconv.Itoa(f.Number(1, s.config.MaxAdults)))

	var resp struct {
		Morning   []string `json:"morning"`
		Afternoon []string `json:"afternoon"`
	}
	start := time.Now()
	status, err := s.call(ctx, http.MethodGet, s.servicePath()+"/slots?"+q.Encode(), nil, &resp)
	s.metrics.Slots.Record(time.Since(start), s.outcome(status, http.StatusOK, err))
	if err != nil || status != http.StatusOK {
		return
	}

	for _, t := range append(resp.Morning, resp.Afternoon...) {
		s.pool.Add(slotRef{Date: date, Time: t})
	}
}

func (s *Simulator) doValidate(ctx context.Context, f *gofakeit.Faker) {
	ref, ok := s.pool.Pick(f)
	if !ok {
		return
	}

	var resp struct {
		Valid bool `json:"valid"`
	}
	start := time.Now()
	status, err := s.call(ctx, http.MethodPost, s.config.APIBaseURL+"/bookings/validate", s.fakeBooking(f, ref), &resp)

	o := s.outcome(status, http.StatusOK, err)
	if o == outcomeSuccess && !resp.Valid {
		o = outcomeRejected
	}
	s.metrics.Validate.Record(time.Since(start), o)
}

func (s *Simulator) doBooking(ctx context.Context, f *gofakeit.Faker) {
	ref, ok := s.pool.Pick(f)
	if !ok {
		return
	}

	start := time.Now()
	status, err := s.call(ctx, http.MethodPost, s.config.APIBaseURL+"/bookings", s.fakeBooking(f, ref), nil)

	o := s.outcome(status, http.StatusCreated, err)
	s.metrics.Booking.Record(time.Since(start), o)
	if o == outcomeSuccess || o == outcomeRejected {
		s.pool.Remove(ref)
	}
}

func (s *Simulator) fakeBooking(f *gofakeit.Faker, ref slotRef) map[string]any {
	return map[string]any{
		"providerId": s.config.ProviderID,
		"serviceId":  s.config.ServiceID,
		"date":       ref.Date,
		"time":       ref.Time,
		"adults":     f.Number(1, s.config.MaxAdults),
		"children":   f.Number(0, 1),
		"language":   s.config.Languages[f.Number(0, len(s.config.Languages)-1)],
		"firstName":  f.FirstName(),
		"lastName":   f.LastName(),
		"email":      f.Email(),
		"phone":      f.Phone(),
	}
}

func (s *Simulator) outcome(status, want int, err error) outcome {
	if err != nil {
		if !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
			s.log.Debug("request failed", zap.Error(err))
		}
		return outcomeError
	}
	return outcomeOf(status, want)
}

func (s *Simulator) call(ctx context.Context, method, target string, body any, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode %s: %w", target, err)
		}
		return resp.StatusCode, nil
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// Helper functions

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getList(key, def string) []string {
	var out []string
	for _, v := range strings.Split(getEnv(key, def), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
