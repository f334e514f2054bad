package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/amtamaddon/analytics.simlane.ai/internal/analytics"
	"github.com/amtamaddon/analytics.simlane.ai/internal/auth"
	"github.com/amtamaddon/analytics.simlane.ai/internal/dataset"
	"github.com/amtamaddon/analytics.simlane.ai/internal/domain"
	"github.com/amtamaddon/analytics.simlane.ai/internal/generator"
	"github.com/amtamaddon/analytics.simlane.ai/internal/notify"
	"github.com/amtamaddon/analytics.simlane.ai/internal/report"
	"github.com/amtamaddon/analytics.simlane.ai/internal/risk"
	"github.com/amtamaddon/analytics.simlane.ai/internal/store"
)

const maxUploadBytes = 32 << 20

// APIDependencies collects the collaborators behind the REST API.
type APIDependencies struct {
	Store        *store.MemberStore
	Codec        *dataset.Codec
	Generator    generator.Config
	Thresholds   risk.Thresholds
	Alerts       *notify.Manager
	DefaultPhone string
	BulkLimit    int

	// Auth may be nil, in which case every route is open.
	Auth *auth.Authenticator
}

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger       *slog.Logger
	store        *store.MemberStore
	codec        *dataset.Codec
	genCfg       generator.Config
	thresholds   risk.Thresholds
	alerts       *notify.Manager
	defaultPhone string
	bulkLimit    int
	auth         *auth.Authenticator
	now          func() time.Time
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, deps APIDependencies) *APIHandlers {
	return &APIHandlers{
		logger:       logger,
		store:        deps.Store,
		codec:        deps.Codec,
		genCfg:       deps.Generator,
		thresholds:   deps.Thresholds,
		alerts:       deps.Alerts,
		defaultPhone: deps.DefaultPhone,
		bulkLimit:    deps.BulkLimit,
		auth:         deps.Auth,
		now:          time.Now,
	}
}

// WithClock overrides the wall clock used in reports. Intended for tests.
func (h *APIHandlers) WithClock(now func() time.Time) *APIHandlers {
	h.now = now
	return h
}

// routes is the dispatch table the router registers. Protected routes
// require a bearer token when authentication is configured.
func (h *APIHandlers) routes() []route {
	return []route{
		{pattern: "/auth/login", handler: h.handleLogin},
		{pattern: "/members", handler: h.handleMembers},
		{pattern: "/members/", handler: h.handleMemberByID},
		{pattern: "/dataset", handler: h.handleDatasetUpload, protected: true},
		{pattern: "/dataset/generate", handler: h.handleDatasetGenerate, protected: true},
		{pattern: "/export/members", handler: h.handleExportMembers},
		{pattern: "/analytics/overview", handler: h.handleOverview},
		{pattern: "/analytics/risk", handler: h.handleRiskDistribution},
		{pattern: "/analytics/segments", handler: h.handleSegments},
		{pattern: "/analytics/groups", handler: h.handleGroups},
		{pattern: "/analytics/insights", handler: h.handleInsights},
		{pattern: "/analytics/hazard", handler: h.handleHazard},
		{pattern: "/reports/executive-summary", handler: h.handleExecutiveSummary},
		{pattern: "/alerts/test", handler: h.handleAlertTest, protected: true},
		{pattern: "/alerts/member/", handler: h.handleAlertMember, protected: true},
		{pattern: "/alerts/bulk", handler: h.handleAlertBulk, protected: true},
	}
}

// requireAuth rejects requests without a valid bearer token. With no
// authenticator configured the API runs open.
func (h *APIHandlers) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.auth == nil {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeError(w, http.StatusUnauthorized, "bearer token is required")
			return
		}

		if _, err := h.auth.Verify(token); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (h *APIHandlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if h.auth == nil {
		writeError(w, http.StatusServiceUnavailable, "authentication is not configured")
		return
	}

	var payload loginRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.Username == "" || payload.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	token, err := h.auth.Authenticate(payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.logger.Error("login failed", "error", err, "username", payload.Username)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresIn: int(h.auth.TokenTTL().Seconds()),
	})
}

func (h *APIHandlers) handleMembers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	query := r.URL.Query()
	page := parseInt(query.Get("page"), 1)
	pageSize := parseInt(query.Get("pageSize"), 50)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 50
	}

	var category domain.RiskCategory
	if v := query.Get("riskCategory"); v != "" {
		category = domain.RiskCategory(strings.ToUpper(v))
		if !category.Valid() {
			writeError(w, http.StatusBadRequest, "invalid riskCategory")
			return
		}
	}
	segment := query.Get("segment")
	groupID := query.Get("groupId")

	maxDays := -1
	if v := query.Get("maxDays"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "invalid maxDays")
			return
		}
		maxDays = parsed
	}

	var filtered []domain.Member
	for _, m := range h.store.Snapshot() {
		if category != "" && m.RiskCategory != category {
			continue
		}
		if segment != "" && !strings.EqualFold(string(m.Segment), segment) {
			continue
		}
		if groupID != "" && m.GroupID != groupID {
			continue
		}
		if maxDays >= 0 && m.EstimatedDaysToChurn > maxDays {
			continue
		}
		filtered = append(filtered, m)
	}

	// Most urgent first.
	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].EstimatedDaysToChurn != filtered[j].EstimatedDaysToChurn {
			return filtered[i].EstimatedDaysToChurn < filtered[j].EstimatedDaysToChurn
		}
		return filtered[i].ID < filtered[j].ID
	})

	total := len(filtered)
	totalPages := (total + pageSize - 1) / pageSize
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	resp := listMembersResponse{
		Pagination: paginationResponse{
			Page:       page,
			PageSize:   pageSize,
			TotalItems: total,
			TotalPages: totalPages,
		},
		Items: []memberResponse{},
	}
	for _, m := range filtered[start:end] {
		resp.Items = append(resp.Items, toMemberResponse(m))
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) handleMemberByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	memberID := strings.TrimPrefix(r.URL.Path, "/members/")
	memberID = strings.Trim(memberID, "/")
	if memberID == "" {
		writeError(w, http.StatusBadRequest, "member ID is required")
		return
	}

	member, ok := h.store.Get(memberID)
	if !ok {
		writeError(w, http.StatusNotFound, "member not found")
		return
	}

	respondJSON(w, http.StatusOK, toMemberResponse(member))
}

func (h *APIHandlers) handleDatasetUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "multipart form with a file field is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	var members []domain.Member
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".xlsx", ".xlsm":
		members, err = h.codec.DecodeExcel(file)
	default:
		members, err = h.codec.DecodeCSV(file)
	}
	if err != nil {
		h.logger.Warn("dataset upload rejected", "error", err, "filename", header.Filename)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.store.Replace(members)
	h.logger.Info("dataset replaced from upload", "members", len(members), "filename", header.Filename)

	respondJSON(w, http.StatusCreated, datasetResponse{
		Status:  "ok",
		Members: len(members),
	})
}

func (h *APIHandlers) handleDatasetGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	cfg := h.genCfg
	if r.ContentLength > 0 {
		var payload generateRequest
		if err := decodeJSON(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if payload.Members != nil {
			if *payload.Members <= 0 {
				writeError(w, http.StatusBadRequest, "members must be positive")
				return
			}
			cfg.NumMembers = *payload.Members
		}
		if payload.Groups != nil {
			if *payload.Groups <= 0 {
				writeError(w, http.StatusBadRequest, "groups must be positive")
				return
			}
			cfg.NumGroups = *payload.Groups
		}
		if payload.Seed != nil {
			cfg.Seed = *payload.Seed
		}
	}

	members, err := generator.New(cfg).WithThresholds(h.thresholds).Generate(r.Context())
	if err != nil {
		h.logger.Error("generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "generation failed")
		return
	}

	h.store.Replace(members)
	h.logger.Info("dataset regenerated", "members", len(members), "seed", cfg.Seed)

	respondJSON(w, http.StatusCreated, datasetResponse{
		Status:  "ok",
		Members: len(members),
		Seed:    cfg.Seed,
	})
}

func (h *APIHandlers) handleExportMembers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	members := h.store.Snapshot()
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="members.csv"`)
	if err := dataset.EncodeCSV(w, members); err != nil {
		h.logger.Error("csv export failed", "error", err)
	}
}

func (h *APIHandlers) handleOverview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	respondJSON(w, http.StatusOK, toOverviewResponse(analytics.Overview(h.store.Snapshot())))
}

func (h *APIHandlers) handleRiskDistribution(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	query := r.URL.Query()
	resp := riskDistributionResponse{Buckets: []riskBucketResponse{}}

	// Candidate thresholds preview what a reclassification would do
	// without touching the stored table.
	if query.Has("immediate") || query.Has("high") || query.Has("medium") {
		candidate := risk.Thresholds{
			Immediate: parseInt(query.Get("immediate"), h.thresholds.Immediate),
			High:      parseInt(query.Get("high"), h.thresholds.High),
			Medium:    parseInt(query.Get("medium"), h.thresholds.Medium),
		}
		if err := candidate.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		counts := risk.Preview(h.store.Snapshot(), candidate)
		for _, category := range domain.RiskCategories {
			resp.Buckets = append(resp.Buckets, riskBucketResponse{
				Category: string(category),
				Members:  counts[category],
			})
		}
		respondJSON(w, http.StatusOK, resp)
		return
	}

	for _, b := range analytics.RiskDistribution(h.store.Snapshot()) {
		resp.Buckets = append(resp.Buckets, riskBucketResponse{
			Category: string(b.Category),
			Members:  b.Members,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) handleSegments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	stats, err := analytics.GroupBy(h.store.Snapshot(), analytics.BySegment)
	if err != nil {
		h.logger.Error("segment aggregation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "aggregation failed")
		return
	}

	respondJSON(w, http.StatusOK, groupStatsListResponse{Groups: toGroupStatsResponses(stats)})
}

func (h *APIHandlers) handleGroups(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	members := h.store.Snapshot()
	stats, err := analytics.GroupBy(members, analytics.ByGroupID)
	if err != nil {
		h.logger.Error("group aggregation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "aggregation failed")
		return
	}

	matrix := analytics.GroupRiskMatrix(members)
	resp := groupsResponse{
		Groups:     toGroupStatsResponses(stats),
		RiskMatrix: []groupRiskRowResponse{},
	}
	for _, row := range matrix {
		percentages := make(map[string]float64, len(row.Percentages))
		for category, pct := range row.Percentages {
			percentages[string(category)] = pct
		}
		resp.RiskMatrix = append(resp.RiskMatrix, groupRiskRowResponse{
			GroupID:     row.GroupID,
			Members:     row.Members,
			Percentages: percentages,
		})
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) handleInsights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	insights := analytics.Insights(h.store.Snapshot())
	respondJSON(w, http.StatusOK, insightsResponse{
		ZeroEngagementMembers: insights.ZeroEngagementMembers,
		NewMembersAtHighRisk:  insights.NewMembersAtHighRisk,
		TopValueRevenueShare:  insights.TopValueRevenueShare,
		LowestRiskGroupID:     insights.LowestRiskGroupID,
	})
}

func (h *APIHandlers) handleHazard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	respondJSON(w, http.StatusOK, hazardResponse{
		Visits:     toCurveResponses(risk.VisitCurves()),
		Engagement: toCurveResponses(risk.EngagementCurves()),
		Tenure:     toCurveResponses(risk.TenureCurves()),
	})
}

func (h *APIHandlers) handleExecutiveSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	summary := report.BuildExecutiveSummary(h.store.Snapshot(), h.now())

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(summary.Render()))
		return
	}

	buckets := make([]riskBucketResponse, 0, len(summary.RiskDistribution))
	for _, b := range summary.RiskDistribution {
		buckets = append(buckets, riskBucketResponse{
			Category: string(b.Category),
			Members:  b.Members,
		})
	}

	respondJSON(w, http.StatusOK, executiveSummaryResponse{
		ReportID:    summary.ID,
		GeneratedAt: formatTime(summary.GeneratedAt),
		Overview:    toOverviewResponse(summary.Overview),
		Insights: insightsResponse{
			ZeroEngagementMembers: summary.Insights.ZeroEngagementMembers,
			NewMembersAtHighRisk:  summary.Insights.NewMembersAtHighRisk,
			TopValueRevenueShare:  summary.Insights.TopValueRevenueShare,
			LowestRiskGroupID:     summary.Insights.LowestRiskGroupID,
		},
		RiskDistribution: buckets,
	})
}

func (h *APIHandlers) handleAlertTest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload alertRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	phone := payload.Phone
	if phone == "" {
		phone = h.defaultPhone
	}
	if phone == "" {
		writeError(w, http.StatusBadRequest, "phone is required")
		return
	}

	if err := h.alerts.SendTestMessage(r.Context(), phone); err != nil {
		h.writeAlertError(w, err, "test message failed")
		return
	}

	respondJSON(w, http.StatusOK, statusResponse{Status: "sent"})
}

func (h *APIHandlers) handleAlertMember(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	memberID := strings.TrimPrefix(r.URL.Path, "/alerts/member/")
	memberID = strings.Trim(memberID, "/")
	if memberID == "" {
		writeError(w, http.StatusBadRequest, "member ID is required")
		return
	}

	member, ok := h.store.Get(memberID)
	if !ok {
		writeError(w, http.StatusNotFound, "member not found")
		return
	}

	var payload alertRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	if payload.Channel == string(notify.ChannelEmail) {
		if payload.Email == "" {
			writeError(w, http.StatusBadRequest, "email is required for the email channel")
			return
		}
		if err := h.alerts.SendRiskEmail(r.Context(), payload.Email, member); err != nil {
			h.writeAlertError(w, err, "email alert failed")
			return
		}
		respondJSON(w, http.StatusOK, statusResponse{Status: "sent", ID: member.ID})
		return
	}

	phone := payload.Phone
	if phone == "" {
		phone = h.defaultPhone
	}
	if phone == "" {
		writeError(w, http.StatusBadRequest, "phone is required")
		return
	}

	if err := h.alerts.SendRiskAlert(r.Context(), phone, member); err != nil {
		h.writeAlertError(w, err, "alert failed")
		return
	}

	respondJSON(w, http.StatusOK, statusResponse{Status: "sent", ID: member.ID})
}

func (h *APIHandlers) handleAlertBulk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload bulkAlertRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	phone := payload.Phone
	if phone == "" {
		phone = h.defaultPhone
	}
	if phone == "" {
		writeError(w, http.StatusBadRequest, "phone is required")
		return
	}

	limit := payload.Limit
	if limit <= 0 {
		limit = h.bulkLimit
	}

	sent, err := h.alerts.SendBulkAlerts(r.Context(), phone, h.store.Snapshot(), limit)
	if err != nil && sent == 0 {
		h.writeAlertError(w, err, "bulk alerts failed")
		return
	}
	if err != nil {
		h.logger.Warn("bulk alerts partially failed", "error", err, "sent", sent)
	}

	respondJSON(w, http.StatusOK, bulkAlertResponse{Status: "sent", Alerts: sent})
}

func (h *APIHandlers) writeAlertError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, notify.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, "sms delivery is not configured")
	case errors.Is(err, notify.ErrBelowThreshold):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.Error(msg, "error", err)
		writeError(w, http.StatusInternalServerError, msg)
	}
}

// --- Request & Response DTOs ---

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}

type generateRequest struct {
	Members *int   `json:"members"`
	Groups  *int   `json:"groups"`
	Seed    *int64 `json:"seed"`
}

type datasetResponse struct {
	Status  string `json:"status"`
	Members int    `json:"members"`
	Seed    int64  `json:"seed,omitempty"`
}

type alertRequest struct {
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Channel string `json:"channel"`
}

type bulkAlertRequest struct {
	Phone string `json:"phone"`
	Limit int    `json:"limit"`
}

type bulkAlertResponse struct {
	Status string `json:"status"`
	Alerts int    `json:"alerts"`
}

type statusResponse struct {
	Status string `json:"status"`
	ID     string `json:"id,omitempty"`
}

type paginationResponse struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

type memberResponse struct {
	MemberID             string  `json:"memberId"`
	GroupID              string  `json:"groupId"`
	EnrollmentDate       string  `json:"enrollmentDate"`
	TenureDays           int     `json:"tenureDays"`
	VirtualCareVisits    int     `json:"virtualCareVisits"`
	InPersonVisits       int     `json:"inPersonVisits"`
	LifetimeValue        float64 `json:"lifetimeValue"`
	EstimatedDaysToChurn int     `json:"estimatedDaysToChurn"`
	RiskScore            float64 `json:"riskScore"`
	RiskCategory         string  `json:"riskCategory"`
	Segment              string  `json:"segment"`
}

type listMembersResponse struct {
	Pagination paginationResponse `json:"pagination"`
	Items      []memberResponse   `json:"items"`
}

type overviewResponse struct {
	TotalMembers     int     `json:"totalMembers"`
	TotalGroups      int     `json:"totalGroups"`
	AtRiskMembers    int     `json:"atRiskMembers"`
	AtRiskRate       float64 `json:"atRiskRate"`
	RevenueAtRisk    float64 `json:"revenueAtRisk"`
	AvgLifetimeValue float64 `json:"avgLifetimeValue"`
	EngagementRate   float64 `json:"engagementRate"`
	ImmediateRisk    int     `json:"immediateRisk"`
}

type riskBucketResponse struct {
	Category string `json:"category"`
	Members  int    `json:"members"`
}

type riskDistributionResponse struct {
	Buckets []riskBucketResponse `json:"buckets"`
}

type groupStatsResponse struct {
	Key               string  `json:"key"`
	Members           int     `json:"members"`
	AvgLifetimeValue  float64 `json:"avgLifetimeValue"`
	AvgVirtualVisits  float64 `json:"avgVirtualVisits"`
	AvgInPersonVisits float64 `json:"avgInPersonVisits"`
	AvgTenureDays     float64 `json:"avgTenureDays"`
	AvgRiskScore      float64 `json:"avgRiskScore"`
	AtRiskRate        float64 `json:"atRiskRate"`
}

type groupStatsListResponse struct {
	Groups []groupStatsResponse `json:"groups"`
}

type groupRiskRowResponse struct {
	GroupID     string             `json:"groupId"`
	Members     int                `json:"members"`
	Percentages map[string]float64 `json:"percentages"`
}

type groupsResponse struct {
	Groups     []groupStatsResponse   `json:"groups"`
	RiskMatrix []groupRiskRowResponse `json:"riskMatrix"`
}

type insightsResponse struct {
	ZeroEngagementMembers int     `json:"zeroEngagementMembers"`
	NewMembersAtHighRisk  int     `json:"newMembersAtHighRisk"`
	TopValueRevenueShare  float64 `json:"topValueRevenueShare"`
	LowestRiskGroupID     string  `json:"lowestRiskGroupId"`
}

type hazardPointResponse struct {
	Day  float64 `json:"day"`
	Rate float64 `json:"rate"`
}

type hazardCurveResponse struct {
	Label  string                `json:"label"`
	Points []hazardPointResponse `json:"points"`
}

type hazardResponse struct {
	Visits     []hazardCurveResponse `json:"visits"`
	Engagement []hazardCurveResponse `json:"engagement"`
	Tenure     []hazardCurveResponse `json:"tenure"`
}

type executiveSummaryResponse struct {
	ReportID         string               `json:"reportId"`
	GeneratedAt      string               `json:"generatedAt"`
	Overview         overviewResponse     `json:"overview"`
	Insights         insightsResponse     `json:"insights"`
	RiskDistribution []riskBucketResponse `json:"riskDistribution"`
}

func toMemberResponse(m domain.Member) memberResponse {
	return memberResponse{
		MemberID:             m.ID,
		GroupID:              m.GroupID,
		EnrollmentDate:       m.EnrollmentDate.Format("2006-01-02"),
		TenureDays:           m.TenureDays,
		VirtualCareVisits:    m.VirtualCareVisits,
		InPersonVisits:       m.InPersonVisits,
		LifetimeValue:        m.LifetimeValue,
		EstimatedDaysToChurn: m.EstimatedDaysToChurn,
		RiskScore:            m.RiskScore,
		RiskCategory:         string(m.RiskCategory),
		Segment:              string(m.Segment),
	}
}

func toOverviewResponse(o domain.Overview) overviewResponse {
	return overviewResponse{
		TotalMembers:     o.TotalMembers,
		TotalGroups:      o.TotalGroups,
		AtRiskMembers:    o.AtRiskMembers,
		AtRiskRate:       o.AtRiskRate,
		RevenueAtRisk:    o.RevenueAtRisk,
		AvgLifetimeValue: o.AvgLifetimeValue,
		EngagementRate:   o.EngagementRate,
		ImmediateRisk:    o.ImmediateRisk,
	}
}

func toGroupStatsResponses(stats []domain.GroupStats) []groupStatsResponse {
	out := make([]groupStatsResponse, 0, len(stats))
	for _, s := range stats {
		out = append(out, groupStatsResponse{
			Key:               s.Key,
			Members:           s.Members,
			AvgLifetimeValue:  s.AvgLifetimeValue,
			AvgVirtualVisits:  s.AvgVirtualVisits,
			AvgInPersonVisits: s.AvgInPersonVisits,
			AvgTenureDays:     s.AvgTenureDays,
			AvgRiskScore:      s.AvgRiskScore,
			AtRiskRate:        s.AtRiskRate,
		})
	}
	return out
}

func toCurveResponses(curves []domain.HazardCurve) []hazardCurveResponse {
	out := make([]hazardCurveResponse, 0, len(curves))
	for _, curve := range curves {
		points := make([]hazardPointResponse, 0, len(curve.Points))
		for _, p := range curve.Points {
			points = append(points, hazardPointResponse{Day: p.Day, Rate: p.Rate})
		}
		out = append(out, hazardCurveResponse{Label: curve.Label, Points: points})
	}
	return out
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
