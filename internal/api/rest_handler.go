package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"katalian_bank/internal/assistant"
	"katalian_bank/internal/auth"
	"katalian_bank/internal/domain"
	"katalian_bank/internal/gateway"
	"katalian_bank/internal/ledger"
	"katalian_bank/internal/repository"
)

type APIHandler struct {
	ledger         *ledger.Service
	sessions       *auth.SessionManager
	assistant      *assistant.Service
	logger         *slog.Logger
	requestTimeout time.Duration
}

func NewAPIHandler(
	ledgerSvc *ledger.Service,
	sessions *auth.SessionManager,
	assistantSvc *assistant.Service,
	logger *slog.Logger,
) *APIHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &APIHandler{
		ledger:         ledgerSvc,
		sessions:       sessions,
		assistant:      assistantSvc,
		logger:         logger,
		requestTimeout: 30 * time.Second,
	}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Result string       `json:"result"`
	Token  string       `json:"token,omitempty"`
	User   *domain.User `json:"user,omitempty"`
	Next   string       `json:"next,omitempty"`
}

type PasswordResetRequest struct {
	Username string `json:"username"`
}

type TransferRequest struct {
	FromAccountID string  `json:"from_account_id"`
	ToAccountID   string  `json:"to_account_id"`
	Amount        float64 `json:"amount"`
}

type DepositRequest struct {
	ToAccountID   string  `json:"to_account_id"`
	Amount        float64 `json:"amount"`
	FromAccountID string  `json:"from_account_id,omitempty"`
}

type ApplicationRequest struct {
	AccountType domain.AccountType     `json:"account_type"`
	Application domain.ApplicationData `json:"application"`
}

type LoanApplicationRequest struct {
	LoanType    domain.LoanType            `json:"loan_type"`
	Application domain.LoanApplicationData `json:"application"`
}

type ReportRequest struct {
	AccountID string `json:"account_id"`
}

type AssistantRequest struct {
	Query string `json:"query"`
}

type OperationResponse struct {
	User         *domain.User         `json:"user,omitempty"`
	Account      *domain.Account      `json:"account,omitempty"`
	Loan         *domain.Loan         `json:"loan,omitempty"`
	Confirmation gateway.Confirmation `json:"confirmation"`
	Next         string               `json:"next,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opContext(r)
	defer cancel()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "Invalid request body", http.StatusBadRequest, "INVALID_REQUEST")
		return
	}

	token, user, result, err := h.sessions.Login(ctx, req.Username, req.Password)
	if err != nil {
		h.sendError(w, "Login failed", http.StatusInternalServerError, "SERVER_ERROR")
		return
	}

	switch result {
	case auth.LoginSuccess:
		h.sendJSON(w, LoginResponse{
			Result: string(result),
			Token:  token,
			User:   user,
			Next:   domain.Route(domain.DashboardView{}),
		}, http.StatusOK)
	case auth.LoginLocked:
		h.sendJSON(w, LoginResponse{
			Result: string(result),
			Next:   domain.Route(domain.ResetPasswordView{}),
		}, http.StatusForbidden)
	default:
		h.sendJSON(w, LoginResponse{Result: string(result)}, http.StatusUnauthorized)
	}
}

func (h *APIHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token != "" {
		h.sessions.Logout(token)
	}
	h.sendJSON(w, map[string]string{"next": domain.Route(domain.LoginView{})}, http.StatusOK)
}

// PasswordResetHandler always acknowledges. No credentials change in the
// simulation and the response never reveals whether the username exists.
func (h *APIHandler) PasswordResetHandler(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "Invalid request body", http.StatusBadRequest, "INVALID_REQUEST")
		return
	}

	h.logger.Info("Password reset requested", slog.String("username", req.Username))
	h.sendJSON(w, map[string]string{
		"message": "If an account matches, reset instructions have been sent.",
		"next":    domain.Route(domain.LoginView{}),
	}, http.StatusAccepted)
}

func (h *APIHandler) GetAccountsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opContext(r)
	defer cancel()

	userID, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	user, err := h.ledger.GetUser(ctx, userID)
	if err != nil {
		h.sendDomainError(w, err)
		return
	}
	h.sendJSON(w, user, http.StatusOK)
}

func (h *APIHandler) TransferHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opContext(r)
	defer cancel()

	userID, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "Invalid request body", http.StatusBadRequest, "INVALID_REQUEST")
		return
	}
	if req.FromAccountID == "" || req.ToAccountID == "" {
		h.sendError(w, "from_account_id and to_account_id are required", http.StatusBadRequest, "VALIDATION_ERROR")
		return
	}

	user, conf, err := h.ledger.Transfer(ctx, userID, req.FromAccountID, req.ToAccountID, req.Amount)
	if err != nil {
		h.sendDomainError(w, err)
		return
	}

	h.sendJSON(w, OperationResponse{
		User:         user,
		Confirmation: conf,
		Next:         domain.Route(domain.DashboardView{}),
	}, http.StatusOK)
}

func (h *APIHandler) DepositHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opContext(r)
	defer cancel()

	userID, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	var req DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "Invalid request body", http.StatusBadRequest, "INVALID_REQUEST")
		return
	}
	if req.ToAccountID == "" {
		h.sendError(w, "to_account_id is required", http.StatusBadRequest, "VALIDATION_ERROR")
		return
	}

	user, conf, err := h.ledger.Deposit(ctx, userID, req.ToAccountID, req.Amount, req.FromAccountID)
	if err != nil {
		h.sendDomainError(w, err)
		return
	}

	h.sendJSON(w, OperationResponse{
		User:         user,
		Confirmation: conf,
		Next:         domain.Route(domain.DashboardView{}),
	}, http.StatusOK)
}

func (h *APIHandler) ApplicationHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opContext(r)
	defer cancel()

	userID, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	var req ApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "Invalid request body", http.StatusBadRequest, "INVALID_REQUEST")
		return
	}

	user, account, conf, err := h.ledger.OpenAccount(ctx, userID, req.Application, req.AccountType)
	if err != nil {
		h.sendDomainError(w, err)
		return
	}

	h.sendJSON(w, OperationResponse{
		User:         user,
		Account:      account,
		Confirmation: conf,
		Next:         domain.Route(domain.DashboardView{}),
	}, http.StatusCreated)
}

func (h *APIHandler) LoanApplicationHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opContext(r)
	defer cancel()

	userID, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	var req LoanApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "Invalid request body", http.StatusBadRequest, "INVALID_REQUEST")
		return
	}

	user, loan, conf, err := h.ledger.OpenLoan(ctx, userID, req.Application, req.LoanType)
	if err != nil {
		h.sendDomainError(w, err)
		return
	}

	h.sendJSON(w, OperationResponse{
		User:         user,
		Loan:         loan,
		Confirmation: conf,
		Next:         domain.Route(domain.DashboardView{}),
	}, http.StatusCreated)
}

func (h *APIHandler) LoanProductsHandler(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, ledger.LoanProducts(), http.StatusOK)
}

func (h *APIHandler) SecurityHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opContext(r)
	defer cancel()

	userID, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	action := domain.SecurityAction(r.PathValue("action"))
	switch action {
	case domain.SecurityLockdown:
		if _, err := h.ledger.Lockdown(ctx, userID); err != nil {
			h.sendDomainError(w, err)
			return
		}
		// Lockdown ends every session the user holds.
		h.sessions.Terminate(userID)
		h.sendJSON(w, map[string]string{"next": domain.Route(domain.LoginView{})}, http.StatusOK)

	case domain.SecurityReport:
		var req ReportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.sendError(w, "Invalid request body", http.StatusBadRequest, "INVALID_REQUEST")
			return
		}
		conf, err := h.ledger.Report(ctx, userID, req.AccountID)
		if err != nil {
			h.sendDomainError(w, err)
			return
		}
		h.sendJSON(w, OperationResponse{
			Confirmation: conf,
			Next:         domain.Route(domain.DashboardView{}),
		}, http.StatusOK)

	default:
		h.sendError(w, fmt.Sprintf("unknown security action: %s", action), http.StatusNotFound, "NOT_FOUND")
	}
}

func (h *APIHandler) AssistantHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.opContext(r)
	defer cancel()

	if _, ok := h.authenticate(w, r); !ok {
		return
	}

	var req AssistantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, "Invalid request body", http.StatusBadRequest, "INVALID_REQUEST")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		h.sendError(w, "query is required", http.StatusBadRequest, "VALIDATION_ERROR")
		return
	}

	answer, err := h.assistant.Ask(ctx, req.Query)
	if err != nil {
		h.sendError(w, "Unable to connect to the financial intelligence engine", http.StatusBadGateway, "ASSISTANT_ERROR")
		return
	}
	h.sendJSON(w, map[string]string{"answer": answer}, http.StatusOK)
}

func (h *APIHandler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   "1.0.0",
	}
	h.sendJSON(w, response, http.StatusOK)
}

func (h *APIHandler) opContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.requestTimeout)
}

// authenticate resolves the bearer token to a user ID, writing the 401
// itself so handlers can bail with a bare return.
func (h *APIHandler) authenticate(w http.ResponseWriter, r *http.Request) (string, bool) {
	token := bearerToken(r)
	if token == "" {
		h.sendError(w, "Authorization required", http.StatusUnauthorized, "UNAUTHORIZED")
		return "", false
	}
	userID, ok := h.sessions.Current(token)
	if !ok {
		h.sendError(w, "Session expired or invalid", http.StatusUnauthorized, "UNAUTHORIZED")
		return "", false
	}
	return userID, true
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, found := strings.CutPrefix(header, "Bearer "); found {
		return token
	}
	return ""
}

// sendDomainError maps ledger and repository errors onto HTTP statuses:
// malformed input is 400, missing entities 404, state conflicts 409.
func (h *APIHandler) sendDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		h.sendError(w, err.Error(), http.StatusNotFound, "NOT_FOUND")
	case errors.Is(err, repository.ErrInvalidAmount):
		h.sendError(w, err.Error(), http.StatusBadRequest, "VALIDATION_ERROR")
	case errors.Is(err, repository.ErrSameAccount),
		errors.Is(err, repository.ErrInsufficientFunds),
		errors.Is(err, repository.ErrIneligibleSource),
		errors.Is(err, repository.ErrUserLocked):
		h.sendError(w, err.Error(), http.StatusConflict, "CONFLICT")
	case strings.Contains(err.Error(), "validation errors"):
		h.sendError(w, err.Error(), http.StatusBadRequest, "VALIDATION_ERROR")
	default:
		h.sendError(w, "Operation failed", http.StatusInternalServerError, "SERVER_ERROR")
	}
}

func (h *APIHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", slog.String("error", err.Error()))
	}
}

func (h *APIHandler) sendError(w http.ResponseWriter, message string, statusCode int, code string) {
	errorResponse := ErrorResponse{
		Error: message,
		Code:  code,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(errorResponse)

	h.logger.Warn("API error response",
		slog.String("message", message),
		slog.String("code", code),
		slog.Int("status", statusCode))
}

func (h *APIHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/login", h.LoginHandler)
	mux.HandleFunc("POST /api/v1/logout", h.LogoutHandler)
	mux.HandleFunc("POST /api/v1/password-reset", h.PasswordResetHandler)
	mux.HandleFunc("GET /api/v1/accounts", h.GetAccountsHandler)
	mux.HandleFunc("POST /api/v1/transfers", h.TransferHandler)
	mux.HandleFunc("POST /api/v1/deposits", h.DepositHandler)
	mux.HandleFunc("POST /api/v1/applications", h.ApplicationHandler)
	mux.HandleFunc("POST /api/v1/loan-applications", h.LoanApplicationHandler)
	mux.HandleFunc("GET /api/v1/loan-products", h.LoanProductsHandler)
	mux.HandleFunc("POST /api/v1/security/{action}", h.SecurityHandler)
	mux.HandleFunc("POST /api/v1/assistant", h.AssistantHandler)
	mux.HandleFunc("GET /api/health", h.HealthCheckHandler)
}
