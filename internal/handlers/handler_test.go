package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/SscSPs/finance_tracker/internal/handlers"
	"github.com/SscSPs/finance_tracker/internal/middleware"
)

const testIssuer = "finance-tracker-test"

type HandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	walletSvc      *MockWalletService
	transactionSvc *MockTransactionService
	transferSvc    *MockTransferService
	reminderSvc    *MockReminderService
	jwtSecret      string
	userID         string
}

func (suite *HandlerTestSuite) generateTestToken(userID string, issuer string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = uuid.NewString()

	suite.walletSvc = new(MockWalletService)
	suite.transactionSvc = new(MockTransactionService)
	suite.transferSvc = new(MockTransferService)
	suite.reminderSvc = new(MockReminderService)

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(suite.jwtSecret, testIssuer))
	handlers.RegisterWalletRoutes(v1, suite.walletSvc)
	handlers.RegisterTransactionRoutes(v1, suite.transactionSvc, suite.transferSvc)
	handlers.RegisterReminderRoutes(v1, suite.reminderSvc)
}

func (suite *HandlerTestSuite) do(method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID, testIssuer))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) errorBody(w *httptest.ResponseRecorder) string {
	var body map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func (suite *HandlerTestSuite) TestAuth_RejectsMissingAndForeignTokens() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/wallets", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusUnauthorized, w.Code)

	req, _ = http.NewRequest(http.MethodGet, "/api/v1/wallets", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID, "someone-else"))
	w = httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusUnauthorized, w.Code)

	suite.walletSvc.AssertNotCalled(suite.T(), "ListWallets")
}

func (suite *HandlerTestSuite) TestCreateWallet_Success() {
	req := dto.CreateWalletRequest{
		Name:           "Checking",
		WalletType:     domain.WalletBank,
		CurrencyCode:   "EUR",
		OpeningBalance: decimal.NewFromInt(250),
	}
	created := &domain.Wallet{
		WalletID:     uuid.NewString(),
		UserID:       suite.userID,
		Name:         req.Name,
		WalletType:   req.WalletType,
		CurrencyCode: req.CurrencyCode,
		Balance:      req.OpeningBalance,
		IsActive:     true,
	}
	suite.walletSvc.On("CreateWallet", mock.Anything, suite.userID, mock.MatchedBy(func(r dto.CreateWalletRequest) bool {
		return r.Name == "Checking" && r.OpeningBalance.Equal(decimal.NewFromInt(250))
	})).Return(created, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/wallets", req)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.WalletResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(created.WalletID, resp.WalletID)
	suite.True(resp.Balance.Equal(decimal.NewFromInt(250)))
	suite.walletSvc.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestCreateWallet_BindingFailure() {
	w := suite.do(http.MethodPost, "/api/v1/wallets", map[string]any{"name": "No type"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(suite.errorBody(w), "Invalid request format")
	suite.walletSvc.AssertNotCalled(suite.T(), "CreateWallet")
}

func (suite *HandlerTestSuite) TestErrorMapping() {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", fmt.Errorf("%w: wallet w1", apperrors.ErrNotFound), http.StatusNotFound},
		{"validation", fmt.Errorf("%w: bad", apperrors.ErrValidation), http.StatusBadRequest},
		{"invalid operation", fmt.Errorf("%w: transfer leg", apperrors.ErrInvalidOperation), http.StatusUnprocessableEntity},
		{"insufficient", fmt.Errorf("%w: wallet w1", apperrors.ErrInsufficientBalance), http.StatusConflict},
		{"internal", apperrors.NewAppError(500, "db down", nil), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		suite.Run(tc.name, func() {
			id := uuid.NewString()
			suite.transactionSvc.On("GetTransaction", mock.Anything, suite.userID, id).Return(nil, tc.err).Once()

			w := suite.do(http.MethodGet, "/api/v1/transactions/"+id, nil)

			suite.Equal(tc.status, w.Code)
			if tc.status == http.StatusInternalServerError {
				suite.Equal("Failed to retrieve transaction", suite.errorBody(w))
			} else {
				suite.Equal(tc.err.Error(), suite.errorBody(w))
			}
		})
	}
}

func (suite *HandlerTestSuite) TestListTransactions_BindsQuery() {
	walletID := uuid.NewString()
	token := "page-2"
	expected := &dto.ListTransactionsResponse{
		Transactions: []domain.Transaction{{TransactionID: uuid.NewString(), WalletID: walletID, Amount: decimal.NewFromInt(5), Kind: domain.Expense}},
	}
	suite.transactionSvc.On("ListTransactions", mock.Anything, suite.userID, mock.MatchedBy(func(p dto.ListTransactionsParams) bool {
		return p.WalletID == walletID && p.Limit == 10 && p.NextToken != nil && *p.NextToken == token
	})).Return(expected, nil).Once()

	w := suite.do(http.MethodGet, fmt.Sprintf("/api/v1/transactions?walletID=%s&limit=10&nextToken=%s", walletID, token), nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListTransactionsResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Transactions, 1)
	suite.Nil(resp.NextToken)
	suite.transactionSvc.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestListTransactions_RequiresWallet() {
	w := suite.do(http.MethodGet, "/api/v1/transactions?limit=10", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.transactionSvc.AssertNotCalled(suite.T(), "ListTransactions")
}

func (suite *HandlerTestSuite) TestTransfer_InsufficientBalance() {
	req := dto.TransferRequest{
		FromWalletID: uuid.NewString(),
		ToWalletID:   uuid.NewString(),
		Amount:       decimal.NewFromInt(90),
		Fee:          decimal.NewFromInt(20),
	}
	suite.transferSvc.On("Transfer", mock.Anything, suite.userID, mock.AnythingOfType("dto.TransferRequest")).
		Return(nil, fmt.Errorf("%w: wallet %s", apperrors.ErrInsufficientBalance, req.FromWalletID)).Once()

	w := suite.do(http.MethodPost, "/api/v1/transfers", req)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Contains(suite.errorBody(w), "insufficient balance")
}

func (suite *HandlerTestSuite) TestDeleteTransaction_NoContent() {
	id := uuid.NewString()
	suite.transactionSvc.On("DeleteTransaction", mock.Anything, suite.userID, id).Return(nil).Once()

	w := suite.do(http.MethodDelete, "/api/v1/transactions/"+id, nil)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.transactionSvc.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestListReminders_StatusFilter() {
	suite.reminderSvc.On("ListReminders", mock.Anything, suite.userID, mock.MatchedBy(func(s *domain.ReminderStatus) bool {
		return s != nil && *s == domain.ReminderOverdue
	})).Return([]domain.Reminder{}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reminders?status=overdue", nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/reminders?status=LATE", nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	suite.reminderSvc.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestSnoozeReminder_PassesUntil() {
	id := uuid.NewString()
	until := time.Date(2030, 1, 2, 8, 0, 0, 0, time.UTC)
	suite.reminderSvc.On("SnoozeReminder", mock.Anything, suite.userID, id, mock.MatchedBy(func(t time.Time) bool {
		return t.Equal(until)
	})).Return(&domain.Reminder{ReminderID: id, SnoozeUntil: &until}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/reminders/"+id+"/snooze", dto.SnoozeReminderRequest{Until: until})

	suite.Equal(http.StatusOK, w.Code)
	suite.reminderSvc.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestCompleteReminder_AlreadyCompleted() {
	id := uuid.NewString()
	suite.reminderSvc.On("CompleteReminder", mock.Anything, suite.userID, id).
		Return(nil, fmt.Errorf("%w: reminder already completed", apperrors.ErrInvalidOperation)).Once()

	w := suite.do(http.MethodPost, "/api/v1/reminders/"+id+"/complete", nil)

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
