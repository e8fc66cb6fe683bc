package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/florisapp/floris-go/internal/auth"
	"github.com/florisapp/floris-go/internal/domain"
	"github.com/florisapp/floris-go/internal/gacha"
	"github.com/florisapp/floris-go/internal/inventory"
)

// MockInventoryService
type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) GetView(ctx context.Context, userID string) (*inventory.View, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.View), args.Error(1)
}

func (m *MockInventoryService) Sell(ctx context.Context, userID string, flowerID int) (*inventory.SellResult, error) {
	args := m.Called(ctx, userID, flowerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.SellResult), args.Error(1)
}

// MockGachaService
type MockGachaService struct {
	mock.Mock
}

func (m *MockGachaService) Draw(ctx context.Context, userID string) (*gacha.DrawResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gacha.DrawResult), args.Error(1)
}

func authedRequest(method, target string, body []byte, userID string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	return req.WithContext(auth.WithUserID(req.Context(), userID))
}

func TestHandleGetMe_Success(t *testing.T) {
	svc := new(MockInventoryService)
	svc.On("GetView", mock.Anything, "u1").Return(&inventory.View{
		Points:    500,
		Inventory: map[int]int{1: 2},
		GiftBox:   []inventory.GiftEntry{},
	}, nil)

	rr := httptest.NewRecorder()
	HandleGetMe(svc)(rr, authedRequest(http.MethodGet, "/user/me", nil, "u1"))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp inventory.View
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 500, resp.Points)
	assert.Equal(t, map[int]int{1: 2}, resp.Inventory)
	assert.Empty(t, resp.GiftBox)
}

func TestHandleGetMe_Unauthenticated(t *testing.T) {
	svc := new(MockInventoryService)

	rr := httptest.NewRecorder()
	HandleGetMe(svc)(rr, httptest.NewRequest(http.MethodGet, "/user/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	svc.AssertNotCalled(t, "GetView", mock.Anything, mock.Anything)
}

func TestHandleGetMe_UserNotFound(t *testing.T) {
	svc := new(MockInventoryService)
	svc.On("GetView", mock.Anything, "u1").Return(nil, domain.ErrUserNotFound)

	rr := httptest.NewRecorder()
	HandleGetMe(svc)(rr, authedRequest(http.MethodGet, "/user/me", nil, "u1"))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleGacha_Success(t *testing.T) {
	svc := new(MockGachaService)
	svc.On("Draw", mock.Anything, "u1").Return(&gacha.DrawResult{
		Points: 400,
		Flower: domain.Flower{ID: 3, Name: "수국", Rarity: domain.RarityRare, Price: 80},
		IsNew:  true,
	}, nil)

	rr := httptest.NewRecorder()
	HandleGacha(svc)(rr, authedRequest(http.MethodPost, "/user/gacha", nil, "u1"))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp GachaResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 400, resp.Points)
	assert.Equal(t, 3, resp.Flower.ID)
	assert.True(t, resp.IsNew)
}

func TestHandleGacha_InsufficientFunds(t *testing.T) {
	svc := new(MockGachaService)
	svc.On("Draw", mock.Anything, "u1").Return(nil, domain.ErrInsufficientFunds)

	rr := httptest.NewRecorder()
	HandleGacha(svc)(rr, authedRequest(http.MethodPost, "/user/gacha", nil, "u1"))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, MsgNotEnoughPoints, resp.Message)
}

func TestHandleGacha_ServiceErrorIsGeneric(t *testing.T) {
	svc := new(MockGachaService)
	svc.On("Draw", mock.Anything, "u1").Return(nil, errors.New("pq: connection refused"))

	rr := httptest.NewRecorder()
	HandleGacha(svc)(rr, authedRequest(http.MethodPost, "/user/gacha", nil, "u1"))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	// Internal detail never leaks to the client
	assert.NotContains(t, rr.Body.String(), "connection refused")
}

func TestHandleSell_Success(t *testing.T) {
	svc := new(MockInventoryService)
	svc.On("Sell", mock.Anything, "u1", 3).Return(&inventory.SellResult{Points: 580, SoldID: "inst-1"}, nil)

	body := []byte(`{"flowerId":3}`)
	rr := httptest.NewRecorder()
	HandleSell(svc)(rr, authedRequest(http.MethodPost, "/user/sell", body, "u1"))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp SellResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 580, resp.Points)
	assert.Equal(t, "inst-1", resp.SoldID)
}

func TestHandleSell_ValidationFailure(t *testing.T) {
	svc := new(MockInventoryService)

	body := []byte(`{"flowerId":0}`)
	rr := httptest.NewRecorder()
	HandleSell(svc)(rr, authedRequest(http.MethodPost, "/user/sell", body, "u1"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Sell", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleSell_NothingToSell(t *testing.T) {
	svc := new(MockInventoryService)
	svc.On("Sell", mock.Anything, "u1", 3).Return(nil, domain.ErrFlowerNotFound)

	body := []byte(`{"flowerId":3}`)
	rr := httptest.NewRecorder()
	HandleSell(svc)(rr, authedRequest(http.MethodPost, "/user/sell", body, "u1"))

	require.Equal(t, http.StatusNotFound, rr.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, MsgFlowerNotFound, resp.Message)
}
