package service

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"item_vault/internal/app"
	"item_vault/internal/config"
	"item_vault/internal/models"
	"item_vault/internal/pkg/auth"
	"item_vault/internal/pkg/logger"
	"item_vault/internal/storage"
	"item_vault/internal/storage/mocks"
)

func newTestServer(t *testing.T) (*httptest.Server, *mocks.MockStorage) {
	t.Helper()

	l, err := logger.CreateLogger(config.LogLevel)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockDB := mocks.NewMockStorage(ctrl)

	appInstance := app.NewApp(mockDB, l)
	service := NewService(appInstance, config.ServerRunAddress, l)

	testServer := httptest.NewServer(service.NewRouter())
	t.Cleanup(testServer.Close)

	return testServer, mockDB
}

func testRequest(t *testing.T, ts *httptest.Server, method, path string, requestBody []byte) (*http.Response, string) {
	req, err := http.NewRequest(method, ts.URL+path, bytes.NewBuffer(requestBody))
	require.NoError(t, err)

	client := &http.Client{}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(body)
}

func testRequestWithAuth(t *testing.T, ts *httptest.Server, method, path string, requestBody []byte, token string) (*http.Response, string) {
	req, err := http.NewRequest(method, ts.URL+path, bytes.NewBuffer(requestBody))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	client := &http.Client{}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func playerToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateToken(models.Principal{ID: 2, Username: "player1", Role: models.RolePlayer})
	require.NoError(t, err)
	return token
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateToken(models.Principal{ID: 1, Username: "admin", Role: models.RoleAdmin})
	require.NoError(t, err)
	return token
}

func TestLoginHandler_Gomock(t *testing.T) {
	testServer, mockDB := newTestServer(t)

	testCases := []struct {
		name               string
		requestBody        []byte
		setupMock          func()
		expectedStatusCode int
		expectedBody       string
	}{
		{
			name:               "Invalid JSON",
			requestBody:        []byte("some body"),
			setupMock:          func() {},
			expectedStatusCode: http.StatusBadRequest,
			expectedBody:       "{\"error\":\"invalid character 's' looking for beginning of value\"}\n",
		},
		{
			name:               "Missing username",
			requestBody:        []byte(`{"username": "", "password": "pass"}`),
			setupMock:          func() {},
			expectedStatusCode: http.StatusBadRequest,
			expectedBody:       "{\"error\":\"username is required\"}\n",
		},
		{
			name:        "Invalid credentials",
			requestBody: []byte(`{"username": "player1", "password": "wrongpass"}`),
			setupMock: func() {
				mockDB.EXPECT().CheckUser(gomock.Any(), "player1", "wrongpass").
					Return(nil, storage.ErrInvalidCredentials)
			},
			expectedStatusCode: http.StatusUnauthorized,
			expectedBody:       "{\"error\":\"invalid credentials\"}\n",
		},
		{
			name:        "Successful login",
			requestBody: []byte(`{"username": "player1", "password": "pass123"}`),
			setupMock: func() {
				mockDB.EXPECT().CheckUser(gomock.Any(), "player1", "pass123").
					Return(&models.Account{ID: 2, Username: "player1", Role: models.RolePlayer}, nil)
			},
			expectedStatusCode: http.StatusOK,
			expectedBody:       "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMock()
			resp, body := testRequest(t, testServer, http.MethodPost, "/api/auth/login", tc.requestBody)
			assert.Equal(t, tc.expectedStatusCode, resp.StatusCode)

			if tc.expectedStatusCode == http.StatusOK {
				var authResp models.AuthResponse
				err := json.Unmarshal([]byte(body), &authResp)
				require.NoError(t, err)
				assert.NotEmpty(t, authResp.Token, "token should not be empty")
				assert.Equal(t, models.RolePlayer, authResp.User.Role)
			} else {
				assert.Equal(t, tc.expectedBody, body)
			}
		})
	}
}

func TestRegisterHandler_Gomock(t *testing.T) {
	testServer, mockDB := newTestServer(t)

	testCases := []struct {
		name               string
		requestBody        []byte
		setupMock          func()
		expectedStatusCode int
		expectedBody       string
	}{
		{
			name:               "Password too short",
			requestBody:        []byte(`{"username": "newplayer", "password": "12345"}`),
			setupMock:          func() {},
			expectedStatusCode: http.StatusBadRequest,
			expectedBody:       "{\"error\":\"password must be at least 6 characters\"}\n",
		},
		{
			name:        "Username already exists",
			requestBody: []byte(`{"username": "taken", "password": "123456"}`),
			setupMock: func() {
				mockDB.EXPECT().CreateUser(gomock.Any(), "taken", "123456", models.RolePlayer).
					Return(nil, &pgconn.PgError{Code: pgerrcode.UniqueViolation})
			},
			expectedStatusCode: http.StatusBadRequest,
			expectedBody:       "{\"error\":\"username already exists\"}\n",
		},
		{
			name:        "Successful registration",
			requestBody: []byte(`{"username": "newplayer", "password": "123456"}`),
			setupMock: func() {
				mockDB.EXPECT().CreateUser(gomock.Any(), "newplayer", "123456", models.RolePlayer).
					Return(&models.Account{ID: 5, Username: "newplayer", Role: models.RolePlayer}, nil)
			},
			expectedStatusCode: http.StatusCreated,
			expectedBody:       "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMock()
			resp, body := testRequest(t, testServer, http.MethodPost, "/api/auth/register", tc.requestBody)
			assert.Equal(t, tc.expectedStatusCode, resp.StatusCode)

			if tc.expectedStatusCode == http.StatusCreated {
				var authResp models.AuthResponse
				err := json.Unmarshal([]byte(body), &authResp)
				require.NoError(t, err)
				assert.NotEmpty(t, authResp.Token, "token should not be empty")
			} else {
				assert.Equal(t, tc.expectedBody, body)
			}
		})
	}
}

func TestTransferHandler_Gomock(t *testing.T) {
	testServer, mockDB := newTestServer(t)
	token := playerToken(t)

	testCases := []struct {
		name               string
		token              string
		requestBody        []byte
		setupMock          func()
		expectedStatusCode int
		expectedBody       string
	}{
		{
			name:               "Unauthorized - no token",
			token:              "",
			requestBody:        []byte(`{"toUsername": "player2", "itemId": 1, "quantity": 3}`),
			setupMock:          func() {},
			expectedStatusCode: http.StatusUnauthorized,
			expectedBody:       "{\"error\":\"missing auth header\"}\n",
		},
		{
			name:               "Invalid JSON",
			token:              token,
			requestBody:        []byte("some body"),
			setupMock:          func() {},
			expectedStatusCode: http.StatusBadRequest,
			expectedBody:       "{\"error\":\"invalid character 's' looking for beginning of value\"}\n",
		},
		{
			name:               "Non-positive quantity",
			token:              token,
			requestBody:        []byte(`{"toUsername": "player2", "itemId": 1, "quantity": 0}`),
			setupMock:          func() {},
			expectedStatusCode: http.StatusBadRequest,
			expectedBody:       "{\"error\":\"quantity must be positive\"}\n",
		},
		{
			name:        "Self transfer",
			token:       token,
			requestBody: []byte(`{"toUsername": "player1", "itemId": 1, "quantity": 3}`),
			setupMock: func() {
				mockDB.EXPECT().TransferItem(gomock.Any(), int32(2), "player1", int32(1), 3).
					Return(nil, storage.ErrSelfTransfer)
			},
			expectedStatusCode: http.StatusBadRequest,
			expectedBody:       "{\"error\":\"cannot transfer to yourself\"}\n",
		},
		{
			name:        "Insufficient quantity",
			token:       token,
			requestBody: []byte(`{"toUsername": "player2", "itemId": 1, "quantity": 100}`),
			setupMock: func() {
				mockDB.EXPECT().TransferItem(gomock.Any(), int32(2), "player2", int32(1), 100).
					Return(nil, storage.ErrInsufficientQuantity)
			},
			expectedStatusCode: http.StatusBadRequest,
			expectedBody:       "{\"error\":\"insufficient items\"}\n",
		},
		{
			name:        "Unknown recipient",
			token:       token,
			requestBody: []byte(`{"toUsername": "ghost", "itemId": 1, "quantity": 3}`),
			setupMock: func() {
				mockDB.EXPECT().TransferItem(gomock.Any(), int32(2), "ghost", int32(1), 3).
					Return(nil, storage.ErrRecipientNotFound)
			},
			expectedStatusCode: http.StatusNotFound,
			expectedBody:       "{\"error\":\"recipient user not found\"}\n",
		},
		{
			name:        "Successful transfer",
			token:       token,
			requestBody: []byte(`{"toUsername": "player2", "itemId": 1, "quantity": 3}`),
			setupMock: func() {
				mockDB.EXPECT().TransferItem(gomock.Any(), int32(2), "player2", int32(1), 3).
					Return(&models.TransferRecord{
						ID:           10,
						FromUserID:   2,
						ToUserID:     3,
						ItemID:       1,
						Quantity:     3,
						Status:       models.TransferStatusCompleted,
						FromUsername: "player1",
						ToUsername:   "player2",
						ItemName:     "Iron Sword",
					}, nil)
			},
			expectedStatusCode: http.StatusCreated,
			expectedBody:       "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMock()
			resp, body := testRequestWithAuth(t, testServer, http.MethodPost, "/api/transfers", tc.requestBody, tc.token)
			assert.Equal(t, tc.expectedStatusCode, resp.StatusCode)

			if tc.expectedStatusCode == http.StatusCreated {
				var record models.TransferRecord
				err := json.Unmarshal([]byte(body), &record)
				require.NoError(t, err)
				assert.Equal(t, 3, record.Quantity)
				assert.Equal(t, models.TransferStatusCompleted, record.Status)
			} else {
				assert.Equal(t, tc.expectedBody, body)
			}
		})
	}
}

func TestGrantItemHandler_Gomock(t *testing.T) {
	testServer, mockDB := newTestServer(t)

	testCases := []struct {
		name               string
		token              string
		requestBody        []byte
		setupMock          func()
		expectedStatusCode int
		expectedBody       string
	}{
		{
			name:               "Forbidden for players",
			token:              playerToken(t),
			requestBody:        []byte(`{"userId": 2, "itemId": 1, "quantity": 10}`),
			setupMock:          func() {},
			expectedStatusCode: http.StatusForbidden,
			expectedBody:       "{\"error\":\"admin access required\"}\n",
		},
		{
			name:        "Unknown user",
			token:       adminToken(t),
			requestBody: []byte(`{"userId": 99, "itemId": 1, "quantity": 10}`),
			setupMock: func() {
				mockDB.EXPECT().GrantItem(gomock.Any(), int32(99), int32(1), 10).
					Return(storage.ErrUserNotFound)
			},
			expectedStatusCode: http.StatusNotFound,
			expectedBody:       "{\"error\":\"user not found\"}\n",
		},
		{
			name:        "Unknown item",
			token:       adminToken(t),
			requestBody: []byte(`{"userId": 2, "itemId": 99, "quantity": 10}`),
			setupMock: func() {
				mockDB.EXPECT().GrantItem(gomock.Any(), int32(2), int32(99), 10).
					Return(storage.ErrItemNotFound)
			},
			expectedStatusCode: http.StatusNotFound,
			expectedBody:       "{\"error\":\"item not found\"}\n",
		},
		{
			name:        "Successful grant",
			token:       adminToken(t),
			requestBody: []byte(`{"userId": 2, "itemId": 1, "quantity": 10}`),
			setupMock: func() {
				mockDB.EXPECT().GrantItem(gomock.Any(), int32(2), int32(1), 10).Return(nil)
			},
			expectedStatusCode: http.StatusCreated,
			expectedBody:       "{\"message\":\"item added to inventory\"}",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMock()
			resp, body := testRequestWithAuth(t, testServer, http.MethodPost, "/api/inventory", tc.requestBody, tc.token)
			assert.Equal(t, tc.expectedStatusCode, resp.StatusCode)
			assert.Equal(t, tc.expectedBody, body)
		})
	}
}

func TestItemHandlers_Gomock(t *testing.T) {
	testServer, mockDB := newTestServer(t)

	t.Run("Create item forbidden for players", func(t *testing.T) {
		requestBody := []byte(`{"name": "Iron Sword", "itemType": "weapon"}`)
		resp, body := testRequestWithAuth(t, testServer, http.MethodPost, "/api/items", requestBody, playerToken(t))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "{\"error\":\"admin access required\"}\n", body)
	})

	t.Run("Create item with invalid type", func(t *testing.T) {
		requestBody := []byte(`{"name": "Iron Sword", "itemType": "vehicle"}`)
		resp, body := testRequestWithAuth(t, testServer, http.MethodPost, "/api/items", requestBody, adminToken(t))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, body, "itemtype must be one of")
	})

	t.Run("Create item success", func(t *testing.T) {
		itemInput := models.ItemInput{
			Name:     "Iron Sword",
			ItemType: "weapon",
			Rarity:   "rare",
			Stats:    map[string]interface{}{"attack": float64(15)},
		}
		mockDB.EXPECT().CreateItem(gomock.Any(), itemInput).
			Return(&models.Item{ID: 1, Name: "Iron Sword", ItemType: "weapon", Rarity: "rare", Stats: itemInput.Stats}, nil)

		requestBody := []byte(`{"name": "Iron Sword", "itemType": "weapon", "rarity": "rare", "stats": {"attack": 15}}`)
		resp, body := testRequestWithAuth(t, testServer, http.MethodPost, "/api/items", requestBody, adminToken(t))
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var item models.Item
		require.NoError(t, json.Unmarshal([]byte(body), &item))
		assert.Equal(t, int32(1), item.ID)
		assert.Equal(t, "rare", item.Rarity)
	})

	t.Run("Get unknown item", func(t *testing.T) {
		mockDB.EXPECT().GetItem(gomock.Any(), int32(99)).Return(nil, storage.ErrItemNotFound)

		resp, body := testRequestWithAuth(t, testServer, http.MethodGet, "/api/items/99", nil, playerToken(t))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "{\"error\":\"item not found\"}\n", body)
	})

	t.Run("Get item with invalid id", func(t *testing.T) {
		resp, body := testRequestWithAuth(t, testServer, http.MethodGet, "/api/items/abc", nil, playerToken(t))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "{\"error\":\"invalid item id\"}\n", body)
	})

	t.Run("Delete item success", func(t *testing.T) {
		mockDB.EXPECT().DeleteItem(gomock.Any(), int32(1)).Return(nil)

		resp, body := testRequestWithAuth(t, testServer, http.MethodDelete, "/api/items/1", nil, adminToken(t))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "{\"message\":\"item deleted successfully\"}", body)
	})
}

func TestListTransfersHandler_Gomock(t *testing.T) {
	testServer, mockDB := newTestServer(t)

	t.Run("Players see own transfers", func(t *testing.T) {
		mockDB.EXPECT().ListUserTransfers(gomock.Any(), int32(2)).
			Return([]models.TransferRecord{{ID: 1, FromUserID: 2}}, nil)

		resp, body := testRequestWithAuth(t, testServer, http.MethodGet, "/api/transfers", nil, playerToken(t))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var records []models.TransferRecord
		require.NoError(t, json.Unmarshal([]byte(body), &records))
		assert.Len(t, records, 1)
	})

	t.Run("Admins see all transfers", func(t *testing.T) {
		mockDB.EXPECT().ListAllTransfers(gomock.Any()).
			Return([]models.TransferRecord{{ID: 1}, {ID: 2}, {ID: 3}}, nil)

		resp, body := testRequestWithAuth(t, testServer, http.MethodGet, "/api/transfers", nil, adminToken(t))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var records []models.TransferRecord
		require.NoError(t, json.Unmarshal([]byte(body), &records))
		assert.Len(t, records, 3)
	})
}

func TestStatisticsHandler_Gomock(t *testing.T) {
	testServer, mockDB := newTestServer(t)

	t.Run("Forbidden for players", func(t *testing.T) {
		resp, body := testRequestWithAuth(t, testServer, http.MethodGet, "/api/statistics", nil, playerToken(t))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "{\"error\":\"admin access required\"}\n", body)
	})

	t.Run("Admin retrieves counts", func(t *testing.T) {
		mockDB.EXPECT().GetStatistics(gomock.Any()).
			Return(&models.Statistics{TotalUsers: 4, TotalItems: 2, TotalTransfers: 7, TotalInventoryUnits: 31}, nil)

		resp, body := testRequestWithAuth(t, testServer, http.MethodGet, "/api/statistics", nil, adminToken(t))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var statistics models.Statistics
		require.NoError(t, json.Unmarshal([]byte(body), &statistics))
		assert.Equal(t, 4, statistics.TotalUsers)
		assert.Equal(t, 31, statistics.TotalInventoryUnits)
	})
}

func TestInventoryHandler_Gomock(t *testing.T) {
	testServer, mockDB := newTestServer(t)

	mockDB.EXPECT().GetInventory(gomock.Any(), int32(2)).
		Return([]models.InventoryEntry{
			{InventoryID: 1, ItemID: 1, Name: "Iron Sword", ItemType: "weapon", Rarity: "rare", Quantity: 2},
		}, nil)

	resp, body := testRequestWithAuth(t, testServer, http.MethodGet, "/api/inventory", nil, playerToken(t))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var inventory []models.InventoryEntry
	require.NoError(t, json.Unmarshal([]byte(body), &inventory))
	require.Len(t, inventory, 1)
	assert.Equal(t, 2, inventory[0].Quantity)
}
