package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pressplay/pressplay-backend/internal/app/controller"
	"github.com/pressplay/pressplay-backend/internal/app/model"
	"github.com/pressplay/pressplay-backend/internal/app/repository"
	"github.com/pressplay/pressplay-backend/internal/app/service"
	"github.com/pressplay/pressplay-backend/internal/db"
	"github.com/pressplay/pressplay-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type TestServer struct {
	Router *gin.Engine
	DB     *gorm.DB
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	gameRepo := repository.NewGameRepository(testDB)
	bundleRepo := repository.NewBundleRepository(testDB)
	ratingRepo := repository.NewRatingRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	libraryRepo := repository.NewLibraryRepository(testDB)
	wishlistRepo := repository.NewWishlistRepository(testDB)

	authService := service.NewAuthService(
		userRepo,
		"test-secret",
		15*time.Minute,
		7*24*time.Hour,
		false,
	)
	gameService := service.NewGameService(gameRepo, ratingRepo, libraryRepo, wishlistRepo)
	userLocks := service.NewUserLocks()
	cartService := service.NewCartService(cartRepo, gameRepo, bundleRepo, libraryRepo, userLocks)
	orderService := service.NewOrderService(orderRepo, cartRepo, testDB, userLocks)
	libraryService := service.NewLibraryService(libraryRepo, gameRepo)
	wishlistService := service.NewWishlistService(wishlistRepo, gameRepo)

	authController := controller.NewAuthController(authService)
	gameController := controller.NewGameController(gameService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)
	libraryController := controller.NewLibraryController(libraryService)
	wishlistController := controller.NewWishlistController(wishlistService)

	authMiddleware := middleware.NewAuthMiddleware("test-secret", false)

	router := gin.New()

	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.GET("/me", authMiddleware.Authenticate(), authController.GetMe)
	}

	games := router.Group("/api/v1/games")
	games.Use(authMiddleware.OptionalAuthenticate())
	{
		games.GET("", gameController.ListGames)
		games.GET("/:id", gameController.GetGame)
	}

	cart := router.Group("/api/v1/cart")
	cart.Use(authMiddleware.Authenticate())
	{
		cart.GET("", cartController.GetCart)
		cart.POST("/games", cartController.AddGame)
		cart.DELETE("/games/:game_id", cartController.RemoveGame)
	}

	orders := router.Group("/api/v1/orders")
	orders.Use(authMiddleware.Authenticate())
	{
		orders.POST("/checkout", orderController.Checkout)
		orders.GET("", orderController.GetOrders)
	}

	router.GET("/api/v1/library", authMiddleware.Authenticate(), libraryController.GetLibrary)
	router.POST("/api/v1/wishlist/:game_id/toggle", authMiddleware.Authenticate(), wishlistController.Toggle)

	return &TestServer{
		Router: router,
		DB:     testDB,
	}
}

func TestCompletePurchaseJourney(t *testing.T) {
	ts := setupIntegrationTest(t)

	// 1. Register a new user
	registerReq := map[string]string{
		"email":    "buyer@example.com",
		"password": "password123",
		"name":     "Test Buyer",
	}
	body, _ := json.Marshal(registerReq)
	req := httptest.NewRequest("POST", "/api/v1/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var registerResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &registerResp)
	tokens := registerResp["tokens"].(map[string]interface{})
	accessToken := tokens["access_token"].(string)

	// 2. Seed the catalog directly
	game := &model.Game{
		Title:       "Hollow Depths",
		Description: "A sprawling cave exploration game",
		BasePrice:   59.99,
		ReleaseDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	ts.DB.Create(game)

	// 3. Browse the catalog anonymously
	req = httptest.NewRequest("GET", "/api/v1/games", nil)
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var listResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &listResp)
	assert.NotNil(t, listResp["games"])

	// 4. Add the game to the cart
	addReq := map[string]interface{}{"game_id": game.ID}
	body, _ = json.Marshal(addReq)
	req = httptest.NewRequest("POST", "/api/v1/cart/games", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	// 5. View the cart
	req = httptest.NewRequest("GET", "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var cartResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &cartResp)
	assert.Equal(t, float64(1), cartResp["count"])

	// 6. Checkout
	req = httptest.NewRequest("POST", "/api/v1/orders/checkout", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var checkoutResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &checkoutResp)
	order := checkoutResp["order"].(map[string]interface{})
	assert.Equal(t, "completed", order["status"])
	assert.Equal(t, 59.99, checkoutResp["total_amount"])

	// 7. The game is now in the library
	req = httptest.NewRequest("GET", "/api/v1/library", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var libraryResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &libraryResp)
	assert.Equal(t, float64(1), libraryResp["count"])

	// 8. The cart is empty again
	req = httptest.NewRequest("GET", "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)

	json.Unmarshal(w.Body.Bytes(), &cartResp)
	assert.Equal(t, float64(0), cartResp["count"])

	// 9. Order history shows the purchase
	req = httptest.NewRequest("GET", "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var ordersResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &ordersResp)
	assert.Equal(t, float64(1), ordersResp["count"])

	// 10. Re-adding the owned game is rejected
	req = httptest.NewRequest("POST", "/api/v1/cart/games", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	// 11. The catalog now flags the game as owned for this viewer
	req = httptest.NewRequest("GET", "/api/v1/games", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)

	json.Unmarshal(w.Body.Bytes(), &listResp)
	games := listResp["games"].([]interface{})
	require.Len(t, games, 1)
	assert.Equal(t, true, games[0].(map[string]interface{})["owned"])
}

func TestAuthenticationFlow(t *testing.T) {
	ts := setupIntegrationTest(t)

	registerReq := map[string]string{
		"email":    "test@example.com",
		"password": "password123",
		"name":     "Test User",
	}
	body, _ := json.Marshal(registerReq)
	req := httptest.NewRequest("POST", "/api/v1/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var registerResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &registerResp)
	tokens := registerResp["tokens"].(map[string]interface{})
	accessToken := tokens["access_token"].(string)

	loginReq := map[string]string{
		"email":    "test@example.com",
		"password": "password123",
	}
	body, _ = json.Marshal(loginReq)
	req = httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest("GET", "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w = httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var meResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &meResp)
	user := meResp["user"].(map[string]interface{})
	assert.Equal(t, "test@example.com", user["email"])
	assert.Equal(t, "Test User", user["name"])
}

func TestWishlistToggleFlow(t *testing.T) {
	ts := setupIntegrationTest(t)

	registerReq := map[string]string{
		"email":    "wisher@example.com",
		"password": "password123",
		"name":     "Wisher",
	}
	body, _ := json.Marshal(registerReq)
	req := httptest.NewRequest("POST", "/api/v1/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var registerResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &registerResp)
	accessToken := registerResp["tokens"].(map[string]interface{})["access_token"].(string)

	game := &model.Game{
		Title:       "Neon Drift",
		BasePrice:   29.99,
		ReleaseDate: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	ts.DB.Create(game)

	toggle := func() map[string]interface{} {
		req := httptest.NewRequest("POST", "/api/v1/wishlist/1/toggle", nil)
		req.Header.Set("Authorization", "Bearer "+accessToken)
		w := httptest.NewRecorder()
		ts.Router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &resp)
		return resp
	}

	assert.Equal(t, true, toggle()["in_wishlist"])
	assert.Equal(t, false, toggle()["in_wishlist"])
	assert.Equal(t, true, toggle()["in_wishlist"])
}

func TestUnauthorizedAccess(t *testing.T) {
	ts := setupIntegrationTest(t)

	protectedRoutes := []string{
		"/api/v1/auth/me",
		"/api/v1/cart",
		"/api/v1/orders",
		"/api/v1/library",
	}

	for _, route := range protectedRoutes {
		t.Run(route, func(t *testing.T) {
			req := httptest.NewRequest("GET", route, nil)
			w := httptest.NewRecorder()

			ts.Router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
