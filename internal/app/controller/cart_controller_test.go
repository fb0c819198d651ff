package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pressplay/pressplay-backend/internal/app/model"
	"github.com/pressplay/pressplay-backend/internal/app/repository"
	"github.com/pressplay/pressplay-backend/internal/app/service"
	"github.com/pressplay/pressplay-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartControllerTest(t *testing.T) (*CartController, *gin.Engine, *gorm.DB, *model.User, *model.Game) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	gameRepo := repository.NewGameRepository(testDB)
	bundleRepo := repository.NewBundleRepository(testDB)
	libraryRepo := repository.NewLibraryRepository(testDB)
	cartService := service.NewCartService(cartRepo, gameRepo, bundleRepo, libraryRepo, service.NewUserLocks())
	cartController := NewCartController(cartService)

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	game := &model.Game{
		Title:       "Hollow Depths",
		Description: "A sprawling cave exploration game",
		BasePrice:   59.99,
		ReleaseDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	testDB.Create(game)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return cartController, router, testDB, user, game
}

// Helper to set user ID in context the way the auth middleware does
func setUserIDInContext(c *gin.Context, userID uint) {
	c.Set("user_id", userID)
}

func TestCartController_GetCart_Success(t *testing.T) {
	controller, router, testDB, user, game := setupCartControllerTest(t)

	gameID := game.ID
	testDB.Create(&model.CartItem{
		UserID:   user.ID,
		GameID:   &gameID,
		Quantity: 1,
	})

	router.GET("/cart", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.GetCart(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["count"])
}

func TestCartController_GetCart_Unauthenticated(t *testing.T) {
	controller, router, _, _, _ := setupCartControllerTest(t)

	router.GET("/cart", controller.GetCart)

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCartController_AddGame_Success(t *testing.T) {
	controller, router, _, user, game := setupCartControllerTest(t)

	router.POST("/cart/games", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddGame(c)
	})

	body, _ := json.Marshal(AddGameToCartRequest{GameID: game.ID})
	req := httptest.NewRequest(http.MethodPost, "/cart/games", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["count"])

	cart := response["cart"].(map[string]interface{})
	assert.Equal(t, 59.99, cart["total"])
}

func TestCartController_AddGame_NotFound(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)

	router.POST("/cart/games", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddGame(c)
	})

	body, _ := json.Marshal(AddGameToCartRequest{GameID: 9999})
	req := httptest.NewRequest(http.MethodPost, "/cart/games", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartController_AddGame_AlreadyOwned(t *testing.T) {
	controller, router, testDB, user, game := setupCartControllerTest(t)

	testDB.Create(&model.LibraryEntry{UserID: user.ID, GameID: game.ID})

	router.POST("/cart/games", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddGame(c)
	})

	body, _ := json.Marshal(AddGameToCartRequest{GameID: game.ID})
	req := httptest.NewRequest(http.MethodPost, "/cart/games", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already in your library")
}

func TestCartController_AddGame_InvalidBody(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)

	router.POST("/cart/games", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddGame(c)
	})

	req := httptest.NewRequest(http.MethodPost, "/cart/games", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartController_AddBundle_Success(t *testing.T) {
	controller, router, testDB, user, game := setupCartControllerTest(t)

	bundle := &model.Bundle{
		Title:     "Hollow Depths Collection",
		BasePrice: 79.99,
		Games:     []model.Game{*game},
	}
	testDB.Create(bundle)

	router.POST("/cart/bundles", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.AddBundle(c)
	})

	body, _ := json.Marshal(AddBundleToCartRequest{BundleID: bundle.ID})
	req := httptest.NewRequest(http.MethodPost, "/cart/bundles", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["count"])
}

func TestCartController_RemoveGame(t *testing.T) {
	controller, router, testDB, user, game := setupCartControllerTest(t)

	gameID := game.ID
	testDB.Create(&model.CartItem{
		UserID:   user.ID,
		GameID:   &gameID,
		Quantity: 1,
	})

	router.DELETE("/cart/games/:game_id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.RemoveGame(c)
	})

	req := httptest.NewRequest(http.MethodDelete, "/cart/games/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(0), response["count"])
}

func TestCartController_RemoveGame_InvalidID(t *testing.T) {
	controller, router, _, user, _ := setupCartControllerTest(t)

	router.DELETE("/cart/games/:game_id", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.RemoveGame(c)
	})

	req := httptest.NewRequest(http.MethodDelete, "/cart/games/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartController_ClearCart(t *testing.T) {
	controller, router, testDB, user, game := setupCartControllerTest(t)

	gameID := game.ID
	testDB.Create(&model.CartItem{
		UserID:   user.ID,
		GameID:   &gameID,
		Quantity: 1,
	})

	router.DELETE("/cart", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.ClearCart(c)
	})

	req := httptest.NewRequest(http.MethodDelete, "/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	testDB.Model(&model.CartItem{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}
