package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
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

func setupGameControllerTest(t *testing.T) (*GameController, *gin.Engine, *gorm.DB, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	gameRepo := repository.NewGameRepository(testDB)
	ratingRepo := repository.NewRatingRepository(testDB)
	libraryRepo := repository.NewLibraryRepository(testDB)
	wishlistRepo := repository.NewWishlistRepository(testDB)
	gameService := service.NewGameService(gameRepo, ratingRepo, libraryRepo, wishlistRepo)
	gameController := NewGameController(gameService)

	user := &model.User{
		Email:        "player@example.com",
		PasswordHash: "hash",
		Name:         "Player",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	return gameController, router, testDB, user
}

func seedCatalogGame(t *testing.T, testDB *gorm.DB, title string, price float64) *model.Game {
	t.Helper()
	game := &model.Game{
		Title:       title,
		Description: "Description of " + title,
		BasePrice:   price,
		ReleaseDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, testDB.Create(game).Error)
	return game
}

func TestGameController_ListGames(t *testing.T) {
	controller, router, testDB, _ := setupGameControllerTest(t)

	seedCatalogGame(t, testDB, "Hollow Depths", 59.99)
	seedCatalogGame(t, testDB, "Neon Drift", 39.99)

	router.GET("/games", controller.ListGames)

	req := httptest.NewRequest(http.MethodGet, "/games", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(2), response["count"])
	assert.Equal(t, float64(1), response["page"])
	assert.Equal(t, float64(1), response["total_pages"])
}

func TestGameController_ListGames_SortByPrice(t *testing.T) {
	controller, router, testDB, _ := setupGameControllerTest(t)

	seedCatalogGame(t, testDB, "Hollow Depths", 59.99)
	seedCatalogGame(t, testDB, "Neon Drift", 39.99)

	router.GET("/games", controller.ListGames)

	req := httptest.NewRequest(http.MethodGet, "/games?sort=price&order=asc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Games []struct {
			Title string `json:"title"`
		} `json:"games"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Games, 2)
	assert.Equal(t, "Neon Drift", response.Games[0].Title)
	assert.Equal(t, "Hollow Depths", response.Games[1].Title)
}

func TestGameController_GetGame_Success(t *testing.T) {
	controller, router, testDB, _ := setupGameControllerTest(t)

	game := seedCatalogGame(t, testDB, "Hollow Depths", 59.99)

	router.GET("/games/:id", controller.GetGame)

	req := httptest.NewRequest(http.MethodGet, "/games/"+strconv.Itoa(int(game.ID)), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Game struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"game"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Hollow Depths", response.Game.Title)
	assert.Equal(t, "Description of Hollow Depths", response.Game.Description)
}

func TestGameController_GetGame_NotFound(t *testing.T) {
	controller, router, _, _ := setupGameControllerTest(t)

	router.GET("/games/:id", controller.GetGame)

	req := httptest.NewRequest(http.MethodGet, "/games/9999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGameController_GetGame_InvalidID(t *testing.T) {
	controller, router, _, _ := setupGameControllerTest(t)

	router.GET("/games/:id", controller.GetGame)

	req := httptest.NewRequest(http.MethodGet, "/games/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGameController_CreateGame_Success(t *testing.T) {
	controller, router, testDB, _ := setupGameControllerTest(t)

	router.POST("/admin/games", controller.CreateGame)

	body, _ := json.Marshal(map[string]interface{}{
		"title":        "Starfall Tactics",
		"description":  "Turn based fleet combat",
		"base_price":   49.99,
		"release_date": "2024-06-01T00:00:00Z",
	})
	req := httptest.NewRequest(http.MethodPost, "/admin/games", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var count int64
	testDB.Model(&model.Game{}).Where("title = ?", "Starfall Tactics").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGameController_CreateGame_InvalidDiscount(t *testing.T) {
	controller, router, testDB, _ := setupGameControllerTest(t)

	router.POST("/admin/games", controller.CreateGame)

	body, _ := json.Marshal(map[string]interface{}{
		"title":            "Starfall Tactics",
		"base_price":       49.99,
		"discount_percent": 150,
		"release_date":     "2024-06-01T00:00:00Z",
	})
	req := httptest.NewRequest(http.MethodPost, "/admin/games", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	testDB.Model(&model.Game{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestGameController_CreateGame_InvalidBody(t *testing.T) {
	controller, router, _, _ := setupGameControllerTest(t)

	router.POST("/admin/games", controller.CreateGame)

	req := httptest.NewRequest(http.MethodPost, "/admin/games", bytes.NewBufferString(`{"title": ""}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGameController_UpdateGame_NotFound(t *testing.T) {
	controller, router, _, _ := setupGameControllerTest(t)

	router.PUT("/admin/games/:id", controller.UpdateGame)

	body, _ := json.Marshal(map[string]interface{}{
		"title":        "Renamed Game",
		"base_price":   19.99,
		"release_date": "2024-06-01T00:00:00Z",
	})
	req := httptest.NewRequest(http.MethodPut, "/admin/games/9999", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGameController_RateGame_Success(t *testing.T) {
	controller, router, testDB, user := setupGameControllerTest(t)

	game := seedCatalogGame(t, testDB, "Hollow Depths", 59.99)

	router.POST("/games/:id/rating", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.RateGame(c)
	})

	body, _ := json.Marshal(map[string]interface{}{
		"score":   5,
		"comment": "Got lost for forty hours",
	})
	req := httptest.NewRequest(http.MethodPost, "/games/"+strconv.Itoa(int(game.ID))+"/rating", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var rating model.Rating
	require.NoError(t, testDB.Where("user_id = ? AND game_id = ?", user.ID, game.ID).First(&rating).Error)
	assert.Equal(t, 5, rating.Score)
}

func TestGameController_RateGame_ScoreOutOfRange(t *testing.T) {
	controller, router, testDB, user := setupGameControllerTest(t)

	game := seedCatalogGame(t, testDB, "Hollow Depths", 59.99)

	router.POST("/games/:id/rating", func(c *gin.Context) {
		setUserIDInContext(c, user.ID)
		controller.RateGame(c)
	})

	body, _ := json.Marshal(map[string]interface{}{
		"score": 6,
	})
	req := httptest.NewRequest(http.MethodPost, "/games/"+strconv.Itoa(int(game.ID))+"/rating", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
