package repository

import (
	"testing"
	"time"

	"github.com/pressplay/pressplay-backend/internal/app/model"
	"github.com/pressplay/pressplay-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupGameRepositoryTest(t *testing.T) (GameRepository, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return NewGameRepository(testDB), testDB
}

func uintPtr(v uint) *uint {
	return &v
}

func intPtr(v int) *int {
	return &v
}

func timePtr(v time.Time) *time.Time {
	return &v
}

func TestGameRepository_FilterByGenre(t *testing.T) {
	repo, testDB := setupGameRepositoryTest(t)

	rpg := model.Genre{Name: "RPG"}
	racing := model.Genre{Name: "Racing"}
	testDB.Create(&rpg)
	testDB.Create(&racing)

	testDB.Create(&model.Game{
		Title:       "Sword Saga",
		BasePrice:   39.99,
		ReleaseDate: time.Now(),
		Genres:      []model.Genre{rpg},
	})
	testDB.Create(&model.Game{
		Title:       "Turbo Rally",
		BasePrice:   29.99,
		ReleaseDate: time.Now(),
		Genres:      []model.Genre{racing},
	})

	games, err := repo.FindWithFilter(GameFilter{GenreID: uintPtr(rpg.ID)})
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "Sword Saga", games[0].Title)

	count, err := repo.CountWithFilter(GameFilter{GenreID: uintPtr(rpg.ID)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGameRepository_FilterByPlatform(t *testing.T) {
	repo, testDB := setupGameRepositoryTest(t)

	pc := model.Platform{Name: "PC"}
	console := model.Platform{Name: "Console"}
	testDB.Create(&pc)
	testDB.Create(&console)

	testDB.Create(&model.Game{
		Title:       "Desktop Dungeon",
		BasePrice:   19.99,
		ReleaseDate: time.Now(),
		Platforms:   []model.Platform{pc},
	})
	testDB.Create(&model.Game{
		Title:       "Couch Quest",
		BasePrice:   19.99,
		ReleaseDate: time.Now(),
		Platforms:   []model.Platform{console},
	})

	games, err := repo.FindWithFilter(GameFilter{PlatformID: uintPtr(console.ID)})
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "Couch Quest", games[0].Title)
}

func TestGameRepository_Search(t *testing.T) {
	repo, testDB := setupGameRepositoryTest(t)

	testDB.Create(&model.Game{
		Title:       "Hollow Depths",
		Description: "Cave exploration",
		BasePrice:   59.99,
		ReleaseDate: time.Now(),
	})
	testDB.Create(&model.Game{
		Title:       "Neon Drift",
		Description: "Racing through hollow streets",
		BasePrice:   29.99,
		ReleaseDate: time.Now(),
	})
	testDB.Create(&model.Game{
		Title:       "Farm Story",
		Description: "Cozy farming",
		BasePrice:   14.99,
		ReleaseDate: time.Now(),
	})

	// Search matches titles and descriptions.
	games, err := repo.FindWithFilter(GameFilter{Search: "Hollow"})
	require.NoError(t, err)
	assert.Len(t, games, 2)

	games, err = repo.FindWithFilter(GameFilter{Search: "Farm"})
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "Farm Story", games[0].Title)
}

func TestGameRepository_SortByEffectivePrice(t *testing.T) {
	repo, testDB := setupGameRepositoryTest(t)

	testDB.Create(&model.Game{
		Title:       "Mid Price",
		BasePrice:   30,
		ReleaseDate: time.Now(),
	})
	testDB.Create(&model.Game{
		Title:           "Discounted Expensive",
		BasePrice:       50,
		DiscountPercent: intPtr(80),
		ReleaseDate:     time.Now(),
	})
	testDB.Create(&model.Game{
		Title:       "Cheap",
		BasePrice:   15,
		ReleaseDate: time.Now(),
	})

	games, err := repo.FindWithFilter(GameFilter{SortBy: GameSortPrice, Ascending: true})
	require.NoError(t, err)
	require.Len(t, games, 3)
	assert.Equal(t, "Discounted Expensive", games[0].Title)
	assert.Equal(t, "Cheap", games[1].Title)
	assert.Equal(t, "Mid Price", games[2].Title)

	games, err = repo.FindWithFilter(GameFilter{SortBy: GameSortPrice, Ascending: false})
	require.NoError(t, err)
	assert.Equal(t, "Mid Price", games[0].Title)
}

func TestGameRepository_SortByReleaseDateDefault(t *testing.T) {
	repo, testDB := setupGameRepositoryTest(t)

	testDB.Create(&model.Game{
		Title:       "Old Game",
		BasePrice:   10,
		ReleaseDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	testDB.Create(&model.Game{
		Title:       "New Game",
		BasePrice:   10,
		ReleaseDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	games, err := repo.FindWithFilter(GameFilter{})
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "New Game", games[0].Title)
}

func TestGameRepository_Pagination(t *testing.T) {
	repo, testDB := setupGameRepositoryTest(t)

	for i := 0; i < 5; i++ {
		testDB.Create(&model.Game{
			Title:       "Game " + string(rune('A'+i)),
			BasePrice:   9.99,
			ReleaseDate: time.Date(2024, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC),
		})
	}

	games, err := repo.FindWithFilter(GameFilter{
		SortBy:    GameSortTitle,
		Ascending: true,
		Limit:     2,
		Offset:    2,
	})
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "Game C", games[0].Title)
	assert.Equal(t, "Game D", games[1].Title)
}

func TestGameRepository_ClearExpiredDiscounts(t *testing.T) {
	repo, testDB := setupGameRepositoryTest(t)

	now := time.Now()

	expired := &model.Game{
		Title:           "Expired Sale",
		BasePrice:       40,
		DiscountPercent: intPtr(50),
		DiscountEndsAt:  timePtr(now.Add(-time.Hour)),
		ReleaseDate:     now,
	}
	active := &model.Game{
		Title:           "Active Sale",
		BasePrice:       40,
		DiscountPercent: intPtr(50),
		DiscountEndsAt:  timePtr(now.Add(time.Hour)),
		ReleaseDate:     now,
	}
	open := &model.Game{
		Title:           "Open Ended Sale",
		BasePrice:       40,
		DiscountPercent: intPtr(50),
		ReleaseDate:     now,
	}
	testDB.Create(expired)
	testDB.Create(active)
	testDB.Create(open)

	cleared, err := repo.ClearExpiredDiscounts(now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cleared)

	reloaded, err := repo.FindByID(expired.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.DiscountPercent)
	assert.Nil(t, reloaded.DiscountEndsAt)

	reloaded, err = repo.FindByID(active.ID)
	require.NoError(t, err)
	assert.NotNil(t, reloaded.DiscountPercent)

	reloaded, err = repo.FindByID(open.ID)
	require.NoError(t, err)
	assert.NotNil(t, reloaded.DiscountPercent)
}

func TestGameRepository_DeleteIsSoft(t *testing.T) {
	repo, testDB := setupGameRepositoryTest(t)

	game := &model.Game{
		Title:       "Pulled Game",
		BasePrice:   20,
		ReleaseDate: time.Now(),
	}
	testDB.Create(game)

	require.NoError(t, repo.Delete(game.ID))

	_, err := repo.FindByID(game.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	games, err := repo.FindWithFilter(GameFilter{})
	require.NoError(t, err)
	assert.Len(t, games, 0)

	// The row survives with a deletion mark.
	var count int64
	testDB.Unscoped().Model(&model.Game{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
