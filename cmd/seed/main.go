package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pressplay/pressplay-backend/config"
	"github.com/pressplay/pressplay-backend/internal/app/model"
	"github.com/pressplay/pressplay-backend/internal/app/repository"
	"github.com/pressplay/pressplay-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Expected sheet layout (first row is the header):
//
//	title | description | base_price | discount_percent | release_date |
//	genres | platforms | developer | publisher | cover_url
//
// genres and platforms are comma-separated lists; release_date is
// YYYY-MM-DD.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	gameRepo := repository.NewGameRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	games, skipped, err := readGamesFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total games to import: %d (skipped %d rows)\n", len(games), skipped)

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	fmt.Println("Resolving genres, platforms and companies...")
	if err := resolveAssociations(games); err != nil {
		log.Fatal("Failed to resolve associations:", err)
	}

	batchSize := 200
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := gameRepo.BulkCreate(games, batchSize); err != nil {
		log.Fatal("Failed to bulk create games:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total games imported: %d\n", len(games))
}

func readGamesFromXLSX(filePath string) ([]model.Game, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	var games []model.Game
	seenTitles := make(map[string]bool)
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 10 {
			skipped++
			continue
		}

		title := strings.TrimSpace(row[0])
		description := strings.TrimSpace(row[1])
		basePriceStr := strings.TrimSpace(row[2])
		discountStr := strings.TrimSpace(row[3])
		releaseDateStr := strings.TrimSpace(row[4])
		genreList := strings.TrimSpace(row[5])
		platformList := strings.TrimSpace(row[6])
		developer := strings.TrimSpace(row[7])
		publisher := strings.TrimSpace(row[8])
		coverURL := strings.TrimSpace(row[9])

		if title == "" || basePriceStr == "" || releaseDateStr == "" {
			skipped++
			continue
		}

		if seenTitles[title] {
			skipped++
			continue
		}

		basePrice, err := strconv.ParseFloat(basePriceStr, 64)
		if err != nil || basePrice < 0 {
			skipped++
			continue
		}

		var discountPercent *int
		if discountStr != "" {
			pct, err := strconv.Atoi(discountStr)
			if err != nil || pct < 0 || pct > 100 {
				skipped++
				continue
			}
			if pct > 0 {
				discountPercent = &pct
			}
		}

		releaseDate, err := time.Parse("2006-01-02", releaseDateStr)
		if err != nil {
			skipped++
			continue
		}

		game := model.Game{
			Title:           title,
			Description:     description,
			BasePrice:       basePrice,
			DiscountPercent: discountPercent,
			ReleaseDate:     releaseDate,
			CoverURL:        coverURL,
		}

		for _, name := range splitList(genreList) {
			game.Genres = append(game.Genres, model.Genre{Name: name})
		}
		for _, name := range splitList(platformList) {
			game.Platforms = append(game.Platforms, model.Platform{Name: name})
		}
		if developer != "" {
			game.Developers = append(game.Developers, model.Company{Name: developer})
		}
		if publisher != "" {
			game.Publishers = append(game.Publishers, model.Company{Name: publisher})
		}

		seenTitles[title] = true
		games = append(games, game)
	}

	return games, skipped, nil
}

// resolveAssociations replaces name-only genre, platform and company
// records with their persisted rows so the bulk insert links instead of
// duplicating them.
func resolveAssociations(games []model.Game) error {
	conn := db.GetDB()

	for i := range games {
		for j := range games[i].Genres {
			if err := conn.Where(model.Genre{Name: games[i].Genres[j].Name}).
				FirstOrCreate(&games[i].Genres[j]).Error; err != nil {
				return err
			}
		}
		for j := range games[i].Platforms {
			if err := conn.Where(model.Platform{Name: games[i].Platforms[j].Name}).
				FirstOrCreate(&games[i].Platforms[j]).Error; err != nil {
				return err
			}
		}
		for j := range games[i].Developers {
			if err := conn.Where(model.Company{Name: games[i].Developers[j].Name}).
				FirstOrCreate(&games[i].Developers[j]).Error; err != nil {
				return err
			}
		}
		for j := range games[i].Publishers {
			if err := conn.Where(model.Company{Name: games[i].Publishers[j].Name}).
				FirstOrCreate(&games[i].Publishers[j]).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func splitList(value string) []string {
	var names []string
	for _, part := range strings.Split(value, ",") {
		name := strings.TrimSpace(part)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}
