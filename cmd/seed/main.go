package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/yungbote/scool-backend/internal/app"
	"github.com/yungbote/scool-backend/internal/platform/dbctx"
	"github.com/yungbote/scool-backend/internal/seed"
)

func main() {
	path := flag.String("file", "seed.example.yaml", "YAML catalog to load")
	flag.Parse()

	cat, err := seed.Load(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	a, err := app.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	s := seed.NewSeeder(a.Log, a.Repos, a.Services.Profile, a.Services.Catalog)
	res, err := s.Apply(dbctx.Context{Ctx: context.Background()}, cat)
	if err != nil {
		a.Log.Error("Seed failed", "file", *path, "error", err)
		a.Close()
		os.Exit(1)
	}
	fmt.Printf("staff=%d categories=%d courses=%d/%d lessons=%d/%d (created/updated)\n",
		res.StaffCreated, res.CategoriesCreated,
		res.CoursesCreated, res.CoursesUpdated,
		res.LessonsCreated, res.LessonsUpdated)
}
