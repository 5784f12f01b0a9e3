package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"anonymizer/internal/repository"
	"anonymizer/internal/repository/sqlite"
	"anonymizer/internal/service/storage"
)

func main() {
	dbPath := flag.String("db", "data/blobs.db", "Database path")
	bucket := flag.String("bucket", "", "Container the images are stored under")
	imagesDir := flag.String("dir", "", "Directory containing images")
	prefix := flag.String("prefix", "", "Key prefix for every stored image")
	flag.Parse()

	if *bucket == "" || *imagesDir == "" {
		flag.Usage()
		os.Exit(2)
	}

	fmt.Printf("Seeding images from %s into s3://%s/%s (database %s)\n", *imagesDir, *bucket, *prefix, *dbPath)

	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	db, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	var repo repository.ObjectRepository = sqlite.NewBlobRepository(db)

	files, err := os.ReadDir(*imagesDir)
	if err != nil {
		log.Fatalf("Failed to read images directory: %v", err)
	}

	stored, skipped := 0, 0
	for _, file := range files {
		if file.IsDir() || !storage.IsImageExtension(filepath.Ext(file.Name())) {
			continue
		}

		data, err := os.ReadFile(filepath.Join(*imagesDir, file.Name()))
		if err != nil {
			log.Printf("Skipping %s: %v", file.Name(), err)
			skipped++
			continue
		}

		key := path.Join(strings.Trim(*prefix, "/"), file.Name())
		if err := repo.Put(*bucket, key, data); err != nil {
			log.Printf("Failed to store %s: %v", file.Name(), err)
			skipped++
			continue
		}
		stored++
	}

	fmt.Printf("Stored %d images\n", stored)
	if skipped > 0 {
		fmt.Printf("Skipped %d files\n", skipped)
	}

	stats, err := repo.Stats()
	if err != nil {
		log.Fatalf("Failed to read stats: %v", err)
	}
	fmt.Printf("\nDatabase statistics:\n")
	fmt.Printf("   Total objects: %d\n", stats.TotalObjects)
	fmt.Printf("   Total size: %d bytes\n", stats.TotalSizeBytes)
	for container, count := range stats.PerContainer {
		fmt.Printf("      - %s: %d objects\n", container, count)
	}
}
