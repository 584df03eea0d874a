package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"bookconsole/internal/config"
	"bookconsole/internal/platform/crypto"
	"bookconsole/internal/user"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	var (
		adminEmail = flag.String("admin-email", "admin@example.com", "Email of the seeded admin")
		authors    = flag.Int("authors", 20, "Number of authors to insert")
		publishers = flag.Int("publishers", 6, "Number of publishers to insert")
		books      = flag.Int("books", 40, "Number of books to insert")
	)
	flag.Parse()

	config.LoadEnvFiles()
	ctx := context.Background()

	dsn := config.DatabaseDSN()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database (%s): %v", config.RedactDSN(dsn), err)
	}
	defer pool.Close()

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("SEED_ADMIN_PASSWORD is required")
	}
	users := user.NewService(user.NewPostgresRepo(pool, 5*time.Second), nil, "", 0)
	admin, err := users.Register(ctx, *adminEmail, "Administrator", password, crypto.RoleAdmin)
	switch {
	case errors.Is(err, user.ErrAlreadyExists):
		log.Printf("Admin %s already exists", *adminEmail)
	case err != nil:
		log.Fatalf("Failed to create admin: %v", err)
	default:
		log.Printf("Created admin %s id=%s", admin.Email, admin.ID)
	}

	authorIDs, err := insertNamed(ctx, pool, "authors", []string{"name", "bio"}, *authors, func(i int) []any {
		return []any{fmt.Sprintf("Author %d %s", i+1, randomWord()), fmt.Sprintf("Writes about %s.", randomWord())}
	})
	if err != nil {
		log.Fatalf("Failed to insert authors: %v", err)
	}

	publisherIDs, err := insertNamed(ctx, pool, "publishers", []string{"name", "address", "email", "phone"}, *publishers, func(i int) []any {
		return []any{
			fmt.Sprintf("Publisher %d", i+1),
			fmt.Sprintf("%d %s Street", 10+i, randomWord()),
			fmt.Sprintf("contact%d@publisher.example", i+1),
			fmt.Sprintf("0812%07d", rand.IntN(10_000_000)),
		}
	})
	if err != nil {
		log.Fatalf("Failed to insert publishers: %v", err)
	}

	if len(authorIDs) == 0 || len(publisherIDs) == 0 {
		log.Println("No authors or publishers; skipping books")
		return
	}

	rows := make([][]any, 0, *books)
	for i := 0; i < *books; i++ {
		rows = append(rows, []any{
			fmt.Sprintf("Book Title %d - %s", i+1, randomWord()),
			fmt.Sprintf("This is a book about %s.", randomWord()),
			fmt.Sprintf("%d", 1950+rand.IntN(75)),
			authorIDs[rand.IntN(len(authorIDs))],
			publisherIDs[rand.IntN(len(publisherIDs))],
		})
	}
	n, err := pool.CopyFrom(ctx,
		pgx.Identifier{"books"},
		[]string{"title", "description", "year_publish", "author_id", "publisher_id"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		log.Fatalf("Failed to insert books: %v", err)
	}
	log.Printf("Inserted %d authors, %d publishers, %d books", len(authorIDs), len(publisherIDs), n)
}

// insertNamed inserts count rows built by row into table and returns their ids.
func insertNamed(ctx context.Context, pool *pgxpool.Pool, table string, columns []string, count int, row func(int) []any) ([]int64, error) {
	batch := &pgx.Batch{}
	query := insertSQL(table, columns)
	for i := 0; i < count; i++ {
		batch.Queue(query, row(i)...)
	}

	results := pool.SendBatch(ctx, batch)
	defer results.Close()

	ids := make([]int64, 0, count)
	for i := 0; i < count; i++ {
		var id int64
		if err := results.QueryRow().Scan(&id); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", table, i+1, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func insertSQL(table string, columns []string) string {
	cols, params := "", ""
	for i, c := range columns {
		if i > 0 {
			cols += ", "
			params += ", "
		}
		cols += c
		params += fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id", table, cols, params)
}

func randomWord() string {
	words := []string{
		"Adventure", "Mystery", "Journey", "Discovery", "Secrets", "Dreams", "Hope",
		"Love", "War", "Peace", "Science", "Nature", "Technology", "History", "Future",
		"Past", "Present", "Reality", "Imagination", "Wisdom", "Life", "Death",
		"Light", "Darkness", "World", "Universe", "Time", "Space", "Mind", "Soul",
	}
	return words[rand.IntN(len(words))]
}
