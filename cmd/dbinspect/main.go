// Package main provides a read-only inspector for the Stargate database.
//
// Usage:
//
//	DB_PATH=~/stargate/db go run ./cmd/dbinspect
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/sushestargate/stargate-server/internal/domain"
)

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/stargate/db")
	}

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	userCount := countPrefix(db, "user:")
	sessionCount := countPrefix(db, "sess:")
	codeCount := countPrefix(db, "code:")
	activityCount := countPrefix(db, "act:")

	listCount := 0
	totalEntries := 0
	emptyLists := 0
	shown := 0

	err = db.View(func(txn *badger.Txn) error {
		itOpts := badger.DefaultIteratorOptions
		itOpts.Prefix = []byte("list:")
		it := txn.NewIterator(itOpts)
		defer it.Close()

		for it.Seek([]byte("list:")); it.ValidForPrefix([]byte("list:")); it.Next() {
			item := it.Item()
			key := string(item.Key())

			// Skip index keys
			if strings.HasPrefix(key, "list:idx:") {
				continue
			}

			err := item.Value(func(val []byte) error {
				var list domain.List
				if err := json.Unmarshal(val, &list); err != nil {
					return err
				}

				listCount++
				totalEntries += len(list.Entries)
				if len(list.Entries) == 0 {
					emptyLists++
				}

				if shown < 3 && len(list.Entries) > 0 {
					shown++
					fmt.Printf("List: %s\n", list.Name)
					fmt.Printf("  ID: %s\n", list.ID)
					fmt.Printf("  Owner: %s\n", list.UserID)
					fmt.Printf("  Entries: %d\n", len(list.Entries))
					for i, e := range list.Entries {
						if i >= 5 {
							fmt.Printf("    ... and %d more entries\n", len(list.Entries)-5)
							break
						}
						fmt.Printf("    [%d] %s - %s\n", e.Rank, e.Artist, e.Album)
					}
					fmt.Println()
				}

				return nil
			})
			if err != nil {
				log.Printf("Error reading list %s: %v", key, err)
			}
		}
		return nil
	})

	if err != nil {
		log.Fatalf("Error iterating database: %v", err)
	}

	fmt.Println("=== Summary ===")
	fmt.Printf("Users: %d\n", userCount)
	fmt.Printf("Sessions: %d\n", sessionCount)
	fmt.Printf("Admin codes: %d\n", codeCount)
	fmt.Printf("Activity events: %d\n", activityCount)
	fmt.Printf("Lists: %d (%d empty)\n", listCount, emptyLists)
	if listCount > 0 {
		fmt.Printf("Average entries per list: %.1f\n", float64(totalEntries)/float64(listCount))
	}
}

// countPrefix counts primary records under a key prefix, skipping index keys.
func countPrefix(db *badger.DB, prefix string) int {
	count := 0
	_ = db.View(func(txn *badger.Txn) error {
		itOpts := badger.DefaultIteratorOptions
		itOpts.Prefix = []byte(prefix)
		itOpts.PrefetchValues = false
		it := txn.NewIterator(itOpts)
		defer it.Close()

		idxPrefix := prefix + "idx:"
		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			if strings.HasPrefix(string(it.Item().Key()), idxPrefix) {
				continue
			}
			count++
		}
		return nil
	})
	return count
}
