package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/mmynk/finboard/internal/models"
	"github.com/mmynk/finboard/internal/storage/sqlite"
)

type importCmd struct {
	*app
	dryRun bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import records from JSON files" }
func (*importCmd) Usage() string {
	return `finboard import [-n] <file.json>... | -

  Reads a JSON array of records from each file ("-" for stdin) and stores
  them in a single transaction per file. Each record needs a name, a
  direction ("in" or "out"), an amount and an occurred_at timestamp:

    [{"name": "Salary", "direction": "in", "amount": "50000",
      "category": "work", "occurred_at": "2024-06-08T09:00:00Z"}]
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.dryRun, "n", false, "Validate the files without writing anything.")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprint(c.stderr, c.Usage())
		return subcommands.ExitUsageError
	}

	batches := make([][]models.Record, 0, f.NArg())
	for _, name := range f.Args() {
		records, err := c.decodeFile(name)
		if err != nil {
			return c.errorf("Error reading %s: %v", name, err)
		}
		batches = append(batches, records)
	}

	if c.dryRun {
		for i, name := range f.Args() {
			fmt.Fprintf(c.stdout, "%s: %d records ok\n", name, len(batches[i]))
		}
		return subcommands.ExitSuccess
	}

	store, err := sqlite.New(c.dbPath)
	if err != nil {
		return c.errorf("Error opening database: %v", err)
	}
	defer store.Close()

	total := 0
	for i, name := range f.Args() {
		n, err := store.ImportRecords(ctx, batches[i])
		if err != nil {
			return c.errorf("Error importing %s: %v", name, err)
		}
		total += n
	}
	fmt.Fprintf(c.stdout, "Imported %d records\n", total)
	return subcommands.ExitSuccess
}

// decodeFile reads and validates one batch of records.
func (c *importCmd) decodeFile(name string) ([]models.Record, error) {
	var r io.Reader = c.stdin
	if name != "-" {
		file, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		r = file
	}

	var records []models.Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	for i, rec := range records {
		if rec.Name == "" {
			return nil, fmt.Errorf("record %d: name is required", i)
		}
		if _, err := models.ParseDirection(string(rec.Direction)); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if rec.OccurredAt.IsZero() {
			return nil, fmt.Errorf("record %d: occurred_at is required", i)
		}
	}
	return records, nil
}
