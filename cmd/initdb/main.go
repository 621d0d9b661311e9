// Command initdb creates the database tables and lists them. With --reset it
// drops every table first.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/quicky-ai/quicky-core/internal/config"
	"github.com/quicky-ai/quicky-core/internal/database"
	"github.com/quicky-ai/quicky-core/internal/pkg/logging"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "Path to YAML config file")
	reset := flag.Bool("reset", false, "Drop all tables before creating them")
	yes := flag.Bool("yes", false, "Skip the reset confirmation prompt")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New("", cfg.IsDev())
	if err != nil {
		logger = zap.NewNop()
	}
	defer logger.Sync()

	db, err := database.Connect(cfg, false)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer database.Close(db)

	if *reset {
		if !*yes && !confirm(os.Stdin, os.Stdout) {
			fmt.Println("Reset cancelled.")
			return
		}
		if err := database.DropAll(db); err != nil {
			logger.Fatal("drop tables failed", zap.Error(err))
		}
		logger.Info("all tables dropped")
	}

	if err := run(db, os.Stdout); err != nil {
		logger.Fatal("initialize database failed", zap.Error(err))
	}
	logger.Info("database initialized", zap.String("database", cfg.Database.Describe()))
}

// run migrates the schema and prints every table with its column count.
func run(db *gorm.DB, out io.Writer) error {
	if err := database.Migrate(db); err != nil {
		return err
	}
	tables, err := database.Tables(db)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Created tables:")
	for _, t := range tables {
		fmt.Fprintf(out, "  - %s (%d columns)\n", t.Name, t.Columns)
	}
	return nil
}

func confirm(in io.Reader, out io.Writer) bool {
	fmt.Fprint(out, "This will delete ALL data. Type 'yes' to continue: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.TrimSpace(strings.ToLower(line)) == "yes"
}
