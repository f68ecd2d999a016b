package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernblog/app/config"
	"modernblog/app/logging"
	"modernblog/app/repositories"
	"modernblog/app/seed"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog/log"
)

// DBCommands runs the "db" maintenance subcommands.
type DBCommands struct {
	Config *config.Config
	In     io.Reader
	Out    io.Writer
}

// NewDBCommands wires the commands to the process stdin and stdout.
func NewDBCommands(cfg *config.Config) *DBCommands {
	return &DBCommands{Config: cfg, In: os.Stdin, Out: os.Stdout}
}

// Handle runs one db subcommand and returns an exit code.
func (c *DBCommands) Handle(ctx context.Context, args []string) int {
	if len(args) < 1 {
		c.printHelp()
		return 1
	}

	cmd := args[0]
	switch cmd {
	case "seed":
		return c.seed(ctx)
	case "clean":
		return c.clean()
	case "backup":
		dir := filepath.Join(filepath.Dir(c.Config.BadgerDir), "backups")
		if len(args) > 1 {
			dir = args[1]
		}
		return c.backup(dir)
	case "restore":
		if len(args) < 2 {
			c.println("Error: backup file path required for restore")
			return 1
		}
		return c.restore(args[1])
	case "help":
		c.printHelp()
		return 0
	default:
		c.printf("Unknown db command: %s\n\n", cmd)
		c.printHelp()
		return 1
	}
}

func (c *DBCommands) printHelp() {
	helpText := `Usage: modernblog db <command>

Commands:
  seed                  Replace all posts with the sample posts
  clean                 Delete the badger database
  backup [dir]          Write a backup of the badger database (default data/backups)
  restore <file>        Restore the badger database from a backup
  help                  Display this help message
`
	c.println(helpText)
}

func (c *DBCommands) println(a ...interface{}) {
	fmt.Fprintln(c.Out, a...)
}

func (c *DBCommands) printf(format string, a ...interface{}) {
	fmt.Fprintf(c.Out, format, a...)
}

// confirm asks a yes/no question, defaulting to no.
func (c *DBCommands) confirm(question string) bool {
	c.printf("%s [y/N] ", question)
	answer, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}
	answer = strings.TrimSpace(answer)
	return answer == "y" || answer == "Y"
}

func (c *DBCommands) requireBadger() bool {
	if c.Config.Store != config.StoreBadger {
		c.printf("This command works on the badger store only (STORE=%s)\n", c.Config.Store)
		return false
	}
	return true
}

func (c *DBCommands) openBadger() (*badger.DB, error) {
	return repositories.OpenBadger(repositories.BadgerOptions{
		Dir:    c.Config.BadgerDir,
		Logger: logging.BadgerLogger{Logger: log.Logger},
	})
}

// seed replaces every post with the sample posts, on either store.
func (c *DBCommands) seed(ctx context.Context) int {
	repo, closeStore, err := OpenStore(ctx, c.Config)
	if err != nil {
		c.printf("Failed to open store: %v\n", err)
		return 1
	}
	defer closeStore()

	posts, err := seed.Seed(ctx, repo)
	if err != nil {
		c.printf("Failed to seed database: %v\n", err)
		return 1
	}
	c.printf("Database seeded with %d posts\n", len(posts))
	return 0
}

func (c *DBCommands) clean() int {
	if !c.requireBadger() {
		return 1
	}
	dbPath := c.Config.BadgerDir
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		c.println("Database is already clean (does not exist)")
		return 0
	}

	if !c.confirm("Are you sure you want to clean the database? This cannot be undone.") {
		c.println("Operation cancelled")
		return 1
	}

	if err := os.RemoveAll(dbPath); err != nil {
		c.printf("Failed to clean database: %v\n", err)
		return 1
	}
	c.println("Database cleaned successfully")
	return 0
}

func (c *DBCommands) backup(backupDir string) int {
	if !c.requireBadger() {
		return 1
	}
	if _, err := os.Stat(c.Config.BadgerDir); os.IsNotExist(err) {
		c.println("No database exists to backup")
		return 1
	}

	if err := os.MkdirAll(backupDir, 0755); err != nil {
		c.printf("Failed to create backup directory: %v\n", err)
		return 1
	}

	db, err := c.openBadger()
	if err != nil {
		c.printf("Failed to open database: %v\n", err)
		return 1
	}
	defer db.Close()

	backupFile := filepath.Join(backupDir, fmt.Sprintf("backup_%d.db", time.Now().UnixNano()))
	f, err := os.Create(backupFile)
	if err != nil {
		c.printf("Failed to create backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	if _, err := db.Backup(f, 0); err != nil {
		c.printf("Failed to backup database: %v\n", err)
		return 1
	}

	c.printf("Database backed up successfully to %s\n", backupFile)
	return 0
}

func (c *DBCommands) restore(backupFile string) int {
	if !c.requireBadger() {
		return 1
	}
	fi, err := os.Stat(backupFile)
	if os.IsNotExist(err) {
		c.printf("Backup file does not exist: %s\n", backupFile)
		return 1
	}
	if err != nil {
		c.printf("Failed to stat backup file: %v\n", err)
		return 1
	}
	if fi.Size() == 0 {
		c.printf("Backup file is empty: %s\n", backupFile)
		return 1
	}

	dbPath := c.Config.BadgerDir
	if _, err := os.Stat(dbPath); err == nil {
		if !c.confirm("Existing database found. Do you want to replace it?") {
			c.println("Operation cancelled")
			return 1
		}
		if err := os.RemoveAll(dbPath); err != nil {
			c.printf("Failed to remove existing database: %v\n", err)
			return 1
		}
	}

	if err := os.MkdirAll(dbPath, 0755); err != nil {
		c.printf("Failed to create database directory: %v\n", err)
		return 1
	}

	db, err := c.openBadger()
	if err != nil {
		c.printf("Failed to open database: %v\n", err)
		return 1
	}
	defer db.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		c.printf("Failed to open backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	err = func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic occurred during restore: %v", r)
			}
		}()
		return db.Load(f, 4)
	}()
	if err != nil {
		c.printf("Failed to restore database: %v\n", err)
		return 1
	}

	c.println("Database restored successfully")
	return 0
}
