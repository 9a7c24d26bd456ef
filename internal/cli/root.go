package cli

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"simplecrm/internal/apperr"
	"simplecrm/internal/config"
	"simplecrm/internal/events"
	"simplecrm/internal/logger"
	"simplecrm/internal/models"
	"simplecrm/internal/storage"
	"simplecrm/internal/tui"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "simplecrm",
	Short: "A local contact manager",
	Long: "simplecrm keeps a list of contacts in a local SQLite database.\n" +
		"Run without arguments to open the interactive interface, or use the\n" +
		"subcommands for scripting.",
	Run: func(cmd *cobra.Command, args []string) {
		// Only one interactive instance at a time; the one-shot
		// subcommands are short-lived and stay lock-free.
		if err := config.AcquireLock(); err != nil {
			log.Fatalf("Error: %v", err)
		}
		defer config.ReleaseLock()

		store := mustOpenStore()
		defer store.Close()

		bus := events.NewBus()
		if err := tui.Run(store, bus); err != nil {
			log.Fatalf("Interface error: %v", err)
		}
	},
}

// Version should be injected via ldflags. Default for dev.
var Version = "dev"

var dbPath string

func Init(version string) {
	if version != "" {
		Version = version
		tui.Version = version
	}
	rootCmd.Version = Version

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the contacts database (overrides config)")

	addCmd.Flags().StringVar(&addFields.Name, "name", "", "contact name (required)")
	addCmd.Flags().StringVar(&addFields.Email, "email", "", "email address")
	addCmd.Flags().StringVar(&addFields.Phone, "phone", "", "phone number")
	addCmd.Flags().StringVar(&addFields.Company, "company", "", "company")
	addCmd.Flags().StringVar(&addFields.Tags, "tags", "", "free-form tags")
	addCmd.Flags().StringVar(&addFields.Notes, "notes", "", "notes")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// mustOpenStore resolves the database path (flag, then config) and opens
// the store, exiting on unrecoverable storage errors.
func mustOpenStore() *storage.SQLiteStore {
	path := dbPath
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}
		path = cfg.DBPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			log.Fatalf("Error creating database directory: %v", err)
		}
	}
	store, err := storage.NewSQLiteStore(path)
	if err != nil {
		log.Fatalf("Error opening database: %v", err)
	}
	logger.Info("using contact database %s", path)
	return store
}

// exitOn prints validation failures plainly and dies on storage errors.
func exitOn(err error) {
	if apperr.IsValidation(err) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log.Fatalf("Error: %v", err)
}

var listCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List contacts, newest first, optionally filtered by substring",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := mustOpenStore()
		defer store.Close()

		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		contacts, err := store.List(query)
		if err != nil {
			log.Fatalf("Error listing contacts: %v", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE\tCOMPANY\tTAGS")
		for _, c := range contacts {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
				c.ID, c.Name, c.Email, c.Phone, c.Company, c.Tags)
		}
		w.Flush()
	},
}

var addFields models.ContactFields

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new contact",
	Run: func(cmd *cobra.Command, args []string) {
		store := mustOpenStore()
		defer store.Close()

		id, err := store.Add(addFields)
		if err != nil {
			exitOn(err)
		}
		fmt.Printf("Added contact #%d\n", id)
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>...",
	Short: "Remove contacts by id",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ids := make([]uint, 0, len(args))
		for _, arg := range args {
			id, err := strconv.ParseUint(arg, 10, 64)
			if err != nil {
				log.Fatalf("Invalid id %q", arg)
			}
			ids = append(ids, uint(id))
		}

		store := mustOpenStore()
		defer store.Close()

		count, err := store.DeleteMany(ids)
		if err != nil {
			log.Fatalf("Error removing contacts: %v", err)
		}
		fmt.Printf("Removed %d contact(s)\n", count)
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import contacts from a CSV file",
	Long: "Imports contacts from a CSV with the header\n" +
		"name,email,phone,company,tags,notes. Rows with an empty name are\n" +
		"skipped. A row failing validation aborts the import; rows before it\n" +
		"stay imported.",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := mustOpenStore()
		defer store.Close()

		count, err := store.ImportCSV(args[0])
		if err != nil {
			logger.Warn("import %s aborted after %d row(s)", args[0], count)
			fmt.Printf("Imported %d contact(s) before failing\n", count)
			exitOn(err)
		}
		fmt.Printf("Imported %d contact(s)\n", count)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <file.csv>",
	Short: "Export all contacts to a CSV file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := mustOpenStore()
		defer store.Close()

		count, err := store.ExportCSV(args[0])
		if err != nil {
			log.Fatalf("Error exporting contacts: %v", err)
		}
		fmt.Printf("Exported %d contact(s) to %s\n", count, args[0])
	},
}
