package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/coopfrota/business/domain/catalogbus"
	"github.com/jcpaschoal/coopfrota/business/domain/catalogbus/stores/catalogdb"
	"github.com/jcpaschoal/coopfrota/business/domain/orgbus"
	"github.com/jcpaschoal/coopfrota/business/domain/orgbus/stores/orgdb"
	"github.com/jcpaschoal/coopfrota/business/sdk/sqldb"
	"github.com/jcpaschoal/coopfrota/business/types/accesscode"
	"github.com/jcpaschoal/coopfrota/business/types/name"
	"github.com/jcpaschoal/coopfrota/business/types/role"
	"github.com/jcpaschoal/coopfrota/business/types/section"
	"github.com/jcpaschoal/coopfrota/foundation/logger"
	"github.com/jmoiron/sqlx"
	"github.com/kelseyhightower/envconfig"
)

//go:embed sql/schema.sql
var sqlFS embed.FS

// Config replicates necessary DB config structure
type Config struct {
	DB struct {
		User         string `envconfig:"DB_USER" default:"postgres"`
		Password     string `envconfig:"DB_PASSWORD" default:"postgres"`
		Host         string `envconfig:"DB_HOST" default:"localhost"`
		Name         string `envconfig:"DB_NAME" default:"coopfrota"`
		MaxIdleConns int    `envconfig:"DB_MAX_IDLE_CONNS" default:"0"`
		MaxOpenConns int    `envconfig:"DB_MAX_OPEN_CONNS" default:"0"`
		DisableTLS   bool   `envconfig:"DB_DISABLE_TLS" default:"true"`
	}
}

func main() {
	log := logger.New(os.Stdout, logger.LevelInfo, "ADMIN-TOOL", nil)
	ctx := context.Background()

	if err := run(ctx, log); err != nil {
		log.Error(ctx, "startup", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logger.Logger) error {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return fmt.Errorf("processing config: %w", err)
	}

	// Init DB
	db, err := sqldb.Open(sqldb.Config{
		User:         cfg.DB.User,
		Password:     cfg.DB.Password,
		Host:         cfg.DB.Host,
		Name:         cfg.DB.Name,
		MaxIdleConns: cfg.DB.MaxIdleConns,
		MaxOpenConns: cfg.DB.MaxOpenConns,
		DisableTLS:   cfg.DB.DisableTLS,
	})
	if err != nil {
		return fmt.Errorf("connecting to db: %w", err)
	}
	defer db.Close()

	// Init Domains
	orgBus := orgbus.NewCore(log, orgdb.NewStore(log, db))
	catalogBus := catalogbus.NewCore(log, catalogdb.NewStore(log, db))

	// CLI Parsing
	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		fmt.Println("Commands: migrate, seed, create-org, add-member")
		return nil
	}

	switch os.Args[1] {
	case "migrate":
		return runMigrate(ctx, db)
	case "seed":
		return runSeed(ctx, orgBus, catalogBus)
	case "create-org":
		return runCreateOrg(ctx, orgBus, os.Args[2:])
	case "add-member":
		return runAddMember(ctx, orgBus, os.Args[2:])
	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

func runMigrate(ctx context.Context, db *sqlx.DB) error {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if err := sqldb.StatusCheck(ctx, db); err != nil {
		return fmt.Errorf("status check database: %w", err)
	}

	doc, err := sqlFS.ReadFile("sql/schema.sql")
	if err != nil {
		return fmt.Errorf("reading schema: %w", err)
	}

	// O driver pgx roda no protocolo estendido, então cada statement
	// precisa ser executado separadamente.
	for _, stmt := range strings.Split(string(doc), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}

	fmt.Println("migrations complete")
	return nil
}

// runSeed creates a small working set for local development: two organizations
// sharing a meeting-room namespace, an admin member on each, a couple of pool
// vehicles and one shared room.
func runSeed(ctx context.Context, ob *orgbus.Core, cb *catalogbus.Core) error {
	ns := uuid.NullUUID{UUID: uuid.New(), Valid: true}

	orgNorte, err := ob.Create(ctx, orgbus.NewOrg{
		Name:       name.MustParse("Cooperativa Norte"),
		AccessCode: accesscode.MustParse("frota-norte-2025"),
		Sections:   section.NewSet(section.Vehicles, section.Rooms),
		MeetingNS:  ns,
	})
	if err != nil {
		return fmt.Errorf("seeding org norte: %w", err)
	}

	orgSul, err := ob.Create(ctx, orgbus.NewOrg{
		Name:       name.MustParse("Cooperativa Sul"),
		AccessCode: accesscode.MustParse("frota-sul-2025"),
		Sections:   section.NewSet(section.Vehicles, section.Rooms),
		MeetingNS:  ns,
	})
	if err != nil {
		return fmt.Errorf("seeding org sul: %w", err)
	}

	for _, org := range []orgbus.Org{orgNorte, orgSul} {
		if _, err := ob.CreateMember(ctx, orgbus.NewMember{
			OrgID: org.ID,
			Name:  name.MustParse("Administrador"),
			Role:  role.Admin,
		}); err != nil {
			return fmt.Errorf("seeding admin for %s: %w", org.Name, err)
		}
	}

	for _, label := range []string{"Van 01", "Van 02", "Caminhonete 01"} {
		if _, err := cb.CreateVehicle(ctx, catalogbus.NewVehicle{
			Label: name.MustParse(label),
		}); err != nil {
			return fmt.Errorf("seeding vehicle %q: %w", label, err)
		}
	}

	if _, err := cb.CreateRoom(ctx, catalogbus.NewRoom{
		OrgID:    orgNorte.ID,
		Label:    name.MustParse("Sala de Reunião Norte"),
		Capacity: 12,
	}); err != nil {
		return fmt.Errorf("seeding room: %w", err)
	}

	fmt.Printf("\nSUCCESS: Seed complete!\nOrg Norte: %s (code: frota-norte-2025)\nOrg Sul: %s (code: frota-sul-2025)\n", orgNorte.ID, orgSul.ID)
	return nil
}

func runCreateOrg(ctx context.Context, ob *orgbus.Core, args []string) error {
	cmd := flag.NewFlagSet("create-org", flag.ExitOnError)
	nameStr := cmd.String("name", "", "Organization name (Required)")
	codeStr := cmd.String("code", "", "Organization access code (Required)")
	sectionsStr := cmd.String("sections", "VEHICLES", "Enabled sections, comma separated (VEHICLES, EXTRAS, ROOMS)")
	nsStr := cmd.String("meeting-ns", "", "Meeting namespace UUID (Optional)")
	cmd.Parse(args)

	if *nameStr == "" || *codeStr == "" {
		cmd.PrintDefaults()
		return fmt.Errorf("missing required fields")
	}

	// Parsing Types using Domain Types
	n, err := name.Parse(*nameStr)
	if err != nil {
		return fmt.Errorf("invalid name: %w", err)
	}

	code, err := accesscode.Parse(*codeStr)
	if err != nil {
		return fmt.Errorf("invalid access code: %w", err)
	}

	sections, err := section.ParseSet(*sectionsStr)
	if err != nil {
		return fmt.Errorf("invalid sections: %w", err)
	}

	var ns uuid.NullUUID
	if *nsStr != "" {
		id, err := uuid.Parse(*nsStr)
		if err != nil {
			return fmt.Errorf("invalid meeting namespace uuid: %w", err)
		}
		ns = uuid.NullUUID{UUID: id, Valid: true}
	}

	org, err := ob.Create(ctx, orgbus.NewOrg{
		Name:       n,
		AccessCode: code,
		Sections:   sections,
		MeetingNS:  ns,
	})
	if err != nil {
		return fmt.Errorf("create org failed: %w", err)
	}

	fmt.Printf("\nSUCCESS: Organization created!\nID: %s\nName: %s\nSections: %s\n", org.ID, org.Name, org.Sections)
	return nil
}

func runAddMember(ctx context.Context, ob *orgbus.Core, args []string) error {
	cmd := flag.NewFlagSet("add-member", flag.ExitOnError)
	orgIDStr := cmd.String("org-id", "", "Organization UUID (Required)")
	nameStr := cmd.String("name", "", "Member full name (Required)")
	roleStr := cmd.String("role", "MEMBER", "Member role (ADMIN, MEMBER)")
	cmd.Parse(args)

	if *orgIDStr == "" || *nameStr == "" {
		cmd.PrintDefaults()
		return fmt.Errorf("missing required fields")
	}

	orgID, err := uuid.Parse(*orgIDStr)
	if err != nil {
		return fmt.Errorf("invalid org uuid: %w", err)
	}

	n, err := name.Parse(*nameStr)
	if err != nil {
		return fmt.Errorf("invalid name: %w", err)
	}

	r, err := role.Parse(*roleStr)
	if err != nil {
		return fmt.Errorf("invalid role: %w", err)
	}

	mbr, err := ob.CreateMember(ctx, orgbus.NewMember{
		OrgID: orgID,
		Name:  n,
		Role:  r,
	})
	if err != nil {
		return fmt.Errorf("add member failed: %w", err)
	}

	fmt.Printf("\nSUCCESS: Member created!\nID: %s\nOrg: %s\nRole: %s\n", mbr.ID, mbr.OrgID, mbr.Role)
	return nil
}

//go run api/tooling/admin/main.go migrate
//go run api/tooling/admin/main.go seed

//go run api/tooling/admin/main.go create-org -name "Cooperativa Leste" -code "frota-leste-2025" -sections "VEHICLES,ROOMS"

//go run api/tooling/admin/main.go add-member -org-id "<org-uuid>" -name "Maria Souza" -role "ADMIN"
