package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/makerworks/safetytraining/backend/internal/infrastructure/clients/postgres"
	"github.com/makerworks/safetytraining/backend/pkg/config"
)

type seedProcedure struct {
	name        string
	description string
	manualURL   string
	manualType  string
	roles       []string
	frequency   string
}

type seedEquipment struct {
	name        string
	description string
	specs       map[string]string
	manualURL   string
}

var procedures = []seedProcedure{
	{
		name:        "General workshop induction",
		description: "Orientation covering emergency exits, fire extinguisher locations, first aid stations and the incident reporting procedure.",
		manualURL:   "https://docs.google.com/document/d/workshop-induction/pub",
		manualType:  "gdoc",
		roles:       []string{"STUDENT", "MEMBER"},
		frequency:   "once",
	},
	{
		name:        "Lockout tagout",
		description: "Isolating energy sources before maintenance. Every machine must be locked and tagged by the person working on it; only the applier may remove the tag.",
		manualURL:   "https://example.com/manuals/lockout-tagout.pdf",
		manualType:  "pdf",
		roles:       []string{"MEMBER", "STAFF"},
		frequency:   "yearly",
	},
	{
		name:        "Dust extraction check",
		description: "Daily verification that extraction is running before any woodworking machine is powered. Filters are inspected weekly.",
		roles:       []string{"MEMBER"},
		frequency:   "quarterly",
	},
}

var equipment = []seedEquipment{
	{
		name:        "SawStop table saw",
		description: "10 inch cabinet saw with flesh-detection brake. Blade guard and riving knife must be fitted for through cuts.",
		specs: map[string]string{
			"blade_diameter": "254mm",
			"max_cut_depth":  "79mm",
			"brake":          "flesh detection cartridge",
		},
		manualURL: "https://example.com/manuals/sawstop.pdf",
	},
	{
		name:        "Epilog laser cutter",
		description: "60W CO2 laser. Never cut PVC or vinyl; chlorine gas destroys the optics and lungs. Fire watch required for the full job duration.",
		specs: map[string]string{
			"power":    "60W",
			"bed_size": "810x508mm",
			"cooling":  "closed loop",
		},
		manualURL: "https://example.com/manuals/epilog.docx",
	},
	{
		name:        "Prusa MK4 printer farm",
		description: "FDM printers for PLA and PETG. Enclosure must stay closed while printing ABS.",
		specs: map[string]string{
			"build_volume": "250x210x220mm",
			"nozzle":       "0.4mm",
		},
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	if err := pgClient.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to bootstrap schema: %v", err)
	}

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				assessment_attempts,
				generated_quizzes,
				equipment,
				procedures
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to truncate tables: %v", err)
		}
	}

	db := goqu.New("postgres", pgClient.DB())

	for _, p := range procedures {
		record := goqu.Record{
			"id":                 uuid.New().String(),
			"name":               p.name,
			"description":        p.description,
			"manual_url":         p.manualURL,
			"manual_type":        p.manualType,
			"required_for_roles": pq.Array(p.roles),
			"frequency":          p.frequency,
		}
		query, args, err := db.Insert("procedures").Rows(record).ToSQL()
		if err != nil {
			log.Fatalf("Failed to build procedure insert: %v", err)
		}
		if _, err := pgClient.DB().ExecContext(ctx, query, args...); err != nil {
			log.Fatalf("Failed to seed procedure %q: %v", p.name, err)
		}
		log.Printf("Seeded procedure: %s", p.name)
	}

	for _, e := range equipment {
		specs, err := json.Marshal(e.specs)
		if err != nil {
			log.Fatalf("Failed to marshal specifications: %v", err)
		}
		record := goqu.Record{
			"id":             uuid.New().String(),
			"name":           e.name,
			"description":    e.description,
			"specifications": specs,
			"manual_url":     e.manualURL,
		}
		query, args, err := db.Insert("equipment").Rows(record).ToSQL()
		if err != nil {
			log.Fatalf("Failed to build equipment insert: %v", err)
		}
		if _, err := pgClient.DB().ExecContext(ctx, query, args...); err != nil {
			log.Fatalf("Failed to seed equipment %q: %v", e.name, err)
		}
		log.Printf("Seeded equipment: %s", e.name)
	}

	log.Println("Seeding complete")
}
