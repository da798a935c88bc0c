package form

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LoadAll reads all form templates from the database and populates the registry.
func LoadAll(ctx context.Context, pool *pgxpool.Pool, reg *Registry) error {
	rows, err := pool.Query(ctx, "SELECT id, owner_id, published, definition FROM _forms ORDER BY created_at")
	if err != nil {
		return fmt.Errorf("load forms: %w", err)
	}
	defer rows.Close()

	var templates []*Template
	for rows.Next() {
		var id, ownerID string
		var published bool
		var defJSON []byte
		if err := rows.Scan(&id, &ownerID, &published, &defJSON); err != nil {
			return fmt.Errorf("scan form row: %w", err)
		}

		var t Template
		if err := json.Unmarshal(defJSON, &t); err != nil {
			log.Printf("WARN: skipping form %s (invalid JSON): %v", id, err)
			continue
		}
		// Columns win over whatever the definition blob carries.
		t.ID = id
		t.OwnerID = ownerID
		t.Published = published
		templates = append(templates, &t)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	reg.Load(templates)
	log.Printf("Loaded %d form templates into registry", len(templates))
	return nil
}
