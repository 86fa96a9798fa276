package engine

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

// Synthetic data vocabulary. The generated rows only need to look plausible
// on a dashboard; the PRNG is fixed-seeded so repeated runs produce the same
// distribution.
var (
	seedIndustries = []string{
		"plumbing", "hvac", "landscaping", "auto_repair", "dental",
		"accounting", "logistics", "restaurants", "printing", "machining",
	}
	seedRegions = []string{"tx", "ok", "nm", "la", "ar", "ks", "mo", "co"}
	seedNames   = []string{
		"Lonestar", "Prairie", "Summit", "Riverbend", "Copper Creek",
		"Bluebonnet", "Heritage", "Ironwood", "Caprock", "Mesquite",
	}
	seedSuffixes = []string{"Services", "Works", "Group", "Partners", "Co", "Solutions"}
)

const seedRowCount = 500

// Seed creates the businesses table and fills it with synthetic rows.
// Idempotent: it is a no-op when the table already has data.
func (e *Engine) Seed(ctx context.Context) error {
	if _, err := e.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS businesses (
			id VARCHAR PRIMARY KEY,
			name VARCHAR NOT NULL,
			industry VARCHAR NOT NULL,
			region VARCHAR NOT NULL,
			revenue_estimate DOUBLE NOT NULL,
			employee_count INTEGER NOT NULL,
			owner_age INTEGER NOT NULL,
			longitude DOUBLE NOT NULL,
			latitude DOUBLE NOT NULL,
			founded_year INTEGER NOT NULL
		)`); err != nil {
		return fmt.Errorf("create businesses table: %w", err)
	}

	var count int
	if err := e.db.QueryRowContext(ctx, "SELECT count(*) FROM businesses").Scan(&count); err != nil {
		return fmt.Errorf("count businesses: %w", err)
	}
	if count > 0 {
		return nil // already seeded
	}

	stmt, err := e.db.PrepareContext(ctx, `
		INSERT INTO businesses
			(id, name, industry, region, revenue_estimate, employee_count,
			 owner_age, longitude, latitude, founded_year)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare seed insert: %w", err)
	}
	defer stmt.Close()

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < seedRowCount; i++ {
		name := fmt.Sprintf("%s %s %s",
			seedNames[rng.Intn(len(seedNames))],
			seedIndustries[rng.Intn(len(seedIndustries))],
			seedSuffixes[rng.Intn(len(seedSuffixes))],
		)
		if _, err := stmt.ExecContext(ctx,
			uuid.NewString(),
			name,
			seedIndustries[rng.Intn(len(seedIndustries))],
			seedRegions[rng.Intn(len(seedRegions))],
			float64(rng.Intn(20_000_000))+50_000,
			rng.Intn(250)+1,
			rng.Intn(45)+30,
			// Roughly the south-central US.
			-106.0+rng.Float64()*14.0,
			26.0+rng.Float64()*13.0,
			1960+rng.Intn(64),
		); err != nil {
			return fmt.Errorf("seed row %d: %w", i, err)
		}
	}

	e.logger.Info("seeded synthetic businesses", "rows", seedRowCount)
	return nil
}
