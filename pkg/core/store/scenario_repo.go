package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/funkydonkey/fcf-planner/pkg/core/drivers"
	"github.com/funkydonkey/fcf-planner/pkg/core/forecast"
)

// ScenarioRecord is a saved scenario's listing metadata.
type ScenarioRecord struct {
	ID               uuid.UUID `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	CreatedBy        string    `json:"created_by"`
	ForecastPeriod   string    `json:"forecast_period"`
	Description      string    `json:"description"`
	TotalFinalAmount float64   `json:"total_final_amount"`
}

// ScenarioLine is one stored forecast line: the model's forecast for a
// category plus any manual adjustment.
type ScenarioLine struct {
	Category         string  `json:"category"`
	PeriodDate       string  `json:"period_date"`
	ForecastAmount   float64 `json:"forecast_amount"`
	AdjustmentAmount float64 `json:"adjustment_amount"`
	FinalAmount      float64 `json:"final_amount"`
}

// DriverSnapshot is the flattened driver state saved with a scenario.
// CCC is denormalized at save time so listings need no recomputation.
type DriverSnapshot struct {
	DSODays          float64  `json:"dso_days"`
	DPODays          float64  `json:"dpo_days"`
	DIODays          float64  `json:"dio_days"`
	CCCDays          float64  `json:"ccc_days"`
	RevenueGrowthPct float64  `json:"revenue_growth_pct"`
	GrossMarginPct   float64  `json:"gross_margin_pct"`
	CapExPct         *float64 `json:"capex_pct,omitempty"`
	InterestRatePct  *float64 `json:"interest_rate_pct,omitempty"`
	Industry         string   `json:"industry,omitempty"`
}

// SnapshotDrivers flattens a driver set for persistence.
func SnapshotDrivers(d *drivers.ForecastDrivers) DriverSnapshot {
	snap := DriverSnapshot{
		DSODays:          d.WorkingCapital.DSODays,
		DPODays:          d.WorkingCapital.DPODays,
		DIODays:          d.WorkingCapital.DIODays,
		CCCDays:          d.WorkingCapital.CCCDays(),
		RevenueGrowthPct: d.Revenue.RevenueGrowthPct,
		GrossMarginPct:   d.Revenue.GrossMarginPct,
		Industry:         string(d.Industry),
	}
	if d.CapEx != nil {
		v := d.CapEx.CapExPctOfRevenue
		snap.CapExPct = &v
	}
	if d.Financing != nil {
		v := d.Financing.InterestRatePct
		snap.InterestRatePct = &v
	}
	return snap
}

// ScenarioRepo handles scenario persistence.
type ScenarioRepo struct{}

// NewScenarioRepo creates a new repository instance.
func NewScenarioRepo() *ScenarioRepo {
	return &ScenarioRepo{}
}

// Save persists a scenario, its lines, the driver snapshot and the full
// forecast table atomically. Returns the new scenario's ID.
func (r *ScenarioRepo) Save(
	ctx context.Context,
	forecastPeriod string,
	lines []ScenarioLine,
	description string,
	createdBy string,
	snapshot DriverSnapshot,
	table forecast.Table,
) (uuid.UUID, error) {
	pool := GetPool()
	if pool == nil {
		return uuid.Nil, fmt.Errorf("database pool not initialized")
	}

	id := uuid.New()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO scenarios (id, created_at, created_by, forecast_period, description)
		VALUES ($1, $2, $3, $4, $5)`,
		id, time.Now().UTC(), createdBy, forecastPeriod, description)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert scenario: %w", err)
	}

	for _, line := range lines {
		_, err = tx.Exec(ctx, `
			INSERT INTO scenario_lines
				(scenario_id, category, period_date, forecast_amount, adjustment_amount, final_amount)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			id, line.Category, line.PeriodDate,
			line.ForecastAmount, line.AdjustmentAmount, line.FinalAmount)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to insert scenario line: %w", err)
		}
	}

	var tableJSON []byte
	if table != nil {
		tableJSON, err = json.Marshal(table)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to marshal forecast table: %w", err)
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO scenario_drivers
			(scenario_id, dso_days, dpo_days, dio_days, ccc_days,
			 revenue_growth_pct, gross_margin_pct, capex_pct, interest_rate_pct,
			 industry, forecast_json)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		id, snapshot.DSODays, snapshot.DPODays, snapshot.DIODays, snapshot.CCCDays,
		snapshot.RevenueGrowthPct, snapshot.GrossMarginPct,
		snapshot.CapExPct, snapshot.InterestRatePct,
		nullableString(snapshot.Industry), tableJSON)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert scenario drivers: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit scenario: %w", err)
	}
	return id, nil
}

// List returns all saved scenarios, newest first, with the summed final
// amount of their lines.
func (r *ScenarioRepo) List(ctx context.Context) ([]ScenarioRecord, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	rows, err := pool.Query(ctx, `
		SELECT s.id, s.created_at, s.created_by, s.forecast_period,
		       COALESCE(s.description, ''),
		       COALESCE(SUM(l.final_amount), 0)
		FROM scenarios s
		LEFT JOIN scenario_lines l ON l.scenario_id = s.id
		GROUP BY s.id
		ORDER BY s.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	defer rows.Close()

	var records []ScenarioRecord
	for rows.Next() {
		var rec ScenarioRecord
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &rec.CreatedBy,
			&rec.ForecastPeriod, &rec.Description, &rec.TotalFinalAmount); err != nil {
			return nil, fmt.Errorf("failed to scan scenario: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Lines returns the stored lines of one scenario.
func (r *ScenarioRepo) Lines(ctx context.Context, id uuid.UUID) ([]ScenarioLine, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	rows, err := pool.Query(ctx, `
		SELECT category, period_date, forecast_amount, adjustment_amount, final_amount
		FROM scenario_lines
		WHERE scenario_id = $1
		ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load scenario lines: %w", err)
	}
	defer rows.Close()

	var lines []ScenarioLine
	for rows.Next() {
		var line ScenarioLine
		if err := rows.Scan(&line.Category, &line.PeriodDate,
			&line.ForecastAmount, &line.AdjustmentAmount, &line.FinalAmount); err != nil {
			return nil, fmt.Errorf("failed to scan scenario line: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// Drivers returns the driver snapshot and forecast table saved with a
// scenario. The table may be nil when the run was saved without one.
func (r *ScenarioRepo) Drivers(ctx context.Context, id uuid.UUID) (*DriverSnapshot, forecast.Table, error) {
	pool := GetPool()
	if pool == nil {
		return nil, nil, fmt.Errorf("database pool not initialized")
	}

	var snap DriverSnapshot
	var industry *string
	var tableJSON []byte
	err := pool.QueryRow(ctx, `
		SELECT dso_days, dpo_days, dio_days, ccc_days,
		       revenue_growth_pct, gross_margin_pct, capex_pct, interest_rate_pct,
		       industry, forecast_json
		FROM scenario_drivers
		WHERE scenario_id = $1`, id).Scan(
		&snap.DSODays, &snap.DPODays, &snap.DIODays, &snap.CCCDays,
		&snap.RevenueGrowthPct, &snap.GrossMarginPct,
		&snap.CapExPct, &snap.InterestRatePct, &industry, &tableJSON)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil, fmt.Errorf("no drivers found for scenario %s", id)
		}
		return nil, nil, fmt.Errorf("failed to load scenario drivers: %w", err)
	}
	if industry != nil {
		snap.Industry = *industry
	}

	var table forecast.Table
	if len(tableJSON) > 0 {
		if err := json.Unmarshal(tableJSON, &table); err != nil {
			return nil, nil, fmt.Errorf("failed to unmarshal forecast table: %w", err)
		}
	}
	return &snap, table, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
