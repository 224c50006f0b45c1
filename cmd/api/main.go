package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	apiforecast "github.com/funkydonkey/fcf-planner/pkg/api/forecast"
	apiscenario "github.com/funkydonkey/fcf-planner/pkg/api/scenario"
	"github.com/funkydonkey/fcf-planner/pkg/core/store"
)

// AppConfig holds server settings loaded from config/app.yaml.
// Environment variables override the file.
type AppConfig struct {
	Port                  int `yaml:"port"`
	MonteCarloSimulations int `yaml:"monte_carlo_simulations"`
}

func loadConfig() AppConfig {
	cfg := AppConfig{Port: 8080, MonteCarloSimulations: 1000}

	if data, err := os.ReadFile("config/app.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			fmt.Printf("[WARNING] Invalid config/app.yaml: %v\n", err)
		}
	}
	if port := os.Getenv("PORT"); port != "" {
		fmt.Sscanf(port, "%d", &cfg.Port)
	}
	if n := os.Getenv("MONTE_CARLO_SIMULATIONS"); n != "" {
		fmt.Sscanf(n, "%d", &cfg.MonteCarloSimulations)
	}
	return cfg
}

func main() {
	// Load environment variables
	godotenv.Load()

	cfg := loadConfig()

	// Scenario persistence is optional: without DATABASE_URL the planner
	// still forecasts, it just cannot save runs.
	ctx := context.Background()
	if err := store.InitDB(ctx); err != nil {
		fmt.Printf("[WARNING] Scenario storage disabled: %v\n", err)
	} else {
		defer store.Close()
		fmt.Println("[STORE] Scenario storage connected")
	}

	scenarioHandler := apiscenario.NewHandler(store.NewScenarioRepo(), cfg.MonteCarloSimulations)

	// Forecast endpoints
	http.HandleFunc("/api/forecast/generate", apiforecast.HandleGenerate)
	http.HandleFunc("/api/forecast/validate", apiforecast.HandleValidate)
	http.HandleFunc("/api/forecast/defaults", apiforecast.HandleIndustryDefaults)

	// Scenario endpoints
	http.HandleFunc("/api/scenario/run", scenarioHandler.HandleRunScenarios)
	http.HandleFunc("/api/scenario/montecarlo", scenarioHandler.HandleMonteCarlo)
	http.HandleFunc("/api/scenario/sensitivity", scenarioHandler.HandleSensitivity)
	http.HandleFunc("/api/scenario/tornado", scenarioHandler.HandleTornado)
	http.HandleFunc("/api/scenario/save", scenarioHandler.HandleSave)
	http.HandleFunc("/api/scenario/list", scenarioHandler.HandleList)
	http.HandleFunc("/api/scenario/lines", scenarioHandler.HandleLines)

	addr := fmt.Sprintf(":%d", cfg.Port)
	fmt.Printf("API server starting on %s...\n", addr)
	fmt.Println("  - POST /api/forecast/generate")
	fmt.Println("  - POST /api/forecast/validate")
	fmt.Println("  - GET  /api/forecast/defaults?industry=<name>")
	fmt.Println("  - POST /api/scenario/run")
	fmt.Println("  - POST /api/scenario/montecarlo")
	fmt.Println("  - POST /api/scenario/sensitivity")
	fmt.Println("  - POST /api/scenario/tornado")
	fmt.Println("  - POST /api/scenario/save")
	fmt.Println("  - GET  /api/scenario/list")
	fmt.Println("  - GET  /api/scenario/lines?id=<uuid>")

	if err := http.ListenAndServe(addr, nil); err != nil {
		fmt.Printf("Server failed: %v\n", err)
		os.Exit(1)
	}
}
