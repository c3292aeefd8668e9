package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"izboricli/internal/config"
	"izboricli/internal/dataset"
	"izboricli/internal/exporter"
	"izboricli/internal/infrastructure"
	"izboricli/internal/results"
	"izboricli/internal/variability"
	"izboricli/pkg/contracts/domain"
)

func main() {
	dataDir := flag.String("data", "", "election data directory (defaults to configured data dir)")
	outputDir := flag.String("out", "", "output directory for the report (defaults to configured reports dir)")
	topParties := flag.Int("top", 0, "number of top parties to analyze (defaults to configured value)")
	threshold := flag.Float64("threshold", -1, "minimum normalized CV for rankings (defaults to configured value)")
	limit := flag.Int("limit", 0, "maximum entries per ranking (defaults to configured value)")
	writeExcel := flag.Bool("xlsx", false, "also write an Excel workbook")
	writeCSV := flag.Bool("csv", false, "also write ranking CSV files")
	flag.Parse()

	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	if *dataDir == "" {
		*dataDir = cfg.Paths.DataDir
	}
	if *outputDir == "" {
		*outputDir = cfg.Paths.ReportsDir
	}

	analysisCfg := variability.Config{
		TopParties: cfg.Analysis.TopParties,
		Threshold:  cfg.Analysis.Threshold,
		RankLimit:  cfg.Analysis.RankLimit,
	}
	if *topParties > 0 {
		analysisCfg.TopParties = *topParties
	}
	if *threshold >= 0 {
		analysisCfg.Threshold = *threshold
	}
	if *limit > 0 {
		analysisCfg.RankLimit = *limit
	}

	logger.Info("Starting variability analysis",
		slog.String("data_dir", *dataDir),
		slog.Int("top_parties", analysisCfg.TopParties),
		slog.Float64("threshold", analysisCfg.Threshold),
		slog.Int("rank_limit", analysisCfg.RankLimit))

	loader := dataset.NewLoader(*dataDir, logger)
	normalizer := results.NewNormalizer(loader, logger)
	aggregator := results.NewAggregator(normalizer)
	analyzer := variability.NewAnalyzer(normalizer, aggregator, analysisCfg, logger)

	ctx := context.Background()
	report, err := analyzer.Run(ctx, dataset.GeneralElections())
	if err != nil {
		logger.Error("Analysis failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Analysis complete",
		slog.String("analysis_id", report.Meta.AnalysisID),
		slog.Int("settlements", len(report.Settlements)),
		slog.Int("ranked_by_total", len(report.Rankings.ByTotal)))

	writer := exporter.NewReportWriter(*outputDir, logger)
	if err := writer.WriteJSON(report, "fraud_analysis.json"); err != nil {
		logger.Error("Failed to write JSON report", "error", err)
		os.Exit(1)
	}

	if *writeCSV {
		if err := writer.WriteRankingsCSV(report); err != nil {
			logger.Error("Failed to write ranking CSVs", "error", err)
			os.Exit(1)
		}
	}

	if *writeExcel {
		excel := exporter.NewExcelExporter(*outputDir, logger)
		path, err := excel.Export(report, "fraud_analysis.xlsx")
		if err != nil {
			logger.Error("Failed to write Excel report", "error", err)
			os.Exit(1)
		}
		logger.Info("Excel report written", slog.String("path", path))
	}

	printSummary(report)
}

// printSummary prints the head of each ranking to stdout so the CLI is
// usable without opening the JSON.
func printSummary(report *domain.VariabilityReport) {
	const headSize = 10

	fmt.Println()
	fmt.Println("=== Variability Analysis Summary ===")
	fmt.Printf("Elections analyzed: %d\n", len(report.Meta.Elections))
	fmt.Printf("Settlements with defined CV: %d\n", len(report.Settlements))
	fmt.Printf("National turnout CV: %.1f\n", report.Meta.NationalCV.TotalCV)
	fmt.Println()

	fmt.Printf("Top settlements by turnout CV (threshold %.1f):\n", report.Meta.Threshold)
	for i, id := range report.Rankings.ByTotal {
		if i >= headSize {
			break
		}
		s := report.Settlements[id]
		fmt.Printf("  %2d. %s  cv=%.1f  elections=%d\n", i+1, id, s.TotalCV, s.ElectionsCount)
	}
	if len(report.Rankings.ByTotal) == 0 {
		fmt.Println("  (none above threshold)")
	}
}
