package main

import (
	"fmt"

	"github.com/owid-edu/owidrag/internal/config"
	"github.com/owid-edu/owidrag/internal/dataset"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(dataCmd)
	dataCmd.AddCommand(dataInfoCmd)
	dataCmd.AddCommand(dataCountriesCmd)
}

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Inspect the underlying dataset",
}

// openDatasetStore loads the dataset CSV into an in-memory store.
func openDatasetStore(settings config.Settings, ds config.Dataset) *dataset.Store {
	rows, err := dataset.LoadCSV(ds.CSVPath(settings.DataDir), ds.Indicator)
	if err != nil {
		exitWithError(ExitDataError, "loading dataset: %v", err)
	}

	store, err := dataset.OpenStore(":memory:")
	if err != nil {
		exitWithError(ExitError, "opening dataset store: %v", err)
	}

	if _, err := store.Rebuild(dataset.Clean(rows)); err != nil {
		store.Close()
		exitWithError(ExitError, "populating dataset store: %v", err)
	}
	return store
}

// DataInfoResponse is the response for the data info command.
type DataInfoResponse struct {
	Dataset      string `json:"dataset"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Observations int    `json:"observations"`
	Countries    int    `json:"countries"`
	MinYear      int    `json:"min_year"`
	MaxYear      int    `json:"max_year"`
}

var dataInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Summarize the dataset",
	Args:  cobra.NoArgs,
	RunE:  runDataInfo,
}

func runDataInfo(cmd *cobra.Command, args []string) error {
	settings := loadSettings()
	ds := mustDataset()

	store := openDatasetStore(settings, ds)
	defer store.Close()

	count, err := store.Count()
	if err != nil {
		exitWithError(ExitError, "counting observations: %v", err)
	}
	countries, err := store.Countries()
	if err != nil {
		exitWithError(ExitError, "listing countries: %v", err)
	}
	minYear, maxYear, err := store.Years()
	if err != nil {
		exitWithError(ExitError, "reading year range: %v", err)
	}

	resp := DataInfoResponse{
		Dataset:      ds.Key,
		Name:         ds.Name,
		Description:  ds.Description,
		Observations: count,
		Countries:    len(countries),
		MinYear:      minYear,
		MaxYear:      maxYear,
	}

	if humanOutput {
		fmt.Printf("%s (%s)\n", resp.Name, resp.Dataset)
		fmt.Printf("%s\n\n", resp.Description)
		fmt.Printf("Observations: %d | Countries: %d | Years: %d-%d\n",
			resp.Observations, resp.Countries, resp.MinYear, resp.MaxYear)
		return nil
	}

	return outputJSON(resp)
}

// DataCountriesResponse is the response for the data countries command.
type DataCountriesResponse struct {
	Dataset   string   `json:"dataset"`
	Countries []string `json:"countries"`
	Total     int      `json:"total"`
}

var dataCountriesCmd = &cobra.Command{
	Use:   "countries",
	Short: "List the countries in the dataset",
	Args:  cobra.NoArgs,
	RunE:  runDataCountries,
}

func runDataCountries(cmd *cobra.Command, args []string) error {
	settings := loadSettings()
	ds := mustDataset()

	store := openDatasetStore(settings, ds)
	defer store.Close()

	countries, err := store.Countries()
	if err != nil {
		exitWithError(ExitError, "listing countries: %v", err)
	}

	if humanOutput {
		for _, c := range countries {
			fmt.Println(c)
		}
		return nil
	}

	return outputJSON(DataCountriesResponse{
		Dataset:   ds.Key,
		Countries: countries,
		Total:     len(countries),
	})
}
