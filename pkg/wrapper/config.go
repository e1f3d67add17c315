package wrapper

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/StevenACoffman/anotherr/errors"
)

const configFileName = "GarminConnectConfig.json"

// dataDefaults are the "data" section values that, when left null,
// surface as TypeErrors inside garmindb's date and activity-count
// arithmetic.
var dataDefaults = map[string]any{
	"download_days":              3,
	"download_latest_activities": 10,
	"download_all_activities":    100,
}

// statTypes are the per-stat date ranges garmindb reads from the "data"
// section as <stat>_start_date / <stat>_end_date.
var statTypes = []string{"monitoring", "activities", "sleep", "rhr", "weight"}

// EnsureConfig makes sure GarminConnectConfig.json under dir exists and
// carries non-null defaults for every field garmindb trips over. The
// file is only rewritten when something was missing.
func EnsureConfig(logger *zap.Logger, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "unable to create config directory "+dir)
	}
	path := filepath.Join(dir, configFileName)

	config := map[string]any{}
	needsUpdate := false
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(raw, &config); jsonErr != nil {
			logger.Warn("unable to parse existing config, rebuilding",
				zap.String("path", path), zap.Error(jsonErr))
			config = map[string]any{}
			needsUpdate = true
		}
	case os.IsNotExist(err):
		needsUpdate = true
	default:
		return errors.Wrap(err, "unable to read config file "+path)
	}

	data, ok := config["data"].(map[string]any)
	if !ok {
		data = map[string]any{}
		config["data"] = data
		needsUpdate = true
	}

	for key, value := range dataDefaults {
		if existing, present := data[key]; !present || existing == nil {
			data[key] = value
			needsUpdate = true
			logger.Info("setting config default",
				zap.String("key", key), zap.Any("value", value))
		}
	}

	today := time.Now()
	startDate := today.AddDate(0, 0, -30).Format("2006-01-02")
	endDate := today.Format("2006-01-02")
	for _, stat := range statTypes {
		for key, value := range map[string]string{
			stat + "_start_date": startDate,
			stat + "_end_date":   endDate,
		} {
			if existing, present := data[key]; !present || existing == nil {
				data[key] = value
				needsUpdate = true
			}
		}
	}

	if !needsUpdate {
		return nil
	}
	out, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return errors.Wrap(err, "unable to marshal config")
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return errors.Wrap(err, "unable to write config file "+path)
	}
	logger.Info("updated config file", zap.String("path", path))
	return nil
}
