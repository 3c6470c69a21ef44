package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Telegram Alerts Configuration

[spinny]
base_url = "https://api.spinny.com"
# Prefix for relative listing links
web_url = "https://www.spinny.com"
# Per-request timeouts (e.g., "30s", "1m")
detail_timeout = "30s"
search_timeout = "15s"

# Listings to watch. Add one [[listings]] table per listing id.
[[listings]]
id = "25264538"
# label = "My Tiguan"

[search]
enabled = true
title = "🔍 Tiguan Search"
# Plural used in the "No ... found" line
subject = "Tiguans"
models = ["tiguan", "tiguan-allspace"]
cities = [
  "delhi-ncr", "bangalore", "hyderabad", "mumbai", "pune",
  "delhi", "gurgaon", "noida", "ahmedabad", "chennai",
  "kolkata", "lucknow", "jaipur", "chandigarh", "agra",
  "ambala", "coimbatore", "faridabad", "ghaziabad", "kanpur",
  "karnal", "kochi", "mysuru", "sonipat", "visakhapatnam",
]

[telegram]
# Prefer TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID in the environment
bot_token = ""
chat_id = ""
timeout = "15s"
disable_web_page_preview = true

# Override reminder times with standard cron expressions (IST)
[schedule.slots]
# morning = "0 8 * * *"
# lunch = "30 13 * * *"

[logging]
# Log level: debug, info, warn, error
level = "info"
# Also write a rotating log file
file = false
# file_path = "~/.config/telegram-alerts/logs/alerts.log"

[metrics]
# node_exporter textfile path; empty disables metrics output
textfile = ""
`

func createTemplateConfig(configDir string) (string, error) {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, FileName+".toml")
	// Credentials may be added to this file later
	if err := os.WriteFile(path, []byte(configTemplate), 0600); err != nil {
		return "", fmt.Errorf("writing config template: %w", err)
	}
	return path, nil
}
