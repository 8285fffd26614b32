// Package config loads runtime configuration for the recipes CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory, if present. It only seeds
//     environment variables that are not set yet.
//  3. Optional YAML file selected with -c or -config.
//  4. RECIPES_* environment variables.
//  5. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the recipes server
//	-i int      online status check interval (seconds)
//	-db string  path of the local preferences database
//	-u string   start address; its query seeds the filters
//	-debug      log requests and responses
//
// # YAML schema
//
//	server_url: http://127.0.0.1:8000
//	api_prefix: /api/v1
//	http_timeout: 15s
//	search_debounce: 300ms
//	toast_timeout: 5s
//	online_check_interval: 3s
//	db_path: recipes.db
//	start_url: /?diet=vegan
//	debug: false
package config
