package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "client":
		return clientTemplate, nil
	case "source":
		return sourceTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const clientTemplate = `address = "127.0.0.1"
port = 1234
auto_connect = true
connect_timeout = ""
read_timeout = ""
admin_listen_addr = "127.0.0.1:7070"
cors_origins = ["http://localhost:3000"]
`

const sourceTemplate = `listen_addr = ":1234"
interval = "1s"
absolute_percent = 5
max_delta = 10
seed = 0
`
