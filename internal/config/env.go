package config

import "strings"

// map.zoom -> DASHBOARD_MAP_ZOOM
var envReplacer = strings.NewReplacer(".", "_")
