// Package configs embeds the default game data. Operators can override it
// with GAME_DATA_DIR without rebuilding.
package configs

import _ "embed"

//go:embed game.yaml
var GameData []byte
