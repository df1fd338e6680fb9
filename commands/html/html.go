package html

import (
	"embed"
)

//go:embed auth.html authorised.html
var HTML embed.FS
