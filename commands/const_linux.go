package commands

const (
	_etc = "/usr/local/etc/sheets-sync"
	_var = "/usr/local/var/sheets-sync"

	DEFAULT_WORKDIR = _var
	DEFAULT_CONFIG  = _etc + "/sheets-sync.json"
	DEFAULT_ENV     = _etc + "/.env"
	DEFAULT_BIND    = "127.0.0.1:8501"
	BROWSER         = "xdg-open"
)
