package hzip

import (
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("hzip")

func init() {
	// Stay quiet under go-logging's default backend.  Programs that install
	// their own backend choose the level themselves.
	logging.SetLevel(logging.WARNING, "hzip")
}
