package autogram

import (
	"os"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/pep299/autogram/internal/transport/server"
)

func init() {
	target := os.Getenv("FUNCTION_TARGET")
	if target == "" {
		target = "Autogram"
	}

	functions.HTTP(target, server.HandleRequest)
}
