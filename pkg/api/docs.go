package api

import (
	"embed"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/swaggo/swag"
)

//go:embed swagger.json
var swaggerFS embed.FS

// SwaggerInfo registers the hand-written spec above with swaggo's global
// registry, the same way teacher's pkg/docs/openapi.go does for its own
// generated spec.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             resolveSwaggerHost(),
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "peersync introspection API",
	Description:      "Read-only debug routes over the peer coordinator",
	InfoInstanceName: "swagger",
}

func init() {
	data, err := swaggerFS.ReadFile("swagger.json")
	if err != nil {
		log.Fatalf("failed to load swagger.json: %v", err)
	}
	SwaggerInfo.SwaggerTemplate = string(data)
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// SwaggerJSON serves the raw spec at /swagger/swagger.json.
func SwaggerJSON(w http.ResponseWriter, _ *http.Request) {
	data, err := swaggerFS.ReadFile("swagger.json")
	if err != nil {
		http.Error(w, "swagger spec not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func resolveSwaggerHost() string {
	if h := os.Getenv("SWAGGER_HOST"); h != "" {
		if strings.Contains(h, ":") {
			return h
		}
		if port := os.Getenv("PEERSYNC_API_PORT"); port != "" && port != "80" {
			return h + ":" + port
		}
		return h
	}
	return "localhost"
}
